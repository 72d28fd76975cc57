package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nihei9/arvo/driver/parser"
	"github.com/nihei9/arvo/tester"
	"github.com/spf13/cobra"
)

var testFlags = struct {
	maxDepth *int
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "test <test file path>|<test directory path>",
		Short:   "Check that sources are parsed into expected trees",
		Example: `  arvo test testdata`,
		Args:    cobra.ExactArgs(1),
		RunE:    runTest,
	}
	testFlags.maxDepth = cmd.Flags().Int("max-depth", parser.DefaultMaxStackDepth, "maximum depth of the parser stack")
	rootCmd.AddCommand(cmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	var cs []*tester.TestCaseWithMetadata
	{
		cs = tester.ListTestCases(args[0])
		errOccurred := false
		for _, c := range cs {
			if c.Error != nil {
				fmt.Fprintf(os.Stderr, "Failed to read a test case or a directory: %v\n%v\n", c.FilePath, c.Error)
				errOccurred = true
			}
		}
		if errOccurred {
			return errors.New("cannot run test")
		}
	}

	t := &tester.Tester{
		Cases:   cs,
		Options: []parser.ParserOption{parser.MaxStackDepth(*testFlags.maxDepth)},
	}
	rs := t.Run()
	testFailed := false
	for _, r := range rs {
		fmt.Fprintln(os.Stdout, r)
		if r.Error != nil {
			testFailed = true
		}
	}
	if testFailed {
		return errors.New("test failed")
	}
	return nil
}

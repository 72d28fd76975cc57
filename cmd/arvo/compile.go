package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/nihei9/arvo/grammar"
	"github.com/nihei9/arvo/syntax"
	"github.com/spf13/cobra"
)

var compileFlags = struct {
	output *string
	report *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile",
		Short:   "Write the parsing table of the Arvo grammar in JSON format",
		Example: `  arvo compile -o arvo.json --report arvo-report.json`,
		Args:    cobra.NoArgs,
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	compileFlags.report = cmd.Flags().String("report", "", "when a path is given, also writes a report of the parsing table to the path")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	cgram, err := syntax.CompiledGrammar()
	if err != nil {
		return err
	}

	err = writeJSONFile(cgram, *compileFlags.output)
	if err != nil {
		return fmt.Errorf("cannot write the compiled grammar: %w", err)
	}

	if *compileFlags.report == "" {
		return nil
	}

	report, err := syntax.Report()
	if err != nil {
		return err
	}
	err = writeJSONFile(report, *compileFlags.report)
	if err != nil {
		return fmt.Errorf("cannot write the report: %w", err)
	}

	var implicitlyResolvedCount int
	for _, s := range report.States {
		for _, c := range s.SRConflict {
			if c.ResolvedBy == grammar.ResolvedByShift.Int() {
				implicitlyResolvedCount++
			}
		}
		for _, c := range s.RRConflict {
			if c.ResolvedBy == grammar.ResolvedByProdOrder.Int() {
				implicitlyResolvedCount++
			}
		}
	}
	if implicitlyResolvedCount > 0 {
		fmt.Fprintf(os.Stderr, "%v conflicts were resolved implicitly\n", implicitlyResolvedCount)
	}

	return nil
}

// writeJSONFile writes `v` to a file located at `path`. When `path` is empty, it writes `v` to the stdout.
func writeJSONFile(v any, path string) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

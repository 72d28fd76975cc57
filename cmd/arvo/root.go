package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var rootFlags = struct {
	verbose *int
}{}

var rootCmd = &cobra.Command{
	Use:   "arvo",
	Short: "Parse Arvo source code",
	Long: `arvo provides the front end of the Arvo language:
- Parses a source and prints its syntax tree and syntax errors.
- Prints the parsing table of the Arvo grammar.
- Serves syntax diagnostics to editors over the Language Server Protocol.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		commonlog.Configure(*rootFlags.verbose, nil)
	},
}

func init() {
	rootFlags.verbose = rootCmd.PersistentFlags().CountP("verbose", "v", "add a log verbosity level (can be repeated)")
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}

// version is reported to language clients.
var version = "0.1.0"

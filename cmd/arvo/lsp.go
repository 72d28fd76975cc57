package main

import (
	"github.com/nihei9/arvo/driver/parser"
	"github.com/nihei9/arvo/lsp"
	"github.com/spf13/cobra"
)

var lspFlags = struct {
	maxDepth *int
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Run a language server on stdio",
		Args:  cobra.NoArgs,
		RunE:  runLSP,
	}
	lspFlags.maxDepth = cmd.Flags().Int("max-depth", parser.DefaultMaxStackDepth, "maximum depth of the parser stack")
	rootCmd.AddCommand(cmd)
}

func runLSP(cmd *cobra.Command, args []string) error {
	return lsp.NewServer(version, parser.MaxStackDepth(*lspFlags.maxDepth)).RunStdio()
}

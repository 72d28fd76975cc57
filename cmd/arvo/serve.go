package main

import (
	"net/http"

	"github.com/nihei9/arvo/driver/parser"
	"github.com/nihei9/arvo/playground"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
)

var serveFlags = struct {
	addr     *string
	maxDepth *int
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Run a playground that parses sources sent over a WebSocket",
		Example: `  arvo serve --addr localhost:8080`,
		Args:    cobra.NoArgs,
		RunE:    runServe,
	}
	serveFlags.addr = cmd.Flags().String("addr", "localhost:8080", "address to listen on")
	serveFlags.maxDepth = cmd.Flags().Int("max-depth", parser.DefaultMaxStackDepth, "maximum depth of the parser stack")
	rootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", playground.NewServer(parser.MaxStackDepth(*serveFlags.maxDepth)))

	commonlog.GetLogger("arvo").Noticef("listening on ws://%v/ws", *serveFlags.addr)
	return http.ListenAndServe(*serveFlags.addr, mux)
}

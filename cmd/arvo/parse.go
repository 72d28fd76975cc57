package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/nihei9/arvo/ast"
	"github.com/nihei9/arvo/driver/parser"
	"github.com/nihei9/arvo/syntax"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	"gopkg.in/yaml.v3"
)

var parseFlags = struct {
	format       *string
	cst          *bool
	initialDepth *int
	maxDepth     *int
	trace        *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse [source file path]",
		Short:   "Parse a source and print its syntax tree",
		Example: `  cat src.arvo | arvo parse --format json`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runParse,
	}
	parseFlags.format = cmd.Flags().StringP("format", "f", "tree", "output format of an AST (tree, json, or yaml)")
	parseFlags.cst = cmd.Flags().Bool("cst", false, "when this option is enabled, the parser generates a CST instead of an AST")
	parseFlags.initialDepth = cmd.Flags().Int("initial-depth", parser.DefaultInitialStackDepth, "initial depth of the parser stack")
	parseFlags.maxDepth = cmd.Flags().Int("max-depth", parser.DefaultMaxStackDepth, "maximum depth of the parser stack")
	parseFlags.trace = cmd.Flags().Bool("trace", false, "log every action of the parser (requires -vvvv)")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) (retErr error) {
	defer func() {
		v := recover()
		if v != nil {
			retErr = fmt.Errorf("an unexpected error occurred: %v", v)
			fmt.Fprintf(os.Stderr, "%v:\n%v", retErr, string(debug.Stack()))
		}
	}()

	switch *parseFlags.format {
	case "tree", "json", "yaml":
	default:
		return fmt.Errorf("unknown format: %v", *parseFlags.format)
	}
	if *parseFlags.cst && *parseFlags.format == "yaml" {
		return fmt.Errorf("a CST cannot be printed in yaml format")
	}

	var src io.Reader = os.Stdin
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("cannot open the source file %s: %w", args[0], err)
		}
		defer f.Close()
		src = f
	}

	opts := []parser.ParserOption{
		parser.InitialStackDepth(*parseFlags.initialDepth),
		parser.MaxStackDepth(*parseFlags.maxDepth),
	}
	if *parseFlags.trace {
		opts = append(opts, parser.Logger(commonlog.GetLogger("arvo.parser")))
	}

	var outcome *parser.Result
	var tree func(w io.Writer) error
	if *parseFlags.cst {
		res, err := syntax.ParseCST(src, opts...)
		if err != nil {
			return err
		}
		outcome = res
		if n, ok := res.Value.(*parser.Node); ok && res.Status != parser.StatusAborted {
			tree = func(w io.Writer) error {
				if *parseFlags.format == "tree" {
					parser.PrintTree(w, n)
					return nil
				}
				return writeJSON(w, n)
			}
		}
	} else {
		res, err := syntax.Parse(src, opts...)
		if err != nil {
			return err
		}
		outcome = &parser.Result{
			Status:       res.Status,
			SyntaxErrors: res.SyntaxErrors,
			Cause:        res.Cause,
		}
		if res.Root != nil {
			tree = func(w io.Writer) error {
				return writeAST(w, res.Root, *parseFlags.format)
			}
		}
	}

	writeSyntaxErrors(os.Stderr, outcome.SyntaxErrors)

	if tree != nil {
		err := tree(os.Stdout)
		if err != nil {
			return err
		}
	}

	return outcomeError(outcome)
}

// outcomeError turns a parse that was not accepted into the error the command exits with.
func outcomeError(res *parser.Result) error {
	switch res.Status {
	case parser.StatusRejected:
		return fmt.Errorf("%v syntax error(s) found", res.ErrorCount())
	case parser.StatusAborted:
		return fmt.Errorf("the parser aborted: %w", res.Cause)
	}
	return nil
}

func writeSyntaxErrors(w io.Writer, synErrs []*parser.SyntaxError) {
	for _, synErr := range synErrs {
		fmt.Fprintf(w, "%v:%v: %v", synErr.Row, synErr.Col, synErr.Message)
		if tok := synErr.Token; tok != nil && !tok.EOF() {
			if tok.Invalid() {
				fmt.Fprintf(w, ": '%v' (<invalid>)", string(tok.Lexeme()))
			} else {
				fmt.Fprintf(w, ": '%v'", string(tok.Lexeme()))
			}
		}
		fmt.Fprintf(w, "\n")
	}
}

func writeAST(w io.Writer, root *ast.Root, format string) error {
	switch format {
	case "json":
		return writeJSON(w, ast.Dump(root))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err := enc.Encode(ast.Dump(root))
		if err != nil {
			return err
		}
		return enc.Close()
	}
	ast.PrintTree(w, root)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(b))
	return nil
}

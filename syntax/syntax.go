// Package syntax parses Arvo source code into an AST.
package syntax

import (
	"fmt"
	"io"
	"sync"

	"github.com/nihei9/arvo/ast"
	"github.com/nihei9/arvo/driver/parser"
	"github.com/nihei9/arvo/grammar"
	spec "github.com/nihei9/arvo/spec/grammar"
)

var (
	compileOnce sync.Once
	compiled    *spec.CompiledGrammar
	compileErr  error
)

// CompiledGrammar returns the parsing tables of Arvo. The tables are computed on the first call and
// shared by all parsers afterwards. Callers must not modify them.
func CompiledGrammar() (*spec.CompiledGrammar, error) {
	compileOnce.Do(func() {
		compiled, _, compileErr = compile()
	})
	return compiled, compileErr
}

// Report computes the tables again and returns a description of their states and conflicts.
func Report() (*spec.Report, error) {
	_, report, err := compile(grammar.EnableReporting())
	return report, err
}

func compile(opts ...grammar.CompileOption) (*spec.CompiledGrammar, *spec.Report, error) {
	b := grammar.GrammarBuilder{
		Def: Definition(),
	}
	gram, err := b.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build the grammar: %w", err)
	}
	return grammar.Compile(gram, opts...)
}

// Result is an outcome of parsing a source.
type Result struct {
	Status parser.Status

	// Root is nil when the parser aborted. When Status is parser.StatusRejected, the tree reflects the
	// recovered derivation rather than the source.
	Root *ast.Root

	SyntaxErrors []*parser.SyntaxError

	// Cause tells why the parser aborted.
	Cause error
}

// Parse parses `src`. `opts` are passed to the parser and can limit the stack depth or enable tracing.
func Parse(src io.Reader, opts ...parser.ParserOption) (*Result, error) {
	p, err := newParser(src, append([]parser.ParserOption{parser.SemanticAction(&actionSet{})}, opts...))
	if err != nil {
		return nil, err
	}
	res, err := p.Parse()
	if err != nil {
		return nil, err
	}

	r := &Result{
		Status:       res.Status,
		SyntaxErrors: res.SyntaxErrors,
		Cause:        res.Cause,
	}
	if v, ok := res.Value.(Value); ok && res.Status != parser.StatusAborted {
		r.Root = v.Node()
	}
	return r, nil
}

// ParseCST parses `src` and returns a concrete syntax tree in Result.Value.
func ParseCST(src io.Reader, opts ...parser.ParserOption) (*parser.Result, error) {
	cg, err := CompiledGrammar()
	if err != nil {
		return nil, err
	}
	gram := parser.NewGrammar(cg)
	p, err := newParser(src, append([]parser.ParserOption{parser.SemanticAction(parser.NewCSTActionSet(gram))}, opts...))
	if err != nil {
		return nil, err
	}
	return p.Parse()
}

func newParser(src io.Reader, opts []parser.ParserOption) (*parser.Parser, error) {
	cg, err := CompiledGrammar()
	if err != nil {
		return nil, err
	}
	toks, err := parser.NewTokenStream(cg, src)
	if err != nil {
		return nil, err
	}
	return parser.NewParser(toks, parser.NewGrammar(cg), opts...)
}

// actionSet builds an AST. Every semantic value is a Value.
type actionSet struct{}

var _ parser.SemanticActionSet = &actionSet{}

func (a *actionSet) Shift(tok parser.VToken) any {
	return textValue(string(tok.Lexeme()))
}

func (a *actionSet) Reduce(prodNum int, rhs []any) (any, error) {
	if prodNum <= 0 || prodNum >= len(actions) {
		return nil, fmt.Errorf("no semantic action for production %v", prodNum)
	}
	vs := make([]Value, len(rhs))
	for i, v := range rhs {
		vs[i] = v.(Value)
	}
	return actions[prodNum](vs), nil
}

func (a *actionSet) ShiftError(cause parser.VToken) any {
	return noneValue()
}

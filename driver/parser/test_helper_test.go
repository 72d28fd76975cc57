package parser

import (
	"strings"
	"testing"

	"github.com/nihei9/arvo/grammar"
	spec "github.com/nihei9/arvo/spec/grammar"
)

func lit(name, pattern string) *grammar.Terminal {
	return &grammar.Terminal{
		Name:    name,
		Alias:   "'" + pattern + "'",
		Pattern: pattern,
		Literal: true,
	}
}

func prod(lhs string, rhs ...string) *grammar.Production {
	return &grammar.Production{
		LHS: lhs,
		RHS: rhs,
	}
}

func compileTestGrammar(t *testing.T, def *grammar.Definition) *spec.CompiledGrammar {
	t.Helper()

	b := grammar.GrammarBuilder{
		Def: def,
	}
	gram, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	cg, _, err := grammar.Compile(gram)
	if err != nil {
		t.Fatal(err)
	}
	return cg
}

func newTestParser(t *testing.T, cg *spec.CompiledGrammar, src string, opts ...ParserOption) *Parser {
	t.Helper()

	toks, err := NewTokenStream(cg, strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	gram := NewGrammar(cg)
	opts = append([]ParserOption{SemanticAction(NewCSTActionSet(gram))}, opts...)
	p, err := NewParser(toks, gram, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func parseTestSource(t *testing.T, cg *spec.CompiledGrammar, src string, opts ...ParserOption) *Result {
	t.Helper()

	res, err := newTestParser(t, cg, src, opts...).Parse()
	if err != nil {
		t.Fatal(err)
	}
	return res
}

// stmtTestDefinition is a grammar that recovers from errors at statement boundaries.
//
//	s     → stmts
//	stmts → stmt | stmts stmt
//	stmt  → id semi | error semi
func stmtTestDefinition() *grammar.Definition {
	return &grammar.Definition{
		Name:  "test",
		Start: "s",
		Terminals: []*grammar.Terminal{
			{Name: "id", Pattern: "[a-z]+"},
			lit("semi", ";"),
			{Name: "ws", Pattern: "[ \t\n]+", Skip: true},
		},
		Productions: []*grammar.Production{
			prod("s", "stmts"),
			prod("stmts", "stmt"),
			prod("stmts", "stmts", "stmt"),
			prod("stmt", "id", "semi"),
			prod("stmt", "error", "semi"),
		},
	}
}

// exprTestDefinition is an ambiguous expression grammar disambiguated by precedence.
func exprTestDefinition() *grammar.Definition {
	return &grammar.Definition{
		Name:  "test",
		Start: "expr",
		Terminals: []*grammar.Terminal{
			lit("add", "+"),
			lit("mul", "*"),
			lit("pow", "^"),
			lit("l_paren", "("),
			lit("r_paren", ")"),
			{Name: "id", Pattern: "[A-Za-z0-9_]+"},
			{Name: "ws", Pattern: "[ ]+", Skip: true},
		},
		Precedence: []*grammar.PrecGroup{
			{Assoc: "right", Symbols: []string{"pow"}},
			{Assoc: "left", Symbols: []string{"mul"}},
			{Assoc: "left", Symbols: []string{"add"}},
		},
		Productions: []*grammar.Production{
			prod("expr", "expr", "add", "expr"),
			prod("expr", "expr", "mul", "expr"),
			prod("expr", "expr", "pow", "expr"),
			prod("expr", "l_paren", "expr", "r_paren"),
			prod("expr", "id"),
		},
	}
}

func termNode(kind string, text string) *Node {
	return &Node{
		Type:     NodeTypeTerminal,
		KindName: kind,
		Text:     text,
	}
}

func errorNode() *Node {
	return &Node{
		Type:     NodeTypeError,
		KindName: "error",
	}
}

func nonTermNode(kind string, children ...*Node) *Node {
	return &Node{
		Type:     NodeTypeNonTerminal,
		KindName: kind,
		Children: children,
	}
}

func testTree(t *testing.T, node, expected *Node) {
	t.Helper()

	if node.Type != expected.Type || node.KindName != expected.KindName || node.Text != expected.Text {
		t.Fatalf("unexpected node; want: %+v, got: %+v", expected, node)
	}
	if len(node.Children) != len(expected.Children) {
		t.Fatalf("unexpected children count of %v; want: %v, got: %v", node.KindName, len(expected.Children), len(node.Children))
	}
	for i, c := range node.Children {
		testTree(t, c, expected.Children[i])
	}
}

package grammar

import (
	"testing"

	"github.com/nihei9/arvo/grammar/symbol"
)

type testSymbolGenerator func(text string) symbol.Symbol

func newTestSymbolGenerator(t *testing.T, symTab *symbol.SymbolTableReader) testSymbolGenerator {
	return func(text string) symbol.Symbol {
		t.Helper()

		sym, ok := symTab.ToSymbol(text)
		if !ok {
			t.Fatalf("symbol was not found: %v", text)
		}
		return sym
	}
}

type testProductionGenerator func(lhs string, rhs ...string) *production

func newTestProductionGenerator(t *testing.T, genSym testSymbolGenerator) testProductionGenerator {
	return func(lhs string, rhs ...string) *production {
		t.Helper()

		rhsSym := []symbol.Symbol{}
		for _, text := range rhs {
			rhsSym = append(rhsSym, genSym(text))
		}
		prod, err := newProduction(genSym(lhs), rhsSym)
		if err != nil {
			t.Fatalf("failed to create a production: %v", err)
		}

		return prod
	}
}

type testLR0ItemGenerator func(lhs string, dot int, rhs ...string) *lrItem

func newTestLR0ItemGenerator(t *testing.T, genProd testProductionGenerator) testLR0ItemGenerator {
	return func(lhs string, dot int, rhs ...string) *lrItem {
		t.Helper()

		prod := genProd(lhs, rhs...)
		item, err := newLR0Item(prod, dot)
		if err != nil {
			t.Fatalf("failed to create a LR0 item: %v", err)
		}

		return item
	}
}

func withLookAhead(item *lrItem, lookAhead ...symbol.Symbol) *lrItem {
	if item.lookAhead.symbols == nil {
		item.lookAhead.symbols = map[symbol.Symbol]struct{}{}
	}

	for _, a := range lookAhead {
		item.lookAhead.symbols[a] = struct{}{}
	}

	return item
}

func buildTestGrammar(t *testing.T, def *Definition) *Grammar {
	t.Helper()

	b := GrammarBuilder{
		Def: def,
	}
	gram, err := b.Build()
	if err != nil {
		t.Fatalf("failed to build a grammar: %v", err)
	}
	return gram
}

func genTestLALR1Automaton(t *testing.T, gram *Grammar) *lalr1Automaton {
	t.Helper()

	first, err := genFirstSet(gram.productionSet)
	if err != nil {
		t.Fatalf("failed to create a FIRST set: %v", err)
	}
	lr0, err := genLR0Automaton(gram.productionSet, gram.augmentedStartSymbol, symbol.SymbolError)
	if err != nil {
		t.Fatalf("failed to create a LR0 automaton: %v", err)
	}
	automaton, err := genLALR1Automaton(lr0, gram.productionSet, first)
	if err != nil {
		t.Fatalf("failed to create a LALR1 automaton: %v", err)
	}
	return automaton
}

func genTestParsingTable(t *testing.T, gram *Grammar) (*ParsingTable, *lrTableBuilder) {
	t.Helper()

	automaton := genTestLALR1Automaton(t, gram)
	b := &lrTableBuilder{
		automaton:    automaton.lr0Automaton,
		prods:        gram.productionSet,
		termCount:    gram.symbolTable.TerminalCount(),
		nonTermCount: gram.symbolTable.NonTerminalCount(),
		symTab:       gram.symbolTable,
		precAndAssoc: gram.precAndAssoc,
	}
	ptab, err := b.build()
	if err != nil {
		t.Fatalf("failed to create a parsing table: %v", err)
	}
	return ptab, b
}

func lit(name, pattern string) *Terminal {
	return &Terminal{
		Name:    name,
		Alias:   "'" + pattern + "'",
		Pattern: pattern,
		Literal: true,
	}
}

func prod(lhs string, rhs ...string) *Production {
	return &Production{
		LHS: lhs,
		RHS: rhs,
	}
}

// lalrTestDefinition is a grammar belonging to LALR(1) class, not SLR(1).
//
//	s → l eq r | r
//	l → ref r | id
//	r → l
func lalrTestDefinition() *Definition {
	return &Definition{
		Name:  "test",
		Start: "s",
		Terminals: []*Terminal{
			lit("eq", "="),
			lit("ref", "*"),
			{Name: "id", Pattern: "[A-Za-z0-9_]+"},
		},
		Productions: []*Production{
			prod("s", "l", "eq", "r"),
			prod("s", "r"),
			prod("l", "ref", "r"),
			prod("l", "id"),
			prod("r", "l"),
		},
	}
}

// exprTestDefinition is an ambiguous expression grammar disambiguated by precedence.
func exprTestDefinition() *Definition {
	return &Definition{
		Name:  "test",
		Start: "expr",
		Terminals: []*Terminal{
			lit("add", "+"),
			lit("mul", "*"),
			lit("pow", "^"),
			lit("l_paren", "("),
			lit("r_paren", ")"),
			{Name: "id", Pattern: "[a-z]+"},
			{Name: "ws", Pattern: "[ ]+", Skip: true},
		},
		Precedence: []*PrecGroup{
			{Assoc: "right", Symbols: []string{"pow"}},
			{Assoc: "left", Symbols: []string{"mul"}},
			{Assoc: "left", Symbols: []string{"add"}},
		},
		Productions: []*Production{
			prod("expr", "expr", "add", "expr"),
			prod("expr", "expr", "mul", "expr"),
			prod("expr", "expr", "pow", "expr"),
			prod("expr", "l_paren", "expr", "r_paren"),
			prod("expr", "l_paren", "error", "r_paren"),
			prod("expr", "id"),
		},
	}
}

package grammar

import (
	"testing"

	"github.com/nihei9/arvo/grammar/symbol"
)

type first struct {
	lhs     string
	num     int
	dot     int
	symbols []string
	empty   bool
}

func TestGenFirst(t *testing.T) {
	tests := []struct {
		caption string
		def     *Definition
		first   []first
	}{
		{
			caption: "productions contain only non-empty productions",
			def:     lalrTestDefinition(),
			first: []first{
				{lhs: "s'", num: 0, dot: 0, symbols: []string{"ref", "id"}},
				{lhs: "s'", num: 0, dot: 1, symbols: []string{"<eof>"}},
				{lhs: "s", num: 0, dot: 0, symbols: []string{"ref", "id"}},
				{lhs: "s", num: 0, dot: 1, symbols: []string{"eq"}},
				{lhs: "s", num: 0, dot: 2, symbols: []string{"ref", "id"}},
				{lhs: "s", num: 1, dot: 0, symbols: []string{"ref", "id"}},
				{lhs: "l", num: 0, dot: 0, symbols: []string{"ref"}},
				{lhs: "l", num: 0, dot: 1, symbols: []string{"ref", "id"}},
				{lhs: "l", num: 1, dot: 0, symbols: []string{"id"}},
				{lhs: "r", num: 0, dot: 0, symbols: []string{"ref", "id"}},
			},
		},
		{
			caption: "productions contain the empty start production",
			def: &Definition{
				Name:  "test",
				Start: "s",
				Productions: []*Production{
					prod("s"),
				},
			},
			first: []first{
				{lhs: "s'", num: 0, dot: 0, symbols: []string{"<eof>"}},
				{lhs: "s", num: 0, dot: 0, symbols: []string{}, empty: true},
			},
		},
		{
			caption: "productions contain an empty production",
			def: &Definition{
				Name:  "test",
				Start: "s",
				Terminals: []*Terminal{
					lit("b", "b"),
				},
				Productions: []*Production{
					prod("s", "foo", "bar"),
					prod("foo"),
					prod("bar", "b"),
				},
			},
			first: []first{
				{lhs: "s'", num: 0, dot: 0, symbols: []string{"b"}},
				{lhs: "s", num: 0, dot: 0, symbols: []string{"b"}},
				{lhs: "s", num: 0, dot: 1, symbols: []string{"b"}},
				{lhs: "foo", num: 0, dot: 0, symbols: []string{}, empty: true},
				{lhs: "bar", num: 0, dot: 0, symbols: []string{"b"}},
			},
		},
		{
			caption: "the error symbol can be a member of FIRST",
			def:     exprTestDefinition(),
			first: []first{
				{lhs: "expr", num: 4, dot: 0, symbols: []string{"l_paren"}},
				{lhs: "expr", num: 4, dot: 1, symbols: []string{"error"}},
				{lhs: "expr", num: 4, dot: 2, symbols: []string{"r_paren"}},
				{lhs: "expr", num: 4, dot: 3, symbols: []string{}, empty: true},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			gram := buildTestGrammar(t, tt.def)
			fst, err := genFirstSet(gram.productionSet)
			if err != nil {
				t.Fatal(err)
			}

			for _, ttFirst := range tt.first {
				lhsSym, ok := gram.symbolTable.ToSymbol(ttFirst.lhs)
				if !ok {
					t.Fatalf("a symbol was not found; symbol: %v", ttFirst.lhs)
				}

				prods, ok := gram.productionSet.findByLHS(lhsSym)
				if !ok {
					t.Fatalf("a production was not found; symbol: %v", lhsSym)
				}

				actualFirst, err := fst.find(prods[ttFirst.num], ttFirst.dot)
				if err != nil {
					t.Fatalf("failed to get a FIRST set; LHS: %v (%v), num: %v, dot: %v, error: %v", ttFirst.lhs, lhsSym, ttFirst.num, ttFirst.dot, err)
				}

				expectedFirst := genExpectedFirstEntry(t, ttFirst.symbols, ttFirst.empty, gram.symbolTable)

				testFirst(t, actualFirst, expectedFirst)
			}
		})
	}
}

func genExpectedFirstEntry(t *testing.T, symbols []string, empty bool, symTab *symbol.SymbolTableReader) *firstEntry {
	t.Helper()

	entry := newFirstEntry()
	if empty {
		entry.empty = true
	}
	for _, sym := range symbols {
		symSym, ok := symTab.ToSymbol(sym)
		if !ok {
			t.Fatalf("a symbol was not found; symbol: %v", sym)
		}
		entry.add(symSym)
	}

	return entry
}

func testFirst(t *testing.T, actual, expected *firstEntry) {
	if actual.empty != expected.empty {
		t.Errorf("empty is mismatched\nwant: %v\ngot: %v", expected.empty, actual.empty)
	}

	if len(actual.symbols) != len(expected.symbols) {
		t.Fatalf("invalid FIRST set\nwant: %+v\ngot: %+v", expected.symbols, actual.symbols)
	}

	for eSym := range expected.symbols {
		if _, ok := actual.symbols[eSym]; !ok {
			t.Fatalf("invalid FIRST set\nwant: %+v\ngot: %+v", expected.symbols, actual.symbols)
		}
	}
}

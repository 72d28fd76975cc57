package symbol

import (
	"fmt"
	"testing"
)

func TestSymbol(t *testing.T) {
	tab := NewSymbolTable()
	w := tab.Writer()
	_, _ = w.RegisterStartSymbol("expr'")
	_, _ = w.RegisterNonTerminalSymbol("expr")
	_, _ = w.RegisterNonTerminalSymbol("term")
	_, _ = w.RegisterNonTerminalSymbol("factor")
	_, _ = w.RegisterTerminalSymbol("id")
	_, _ = w.RegisterTerminalSymbol("add")
	_, _ = w.RegisterTerminalSymbol("mul")
	_, _ = w.RegisterTerminalSymbol("l_paren")
	_, _ = w.RegisterTerminalSymbol("r_paren")

	nonTermTexts := []string{
		"expr'",
		"expr",
		"term",
		"factor",
	}

	termTexts := []string{
		SymbolNameEOF,
		SymbolNameError,
		SymbolNameUndefined,
		"id",
		"add",
		"mul",
		"l_paren",
		"r_paren",
	}

	tests := []struct {
		text          string
		num           int
		isStart       bool
		isEOF         bool
		isError       bool
		isNonTerminal bool
		isTerminal    bool
	}{
		{
			text:          "expr'",
			num:           0,
			isStart:       true,
			isNonTerminal: true,
		},
		{
			text:          "expr",
			num:           1,
			isNonTerminal: true,
		},
		{
			text:          "factor",
			num:           3,
			isNonTerminal: true,
		},
		{
			text:       SymbolNameEOF,
			num:        0,
			isEOF:      true,
			isTerminal: true,
		},
		{
			text:       SymbolNameError,
			num:        1,
			isError:    true,
			isTerminal: true,
		},
		{
			text:       SymbolNameUndefined,
			num:        2,
			isTerminal: true,
		},
		{
			text:       "id",
			num:        3,
			isTerminal: true,
		},
		{
			text:       "r_paren",
			num:        7,
			isTerminal: true,
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v", i), func(t *testing.T) {
			r := tab.Reader()
			sym, ok := r.ToSymbol(tt.text)
			if !ok {
				t.Fatalf("symbol was not found")
			}
			testSymbolProperty(t, sym, tt.isStart, tt.isEOF, tt.isError, tt.isNonTerminal, tt.isTerminal)
			if sym.Num().Int() != tt.num {
				t.Fatalf("unexpected symbol number; want: %v, got: %v", tt.num, sym.Num())
			}
			text, ok := r.ToText(sym)
			if !ok {
				t.Fatalf("text was not found")
			}
			if text != tt.text {
				t.Fatalf("unexpected text representation; want: %v, got: %v", tt.text, text)
			}
		})
	}

	t.Run("nil symbol", func(t *testing.T) {
		testSymbolProperty(t, SymbolNil, false, false, false, false, false)
		if !SymbolNil.IsNil() {
			t.Fatalf("the nil symbol must be nil")
		}
	})

	t.Run("texts", func(t *testing.T) {
		r := tab.Reader()
		nts, err := r.NonTerminalTexts()
		if err != nil {
			t.Fatal(err)
		}
		if len(nts) != len(nonTermTexts) {
			t.Fatalf("unexpected non-terminal count; want: %v (%#v), got: %v (%#v)", len(nonTermTexts), nonTermTexts, len(nts), nts)
		}
		for i, text := range nonTermTexts {
			if nts[i] != text {
				t.Fatalf("unexpected non-terminal; want: %v, got: %v", text, nts[i])
			}
		}

		ts, err := r.TerminalTexts()
		if err != nil {
			t.Fatal(err)
		}
		if len(ts) != len(termTexts) {
			t.Fatalf("unexpected terminal count; want: %v (%#v), got: %v (%#v)", len(termTexts), termTexts, len(ts), ts)
		}
		for i, text := range termTexts {
			if ts[i] != text {
				t.Fatalf("unexpected terminal; want: %v, got: %v", text, ts[i])
			}
		}
		if r.TerminalCount() != len(termTexts) {
			t.Fatalf("unexpected terminal count; want: %v, got: %v", len(termTexts), r.TerminalCount())
		}
		if r.NonTerminalCount() != len(nonTermTexts) {
			t.Fatalf("unexpected non-terminal count; want: %v, got: %v", len(nonTermTexts), r.NonTerminalCount())
		}
	})

	t.Run("a name cannot change its kind", func(t *testing.T) {
		if _, err := w.RegisterTerminalSymbol("expr"); err == nil {
			t.Fatalf("an error must occur")
		}
		if _, err := w.RegisterNonTerminalSymbol("id"); err == nil {
			t.Fatalf("an error must occur")
		}
		if _, err := w.RegisterNonTerminalSymbol(SymbolNameError); err == nil {
			t.Fatalf("an error must occur")
		}
	})
}

func testSymbolProperty(t *testing.T, sym Symbol, isStart, isEOF, isError, isNonTerminal, isTerminal bool) {
	t.Helper()

	if v := sym.IsStart(); v != isStart {
		t.Fatalf("isStart property is mismatched; want: %v, got: %v", isStart, v)
	}
	if v := sym.IsEOF(); v != isEOF {
		t.Fatalf("isEOF property is mismatched; want: %v, got: %v", isEOF, v)
	}
	if v := sym.IsError(); v != isError {
		t.Fatalf("isError property is mismatched; want: %v, got: %v", isError, v)
	}
	if v := sym.IsNonTerminal(); v != isNonTerminal {
		t.Fatalf("isNonTerminal property is mismatched; want: %v, got: %v", isNonTerminal, v)
	}
	if v := sym.IsTerminal(); v != isTerminal {
		t.Fatalf("isTerminal property is mismatched; want: %v, got: %v", isTerminal, v)
	}
}

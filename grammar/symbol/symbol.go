package symbol

import (
	"fmt"
)

type symbolKind string

const (
	symbolKindNonTerminal = symbolKind("non-terminal")
	symbolKindTerminal    = symbolKind("terminal")
)

func (t symbolKind) String() string {
	return string(t)
}

type SymbolNum uint16

func (n SymbolNum) Int() int {
	return int(n)
}

// Symbol packs a kind and a number into 16 bits.
//
//	1... .... .... .... terminal
//	.1.. .... .... .... non-nil
//	..xx xxxx xxxx xxxx number
//
// Terminals and non-terminals are numbered independently, and both start from 0 so that the numbers
// can be used as table indexes as they are.
type Symbol uint16

func (s Symbol) String() string {
	kind, num := s.describe()
	if s.IsNil() {
		return "<nil>"
	}
	return fmt.Sprintf("%v%v", kind.String()[:1], num)
}

const (
	maskKindPart   = uint16(0x8000) // 1000 0000 0000 0000
	maskValidPart  = uint16(0x4000) // 0100 0000 0000 0000
	maskNumberPart = uint16(0x3fff) // 0011 1111 1111 1111

	maskNonTerminal = uint16(0x0000)
	maskTerminal    = uint16(0x8000)

	symbolNumMax = SymbolNum(maskNumberPart)
)

const (
	SymbolNil = Symbol(0)

	// The following symbols are registered to every symbol table in this order, so their numbers are fixed.
	SymbolEOF       = Symbol(maskTerminal | maskValidPart | 0)
	SymbolError     = Symbol(maskTerminal | maskValidPart | 1)
	SymbolUndefined = Symbol(maskTerminal | maskValidPart | 2)

	symbolStart = Symbol(maskNonTerminal | maskValidPart | 0)

	// These names contain characters that user-defined symbols cannot have.
	SymbolNameEOF       = "<eof>"
	SymbolNameUndefined = "$undefined"

	// The error symbol is a reserved word rather than a special name because it appears in productions.
	SymbolNameError = "error"

	terminalNumMin    = SymbolNum(3)
	nonTerminalNumMin = SymbolNum(1)
)

func newSymbol(kind symbolKind, num SymbolNum) (Symbol, error) {
	if num > symbolNumMax {
		return SymbolNil, fmt.Errorf("a symbol number exceeds the limit; limit: %v, passed: %v", symbolNumMax, num)
	}

	kindMask := maskNonTerminal
	if kind == symbolKindTerminal {
		kindMask = maskTerminal
	}
	return Symbol(kindMask | maskValidPart | uint16(num)), nil
}

func (s Symbol) Num() SymbolNum {
	_, num := s.describe()
	return num
}

func (s Symbol) Byte() []byte {
	return []byte{byte(uint16(s) >> 8), byte(uint16(s) & 0x00ff)}
}

func (s Symbol) IsNil() bool {
	return uint16(s)&maskValidPart == 0
}

func (s Symbol) IsStart() bool {
	return s == symbolStart
}

func (s Symbol) IsEOF() bool {
	return s == SymbolEOF
}

func (s Symbol) IsError() bool {
	return s == SymbolError
}

func (s Symbol) IsNonTerminal() bool {
	if s.IsNil() {
		return false
	}
	kind, _ := s.describe()
	return kind == symbolKindNonTerminal
}

func (s Symbol) IsTerminal() bool {
	if s.IsNil() {
		return false
	}
	return !s.IsNonTerminal()
}

func (s Symbol) describe() (symbolKind, SymbolNum) {
	kind := symbolKindNonTerminal
	if uint16(s)&maskKindPart > 0 {
		kind = symbolKindTerminal
	}
	return kind, SymbolNum(uint16(s) & maskNumberPart)
}

// SymbolTable maps symbol names to symbols and back. Names are stored in slices indexed by symbol
// numbers, so the order of registration fixes the numbering.
type SymbolTable struct {
	byName   map[string]Symbol
	terms    []string
	nonTerms []string
}

// SymbolTableWriter registers symbols.
type SymbolTableWriter struct {
	*SymbolTable
}

// SymbolTableReader looks symbols up.
type SymbolTableReader struct {
	*SymbolTable
}

// NewSymbolTable returns a table holding the reserved terminals and a slot for the start symbol.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		byName: map[string]Symbol{
			SymbolNameEOF:       SymbolEOF,
			SymbolNameError:     SymbolError,
			SymbolNameUndefined: SymbolUndefined,
		},
		terms:    []string{SymbolNameEOF, SymbolNameError, SymbolNameUndefined},
		nonTerms: []string{""},
	}
}

func (t *SymbolTable) Writer() *SymbolTableWriter {
	return &SymbolTableWriter{
		SymbolTable: t,
	}
}

func (t *SymbolTable) Reader() *SymbolTableReader {
	return &SymbolTableReader{
		SymbolTable: t,
	}
}

func (w *SymbolTableWriter) RegisterStartSymbol(text string) (Symbol, error) {
	if sym, ok := w.byName[text]; ok && sym != symbolStart {
		return SymbolNil, fmt.Errorf("the start symbol name is already used: %v", text)
	}
	if old := w.nonTerms[0]; old != "" {
		delete(w.byName, old)
	}
	w.byName[text] = symbolStart
	w.nonTerms[0] = text
	return symbolStart, nil
}

func (w *SymbolTableWriter) RegisterNonTerminalSymbol(text string) (Symbol, error) {
	return w.register(symbolKindNonTerminal, text, &w.nonTerms)
}

func (w *SymbolTableWriter) RegisterTerminalSymbol(text string) (Symbol, error) {
	return w.register(symbolKindTerminal, text, &w.terms)
}

// register returns the symbol already named `text`, or appends a new one to `names`. A name keeps the
// kind it was first registered with.
func (w *SymbolTableWriter) register(kind symbolKind, text string, names *[]string) (Symbol, error) {
	if sym, ok := w.byName[text]; ok {
		if k, _ := sym.describe(); k != kind {
			return SymbolNil, fmt.Errorf("%v is already registered as a %v symbol", text, k)
		}
		return sym, nil
	}
	sym, err := newSymbol(kind, SymbolNum(len(*names)))
	if err != nil {
		return SymbolNil, err
	}
	w.byName[text] = sym
	*names = append(*names, text)
	return sym, nil
}

func (r *SymbolTableReader) ToSymbol(text string) (Symbol, bool) {
	sym, ok := r.byName[text]
	return sym, ok
}

func (r *SymbolTableReader) ToText(sym Symbol) (string, bool) {
	if sym.IsNil() {
		return "", false
	}
	names := r.nonTerms
	if sym.IsTerminal() {
		names = r.terms
	}
	n := sym.Num().Int()
	if n >= len(names) || names[n] == "" {
		return "", false
	}
	return names[n], true
}

// TerminalSymbols returns all terminal symbols, including the reserved ones, in ascending order.
func (r *SymbolTableReader) TerminalSymbols() []Symbol {
	return symbolsOf(symbolKindTerminal, len(r.terms))
}

// NonTerminalSymbols returns all non-terminal symbols, including the start symbol, in ascending order.
func (r *SymbolTableReader) NonTerminalSymbols() []Symbol {
	return symbolsOf(symbolKindNonTerminal, len(r.nonTerms))
}

func symbolsOf(kind symbolKind, count int) []Symbol {
	syms := make([]Symbol, count)
	for i := range syms {
		syms[i], _ = newSymbol(kind, SymbolNum(i))
	}
	return syms
}

func (r *SymbolTableReader) TerminalTexts() ([]string, error) {
	if len(r.terms) == terminalNumMin.Int() {
		return nil, fmt.Errorf("symbol table has no terminals")
	}
	return r.terms, nil
}

func (r *SymbolTableReader) NonTerminalTexts() ([]string, error) {
	if len(r.nonTerms) == nonTerminalNumMin.Int() || r.nonTerms[0] == "" {
		return nil, fmt.Errorf("symbol table has no non-terminals or no start symbol")
	}
	return r.nonTerms, nil
}

// TerminalCount returns the number of terminal symbols, including the reserved ones.
func (r *SymbolTableReader) TerminalCount() int {
	return len(r.terms)
}

// NonTerminalCount returns the number of non-terminal symbols, including the start symbol.
func (r *SymbolTableReader) NonTerminalCount() int {
	return len(r.nonTerms)
}

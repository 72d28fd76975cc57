package parser

import (
	"github.com/nihei9/arvo/compressor"
	spec "github.com/nihei9/arvo/spec/grammar"
)

type grammarImpl struct {
	g      *spec.CompiledGrammar
	action *compressor.RowDisplacementTable
	goTo   *compressor.UniqueEntriesTable
}

// NewGrammar returns a Grammar that reads the compressed tables of `g` directly.
func NewGrammar(g *spec.CompiledGrammar) *grammarImpl {
	act := g.Syntactic.Action
	goTo := g.Syntactic.GoTo
	return &grammarImpl{
		g: g,
		action: &compressor.RowDisplacementTable{
			OriginalRowCount: act.OriginalRowCount,
			OriginalColCount: act.OriginalColCount,
			EmptyValue:       act.EmptyValue,
			Entries:          act.Entries,
			Bounds:           act.Bounds,
			RowDisplacement:  act.RowDisplacement,
		},
		goTo: &compressor.UniqueEntriesTable{
			UniqueEntries:    goTo.UniqueEntries,
			RowNums:          goTo.RowNums,
			OriginalRowCount: goTo.OriginalRowCount,
			OriginalColCount: goTo.OriginalColCount,
		},
	}
}

func (g *grammarImpl) InitialState() int {
	return g.g.Syntactic.InitialState
}

func (g *grammarImpl) AcceptState() int {
	return g.g.Syntactic.AcceptState
}

func (g *grammarImpl) StartProduction() int {
	return g.g.Syntactic.StartProduction
}

func (g *grammarImpl) Action(state int, terminal int) int {
	act, err := g.action.Lookup(state, terminal)
	if err != nil {
		return spec.ActionEntryError
	}
	return act
}

func (g *grammarImpl) DefaultReduction(state int) int {
	return g.g.Syntactic.DefaultReductions[state]
}

func (g *grammarImpl) DefaultOnly(state int) bool {
	return g.g.Syntactic.DefaultOnlyStates[state] != 0
}

func (g *grammarImpl) GoTo(state int, lhs int) int {
	next, err := g.goTo.Lookup(state, lhs)
	if err != nil {
		return 0
	}
	return next
}

func (g *grammarImpl) AlternativeSymbolCount(prod int) int {
	return g.g.Syntactic.AlternativeSymbolCounts[prod]
}

func (g *grammarImpl) LHS(prod int) int {
	return g.g.Syntactic.LHSSymbols[prod]
}

func (g *grammarImpl) TerminalCount() int {
	return g.g.Syntactic.TerminalCount
}

func (g *grammarImpl) ErrorTrapperState(state int) bool {
	return g.g.Syntactic.ErrorTrapperStates[state] != 0
}

func (g *grammarImpl) EOF() int {
	return g.g.Syntactic.EOFSymbol
}

func (g *grammarImpl) Error() int {
	return g.g.Syntactic.ErrorSymbol
}

func (g *grammarImpl) Undefined() int {
	return g.g.Syntactic.UndefinedSymbol
}

// Translate converts a raw kind ID a lexer returned into a terminal number. IDs out of the range the
// lexical specification knows become the undefined terminal.
func (g *grammarImpl) Translate(kindID int) int {
	kind2Term := g.g.Lexical.KindToTerminal
	if kindID < 1 || kindID >= len(kind2Term) {
		return g.Undefined()
	}
	return kind2Term[kindID]
}

func (g *grammarImpl) Terminal(terminal int) string {
	return g.g.Syntactic.Terminals[terminal]
}

func (g *grammarImpl) TerminalAlias(terminal int) string {
	return g.g.Syntactic.TerminalAliases[terminal]
}

func (g *grammarImpl) NonTerminal(nonTerminal int) string {
	return g.g.Syntactic.NonTerminals[nonTerminal]
}

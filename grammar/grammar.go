package grammar

import (
	"fmt"
	"io"
	"strings"

	"github.com/nihei9/arvo/compressor"
	verr "github.com/nihei9/arvo/error"
	"github.com/nihei9/arvo/grammar/symbol"
	spec "github.com/nihei9/arvo/spec/grammar"
	mlcompiler "github.com/nihei9/maleeni/compiler"
	mlspec "github.com/nihei9/maleeni/spec"
)

type assocType string

const (
	assocTypeNil   = assocType("")
	assocTypeLeft  = assocType("left")
	assocTypeRight = assocType("right")
)

const (
	precNil = 0
	precMin = 1
)

// precAndAssoc represents precedence and associativities of terminal symbols and productions.
// We use the priority of the production to resolve shift/reduce conflicts.
type precAndAssoc struct {
	// termPrec and termAssoc represent the precedence of the terminal symbols.
	termPrec  map[symbol.SymbolNum]int
	termAssoc map[symbol.SymbolNum]assocType

	// prodPrec and prodAssoc represent the precedence and the associativities of the production.
	// These values are inherited from the right-most terminal symbols in the RHS of the productions.
	prodPrec  map[productionNum]int
	prodAssoc map[productionNum]assocType
}

func (pa *precAndAssoc) terminalPrecedence(sym symbol.SymbolNum) int {
	prec, ok := pa.termPrec[sym]
	if !ok {
		return precNil
	}

	return prec
}

func (pa *precAndAssoc) terminalAssociativity(sym symbol.SymbolNum) assocType {
	assoc, ok := pa.termAssoc[sym]
	if !ok {
		return assocTypeNil
	}

	return assoc
}

func (pa *precAndAssoc) productionPredence(prod productionNum) int {
	prec, ok := pa.prodPrec[prod]
	if !ok {
		return precNil
	}

	return prec
}

func (pa *precAndAssoc) productionAssociativity(prod productionNum) assocType {
	assoc, ok := pa.prodAssoc[prod]
	if !ok {
		return assocTypeNil
	}

	return assoc
}

// Terminal defines a terminal symbol and the lexical pattern producing it.
type Terminal struct {
	Name string

	// Alias is a human-friendly name used in diagnostics, such as `'('` for `l_paren`.
	Alias string

	Pattern string

	// When Literal is true, Pattern matches itself and its meta characters have no special meaning.
	Literal bool

	// When Skip is true, a lexer drops tokens of the terminal and a parser never sees them.
	Skip bool
}

// PrecGroup is a set of terminals sharing precedence and associativity.
type PrecGroup struct {
	// Assoc is either "left" or "right".
	Assoc   string
	Symbols []string
}

type Production struct {
	LHS string
	RHS []string

	// Prec is a terminal whose precedence the production uses instead of its right-most terminal's.
	Prec string
}

// Definition is a grammar written as Go values.
//
// Productions are numbered from 1 in the order they appear, and the production 0 is reserved for
// the augmented start production `S' → Start <eof>`.
type Definition struct {
	Name      string
	Start     string
	Terminals []*Terminal

	// Precedence lists precedence groups from the highest to the lowest.
	Precedence  []*PrecGroup
	Productions []*Production
}

type Grammar struct {
	name                 string
	lexSpec              *mlspec.LexSpec
	skipLexKinds         []mlspec.LexKindName
	aliases              map[symbol.Symbol]string
	patterns             map[symbol.Symbol]string
	productionSet        *productionSet
	augmentedStartSymbol symbol.Symbol
	symbolTable          *symbol.SymbolTableReader
	precAndAssoc         *precAndAssoc
}

// Production returns the text form of a production. It is mainly for diagnostics.
func (g *Grammar) Production(num int) (string, bool) {
	prod, ok := g.productionSet.findByNum(productionNum(num))
	if !ok {
		return "", false
	}
	return prod.format(g.symbolTable), true
}

// ProductionCount returns the number of productions including the augmented start production.
func (g *Grammar) ProductionCount() int {
	return g.productionSet.count()
}

type GrammarBuilder struct {
	Def *Definition

	errs verr.SpecErrors
}

func (b *GrammarBuilder) Build() (*Grammar, error) {
	def := b.Def

	if def.Name == "" {
		b.errs = append(b.errs, &verr.SpecError{
			Cause: semErrNoGrammarName,
		})
	}
	if def.Start == "" {
		b.errs = append(b.errs, &verr.SpecError{
			Cause: semErrNoStartSymbol,
		})
	}
	if len(def.Productions) == 0 {
		b.errs = append(b.errs, &verr.SpecError{
			Cause: semErrNoProduction,
		})
	}
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	symTab := symbol.NewSymbolTable()
	w := symTab.Writer()
	r := symTab.Reader()

	lexSpec, skip, aliases, patterns := b.genLexSpec(def, w)
	lexSpec.Name = def.Name

	startSym, err := b.genNonTerminals(def, w, r)
	if err != nil {
		return nil, err
	}

	prods, explicitPrec := b.genProductionSet(def, startSym, r, skip)

	b.checkUnusedSymbols(def, prods, r, skip)

	pa := b.genPrecAndAssoc(def, prods, explicitPrec, r)

	if len(b.errs) > 0 {
		return nil, b.errs
	}

	skipKinds := make([]mlspec.LexKindName, 0, len(skip))
	for _, t := range def.Terminals {
		if t.Skip {
			skipKinds = append(skipKinds, mlspec.LexKindName(t.Name))
		}
	}

	return &Grammar{
		name:                 def.Name,
		lexSpec:              lexSpec,
		skipLexKinds:         skipKinds,
		aliases:              aliases,
		patterns:             patterns,
		productionSet:        prods,
		augmentedStartSymbol: startSym,
		symbolTable:          r,
		precAndAssoc:         pa,
	}, nil
}

func isReservedName(name string) bool {
	switch name {
	case symbol.SymbolNameEOF, symbol.SymbolNameError, symbol.SymbolNameUndefined:
		return true
	}
	return false
}

func (b *GrammarBuilder) genLexSpec(def *Definition, w *symbol.SymbolTableWriter) (*mlspec.LexSpec, map[symbol.Symbol]struct{}, map[symbol.Symbol]string, map[symbol.Symbol]string) {
	lexSpec := &mlspec.LexSpec{}
	skip := map[symbol.Symbol]struct{}{}
	aliases := map[symbol.Symbol]string{}
	patterns := map[symbol.Symbol]string{}
	known := map[string]struct{}{}
	for _, t := range def.Terminals {
		if isReservedName(t.Name) {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:    semErrReservedName,
				Location: t.Name,
			})
			continue
		}
		if _, ok := known[t.Name]; ok {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:    semErrDuplicateTerminal,
				Location: t.Name,
			})
			continue
		}
		known[t.Name] = struct{}{}
		if t.Pattern == "" {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:    semErrNoPattern,
				Location: t.Name,
			})
			continue
		}

		sym, err := w.RegisterTerminalSymbol(t.Name)
		if err != nil {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:    semErrDuplicateName,
				Detail:   err.Error(),
				Location: t.Name,
			})
			continue
		}

		pattern := t.Pattern
		if t.Literal {
			pattern = mlspec.EscapePattern(t.Pattern)
		}
		lexSpec.Entries = append(lexSpec.Entries, &mlspec.LexEntry{
			Kind:    mlspec.LexKindName(t.Name),
			Pattern: mlspec.LexPattern(pattern),
		})

		if t.Skip {
			skip[sym] = struct{}{}
		}
		if t.Alias != "" {
			aliases[sym] = t.Alias
		}
		patterns[sym] = t.Pattern
	}
	return lexSpec, skip, aliases, patterns
}

func (b *GrammarBuilder) genNonTerminals(def *Definition, w *symbol.SymbolTableWriter, r *symbol.SymbolTableReader) (symbol.Symbol, error) {
	startSym, err := w.RegisterStartSymbol(def.Start + "'")
	if err != nil {
		return symbol.SymbolNil, err
	}

	for _, p := range def.Productions {
		if isReservedName(p.LHS) {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:    semErrReservedName,
				Location: p.LHS,
			})
			continue
		}
		if sym, ok := r.ToSymbol(p.LHS); ok && sym.IsTerminal() {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:    semErrDuplicateName,
				Location: p.LHS,
			})
			continue
		}
		_, err := w.RegisterNonTerminalSymbol(p.LHS)
		if err != nil {
			return symbol.SymbolNil, err
		}
	}

	return startSym, nil
}

func (b *GrammarBuilder) genProductionSet(def *Definition, startSym symbol.Symbol, r *symbol.SymbolTableReader, skip map[symbol.Symbol]struct{}) (*productionSet, map[productionID]symbol.Symbol) {
	prods := newProductionSet()
	explicitPrec := map[productionID]symbol.Symbol{}

	{
		sym, ok := r.ToSymbol(def.Start)
		if !ok || !sym.IsNonTerminal() {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:    semErrUndefinedSym,
				Detail:   "the start symbol must be the LHS of a production",
				Location: def.Start,
			})
			return prods, explicitPrec
		}
		p, err := newProduction(startSym, []symbol.Symbol{sym, symbol.SymbolEOF})
		if err != nil {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:    err,
				Location: def.Start,
			})
			return prods, explicitPrec
		}
		prods.append(p)
	}

	for _, p := range def.Productions {
		lhs, ok := r.ToSymbol(p.LHS)
		if !ok || !lhs.IsNonTerminal() {
			continue
		}

		rhs := make([]symbol.Symbol, 0, len(p.RHS))
		valid := true
		for _, text := range p.RHS {
			sym, ok := r.ToSymbol(text)
			if !ok || sym.IsStart() || sym.IsEOF() || sym == symbol.SymbolUndefined {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:    semErrUndefinedSym,
					Detail:   text,
					Location: p.LHS,
				})
				valid = false
				continue
			}
			if _, ok := skip[sym]; ok {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:    semErrTermCannotBeSkipped,
					Detail:   text,
					Location: p.LHS,
				})
				valid = false
				continue
			}
			rhs = append(rhs, sym)
		}
		if !valid {
			continue
		}

		prod, err := newProduction(lhs, rhs)
		if err != nil {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:    err,
				Location: p.LHS,
			})
			continue
		}
		if !prods.append(prod) {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:    semErrDuplicateProduction,
				Location: prod.format(r),
			})
			continue
		}

		if p.Prec != "" {
			sym, ok := r.ToSymbol(p.Prec)
			if !ok || !sym.IsTerminal() {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:    semErrInvalidPrec,
					Detail:   p.Prec,
					Location: prod.format(r),
				})
				continue
			}
			explicitPrec[prod.id] = sym
		}
	}

	return prods, explicitPrec
}

// checkUnusedSymbols reports non-terminals unreachable from the start symbol and terminals that
// no production uses. Skipped terminals are used by definition.
func (b *GrammarBuilder) checkUnusedSymbols(def *Definition, prods *productionSet, r *symbol.SymbolTableReader, skip map[symbol.Symbol]struct{}) {
	start, ok := r.ToSymbol(def.Start)
	if !ok || !start.IsNonTerminal() {
		return
	}

	reached := map[symbol.Symbol]struct{}{
		start: {},
	}
	unchecked := []symbol.Symbol{start}
	for len(unchecked) > 0 {
		var next []symbol.Symbol
		for _, sym := range unchecked {
			ps, _ := prods.findByLHS(sym)
			for _, p := range ps {
				for _, s := range p.rhs {
					if _, ok := reached[s]; ok {
						continue
					}
					reached[s] = struct{}{}
					if s.IsNonTerminal() {
						next = append(next, s)
					}
				}
			}
		}
		unchecked = next
	}

	for _, sym := range r.NonTerminalSymbols() {
		if sym.IsStart() {
			continue
		}
		if _, ok := reached[sym]; ok {
			continue
		}
		text, _ := r.ToText(sym)
		b.errs = append(b.errs, &verr.SpecError{
			Cause:    semErrUnusedProduction,
			Location: text,
		})
	}
	for _, sym := range r.TerminalSymbols() {
		if sym.IsEOF() || sym.IsError() || sym == symbol.SymbolUndefined {
			continue
		}
		if _, ok := skip[sym]; ok {
			continue
		}
		if _, ok := reached[sym]; ok {
			continue
		}
		text, _ := r.ToText(sym)
		b.errs = append(b.errs, &verr.SpecError{
			Cause:    semErrUnusedTerminal,
			Location: text,
		})
	}
}

func (b *GrammarBuilder) genPrecAndAssoc(def *Definition, prods *productionSet, explicitPrec map[productionID]symbol.Symbol, r *symbol.SymbolTableReader) *precAndAssoc {
	termPrec := map[symbol.SymbolNum]int{}
	termAssoc := map[symbol.SymbolNum]assocType{}
	for i, g := range def.Precedence {
		var assoc assocType
		switch g.Assoc {
		case "left":
			assoc = assocTypeLeft
		case "right":
			assoc = assocTypeRight
		default:
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrInvalidAssoc,
				Detail: g.Assoc,
			})
			continue
		}

		prec := precMin + i
		for _, text := range g.Symbols {
			sym, ok := r.ToSymbol(text)
			if !ok || !sym.IsTerminal() {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:    semErrInvalidPrec,
					Location: text,
				})
				continue
			}
			if _, ok := termPrec[sym.Num()]; ok {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:    semErrDuplicatePrec,
					Location: text,
				})
				continue
			}
			termPrec[sym.Num()] = prec
			termAssoc[sym.Num()] = assoc
		}
	}

	prodPrec := map[productionNum]int{}
	prodAssoc := map[productionNum]assocType{}
	for _, prod := range prods.productions() {
		if prod == nil {
			continue
		}
		term, ok := explicitPrec[prod.id]
		if !ok {
			term = prod.rightmostTerminal()
			if term.IsNil() {
				continue
			}
		}
		if prec, ok := termPrec[term.Num()]; ok {
			prodPrec[prod.num] = prec
			prodAssoc[prod.num] = termAssoc[term.Num()]
		}
	}

	return &precAndAssoc{
		termPrec:  termPrec,
		termAssoc: termAssoc,
		prodPrec:  prodPrec,
		prodAssoc: prodAssoc,
	}
}

type compileConfig struct {
	isReportingEnabled bool
}

type CompileOption func(config *compileConfig)

func EnableReporting() CompileOption {
	return func(config *compileConfig) {
		config.isReportingEnabled = true
	}
}

func Compile(gram *Grammar, opts ...CompileOption) (*spec.CompiledGrammar, *spec.Report, error) {
	config := &compileConfig{}
	for _, opt := range opts {
		opt(config)
	}

	lexSpec, err, cErrs := mlcompiler.Compile(gram.lexSpec, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) > 0 {
			var b strings.Builder
			writeCompileError(&b, cErrs[0])
			for _, cerr := range cErrs[1:] {
				fmt.Fprintf(&b, "\n")
				writeCompileError(&b, cerr)
			}
			return nil, nil, &verr.SpecError{
				Cause:  semErrLexSpec,
				Detail: b.String(),
			}
		}
		return nil, nil, fmt.Errorf("%w: %v", semErrLexSpec, err)
	}

	kind2Term := make([]int, len(lexSpec.KindNames))
	skip := make([]int, len(lexSpec.KindNames))
	for i, k := range lexSpec.KindNames {
		if k == mlspec.LexKindNameNil {
			kind2Term[mlspec.LexKindIDNil] = symbol.SymbolUndefined.Num().Int()
			continue
		}

		sym, ok := gram.symbolTable.ToSymbol(k.String())
		if !ok {
			return nil, nil, fmt.Errorf("terminal symbol '%v' was not found in a symbol table", k)
		}
		kind2Term[i] = sym.Num().Int()

		for _, sk := range gram.skipLexKinds {
			if k != sk {
				continue
			}
			skip[i] = 1
			break
		}
	}

	terms, err := gram.symbolTable.TerminalTexts()
	if err != nil {
		return nil, nil, err
	}

	termAliases := make([]string, gram.symbolTable.TerminalCount())
	for _, sym := range gram.symbolTable.TerminalSymbols() {
		termAliases[sym.Num().Int()] = gram.aliases[sym]
	}

	nonTerms, err := gram.symbolTable.NonTerminalTexts()
	if err != nil {
		return nil, nil, err
	}

	firstSet, err := genFirstSet(gram.productionSet)
	if err != nil {
		return nil, nil, err
	}

	lr0, err := genLR0Automaton(gram.productionSet, gram.augmentedStartSymbol, symbol.SymbolError)
	if err != nil {
		return nil, nil, err
	}

	var tab *ParsingTable
	var report *spec.Report
	{
		lalr1, err := genLALR1Automaton(lr0, gram.productionSet, firstSet)
		if err != nil {
			return nil, nil, err
		}

		b := &lrTableBuilder{
			automaton:    lalr1.lr0Automaton,
			prods:        gram.productionSet,
			termCount:    len(terms),
			nonTermCount: len(nonTerms),
			symTab:       gram.symbolTable,
			precAndAssoc: gram.precAndAssoc,
		}
		tab, err = b.build()
		if err != nil {
			return nil, nil, err
		}

		if config.isReportingEnabled {
			report, err = b.genReport(tab, gram)
			if err != nil {
				return nil, nil, err
			}
		}
	}

	var action *spec.RowDisplacementTable
	defaultOnly := make([]int, tab.stateCount)
	{
		orig, err := compressor.NewOriginalTable(tab.compactActionTable(), tab.terminalCount)
		if err != nil {
			return nil, nil, err
		}
		rdTab := compressor.NewRowDisplacementTable(spec.ActionEntryError)
		err = rdTab.Compress(orig)
		if err != nil {
			return nil, nil, err
		}
		action = &spec.RowDisplacementTable{
			OriginalRowCount: rdTab.OriginalRowCount,
			OriginalColCount: rdTab.OriginalColCount,
			EmptyValue:       rdTab.EmptyValue,
			Entries:          rdTab.Entries,
			Bounds:           rdTab.Bounds,
			RowDisplacement:  rdTab.RowDisplacement,
		}

		for state := 0; state < tab.stateCount; state++ {
			if tab.defaultReductions[state] != productionNumStart && rdTab.EmptyRow(state) {
				defaultOnly[state] = 1
			}
		}
	}

	var goTo *spec.UniqueEntriesTable
	{
		entries := make([]int, len(tab.goToTable))
		for i, e := range tab.goToTable {
			entries[i] = int(e)
		}
		orig, err := compressor.NewOriginalTable(entries, tab.nonTerminalCount)
		if err != nil {
			return nil, nil, err
		}
		ueTab := compressor.NewUniqueEntriesTable()
		err = ueTab.Compress(orig)
		if err != nil {
			return nil, nil, err
		}
		goTo = &spec.UniqueEntriesTable{
			OriginalRowCount: ueTab.OriginalRowCount,
			OriginalColCount: ueTab.OriginalColCount,
			UniqueEntries:    ueTab.UniqueEntries,
			RowNums:          ueTab.RowNums,
		}
	}

	defaultReductions := make([]int, tab.stateCount)
	for i, p := range tab.defaultReductions {
		defaultReductions[i] = p.Int()
	}

	lhsSyms := make([]int, gram.productionSet.count())
	altSymCounts := make([]int, gram.productionSet.count())
	for _, p := range gram.productionSet.productions() {
		lhsSyms[p.num] = p.lhs.Num().Int()
		altSymCounts[p.num] = p.rhsLen
	}

	return &spec.CompiledGrammar{
		Name: gram.name,
		Lexical: &spec.LexicalSpec{
			Maleeni:        lexSpec,
			KindToTerminal: kind2Term,
			Skip:           skip,
		},
		Syntactic: &spec.SyntacticSpec{
			Action:                  action,
			DefaultReductions:       defaultReductions,
			DefaultOnlyStates:       defaultOnly,
			GoTo:                    goTo,
			StateCount:              tab.stateCount,
			InitialState:            tab.InitialState.Int(),
			AcceptState:             tab.AcceptState.Int(),
			StartProduction:         productionNumStart.Int(),
			LHSSymbols:              lhsSyms,
			AlternativeSymbolCounts: altSymCounts,
			Terminals:               terms,
			TerminalAliases:         termAliases,
			TerminalCount:           tab.terminalCount,
			NonTerminals:            nonTerms,
			NonTerminalCount:        tab.nonTerminalCount,
			EOFSymbol:               symbol.SymbolEOF.Num().Int(),
			ErrorSymbol:             symbol.SymbolError.Num().Int(),
			UndefinedSymbol:         symbol.SymbolUndefined.Num().Int(),
			ErrorTrapperStates:      tab.errorTrapperStates,
		},
	}, report, nil
}

func writeCompileError(w io.Writer, cErr *mlcompiler.CompileError) {
	if cErr.Fragment {
		fmt.Fprintf(w, "fragment ")
	}
	fmt.Fprintf(w, "%v: %v", cErr.Kind, cErr.Cause)
	if cErr.Detail != "" {
		fmt.Fprintf(w, ": %v", cErr.Detail)
	}
}

package grammar

import (
	"fmt"
	"sort"

	spec "github.com/nihei9/arvo/spec/grammar"
)

func assocLetter(assoc assocType) string {
	switch assoc {
	case assocTypeLeft:
		return "l"
	case assocTypeRight:
		return "r"
	default:
		return ""
	}
}

// genReport describes the grammar and every state of the automaton in the form `arvo describe` prints.
func (b *lrTableBuilder) genReport(tab *ParsingTable, gram *Grammar) (*spec.Report, error) {
	terms, err := b.reportTerminals(gram)
	if err != nil {
		return nil, err
	}
	nonTerms, err := b.reportNonTerminals()
	if err != nil {
		return nil, err
	}

	conflicts := map[stateNum][]conflict{}
	for _, c := range b.conflicts {
		conflicts[c.conflictState()] = append(conflicts[c.conflictState()], c)
	}

	states := make([]*spec.State, 0, len(b.automaton.states))
	for _, s := range b.automaton.statesByNum() {
		state, err := b.reportState(tab, s, conflicts[s.num])
		if err != nil {
			return nil, err
		}
		states = append(states, state)
	}

	return &spec.Report{
		Terminals:    terms,
		NonTerminals: nonTerms,
		Productions:  b.reportProductions(gram),
		States:       states,
	}, nil
}

func (b *lrTableBuilder) reportTerminals(gram *Grammar) ([]*spec.Terminal, error) {
	syms := b.symTab.TerminalSymbols()
	terms := make([]*spec.Terminal, len(syms))
	for _, sym := range syms {
		name, ok := b.symTab.ToText(sym)
		if !ok {
			return nil, fmt.Errorf("terminal symbol not found: %v", sym)
		}
		term := &spec.Terminal{
			Number:        sym.Num().Int(),
			Name:          name,
			Alias:         gram.aliases[sym],
			Pattern:       gram.patterns[sym],
			Associativity: assocLetter(b.precAndAssoc.terminalAssociativity(sym.Num())),
		}
		if prec := b.precAndAssoc.terminalPrecedence(sym.Num()); prec != precNil {
			term.Precedence = prec
		}
		terms[sym.Num()] = term
	}
	return terms, nil
}

func (b *lrTableBuilder) reportNonTerminals() ([]*spec.NonTerminal, error) {
	syms := b.symTab.NonTerminalSymbols()
	nonTerms := make([]*spec.NonTerminal, len(syms))
	for _, sym := range syms {
		name, ok := b.symTab.ToText(sym)
		if !ok {
			return nil, fmt.Errorf("non-terminal symbol not found: %v", sym)
		}
		nonTerms[sym.Num()] = &spec.NonTerminal{
			Number: sym.Num().Int(),
			Name:   name,
		}
	}
	return nonTerms, nil
}

// reportProductions encodes a non-terminal n in RHS as -(n+1) to tell it from a terminal.
func (b *lrTableBuilder) reportProductions(gram *Grammar) []*spec.Production {
	ps := gram.productionSet.productions()
	prods := make([]*spec.Production, len(ps))
	for _, p := range ps {
		rhs := make([]int, 0, p.rhsLen)
		for _, sym := range p.rhs[:p.rhsLen] {
			n := sym.Num().Int()
			if sym.IsNonTerminal() {
				n = -(n + 1)
			}
			rhs = append(rhs, n)
		}
		prod := &spec.Production{
			Number:        p.num.Int(),
			LHS:           p.lhs.Num().Int(),
			RHS:           rhs,
			Associativity: assocLetter(b.precAndAssoc.productionAssociativity(p.num)),
		}
		if prec := b.precAndAssoc.productionPredence(p.num); prec != precNil {
			prod.Precedence = prec
		}
		prods[p.num.Int()] = prod
	}
	return prods
}

func (b *lrTableBuilder) reportState(tab *ParsingTable, s *lrState, conflicts []conflict) (*spec.State, error) {
	state := &spec.State{
		Number:           s.num.Int(),
		DefaultReduction: tab.defaultReductions[s.num].Int(),
		ErrorTrapper:     s.isErrorTrapper,
		SRConflict:       []*spec.SRConflict{},
		RRConflict:       []*spec.RRConflict{},
	}

	for _, item := range s.items {
		p, ok := b.prods.findByID(item.prod)
		if !ok {
			return nil, fmt.Errorf("production of a kernel item not found: %v", item.prod)
		}
		state.Kernel = append(state.Kernel, &spec.Item{
			Production: p.num.Int(),
			Dot:        item.dot,
		})
	}
	sort.Slice(state.Kernel, func(i, j int) bool {
		ki, kj := state.Kernel[i], state.Kernel[j]
		if ki.Production != kj.Production {
			return ki.Production < kj.Production
		}
		return ki.Dot < kj.Dot
	})

	reduces := map[productionNum]*spec.Reduce{}
	for _, t := range b.symTab.TerminalSymbols() {
		ty, next, prod := tab.getAction(s.num, t.Num())
		switch ty {
		case ActionTypeShift:
			state.Shift = append(state.Shift, &spec.Transition{
				Symbol: t.Num().Int(),
				State:  next.Int(),
			})
		case ActionTypeReduce:
			r, ok := reduces[prod]
			if !ok {
				r = &spec.Reduce{
					Production: prod.Int(),
				}
				reduces[prod] = r
				state.Reduce = append(state.Reduce, r)
			}
			r.LookAhead = append(r.LookAhead, t.Num().Int())
		}
	}
	for _, n := range b.symTab.NonTerminalSymbols() {
		if ty, next := tab.getGoTo(s.num, n.Num()); ty == GoToTypeRegistered {
			state.GoTo = append(state.GoTo, &spec.Transition{
				Symbol: n.Num().Int(),
				State:  next.Int(),
			})
		}
	}
	sort.Slice(state.Shift, func(i, j int) bool {
		return state.Shift[i].State < state.Shift[j].State
	})
	sort.Slice(state.Reduce, func(i, j int) bool {
		return state.Reduce[i].Production < state.Reduce[j].Production
	})
	sort.Slice(state.GoTo, func(i, j int) bool {
		return state.GoTo[i].State < state.GoTo[j].State
	})

	for _, con := range conflicts {
		switch c := con.(type) {
		case *shiftReduceConflict:
			state.SRConflict = append(state.SRConflict, reportSRConflict(tab, s.num, c))
		case *reduceReduceConflict:
			_, _, adopted := tab.getAction(s.num, c.sym.Num())
			state.RRConflict = append(state.RRConflict, &spec.RRConflict{
				Symbol:            c.sym.Num().Int(),
				Production1:       c.prodNum1.Int(),
				Production2:       c.prodNum2.Int(),
				AdoptedProduction: adopted.Int(),
				ResolvedBy:        c.resolvedBy.Int(),
			})
		}
	}
	sort.Slice(state.SRConflict, func(i, j int) bool {
		return state.SRConflict[i].Symbol < state.SRConflict[j].Symbol
	})
	sort.Slice(state.RRConflict, func(i, j int) bool {
		return state.RRConflict[i].Symbol < state.RRConflict[j].Symbol
	})

	return state, nil
}

func reportSRConflict(tab *ParsingTable, state stateNum, c *shiftReduceConflict) *spec.SRConflict {
	r := &spec.SRConflict{
		Symbol:     c.sym.Num().Int(),
		State:      c.nextState.Int(),
		Production: c.prodNum.Int(),
		ResolvedBy: c.resolvedBy.Int(),
	}
	ty, next, prod := tab.getAction(state, c.sym.Num())
	switch ty {
	case ActionTypeShift:
		n := next.Int()
		r.AdoptedState = &n
	case ActionTypeReduce:
		n := prod.Int()
		r.AdoptedProduction = &n
	}
	return r
}

package grammar

import (
	"fmt"
	"sort"

	"github.com/nihei9/arvo/grammar/symbol"
	spec "github.com/nihei9/arvo/spec/grammar"
)

type ActionType string

const (
	ActionTypeShift  = ActionType("shift")
	ActionTypeReduce = ActionType("reduce")
	ActionTypeError  = ActionType("error")
)

// actionEntry uses the encoding of the compiled tables: a positive value shifts to a state, a negative
// value reduces by a production and zero is an error.
type actionEntry int

const actionEntryEmpty = actionEntry(spec.ActionEntryError)

func shiftTo(state stateNum) actionEntry {
	return actionEntry(spec.EncodeShift(state.Int()))
}

func reduceBy(prod productionNum) actionEntry {
	return actionEntry(spec.EncodeReduce(prod.Int()))
}

func (e actionEntry) isEmpty() bool {
	return e == actionEntryEmpty
}

func (e actionEntry) describe() (ActionType, stateNum, productionNum) {
	if e > 0 {
		return ActionTypeShift, stateNum(e), productionNumStart
	}
	if e < 0 {
		return ActionTypeReduce, stateNumInitial, productionNum(-e)
	}
	return ActionTypeError, stateNumInitial, productionNumStart
}

type GoToType string

const (
	GoToTypeRegistered = GoToType("registered")
	GoToTypeError      = GoToType("error")
)

// goToEntry is the next state. Zero marks a missing entry since no transition leads to the initial state.
type goToEntry uint

const goToEntryEmpty = goToEntry(0)

func (e goToEntry) describe() (GoToType, stateNum) {
	if e == goToEntryEmpty {
		return GoToTypeError, stateNumInitial
	}
	return GoToTypeRegistered, stateNum(e)
}

type conflictResolutionMethod int

const (
	ResolvedByPrec      conflictResolutionMethod = 1
	ResolvedByAssoc     conflictResolutionMethod = 2
	ResolvedByShift     conflictResolutionMethod = 3
	ResolvedByProdOrder conflictResolutionMethod = 4
)

func (m conflictResolutionMethod) Int() int {
	return int(m)
}

func (m conflictResolutionMethod) String() string {
	switch m {
	case ResolvedByPrec:
		return "precedence"
	case ResolvedByAssoc:
		return "associativity"
	case ResolvedByShift:
		return "shift"
	case ResolvedByProdOrder:
		return "production order"
	default:
		return "unknown"
	}
}

type conflict interface {
	conflictState() stateNum
}

type shiftReduceConflict struct {
	state      stateNum
	sym        symbol.Symbol
	nextState  stateNum
	prodNum    productionNum
	resolvedBy conflictResolutionMethod
}

func (c *shiftReduceConflict) conflictState() stateNum {
	return c.state
}

type reduceReduceConflict struct {
	state      stateNum
	sym        symbol.Symbol
	prodNum1   productionNum
	prodNum2   productionNum
	resolvedBy conflictResolutionMethod
}

func (c *reduceReduceConflict) conflictState() stateNum {
	return c.state
}

// ParsingTable is the uncompressed ACTION and GOTO tables. Both are row-major: one row per state.
type ParsingTable struct {
	actionTable      []actionEntry
	goToTable        []goToEntry
	stateCount       int
	terminalCount    int
	nonTerminalCount int

	// errorTrapperStates[s] is 1 when the state s has an item `A → α・error β`.
	errorTrapperStates []int

	// defaultReductions[s] is used when the row of the state s has no entry for a look-ahead symbol.
	// productionNumStart stands for no default reduction since the start production is never reduced.
	defaultReductions []productionNum

	InitialState stateNum

	// AcceptState has the item `S' → S <eof>・`.
	AcceptState stateNum
}

func newParsingTable(stateCount, termCount, nonTermCount int) *ParsingTable {
	return &ParsingTable{
		actionTable:        make([]actionEntry, stateCount*termCount),
		goToTable:          make([]goToEntry, stateCount*nonTermCount),
		stateCount:         stateCount,
		terminalCount:      termCount,
		nonTerminalCount:   nonTermCount,
		errorTrapperStates: make([]int, stateCount),
		defaultReductions:  make([]productionNum, stateCount),
	}
}

func (t *ParsingTable) getAction(state stateNum, sym symbol.SymbolNum) (ActionType, stateNum, productionNum) {
	return t.readAction(state.Int(), sym.Int()).describe()
}

func (t *ParsingTable) getGoTo(state stateNum, sym symbol.SymbolNum) (GoToType, stateNum) {
	return t.goToTable[state.Int()*t.nonTerminalCount+sym.Int()].describe()
}

func (t *ParsingTable) readAction(state int, term int) actionEntry {
	return t.actionTable[state*t.terminalCount+term]
}

func (t *ParsingTable) writeAction(state int, term int, act actionEntry) {
	t.actionTable[state*t.terminalCount+term] = act
}

func (t *ParsingTable) writeGoTo(state stateNum, sym symbol.Symbol, next stateNum) {
	t.goToTable[state.Int()*t.nonTerminalCount+sym.Num().Int()] = goToEntry(next)
}

// compactActionTable returns the action table without the entries that default reductions cover.
func (t *ParsingTable) compactActionTable() []int {
	action := make([]int, len(t.actionTable))
	for state := 0; state < t.stateCount; state++ {
		def := t.defaultReductions[state]
		for term := 0; term < t.terminalCount; term++ {
			e := t.readAction(state, term)
			if def != productionNumStart && e == reduceBy(def) {
				continue
			}
			action[state*t.terminalCount+term] = int(e)
		}
	}
	return action
}

type lrTableBuilder struct {
	automaton    *lr0Automaton
	prods        *productionSet
	termCount    int
	nonTermCount int
	symTab       *symbol.SymbolTableReader
	precAndAssoc *precAndAssoc

	conflicts []conflict
}

func (b *lrTableBuilder) build() (*ParsingTable, error) {
	states := b.automaton.statesByNum()
	tab := newParsingTable(len(states), b.termCount, b.nonTermCount)
	tab.InitialState = b.automaton.states[b.automaton.initialState].num

	accepting := false
	for _, state := range states {
		if state.isErrorTrapper {
			tab.errorTrapperStates[state.num] = 1
		}

		for _, sym := range sortedSymbols(state.next) {
			next := b.automaton.states[state.next[sym]].num
			if sym.IsNonTerminal() {
				tab.writeGoTo(state.num, sym, next)
				continue
			}
			b.put(tab, state.num, sym, shiftTo(next))
		}

		for _, prod := range b.reducibleProductions(state) {
			// Reaching the state that completes the start production means acceptance, not a reduction.
			if prod.num == productionNumStart {
				tab.AcceptState = state.num
				accepting = true
				continue
			}

			item, err := findReducibleItem(state, prod)
			if err != nil {
				return nil, err
			}
			for _, a := range sortedSymbols(item.lookAhead.symbols) {
				b.put(tab, state.num, a, reduceBy(prod.num))
			}
		}
	}
	if !accepting {
		return nil, fmt.Errorf("accepting state not found")
	}

	for _, state := range states {
		tab.defaultReductions[state.num] = chooseDefaultReduction(tab, state)
	}

	return tab, nil
}

func sortedSymbols[V any](m map[symbol.Symbol]V) []symbol.Symbol {
	syms := make([]symbol.Symbol, 0, len(m))
	for sym := range m {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
	return syms
}

func (b *lrTableBuilder) reducibleProductions(state *lrState) []*production {
	prods := make([]*production, 0, len(state.reducible))
	for id := range state.reducible {
		if prod, ok := b.prods.findByID(id); ok {
			prods = append(prods, prod)
		}
	}
	sort.Slice(prods, func(i, j int) bool {
		return prods[i].num < prods[j].num
	})
	return prods
}

func findReducibleItem(state *lrState, prod *production) (*lrItem, error) {
	item, ok := state.findKernelItem(lrItemID{prod: prod.id, dot: prod.rhsLen})
	if !ok {
		item, ok = state.findEmptyProdItem(lrItemID{prod: prod.id, dot: 0})
	}
	if !ok {
		return nil, fmt.Errorf("reducible item not found; state: %v, production: %v", state.num, prod.num)
	}
	return item, nil
}

// chooseDefaultReduction returns the production the state reduces by most often, breaking ties by the
// production number. An error trapper gets none so that it detects an error before reducing anything.
func chooseDefaultReduction(tab *ParsingTable, state *lrState) productionNum {
	if state.isErrorTrapper {
		return productionNumStart
	}

	counts := map[productionNum]int{}
	for term := 0; term < tab.terminalCount; term++ {
		if ty, _, prod := tab.readAction(state.num.Int(), term).describe(); ty == ActionTypeReduce {
			counts[prod]++
		}
	}

	def := productionNumStart
	best := 0
	for prod, n := range counts {
		if n > best || (n == best && prod < def) {
			def = prod
			best = n
		}
	}
	return def
}

// put writes `act` to the entry of (state, sym). When the entry is already taken, put resolves the
// conflict and records it. A shift/reduce conflict is settled by precedence and associativity and falls
// back to the shift. A reduce/reduce conflict picks the production defined first.
func (b *lrTableBuilder) put(tab *ParsingTable, state stateNum, sym symbol.Symbol, act actionEntry) {
	row, col := state.Int(), sym.Num().Int()
	cur := tab.readAction(row, col)
	if cur.isEmpty() {
		tab.writeAction(row, col, act)
		return
	}
	if cur == act {
		return
	}

	curTy, curNext, curProd := cur.describe()
	actTy, actNext, actProd := act.describe()

	if curTy == ActionTypeReduce && actTy == ActionTypeReduce {
		b.conflicts = append(b.conflicts, &reduceReduceConflict{
			state:      state,
			sym:        sym,
			prodNum1:   curProd,
			prodNum2:   actProd,
			resolvedBy: ResolvedByProdOrder,
		})
		if actProd < curProd {
			tab.writeAction(row, col, act)
		}
		return
	}

	next, prod := actNext, curProd
	if curTy == ActionTypeShift {
		next, prod = curNext, actProd
	}
	ty, method := b.resolveSRConflict(sym.Num(), prod)
	b.conflicts = append(b.conflicts, &shiftReduceConflict{
		state:      state,
		sym:        sym,
		nextState:  next,
		prodNum:    prod,
		resolvedBy: method,
	})
	if ty == ActionTypeShift {
		tab.writeAction(row, col, shiftTo(next))
	} else {
		tab.writeAction(row, col, reduceBy(prod))
	}
}

// resolveSRConflict compares the precedence of a look-ahead terminal with that of a production.
// A smaller number means a higher precedence.
func (b *lrTableBuilder) resolveSRConflict(sym symbol.SymbolNum, prod productionNum) (ActionType, conflictResolutionMethod) {
	symPrec := b.precAndAssoc.terminalPrecedence(sym)
	prodPrec := b.precAndAssoc.productionPredence(prod)
	switch {
	case symPrec == precNil || prodPrec == precNil:
		return ActionTypeShift, ResolvedByShift
	case symPrec < prodPrec:
		return ActionTypeShift, ResolvedByPrec
	case symPrec > prodPrec:
		return ActionTypeReduce, ResolvedByPrec
	case b.precAndAssoc.productionAssociativity(prod) == assocTypeLeft:
		return ActionTypeReduce, ResolvedByAssoc
	default:
		return ActionTypeShift, ResolvedByAssoc
	}
}

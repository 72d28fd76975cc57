package grammar

import (
	"fmt"
	"sort"

	"github.com/nihei9/arvo/grammar/symbol"
)

type lr0Automaton struct {
	initialState kernelID
	states       map[kernelID]*lrState
}

// stateByNum returns the states in ascending order of their numbers.
func (a *lr0Automaton) statesByNum() []*lrState {
	states := make([]*lrState, len(a.states))
	for _, s := range a.states {
		states[s.num] = s
	}
	return states
}

type lr0Builder struct {
	prods  *productionSet
	errSym symbol.Symbol
}

// genLR0Automaton numbers states in breadth-first order, visiting the neighbours of a state in
// ascending order of their symbols. The numbering is stable for a fixed grammar.
func genLR0Automaton(prods *productionSet, startSym symbol.Symbol, errSym symbol.Symbol) (*lr0Automaton, error) {
	if !startSym.IsStart() {
		return nil, fmt.Errorf("passed symbol is not a start symbol")
	}

	startProds, _ := prods.findByLHS(startSym)
	if len(startProds) == 0 {
		return nil, fmt.Errorf("the start symbol has no production")
	}
	initialItem, err := newLR0Item(startProds[0], 0)
	if err != nil {
		return nil, err
	}
	initialKernel, err := newKernel([]*lrItem{initialItem})
	if err != nil {
		return nil, err
	}

	b := &lr0Builder{
		prods:  prods,
		errSym: errSym,
	}
	automaton := &lr0Automaton{
		initialState: initialKernel.id,
		states:       map[kernelID]*lrState{},
	}

	queue := []*kernel{initialKernel}
	known := map[kernelID]struct{}{
		initialKernel.id: {},
	}
	for num := stateNumInitial; len(queue) > 0; num = num.next() {
		k := queue[0]
		queue = queue[1:]

		state, succs, err := b.genState(k)
		if err != nil {
			return nil, err
		}
		state.num = num
		automaton.states[k.id] = state

		for _, succ := range succs {
			if _, ok := known[succ.id]; ok {
				continue
			}
			known[succ.id] = struct{}{}
			queue = append(queue, succ)
		}
	}

	return automaton, nil
}

// genState returns the state having `k` as its kernel, and the kernels of its successors in ascending order
// of the transition symbols.
func (b *lr0Builder) genState(k *kernel) (*lrState, []*kernel, error) {
	closure, err := b.closure(k)
	if err != nil {
		return nil, nil, err
	}

	state := &lrState{
		kernel:    k,
		next:      map[symbol.Symbol]kernelID{},
		reducible: map[productionID]struct{}{},
	}
	shifted := map[symbol.Symbol][]*lrItem{}
	for _, item := range closure {
		if item.dottedSymbol == b.errSym {
			state.isErrorTrapper = true
		}

		prod, ok := b.prods.findByID(item.prod)
		if !ok {
			return nil, nil, fmt.Errorf("a production was not found: %v", item.prod)
		}

		if item.reducible {
			state.reducible[item.prod] = struct{}{}
			if prod.isEmpty() {
				state.emptyProdItems = append(state.emptyProdItems, item)
			}
			continue
		}

		next, err := newLR0Item(prod, item.dot+1)
		if err != nil {
			return nil, nil, err
		}
		shifted[item.dottedSymbol] = append(shifted[item.dottedSymbol], next)
	}

	syms := make([]symbol.Symbol, 0, len(shifted))
	for sym := range shifted {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})

	succs := make([]*kernel, 0, len(syms))
	for _, sym := range syms {
		succ, err := newKernel(shifted[sym])
		if err != nil {
			return nil, nil, err
		}
		state.next[sym] = succ.id
		succs = append(succs, succ)
	}

	return state, succs, nil
}

// closure returns the kernel items followed by the non-kernel items in the order they were derived.
func (b *lr0Builder) closure(k *kernel) ([]*lrItem, error) {
	items := make([]*lrItem, len(k.items))
	copy(items, k.items)

	known := map[lrItemID]struct{}{}
	for _, item := range items {
		known[item.id] = struct{}{}
	}
	expanded := map[symbol.Symbol]struct{}{}
	for i := 0; i < len(items); i++ {
		sym := items[i].dottedSymbol
		if !sym.IsNonTerminal() {
			continue
		}
		if _, ok := expanded[sym]; ok {
			continue
		}
		expanded[sym] = struct{}{}

		prods, _ := b.prods.findByLHS(sym)
		for _, prod := range prods {
			item, err := newLR0Item(prod, 0)
			if err != nil {
				return nil, err
			}
			if _, ok := known[item.id]; ok {
				continue
			}
			known[item.id] = struct{}{}
			items = append(items, item)
		}
	}

	return items, nil
}

package grammar

import (
	"fmt"

	"github.com/nihei9/arvo/grammar/symbol"
)

type lalr1Automaton struct {
	*lr0Automaton
}

// lookAheadLink passes the look-ahead symbols of src on to dests.
type lookAheadLink struct {
	src   *lrItem
	dests []*lrItem
}

// lalr1ClosureItem is an item of CLOSURE({[A → α・β, #]}), where # stands for the look-ahead symbols of
// the kernel item A → α・β. An item has either a spontaneous look-ahead symbol or inherits #.
type lalr1ClosureItem struct {
	*lrItem
	spontaneous symbol.Symbol
	inherits    bool
}

// genLALR1Automaton attaches look-ahead symbols to the reducible items of `lr0`. Closing each kernel item
// with the placeholder # tells which symbols arise spontaneously and which flow from the kernel item.
// The latter are then propagated along the links until nothing changes.
func genLALR1Automaton(lr0 *lr0Automaton, prods *productionSet, first *firstSet) (*lalr1Automaton, error) {
	// [S' → ・S <eof>, <eof>]
	lr0.states[lr0.initialState].items[0].lookAhead.add(symbol.SymbolEOF)

	var links []*lookAheadLink
	for _, state := range lr0.statesByNum() {
		for _, kItem := range state.items {
			closure, err := genLALR1Closure(kItem, prods, first)
			if err != nil {
				return nil, err
			}

			link := &lookAheadLink{
				src: kItem,
			}
			for _, item := range closure {
				dest, err := lookAheadDest(lr0, state, item, prods)
				if err != nil {
					return nil, err
				}
				if dest == nil {
					continue
				}
				if item.inherits {
					link.dests = append(link.dests, dest)
				} else {
					dest.lookAhead.add(item.spontaneous)
				}
			}
			if len(link.dests) > 0 {
				links = append(links, link)
			}
		}
	}

	propagateLookAhead(links)

	return &lalr1Automaton{
		lr0Automaton: lr0,
	}, nil
}

// lookAheadDest returns the item that receives the look-ahead symbols of `item`. That is the shifted item
// in the successor state, or the empty production item of `state` itself. It returns nil for the other
// reducible items since they have no symbols to pass on.
func lookAheadDest(lr0 *lr0Automaton, state *lrState, item *lalr1ClosureItem, prods *productionSet) (*lrItem, error) {
	prod, ok := prods.findByID(item.prod)
	if !ok {
		return nil, fmt.Errorf("production not found: %v", item.prod)
	}

	if item.reducible {
		if !prod.isEmpty() {
			return nil, nil
		}
		dest, ok := state.findEmptyProdItem(item.id)
		if !ok {
			return nil, fmt.Errorf("reducible item not found: %v", item.id)
		}
		return dest, nil
	}

	next, ok := lr0.states[state.next[item.dottedSymbol]]
	if !ok {
		return nil, fmt.Errorf("next state not found: state: %v, symbol: %v", state.num, item.dottedSymbol)
	}
	shifted, err := newLR0Item(prod, item.dot+1)
	if err != nil {
		return nil, err
	}
	dest, ok := next.findKernelItem(shifted.id)
	if !ok {
		return nil, fmt.Errorf("item not found: %v", shifted.id)
	}
	return dest, nil
}

// genLALR1Closure computes CLOSURE({[srcItem, #]}). An item [B → ・γ, b] is added for each b in FIRST(βa)
// of an item [A → α・Bβ, a]. When β derives ε, `a` may be # itself.
func genLALR1Closure(srcItem *lrItem, prods *productionSet, first *firstSet) ([]*lalr1ClosureItem, error) {
	type itemKey struct {
		id          lrItemID
		spontaneous symbol.Symbol
		inherits    bool
	}

	items := []*lalr1ClosureItem{
		{
			lrItem:   srcItem,
			inherits: true,
		},
	}
	known := map[itemKey]struct{}{
		{id: srcItem.id, inherits: true}: {},
	}
	for i := 0; i < len(items); i++ {
		item := items[i]
		if !item.dottedSymbol.IsNonTerminal() {
			continue
		}

		p, ok := prods.findByID(item.prod)
		if !ok {
			return nil, fmt.Errorf("production not found: %v", item.prod)
		}
		fst, err := first.find(p, item.dot+1)
		if err != nil {
			return nil, err
		}

		ps, _ := prods.findByLHS(item.dottedSymbol)
		for _, prod := range ps {
			add := func(spontaneous symbol.Symbol, inherits bool) error {
				newItem, err := newLR0Item(prod, 0)
				if err != nil {
					return err
				}
				key := itemKey{
					id:          newItem.id,
					spontaneous: spontaneous,
					inherits:    inherits,
				}
				if _, ok := known[key]; ok {
					return nil
				}
				known[key] = struct{}{}
				items = append(items, &lalr1ClosureItem{
					lrItem:      newItem,
					spontaneous: spontaneous,
					inherits:    inherits,
				})
				return nil
			}

			for a := range fst.symbols {
				if err := add(a, false); err != nil {
					return nil, err
				}
			}
			if fst.empty {
				if err := add(item.spontaneous, item.inherits); err != nil {
					return nil, err
				}
			}
		}
	}

	return items, nil
}

func propagateLookAhead(links []*lookAheadLink) {
	for changed := true; changed; {
		changed = false
		for _, link := range links {
			for _, dest := range link.dests {
				if dest.lookAhead.merge(link.src.lookAhead.symbols) {
					changed = true
				}
			}
		}
	}
}

package grammar

import (
	"fmt"

	"github.com/nihei9/arvo/grammar/symbol"
)

// firstEntry is FIRST of a symbol sequence: terminals that can begin the sequence, and whether the
// sequence can derive ε.
type firstEntry struct {
	symbols map[symbol.Symbol]struct{}
	empty   bool
}

func newFirstEntry() *firstEntry {
	return &firstEntry{
		symbols: map[symbol.Symbol]struct{}{},
	}
}

func (e *firstEntry) add(sym symbol.Symbol) bool {
	if _, ok := e.symbols[sym]; ok {
		return false
	}
	e.symbols[sym] = struct{}{}
	return true
}

// firstSet holds FIRST of every non-terminal.
type firstSet struct {
	set map[symbol.Symbol]*firstEntry
}

// find returns FIRST of the RHS of `prod` starting at `head`.
func (fst *firstSet) find(prod *production, head int) (*firstEntry, error) {
	entry := newFirstEntry()
	if head >= prod.rhsLen {
		entry.empty = true
		return entry, nil
	}
	nullable, _, err := fst.collect(entry, prod.rhs[head:])
	if err != nil {
		return nil, err
	}
	entry.empty = nullable
	return entry, nil
}

// collect adds the terminals that can begin `syms` to `acc`. It reports whether `syms` can derive ε and
// whether `acc` gained any terminal.
func (fst *firstSet) collect(acc *firstEntry, syms []symbol.Symbol) (bool, bool, error) {
	changed := false
	for _, sym := range syms {
		if sym.IsTerminal() {
			if acc.add(sym) {
				changed = true
			}
			return false, changed, nil
		}

		e, ok := fst.set[sym]
		if !ok {
			return false, false, fmt.Errorf("an entry of FIRST was not found; symbol: %s", sym)
		}
		for s := range e.symbols {
			if acc.add(s) {
				changed = true
			}
		}
		if !e.empty {
			return false, changed, nil
		}
	}
	return true, changed, nil
}

// genFirstSet computes FIRST of the non-terminals by iterating over all productions until no entry grows.
func genFirstSet(prods *productionSet) (*firstSet, error) {
	all := prods.getAllProductions()

	fst := &firstSet{
		set: map[symbol.Symbol]*firstEntry{},
	}
	for _, prod := range all {
		if _, ok := fst.set[prod.lhs]; !ok {
			fst.set[prod.lhs] = newFirstEntry()
		}
	}

	for changed := true; changed; {
		changed = false
		for _, prod := range all {
			acc := fst.set[prod.lhs]
			nullable, added, err := fst.collect(acc, prod.rhs[:prod.rhsLen])
			if err != nil {
				return nil, err
			}
			if added {
				changed = true
			}
			if nullable && !acc.empty {
				acc.empty = true
				changed = true
			}
		}
	}
	return fst, nil
}

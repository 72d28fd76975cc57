package grammar

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nihei9/arvo/grammar/symbol"
)

// lrItemID identifies an LR(0) item. Items sharing a production and a dot position are the same item.
type lrItemID struct {
	prod productionID
	dot  int
}

func (id lrItemID) String() string {
	return fmt.Sprintf("%v/%v", id.prod, id.dot)
}

func (id lrItemID) less(other lrItemID) bool {
	if c := bytes.Compare(id.prod[:], other.prod[:]); c != 0 {
		return c < 0
	}
	return id.dot < other.dot
}

// lookAhead holds terminal symbols. A reducible item is reduced only when the next input symbol is one of them.
type lookAhead struct {
	symbols map[symbol.Symbol]struct{}
}

func (la *lookAhead) add(sym symbol.Symbol) bool {
	if _, ok := la.symbols[sym]; ok {
		return false
	}
	if la.symbols == nil {
		la.symbols = map[symbol.Symbol]struct{}{}
	}
	la.symbols[sym] = struct{}{}
	return true
}

func (la *lookAhead) merge(syms map[symbol.Symbol]struct{}) bool {
	changed := false
	for sym := range syms {
		if la.add(sym) {
			changed = true
		}
	}
	return changed
}

type lrItem struct {
	id   lrItemID
	prod productionID

	// dot is the position of the dot in the RHS. For `E → E +・T`, dot is 2 and dottedSymbol is T.
	// A reducible item has SymbolNil as its dottedSymbol.
	dot          int
	dottedSymbol symbol.Symbol

	// initial is true only for `S' →・S <eof>`.
	initial bool

	reducible bool
	kernel    bool

	lookAhead lookAhead
}

func newLR0Item(prod *production, dot int) (*lrItem, error) {
	if prod == nil {
		return nil, fmt.Errorf("production must be non-nil")
	}

	if dot < 0 || dot > prod.rhsLen {
		return nil, fmt.Errorf("dot must be between 0 and %v", prod.rhsLen)
	}

	dottedSymbol := symbol.SymbolNil
	if dot < prod.rhsLen {
		dottedSymbol = prod.rhs[dot]
	}

	initial := prod.lhs.IsStart() && dot == 0

	return &lrItem{
		id: lrItemID{
			prod: prod.id,
			dot:  dot,
		},
		prod:         prod.id,
		dot:          dot,
		dottedSymbol: dottedSymbol,
		initial:      initial,
		reducible:    dot == prod.rhsLen,
		kernel:       initial || dot > 0,
	}, nil
}

// kernelID identifies a set of kernel items regardless of the order of the items.
type kernelID string

type kernel struct {
	id    kernelID
	items []*lrItem
}

func newKernel(items []*lrItem) (*kernel, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("a kernel need at least one item")
	}

	uniq := make(map[lrItemID]*lrItem, len(items))
	for _, item := range items {
		if !item.kernel {
			return nil, fmt.Errorf("not a kernel item: %v", item.id)
		}
		uniq[item.id] = item
	}
	sorted := make([]*lrItem, 0, len(uniq))
	for _, item := range uniq {
		sorted = append(sorted, item)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].id.less(sorted[j].id)
	})

	ids := make([]string, len(sorted))
	for i, item := range sorted {
		ids[i] = item.id.String()
	}

	return &kernel{
		id:    kernelID(strings.Join(ids, ",")),
		items: sorted,
	}, nil
}

type stateNum int

const stateNumInitial = stateNum(0)

func (n stateNum) Int() int {
	return int(n)
}

func (n stateNum) String() string {
	return strconv.Itoa(int(n))
}

func (n stateNum) next() stateNum {
	return stateNum(n + 1)
}

type lrState struct {
	*kernel
	num       stateNum
	next      map[symbol.Symbol]kernelID
	reducible map[productionID]struct{}

	// emptyProdItems holds the items `p → ・ε` of the closure. They are reducible but not kernel items,
	// so their look-ahead symbols live here.
	emptyProdItems []*lrItem

	// isErrorTrapper is true when the closure contains an item like `A → α・error β`.
	isErrorTrapper bool
}

func (s *lrState) findKernelItem(id lrItemID) (*lrItem, bool) {
	for _, item := range s.items {
		if item.id == id {
			return item, true
		}
	}
	return nil, false
}

func (s *lrState) findEmptyProdItem(id lrItemID) (*lrItem, bool) {
	for _, item := range s.emptyProdItems {
		if item.id == id {
			return item, true
		}
	}
	return nil, false
}

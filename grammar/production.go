package grammar

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/nihei9/arvo/grammar/symbol"
)

type productionID [32]byte

func (id productionID) String() string {
	return hex.EncodeToString(id[:])
}

func genProductionID(lhs symbol.Symbol, rhs []symbol.Symbol) productionID {
	seq := lhs.Byte()
	for _, sym := range rhs {
		seq = append(seq, sym.Byte()...)
	}
	return productionID(sha256.Sum256(seq))
}

// productionNum is both the number of a production and the index of its semantic action.
type productionNum uint16

const (
	productionNumStart = productionNum(0)
	productionNumMin   = productionNum(1)
)

func (n productionNum) Int() int {
	return int(n)
}

type production struct {
	id     productionID
	num    productionNum
	lhs    symbol.Symbol
	rhs    []symbol.Symbol
	rhsLen int
}

func newProduction(lhs symbol.Symbol, rhs []symbol.Symbol) (*production, error) {
	if lhs.IsNil() {
		return nil, fmt.Errorf("LHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
	}
	if !lhs.IsNonTerminal() {
		return nil, fmt.Errorf("LHS must be a non-terminal symbol; LHS: %v, RHS: %v", lhs, rhs)
	}
	for _, sym := range rhs {
		if sym.IsNil() {
			return nil, fmt.Errorf("a symbol of RHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
		}
	}

	return &production{
		id:     genProductionID(lhs, rhs),
		lhs:    lhs,
		rhs:    rhs,
		rhsLen: len(rhs),
	}, nil
}

func (p *production) equals(q *production) bool {
	return q.id == p.id
}

func (p *production) isEmpty() bool {
	return p.rhsLen == 0
}

// rightmostTerminal returns the right-most terminal symbol of the RHS, or the nil symbol when the RHS
// has no terminal symbols.
func (p *production) rightmostTerminal() symbol.Symbol {
	for i := p.rhsLen - 1; i >= 0; i-- {
		if p.rhs[i].IsTerminal() {
			return p.rhs[i]
		}
	}
	return symbol.SymbolNil
}

func (p *production) format(symTab *symbol.SymbolTableReader) string {
	var b strings.Builder
	lhs, _ := symTab.ToText(p.lhs)
	fmt.Fprintf(&b, "%v →", lhs)
	if p.isEmpty() {
		fmt.Fprintf(&b, " ε")
	}
	for _, sym := range p.rhs {
		text, _ := symTab.ToText(sym)
		fmt.Fprintf(&b, " %v", text)
	}
	return b.String()
}

type productionSet struct {
	lhs2Prods map[symbol.Symbol][]*production
	id2Prod   map[productionID]*production
	num2Prod  []*production
	num       productionNum
}

func newProductionSet() *productionSet {
	return &productionSet{
		lhs2Prods: map[symbol.Symbol][]*production{},
		id2Prod:   map[productionID]*production{},
		num2Prod:  []*production{nil},
		num:       productionNumMin,
	}
}

// append numbers productions in the order they are appended. The production whose LHS is the start
// symbol always gets number 0.
func (ps *productionSet) append(prod *production) bool {
	if _, ok := ps.id2Prod[prod.id]; ok {
		return false
	}

	if prod.lhs.IsStart() {
		prod.num = productionNumStart
		ps.num2Prod[productionNumStart] = prod
	} else {
		prod.num = ps.num
		ps.num++
		ps.num2Prod = append(ps.num2Prod, prod)
	}

	ps.lhs2Prods[prod.lhs] = append(ps.lhs2Prods[prod.lhs], prod)
	ps.id2Prod[prod.id] = prod

	return true
}

func (ps *productionSet) findByID(id productionID) (*production, bool) {
	prod, ok := ps.id2Prod[id]
	return prod, ok
}

func (ps *productionSet) findByNum(num productionNum) (*production, bool) {
	if num.Int() >= len(ps.num2Prod) || ps.num2Prod[num] == nil {
		return nil, false
	}
	return ps.num2Prod[num], true
}

func (ps *productionSet) findByLHS(lhs symbol.Symbol) ([]*production, bool) {
	if lhs.IsNil() {
		return nil, false
	}

	prods, ok := ps.lhs2Prods[lhs]
	return prods, ok
}

func (ps *productionSet) getAllProductions() map[productionID]*production {
	return ps.id2Prod
}

// productions returns all productions in ascending order of their numbers.
func (ps *productionSet) productions() []*production {
	return ps.num2Prod
}

func (ps *productionSet) count() int {
	return len(ps.num2Prod)
}

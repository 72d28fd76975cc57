package syntax

import (
	"fmt"

	"github.com/nihei9/arvo/ast"
)

type ValueKind int

const (
	// ValueKindNone is the kind of the error symbol's placeholder.
	ValueKindNone ValueKind = iota
	ValueKindFlag
	ValueKindText
	ValueKindIdent
	ValueKindExpr
	ValueKindExprs
	ValueKindItem
	ValueKindItems
	ValueKindNode
)

func (k ValueKind) String() string {
	switch k {
	case ValueKindNone:
		return "none"
	case ValueKindFlag:
		return "flag"
	case ValueKindText:
		return "text"
	case ValueKindIdent:
		return "identifier"
	case ValueKindExpr:
		return "expression"
	case ValueKindExprs:
		return "expression list"
	case ValueKindItem:
		return "item"
	case ValueKindItems:
		return "item list"
	case ValueKindNode:
		return "node"
	}
	return fmt.Sprintf("<invalid value kind: %d>", int(k))
}

// Value is a semantic value of a grammar symbol. Reading a variant other than the one a value holds
// is a bug in the grammar's actions and panics.
type Value struct {
	kind    ValueKind
	payload any
}

func noneValue() Value {
	return Value{kind: ValueKindNone}
}

func flagValue(b bool) Value {
	return Value{kind: ValueKindFlag, payload: b}
}

func textValue(s string) Value {
	return Value{kind: ValueKindText, payload: s}
}

func identValue(id *ast.Identifier) Value {
	return Value{kind: ValueKindIdent, payload: id}
}

func exprValue(e ast.Expr) Value {
	return Value{kind: ValueKindExpr, payload: e}
}

func exprsValue(es ast.Exprs) Value {
	return Value{kind: ValueKindExprs, payload: es}
}

func itemValue(item ast.Item) Value {
	return Value{kind: ValueKindItem, payload: item}
}

func itemsValue(items ast.Items) Value {
	return Value{kind: ValueKindItems, payload: items}
}

func nodeValue(n *ast.Root) Value {
	return Value{kind: ValueKindNode, payload: n}
}

func (v Value) Kind() ValueKind {
	return v.kind
}

func (v Value) expect(k ValueKind) {
	if v.kind != k {
		panic(fmt.Sprintf("a semantic value holds %v, not %v", v.kind, k))
	}
}

func (v Value) Flag() bool {
	v.expect(ValueKindFlag)
	return v.payload.(bool)
}

func (v Value) Text() string {
	v.expect(ValueKindText)
	return v.payload.(string)
}

func (v Value) Ident() *ast.Identifier {
	v.expect(ValueKindIdent)
	return v.payload.(*ast.Identifier)
}

func (v Value) Expr() ast.Expr {
	v.expect(ValueKindExpr)
	return v.payload.(ast.Expr)
}

func (v Value) Exprs() ast.Exprs {
	v.expect(ValueKindExprs)
	return v.payload.(ast.Exprs)
}

func (v Value) Item() ast.Item {
	v.expect(ValueKindItem)
	return v.payload.(ast.Item)
}

func (v Value) Items() ast.Items {
	v.expect(ValueKindItems)
	return v.payload.(ast.Items)
}

func (v Value) Node() *ast.Root {
	v.expect(ValueKindNode)
	return v.payload.(*ast.Root)
}

package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

type treeNode struct {
	label    string
	children []*treeNode
}

func group(label string, children ...*treeNode) *treeNode {
	return &treeNode{
		label:    label,
		children: children,
	}
}

func withFlags(label string, flags map[string]bool, order ...string) string {
	var fs []string
	for _, f := range order {
		if flags[f] {
			fs = append(fs, f)
		}
	}
	if len(fs) == 0 {
		return label
	}
	return fmt.Sprintf("%v [%v]", label, strings.Join(fs, " "))
}

func identName(id *Identifier) string {
	if id == nil {
		return ""
	}
	return id.Name
}

func itemsTree(label string, items Items) *treeNode {
	g := group(label)
	for _, item := range items {
		g.children = append(g.children, toTree(item))
	}
	return g
}

func exprsTree(label string, es Exprs) *treeNode {
	g := group(label)
	for _, e := range es {
		g.children = append(g.children, toTree(e))
	}
	return g
}

func toTree(n any) *treeNode {
	switch n := n.(type) {
	case *Root:
		return group("Root", toTree(n.Item))
	case *Module:
		label := "Module"
		if n.Ident != nil {
			label = "Module " + n.Ident.Name
		}
		return group(label, itemsTree("items", n.Items))
	case *Function:
		label := withFlags("Function "+identName(n.Ident), map[string]bool{
			"exposed": n.Exposed,
			"extern":  n.Extern,
		}, "exposed", "extern")
		g := group(label, itemsTree("formals", n.Formals), group("ret", toTree(n.Ret)))
		if n.Body != nil {
			g.children = append(g.children, group("body", toTree(n.Body)))
		}
		return g
	case *StructType:
		label := withFlags("StructType "+identName(n.Ident), map[string]bool{
			"exposed": n.Exposed,
		}, "exposed")
		return group(label, itemsTree("fields", n.Fields))
	case *Variable:
		label := withFlags("Variable "+identName(n.Ident), map[string]bool{
			"mut":     n.Mutable,
			"exposed": n.Exposed,
		}, "mut", "exposed")
		return group(label, toTree(n.Type))
	case *UnresolvedType:
		return group("UnresolvedType " + identName(n.Ident))
	case *RefType:
		return group("RefType", toTree(n.Inner))
	case *LambdaType:
		return group("LambdaType", itemsTree("params", n.Params), group("ret", toTree(n.Ret)))
	case *VoidType:
		return group("VoidType")
	case *BadItem:
		return group("BadItem")
	case *BinaryOpExpr:
		return group("BinaryOpExpr "+n.Op, toTree(n.LHS), toTree(n.RHS))
	case *BlockExpr:
		return group("BlockExpr", exprsTree("stmts", n.Stmts), group("ret", toTree(n.Ret)))
	case *CallExpr:
		return group("CallExpr", group("target", toTree(n.Target)), exprsTree("args", n.Args))
	case *IdentExpr:
		return group("IdentExpr " + identName(n.Ident))
	case *LiteralExpr:
		return group(fmt.Sprintf("LiteralExpr %v %v", n.Kind, strconv.Quote(n.Text)))
	case *VoidExpr:
		return group("VoidExpr")
	case *BadExpr:
		return group("BadExpr")
	case nil:
		return group("<nil>")
	}
	return group(fmt.Sprintf("<unknown node: %T>", n))
}

// PrintTree prints a tree whose root is `node`. `node` can be any node of this package.
func PrintTree(w io.Writer, node any) {
	printTree(w, toTree(node), "", "")
}

func printTree(w io.Writer, node *treeNode, branch, indent string) {
	fmt.Fprintf(w, "%v%v\n", branch, node.label)

	last := len(node.children) - 1
	for i, child := range node.children {
		if i == last {
			printTree(w, child, indent+"└─ ", indent+"   ")
			continue
		}
		printTree(w, child, indent+"├─ ", indent+"│  ")
	}
}

// Dump converts a tree into maps and slices so that encoders such as encoding/json and yaml.v3 can
// serialize it. Every map has a "kind" key naming the node type.
func Dump(node any) any {
	switch n := node.(type) {
	case *Root:
		return map[string]any{
			"kind": "root",
			"item": Dump(n.Item),
		}
	case *Module:
		return map[string]any{
			"kind":  "module",
			"name":  identName(n.Ident),
			"items": dumpItems(n.Items),
		}
	case *Function:
		m := map[string]any{
			"kind":    "function",
			"name":    identName(n.Ident),
			"formals": dumpItems(n.Formals),
			"ret":     Dump(n.Ret),
			"exposed": n.Exposed,
			"extern":  n.Extern,
		}
		if n.Body != nil {
			m["body"] = Dump(n.Body)
		}
		return m
	case *StructType:
		return map[string]any{
			"kind":    "struct_type",
			"name":    identName(n.Ident),
			"fields":  dumpItems(n.Fields),
			"exposed": n.Exposed,
		}
	case *Variable:
		return map[string]any{
			"kind":    "variable",
			"name":    identName(n.Ident),
			"type":    Dump(n.Type),
			"mutable": n.Mutable,
			"exposed": n.Exposed,
		}
	case *UnresolvedType:
		return map[string]any{
			"kind": "unresolved_type",
			"name": identName(n.Ident),
		}
	case *RefType:
		return map[string]any{
			"kind":  "ref_type",
			"inner": Dump(n.Inner),
		}
	case *LambdaType:
		return map[string]any{
			"kind":   "lambda_type",
			"params": dumpItems(n.Params),
			"ret":    Dump(n.Ret),
		}
	case *VoidType:
		return map[string]any{
			"kind": "void_type",
		}
	case *BadItem:
		return map[string]any{
			"kind": "bad_item",
		}
	case *BinaryOpExpr:
		return map[string]any{
			"kind": "binary_op",
			"op":   n.Op,
			"lhs":  Dump(n.LHS),
			"rhs":  Dump(n.RHS),
		}
	case *BlockExpr:
		return map[string]any{
			"kind":  "block",
			"stmts": dumpExprs(n.Stmts),
			"ret":   Dump(n.Ret),
		}
	case *CallExpr:
		return map[string]any{
			"kind":   "call",
			"target": Dump(n.Target),
			"args":   dumpExprs(n.Args),
		}
	case *IdentExpr:
		return map[string]any{
			"kind": "ident",
			"name": identName(n.Ident),
		}
	case *LiteralExpr:
		return map[string]any{
			"kind":    "literal",
			"literal": string(n.Kind),
			"text":    n.Text,
		}
	case *VoidExpr:
		return map[string]any{
			"kind": "void",
		}
	case *BadExpr:
		return map[string]any{
			"kind": "bad_expr",
		}
	}
	return nil
}

func dumpItems(items Items) []any {
	vs := make([]any, len(items))
	for i, item := range items {
		vs[i] = Dump(item)
	}
	return vs
}

func dumpExprs(es Exprs) []any {
	vs := make([]any, len(es))
	for i, e := range es {
		vs[i] = Dump(e)
	}
	return vs
}

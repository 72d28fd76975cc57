package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// SemanticActionSet is a set of semantic actions a parser calls.
type SemanticActionSet interface {
	// Shift returns the semantic value of a token the parser has just shifted.
	Shift(tok VToken) any

	// Reduce returns the semantic value of the LHS of the production `prodNum`. `rhs` holds the values of
	// the RHS symbols and is a view of the parser's stack: an implementation must not modify or retain it.
	// An error wrapping ErrSyntax makes the parser report a syntax error and recover from it. Any other
	// error stops the parser.
	Reduce(prodNum int, rhs []any) (any, error)

	// ShiftError returns the placeholder value of the error symbol the parser shifts while recovering.
	// `cause` is the look-ahead token at the time. It is nil when a semantic action rejected a reduction
	// before the parser read any token.
	ShiftError(cause VToken) any
}

var _ SemanticActionSet = &SyntaxTreeActionSet{}

// SyntaxTreeActionSet builds a concrete syntax tree made of *Node.
type SyntaxTreeActionSet struct {
	gram Grammar
}

func NewCSTActionSet(gram Grammar) *SyntaxTreeActionSet {
	return &SyntaxTreeActionSet{
		gram: gram,
	}
}

func (a *SyntaxTreeActionSet) Shift(tok VToken) any {
	term := a.gram.EOF()
	if !tok.EOF() {
		term = a.gram.Translate(tok.KindID())
	}
	row, col := tok.Position()
	return &Node{
		Type:     NodeTypeTerminal,
		KindName: a.gram.Terminal(term),
		Text:     string(tok.Lexeme()),
		Row:      row,
		Col:      col,
	}
}

func (a *SyntaxTreeActionSet) Reduce(prodNum int, rhs []any) (any, error) {
	n := &Node{
		Type:     NodeTypeNonTerminal,
		KindName: a.gram.NonTerminal(a.gram.LHS(prodNum)),
		Children: make([]*Node, 0, len(rhs)),
	}
	for _, v := range rhs {
		child, ok := v.(*Node)
		if !ok {
			return nil, fmt.Errorf("a semantic value must be a *Node; got: %T", v)
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

func (a *SyntaxTreeActionSet) ShiftError(cause VToken) any {
	return &Node{
		Type:     NodeTypeError,
		KindName: a.gram.Terminal(a.gram.Error()),
	}
}

type NodeType int

const (
	NodeTypeError NodeType = iota
	NodeTypeTerminal
	NodeTypeNonTerminal
)

// Node is a node of a concrete syntax tree. Only terminals have Text and a position, and only
// non-terminals have Children.
type Node struct {
	Type     NodeType
	KindName string
	Text     string
	Row      int
	Col      int
	Children []*Node
}

func (n *Node) MarshalJSON() ([]byte, error) {
	type terminal struct {
		Text string `json:"text"`
		Row  int    `json:"row"`
		Col  int    `json:"col"`
	}
	v := struct {
		Type     NodeType `json:"type"`
		KindName string   `json:"kind_name"`
		*terminal
		Children *[]*Node `json:"children,omitempty"`
	}{
		Type:     n.Type,
		KindName: n.KindName,
	}

	switch n.Type {
	case NodeTypeError:
	case NodeTypeTerminal:
		v.terminal = &terminal{
			Text: n.Text,
			Row:  n.Row,
			Col:  n.Col,
		}
	case NodeTypeNonTerminal:
		children := n.Children
		if children == nil {
			children = []*Node{}
		}
		v.Children = &children
	default:
		return nil, fmt.Errorf("invalid node type: %v", n.Type)
	}
	return json.Marshal(v)
}

// PrintTree writes the tree rooted at `node`, one node per line, with ruled lines showing the nesting.
func PrintTree(w io.Writer, node *Node) {
	printNode(w, node, "", "")
}

func printNode(w io.Writer, node *Node, branch, indent string) {
	if node == nil {
		return
	}

	if node.Type == NodeTypeTerminal {
		fmt.Fprintf(w, "%v%v %v\n", branch, node.KindName, strconv.Quote(node.Text))
		return
	}
	fmt.Fprintf(w, "%v%v\n", branch, node.KindName)

	for i, child := range node.Children {
		if i == len(node.Children)-1 {
			printNode(w, child, indent+"└─ ", indent+"   ")
		} else {
			printNode(w, child, indent+"├─ ", indent+"│  ")
		}
	}
}

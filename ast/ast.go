// Package ast defines the abstract syntax tree of Arvo. Nodes are built bottom-up by the constructors
// in this package; a constructor takes already built children and returns a new node owning them.
package ast

// Identifier is a name of a module, a function, a type, or a variable. Operator names such as `(+)`
// are identifiers whose Name is the operator.
type Identifier struct {
	Name string
}

func NewIdentifier(text string) *Identifier {
	return &Identifier{
		Name: text,
	}
}

type Identifiers []*Identifier

func EmptyIdentifiers() Identifiers {
	return Identifiers{}
}

// PushIdentifier returns a list having `id` at its end. `ids` must not be used after the call.
func PushIdentifier(ids Identifiers, id *Identifier) Identifiers {
	return append(ids, id)
}

// Expr is an expression.
type Expr interface {
	exprNode()
}

type Exprs []Expr

func EmptyExprs() Exprs {
	return Exprs{}
}

// PushExpr returns a list having `e` at its end. `es` must not be used after the call.
func PushExpr(es Exprs, e Expr) Exprs {
	return append(es, e)
}

type BinaryOpExpr struct {
	Op  string
	LHS Expr
	RHS Expr
}

func NewBinaryOpExpr(op string, lhs, rhs Expr) *BinaryOpExpr {
	return &BinaryOpExpr{
		Op:  op,
		LHS: lhs,
		RHS: rhs,
	}
}

// BlockExpr evaluates Stmts in order and then yields Ret.
type BlockExpr struct {
	Stmts Exprs
	Ret   Expr
}

// NewBlockExpr returns a block. A nil `stmts` means an empty list, and a nil `ret` means a block
// yielding nothing.
func NewBlockExpr(stmts Exprs, ret Expr) *BlockExpr {
	if stmts == nil {
		stmts = EmptyExprs()
	}
	if ret == nil {
		ret = NewVoidExpr()
	}
	return &BlockExpr{
		Stmts: stmts,
		Ret:   ret,
	}
}

type CallExpr struct {
	Target Expr
	Args   Exprs
}

func NewCallExpr(target Expr, args Exprs) *CallExpr {
	if args == nil {
		args = EmptyExprs()
	}
	return &CallExpr{
		Target: target,
		Args:   args,
	}
}

type IdentExpr struct {
	Ident *Identifier
}

func NewIdentExpr(id *Identifier) *IdentExpr {
	return &IdentExpr{
		Ident: id,
	}
}

type LiteralKind string

const (
	LiteralKindBool  LiteralKind = "bool"
	LiteralKindFloat LiteralKind = "float"
	LiteralKindInt   LiteralKind = "int"
)

// LiteralExpr keeps the text of a literal as written. Converting it into a value is left to later stages.
type LiteralExpr struct {
	Kind LiteralKind
	Text string
}

func NewBoolLiteralExpr(text string) *LiteralExpr {
	return &LiteralExpr{
		Kind: LiteralKindBool,
		Text: text,
	}
}

func NewFloatLiteralExpr(text string) *LiteralExpr {
	return &LiteralExpr{
		Kind: LiteralKindFloat,
		Text: text,
	}
}

func NewIntLiteralExpr(text string) *LiteralExpr {
	return &LiteralExpr{
		Kind: LiteralKindInt,
		Text: text,
	}
}

// VoidExpr is an expression yielding nothing, such as an empty statement.
type VoidExpr struct{}

func NewVoidExpr() *VoidExpr {
	return &VoidExpr{}
}

// BadExpr stands for an expression the parser skipped while recovering from a syntax error.
type BadExpr struct{}

func NewBadExpr() *BadExpr {
	return &BadExpr{}
}

func (*BinaryOpExpr) exprNode() {}
func (*BlockExpr) exprNode()    {}
func (*CallExpr) exprNode()     {}
func (*IdentExpr) exprNode()    {}
func (*LiteralExpr) exprNode()  {}
func (*VoidExpr) exprNode()     {}
func (*BadExpr) exprNode()      {}

// Item is a declaration or a type.
type Item interface {
	itemNode()
}

type Items []Item

func EmptyItems() Items {
	return Items{}
}

// PushItem returns a list having `item` at its end. `items` must not be used after the call.
func PushItem(items Items, item Item) Items {
	return append(items, item)
}

// Function is a function declaration. A function without Body is a profile, that is, a declaration
// whose definition lives elsewhere.
type Function struct {
	Ident   *Identifier
	Formals Items
	Ret     Item
	Exposed bool
	Extern  bool
	Body    Expr
}

func NewFunctionProfile(id *Identifier, formals Items, ret Item, exposed, extern bool) *Function {
	if formals == nil {
		formals = EmptyItems()
	}
	if ret == nil {
		ret = NewVoidType()
	}
	return &Function{
		Ident:   id,
		Formals: formals,
		Ret:     ret,
		Exposed: exposed,
		Extern:  extern,
	}
}

// NewFunction returns a function having the signature of `profile` and `body`. `profile` is left untouched.
func NewFunction(profile *Function, body Expr) *Function {
	f := *profile
	f.Body = body
	return &f
}

type Module struct {
	Ident *Identifier
	Items Items
}

// NewModule returns a module. A nil `id` means the unnamed module wrapping a whole source.
func NewModule(id *Identifier, items Items) *Module {
	if items == nil {
		items = EmptyItems()
	}
	return &Module{
		Ident: id,
		Items: items,
	}
}

type StructType struct {
	Ident   *Identifier
	Fields  Items
	Exposed bool
}

func NewStructType(id *Identifier, fields Items, exposed bool) *StructType {
	if fields == nil {
		fields = EmptyItems()
	}
	return &StructType{
		Ident:   id,
		Fields:  fields,
		Exposed: exposed,
	}
}

// UnresolvedType refers to a type by name. Resolving the name is left to later stages.
type UnresolvedType struct {
	Ident *Identifier
}

func NewUnresolvedType(id *Identifier) *UnresolvedType {
	return &UnresolvedType{
		Ident: id,
	}
}

type RefType struct {
	Inner Item
}

func NewRefType(inner Item) *RefType {
	return &RefType{
		Inner: inner,
	}
}

type LambdaType struct {
	Params Items
	Ret    Item
}

func NewLambdaType(params Items, ret Item) *LambdaType {
	if params == nil {
		params = EmptyItems()
	}
	return &LambdaType{
		Params: params,
		Ret:    ret,
	}
}

// VoidType is the return type of a function declared without one.
type VoidType struct{}

func NewVoidType() *VoidType {
	return &VoidType{}
}

// Variable is a global variable, a formal parameter, or a struct field.
type Variable struct {
	Ident   *Identifier
	Type    Item
	Mutable bool
	Exposed bool
}

func NewVariable(id *Identifier, ty Item, mutable, exposed bool) *Variable {
	return &Variable{
		Ident:   id,
		Type:    ty,
		Mutable: mutable,
		Exposed: exposed,
	}
}

// BadItem stands for an item the parser skipped while recovering from a syntax error.
type BadItem struct{}

func NewBadItem() *BadItem {
	return &BadItem{}
}

func (*Function) itemNode()       {}
func (*Module) itemNode()         {}
func (*StructType) itemNode()     {}
func (*UnresolvedType) itemNode() {}
func (*RefType) itemNode()        {}
func (*LambdaType) itemNode()     {}
func (*VoidType) itemNode()       {}
func (*Variable) itemNode()       {}
func (*BadItem) itemNode()        {}

// Root is the root of a tree. It wraps the unnamed module of a whole source.
type Root struct {
	Item Item
}

func NewRoot(item Item) *Root {
	return &Root{
		Item: item,
	}
}

package syntax

import (
	"github.com/nihei9/arvo/ast"
	"github.com/nihei9/arvo/grammar"
)

type action func(rhs []Value) Value

// rule is a production with its semantic action. The n-th rule becomes the production n+1.
type rule struct {
	lhs string
	rhs []string
	act action
}

func pass(i int) action {
	return func(rhs []Value) Value {
		return rhs[i]
	}
}

func flag(b bool) action {
	return func(rhs []Value) Value {
		return flagValue(b)
	}
}

func binaryOp(rhs []Value) Value {
	return exprValue(ast.NewBinaryOpExpr(rhs[1].Text(), rhs[0].Expr(), rhs[2].Expr()))
}

func opIdent(rhs []Value) Value {
	return identValue(ast.NewIdentifier(rhs[1].Text()))
}

func emptyItems(rhs []Value) Value {
	return itemsValue(ast.EmptyItems())
}

func firstItem(rhs []Value) Value {
	return itemsValue(ast.PushItem(ast.EmptyItems(), rhs[0].Item()))
}

func pushItem(last int) action {
	return func(rhs []Value) Value {
		return itemsValue(ast.PushItem(rhs[0].Items(), rhs[last].Item()))
	}
}

func emptyExprs(rhs []Value) Value {
	return exprsValue(ast.EmptyExprs())
}

func firstExpr(rhs []Value) Value {
	return exprsValue(ast.PushExpr(ast.EmptyExprs(), rhs[0].Expr()))
}

func pushExpr(last int) action {
	return func(rhs []Value) Value {
		return exprsValue(ast.PushExpr(rhs[0].Exprs(), rhs[last].Expr()))
	}
}

var rules = []*rule{
	{"top_level_node", []string{"opt_module_items"}, func(rhs []Value) Value {
		return nodeValue(ast.NewRoot(ast.NewModule(nil, rhs[0].Items())))
	}},

	{"opt_module_items", nil, emptyItems},
	{"opt_module_items", []string{"module_items"}, pass(0)},
	{"module_items", []string{"module_item"}, firstItem},
	{"module_items", []string{"module_items", "module_item"}, pushItem(1)},
	{"module_item", []string{"function"}, pass(0)},
	{"module_item", []string{"module"}, pass(0)},
	{"module_item", []string{"struct"}, pass(0)},
	{"module_item", []string{"variable", "semi"}, pass(0)},
	{"module_item", []string{"error", "semi"}, func(rhs []Value) Value {
		return itemValue(ast.NewBadItem())
	}},

	{"module", []string{"kw_module", "ident", "l_brace", "opt_module_items", "r_brace"}, func(rhs []Value) Value {
		return itemValue(ast.NewModule(rhs[1].Ident(), rhs[3].Items()))
	}},

	{"function", []string{"function_profile", "block_expr"}, func(rhs []Value) Value {
		return itemValue(ast.NewFunction(rhs[0].Item().(*ast.Function), rhs[1].Expr()))
	}},
	{"function", []string{"function_profile", "semi"}, pass(0)},
	{"function", []string{"function_profile", "arrow", "rhs_expr", "semi"}, func(rhs []Value) Value {
		return itemValue(ast.NewFunction(rhs[0].Item().(*ast.Function), rhs[2].Expr()))
	}},
	{"function_profile", []string{"opt_expose", "opt_extern", "kw_fn", "ident", "l_paren", "opt_formals", "r_paren", "opt_return_type"}, func(rhs []Value) Value {
		return itemValue(ast.NewFunctionProfile(rhs[3].Ident(), rhs[5].Items(), rhs[7].Item(), rhs[0].Flag(), rhs[1].Flag()))
	}},
	{"opt_return_type", nil, func(rhs []Value) Value {
		return itemValue(ast.NewVoidType())
	}},
	{"opt_return_type", []string{"colon", "ty"}, pass(1)},
	{"opt_formals", nil, emptyItems},
	{"opt_formals", []string{"formals"}, pass(0)},
	{"formals", []string{"formal"}, firstItem},
	{"formals", []string{"formals", "comma", "formal"}, pushItem(2)},
	{"formal", []string{"opt_mut", "ident", "colon", "ty"}, func(rhs []Value) Value {
		return itemValue(ast.NewVariable(rhs[1].Ident(), rhs[3].Item(), rhs[0].Flag(), false))
	}},

	{"variable", []string{"opt_expose", "opt_mut", "ident", "colon", "ty"}, func(rhs []Value) Value {
		return itemValue(ast.NewVariable(rhs[2].Ident(), rhs[4].Item(), rhs[1].Flag(), rhs[0].Flag()))
	}},

	{"struct", []string{"opt_expose", "kw_type", "ident", "l_brace", "opt_struct_fields", "r_brace"}, func(rhs []Value) Value {
		return itemValue(ast.NewStructType(rhs[2].Ident(), rhs[4].Items(), rhs[0].Flag()))
	}},
	{"opt_struct_fields", nil, emptyItems},
	{"opt_struct_fields", []string{"struct_fields"}, pass(0)},
	{"opt_struct_fields", []string{"struct_fields", "comma"}, pass(0)},
	{"struct_fields", []string{"struct_field"}, firstItem},
	{"struct_fields", []string{"struct_fields", "comma", "struct_field"}, pushItem(2)},
	{"struct_field", []string{"opt_expose", "ident", "colon", "ty"}, func(rhs []Value) Value {
		return itemValue(ast.NewVariable(rhs[1].Ident(), rhs[3].Item(), true, rhs[0].Flag()))
	}},

	{"ty", []string{"ident"}, func(rhs []Value) Value {
		return itemValue(ast.NewUnresolvedType(rhs[0].Ident()))
	}},
	{"ty", []string{"kw_fn", "l_paren", "opt_types", "r_paren", "arrow", "ty"}, func(rhs []Value) Value {
		return itemValue(ast.NewLambdaType(rhs[2].Items(), rhs[5].Item()))
	}},
	{"ty", []string{"l_paren", "ty", "r_paren"}, pass(1)},
	{"ty", []string{"amp", "ty"}, func(rhs []Value) Value {
		return itemValue(ast.NewRefType(rhs[1].Item()))
	}},
	{"opt_types", nil, emptyItems},
	{"opt_types", []string{"types"}, pass(0)},
	{"types", []string{"ty"}, firstItem},
	{"types", []string{"types", "comma", "ty"}, pushItem(2)},

	{"block_expr", []string{"l_brace", "r_brace"}, func(rhs []Value) Value {
		return exprValue(ast.NewBlockExpr(nil, nil))
	}},
	{"block_expr", []string{"l_brace", "body_exprs", "r_brace"}, func(rhs []Value) Value {
		return exprValue(ast.NewBlockExpr(rhs[1].Exprs(), nil))
	}},
	{"block_expr", []string{"l_brace", "rhs_expr", "r_brace"}, func(rhs []Value) Value {
		return exprValue(ast.NewBlockExpr(nil, rhs[1].Expr()))
	}},
	{"block_expr", []string{"l_brace", "body_exprs", "rhs_expr", "r_brace"}, func(rhs []Value) Value {
		return exprValue(ast.NewBlockExpr(rhs[1].Exprs(), rhs[2].Expr()))
	}},
	{"body_exprs", []string{"body_expr"}, firstExpr},
	{"body_exprs", []string{"body_exprs", "body_expr"}, pushExpr(1)},
	{"body_expr", []string{"semi"}, func(rhs []Value) Value {
		return exprValue(ast.NewVoidExpr())
	}},
	{"body_expr", []string{"rhs_expr", "semi"}, pass(0)},
	{"body_expr", []string{"block_expr"}, pass(0)},
	{"body_expr", []string{"error", "semi"}, func(rhs []Value) Value {
		return exprValue(ast.NewBadExpr())
	}},

	{"rhs_expr", []string{"binary_op_expr"}, pass(0)},
	{"rhs_expr", []string{"call_expr"}, pass(0)},
	{"rhs_expr", []string{"ident_expr"}, pass(0)},
	{"rhs_expr", []string{"literal_expr"}, pass(0)},
	{"rhs_expr", []string{"l_paren", "rhs_expr", "r_paren"}, pass(1)},
	{"binary_op_expr", []string{"rhs_expr", "add", "rhs_expr"}, binaryOp},
	{"binary_op_expr", []string{"rhs_expr", "sub", "rhs_expr"}, binaryOp},
	{"binary_op_expr", []string{"rhs_expr", "mul", "rhs_expr"}, binaryOp},
	{"binary_op_expr", []string{"rhs_expr", "div", "rhs_expr"}, binaryOp},
	{"binary_op_expr", []string{"rhs_expr", "pow", "rhs_expr"}, binaryOp},
	{"call_expr", []string{"rhs_expr", "l_paren", "opt_arguments", "r_paren"}, func(rhs []Value) Value {
		return exprValue(ast.NewCallExpr(rhs[0].Expr(), rhs[2].Exprs()))
	}},
	{"opt_arguments", nil, emptyExprs},
	{"opt_arguments", []string{"arguments"}, pass(0)},
	{"arguments", []string{"rhs_expr"}, firstExpr},
	{"arguments", []string{"arguments", "comma", "rhs_expr"}, pushExpr(2)},
	{"ident_expr", []string{"ident"}, func(rhs []Value) Value {
		return exprValue(ast.NewIdentExpr(rhs[0].Ident()))
	}},
	{"literal_expr", []string{"bool"}, func(rhs []Value) Value {
		return exprValue(ast.NewBoolLiteralExpr(rhs[0].Text()))
	}},
	{"literal_expr", []string{"float"}, func(rhs []Value) Value {
		return exprValue(ast.NewFloatLiteralExpr(rhs[0].Text()))
	}},
	{"literal_expr", []string{"int"}, func(rhs []Value) Value {
		return exprValue(ast.NewIntLiteralExpr(rhs[0].Text()))
	}},

	{"ident", []string{"identifier"}, func(rhs []Value) Value {
		return identValue(ast.NewIdentifier(rhs[0].Text()))
	}},
	{"ident", []string{"op_ident"}, pass(0)},
	{"op_ident", []string{"l_paren", "add", "r_paren"}, opIdent},
	{"op_ident", []string{"l_paren", "sub", "r_paren"}, opIdent},
	{"op_ident", []string{"l_paren", "mul", "r_paren"}, opIdent},
	{"op_ident", []string{"l_paren", "div", "r_paren"}, opIdent},
	{"op_ident", []string{"l_paren", "pow", "r_paren"}, opIdent},

	{"opt_expose", nil, flag(false)},
	{"opt_expose", []string{"kw_expose"}, flag(true)},
	{"opt_extern", nil, flag(false)},
	{"opt_extern", []string{"kw_extern"}, flag(true)},
	{"opt_mut", nil, flag(false)},
	{"opt_mut", []string{"kw_mut"}, flag(true)},
}

// actions[prod] is the semantic action of the production `prod`. actions[0] belongs to the augmented
// start production and is never called.
var actions = func() []action {
	acts := make([]action, len(rules)+1)
	for i, r := range rules {
		acts[i+1] = r.act
	}
	return acts
}()

func lit(name, text string) *grammar.Terminal {
	return &grammar.Terminal{
		Name:    name,
		Alias:   "'" + text + "'",
		Pattern: text,
		Literal: true,
	}
}

// Definition returns the grammar of Arvo. Keywords precede `identifier` so that the lexer prefers
// them when both match the same lexeme.
func Definition() *grammar.Definition {
	prods := make([]*grammar.Production, len(rules))
	for i, r := range rules {
		prods[i] = &grammar.Production{
			LHS: r.lhs,
			RHS: r.rhs,
		}
	}

	return &grammar.Definition{
		Name:  "arvo",
		Start: "top_level_node",
		Terminals: []*grammar.Terminal{
			lit("kw_expose", "expose"),
			lit("kw_extern", "extern"),
			lit("kw_fn", "fn"),
			lit("kw_module", "module"),
			lit("kw_mut", "mut"),
			lit("kw_type", "type"),
			{Name: "bool", Pattern: "true|false"},
			{Name: "float", Pattern: "[0-9]+[.][0-9]+"},
			{Name: "int", Pattern: "[0-9]+"},
			{Name: "identifier", Pattern: "[A-Za-z_][A-Za-z0-9_]*"},
			lit("comma", ","),
			lit("colon", ":"),
			lit("semi", ";"),
			lit("l_brace", "{"),
			lit("r_brace", "}"),
			lit("l_paren", "("),
			lit("r_paren", ")"),
			lit("amp", "&"),
			lit("arrow", "->"),
			lit("add", "+"),
			lit("sub", "-"),
			lit("mul", "*"),
			lit("div", "/"),
			lit("pow", "^"),
			{Name: "white_space", Pattern: "[ \t\r\n]+", Skip: true},
			{Name: "comment", Pattern: "//[^\n]*", Skip: true},
		},
		Precedence: []*grammar.PrecGroup{
			{Assoc: "left", Symbols: []string{"l_paren"}},
			{Assoc: "right", Symbols: []string{"pow"}},
			{Assoc: "left", Symbols: []string{"mul", "div"}},
			{Assoc: "left", Symbols: []string{"add", "sub"}},
		},
		Productions: prods,
	}
}

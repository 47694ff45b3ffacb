package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"javamaybe/internal/ast"
)

func (b *builder) expr(n *sitter.Node) (ast.Expr, error) {
	if n == nil {
		return nil, nil
	}
	sp := b.span(n)
	switch n.Kind() {
	case "identifier":
		return &ast.Ident{Span: sp, Name: b.text(n)}, nil
	case "this":
		return &ast.ThisExpr{Span: sp}, nil
	case "super":
		return &ast.Ident{Span: sp, Name: "super"}, nil
	case "parenthesized_expression":
		inner := named(n)
		if len(inner) != 1 {
			return b.rawExpr(n, "parenthesized expression"), nil
		}
		x, err := b.expr(inner[0])
		if err != nil {
			return nil, err
		}
		return &ast.ParenExpr{Span: sp, X: x}, nil
	case "method_invocation":
		return b.call(n)
	case "object_creation_expression":
		return b.newExpr(n)
	case "array_creation_expression":
		return b.newArray(n)
	case "array_initializer":
		return b.arrayInit(n)
	case "cast_expression":
		types := fieldAll(n, "type")
		if len(types) != 1 {
			return b.rawExpr(n, "intersection cast"), nil
		}
		x, err := b.expr(n.ChildByFieldName("value"))
		if err != nil {
			return nil, err
		}
		return &ast.CastExpr{Span: sp, Type: b.typeRef(types[0]), X: x}, nil
	case "field_access":
		obj := n.ChildByFieldName("object")
		field := n.ChildByFieldName("field")
		if field != nil && field.Kind() == "this" {
			return &ast.ThisExpr{Span: sp, Qualifier: b.text(obj)}, nil
		}
		x, err := b.expr(obj)
		if err != nil {
			return nil, err
		}
		return &ast.FieldExpr{Span: sp, X: x, Name: b.text(field)}, nil
	case "array_access":
		x, err := b.expr(n.ChildByFieldName("array"))
		if err != nil {
			return nil, err
		}
		idx, err := b.expr(n.ChildByFieldName("index"))
		if err != nil {
			return nil, err
		}
		return &ast.IndexExpr{Span: sp, X: x, Index: idx}, nil
	case "binary_expression":
		x, err := b.expr(n.ChildByFieldName("left"))
		if err != nil {
			return nil, err
		}
		y, err := b.expr(n.ChildByFieldName("right"))
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Span: sp, Op: b.text(n.ChildByFieldName("operator")), X: x, Y: y}, nil
	case "unary_expression":
		x, err := b.expr(n.ChildByFieldName("operand"))
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Span: sp, Op: b.text(n.ChildByFieldName("operator")), X: x}, nil
	case "update_expression":
		return b.update(n)
	case "assignment_expression":
		lhs, err := b.expr(n.ChildByFieldName("left"))
		if err != nil {
			return nil, err
		}
		rhs, err := b.expr(n.ChildByFieldName("right"))
		if err != nil {
			return nil, err
		}
		return &ast.AssignExpr{Span: sp, Op: b.text(n.ChildByFieldName("operator")), Lhs: lhs, Rhs: rhs}, nil
	case "ternary_expression":
		cond, err := b.expr(n.ChildByFieldName("condition"))
		if err != nil {
			return nil, err
		}
		then, err := b.expr(n.ChildByFieldName("consequence"))
		if err != nil {
			return nil, err
		}
		els, err := b.expr(n.ChildByFieldName("alternative"))
		if err != nil {
			return nil, err
		}
		return &ast.CondExpr{Span: sp, Cond: cond, Then: then, Else: els}, nil
	case "instanceof_expression":
		right := n.ChildByFieldName("right")
		if right == nil || right.Kind() == "record_pattern" {
			return b.rawExpr(n, "instanceof pattern"), nil
		}
		x, err := b.expr(n.ChildByFieldName("left"))
		if err != nil {
			return nil, err
		}
		return &ast.InstanceOfExpr{
			Span:    sp,
			X:       x,
			Type:    b.typeRef(right),
			Binding: b.text(n.ChildByFieldName("name")),
		}, nil
	case "class_literal":
		inner := named(n)
		if len(inner) == 0 {
			return b.rawExpr(n, "class literal"), nil
		}
		return &ast.ClassLit{Span: sp, Type: b.typeRef(inner[0])}, nil
	case "decimal_integer_literal", "hex_integer_literal", "octal_integer_literal", "binary_integer_literal":
		v := b.text(n)
		kind := ast.LitInt
		if strings.HasSuffix(v, "l") || strings.HasSuffix(v, "L") {
			kind = ast.LitLong
		}
		return &ast.Literal{Span: sp, Kind: kind, Value: v}, nil
	case "decimal_floating_point_literal", "hex_floating_point_literal":
		v := b.text(n)
		kind := ast.LitDouble
		if strings.HasSuffix(v, "f") || strings.HasSuffix(v, "F") {
			kind = ast.LitFloat
		}
		return &ast.Literal{Span: sp, Kind: kind, Value: v}, nil
	case "true", "false":
		return &ast.Literal{Span: sp, Kind: ast.LitBool, Value: b.text(n)}, nil
	case "character_literal":
		return &ast.Literal{Span: sp, Kind: ast.LitChar, Value: b.text(n)}, nil
	case "string_literal", "text_block":
		return &ast.Literal{Span: sp, Kind: ast.LitString, Value: b.text(n)}, nil
	case "null_literal":
		return &ast.Literal{Span: sp, Kind: ast.LitNull, Value: "null"}, nil
	case "ERROR":
		if b.strict {
			return nil, b.syntaxError(n)
		}
		return &ast.RawExpr{Span: sp, Text: b.text(n)}, nil
	default:
		// lambdas, method references, switch expressions
		return b.rawExpr(n, "expression"), nil
	}
}

func (b *builder) rawExpr(n *sitter.Node, what string) ast.Expr {
	b.unsupported(n, what)
	return &ast.RawExpr{Span: b.span(n), Text: b.text(n)}
}

func (b *builder) args(n *sitter.Node) ([]ast.Expr, error) {
	if n == nil {
		return nil, nil
	}
	var out []ast.Expr
	for _, c := range named(n) {
		x, err := b.expr(c)
		if err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, nil
}

func (b *builder) typeArgs(n *sitter.Node) []*ast.TypeRef {
	if n == nil {
		return nil
	}
	out := []*ast.TypeRef{}
	for _, c := range named(n) {
		out = append(out, b.typeRef(c))
	}
	return out
}

func (b *builder) call(n *sitter.Node) (ast.Expr, error) {
	c := &ast.CallExpr{
		Span:     b.span(n),
		Name:     b.text(n.ChildByFieldName("name")),
		TypeArgs: b.typeArgs(n.ChildByFieldName("type_arguments")),
	}
	if obj := n.ChildByFieldName("object"); obj != nil {
		recv, err := b.expr(obj)
		if err != nil {
			return nil, err
		}
		c.Recv = recv
	}
	args, err := b.args(n.ChildByFieldName("arguments"))
	if err != nil {
		return nil, err
	}
	c.Args = args
	return c, nil
}

func (b *builder) newExpr(n *sitter.Node) (ast.Expr, error) {
	// outer.new Inner() is rare enough to keep verbatim
	if !strings.HasPrefix(b.text(n), "new") {
		return b.rawExpr(n, "qualified instance creation"), nil
	}
	args, err := b.args(n.ChildByFieldName("arguments"))
	if err != nil {
		return nil, err
	}
	ne := &ast.NewExpr{Span: b.span(n), Type: b.typeRef(n.ChildByFieldName("type")), Args: args}
	if body := childOfKind(n, "class_body"); body != nil {
		ne.Body = b.text(body)
	}
	return ne, nil
}

func (b *builder) newArray(n *sitter.Node) (ast.Expr, error) {
	na := &ast.NewArrayExpr{Span: b.span(n), Elem: b.typeRef(n.ChildByFieldName("type"))}
	for _, d := range fieldAll(n, "dimensions") {
		switch d.Kind() {
		case "dimensions_expr":
			inner := named(d)
			if len(inner) == 0 {
				continue
			}
			x, err := b.expr(inner[len(inner)-1])
			if err != nil {
				return nil, err
			}
			na.Dims = append(na.Dims, x)
		case "dimensions":
			na.ExtraDims += countDims(b.text(d))
		}
	}
	if v := n.ChildByFieldName("value"); v != nil {
		init, err := b.arrayInit(v)
		if err != nil {
			return nil, err
		}
		na.Init = init
	}
	return na, nil
}

func (b *builder) arrayInit(n *sitter.Node) (*ast.ArrayInit, error) {
	ai := &ast.ArrayInit{Span: b.span(n), Elems: []ast.Expr{}}
	for _, c := range named(n) {
		x, err := b.expr(c)
		if err != nil {
			return nil, err
		}
		ai.Elems = append(ai.Elems, x)
	}
	return ai, nil
}

func (b *builder) update(n *sitter.Node) (ast.Expr, error) {
	kids := children(n)
	if len(kids) != 2 {
		return b.rawExpr(n, "update expression"), nil
	}
	op, operand, postfix := kids[0], kids[1], false
	if kids[0].IsNamed() {
		op, operand, postfix = kids[1], kids[0], true
	}
	x, err := b.expr(operand)
	if err != nil {
		return nil, err
	}
	return &ast.UnaryExpr{Span: b.span(n), Op: b.text(op), X: x, Postfix: postfix}, nil
}

package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"javamaybe/internal/ast"
)

func (b *builder) unit(root *sitter.Node) (*ast.CompilationUnit, error) {
	u := &ast.CompilationUnit{Span: b.span(root)}
	var header []string
	leading := true
	for _, n := range namedWithComments(root) {
		if isComment(n) {
			if leading {
				header = append(header, b.text(n))
			}
			continue
		}
		leading = false
		switch n.Kind() {
		case "package_declaration":
			if id := childOfKind(n, "scoped_identifier", "identifier"); id != nil {
				u.Package = b.text(id)
			}
		case "import_declaration":
			u.Imports = append(u.Imports, b.importDecl(n))
		case "class_declaration", "interface_declaration", "enum_declaration", "record_declaration":
			td, err := b.typeDecl(n)
			if err != nil {
				return nil, err
			}
			u.Types = append(u.Types, td)
		case "ERROR":
			if b.strict {
				return nil, b.syntaxError(n)
			}
		default:
			// nowhere to keep it verbatim at this level
			return nil, &ParseError{
				Message: "unsupported top-level declaration: " + describeKind(n.Kind()),
				Span:    b.span(n),
				Line:    int(n.StartPosition().Row) + 1, // #nosec G115
				Column:  int(n.StartPosition().Column) + 1,
			}
		}
	}
	u.Header = strings.Join(header, "\n")
	return u, nil
}

func (b *builder) importDecl(n *sitter.Node) *ast.Import {
	body := strings.TrimSpace(b.text(n))
	body = strings.TrimSuffix(strings.TrimPrefix(body, "import"), ";")
	body = strings.TrimSpace(body)
	imp := &ast.Import{Span: b.span(n)}
	if rest, ok := strings.CutPrefix(body, "static"); ok && (rest == "" || rest[0] == ' ' || rest[0] == '\t') {
		imp.Static = true
		body = strings.TrimSpace(rest)
	}
	body = strings.Join(strings.Fields(body), "")
	if path, ok := strings.CutSuffix(body, ".*"); ok {
		imp.Wildcard = true
		body = path
	}
	imp.Path = body
	return imp
}

func (b *builder) typeDecl(n *sitter.Node) (*ast.TypeDecl, error) {
	td := &ast.TypeDecl{
		Span:       b.span(n),
		Modifiers:  b.modifiers(n),
		Name:       b.text(n.ChildByFieldName("name")),
		TypeParams: b.typeParams(n.ChildByFieldName("type_parameters")),
	}
	switch n.Kind() {
	case "class_declaration":
		td.Kind = ast.KindClass
		if sc := n.ChildByFieldName("superclass"); sc != nil {
			for _, t := range named(sc) {
				td.Extends = append(td.Extends, b.typeRef(t))
			}
		}
	case "interface_declaration":
		td.Kind = ast.KindInterface
		if ext := childOfKind(n, "extends_interfaces"); ext != nil {
			td.Extends = b.typeList(ext)
		}
	case "enum_declaration":
		td.Kind = ast.KindEnum
	case "record_declaration":
		td.Kind = ast.KindRecord
		params, err := b.params(n.ChildByFieldName("parameters"))
		if err != nil {
			return nil, err
		}
		td.Components = params
	}
	if ifaces := n.ChildByFieldName("interfaces"); ifaces != nil {
		td.Implements = b.typeList(ifaces)
	}

	body := n.ChildByFieldName("body")
	if body == nil {
		return td, nil
	}
	members := namedWithComments(body)
	if td.Kind == ast.KindEnum {
		members = nil
		for _, c := range namedWithComments(body) {
			switch c.Kind() {
			case "enum_constant":
				ec, err := b.enumConstant(c)
				if err != nil {
					return nil, err
				}
				td.Constants = append(td.Constants, ec)
			case "enum_body_declarations":
				members = append(members, namedWithComments(c)...)
			}
		}
	}
	for _, c := range members {
		m, err := b.member(c)
		if err != nil {
			return nil, err
		}
		if m != nil {
			td.Members = append(td.Members, m)
		}
	}
	return td, nil
}

// typeList flattens `extends A, B` / `implements A, B` wrappers.
func (b *builder) typeList(n *sitter.Node) []*ast.TypeRef {
	var out []*ast.TypeRef
	for _, c := range named(n) {
		if c.Kind() == "type_list" {
			out = append(out, b.typeList(c)...)
			continue
		}
		out = append(out, b.typeRef(c))
	}
	return out
}

func (b *builder) enumConstant(n *sitter.Node) (*ast.EnumConstant, error) {
	ec := &ast.EnumConstant{Span: b.span(n), Name: b.text(n.ChildByFieldName("name"))}
	if args := n.ChildByFieldName("arguments"); args != nil {
		exprs, err := b.args(args)
		if err != nil {
			return nil, err
		}
		ec.Args = exprs
		if ec.Args == nil {
			ec.Args = []ast.Expr{}
		}
	}
	if body := n.ChildByFieldName("body"); body != nil {
		ec.Body = b.text(body)
	}
	return ec, nil
}

func (b *builder) member(n *sitter.Node) (ast.Member, error) {
	if isComment(n) {
		return &ast.RawMember{Span: b.span(n), Text: b.text(n)}, nil
	}
	switch n.Kind() {
	case "method_declaration", "constructor_declaration":
		return b.method(n)
	case "field_declaration", "constant_declaration":
		vars, err := b.declarators(n)
		if err != nil {
			return nil, err
		}
		return &ast.FieldDecl{
			Span:      b.span(n),
			Modifiers: b.modifiers(n),
			Type:      b.typeRef(n.ChildByFieldName("type")),
			Vars:      vars,
		}, nil
	case "class_declaration", "interface_declaration", "enum_declaration", "record_declaration":
		return b.typeDecl(n)
	case "block":
		blk, err := b.block(n)
		if err != nil {
			return nil, err
		}
		return &ast.Initializer{Span: b.span(n), Body: blk}, nil
	case "static_initializer":
		blk, err := b.block(childOfKind(n, "block"))
		if err != nil {
			return nil, err
		}
		return &ast.Initializer{Span: b.span(n), Static: true, Body: blk}, nil
	case "ERROR":
		if b.strict {
			return nil, b.syntaxError(n)
		}
		return &ast.RawMember{Span: b.span(n), Text: b.text(n)}, nil
	default:
		b.unsupported(n, "member")
		return &ast.RawMember{Span: b.span(n), Text: b.text(n)}, nil
	}
}

func (b *builder) method(n *sitter.Node) (*ast.MethodDecl, error) {
	m := &ast.MethodDecl{
		Span:        b.span(n),
		Modifiers:   b.modifiers(n),
		TypeParams:  b.typeParams(n.ChildByFieldName("type_parameters")),
		Name:        b.text(n.ChildByFieldName("name")),
		Constructor: n.Kind() != "method_declaration",
	}
	if !m.Constructor {
		m.Result = b.typeRef(n.ChildByFieldName("type"))
		if dims := n.ChildByFieldName("dimensions"); dims != nil && m.Result != nil {
			m.Result.Dims += countDims(b.text(dims))
		}
	}
	params, err := b.params(n.ChildByFieldName("parameters"))
	if err != nil {
		return nil, err
	}
	m.Params = params
	if th := childOfKind(n, "throws"); th != nil {
		m.Throws = b.typeList(th)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		blk, err := b.block(body)
		if err != nil {
			return nil, err
		}
		m.Body = blk
	}
	return m, nil
}

func (b *builder) params(n *sitter.Node) ([]*ast.Param, error) {
	if n == nil {
		return nil, nil
	}
	out := []*ast.Param{}
	for _, c := range named(n) {
		switch c.Kind() {
		case "formal_parameter":
			p := &ast.Param{
				Span:      b.span(c),
				Modifiers: b.modifiers(c),
				Type:      b.typeRef(c.ChildByFieldName("type")),
				Name:      b.text(c.ChildByFieldName("name")),
			}
			if dims := c.ChildByFieldName("dimensions"); dims != nil && p.Type != nil {
				p.Type.Dims += countDims(b.text(dims))
			}
			out = append(out, p)
		case "spread_parameter":
			p := &ast.Param{Span: b.span(c), Modifiers: b.modifiers(c), Varargs: true}
			for _, sc := range named(c) {
				switch sc.Kind() {
				case "modifiers":
				case "variable_declarator":
					p.Name = b.text(sc.ChildByFieldName("name"))
				default:
					if p.Type == nil {
						p.Type = b.typeRef(sc)
					}
				}
			}
			out = append(out, p)
		case "receiver_parameter":
			// `Outer this` adds nothing to the signature we care about
		}
	}
	return out, nil
}

func (b *builder) declarators(n *sitter.Node) ([]*ast.VarDeclarator, error) {
	var out []*ast.VarDeclarator
	for _, d := range fieldAll(n, "declarator") {
		v := &ast.VarDeclarator{Span: b.span(d), Name: b.text(d.ChildByFieldName("name"))}
		if dims := d.ChildByFieldName("dimensions"); dims != nil {
			v.Dims = countDims(b.text(dims))
		}
		if val := d.ChildByFieldName("value"); val != nil {
			e, err := b.expr(val)
			if err != nil {
				return nil, err
			}
			v.Init = e
		}
		out = append(out, v)
	}
	return out, nil
}

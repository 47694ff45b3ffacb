package parser

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
	sitter "github.com/tree-sitter/go-tree-sitter"

	"javamaybe/internal/ast"
	"javamaybe/internal/diag"
	"javamaybe/internal/source"
)

// builder lowers the tree-sitter concrete tree into ast nodes.
type builder struct {
	src      []byte
	file     source.FileID
	strict   bool
	reporter diag.Reporter
}

func (b *builder) span(n *sitter.Node) source.Span {
	if n == nil {
		return source.Span{File: b.file}
	}
	start, err := safecast.Conv[uint32](n.StartByte())
	if err != nil {
		start = 0
	}
	end, err := safecast.Conv[uint32](n.EndByte())
	if err != nil {
		end = start
	}
	return source.Span{File: b.file, Start: start, End: end}
}

func (b *builder) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	start, end := n.StartByte(), n.EndByte()
	if end > uint(len(b.src)) || start > end {
		return ""
	}
	return string(b.src[start:end])
}

func named(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := n.NamedChildCount()
	out := make([]*sitter.Node, 0, count)
	for i := uint(0); i < count; i++ {
		if c := n.NamedChild(i); c != nil && !isComment(c) {
			out = append(out, c)
		}
	}
	return out
}

// namedWithComments is named plus comment nodes, for places that keep them.
func namedWithComments(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if c := n.NamedChild(i); c != nil {
			out = append(out, c)
		}
	}
	return out
}

func isComment(n *sitter.Node) bool {
	k := n.Kind()
	return k == "line_comment" || k == "block_comment"
}

func children(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.ChildCount())
	for i := uint(0); i < n.ChildCount(); i++ {
		if c := n.Child(i); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// fieldAll returns every child stored under a multi-valued field.
func fieldAll(n *sitter.Node, field string) []*sitter.Node {
	if n == nil {
		return nil
	}
	cursor := n.Walk()
	defer cursor.Close()
	nodes := n.ChildrenByFieldName(field, cursor)
	out := make([]*sitter.Node, 0, len(nodes))
	for i := range nodes {
		out = append(out, &nodes[i])
	}
	return out
}

func childOfKind(n *sitter.Node, kinds ...string) *sitter.Node {
	for _, c := range named(n) {
		for _, k := range kinds {
			if c.Kind() == k {
				return c
			}
		}
	}
	return nil
}

// unsupported records a construct kept verbatim.
func (b *builder) unsupported(n *sitter.Node, what string) {
	if b.reporter == nil {
		return
	}
	diag.ReportInfo(b.reporter, diag.SynUnsupportedInput, b.span(n),
		fmt.Sprintf("%s kept verbatim: %s", what, n.Kind())).Emit()
}

func (b *builder) modifiers(n *sitter.Node) []string {
	mods := childOfKind(n, "modifiers")
	if mods == nil {
		return nil
	}
	var out []string
	for _, c := range children(mods) {
		if isComment(c) {
			continue
		}
		if t := strings.TrimSpace(b.text(c)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (b *builder) typeRef(n *sitter.Node) *ast.TypeRef {
	if n == nil {
		return nil
	}
	raw := b.text(n)
	// аннотации типов в позиции типа нам не нужны для сопоставления
	if n.Kind() == "annotated_type" {
		if inner := named(n); len(inner) > 0 {
			raw = b.text(inner[len(inner)-1])
		}
	}
	t, err := ast.ParseTypeRef(raw)
	if err != nil {
		t = &ast.TypeRef{Name: strings.Join(strings.Fields(raw), " ")}
	}
	t.Span = b.span(n)
	return t
}

func (b *builder) typeParams(n *sitter.Node) []*ast.TypeParam {
	if n == nil {
		return nil
	}
	var out []*ast.TypeParam
	for _, tp := range named(n) {
		if tp.Kind() != "type_parameter" {
			continue
		}
		p := &ast.TypeParam{Span: b.span(tp)}
		for _, c := range named(tp) {
			switch c.Kind() {
			case "type_identifier", "identifier":
				if p.Name == "" {
					p.Name = b.text(c)
				}
			case "type_bound":
				for _, bt := range named(c) {
					p.Bounds = append(p.Bounds, b.typeRef(bt))
				}
			}
		}
		out = append(out, p)
	}
	return out
}

func countDims(text string) int {
	return strings.Count(text, "[")
}

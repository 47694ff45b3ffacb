package parser

import (
	"fmt"
	"strings"
	"unicode"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"javamaybe/internal/source"
)

// ParseError is a syntax error with a best-effort location.
type ParseError struct {
	Path    string
	Message string
	Span    source.Span
	Line    int // 1-based
	Column  int // 1-based
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, e.Message)
}

func (b *builder) syntaxError(root *sitter.Node) *ParseError {
	missing := findFirst(root, (*sitter.Node).IsMissing)
	at := missing
	if at == nil {
		at = findFirst(root, (*sitter.Node).IsError)
	}
	if at == nil {
		at = root
	}
	msg := "syntax error"
	if missing != nil {
		msg = "syntax error: expected " + describeKind(missing.Kind())
	}
	pos := at.StartPosition()
	return &ParseError{
		Message: msg,
		Span:    b.span(at),
		Line:    int(pos.Row) + 1,    // #nosec G115 -- rows fit in int
		Column:  int(pos.Column) + 1, // #nosec G115
	}
}

// findFirst returns the left-most node satisfying pred.
func findFirst(root *sitter.Node, pred func(*sitter.Node) bool) *sitter.Node {
	var best *sitter.Node
	walk(root, func(n *sitter.Node) {
		if !pred(n) {
			return
		}
		if best == nil || n.StartByte() < best.StartByte() {
			best = n
		}
	})
	return best
}

func walk(n *sitter.Node, visit func(*sitter.Node)) {
	if n == nil {
		return
	}
	visit(n)
	for i := uint(0); i < n.ChildCount(); i++ {
		walk(n.Child(i), visit)
	}
}

func describeKind(kind string) string {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return "token"
	}
	for _, r := range kind {
		if unicode.IsLetter(r) || r == '_' {
			return strings.ReplaceAll(kind, "_", " ")
		}
	}
	return "'" + kind + "'"
}

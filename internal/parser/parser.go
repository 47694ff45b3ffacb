// Package parser turns Java source into the ast tree using the tree-sitter Java grammar.
package parser

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tsjava "github.com/tree-sitter/tree-sitter-java/bindings/go"

	"javamaybe/internal/ast"
	"javamaybe/internal/diag"
	"javamaybe/internal/source"
	"javamaybe/internal/trace"
)

type Options struct {
	Reporter diag.Reporter
	// Strict rejects files whose tree contains error nodes. Without it the
	// broken region is kept verbatim.
	Strict bool
}

var (
	langOnce sync.Once
	javaLang *sitter.Language
)

func language() *sitter.Language {
	langOnce.Do(func() {
		javaLang = sitter.NewLanguage(tsjava.Language())
	})
	return javaLang
}

// tree-sitter parsers are not goroutine-safe; keep one per worker.
var parserPool = sync.Pool{
	New: func() any {
		p := sitter.NewParser()
		if err := p.SetLanguage(language()); err != nil {
			p.Close()
			return err
		}
		return p
	},
}

// ParseFile parses one file of the FileSet into a compilation unit.
func ParseFile(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options) (*ast.CompilationUnit, error) {
	f := fs.Get(id)
	if f == nil {
		return nil, fmt.Errorf("parser: unknown file id %d", id)
	}
	span, _ := trace.Start(ctx, trace.ScopeUnit, "parse")
	span.WithInt("bytes", len(f.Content))
	defer span.End("")

	unit, err := Parse(f.Content, id, opts)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = f.Path
			if opts.Reporter != nil {
				diag.ReportError(opts.Reporter, diag.SynSyntaxError, pe.Span, pe.Message).Emit()
			}
		}
		return nil, err
	}
	unit.Path = f.Path
	return unit, nil
}

// Parse parses src, attributing spans to file id.
func Parse(src []byte, id source.FileID, opts Options) (*ast.CompilationUnit, error) {
	pooled := parserPool.Get()
	p, ok := pooled.(*sitter.Parser)
	if !ok {
		if err, isErr := pooled.(error); isErr {
			return nil, fmt.Errorf("parser: java grammar unavailable: %w", err)
		}
		return nil, errors.New("parser: java grammar unavailable")
	}
	defer parserPool.Put(p)

	tree := p.Parse(src, nil)
	if tree == nil {
		return nil, errors.New("parser: tree-sitter returned no tree")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.Kind() != "program" {
		return nil, errors.New("parser: unexpected root node")
	}
	b := &builder{src: src, file: id, strict: opts.Strict, reporter: opts.Reporter}
	if root.HasError() && opts.Strict {
		return nil, b.syntaxError(root)
	}
	return b.unit(root)
}

// ParseString is a convenience for tests and tooling.
func ParseString(src string) (*ast.CompilationUnit, error) {
	return Parse([]byte(src), 0, Options{Strict: true})
}

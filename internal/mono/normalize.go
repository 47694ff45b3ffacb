package mono

import "javamaybe/internal/ast"

// MethodNormalizer canonicalizes a method before analysis. Implementations
// mutate m in place.
type MethodNormalizer interface {
	Normalize(m *ast.MethodDecl)
}

// DefaultMethodNormalizer spells every qualified marker as the simple name
// and drops redundant parentheses around call arguments.
type DefaultMethodNormalizer struct{}

func (DefaultMethodNormalizer) Normalize(m *ast.MethodDecl) {
	ast.Inspect(m, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.TypeRef:
			if IsMarkerName(n.Name) {
				n.Name = MarkerName
			}
		case *ast.CallExpr:
			for i, a := range n.Args {
				n.Args[i] = ast.Unparen(a)
			}
		case *ast.NewExpr:
			for i, a := range n.Args {
				n.Args[i] = ast.Unparen(a)
			}
		}
		return true
	})
}

package mono

import (
	"javamaybe/internal/ast"
	"javamaybe/internal/types"
)

const (
	MarkerName    = types.MarkerName
	MarkerPackage = types.MarkerPackage
)

// IsMarkerName reports whether a written type name denotes the marker.
func IsMarkerName(name string) bool { return types.IsMarkerName(name) }

// IsMarker reports whether ref is exactly the marker type.
func IsMarker(ref *ast.TypeRef) bool {
	return ref != nil && ref.Dims == 0 && len(ref.Args) == 0 && IsMarkerName(ref.Name)
}

// MentionsMarker reports whether the marker occurs anywhere in ref.
func MentionsMarker(ref *ast.TypeRef) bool {
	return ref != nil && ref.Mentions(func(r *ast.TypeRef) bool { return IsMarkerName(r.Name) })
}


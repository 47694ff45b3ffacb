package types

import "strings"

// LangPackage is imported implicitly by every compilation unit.
const LangPackage = "java.lang"

// MarkerName is the simple name of the dynamic marker type declared in
// MarkerPackage.
const (
	MarkerName    = "Any"
	MarkerPackage = "com.techshroom.javamaybe"
)

// IsMarkerName reports whether a written or qualified name denotes the marker.
func IsMarkerName(name string) bool {
	return name == MarkerName || strings.HasSuffix(name, "."+MarkerName)
}

const (
	ObjectName = "java.lang.Object"
	StringName = "java.lang.String"
	ClassName  = "java.lang.Class"
)

var primitiveBoxes = map[string]string{
	"boolean": "java.lang.Boolean",
	"byte":    "java.lang.Byte",
	"char":    "java.lang.Character",
	"short":   "java.lang.Short",
	"int":     "java.lang.Integer",
	"long":    "java.lang.Long",
	"float":   "java.lang.Float",
	"double":  "java.lang.Double",
}

var boxPrimitives = func() map[string]string {
	m := make(map[string]string, len(primitiveBoxes))
	for p, b := range primitiveBoxes {
		m[b] = p
	}
	return m
}()

// IsPrimitiveName reports whether name is one of the eight primitive keywords.
func IsPrimitiveName(name string) bool {
	_, ok := primitiveBoxes[name]
	return ok
}

// Object returns a fresh java.lang.Object type.
func Object() *Type { return MakeReference(ObjectName) }

// String returns a fresh java.lang.String type.
func String() *Type { return MakeReference(StringName) }

// Box maps a primitive to its wrapper class; other types are returned as is.
// Type arguments cannot be primitive, so rewrites go through Box.
func Box(t *Type) *Type {
	if t.IsPrimitive() {
		if name, ok := primitiveBoxes[t.Name]; ok {
			return MakeReference(name)
		}
	}
	return t
}

// Unbox maps a wrapper class to its primitive, reporting whether t was a wrapper.
func Unbox(t *Type) (*Type, bool) {
	if t.IsReference() && len(t.Args) == 0 {
		if name, ok := boxPrimitives[t.Name]; ok {
			return MakePrimitive(name), true
		}
	}
	return t, false
}

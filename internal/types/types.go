// Package types describes resolved Java types as seen by the resolver and the
// specialization pass.
package types

import (
	"fmt"
	"strings"

	"javamaybe/internal/ast"
)

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindPrimitive
	KindReference
	KindArray
	KindTypeVar
	KindNull
	KindVoid
	KindUnresolved
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindPrimitive:
		return "primitive"
	case KindReference:
		return "reference"
	case KindArray:
		return "array"
	case KindTypeVar:
		return "typevar"
	case KindNull:
		return "null"
	case KindVoid:
		return "void"
	case KindUnresolved:
		return "unresolved"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a resolved Java type. Values are immutable once built; share freely.
type Type struct {
	Kind Kind
	// Name is the primitive keyword, the fully qualified class name, the type
	// variable name, or the original spelling for unresolved types.
	Name string
	Args []*Type // type arguments of a reference type
	Elem *Type   // element type of an array
}

// Descriptor helpers ---------------------------------------------------------

// MakePrimitive describes one of the eight primitive types.
func MakePrimitive(name string) *Type {
	return &Type{Kind: KindPrimitive, Name: name}
}

// MakeReference describes a class or interface type with optional arguments.
func MakeReference(qualified string, args ...*Type) *Type {
	return &Type{Kind: KindReference, Name: qualified, Args: args}
}

// MakeArray describes elem[].
func MakeArray(elem *Type) *Type {
	return &Type{Kind: KindArray, Elem: elem}
}

// MakeArrayN wraps elem in dims array levels.
func MakeArrayN(elem *Type, dims int) *Type {
	for range dims {
		elem = MakeArray(elem)
	}
	return elem
}

// MakeTypeVar describes a reference to a declared type parameter.
func MakeTypeVar(name string) *Type {
	return &Type{Kind: KindTypeVar, Name: name}
}

// MakeUnresolved keeps the spelling of a type the resolver could not find.
func MakeUnresolved(spelling string) *Type {
	return &Type{Kind: KindUnresolved, Name: spelling}
}

var (
	nullType = &Type{Kind: KindNull, Name: "null"}
	voidType = &Type{Kind: KindVoid, Name: "void"}
)

// Null is the type of the null literal.
func Null() *Type { return nullType }

// Void is the result type of void methods.
func Void() *Type { return voidType }

func (t *Type) IsPrimitive() bool  { return t != nil && t.Kind == KindPrimitive }
func (t *Type) IsReference() bool  { return t != nil && t.Kind == KindReference }
func (t *Type) IsArray() bool      { return t != nil && t.Kind == KindArray }
func (t *Type) IsTypeVar() bool    { return t != nil && t.Kind == KindTypeVar }
func (t *Type) IsNull() bool       { return t != nil && t.Kind == KindNull }
func (t *Type) IsVoid() bool       { return t != nil && t.Kind == KindVoid }
func (t *Type) IsUnresolved() bool { return t == nil || t.Kind == KindUnresolved || t.Kind == KindInvalid }

// IsMarker reports whether t is the marker type itself.
func (t *Type) IsMarker() bool { return t.IsReference() && len(t.Args) == 0 && IsMarkerName(t.Name) }

// Is reports whether t is the reference type with the given qualified name.
func (t *Type) Is(qualified string) bool {
	return t != nil && t.Kind == KindReference && t.Name == qualified
}

// Describe returns the fully qualified spelling, e.g. java.util.List<java.lang.String>.
// It is the identity used for de-duplication.
func (t *Type) Describe() string {
	var b strings.Builder
	t.write(&b, false)
	return b.String()
}

// Short returns the spelling used in generated source: java.lang is implied,
// every other package stays qualified.
func (t *Type) Short() string {
	var b strings.Builder
	t.write(&b, true)
	return b.String()
}

func (t *Type) String() string { return t.Describe() }

func (t *Type) write(b *strings.Builder, short bool) {
	if t == nil {
		b.WriteString("<nil>")
		return
	}
	switch t.Kind {
	case KindArray:
		t.Elem.write(b, short)
		b.WriteString("[]")
	case KindReference:
		name := t.Name
		if short {
			name = shortName(name)
		}
		b.WriteString(name)
		if len(t.Args) > 0 {
			b.WriteByte('<')
			for i, a := range t.Args {
				if i > 0 {
					b.WriteString(", ")
				}
				a.write(b, short)
			}
			b.WriteByte('>')
		}
	default:
		b.WriteString(t.Name)
	}
}

func shortName(qualified string) string {
	rest, ok := strings.CutPrefix(qualified, LangPackage+".")
	if ok && !strings.Contains(rest, ".") {
		return rest
	}
	return qualified
}

// Equal compares types structurally.
func Equal(a, b *Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.Kind == b.Kind && a.Describe() == b.Describe()
}

// Erasure drops type arguments, keeping array structure.
func (t *Type) Erasure() *Type {
	switch {
	case t == nil:
		return nil
	case t.Kind == KindArray:
		return MakeArray(t.Elem.Erasure())
	case t.Kind == KindReference && len(t.Args) > 0:
		return MakeReference(t.Name)
	default:
		return t
	}
}

// Ref converts t to a syntactic type in its Short spelling.
func (t *Type) Ref() (*ast.TypeRef, error) {
	if t.IsUnresolved() && (t == nil || t.Name == "") {
		return nil, fmt.Errorf("types: no spelling for %s type", t.kindString())
	}
	return ast.ParseTypeRef(t.Short())
}

func (t *Type) kindString() string {
	if t == nil {
		return "nil"
	}
	return t.Kind.String()
}

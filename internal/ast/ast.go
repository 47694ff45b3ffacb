// Package ast defines the mutable Java syntax tree the specialization pass works on.
//
// Nodes are plain pointer structs. Transformations mutate the tree in place:
// members are inserted and removed through the owning TypeDecl, and every
// node can be deep-copied with Clone so that no subtree is shared between
// two specialized methods.
//
// Constructs the pass never needs to look into (lambdas, switch statements,
// annotation declarations, ...) are kept verbatim as Raw* nodes and printed
// back unchanged.
package ast

import (
	"slices"
	"strings"

	"javamaybe/internal/source"
)

// Node is implemented by every tree node.
type Node interface {
	Pos() source.Span
}

// Member is a body declaration of a TypeDecl.
type Member interface {
	Node
	memberNode()
}

// CompilationUnit is the root of one parsed source file.
type CompilationUnit struct {
	Span    source.Span
	Path    string
	Header  string // leading comments, verbatim
	Package string
	Imports []*Import
	Types   []*TypeDecl
}

// Import is a single import declaration.
type Import struct {
	Span     source.Span
	Path     string // dotted, without the trailing ".*"
	Static   bool
	Wildcard bool
}

// TypeKind distinguishes class-like declarations.
type TypeKind uint8

const (
	KindClass TypeKind = iota
	KindInterface
	KindEnum
	KindRecord
)

func (k TypeKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindRecord:
		return "record"
	default:
		return "unknown"
	}
}

// TypeDecl is a class, interface, enum or record declaration.
type TypeDecl struct {
	Span       source.Span
	Kind       TypeKind
	Modifiers  []string // keywords and annotations, in source order
	Name       string
	TypeParams []*TypeParam
	Extends    []*TypeRef
	Implements []*TypeRef
	Components []*Param        // record header
	Constants  []*EnumConstant // enum constants
	Members    []Member
}

// TypeParam is a declared type variable with optional bounds.
type TypeParam struct {
	Span   source.Span
	Name   string
	Bounds []*TypeRef
}

// EnumConstant is one constant of an enum declaration.
type EnumConstant struct {
	Span source.Span
	Name string
	Args []Expr
	Body string // verbatim class body, "" when absent
}

// MethodDecl is a method or constructor declaration.
type MethodDecl struct {
	Span        source.Span
	Modifiers   []string
	TypeParams  []*TypeParam
	Result      *TypeRef // nil for constructors
	Name        string
	Params      []*Param
	Throws      []*TypeRef
	Body        *Block // nil for abstract and native methods
	Constructor bool
}

// Param is a formal parameter.
type Param struct {
	Span      source.Span
	Modifiers []string
	Type      *TypeRef
	Name      string
	Varargs   bool
}

// FieldDecl declares one or more fields sharing a type.
type FieldDecl struct {
	Span      source.Span
	Modifiers []string
	Type      *TypeRef
	Vars      []*VarDeclarator
}

// VarDeclarator is a single `name [= init]` entry of a field or local declaration.
type VarDeclarator struct {
	Span source.Span
	Name string
	Dims int
	Init Expr
}

// Initializer is an instance or static initializer block.
type Initializer struct {
	Span   source.Span
	Static bool
	Body   *Block
}

// RawMember keeps a member the pass does not model.
type RawMember struct {
	Span source.Span
	Text string
}

func (n *CompilationUnit) Pos() source.Span { return n.Span }
func (n *Import) Pos() source.Span          { return n.Span }
func (n *TypeDecl) Pos() source.Span        { return n.Span }
func (n *TypeParam) Pos() source.Span       { return n.Span }
func (n *EnumConstant) Pos() source.Span    { return n.Span }
func (n *MethodDecl) Pos() source.Span      { return n.Span }
func (n *Param) Pos() source.Span           { return n.Span }
func (n *FieldDecl) Pos() source.Span       { return n.Span }
func (n *VarDeclarator) Pos() source.Span   { return n.Span }
func (n *Initializer) Pos() source.Span     { return n.Span }
func (n *RawMember) Pos() source.Span       { return n.Span }

func (*TypeDecl) memberNode()    {}
func (*MethodDecl) memberNode()  {}
func (*FieldDecl) memberNode()   {}
func (*Initializer) memberNode() {}
func (*RawMember) memberNode()   {}

// Methods returns a snapshot of the declaration's methods, constructors excluded.
// The returned slice is not affected by later member insertions or removals.
func (d *TypeDecl) Methods() []*MethodDecl {
	if d == nil {
		return nil
	}
	out := make([]*MethodDecl, 0, len(d.Members))
	for _, m := range d.Members {
		if md, ok := m.(*MethodDecl); ok && !md.Constructor {
			out = append(out, md)
		}
	}
	return out
}

// NestedTypes returns a snapshot of the member type declarations.
func (d *TypeDecl) NestedTypes() []*TypeDecl {
	if d == nil {
		return nil
	}
	var out []*TypeDecl
	for _, m := range d.Members {
		if td, ok := m.(*TypeDecl); ok {
			out = append(out, td)
		}
	}
	return out
}

// IndexOf returns the position of m in the live member list, or -1.
func (d *TypeDecl) IndexOf(m Member) int {
	for i, cur := range d.Members {
		if cur == m {
			return i
		}
	}
	return -1
}

// InsertMember inserts m at position i, shifting later members right.
func (d *TypeDecl) InsertMember(i int, m Member) {
	if i < 0 || i > len(d.Members) {
		i = len(d.Members)
	}
	d.Members = slices.Insert(d.Members, i, m)
}

// RemoveMember removes m from the member list. It reports whether m was present.
func (d *TypeDecl) RemoveMember(m Member) bool {
	i := d.IndexOf(m)
	if i < 0 {
		return false
	}
	d.Members = slices.Delete(d.Members, i, i+1)
	return true
}

// Param returns the parameter with the given name.
func (m *MethodDecl) Param(name string) (*Param, int) {
	for i, p := range m.Params {
		if p.Name == name {
			return p, i
		}
	}
	return nil, -1
}

// Signature renders the method head as `name(T1, T2)`; used in diagnostics and reports.
func (m *MethodDecl) Signature() string {
	var b strings.Builder
	b.WriteString(m.Name)
	b.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Type.String())
		if p.Varargs {
			b.WriteString("...")
		}
	}
	b.WriteByte(')')
	return b.String()
}

// HasAnnotation reports whether mods carries @name (simple or qualified).
func HasAnnotation(mods []string, name string) bool {
	for _, mod := range mods {
		if !strings.HasPrefix(mod, "@") {
			continue
		}
		ann := strings.TrimPrefix(mod, "@")
		if i := strings.IndexByte(ann, '('); i >= 0 {
			ann = ann[:i]
		}
		ann = strings.TrimSpace(ann)
		if ann == name || strings.HasSuffix(ann, "."+name) {
			return true
		}
	}
	return false
}

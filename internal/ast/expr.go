package ast

import "javamaybe/internal/source"

// Expr is implemented by expression nodes.
type Expr interface {
	Node
	exprNode()
}

// LitKind classifies literals.
type LitKind uint8

const (
	LitInt LitKind = iota
	LitLong
	LitFloat
	LitDouble
	LitChar
	LitString
	LitBool
	LitNull
)

type (
	Ident struct {
		Span source.Span
		Name string
	}

	// Literal keeps the literal's source spelling in Value.
	Literal struct {
		Span  source.Span
		Kind  LitKind
		Value string
	}

	// ThisExpr is `this` or `Outer.this`.
	ThisExpr struct {
		Span      source.Span
		Qualifier string
	}

	// CallExpr is a method invocation; Recv is nil for unqualified calls.
	CallExpr struct {
		Span     source.Span
		Recv     Expr
		TypeArgs []*TypeRef
		Name     string
		Args     []Expr
	}

	// NewExpr is a class instance creation.
	NewExpr struct {
		Span source.Span
		Type *TypeRef
		Args []Expr
		Body string // verbatim anonymous class body, "" when absent
	}

	NewArrayExpr struct {
		Span      source.Span
		Elem      *TypeRef
		Dims      []Expr
		ExtraDims int
		Init      *ArrayInit
	}

	ArrayInit struct {
		Span  source.Span
		Elems []Expr
	}

	CastExpr struct {
		Span source.Span
		Type *TypeRef
		X    Expr
	}

	FieldExpr struct {
		Span source.Span
		X    Expr
		Name string
	}

	IndexExpr struct {
		Span  source.Span
		X     Expr
		Index Expr
	}

	BinaryExpr struct {
		Span source.Span
		Op   string
		X, Y Expr
	}

	// UnaryExpr covers prefix operators and ++/-- in both positions.
	UnaryExpr struct {
		Span    source.Span
		Op      string
		X       Expr
		Postfix bool
	}

	AssignExpr struct {
		Span source.Span
		Op   string // "=", "+=", ...
		Lhs  Expr
		Rhs  Expr
	}

	CondExpr struct {
		Span source.Span
		Cond Expr
		Then Expr
		Else Expr
	}

	InstanceOfExpr struct {
		Span    source.Span
		X       Expr
		Type    *TypeRef
		Binding string // pattern variable, "" when absent
	}

	ParenExpr struct {
		Span source.Span
		X    Expr
	}

	// ClassLit is `T.class`.
	ClassLit struct {
		Span source.Span
		Type *TypeRef
	}

	// RawExpr keeps an expression the pass does not model (lambdas, method references, switch expressions).
	RawExpr struct {
		Span source.Span
		Text string
	}
)

func (n *Ident) Pos() source.Span          { return n.Span }
func (n *Literal) Pos() source.Span        { return n.Span }
func (n *ThisExpr) Pos() source.Span       { return n.Span }
func (n *CallExpr) Pos() source.Span       { return n.Span }
func (n *NewExpr) Pos() source.Span        { return n.Span }
func (n *NewArrayExpr) Pos() source.Span   { return n.Span }
func (n *ArrayInit) Pos() source.Span      { return n.Span }
func (n *CastExpr) Pos() source.Span       { return n.Span }
func (n *FieldExpr) Pos() source.Span      { return n.Span }
func (n *IndexExpr) Pos() source.Span      { return n.Span }
func (n *BinaryExpr) Pos() source.Span     { return n.Span }
func (n *UnaryExpr) Pos() source.Span      { return n.Span }
func (n *AssignExpr) Pos() source.Span     { return n.Span }
func (n *CondExpr) Pos() source.Span       { return n.Span }
func (n *InstanceOfExpr) Pos() source.Span { return n.Span }
func (n *ParenExpr) Pos() source.Span      { return n.Span }
func (n *ClassLit) Pos() source.Span       { return n.Span }
func (n *RawExpr) Pos() source.Span        { return n.Span }

func (*Ident) exprNode()          {}
func (*Literal) exprNode()        {}
func (*ThisExpr) exprNode()       {}
func (*CallExpr) exprNode()       {}
func (*NewExpr) exprNode()        {}
func (*NewArrayExpr) exprNode()   {}
func (*ArrayInit) exprNode()      {}
func (*CastExpr) exprNode()       {}
func (*FieldExpr) exprNode()      {}
func (*IndexExpr) exprNode()      {}
func (*BinaryExpr) exprNode()     {}
func (*UnaryExpr) exprNode()      {}
func (*AssignExpr) exprNode()     {}
func (*CondExpr) exprNode()       {}
func (*InstanceOfExpr) exprNode() {}
func (*ParenExpr) exprNode()      {}
func (*ClassLit) exprNode()       {}
func (*RawExpr) exprNode()        {}

// Unparen strips any number of enclosing parentheses.
func Unparen(e Expr) Expr {
	for {
		p, ok := e.(*ParenExpr)
		if !ok {
			return e
		}
		e = p.X
	}
}

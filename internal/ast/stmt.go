package ast

import "javamaybe/internal/source"

// Stmt is implemented by statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

type (
	// Block is a brace-delimited statement list.
	Block struct {
		Span  source.Span
		Stmts []Stmt
	}

	// LocalVarStmt declares local variables.
	LocalVarStmt struct {
		Span      source.Span
		Modifiers []string
		Type      *TypeRef
		Vars      []*VarDeclarator
	}

	ExprStmt struct {
		Span source.Span
		X    Expr
	}

	ReturnStmt struct {
		Span   source.Span
		Result Expr // nil for a bare return
	}

	IfStmt struct {
		Span source.Span
		Cond Expr
		Then Stmt
		Else Stmt // may be nil
	}

	WhileStmt struct {
		Span source.Span
		Cond Expr
		Body Stmt
	}

	DoStmt struct {
		Span source.Span
		Body Stmt
		Cond Expr
	}

	// ForStmt is the classic three-clause loop.
	ForStmt struct {
		Span   source.Span
		Init   []Stmt
		Cond   Expr
		Update []Expr
		Body   Stmt
	}

	// ForEachStmt is the enhanced for loop.
	ForEachStmt struct {
		Span      source.Span
		Modifiers []string
		Type      *TypeRef
		Name      string
		Iter      Expr
		Body      Stmt
	}

	ThrowStmt struct {
		Span source.Span
		X    Expr
	}

	// BranchStmt is break or continue.
	BranchStmt struct {
		Span  source.Span
		Tok   string // "break" | "continue"
		Label string
	}

	LabeledStmt struct {
		Span  source.Span
		Label string
		Stmt  Stmt
	}

	TryStmt struct {
		Span      source.Span
		Resources []Stmt // LocalVarStmt or ExprStmt
		Body      *Block
		Catches   []*CatchClause
		Finally   *Block
	}

	CatchClause struct {
		Span      source.Span
		Modifiers []string
		Types     []*TypeRef
		Name      string
		Body      *Block
	}

	SyncStmt struct {
		Span source.Span
		Lock Expr
		Body *Block
	}

	EmptyStmt struct {
		Span source.Span
	}

	// RawStmt keeps a statement the pass does not model (switch, assert, local classes...).
	RawStmt struct {
		Span source.Span
		Text string
	}
)

func (n *Block) Pos() source.Span        { return n.Span }
func (n *LocalVarStmt) Pos() source.Span { return n.Span }
func (n *ExprStmt) Pos() source.Span     { return n.Span }
func (n *ReturnStmt) Pos() source.Span   { return n.Span }
func (n *IfStmt) Pos() source.Span       { return n.Span }
func (n *WhileStmt) Pos() source.Span    { return n.Span }
func (n *DoStmt) Pos() source.Span       { return n.Span }
func (n *ForStmt) Pos() source.Span      { return n.Span }
func (n *ForEachStmt) Pos() source.Span  { return n.Span }
func (n *ThrowStmt) Pos() source.Span    { return n.Span }
func (n *BranchStmt) Pos() source.Span   { return n.Span }
func (n *LabeledStmt) Pos() source.Span  { return n.Span }
func (n *TryStmt) Pos() source.Span      { return n.Span }
func (n *CatchClause) Pos() source.Span  { return n.Span }
func (n *SyncStmt) Pos() source.Span     { return n.Span }
func (n *EmptyStmt) Pos() source.Span    { return n.Span }
func (n *RawStmt) Pos() source.Span      { return n.Span }

func (*Block) stmtNode()        {}
func (*LocalVarStmt) stmtNode() {}
func (*ExprStmt) stmtNode()     {}
func (*ReturnStmt) stmtNode()   {}
func (*IfStmt) stmtNode()       {}
func (*WhileStmt) stmtNode()    {}
func (*DoStmt) stmtNode()       {}
func (*ForStmt) stmtNode()      {}
func (*ForEachStmt) stmtNode()  {}
func (*ThrowStmt) stmtNode()    {}
func (*BranchStmt) stmtNode()   {}
func (*LabeledStmt) stmtNode()  {}
func (*TryStmt) stmtNode()      {}
func (*SyncStmt) stmtNode()     {}
func (*EmptyStmt) stmtNode()    {}
func (*RawStmt) stmtNode()      {}

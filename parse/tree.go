// Package parse turns source text into the unresolved parse tree the
// build package's system builder (D3) consumes. Names are left as plain
// strings here; symbol resolution happens in build, not here, mirroring the
// teacher's split between compiler/ast's raw op tree and the semantic
// analyzer that resolves it.
package parse

import (
	"github.com/txta-lang/txtacheck/ast"
	"github.com/txta-lang/txtacheck/source"
)

// Expr is an unresolved expression tree node: same shape as ast.Node, but
// IDENTIFIER and DOT carry names instead of resolved symbols. A FUNCALL's
// callee is its first child, not a name.
type Expr struct {
	Kind        ast.Kind
	Children    []*Expr
	ChildNames  []string
	Name        string // IDENTIFIER name, DOT field
	Int         int64
	SyncReceive bool
	Pos, End    source.Pos
}

func (e *Expr) pos() (source.Pos, source.Pos) {
	if e == nil {
		return source.NoPos, source.NoPos
	}
	return e.Pos, e.End
}

// TypeSpec is an unresolved declared type.
type TypeSpec struct {
	Base        string // "void","int","bool","clock","chan","array","record"
	Const       bool
	Reference   bool
	Urgent      bool
	Broadcast   bool
	RangeLo     *Expr
	RangeHi     *Expr
	ArraySize   *Expr
	Elem        *TypeSpec
	RecordName  string // reference to a typedef'd record, or "" if inline
	Fields      []Field
	Params      []Param
	Return      *TypeSpec
}

type Field struct {
	Name string
	Type *TypeSpec
}

type Param struct {
	Name string
	Type *TypeSpec
}

// Decl is a variable or constant declaration, one per declared name.
type Decl struct {
	Name string
	Type *TypeSpec
	Init *Expr // nil if none
	Pos  source.Pos
}

type TypedefDecl struct {
	Name   string
	Fields []Field
	Pos    source.Pos
}

type StateDecl struct {
	Name      string
	Invariant *Expr // nil if none
	Pos       source.Pos
}

type TransitionDecl struct {
	Source, Target string
	Guard          *Expr
	Sync           *Expr
	Assign         *Expr
	Pos            source.Pos
}

type FuncDecl struct {
	Name   string
	Return *TypeSpec
	Params []Param
	Body   []Stmt
	Pos    source.Pos
}

// Stmt mirrors ast.Stmt with unresolved Exprs and nested Stmts.
type Stmt interface{ stmtNode() }

type (
	EmptyStmt struct{}

	ExprStmt struct{ Expr *Expr }

	ForStmt struct {
		Init, Cond, Step *Expr
		Body             Stmt
	}

	WhileStmt struct {
		Cond *Expr
		Body Stmt
	}

	DoWhileStmt struct {
		Cond *Expr
		Body Stmt
	}

	BlockStmt struct{ Stmts []Stmt }

	IfStmt struct {
		Cond       *Expr
		Then, Else Stmt
	}

	SwitchStmt struct {
		Cond *Expr
		Body Stmt
	}

	CaseStmt struct {
		Cond *Expr
		Body Stmt
	}

	DefaultStmt struct{ Body Stmt }

	BreakStmt    struct{}
	ContinueStmt struct{}

	ReturnStmt struct{ Value *Expr }
)

func (*EmptyStmt) stmtNode()    {}
func (*ExprStmt) stmtNode()     {}
func (*ForStmt) stmtNode()      {}
func (*WhileStmt) stmtNode()    {}
func (*DoWhileStmt) stmtNode()  {}
func (*BlockStmt) stmtNode()    {}
func (*IfStmt) stmtNode()       {}
func (*SwitchStmt) stmtNode()   {}
func (*CaseStmt) stmtNode()     {}
func (*DefaultStmt) stmtNode()  {}
func (*BreakStmt) stmtNode()    {}
func (*ContinueStmt) stmtNode() {}
func (*ReturnStmt) stmtNode()   {}

type TemplateDecl struct {
	Name    string
	Params  []Param
	Consts  []Decl
	Locals  []Decl
	Funcs   []FuncDecl
	States  []StateDecl
	Init    string
	Trans   []TransitionDecl
	Pos     source.Pos
}

type InstanceDecl struct {
	Name         string
	TemplateName string
	Args         []*Expr
	Pos          source.Pos
}

type SystemStmt struct {
	Names []string
	Pos   source.Pos
}

type QueryDecl struct {
	Expr *Expr
	Pos  source.Pos
}

// File is the root of a parsed document, in declaration order.
type File struct {
	Typedefs  []TypedefDecl
	Globals   []Decl
	Templates []TemplateDecl
	Instances []InstanceDecl
	System    *SystemStmt
	Queries   []QueryDecl
}

package ast

import "github.com/txta-lang/txtacheck/source"

// Variable is a declared variable or constant: {symbol, optional initializer}.
type Variable struct {
	Symbol *Symbol
	Init   ExprID // NoExpr if no initializer
}

// State is an automaton location: {symbol, optional invariant}.
type State struct {
	Symbol    *Symbol
	Invariant ExprID // NoExpr if none
}

// Transition is {source, target, guard, sync, assign}. Guard/Sync/Assign
// are NoExpr when omitted (guard ≡ true, sync ≡ none, assign ≡ constant 1,
// the last of which the builder materializes as a real CONSTANT node so
// the checker can tell "the implicit 1" apart from "an explicit 1").
type Transition struct {
	Source, Target *State
	Guard          ExprID
	Sync           ExprID
	Assign         ExprID
	ImplicitAssign bool // true iff Assign is the builder-synthesized "1"
}

// Function is a named function with a parameter frame and a statement body.
type Function struct {
	Symbol *Symbol
	Params *Frame
	Body   []Stmt
}

// Template is a parameterized automaton: a parameter frame and a body of
// states, transitions, local declarations and functions.
type Template struct {
	Symbol  *Symbol
	Params  *Frame
	Locals  []*Variable
	Consts  []*Variable
	Funcs   []*Function
	States  []*State
	Init    *State
	Trans   []*Transition
	ParamSy []*Symbol // Params.Entries[i] corresponds to ParamSy[i]
}

// InstanceArg binds one template parameter symbol to an argument expression;
// kept as an ordered slice (not a map) so checking order is deterministic.
type InstanceArg struct {
	Param *Symbol
	Arg   ExprID
}

// Instance is {template, parameter argument list}.
type Instance struct {
	Symbol   *Symbol
	Template *Template
	Args     []InstanceArg
}

// Query is a top-level property expression: either a LEADSTO expression or
// a plain constraint.
type Query struct {
	Expr ExprID
	Pos  source.Pos
}

// System is the collection of global declarations, templates, instances,
// queries, and the constant valuation, plus the expression arena and its
// parallel type side-table.
type System struct {
	Globals   []*Variable
	Consts    []*Variable
	Templates []*Template
	Instances []*Instance
	Queries   []*Query
	ConstVal  map[*Symbol]int64

	nodes []Node
	types []Type
}

func NewSystem() *System {
	return &System{ConstVal: make(map[*Symbol]int64)}
}

// NewExpr appends a node to the arena and returns its stable ID. The type
// slot starts as the zero Type (Base == VOID).
func (s *System) NewExpr(n Node) ExprID {
	id := ExprID(len(s.nodes))
	s.nodes = append(s.nodes, n)
	s.types = append(s.types, Type{RangeLo: NoExpr, RangeHi: NoExpr, Size: NoExpr})
	return id
}

func (s *System) Node(id ExprID) Node {
	if id == NoExpr {
		return Node{Kind: -1}
	}
	return s.nodes[id]
}

func (s *System) TypeOf(id ExprID) Type {
	if id == NoExpr {
		return TypeVoid
	}
	return s.types[id]
}

// SetType writes the type slot for id. The annotator calls this exactly
// once per reachable node; calling it twice on the same node is an
// implementation bug in the annotator, not a legal re-annotation.
func (s *System) SetType(id ExprID, t Type) {
	s.types[id] = t
}

func (s *System) Pos(id ExprID) (source.Pos, source.Pos) {
	if id == NoExpr {
		return source.NoPos, source.NoPos
	}
	n := s.nodes[id]
	return n.Pos, n.End
}

func (s *System) IsEmpty(id ExprID) bool { return id == NoExpr }

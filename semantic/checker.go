package semantic

import (
	"github.com/txta-lang/txtacheck/ast"
	"github.com/txta-lang/txtacheck/eval"
	"github.com/txta-lang/txtacheck/source"
)

// checker is C7's orchestrator: it owns the collaborators (the error sink
// and the constant evaluator) and the persistent set computed once up
// front, and drives one top-down/bottom-up pass over the whole system.
type checker struct {
	sys        *ast.System
	sink       source.Sink
	eval       eval.Evaluator
	persistent *PersistentSet

	funcReturn *ast.Type
	loopDepth  int
	switchDepth int
}

// Check runs the full semantic pass over sys and reports whether it
// completed without errors (warnings do not affect the result).
func Check(sys *ast.System, sink source.Sink, ev eval.Evaluator) bool {
	c := &checker{
		sys:        sys,
		sink:       sink,
		eval:       ev,
		persistent: CollectPersistent(sys),
	}

	for _, v := range sys.Consts {
		c.checkVariableDeclaration(v)
	}
	for _, v := range sys.Globals {
		c.checkVariableDeclaration(v)
	}
	for _, t := range sys.Templates {
		c.checkTemplate(t)
	}
	for _, inst := range sys.Instances {
		c.checkInstance(inst)
	}
	for _, q := range sys.Queries {
		c.checkQuery(q)
	}

	return !sink.HasErrors()
}

func (c *checker) checkVariableDeclaration(v *ast.Variable) {
	c.checkType(v.Symbol.Type)
	if v.Init != ast.NoExpr {
		c.annotate(v.Init)
		c.checkVariableInitialiser(v)
	}
}

// checkType validates a declared type's embedded expressions: array sizes,
// integer ranges, record field types and function parameter/return types
// are all annotated and range-checked here rather than where the type is
// used, since a type can be shared by several declarations.
func (c *checker) checkType(t ast.Type) {
	switch t.Base {
	case ast.INT:
		if t.HasRange() {
			c.annotate(t.RangeLo)
			c.annotate(t.RangeHi)
			c.requireSideEffectFreeInt(t.RangeLo, "Range bound must be a side-effect-free integer expression")
			c.requireSideEffectFreeInt(t.RangeHi, "Range bound must be a side-effect-free integer expression")
		}
	case ast.ARRAYTYPE:
		c.annotate(t.Size)
		c.requireSideEffectFreeInt(t.Size, "Array size must be a side-effect-free integer expression")
		c.checkType(*t.Elem)
	case ast.RECORD:
		for _, f := range t.Fields.Entries {
			c.checkType(f.Type)
		}
	case ast.FUNCTION:
		for _, p := range t.Params.Entries {
			c.checkType(p.Type)
		}
		c.checkType(*t.Return)
	}
}

func (c *checker) requireSideEffectFreeInt(id ast.ExprID, msg string) {
	if id == ast.NoExpr {
		return
	}
	if !isInteger(c.sys.TypeOf(id)) || !IsSideEffectFree(c.sys, id, c.persistent) {
		c.errorAt(id, msg)
	}
}

func (c *checker) checkTemplate(t *ast.Template) {
	for _, p := range t.Params.Entries {
		c.checkType(p.Type)
	}
	for _, v := range t.Consts {
		c.checkVariableDeclaration(v)
	}
	for _, v := range t.Locals {
		c.checkVariableDeclaration(v)
	}
	for _, f := range t.Funcs {
		c.checkFunction(f)
	}
	if t.Init == nil {
		c.sink.HandleError(source.NoPos, source.NoPos, "Template has no initial location")
	}
	for _, s := range t.States {
		c.checkState(s)
	}
	for _, tr := range t.Trans {
		c.checkTransition(tr)
	}
}

func (c *checker) checkState(s *ast.State) {
	if s.Invariant == ast.NoExpr {
		return
	}
	c.annotate(s.Invariant)
	if !IsInvariant(c.sys, s.Invariant) {
		c.errorAt(s.Invariant, "Invariant must be a conjunction of clock constraints")
	}
	if !IsSideEffectFree(c.sys, s.Invariant, c.persistent) {
		c.errorAt(s.Invariant, "Invariant must not have side effects")
	}
}

// checkTransition is C7's edge visitor, including the urgent/broadcast
// clock-guard rejection rule: an edge synchronizing on an urgent channel,
// or receiving on a broadcast channel, may not guard on a clock, since
// urgent and broadcast-receive semantics forbid time to pass while the
// edge is enabled.
func (c *checker) checkTransition(tr *ast.Transition) {
	c.annotate(tr.Guard)
	c.annotate(tr.Sync)
	c.annotate(tr.Assign)

	if tr.Guard != ast.NoExpr {
		if !IsGuard(c.sys, tr.Guard) {
			c.errorAt(tr.Guard, "Guard must be a conjunction of clock and data constraints")
		}
		if !IsSideEffectFree(c.sys, tr.Guard, c.persistent) {
			c.errorAt(tr.Guard, "Guard must not have side effects")
		}
	}

	if tr.Sync == ast.NoExpr {
		return
	}
	n := c.sys.Node(tr.Sync)
	chanType := c.sys.TypeOf(n.Child(0))
	isUrgent := chanType.HasPrefix(ast.URGENT)
	isBroadcastReceive := chanType.HasPrefix(ast.BROADCAST) && n.SyncReceive
	if tr.Guard == ast.NoExpr || !guardReferencesClock(c.sys, tr.Guard) {
		return
	}
	switch {
	case isUrgent:
		c.errorAt(tr.Guard, "Clock guards are not allowed on urgent transitions.")
	case isBroadcastReceive:
		c.errorAt(tr.Guard, "Clock guards are not allowed on broadcast receivers.")
	}
}

// requireStmtExprType is the §4.7 function-body rule for expression
// statements and for-loop init/step: the expression must be integer,
// clock, or record typed. NoExpr (an omitted for-loop clause) is exempt.
func (c *checker) requireStmtExprType(id ast.ExprID) {
	if id == ast.NoExpr {
		return
	}
	t := c.sys.TypeOf(id)
	if !isInteger(t) && !isClock(t) && !isRecord(t) {
		c.errorAt(id, "Expression statement must be integer, clock or record typed")
	}
}

func guardReferencesClock(sys *ast.System, id ast.ExprID) bool {
	if sys.IsEmpty(id) {
		return false
	}
	n := sys.Node(id)
	if n.Kind == ast.IDENTIFIER && n.Symbol != nil && n.Symbol.Type.Base == ast.CLOCK {
		return true
	}
	for _, ch := range n.Children {
		if guardReferencesClock(sys, ch) {
			return true
		}
	}
	return false
}

func (c *checker) checkInstance(inst *ast.Instance) {
	for _, arg := range inst.Args {
		c.annotate(arg.Arg)
		c.checkParameterCompatible(arg.Param.Type, arg.Arg)
	}
}

// checkQuery is the LEADSTO handler of C7: "A --> B" requires both sides to
// be constraints; a plain property requires the whole expression to be one.
func (c *checker) checkQuery(q *ast.Query) {
	c.annotate(q.Expr)
	n := c.sys.Node(q.Expr)
	if n.Kind == ast.LEADSTO {
		if !IsConstraint(c.sys, n.Child(0)) || !IsConstraint(c.sys, n.Child(1)) {
			c.errorAt(q.Expr, "Property must be a constraint")
		}
		return
	}
	if !IsConstraint(c.sys, q.Expr) {
		c.errorAt(q.Expr, "Property must be a constraint")
	}
}

func (c *checker) checkFunction(f *ast.Function) {
	prevReturn := c.funcReturn
	c.funcReturn = f.Symbol.Type.Return
	for _, stmt := range f.Body {
		c.checkStmt(stmt)
	}
	c.funcReturn = prevReturn
}

func (c *checker) checkStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.EmptyStmt:
	case *ast.ExprStmt:
		c.annotate(st.Expr)
		c.requireStmtExprType(st.Expr)
	case *ast.ForStmt:
		c.annotate(st.Init)
		c.annotate(st.Cond)
		c.annotate(st.Step)
		c.requireStmtExprType(st.Init)
		c.requireStmtExprType(st.Step)
		if st.Cond != ast.NoExpr && !isInteger(c.sys.TypeOf(st.Cond)) {
			c.errorAt(st.Cond, "Loop condition must be an integer expression")
		}
		c.loopDepth++
		c.checkStmt(st.Body)
		c.loopDepth--
	case *ast.WhileStmt:
		c.annotate(st.Cond)
		if !isInteger(c.sys.TypeOf(st.Cond)) {
			c.errorAt(st.Cond, "Loop condition must be an integer expression")
		}
		c.loopDepth++
		c.checkStmt(st.Body)
		c.loopDepth--
	case *ast.DoWhileStmt:
		c.annotate(st.Cond)
		if !isInteger(c.sys.TypeOf(st.Cond)) {
			c.errorAt(st.Cond, "Loop condition must be an integer expression")
		}
		c.loopDepth++
		c.checkStmt(st.Body)
		c.loopDepth--
	case *ast.BlockStmt:
		for _, inner := range st.Stmts {
			c.checkStmt(inner)
		}
	case *ast.IfStmt:
		c.annotate(st.Cond)
		if !isInteger(c.sys.TypeOf(st.Cond)) {
			c.errorAt(st.Cond, "Condition must be an integer expression")
		}
		c.checkStmt(st.Then)
		if st.Else != nil {
			c.checkStmt(st.Else)
		}
	case *ast.SwitchStmt:
		c.annotate(st.Cond)
		if !isInteger(c.sys.TypeOf(st.Cond)) {
			c.errorAt(st.Cond, "Switch expression must be an integer expression")
		}
		c.switchDepth++
		c.checkStmt(st.Body)
		c.switchDepth--
	case *ast.CaseStmt:
		c.annotate(st.Cond)
		if !isInteger(c.sys.TypeOf(st.Cond)) {
			c.errorAt(st.Cond, "Case label must be an integer expression")
		}
		c.checkStmt(st.Body)
	case *ast.DefaultStmt:
		c.checkStmt(st.Body)
	case *ast.BreakStmt:
		if c.loopDepth == 0 && c.switchDepth == 0 {
			c.sink.HandleError(source.NoPos, source.NoPos, "break statement not within a loop or switch")
		}
	case *ast.ContinueStmt:
		if c.loopDepth == 0 {
			c.sink.HandleError(source.NoPos, source.NoPos, "continue statement not within a loop")
		}
	case *ast.ReturnStmt:
		if st.Value == ast.NoExpr {
			return
		}
		c.annotate(st.Value)
		if c.funcReturn != nil && !areAssignmentCompatible(*c.funcReturn, c.sys.TypeOf(st.Value)) {
			c.errorAt(st.Value, "Incompatible return type")
		}
	}
}

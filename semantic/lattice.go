package semantic

import "github.com/txta-lang/txtacheck/ast"

// The boolean-valued type lattice of §4.1:
//
//	INT/BOOL  ⊂  INVARIANT  ⊂  GUARD  ⊂  CONSTRAINT
//
// with DIFF as a distinct auxiliary kind used only as an operand.

func isInteger(t ast.Type) bool { return t.Base == ast.INT || t.Base == ast.BOOL }

func isClock(t ast.Type) bool { return t.Base == ast.CLOCK }

func isRecord(t ast.Type) bool { return t.Base == ast.RECORD }

func isDiff(t ast.Type) bool { return t.Base == ast.DIFF }

// IsInvariant is true for the empty expression (an omitted invariant is
// ≡ true), integer-typed expressions, and expressions annotated INVARIANT.
func IsInvariant(sys *ast.System, id ast.ExprID) bool {
	if sys.IsEmpty(id) {
		return true
	}
	t := sys.TypeOf(id)
	return t.Base == ast.INVARIANT || isInteger(t)
}

func IsGuard(sys *ast.System, id ast.ExprID) bool {
	t := sys.TypeOf(id)
	return t.Base == ast.GUARD || IsInvariant(sys, id)
}

func IsConstraint(sys *ast.System, id ast.ExprID) bool {
	t := sys.TypeOf(id)
	return t.Base == ast.CONSTRAINT || IsGuard(sys, id)
}

package semantic

import "github.com/txta-lang/txtacheck/ast"

// IsLHSValue is the left-value predicate of §4.4 (C4): true iff expr
// designates a mutable storage location.
func IsLHSValue(sys *ast.System, id ast.ExprID) bool {
	if sys.IsEmpty(id) {
		return false
	}
	n := sys.Node(id)
	switch n.Kind {
	case ast.IDENTIFIER:
		return n.Symbol != nil && !n.Symbol.Type.HasPrefix(ast.CONST)
	case ast.DOT, ast.ARRAY:
		return IsLHSValue(sys, n.Child(0))
	case ast.INLINEIF:
		if !IsLHSValue(sys, n.Child(1)) || !IsLHSValue(sys, n.Child(2)) {
			return false
		}
		t := ast.StripArray(sys.TypeOf(n.Child(1)))
		f := ast.StripArray(sys.TypeOf(n.Child(2)))
		if t.Base != ast.INT {
			return true
		}
		return sameBoundExpr(sys, t.RangeLo, f.RangeLo) && sameBoundExpr(sys, t.RangeHi, f.RangeHi)
	case ast.COMMA:
		return IsLHSValue(sys, n.Child(1))
	case ast.FUNCALL:
		return false // functions cannot return references
	default:
		if n.Kind.IsAssign() {
			return IsLHSValue(sys, n.Child(0))
		}
		return false
	}
}

// IsUniqueReference is the stricter predicate of §4.4: an lvalue whose
// location does not depend on reading a persistent variable.
func IsUniqueReference(sys *ast.System, id ast.ExprID, p *PersistentSet) bool {
	if sys.IsEmpty(id) {
		return false
	}
	n := sys.Node(id)
	switch n.Kind {
	case ast.IDENTIFIER:
		return n.Symbol != nil && !n.Symbol.Type.HasPrefix(ast.CONST)
	case ast.DOT:
		return IsUniqueReference(sys, n.Child(0), p)
	case ast.ARRAY:
		return IsUniqueReference(sys, n.Child(0), p) && !dependsOn(sys, n.Child(1), p)
	case ast.INLINEIF:
		return false
	case ast.COMMA:
		return IsUniqueReference(sys, n.Child(1), p)
	case ast.FUNCALL:
		return false
	default:
		if n.Kind.IsAssign() {
			return IsUniqueReference(sys, n.Child(0), p)
		}
		return false
	}
}

// sameBoundExpr compares two declared range bounds structurally: they must
// be syntactically identical expression trees, not merely equal when
// evaluated, per §4.4's rule for INLINEIF over INT results.
func sameBoundExpr(sys *ast.System, a, b ast.ExprID) bool {
	if a == ast.NoExpr || b == ast.NoExpr {
		return a == b
	}
	na, nb := sys.Node(a), sys.Node(b)
	if na.Kind != nb.Kind {
		return false
	}
	switch na.Kind {
	case ast.CONSTANT:
		return na.Int == nb.Int
	case ast.IDENTIFIER:
		return na.Symbol == nb.Symbol
	}
	if len(na.Children) != len(nb.Children) {
		return false
	}
	for i := range na.Children {
		if !sameBoundExpr(sys, na.Children[i], nb.Children[i]) {
			return false
		}
	}
	return true
}

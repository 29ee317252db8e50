package semantic

import (
	"github.com/txta-lang/txtacheck/ast"
)

// annotate recurses to id's children first, then assigns id's type
// (C3, §4.3). LIST, LEADSTO and SYNC are left at the zero type (Base ==
// VOID): a LIST's type is contextual (checked against the declared type it
// initializes), and LEADSTO/SYNC are only ever examined structurally by
// their containing query or transition, never read as a value themselves.
func (c *checker) annotate(id ast.ExprID) {
	if c.sys.IsEmpty(id) {
		return
	}
	n := c.sys.Node(id)
	for _, child := range n.Children {
		c.annotate(child)
	}

	switch n.Kind {
	case ast.CONSTANT:
		c.sys.SetType(id, ast.TypeInt)
	case ast.IDENTIFIER:
		if n.Symbol != nil {
			c.sys.SetType(id, n.Symbol.Type)
		}
	case ast.ARRAY:
		c.annotateArrayIndex(id, n)
	case ast.DOT:
		c.annotateDot(id, n)
	case ast.EQ, ast.NEQ:
		c.annotateEquality(id, n)
	case ast.PLUS, ast.MINUS, ast.MULT, ast.DIV, ast.MOD,
		ast.BIT_AND, ast.BIT_OR, ast.BIT_XOR, ast.BIT_LSHIFT, ast.BIT_RSHIFT,
		ast.AND, ast.OR, ast.MIN, ast.MAX,
		ast.LT, ast.LE, ast.GE, ast.GT:
		c.annotateArithRel(id, n)
	case ast.NOT:
		c.annotateNot(id, n)
	case ast.UNARY_MINUS:
		c.annotateUnaryMinus(id, n)
	case ast.ASSIGN:
		c.annotateAssign(id, n)
	case ast.ASSPLUS, ast.ASSMINUS, ast.ASSDIV, ast.ASSMOD, ast.ASSMULT,
		ast.ASSAND, ast.ASSOR, ast.ASSXOR, ast.ASSLSHIFT, ast.ASSRSHIFT:
		c.annotateCompoundAssign(id, n)
	case ast.POSTINCREMENT, ast.PREINCREMENT, ast.POSTDECREMENT, ast.PREDECREMENT:
		c.annotateIncDec(id, n)
	case ast.INLINEIF:
		c.annotateInlineIf(id, n)
	case ast.COMMA:
		c.annotateComma(id, n)
	case ast.FUNCALL:
		c.annotateFuncall(id, n)
	}
}

func (c *checker) annotateEquality(id ast.ExprID, n ast.Node) {
	lt, rt := c.sys.TypeOf(n.Child(0)), c.sys.TypeOf(n.Child(1))
	var t ast.Type
	switch {
	case isInteger(lt) && isInteger(rt):
		t = ast.TypeInt
	case lt.Base == ast.RECORD && lt.Fields == rt.Fields:
		t = ast.TypeInt
	default:
		var ok bool
		t, ok = typeOfBinaryNonInt(n.Child(0), n.Kind, n.Child(1), c.sys)
		if !ok {
			c.errorAt(id, "Invalid operands to binary operator")
			t = ast.Type{Base: ast.CONSTRAINT, RangeLo: ast.NoExpr, RangeHi: ast.NoExpr, Size: ast.NoExpr}
		}
	}
	c.sys.SetType(id, t)
}

func (c *checker) annotateArithRel(id ast.ExprID, n ast.Node) {
	lt, rt := c.sys.TypeOf(n.Child(0)), c.sys.TypeOf(n.Child(1))
	var t ast.Type
	if isInteger(lt) && isInteger(rt) {
		t = ast.TypeInt
	} else {
		var ok bool
		t, ok = typeOfBinaryNonInt(n.Child(0), n.Kind, n.Child(1), c.sys)
		if !ok {
			c.errorAt(id, "Invalid operands to binary operator")
			t = ast.Type{Base: ast.CONSTRAINT, RangeLo: ast.NoExpr, RangeHi: ast.NoExpr, Size: ast.NoExpr}
		}
	}
	c.sys.SetType(id, t)
}

func (c *checker) annotateArrayIndex(id ast.ExprID, n ast.Node) {
	base := c.sys.TypeOf(n.Child(0))
	if !isInteger(c.sys.TypeOf(n.Child(1))) {
		c.errorAt(n.Child(1), "Array index must be an integer expression")
	}
	if base.Base != ast.ARRAYTYPE {
		c.errorAt(id, "Array expected")
		return
	}
	c.sys.SetType(id, *base.Elem)
}

func (c *checker) annotateDot(id ast.ExprID, n ast.Node) {
	base := c.sys.TypeOf(n.Child(0))
	if base.Base != ast.RECORD {
		c.errorAt(id, "Record expected")
		return
	}
	idx := base.Fields.IndexOf(n.Name)
	if idx < 0 {
		c.errorAt(id, "No field with that name")
		return
	}
	c.sys.SetType(id, base.Fields.Entries[idx].Type)
}

func (c *checker) annotateNot(id ast.ExprID, n ast.Node) {
	at := c.sys.TypeOf(n.Child(0))
	var t ast.Type
	switch {
	case isInteger(at):
		t = ast.TypeInt
	case IsConstraint(c.sys, n.Child(0)):
		t = ast.Type{Base: ast.CONSTRAINT, RangeLo: ast.NoExpr, RangeHi: ast.NoExpr, Size: ast.NoExpr}
	default:
		c.errorAt(id, "Invalid operation for type")
		t = ast.TypeInt
	}
	c.sys.SetType(id, t)
}

func (c *checker) annotateUnaryMinus(id ast.ExprID, n ast.Node) {
	if !isInteger(c.sys.TypeOf(n.Child(0))) {
		c.errorAt(id, "Invalid operation for type")
	}
	c.sys.SetType(id, ast.TypeInt)
}

func (c *checker) annotateAssign(id ast.ExprID, n ast.Node) {
	lhs, rhs := n.Child(0), n.Child(1)
	if !areAssignmentCompatible(c.sys.TypeOf(lhs), c.sys.TypeOf(rhs)) {
		c.errorAt(id, "Incompatible types")
	} else if !IsLHSValue(c.sys, lhs) {
		c.errorAtExpr(lhs, "Left hand side value expected")
	}
	c.sys.SetType(id, c.sys.TypeOf(lhs))
}

func (c *checker) annotateCompoundAssign(id ast.ExprID, n ast.Node) {
	lhs, rhs := n.Child(0), n.Child(1)
	if !isInteger(c.sys.TypeOf(lhs)) || !isInteger(c.sys.TypeOf(rhs)) {
		c.errorAt(id, "Non-integer types must use regular assignment operator.")
	} else if !IsLHSValue(c.sys, lhs) {
		c.errorAtExpr(lhs, "Left hand side value expected")
	}
	c.sys.SetType(id, c.sys.TypeOf(lhs))
}

func (c *checker) annotateIncDec(id ast.ExprID, n ast.Node) {
	lhs := n.Child(0)
	if c.sys.TypeOf(lhs).Base != ast.INT {
		c.errorAt(id, "Argument must be an integer value")
	} else if !IsLHSValue(c.sys, lhs) {
		c.errorAtExpr(lhs, "Left hand side value expected")
	}
	c.sys.SetType(id, ast.TypeInt)
}

func (c *checker) annotateInlineIf(id ast.ExprID, n ast.Node) {
	cond, then, els := n.Child(0), n.Child(1), n.Child(2)
	if !isInteger(c.sys.TypeOf(cond)) {
		c.errorAt(id, "First argument of inline if must be an integer")
	}
	if !areInlineIfCompatible(c.sys.TypeOf(then), c.sys.TypeOf(els)) {
		c.errorAt(id, "Incompatible arguments to inline if")
	}
	c.sys.SetType(id, c.sys.TypeOf(then))
}

func (c *checker) annotateComma(id ast.ExprID, n ast.Node) {
	lt, rt := c.sys.TypeOf(n.Child(0)), c.sys.TypeOf(n.Child(1))
	ok := func(t ast.Type) bool { return isInteger(t) || isClock(t) || isRecord(t) }
	if !ok(lt) || !ok(rt) {
		c.errorAt(id, "Arguments must be of integer, clock or record type")
	}
	c.sys.SetType(id, rt)
}

func (c *checker) annotateFuncall(id ast.ExprID, n ast.Node) {
	callee := n.Child(0)
	calleeType := c.sys.TypeOf(callee)
	if calleeType.Base != ast.FUNCTION {
		c.errorAtExpr(callee, "A function name was expected here")
		return
	}
	c.checkFunctionCallArguments(id, n)
	c.sys.SetType(id, *calleeType.Return)
}

// typeOfBinaryNonInt is §4.3.1's table.
func typeOfBinaryNonInt(leftID ast.ExprID, op ast.Kind, rightID ast.ExprID, sys *ast.System) (ast.Type, bool) {
	left, right := sys.TypeOf(leftID), sys.TypeOf(rightID)
	switch op {
	case ast.PLUS:
		if isInteger(left) && isClock(right) || isClock(left) && isInteger(right) {
			return ast.TypeClock, true
		}
		if isDiff(left) && isInteger(right) || isInteger(left) && isDiff(right) {
			return ast.TypeDiff, true
		}
	case ast.MINUS:
		if isClock(left) && isInteger(right) {
			return ast.TypeClock, true
		}
		if isDiff(left) && isInteger(right) || isInteger(left) && isDiff(right) || isClock(left) && isClock(right) {
			return ast.TypeDiff, true
		}
	case ast.AND:
		if IsInvariant(sys, leftID) && IsInvariant(sys, rightID) {
			return invariantType(), true
		}
		if IsGuard(sys, leftID) && IsGuard(sys, rightID) {
			return guardType(), true
		}
		if IsConstraint(sys, leftID) && IsConstraint(sys, rightID) {
			return constraintType(), true
		}
	case ast.OR:
		if IsConstraint(sys, leftID) && IsConstraint(sys, rightID) {
			return constraintType(), true
		}
	case ast.LT, ast.LE:
		if isClock(left) && isClock(right) || isClock(left) && isInteger(right) ||
			isDiff(left) && isInteger(right) || isInteger(left) && isDiff(right) {
			return invariantType(), true
		}
		if isInteger(left) && isClock(right) {
			return guardType(), true
		}
	case ast.EQ:
		if isClock(left) && isClock(right) || isClock(left) && isInteger(right) || isInteger(left) && isClock(right) ||
			isDiff(left) && isInteger(right) || isInteger(left) && isDiff(right) {
			return guardType(), true
		}
	case ast.NEQ:
		if isClock(left) && isClock(right) || isClock(left) && isInteger(right) || isInteger(left) && isClock(right) ||
			isDiff(left) && isInteger(right) || isInteger(left) && isDiff(right) {
			return constraintType(), true
		}
	case ast.GE, ast.GT:
		if isClock(left) && isClock(right) || isInteger(left) && isClock(right) ||
			isDiff(left) && isInteger(right) || isInteger(left) && isDiff(right) {
			return invariantType(), true
		}
		if isClock(left) && IsGuard(sys, rightID) {
			return guardType(), true
		}
	}
	return ast.Type{}, false
}

func invariantType() ast.Type {
	return ast.Type{Base: ast.INVARIANT, RangeLo: ast.NoExpr, RangeHi: ast.NoExpr, Size: ast.NoExpr}
}

func guardType() ast.Type {
	return ast.Type{Base: ast.GUARD, RangeLo: ast.NoExpr, RangeHi: ast.NoExpr, Size: ast.NoExpr}
}

func constraintType() ast.Type {
	return ast.Type{Base: ast.CONSTRAINT, RangeLo: ast.NoExpr, RangeHi: ast.NoExpr, Size: ast.NoExpr}
}

// areAssignmentCompatible is §4.3.2. Per the resolved open question of
// §4.3.2/§9, record-record assignment is compatible iff the frames are
// identical (the original source's inverted check is treated as a bug).
func areAssignmentCompatible(lhs, rhs ast.Type) bool {
	switch lhs.Base {
	case ast.VOID:
		return false
	case ast.CLOCK, ast.INT, ast.BOOL:
		return rhs.Base == ast.INT || rhs.Base == ast.BOOL
	case ast.RECORD:
		return rhs.Base == ast.RECORD && lhs.Fields == rhs.Fields
	}
	return false
}

// areInlineIfCompatible is §4.3.3.
func areInlineIfCompatible(then, els ast.Type) bool {
	switch then.Base {
	case ast.INT, ast.BOOL:
		return els.Base == ast.INT || els.Base == ast.BOOL
	case ast.CLOCK:
		return els.Base == ast.CLOCK
	case ast.CHANNEL:
		return els.Base == ast.CHANNEL &&
			then.HasPrefix(ast.URGENT) == els.HasPrefix(ast.URGENT) &&
			then.HasPrefix(ast.BROADCAST) == els.HasPrefix(ast.BROADCAST)
	case ast.ARRAYTYPE:
		return els.Base == ast.ARRAYTYPE &&
			then.Size == els.Size &&
			areInlineIfCompatible(*then.Elem, *els.Elem)
	case ast.RECORD:
		return els.Base == ast.RECORD && then.Fields == els.Fields
	}
	return false
}

func (c *checker) errorAt(id ast.ExprID, msg string) {
	pos, end := c.sys.Pos(id)
	c.sink.HandleError(pos, end, msg)
}

func (c *checker) errorAtExpr(id ast.ExprID, msg string) {
	c.errorAt(id, msg)
}

func (c *checker) warnAt(id ast.ExprID, msg string) {
	pos, end := c.sys.Pos(id)
	c.sink.HandleWarning(pos, end, msg)
}

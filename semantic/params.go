package semantic

import "github.com/txta-lang/txtacheck/ast"

// checkParameterCompatible is C6 (§4.5): formal is the declared parameter
// type and argID the argument expression, whose type, left-value status and
// (where statically computable) value are checked against formal.
func (c *checker) checkParameterCompatible(formal ast.Type, argID ast.ExprID) {
	actual := c.sys.TypeOf(argID)

	if formal.Base == ast.CHANNEL {
		c.checkChannelArgument(formal, argID, actual)
		return
	}

	if formal.HasPrefix(ast.REFERENCE) {
		c.checkReferenceArgument(formal, argID, actual)
		return
	}

	// By-value: any assignment-compatible expression, including one with
	// side effects, is acceptable.
	if !areAssignmentCompatible(formal, actual) {
		c.errorAt(argID, "Incompatible argument type")
	}
	if formal.Base == ast.INT && formal.HasRange() {
		c.checkRangeContainment(formal, argID)
	}
	if formal.Base == ast.ARRAYTYPE {
		c.checkArrayParamShape(formal, actual, argID)
	}
}

func (c *checker) checkReferenceArgument(formal ast.Type, argID ast.ExprID, actual ast.Type) {
	if !formal.HasPrefix(ast.CONST) && !IsLHSValue(c.sys, argID) {
		c.errorAt(argID, "Reference parameter requires left value argument")
		return
	}
	if !formal.HasPrefix(ast.CONST) && !IsUniqueReference(c.sys, argID, c.persistent) {
		c.errorAt(argID, "Reference parameter cannot alias a persistent variable more than once")
	}
	strippedFormal, strippedActual := ast.StripArray(formal), ast.StripArray(actual)
	if strippedFormal.Base != strippedActual.Base {
		c.errorAt(argID, "Incompatible argument type")
		return
	}
	if strippedFormal.Base == ast.INT && strippedFormal.HasRange() {
		c.checkRangeContainment(strippedFormal, argID)
	}
	if strippedFormal.Base == ast.RECORD && strippedFormal.Fields != strippedActual.Fields {
		c.errorAt(argID, "Incompatible argument type")
	}
}

// checkRangeContainment requires the argument's declared range (if any) to
// be contained in the formal's declared range; an argument with no declared
// range (e.g. a literal) is checked by value when statically evaluable.
func (c *checker) checkRangeContainment(formal ast.Type, argID ast.ExprID) {
	actual := c.sys.TypeOf(argID)
	if actual.Base == ast.INT && actual.HasRange() {
		aLo, errLo := c.eval.EvalRange(c.sys, actual.RangeLo, actual.RangeHi, nil)
		fLo, errF := c.eval.EvalRange(c.sys, formal.RangeLo, formal.RangeHi, nil)
		if errLo == nil && errF == nil && !fLo.ContainsRange(aLo) {
			c.errorAt(argID, "Argument's range is not contained in the parameter's range")
		}
		return
	}
	v, err := c.eval.EvalInt(c.sys, argID, nil)
	if err != nil {
		return
	}
	lo, err := c.eval.EvalInt(c.sys, formal.RangeLo, nil)
	if err != nil {
		return
	}
	hi, err := c.eval.EvalInt(c.sys, formal.RangeHi, nil)
	if err != nil {
		return
	}
	if v < lo || v > hi {
		c.errorAt(argID, "Argument is out of range")
	}
}

func (c *checker) checkArrayParamShape(formal, actual ast.Type, argID ast.ExprID) {
	if actual.Base != ast.ARRAYTYPE {
		c.errorAt(argID, "Incompatible argument type")
		return
	}
	fSize, errF := c.eval.EvalInt(c.sys, formal.Size, nil)
	aSize, errA := c.eval.EvalInt(c.sys, actual.Size, nil)
	if errF == nil && errA == nil && fSize != aSize {
		c.errorAt(argID, "Incompatible array size")
	}
}

// channelCap ranks channels by restrictiveness: urgent is the most
// restrictive synchronization discipline, plain the least. A parameter
// accepts any argument at least as unrestricted as itself.
func channelCap(t ast.Type) int {
	switch {
	case t.HasPrefix(ast.URGENT):
		return 0
	case t.HasPrefix(ast.BROADCAST):
		return 1
	default:
		return 2
	}
}

func channelCapability(formal, actual ast.Type) bool {
	return channelCap(actual) >= channelCap(formal)
}

func (c *checker) checkChannelArgument(formal ast.Type, argID ast.ExprID, actual ast.Type) {
	if actual.Base != ast.CHANNEL {
		c.errorAt(argID, "Incompatible argument type")
		return
	}
	if !IsLHSValue(c.sys, argID) {
		c.errorAt(argID, "Argument for channel parameter must be an lvalue")
	}
	if !channelCapability(formal, actual) {
		c.errorAt(argID, "Incompatible channel type")
	}
}

// checkFunctionCallArguments is the FUNCALL half of C6: it matches n's
// argument list (n.Children[1:]) against the callee's parameter frame,
// checking arity first and then each parameter in turn.
func (c *checker) checkFunctionCallArguments(callID ast.ExprID, n ast.Node) {
	callee := c.sys.TypeOf(n.Child(0))
	params := callee.Params
	args := n.Children[1:]
	if len(args) < params.Len() {
		c.errorAt(callID, "Too few arguments")
		return
	}
	if len(args) > params.Len() {
		c.errorAt(callID, "Too many arguments")
		return
	}
	for i, entry := range params.Entries {
		c.checkParameterCompatible(entry.Type, args[i])
	}
}

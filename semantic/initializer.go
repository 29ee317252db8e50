package semantic

import "github.com/txta-lang/txtacheck/ast"

// checkInitialiser is C5 (§4.6): it descends type and init together,
// following typechecker.cc's recursive shape rather than re-deriving init's
// own type, since a LIST initialiser has no standalone type of its own.
func (c *checker) checkInitialiser(t ast.Type, init ast.ExprID) {
	if c.sys.IsEmpty(init) {
		c.errorAt(init, "Incomplete initialiser")
		return
	}
	switch t.Base {
	case ast.ARRAYTYPE:
		c.checkArrayInitialiser(t, init)
	case ast.RECORD:
		c.checkRecordInitialiser(t, init)
	case ast.INT, ast.BOOL, ast.CLOCK:
		c.checkScalarInitialiser(t, init)
	default:
		c.errorAt(init, "Invalid initialiser")
	}
}

func (c *checker) checkScalarInitialiser(t ast.Type, init ast.ExprID) {
	if !IsSideEffectFree(c.sys, init, c.persistent) {
		c.errorAt(init, "Initialiser must not have side effects")
	}
	if !areAssignmentCompatible(t, c.sys.TypeOf(init)) {
		c.errorAt(init, "Incompatible types")
		return
	}
	if !t.HasRange() {
		return
	}
	v, err := c.eval.EvalInt(c.sys, init, nil)
	if err != nil {
		return // not statically evaluable; accepted without range checking
	}
	lo, errLo := c.eval.EvalInt(c.sys, t.RangeLo, nil)
	hi, errHi := c.eval.EvalInt(c.sys, t.RangeHi, nil)
	if errLo != nil || errHi != nil {
		return
	}
	if v < lo || v > hi {
		c.errorAt(init, "Initialiser is out of range")
	}
}

func (c *checker) checkArrayInitialiser(t ast.Type, init ast.ExprID) {
	n := c.sys.Node(init)
	if n.Kind != ast.LIST {
		c.errorAt(init, "Invalid array initialiser")
		return
	}
	size, err := c.eval.EvalInt(c.sys, t.Size, nil)
	if err != nil {
		// Array size not statically known (e.g. a template parameter);
		// just check the elements that are present.
		for _, el := range n.Children {
			c.checkInitialiser(*t.Elem, el)
		}
		return
	}
	if int64(len(n.Children)) > size {
		c.errorAt(init, "Excess elements in array initialiser")
	}
	for i, el := range n.Children {
		if int64(i) >= size {
			break
		}
		c.checkInitialiser(*t.Elem, el)
	}
}

// checkRecordInitialiser follows a record's field order left to right; named
// fields (ChildNames set) may appear out of order and leave the rest
// defaulting, but each field may be initialised at most once.
func (c *checker) checkRecordInitialiser(t ast.Type, init ast.ExprID) {
	n := c.sys.Node(init)
	if n.Kind != ast.LIST {
		c.errorAt(init, "Invalid record initialiser")
		return
	}
	seen := make([]bool, t.Fields.Len())
	next := 0
	for i, el := range n.Children {
		idx := next
		if i < len(n.ChildNames) && n.ChildNames[i] != "" {
			idx = t.Fields.IndexOf(n.ChildNames[i])
			if idx < 0 {
				c.errorAt(el, "No field with that name")
				continue
			}
		}
		if idx >= len(seen) {
			c.errorAt(el, "Excess elements in record initialiser")
			continue
		}
		if seen[idx] {
			c.errorAt(el, "Multiple initialisers for field")
			continue
		}
		seen[idx] = true
		c.checkInitialiser(t.Fields.Entries[idx].Type, el)
		next = idx + 1
	}
	for i, ok := range seen {
		if !ok {
			c.warnAt(init, "Missing fields in initialiser: "+t.Fields.Entries[i].Name)
		}
	}
}

// checkVariableInitialiser is the entry point C7 calls for each declared
// variable with an initialiser, §4.6's "variable-level" wrapper.
func (c *checker) checkVariableInitialiser(v *ast.Variable) {
	if v.Init == ast.NoExpr {
		return
	}
	c.checkInitialiser(v.Symbol.Type, v.Init)
}

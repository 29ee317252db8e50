package semantic

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/txta-lang/txtacheck/ast"
)

// PersistentSet is the persistent-variable set of §4.2 (C2): every
// non-constant declared variable, plus every template parameter that is a
// REFERENCE or is not CONSTANT. It is built once after the builder
// finishes and is immutable and read-only for the rest of checking, so a
// roaring bitmap over per-symbol identifiers gives cheap read-only
// membership tests without per-lookup map hashing.
type PersistentSet struct {
	ids  map[*ast.Symbol]uint32
	bits *roaring.Bitmap
}

func newPersistentSet() *PersistentSet {
	return &PersistentSet{ids: make(map[*ast.Symbol]uint32), bits: roaring.New()}
}

func (p *PersistentSet) add(sym *ast.Symbol) {
	if sym == nil {
		return
	}
	id, ok := p.ids[sym]
	if !ok {
		id = uint32(len(p.ids))
		p.ids[sym] = id
	}
	p.bits.Add(id)
}

// Contains reports whether sym is observable across invocations: a global
// or template-local variable that isn't a constant, or a template parameter
// that is a reference or isn't a constant.
func (p *PersistentSet) Contains(sym *ast.Symbol) bool {
	if sym == nil {
		return false
	}
	id, ok := p.ids[sym]
	return ok && p.bits.Contains(id)
}

// CollectPersistent walks sys once, before checking begins, and returns the
// persistent set used for the rest of the pass.
func CollectPersistent(sys *ast.System) *PersistentSet {
	p := newPersistentSet()
	for _, v := range sys.Globals {
		if !v.Symbol.Type.HasPrefix(ast.CONST) {
			p.add(v.Symbol)
		}
	}
	for _, t := range sys.Templates {
		for _, v := range t.Locals {
			if !v.Symbol.Type.HasPrefix(ast.CONST) {
				p.add(v.Symbol)
			}
		}
		for _, sym := range t.ParamSy {
			if sym.Type.HasPrefix(ast.REFERENCE) || !sym.Type.HasPrefix(ast.CONST) {
				p.add(sym)
			}
		}
	}
	return p
}

// dependsOn reports whether id reads any symbol in p.
func dependsOn(sys *ast.System, id ast.ExprID, p *PersistentSet) bool {
	if sys.IsEmpty(id) {
		return false
	}
	n := sys.Node(id)
	if n.Kind == ast.IDENTIFIER && p.Contains(n.Symbol) {
		return true
	}
	for _, c := range n.Children {
		if dependsOn(sys, c, p) {
			return true
		}
	}
	return false
}

// lvalueSymbols returns the symbol(s) an lvalue expression designates,
// following the same descent IsLHSValue uses (DOT/ARRAY index into the
// base, assignment kinds into their target, COMMA into the right operand,
// and both branches of an INLINEIF).
func lvalueSymbols(sys *ast.System, id ast.ExprID) []*ast.Symbol {
	n := sys.Node(id)
	switch n.Kind {
	case ast.IDENTIFIER:
		return []*ast.Symbol{n.Symbol}
	case ast.DOT, ast.ARRAY:
		return lvalueSymbols(sys, n.Child(0))
	case ast.COMMA:
		return lvalueSymbols(sys, n.Child(1))
	case ast.INLINEIF:
		return append(lvalueSymbols(sys, n.Child(1)), lvalueSymbols(sys, n.Child(2))...)
	default:
		if n.Kind.IsAssign() {
			return lvalueSymbols(sys, n.Child(0))
		}
		return nil
	}
}

// changesVariable reports whether id contains an assignment, compound
// assignment or increment/decrement whose target resolves to a symbol
// in p.
func changesVariable(sys *ast.System, id ast.ExprID, p *PersistentSet) bool {
	if sys.IsEmpty(id) {
		return false
	}
	n := sys.Node(id)
	if n.Kind.IsAssign() {
		for _, sym := range lvalueSymbols(sys, id) {
			if p.Contains(sym) {
				return true
			}
		}
	}
	for _, c := range n.Children {
		if changesVariable(sys, c, p) {
			return true
		}
	}
	return false
}

// IsSideEffectFree is ¬changesVariable(persistent) (§4.2).
func IsSideEffectFree(sys *ast.System, id ast.ExprID, p *PersistentSet) bool {
	return !changesVariable(sys, id, p)
}

package build

import (
	"github.com/agnivade/levenshtein"

	"github.com/txta-lang/txtacheck/ast"
)

// scope is a chain of symbol tables: globals, then one per template, then
// one per function, matching the nesting the classic and markup grammars
// both expose (§4.9).
type scope struct {
	parent *scope
	syms   map[string]*ast.Symbol
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, syms: make(map[string]*ast.Symbol)}
}

func (s *scope) define(sym *ast.Symbol) { s.syms[sym.Name] = sym }

func (s *scope) lookup(name string) *ast.Symbol {
	for sc := s; sc != nil; sc = sc.parent {
		if sym, ok := sc.syms[name]; ok {
			return sym
		}
	}
	return nil
}

// suggest returns the visible name closest to name by edit distance, for use
// in "did you mean" hints on undeclared-identifier errors. It returns "" if
// nothing in scope is close enough to be a plausible typo.
func (s *scope) suggest(name string) string {
	const maxDistance = 3
	best, bestDist := "", maxDistance+1
	for sc := s; sc != nil; sc = sc.parent {
		for n := range sc.syms {
			if d := levenshtein.ComputeDistance(name, n); d < bestDist {
				best, bestDist = n, d
			}
		}
	}
	if bestDist > maxDistance {
		return ""
	}
	return best
}

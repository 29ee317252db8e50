// Package eval is the constant-evaluator collaborator of §4/§6/§8 (C8): it
// interprets constant-integer subexpressions against a valuation and
// reports a recoverable failure, never a panic, when the expression reads
// something non-constant.
package eval

import (
	"fmt"

	"github.com/txta-lang/txtacheck/ast"
)

// Valuation maps constant symbols (template parameters during
// instantiation checking, plus the system's global constant valuation) to
// their integer value.
type Valuation map[*ast.Symbol]int64

// Range is an inclusive integer range, or the empty range.
type Range struct {
	Lo, Hi int64
	Empty  bool
}

func single(v int64) Range { return Range{Lo: v, Hi: v} }

func (r Range) Contains(v int64) bool {
	return !r.Empty && r.Lo <= v && v <= r.Hi
}

func (r Range) ContainsRange(o Range) bool {
	if o.Empty {
		return true
	}
	if r.Empty {
		return false
	}
	return r.Lo <= o.Lo && o.Hi <= r.Hi
}

func (r Range) Intersect(o Range) Range {
	if r.Empty || o.Empty {
		return Range{Empty: true}
	}
	lo, hi := r.Lo, r.Hi
	if o.Lo > lo {
		lo = o.Lo
	}
	if o.Hi < hi {
		hi = o.Hi
	}
	if lo > hi {
		return Range{Empty: true}
	}
	return Range{Lo: lo, Hi: hi}
}

func (r Range) IsEmpty() bool { return r.Empty }

func (r Range) Join(v int64) Range {
	if r.Empty {
		return single(v)
	}
	lo, hi := r.Lo, r.Hi
	if v < lo {
		lo = v
	}
	if v > hi {
		hi = v
	}
	return Range{Lo: lo, Hi: hi}
}

func (r Range) Equal(o Range) bool {
	if r.Empty || o.Empty {
		return r.Empty == o.Empty
	}
	return r.Lo == o.Lo && r.Hi == o.Hi
}

// NotComputable is returned whenever an expression cannot be
// folded to a constant; every caller in §4.5/§4.6 is required to catch it
// and degrade silently, never propagate it to the error sink.
type NotComputable struct {
	Reason string
}

func (e *NotComputable) Error() string {
	if e.Reason == "" {
		return "expression is not computable"
	}
	return fmt.Sprintf("expression is not computable: %s", e.Reason)
}

func notComputable(reason string) error { return &NotComputable{Reason: reason} }

//go:generate go run go.uber.org/mock/mockgen -destination mocks/eval_mock.go -package mocks . Evaluator

// Evaluator is the collaborator interface of §6: given a valuation and an
// expression, produce a single integer, a flattened integer vector (for
// record/array values), or a range; or fail recoverably.
type Evaluator interface {
	EvalInt(sys *ast.System, id ast.ExprID, val Valuation) (int64, error)
	EvalVector(sys *ast.System, id ast.ExprID, val Valuation) ([]int64, error)
	EvalRange(sys *ast.System, lo, hi ast.ExprID, val Valuation) (Range, error)
}

package eval

import (
	"fmt"
	"reflect"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/txta-lang/txtacheck/ast"
	"github.com/txta-lang/txtacheck/pkg/anymath"
)

// Interpreter is the concrete Evaluator. Repeated calls during
// parameter-compatibility checking of the same instantiation tend to ask
// for the same declared range or array size over and over, so results are
// memoized by (expression, valuation fingerprint).
type Interpreter struct {
	sys   *ast.System
	cache *lru.Cache[cacheKey, int64]
}

type cacheKey struct {
	id   ast.ExprID
	hash uint64
}

// NewInterpreter builds an Interpreter bound to sys's constant valuation.
// size bounds the memoization cache; 0 disables memoization.
func NewInterpreter(sys *ast.System, size int) *Interpreter {
	var c *lru.Cache[cacheKey, int64]
	if size > 0 {
		c, _ = lru.New[cacheKey, int64](size)
	}
	return &Interpreter{sys: sys, cache: c}
}

func fingerprint(val Valuation) uint64 {
	var h uint64 = 1469598103934665603 // FNV offset basis
	for sym, v := range val {
		h ^= uint64(reflect.ValueOf(sym).Pointer())
		h *= 1099511628211
		h ^= uint64(v)
		h *= 1099511628211
	}
	return h
}

func (e *Interpreter) lookupConst(sym *ast.Symbol, val Valuation) (int64, bool) {
	if v, ok := val[sym]; ok {
		return v, true
	}
	if v, ok := e.sys.ConstVal[sym]; ok {
		return v, true
	}
	return 0, false
}

// EvalInt interprets id as a single constant integer.
func (e *Interpreter) EvalInt(sys *ast.System, id ast.ExprID, val Valuation) (int64, error) {
	if id == ast.NoExpr {
		return 0, notComputable("empty expression")
	}
	key := cacheKey{id: id, hash: fingerprint(val)}
	if e.cache != nil {
		if v, ok := e.cache.Get(key); ok {
			return v, nil
		}
	}
	v, err := e.evalInt(id, val)
	if err == nil && e.cache != nil {
		e.cache.Add(key, v)
	}
	return v, err
}

func (e *Interpreter) evalInt(id ast.ExprID, val Valuation) (int64, error) {
	n := e.sys.Node(id)
	switch n.Kind {
	case ast.CONSTANT:
		return n.Int, nil
	case ast.IDENTIFIER:
		if n.Symbol == nil {
			return 0, notComputable("unresolved identifier")
		}
		if v, ok := e.lookupConst(n.Symbol, val); ok {
			return v, nil
		}
		return 0, notComputable(fmt.Sprintf("%q is not a known constant", n.Symbol.Name))
	case ast.UNARY_MINUS:
		a, err := e.evalInt(n.Child(0), val)
		if err != nil {
			return 0, err
		}
		return -a, nil
	case ast.NOT:
		a, err := e.evalInt(n.Child(0), val)
		if err != nil {
			return 0, err
		}
		if a == 0 {
			return 1, nil
		}
		return 0, nil
	case ast.PLUS, ast.MINUS, ast.MULT, ast.DIV, ast.MOD,
		ast.BIT_AND, ast.BIT_OR, ast.BIT_XOR, ast.BIT_LSHIFT, ast.BIT_RSHIFT,
		ast.AND, ast.OR, ast.MIN, ast.MAX,
		ast.LT, ast.LE, ast.EQ, ast.NEQ, ast.GE, ast.GT:
		a, err := e.evalInt(n.Child(0), val)
		if err != nil {
			return 0, err
		}
		b, err := e.evalInt(n.Child(1), val)
		if err != nil {
			return 0, err
		}
		return evalBinaryInt(n.Kind, a, b)
	case ast.INLINEIF:
		c, err := e.evalInt(n.Child(0), val)
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return e.evalInt(n.Child(1), val)
		}
		return e.evalInt(n.Child(2), val)
	case ast.COMMA:
		if _, err := e.evalInt(n.Child(0), val); err != nil {
			return 0, err
		}
		return e.evalInt(n.Child(1), val)
	case ast.ARRAY:
		vec, err := e.EvalVector(e.sys, n.Child(0), val)
		if err != nil {
			return 0, err
		}
		idx, err := e.evalInt(n.Child(1), val)
		if err != nil {
			return 0, err
		}
		if idx < 0 || int(idx) >= len(vec) {
			return 0, notComputable("constant index out of bounds")
		}
		return vec[idx], nil
	default:
		return 0, notComputable(fmt.Sprintf("%s is not a constant expression", n.Kind))
	}
}

func evalBinaryInt(k ast.Kind, a, b int64) (int64, error) {
	switch k {
	case ast.PLUS:
		return a + b, nil
	case ast.MINUS:
		return a - b, nil
	case ast.MULT:
		return a * b, nil
	case ast.DIV:
		if b == 0 {
			return 0, notComputable("division by zero")
		}
		return a / b, nil
	case ast.MOD:
		if b == 0 {
			return 0, notComputable("division by zero")
		}
		return a % b, nil
	case ast.BIT_AND:
		return a & b, nil
	case ast.BIT_OR:
		return a | b, nil
	case ast.BIT_XOR:
		return a ^ b, nil
	case ast.BIT_LSHIFT:
		return a << uint(b), nil
	case ast.BIT_RSHIFT:
		return a >> uint(b), nil
	case ast.AND:
		return boolInt(a != 0 && b != 0), nil
	case ast.OR:
		return boolInt(a != 0 || b != 0), nil
	case ast.MIN:
		return anymath.Min.Int64(a, b), nil
	case ast.MAX:
		return anymath.Max.Int64(a, b), nil
	case ast.LT:
		return boolInt(a < b), nil
	case ast.LE:
		return boolInt(a <= b), nil
	case ast.EQ:
		return boolInt(a == b), nil
	case ast.NEQ:
		return boolInt(a != b), nil
	case ast.GE:
		return boolInt(a >= b), nil
	case ast.GT:
		return boolInt(a > b), nil
	}
	return 0, notComputable("unsupported operator")
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// EvalVector interprets id as a flattened vector of integers: a LIST
// flattens each element in order, anything else is a single-element vector.
func (e *Interpreter) EvalVector(sys *ast.System, id ast.ExprID, val Valuation) ([]int64, error) {
	n := sys.Node(id)
	if n.Kind != ast.LIST {
		v, err := e.evalInt(id, val)
		if err != nil {
			return nil, err
		}
		return []int64{v}, nil
	}
	var out []int64
	for _, c := range n.Children {
		vec, err := e.EvalVector(sys, c, val)
		if err != nil {
			return nil, err
		}
		out = append(out, vec...)
	}
	return out, nil
}

// EvalRange interprets [lo, hi] as a declared integer range. Either bound
// being empty means "unbounded" and is not computable as a concrete range.
func (e *Interpreter) EvalRange(sys *ast.System, lo, hi ast.ExprID, val Valuation) (Range, error) {
	if lo == ast.NoExpr || hi == ast.NoExpr {
		return Range{}, notComputable("unbounded range")
	}
	loV, err := e.EvalInt(sys, lo, val)
	if err != nil {
		return Range{}, err
	}
	hiV, err := e.EvalInt(sys, hi, val)
	if err != nil {
		return Range{}, err
	}
	if loV > hiV {
		return Range{Empty: true}, nil
	}
	return Range{Lo: loV, Hi: hiV}, nil
}

package semantic

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/txta-lang/txtacheck/ast"
	"github.com/txta-lang/txtacheck/eval"
	"github.com/txta-lang/txtacheck/eval/mocks"
	"github.com/txta-lang/txtacheck/source"
)

// newTestChecker builds a checker over an empty system with the given
// evaluator, for exercising individual check* methods without going
// through the full parse/build pipeline.
func newTestChecker(sys *ast.System, sink source.Sink, ev eval.Evaluator) *checker {
	return &checker{sys: sys, sink: sink, eval: ev, persistent: CollectPersistent(sys)}
}

// checkRangeContainment must degrade silently, emitting no diagnostic, when
// the parameter's declared range cannot be evaluated (e.g. it depends on an
// uninstantiated template parameter) — §4.5's "if evaluation fails ... pass".
func TestCheckRangeContainmentSkipsWhenBoundsNotComputable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sys := ast.NewSystem()
	arg := sys.NewExpr(ast.Node{Kind: ast.CONSTANT, Int: 5})
	sys.SetType(arg, ast.TypeInt)
	loBound := sys.NewExpr(ast.Node{Kind: ast.IDENTIFIER, Name: "n"})
	hiBound := sys.NewExpr(ast.Node{Kind: ast.IDENTIFIER, Name: "n"})
	formal := ast.IntRange(loBound, hiBound)

	list := source.FromBuffer("t.xta", nil)

	mock := mocks.NewMockEvaluator(ctrl)
	mock.EXPECT().EvalInt(sys, arg, gomock.Any()).Return(int64(5), nil)
	mock.EXPECT().EvalInt(sys, loBound, gomock.Any()).Return(int64(0), &eval.NotComputable{Reason: "depends on template parameter"})

	c := newTestChecker(sys, list, mock)
	c.checkRangeContainment(formal, arg)

	require.False(t, list.HasErrors())
}

// A computable out-of-range value is a real diagnostic, not a skip.
func TestCheckRangeContainmentReportsOutOfRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sys := ast.NewSystem()
	arg := sys.NewExpr(ast.Node{Kind: ast.CONSTANT, Int: 20})
	sys.SetType(arg, ast.TypeInt)
	loBound := sys.NewExpr(ast.Node{Kind: ast.CONSTANT, Int: 0})
	hiBound := sys.NewExpr(ast.Node{Kind: ast.CONSTANT, Int: 10})
	formal := ast.IntRange(loBound, hiBound)

	list := source.FromBuffer("t.xta", nil)

	mock := mocks.NewMockEvaluator(ctrl)
	mock.EXPECT().EvalInt(sys, arg, gomock.Any()).Return(int64(20), nil)
	mock.EXPECT().EvalInt(sys, loBound, gomock.Any()).Return(int64(0), nil)
	mock.EXPECT().EvalInt(sys, hiBound, gomock.Any()).Return(int64(10), nil)

	c := newTestChecker(sys, list, mock)
	c.checkRangeContainment(formal, arg)

	require.True(t, list.HasErrors())
}

// Clock arithmetic typing: x+1 is a clock, x-y is a diff, x<y+1 is an
// invariant (clock compared against a clock, since y+1 is itself a clock),
// 1<x is a guard (the clock is on the lower-bound side).
func TestAnnotateClockArithmeticTyping(t *testing.T) {
	sys := ast.NewSystem()
	clockSym := &ast.Symbol{Name: "x", Type: ast.TypeClock}
	otherSym := &ast.Symbol{Name: "y", Type: ast.TypeClock}

	x := sys.NewExpr(ast.Node{Kind: ast.IDENTIFIER, Name: "x", Symbol: clockSym})
	y := sys.NewExpr(ast.Node{Kind: ast.IDENTIFIER, Name: "y", Symbol: otherSym})
	one := sys.NewExpr(ast.Node{Kind: ast.CONSTANT, Int: 1})

	xPlus1 := sys.NewExpr(ast.Node{Kind: ast.PLUS, Children: []ast.ExprID{x, one}})
	xMinusY := sys.NewExpr(ast.Node{Kind: ast.MINUS, Children: []ast.ExprID{x, y}})
	yPlus1 := sys.NewExpr(ast.Node{Kind: ast.PLUS, Children: []ast.ExprID{y, one}})
	xLtYPlus1 := sys.NewExpr(ast.Node{Kind: ast.LT, Children: []ast.ExprID{x, yPlus1}})
	oneLtX := sys.NewExpr(ast.Node{Kind: ast.LT, Children: []ast.ExprID{one, x}})

	list := source.FromBuffer("t.xta", nil)
	c := newTestChecker(sys, list, nil)

	c.annotate(xPlus1)
	c.annotate(xMinusY)
	c.annotate(xLtYPlus1)
	c.annotate(oneLtX)

	require.Equal(t, ast.CLOCK, c.sys.TypeOf(xPlus1).Base)
	require.Equal(t, ast.DIFF, c.sys.TypeOf(xMinusY).Base)
	require.Equal(t, ast.INVARIANT, c.sys.TypeOf(xLtYPlus1).Base)
	require.Equal(t, ast.GUARD, c.sys.TypeOf(oneLtX).Base)
	require.False(t, list.HasErrors())
}

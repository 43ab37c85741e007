package expr

import (
	"math"

	"github.com/holiman/uint256"
)

// Fold returns node with constant subtrees replaced by their values, so
// generated code carries "7" instead of "(1 + 2 * 3)". Only subtrees
// built entirely from literals fold; identifiers and calls are runtime
// values and pass through untouched. Subtrees whose evaluation fails
// (division by zero) or whose result leaves int64 range are left as
// written.
func Fold(node Node) Node {
	switch n := node.(type) {
	case *UnaryOp:
		operand := Fold(n.Operand)
		out := &UnaryOp{Op: n.Op, Operand: operand}
		if isLiteral(operand) {
			if lit, ok := evalToLiteral(out); ok {
				return lit
			}
		}
		return out

	case *BinaryOp:
		left := Fold(n.Left)
		right := Fold(n.Right)
		out := &BinaryOp{Op: n.Op, Left: left, Right: right}
		if isLiteral(left) && isLiteral(right) && !overflowsInt64(n.Op, left, right) {
			if lit, ok := evalToLiteral(out); ok {
				return lit
			}
		}
		return out

	case *CallExpr:
		args := make([]Node, len(n.Args))
		for i, a := range n.Args {
			args[i] = Fold(a)
		}
		return &CallExpr{Func: n.Func, Args: args}

	default:
		return node
	}
}

func isLiteral(node Node) bool {
	switch node.(type) {
	case *NumberLit, *StringLit, *BoolLit:
		return true
	default:
		return false
	}
}

func evalToLiteral(node Node) (Node, bool) {
	v, err := Eval(node, nil)
	if err != nil {
		return nil, false
	}
	switch val := v.(type) {
	case int64:
		return &NumberLit{Value: val}, true
	case bool:
		return &BoolLit{Value: val}, true
	case string:
		return &StringLit{Value: val}, true
	case *uint256.Int:
		if val.IsUint64() && val.Uint64() <= math.MaxInt64 {
			return &NumberLit{Value: int64(val.Uint64())}, true
		}
		return nil, false
	default:
		return nil, false
	}
}

// overflowsInt64 reports whether adding or multiplying two non-negative
// number literals would leave int64 range. Checked with uint256
// arithmetic, where the operation cannot wrap.
func overflowsInt64(op string, left, right Node) bool {
	l, lok := left.(*NumberLit)
	r, rok := right.(*NumberLit)
	if !lok || !rok || l.Value < 0 || r.Value < 0 {
		return false
	}

	result := new(uint256.Int)
	a := uint256.NewInt(uint64(l.Value))
	b := uint256.NewInt(uint64(r.Value))
	switch op {
	case "+":
		result.Add(a, b)
	case "*":
		result.Mul(a, b)
	default:
		return false
	}
	return !result.IsUint64() || result.Uint64() > math.MaxInt64
}

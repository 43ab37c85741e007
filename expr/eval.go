package expr

import (
	"fmt"
	"strconv"

	"github.com/holiman/uint256"
)

// Func is a function that can be called from expressions during evaluation.
type Func func(args ...interface{}) (interface{}, error)

// Context holds bindings and functions for expression evaluation.
type Context struct {
	Bindings map[string]interface{}
	Funcs    map[string]Func
}

// NewContext creates a new evaluation context.
func NewContext() *Context {
	return &Context{
		Bindings: make(map[string]interface{}),
		Funcs:    make(map[string]Func),
	}
}

// Eval evaluates an expression tree in the given context. It is used for
// constant folding and for tests; generated code evaluates at runtime.
func Eval(node Node, ctx *Context) (interface{}, error) {
	if node == nil {
		return nil, fmt.Errorf("nil node")
	}
	if ctx == nil {
		ctx = NewContext()
	}

	switch n := node.(type) {
	case *BoolLit:
		return n.Value, nil

	case *NumberLit:
		return n.Value, nil

	case *StringLit:
		return n.Value, nil

	case *Identifier:
		val, ok := ctx.Bindings[n.Name]
		if !ok {
			return nil, fmt.Errorf("unknown identifier: %s", n.Name)
		}
		return val, nil

	case *UnaryOp:
		operand, err := Eval(n.Operand, ctx)
		if err != nil {
			return nil, err
		}
		return evalUnary(n.Op, operand)

	case *BinaryOp:
		// Short-circuit evaluation for && and ||
		if n.Op == "&&" || n.Op == "||" {
			left, err := Eval(n.Left, ctx)
			if err != nil {
				return nil, err
			}
			leftBool, ok := toBool(left)
			if !ok {
				return nil, fmt.Errorf("left operand of %s must be boolean", n.Op)
			}
			if n.Op == "&&" && !leftBool {
				return false, nil
			}
			if n.Op == "||" && leftBool {
				return true, nil
			}
			right, err := Eval(n.Right, ctx)
			if err != nil {
				return nil, err
			}
			rightBool, ok := toBool(right)
			if !ok {
				return nil, fmt.Errorf("right operand of %s must be boolean", n.Op)
			}
			return rightBool, nil
		}

		left, err := Eval(n.Left, ctx)
		if err != nil {
			return nil, err
		}
		right, err := Eval(n.Right, ctx)
		if err != nil {
			return nil, err
		}
		return evalBinary(n.Op, left, right)

	case *CallExpr:
		fn, ok := ctx.Funcs[n.Func]
		if !ok {
			return nil, fmt.Errorf("unknown function: %s", n.Func)
		}
		args := make([]interface{}, len(n.Args))
		for i, arg := range n.Args {
			val, err := Eval(arg, ctx)
			if err != nil {
				return nil, err
			}
			args[i] = val
		}
		return fn(args...)

	default:
		return nil, fmt.Errorf("unknown node type: %T", node)
	}
}

func evalUnary(op string, operand interface{}) (interface{}, error) {
	switch op {
	case "!":
		b, ok := toBool(operand)
		if !ok {
			return nil, fmt.Errorf("operand of ! must be boolean")
		}
		return !b, nil
	case "-":
		n, ok := toInt64(operand)
		if !ok {
			return nil, fmt.Errorf("operand of unary - must be numeric")
		}
		return -n, nil
	default:
		return nil, fmt.Errorf("unknown unary operator: %s", op)
	}
}

func evalBinary(op string, left, right interface{}) (interface{}, error) {
	switch op {
	case "+", "-", "*", "/", "%":
		return evalArithmetic(op, left, right)
	case ">", "<", ">=", "<=":
		return evalRelational(op, left, right)
	case "==", "!=":
		return evalEquality(op, left, right)
	default:
		return nil, fmt.Errorf("unknown binary operator: %s", op)
	}
}

func evalArithmetic(op string, left, right interface{}) (interface{}, error) {
	// Promote to U256 arithmetic if either operand is U256.
	if isU256(left) || isU256(right) {
		l, lok := toU256(left)
		r, rok := toU256(right)
		if !lok || !rok {
			return nil, fmt.Errorf("arithmetic operands must be numeric")
		}
		return evalArithmeticU256(op, l, r)
	}

	l, lok := toInt64(left)
	r, rok := toInt64(right)
	if !lok || !rok {
		return nil, fmt.Errorf("arithmetic operands must be numeric")
	}

	switch op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		if r == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return l / r, nil
	case "%":
		if r == 0 {
			return nil, fmt.Errorf("modulo by zero")
		}
		return l % r, nil
	default:
		return nil, fmt.Errorf("unknown arithmetic operator: %s", op)
	}
}

func evalArithmeticU256(op string, left, right *uint256.Int) (interface{}, error) {
	result := new(uint256.Int)
	switch op {
	case "+":
		result.Add(left, right)
		return result, nil
	case "-":
		result.Sub(left, right)
		return result, nil
	case "*":
		result.Mul(left, right)
		return result, nil
	case "/":
		if right.IsZero() {
			return nil, fmt.Errorf("division by zero")
		}
		result.Div(left, right)
		return result, nil
	case "%":
		if right.IsZero() {
			return nil, fmt.Errorf("modulo by zero")
		}
		result.Mod(left, right)
		return result, nil
	default:
		return nil, fmt.Errorf("unknown arithmetic operator: %s", op)
	}
}

func evalRelational(op string, left, right interface{}) (interface{}, error) {
	if isU256(left) || isU256(right) {
		l, lok := toU256(left)
		r, rok := toU256(right)
		if !lok || !rok {
			return nil, fmt.Errorf("relational operands must be numeric")
		}
		cmp := l.Cmp(r)
		switch op {
		case ">":
			return cmp > 0, nil
		case "<":
			return cmp < 0, nil
		case ">=":
			return cmp >= 0, nil
		case "<=":
			return cmp <= 0, nil
		}
	}

	l, lok := toInt64(left)
	r, rok := toInt64(right)
	if !lok || !rok {
		return nil, fmt.Errorf("relational operands must be numeric")
	}

	switch op {
	case ">":
		return l > r, nil
	case "<":
		return l < r, nil
	case ">=":
		return l >= r, nil
	case "<=":
		return l <= r, nil
	default:
		return nil, fmt.Errorf("unknown relational operator: %s", op)
	}
}

func evalEquality(op string, left, right interface{}) (interface{}, error) {
	equal := compareValues(left, right)
	if op == "==" {
		return equal, nil
	}
	return !equal, nil
}

func compareValues(left, right interface{}) bool {
	if isU256(left) || isU256(right) {
		l, lok := toU256(left)
		r, rok := toU256(right)
		if lok && rok {
			return l.Cmp(r) == 0
		}
	}

	l, lok := toInt64(left)
	r, rok := toInt64(right)
	if lok && rok {
		return l == r
	}

	lb, lok := toBool(left)
	rb, rok := toBool(right)
	if lok && rok {
		return lb == rb
	}

	ls, lok := left.(string)
	rs, rok := right.(string)
	if lok && rok {
		return ls == rs
	}

	return left == right
}

func toBool(v interface{}) (bool, bool) {
	switch val := v.(type) {
	case bool:
		return val, true
	case int64:
		return val != 0, true
	case int:
		return val != 0, true
	case *uint256.Int:
		return !val.IsZero(), true
	default:
		return false, false
	}
}

func toInt64(v interface{}) (int64, bool) {
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	case int32:
		return int64(val), true
	case float64:
		return int64(val), true
	case *uint256.Int:
		if val.IsUint64() {
			return int64(val.Uint64()), true
		}
		return 0, false
	case string:
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// toU256 converts a value to *uint256.Int if possible.
func toU256(v interface{}) (*uint256.Int, bool) {
	switch val := v.(type) {
	case *uint256.Int:
		return val, true
	case int64:
		return uint256.NewInt(uint64(val)), true
	case int:
		return uint256.NewInt(uint64(val)), true
	case uint64:
		return uint256.NewInt(val), true
	case string:
		result := new(uint256.Int)
		if err := result.SetFromDecimal(val); err != nil {
			return nil, false
		}
		return result, true
	default:
		return nil, false
	}
}

func isU256(v interface{}) bool {
	_, ok := v.(*uint256.Int)
	return ok
}

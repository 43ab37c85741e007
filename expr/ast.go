package expr

import (
	"fmt"
	"strings"
)

// Node is a node of a parsed expression tree.
type Node interface {
	// String renders the node back to source form. Used for structural
	// comparison and for embedding parameter code into instruction templates.
	String() string
}

// NumberLit is an integer literal.
type NumberLit struct {
	Value int64
}

func (n *NumberLit) String() string { return fmt.Sprintf("%d", n.Value) }

// StringLit is a quoted string literal.
type StringLit struct {
	Value string
}

func (n *StringLit) String() string { return fmt.Sprintf("%q", n.Value) }

// BoolLit is a true/false literal.
type BoolLit struct {
	Value bool
}

func (n *BoolLit) String() string {
	if n.Value {
		return "true"
	}
	return "false"
}

// Identifier is a variable or object reference.
type Identifier struct {
	Name string
}

func (n *Identifier) String() string { return n.Name }

// UnaryOp applies ! or - to a single operand.
type UnaryOp struct {
	Op      string
	Operand Node
}

func (n *UnaryOp) String() string { return n.Op + n.Operand.String() }

// BinaryOp applies an arithmetic, relational or logical operator.
type BinaryOp struct {
	Op    string
	Left  Node
	Right Node
}

func (n *BinaryOp) String() string {
	return "(" + n.Left.String() + " " + n.Op + " " + n.Right.String() + ")"
}

// CallExpr is a function call with ordered arguments.
type CallExpr struct {
	Func string
	Args []Node
}

func (n *CallExpr) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return n.Func + "(" + strings.Join(parts, ", ") + ")"
}

// Equal reports whether two parse trees are structurally identical.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch x := a.(type) {
	case *NumberLit:
		y, ok := b.(*NumberLit)
		return ok && x.Value == y.Value
	case *StringLit:
		y, ok := b.(*StringLit)
		return ok && x.Value == y.Value
	case *BoolLit:
		y, ok := b.(*BoolLit)
		return ok && x.Value == y.Value
	case *Identifier:
		y, ok := b.(*Identifier)
		return ok && x.Name == y.Name
	case *UnaryOp:
		y, ok := b.(*UnaryOp)
		return ok && x.Op == y.Op && Equal(x.Operand, y.Operand)
	case *BinaryOp:
		y, ok := b.(*BinaryOp)
		return ok && x.Op == y.Op && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *CallExpr:
		y, ok := b.(*CallExpr)
		if !ok || x.Func != y.Func || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

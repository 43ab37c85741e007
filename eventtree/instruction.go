package eventtree

import "github.com/evsheet/go-evsheet/expr"

// Instruction is one condition or action: an instruction-type id and
// ordered expression parameters. Inverted negates the truth value of a
// single condition before combination; it is ignored for actions.
// Parameter arity is fixed by registry metadata and is not validated
// here beyond positional access.
type Instruction struct {
	TypeID     string
	Parameters []*expr.Expression
	Inverted   bool
}

// NewInstruction builds an instruction from raw parameter texts.
func NewInstruction(typeID string, params ...string) *Instruction {
	ins := &Instruction{TypeID: typeID}
	for _, p := range params {
		ins.Parameters = append(ins.Parameters, expr.New(p))
	}
	return ins
}

// Clone returns a deep, independent copy.
func (i *Instruction) Clone() *Instruction {
	c := &Instruction{TypeID: i.TypeID, Inverted: i.Inverted}
	for _, p := range i.Parameters {
		c.Parameters = append(c.Parameters, p.Clone())
	}
	return c
}

// InstructionList is a named ordered sequence of instructions belonging
// to one event, e.g. "conditions" or "actions".
type InstructionList struct {
	Name  string
	Items []*Instruction
}

func cloneInstructions(items []*Instruction) []*Instruction {
	if items == nil {
		return nil
	}
	out := make([]*Instruction, len(items))
	for i, ins := range items {
		out[i] = ins.Clone()
	}
	return out
}

func instructionExpressions(items []*Instruction) []*expr.Expression {
	var out []*expr.Expression
	for _, ins := range items {
		out = append(out, ins.Parameters...)
	}
	return out
}

package vm

import (
	"fmt"

	"github.com/deepnoodle-ai/ilemit/il"
	"github.com/deepnoodle-ai/ilemit/op"
	"github.com/deepnoodle-ai/ilemit/types"
)

// code is a resolved body prepared for execution: instructions are decoded
// once and branch offsets are mapped back to instruction indexes.
type code struct {
	body     *il.Body
	name     string
	instrs   []il.Instruction
	offsets  []int
	targets  []int   // branch target index per instruction, -1 if none
	switches [][]int // switch target indexes per instruction
	strings  map[uint32]string
	returns  bool
	maxStack int
}

func loadCode(b *il.Body) (*code, error) {
	if !b.IsResolved() {
		return nil, fmt.Errorf("%w: %s has unresolved branches", ErrInvalidProgram, b.Name())
	}
	n := b.InstructionCount()
	c := &code{
		body:     b,
		name:     b.Name(),
		instrs:   b.Instructions(),
		offsets:  make([]int, n),
		targets:  make([]int, n),
		switches: make([][]int, n),
		strings:  map[uint32]string{},
		returns:  b.ReturnType() != types.None,
		maxStack: b.MaxStack(),
	}
	for i, instr := range c.instrs {
		c.offsets[i] = b.OffsetAt(i)
		c.targets[i] = -1
		end := c.offsets[i] + instr.Size()
		switch instr.Info().Operand {
		case op.OperandBranch, op.OperandShortBranch:
			idx, ok := b.IndexAtOffset(end + instr.Offset())
			if !ok {
				return nil, fmt.Errorf("%w: %s: branch at IL_%04x lands inside an instruction",
					ErrInvalidProgram, b.Name(), c.offsets[i])
			}
			c.targets[i] = idx
		case op.OperandSwitch:
			for _, delta := range instr.SwitchOffsets() {
				idx, ok := b.IndexAtOffset(end + delta)
				if !ok {
					return nil, fmt.Errorf("%w: %s: switch at IL_%04x lands inside an instruction",
						ErrInvalidProgram, b.Name(), c.offsets[i])
				}
				c.switches[i] = append(c.switches[i], idx)
			}
		case op.OperandToken:
			if name, ok := b.LookupToken(instr.Uint32()); ok {
				c.strings[instr.Uint32()] = name
			}
		}
	}
	return c, nil
}

// token returns the string literal or member name behind a token.
func (c *code) token(tok uint32) (string, error) {
	name, ok := c.strings[tok]
	if !ok {
		return "", fmt.Errorf("%w: unknown token 0x%08x", ErrInvalidProgram, tok)
	}
	return name, nil
}

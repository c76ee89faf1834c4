package il

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/hashicorp/go-multierror"

	"github.com/deepnoodle-ai/ilemit/errz"
	"github.com/deepnoodle-ai/ilemit/op"
)

type resolveConfig struct {
	shortBranches bool
}

// ResolveOption configures the fix-up pass.
type ResolveOption func(*resolveConfig)

// WithShortBranches rewrites long branches to their one-byte forms
// wherever the resolved offset fits.
func WithShortBranches(enabled bool) ResolveOption {
	return func(c *resolveConfig) {
		c.shortBranches = enabled
	}
}

// Resolve rewrites every branch operand from a symbolic label to a signed
// offset relative to the end of the branch instruction. Labels that are
// referenced but never placed, or placed more than once, are reported
// together. The receiver is not modified.
func Resolve(b *Body, opts ...ResolveOption) (*Body, error) {
	var cfg resolveConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var result *multierror.Error
	referenced := make([]bool, len(b.labels))
	for _, instr := range b.instructions {
		for _, target := range branchTargets(instr) {
			if target < 0 || int(target) >= len(b.labels) {
				result = multierror.Append(result, errz.New(errz.ErrDanglingLabel, errz.E4003,
					"%s references unknown label L%d", instr.Info().Name, target).WithMethod(b.name))
				continue
			}
			referenced[target] = true
		}
	}
	for _, l := range b.labels {
		switch {
		case l.Placed > 1:
			result = multierror.Append(result, errz.New(errz.ErrDanglingLabel, errz.E4004,
				"label %s placed %d times", labelName(l), l.Placed).WithMethod(b.name))
		case l.Placed == 0 && referenced[l.ID]:
			result = multierror.Append(result, errz.New(errz.ErrDanglingLabel, errz.E4003,
				"label %s is referenced but never placed", labelName(l)).WithMethod(b.name))
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	out := NewBody(BodyParams{
		Name:         b.name,
		Instructions: b.instructions,
		Labels:       b.labels,
		Scopes:       b.scopes,
		Locals:       b.locals,
		ArgCount:     b.argCount,
		ReturnType:   b.returnType,
		Strings:      b.strings,
		Members:      b.members,
		Blocks:       b.blocks,
		Warnings:     b.warnings,
		MaxStack:     b.maxStack,
	})
	if cfg.shortBranches {
		out.shorten()
	}
	out.offsets = layout(out.instructions)
	for i := range out.instructions {
		if err := out.patch(i); err != nil {
			return nil, err
		}
	}
	out.resolved = true
	return out, nil
}

// shorten converts long branches whose displacement fits in a signed byte.
// Shrinking an instruction only moves targets closer, so a branch that
// fits stays fitting; the loop runs until nothing changes.
func (b *Body) shorten() {
	for changed := true; changed; {
		changed = false
		offsets := layout(b.instructions)
		for i, instr := range b.instructions {
			if instr.Info().Operand != op.OperandBranch || instr.Target == NoLabel {
				continue
			}
			short, ok := op.ShortForm(instr.Opcode)
			if !ok {
				continue
			}
			target := offsets[b.labels[instr.Target].Index]
			// after shrinking, the branch ends three bytes earlier
			end := offsets[i] + 2
			if target > offsets[i] {
				target -= 3
			}
			delta := target - end
			if delta < math.MinInt8 || delta > math.MaxInt8 {
				continue
			}
			b.instructions[i] = Instruction{
				Opcode:   short,
				Operands: make([]byte, 1),
				Target:   instr.Target,
			}
			changed = true
			break
		}
	}
}

func (b *Body) patch(i int) error {
	instr := &b.instructions[i]
	end := b.offsets[i] + instr.Size()
	switch {
	case instr.Opcode == op.Switch:
		for j, target := range instr.Targets {
			delta := b.offsets[b.labels[target].Index] - end
			binary.LittleEndian.PutUint32(instr.Operands[4+4*j:], uint32(int32(delta)))
		}
	case instr.Target != NoLabel:
		delta := b.offsets[b.labels[instr.Target].Index] - end
		switch instr.Info().Operand {
		case op.OperandShortBranch:
			if delta < math.MinInt8 || delta > math.MaxInt8 {
				return errz.New(errz.ErrInvariant, errz.E4009,
					"%s to label %s is %d bytes away", instr.Info().Name,
					labelName(b.labels[instr.Target]), delta).WithMethod(b.name)
			}
			instr.Operands[0] = byte(int8(delta))
		case op.OperandBranch:
			binary.LittleEndian.PutUint32(instr.Operands, uint32(int32(delta)))
		}
	}
	return nil
}

// layout returns the byte offset of every instruction, plus one trailing
// entry for the end of the stream so labels placed after the last
// instruction resolve.
func layout(instructions []Instruction) []int {
	offsets := make([]int, len(instructions)+1)
	pos := 0
	for i, instr := range instructions {
		offsets[i] = pos
		pos += instr.Size()
	}
	offsets[len(instructions)] = pos
	return offsets
}

func branchTargets(instr Instruction) []Label {
	if instr.Opcode == op.Switch {
		return instr.Targets
	}
	if instr.Target != NoLabel {
		return []Label{instr.Target}
	}
	return nil
}

func labelName(l LabelInfo) string {
	if l.Name != "" {
		return l.Name
	}
	return "L" + strconv.Itoa(int(l.ID))
}

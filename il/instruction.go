// Package il holds the emitter's output: instruction records, method
// bodies with their label tables, the label fix-up pass and the binary
// and JSON encodings consumed by the assembler.
package il

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/deepnoodle-ai/ilemit/op"
)

// Label identifies a branch target within one body. Labels are small
// integers allocated by the emitter.
type Label int32

// NoLabel marks an instruction without a symbolic target.
const NoLabel Label = -1

// Instruction is an opcode with its operand bytes. Branch instructions
// carry a symbolic Target until the fix-up pass rewrites their operand to
// a relative offset; switch instructions carry Targets.
type Instruction struct {
	Opcode   op.Code
	Operands []byte
	Target   Label
	Targets  []Label
}

// Size returns the encoded size in bytes.
func (i Instruction) Size() int {
	return 1 + len(i.Operands)
}

// Info returns the opcode's vocabulary entry.
func (i Instruction) Info() op.Info {
	return op.GetInfo(i.Opcode)
}

// IsBranch reports whether the instruction references a label.
func (i Instruction) IsBranch() bool {
	return i.Info().Operand.IsBranch() || i.Opcode == op.Switch
}

func (i Instruction) clone() Instruction {
	c := i
	if i.Operands != nil {
		c.Operands = append([]byte(nil), i.Operands...)
	}
	if i.Targets != nil {
		c.Targets = append([]Label(nil), i.Targets...)
	}
	return c
}

// Int8 decodes a one-byte signed operand.
func (i Instruction) Int8() int8 {
	return int8(i.Operands[0])
}

// Uint8 decodes a one-byte unsigned operand.
func (i Instruction) Uint8() uint8 {
	return i.Operands[0]
}

// Uint16 decodes a two-byte operand.
func (i Instruction) Uint16() uint16 {
	return binary.LittleEndian.Uint16(i.Operands)
}

// Int32 decodes a four-byte signed operand.
func (i Instruction) Int32() int32 {
	return int32(binary.LittleEndian.Uint32(i.Operands))
}

// Uint32 decodes a four-byte unsigned operand such as a token.
func (i Instruction) Uint32() uint32 {
	return binary.LittleEndian.Uint32(i.Operands)
}

// Int64 decodes an eight-byte signed operand.
func (i Instruction) Int64() int64 {
	return int64(binary.LittleEndian.Uint64(i.Operands))
}

// Float32 decodes a four-byte floating point operand.
func (i Instruction) Float32() float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(i.Operands))
}

// Float64 decodes an eight-byte floating point operand.
func (i Instruction) Float64() float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(i.Operands))
}

// Index decodes a variable or argument index operand of either width.
func (i Instruction) Index() int {
	switch i.Info().Operand {
	case op.OperandShortVar:
		return int(i.Uint8())
	case op.OperandVar, op.OperandScope:
		return int(i.Uint16())
	}
	return -1
}

// Offset decodes a resolved branch operand.
func (i Instruction) Offset() int {
	if i.Info().Operand == op.OperandShortBranch {
		return int(i.Int8())
	}
	return int(i.Int32())
}

// SwitchOffsets decodes the offsets of a resolved switch.
func (i Instruction) SwitchOffsets() []int {
	n := int(binary.LittleEndian.Uint32(i.Operands))
	offsets := make([]int, n)
	for j := range offsets {
		offsets[j] = int(int32(binary.LittleEndian.Uint32(i.Operands[4+4*j:])))
	}
	return offsets
}

// String formats the instruction as assembler text.
func (i Instruction) String() string {
	info := i.Info()
	var b strings.Builder
	b.WriteString(info.Name)
	if i.Target != NoLabel && info.Operand.IsBranch() {
		fmt.Fprintf(&b, " L%d", i.Target)
		return b.String()
	}
	if operand := i.OperandString(); operand != "" {
		b.WriteString(" ")
		b.WriteString(operand)
	}
	return b.String()
}

// OperandString formats the decoded operand.
func (i Instruction) OperandString() string {
	kind := i.Info().Operand
	if kind != op.OperandSwitch && len(i.Operands) < kind.Size() {
		return ""
	}
	switch kind {
	case op.OperandInt8, op.OperandShortBranch:
		return fmt.Sprintf("%d", i.Int8())
	case op.OperandUint8, op.OperandShortVar:
		return fmt.Sprintf("%d", i.Uint8())
	case op.OperandVar, op.OperandScope:
		return fmt.Sprintf("%d", i.Uint16())
	case op.OperandInt32, op.OperandBranch:
		return fmt.Sprintf("%d", i.Int32())
	case op.OperandInt64:
		return fmt.Sprintf("%d", i.Int64())
	case op.OperandFloat32:
		return fmt.Sprintf("%g", i.Float32())
	case op.OperandFloat64:
		return fmt.Sprintf("%g", i.Float64())
	case op.OperandToken:
		return fmt.Sprintf("0x%08x", i.Uint32())
	case op.OperandSwitch:
		if len(i.Targets) > 0 {
			parts := make([]string, len(i.Targets))
			for j, t := range i.Targets {
				parts[j] = fmt.Sprintf("L%d", t)
			}
			return "(" + strings.Join(parts, ", ") + ")"
		}
		if len(i.Operands) >= 4 {
			return fmt.Sprint(i.SwitchOffsets())
		}
	}
	return ""
}

// Make builds an instruction, encoding the operand according to the
// opcode's operand kind. It panics when the operand does not match, which
// indicates a bug in the caller.
func Make(code op.Code, operand ...any) Instruction {
	info := op.GetInfo(code)
	if !info.Valid() {
		panic(fmt.Sprintf("il: invalid opcode 0x%02x", uint8(code)))
	}
	instr := Instruction{Opcode: code, Target: NoLabel}
	if info.Operand == op.OperandNone {
		if len(operand) != 0 {
			panic(fmt.Sprintf("il: %s takes no operand", info.Name))
		}
		return instr
	}
	if len(operand) != 1 {
		panic(fmt.Sprintf("il: %s takes exactly one operand", info.Name))
	}
	instr.Operands = encodeOperand(info, operand[0])
	return instr
}

// MakeBranch builds a branch to a symbolic label with a zero placeholder
// operand.
func MakeBranch(code op.Code, target Label) Instruction {
	info := op.GetInfo(code)
	if !info.Operand.IsBranch() {
		panic(fmt.Sprintf("il: %s is not a branch", info.Name))
	}
	return Instruction{
		Opcode:   code,
		Operands: make([]byte, info.Operand.Size()),
		Target:   target,
	}
}

// MakeSwitch builds a switch over symbolic labels.
func MakeSwitch(targets []Label) Instruction {
	operands := make([]byte, 4+4*len(targets))
	binary.LittleEndian.PutUint32(operands, uint32(len(targets)))
	return Instruction{
		Opcode:   op.Switch,
		Operands: operands,
		Target:   NoLabel,
		Targets:  append([]Label(nil), targets...),
	}
}

func encodeOperand(info op.Info, v any) []byte {
	var n int64
	var f float64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int8:
		n = int64(x)
	case int16:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	case uint8:
		n = int64(x)
	case uint16:
		n = int64(x)
	case uint32:
		n = int64(x)
	case uint64:
		n = int64(x)
	case float32:
		f = float64(x)
	case float64:
		f = x
	default:
		panic(fmt.Sprintf("il: unsupported operand %T for %s", v, info.Name))
	}
	buf := make([]byte, info.Operand.Size())
	switch info.Operand {
	case op.OperandInt8, op.OperandUint8, op.OperandShortVar, op.OperandShortBranch:
		buf[0] = byte(n)
	case op.OperandVar, op.OperandScope:
		binary.LittleEndian.PutUint16(buf, uint16(n))
	case op.OperandInt32, op.OperandBranch, op.OperandToken:
		binary.LittleEndian.PutUint32(buf, uint32(n))
	case op.OperandInt64:
		binary.LittleEndian.PutUint64(buf, uint64(n))
	case op.OperandFloat32:
		binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(f)))
	case op.OperandFloat64:
		binary.LittleEndian.PutUint64(buf, math.Float64bits(f))
	default:
		panic(fmt.Sprintf("il: cannot encode %s operand", info.Operand))
	}
	return buf
}

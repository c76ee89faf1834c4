// Package dis produces human-readable listings of method bodies.
package dis

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/wonton/color"

	"github.com/deepnoodle-ai/ilemit/il"
	"github.com/deepnoodle-ai/ilemit/internal/table"
	"github.com/deepnoodle-ai/ilemit/op"
)

// Instruction is one decoded row of a listing.
type Instruction struct {
	Index    int
	Offset   int // -1 for bodies that have not been resolved
	Labels   []string
	Name     string
	Operands string
	Info     string
}

// Disassemble decodes every instruction of a body, resolving tokens,
// local and argument slots and branch targets to names.
func Disassemble(b *il.Body) ([]Instruction, error) {
	instrs := make([]Instruction, b.InstructionCount())
	for i := range instrs {
		instr := b.InstructionAt(i)
		row := Instruction{
			Index:    i,
			Offset:   -1,
			Name:     instr.Info().Name,
			Operands: instr.OperandString(),
		}
		if b.IsResolved() {
			row.Offset = b.OffsetAt(i)
		}
		for _, l := range b.LabelsAt(i) {
			row.Labels = append(row.Labels, labelName(b.LabelAt(l)))
		}
		info, err := describe(b, i, instr)
		if err != nil {
			return nil, err
		}
		row.Info = info
		instrs[i] = row
	}
	return instrs, nil
}

func describe(b *il.Body, i int, instr il.Instruction) (string, error) {
	info := instr.Info()
	switch info.Operand {
	case op.OperandToken:
		name, ok := b.LookupToken(instr.Uint32())
		if !ok {
			return "", fmt.Errorf("instruction %d: unknown token 0x%08x", i, instr.Uint32())
		}
		if il.TokenTable(instr.Uint32()) == il.TokenString {
			return strconv.Quote(name), nil
		}
		return name, nil
	case op.OperandShortVar, op.OperandVar:
		return slotName(b, instr), nil
	case op.OperandBranch, op.OperandShortBranch:
		if instr.Target == il.NoLabel || int(instr.Target) >= b.LabelCount() {
			return "", fmt.Errorf("instruction %d: branch has no target label", i)
		}
		return "-> " + labelName(b.LabelAt(instr.Target)), nil
	case op.OperandSwitch:
		names := make([]string, len(instr.Targets))
		for j, t := range instr.Targets {
			names[j] = labelName(b.LabelAt(t))
		}
		return "-> " + strings.Join(names, ", "), nil
	case op.OperandScope:
		scope := b.ScopeAt(int(instr.Uint16()))
		if len(scope.Locals) == 0 {
			return "", nil
		}
		names := make([]string, len(scope.Locals))
		for j, slot := range scope.Locals {
			names[j] = localName(b, slot)
		}
		return strings.Join(names, ", "), nil
	}
	return impliedSlot(b, instr.Opcode), nil
}

// slotName names the local or argument addressed by an explicit operand.
func slotName(b *il.Body, instr il.Instruction) string {
	idx := instr.Index()
	switch instr.Opcode {
	case op.Ldarg, op.Ldarg_S, op.Ldarga, op.Ldarga_S, op.Starg, op.Starg_S:
		return argName(idx)
	}
	if idx < b.LocalCount() {
		return localName(b, idx)
	}
	return ""
}

// impliedSlot names the slot encoded in the opcode of the short forms.
func impliedSlot(b *il.Body, code op.Code) string {
	switch {
	case code >= op.Ldarg_0 && code <= op.Ldarg_3:
		return argName(int(code - op.Ldarg_0))
	case code >= op.Ldloc_0 && code <= op.Ldloc_3:
		return localName(b, int(code-op.Ldloc_0))
	case code >= op.Stloc_0 && code <= op.Stloc_3:
		return localName(b, int(code-op.Stloc_0))
	}
	return ""
}

func argName(idx int) string {
	return "arg" + strconv.Itoa(idx)
}

func localName(b *il.Body, slot int) string {
	if slot >= b.LocalCount() {
		return ""
	}
	local := b.LocalAt(slot)
	if local.Hidden || local.Name == "" {
		return "$tmp" + strconv.Itoa(slot)
	}
	return local.Name
}

func labelName(l il.LabelInfo) string {
	if l.Name != "" {
		return l.Name
	}
	return "L" + strconv.Itoa(int(l.ID))
}

// Printer renders listings, with or without ANSI colors.
type Printer struct {
	UseColor bool
}

// NewPrinter creates a listing printer.
func NewPrinter(useColor bool) *Printer {
	return &Printer{UseColor: useColor}
}

func (p *Printer) paint(apply func(string) string, s string) string {
	if !p.UseColor || s == "" {
		return s
	}
	return apply(s)
}

// Print writes instructions as an uncolored table.
func Print(instrs []Instruction, writer io.Writer) error {
	return NewPrinter(false).Print(instrs, writer)
}

// Listing writes an uncolored listing of a body.
func Listing(b *il.Body, writer io.Writer) error {
	return NewPrinter(false).Listing(b, writer)
}

// Print writes instructions as a table. Label rows are interleaved before
// the instruction they mark.
func (p *Printer) Print(instrs []Instruction, writer io.Writer) error {
	resolved := len(instrs) > 0 && instrs[0].Offset >= 0
	position := "INDEX"
	if resolved {
		position = "OFFSET"
	}
	tbl := table.NewTable(writer).
		WithHeader([]string{position, "OPCODE", "OPERANDS", "INFO"}).
		WithHeaderAlignment([]table.Alignment{table.AlignCenter, table.AlignCenter, table.AlignCenter, table.AlignCenter}).
		WithColumnAlignment([]table.Alignment{table.AlignRight, table.AlignLeft, table.AlignRight, table.AlignLeft})
	for _, instr := range instrs {
		for _, l := range instr.Labels {
			tbl.Append([]string{"", p.paint(color.Yellow.Apply, l+":")})
		}
		pos := instr.Index
		if resolved {
			pos = instr.Offset
		}
		tbl.Append([]string{
			strconv.Itoa(pos),
			p.paint(color.Cyan.Apply, instr.Name),
			instr.Operands,
			p.paint(color.Green.Apply, instr.Info),
		})
	}
	return tbl.Render()
}

// Listing writes a method header, its locals and scopes, and the
// instruction table.
func (p *Printer) Listing(b *il.Body, writer io.Writer) error {
	instrs, err := Disassemble(b)
	if err != nil {
		return fmt.Errorf("%s: %w", b.Name(), err)
	}
	var header strings.Builder
	fmt.Fprintf(&header, "%s %s (args %d, max stack %d, %d bytes)\n",
		p.paint(color.ApplyBold, ".method"), b.Name(), b.ArgCount(), b.MaxStack(), b.CodeSize())
	if b.LocalCount() > 0 {
		header.WriteString("  .locals (")
		for i := 0; i < b.LocalCount(); i++ {
			if i > 0 {
				header.WriteString(", ")
			}
			fmt.Fprintf(&header, "[%d] %s %s", i, b.LocalAt(i).Kind, localName(b, i))
		}
		header.WriteString(")\n")
	}
	for _, w := range b.Warnings() {
		fmt.Fprintf(&header, "  %s %s\n", p.paint(color.Yellow.Apply, "warning:"), w)
	}
	if _, err := io.WriteString(writer, header.String()); err != nil {
		return err
	}
	return p.Print(instrs, writer)
}

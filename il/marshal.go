package il

import (
	"encoding/json"
	"fmt"

	"github.com/deepnoodle-ai/ilemit/errz"
	"github.com/deepnoodle-ai/ilemit/op"
	"github.com/deepnoodle-ai/ilemit/types"
)

// Marshal converts a Body into its JSON representation.
func Marshal(b *Body) ([]byte, error) {
	return json.Marshal(stateFromBody(b))
}

// Unmarshal converts a JSON representation back into a Body.
func Unmarshal(data []byte) (*Body, error) {
	var state bodyState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return bodyFromState(&state)
}

// Serialization types

type instructionDef struct {
	Opcode   string  `json:"opcode"`
	Operands []byte  `json:"operands,omitempty"`
	Target   *Label  `json:"target,omitempty"`
	Targets  []Label `json:"targets,omitempty"`
}

type labelDef struct {
	ID     Label  `json:"id"`
	Name   string `json:"name,omitempty"`
	Index  int    `json:"index"`
	Placed int    `json:"placed"`
}

type scopeDef struct {
	ID     uint16 `json:"id"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Locals []int  `json:"locals,omitempty"`
}

type localDef struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Hidden bool   `json:"hidden,omitempty"`
}

type memberDef struct {
	Token uint32 `json:"token"`
	Kind  string `json:"kind"`
	Name  string `json:"name"`
}

type blockDef struct {
	Start     int    `json:"start"`
	End       int    `json:"end"`
	Checked   bool   `json:"checked,omitempty"`
	Unchecked bool   `json:"unchecked,omitempty"`
	Unsafe    bool   `json:"unsafe,omitempty"`
	Reachable bool   `json:"reachable"`
	Branch    string `json:"branch"`
	Next      int    `json:"next"`
}

type warningDef struct {
	Message  string              `json:"message"`
	Location errz.SourceLocation `json:"location"`
}

type bodyState struct {
	Name         string           `json:"name"`
	ArgCount     int              `json:"arg_count"`
	ReturnType   string           `json:"return_type"`
	MaxStack     int              `json:"max_stack"`
	Resolved     bool             `json:"resolved"`
	Instructions []instructionDef `json:"instructions"`
	Labels       []labelDef       `json:"labels,omitempty"`
	Scopes       []scopeDef       `json:"scopes,omitempty"`
	Locals       []localDef       `json:"locals,omitempty"`
	Strings      []string         `json:"strings,omitempty"`
	Members      []memberDef      `json:"members,omitempty"`
	Blocks       []blockDef       `json:"blocks,omitempty"`
	Warnings     []warningDef     `json:"warnings,omitempty"`
}

func stateFromBody(b *Body) *bodyState {
	state := &bodyState{
		Name:         b.name,
		ArgCount:     b.argCount,
		ReturnType:   b.returnType.String(),
		MaxStack:     b.maxStack,
		Resolved:     b.resolved,
		Instructions: make([]instructionDef, len(b.instructions)),
		Strings:      copySlice(b.strings),
	}
	for i, instr := range b.instructions {
		def := instructionDef{
			Opcode:   instr.Info().Name,
			Operands: instr.Operands,
			Targets:  instr.Targets,
		}
		if instr.Target != NoLabel {
			target := instr.Target
			def.Target = &target
		}
		state.Instructions[i] = def
	}
	for _, l := range b.labels {
		state.Labels = append(state.Labels, labelDef(l))
	}
	for _, s := range b.scopes {
		state.Scopes = append(state.Scopes, scopeDef(s))
	}
	for _, l := range b.locals {
		state.Locals = append(state.Locals, localDef{Name: l.Name, Type: l.Kind.String(), Hidden: l.Hidden})
	}
	for _, m := range b.members {
		state.Members = append(state.Members, memberDef{Token: m.Token, Kind: m.Kind.String(), Name: m.Name})
	}
	for _, blk := range b.blocks {
		state.Blocks = append(state.Blocks, blockDef{
			Start:     blk.Start,
			End:       blk.End,
			Checked:   blk.Checked,
			Unchecked: blk.Unchecked,
			Unsafe:    blk.Unsafe,
			Reachable: blk.Reachable,
			Branch:    blk.Branch.String(),
			Next:      blk.Next,
		})
	}
	for _, w := range b.warnings {
		state.Warnings = append(state.Warnings, warningDef(w))
	}
	return state
}

func bodyFromState(state *bodyState) (*Body, error) {
	returnType, ok := types.Parse(state.ReturnType)
	if !ok {
		return nil, fmt.Errorf("unknown return type %q", state.ReturnType)
	}
	params := BodyParams{
		Name:       state.Name,
		ArgCount:   state.ArgCount,
		ReturnType: returnType,
		MaxStack:   state.MaxStack,
		Strings:    state.Strings,
	}
	for i, def := range state.Instructions {
		code, ok := op.Lookup(def.Opcode)
		if !ok {
			return nil, fmt.Errorf("instruction %d: unknown opcode %q", i, def.Opcode)
		}
		instr := Instruction{Opcode: code, Operands: def.Operands, Target: NoLabel, Targets: def.Targets}
		if def.Target != nil {
			instr.Target = *def.Target
		}
		if want := op.GetInfo(code).Operand.Size(); code != op.Switch && len(instr.Operands) != want {
			return nil, fmt.Errorf("instruction %d: %s expects %d operand bytes, got %d",
				i, def.Opcode, want, len(instr.Operands))
		}
		params.Instructions = append(params.Instructions, instr)
	}
	for _, l := range state.Labels {
		params.Labels = append(params.Labels, LabelInfo(l))
	}
	for _, s := range state.Scopes {
		params.Scopes = append(params.Scopes, Scope(s))
	}
	for _, l := range state.Locals {
		kind, ok := types.Parse(l.Type)
		if !ok {
			return nil, fmt.Errorf("local %s: unknown type %q", l.Name, l.Type)
		}
		params.Locals = append(params.Locals, Local{Name: l.Name, Kind: kind, Hidden: l.Hidden})
	}
	for _, m := range state.Members {
		kind := MemberField
		if m.Kind == MemberMethod.String() {
			kind = MemberMethod
		}
		params.Members = append(params.Members, Member{Token: m.Token, Kind: kind, Name: m.Name})
	}
	for _, blk := range state.Blocks {
		params.Blocks = append(params.Blocks, BasicBlock{
			Start:     blk.Start,
			End:       blk.End,
			Checked:   blk.Checked,
			Unchecked: blk.Unchecked,
			Unsafe:    blk.Unsafe,
			Reachable: blk.Reachable,
			Branch:    parseBranchKind(blk.Branch),
			Next:      blk.Next,
		})
	}
	for _, w := range state.Warnings {
		params.Warnings = append(params.Warnings, Warning(w))
	}
	body := NewBody(params)
	if state.Resolved {
		body.offsets = layout(body.instructions)
		body.resolved = true
	}
	return body, nil
}

func parseBranchKind(s string) BranchKind {
	for _, k := range []BranchKind{FallThrough, Conditional, Unconditional, Exit} {
		if k.String() == s {
			return k
		}
	}
	return FallThrough
}

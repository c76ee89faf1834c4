package il

import (
	"github.com/deepnoodle-ai/ilemit/errz"
	"github.com/deepnoodle-ai/ilemit/types"
)

// LabelInfo records where a label was placed.
type LabelInfo struct {
	ID     Label
	Name   string
	Index  int // instruction index, -1 when never placed
	Placed int // number of times the label was placed
}

// IsPlaced reports whether the label was placed exactly once.
func (l LabelInfo) IsPlaced() bool {
	return l.Placed == 1
}

// Scope is a lexical region whose locals are live between Start and End.
type Scope struct {
	ID     uint16
	Start  int // index of the scope-open instruction
	End    int // index of the scope-close instruction
	Locals []int
}

// MemberKind distinguishes the members referenced by tokens.
type MemberKind uint8

const (
	MemberField MemberKind = iota + 1
	MemberMethod
)

func (k MemberKind) String() string {
	switch k {
	case MemberField:
		return "field"
	case MemberMethod:
		return "method"
	}
	return "unknown"
}

// Member is an entry in a body's token table.
type Member struct {
	Token uint32
	Kind  MemberKind
	Name  string
}

// BasicBlock describes a straight-line run of instructions. Blocks are
// chained through Next in emission order.
type BasicBlock struct {
	Start     int
	End       int
	Checked   bool
	Unchecked bool
	Unsafe    bool
	Reachable bool
	Branch    BranchKind
	Next      int // index of the following block, -1 for the last block
}

// BranchKind is how control leaves a basic block.
type BranchKind uint8

const (
	FallThrough BranchKind = iota
	Conditional
	Unconditional
	Exit
)

func (k BranchKind) String() string {
	switch k {
	case FallThrough:
		return "fallthrough"
	case Conditional:
		return "conditional"
	case Unconditional:
		return "unconditional"
	case Exit:
		return "exit"
	}
	return "unknown"
}

// Local describes a local variable slot.
type Local struct {
	Name   string
	Kind   types.Kind
	Hidden bool
}

// Warning is a non-fatal diagnostic raised while emitting a body.
type Warning struct {
	Message  string
	Location errz.SourceLocation
}

func (w Warning) String() string {
	if w.Location.IsZero() {
		return w.Message
	}
	return w.Location.String() + ": " + w.Message
}

// Body is the emitted instruction stream of one method along with the
// tables needed to assemble it. A Body is immutable once created.
type Body struct {
	name         string
	instructions []Instruction
	labels       []LabelInfo
	scopes       []Scope
	locals       []Local
	argCount     int
	returnType   types.Kind
	strings      []string
	members      []Member
	blocks       []BasicBlock
	warnings     []Warning
	maxStack     int
	offsets      []int
	resolved     bool
}

// BodyParams contains the parameters for creating a new Body.
type BodyParams struct {
	Name         string
	Instructions []Instruction
	Labels       []LabelInfo
	Scopes       []Scope
	Locals       []Local
	ArgCount     int
	ReturnType   types.Kind
	Strings      []string
	Members      []Member
	Blocks       []BasicBlock
	Warnings     []Warning
	MaxStack     int
}

// NewBody creates a Body. All slices are copied.
func NewBody(params BodyParams) *Body {
	return &Body{
		name:         params.Name,
		instructions: copyInstructions(params.Instructions),
		labels:       copySlice(params.Labels),
		scopes:       copyScopes(params.Scopes),
		locals:       copySlice(params.Locals),
		argCount:     params.ArgCount,
		returnType:   params.ReturnType,
		strings:      copySlice(params.Strings),
		members:      copySlice(params.Members),
		blocks:       copySlice(params.Blocks),
		warnings:     copySlice(params.Warnings),
		maxStack:     params.MaxStack,
	}
}

// Name returns the fully qualified method name.
func (b *Body) Name() string { return b.name }

// InstructionCount returns the number of instructions.
func (b *Body) InstructionCount() int { return len(b.instructions) }

// InstructionAt returns the instruction at the given index.
func (b *Body) InstructionAt(i int) Instruction { return b.instructions[i].clone() }

// Instructions returns a copy of the instruction stream.
func (b *Body) Instructions() []Instruction { return copyInstructions(b.instructions) }

// Opcodes returns the opcode of every instruction in order.
func (b *Body) Opcodes() []uint8 {
	codes := make([]uint8, len(b.instructions))
	for i, instr := range b.instructions {
		codes[i] = uint8(instr.Opcode)
	}
	return codes
}

// LabelCount returns the number of labels allocated for the body.
func (b *Body) LabelCount() int { return len(b.labels) }

// LabelAt returns the label with the given id.
func (b *Body) LabelAt(l Label) LabelInfo { return b.labels[l] }

// Labels returns a copy of the label table.
func (b *Body) Labels() []LabelInfo { return copySlice(b.labels) }

// LabelsAt returns the labels placed at an instruction index.
func (b *Body) LabelsAt(index int) []Label {
	var result []Label
	for _, l := range b.labels {
		if l.Index == index && l.Placed > 0 {
			result = append(result, l.ID)
		}
	}
	return result
}

// ScopeCount returns the number of lexical scopes.
func (b *Body) ScopeCount() int { return len(b.scopes) }

// ScopeAt returns the scope at the given index.
func (b *Body) ScopeAt(i int) Scope { return b.scopes[i] }

// LocalCount returns the number of local slots.
func (b *Body) LocalCount() int { return len(b.locals) }

// LocalAt returns the local slot at the given index.
func (b *Body) LocalAt(i int) Local { return b.locals[i] }

// ArgCount returns the number of argument slots including the receiver.
func (b *Body) ArgCount() int { return b.argCount }

// ReturnType returns the method's return type.
func (b *Body) ReturnType() types.Kind { return b.returnType }

// StringCount returns the number of entries in the string table.
func (b *Body) StringCount() int { return len(b.strings) }

// StringAt returns the string table entry at the given index.
func (b *Body) StringAt(i int) string { return b.strings[i] }

// MemberCount returns the number of entries in the member table.
func (b *Body) MemberCount() int { return len(b.members) }

// MemberAt returns the member table entry at the given index.
func (b *Body) MemberAt(i int) Member { return b.members[i] }

// LookupToken resolves a metadata token to its display name.
func (b *Body) LookupToken(token uint32) (string, bool) {
	if token>>24 == TokenString {
		idx := int(token&0x00FFFFFF) - 1
		if idx >= 0 && idx < len(b.strings) {
			return b.strings[idx], true
		}
		return "", false
	}
	for _, m := range b.members {
		if m.Token == token {
			return m.Name, true
		}
	}
	return "", false
}

// BlockCount returns the number of basic blocks.
func (b *Body) BlockCount() int { return len(b.blocks) }

// BlockAt returns the basic block at the given index.
func (b *Body) BlockAt(i int) BasicBlock { return b.blocks[i] }

// Warnings returns the diagnostics raised while emitting the body.
func (b *Body) Warnings() []Warning { return copySlice(b.warnings) }

// MaxStack returns the maximum evaluation stack depth.
func (b *Body) MaxStack() int { return b.maxStack }

// IsResolved reports whether branch operands hold relative offsets.
func (b *Body) IsResolved() bool { return b.resolved }

// OffsetAt returns the byte offset of the instruction at the given index.
// Only valid on resolved bodies.
func (b *Body) OffsetAt(i int) int { return b.offsets[i] }

// CodeSize returns the encoded size in bytes.
func (b *Body) CodeSize() int {
	size := 0
	for _, instr := range b.instructions {
		size += instr.Size()
	}
	return size
}

// IndexAtOffset maps a byte offset back to an instruction index.
func (b *Body) IndexAtOffset(offset int) (int, bool) {
	lo, hi := 0, len(b.offsets)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case b.offsets[mid] == offset:
			return mid, true
		case b.offsets[mid] < offset:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	if offset == b.CodeSize() {
		return len(b.instructions), true
	}
	return 0, false
}

func copySlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	c := make([]T, len(s))
	copy(c, s)
	return c
}

func copyInstructions(s []Instruction) []Instruction {
	if s == nil {
		return nil
	}
	c := make([]Instruction, len(s))
	for i, instr := range s {
		c[i] = instr.clone()
	}
	return c
}

func copyScopes(s []Scope) []Scope {
	if s == nil {
		return nil
	}
	c := make([]Scope, len(s))
	for i, scope := range s {
		c[i] = scope
		c[i].Locals = copySlice(scope.Locals)
	}
	return c
}

// Package emit lowers bound method bodies into IL instruction streams.
//
// Each method is emitted by its own emitter, which owns a Tracker, a label
// arena and the output buffer. The type lattice and operator tables are
// read-only, so independent methods may be emitted concurrently.
package emit

import (
	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/ilemit/bound"
	"github.com/deepnoodle-ai/ilemit/errz"
	"github.com/deepnoodle-ai/ilemit/il"
	"github.com/deepnoodle-ai/ilemit/op"
	"github.com/deepnoodle-ai/ilemit/types"
)

type loop struct {
	breakLabel    il.Label
	continueLabel il.Label
}

type emitter struct {
	cfg     *config
	log     zerolog.Logger
	method  *bound.Method
	tracker *Tracker

	code []il.Instruction

	// label arena; depth and referenced are indexed by label id
	labels     []il.LabelInfo
	depth      []int
	referenced []bool
	userLabels map[*bound.Label]il.Label
	loops      []loop

	locals    []il.Local
	slots     map[*bound.Local]int
	freeTemps map[types.Kind][]int
	scopes    []il.Scope

	strings     []string
	stringIndex map[string]int
	members     []il.Member
	memberIndex map[string]uint32
	fieldRows   int
	methodRows  int

	warnings []il.Warning
	warned   bool
	stack    int
	maxStack int
}

// EmitMethod lowers one method body. Unless WithoutFixup is given, the
// returned body has its branches resolved to offsets.
func EmitMethod(m *bound.Method, opts ...Option) (*il.Body, error) {
	return emitMethod(newConfig(opts), m)
}

func emitMethod(cfg *config, m *bound.Method) (*il.Body, error) {
	e := newEmitter(cfg, m)
	body, err := e.run()
	if err != nil {
		if emitErr, ok := err.(*errz.EmitError); ok {
			emitErr.WithMethod(m.FullName())
		}
		return nil, err
	}
	e.log.Debug().
		Int("instructions", body.InstructionCount()).
		Int("labels", body.LabelCount()).
		Int("max_stack", body.MaxStack()).
		Msg("method emitted")
	if !cfg.fixup {
		return body, nil
	}
	return il.Resolve(body, il.WithShortBranches(cfg.shortBranches))
}

func newEmitter(cfg *config, m *bound.Method) *emitter {
	base := Region{Checked: cfg.checked || m.Checked, Unsafe: cfg.unsafe || m.Unsafe}
	return &emitter{
		cfg:         cfg,
		log:         cfg.logger.With().Str("method", m.FullName()).Logger(),
		method:      m,
		tracker:     NewTracker(base),
		userLabels:  map[*bound.Label]il.Label{},
		slots:       map[*bound.Local]int{},
		freeTemps:   map[types.Kind][]int{},
		stringIndex: map[string]int{},
		memberIndex: map[string]uint32{},
	}
}

func (e *emitter) run() (*il.Body, error) {
	m := e.method
	if m.Body == nil {
		return nil, e.errorf(errz.ErrNotLowered, errz.E4005, m, "method %s has no body", m.FullName())
	}
	e.assignSlots(m.Body)
	if err := e.block(e.tracker.Current(), m.Body); err != nil {
		return nil, err
	}
	if e.tracker.Reachable() {
		if m.ReturnType != types.None {
			return nil, e.errorf(errz.ErrInvariant, errz.E4013, m,
				"control reaches the end of %s without returning a %s", m.FullName(), m.ReturnType)
		}
		e.emitRet()
	}
	return il.NewBody(il.BodyParams{
		Name:         m.FullName(),
		Instructions: e.code,
		Labels:       e.labels,
		Scopes:       e.scopes,
		Locals:       e.locals,
		ArgCount:     m.ArgCount(),
		ReturnType:   m.ReturnType,
		Strings:      e.strings,
		Members:      e.members,
		Blocks:       e.tracker.Finish(len(e.code)),
		Warnings:     e.warnings,
		MaxStack:     e.maxStack,
	}), nil
}

// assignSlots gives every declared local a slot, in the order blocks are
// entered. Hidden temporaries are allocated after them on demand.
func (e *emitter) assignSlots(body *bound.Block) {
	bound.Inspect(body, func(n bound.Node) bool {
		if blk, ok := n.(*bound.Block); ok {
			for _, local := range blk.Locals {
				if _, seen := e.slots[local]; seen {
					continue
				}
				e.slots[local] = len(e.locals)
				e.locals = append(e.locals, il.Local{Name: local.Name, Kind: local.LocalType})
			}
		}
		return true
	})
}

func (e *emitter) errorf(kind errz.ErrorKind, code errz.ErrorCode, node bound.Node, format string, args ...any) *errz.EmitError {
	loc := node.Pos().Location()
	if loc.Filename == "" && !loc.IsZero() {
		loc.Filename = e.cfg.filename
	}
	return errz.New(kind, code, format, args...).WithLocation(loc)
}

// located attaches a node's position to errors returned by the lookup
// packages.
func (e *emitter) located(err error, node bound.Node) error {
	if emitErr, ok := err.(*errz.EmitError); ok {
		loc := node.Pos().Location()
		if loc.Filename == "" && !loc.IsZero() {
			loc.Filename = e.cfg.filename
		}
		return emitErr.WithLocation(loc)
	}
	return err
}

func (e *emitter) warn(node bound.Node, msg string) {
	loc := node.Pos().Location()
	e.warnings = append(e.warnings, il.Warning{Message: msg, Location: loc})
	e.log.Warn().Str("location", loc.String()).Msg(msg)
}

// pos returns the index of the next instruction.
func (e *emitter) pos() int {
	return len(e.code)
}

// append adds an instruction and applies its stack effect. Opcodes with a
// variable effect pass it explicitly as pop and push.
func (e *emitter) append(instr il.Instruction, pop, push int) {
	e.code = append(e.code, instr)
	e.stack -= pop
	if e.stack < 0 {
		e.stack = 0
	}
	e.stack += push
	if e.stack > e.maxStack {
		e.maxStack = e.stack
	}
}

// emit adds an instruction with a fixed stack effect.
func (e *emitter) emit(code op.Code, operand ...any) {
	info := op.GetInfo(code)
	e.append(il.Make(code, operand...), info.Pop, info.Push)
}

func (e *emitter) emitAll(codes []op.Code) {
	for _, code := range codes {
		e.emit(code)
	}
}

func (e *emitter) emitRet() {
	pop := 0
	if e.method.ReturnType != types.None {
		pop = 1
	}
	e.append(il.Make(op.Ret), pop, 0)
	e.tracker.Branch(il.Exit, e.pos())
}

func (e *emitter) emitThrow() {
	e.emit(op.Throw)
	e.tracker.Branch(il.Exit, e.pos())
}

// newLabel allocates a label in the arena.
func (e *emitter) newLabel(name string) il.Label {
	l := il.Label(len(e.labels))
	e.labels = append(e.labels, il.LabelInfo{ID: l, Name: name, Index: -1})
	e.depth = append(e.depth, -1)
	e.referenced = append(e.referenced, false)
	return l
}

// placeLabel binds a label to the next instruction. Placing a label twice
// is recorded and reported by the fix-up pass.
func (e *emitter) placeLabel(l il.Label) {
	info := &e.labels[l]
	if info.Placed == 0 {
		info.Index = e.pos()
	}
	info.Placed++
	if !e.tracker.Reachable() && e.depth[l] >= 0 {
		e.stack = e.depth[l]
	}
	e.tracker.Label(e.pos(), e.referenced[l])
	if e.tracker.Reachable() {
		e.warned = false
	}
}

// placeUserLabel places a source label. A later goto may target it, so the
// code after it is treated as reachable at statement depth.
func (e *emitter) placeUserLabel(l il.Label) {
	if !e.tracker.Reachable() && e.depth[l] < 0 {
		e.stack = 0
	}
	e.referenced[l] = true
	e.placeLabel(l)
}

// branch emits a branch to a label, recording the stack depth expected at
// the target.
func (e *emitter) branch(code op.Code, l il.Label) {
	info := op.GetInfo(code)
	e.append(il.MakeBranch(code, l), info.Pop, info.Push)
	if e.tracker.Reachable() {
		e.referenced[l] = true
	}
	if e.depth[l] < 0 {
		e.depth[l] = e.stack
	}
	kind := il.Conditional
	if info.Terminal {
		kind = il.Unconditional
	}
	e.tracker.Branch(kind, e.pos())
}

// userLabel returns the arena label for a goto target.
func (e *emitter) userLabel(l *bound.Label) il.Label {
	if id, ok := e.userLabels[l]; ok {
		return id
	}
	id := e.newLabel(l.Name)
	e.userLabels[l] = id
	return id
}

// temp allocates a hidden local of the given kind, reusing a released one
// when possible.
func (e *emitter) temp(kind types.Kind) int {
	if free := e.freeTemps[kind]; len(free) > 0 {
		slot := free[len(free)-1]
		e.freeTemps[kind] = free[:len(free)-1]
		return slot
	}
	slot := len(e.locals)
	e.locals = append(e.locals, il.Local{Name: "", Kind: kind, Hidden: true})
	return slot
}

func (e *emitter) release(slot int) {
	kind := e.locals[slot].Kind
	e.freeTemps[kind] = append(e.freeTemps[kind], slot)
}

// stringToken interns a string literal.
func (e *emitter) stringToken(s string) uint32 {
	idx, ok := e.stringIndex[s]
	if !ok {
		idx = len(e.strings)
		e.strings = append(e.strings, s)
		e.stringIndex[s] = idx
	}
	return il.MakeToken(il.TokenString, idx+1)
}

func (e *emitter) fieldToken(f *bound.Field) uint32 {
	name := f.FullName()
	if tok, ok := e.memberIndex[name]; ok {
		return tok
	}
	e.fieldRows++
	tok := il.MakeToken(il.TokenField, e.fieldRows)
	e.memberIndex[name] = tok
	e.members = append(e.members, il.Member{Token: tok, Kind: il.MemberField, Name: name})
	return tok
}

func (e *emitter) methodToken(m *bound.Method) uint32 {
	name := m.FullName()
	if tok, ok := e.memberIndex[name]; ok {
		return tok
	}
	e.methodRows++
	tok := il.MakeToken(il.TokenMethod, e.methodRows)
	e.memberIndex[name] = tok
	e.members = append(e.members, il.Member{Token: tok, Kind: il.MemberMethod, Name: name})
	return tok
}

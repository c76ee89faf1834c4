package emit

import (
	"github.com/deepnoodle-ai/ilemit/bound"
	"github.com/deepnoodle-ai/ilemit/il"
)

// Region is the lexical emission context. Regions are values: entering a
// construct that changes mode derives a new Region and the emitter threads
// it through every call below that construct.
type Region struct {
	Checked   bool
	Unchecked bool
	Unsafe    bool
}

// Enter derives the region for a nested construct. Checked and unchecked
// override each other; unsafe only adds.
func (r Region) Enter(mode bound.CheckMode) Region {
	switch mode {
	case bound.ModeChecked:
		r.Checked, r.Unchecked = true, false
	case bound.ModeUnchecked:
		r.Checked, r.Unchecked = false, true
	case bound.ModeUnsafe:
		r.Unsafe = true
	}
	return r
}

// Tracker keeps the stack of regions entered by one emission unit along
// with reachability and the basic block chain. A Tracker is owned by a
// single emitter and is not safe for concurrent use.
type Tracker struct {
	stack     []Region
	blocks    []il.BasicBlock
	reachable bool
}

// NewTracker returns a tracker whose outermost region is base. The first
// basic block starts at instruction zero and is reachable.
func NewTracker(base Region) *Tracker {
	t := &Tracker{stack: []Region{base}, reachable: true}
	t.open(0)
	return t
}

// Current returns the innermost region.
func (t *Tracker) Current() Region {
	return t.stack[len(t.stack)-1]
}

// CurrentIsChecked reports whether arithmetic in the innermost region is
// overflow-checked.
func (t *Tracker) CurrentIsChecked() bool {
	return t.Current().Checked
}

// CurrentIsUnsafe reports whether pointer arithmetic is permitted in the
// innermost region.
func (t *Tracker) CurrentIsUnsafe() bool {
	return t.Current().Unsafe
}

// Depth returns the number of regions on the stack, including the base.
func (t *Tracker) Depth() int {
	return len(t.stack)
}

// Push enters a construct at instruction index at and returns the derived
// region. A region change starts a new basic block.
func (t *Tracker) Push(mode bound.CheckMode, at int) Region {
	r := t.Current().Enter(mode)
	t.stack = append(t.stack, r)
	t.split(at, il.FallThrough)
	return r
}

// Pop leaves the innermost construct at instruction index at. The base
// region is never popped.
func (t *Tracker) Pop(at int) {
	if len(t.stack) == 1 {
		return
	}
	t.stack = t.stack[:len(t.stack)-1]
	t.split(at, il.FallThrough)
}

// Reachable reports whether the next instruction can be reached.
func (t *Tracker) Reachable() bool {
	return t.reachable
}

// Branch ends the current basic block after the instruction at index
// at-1. Unconditional transfers and exits make the following code
// unreachable until a label is placed.
func (t *Tracker) Branch(kind il.BranchKind, at int) {
	t.split(at, kind)
	if kind == il.Unconditional || kind == il.Exit {
		t.reachable = false
		t.blocks[len(t.blocks)-1].Reachable = false
	}
}

// Label records a branch target placed at instruction index at. Code
// after a label is reachable when the label is referenced by reachable
// code or control falls into it.
func (t *Tracker) Label(at int, referenced bool) {
	if referenced {
		t.reachable = true
	}
	t.split(at, il.FallThrough)
}

// Finish closes the chain at instruction count n and returns the blocks.
// Trailing empty blocks are dropped.
func (t *Tracker) Finish(n int) []il.BasicBlock {
	last := &t.blocks[len(t.blocks)-1]
	last.End = n
	last.Next = -1
	blocks := t.blocks
	for len(blocks) > 1 && blocks[len(blocks)-1].Start == blocks[len(blocks)-1].End {
		blocks = blocks[:len(blocks)-1]
		blocks[len(blocks)-1].Next = -1
	}
	return blocks
}

func (t *Tracker) open(at int) {
	r := t.Current()
	t.blocks = append(t.blocks, il.BasicBlock{
		Start:     at,
		End:       at,
		Checked:   r.Checked,
		Unchecked: r.Unchecked,
		Unsafe:    r.Unsafe,
		Reachable: t.reachable,
		Next:      -1,
	})
}

// split closes the current block at instruction index at and opens the
// next one. An empty fall-through block is reused instead.
func (t *Tracker) split(at int, kind il.BranchKind) {
	cur := &t.blocks[len(t.blocks)-1]
	if cur.Start == at && kind == il.FallThrough {
		r := t.Current()
		cur.Checked, cur.Unchecked, cur.Unsafe = r.Checked, r.Unchecked, r.Unsafe
		cur.Reachable = t.reachable
		return
	}
	cur.End = at
	cur.Branch = kind
	cur.Next = len(t.blocks)
	t.open(at)
}

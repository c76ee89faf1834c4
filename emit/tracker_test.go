package emit

import (
	"testing"

	"github.com/deepnoodle-ai/ilemit/bound"
	"github.com/deepnoodle-ai/ilemit/il"
	"github.com/deepnoodle-ai/wonton/assert"
)

func TestRegionEnter(t *testing.T) {
	base := Region{}
	checked := base.Enter(bound.ModeChecked)
	assert.True(t, checked.Checked)
	assert.False(t, checked.Unchecked)

	unchecked := checked.Enter(bound.ModeUnchecked)
	assert.False(t, unchecked.Checked)
	assert.True(t, unchecked.Unchecked)

	unsafe := unchecked.Enter(bound.ModeUnsafe)
	assert.True(t, unsafe.Unsafe)
	assert.True(t, unsafe.Unchecked)

	again := unsafe.Enter(bound.ModeChecked)
	assert.True(t, again.Checked)
	assert.True(t, again.Unsafe)
}

func TestTrackerPushPop(t *testing.T) {
	tr := NewTracker(Region{})
	assert.Equal(t, tr.Depth(), 1)
	assert.False(t, tr.CurrentIsChecked())

	r := tr.Push(bound.ModeChecked, 2)
	assert.True(t, r.Checked)
	assert.True(t, tr.CurrentIsChecked())
	assert.Equal(t, tr.Depth(), 2)

	tr.Push(bound.ModeUnsafe, 3)
	assert.True(t, tr.CurrentIsUnsafe())
	assert.True(t, tr.CurrentIsChecked())

	tr.Pop(5)
	assert.False(t, tr.CurrentIsUnsafe())
	tr.Pop(6)
	assert.False(t, tr.CurrentIsChecked())

	// the base region stays
	tr.Pop(6)
	assert.Equal(t, tr.Depth(), 1)

	blocks := tr.Finish(8)
	assert.Len(t, blocks, 5)
	assert.Equal(t, blocks[0], il.BasicBlock{Start: 0, End: 2, Reachable: true, Next: 1})
	assert.Equal(t, blocks[1], il.BasicBlock{Start: 2, End: 3, Checked: true, Reachable: true, Next: 2})
	assert.Equal(t, blocks[2], il.BasicBlock{Start: 3, End: 5, Checked: true, Unsafe: true, Reachable: true, Next: 3})
	assert.Equal(t, blocks[3], il.BasicBlock{Start: 5, End: 6, Checked: true, Reachable: true, Next: 4})
	assert.Equal(t, blocks[4], il.BasicBlock{Start: 6, End: 8, Reachable: true, Next: -1})
}

func TestTrackerReachability(t *testing.T) {
	tr := NewTracker(Region{})
	assert.True(t, tr.Reachable())

	tr.Branch(il.Conditional, 2)
	assert.True(t, tr.Reachable())

	tr.Branch(il.Unconditional, 4)
	assert.False(t, tr.Reachable())

	// an unreferenced label does not revive the code after it
	tr.Label(5, false)
	assert.False(t, tr.Reachable())

	tr.Label(6, true)
	assert.True(t, tr.Reachable())

	tr.Branch(il.Exit, 7)
	assert.False(t, tr.Reachable())

	blocks := tr.Finish(7)
	assert.Len(t, blocks, 5)
	assert.Equal(t, blocks[0].Branch, il.Conditional)
	assert.Equal(t, blocks[1].Branch, il.Unconditional)
	assert.False(t, blocks[2].Reachable)
	assert.False(t, blocks[3].Reachable)
	assert.True(t, blocks[4].Reachable)
	assert.Equal(t, blocks[4].Branch, il.Exit)
	assert.Equal(t, blocks[4].Next, -1)
}

func TestTrackerReusesEmptyBlock(t *testing.T) {
	tr := NewTracker(Region{Checked: true})
	tr.Push(bound.ModeUnchecked, 0)
	tr.Label(0, false)
	blocks := tr.Finish(3)
	assert.Len(t, blocks, 1)
	assert.True(t, blocks[0].Unchecked)
	assert.False(t, blocks[0].Checked)
	assert.Equal(t, blocks[0].End, 3)
}

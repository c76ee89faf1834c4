package vm

import "github.com/deepnoodle-ai/ilemit/op"

// StepMode selects which instructions are reported to an Observer.
type StepMode uint8

const (
	StepAll StepMode = iota
	StepNone
	// StepSampled reports every Nth instruction.
	StepSampled
)

// Interest is what an observer asks to be told about. It is read once at
// the start of each top-level Call.
type Interest struct {
	Steps   StepMode
	Every   int // sampling period for StepSampled
	Calls   bool
	Returns bool
}

// Watch returns an Interest in calls, returns and the given steps.
func Watch(mode StepMode) Interest {
	return Interest{Steps: mode, Every: 1000, Calls: true, Returns: true}
}

func (i Interest) normalized() Interest {
	if i.Every <= 0 {
		i.Every = 1
	}
	return i
}

// Observer is notified synchronously while a body executes. Returning
// false from any callback halts the machine with an error.
type Observer interface {
	Interest() Interest
	OnStep(StepEvent) bool
	OnCall(CallEvent) bool
	OnReturn(ReturnEvent) bool
}

// StepEvent is reported before an instruction executes.
type StepEvent struct {
	Method string
	Index  int
	Offset int
	Opcode op.Code
	Name   string // mnemonic
	Stack  int
	Frames int
}

// CallEvent is reported when a body or host method is entered.
type CallEvent struct {
	Method string
	Args   int
	Host   bool
	Frames int
}

type ReturnEvent struct {
	Method string
	Value  Value
	Frames int
}

// NoOpObserver accepts every event. Embed it to handle only some of them.
type NoOpObserver struct{}

func (NoOpObserver) Interest() Interest        { return Watch(StepAll) }
func (NoOpObserver) OnStep(StepEvent) bool     { return true }
func (NoOpObserver) OnCall(CallEvent) bool     { return true }
func (NoOpObserver) OnReturn(ReturnEvent) bool { return true }

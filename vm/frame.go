package vm

// DefaultFrameLocals is the number of locals stored in the frame's fixed
// storage array before falling back to a heap slice.
const DefaultFrameLocals = 8

type frame struct {
	code    *code
	args    []Value
	storage [DefaultFrameLocals]Value
	locals  []Value
	stack   []Value
}

func newFrame(c *code, args []Value) *frame {
	f := &frame{code: c, args: args}
	if n := c.body.LocalCount(); n > DefaultFrameLocals {
		f.locals = make([]Value, n)
	} else {
		f.locals = f.storage[:n]
	}
	f.stack = make([]Value, 0, max(c.maxStack, 1))
	return f
}

// stackFault is raised by push and pop and recovered by eval.
type stackFault struct {
	err error
}

func (f *frame) push(v Value) {
	if f.code.maxStack > 0 && len(f.stack) >= f.code.maxStack {
		panic(stackFault{invalidf("evaluation stack exceeds max stack %d", f.code.maxStack)})
	}
	f.stack = append(f.stack, v)
}

func (f *frame) pop() Value {
	n := len(f.stack)
	if n == 0 {
		panic(stackFault{invalidf("evaluation stack underflow")})
	}
	v := f.stack[n-1]
	f.stack = f.stack[:n-1]
	return v
}

// popN pops n values, returning them in push order.
func (f *frame) popN(n int) []Value {
	if len(f.stack) < n {
		panic(stackFault{invalidf("evaluation stack underflow")})
	}
	values := make([]Value, n)
	copy(values, f.stack[len(f.stack)-n:])
	f.stack = f.stack[:len(f.stack)-n]
	return values
}

func (f *frame) local(i int) *Value {
	if i < 0 || i >= len(f.locals) {
		panic(stackFault{invalidf("local %d out of range", i)})
	}
	return &f.locals[i]
}

func (f *frame) arg(i int) *Value {
	if i < 0 || i >= len(f.args) {
		panic(stackFault{invalidf("argument %d out of range", i)})
	}
	return &f.args[i]
}

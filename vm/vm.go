// Package vm provides a reference interpreter for resolved method bodies.
// It executes the instruction stream the way the downstream runtime would,
// so the emitter's output can be checked by running it.
package vm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/deepnoodle-ai/ilemit/il"
	"github.com/deepnoodle-ai/ilemit/op"
)

const (
	MaxFrameDepth = 1024

	// DefaultContextCheckInterval is the number of instructions between
	// checks of ctx.Done(). Set to 0 to disable.
	DefaultContextCheckInterval = 1000
)

// VirtualMachine executes method bodies. Static fields persist across
// calls on the same machine.
type VirtualMachine struct {
	resolver             Resolver
	observer             Observer
	interest             Interest
	contextCheckInterval int
	statics              map[string]*Value
	loaded               map[*il.Body]*code
	depth                int
	steps                int
	running              bool
	runMutex             sync.Mutex
}

// New creates a new Virtual Machine.
func New(options ...Option) *VirtualMachine {
	vm := &VirtualMachine{
		statics:              map[string]*Value{},
		loaded:               map[*il.Body]*code{},
		contextCheckInterval: DefaultContextCheckInterval,
	}
	for _, opt := range options {
		opt(vm)
	}
	if vm.resolver == nil {
		vm.resolver = NewModuleResolver(nil)
	}
	return vm
}

// Static returns the current value of a static field.
func (vm *VirtualMachine) Static(name string) (Value, bool) {
	slot, ok := vm.statics[name]
	if !ok {
		return Void, false
	}
	return *slot, true
}

// Call executes a resolved body with the given arguments and returns its
// result, or Void for methods that return nothing.
func (vm *VirtualMachine) Call(ctx context.Context, body *il.Body, args ...Value) (Value, error) {
	if err := vm.start(); err != nil {
		return Void, err
	}
	defer vm.stop()
	if vm.observer != nil {
		vm.interest = vm.observer.Interest().normalized()
	}
	vm.steps = 0
	return vm.invoke(ctx, body, args)
}

func (vm *VirtualMachine) start() error {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	if vm.running {
		return fmt.Errorf("vm is already running")
	}
	vm.running = true
	return nil
}

func (vm *VirtualMachine) stop() {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	vm.running = false
}

func (vm *VirtualMachine) load(body *il.Body) (*code, error) {
	if c, ok := vm.loaded[body]; ok {
		return c, nil
	}
	c, err := loadCode(body)
	if err != nil {
		return nil, err
	}
	vm.loaded[body] = c
	return c, nil
}

func (vm *VirtualMachine) invoke(ctx context.Context, body *il.Body, args []Value) (Value, error) {
	if err := ctx.Err(); err != nil {
		return Void, err
	}
	if vm.depth >= MaxFrameDepth {
		return Void, ErrStackOverflow
	}
	c, err := vm.load(body)
	if err != nil {
		return Void, err
	}
	if len(args) != body.ArgCount() {
		return Void, fmt.Errorf("%w: %s takes %d arguments (%d given)",
			ErrInvalidProgram, c.name, body.ArgCount(), len(args))
	}
	vm.depth++
	defer func() { vm.depth-- }()
	if !vm.notifyCall(CallEvent{Method: c.name, Args: len(args), Frames: vm.depth}) {
		return Void, errHalted
	}
	result, err := vm.eval(ctx, newFrame(c, append([]Value(nil), args...)))
	if err != nil {
		return Void, err
	}
	if !vm.notifyReturn(ReturnEvent{Method: c.name, Value: result, Frames: vm.depth - 1}) {
		return Void, errHalted
	}
	return result, nil
}

var errHalted = errors.New("execution halted by observer")

func (vm *VirtualMachine) notifyCall(event CallEvent) bool {
	if vm.observer == nil || !vm.interest.Calls {
		return true
	}
	return vm.observer.OnCall(event)
}

func (vm *VirtualMachine) notifyReturn(event ReturnEvent) bool {
	if vm.observer == nil || !vm.interest.Returns {
		return true
	}
	return vm.observer.OnReturn(event)
}

func (vm *VirtualMachine) notifyStep(f *frame, ip int) bool {
	if vm.observer == nil {
		return true
	}
	vm.steps++
	switch vm.interest.Steps {
	case StepNone:
		return true
	case StepSampled:
		if vm.steps%vm.interest.Every != 0 {
			return true
		}
	}
	instr := f.code.instrs[ip]
	return vm.observer.OnStep(StepEvent{
		Method: f.code.name,
		Index:  ip,
		Offset: f.code.offsets[ip],
		Opcode: instr.Opcode,
		Name:   instr.Info().Name,
		Stack:  len(f.stack),
		Frames: vm.depth,
	})
}

// fail attaches the failing instruction to an error. Errors raised by a
// callee already carry their own location.
func (vm *VirtualMachine) fail(f *frame, ip int, err error) error {
	var rt *RuntimeError
	if errors.As(err, &rt) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &RuntimeError{
		Method: f.code.name,
		Offset: f.code.offsets[ip],
		Opcode: f.code.instrs[ip].Info().Name,
		Err:    err,
	}
}

// eval runs a frame until ret.
func (vm *VirtualMachine) eval(ctx context.Context, f *frame) (result Value, err error) {
	ip := 0
	defer func() {
		if r := recover(); r != nil {
			fault, ok := r.(stackFault)
			if !ok {
				panic(r)
			}
			result, err = Void, vm.fail(f, ip, fault.err)
		}
	}()

	var count int
	done := ctx.Done()
	instrs := f.code.instrs
	for ip < len(instrs) {
		if vm.contextCheckInterval > 0 && done != nil {
			count++
			if count >= vm.contextCheckInterval {
				count = 0
				select {
				case <-done:
					return Void, ctx.Err()
				default:
				}
			}
		}
		if !vm.notifyStep(f, ip) {
			return Void, errHalted
		}
		instr := instrs[ip]
		if instr.Opcode == op.Ret {
			if f.code.returns {
				return f.pop(), nil
			}
			return Void, nil
		}
		next, err := vm.step(ctx, f, ip, instr)
		if err != nil {
			return Void, vm.fail(f, ip, err)
		}
		ip = next
	}
	if len(instrs) == 0 {
		return Void, invalidf("%s has an empty body", f.code.name)
	}
	return Void, vm.fail(f, len(instrs)-1, invalidf("control falls off the end of the body"))
}

// step executes one instruction and returns the index of the next.
func (vm *VirtualMachine) step(ctx context.Context, f *frame, ip int, instr il.Instruction) (int, error) {
	code := instr.Opcode
	next := ip + 1

	switch {
	case code >= op.Ldarg_0 && code <= op.Ldarg_3:
		f.push(*f.arg(int(code - op.Ldarg_0)))
		return next, nil
	case code >= op.Ldloc_0 && code <= op.Ldloc_3:
		f.push(*f.local(int(code - op.Ldloc_0)))
		return next, nil
	case code >= op.Stloc_0 && code <= op.Stloc_3:
		*f.local(int(code - op.Stloc_0)) = f.pop()
		return next, nil
	case code >= op.Ldc_I4_0 && code <= op.Ldc_I4_8:
		f.push(Int32(int32(code - op.Ldc_I4_0)))
		return next, nil
	case isLoadElement(code):
		return next, vm.loadElement(f, code)
	case isStoreElement(code):
		return next, vm.storeElement(f, code)
	case isLoadIndirect(code):
		addr, err := address(f.pop())
		if err != nil {
			return next, err
		}
		f.push(narrow(code, *addr))
		return next, nil
	case isStoreIndirect(code):
		v := f.pop()
		addr, err := address(f.pop())
		if err != nil {
			return next, err
		}
		*addr = narrow(code, v)
		return next, nil
	}
	if c, ok := conversions[code]; ok {
		v, err := convert(c, f.pop())
		if err != nil {
			return next, err
		}
		f.push(v)
		return next, nil
	}

	switch code {
	case op.Nop, op.ScopeOpen, op.ScopeClose:
	case op.Ldarg, op.Ldarg_S:
		f.push(*f.arg(instr.Index()))
	case op.Ldarga, op.Ldarga_S:
		f.push(Ref(f.arg(instr.Index())))
	case op.Starg, op.Starg_S:
		*f.arg(instr.Index()) = f.pop()
	case op.Ldloc, op.Ldloc_S:
		f.push(*f.local(instr.Index()))
	case op.Ldloca, op.Ldloca_S:
		f.push(Ref(f.local(instr.Index())))
	case op.Stloc, op.Stloc_S:
		*f.local(instr.Index()) = f.pop()
	case op.Ldc_I4_M1:
		f.push(Int32(-1))
	case op.Ldc_I4_S:
		f.push(Int32(int32(instr.Int8())))
	case op.Ldc_I4:
		f.push(Int32(instr.Int32()))
	case op.Ldc_I8:
		f.push(Int64(instr.Int64()))
	case op.Ldc_R4:
		f.push(Float(float64(instr.Float32())))
	case op.Ldc_R8:
		f.push(Float(instr.Float64()))
	case op.Ldnull:
		f.push(Null())
	case op.Ldstr:
		s, err := f.code.token(instr.Uint32())
		if err != nil {
			return next, err
		}
		f.push(String(s))
	case op.Dup:
		v := f.pop()
		f.push(v)
		f.push(v)
	case op.Pop:
		f.pop()

	case op.Add, op.Add_Ovf, op.Add_Ovf_Un, op.Sub, op.Sub_Ovf, op.Sub_Ovf_Un,
		op.Mul, op.Mul_Ovf, op.Mul_Ovf_Un, op.Div, op.Div_Un, op.Rem, op.Rem_Un,
		op.And, op.Or, op.Xor:
		b, a := f.pop(), f.pop()
		v, err := arithmetic(code, a, b)
		if err != nil {
			return next, err
		}
		f.push(v)
	case op.Shl, op.Shr, op.Shr_Un:
		amount, v := f.pop(), f.pop()
		r, err := shift(code, v, amount)
		if err != nil {
			return next, err
		}
		f.push(r)
	case op.Neg:
		v, err := negate(f.pop())
		if err != nil {
			return next, err
		}
		f.push(v)
	case op.Not:
		v, err := complement(f.pop())
		if err != nil {
			return next, err
		}
		f.push(v)
	case op.Ckfinite:
		v := f.pop()
		if v.kind != KindFloat || math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return next, ErrOverflow
		}
		f.push(v)
	case op.Ceq, op.Cgt, op.Clt, op.Cgt_Un, op.Clt_Un:
		b, a := f.pop(), f.pop()
		ok, err := compare(code, a, b)
		if err != nil {
			return next, err
		}
		f.push(Bool(ok))

	case op.Br, op.Br_S, op.Leave, op.Leave_S:
		return f.code.targets[ip], nil
	case op.Brtrue, op.Brtrue_S:
		if f.pop().Bool() {
			return f.code.targets[ip], nil
		}
	case op.Brfalse, op.Brfalse_S:
		if !f.pop().Bool() {
			return f.code.targets[ip], nil
		}
	case op.Beq, op.Beq_S, op.Bne_Un, op.Bne_Un_S, op.Bge, op.Bge_S, op.Bgt, op.Bgt_S,
		op.Ble, op.Ble_S, op.Blt, op.Blt_S, op.Bge_Un, op.Bge_Un_S, op.Bgt_Un, op.Bgt_Un_S,
		op.Ble_Un, op.Ble_Un_S, op.Blt_Un, op.Blt_Un_S:
		b, a := f.pop(), f.pop()
		cmp, invert := branchCondition(code)
		ok, err := compare(cmp, a, b)
		if err != nil {
			return next, err
		}
		if ok != invert {
			return f.code.targets[ip], nil
		}
	case op.Switch:
		idx := f.pop().Uint()
		if targets := f.code.switches[ip]; idx < uint64(len(targets)) {
			return targets[idx], nil
		}

	case op.Call, op.Callvirt:
		return next, vm.call(ctx, f, instr)
	case op.Throw:
		return next, &Exception{Value: f.pop()}

	case op.Ldlen:
		arr, err := array(f.pop())
		if err != nil {
			return next, err
		}
		f.push(Int64(int64(len(arr.Elems))))
	case op.Ldfld, op.Ldflda, op.Stfld:
		return next, vm.field(f, instr)
	case op.Ldsfld:
		slot, err := vm.static(f, instr)
		if err != nil {
			return next, err
		}
		f.push(*slot)
	case op.Ldsflda:
		slot, err := vm.static(f, instr)
		if err != nil {
			return next, err
		}
		f.push(Ref(slot))
	case op.Stsfld:
		slot, err := vm.static(f, instr)
		if err != nil {
			return next, err
		}
		*slot = f.pop()
	default:
		return next, fmt.Errorf("%w: %s", ErrUnsupportedOpcode, instr.Info().Name)
	}
	return next, nil
}

func (vm *VirtualMachine) call(ctx context.Context, f *frame, instr il.Instruction) error {
	name, err := f.code.token(instr.Uint32())
	if err != nil {
		return err
	}
	target, err := vm.resolver.Resolve(name)
	if err != nil {
		return err
	}
	args := f.popN(target.ArgCount)
	var result Value
	if target.Body != nil {
		result, err = vm.invoke(ctx, target.Body, args)
	} else {
		if !vm.notifyCall(CallEvent{Method: name, Args: len(args), Host: true, Frames: vm.depth + 1}) {
			return errHalted
		}
		result, err = target.Host(ctx, args)
	}
	if err != nil {
		return err
	}
	if target.Returns {
		f.push(result)
	}
	return nil
}

func (vm *VirtualMachine) field(f *frame, instr il.Instruction) error {
	name, err := f.code.token(instr.Uint32())
	if err != nil {
		return err
	}
	var v Value
	if instr.Opcode == op.Stfld {
		v = f.pop()
	}
	receiver := f.pop()
	obj, ok := receiver.ref.(*Object)
	if receiver.kind != KindRef || !ok {
		if receiver.IsNull() {
			return ErrNullReference
		}
		return invalidf("field %s accessed on %s", name, receiver)
	}
	slot := obj.Field(name)
	switch instr.Opcode {
	case op.Ldfld:
		f.push(*slot)
	case op.Ldflda:
		f.push(Ref(slot))
	default:
		*slot = v
	}
	return nil
}

func (vm *VirtualMachine) static(f *frame, instr il.Instruction) (*Value, error) {
	name, err := f.code.token(instr.Uint32())
	if err != nil {
		return nil, err
	}
	slot, ok := vm.statics[name]
	if !ok {
		slot = &Value{}
		vm.statics[name] = slot
	}
	return slot, nil
}

func (vm *VirtualMachine) loadElement(f *frame, code op.Code) error {
	idx := f.pop()
	arr, err := array(f.pop())
	if err != nil {
		return err
	}
	i, err := index(arr, idx)
	if err != nil {
		return err
	}
	f.push(narrow(code, arr.Elems[i]))
	return nil
}

func (vm *VirtualMachine) storeElement(f *frame, code op.Code) error {
	v := f.pop()
	idx := f.pop()
	arr, err := array(f.pop())
	if err != nil {
		return err
	}
	i, err := index(arr, idx)
	if err != nil {
		return err
	}
	arr.Elems[i] = narrow(code, v)
	return nil
}

func array(v Value) (*Array, error) {
	if v.IsNull() {
		return nil, ErrNullReference
	}
	arr, ok := v.ref.(*Array)
	if !ok {
		return nil, invalidf("%s is not an array", v)
	}
	return arr, nil
}

func index(arr *Array, v Value) (int, error) {
	if v.kind != KindInt32 && v.kind != KindInt64 {
		return 0, invalidf("array index is %s", v.kind)
	}
	i := v.Int()
	if i < 0 || i >= int64(len(arr.Elems)) {
		return 0, fmt.Errorf("%w: %d (length %d)", ErrIndexOutOfRange, i, len(arr.Elems))
	}
	return int(i), nil
}

func address(v Value) (*Value, error) {
	if v.IsNull() {
		return nil, ErrNullReference
	}
	addr, ok := v.ref.(*Value)
	if !ok {
		return nil, invalidf("%s is not an address", v)
	}
	return addr, nil
}

package emit

import (
	"github.com/deepnoodle-ai/ilemit/bound"
	"github.com/deepnoodle-ai/ilemit/errz"
	"github.com/deepnoodle-ai/ilemit/op"
	"github.com/deepnoodle-ai/ilemit/operator"
	"github.com/deepnoodle-ai/ilemit/types"
)

// location is a storage location designated by an expression. prepare
// pushes the operands the location needs (a receiver, an array and index,
// an address); load and store consume them.
type location struct {
	kind     types.Kind
	operands int
	prepare  func() error
	load     func() error
	store    func() error
}

func noOperands() error { return nil }

func (e *emitter) location(r Region, x bound.Expression) (location, error) {
	switch x := x.(type) {
	case *bound.LocalRef:
		slot, ok := e.slots[x.Local]
		if !ok {
			return location{}, e.errorf(errz.ErrInvariant, errz.E4006, x,
				"local %s is not declared by an enclosing block", x.Local.Name)
		}
		return location{
			kind:    x.Local.LocalType,
			prepare: noOperands,
			load:    func() error { e.loadLocal(slot); return nil },
			store:   func() error { e.storeLocal(slot); return nil },
		}, nil

	case *bound.ParameterRef:
		idx := e.method.ArgIndex(x.Parameter)
		if idx < 0 {
			return location{}, e.errorf(errz.ErrInvariant, errz.E4006, x,
				"parameter %s does not belong to %s", x.Parameter.Name, e.method.FullName())
		}
		k := x.Parameter.ParamType
		if !x.Parameter.RefKind.ByRef() {
			return location{
				kind:    k,
				prepare: noOperands,
				load:    func() error { e.loadArg(idx); return nil },
				store:   func() error { e.storeArg(idx); return nil },
			}, nil
		}
		ldind, ok1 := types.LoadIndirectOpcode(k)
		stind, ok2 := types.StoreIndirectOpcode(k)
		if !ok1 || !ok2 {
			return location{}, e.errorf(errz.ErrInvariant, errz.E4010, x, "cannot pass %s by reference", k)
		}
		return location{
			kind:     k,
			operands: 1,
			prepare:  func() error { e.loadArg(idx); return nil },
			load:     func() error { e.emit(ldind); return nil },
			store:    func() error { e.emit(stind); return nil },
		}, nil

	case *bound.FieldAccess:
		tok := e.fieldToken(x.Field)
		if x.Field.Static {
			return location{
				kind:    x.Field.FieldType,
				prepare: noOperands,
				load:    func() error { e.emit(op.Ldsfld, tok); return nil },
				store:   func() error { e.emit(op.Stsfld, tok); return nil },
			}, nil
		}
		if x.Receiver == nil {
			return location{}, e.errorf(errz.ErrInvariant, errz.E4010, x,
				"instance field %s accessed without a receiver", x.Field.FullName())
		}
		return location{
			kind:     x.Field.FieldType,
			operands: 1,
			prepare:  func() error { return e.expression(r, x.Receiver) },
			load:     func() error { e.emit(op.Ldfld, tok); return nil },
			store:    func() error { e.emit(op.Stfld, tok); return nil },
		}, nil

	case *bound.PropertyAccess:
		p := x.Property
		loc := location{kind: p.PropertyType, prepare: noOperands}
		pop := 0
		if !p.Static {
			if x.Receiver == nil {
				return location{}, e.errorf(errz.ErrInvariant, errz.E4010, x,
					"instance property %s accessed without a receiver", p.Name)
			}
			loc.operands = 1
			loc.prepare = func() error { return e.expression(r, x.Receiver) }
			pop = 1
		}
		loc.load = func() error {
			if p.Getter == nil {
				return e.errorf(errz.ErrInvariant, errz.E4010, x, "property %s has no getter", p.Name)
			}
			e.invoke(p.Getter, pop)
			return nil
		}
		loc.store = func() error {
			if p.Setter == nil {
				return e.errorf(errz.ErrInvariant, errz.E4010, x, "property %s has no setter", p.Name)
			}
			e.invoke(p.Setter, pop+1)
			return nil
		}
		return loc, nil

	case *bound.ArrayElement:
		ldelem, ok1 := types.LoadElementOpcode(x.ElementType)
		stelem, ok2 := types.StoreElementOpcode(x.ElementType)
		if !ok1 || !ok2 {
			return location{}, e.errorf(errz.ErrInvariant, errz.E4010, x, "invalid array element type %s", x.ElementType)
		}
		return location{
			kind:     x.ElementType,
			operands: 2,
			prepare: func() error {
				if err := e.expression(r, x.Array); err != nil {
					return err
				}
				return e.value(r, x.Index, types.Int32)
			},
			load:  func() error { e.emit(ldelem); return nil },
			store: func() error { e.emit(stelem); return nil },
		}, nil
	}
	return location{}, e.errorf(errz.ErrInvariant, errz.E4010, x, "%s is not assignable", x.Kind())
}

// duplicateOperands copies the operands of a location so it can be loaded
// and then stored. Two operands go through hidden locals.
func (e *emitter) duplicateOperands(loc location) {
	switch loc.operands {
	case 1:
		e.emit(op.Dup)
	case 2:
		index := e.temp(types.Int32)
		array := e.temp(types.Array)
		e.storeLocal(index)
		e.storeLocal(array)
		e.loadLocal(array)
		e.loadLocal(index)
		e.loadLocal(array)
		e.loadLocal(index)
		e.release(array)
		e.release(index)
	}
}

// keep saves the value on top of the stack so it survives the store and
// can be pushed again by restore. Locations without operands just
// duplicate it.
func (e *emitter) keep(loc location) int {
	e.emit(op.Dup)
	if loc.operands == 0 {
		return -1
	}
	slot := e.temp(loc.kind)
	e.storeLocal(slot)
	return slot
}

func (e *emitter) restore(slot int) {
	if slot < 0 {
		return
	}
	e.loadLocal(slot)
	e.release(slot)
}

// assignment stores the value into the target. When used, the stored value
// is left on the stack.
func (e *emitter) assignment(r Region, x *bound.Assignment, used bool) error {
	loc, err := e.location(r, x.Target)
	if err != nil {
		return err
	}
	if err := loc.prepare(); err != nil {
		return err
	}
	if err := e.value(r, x.Value, loc.kind); err != nil {
		return err
	}
	saved := -1
	if used {
		saved = e.keep(loc)
	}
	if err := loc.store(); err != nil {
		return err
	}
	e.restore(saved)
	return nil
}

// increment lowers the four increment and decrement forms on any storage
// location. Prefix forms yield the updated value, postfix forms the
// original one.
func (e *emitter) increment(r Region, x *bound.Unary, used bool) error {
	loc, err := e.location(r, x.Operand)
	if err != nil {
		return err
	}
	k := loc.kind
	if types.IsPointer(k) && !r.Unsafe {
		return e.errorf(errz.ErrInvariant, errz.E4011, x, "pointer arithmetic on %s requires an unsafe context", k)
	}
	lowering, err := operator.UnaryOpcodeFor(x.Op, k, r.Checked)
	if err != nil {
		return e.located(err, x)
	}
	if err := loc.prepare(); err != nil {
		return err
	}
	e.duplicateOperands(loc)
	if err := loc.load(); err != nil {
		return err
	}
	saved := -1
	if used && x.Op.IsPostfix() {
		saved = e.keep(loc)
	}
	e.one(types.StackKind(k))
	e.emitAll(lowering.Opcodes())
	if err := e.narrow(k, r.Checked, x); err != nil {
		return err
	}
	if used && !x.Op.IsPostfix() {
		saved = e.keep(loc)
	}
	if err := loc.store(); err != nil {
		return err
	}
	e.restore(saved)
	return nil
}

// address pushes the address of a storage location for a by-reference
// argument.
func (e *emitter) address(r Region, x bound.Expression) error {
	switch x := x.(type) {
	case *bound.LocalRef:
		slot, ok := e.slots[x.Local]
		if !ok {
			return e.errorf(errz.ErrInvariant, errz.E4006, x, "local %s is not declared by an enclosing block", x.Local.Name)
		}
		if slot <= 255 {
			e.emit(op.Ldloca_S, uint8(slot))
		} else {
			e.emit(op.Ldloca, uint16(slot))
		}
		return nil
	case *bound.ParameterRef:
		idx := e.method.ArgIndex(x.Parameter)
		if idx < 0 {
			return e.errorf(errz.ErrInvariant, errz.E4006, x, "parameter %s does not belong to %s", x.Parameter.Name, e.method.FullName())
		}
		if x.Parameter.RefKind.ByRef() {
			e.loadArg(idx)
		} else if idx <= 255 {
			e.emit(op.Ldarga_S, uint8(idx))
		} else {
			e.emit(op.Ldarga, uint16(idx))
		}
		return nil
	case *bound.FieldAccess:
		tok := e.fieldToken(x.Field)
		if x.Field.Static {
			e.emit(op.Ldsflda, tok)
			return nil
		}
		if x.Receiver == nil {
			return e.errorf(errz.ErrInvariant, errz.E4010, x, "instance field %s accessed without a receiver", x.Field.FullName())
		}
		if err := e.expression(r, x.Receiver); err != nil {
			return err
		}
		e.emit(op.Ldflda, tok)
		return nil
	case *bound.ArrayElement:
		return e.errorf(errz.ErrNotLowered, errz.E4005, x, "array elements cannot be passed by reference")
	}
	return e.errorf(errz.ErrInvariant, errz.E4010, x, "%s cannot be passed by reference", x.Kind())
}

func (e *emitter) loadLocal(slot int) {
	switch {
	case slot <= 3:
		e.emit(op.Ldloc_0 + op.Code(slot))
	case slot <= 255:
		e.emit(op.Ldloc_S, uint8(slot))
	default:
		e.emit(op.Ldloc, uint16(slot))
	}
}

func (e *emitter) storeLocal(slot int) {
	switch {
	case slot <= 3:
		e.emit(op.Stloc_0 + op.Code(slot))
	case slot <= 255:
		e.emit(op.Stloc_S, uint8(slot))
	default:
		e.emit(op.Stloc, uint16(slot))
	}
}

func (e *emitter) loadArg(idx int) {
	switch {
	case idx <= 3:
		e.emit(op.Ldarg_0 + op.Code(idx))
	case idx <= 255:
		e.emit(op.Ldarg_S, uint8(idx))
	default:
		e.emit(op.Ldarg, uint16(idx))
	}
}

func (e *emitter) storeArg(idx int) {
	if idx <= 255 {
		e.emit(op.Starg_S, uint8(idx))
	} else {
		e.emit(op.Starg, uint16(idx))
	}
}

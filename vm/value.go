package vm

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/ilemit/types"
)

// ValueKind is the representation of a value on the evaluation stack.
// Every integer narrower than 64 bits is held as a 32-bit integer.
type ValueKind uint8

const (
	KindVoid ValueKind = iota
	KindInt32
	KindInt64
	KindFloat
	KindRef
)

func (k ValueKind) String() string {
	switch k {
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindFloat:
		return "float"
	case KindRef:
		return "ref"
	default:
		return "void"
	}
}

// Value is one evaluation stack slot, argument or local.
type Value struct {
	kind ValueKind
	bits uint64
	f    float64
	ref  any
}

// Void is the result of a method that returns nothing.
var Void = Value{}

func Int32(v int32) Value   { return Value{kind: KindInt32, bits: uint64(uint32(v))} }
func Int64(v int64) Value   { return Value{kind: KindInt64, bits: uint64(v)} }
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }
func Ref(v any) Value       { return Value{kind: KindRef, ref: v} }
func Null() Value           { return Value{kind: KindRef} }
func String(s string) Value { return Ref(s) }
func Uint32(v uint32) Value { return Value{kind: KindInt32, bits: uint64(v)} }
func Uint64(v uint64) Value { return Value{kind: KindInt64, bits: v} }

func (v Value) Kind() ValueKind { return v.kind }

func Bool(b bool) Value {
	if b {
		return Int32(1)
	}
	return Int32(0)
}

// Int returns the value sign-extended to 64 bits.
func (v Value) Int() int64 {
	if v.kind == KindInt32 {
		return int64(int32(uint32(v.bits)))
	}
	return int64(v.bits)
}

// Uint returns the value zero-extended to 64 bits.
func (v Value) Uint() uint64 {
	if v.kind == KindInt32 {
		return uint64(uint32(v.bits))
	}
	return v.bits
}

func (v Value) Float() float64 { return v.f }
func (v Value) Ref() any       { return v.ref }
func (v Value) IsNull() bool   { return v.kind == KindRef && v.ref == nil }

// Bool reports whether the value is non-zero or a non-null reference.
func (v Value) Bool() bool {
	switch v.kind {
	case KindFloat:
		return v.f != 0
	case KindRef:
		return v.ref != nil
	default:
		return v.bits != 0
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindInt32, KindInt64:
		return strconv.FormatInt(v.Int(), 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindRef:
		if v.ref == nil {
			return "null"
		}
		if s, ok := v.ref.(string); ok {
			return strconv.Quote(s)
		}
		return fmt.Sprint(v.ref)
	default:
		return "void"
	}
}

// Format renders the value as the given lattice kind.
func (v Value) Format(k types.Kind) string {
	switch {
	case k == types.None:
		return "void"
	case k == types.Bool:
		return strconv.FormatBool(v.Bool())
	case types.IsUnsigned(k):
		return strconv.FormatUint(v.Uint(), 10)
	case k == types.Float32:
		return strconv.FormatFloat(v.f, 'g', -1, 32)
	}
	return v.String()
}

// Parse converts text to a value of the given lattice kind, as passed on a
// command line.
func Parse(k types.Kind, s string) (Value, error) {
	s = strings.TrimSpace(s)
	switch {
	case k == types.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return Void, err
		}
		return Bool(b), nil
	case types.IsSigned(k):
		n, err := strconv.ParseInt(s, 0, types.Size(k)*8)
		if err != nil {
			return Void, err
		}
		if types.Is64(k) {
			return Int64(n), nil
		}
		return Int32(int32(n)), nil
	case types.IsUnsigned(k):
		n, err := strconv.ParseUint(s, 0, types.Size(k)*8)
		if err != nil {
			return Void, err
		}
		if types.Is64(k) {
			return Uint64(n), nil
		}
		return Uint32(uint32(n)), nil
	case types.IsFloat(k):
		f, err := strconv.ParseFloat(s, types.Size(k)*8)
		if err != nil {
			return Void, err
		}
		return Float(f), nil
	case k == types.String:
		return String(s), nil
	case types.IsPointer(k) && s == "null":
		return Null(), nil
	}
	return Void, fmt.Errorf("cannot parse %q as %s", s, k)
}

// Object is an instance with named fields.
type Object struct {
	Type   string
	fields map[string]*Value
}

func NewObject(typeName string) *Object {
	return &Object{Type: typeName, fields: map[string]*Value{}}
}

// Field returns the storage of a field, creating it on first use.
func (o *Object) Field(name string) *Value {
	slot, ok := o.fields[name]
	if !ok {
		slot = &Value{}
		o.fields[name] = slot
	}
	return slot
}

func (o *Object) String() string {
	return o.Type
}

// Array is a zero-based vector of values.
type Array struct {
	Elems []Value
}

func NewArray(elems ...Value) *Array {
	return &Array{Elems: elems}
}

func (a *Array) String() string {
	parts := make([]string, len(a.Elems))
	for i, v := range a.Elems {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// truncate narrows an integer to the width of k, sign- or zero-extending
// it back to its stack representation.
func truncate(k types.Kind, bits uint64) Value {
	switch k {
	case types.Int8:
		return Int32(int32(int8(bits)))
	case types.UInt8, types.Bool:
		return Int32(int32(uint8(bits)))
	case types.Int16:
		return Int32(int32(int16(bits)))
	case types.UInt16:
		return Int32(int32(uint16(bits)))
	case types.Int32, types.UInt32:
		return Int32(int32(uint32(bits)))
	default:
		return Int64(int64(bits))
	}
}

// intRange returns the bounds of an integer kind as floats, with max
// exclusive.
func intRange(k types.Kind) (lo, hi float64) {
	bits := types.Size(k) * 8
	if types.IsUnsigned(k) {
		return 0, math.Ldexp(1, bits)
	}
	return -math.Ldexp(1, bits-1), math.Ldexp(1, bits-1)
}

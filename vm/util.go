package vm

import (
	"github.com/deepnoodle-ai/ilemit/op"
	"github.com/deepnoodle-ai/ilemit/types"
)

// storageKinds gives the width read or written by element and indirect
// loads and stores. Native-int and reference forms are absent and move
// values unchanged.
var storageKinds = map[op.Code]types.Kind{
	op.Ldelem_I1: types.Int8,
	op.Ldelem_I2: types.Int16,
	op.Ldelem_I4: types.Int32,
	op.Ldelem_I8: types.Int64,
	op.Ldelem_U1: types.UInt8,
	op.Ldelem_U2: types.UInt16,
	op.Ldelem_U4: types.UInt32,
	op.Ldelem_U8: types.UInt64,
	op.Ldelem_R4: types.Float32,
	op.Ldelem_R8: types.Float64,
	op.Ldind_I1:  types.Int8,
	op.Ldind_I2:  types.Int16,
	op.Ldind_I4:  types.Int32,
	op.Ldind_I8:  types.Int64,
	op.Ldind_U1:  types.UInt8,
	op.Ldind_U2:  types.UInt16,
	op.Ldind_U4:  types.UInt32,
	op.Ldind_U8:  types.UInt64,
	op.Ldind_R4:  types.Float32,
	op.Ldind_R8:  types.Float64,
	op.Stelem_I1: types.Int8,
	op.Stelem_I2: types.Int16,
	op.Stelem_I4: types.Int32,
	op.Stelem_I8: types.Int64,
	op.Stelem_R4: types.Float32,
	op.Stelem_R8: types.Float64,
	op.Stind_I1:  types.Int8,
	op.Stind_I2:  types.Int16,
	op.Stind_I4:  types.Int32,
	op.Stind_I8:  types.Int64,
	op.Stind_R4:  types.Float32,
	op.Stind_R8:  types.Float64,
}

// narrow applies the storage width of a load or store opcode to v.
func narrow(code op.Code, v Value) Value {
	k, ok := storageKinds[code]
	if !ok || v.kind == KindRef {
		return v
	}
	switch {
	case k == types.Float32:
		return Float(float64(float32(v.f)))
	case k == types.Float64:
		return v
	}
	return truncate(k, uint64(v.Int()))
}

func isLoadElement(code op.Code) bool {
	return code >= op.Ldelem_I1 && code <= op.Ldelem_Ref
}

func isStoreElement(code op.Code) bool {
	return code >= op.Stelem_I1 && code <= op.Stelem
}

func isLoadIndirect(code op.Code) bool {
	return code >= op.Ldind_I1 && code <= op.Ldind_Ref
}

func isStoreIndirect(code op.Code) bool {
	return code >= op.Stind_I1 && code <= op.Stind_Ref
}

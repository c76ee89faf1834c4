// Package op defines the instruction vocabulary emitted by the ilemit
// code generator. The numeric values are the wire contract with the
// downstream assembler and must not change.
package op

// Code is a one-byte opcode.
type Code uint8

const (
	// Misc
	Nop    Code = 0x00
	Break  Code = 0x01
	Tail   Code = 0x02 // prefix
	Sizeof Code = 0x03

	// Protected blocks
	Leave   Code = 0x04
	Leave_S Code = 0x05

	// Scope markers bracket the live range of block-local storage
	ScopeOpen  Code = 0x06
	ScopeClose Code = 0x07

	// Object and storage initialization
	Newarr   Code = 0x08
	Newobj   Code = 0x09
	Localloc Code = 0x0A
	Cpblk    Code = 0x0C
	Cpobj    Code = 0x0D
	Initblk  Code = 0x0E
	Initobj  Code = 0x0F

	// Arguments
	Ldarg    Code = 0x10
	Ldarga   Code = 0x11
	Ldarg_S  Code = 0x12
	Ldarga_S Code = 0x13
	Ldarg_0  Code = 0x14
	Ldarg_1  Code = 0x15
	Ldarg_2  Code = 0x16
	Ldarg_3  Code = 0x17

	// Locals
	Ldloc    Code = 0x18
	Ldloca   Code = 0x19
	Ldloc_S  Code = 0x1A
	Ldloca_S Code = 0x1B
	Ldloc_0  Code = 0x1C
	Ldloc_1  Code = 0x1D
	Ldloc_2  Code = 0x1E
	Ldloc_3  Code = 0x1F

	// Constants
	Ldc_I4_0  Code = 0x20
	Ldc_I4_1  Code = 0x21
	Ldc_I4_2  Code = 0x22
	Ldc_I4_3  Code = 0x23
	Ldc_I4_4  Code = 0x24
	Ldc_I4_5  Code = 0x25
	Ldc_I4_6  Code = 0x26
	Ldc_I4_7  Code = 0x27
	Ldc_I4_8  Code = 0x28
	Ldc_I4_S  Code = 0x2A
	Ldc_I4_M1 Code = 0x2B
	Ldc_I4    Code = 0x2C
	Ldc_I8    Code = 0x2D
	Ldc_R4    Code = 0x2E
	Ldc_R8    Code = 0x2F

	// Arithmetic
	Add        Code = 0x30
	Add_Ovf    Code = 0x31
	Add_Ovf_Un Code = 0x32
	Sub        Code = 0x34
	Sub_Ovf    Code = 0x35
	Sub_Ovf_Un Code = 0x36
	Mul        Code = 0x38
	Mul_Ovf    Code = 0x39
	Mul_Ovf_Un Code = 0x3A
	Div        Code = 0x3C
	Div_Un     Code = 0x3D
	Rem        Code = 0x3E
	Rem_Un     Code = 0x3F

	// Shifts
	Shl    Code = 0x40
	Shr    Code = 0x41
	Shr_Un Code = 0x42

	// Bitwise
	And Code = 0x44
	Or  Code = 0x45
	Xor Code = 0x46
	Not Code = 0x47
	Neg Code = 0x48

	// Stack
	Pop Code = 0x4A
	Dup Code = 0x4B

	// Type tests
	Isinst      Code = 0x4C
	Castclass   Code = 0x4D
	Constrained Code = 0x4E // prefix

	// Exceptions
	Throw      Code = 0x50
	Rethrow    Code = 0x51
	Endfault   Code = 0x54
	Endfilter  Code = 0x55
	Endfinally Code = 0x56

	// Comparisons
	Ceq    Code = 0x58
	Cgt    Code = 0x59
	Clt    Code = 0x5A
	Cgt_Un Code = 0x5C
	Clt_Un Code = 0x5D

	// Branches
	Switch    Code = 0x5F
	Beq       Code = 0x60
	Beq_S     Code = 0x61
	Bne_Un    Code = 0x62
	Bne_Un_S  Code = 0x63
	Bge       Code = 0x64
	Bgt       Code = 0x65
	Ble       Code = 0x66
	Blt       Code = 0x67
	Bge_S     Code = 0x68
	Bgt_S     Code = 0x69
	Ble_S     Code = 0x6A
	Blt_S     Code = 0x6B
	Bge_Un    Code = 0x6C
	Bgt_Un    Code = 0x6D
	Ble_Un    Code = 0x6E
	Blt_Un    Code = 0x6F
	Bge_Un_S  Code = 0x70
	Bgt_Un_S  Code = 0x71
	Ble_Un_S  Code = 0x72
	Blt_Un_S  Code = 0x73
	Br        Code = 0x74
	Br_S      Code = 0x75
	Jmp       Code = 0x76
	Ret       Code = 0x77
	Brtrue    Code = 0x78
	Brfalse   Code = 0x79
	Brtrue_S  Code = 0x7A
	Brfalse_S Code = 0x7B

	// Branch aliases
	Brinst   = Brtrue
	Brinst_S = Brtrue_S
	Brnull   = Brfalse
	Brnull_S = Brfalse_S
	Brzero   = Brfalse
	Brzero_S = Brfalse_S

	// Calls
	Call     Code = 0x7C
	Calli    Code = 0x7D
	Callvirt Code = 0x7E
	Arglist  Code = 0x7F

	// Conversions
	Conv_I1        Code = 0x80
	Conv_I2        Code = 0x81
	Conv_I4        Code = 0x82
	Conv_I8        Code = 0x83
	Conv_U1        Code = 0x84
	Conv_U2        Code = 0x85
	Conv_U4        Code = 0x86
	Conv_U8        Code = 0x87
	Conv_Ovf_I1    Code = 0x88
	Conv_Ovf_I2    Code = 0x89
	Conv_Ovf_I4    Code = 0x8A
	Conv_Ovf_I8    Code = 0x8B
	Conv_Ovf_U1    Code = 0x8C
	Conv_Ovf_U2    Code = 0x8D
	Conv_Ovf_U4    Code = 0x8E
	Conv_Ovf_U8    Code = 0x8F
	Conv_Ovf_I1_Un Code = 0x90
	Conv_Ovf_I2_Un Code = 0x91
	Conv_Ovf_I4_Un Code = 0x92
	Conv_Ovf_I8_Un Code = 0x93
	Conv_Ovf_U1_Un Code = 0x94
	Conv_Ovf_U2_Un Code = 0x95
	Conv_Ovf_U4_Un Code = 0x96
	Conv_Ovf_U8_Un Code = 0x97
	Conv_I         Code = 0x98
	Conv_U         Code = 0x99
	Conv_Ovf_I     Code = 0x9A
	Conv_Ovf_U     Code = 0x9B
	Conv_Ovf_I_Un  Code = 0x9C
	Conv_Ovf_U_Un  Code = 0x9D
	Conv_R4        Code = 0x9E
	Conv_R8        Code = 0x9F
	Conv_R_Un      Code = 0xA0

	// Boxing and typed references
	Box        Code = 0xA4
	Unbox      Code = 0xA5
	Unbox_Any  Code = 0xA6
	Mkrefany   Code = 0xA8
	Refanytype Code = 0xA9
	Refanyval  Code = 0xAA

	// Prefixes and checks
	Unaligned Code = 0xAC // prefix
	Readonly  Code = 0xAD // prefix
	Volatile  Code = 0xAE // prefix
	Ckfinite  Code = 0xAF

	// Array element loads
	Ldelem_I1  Code = 0xB0
	Ldelem_I2  Code = 0xB1
	Ldelem_I4  Code = 0xB2
	Ldelem_I8  Code = 0xB3
	Ldelem_U1  Code = 0xB4
	Ldelem_U2  Code = 0xB5
	Ldelem_U4  Code = 0xB6
	Ldelem_U8  Code = 0xB7
	Ldelem_R4  Code = 0xB8
	Ldelem_R8  Code = 0xB9
	Ldelem_I   Code = 0xBA
	Ldelem_Ref Code = 0xBB
	Ldelema    Code = 0xBC
	Ldlen      Code = 0xBD

	// Indirect loads
	Ldind_I1  Code = 0xC0
	Ldind_I2  Code = 0xC1
	Ldind_I4  Code = 0xC2
	Ldind_I8  Code = 0xC3
	Ldind_U1  Code = 0xC4
	Ldind_U2  Code = 0xC5
	Ldind_U4  Code = 0xC6
	Ldind_U8  Code = 0xC7
	Ldind_R4  Code = 0xC8
	Ldind_R8  Code = 0xC9
	Ldind_I   Code = 0xCA
	Ldind_Ref Code = 0xCB

	// Fields
	Ldfld   Code = 0xCC
	Ldflda  Code = 0xCD
	Ldsfld  Code = 0xCE
	Ldsflda Code = 0xCF

	// Function pointers
	Ldftn     Code = 0xD0
	Ldvirtftn Code = 0xD1

	// Objects
	Ldnull  Code = 0xD4
	Ldobj   Code = 0xD5
	Ldstr   Code = 0xD6
	Ldtoken Code = 0xD7

	// Stores
	Starg   Code = 0xD8
	Starg_S Code = 0xD9
	Stloc   Code = 0xDA
	Stloc_S Code = 0xDB
	Stloc_0 Code = 0xDC
	Stloc_1 Code = 0xDD
	Stloc_2 Code = 0xDE
	Stloc_3 Code = 0xDF

	// Array element stores
	Stelem_I1  Code = 0xE0
	Stelem_I2  Code = 0xE1
	Stelem_I4  Code = 0xE2
	Stelem_I8  Code = 0xE3
	Stelem_R4  Code = 0xE4
	Stelem_R8  Code = 0xE5
	Stelem_I   Code = 0xE6
	Stelem_Ref Code = 0xE7
	Stelem     Code = 0xE8

	// Indirect stores
	Stind_I1  Code = 0xEC
	Stind_I2  Code = 0xED
	Stind_I4  Code = 0xEE
	Stind_I8  Code = 0xEF
	Stind_R4  Code = 0xF0
	Stind_R8  Code = 0xF1
	Stind_I   Code = 0xF2
	Stind_Ref Code = 0xF3

	// Field and object stores
	Stfld  Code = 0xF4
	Stsfld Code = 0xF5
	Stobj  Code = 0xF8

	// Verification suppression prefix
	No_Typecheck Code = 0xFA // prefix

	No_Rangecheck = No_Typecheck
	No_Nullcheck  = No_Typecheck
)

// OperandKind describes the immediate that follows an opcode.
type OperandKind uint8

const (
	OperandNone        OperandKind = iota
	OperandInt8                    // ldc.i4.s
	OperandUint8                   // unaligned.
	OperandInt32                   // ldc.i4
	OperandInt64                   // ldc.i8
	OperandFloat32                 // ldc.r4
	OperandFloat64                 // ldc.r8
	OperandShortVar                // uint8 argument or local index
	OperandVar                     // uint16 argument or local index
	OperandShortBranch             // int8 relative offset
	OperandBranch                  // int32 relative offset
	OperandToken                   // uint32 metadata token
	OperandSwitch                  // uint32 count followed by count int32 offsets
	OperandScope                   // uint16 scope id
)

// Size returns the number of operand bytes for the kind. Switch operands are
// variable length; Size returns the size of the count prefix.
func (k OperandKind) Size() int {
	switch k {
	case OperandInt8, OperandUint8, OperandShortVar, OperandShortBranch:
		return 1
	case OperandVar, OperandScope:
		return 2
	case OperandInt32, OperandFloat32, OperandBranch, OperandToken, OperandSwitch:
		return 4
	case OperandInt64, OperandFloat64:
		return 8
	default:
		return 0
	}
}

// IsBranch reports whether the operand is a label reference.
func (k OperandKind) IsBranch() bool {
	return k == OperandBranch || k == OperandShortBranch
}

func (k OperandKind) String() string {
	switch k {
	case OperandNone:
		return "none"
	case OperandInt8:
		return "int8"
	case OperandUint8:
		return "uint8"
	case OperandInt32:
		return "int32"
	case OperandInt64:
		return "int64"
	case OperandFloat32:
		return "float32"
	case OperandFloat64:
		return "float64"
	case OperandShortVar:
		return "var8"
	case OperandVar:
		return "var16"
	case OperandShortBranch:
		return "target8"
	case OperandBranch:
		return "target32"
	case OperandToken:
		return "token"
	case OperandSwitch:
		return "switch"
	case OperandScope:
		return "scope"
	default:
		return "unknown"
	}
}

// Category groups opcodes for listings and routing.
type Category uint8

const (
	CategoryInvalid Category = iota
	CategoryMisc
	CategoryScope
	CategoryLoad
	CategoryStore
	CategoryConstant
	CategoryArithmetic
	CategoryBitwise
	CategoryComparison
	CategoryBranch
	CategoryCall
	CategoryConversion
	CategoryObject
	CategoryStack
	CategoryException
	CategoryPrefix
)

var categoryNames = map[Category]string{
	CategoryInvalid:    "invalid",
	CategoryMisc:       "misc",
	CategoryScope:      "scope",
	CategoryLoad:       "load",
	CategoryStore:      "store",
	CategoryConstant:   "constant",
	CategoryArithmetic: "arithmetic",
	CategoryBitwise:    "bitwise",
	CategoryComparison: "comparison",
	CategoryBranch:     "branch",
	CategoryCall:       "call",
	CategoryConversion: "conversion",
	CategoryObject:     "object",
	CategoryStack:      "stack",
	CategoryException:  "exception",
	CategoryPrefix:     "prefix",
}

func (c Category) String() string {
	return categoryNames[c]
}

// Variable marks a stack effect that depends on the instruction's operand
// (calls, newobj, ret).
const Variable = -1

// Info contains information about an opcode.
type Info struct {
	Code     Code
	Name     string
	Operand  OperandKind
	Category Category
	Pop      int
	Push     int
	// Terminal opcodes never fall through to the next instruction.
	Terminal bool
}

// Valid reports whether the opcode is part of the vocabulary.
func (i Info) Valid() bool {
	return i.Name != ""
}

// Size returns the encoded size of the opcode plus its fixed-width operand.
func (i Info) Size() int {
	return 1 + i.Operand.Size()
}

var infos [256]Info

func init() {
	type opInfo struct {
		op       Code
		name     string
		operand  OperandKind
		category Category
		pop      int
		push     int
	}
	const (
		none   = OperandNone
		token  = OperandToken
		short  = OperandShortBranch
		long   = OperandBranch
		svar   = OperandShortVar
		lvar   = OperandVar
		v      = Variable
		misc   = CategoryMisc
		load   = CategoryLoad
		store  = CategoryStore
		konst  = CategoryConstant
		arith  = CategoryArithmetic
		bits   = CategoryBitwise
		cmp    = CategoryComparison
		branch = CategoryBranch
		conv   = CategoryConversion
		object = CategoryObject
		prefix = CategoryPrefix
	)
	ops := []opInfo{
		{Nop, "nop", none, misc, 0, 0},
		{Break, "break", none, misc, 0, 0},
		{Tail, "tail.", none, prefix, 0, 0},
		{Sizeof, "sizeof", token, object, 0, 1},
		{Leave, "leave", long, CategoryException, 0, 0},
		{Leave_S, "leave.s", short, CategoryException, 0, 0},
		{ScopeOpen, "scope.open", OperandScope, CategoryScope, 0, 0},
		{ScopeClose, "scope.close", OperandScope, CategoryScope, 0, 0},
		{Newarr, "newarr", token, object, 1, 1},
		{Newobj, "newobj", token, object, v, 1},
		{Localloc, "localloc", none, misc, 1, 1},
		{Cpblk, "cpblk", none, misc, 3, 0},
		{Cpobj, "cpobj", token, object, 2, 0},
		{Initblk, "initblk", none, misc, 3, 0},
		{Initobj, "initobj", token, object, 1, 0},

		{Ldarg, "ldarg", lvar, load, 0, 1},
		{Ldarga, "ldarga", lvar, load, 0, 1},
		{Ldarg_S, "ldarg.s", svar, load, 0, 1},
		{Ldarga_S, "ldarga.s", svar, load, 0, 1},
		{Ldarg_0, "ldarg.0", none, load, 0, 1},
		{Ldarg_1, "ldarg.1", none, load, 0, 1},
		{Ldarg_2, "ldarg.2", none, load, 0, 1},
		{Ldarg_3, "ldarg.3", none, load, 0, 1},
		{Ldloc, "ldloc", lvar, load, 0, 1},
		{Ldloca, "ldloca", lvar, load, 0, 1},
		{Ldloc_S, "ldloc.s", svar, load, 0, 1},
		{Ldloca_S, "ldloca.s", svar, load, 0, 1},
		{Ldloc_0, "ldloc.0", none, load, 0, 1},
		{Ldloc_1, "ldloc.1", none, load, 0, 1},
		{Ldloc_2, "ldloc.2", none, load, 0, 1},
		{Ldloc_3, "ldloc.3", none, load, 0, 1},

		{Ldc_I4_0, "ldc.i4.0", none, konst, 0, 1},
		{Ldc_I4_1, "ldc.i4.1", none, konst, 0, 1},
		{Ldc_I4_2, "ldc.i4.2", none, konst, 0, 1},
		{Ldc_I4_3, "ldc.i4.3", none, konst, 0, 1},
		{Ldc_I4_4, "ldc.i4.4", none, konst, 0, 1},
		{Ldc_I4_5, "ldc.i4.5", none, konst, 0, 1},
		{Ldc_I4_6, "ldc.i4.6", none, konst, 0, 1},
		{Ldc_I4_7, "ldc.i4.7", none, konst, 0, 1},
		{Ldc_I4_8, "ldc.i4.8", none, konst, 0, 1},
		{Ldc_I4_S, "ldc.i4.s", OperandInt8, konst, 0, 1},
		{Ldc_I4_M1, "ldc.i4.m1", none, konst, 0, 1},
		{Ldc_I4, "ldc.i4", OperandInt32, konst, 0, 1},
		{Ldc_I8, "ldc.i8", OperandInt64, konst, 0, 1},
		{Ldc_R4, "ldc.r4", OperandFloat32, konst, 0, 1},
		{Ldc_R8, "ldc.r8", OperandFloat64, konst, 0, 1},

		{Add, "add", none, arith, 2, 1},
		{Add_Ovf, "add.ovf", none, arith, 2, 1},
		{Add_Ovf_Un, "add.ovf.un", none, arith, 2, 1},
		{Sub, "sub", none, arith, 2, 1},
		{Sub_Ovf, "sub.ovf", none, arith, 2, 1},
		{Sub_Ovf_Un, "sub.ovf.un", none, arith, 2, 1},
		{Mul, "mul", none, arith, 2, 1},
		{Mul_Ovf, "mul.ovf", none, arith, 2, 1},
		{Mul_Ovf_Un, "mul.ovf.un", none, arith, 2, 1},
		{Div, "div", none, arith, 2, 1},
		{Div_Un, "div.un", none, arith, 2, 1},
		{Rem, "rem", none, arith, 2, 1},
		{Rem_Un, "rem.un", none, arith, 2, 1},
		{Shl, "shl", none, bits, 2, 1},
		{Shr, "shr", none, bits, 2, 1},
		{Shr_Un, "shr.un", none, bits, 2, 1},
		{And, "and", none, bits, 2, 1},
		{Or, "or", none, bits, 2, 1},
		{Xor, "xor", none, bits, 2, 1},
		{Not, "not", none, bits, 1, 1},
		{Neg, "neg", none, arith, 1, 1},

		{Pop, "pop", none, CategoryStack, 1, 0},
		{Dup, "dup", none, CategoryStack, 1, 2},
		{Isinst, "isinst", token, object, 1, 1},
		{Castclass, "castclass", token, object, 1, 1},
		{Constrained, "constrained.", token, prefix, 0, 0},
		{Throw, "throw", none, CategoryException, 1, 0},
		{Rethrow, "rethrow", none, CategoryException, 0, 0},
		{Endfault, "endfault", none, CategoryException, 0, 0},
		{Endfilter, "endfilter", none, CategoryException, 1, 0},
		{Endfinally, "endfinally", none, CategoryException, 0, 0},

		{Ceq, "ceq", none, cmp, 2, 1},
		{Cgt, "cgt", none, cmp, 2, 1},
		{Clt, "clt", none, cmp, 2, 1},
		{Cgt_Un, "cgt.un", none, cmp, 2, 1},
		{Clt_Un, "clt.un", none, cmp, 2, 1},

		{Switch, "switch", OperandSwitch, branch, 1, 0},
		{Beq, "beq", long, branch, 2, 0},
		{Beq_S, "beq.s", short, branch, 2, 0},
		{Bne_Un, "bne.un", long, branch, 2, 0},
		{Bne_Un_S, "bne.un.s", short, branch, 2, 0},
		{Bge, "bge", long, branch, 2, 0},
		{Bgt, "bgt", long, branch, 2, 0},
		{Ble, "ble", long, branch, 2, 0},
		{Blt, "blt", long, branch, 2, 0},
		{Bge_S, "bge.s", short, branch, 2, 0},
		{Bgt_S, "bgt.s", short, branch, 2, 0},
		{Ble_S, "ble.s", short, branch, 2, 0},
		{Blt_S, "blt.s", short, branch, 2, 0},
		{Bge_Un, "bge.un", long, branch, 2, 0},
		{Bgt_Un, "bgt.un", long, branch, 2, 0},
		{Ble_Un, "ble.un", long, branch, 2, 0},
		{Blt_Un, "blt.un", long, branch, 2, 0},
		{Bge_Un_S, "bge.un.s", short, branch, 2, 0},
		{Bgt_Un_S, "bgt.un.s", short, branch, 2, 0},
		{Ble_Un_S, "ble.un.s", short, branch, 2, 0},
		{Blt_Un_S, "blt.un.s", short, branch, 2, 0},
		{Br, "br", long, branch, 0, 0},
		{Br_S, "br.s", short, branch, 0, 0},
		{Jmp, "jmp", token, CategoryCall, 0, 0},
		{Ret, "ret", none, branch, v, 0},
		{Brtrue, "brtrue", long, branch, 1, 0},
		{Brfalse, "brfalse", long, branch, 1, 0},
		{Brtrue_S, "brtrue.s", short, branch, 1, 0},
		{Brfalse_S, "brfalse.s", short, branch, 1, 0},

		{Call, "call", token, CategoryCall, v, v},
		{Calli, "calli", token, CategoryCall, v, v},
		{Callvirt, "callvirt", token, CategoryCall, v, v},
		{Arglist, "arglist", none, CategoryCall, 0, 1},

		{Conv_I1, "conv.i1", none, conv, 1, 1},
		{Conv_I2, "conv.i2", none, conv, 1, 1},
		{Conv_I4, "conv.i4", none, conv, 1, 1},
		{Conv_I8, "conv.i8", none, conv, 1, 1},
		{Conv_U1, "conv.u1", none, conv, 1, 1},
		{Conv_U2, "conv.u2", none, conv, 1, 1},
		{Conv_U4, "conv.u4", none, conv, 1, 1},
		{Conv_U8, "conv.u8", none, conv, 1, 1},
		{Conv_Ovf_I1, "conv.ovf.i1", none, conv, 1, 1},
		{Conv_Ovf_I2, "conv.ovf.i2", none, conv, 1, 1},
		{Conv_Ovf_I4, "conv.ovf.i4", none, conv, 1, 1},
		{Conv_Ovf_I8, "conv.ovf.i8", none, conv, 1, 1},
		{Conv_Ovf_U1, "conv.ovf.u1", none, conv, 1, 1},
		{Conv_Ovf_U2, "conv.ovf.u2", none, conv, 1, 1},
		{Conv_Ovf_U4, "conv.ovf.u4", none, conv, 1, 1},
		{Conv_Ovf_U8, "conv.ovf.u8", none, conv, 1, 1},
		{Conv_Ovf_I1_Un, "conv.ovf.i1.un", none, conv, 1, 1},
		{Conv_Ovf_I2_Un, "conv.ovf.i2.un", none, conv, 1, 1},
		{Conv_Ovf_I4_Un, "conv.ovf.i4.un", none, conv, 1, 1},
		{Conv_Ovf_I8_Un, "conv.ovf.i8.un", none, conv, 1, 1},
		{Conv_Ovf_U1_Un, "conv.ovf.u1.un", none, conv, 1, 1},
		{Conv_Ovf_U2_Un, "conv.ovf.u2.un", none, conv, 1, 1},
		{Conv_Ovf_U4_Un, "conv.ovf.u4.un", none, conv, 1, 1},
		{Conv_Ovf_U8_Un, "conv.ovf.u8.un", none, conv, 1, 1},
		{Conv_I, "conv.i", none, conv, 1, 1},
		{Conv_U, "conv.u", none, conv, 1, 1},
		{Conv_Ovf_I, "conv.ovf.i", none, conv, 1, 1},
		{Conv_Ovf_U, "conv.ovf.u", none, conv, 1, 1},
		{Conv_Ovf_I_Un, "conv.ovf.i.un", none, conv, 1, 1},
		{Conv_Ovf_U_Un, "conv.ovf.u.un", none, conv, 1, 1},
		{Conv_R4, "conv.r4", none, conv, 1, 1},
		{Conv_R8, "conv.r8", none, conv, 1, 1},
		{Conv_R_Un, "conv.r.un", none, conv, 1, 1},

		{Box, "box", token, object, 1, 1},
		{Unbox, "unbox", token, object, 1, 1},
		{Unbox_Any, "unbox.any", token, object, 1, 1},
		{Mkrefany, "mkrefany", token, object, 1, 1},
		{Refanytype, "refanytype", none, object, 1, 1},
		{Refanyval, "refanyval", token, object, 1, 1},
		{Unaligned, "unaligned.", OperandUint8, prefix, 0, 0},
		{Readonly, "readonly.", none, prefix, 0, 0},
		{Volatile, "volatile.", none, prefix, 0, 0},
		{Ckfinite, "ckfinite", none, arith, 1, 1},

		{Ldelem_I1, "ldelem.i1", none, load, 2, 1},
		{Ldelem_I2, "ldelem.i2", none, load, 2, 1},
		{Ldelem_I4, "ldelem.i4", none, load, 2, 1},
		{Ldelem_I8, "ldelem.i8", none, load, 2, 1},
		{Ldelem_U1, "ldelem.u1", none, load, 2, 1},
		{Ldelem_U2, "ldelem.u2", none, load, 2, 1},
		{Ldelem_U4, "ldelem.u4", none, load, 2, 1},
		{Ldelem_U8, "ldelem.u8", none, load, 2, 1},
		{Ldelem_R4, "ldelem.r4", none, load, 2, 1},
		{Ldelem_R8, "ldelem.r8", none, load, 2, 1},
		{Ldelem_I, "ldelem.i", none, load, 2, 1},
		{Ldelem_Ref, "ldelem.ref", none, load, 2, 1},
		{Ldelema, "ldelema", token, load, 2, 1},
		{Ldlen, "ldlen", none, object, 1, 1},

		{Ldind_I1, "ldind.i1", none, load, 1, 1},
		{Ldind_I2, "ldind.i2", none, load, 1, 1},
		{Ldind_I4, "ldind.i4", none, load, 1, 1},
		{Ldind_I8, "ldind.i8", none, load, 1, 1},
		{Ldind_U1, "ldind.u1", none, load, 1, 1},
		{Ldind_U2, "ldind.u2", none, load, 1, 1},
		{Ldind_U4, "ldind.u4", none, load, 1, 1},
		{Ldind_U8, "ldind.u8", none, load, 1, 1},
		{Ldind_R4, "ldind.r4", none, load, 1, 1},
		{Ldind_R8, "ldind.r8", none, load, 1, 1},
		{Ldind_I, "ldind.i", none, load, 1, 1},
		{Ldind_Ref, "ldind.ref", none, load, 1, 1},

		{Ldfld, "ldfld", token, load, 1, 1},
		{Ldflda, "ldflda", token, load, 1, 1},
		{Ldsfld, "ldsfld", token, load, 0, 1},
		{Ldsflda, "ldsflda", token, load, 0, 1},
		{Ldftn, "ldftn", token, load, 0, 1},
		{Ldvirtftn, "ldvirtftn", token, load, 1, 1},
		{Ldnull, "ldnull", none, konst, 0, 1},
		{Ldobj, "ldobj", token, load, 1, 1},
		{Ldstr, "ldstr", token, konst, 0, 1},
		{Ldtoken, "ldtoken", token, konst, 0, 1},

		{Starg, "starg", lvar, store, 1, 0},
		{Starg_S, "starg.s", svar, store, 1, 0},
		{Stloc, "stloc", lvar, store, 1, 0},
		{Stloc_S, "stloc.s", svar, store, 1, 0},
		{Stloc_0, "stloc.0", none, store, 1, 0},
		{Stloc_1, "stloc.1", none, store, 1, 0},
		{Stloc_2, "stloc.2", none, store, 1, 0},
		{Stloc_3, "stloc.3", none, store, 1, 0},

		{Stelem_I1, "stelem.i1", none, store, 3, 0},
		{Stelem_I2, "stelem.i2", none, store, 3, 0},
		{Stelem_I4, "stelem.i4", none, store, 3, 0},
		{Stelem_I8, "stelem.i8", none, store, 3, 0},
		{Stelem_R4, "stelem.r4", none, store, 3, 0},
		{Stelem_R8, "stelem.r8", none, store, 3, 0},
		{Stelem_I, "stelem.i", none, store, 3, 0},
		{Stelem_Ref, "stelem.ref", none, store, 3, 0},
		{Stelem, "stelem", token, store, 3, 0},

		{Stind_I1, "stind.i1", none, store, 2, 0},
		{Stind_I2, "stind.i2", none, store, 2, 0},
		{Stind_I4, "stind.i4", none, store, 2, 0},
		{Stind_I8, "stind.i8", none, store, 2, 0},
		{Stind_R4, "stind.r4", none, store, 2, 0},
		{Stind_R8, "stind.r8", none, store, 2, 0},
		{Stind_I, "stind.i", none, store, 2, 0},
		{Stind_Ref, "stind.ref", none, store, 2, 0},

		{Stfld, "stfld", token, store, 2, 0},
		{Stsfld, "stsfld", token, store, 1, 0},
		{Stobj, "stobj", token, store, 2, 0},
		{No_Typecheck, "no.", OperandUint8, prefix, 0, 0},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Code:     o.op,
			Name:     o.name,
			Operand:  o.operand,
			Category: o.category,
			Pop:      o.pop,
			Push:     o.push,
		}
	}
	for _, c := range []Code{Br, Br_S, Ret, Throw, Rethrow, Jmp, Leave, Leave_S, Endfinally, Endfault, Endfilter} {
		infos[c].Terminal = true
	}
}

// GetInfo returns information about the given opcode. The zero Info is
// returned for codes outside the vocabulary.
func GetInfo(op Code) Info {
	return infos[op]
}

// Lookup finds an opcode by its mnemonic.
func Lookup(name string) (Code, bool) {
	for _, info := range infos {
		if info.Name == name {
			return info.Code, true
		}
	}
	return 0, false
}

// All returns every opcode in the vocabulary in numeric order.
func All() []Info {
	var result []Info
	for _, info := range infos {
		if info.Valid() {
			result = append(result, info)
		}
	}
	return result
}

func (c Code) String() string {
	if info := infos[c]; info.Valid() {
		return info.Name
	}
	return "invalid"
}

// ShortForm returns the one-byte-offset variant of a long branch.
func ShortForm(c Code) (Code, bool) {
	if infos[c].Operand != OperandBranch {
		return c, false
	}
	switch c {
	case Leave:
		return Leave_S, true
	case Br:
		return Br_S, true
	case Brtrue:
		return Brtrue_S, true
	case Brfalse:
		return Brfalse_S, true
	case Beq:
		return Beq_S, true
	case Bne_Un:
		return Bne_Un_S, true
	}
	// bge..blt and their .un forms sit four slots below their short forms
	if (c >= Bge && c <= Blt) || (c >= Bge_Un && c <= Blt_Un) {
		return c + 4, true
	}
	return c, false
}

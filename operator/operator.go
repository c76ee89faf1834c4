// Package operator holds the closed operator enumerations and the dense
// tables that resolve an operator applied to operand types into a result
// type and the instructions that implement it.
package operator

// Unary identifies a unary operator.
type Unary uint8

const (
	UnaryNone Unary = iota
	Identity
	Negation
	LogicalNegation
	BitwiseNegation
	PreIncrement
	PreDecrement
	PostIncrement
	PostDecrement
	Conversion
)

const unaryCount = int(Conversion) + 1

var unaryNames = [unaryCount]string{
	UnaryNone:       "none",
	Identity:        "identity",
	Negation:        "negation",
	LogicalNegation: "logical_not",
	BitwiseNegation: "bitwise_not",
	PreIncrement:    "pre_increment",
	PreDecrement:    "pre_decrement",
	PostIncrement:   "post_increment",
	PostDecrement:   "post_decrement",
	Conversion:      "conversion",
}

var unarySymbols = [unaryCount]string{
	Identity:        "+",
	Negation:        "-",
	LogicalNegation: "!",
	BitwiseNegation: "~",
	PreIncrement:    "++",
	PreDecrement:    "--",
	PostIncrement:   "++",
	PostDecrement:   "--",
	Conversion:      "(cast)",
}

func (u Unary) String() string {
	if int(u) < unaryCount {
		return unaryNames[u]
	}
	return "invalid"
}

// Symbol returns the source-level spelling of the operator.
func (u Unary) Symbol() string {
	if int(u) < unaryCount {
		return unarySymbols[u]
	}
	return ""
}

// IsArithmetic reports whether the operator computes a numeric value.
func (u Unary) IsArithmetic() bool {
	return u == Identity || u == Negation || u.IsIncrement() || u.IsDecrement()
}

// IsLogical reports whether the operator is boolean negation.
func (u Unary) IsLogical() bool {
	return u == LogicalNegation
}

// IsBitwise reports whether the operator is bitwise complement.
func (u Unary) IsBitwise() bool {
	return u == BitwiseNegation
}

// IsIncrement reports whether the operator is ++ in either position.
func (u Unary) IsIncrement() bool {
	return u == PreIncrement || u == PostIncrement
}

// IsDecrement reports whether the operator is -- in either position.
func (u Unary) IsDecrement() bool {
	return u == PreDecrement || u == PostDecrement
}

// IsPostfix reports whether the operator yields the operand's value from
// before the update.
func (u Unary) IsPostfix() bool {
	return u == PostIncrement || u == PostDecrement
}

// ParseUnary returns the unary operator with the given name.
func ParseUnary(name string) (Unary, bool) {
	for i, n := range unaryNames {
		if i > 0 && n == name {
			return Unary(i), true
		}
	}
	return UnaryNone, false
}

// Binary identifies a binary operator.
type Binary uint8

const (
	BinaryNone Binary = iota
	Addition
	Subtraction
	Multiplication
	Division
	Remainder
	LogicalAnd
	LogicalOr
	BitwiseAnd
	BitwiseOr
	BitwiseXor
	ShiftLeft
	ShiftRight
	Equality
	Inequality
	LessThan
	LessThanOrEqual
	GreaterThan
	GreaterThanOrEqual
)

const binaryCount = int(GreaterThanOrEqual) + 1

var binaryNames = [binaryCount]string{
	BinaryNone:         "none",
	Addition:           "add",
	Subtraction:        "sub",
	Multiplication:     "mul",
	Division:           "div",
	Remainder:          "rem",
	LogicalAnd:         "and_also",
	LogicalOr:          "or_else",
	BitwiseAnd:         "bit_and",
	BitwiseOr:          "bit_or",
	BitwiseXor:         "bit_xor",
	ShiftLeft:          "shl",
	ShiftRight:         "shr",
	Equality:           "eq",
	Inequality:         "ne",
	LessThan:           "lt",
	LessThanOrEqual:    "le",
	GreaterThan:        "gt",
	GreaterThanOrEqual: "ge",
}

var binarySymbols = [binaryCount]string{
	Addition:           "+",
	Subtraction:        "-",
	Multiplication:     "*",
	Division:           "/",
	Remainder:          "%",
	LogicalAnd:         "&&",
	LogicalOr:          "||",
	BitwiseAnd:         "&",
	BitwiseOr:          "|",
	BitwiseXor:         "^",
	ShiftLeft:          "<<",
	ShiftRight:         ">>",
	Equality:           "==",
	Inequality:         "!=",
	LessThan:           "<",
	LessThanOrEqual:    "<=",
	GreaterThan:        ">",
	GreaterThanOrEqual: ">=",
}

func (b Binary) String() string {
	if int(b) < binaryCount {
		return binaryNames[b]
	}
	return "invalid"
}

// Symbol returns the source-level spelling of the operator.
func (b Binary) Symbol() string {
	if int(b) < binaryCount {
		return binarySymbols[b]
	}
	return ""
}

// IsArithmetic reports whether the operator is +, -, *, / or %.
func (b Binary) IsArithmetic() bool {
	return b >= Addition && b <= Remainder
}

// IsLogical reports whether the operator short-circuits.
func (b Binary) IsLogical() bool {
	return b == LogicalAnd || b == LogicalOr
}

// IsBitwise reports whether the operator is &, | or ^.
func (b Binary) IsBitwise() bool {
	return b >= BitwiseAnd && b <= BitwiseXor
}

// IsShift reports whether the operator is << or >>.
func (b Binary) IsShift() bool {
	return b == ShiftLeft || b == ShiftRight
}

// IsComparison reports whether the operator yields a bool from two
// comparable operands.
func (b Binary) IsComparison() bool {
	return b >= Equality && b <= GreaterThanOrEqual
}

// IsEquality reports whether the operator is == or !=.
func (b Binary) IsEquality() bool {
	return b == Equality || b == Inequality
}

// HasOverflowCheck reports whether a checked context selects a different
// opcode for the operator. Only +, - and * have overflow-checked forms.
func (b Binary) HasOverflowCheck() bool {
	return b == Addition || b == Subtraction || b == Multiplication
}

// IsCommutative reports whether operand order does not affect the result.
func (b Binary) IsCommutative() bool {
	switch b {
	case Addition, Multiplication, BitwiseAnd, BitwiseOr, BitwiseXor, Equality, Inequality:
		return true
	}
	return false
}

// ParseBinary returns the binary operator with the given name or symbol.
func ParseBinary(name string) (Binary, bool) {
	for i := 1; i < binaryCount; i++ {
		if binaryNames[i] == name || binarySymbols[i] == name {
			return Binary(i), true
		}
	}
	return BinaryNone, false
}

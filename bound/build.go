package bound

import (
	"github.com/deepnoodle-ai/ilemit/operator"
	"github.com/deepnoodle-ai/ilemit/types"
)

// NewInt returns an integer literal of the given kind.
func NewInt(kind types.Kind, v int64) *Literal {
	if types.IsUnsigned(kind) {
		return &Literal{Value: uint64(v), LitType: kind}
	}
	return &Literal{Value: v, LitType: kind}
}

// NewUint returns an unsigned literal of the given kind.
func NewUint(kind types.Kind, v uint64) *Literal {
	return &Literal{Value: v, LitType: kind}
}

// NewFloat returns a floating point literal of the given kind.
func NewFloat(kind types.Kind, v float64) *Literal {
	return &Literal{Value: v, LitType: kind}
}

// NewBool returns a bool literal.
func NewBool(v bool) *Literal {
	return &Literal{Value: v, LitType: types.Bool}
}

// NewString returns a string literal.
func NewString(v string) *Literal {
	return &Literal{Value: v, LitType: types.String}
}

// NewNull returns a null reference of the given kind.
func NewNull(kind types.Kind) *Literal {
	return &Literal{LitType: kind}
}

// NewBinary resolves the result type of a binary operation and returns
// the node.
func NewBinary(op operator.Binary, left, right Expression) (*Binary, error) {
	result, err := operator.ResultType(op, left.Type(), right.Type())
	if err != nil {
		return nil, err
	}
	return &Binary{Op: op, Left: left, Right: right, ResultType: result}, nil
}

// NewUnary resolves the result type of a unary operation and returns the
// node.
func NewUnary(op operator.Unary, operand Expression) (*Unary, error) {
	result, err := operator.UnaryResultType(op, operand.Type())
	if err != nil {
		return nil, err
	}
	return &Unary{Op: op, Operand: operand, ResultType: result}, nil
}

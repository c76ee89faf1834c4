package bound

import (
	"github.com/deepnoodle-ai/ilemit/internal/token"
	"github.com/deepnoodle-ai/ilemit/operator"
	"github.com/deepnoodle-ai/ilemit/types"
)

// Literal is a constant. Value holds a bool, int64, uint64, float64,
// string, or nil for a null reference.
type Literal struct {
	Value    any
	LitType  types.Kind
	Position token.Position
}

func (e *Literal) expressionNode()     {}
func (e *Literal) Kind() NodeKind      { return KindLiteral }
func (e *Literal) Pos() token.Position { return e.Position }
func (e *Literal) Type() types.Kind    { return e.LitType }

// LocalRef reads or designates a local.
type LocalRef struct {
	Local    *Local
	Position token.Position
}

func (e *LocalRef) expressionNode()     {}
func (e *LocalRef) Kind() NodeKind      { return KindLocalRef }
func (e *LocalRef) Pos() token.Position { return e.Position }
func (e *LocalRef) Type() types.Kind    { return e.Local.LocalType }

// ParameterRef reads or designates a parameter. By-reference parameters
// are dereferenced; the expression has the referenced value's type.
type ParameterRef struct {
	Parameter *Parameter
	Position  token.Position
}

func (e *ParameterRef) expressionNode()     {}
func (e *ParameterRef) Kind() NodeKind      { return KindParameterRef }
func (e *ParameterRef) Pos() token.Position { return e.Position }
func (e *ParameterRef) Type() types.Kind    { return e.Parameter.ParamType }

// This is the receiver of an instance method, argument zero.
type This struct {
	Position token.Position
}

func (e *This) expressionNode()     {}
func (e *This) Kind() NodeKind      { return KindThis }
func (e *This) Pos() token.Position { return e.Position }
func (e *This) Type() types.Kind    { return types.Object }

// FieldAccess reads or designates a field. Receiver is nil for static
// fields.
type FieldAccess struct {
	Receiver Expression
	Field    *Field
	Position token.Position
}

func (e *FieldAccess) expressionNode()     {}
func (e *FieldAccess) Kind() NodeKind      { return KindFieldAccess }
func (e *FieldAccess) Pos() token.Position { return e.Position }
func (e *FieldAccess) Type() types.Kind    { return e.Field.FieldType }

// PropertyAccess reads or designates a property through its accessors.
type PropertyAccess struct {
	Receiver Expression
	Property *Property
	Position token.Position
}

func (e *PropertyAccess) expressionNode()     {}
func (e *PropertyAccess) Kind() NodeKind      { return KindPropertyAccess }
func (e *PropertyAccess) Pos() token.Position { return e.Position }
func (e *PropertyAccess) Type() types.Kind    { return e.Property.PropertyType }

// ArrayElement reads or designates an array element.
type ArrayElement struct {
	Array       Expression
	Index       Expression
	ElementType types.Kind
	Position    token.Position
}

func (e *ArrayElement) expressionNode()     {}
func (e *ArrayElement) Kind() NodeKind      { return KindArrayElement }
func (e *ArrayElement) Pos() token.Position { return e.Position }
func (e *ArrayElement) Type() types.Kind    { return e.ElementType }

// ArrayLength is the element count of an array.
type ArrayLength struct {
	Array    Expression
	Position token.Position
}

func (e *ArrayLength) expressionNode()     {}
func (e *ArrayLength) Kind() NodeKind      { return KindArrayLength }
func (e *ArrayLength) Pos() token.Position { return e.Position }
func (e *ArrayLength) Type() types.Kind    { return types.Int32 }

// Call invokes a method. Receiver is nil for static methods.
type Call struct {
	Receiver Expression
	Method   *Method
	Args     []Expression
	Position token.Position
}

func (e *Call) expressionNode()     {}
func (e *Call) Kind() NodeKind      { return KindCall }
func (e *Call) Pos() token.Position { return e.Position }
func (e *Call) Type() types.Kind    { return e.Method.ReturnType }

// Unary applies a unary operator.
type Unary struct {
	Op         operator.Unary
	Operand    Expression
	ResultType types.Kind
	Position   token.Position
}

func (e *Unary) expressionNode()     {}
func (e *Unary) Kind() NodeKind      { return KindUnary }
func (e *Unary) Pos() token.Position { return e.Position }
func (e *Unary) Type() types.Kind    { return e.ResultType }

// Binary applies a binary operator.
type Binary struct {
	Op         operator.Binary
	Left       Expression
	Right      Expression
	ResultType types.Kind
	Position   token.Position
}

func (e *Binary) expressionNode()     {}
func (e *Binary) Kind() NodeKind      { return KindBinary }
func (e *Binary) Pos() token.Position { return e.Position }
func (e *Binary) Type() types.Kind    { return e.ResultType }

// Assignment stores Value into Target and yields the stored value. Target
// is a LocalRef, ParameterRef, FieldAccess, PropertyAccess or ArrayElement.
type Assignment struct {
	Target   Expression
	Value    Expression
	Position token.Position
}

func (e *Assignment) expressionNode()     {}
func (e *Assignment) Kind() NodeKind      { return KindAssignment }
func (e *Assignment) Pos() token.Position { return e.Position }
func (e *Assignment) Type() types.Kind    { return e.Target.Type() }

// Conversion converts its operand to Target. Explicit conversions are
// user-written casts; the others were inserted by the binder and must be
// lossless widenings.
type Conversion struct {
	Operand  Expression
	Target   types.Kind
	Explicit bool
	Position token.Position
}

func (e *Conversion) expressionNode()     {}
func (e *Conversion) Kind() NodeKind      { return KindConversion }
func (e *Conversion) Pos() token.Position { return e.Position }
func (e *Conversion) Type() types.Kind    { return e.Target }

// Package bound defines the typed, fully resolved program representation
// consumed by the emitter. A bound tree is built once by a binder (or the
// loader package) and is never modified afterwards.
package bound

import (
	"github.com/deepnoodle-ai/ilemit/internal/token"
	"github.com/deepnoodle-ai/ilemit/types"
)

// NodeKind is the discriminant carried by every bound node.
type NodeKind uint8

const (
	KindInvalid NodeKind = iota

	// Declarations
	KindNamespace
	KindType
	KindField
	KindProperty
	KindMethod
	KindParameter
	KindLocal
	KindLabel

	// Statements
	KindBlock
	KindExpressionStatement
	KindLocalDeclaration
	KindChecked
	KindIf
	KindWhile
	KindBreak
	KindContinue
	KindReturn
	KindGoto
	KindLabeled
	KindThrow

	// Expressions
	KindLiteral
	KindLocalRef
	KindParameterRef
	KindThis
	KindFieldAccess
	KindPropertyAccess
	KindArrayElement
	KindArrayLength
	KindCall
	KindUnary
	KindBinary
	KindAssignment
	KindConversion
)

var kindNames = map[NodeKind]string{
	KindInvalid:             "invalid",
	KindNamespace:           "namespace",
	KindType:                "type",
	KindField:               "field",
	KindProperty:            "property",
	KindMethod:              "method",
	KindParameter:           "parameter",
	KindLocal:               "local",
	KindLabel:               "label",
	KindBlock:               "block",
	KindExpressionStatement: "expression_statement",
	KindLocalDeclaration:    "local_declaration",
	KindChecked:             "checked",
	KindIf:                  "if",
	KindWhile:               "while",
	KindBreak:               "break",
	KindContinue:            "continue",
	KindReturn:              "return",
	KindGoto:                "goto",
	KindLabeled:             "labeled",
	KindThrow:               "throw",
	KindLiteral:             "literal",
	KindLocalRef:            "local_ref",
	KindParameterRef:        "parameter_ref",
	KindThis:                "this",
	KindFieldAccess:         "field_access",
	KindPropertyAccess:      "property_access",
	KindArrayElement:        "array_element",
	KindArrayLength:         "array_length",
	KindCall:                "call",
	KindUnary:               "unary",
	KindBinary:              "binary",
	KindAssignment:          "assignment",
	KindConversion:          "conversion",
}

func (k NodeKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "invalid"
}

// Node is implemented by every bound node.
type Node interface {
	// Kind returns the node's discriminant.
	Kind() NodeKind

	// Pos returns the source position the node was bound from.
	Pos() token.Position
}

// Statement is a bound statement. The set of statements is closed.
type Statement interface {
	Node
	statementNode()
}

// Expression is a bound expression. Every expression carries its resolved
// type.
type Expression interface {
	Node
	Type() types.Kind
	expressionNode()
}

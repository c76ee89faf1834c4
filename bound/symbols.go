package bound

import (
	"github.com/deepnoodle-ai/ilemit/internal/token"
	"github.com/deepnoodle-ai/ilemit/types"
)

// Namespace groups types.
type Namespace struct {
	Name     string
	Types    []*Type
	Position token.Position
}

func (n *Namespace) Kind() NodeKind      { return KindNamespace }
func (n *Namespace) Pos() token.Position { return n.Position }

// Methods returns every method declared by the namespace's types, including
// property accessors, in declaration order.
func (n *Namespace) Methods() []*Method {
	var methods []*Method
	for _, t := range n.Types {
		methods = append(methods, t.AllMethods()...)
	}
	return methods
}

// Type is a declared class-like type.
type Type struct {
	Name       string
	Namespace  string
	Fields     []*Field
	Properties []*Property
	Methods    []*Method
	Position   token.Position
}

func (t *Type) Kind() NodeKind      { return KindType }
func (t *Type) Pos() token.Position { return t.Position }

// FullName returns the namespace-qualified name.
func (t *Type) FullName() string {
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

// AllMethods returns the declared methods followed by property accessors.
func (t *Type) AllMethods() []*Method {
	methods := append([]*Method(nil), t.Methods...)
	for _, p := range t.Properties {
		if p.Getter != nil {
			methods = append(methods, p.Getter)
		}
		if p.Setter != nil {
			methods = append(methods, p.Setter)
		}
	}
	return methods
}

// Field is a member variable.
type Field struct {
	Name      string
	Owner     *Type
	FieldType types.Kind
	Static    bool
	Position  token.Position
}

func (f *Field) Kind() NodeKind      { return KindField }
func (f *Field) Pos() token.Position { return f.Position }

// FullName returns the owner-qualified name.
func (f *Field) FullName() string {
	return ownerName(f.Owner) + "::" + f.Name
}

// Property is a member with accessor methods. Either accessor may be nil.
type Property struct {
	Name         string
	Owner        *Type
	PropertyType types.Kind
	Getter       *Method
	Setter       *Method
	Static       bool
	Position     token.Position
}

func (p *Property) Kind() NodeKind      { return KindProperty }
func (p *Property) Pos() token.Position { return p.Position }

// Method is a callable member with an optional body.
type Method struct {
	Name       string
	Owner      *Type
	Params     []*Parameter
	ReturnType types.Kind
	Body       *Block
	Static     bool
	Virtual    bool

	// Unsafe and Checked set the initial emission context for the body.
	Unsafe   bool
	Checked  bool
	Position token.Position
}

func (m *Method) Kind() NodeKind      { return KindMethod }
func (m *Method) Pos() token.Position { return m.Position }

// FullName returns the owner-qualified name.
func (m *Method) FullName() string {
	return ownerName(m.Owner) + "::" + m.Name
}

// ArgCount returns the number of argument slots, including the receiver
// of instance methods.
func (m *Method) ArgCount() int {
	if m.Static {
		return len(m.Params)
	}
	return len(m.Params) + 1
}

// ArgIndex returns the argument slot of a parameter.
func (m *Method) ArgIndex(p *Parameter) int {
	for i, param := range m.Params {
		if param == p {
			if m.Static {
				return i
			}
			return i + 1
		}
	}
	return -1
}

func ownerName(t *Type) string {
	if t == nil {
		return "<global>"
	}
	return t.FullName()
}

// RefKind describes how an argument is passed.
type RefKind uint8

const (
	RefNone RefKind = iota
	RefRef
	RefOut
	RefIn
	RefReadOnly
)

func (r RefKind) String() string {
	switch r {
	case RefRef:
		return "ref"
	case RefOut:
		return "out"
	case RefIn:
		return "in"
	case RefReadOnly:
		return "ref readonly"
	default:
		return ""
	}
}

// ByRef reports whether the argument slot holds an address.
func (r RefKind) ByRef() bool {
	return r != RefNone
}

// Parameter is a method parameter. For by-reference parameters ParamType
// is the type of the referenced value.
type Parameter struct {
	Name      string
	ParamType types.Kind
	RefKind   RefKind
	Position  token.Position
}

func (p *Parameter) Kind() NodeKind      { return KindParameter }
func (p *Parameter) Pos() token.Position { return p.Position }

// Local is a block-scoped variable.
type Local struct {
	Name      string
	LocalType types.Kind
	Position  token.Position
}

func (l *Local) Kind() NodeKind      { return KindLocal }
func (l *Local) Pos() token.Position { return l.Position }

// Label is a goto target.
type Label struct {
	Name     string
	Position token.Position
}

func (l *Label) Kind() NodeKind      { return KindLabel }
func (l *Label) Pos() token.Position { return l.Position }

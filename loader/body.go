package loader

import (
	"github.com/deepnoodle-ai/ilemit/bound"
	"github.com/deepnoodle-ai/ilemit/operator"
	"github.com/deepnoodle-ai/ilemit/types"
)

// methodScope resolves names inside one method body.
type methodScope struct {
	method *bound.Method
	params map[string]*bound.Parameter
	blocks []map[string]*bound.Local
	labels map[string]*bound.Label
}

func (s *methodScope) local(name string) (*bound.Local, bool) {
	for i := len(s.blocks) - 1; i >= 0; i-- {
		if l, ok := s.blocks[i][name]; ok {
			return l, true
		}
	}
	return nil, false
}

func (s *methodScope) label(name string) *bound.Label {
	if lbl, ok := s.labels[name]; ok {
		return lbl
	}
	lbl := &bound.Label{Name: name}
	s.labels[name] = lbl
	return lbl
}

func (l *loader) defineBody(m *bound.Method, def *blockDef) error {
	s := &methodScope{
		method: m,
		params: map[string]*bound.Parameter{},
		labels: map[string]*bound.Label{},
	}
	for _, p := range m.Params {
		s.params[p.Name] = p
	}
	block, err := l.block(s, def)
	if err != nil {
		return err
	}
	m.Body = block
	return nil
}

func (l *loader) block(s *methodScope, def *blockDef) (*bound.Block, error) {
	b := &bound.Block{Position: l.pos(def.node)}
	scope := map[string]*bound.Local{}
	for _, ld := range def.Locals {
		kind, err := l.kind(ld.Type, ld.node)
		if err != nil {
			return nil, err
		}
		if _, dup := scope[ld.Name]; dup {
			return nil, l.errorf(ld.node, "local %s declared twice", ld.Name)
		}
		local := &bound.Local{Name: ld.Name, LocalType: kind, Position: l.pos(ld.node)}
		scope[ld.Name] = local
		b.Locals = append(b.Locals, local)
	}
	s.blocks = append(s.blocks, scope)
	defer func() { s.blocks = s.blocks[:len(s.blocks)-1] }()

	for i := range def.Statements {
		stmt, err := l.statement(s, &def.Statements[i])
		if err != nil {
			return nil, err
		}
		b.Statements = append(b.Statements, stmt)
	}
	return b, nil
}

func (l *loader) statement(s *methodScope, def *stmtDef) (bound.Statement, error) {
	pos := l.pos(def.node)
	switch tag := def.tag(statementTags); tag {
	case "expr":
		x, err := l.required(s, def.Expr, def.node, tag)
		if err != nil {
			return nil, err
		}
		return &bound.ExpressionStatement{Expr: x, Position: pos}, nil
	case "declare":
		local, ok := s.local(def.Declare)
		if !ok {
			return nil, l.errorf(def.node, "declaration of undeclared local %s", def.Declare)
		}
		decl := &bound.LocalDeclaration{Local: local, Position: pos}
		if def.Init != nil {
			init, err := l.expression(s, def.Init)
			if err != nil {
				return nil, err
			}
			decl.Init = init
		}
		return decl, nil
	case "block":
		if def.Block == nil {
			return &bound.Block{Position: pos}, nil
		}
		return l.block(s, def.Block)
	case "checked", "unchecked", "unsafe":
		mode := map[string]bound.CheckMode{
			"checked":   bound.ModeChecked,
			"unchecked": bound.ModeUnchecked,
			"unsafe":    bound.ModeUnsafe,
		}[tag]
		body := &bound.Block{Position: pos}
		inner := map[string]*blockDef{"checked": def.Checked, "unchecked": def.Unchecked, "unsafe": def.Unsafe}[tag]
		if inner != nil {
			b, err := l.block(s, inner)
			if err != nil {
				return nil, err
			}
			body = b
		}
		return &bound.Checked{Mode: mode, Body: body, Position: pos}, nil
	case "if":
		cond, err := l.required(s, def.If, def.node, tag)
		if err != nil {
			return nil, err
		}
		if def.Then == nil {
			return nil, l.errorf(def.node, "if without then")
		}
		then, err := l.statement(s, def.Then)
		if err != nil {
			return nil, err
		}
		stmt := &bound.If{Condition: cond, Then: then, Position: pos}
		if def.Else != nil {
			if stmt.Else, err = l.statement(s, def.Else); err != nil {
				return nil, err
			}
		}
		return stmt, nil
	case "while":
		cond, err := l.required(s, def.While, def.node, tag)
		if err != nil {
			return nil, err
		}
		var loopBody bound.Statement = &bound.Block{Position: pos}
		if def.Do != nil {
			if loopBody, err = l.statement(s, def.Do); err != nil {
				return nil, err
			}
		}
		return &bound.While{Condition: cond, Body: loopBody, Position: pos}, nil
	case "break":
		return &bound.Break{Position: pos}, nil
	case "continue":
		return &bound.Continue{Position: pos}, nil
	case "return":
		stmt := &bound.Return{Position: pos}
		if def.Return != nil {
			x, err := l.expression(s, def.Return)
			if err != nil {
				return nil, err
			}
			stmt.Value = x
		}
		return stmt, nil
	case "goto":
		return &bound.Goto{Label: s.label(def.Goto), Position: pos}, nil
	case "label":
		stmt := &bound.Labeled{Label: s.label(def.Label), Position: pos}
		if !stmt.Label.Position.IsValid() {
			stmt.Label.Position = pos
		}
		if def.Statement != nil {
			inner, err := l.statement(s, def.Statement)
			if err != nil {
				return nil, err
			}
			stmt.Statement = inner
		}
		return stmt, nil
	case "throw":
		x, err := l.required(s, def.Throw, def.node, tag)
		if err != nil {
			return nil, err
		}
		return &bound.Throw{Value: x, Position: pos}, nil
	}
	return nil, l.errorf(def.node, "unknown statement %v", def.keys)
}

func (l *loader) required(s *methodScope, def *exprDef, n node, what string) (bound.Expression, error) {
	if def == nil {
		return nil, l.errorf(n, "%s requires an expression", what)
	}
	return l.expression(s, def)
}

func (l *loader) expression(s *methodScope, def *exprDef) (bound.Expression, error) {
	pos := l.pos(def.node)
	switch tag := def.tag(expressionTags); tag {
	case "literal":
		lit, err := l.literal(def)
		if err != nil {
			return nil, err
		}
		lit.Position = pos
		return lit, nil
	case "null":
		kind := types.Object
		if def.Type != "" {
			k, err := l.kind(def.Type, def.node)
			if err != nil {
				return nil, err
			}
			kind = k
		}
		lit := bound.NewNull(kind)
		lit.Position = pos
		return lit, nil
	case "local":
		local, ok := s.local(def.Local)
		if !ok {
			return nil, l.errorf(def.node, "unknown local %s", def.Local)
		}
		return &bound.LocalRef{Local: local, Position: pos}, nil
	case "param":
		p, ok := s.params[def.Param]
		if !ok {
			return nil, l.errorf(def.node, "unknown parameter %s", def.Param)
		}
		return &bound.ParameterRef{Parameter: p, Position: pos}, nil
	case "this":
		if s.method.Static {
			return nil, l.errorf(def.node, "this in static method %s", s.method.FullName())
		}
		return &bound.This{Position: pos}, nil
	case "field":
		owner, name, err := l.member(def.Field, s.method.Owner, def.node)
		if err != nil {
			return nil, err
		}
		f, ok := l.fields[owner][name]
		if !ok {
			return nil, l.errorf(def.node, "unknown field %s", def.Field)
		}
		recv, err := l.receiver(s, def, f.Static, owner)
		if err != nil {
			return nil, err
		}
		return &bound.FieldAccess{Receiver: recv, Field: f, Position: pos}, nil
	case "property":
		owner, name, err := l.member(def.Property, s.method.Owner, def.node)
		if err != nil {
			return nil, err
		}
		p, ok := l.props[owner][name]
		if !ok {
			return nil, l.errorf(def.node, "unknown property %s", def.Property)
		}
		recv, err := l.receiver(s, def, p.Static, owner)
		if err != nil {
			return nil, err
		}
		return &bound.PropertyAccess{Receiver: recv, Property: p, Position: pos}, nil
	case "element":
		kind, err := l.kind(def.Type, def.node)
		if err != nil {
			return nil, err
		}
		arr, err := l.required(s, def.Element, def.node, tag)
		if err != nil {
			return nil, err
		}
		idx, err := l.required(s, def.Index, def.node, "index")
		if err != nil {
			return nil, err
		}
		return &bound.ArrayElement{Array: arr, Index: idx, ElementType: kind, Position: pos}, nil
	case "length":
		arr, err := l.required(s, def.Length, def.node, tag)
		if err != nil {
			return nil, err
		}
		return &bound.ArrayLength{Array: arr, Position: pos}, nil
	case "call":
		owner, name, err := l.member(def.Call, s.method.Owner, def.node)
		if err != nil {
			return nil, err
		}
		m, ok := l.methods[owner][name]
		if !ok {
			return nil, l.errorf(def.node, "unknown method %s", def.Call)
		}
		recv, err := l.receiver(s, def, m.Static, owner)
		if err != nil {
			return nil, err
		}
		call := &bound.Call{Receiver: recv, Method: m, Position: pos}
		for _, a := range def.Args {
			arg, err := l.expression(s, a)
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
		}
		return call, nil
	case "unary":
		u, ok := operator.ParseUnary(def.Unary)
		if !ok {
			return nil, l.errorf(def.node, "unknown unary operator %q", def.Unary)
		}
		operand, err := l.required(s, def.Operand, def.node, tag)
		if err != nil {
			return nil, err
		}
		x, err := bound.NewUnary(u, operand)
		if err != nil {
			return nil, l.errorf(def.node, "%v", err)
		}
		x.Position = pos
		return x, nil
	case "binary":
		b, ok := operator.ParseBinary(def.Binary)
		if !ok {
			return nil, l.errorf(def.node, "unknown binary operator %q", def.Binary)
		}
		left, err := l.required(s, def.Left, def.node, "left")
		if err != nil {
			return nil, err
		}
		right, err := l.required(s, def.Right, def.node, "right")
		if err != nil {
			return nil, err
		}
		x, err := bound.NewBinary(b, left, right)
		if err != nil {
			return nil, l.errorf(def.node, "%v", err)
		}
		x.Position = pos
		return x, nil
	case "assign":
		target, err := l.required(s, def.Assign, def.node, tag)
		if err != nil {
			return nil, err
		}
		value, err := l.required(s, def.Value, def.node, "value")
		if err != nil {
			return nil, err
		}
		return &bound.Assignment{Target: target, Value: value, Position: pos}, nil
	case "convert":
		kind, err := l.kind(def.Type, def.node)
		if err != nil {
			return nil, err
		}
		operand, err := l.required(s, def.Convert, def.node, tag)
		if err != nil {
			return nil, err
		}
		return &bound.Conversion{Operand: operand, Target: kind, Explicit: def.Explicit, Position: pos}, nil
	}
	return nil, l.errorf(def.node, "unknown expression %v", def.keys)
}

// receiver builds the receiver of an instance member. It defaults to this
// when the member belongs to the enclosing instance method's type.
func (l *loader) receiver(s *methodScope, def *exprDef, static bool, owner *bound.Type) (bound.Expression, error) {
	if static {
		if def.Receiver != nil {
			return nil, l.errorf(def.node, "static member accessed through a receiver")
		}
		return nil, nil
	}
	if def.Receiver != nil {
		return l.expression(s, def.Receiver)
	}
	if !s.method.Static && owner == s.method.Owner {
		return &bound.This{Position: l.pos(def.node)}, nil
	}
	return nil, l.errorf(def.node, "instance member needs a receiver")
}

func (l *loader) literal(def *exprDef) (*bound.Literal, error) {
	kind := literalKind(def.Literal)
	if def.Type != "" {
		k, err := l.kind(def.Type, def.node)
		if err != nil {
			return nil, err
		}
		kind = k
	}
	switch v := def.Literal.(type) {
	case bool:
		if kind == types.Bool {
			return bound.NewBool(v), nil
		}
	case int:
		switch {
		case types.IsFloat(kind):
			return bound.NewFloat(kind, float64(v)), nil
		case types.IsUnsigned(kind) && v >= 0:
			return bound.NewUint(kind, uint64(v)), nil
		case types.IsSigned(kind):
			return bound.NewInt(kind, int64(v)), nil
		}
	case uint64:
		if types.IsUnsigned(kind) {
			return bound.NewUint(kind, v), nil
		}
	case float64:
		if types.IsFloat(kind) {
			return bound.NewFloat(kind, v), nil
		}
	case string:
		if kind == types.String {
			return bound.NewString(v), nil
		}
	case nil:
		return nil, l.errorf(def.node, "literal without a value; use null for a null reference")
	}
	return nil, l.errorf(def.node, "literal %v is not a %s", def.Literal, kind)
}

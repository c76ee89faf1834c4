// Package loader decodes bound-tree documents written by an external binder.
// A document is YAML (JSON documents are accepted as well) describing one
// namespace: its types, their fields, properties and methods, and method
// bodies as trees of tagged statement and expression maps.
//
//	namespace: Demo
//	types:
//	  - name: Calc
//	    fields: [{name: total, type: int32, static: true}]
//	    methods:
//	      - name: Add
//	        static: true
//	        returns: int32
//	        params: [{name: a, type: int32}, {name: b, type: int32}]
//	        body:
//	          statements:
//	            - return: {binary: add, left: {param: a}, right: {param: b}}
//
// Names resolve to the locals, parameters and labels of the enclosing
// method, and to Type.member references across the namespace. Every node
// carries the position of its map in the document, so emission errors
// point back into it.
package loader

import (
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/deepnoodle-ai/ilemit/bound"
	"github.com/deepnoodle-ai/ilemit/errz"
	"github.com/deepnoodle-ai/ilemit/internal/token"
	"github.com/deepnoodle-ai/ilemit/types"
)

// Error is a problem in a document, located at the offending map.
type Error struct {
	Location errz.SourceLocation
	Message  string
}

func (e *Error) Error() string {
	if e.Location.IsZero() {
		return e.Message
	}
	return e.Location.String() + ": " + e.Message
}

// LoadFile reads and decodes the document at path.
func LoadFile(path string) (*bound.Namespace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(data, path)
}

// Load decodes a document. The filename is recorded in node positions.
func Load(data []byte, filename string) (*bound.Namespace, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	l := &loader{
		filename: filename,
		lines:    strings.Split(string(data), "\n"),
		types:    map[string]*bound.Type{},
		fields:   map[*bound.Type]map[string]*bound.Field{},
		props:    map[*bound.Type]map[string]*bound.Property{},
		methods:  map[*bound.Type]map[string]*bound.Method{},
	}
	return l.load(&doc)
}

type loader struct {
	filename string
	lines    []string
	types    map[string]*bound.Type
	fields   map[*bound.Type]map[string]*bound.Field
	props    map[*bound.Type]map[string]*bound.Property
	methods  map[*bound.Type]map[string]*bound.Method
}

// body is a method definition waiting for its statements to be built,
// once every member of the namespace is declared.
type body struct {
	method *bound.Method
	def    *blockDef
}

func (l *loader) load(doc *document) (*bound.Namespace, error) {
	ns := &bound.Namespace{Name: doc.Namespace}
	for i := range doc.Types {
		def := &doc.Types[i]
		if def.Name == "" {
			return nil, l.errorf(def.node, "type without a name")
		}
		t := &bound.Type{Name: def.Name, Namespace: doc.Namespace, Position: l.pos(def.node)}
		if _, dup := l.types[def.Name]; dup {
			return nil, l.errorf(def.node, "type %s declared twice", def.Name)
		}
		l.types[def.Name] = t
		l.types[t.FullName()] = t
		l.fields[t] = map[string]*bound.Field{}
		l.props[t] = map[string]*bound.Property{}
		l.methods[t] = map[string]*bound.Method{}
		ns.Types = append(ns.Types, t)
	}

	var bodies []body
	for i, t := range ns.Types {
		pending, err := l.declareMembers(t, &doc.Types[i])
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, pending...)
	}
	for _, b := range bodies {
		if err := l.defineBody(b.method, b.def); err != nil {
			return nil, err
		}
	}
	return ns, nil
}

func (l *loader) declareMembers(t *bound.Type, def *typeDef) ([]body, error) {
	var bodies []body
	for _, fd := range def.Fields {
		kind, err := l.kind(fd.Type, fd.node)
		if err != nil {
			return nil, err
		}
		if _, dup := l.fields[t][fd.Name]; dup {
			return nil, l.errorf(fd.node, "field %s.%s declared twice", t.Name, fd.Name)
		}
		f := &bound.Field{Name: fd.Name, Owner: t, FieldType: kind, Static: fd.Static, Position: l.pos(fd.node)}
		l.fields[t][fd.Name] = f
		t.Fields = append(t.Fields, f)
	}

	for i := range def.Methods {
		md := &def.Methods[i]
		m, err := l.declareMethod(t, md)
		if err != nil {
			return nil, err
		}
		t.Methods = append(t.Methods, m)
		if md.Body != nil {
			bodies = append(bodies, body{m, md.Body})
		}
	}

	for _, pd := range def.Properties {
		kind, err := l.kind(pd.Type, pd.node)
		if err != nil {
			return nil, err
		}
		p := &bound.Property{Name: pd.Name, Owner: t, PropertyType: kind, Static: pd.Static, Position: l.pos(pd.node)}
		if pd.has("get") {
			p.Getter = &bound.Method{
				Name: "get_" + pd.Name, Owner: t, ReturnType: kind,
				Static: pd.Static, Virtual: pd.Virtual, Position: p.Position,
			}
			if err := l.addMethod(t, p.Getter, pd.node); err != nil {
				return nil, err
			}
			if pd.Get != nil {
				bodies = append(bodies, body{p.Getter, pd.Get})
			}
		}
		if pd.has("set") {
			p.Setter = &bound.Method{
				Name: "set_" + pd.Name, Owner: t,
				Params: []*bound.Parameter{{Name: "value", ParamType: kind, Position: p.Position}},
				Static: pd.Static, Virtual: pd.Virtual, Position: p.Position,
			}
			if err := l.addMethod(t, p.Setter, pd.node); err != nil {
				return nil, err
			}
			if pd.Set != nil {
				bodies = append(bodies, body{p.Setter, pd.Set})
			}
		}
		l.props[t][pd.Name] = p
		t.Properties = append(t.Properties, p)
	}
	return bodies, nil
}

func (l *loader) declareMethod(t *bound.Type, md *methodDef) (*bound.Method, error) {
	ret := types.None
	if md.Returns != "" {
		k, err := l.kind(md.Returns, md.node)
		if err != nil {
			return nil, err
		}
		ret = k
	}
	m := &bound.Method{
		Name:       md.Name,
		Owner:      t,
		ReturnType: ret,
		Static:     md.Static,
		Virtual:    md.Virtual,
		Unsafe:     md.Unsafe,
		Checked:    md.Checked,
		Position:   l.pos(md.node),
	}
	for _, pd := range md.Params {
		kind, err := l.kind(pd.Type, pd.node)
		if err != nil {
			return nil, err
		}
		refKind, err := l.refKind(pd.Ref, pd.node)
		if err != nil {
			return nil, err
		}
		for _, p := range m.Params {
			if p.Name == pd.Name {
				return nil, l.errorf(pd.node, "parameter %s declared twice", pd.Name)
			}
		}
		m.Params = append(m.Params, &bound.Parameter{
			Name: pd.Name, ParamType: kind, RefKind: refKind, Position: l.pos(pd.node),
		})
	}
	if err := l.addMethod(t, m, md.node); err != nil {
		return nil, err
	}
	return m, nil
}

func (l *loader) addMethod(t *bound.Type, m *bound.Method, n node) error {
	if m.Name == "" {
		return l.errorf(n, "method without a name in %s", t.Name)
	}
	if _, dup := l.methods[t][m.Name]; dup {
		return l.errorf(n, "method %s declared twice", m.FullName())
	}
	l.methods[t][m.Name] = m
	return nil
}

func (l *loader) refKind(s string, n node) (bound.RefKind, error) {
	switch s {
	case "":
		return bound.RefNone, nil
	case "ref":
		return bound.RefRef, nil
	case "out":
		return bound.RefOut, nil
	case "in":
		return bound.RefIn, nil
	case "ref readonly", "readonly":
		return bound.RefReadOnly, nil
	}
	return bound.RefNone, l.errorf(n, "unknown parameter passing %q", s)
}

func (l *loader) kind(name string, n node) (types.Kind, error) {
	if name == "" {
		return types.None, l.errorf(n, "missing type")
	}
	k, ok := types.Parse(name)
	if !ok {
		return types.None, l.errorf(n, "unknown type %q", name)
	}
	return k, nil
}

// member splits a Type.member reference. A bare member name refers to the
// current type.
func (l *loader) member(ref string, current *bound.Type, n node) (*bound.Type, string, error) {
	i := strings.LastIndex(ref, ".")
	if i < 0 {
		return current, ref, nil
	}
	t, ok := l.types[ref[:i]]
	if !ok {
		return nil, "", l.errorf(n, "unknown type %s", ref[:i])
	}
	return t, ref[i+1:], nil
}

func (l *loader) pos(n node) token.Position {
	if n.line == 0 {
		return token.NoPos
	}
	p := token.Position{Line: n.line - 1, Column: n.column - 1, File: l.filename}
	if n.line <= len(l.lines) {
		p.Source = strings.TrimRight(l.lines[n.line-1], "\r")
	}
	return p
}

func (l *loader) errorf(n node, format string, args ...any) error {
	return &Error{Location: l.pos(n).Location(), Message: fmt.Sprintf(format, args...)}
}

// literalKind picks the default kind of an untyped literal.
func literalKind(v any) types.Kind {
	switch v := v.(type) {
	case bool:
		return types.Bool
	case int:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return types.Int64
		}
		return types.Int32
	case uint64:
		return types.UInt64
	case float64:
		return types.Float64
	case string:
		return types.String
	}
	return types.None
}

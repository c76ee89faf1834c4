package loader

import "gopkg.in/yaml.v3"

// Serialization types

type document struct {
	Namespace string    `yaml:"namespace"`
	Types     []typeDef `yaml:"types"`
}

type typeDef struct {
	Name       string        `yaml:"name"`
	Fields     []fieldDef    `yaml:"fields"`
	Properties []propertyDef `yaml:"properties"`
	Methods    []methodDef   `yaml:"methods"`

	node `yaml:"-"`
}

type fieldDef struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Static bool   `yaml:"static"`

	node `yaml:"-"`
}

type propertyDef struct {
	Name    string    `yaml:"name"`
	Type    string    `yaml:"type"`
	Static  bool      `yaml:"static"`
	Virtual bool      `yaml:"virtual"`
	Get     *blockDef `yaml:"get"`
	Set     *blockDef `yaml:"set"`

	node `yaml:"-"`
}

type methodDef struct {
	Name    string     `yaml:"name"`
	Returns string     `yaml:"returns"`
	Params  []paramDef `yaml:"params"`
	Static  bool       `yaml:"static"`
	Virtual bool       `yaml:"virtual"`
	Unsafe  bool       `yaml:"unsafe"`
	Checked bool       `yaml:"checked"`
	Body    *blockDef  `yaml:"body"`

	node `yaml:"-"`
}

type paramDef struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Ref  string `yaml:"ref"`

	node `yaml:"-"`
}

type localDef struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`

	node `yaml:"-"`
}

type blockDef struct {
	Locals     []localDef `yaml:"locals"`
	Statements []stmtDef  `yaml:"statements"`

	node `yaml:"-"`
}

// stmtDef is a tagged map; the first statement key present selects the
// variant.
type stmtDef struct {
	Expr      *exprDef  `yaml:"expr"`
	Declare   string    `yaml:"declare"`
	Init      *exprDef  `yaml:"init"`
	Block     *blockDef `yaml:"block"`
	Checked   *blockDef `yaml:"checked"`
	Unchecked *blockDef `yaml:"unchecked"`
	Unsafe    *blockDef `yaml:"unsafe"`
	If        *exprDef  `yaml:"if"`
	Then      *stmtDef  `yaml:"then"`
	Else      *stmtDef  `yaml:"else"`
	While     *exprDef  `yaml:"while"`
	Do        *stmtDef  `yaml:"do"`
	Return    *exprDef  `yaml:"return"`
	Goto      string    `yaml:"goto"`
	Label     string    `yaml:"label"`
	Statement *stmtDef  `yaml:"statement"`
	Throw     *exprDef  `yaml:"throw"`

	node `yaml:"-"`
}

var statementTags = []string{
	"expr", "declare", "block", "checked", "unchecked", "unsafe", "if",
	"while", "break", "continue", "return", "goto", "label", "throw",
}

func (s *stmtDef) UnmarshalYAML(n *yaml.Node) error {
	type plain stmtDef
	if err := n.Decode((*plain)(s)); err != nil {
		return err
	}
	s.node = newNode(n)
	return nil
}

// exprDef is a tagged map; the first expression key present selects the
// variant. Type is the literal, element or conversion target type.
type exprDef struct {
	Literal  any        `yaml:"literal"`
	Null     bool       `yaml:"null"`
	Local    string     `yaml:"local"`
	Param    string     `yaml:"param"`
	This     bool       `yaml:"this"`
	Field    string     `yaml:"field"`
	Property string     `yaml:"property"`
	Receiver *exprDef   `yaml:"receiver"`
	Element  *exprDef   `yaml:"element"`
	Index    *exprDef   `yaml:"index"`
	Length   *exprDef   `yaml:"length"`
	Call     string     `yaml:"call"`
	Args     []*exprDef `yaml:"args"`
	Unary    string     `yaml:"unary"`
	Operand  *exprDef   `yaml:"operand"`
	Binary   string     `yaml:"binary"`
	Left     *exprDef   `yaml:"left"`
	Right    *exprDef   `yaml:"right"`
	Assign   *exprDef   `yaml:"assign"`
	Value    *exprDef   `yaml:"value"`
	Convert  *exprDef   `yaml:"convert"`
	Explicit bool       `yaml:"explicit"`
	Type     string     `yaml:"type"`

	node `yaml:"-"`
}

var expressionTags = []string{
	"literal", "null", "local", "param", "this", "field", "property",
	"element", "length", "call", "unary", "binary", "assign", "convert",
}

func (x *exprDef) UnmarshalYAML(n *yaml.Node) error {
	type plain exprDef
	if err := n.Decode((*plain)(x)); err != nil {
		return err
	}
	x.node = newNode(n)
	return nil
}

func (t *typeDef) UnmarshalYAML(n *yaml.Node) error {
	type plain typeDef
	if err := n.Decode((*plain)(t)); err != nil {
		return err
	}
	t.node = newNode(n)
	return nil
}

func (f *fieldDef) UnmarshalYAML(n *yaml.Node) error {
	type plain fieldDef
	if err := n.Decode((*plain)(f)); err != nil {
		return err
	}
	f.node = newNode(n)
	return nil
}

func (p *propertyDef) UnmarshalYAML(n *yaml.Node) error {
	type plain propertyDef
	if err := n.Decode((*plain)(p)); err != nil {
		return err
	}
	p.node = newNode(n)
	return nil
}

func (m *methodDef) UnmarshalYAML(n *yaml.Node) error {
	type plain methodDef
	if err := n.Decode((*plain)(m)); err != nil {
		return err
	}
	m.node = newNode(n)
	return nil
}

func (p *paramDef) UnmarshalYAML(n *yaml.Node) error {
	type plain paramDef
	if err := n.Decode((*plain)(p)); err != nil {
		return err
	}
	p.node = newNode(n)
	return nil
}

func (l *localDef) UnmarshalYAML(n *yaml.Node) error {
	type plain localDef
	if err := n.Decode((*plain)(l)); err != nil {
		return err
	}
	l.node = newNode(n)
	return nil
}

func (b *blockDef) UnmarshalYAML(n *yaml.Node) error {
	type plain blockDef
	if err := n.Decode((*plain)(b)); err != nil {
		return err
	}
	b.node = newNode(n)
	return nil
}

// node records where a definition appeared and which keys it carried, so
// tags with empty values (break: {}, return: ~) are still seen.
type node struct {
	line, column int
	keys         []string
}

func newNode(n *yaml.Node) node {
	nd := node{line: n.Line, column: n.Column}
	if n.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(n.Content); i += 2 {
			nd.keys = append(nd.keys, n.Content[i].Value)
		}
	}
	return nd
}

func (n node) has(key string) bool {
	for _, k := range n.keys {
		if k == key {
			return true
		}
	}
	return false
}

// tag returns the first key of the definition that names a variant.
func (n node) tag(tags []string) string {
	for _, k := range n.keys {
		for _, t := range tags {
			if k == t {
				return k
			}
		}
	}
	return ""
}

package bound

import "iter"

// Visitor defines the interface for bound tree traversal. If Visit returns
// nil, children of the node are not visited. Otherwise, the returned
// Visitor is used to visit children.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses a bound tree in depth-first order. It starts by calling
// v.Visit(node); if the returned visitor w is not nil, Walk is invoked
// recursively with visitor w for each of the non-nil children of node.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	// Declarations
	case *Namespace:
		for _, t := range n.Types {
			Walk(v, t)
		}
	case *Type:
		for _, f := range n.Fields {
			Walk(v, f)
		}
		for _, p := range n.Properties {
			Walk(v, p)
		}
		for _, m := range n.Methods {
			Walk(v, m)
		}
	case *Property:
		if n.Getter != nil {
			Walk(v, n.Getter)
		}
		if n.Setter != nil {
			Walk(v, n.Setter)
		}
	case *Method:
		for _, p := range n.Params {
			Walk(v, p)
		}
		if n.Body != nil {
			Walk(v, n.Body)
		}

	// Statements
	case *Block:
		for _, l := range n.Locals {
			Walk(v, l)
		}
		for _, stmt := range n.Statements {
			Walk(v, stmt)
		}
	case *ExpressionStatement:
		if n.Expr != nil {
			Walk(v, n.Expr)
		}
	case *LocalDeclaration:
		if n.Init != nil {
			Walk(v, n.Init)
		}
	case *Checked:
		if n.Body != nil {
			Walk(v, n.Body)
		}
	case *If:
		if n.Condition != nil {
			Walk(v, n.Condition)
		}
		if n.Then != nil {
			Walk(v, n.Then)
		}
		if n.Else != nil {
			Walk(v, n.Else)
		}
	case *While:
		if n.Condition != nil {
			Walk(v, n.Condition)
		}
		if n.Body != nil {
			Walk(v, n.Body)
		}
	case *Return:
		if n.Value != nil {
			Walk(v, n.Value)
		}
	case *Throw:
		if n.Value != nil {
			Walk(v, n.Value)
		}
	case *Goto:
		if n.Label != nil {
			Walk(v, n.Label)
		}
	case *Labeled:
		if n.Label != nil {
			Walk(v, n.Label)
		}
		if n.Statement != nil {
			Walk(v, n.Statement)
		}

	// Expressions
	case *FieldAccess:
		if n.Receiver != nil {
			Walk(v, n.Receiver)
		}
	case *PropertyAccess:
		if n.Receiver != nil {
			Walk(v, n.Receiver)
		}
	case *ArrayElement:
		if n.Array != nil {
			Walk(v, n.Array)
		}
		if n.Index != nil {
			Walk(v, n.Index)
		}
	case *ArrayLength:
		if n.Array != nil {
			Walk(v, n.Array)
		}
	case *Call:
		if n.Receiver != nil {
			Walk(v, n.Receiver)
		}
		for _, arg := range n.Args {
			Walk(v, arg)
		}
	case *Unary:
		if n.Operand != nil {
			Walk(v, n.Operand)
		}
	case *Binary:
		if n.Left != nil {
			Walk(v, n.Left)
		}
		if n.Right != nil {
			Walk(v, n.Right)
		}
	case *Assignment:
		if n.Target != nil {
			Walk(v, n.Target)
		}
		if n.Value != nil {
			Walk(v, n.Value)
		}
	case *Conversion:
		if n.Operand != nil {
			Walk(v, n.Operand)
		}

	// Leaves: Field, Parameter, Local, Label, Break, Continue, Literal,
	// LocalRef, ParameterRef, This
	}
}

// Inspect traverses a bound tree in depth-first order. It starts by calling
// f(node); if f returns true, Inspect invokes f recursively for each of the
// non-nil children of node.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Preorder returns an iterator over all the nodes of the tree rooted at
// node in depth-first preorder.
func Preorder(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		ok := true
		Inspect(root, func(n Node) bool {
			if ok {
				ok = yield(n)
			}
			return ok
		})
	}
}

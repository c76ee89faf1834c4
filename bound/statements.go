package bound

import "github.com/deepnoodle-ai/ilemit/internal/token"

// Block is a statement list with its own local scope.
type Block struct {
	Locals     []*Local
	Statements []Statement
	Position   token.Position
}

func (s *Block) statementNode()      {}
func (s *Block) Kind() NodeKind      { return KindBlock }
func (s *Block) Pos() token.Position { return s.Position }

// HasLocals reports whether the block declares any locals.
func (s *Block) HasLocals() bool { return len(s.Locals) > 0 }

// ExpressionStatement evaluates an expression for its side effects.
type ExpressionStatement struct {
	Expr     Expression
	Position token.Position
}

func (s *ExpressionStatement) statementNode()      {}
func (s *ExpressionStatement) Kind() NodeKind      { return KindExpressionStatement }
func (s *ExpressionStatement) Pos() token.Position { return s.Position }

// LocalDeclaration introduces a local, optionally initialized. The local
// must also appear in the enclosing block's Locals.
type LocalDeclaration struct {
	Local    *Local
	Init     Expression
	Position token.Position
}

func (s *LocalDeclaration) statementNode()      {}
func (s *LocalDeclaration) Kind() NodeKind      { return KindLocalDeclaration }
func (s *LocalDeclaration) Pos() token.Position { return s.Position }

// CheckMode selects the arithmetic context of a Checked region.
type CheckMode uint8

const (
	ModeChecked CheckMode = iota + 1
	ModeUnchecked
	ModeUnsafe
)

func (m CheckMode) String() string {
	switch m {
	case ModeChecked:
		return "checked"
	case ModeUnchecked:
		return "unchecked"
	case ModeUnsafe:
		return "unsafe"
	default:
		return "invalid"
	}
}

// Checked is a checked, unchecked or unsafe region.
type Checked struct {
	Mode     CheckMode
	Body     *Block
	Position token.Position
}

func (s *Checked) statementNode()      {}
func (s *Checked) Kind() NodeKind      { return KindChecked }
func (s *Checked) Pos() token.Position { return s.Position }

// If is a conditional with an optional else branch.
type If struct {
	Condition Expression
	Then      Statement
	Else      Statement
	Position  token.Position
}

func (s *If) statementNode()      {}
func (s *If) Kind() NodeKind      { return KindIf }
func (s *If) Pos() token.Position { return s.Position }

// While is a pre-tested loop.
type While struct {
	Condition Expression
	Body      Statement
	Position  token.Position
}

func (s *While) statementNode()      {}
func (s *While) Kind() NodeKind      { return KindWhile }
func (s *While) Pos() token.Position { return s.Position }

// Break exits the innermost loop.
type Break struct {
	Position token.Position
}

func (s *Break) statementNode()      {}
func (s *Break) Kind() NodeKind      { return KindBreak }
func (s *Break) Pos() token.Position { return s.Position }

// Continue restarts the innermost loop.
type Continue struct {
	Position token.Position
}

func (s *Continue) statementNode()      {}
func (s *Continue) Kind() NodeKind      { return KindContinue }
func (s *Continue) Pos() token.Position { return s.Position }

// Return exits the method, with a value unless the method returns void.
type Return struct {
	Value    Expression
	Position token.Position
}

func (s *Return) statementNode()      {}
func (s *Return) Kind() NodeKind      { return KindReturn }
func (s *Return) Pos() token.Position { return s.Position }

// Goto transfers control to a labeled statement.
type Goto struct {
	Label    *Label
	Position token.Position
}

func (s *Goto) statementNode()      {}
func (s *Goto) Kind() NodeKind      { return KindGoto }
func (s *Goto) Pos() token.Position { return s.Position }

// Labeled places a label before a statement. Statement may be nil.
type Labeled struct {
	Label     *Label
	Statement Statement
	Position  token.Position
}

func (s *Labeled) statementNode()      {}
func (s *Labeled) Kind() NodeKind      { return KindLabeled }
func (s *Labeled) Pos() token.Position { return s.Position }

// Throw raises an exception object.
type Throw struct {
	Value    Expression
	Position token.Position
}

func (s *Throw) statementNode()      {}
func (s *Throw) Kind() NodeKind      { return KindThrow }
func (s *Throw) Pos() token.Position { return s.Position }

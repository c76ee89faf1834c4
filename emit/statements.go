package emit

import (
	"github.com/deepnoodle-ai/ilemit/bound"
	"github.com/deepnoodle-ai/ilemit/errz"
	"github.com/deepnoodle-ai/ilemit/il"
	"github.com/deepnoodle-ai/ilemit/op"
	"github.com/deepnoodle-ai/ilemit/operator"
	"github.com/deepnoodle-ai/ilemit/types"
)

func (e *emitter) statement(r Region, s bound.Statement) error {
	if !e.tracker.Reachable() && !e.warned {
		if _, ok := s.(*bound.Labeled); !ok {
			e.warn(s, "unreachable code detected")
			e.warned = true
		}
	}
	switch s := s.(type) {
	case *bound.Block:
		return e.block(r, s)
	case *bound.ExpressionStatement:
		return e.expressionStatement(r, s)
	case *bound.LocalDeclaration:
		return e.localDeclaration(r, s)
	case *bound.Checked:
		return e.checked(s)
	case *bound.If:
		return e.ifStatement(r, s)
	case *bound.While:
		return e.whileStatement(r, s)
	case *bound.Break:
		if len(e.loops) == 0 {
			return e.errorf(errz.ErrInvariant, errz.E4007, s, "break outside of a loop")
		}
		e.branch(op.Br, e.loops[len(e.loops)-1].breakLabel)
	case *bound.Continue:
		if len(e.loops) == 0 {
			return e.errorf(errz.ErrInvariant, errz.E4008, s, "continue outside of a loop")
		}
		e.branch(op.Br, e.loops[len(e.loops)-1].continueLabel)
	case *bound.Return:
		return e.returnStatement(r, s)
	case *bound.Goto:
		e.branch(op.Br, e.userLabel(s.Label))
	case *bound.Labeled:
		e.placeUserLabel(e.userLabel(s.Label))
		if s.Statement != nil {
			return e.statement(r, s.Statement)
		}
	case *bound.Throw:
		if err := e.expression(r, s.Value); err != nil {
			return err
		}
		e.emitThrow()
	default:
		return e.errorf(errz.ErrNotLowered, errz.E4005, s, "statement %s is not lowered", s.Kind())
	}
	return nil
}

// block emits a statement list. Blocks that declare locals are bracketed
// by scope markers, including blocks with no statements.
func (e *emitter) block(r Region, b *bound.Block) error {
	if !b.HasLocals() {
		for _, s := range b.Statements {
			if err := e.statement(r, s); err != nil {
				return err
			}
		}
		return nil
	}
	id := uint16(len(e.scopes))
	scope := il.Scope{ID: id, Start: e.pos()}
	for _, local := range b.Locals {
		scope.Locals = append(scope.Locals, e.slots[local])
	}
	e.scopes = append(e.scopes, scope)
	e.emit(op.ScopeOpen, id)
	for _, s := range b.Statements {
		if err := e.statement(r, s); err != nil {
			return err
		}
	}
	e.scopes[id].End = e.pos()
	e.emit(op.ScopeClose, id)
	return nil
}

func (e *emitter) checked(s *bound.Checked) error {
	r := e.tracker.Push(s.Mode, e.pos())
	err := e.block(r, s.Body)
	e.tracker.Pop(e.pos())
	return err
}

func (e *emitter) expressionStatement(r Region, s *bound.ExpressionStatement) error {
	switch x := s.Expr.(type) {
	case *bound.Assignment:
		return e.assignment(r, x, false)
	case *bound.Unary:
		if x.Op.IsIncrement() || x.Op.IsDecrement() {
			return e.increment(r, x, false)
		}
	}
	if err := e.expression(r, s.Expr); err != nil {
		return err
	}
	if s.Expr.Type() != types.None {
		e.emit(op.Pop)
	}
	return nil
}

func (e *emitter) localDeclaration(r Region, s *bound.LocalDeclaration) error {
	slot, ok := e.slots[s.Local]
	if !ok {
		return e.errorf(errz.ErrInvariant, errz.E4006, s,
			"local %s is not declared by an enclosing block", s.Local.Name)
	}
	if s.Init == nil {
		return nil
	}
	if err := e.value(r, s.Init, s.Local.LocalType); err != nil {
		return err
	}
	e.storeLocal(slot)
	return nil
}

func (e *emitter) ifStatement(r Region, s *bound.If) error {
	if err := e.condition(r, s.Condition); err != nil {
		return err
	}
	elseLabel := e.newLabel("")
	e.branch(op.Brfalse, elseLabel)
	if err := e.statement(r, s.Then); err != nil {
		return err
	}
	if s.Else == nil {
		e.placeLabel(elseLabel)
		return nil
	}
	endLabel := e.newLabel("")
	if e.tracker.Reachable() {
		e.branch(op.Br, endLabel)
	}
	e.placeLabel(elseLabel)
	if err := e.statement(r, s.Else); err != nil {
		return err
	}
	e.placeLabel(endLabel)
	return nil
}

// whileStatement lowers a pre-tested loop. A constant true condition has
// no exit test, so the code after the loop is reachable only via break.
func (e *emitter) whileStatement(r Region, s *bound.While) error {
	head := e.newLabel("")
	end := e.newLabel("")
	e.placeLabel(head)
	if !isConstant(s.Condition, true) {
		if err := e.condition(r, s.Condition); err != nil {
			return err
		}
		e.branch(op.Brfalse, end)
	}
	e.loops = append(e.loops, loop{breakLabel: end, continueLabel: head})
	err := e.statement(r, s.Body)
	e.loops = e.loops[:len(e.loops)-1]
	if err != nil {
		return err
	}
	if e.tracker.Reachable() {
		e.branch(op.Br, head)
	}
	e.placeLabel(end)
	return nil
}

func (e *emitter) condition(r Region, cond bound.Expression) error {
	if cond.Type() != types.Bool {
		return e.errorf(errz.ErrInvariant, errz.E4010, cond, "condition has type %s, not bool", cond.Type())
	}
	return e.expression(r, cond)
}

func (e *emitter) returnStatement(r Region, s *bound.Return) error {
	want := e.method.ReturnType
	switch {
	case s.Value == nil && want != types.None:
		return e.errorf(errz.ErrInvariant, errz.E4013, s, "return without a value in a method returning %s", want)
	case s.Value != nil && want == types.None:
		return e.errorf(errz.ErrInvariant, errz.E4010, s, "return with a value in a void method")
	case s.Value != nil:
		if err := e.value(r, s.Value, want); err != nil {
			return err
		}
	}
	e.emitRet()
	return nil
}

func isConstant(x bound.Expression, want bool) bool {
	lit, ok := x.(*bound.Literal)
	if !ok {
		return false
	}
	v, ok := lit.Value.(bool)
	return ok && v == want
}

func pointerArithmetic(b operator.Binary, operand types.Kind) bool {
	return b.IsArithmetic() && types.IsPointer(operand)
}

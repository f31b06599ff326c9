package eval

import (
	"fmt"
	"io"

	"github.com/coreos/pkg/capnslog"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/wrig/ast"
	"github.com/pontaoski/wrig/errors"
	"github.com/pontaoski/wrig/types"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/wrig", "eval")

type Evaluator struct {
	env *Environment
	out io.Writer
}

// New returns an evaluator that mutates env and prints to out.
func New(env *Environment, out io.Writer) *Evaluator {
	return &Evaluator{env: env, out: out}
}

// Execute runs stmts in order and stops at the first failing statement.
func (ev *Evaluator) Execute(stmts []ast.Stmt) error {
	for _, stmt := range stmts {
		if err := ev.execute(stmt); err != nil {
			return tracerr.Wrap(err)
		}
	}
	return nil
}

func (ev *Evaluator) execute(s ast.Stmt) error {
	switch stmt := s.(type) {
	case ast.ExprStmt:
		_, err := ev.Evaluate(stmt.Expr)
		return err
	case ast.Print:
		v, err := ev.Evaluate(stmt.Expr)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(ev.out, v.String())
		return err
	case ast.VarDecl:
		v, err := ev.Evaluate(stmt.Initializer)
		if err != nil {
			return err
		}
		ev.env.Define(stmt.Name.Lexeme, v)
		return nil
	}

	panic("unhandled")
}

func (ev *Evaluator) Evaluate(e ast.Expr) (types.Value, error) {
	switch expr := e.(type) {
	case ast.Literal:
		return expr.Value, nil
	case ast.Grouping:
		return ev.Evaluate(expr.Inner)
	case ast.Variable:
		v, err := ev.env.Get(expr.Name.Lexeme)
		if err != nil {
			return types.Value{}, errors.UndefinedVariable{Name: expr.Name.Lexeme, Line: expr.Name.Line}
		}
		return v, nil
	case ast.Unary:
		operand, err := ev.Evaluate(expr.Operand)
		if err != nil {
			return types.Value{}, err
		}
		return unary(expr.Operator, operand)
	case ast.Binary:
		left, err := ev.Evaluate(expr.Left)
		if err != nil {
			return types.Value{}, err
		}
		right, err := ev.Evaluate(expr.Right)
		if err != nil {
			return types.Value{}, err
		}
		return binary(expr.Operator, left, right)
	}

	panic("unhandled")
}

func unary(op types.Token, v types.Value) (types.Value, error) {
	illegal := errors.IllegalUnaryOperand{Operator: op.Lexeme, Operand: v.Kind(), Line: op.Line}

	switch v.Kind() {
	case types.KindNumber:
		n, _ := v.AsNumber()
		switch op.Kind {
		case types.MINUS:
			return types.Number(-n), nil
		case types.PLUS:
			return v, nil
		case types.BANG:
			// zero is the only number that negates to true
			return types.Bool(n == 0), nil
		}
	case types.KindBool:
		if op.Kind == types.BANG {
			b, _ := v.AsBool()
			return types.Bool(!b), nil
		}
	}

	return types.Value{}, illegal
}

func binary(op types.Token, left, right types.Value) (types.Value, error) {
	switch op.Kind {
	case types.EQUAL_EQUAL:
		return types.Bool(left.Equal(right)), nil
	case types.BANG_EQUAL:
		return types.Bool(!left.Equal(right)), nil
	}

	if l, ok := left.AsNumber(); ok {
		if r, ok := right.AsNumber(); ok {
			switch op.Kind {
			case types.PLUS:
				return types.Number(l + r), nil
			case types.MINUS:
				return types.Number(l - r), nil
			case types.STAR:
				return types.Number(l * r), nil
			case types.SLASH:
				return types.Number(l / r), nil
			case types.GREATER:
				return types.Bool(l > r), nil
			case types.GREATER_EQUAL:
				return types.Bool(l >= r), nil
			case types.LESS:
				return types.Bool(l < r), nil
			case types.LESS_EQUAL:
				return types.Bool(l <= r), nil
			}
		}
	}

	if l, ok := left.AsString(); ok {
		if r, ok := right.AsString(); ok {
			// strings order by length, not lexicographically
			switch op.Kind {
			case types.PLUS:
				return types.String(l + r), nil
			case types.GREATER:
				return types.Bool(len(l) > len(r)), nil
			case types.GREATER_EQUAL:
				return types.Bool(len(l) >= len(r)), nil
			case types.LESS:
				return types.Bool(len(l) < len(r)), nil
			case types.LESS_EQUAL:
				return types.Bool(len(l) <= len(r)), nil
			}
		}
	}

	return types.Value{}, errors.TypeMismatch{
		Operator: op.Lexeme,
		Left:     left.Kind(),
		Right:    right.Kind(),
		Line:     op.Line,
	}
}

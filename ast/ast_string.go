package ast

//go:generate sh -c "cd ../tool && go run . ../ast/ast.adt ../ast/ast.go ast"

import "fmt"

// String renders e fully parenthesised, e.g. (== (+ 1 (group (+ 2 2))) 5).
func String(e Expr) string {
	switch v := e.(type) {
	case Literal:
		return v.Value.String()
	case Grouping:
		return fmt.Sprintf("(group %s)", String(v.Inner))
	case Unary:
		return fmt.Sprintf("(%s %s)", v.Operator.Lexeme, String(v.Operand))
	case Binary:
		return fmt.Sprintf("(%s %s %s)", v.Operator.Lexeme, String(v.Left), String(v.Right))
	case Variable:
		return v.Name.Lexeme
	}

	panic("unhandled")
}

func StmtString(s Stmt) string {
	switch v := s.(type) {
	case ExprStmt:
		return fmt.Sprintf("(expr %s)", String(v.Expr))
	case Print:
		return fmt.Sprintf("(print %s)", String(v.Expr))
	case VarDecl:
		return fmt.Sprintf("(var %s %s)", v.Name.Lexeme, String(v.Initializer))
	}

	panic("unhandled")
}

package errors

import (
	"fmt"
	"strings"

	"github.com/pontaoski/wrig/types"
)

type UnterminatedString struct {
	Line    int
	Snippet string
}

func (e UnterminatedString) Error() string {
	return fmt.Sprintf("unterminated string starting at line %d: %s", e.Line, e.Snippet)
}

type UnknownToken struct {
	Line    int
	Snippet string
}

func (e UnknownToken) Error() string {
	return fmt.Sprintf("unknown token %q at line %d", e.Snippet, e.Line)
}

type UnexpectedToken struct {
	Expected types.TokenKind
	Found    types.TokenKind
	Lexeme   string
	Line     int
}

func (e UnexpectedToken) Error() string {
	return fmt.Sprintf("expected %s, got %s %q at line %d", e.Expected, e.Found, e.Lexeme, e.Line)
}

type NoPrimaryProduction struct {
	Found  types.TokenKind
	Lexeme string
	Line   int
}

func (e NoPrimaryProduction) Error() string {
	return fmt.Sprintf("expected an expression, got %s %q at line %d", e.Found, e.Lexeme, e.Line)
}

type MissingLiteralPayload struct {
	Kind   types.TokenKind
	Lexeme string
	Line   int
}

func (e MissingLiteralPayload) Error() string {
	return fmt.Sprintf("%s token %q at line %d carries no literal value", e.Kind, e.Lexeme, e.Line)
}

// ParseErrors collects every declaration that failed in one parse.
type ParseErrors []error

func (e ParseErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

func (e ParseErrors) Unwrap() []error {
	return e
}

type UndefinedVariable struct {
	Name string
	Line int
}

func (e UndefinedVariable) Error() string {
	return fmt.Sprintf("undefined variable '%s' at line %d", e.Name, e.Line)
}

type IllegalUnaryOperand struct {
	Operator string
	Operand  types.ValueKind
	Line     int
}

func (e IllegalUnaryOperand) Error() string {
	return fmt.Sprintf("illegal use of %s with unary '%s' at line %d", e.Operand, e.Operator, e.Line)
}

type TypeMismatch struct {
	Operator string
	Left     types.ValueKind
	Right    types.ValueKind
	Line     int
}

func (e TypeMismatch) Error() string {
	return fmt.Sprintf("type mismatch: %s %s %s at line %d", e.Left, e.Operator, e.Right, e.Line)
}

// IsScan reports whether err belongs to the scan family.
func IsScan(err error) bool {
	switch err.(type) {
	case UnterminatedString, UnknownToken:
		return true
	}
	return false
}

// IsParse reports whether err belongs to the parse family.
func IsParse(err error) bool {
	switch err.(type) {
	case ParseErrors, UnexpectedToken, NoPrimaryProduction, MissingLiteralPayload:
		return true
	}
	return false
}

// IsRuntime reports whether err belongs to the evaluation family.
func IsRuntime(err error) bool {
	switch err.(type) {
	case UndefinedVariable, IllegalUnaryOperand, TypeMismatch:
		return true
	}
	return false
}

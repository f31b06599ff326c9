package eval

import (
	"bytes"
	goerrors "errors"
	"math"
	"testing"

	"github.com/alecthomas/repr"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/wrig/errors"
	"github.com/pontaoski/wrig/lexer"
	"github.com/pontaoski/wrig/parser"
	"github.com/pontaoski/wrig/types"
)

func evaluate(t *testing.T, env *Environment, source string) (types.Value, error) {
	t.Helper()
	toks, err := lexer.Scan(source)
	if err != nil {
		t.Fatalf("scanning %q: %s", source, err)
	}
	e, err := parser.ParseExpression(toks)
	if err != nil {
		t.Fatalf("parsing %q: %s", source, err)
	}
	return New(env, &bytes.Buffer{}).Evaluate(e)
}

func TestEvaluate(t *testing.T) {
	cases := []struct {
		source string
		want   types.Value
	}{
		{"1 + 2", types.Number(3)},
		{"1 - 2", types.Number(-1)},
		{"2 * 3", types.Number(6)},
		{"1 / 4", types.Number(0.25)},
		{"1 + 2 * 3", types.Number(9)},
		{"1 + (2 * 3)", types.Number(7)},
		{"-(1 + 2)", types.Number(-3)},
		{"!0", types.Bool(true)},
		{"!1", types.Bool(false)},
		{"!true", types.Bool(false)},
		{"!!false", types.Bool(false)},
		{"2 > 1", types.Bool(true)},
		{"2 >= 2", types.Bool(true)},
		{"1 < 1", types.Bool(false)},
		{"1 <= 1", types.Bool(true)},
		{`"ab" + "cd"`, types.String("abcd")},
		{`"ab" < "abc"`, types.Bool(true)},
		{`"abc" < "ab"`, types.Bool(false)},
		{`"ab" < "cd"`, types.Bool(false)},
		{`"ab" <= "cd"`, types.Bool(true)},
		{`"zz" > "a"`, types.Bool(true)},
		{`"a" >= "zz"`, types.Bool(false)},
		{`"a" == "a"`, types.Bool(true)},
		{`1 == "1"`, types.Bool(false)},
		{`1 != "1"`, types.Bool(true)},
		{"nil == nil", types.Bool(true)},
		{"nil == false", types.Bool(false)},
		{"0 == false", types.Bool(false)},
		{"true == true", types.Bool(true)},
		{"1.5 == 1.5", types.Bool(true)},
	}

	for _, c := range cases {
		got, err := evaluate(t, NewEnvironment(), c.source)
		if err != nil {
			t.Errorf("%s: %s", c.source, err)
			continue
		}
		if !got.Equal(c.want) {
			t.Errorf("%s: got %#v, want %#v", c.source, got, c.want)
		}
	}
}

func TestFloatSemantics(t *testing.T) {
	got, err := evaluate(t, NewEnvironment(), "1.0 / 0.0")
	if err != nil {
		t.Fatal(err)
	}
	if n, ok := got.AsNumber(); !ok || !math.IsInf(n, 1) {
		t.Fatalf("expected +inf, got %#v", got)
	}

	got, err = evaluate(t, NewEnvironment(), "0 / 0")
	if err != nil {
		t.Fatal(err)
	}
	if n, ok := got.AsNumber(); !ok || !math.IsNaN(n) {
		t.Fatalf("expected NaN, got %#v", got)
	}
}

func TestEqualityIsReflexive(t *testing.T) {
	for _, source := range []string{"1", `"s"`, "true", "false", "nil", "0.5"} {
		got, err := evaluate(t, NewEnvironment(), source+" == "+source)
		if err != nil || !got.Equal(types.Bool(true)) {
			t.Errorf("%s == %s: got %#v, %v", source, source, got, err)
		}
	}
}

func TestTypeMismatch(t *testing.T) {
	cases := []struct {
		source      string
		left, right types.ValueKind
	}{
		{"1 + true", types.KindNumber, types.KindBool},
		{`"a" + 1`, types.KindString, types.KindNumber},
		{`"a" - "b"`, types.KindString, types.KindString},
		{"nil * nil", types.KindNil, types.KindNil},
		{"true < false", types.KindBool, types.KindBool},
		{`1 >= "1"`, types.KindNumber, types.KindString},
	}

	for _, c := range cases {
		_, err := evaluate(t, NewEnvironment(), c.source)
		var mismatch errors.TypeMismatch
		if !goerrors.As(err, &mismatch) {
			t.Errorf("%s: expected TypeMismatch, got %v", c.source, err)
			continue
		}
		if mismatch.Left != c.left || mismatch.Right != c.right {
			t.Errorf("%s: got %s", c.source, repr.String(mismatch))
		}
	}
}

func TestIllegalUnary(t *testing.T) {
	cases := []struct {
		source   string
		operator string
		operand  types.ValueKind
	}{
		{"-nil", "-", types.KindNil},
		{"!nil", "!", types.KindNil},
		{`-"a"`, "-", types.KindString},
		{`!"a"`, "!", types.KindString},
		{"-true", "-", types.KindBool},
	}

	for _, c := range cases {
		_, err := evaluate(t, NewEnvironment(), c.source)
		var illegal errors.IllegalUnaryOperand
		if !goerrors.As(err, &illegal) || illegal.Operator != c.operator || illegal.Operand != c.operand {
			t.Errorf("%s: got %v", c.source, err)
		}
	}
}

func TestUnaryPlus(t *testing.T) {
	one := types.Number(1)

	got, err := unary(types.Token{Kind: types.PLUS, Lexeme: "+"}, one)
	if err != nil || !got.Equal(one) {
		t.Fatalf("got %#v, %v", got, err)
	}

	_, err = unary(types.Token{Kind: types.PLUS, Lexeme: "+"}, types.Bool(true))
	var illegal errors.IllegalUnaryOperand
	if !goerrors.As(err, &illegal) {
		t.Fatalf("got %v", err)
	}
}

func run(t *testing.T, env *Environment, source string) (string, error) {
	t.Helper()
	toks, err := lexer.Scan(source)
	if err != nil {
		t.Fatalf("scanning %q: %s", source, err)
	}
	stmts, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("parsing %q: %s", source, err)
	}

	var out bytes.Buffer
	err = New(env, &out).Execute(stmts)
	return out.String(), err
}

func TestExecute(t *testing.T) {
	env := NewEnvironment()
	out, err := run(t, env, `var x = 1 + 2; print x; var s = "hi"; print s + "!"; var n; print n; print 1 < 2; print 10 / 4; print 1 / 0; print -1 / 0;`)
	if err != nil {
		t.Fatal(err)
	}

	want := "3\nhi!\nnil\ntrue\n2.5\ninf\n-inf\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}

	x, err := env.Get("x")
	if err != nil || !x.Equal(types.Number(3)) {
		t.Fatalf("x: got %#v, %v", x, err)
	}
	if names := env.Names(); repr.String(names) != repr.String([]string{"n", "s", "x"}) {
		t.Fatalf("got names %s", repr.String(names))
	}
}

func TestRedefinition(t *testing.T) {
	env := NewEnvironment()
	out, err := run(t, env, "var a = 1; var a = a + 1; print a;")
	if err != nil {
		t.Fatal(err)
	}
	if out != "2\n" || env.Len() != 1 {
		t.Fatalf("got %q with %d bindings", out, env.Len())
	}
}

func TestFailFast(t *testing.T) {
	env := NewEnvironment()
	out, err := run(t, env, "print 1; print missing; print 2; var after = 3;")

	var undefined errors.UndefinedVariable
	if !goerrors.As(tracerr.Unwrap(err), &undefined) || undefined.Name != "missing" || undefined.Line != 1 {
		t.Fatalf("got %v", err)
	}
	if out != "1\n" {
		t.Fatalf("statements after the failure must not run, got %q", out)
	}
	if _, err := env.Get("after"); err == nil {
		t.Fatal("after should not be defined")
	}
}

func TestEnvironment(t *testing.T) {
	env := NewEnvironment()
	if env.Len() != 0 {
		t.Fatal("fresh environment should be empty")
	}

	_, err := env.Get("x")
	var undefined errors.UndefinedVariable
	if !goerrors.As(err, &undefined) || undefined.Name != "x" {
		t.Fatalf("got %v", err)
	}

	env.Define("x", types.String("a"))
	env.Define("x", types.Nil())
	v, err := env.Get("x")
	if err != nil || v.Kind() != types.KindNil {
		t.Fatalf("last define should win, got %#v", v)
	}
}

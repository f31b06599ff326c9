package codegen

import (
	goerrors "errors"
	"reflect"
	"strings"
	"testing"

	"github.com/alecthomas/repr"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/wrig/errors"
	"github.com/pontaoski/wrig/lexer"
	"github.com/pontaoski/wrig/parser"
)

func generate(t *testing.T, source string, s Settings) (*ir.Module, error) {
	t.Helper()
	toks, err := lexer.Scan(source)
	if err != nil {
		t.Fatal(err)
	}
	stmts, err := parser.Parse(toks)
	if err != nil {
		t.Fatal(err)
	}
	return Generate(stmts, s)
}

func globals(m *ir.Module) map[string]*ir.Global {
	ret := map[string]*ir.Global{}
	for _, g := range m.Globals {
		ret[g.Name()] = g
	}
	return ret
}

func funcs(m *ir.Module) map[string]*ir.Func {
	ret := map[string]*ir.Func{}
	for _, f := range m.Funcs {
		ret[f.Name()] = f
	}
	return ret
}

func TestGenerate(t *testing.T) {
	m, err := generate(t, `var x = 1 + 2; var s = "a" + "b"; var b = !0; var n; print x; print x; print s;`, Settings{PackageName: "demo"})
	if err != nil {
		t.Fatal(err)
	}

	gs := globals(m)
	want := map[string]types.Type{
		"var.x": Float64,
		"var.b": Boolean,
		"var.n": NilType,
		"var.s": types.NewArray(2, Byte),
	}
	for name, typ := range want {
		g, ok := gs[name]
		if !ok {
			t.Errorf("missing global %s", name)
			continue
		}
		if !g.Init.Type().Equal(typ) {
			t.Errorf("%s: got type %s, want %s", name, g.Init.Type(), typ)
		}
	}

	var printed []string
	for _, g := range m.Globals {
		if strings.HasPrefix(g.Name(), "_str_") {
			printed = append(printed, string(g.Init.(*constant.CharArray).X))
		}
	}
	if repr.String(printed) != repr.String([]string{"3\n", "ab\n"}) {
		t.Errorf("repeated prints should share one constant, got %s", repr.String(printed))
	}

	fs := funcs(m)
	for _, name := range []string{"print", "exit", RunSymbol, EntrySymbol} {
		if _, ok := fs[name]; !ok {
			t.Errorf("missing function %s", name)
		}
	}
	if calls := len(fs[RunSymbol].Blocks[0].Insts); calls != 6 {
		t.Errorf("expected 3 casts and 3 calls in %s, got %d instructions", RunSymbol, calls)
	}
}

func TestGlobalsTable(t *testing.T) {
	m, err := generate(t, `var greeting = "hi"; var answer = 42;`, Settings{IsLibrary: true, PackageName: "lib"})
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := funcs(m)[EntrySymbol]; ok {
		t.Errorf("libraries should not have %s", EntrySymbol)
	}

	g, ok := globals(m)[GlobalsSymbol]
	if !ok {
		t.Fatalf("missing %s", GlobalsSymbol)
	}
	raw := g.Init.(*constant.CharArray).X
	if raw[len(raw)-1] != 0 {
		t.Fatalf("table must be NUL terminated")
	}

	info, err := DecodeGlobals(string(raw[:len(raw)-1]))
	if err != nil {
		t.Fatal(err)
	}
	want := GlobalsInfo{Package: "lib", Globals: map[string]string{"greeting": "hi", "answer": "42"}}
	if !reflect.DeepEqual(info, want) {
		t.Fatalf("got %s", repr.String(info))
	}
}

func TestGenerateFailsOnRuntimeError(t *testing.T) {
	_, err := generate(t, `print 1; print "a" + 1;`, Settings{})

	var mismatch errors.TypeMismatch
	if !goerrors.As(tracerr.Unwrap(err), &mismatch) {
		t.Fatalf("got %v", err)
	}
}

func TestModuleText(t *testing.T) {
	m, err := generate(t, `print nil;`, Settings{})
	if err != nil {
		t.Fatal(err)
	}

	text := m.String()
	for _, want := range []string{"define void @print(", "define void @_wrig_main()", "syscall"} {
		if !strings.Contains(text, want) {
			t.Errorf("module text lacks %q:\n%s", want, text)
		}
	}
}

func TestPrintSyscallRegisters(t *testing.T) {
	m, err := generate(t, `print 1;`, Settings{})
	if err != nil {
		t.Fatal(err)
	}

	call := funcs(m)["print"].Blocks[0].Insts[0].(*ir.InstCall)
	asm := call.Callee.(*ir.InlineAsm)
	if asm.Constraint != PrintConstraints {
		t.Fatalf("got constraints %q", asm.Constraint)
	}
	for _, reg := range []string{"{rsi}", "{rdx}", "~{rcx}", "~{r11}", "~{memory}"} {
		if !strings.Contains(asm.Constraint, reg) {
			t.Errorf("constraints lack %s", reg)
		}
	}
}

func TestStringConstantNamesAreUnique(t *testing.T) {
	c := &ctx{
		module:          ir.NewModule(),
		stringConstants: map[string]*ir.Global{},
		names:           map[string]bool{},
	}

	// another text already holds the name "b" hashes to
	c.names["_str_"+hash("b")] = true

	g := c.stringConstant("b")
	if g.Name() != "_str_"+hash("b")+"_1" {
		t.Fatalf("got %s", g.Name())
	}
	if c.stringConstant("b") != g {
		t.Fatalf("repeated text should reuse its constant")
	}
}

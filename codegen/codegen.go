package codegen

import (
	"hash/fnv"
	"io/ioutil"
	"strconv"

	"github.com/coreos/pkg/capnslog"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/wrig/ast"
	"github.com/pontaoski/wrig/eval"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/wrig", "codegen")

// RunSymbol performs every print of the program. Executables also get
// EntrySymbol, which calls it and exits.
const (
	RunSymbol   = "wrig_run"
	EntrySymbol = "_wrig_main"
)

type Settings struct {
	IsLibrary   bool
	PackageName string
}

type ctx struct {
	module          *ir.Module
	builtins        map[string]value.Value
	run             *ir.Block
	stringConstants map[string]*ir.Global
	names           map[string]bool
}

func hash(s string) string {
	h := fnv.New32a()
	h.Write([]byte(s))
	return strconv.FormatUint(uint64(h.Sum32()), 10)
}

func (c *ctx) stringConstant(s string) *ir.Global {
	if g, ok := c.stringConstants[s]; ok {
		return g
	}

	base := "_str_" + hash(s)
	name := base
	for i := 1; c.names[name]; i++ {
		name = base + "_" + strconv.Itoa(i)
	}

	g := c.module.NewGlobalDef(name, constant.NewCharArrayFromString(s))
	g.Immutable = true
	c.stringConstants[s] = g
	c.names[name] = true

	return g
}

func (c *ctx) emitPrint(text string) {
	data := c.stringConstant(text)
	casted := c.run.NewBitCast(data, BytePtr)

	c.run.NewCall(c.builtins["print"], casted, constant.NewInt(Int64, int64(len(text))))
}

// Generate lowers stmts to a module. The language reads no input, so
// every value is computed here with the interpreter's own rules and only
// the results are emitted. Evaluation errors abort generation.
func Generate(stmts []ast.Stmt, s Settings) (*ir.Module, error) {
	c := &ctx{
		module:          ir.NewModule(),
		stringConstants: map[string]*ir.Global{},
		names:           map[string]bool{},
	}
	c.builtins = addBuiltins(c.module)

	runFn := c.module.NewFunc(RunSymbol, types.Void)
	c.run = runFn.NewBlock("entry")

	env := eval.NewEnvironment()
	ev := eval.New(env, ioutil.Discard)

	for _, stmt := range stmts {
		switch st := stmt.(type) {
		case ast.Print:
			v, err := ev.Evaluate(st.Expr)
			if err != nil {
				return nil, tracerr.Wrap(err)
			}
			c.emitPrint(v.String() + "\n")
		default:
			if err := ev.Execute([]ast.Stmt{stmt}); err != nil {
				return nil, err
			}
		}
	}
	c.run.NewRet(nil)

	info := GlobalsInfo{Package: s.PackageName, Globals: map[string]string{}}
	for _, name := range env.Names() {
		v, _ := env.Get(name)

		g := c.module.NewGlobalDef("var."+name, constantOf(v))
		g.Immutable = true
		info.Globals[name] = v.String()

		plog.Debugf("global %s: %#v", name, v)
	}

	if err := registerGlobalsWithModule(info, c.module); err != nil {
		return nil, tracerr.Wrap(err)
	}

	if !s.IsLibrary {
		opening := c.module.NewFunc(EntrySymbol, types.Void)
		bloc := opening.NewBlock("_entry")

		bloc.NewCall(runFn)
		bloc.NewCall(c.builtins["exit"])
		bloc.NewRet(nil)
	}

	return c.module, nil
}

package pipeline

import (
	"io"

	"github.com/coreos/pkg/capnslog"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/wrig/ast"
	"github.com/pontaoski/wrig/errors"
	"github.com/pontaoski/wrig/eval"
	"github.com/pontaoski/wrig/lexer"
	"github.com/pontaoski/wrig/parser"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/wrig", "pipeline")

// Exit codes reported by the command line for each error family.
const (
	ExitUsage    = 64
	ExitData     = 65
	ExitNoInput  = 2
	ExitSoftware = 70
)

// Compile scans and parses source.
func Compile(source string) ([]ast.Stmt, error) {
	toks, err := lexer.Scan(source)
	if err != nil {
		return nil, err
	}
	return parser.Parse(toks)
}

// Run compiles source and executes it against env, printing to out.
func Run(source string, env *eval.Environment, out io.Writer) error {
	stmts, err := Compile(source)
	if err != nil {
		return err
	}

	plog.Debugf("executing %d statements with %d bindings", len(stmts), env.Len())
	return eval.New(env, out).Execute(stmts)
}

// ExitCode maps err to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	switch cause := tracerr.Unwrap(err); {
	case errors.IsScan(cause), errors.IsParse(cause):
		return ExitData
	case errors.IsRuntime(cause):
		return ExitSoftware
	}

	return 1
}

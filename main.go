package main

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/coreos/pkg/capnslog"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/wrig/ast"
	"github.com/pontaoski/wrig/codegen"
	"github.com/pontaoski/wrig/config"
	"github.com/pontaoski/wrig/eval"
	"github.com/pontaoski/wrig/lexer"
	"github.com/pontaoski/wrig/pipeline"
	"github.com/pontaoski/wrig/reader"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/wrig", "main")

var diag = color.New(color.FgRed)

func settings(c *cli.Context) config.Config {
	return c.App.Metadata["config"].(config.Config)
}

// loadConfig reads the configuration for command. init starts from the
// defaults when the file is missing or broken.
func loadConfig(path, command string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil && command == "init" {
		plog.Debugf("ignoring %v for init", err)
		return config.Default(), nil
	}
	return cfg, err
}

func setup(c *cli.Context) error {
	cfg, err := loadConfig(c.String("config"), c.Args().First())
	if err != nil {
		return cli.Exit(err.Error(), pipeline.ExitUsage)
	}

	if c.IsSet("log-level") {
		cfg.LogLevel = strings.ToUpper(c.String("log-level"))
	}
	level, err := capnslog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return cli.Exit(err.Error(), pipeline.ExitUsage)
	}
	if c.Bool("debug") {
		level = capnslog.DEBUG
	}

	capnslog.SetFormatter(capnslog.NewPrettyFormatter(os.Stderr, c.Bool("debug")))
	capnslog.SetGlobalLogLevel(level)

	if c.Bool("no-color") || !cfg.Color {
		cfg.Color = false
		color.NoColor = true
	}

	c.App.Metadata["config"] = cfg
	return nil
}

func readSource(c *cli.Context) (string, error) {
	path := c.Args().First()
	if path == "" || c.NArg() > 1 {
		return "", cli.Exit(fmt.Sprintf("usage: wrig %s FILE", c.Command.Name), pipeline.ExitUsage)
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return "", cli.Exit(fmt.Sprintf("cannot read path: %s", path), pipeline.ExitNoInput)
	}

	plog.Debugf("read %d bytes from %s", len(data), path)
	return string(data), nil
}

// report prints err and converts it to the exit status of its family.
func report(c *cli.Context, err error) error {
	if err == nil {
		return nil
	}

	if c.Bool("debug") {
		tracerr.PrintSourceColor(err)
	} else {
		diag.Fprintln(os.Stderr, err.Error())
	}

	return cli.Exit("", pipeline.ExitCode(err))
}

func runFile(c *cli.Context) error {
	src, err := readSource(c)
	if err != nil {
		return err
	}

	return report(c, pipeline.Run(src, eval.NewEnvironment(), os.Stdout))
}

func runRepl(c *cli.Context) error {
	return pipeline.NewSession(settings(c), os.Stdin, os.Stdout, os.Stderr).Loop()
}

func build(c *cli.Context) error {
	src, err := readSource(c)
	if err != nil {
		return err
	}

	stmts, err := pipeline.Compile(src)
	if err != nil {
		return report(c, err)
	}

	name := strings.TrimSuffix(filepath.Base(c.Args().First()), filepath.Ext(c.Args().First()))
	module, err := codegen.Generate(stmts, codegen.Settings{
		IsLibrary:   c.Bool("library"),
		PackageName: name,
	})
	if err != nil {
		return report(c, err)
	}

	if c.Bool("dump") {
		fmt.Println(module.String())
		return nil
	}

	out := c.String("output")
	if out == "" {
		out = settings(c).Output
	}
	if out == "" {
		out = name
	}
	if c.Bool("library") {
		out += ".so"
	}

	cmd := exec.Command("clang", "-nostdlib", "-o", out)
	if c.Bool("library") {
		cmd.Args = append(cmd.Args, "-shared", "-no-pie")
	} else {
		cmd.Args = append(cmd.Args, "-Wl,-e,"+codegen.EntrySymbol)
	}

	fi, err := ioutil.TempFile("", "*.ll")
	if err != nil {
		return err
	}
	defer os.Remove(fi.Name())
	defer fi.Close()

	if _, err = io.Copy(fi, strings.NewReader(module.String())); err != nil {
		return err
	}

	cmd.Args = append(cmd.Args, fi.Name())
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	plog.Debugf("running %s", strings.Join(cmd.Args, " "))
	if err := cmd.Run(); err != nil {
		return report(c, tracerr.Wrap(err))
	}

	return nil
}

func main() {
	app := &cli.App{
		Name:     "wrig",
		Usage:    "wrig interpreter",
		Metadata: map[string]interface{}{},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to the configuration file (default: ./" + config.DefaultPath + ")",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "log everything and print errors with their stack",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "CRITICAL, ERROR, WARNING, NOTICE, INFO, DEBUG or TRACE",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "disable coloured output",
			},
		},
		Before: setup,
		Action: func(c *cli.Context) error {
			switch c.NArg() {
			case 0:
				return runRepl(c)
			case 1:
				return runFile(c)
			default:
				return cli.Exit("usage: wrig [script]", pipeline.ExitUsage)
			}
		},
		ExitErrHandler: func(c *cli.Context, err error) {
			if err == nil {
				return
			}
			code := 1
			if exit, ok := err.(cli.ExitCoder); ok {
				code = exit.ExitCode()
			}
			if msg := err.Error(); msg != "" {
				diag.Fprintln(os.Stderr, msg)
			}
			os.Exit(code)
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "run a script",
				ArgsUsage: "FILE",
				Action:    runFile,
			},
			{
				Name:   "repl",
				Usage:  "read programs from standard input",
				Action: runRepl,
			},
			{
				Name:      "tokens",
				Usage:     "dump the tokens of a script",
				ArgsUsage: "FILE",
				Action: func(c *cli.Context) error {
					src, err := readSource(c)
					if err != nil {
						return err
					}
					toks, err := lexer.Scan(src)
					if err != nil {
						return report(c, err)
					}
					repr.Println(toks, repr.Indent("  "))
					return nil
				},
			},
			{
				Name:      "ast",
				Usage:     "print the syntax tree of a script",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "repr",
						Usage: "dump the raw tree",
					},
				},
				Action: func(c *cli.Context) error {
					src, err := readSource(c)
					if err != nil {
						return err
					}
					stmts, err := pipeline.Compile(src)
					if err != nil {
						return report(c, err)
					}
					if c.Bool("repr") {
						repr.Println(stmts, repr.Indent("  "))
						return nil
					}
					for _, stmt := range stmts {
						fmt.Println(ast.StmtString(stmt))
					}
					return nil
				},
			},
			{
				Name:      "build",
				Usage:     "compile a script to a native binary",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name: "output",
					},
					&cli.BoolFlag{
						Name:  "dump",
						Usage: "print the LLVM IR instead of compiling",
					},
					&cli.BoolFlag{
						Name:  "library",
						Usage: "build a shared library without an entry point",
					},
				},
				Action: build,
			},
			{
				Name:      "globals",
				Usage:     "dump the globals of a library built with --library",
				ArgsUsage: "LIBRARY",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("usage: wrig globals LIBRARY", pipeline.ExitUsage)
					}
					info, err := reader.ReadGlobals(c.Args().First())
					if err != nil {
						return report(c, tracerr.Wrap(err))
					}
					repr.Println(info)
					return nil
				},
			},
			{
				Name:  "init",
				Usage: "write a default " + config.DefaultPath,
				Action: func(c *cli.Context) error {
					path := c.String("config")
					if path == "" {
						path = config.DefaultPath
					}
					if _, err := os.Stat(path); err == nil {
						return cli.Exit(path+" already exists", 1)
					}
					return config.Write(path, config.Default())
				},
			},
		},
	}

	app.Run(os.Args)
}

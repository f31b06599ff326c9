package pipeline

import (
	"bufio"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/pontaoski/wrig/config"
	"github.com/pontaoski/wrig/eval"
)

// Session is an interactive prompt. Lines are buffered until the
// configured number of consecutive blank lines, then run as one program.
type Session struct {
	cfg    config.Config
	in     *bufio.Scanner
	out    io.Writer
	errOut io.Writer
	env    *eval.Environment

	prompt *color.Color
	diag   *color.Color
}

func NewSession(cfg config.Config, in io.Reader, out, errOut io.Writer) *Session {
	s := &Session{
		cfg:    cfg,
		in:     bufio.NewScanner(in),
		out:    out,
		errOut: errOut,
		env:    eval.NewEnvironment(),
		prompt: color.New(color.FgCyan),
		diag:   color.New(color.FgRed),
	}

	if !cfg.Color {
		s.prompt.DisableColor()
		s.diag.DisableColor()
	}

	return s
}

func (s *Session) Env() *eval.Environment {
	return s.env
}

// Submit runs source, starting from a fresh environment unless the
// session persists bindings.
func (s *Session) Submit(source string) error {
	if !s.cfg.PersistEnvironment {
		s.env = eval.NewEnvironment()
	}

	return Run(source, s.env, s.out)
}

func (s *Session) submit(source string) {
	if strings.TrimSpace(source) == "" {
		return
	}

	if err := s.Submit(source); err != nil {
		s.diag.Fprintln(s.errOut, err.Error())
	}
}

// Loop reads until EOF. Errors from submitted programs are printed and
// do not end the loop.
func (s *Session) Loop() error {
	var buf strings.Builder
	blanks := 0

	for {
		s.prompt.Fprint(s.out, s.cfg.Prompt)

		if !s.in.Scan() {
			s.submit(buf.String())
			return s.in.Err()
		}

		line := strings.TrimRight(s.in.Text(), "\r")
		buf.WriteString(line)
		buf.WriteByte('\n')

		if line == "" {
			blanks++
		} else {
			blanks = 0
		}

		if blanks >= s.cfg.BlankLines {
			plog.Debugf("submitting %d bytes", buf.Len())
			s.submit(buf.String())
			buf.Reset()
			blanks = 0
		}
	}
}

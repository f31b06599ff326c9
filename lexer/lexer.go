package lexer

import (
	"strconv"
	"unicode"

	"github.com/coreos/pkg/capnslog"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/wrig/errors"
	"github.com/pontaoski/wrig/types"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/wrig", "lexer")

const snippetLen = 24

type Lexer struct {
	source  []rune
	tokens  []types.Token
	start   int
	current int
	line    int
}

func NewLexer(source string) *Lexer {
	return &Lexer{
		source: []rune(source),
		line:   1,
	}
}

// Scan turns source into tokens terminated by a single EOF token.
// The first scan error aborts the whole scan.
func Scan(source string) ([]types.Token, error) {
	toks, err := NewLexer(source).Lex()
	if err != nil {
		return nil, tracerr.Wrap(err)
	}
	return toks, nil
}

func (l *Lexer) Lex() ([]types.Token, error) {
	for !l.atEnd() {
		l.start = l.current
		if err := l.lexToken(); err != nil {
			return nil, err
		}
	}

	l.tokens = append(l.tokens, types.Token{Kind: types.EOF, Line: l.line})
	plog.Debugf("scanned %d tokens over %d lines", len(l.tokens), l.line)

	return l.tokens, nil
}

func (l *Lexer) atEnd() bool {
	return l.current >= len(l.source)
}

func (l *Lexer) advance() rune {
	r := l.source[l.current]
	l.current++
	return r
}

func (l *Lexer) peek() rune {
	return l.peekAt(l.current)
}

func (l *Lexer) peekAt(i int) rune {
	if i >= len(l.source) {
		return 0
	}
	return l.source[i]
}

// match consumes the next rune only when it equals r.
func (l *Lexer) match(r rune) bool {
	if l.atEnd() || l.source[l.current] != r {
		return false
	}
	l.current++
	return true
}

func (l *Lexer) lexeme() string {
	return string(l.source[l.start:l.current])
}

func (l *Lexer) snippet() string {
	end := l.start + snippetLen
	if end > len(l.source) {
		end = len(l.source)
	}
	return string(l.source[l.start:end])
}

func (l *Lexer) kinded(t types.TokenKind) {
	l.tokens = append(l.tokens, types.Token{
		Kind:   t,
		Lexeme: l.lexeme(),
		Line:   l.line,
	})
}

func (l *Lexer) literal(t types.TokenKind, v types.Value, line int) {
	l.tokens = append(l.tokens, types.Token{
		Kind:    t,
		Lexeme:  l.lexeme(),
		Literal: &v,
		Line:    line,
	})
}

func (l *Lexer) either(next rune, two, one types.TokenKind) {
	if l.match(next) {
		l.kinded(two)
		return
	}
	l.kinded(one)
}

func firstChar(r rune) bool {
	return unicode.IsLetter(r)
}

func otherChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

var single = map[rune]types.TokenKind{
	'(': types.LPAREN,
	')': types.RPAREN,
	'{': types.LBRACE,
	'}': types.RBRACE,
	',': types.COMMA,
	'.': types.DOT,
	'-': types.MINUS,
	'+': types.PLUS,
	';': types.SEMICOLON,
	'*': types.STAR,
}

func (l *Lexer) lexToken() error {
	r := l.advance()

	if kind, ok := single[r]; ok {
		l.kinded(kind)
		return nil
	}

	switch r {
	case '!':
		l.either('=', types.BANG_EQUAL, types.BANG)
	case '=':
		l.either('=', types.EQUAL_EQUAL, types.EQUAL)
	case '<':
		l.either('=', types.LESS_EQUAL, types.LESS)
	case '>':
		l.either('=', types.GREATER_EQUAL, types.GREATER)
	case '/':
		switch {
		case l.match('/'):
			for !l.atEnd() && l.peek() != '\n' {
				l.advance()
			}
		case l.match('*'):
			l.lexBlockComment()
		default:
			l.kinded(types.SLASH)
		}
	case '"':
		return l.lexString()
	case ' ', '\r':
	case '\n':
		l.line++
	default:
		switch {
		case isDigit(r):
			l.lexNumber()
		case firstChar(r):
			l.lexIdent()
		default:
			return errors.UnknownToken{Line: l.line, Snippet: string(r)}
		}
	}

	return nil
}

// lexBlockComment skips through the first "*/". Comments do not nest.
func (l *Lexer) lexBlockComment() {
	for !l.atEnd() {
		if l.peek() == '*' && l.peekAt(l.current+1) == '/' {
			l.current += 2
			return
		}
		if l.advance() == '\n' {
			l.line++
		}
	}
}

func (l *Lexer) lexString() error {
	from := l.line

	for !l.atEnd() && l.peek() != '"' {
		if l.advance() == '\n' {
			l.line++
		}
	}

	if l.atEnd() {
		return errors.UnterminatedString{Line: from, Snippet: l.snippet()}
	}

	l.advance()

	text := string(l.source[l.start+1 : l.current-1])
	l.literal(types.STRING, types.String(text), from)

	return nil
}

func (l *Lexer) lexNumber() {
	for isDigit(l.peek()) {
		l.advance()
	}

	if l.peek() == '.' && isDigit(l.peekAt(l.current+1)) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	parsed, err := strconv.ParseFloat(l.lexeme(), 64)
	if err != nil {
		panic(err)
	}

	l.literal(types.NUMBER, types.Number(parsed), l.line)
}

func (l *Lexer) lexIdent() {
	for otherChar(l.peek()) {
		l.advance()
	}

	if kind, ok := types.Keywords[l.lexeme()]; ok {
		l.kinded(kind)
		return
	}

	l.kinded(types.IDENT)
}

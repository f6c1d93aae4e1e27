package parser

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/sandrolain/tinyjs/pkg/types"
)

const eof = -1

// Lexer splits source text into tokens, one per call to Next.
//
// It follows Rob Pike's "Lexical Scanning in Go": a token is the text
// between start and pos, grown one rune at a time. The only step backwards
// is unread, which returns the single rune just read.
type Lexer struct {
	src   string
	start int   // offset of the token being scanned
	pos   int   // offset of the next rune
	width int   // byte width of the last rune read, 0 at end of input
	err   error // first failure; sticky
}

// NewLexer returns a lexer positioned at the start of src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src}
}

// Tokenize converts source into its full token sequence.
//
// Whitespace separates tokens and never appears in the result. The first
// character that cannot start a token aborts tokenization with an error
// matching types.ErrLex.
//
// Example:
//
//	tokens, err := parser.Tokenize("(a, b)")
//	// [paren "(", name "a", notation ",", name "b", paren ")"]
func Tokenize(source string) ([]Token, error) {
	l := NewLexer(source)
	tokens := make([]Token, 0, len(source)/2)
	for {
		t := l.Next()
		switch t.Type {
		case TokenEOF:
			return tokens, nil
		case TokenError:
			return nil, l.Error()
		}
		tokens = append(tokens, t)
	}
}

// Next scans one token. At the end of input it keeps returning TokenEOF;
// after a failure it keeps returning TokenError and Error reports why.
func (l *Lexer) Next() Token {
	if l.err != nil {
		return Token{Type: TokenError, Position: l.start}
	}

	l.takeRun(unicode.IsSpace)
	l.skip()

	r := l.read()
	switch {
	case r == eof:
		return Token{Type: TokenEOF, Position: l.pos}
	case r == '(' || r == ')':
		return l.emit(TokenParen)
	case isDigit(r):
		l.takeRun(isDigit)
		return l.emit(TokenNumber)
	case r == '"':
		return l.quoted(r)
	case isLetter(r):
		l.takeRun(isLetter)
		return l.emit(TokenName)
	}

	for _, follow := range lookupSymbol2(r) {
		if l.take(func(c rune) bool { return c == follow.r }) {
			return l.emit(follow.tt)
		}
	}
	if tt := lookupSymbol1(r); tt != 0 {
		return l.emit(tt)
	}

	return l.fail(types.ErrUnknownCharacter, fmt.Sprintf("Unknown character %q", r))
}

// Error returns the failure that stopped the lexer, or nil.
func (l *Lexer) Error() error {
	return l.err
}

// quoted scans a string literal whose opening quote was just read. The
// token text excludes both quotes; escapes are not recognized.
func (l *Lexer) quoted(quote rune) Token {
	l.skip()
	for {
		switch l.read() {
		case quote:
			l.unread()
			t := l.emit(TokenString)
			l.read()
			l.skip()
			return t
		case eof:
			return l.fail(types.ErrStringNotClosed, "Unterminated string literal")
		}
	}
}

// read consumes and returns the next rune, or eof.
func (l *Lexer) read() rune {
	if l.pos >= len(l.src) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += w
	l.width = w
	return r
}

// unread steps back over the rune returned by the last read.
func (l *Lexer) unread() {
	l.pos -= l.width
}

// skip drops the text scanned so far.
func (l *Lexer) skip() {
	l.start = l.pos
}

// take consumes the next rune if ok accepts it.
func (l *Lexer) take(ok func(rune) bool) bool {
	if ok(l.read()) {
		return true
	}
	l.unread()
	return false
}

// takeRun consumes runes for as long as ok accepts them.
func (l *Lexer) takeRun(ok func(rune) bool) {
	for l.take(ok) {
	}
}

// emit turns the scanned text into a token of type tt.
func (l *Lexer) emit(tt TokenType) Token {
	t := Token{Type: tt, Value: l.src[l.start:l.pos], Position: l.start}
	l.start = l.pos
	return t
}

func (l *Lexer) fail(code types.ErrorCode, msg string) Token {
	t := l.emit(TokenError)
	l.err = types.NewError(code, msg, t.Position).WithToken(t.Value)
	return t
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isLetter(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

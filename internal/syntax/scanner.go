package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Scanner performs lexical analysis of type expressions.
type Scanner struct {
	source // embedded character reader

	base Pos // position of the first character of the text

	// Current token info
	tok    Token   // token type
	lit    string  // token literal (identifier name, number, string content)
	kind   LitKind // literal kind (only valid when tok == _Literal)
	tokPos Pos     // token start position

	// Literal accumulation
	litBuf strings.Builder
}

// NewScanner creates a new Scanner for the given text. Token positions are
// reported relative to base, the position of the text's first character in
// its enclosing file; a zero base reports raw line and column numbers.
// The errh function is called for each lexical error; if nil, errors are silently ignored.
func NewScanner(base Pos, src io.Reader, errh func(pos Pos, msg string)) *Scanner {
	s := &Scanner{base: base}
	s.source = *newSource(src, func(line, col uint32, msg string) {
		if errh != nil {
			errh(relative(base, line, col), msg)
		}
	})
	return s
}

// Next advances to the next token.
func (s *Scanner) Next() {
redo:
	s.skipWhitespace()

	s.tokPos = s.pos()

	switch {
	case s.ch < 0:
		s.tok = _EOF
		s.lit = ""

	case isLetter(s.ch):
		s.scanIdent()

	case isDigit(s.ch):
		s.scanNumber()

	case s.ch == '"':
		s.scanString()

	case isOperatorStart(s.ch):
		if s.scanOperator() {
			// comment skipped
			goto redo
		}

	default:
		s.error(fmt.Sprintf("unexpected character %q", s.ch))
		s.nextch()
		goto redo
	}
}

// Token returns the current token type.
func (s *Scanner) Token() Token {
	return s.tok
}

// Literal returns the current token's literal value.
func (s *Scanner) Literal() string {
	return s.lit
}

// LitKind returns the current literal's kind (only valid when Token() == _Literal).
func (s *Scanner) LitKind() LitKind {
	return s.kind
}

// Pos returns the current token's start position.
func (s *Scanner) Pos() Pos {
	return s.tokPos
}

func (s *Scanner) pos() Pos {
	return relative(s.base, s.line, s.col)
}

func (s *Scanner) skipWhitespace() {
	for isWhitespace(s.ch) {
		s.nextch()
	}
}

func (s *Scanner) startLit() {
	s.litBuf.Reset()
	s.litBuf.WriteRune(s.ch)
}

func (s *Scanner) continueLit() {
	s.litBuf.WriteRune(s.ch)
}

func (s *Scanner) stopLit() string {
	return s.litBuf.String()
}

// scanIdent scans an identifier or keyword.
func (s *Scanner) scanIdent() {
	s.startLit()
	s.nextch()

	for isLetter(s.ch) || isDigit(s.ch) {
		s.continueLit()
		s.nextch()
	}

	s.lit = s.stopLit()
	s.tok = LookupKeyword(s.lit)
	switch s.tok {
	case _True, _False:
		s.tok = _Literal
		s.kind = BoolLit
	case _Null:
		s.tok = _Literal
		s.kind = NullLit
	}
}

// scanNumber scans a number literal: decimal or hexadecimal integers with an
// optional L suffix, and decimal floats.
func (s *Scanner) scanNumber() {
	s.litBuf.Reset()
	s.kind = IntLit

	if s.ch == '0' {
		s.litBuf.WriteRune(s.ch)
		s.nextch()
		if lower(s.ch) == 'x' {
			s.litBuf.WriteRune(s.ch)
			s.nextch()
			s.scanHexDigits()
		} else {
			s.scanDecimalDigits()
			if s.ch == '.' || lower(s.ch) == 'e' {
				s.scanFraction()
			}
		}
	} else {
		s.scanDecimalDigits()
		if s.ch == '.' || lower(s.ch) == 'e' {
			s.scanFraction()
		}
	}

	if s.kind == IntLit && lower(s.ch) == 'l' {
		s.kind = LongLit
		s.nextch()
	}

	s.lit = s.litBuf.String()
	s.tok = _Literal
}

func (s *Scanner) scanDecimalDigits() {
	for isDigit(s.ch) {
		s.continueLit()
		s.nextch()
	}
}

func (s *Scanner) scanHexDigits() {
	if !isHexDigit(s.ch) {
		s.error("invalid hex digit")
		return
	}
	for isHexDigit(s.ch) {
		s.continueLit()
		s.nextch()
	}
}

// scanFraction scans the fractional part of a float (. and/or exponent).
func (s *Scanner) scanFraction() {
	if s.ch == '.' {
		s.kind = FloatLit
		s.continueLit()
		s.nextch()
		s.scanDecimalDigits()
	}

	if lower(s.ch) == 'e' {
		s.kind = FloatLit
		s.continueLit()
		s.nextch()

		if s.ch == '+' || s.ch == '-' {
			s.continueLit()
			s.nextch()
		}

		if !isDigit(s.ch) {
			s.error("exponent has no digits")
			return
		}
		s.scanDecimalDigits()
	}
}

// scanString scans a string literal.
// The resulting literal is the decoded string content.
func (s *Scanner) scanString() {
	s.nextch() // skip opening "
	var b strings.Builder

	for {
		switch {
		case s.ch == '"':
			s.nextch()
			s.lit = b.String()
			s.tok = _Literal
			s.kind = StringLit
			return

		case s.ch == '\\':
			if r, ok := s.scanEscape(); ok {
				b.WriteRune(r)
			}

		case s.ch == '\n' || s.ch < 0:
			s.error("string not terminated")
			s.lit = b.String()
			s.tok = _Literal
			s.kind = StringLit
			return

		default:
			b.WriteRune(s.ch)
			s.nextch()
		}
	}
}

// scanEscape scans an escape sequence and returns the decoded rune.
func (s *Scanner) scanEscape() (rune, bool) {
	s.nextch() // skip \

	switch s.ch {
	case 'n':
		s.nextch()
		return '\n', true
	case 't':
		s.nextch()
		return '\t', true
	case 'r':
		s.nextch()
		return '\r', true
	case '\\':
		s.nextch()
		return '\\', true
	case '"':
		s.nextch()
		return '"', true
	default:
		s.error(fmt.Sprintf("unknown escape sequence: \\%c", s.ch))
		s.nextch()
		return 0, false
	}
}

// scanOperator scans an operator or delimiter.
// Returns true if a comment was skipped (caller should rescan).
func (s *Scanner) scanOperator() bool {
	ch := s.ch
	s.nextch()

	switch ch {
	case '/':
		if s.ch == '/' {
			s.skipLineComment()
			return true
		}
		s.error("unexpected character '/'")
		return true
	case '-':
		s.tok = _Sub
		s.lit = "-"
	case '<':
		if s.ch != ':' {
			s.error("expected '<:'")
			return true
		}
		s.nextch()
		s.tok = _Upper
		s.lit = "<:"
	case '>':
		if s.ch != ':' {
			s.error("expected '>:'")
			return true
		}
		s.nextch()
		s.tok = _Lower
		s.lit = ">:"
	case '@':
		s.tok = _At
		s.lit = "@"
	case '?':
		s.tok = _Quest
		s.lit = "?"
	case ':':
		s.tok = _Colon
		s.lit = ":"
	case '(':
		s.tok = _Lparen
		s.lit = "("
	case ')':
		s.tok = _Rparen
		s.lit = ")"
	case '[':
		s.tok = _Lbrack
		s.lit = "["
	case ']':
		s.tok = _Rbrack
		s.lit = "]"
	case '{':
		s.tok = _Lbrace
		s.lit = "{"
	case '}':
		s.tok = _Rbrace
		s.lit = "}"
	case ',':
		s.tok = _Comma
		s.lit = ","
	case ';':
		s.tok = _Semi
		s.lit = ";"
	case '.':
		s.tok = _Dot
		s.lit = "."
	}

	return false
}

// skipLineComment skips a line comment (from // to end of line).
func (s *Scanner) skipLineComment() {
	s.nextch()
	for s.ch != '\n' && s.ch >= 0 {
		s.nextch()
	}
}

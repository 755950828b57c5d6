package syntax

import (
	"io"
	"strings"
)

// Maximum number of errors before aborting parse.
const maxErrors = 10

// SyntaxError represents a syntax error.
type SyntaxError struct {
	Pos Pos
	Msg string
}

func (e *SyntaxError) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// Parser performs syntax analysis of type expressions.
type Parser struct {
	scanner *Scanner

	// Current token info (cached from scanner)
	tok  Token
	lit  string
	kind LitKind
	pos  Pos

	// Error handling
	errh   func(pos Pos, msg string)
	errcnt int
	first  error // first error encountered
	abort  bool  // set to true when error limit reached
}

// NewParser creates a new Parser for the given text. base is the position
// of the text's first character in its enclosing file and may be zero.
func NewParser(base Pos, src io.Reader, errh func(pos Pos, msg string)) *Parser {
	p := &Parser{errh: errh}
	p.scanner = NewScanner(base, src, func(pos Pos, msg string) {
		p.errorAt(pos, msg)
	})
	p.next() // prime the parser with first token
	return p
}

// ParseType parses text as a single type expression and returns the first
// syntax error, if any. The returned expression is usable even on error.
func ParseType(base Pos, text string, errh func(pos Pos, msg string)) (Expr, error) {
	p := NewParser(base, strings.NewReader(text), errh)
	x := p.ParseType()
	return x, p.FirstError()
}

// ParseTypeParam parses text as a type parameter declaration.
func ParseTypeParam(base Pos, text string, errh func(pos Pos, msg string)) (*TypeParam, error) {
	p := NewParser(base, strings.NewReader(text), errh)
	tp := p.ParseTypeParam()
	return tp, p.FirstError()
}

// ParseBounds parses text as a bounds clause; empty text means no bounds.
func ParseBounds(base Pos, text string, errh func(pos Pos, msg string)) (*Bounds, error) {
	p := NewParser(base, strings.NewReader(text), errh)
	b := p.ParseBounds()
	return b, p.FirstError()
}

// ----------------------------------------------------------------------------
// Token navigation

// next advances to the next token.
func (p *Parser) next() {
	p.scanner.Next()
	p.tok = p.scanner.Token()
	p.lit = p.scanner.Literal()
	p.kind = p.scanner.LitKind()
	p.pos = p.scanner.Pos()
}

// got reports whether the current token is tok.
// If so, it consumes the token and returns true.
func (p *Parser) got(tok Token) bool {
	if p.tok == tok {
		p.next()
		return true
	}
	return false
}

// want consumes the current token if it matches tok.
// Otherwise, reports an error.
func (p *Parser) want(tok Token) {
	if !p.got(tok) {
		p.syntaxError("expected " + tok.String())
		p.advance()
	}
}

// ----------------------------------------------------------------------------
// Error handling

// syntaxError reports a syntax error at the current position.
func (p *Parser) syntaxError(msg string) {
	switch p.tok {
	case _EOF:
		msg += ", found end of input"
	case _Name, _Literal:
		msg += ", found " + quote(p.lit)
	default:
		msg += ", found " + quote(p.tok.String())
	}
	p.errorAt(p.pos, msg)
}

func quote(s string) string {
	return "'" + s + "'"
}

// errorAt reports an error at a specific position.
func (p *Parser) errorAt(pos Pos, msg string) {
	if p.abort {
		return
	}
	if p.errcnt == 0 {
		p.first = &SyntaxError{Pos: pos, Msg: msg}
	}
	p.errcnt++

	if p.errh != nil {
		p.errh(pos, msg)
	}

	p.errorLimitCheck(pos)
}

// errorLimitCheck aborts parsing if too many errors have occurred.
func (p *Parser) errorLimitCheck(pos Pos) {
	if p.errcnt >= maxErrors {
		p.abort = true
		if p.errh != nil {
			p.errh(pos, "too many errors; aborting parse")
		}
		p.tok = _EOF
	}
}

// advance skips tokens until it finds a synchronization point.
// This is used for error recovery.
func (p *Parser) advance() {
	for !p.atSync() {
		p.next()
	}
	if p.tok != _EOF {
		p.next()
	}
}

func (p *Parser) atSync() bool {
	switch p.tok {
	case _Comma, _Semi, _Rparen, _Rbrack, _Rbrace, _EOF:
		return true
	}
	return p.abort
}

// Errors returns the number of errors encountered during parsing.
func (p *Parser) Errors() int {
	return p.errcnt
}

// FirstError returns the first error encountered, or nil if none.
func (p *Parser) FirstError() error {
	return p.first
}

// ----------------------------------------------------------------------------
// Entry points

// ParseType parses a complete type expression and expects end of input.
func (p *Parser) ParseType() Expr {
	x := p.typ()
	p.wantEOF()
	return x
}

// ParseTypeParam parses a type parameter declaration: Name [>: Lo] [<: Hi].
func (p *Parser) ParseTypeParam() *TypeParam {
	tp := p.typeParam()
	p.wantEOF()
	return tp
}

// ParseBounds parses a bounds clause: [>: Lo] [<: Hi].
func (p *Parser) ParseBounds() *Bounds {
	b := &Bounds{}
	b.pos = p.pos
	b.Lo, b.Hi = p.bounds()
	p.wantEOF()
	return b
}

func (p *Parser) wantEOF() {
	if p.tok != _EOF {
		p.syntaxError("unexpected trailing input")
	}
}

// ----------------------------------------------------------------------------
// Helper methods

// name parses an identifier and returns a Name node.
func (p *Parser) name() *Name {
	if p.tok != _Name {
		p.syntaxError("expected identifier")
		n := &Name{Value: "_"}
		n.pos = p.pos
		return n
	}
	n := &Name{Value: p.lit}
	n.pos = p.pos
	p.next()
	return n
}

// startsType reports whether the current token can begin a type.
func (p *Parser) startsType() bool {
	switch p.tok {
	case _Name, _Literal, _Sub, _Lparen, _Lbrack, _This, _ClassOf, _Quest, _At:
		return true
	}
	return false
}

// ----------------------------------------------------------------------------
// Types

// typ parses: Compound [forSome { TypeParam { ; TypeParam } }]
func (p *Parser) typ() Expr {
	return p.typeFrom(nil)
}

// typeFrom parses a type whose first simple type, if non-nil, has
// already been parsed.
func (p *Parser) typeFrom(head Expr) Expr {
	t := p.compound(head)
	if p.tok != _ForSome {
		return t
	}
	x := &ExistentialType{Type: t}
	x.pos = t.Pos()
	p.next()
	p.want(_Lbrace)
	for !p.abort {
		x.Quantified = append(x.Quantified, p.quantified())
		if !p.got(_Semi) {
			break
		}
	}
	p.want(_Rbrace)
	return x
}

// quantified parses an existential binder: [type] Name [>: Lo] [<: Hi]
func (p *Parser) quantified() *TypeParam {
	p.got(_Type)
	return p.typeParam()
}

// compound parses: Annot { with Annot } [Refinement]
func (p *Parser) compound(head Expr) Expr {
	first := head
	if first == nil {
		first = p.annot()
	}
	if p.tok != _With && p.tok != _Lbrace {
		return first
	}

	c := &CompoundType{Parents: []Expr{first}}
	c.pos = first.Pos()
	for p.got(_With) {
		c.Parents = append(c.Parents, p.annot())
	}
	if p.tok == _Lbrace {
		c.Refined = true
		c.Refinement = p.refinement()
	}
	return c
}

// refinement parses: { [Name : Type { ; Name : Type }] }
func (p *Parser) refinement() []*Field {
	p.want(_Lbrace)
	var fields []*Field
	for !p.abort && p.tok != _Rbrace && p.tok != _EOF {
		fields = append(fields, p.field())
		if !p.got(_Semi) {
			break
		}
	}
	p.want(_Rbrace)
	return fields
}

// field parses: Name : Type
func (p *Parser) field() *Field {
	f := &Field{}
	f.pos = p.pos
	f.Name = p.name()
	p.want(_Colon)
	f.Type = p.typ()
	return f
}

// annot parses: { @ Name } Simple
func (p *Parser) annot() Expr {
	if p.tok != _At {
		return p.simple()
	}
	a := &AnnotatedType{}
	a.pos = p.pos
	for p.got(_At) {
		a.Annots = append(a.Annots, p.name())
	}
	a.Type = p.simple()
	return a
}

// simple parses a simple type.
func (p *Parser) simple() Expr {
	pos := p.pos
	switch p.tok {
	case _Name:
		return p.pathType(p.name())

	case _Literal:
		return p.literal("")

	case _Sub:
		p.next()
		if p.tok != _Literal || (p.kind != IntLit && p.kind != LongLit && p.kind != FloatLit) {
			p.syntaxError("expected numeric literal after '-'")
			p.advance()
			return p.bad(pos)
		}
		lit := p.literal("-")
		lit.pos = pos
		return lit

	case _ClassOf:
		x := &ClassOfType{}
		x.pos = pos
		p.next()
		p.want(_Lbrack)
		x.Type = p.typ()
		p.want(_Rbrack)
		return x

	case _This:
		x := &ThisType{}
		x.pos = pos
		p.next()
		p.want(_Lparen)
		x.Path = p.path(p.name())
		p.want(_Rparen)
		return x

	case _Quest:
		x := &Wildcard{}
		x.pos = pos
		p.next()
		return x

	case _Lbrack:
		return p.polyType()

	case _Lparen:
		return p.paren()
	}

	p.syntaxError("expected type")
	p.advance()
	return p.bad(pos)
}

// bad returns a placeholder for a type that failed to parse.
func (p *Parser) bad(pos Pos) Expr {
	n := &Name{Value: "_"}
	n.pos = pos
	return n
}

// literal parses the current literal token.
func (p *Parser) literal(sign string) *BasicLit {
	lit := &BasicLit{Value: sign + p.lit, Kind: p.kind}
	lit.pos = p.pos
	p.next()
	return lit
}

// path parses the rest of a qualified path starting at first: { . Name }
// It stops before ".type".
func (p *Parser) path(first *Name) Expr {
	var x Expr = first
	for p.tok == _Dot {
		p.next()
		if p.tok == _Type {
			p.syntaxError("unexpected singleton type")
			p.next()
			break
		}
		sel := &SelectorExpr{X: x, Sel: p.name()}
		sel.pos = first.pos
		x = sel
	}
	return x
}

// pathType parses: Path [ [ Type { , Type } ] ] | Path . type
func (p *Parser) pathType(first *Name) Expr {
	var x Expr = first
	for p.tok == _Dot {
		p.next()
		if p.got(_Type) {
			s := &SingletonType{Path: x}
			s.pos = first.pos
			return s
		}
		sel := &SelectorExpr{X: x, Sel: p.name()}
		sel.pos = first.pos
		x = sel
	}
	if p.tok != _Lbrack {
		return x
	}

	a := &AppliedType{Type: x}
	a.pos = first.pos
	p.next()
	for !p.abort {
		a.Args = append(a.Args, p.typ())
		if !p.got(_Comma) {
			break
		}
	}
	p.want(_Rbrack)
	return a
}

// polyType parses: [ TypeParam { , TypeParam } ] Type
func (p *Parser) polyType() Expr {
	x := &PolyType{}
	x.pos = p.pos
	p.want(_Lbrack)
	for !p.abort {
		x.TParams = append(x.TParams, p.typeParam())
		if !p.got(_Comma) {
			break
		}
	}
	p.want(_Rbrack)
	x.Result = p.typ()
	return x
}

// paren parses a parenthesized type, a method type or the unit literal:
//
//	( Type )
//	( [ Name : Type { , Name : Type } ] ) Type
//	( )
func (p *Parser) paren() Expr {
	pos := p.pos
	p.want(_Lparen)

	if p.got(_Rparen) {
		if p.startsType() {
			m := &MethodType{}
			m.pos = pos
			m.Result = p.typ()
			return m
		}
		lit := &BasicLit{Value: "()", Kind: UnitLit}
		lit.pos = pos
		return lit
	}

	if p.tok != _Name {
		x := &ParenExpr{X: p.typ()}
		x.pos = pos
		p.want(_Rparen)
		return x
	}

	first := p.name()
	if p.tok != _Colon {
		x := &ParenExpr{X: p.typeFrom(p.pathType(first))}
		x.pos = pos
		p.want(_Rparen)
		return x
	}

	m := &MethodType{}
	m.pos = pos
	for !p.abort {
		f := &Field{Name: first}
		f.pos = first.pos
		p.want(_Colon)
		f.Type = p.typ()
		m.Params = append(m.Params, f)
		if !p.got(_Comma) {
			break
		}
		first = p.name()
	}
	p.want(_Rparen)
	m.Result = p.typ()
	return m
}

// typeParam parses: Name [>: Lo] [<: Hi]
func (p *Parser) typeParam() *TypeParam {
	tp := &TypeParam{}
	tp.pos = p.pos
	tp.Name = p.name()
	tp.Lo, tp.Hi = p.bounds()
	return tp
}

// bounds parses: [>: Type] [<: Type]
func (p *Parser) bounds() (lo, hi Expr) {
	if p.got(_Lower) {
		lo = p.typ()
	}
	if p.got(_Upper) {
		hi = p.typ()
	}
	return lo, hi
}

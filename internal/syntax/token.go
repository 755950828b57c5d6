// Package syntax implements lexical and syntactic analysis of the textual
// type-expression notation used by declaration files and the command line.
package syntax

import "fmt"

// Token represents the type of a lexical token.
type Token uint

const (
	// Special tokens
	_EOF   Token = iota // end of input
	_Error              // lexical error

	// Literals
	_Name    // identifier: Int, Pair, runtime
	_Literal // literal value (used with LitKind)

	// Operators
	_Sub   // -
	_Upper // <:
	_Lower // >:
	_At    // @
	_Quest // ?

	// Delimiters
	_Lparen // (
	_Rparen // )
	_Lbrack // [
	_Rbrack // ]
	_Lbrace // {
	_Rbrace // }
	_Comma  // ,
	_Semi   // ;
	_Colon  // :
	_Dot    // .

	// Keywords
	_ClassOf
	_False
	_ForSome
	_Null
	_This
	_True
	_Type
	_With

	tokenCount
)

// tokenNames maps tokens to their string representation.
var tokenNames = [...]string{
	_EOF:   "EOF",
	_Error: "ERROR",

	_Name:    "NAME",
	_Literal: "LITERAL",

	_Sub:   "-",
	_Upper: "<:",
	_Lower: ">:",
	_At:    "@",
	_Quest: "?",

	_Lparen: "(",
	_Rparen: ")",
	_Lbrack: "[",
	_Rbrack: "]",
	_Lbrace: "{",
	_Rbrace: "}",
	_Comma:  ",",
	_Semi:   ";",
	_Colon:  ":",
	_Dot:    ".",

	_ClassOf: "classOf",
	_False:   "false",
	_ForSome: "forSome",
	_Null:    "null",
	_This:    "this",
	_True:    "true",
	_Type:    "type",
	_With:    "with",
}

// String returns the string representation of the token.
func (t Token) String() string {
	if t < tokenCount {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", t)
}

// IsKeyword reports whether t is a keyword token.
func (t Token) IsKeyword() bool {
	return t >= _ClassOf && t <= _With
}

// IsLiteral reports whether t is a literal token.
func (t Token) IsLiteral() bool {
	return t == _Literal
}

// IsOperator reports whether t is an operator token.
func (t Token) IsOperator() bool {
	return t >= _Sub && t <= _Quest
}

// IsEOF reports whether t is the EOF token.
func (t Token) IsEOF() bool {
	return t == _EOF
}

// LitKind represents the kind of a literal token.
type LitKind uint8

const (
	IntLit    LitKind = iota // 123, 0x1F
	LongLit                  // 123L
	FloatLit                 // 3.14, 1e10
	StringLit                // "hello"
	BoolLit                  // true, false
	NullLit                  // null
	UnitLit                  // ()
)

// litKindNames maps literal kinds to their string representation.
var litKindNames = [...]string{
	IntLit:    "int",
	LongLit:   "long",
	FloatLit:  "float",
	StringLit: "string",
	BoolLit:   "bool",
	NullLit:   "null",
	UnitLit:   "unit",
}

// String returns the string representation of the literal kind.
func (k LitKind) String() string {
	if k <= UnitLit {
		return litKindNames[k]
	}
	return fmt.Sprintf("LitKind(%d)", k)
}

// keywords maps keyword strings to their token type.
// Predeclared class names (Int, AnyRef, Array, ...) are not keywords;
// they are scanned as _Name and resolved by the checker.
var keywords = map[string]Token{
	"classOf": _ClassOf,
	"false":   _False,
	"forSome": _ForSome,
	"null":    _Null,
	"this":    _This,
	"true":    _True,
	"type":    _Type,
	"with":    _With,
}

// LookupKeyword returns the token for the given identifier string.
// If the identifier is a keyword, returns the keyword token.
// Otherwise, returns _Name.
func LookupKeyword(ident string) Token {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return _Name
}

package syntax

// ----------------------------------------------------------------------------
// Interfaces
//
// Every node of a type expression implements Expr. Type parameters and
// named fields are helper nodes that only appear inside expressions.

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Pos // position of first character belonging to the node
	aNode()   // marker method to restrict implementations to this package
}

// Expr is the interface for all type-expression nodes.
type Expr interface {
	Node
	aExpr()
}

// ----------------------------------------------------------------------------
// Base node types

// node is the base struct embedded in all AST nodes.
type node struct {
	pos Pos
}

func (n *node) Pos() Pos { return n.pos }
func (n *node) aNode()   {}

// expr is embedded in all expression nodes.
type expr struct{ node }

func (*expr) aExpr() {}

// ----------------------------------------------------------------------------
// Helper nodes

// Field is a named, typed entry: a method parameter or a refinement member.
type Field struct {
	node
	Name *Name // field name
	Type Expr  // field type
}

// TypeParam is a bounded type variable: Name >: Lo <: Hi.
type TypeParam struct {
	node
	Name *Name // parameter name
	Lo   Expr  // lower bound (nil if absent)
	Hi   Expr  // upper bound (nil if absent)
}

// Bounds is a standalone bounds clause: >: Lo <: Hi.
type Bounds struct {
	expr
	Lo Expr // lower bound (nil if absent)
	Hi Expr // upper bound (nil if absent)
}

// ----------------------------------------------------------------------------
// Paths and literals

// Name represents an identifier.
type Name struct {
	expr
	Value string // identifier string
}

// SelectorExpr represents a qualified path: X.Sel
type SelectorExpr struct {
	expr
	X   Expr  // qualifier (Name or SelectorExpr)
	Sel *Name // selected name
}

// BasicLit represents a literal constant type.
type BasicLit struct {
	expr
	Value string  // literal text (decoded for strings, with sign for numbers)
	Kind  LitKind // IntLit, LongLit, FloatLit, StringLit, BoolLit, NullLit, UnitLit
}

// ----------------------------------------------------------------------------
// Type expressions

// AppliedType represents a type application: Type[Args...]
type AppliedType struct {
	expr
	Type Expr   // applied type constructor (a path)
	Args []Expr // type arguments
}

// SingletonType represents the type of a stable path: Path.type
type SingletonType struct {
	expr
	Path Expr // the stable path
}

// ThisType represents a class or package self type: this(Path)
type ThisType struct {
	expr
	Path Expr // the class or package path
}

// ClassOfType represents the constant type of a class literal: classOf[T]
type ClassOfType struct {
	expr
	Type Expr // the class literal's type
}

// MethodType represents a method signature: (p: T, ...)Result
type MethodType struct {
	expr
	Params []*Field // parameter list
	Result Expr     // result type
}

// PolyType represents a polymorphic type: [T <: U, ...]Result
type PolyType struct {
	expr
	TParams []*TypeParam // type parameters
	Result  Expr         // result type
}

// CompoundType represents an intersection with an optional refinement:
// A with B { x: T }
type CompoundType struct {
	expr
	Parents    []Expr   // component types; at least one
	Refinement []*Field // refinement members
	Refined    bool     // a refinement block was present, possibly empty
}

// AnnotatedType represents a type carrying annotations: @a @b T
type AnnotatedType struct {
	expr
	Annots []*Name // annotation names
	Type   Expr    // annotated type
}

// ExistentialType represents Type forSome { T1; ...; Tn }
type ExistentialType struct {
	expr
	Type       Expr         // quantified body
	Quantified []*TypeParam // existentially bound type variables
}

// Wildcard represents the placeholder type: ?
type Wildcard struct {
	expr
}

// ParenExpr represents a parenthesized type: (X)
type ParenExpr struct {
	expr
	X Expr // inner type
}

package types

import (
	"strings"
	"sync"

	"github.com/hashicorp/go-set/v3"

	"github.com/you-not-fish/erasure/internal/syntax"
)

// SymKind describes what a symbol denotes.
type SymKind uint8

const (
	NoKind       SymKind = iota
	PackageSym           // package class
	ClassSym             // class, trait or object class
	MethodSym            // method or constructor
	ValueSym             // field, value or term parameter
	TypeParamSym         // type parameter
	AbstractSym          // abstract type member
	AliasSym             // type alias
)

var symKindNames = [...]string{
	NoKind:       "none",
	PackageSym:   "package",
	ClassSym:     "class",
	MethodSym:    "method",
	ValueSym:     "value",
	TypeParamSym: "type parameter",
	AbstractSym:  "abstract type",
	AliasSym:     "type alias",
}

func (k SymKind) String() string {
	if int(k) < len(symKindNames) {
		return symKindNames[k]
	}
	return "SymKind(?)"
}

// Flags is a set of symbol attributes.
type Flags uint32

const (
	Trait               Flags = 1 << iota // trait or interface
	Foreign                               // defined against the native object model
	DerivedValueClass                     // zero-cost wrapper with one underlying field
	PrimitiveValueClass                   // Int, Boolean, Unit, ...
	Refinement                            // synthetic class of a refined type
	Existential                           // existentially bound type variable
	Constructor                           // class constructor
	Module                                // object class
	Param                                 // term or type parameter
	Abstract                              // abstract class
	Final                                 // final class
)

// Symbol represents a declared entity: package, class, member, parameter
// or type parameter. Symbols form an owner tree.
type Symbol struct {
	name    string
	kind    SymKind
	flags   Flags
	owner   *Symbol
	pos     syntax.Pos
	info    Type
	tparams []*Symbol
	decls   *Scope
	unbox   *Symbol // unboxing accessor of a derived value class

	once      sync.Once
	completer func(*Symbol)
}

// NewSymbol creates a symbol of the given kind.
func NewSymbol(kind SymKind, owner *Symbol, pos syntax.Pos, name string, flags Flags) *Symbol {
	return &Symbol{kind: kind, owner: owner, pos: pos, name: name, flags: flags}
}

// NewClass creates a class symbol with an empty declaration scope.
func NewClass(owner *Symbol, pos syntax.Pos, name string, flags Flags) *Symbol {
	s := NewSymbol(ClassSym, owner, pos, name, flags)
	var parent *Scope
	if owner != nil {
		parent = owner.decls
	}
	s.decls = NewScope(parent, pos, pos, "class "+name)
	return s
}

// NewMethod creates a method symbol.
func NewMethod(owner *Symbol, pos syntax.Pos, name string, flags Flags) *Symbol {
	return NewSymbol(MethodSym, owner, pos, name, flags)
}

// NewValue creates a value (field) symbol of type typ.
func NewValue(owner *Symbol, pos syntax.Pos, name string, typ Type) *Symbol {
	s := NewSymbol(ValueSym, owner, pos, name, 0)
	s.info = typ
	return s
}

// NewParam creates a term parameter of type typ.
func NewParam(owner *Symbol, pos syntax.Pos, name string, typ Type) *Symbol {
	s := NewSymbol(ValueSym, owner, pos, name, Param)
	s.info = typ
	return s
}

// NewTypeParam creates a type parameter with the given bounds.
func NewTypeParam(owner *Symbol, pos syntax.Pos, name string, bounds *TypeBounds) *Symbol {
	s := NewSymbol(TypeParamSym, owner, pos, name, Param)
	if bounds == nil {
		bounds = EmptyBounds()
	}
	s.info = bounds
	return s
}

func (s *Symbol) Name() string    { return s.name }
func (s *Symbol) Kind() SymKind   { return s.kind }
func (s *Symbol) Owner() *Symbol  { return s.owner }
func (s *Symbol) Pos() syntax.Pos { return s.pos }
func (s *Symbol) Flags() Flags    { return s.flags }

// HasFlag reports whether all bits of f are set.
func (s *Symbol) HasFlag(f Flags) bool {
	return s != nil && s.flags&f == f
}

// SetFlag adds f to the symbol's flags.
// Only the checker calls this, before the symbol is published.
func (s *Symbol) SetFlag(f Flags) {
	s.flags |= f
}

// SetCompleter installs a lazy completer run by the first Initialize.
// A completer must not force the symbol it completes.
func (s *Symbol) SetCompleter(c func(*Symbol)) {
	s.completer = c
}

// Initialize runs the symbol's completer, if any, exactly once.
// Flag and info queries are trustworthy only after initialization.
func (s *Symbol) Initialize() *Symbol {
	if s == nil {
		return nil
	}
	s.once.Do(func() {
		if c := s.completer; c != nil {
			c(s)
		}
	})
	return s
}

// Info returns the symbol's type: a ClassInfoType for classes, the
// signature for methods, bounds for abstract types and type parameters,
// the aliased type for aliases and the value type for values.
func (s *Symbol) Info() Type {
	if s == nil {
		return NoType
	}
	s.Initialize()
	if s.info == nil {
		return NoType
	}
	return s.info
}

// SetInfo sets the symbol's type.
func (s *Symbol) SetInfo(t Type) {
	s.info = t
}

// TypeParams returns the symbol's type parameters.
func (s *Symbol) TypeParams() []*Symbol {
	if s == nil {
		return nil
	}
	return s.tparams
}

// SetTypeParams sets the symbol's type parameters.
func (s *Symbol) SetTypeParams(tparams []*Symbol) {
	s.tparams = tparams
}

// Decls returns the declaration scope of a class or package.
func (s *Symbol) Decls() *Scope {
	return s.decls
}

// ValueClassUnbox returns the unboxing accessor of a derived value class.
func (s *Symbol) ValueClassUnbox() *Symbol {
	return s.unbox
}

// SetValueClassUnbox records the underlying field of a derived value class.
func (s *Symbol) SetValueClassUnbox(field *Symbol) {
	s.unbox = field
}

// CloneWithInfo returns a copy of s carrying a different type.
// Used when a signature rewrite must not disturb the original parameter.
func (s *Symbol) CloneWithInfo(t Type) *Symbol {
	return &Symbol{
		name:    s.name,
		kind:    s.kind,
		flags:   s.flags,
		owner:   s.owner,
		pos:     s.pos,
		info:    t,
		tparams: s.tparams,
		decls:   s.decls,
		unbox:   s.unbox,
	}
}

// Kind predicates

func (s *Symbol) IsPackageClass() bool { return s != nil && s.kind == PackageSym }
func (s *Symbol) IsClass() bool        { return s != nil && (s.kind == ClassSym || s.kind == PackageSym) }
func (s *Symbol) IsMethod() bool       { return s != nil && s.kind == MethodSym }
func (s *Symbol) IsTerm() bool         { return s != nil && (s.kind == MethodSym || s.kind == ValueSym) }
func (s *Symbol) IsType() bool         { return s != nil && !s.IsTerm() && s.kind != NoKind }
func (s *Symbol) IsTypeParam() bool    { return s != nil && s.kind == TypeParamSym }
func (s *Symbol) IsAliasType() bool    { return s != nil && s.kind == AliasSym }

// IsAbstractType reports whether s is a type parameter or abstract type member.
func (s *Symbol) IsAbstractType() bool {
	return s != nil && (s.kind == TypeParamSym || s.kind == AbstractSym)
}

func (s *Symbol) IsTrait() bool               { return s.IsClass() && s.HasFlag(Trait) }
func (s *Symbol) IsForeignDefined() bool      { return s.HasFlag(Foreign) }
func (s *Symbol) IsDerivedValueClass() bool   { return s.IsClass() && s.HasFlag(DerivedValueClass) }
func (s *Symbol) IsPrimitiveValueClass() bool { return s.IsClass() && s.HasFlag(PrimitiveValueClass) }
func (s *Symbol) IsRefinementClass() bool     { return s.IsClass() && s.HasFlag(Refinement) }
func (s *Symbol) IsConstructor() bool         { return s.IsMethod() && s.HasFlag(Constructor) }

// IsBottomClass reports whether s is Nothing or Null.
func (s *Symbol) IsBottomClass() bool {
	return s != nil && (s == NothingClass || s == NullClass)
}

// IsTopLevel reports whether s is owned directly by a package.
func (s *Symbol) IsTopLevel() bool {
	return s != nil && s.owner.IsPackageClass()
}

// EnclosingClass returns s if it is a class, otherwise the nearest
// enclosing class on the owner chain, or nil.
func (s *Symbol) EnclosingClass() *Symbol {
	for sym := s; sym != nil; sym = sym.owner {
		if sym.IsClass() {
			return sym
		}
	}
	return nil
}

// FullName returns the dotted path of s from the root package.
func (s *Symbol) FullName() string {
	if s == nil {
		return "<none>"
	}
	var parts []string
	for sym := s; sym != nil && sym != RootPackage; sym = sym.owner {
		parts = append(parts, sym.name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

func (s *Symbol) String() string {
	if s == nil {
		return "<none>"
	}
	return s.kind.String() + " " + s.name
}

// ThisType returns the this-type of a class or package.
func (s *Symbol) ThisType() Type {
	return NewThisType(s)
}

// TypeRef returns the reference to class s applied to its own type
// parameters, prefixed by the enclosing class or package.
func (s *Symbol) TypeRef() Type {
	args := make([]Type, len(s.tparams))
	for i, tp := range s.tparams {
		args[i] = NewTypeRef(NoPrefix, tp, nil)
	}
	return NewTypeRef(PrefixOf(s), s, args)
}

// PrefixOf returns the natural prefix for references to s.
func PrefixOf(s *Symbol) Type {
	owner := s.owner
	switch {
	case owner == nil:
		return NoPrefix
	case owner.IsPackageClass():
		return NewThisType(owner)
	case owner.IsClass():
		return NewThisType(owner)
	}
	return NoPrefix
}

// BaseClasses returns s followed by every class it derives from,
// in depth-first declaration order without duplicates.
func (s *Symbol) BaseClasses() []*Symbol {
	if !s.IsClass() {
		return nil
	}
	seen := set.New[*Symbol](8)
	var order []*Symbol
	var walk func(c *Symbol)
	walk = func(c *Symbol) {
		if c == nil || !seen.Insert(c) {
			return
		}
		order = append(order, c)
		ci, ok := c.Info().(*ClassInfoType)
		if !ok {
			return
		}
		for _, p := range ci.parents {
			walk(TypeSymbol(p))
		}
	}
	walk(s)
	return order
}

// IsNonBottomSubClass reports whether s is other or derives from it.
// Nothing and Null are not considered subclasses of anything but themselves.
func (s *Symbol) IsNonBottomSubClass(other *Symbol) bool {
	if s == nil || other == nil {
		return false
	}
	if s == other {
		return true
	}
	for _, c := range s.BaseClasses() {
		if c == other {
			return true
		}
	}
	return false
}

// IsSubClass is IsNonBottomSubClass extended with the bottom classes:
// Nothing is a subclass of every class and Null of every reference class.
func (s *Symbol) IsSubClass(other *Symbol) bool {
	switch s {
	case NothingClass:
		return other.IsClass()
	case NullClass:
		if other.IsClass() && !other.IsNonBottomSubClass(AnyValClass) {
			return true
		}
	}
	return s.IsNonBottomSubClass(other)
}

// Package decl reads declaration files: YAML documents that describe a
// package of classes, their type parameters, parents and members. Type
// expressions stay textual here; the checker parses and resolves them.
package decl

import "github.com/you-not-fish/erasure/internal/syntax"

// Class kinds.
const (
	KindClass  = "class"
	KindTrait  = "trait"
	KindObject = "object"
)

// Member kinds.
const (
	MemberVal   = "val"   // field or value
	MemberDef   = "def"   // method; the type is a method or polymorphic type
	MemberType  = "type"  // abstract type member with bounds
	MemberAlias = "alias" // type alias
	MemberClass = "class" // nested class described by Body
)

// Loc is a line and column in the declaration file, both 1-based.
type Loc struct {
	Line, Col int
}

// File is a decoded declaration file.
type File struct {
	Path    string   `yaml:"-"`
	Package string   `yaml:"package" validate:"required,ident"`
	Foreign bool     `yaml:"foreign"`
	Classes []*Class `yaml:"classes" validate:"-"`

	Loc Loc `yaml:"-"`
}

// Class describes a class, trait or object.
type Class struct {
	Name       string    `yaml:"name" validate:"required,ident"`
	Kind       string    `yaml:"kind" validate:"omitempty,oneof=class trait object"`
	Foreign    *bool     `yaml:"foreign"`
	Value      bool      `yaml:"value"`
	Abstract   bool      `yaml:"abstract"`
	TypeParams []string  `yaml:"typeParams" validate:"dive,required"`
	Parents    []string  `yaml:"parents" validate:"dive,required"`
	Members    []*Member `yaml:"members" validate:"-"`

	Loc           Loc   `yaml:"-"`
	TypeParamLocs []Loc `yaml:"-"`
	ParentLocs    []Loc `yaml:"-"`
}

// Member describes a member of a class.
type Member struct {
	Name   string `yaml:"name" validate:"required,ident|eq=<init>"`
	Kind   string `yaml:"kind" validate:"required,oneof=val def type alias class"`
	Type   string `yaml:"type" validate:"required_if=Kind val,required_if=Kind def,required_if=Kind alias"`
	Bounds string `yaml:"bounds"`
	Body   *Class `yaml:"body" validate:"-"`

	Loc       Loc `yaml:"-"`
	TypeLoc   Loc `yaml:"-"`
	BoundsLoc Loc `yaml:"-"`
}

// IsForeign reports whether c is foreign-defined, falling back to the
// file's default provenance.
func (f *File) IsForeign(c *Class) bool {
	if c.Foreign != nil {
		return *c.Foreign
	}
	return f.Foreign
}

// Pos converts a location in f to a syntax position.
func (f *File) Pos(l Loc) syntax.Pos {
	if l.Line <= 0 {
		return syntax.NewPos(f.Path, 0, 0)
	}
	return syntax.NewPos(f.Path, uint32(l.Line), uint32(l.Col))
}

// Walk calls fn for every class in f, including nested classes, outer
// classes first. outer is nil for top-level classes.
func (f *File) Walk(fn func(c, outer *Class)) {
	var walk func(c, outer *Class)
	walk = func(c, outer *Class) {
		fn(c, outer)
		for _, m := range c.Members {
			if m.Kind == MemberClass && m.Body != nil {
				walk(m.Body, c)
			}
		}
	}
	for _, c := range f.Classes {
		walk(c, nil)
	}
}

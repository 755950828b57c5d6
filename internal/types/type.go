// Package types implements the type algebra consumed by the erasure stage.
// Types are immutable once constructed and may be shared between owners;
// transformations produce new types and return the receiver unchanged when
// nothing was rewritten.
package types

// Type is the interface implemented by all types.
type Type interface {
	// Underlying returns the type a proxy stands for.
	// For non-proxy types, returns the receiver.
	Underlying() Type

	// String returns a human-readable representation of the type.
	String() string

	// aType is a marker method to restrict implementations to this package.
	aType()
}

// SubType is implemented by proxy types that denote a subset of another
// type's values: singletons, constants, this-types and bounds.
type SubType interface {
	Type
	Supertype() Type
}

// typ is a base struct for all type implementations.
type typ struct{}

func (typ) aType() {}

// sentinel is a unique marker type such as NoType or the wildcard.
type sentinel struct {
	typ
	name string
}

func (s *sentinel) Underlying() Type { return s }
func (s *sentinel) String() string   { return s.name }

// Sentinel types.
var (
	// NoType is the absence of a type.
	NoType Type = &sentinel{name: "<notype>"}

	// NoPrefix is the prefix of references that have none,
	// such as type parameters.
	NoPrefix Type = &sentinel{name: "<noprefix>"}

	// ErrorType marks a type that failed to resolve.
	ErrorType Type = &sentinel{name: "<error>"}

	// WildcardType is the unconstrained placeholder used during inference.
	WildcardType Type = &sentinel{name: "?"}
)

// IsError reports whether t is the error marker.
func IsError(t Type) bool {
	return t == ErrorType
}

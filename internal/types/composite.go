package types

import (
	"strings"

	"github.com/you-not-fish/erasure/internal/syntax"
)

// PolyType is a type abstracted over type parameters: [T1, ..., Tn]Result.
type PolyType struct {
	typ
	tparams []*Symbol
	result  Type
}

// NewPolyType creates a polymorphic type.
func NewPolyType(tparams []*Symbol, result Type) *PolyType {
	return &PolyType{tparams: tparams, result: result}
}

func (t *PolyType) TypeParams() []*Symbol { return t.tparams }
func (t *PolyType) Result() Type          { return t.result }

// Underlying implements Type.
func (t *PolyType) Underlying() Type { return t }

// String implements Type.
func (t *PolyType) String() string {
	var buf strings.Builder
	buf.WriteByte('[')
	writeTypeParams(&buf, t.tparams)
	buf.WriteByte(']')
	buf.WriteString(t.result.String())
	return buf.String()
}

// ExistentialType is Underlying forSome { type T1; ...; type Tn }.
type ExistentialType struct {
	typ
	quantified []*Symbol
	underlying Type
}

// NewExistentialType creates an existential type.
func NewExistentialType(quantified []*Symbol, underlying Type) *ExistentialType {
	return &ExistentialType{quantified: quantified, underlying: underlying}
}

func (t *ExistentialType) Quantified() []*Symbol { return t.quantified }

// Underlying implements Type: the quantified body.
func (t *ExistentialType) Underlying() Type { return t.underlying }

// String implements Type.
func (t *ExistentialType) String() string {
	var buf strings.Builder
	buf.WriteString(t.underlying.String())
	buf.WriteString(" forSome { ")
	for i, q := range t.quantified {
		if i > 0 {
			buf.WriteString("; ")
		}
		buf.WriteString("type ")
		writeTypeParam(&buf, q)
	}
	buf.WriteString(" }")
	return buf.String()
}

// MethodType is a method signature: (p1: T1, ..., pn: Tn)Result.
type MethodType struct {
	typ
	params []*Symbol
	result Type
}

// NewMethodType creates a method type.
func NewMethodType(params []*Symbol, result Type) *MethodType {
	return &MethodType{params: params, result: result}
}

func (t *MethodType) Params() []*Symbol { return t.params }
func (t *MethodType) Result() Type      { return t.result }

// ParamTypes returns the types of the parameters.
func (t *MethodType) ParamTypes() []Type {
	ts := make([]Type, len(t.params))
	for i, p := range t.params {
		ts[i] = p.Info()
	}
	return ts
}

// Underlying implements Type.
func (t *MethodType) Underlying() Type { return t }

// String implements Type.
func (t *MethodType) String() string {
	var buf strings.Builder
	buf.WriteByte('(')
	for i, p := range t.params {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(p.name)
		buf.WriteString(": ")
		buf.WriteString(p.Info().String())
	}
	buf.WriteByte(')')
	buf.WriteString(t.result.String())
	return buf.String()
}

// RefinedType is an intersection of parents with optional extra members:
// P1 with ... with Pn { decls }.
type RefinedType struct {
	typ
	parents []Type
	decls   *Scope
	sym     *Symbol // synthetic refinement class
}

// NewRefinedType creates a refined type owned by owner.
// A synthetic refinement class symbol is created to stand for it.
func NewRefinedType(owner *Symbol, parents []Type, decls *Scope) *RefinedType {
	if decls == nil {
		decls = NewScope(nil, syntax.Pos{}, syntax.Pos{}, "refinement")
	}
	sym := NewSymbol(ClassSym, owner, syntax.Pos{}, "<refinement>", Refinement)
	sym.decls = decls
	t := &RefinedType{parents: parents, decls: decls, sym: sym}
	sym.info = NewClassInfoType(parents, decls, sym)
	return t
}

func (t *RefinedType) Parents() []Type  { return t.parents }
func (t *RefinedType) Decls() *Scope    { return t.decls }
func (t *RefinedType) Symbol() *Symbol  { return t.sym }
func (t *RefinedType) Underlying() Type { return t }

// String implements Type.
func (t *RefinedType) String() string {
	var buf strings.Builder
	writeParents(&buf, t.parents)
	if t.decls.Len() > 0 {
		buf.WriteString(" { ")
		for i, d := range t.decls.Symbols() {
			if i > 0 {
				buf.WriteString("; ")
			}
			buf.WriteString(d.name)
			buf.WriteString(": ")
			buf.WriteString(d.Info().String())
		}
		buf.WriteString(" }")
	}
	return buf.String()
}

// ClassInfoType describes a class's own parents and members.
type ClassInfoType struct {
	typ
	parents []Type
	decls   *Scope
	class   *Symbol
}

// NewClassInfoType creates the info of class cls.
func NewClassInfoType(parents []Type, decls *Scope, cls *Symbol) *ClassInfoType {
	return &ClassInfoType{parents: parents, decls: decls, class: cls}
}

func (t *ClassInfoType) Parents() []Type  { return t.parents }
func (t *ClassInfoType) Decls() *Scope    { return t.decls }
func (t *ClassInfoType) Class() *Symbol   { return t.class }
func (t *ClassInfoType) Underlying() Type { return t }

// String implements Type.
func (t *ClassInfoType) String() string {
	var buf strings.Builder
	buf.WriteString(t.class.name)
	if len(t.parents) > 0 {
		buf.WriteString(" extends ")
		writeParents(&buf, t.parents)
	}
	return buf.String()
}

func writeParents(buf *strings.Builder, parents []Type) {
	for i, p := range parents {
		if i > 0 {
			buf.WriteString(" with ")
		}
		buf.WriteString(p.String())
	}
}

// TypeBounds are the bounds >: Lo <: Hi of an abstract type.
type TypeBounds struct {
	typ
	lo, hi Type
}

// NewTypeBounds creates bounds; nil bounds default to Nothing and Any.
func NewTypeBounds(lo, hi Type) *TypeBounds {
	if lo == nil {
		lo = NothingType
	}
	if hi == nil {
		hi = AnyType
	}
	return &TypeBounds{lo: lo, hi: hi}
}

// EmptyBounds returns >: Nothing <: Any.
func EmptyBounds() *TypeBounds {
	return NewTypeBounds(NothingType, AnyType)
}

func (t *TypeBounds) Lo() Type { return t.lo }
func (t *TypeBounds) Hi() Type { return t.hi }

// Supertype implements SubType: the upper bound.
func (t *TypeBounds) Supertype() Type { return t.hi }

// Underlying implements Type.
func (t *TypeBounds) Underlying() Type { return t.hi }

// String implements Type.
func (t *TypeBounds) String() string {
	var buf strings.Builder
	writeBounds(&buf, t)
	return strings.TrimSpace(buf.String())
}

func writeBounds(buf *strings.Builder, b *TypeBounds) {
	if b.lo != NothingType && !isRef(b.lo, NothingClass) {
		buf.WriteString(" >: ")
		buf.WriteString(b.lo.String())
	}
	if b.hi != AnyType && !isRef(b.hi, AnyClass) {
		buf.WriteString(" <: ")
		buf.WriteString(b.hi.String())
	}
}

func isRef(t Type, sym *Symbol) bool {
	r, ok := t.(*TypeRef)
	return ok && r.sym == sym
}

func writeTypeParam(buf *strings.Builder, tp *Symbol) {
	buf.WriteString(tp.name)
	if b, ok := tp.Info().(*TypeBounds); ok {
		writeBounds(buf, b)
	}
}

func writeTypeParams(buf *strings.Builder, tparams []*Symbol) {
	for i, tp := range tparams {
		if i > 0 {
			buf.WriteString(", ")
		}
		writeTypeParam(buf, tp)
	}
}

// AnnotatedType is an underlying type carrying annotations: T @a @b.
type AnnotatedType struct {
	typ
	annots     []string
	underlying Type
}

// NewAnnotatedType creates an annotated type.
func NewAnnotatedType(annots []string, underlying Type) *AnnotatedType {
	return &AnnotatedType{annots: annots, underlying: underlying}
}

func (t *AnnotatedType) Annotations() []string { return t.annots }
func (t *AnnotatedType) Underlying() Type      { return t.underlying }

// String implements Type.
func (t *AnnotatedType) String() string {
	var buf strings.Builder
	buf.WriteString(t.underlying.String())
	for _, a := range t.annots {
		buf.WriteString(" @")
		buf.WriteString(a)
	}
	return buf.String()
}

// BoundedWildcardType is an inference placeholder constrained by bounds.
type BoundedWildcardType struct {
	typ
	bounds *TypeBounds
}

// NewBoundedWildcardType creates a bounded wildcard.
func NewBoundedWildcardType(bounds *TypeBounds) *BoundedWildcardType {
	return &BoundedWildcardType{bounds: bounds}
}

func (t *BoundedWildcardType) Bounds() *TypeBounds { return t.bounds }
func (t *BoundedWildcardType) Underlying() Type    { return t }

// String implements Type.
func (t *BoundedWildcardType) String() string {
	var buf strings.Builder
	buf.WriteByte('?')
	writeBounds(&buf, t.bounds)
	return buf.String()
}

// ErasedValueType stands for a derived value class whose representation is
// its underlying erasure. It exists only between the erasure and
// posterasure passes.
type ErasedValueType struct {
	typ
	valueClass *Symbol
	underlying Type
}

// NewErasedValueType creates the placeholder for value class cls.
func NewErasedValueType(cls *Symbol, underlying Type) *ErasedValueType {
	return &ErasedValueType{valueClass: cls, underlying: underlying}
}

func (t *ErasedValueType) ValueClass() *Symbol { return t.valueClass }

// Underlying implements Type: the erased underlying representation.
func (t *ErasedValueType) Underlying() Type { return t.underlying }

// String implements Type.
func (t *ErasedValueType) String() string {
	return "ErasedValueType(" + t.valueClass.name + ", " + t.underlying.String() + ")"
}

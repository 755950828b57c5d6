package erasure

import "github.com/you-not-fish/erasure/internal/types"

// ValueClassIsParametric reports whether the underlying field of value
// class cls mentions one of the class's type parameters.
// It must not be called once types are erased.
func (e *Eraser) ValueClassIsParametric(cls *types.Symbol) bool {
	e.assertNotErased("ValueClassIsParametric", cls)
	return types.Mentions(unboxOf(cls).Info(), cls.TypeParams())
}

// UnderlyingOfValueClass returns the declared type of the underlying field
// of value class cls.
// It must not be called once types are erased.
func (e *Eraser) UnderlyingOfValueClass(cls *types.Symbol) types.Type {
	e.assertNotErased("UnderlyingOfValueClass", cls)
	return types.ResultType(unboxOf(cls).Info())
}

// erasedValueClassArg returns the erasure of the underlying field of the
// value class ref refers to, as seen from ref.
func (e *Eraser) erasedValueClassArg(ref *types.TypeRef) types.Type {
	cls := ref.Symbol()
	if e.ValueClassIsParametric(cls) {
		underlying := types.ResultType(types.MemberType(ref, unboxOf(cls)))
		return e.boxing.Apply(underlying)
	}
	return e.foreign.Apply(e.UnderlyingOfValueClass(cls))
}

func (e *Eraser) assertNotErased(op string, cls *types.Symbol) {
	if p := e.phase(); p.ErasedTypes() {
		internalErrorf(op, "value class %s queried at phase %s", cls.Name(), p)
	}
}

func unboxOf(cls *types.Symbol) *types.Symbol {
	if !cls.IsDerivedValueClass() {
		internalErrorf("unboxOf", "%s is not a value class", cls)
	}
	unbox := cls.ValueClassUnbox()
	if unbox == nil {
		internalErrorf("unboxOf", "value class %s has no underlying field", cls.Name())
	}
	return unbox
}

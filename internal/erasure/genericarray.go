package erasure

import "github.com/you-not-fish/erasure/internal/types"

// GenericArray reports whether t denotes Array[...Array[T]...] for an
// abstract type T whose instances are not known to be foreign-defined.
// It returns T and the number of array levels around it.
func GenericArray(t types.Type) (core types.Type, level int, ok bool) {
	switch tt := types.DealiasWiden(t).(type) {
	case *types.TypeRef:
		args := tt.Args()
		if tt.Symbol() != types.ArrayClass || len(args) != 1 {
			return nil, 0, false
		}
		if core := genericCore(args[0]); core != nil {
			return core, 1, true
		}
		if core, level, ok := GenericArray(args[0]); ok {
			return core, level + 1, true
		}
	case *types.ExistentialType:
		return GenericArray(tt.Underlying())
	}
	return nil, 0, false
}

// genericCore returns t, dealiased, if it is an abstract type that may be instantiated
// by source code, or nil. Existentially bound types always qualify.
func genericCore(t types.Type) types.Type {
	switch tt := types.DealiasWiden(t).(type) {
	case *types.TypeRef:
		sym := tt.Symbol()
		if sym.IsAbstractType() && (!sym.Owner().IsForeignDefined() || sym.HasFlag(types.Existential)) {
			return tt
		}
	case *types.ExistentialType:
		return genericCore(tt.Underlying())
	}
	return nil
}

// UnboundedGenericArrayLevel returns the array depth of a generic array
// whose element type may be instantiated with a primitive type, or 0.
// Refinements are probed through their dominator.
func UnboundedGenericArrayLevel(t types.Type) int {
	if core, level, ok := GenericArray(t); ok {
		if !types.IsSubType(core, types.AnyRefType) && !types.Identical(types.UpperBound(core), types.ObjectType) {
			return level
		}
		return 0
	}
	if rt, ok := t.(*types.RefinedType); ok && len(rt.Parents()) > 0 {
		return UnboundedGenericArrayLevel(Dominator(rt.Parents()))
	}
	return 0
}

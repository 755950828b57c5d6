package types

// Identical reports whether x and y are identical types (x =:= y).
func Identical(x, y Type) bool {
	if x == y {
		return true
	}
	if x == nil || y == nil {
		return false
	}
	return identical(x, y)
}

func identical(x, y Type) bool {
	switch x := x.(type) {
	case *TypeRef:
		if y, ok := y.(*TypeRef); ok {
			return x.sym == y.sym && Identical(x.pre, y.pre) && identicalLists(x.args, y.args)
		}
	case *ThisType:
		if y, ok := y.(*ThisType); ok {
			return x.sym == y.sym
		}
	case *SingleType:
		if y, ok := y.(*SingleType); ok {
			return x.sym == y.sym && Identical(x.pre, y.pre)
		}
	case *ConstantType:
		if y, ok := y.(*ConstantType); ok {
			return sameConstant(x.value, y.value)
		}
	case *PolyType:
		if y, ok := y.(*PolyType); ok {
			return identicalBinders(x.tparams, y.tparams, x.result, y.result)
		}
	case *ExistentialType:
		if y, ok := y.(*ExistentialType); ok {
			return identicalBinders(x.quantified, y.quantified, x.underlying, y.underlying)
		}
	case *MethodType:
		if y, ok := y.(*MethodType); ok {
			return identicalMethods(x, y)
		}
	case *RefinedType:
		if y, ok := y.(*RefinedType); ok {
			return identicalLists(x.parents, y.parents) && identicalDecls(x.decls, y.decls)
		}
	case *ClassInfoType:
		if y, ok := y.(*ClassInfoType); ok {
			return x.class == y.class && identicalLists(x.parents, y.parents)
		}
	case *TypeBounds:
		if y, ok := y.(*TypeBounds); ok {
			return Identical(x.lo, y.lo) && Identical(x.hi, y.hi)
		}
	case *AnnotatedType:
		if y, ok := y.(*AnnotatedType); ok {
			return sameStrings(x.annots, y.annots) && Identical(x.underlying, y.underlying)
		}
	case *BoundedWildcardType:
		if y, ok := y.(*BoundedWildcardType); ok {
			return Identical(x.bounds, y.bounds)
		}
	case *ErasedValueType:
		if y, ok := y.(*ErasedValueType); ok {
			return x.valueClass == y.valueClass && Identical(x.underlying, y.underlying)
		}
	}
	return false
}

func identicalLists(xs, ys []Type) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		if !Identical(xs[i], ys[i]) {
			return false
		}
	}
	return true
}

// identicalBinders compares two bodies up to renaming of their binders.
func identicalBinders(xs, ys []*Symbol, xbody, ybody Type) bool {
	if len(xs) != len(ys) {
		return false
	}
	refs := make([]Type, len(xs))
	for i, x := range xs {
		refs[i] = NewTypeRef(NoPrefix, x, nil)
	}
	for i := range xs {
		xb, xok := xs[i].Info().(*TypeBounds)
		yb, yok := ys[i].Info().(*TypeBounds)
		if xok != yok || xok && !Identical(xb, Subst(yb, ys, refs)) {
			return false
		}
	}
	return Identical(xbody, Subst(ybody, ys, refs))
}

func identicalMethods(x, y *MethodType) bool {
	if len(x.params) != len(y.params) {
		return false
	}
	for i := range x.params {
		if !Identical(x.params[i].Info(), y.params[i].Info()) {
			return false
		}
	}
	return Identical(x.result, y.result)
}

func identicalDecls(x, y *Scope) bool {
	if x == y {
		return true
	}
	xs, ys := x.Symbols(), y.Symbols()
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		if xs[i].name != ys[i].name || !Identical(xs[i].Info(), ys[i].Info()) {
			return false
		}
	}
	return true
}

func sameStrings(x, y []string) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// IsSubType reports whether x conforms to y (x <:< y).
// Class arguments are compared invariantly; wildcards conform both ways.
func IsSubType(x, y Type) bool {
	if Identical(x, y) {
		return true
	}
	if x == WildcardType || y == WildcardType {
		return true
	}

	// Right-hand side shapes that decompose.
	switch yt := y.(type) {
	case *RefinedType:
		for _, p := range yt.parents {
			if !IsSubType(x, p) {
				return false
			}
		}
		return true
	case *AnnotatedType:
		return IsSubType(x, yt.underlying)
	case *ExistentialType:
		return IsSubType(x, yt.underlying)
	case *BoundedWildcardType:
		return IsSubType(x, yt.bounds.hi)
	case *TypeRef:
		switch {
		case yt.sym == AnyClass:
			return true
		case yt.sym.IsAliasType():
			return IsSubType(x, dealias(yt))
		case yt.sym.IsAbstractType():
			if xr, ok := x.(*TypeRef); ok && xr.sym == yt.sym {
				return true
			}
			if b, ok := yt.sym.Info().(*TypeBounds); ok && TypeSymbol(b.lo) != NothingClass {
				if IsSubType(x, AsSeenFrom(b.lo, yt.pre, yt.sym.owner)) {
					return true
				}
			}
		}
	}

	// Left-hand side shapes.
	switch xt := x.(type) {
	case *TypeRef:
		switch {
		case xt.sym == NothingClass:
			return true
		case xt.sym.IsAliasType():
			return IsSubType(dealias(xt), y)
		case xt.sym.IsAbstractType():
			return IsSubType(UpperBound(xt), y)
		case xt.sym.IsClass():
			return isSubClassRef(xt, y)
		}
	case *RefinedType:
		for _, p := range xt.parents {
			if IsSubType(p, y) {
				return true
			}
		}
	case *ExistentialType:
		return IsSubType(xt.underlying, y)
	case *AnnotatedType:
		return IsSubType(xt.underlying, y)
	case *ErasedValueType:
		return IsSubType(xt.underlying, y)
	case SubType:
		if sup := xt.Supertype(); sup != NoType {
			return IsSubType(sup, y)
		}
	}
	return false
}

func isSubClassRef(x *TypeRef, y Type) bool {
	yr, ok := y.(*TypeRef)
	if !ok || !yr.sym.IsClass() {
		return false
	}
	if x.sym == NullClass {
		return NullClass.IsSubClass(yr.sym)
	}
	base, ok := BaseType(x, yr.sym).(*TypeRef)
	if !ok {
		return false
	}
	if len(yr.args) == 0 || len(base.args) != len(yr.args) {
		return true
	}
	for i := range yr.args {
		if !conformsArg(base.args[i], yr.args[i]) {
			return false
		}
	}
	return true
}

func conformsArg(x, y Type) bool {
	switch yt := y.(type) {
	case *BoundedWildcardType:
		return IsSubType(x, yt.bounds.hi) && IsSubType(yt.bounds.lo, x)
	case *TypeRef:
		if yt.sym.HasFlag(Existential) {
			return true
		}
	}
	if y == WildcardType {
		return true
	}
	return Identical(x, y)
}

// IsValueType reports whether t denotes a primitive value class.
func IsValueType(t Type) bool {
	return TypeSymbol(t).IsPrimitiveValueClass()
}

// IsReferenceType reports whether t conforms to AnyRef.
func IsReferenceType(t Type) bool {
	return IsSubType(t, ObjectType)
}

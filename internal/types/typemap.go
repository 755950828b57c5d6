package types

// Map applies f to the immediate components of t and rebuilds t only if
// some component changed; otherwise t itself is returned.
func Map(t Type, f func(Type) Type) Type {
	switch t := t.(type) {
	case *TypeRef:
		pre := f(t.pre)
		args, changed := mapTypes(t.args, f)
		if pre == t.pre && !changed {
			return t
		}
		return NewTypeRef(pre, t.sym, args)

	case *SingleType:
		if pre := f(t.pre); pre != t.pre {
			return NewSingleType(pre, t.sym)
		}

	case *PolyType:
		if result := f(t.result); result != t.result {
			return NewPolyType(t.tparams, result)
		}

	case *ExistentialType:
		if u := f(t.underlying); u != t.underlying {
			return NewExistentialType(t.quantified, u)
		}

	case *MethodType:
		params, changed := MapParams(t.params, f)
		result := f(t.result)
		if changed || result != t.result {
			return NewMethodType(params, result)
		}

	case *RefinedType:
		if parents, changed := mapTypes(t.parents, f); changed {
			return NewRefinedType(t.sym.owner, parents, t.decls)
		}

	case *ClassInfoType:
		if parents, changed := mapTypes(t.parents, f); changed {
			return NewClassInfoType(parents, t.decls, t.class)
		}

	case *TypeBounds:
		lo, hi := f(t.lo), f(t.hi)
		if lo != t.lo || hi != t.hi {
			return NewTypeBounds(lo, hi)
		}

	case *AnnotatedType:
		if u := f(t.underlying); u != t.underlying {
			return NewAnnotatedType(t.annots, u)
		}

	case *BoundedWildcardType:
		lo, hi := f(t.bounds.lo), f(t.bounds.hi)
		if lo != t.bounds.lo || hi != t.bounds.hi {
			return NewBoundedWildcardType(NewTypeBounds(lo, hi))
		}

	case *ErasedValueType:
		if u := f(t.underlying); u != t.underlying {
			return NewErasedValueType(t.valueClass, u)
		}
	}
	return t
}

func mapTypes(ts []Type, f func(Type) Type) ([]Type, bool) {
	var out []Type
	for i, t := range ts {
		t1 := f(t)
		if t1 != t && out == nil {
			out = make([]Type, len(ts))
			copy(out, ts[:i])
		}
		if out != nil {
			out[i] = t1
		}
	}
	if out == nil {
		return ts, false
	}
	return out, true
}

// MapParams applies f to the type of every parameter, cloning only the
// parameters whose type changed. The original slice is returned when
// nothing changed.
func MapParams(params []*Symbol, f func(Type) Type) ([]*Symbol, bool) {
	var out []*Symbol
	for i, p := range params {
		info := p.Info()
		info1 := f(info)
		if info1 != info && out == nil {
			out = make([]*Symbol, len(params))
			copy(out, params[:i])
		}
		if out != nil {
			if info1 != info {
				out[i] = p.CloneWithInfo(info1)
			} else {
				out[i] = p
			}
		}
	}
	if out == nil {
		return params, false
	}
	return out, true
}

// Exists reports whether pred holds for t or any type nested in it.
func Exists(t Type, pred func(Type) bool) bool {
	found := false
	var visit func(Type) Type
	visit = func(t Type) Type {
		if found {
			return t
		}
		if pred(t) {
			found = true
			return t
		}
		Map(t, visit)
		return t
	}
	visit(t)
	return found
}

// Mentions reports whether t refers to any of syms.
func Mentions(t Type, syms []*Symbol) bool {
	if len(syms) == 0 {
		return false
	}
	return Exists(t, func(t Type) bool {
		if r, ok := t.(*TypeRef); ok {
			for _, s := range syms {
				if r.sym == s {
					return true
				}
			}
		}
		return false
	})
}

// Subst replaces references to from[i] by to[i].
func Subst(t Type, from []*Symbol, to []Type) Type {
	if len(from) == 0 || len(from) != len(to) {
		return t
	}
	var sub func(Type) Type
	sub = func(t Type) Type {
		if r, ok := t.(*TypeRef); ok && len(r.args) == 0 {
			for i, s := range from {
				if r.sym == s {
					return to[i]
				}
			}
		}
		return Map(t, sub)
	}
	return sub(t)
}

// AsSeenFrom returns t, a type found in class clazz, as seen from the
// prefix pre: clazz's type parameters are replaced by the arguments of
// pre's base type at clazz.
func AsSeenFrom(t Type, pre Type, clazz *Symbol) Type {
	if !clazz.IsClass() || len(clazz.tparams) == 0 {
		return t
	}
	switch p := pre.(type) {
	case *sentinel:
		return t
	case *ThisType:
		if p.sym == clazz {
			return t
		}
	}
	base, ok := BaseType(pre, clazz).(*TypeRef)
	if !ok || len(base.args) != len(clazz.tparams) {
		return t
	}
	return Subst(t, clazz.tparams, base.args)
}

// MemberType returns the type of member as a member of pre.
func MemberType(pre Type, member *Symbol) Type {
	return AsSeenFrom(member.Info(), pre, member.Owner())
}

// ResultType strips method and polymorphic wrappers from t.
func ResultType(t Type) Type {
	for {
		switch tt := t.(type) {
		case *MethodType:
			t = tt.result
		case *PolyType:
			t = tt.result
		default:
			return t
		}
	}
}

// BaseType returns the reference to clazz that tp derives from, with
// type arguments substituted, or NoType.
func BaseType(tp Type, clazz *Symbol) Type {
	switch t := tp.(type) {
	case *TypeRef:
		sym := t.sym
		switch {
		case sym == clazz:
			return t
		case sym.IsAliasType():
			return BaseType(dealias(t), clazz)
		case sym.IsAbstractType():
			return BaseType(UpperBound(t), clazz)
		case sym.IsClass():
			for _, p := range classParents(t) {
				if bt := BaseType(p, clazz); bt != NoType {
					return bt
				}
			}
		}
	case *RefinedType:
		for _, p := range t.parents {
			if bt := BaseType(p, clazz); bt != NoType {
				return bt
			}
		}
	case *ExistentialType:
		return BaseType(t.underlying, clazz)
	case *AnnotatedType:
		return BaseType(t.underlying, clazz)
	case SubType:
		return BaseType(t.Supertype(), clazz)
	}
	return NoType
}

// classParents returns the parents of class reference t with the class's
// type parameters replaced by t's arguments.
func classParents(t *TypeRef) []Type {
	ci, ok := t.sym.Info().(*ClassInfoType)
	if !ok {
		return nil
	}
	if len(t.args) == 0 || len(t.args) != len(t.sym.tparams) {
		return ci.parents
	}
	ps := make([]Type, len(ci.parents))
	for i, p := range ci.parents {
		ps[i] = Subst(p, t.sym.tparams, t.args)
	}
	return ps
}

// dealias expands one level of a type alias reference.
func dealias(t *TypeRef) Type {
	rhs := Subst(t.sym.Info(), t.sym.tparams, t.args)
	return AsSeenFrom(rhs, t.pre, t.sym.owner)
}

// Dealias expands alias references at the top of t until none remains.
func Dealias(t Type) Type {
	for {
		r, ok := t.(*TypeRef)
		if !ok || !r.sym.IsAliasType() {
			return t
		}
		t = dealias(r)
	}
}

// DealiasWiden expands aliases and widens singleton, constant and
// this-types at the top of t.
func DealiasWiden(t Type) Type {
	for {
		switch tt := t.(type) {
		case *TypeRef:
			if tt.sym.IsAliasType() {
				t = dealias(tt)
				continue
			}
		case *SingleType:
			t = tt.Supertype()
			continue
		case *ConstantType:
			t = tt.Supertype()
			continue
		case *ThisType:
			if !tt.sym.IsPackageClass() {
				t = tt.Supertype()
				continue
			}
		}
		return t
	}
}

// UpperBound returns the upper bound of an abstract type reference or
// bounds, and t itself otherwise.
func UpperBound(t Type) Type {
	switch tt := t.(type) {
	case *TypeRef:
		if tt.sym.IsAbstractType() {
			if b, ok := tt.sym.Info().(*TypeBounds); ok {
				return AsSeenFrom(b.hi, tt.pre, tt.sym.owner)
			}
			return AnyType
		}
	case *TypeBounds:
		return tt.hi
	}
	return t
}

// TypeSymbol returns the symbol of the class or abstract type that t
// denotes, looking through aliases and proxies, or nil.
func TypeSymbol(t Type) *Symbol {
	switch tt := t.(type) {
	case *TypeRef:
		if tt.sym.IsAliasType() {
			return TypeSymbol(dealias(tt))
		}
		return tt.sym
	case *ThisType:
		return tt.sym
	case *RefinedType:
		return tt.sym
	case *ClassInfoType:
		return tt.class
	case *ErasedValueType:
		return tt.valueClass
	case *PolyType:
		return TypeSymbol(tt.result)
	case *ExistentialType:
		return TypeSymbol(tt.underlying)
	case *AnnotatedType:
		return TypeSymbol(tt.underlying)
	case SubType:
		return TypeSymbol(tt.Supertype())
	}
	return nil
}

// TypeArgs returns the type arguments of t after dealiasing.
func TypeArgs(t Type) []Type {
	switch tt := DealiasWiden(t).(type) {
	case *TypeRef:
		return tt.args
	case *ExistentialType:
		return TypeArgs(tt.underlying)
	case *AnnotatedType:
		return TypeArgs(tt.underlying)
	}
	return nil
}

// Parents returns the parent types of the class t refers to, or the
// parents of a refined type.
func Parents(t Type) []Type {
	switch tt := t.(type) {
	case *TypeRef:
		switch {
		case tt.sym.IsAliasType():
			return Parents(dealias(tt))
		case tt.sym.IsAbstractType():
			return Parents(UpperBound(tt))
		case tt.sym.IsClass():
			return classParents(tt)
		}
	case *RefinedType:
		return tt.parents
	case *ClassInfoType:
		return tt.parents
	case *ExistentialType:
		return Parents(tt.underlying)
	case *AnnotatedType:
		return Parents(tt.underlying)
	case SubType:
		return Parents(tt.Supertype())
	}
	return nil
}

// IsArrayType reports whether t denotes Array[...].
func IsArrayType(t Type) bool {
	return TypeSymbol(t) == ArrayClass
}

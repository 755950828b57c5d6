package erasure

import "github.com/you-not-fish/erasure/internal/types"

// magic classifies the symbols whose erased signature is not the output
// of the general erasure rule.
type magic int

const (
	magicNone             magic = iota
	magicIdentityCast           // Any.asInstanceOf
	magicSynchronized           // Object.synchronized and its value parameter
	magicSynchronizedTParam     // type parameter of Object.synchronized
	magicResultOnly             // Any.isInstanceOf, the Array class
	magicAbstractType           // type parameters and abstract type members
	magicArrayConstructor       // Array.<init>
	magicArrayApply             // Array.apply
	magicArrayUpdate            // Array.update
	magicArrayUpdateValue       // value parameter of Array.update
)

var magicNames = [...]string{
	magicNone:               "none",
	magicIdentityCast:       "identity cast",
	magicSynchronized:       "synchronized",
	magicSynchronizedTParam: "synchronized type parameter",
	magicResultOnly:         "result only",
	magicAbstractType:       "abstract type",
	magicArrayConstructor:   "array constructor",
	magicArrayApply:         "array apply",
	magicArrayUpdate:        "array update",
	magicArrayUpdateValue:   "array update value",
}

func (k magic) String() string {
	if int(k) < len(magicNames) {
		return magicNames[k]
	}
	return "magic(?)"
}

func classify(sym *types.Symbol) magic {
	owner := sym.Owner()
	switch {
	case sym == types.AnyAsInstanceOf:
		return magicIdentityCast
	case sym == types.ObjectSynchronized, owner == types.ObjectSynchronized && sym.IsTerm():
		return magicSynchronized
	case owner == types.ObjectSynchronized && sym.IsTypeParam():
		return magicSynchronizedTParam
	case sym == types.AnyIsInstanceOf, sym == types.ArrayClass:
		return magicResultOnly
	case sym.IsAbstractType():
		return magicAbstractType
	case sym.IsTerm() && owner == types.ArrayClass:
		switch {
		case sym.IsConstructor():
			return magicArrayConstructor
		case sym.Name() == "apply":
			return magicArrayApply
		case sym.Name() == "update":
			return magicArrayUpdate
		}
	case sym == types.ArrayUpdateValueParam():
		return magicArrayUpdateValue
	}
	return magicNone
}

// TransformInfo returns the erased info of sym, whose current info is t.
// A few predeclared symbols keep part or all of their type; everything
// else is erased by SpecialErasure.
func (e *Eraser) TransformInfo(sym *types.Symbol, t types.Type) types.Type {
	switch classify(sym) {
	case magicIdentityCast, magicSynchronized, magicArrayApply, magicArrayUpdateValue:
		return t

	case magicSynchronizedTParam:
		if b, ok := t.(*types.TypeBounds); ok {
			lo, hi := e.special.Apply(b.Lo()), e.special.Apply(b.Hi())
			if lo != b.Lo() || hi != b.Hi() {
				return types.NewTypeBounds(lo, hi)
			}
		}
		return t

	case magicResultOnly:
		tparams, result := sym.TypeParams(), t
		if pt, ok := t.(*types.PolyType); ok {
			tparams, result = pt.TypeParams(), pt.Result()
		}
		return types.NewPolyType(tparams, e.SpecialErasure(sym, result))

	case magicAbstractType:
		// The declared bounds are dropped rather than erased.
		return types.EmptyBounds()

	case magicArrayConstructor:
		mt, ok := t.(*types.MethodType)
		if !ok {
			internalErrorf("TransformInfo", "unexpected array constructor type %s", t)
		}
		res, ok := mt.Result().(*types.TypeRef)
		if !ok {
			internalErrorf("TransformInfo", "unexpected array constructor result %s", mt.Result())
		}
		params, _ := types.MapParams(mt.Params(), e.special.Apply)
		return types.NewMethodType(params, types.NewTypeRef(e.special.Apply(res.Prefix()), res.Symbol(), res.Args()))

	case magicArrayUpdate:
		mt, ok := t.(*types.MethodType)
		if !ok || len(mt.Params()) != 2 {
			internalErrorf("TransformInfo", "unexpected array update type %s", t)
		}
		index, value := mt.Params()[0], mt.Params()[1]
		index = index.CloneWithInfo(e.special.Apply(index.Info()))
		return types.NewMethodType([]*types.Symbol{index, value}, types.UnitType)
	}
	return e.SpecialErasure(sym, t)
}

// SpecialErasure erases t, the type of sym, as the erasure pass does:
// foreign-defined symbols use the foreign policy, constructors keep a raw
// reference to their class, and everything else uses the special policy.
func (e *Eraser) SpecialErasure(sym *types.Symbol, t types.Type) types.Type {
	switch {
	case sym != nil && sym.EnclosingClass().IsForeignDefined():
		return e.Erasure(sym).Apply(t)
	case sym.IsConstructor():
		return e.specialConstructorErasure(sym.Owner(), t)
	}
	return e.special.Apply(t)
}

// specialConstructorErasure erases the signature of a constructor of cls.
// The result becomes the raw class reference.
func (e *Eraser) specialConstructorErasure(cls *types.Symbol, t types.Type) types.Type {
	switch tt := t.(type) {
	case *types.PolyType:
		return e.specialConstructorErasure(cls, tt.Result())
	case *types.ExistentialType:
		return e.specialConstructorErasure(cls, tt.Underlying())
	case *types.MethodType:
		params, _ := types.MapParams(tt.Params(), e.special.Apply)
		return types.NewMethodType(params, e.specialConstructorErasure(cls, tt.Result()))
	}
	if ref, ok := types.Dealias(t).(*types.TypeRef); ok && ref.Symbol() == cls {
		if len(ref.Args()) == 0 {
			return ref
		}
		return types.NewTypeRef(ref.Prefix(), cls, nil)
	}
	if cls != types.ArrayClass && !types.IsError(t) {
		internalErrorf("specialConstructorErasure", "unexpected constructor erasure %s for %s", t, cls.Name())
	}
	return e.special.Apply(t)
}

// Erasure returns the map that erases the types of sym: the foreign
// policy when sym's enclosing class is foreign-defined, otherwise the
// source policy, or the special policy during the erasure pass. A nil sym
// selects the source side.
func (e *Eraser) Erasure(sym *types.Symbol) *Map {
	if sym == nil || !sym.EnclosingClass().IsForeignDefined() {
		if e.phase() == PhaseErasure {
			return e.special
		}
		return e.source
	}
	if e.verify && sym.IsMethod() {
		return &Map{e: e, name: e.foreign.name, policy: e.foreign.policy, verify: sym}
	}
	return e.foreign
}

// verified erases t with the foreign policy and logs when the source
// policy disagrees.
func (e *Eraser) verified(sym *types.Symbol, t types.Type) types.Type {
	res := e.foreign.Apply(t)
	old := e.source.Apply(t)
	if !types.Identical(res, old) {
		e.logger.Warn("foreign and source erasure diverge",
			"symbol", sym.FullName(),
			"source", old.String(),
			"foreign", res.String())
	}
	return res
}

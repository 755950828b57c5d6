// Package erasure translates types of the source type algebra into the
// erased types the native runtime's descriptors can encode.
//
// An Eraser owns four erasure maps that share one recursive dispatch and
// differ only in a policy: how the parents of an intersection are merged
// into a single type, how derived value classes are represented, and
// whether primitive types are boxed. TransformInfo is the per-symbol entry
// point used by the erasure pass.
package erasure

import (
	"log/slog"

	"github.com/you-not-fish/erasure/internal/types"
)

// Config configures an Eraser.
type Config struct {
	// Phase reports the current compiler phase.
	// If nil, PhaseTyper is assumed.
	Phase func() Phase

	// VerifyForeign erases the signatures of foreign-defined methods under
	// both the foreign and the source policy and logs any divergence.
	VerifyForeign bool

	// Logger receives divergence reports.
	// If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Eraser computes erasures. It is immutable after New and safe for
// concurrent use.
type Eraser struct {
	phase  func() Phase
	verify bool
	logger *slog.Logger

	source  *Map // intersection dominator, value classes as classes
	foreign *Map // first parent, value classes as classes
	special *Map // source policy, value classes as ErasedValueType
	boxing  *Map // source policy with boxed primitives
}

// New returns an Eraser for conf.
func New(conf Config) *Eraser {
	e := &Eraser{
		phase:  conf.Phase,
		verify: conf.VerifyForeign,
		logger: conf.Logger,
	}
	if e.phase == nil {
		e.phase = func() Phase { return PhaseTyper }
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	e.source = &Map{e: e, name: "source", policy: sourcePolicy{}}
	e.foreign = &Map{e: e, name: "foreign", policy: foreignPolicy{}}
	e.special = &Map{e: e, name: "special", policy: specialPolicy{}}
	e.boxing = &Map{e: e, name: "boxing", policy: sourcePolicy{}, box: true}
	return e
}

// Source returns the source-language erasure.
func (e *Eraser) Source() *Map { return e.source }

// Foreign returns the erasure of foreign-defined code.
func (e *Eraser) Foreign() *Map { return e.foreign }

// Special returns the erasure used by the erasure pass itself, which
// represents derived value classes as ErasedValueType placeholders.
func (e *Eraser) Special() *Map { return e.special }

// Boxing returns the source erasure that boxes primitive types outside
// array element positions.
func (e *Eraser) Boxing() *Map { return e.boxing }

// Policy returns the map with the given name.
func (e *Eraser) Policy(name string) (*Map, bool) {
	for _, m := range []*Map{e.source, e.foreign, e.special, e.boxing} {
		if m.name == name {
			return m, true
		}
	}
	return nil, false
}

// ----------------------------------------------------------------------------
// Policies

// policy holds the hooks in which the erasure maps differ.
type policy interface {
	// mergeParents picks the type an intersection of parents erases to.
	mergeParents(parents []types.Type) types.Type

	// eraseValueClassRef erases a reference to a derived value class.
	eraseValueClassRef(m *Map, ref *types.TypeRef, box bool) types.Type
}

type sourcePolicy struct{}

func (sourcePolicy) mergeParents(parents []types.Type) types.Type {
	return Dominator(parents)
}

func (sourcePolicy) eraseValueClassRef(m *Map, ref *types.TypeRef, box bool) types.Type {
	return m.eraseNormalClassRef(ref, box)
}

// foreignPolicy models single inheritance: an intersection is its first
// parent.
type foreignPolicy struct{}

func (foreignPolicy) mergeParents(parents []types.Type) types.Type {
	if len(parents) == 0 {
		return types.ObjectType
	}
	return parents[0]
}

func (foreignPolicy) eraseValueClassRef(m *Map, ref *types.TypeRef, box bool) types.Type {
	return m.eraseNormalClassRef(ref, box)
}

type specialPolicy struct{ sourcePolicy }

func (specialPolicy) eraseValueClassRef(m *Map, ref *types.TypeRef, _ bool) types.Type {
	return types.NewErasedValueType(ref.Symbol(), m.e.erasedValueClassArg(ref))
}

// ----------------------------------------------------------------------------
// Maps

// Map is one erasure variant.
type Map struct {
	e      *Eraser
	name   string
	policy policy
	box    bool // box primitive class references at the top level

	verify *types.Symbol // compare with source erasure and log for this symbol
}

// Name returns the policy name: source, foreign, special or boxing.
func (m *Map) Name() string { return m.name }

func (m *Map) String() string { return m.name + " erasure" }

// Apply returns the erasure of t. The result is t itself when erasure
// leaves it unchanged.
func (m *Map) Apply(t types.Type) types.Type {
	if m.verify != nil {
		return m.e.verified(m.verify, t)
	}
	return m.apply(t, m.box)
}

// apply erases t. box reports whether primitive class references are
// boxed; it is cleared inside array element positions and restored on
// return by virtue of being a parameter.
func (m *Map) apply(t types.Type, box bool) types.Type {
	switch t := t.(type) {
	case *types.ConstantType:
		// classOf[Unit] keeps Unit rather than becoming classOf[BoxedUnit].
		k := t.Value()
		if k.Tag() == types.ClazzTag && types.TypeSymbol(k.TypeValue()) != types.UnitClass {
			if tv := m.apply(k.TypeValue(), box); tv != k.TypeValue() {
				return types.NewConstantType(types.ClassLiteral(tv))
			}
		}
		return t

	case *types.ThisType:
		if t.Symbol().IsPackageClass() {
			return t
		}
		return m.apply(t.Supertype(), box)

	case *types.TypeRef:
		return m.eraseTypeRef(t, box)

	case *types.PolyType:
		return m.apply(t.Result(), box)

	case *types.ExistentialType:
		return m.apply(t.Underlying(), box)

	case *types.MethodType:
		params, changed := types.MapParams(t.Params(), func(t types.Type) types.Type {
			return m.apply(t, box)
		})
		var result types.Type
		if types.TypeSymbol(t.Result()) == types.UnitClass {
			result = types.UnitType
		} else {
			result = m.apply(t.Result(), box)
		}
		if !changed && result == t.Result() {
			return t
		}
		return types.NewMethodType(params, result)

	case *types.RefinedType:
		return m.apply(m.policy.mergeParents(t.Parents()), box)

	case *types.AnnotatedType:
		return m.apply(t.Underlying(), box)

	case *types.ClassInfoType:
		return m.eraseClassInfo(t, box)

	case *types.BoundedWildcardType:
		return t

	case types.SubType:
		return m.apply(t.Supertype(), box)
	}

	if t == types.WildcardType {
		return t
	}
	return types.Map(t, func(t types.Type) types.Type { return m.apply(t, box) })
}

// eraseTypeRef erases a reference to a named type.
func (m *Map) eraseTypeRef(ref *types.TypeRef, box bool) types.Type {
	sym := ref.Symbol()
	switch {
	case sym == types.ArrayClass:
		args := ref.Args()
		if UnboundedGenericArrayLevel(ref) == 1 {
			return types.ObjectType
		}
		if len(args) == 1 && types.TypeSymbol(args[0]).IsBottomClass() {
			return types.ArrayOf(types.ObjectType)
		}
		pre := m.apply(ref.Prefix(), box)
		args1, changed := mapTypes(args, m.applyInArray)
		if pre == ref.Prefix() && !changed {
			return ref
		}
		return types.NewTypeRef(pre, sym, args1)

	case sym == types.AnyClass, sym == types.AnyValClass, sym == types.SingletonClass:
		return types.ObjectType

	case sym == types.UnitClass:
		return types.BoxedUnitType

	case sym.IsRefinementClass():
		return m.apply(m.policy.mergeParents(types.Parents(ref)), box)

	case sym.IsDerivedValueClass():
		return m.policy.eraseValueClassRef(m, ref, box)

	case sym.IsClass():
		return m.eraseNormalClassRef(ref, box)
	}

	// Alias or abstract type: erase what it stands for.
	return m.apply(types.AsSeenFrom(sym.Info(), ref.Prefix(), sym.Owner()), box)
}

// eraseNormalClassRef drops the type arguments of a class reference and
// erases its prefix, rebound to the class that declares the referenced
// class.
func (m *Map) eraseNormalClassRef(ref *types.TypeRef, box bool) types.Type {
	sym := ref.Symbol()
	if box && sym.IsPrimitiveValueClass() {
		if boxed := types.BoxedClass(sym); boxed != nil {
			return boxed.TypeRef()
		}
	}
	pre := m.apply(rebindInnerClass(ref.Prefix(), sym), box)
	if pre == ref.Prefix() && len(ref.Args()) == 0 {
		return ref
	}
	return types.NewTypeRef(pre, sym, nil)
}

// applyInArray erases an array element type. Value classes use their
// plain class erasure whatever the policy, and primitives are never boxed.
func (m *Map) applyInArray(t types.Type) types.Type {
	if ref, ok := elemCore(t).(*types.TypeRef); ok && ref.Symbol().IsDerivedValueClass() {
		return m.eraseNormalClassRef(ref, false)
	}
	return m.apply(t, false)
}

// elemCore strips annotations and aliases at the top of t.
func elemCore(t types.Type) types.Type {
	for {
		switch tt := t.(type) {
		case *types.AnnotatedType:
			t = tt.Underlying()
		case *types.TypeRef:
			if !tt.Symbol().IsAliasType() {
				return t
			}
			t = types.Dealias(t)
		default:
			return t
		}
	}
}

// eraseClassInfo erases the parents of a class.
func (m *Map) eraseClassInfo(ci *types.ClassInfoType, box bool) types.Type {
	cls := ci.Class()
	parents := ci.Parents()

	var parents1 []types.Type
	switch {
	case len(parents) == 0 || cls == types.ObjectClass || cls == types.AnyClass || cls.IsPrimitiveValueClass():
		parents1 = nil
	case cls == types.ArrayClass:
		parents1 = []types.Type{types.ObjectType}
	default:
		erased, _ := mapTypes(parents, func(t types.Type) types.Type { return m.apply(t, box) })
		parents1 = erased
		if cls.IsTrait() && !cls.IsForeignDefined() {
			// The first parent of a trait is the normalized AnyRef.
			parents1 = []types.Type{types.ObjectType}
			for _, p := range erased[1:] {
				if types.TypeSymbol(p) != types.ObjectClass {
					parents1 = append(parents1, p)
				}
			}
		}
	}

	if sameTypes(parents, parents1) {
		return ci
	}
	return types.NewClassInfoType(parents1, ci.Decls(), cls)
}

// rebindInnerClass returns the prefix under which the erasure of a
// reference to cls is expressed: the type of the class that declares cls
// for nested classes, pre for top-level and local classes.
func rebindInnerClass(pre types.Type, cls *types.Symbol) types.Type {
	owner := cls.Owner()
	if owner == nil || owner.IsPackageClass() || !owner.IsClass() {
		return pre
	}
	return owner.TypeRef()
}

// mapTypes applies f to each of ts and reports whether any changed.
// The original slice is returned when none did.
func mapTypes(ts []types.Type, f func(types.Type) types.Type) ([]types.Type, bool) {
	var out []types.Type
	for i, t := range ts {
		t1 := f(t)
		if t1 != t && out == nil {
			out = make([]types.Type, len(ts))
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

func sameTypes(xs, ys []types.Type) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		if xs[i] != ys[i] {
			return false
		}
	}
	return true
}

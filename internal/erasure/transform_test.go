package erasure

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/you-not-fish/erasure/internal/types"
)

func TestClassify(t *testing.T) {
	syncTParam := types.ObjectSynchronized.TypeParams()[0]
	syncParam := types.ObjectSynchronized.Info().(*types.PolyType).Result().(*types.MethodType).Params()[0]

	tests := []struct {
		sym  *types.Symbol
		want magic
	}{
		{types.AnyAsInstanceOf, magicIdentityCast},
		{types.AnyIsInstanceOf, magicResultOnly},
		{types.ObjectSynchronized, magicSynchronized},
		{syncParam, magicSynchronized},
		{syncTParam, magicSynchronizedTParam},
		{types.ArrayClass, magicResultOnly},
		{types.ArrayClass.TypeParams()[0], magicAbstractType},
		{types.ArrayConstructor, magicArrayConstructor},
		{types.ArrayApply, magicArrayApply},
		{types.ArrayUpdate, magicArrayUpdate},
		{types.ArrayUpdateValueParam(), magicArrayUpdateValue},
		{types.ArrayLength, magicNone},
		{types.ObjectClass, magicNone},
	}
	for _, tt := range tests {
		t.Run(tt.sym.FullName(), func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.sym), "got %s", classify(tt.sym))
		})
	}
}

func TestTransformInfoPredeclared(t *testing.T) {
	e := New(atPhase(PhaseErasure))

	for _, sym := range []*types.Symbol{types.AnyAsInstanceOf, types.ObjectSynchronized, types.ArrayApply, types.ArrayUpdateValueParam()} {
		assert.Same(t, sym.Info(), e.TransformInfo(sym, sym.Info()), sym.Name())
	}

	tparam := types.ObjectSynchronized.TypeParams()[0]
	assert.Equal(t, "<: runtime.Object", e.TransformInfo(tparam, tparam.Info()).String())

	isInstanceOf := e.TransformInfo(types.AnyIsInstanceOf, types.AnyIsInstanceOf.Info())
	assert.Equal(t, "[T0]Boolean", isInstanceOf.String())

	arr := e.TransformInfo(types.ArrayClass, types.ArrayClass.Info())
	pt, ok := arr.(*types.PolyType)
	require.True(t, ok, "got %T", arr)
	assert.Equal(t, types.ArrayClass.TypeParams(), pt.TypeParams())
	assert.Same(t, types.ArrayClass.Info(), pt.Result())

	ctor := e.TransformInfo(types.ArrayConstructor, types.ArrayConstructor.Info())
	assert.Equal(t, "(_length: Int)Array[T]", ctor.String())

	update := e.TransformInfo(types.ArrayUpdate, types.ArrayUpdate.Info())
	assert.Equal(t, "(i: Int, x: T)Unit", update.String())
	mt := update.(*types.MethodType)
	assert.Same(t, types.ArrayUpdateValueParam(), mt.Params()[1])
	assert.Same(t, types.UnitType, mt.Result())

	assert.Equal(t, "()Int", e.TransformInfo(types.ArrayLength, types.ArrayLength.Info()).String())
}

// Abstract types and type parameters lose their bounds entirely rather
// than having them erased.
func TestTransformInfoDropsAbstractBounds(t *testing.T) {
	pkg := load(t, fixture)
	e := New(atPhase(PhaseErasure))
	box := class(t, pkg, "Box")

	elem := member(t, box, "Elem")
	require.Equal(t, "<: T", elem.Info().String())
	assert.Equal(t, "", e.TransformInfo(elem, elem.Info()).String())

	tparam := box.TypeParams()[0]
	require.Equal(t, "<: AnyRef", tparam.Info().String())
	assert.Equal(t, "", e.TransformInfo(tparam, tparam.Info()).String())
}

func TestTransformInfoMembers(t *testing.T) {
	pkg := load(t, fixture)
	e := New(atPhase(PhaseErasure))

	tests := []struct {
		class, member string
		want          string
	}{
		{"Cell", "get", "()runtime.Object"},
		{"Gen", "flat", "(xs: runtime.Object)runtime.Object"},
		{"Gen", "meters", "(xs: Array[test.Meter])ErasedValueType(Meter, Double)"},
		{"Gen", "viaAlias", "(xs: Array[test.Meter])Int"},
		{"Gen", "annotated", "(xs: Array[test.Meter], ys: Array[test.Meter])ErasedValueType(Meter, Double)"},
		{"Pair", "<init>", "(a: runtime.Object, b: runtime.Object)test.Pair"},
		{"Ext", "id", "(a: runtime.Object)runtime.Object"},
		{"Ext", "both", "(x: test.Named)Int"},
	}
	for _, tt := range tests {
		t.Run(tt.class+"."+tt.member, func(t *testing.T) {
			sym := member(t, class(t, pkg, tt.class), tt.member)
			assert.Equal(t, tt.want, e.TransformInfo(sym, sym.Info()).String())
		})
	}

	meter := class(t, pkg, "Meter")
	assert.Equal(t, "Meter extends runtime.Object", e.TransformInfo(meter, meter.Info()).String())
}

func TestConstructorErasure(t *testing.T) {
	pkg := load(t, fixture)
	e := New(atPhase(PhaseErasure))
	pair := class(t, pkg, "Pair")
	ctor := member(t, pair, "<init>")

	got := e.SpecialErasure(ctor, ctor.Info())
	mt, ok := got.(*types.MethodType)
	require.True(t, ok, "got %T", got)
	ref, ok := mt.Result().(*types.TypeRef)
	require.True(t, ok, "got %T", mt.Result())
	assert.Same(t, pair, ref.Symbol())
	assert.Empty(t, ref.Args())

	bad := func() (err error) {
		defer Recover(&err)
		e.SpecialErasure(ctor, types.NewMethodType(nil, types.IntType))
		return nil
	}
	assert.EqualError(t, bad(), "internal error: erasure.specialConstructorErasure: unexpected constructor erasure Int for Pair")
}

func TestTransformInfoArrayUpdateShape(t *testing.T) {
	e := New(atPhase(PhaseErasure))
	bad := func() (err error) {
		defer Recover(&err)
		e.TransformInfo(types.ArrayUpdate, types.NewMethodType(nil, types.UnitType))
		return nil
	}
	err := bad()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected array update type ()Unit")
}

func TestErasureSelection(t *testing.T) {
	pkg := load(t, fixture)
	phase := PhaseTyper
	e := New(Config{Phase: func() Phase { return phase }})
	cell := member(t, class(t, pkg, "Cell"), "get")
	id := member(t, class(t, pkg, "Ext"), "id")

	assert.Same(t, e.Source(), e.Erasure(cell))
	assert.Same(t, e.Source(), e.Erasure(nil))
	assert.Same(t, e.Foreign(), e.Erasure(id))

	phase = PhaseErasure
	assert.Same(t, e.Special(), e.Erasure(cell))
	assert.Same(t, e.Special(), e.Erasure(nil))
	assert.Same(t, e.Foreign(), e.Erasure(id))

	phase = PhasePostErasure
	assert.Same(t, e.Source(), e.Erasure(cell))
}

func TestVerifyForeign(t *testing.T) {
	pkg := load(t, fixture)
	var buf bytes.Buffer
	e := New(Config{
		Phase:         func() Phase { return PhaseErasure },
		VerifyForeign: true,
		Logger:        slog.New(slog.NewTextHandler(&buf, nil)),
	})
	ext := class(t, pkg, "Ext")

	both := member(t, ext, "both")
	m := e.Erasure(both)
	assert.NotSame(t, e.Foreign(), m)
	assert.Equal(t, "foreign", m.Name())
	assert.Equal(t, "(x: test.Named)Int", m.Apply(both.Info()).String())

	out := buf.String()
	assert.Contains(t, out, "foreign and source erasure diverge")
	assert.Contains(t, out, "symbol=test.Ext.both")
	assert.Contains(t, out, `source="(x: test.Base)Int"`)
	assert.Contains(t, out, `foreign="(x: test.Named)Int"`)

	buf.Reset()
	same := member(t, ext, "same")
	assert.Equal(t, "(x: test.Base)Int", e.Erasure(same).Apply(same.Info()).String())
	assert.Empty(t, buf.String())

	// Only methods are verified.
	assert.Same(t, e.Foreign(), e.Erasure(ext))
}

func TestErasureConcurrent(t *testing.T) {
	pkg := load(t, fixture)
	e := New(atPhase(PhaseErasure))

	var syms []*types.Symbol
	for _, cls := range pkg.Classes() {
		syms = append(syms, cls)
		syms = append(syms, cls.Decls().Symbols()...)
	}

	want := make([]string, len(syms))
	for i, sym := range syms {
		want[i] = e.TransformInfo(sym, sym.Info()).String()
	}

	var mu sync.Mutex
	var mismatches []string
	var g errgroup.Group
	for w := 0; w < 8; w++ {
		g.Go(func() error {
			for i, sym := range syms {
				if got := e.TransformInfo(sym, sym.Info()).String(); got != want[i] {
					mu.Lock()
					mismatches = append(mismatches, sym.FullName()+": "+got)
					mu.Unlock()
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Empty(t, mismatches, strings.Join(mismatches, "\n"))
}

package passes

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-not-fish/erasure/internal/decl"
	"github.com/you-not-fish/erasure/internal/erasure"
	"github.com/you-not-fish/erasure/internal/types"
	"github.com/you-not-fish/erasure/internal/types2"
)

const demo = `package: demo
classes:
  - name: Meter
    value: true
    members:
      - name: underlying
        kind: val
        type: Double
  - name: Box
    typeParams: [T]
    members:
      - name: get
        kind: def
        type: "()T"
      - name: all
        kind: def
        type: "(xs: Array[T])Array[Meter]"
      - name: scale
        kind: def
        type: "(m: Meter, by: Int)Meter"
`

func load(t *testing.T, src string) *types.Package {
	t.Helper()
	file, err := decl.Parse("demo.yaml", []byte(src))
	require.NoError(t, err)
	pkg, err := types2.Check(file, nil, nil)
	require.NoError(t, err)
	return pkg
}

func TestRunEmpty(t *testing.T) {
	u := NewUnit(load(t, demo))
	if err := Run(u, nil, Config{}); err != nil {
		t.Fatalf("Run with no passes: %v", err)
	}
}

func TestRunSinglePass(t *testing.T) {
	u := NewUnit(load(t, demo))

	called := false
	passes := []Pass{
		{Name: "test", Fn: func(*Unit) error { called = true; return nil }},
	}
	if err := Run(u, passes, Config{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !called {
		t.Error("pass was not called")
	}
}

func TestRunWithVerify(t *testing.T) {
	u := NewUnit(load(t, demo))
	passes := []Pass{
		{Name: "noop", Fn: func(*Unit) error { return nil }},
	}
	if err := Run(u, passes, Config{Verify: true}); err != nil {
		t.Fatalf("Run with verify: %v", err)
	}
}

func TestRunMultiplePasses(t *testing.T) {
	u := NewUnit(load(t, demo))

	var order []string
	var phases []erasure.Phase
	passes := []Pass{
		{Name: "first", Phase: erasure.PhaseTyper, Fn: func(u *Unit) error {
			order = append(order, "first")
			phases = append(phases, u.Clock.Phase())
			return nil
		}},
		{Name: "second", Phase: erasure.PhaseErasure, Fn: func(u *Unit) error {
			order = append(order, "second")
			phases = append(phases, u.Clock.Phase())
			return nil
		}},
	}
	if err := Run(u, passes, Config{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("pass order = %v, want [first second]", order)
	}
	assert.Equal(t, []erasure.Phase{erasure.PhaseTyper, erasure.PhaseErasure}, phases)
}

func TestRunStopsOnError(t *testing.T) {
	u := NewUnit(load(t, demo))
	ran := false
	passes := []Pass{
		{Name: "fail", Fn: func(*Unit) error { return assert.AnError }},
		{Name: "never", Fn: func(*Unit) error { ran = true; return nil }},
	}
	err := Run(u, passes, Config{})
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.True(t, strings.HasPrefix(err.Error(), "fail: "), err.Error())
	assert.False(t, ran)
}

func TestRunVerifyFailure(t *testing.T) {
	u := NewUnit(load(t, demo))
	passes := []Pass{
		{Name: "forget", Phase: erasure.PhaseErasure, Fn: func(*Unit) error { return nil }},
	}
	err := Run(u, passes, Config{Verify: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verify after forget: demo.Meter has no erased info at phase erasure")
}

func TestClockNeverMovesBack(t *testing.T) {
	var c Clock
	assert.Equal(t, erasure.PhaseTyper, c.Phase())
	c.Advance(erasure.PhasePostErasure)
	c.Advance(erasure.PhaseErasure)
	assert.Equal(t, erasure.PhasePostErasure, c.Phase())
}

func TestNewUnitOrder(t *testing.T) {
	u := NewUnit(load(t, demo))
	var names []string
	for _, sym := range u.Symbols {
		names = append(names, sym.FullName())
	}
	assert.Equal(t, []string{
		"demo.Meter",
		"demo.Meter.underlying",
		"demo.Box",
		"demo.Box.T",
		"demo.Box.get",
		"demo.Box.all",
		"demo.Box.scale",
	}, names)
}

func TestErasePipeline(t *testing.T) {
	d, err := NewDriver(Config{Verify: true, Workers: 2})
	require.NoError(t, err)

	u, err := d.Erase(load(t, demo), "")
	require.NoError(t, err)
	assert.Equal(t, erasure.PhasePostErasure, u.Clock.Phase())

	var buf bytes.Buffer
	Fprint(&buf, u)
	assert.Equal(t, strings.Join([]string{
		"demo.Meter: Meter extends runtime.Object",
		"demo.Meter.underlying: Double",
		"demo.Box: Box extends runtime.Object",
		"demo.Box.T: ",
		"demo.Box.get: ()runtime.Object",
		"demo.Box.all: (xs: runtime.Object)Array[demo.Meter]",
		"demo.Box.scale: (m: Double, by: Int)Double",
		"",
	}, "\n"), buf.String())
}

func TestEraseStopAfter(t *testing.T) {
	d, err := NewDriver(Config{})
	require.NoError(t, err)
	pkg := load(t, demo)

	u, err := d.Erase(pkg, ErasurePass)
	require.NoError(t, err)
	assert.Equal(t, erasure.PhaseErasure, u.Clock.Phase())
	scale := pkg.Scope().Lookup("Box").Decls().Lookup("scale")
	assert.Equal(t, "(m: ErasedValueType(Meter, Double), by: Int)ErasedValueType(Meter, Double)", u.Info(scale).String())

	_, err = d.Erase(pkg, "lambdalift")
	assert.EqualError(t, err, `unknown pass "lambdalift"`)
}

func TestEraseMemoizes(t *testing.T) {
	d, err := NewDriver(Config{CacheSize: 64})
	require.NoError(t, err)
	pkg := load(t, demo)

	first, err := d.Erase(pkg, "")
	require.NoError(t, err)
	hits := d.cache.Len()
	assert.Equal(t, len(first.Symbols), hits)

	second, err := d.Erase(pkg, "")
	require.NoError(t, err)
	assert.Equal(t, hits, d.cache.Len())
	for _, sym := range first.Symbols {
		assert.True(t, types.Identical(first.Info(sym), second.Info(sym)), sym.FullName())
	}
}

func TestVerifyRejectsPlaceholders(t *testing.T) {
	pkg := load(t, demo)
	u := NewUnit(pkg)
	meter := pkg.Scope().Lookup("Meter")
	for _, sym := range u.Symbols {
		u.Infos[sym] = types.NewErasedValueType(meter, types.DoubleType)
	}
	u.Clock.Advance(erasure.PhaseErasure)
	require.NoError(t, Verify(u))

	u.Clock.Advance(erasure.PhasePostErasure)
	err := Verify(u)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ErasedValueType survives posterasure")
}

func TestVerifyDuplicates(t *testing.T) {
	u := NewUnit(load(t, demo))
	u.Symbols = append(u.Symbols, u.Symbols[0])
	assert.EqualError(t, Verify(u), "demo.Meter listed twice")
}

func TestElimErasedValueTypes(t *testing.T) {
	pkg := load(t, demo)
	meter := pkg.Scope().Lookup("Meter")
	evt := types.NewErasedValueType(meter, types.DoubleType)

	assert.Same(t, types.DoubleType, ElimErasedValueTypes(evt))
	assert.Equal(t, "Array[Double]", ElimErasedValueTypes(types.ArrayOf(evt)).String())
	assert.Same(t, types.IntType, ElimErasedValueTypes(types.IntType))
}

func TestDump(t *testing.T) {
	var buf bytes.Buffer
	d, err := NewDriver(Config{DumpBefore: ErasurePass, DumpAfter: "*", DumpSymbol: "scale", Out: &buf})
	require.NoError(t, err)
	_, err = d.Erase(load(t, demo), "")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "--- before erasure (demo) ---\ndemo.Box.scale: (m: demo.Meter, by: Int)demo.Meter\n")
	assert.Contains(t, out, "--- after erasure (demo) ---\ndemo.Box.scale: (m: ErasedValueType(Meter, Double), by: Int)ErasedValueType(Meter, Double)\n")
	assert.Contains(t, out, "--- after posterasure (demo) ---\ndemo.Box.scale: (m: Double, by: Int)Double\n")
	assert.NotContains(t, out, "--- before posterasure")
	assert.NotContains(t, out, "demo.Box.get")
}

func TestDumpSpew(t *testing.T) {
	var buf bytes.Buffer
	d, err := NewDriver(Config{DumpAfter: PostErasurePass, DumpSymbol: "demo.Meter.underlying", Spew: true, Out: &buf})
	require.NoError(t, err)
	_, err = d.Erase(load(t, demo), "")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "demo.Meter.underlying:\n")
	assert.Contains(t, out, "(*types.TypeRef)")
}

func TestShouldDump(t *testing.T) {
	assert.True(t, shouldDump("*", "erasure"))
	assert.True(t, shouldDump("erasure", "erasure"))
	assert.False(t, shouldDump("", "erasure"))
	assert.False(t, shouldDump("posterasure", "erasure"))
}

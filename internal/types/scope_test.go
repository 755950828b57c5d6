package types

import (
	"testing"

	"github.com/you-not-fish/erasure/internal/syntax"
)

// Helper function to create a scope for testing
func testScope(parent *Scope, comment string) *Scope {
	return NewScope(parent, syntax.Pos{}, syntax.Pos{}, comment)
}

func TestScopeInsertAndLookup(t *testing.T) {
	scope := testScope(nil, "test")

	sym := NewValue(nil, syntax.Pos{}, "x", IntType)
	existing := scope.Insert(sym)

	if existing != nil {
		t.Errorf("Insert() returned non-nil for first insert")
	}

	found := scope.Lookup("x")
	if found != sym {
		t.Errorf("Lookup() did not return inserted symbol")
	}

	// Insert duplicate
	sym2 := NewValue(nil, syntax.Pos{}, "x", DoubleType)
	existing = scope.Insert(sym2)
	if existing != sym {
		t.Errorf("Insert() should return first symbol for duplicate")
	}
}

func TestScopeLookupParent(t *testing.T) {
	parent := testScope(nil, "parent")
	child := testScope(parent, "child")

	sym := NewValue(nil, syntax.Pos{}, "x", IntType)
	parent.Insert(sym)

	found, foundScope := child.LookupParent("x")
	if found != sym {
		t.Errorf("LookupParent() did not find parent's symbol")
	}
	if foundScope != parent {
		t.Errorf("LookupParent() returned wrong scope")
	}

	if child.Lookup("x") != nil {
		t.Errorf("Lookup() should not find parent's symbol")
	}
}

func TestScopeShadowing(t *testing.T) {
	parent := testScope(nil, "parent")
	child := testScope(parent, "child")

	parentSym := NewValue(nil, syntax.Pos{}, "x", IntType)
	parent.Insert(parentSym)

	childSym := NewValue(nil, syntax.Pos{}, "x", DoubleType)
	child.Insert(childSym)

	found, foundScope := child.LookupParent("x")
	if found != childSym {
		t.Errorf("LookupParent() should find child's shadowing symbol")
	}
	if foundScope != child {
		t.Errorf("LookupParent() should return child scope")
	}
}

func TestScopeInsertionOrder(t *testing.T) {
	scope := testScope(nil, "ordered")
	for _, name := range []string{"zeta", "alpha", "mid"} {
		scope.Insert(NewValue(nil, syntax.Pos{}, name, IntType))
	}

	var got []string
	for _, sym := range scope.Symbols() {
		got = append(got, sym.Name())
	}
	want := []string{"zeta", "alpha", "mid"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Symbols() order = %v, want %v", got, want)
		}
	}

	names := scope.Names()
	if names[0] != "alpha" || names[2] != "zeta" {
		t.Errorf("Names() = %v, want sorted", names)
	}
	if scope.Len() != 3 {
		t.Errorf("Len() = %d, want 3", scope.Len())
	}
}

func TestPackageScopeSeesPredeclared(t *testing.T) {
	pkg := NewPackage("demo")

	sym, _ := pkg.Scope().LookupParent("Int")
	if sym != IntClass {
		t.Errorf("lookup Int = %v, want lang Int", sym)
	}
	sym, _ = pkg.Scope().LookupParent("Object")
	if sym != ObjectClass {
		t.Errorf("lookup Object = %v, want runtime Object", sym)
	}
	sym, _ = pkg.Scope().LookupParent("Boolean")
	if sym != BooleanClass {
		t.Errorf("lookup Boolean = %v, want lang Boolean before the runtime box", sym)
	}
	if len(LangPackage.Decls().Children()) == 0 {
		t.Fatal("lang scope has no class scopes")
	}
	for _, c := range LangPackage.Decls().Children() {
		if c == pkg.Scope() {
			t.Errorf("user package scope registered in shared lang scope")
		}
	}
}

func TestScopeString(t *testing.T) {
	scope := testScope(nil, "test")
	scope.Insert(NewValue(nil, syntax.Pos{}, "x", IntType))

	want := "scope test {\n  x: Int\n}\n"
	if got := scope.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestScopeEnterOverloads(t *testing.T) {
	scope := testScope(nil, "class C")
	f1 := NewMethod(nil, syntax.Pos{}, "f", 0)
	f2 := NewMethod(nil, syntax.Pos{}, "f", 0)
	g := NewMethod(nil, syntax.Pos{}, "g", 0)
	scope.Enter(f1)
	scope.Enter(g)
	scope.Enter(f2)

	if scope.Lookup("f") != f1 {
		t.Errorf("Lookup(f) should return the first overload")
	}
	all := scope.LookupAll("f")
	if len(all) != 2 || all[0] != f1 || all[1] != f2 {
		t.Errorf("LookupAll(f) = %v, want [f1 f2]", all)
	}
	if scope.Len() != 3 {
		t.Errorf("Len() = %d, want 3", scope.Len())
	}
	if got := scope.LookupAll("h"); got != nil {
		t.Errorf("LookupAll(h) = %v, want nil", got)
	}
}

package syntax

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

// ----------------------------------------------------------------------------
// Test helpers

func parseType(t *testing.T, src string) Expr {
	t.Helper()
	x, err := ParseType(Pos{}, src, nil)
	if err != nil {
		t.Fatalf("ParseType(%q): %v", src, err)
	}
	if x == nil {
		t.Fatal("ParseType returned nil")
	}
	return x
}

func parseTypeWithErrors(src string) (Expr, []string) {
	var errs []string
	errh := func(pos Pos, msg string) {
		errs = append(errs, pos.String()+": "+msg)
	}
	x, _ := ParseType(Pos{}, src, errh)
	return x, errs
}

// ----------------------------------------------------------------------------
// Round trips through the canonical printer

func TestParseCanonical(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"name", "Int", "Int"},
		{"qualified", "runtime.Object", "runtime.Object"},
		{"applied", "Array[Int]", "Array[Int]"},
		{"nested applied", "Pair[ Array[A] ,runtime.String ]", "Pair[Array[A], runtime.String]"},
		{"singleton", "x.type", "x.type"},
		{"qualified singleton", "demo.Holder.x.type", "demo.Holder.x.type"},
		{"this", "this( demo.Outer )", "this(demo.Outer)"},
		{"class literal", "classOf[Array[Int]]", "classOf[Array[Int]]"},
		{"int literal", "42", "42"},
		{"negative literal", "-7", "-7"},
		{"long literal", "7L", "7L"},
		{"string literal", `"hi"`, `"hi"`},
		{"bool literal", "true", "true"},
		{"null literal", "null", "null"},
		{"unit literal", "()", "()"},
		{"unit in args", "Array[()]", "Array[()]"},
		{"wildcard", "Array[?]", "Array[?]"},
		{"compound", "A with B with C", "A with B with C"},
		{"refinement", "A with B { x: Int; y: Array[T] }", "A with B { x: Int; y: Array[T] }"},
		{"empty refinement", "AnyRef {}", "AnyRef { }"},
		{"annotated", "@unchecked @uV Array[T]", "@unchecked @uV Array[T]"},
		{"existential", "Array[T] forSome { type T <: AnyRef }", "Array[T] forSome { T <: AnyRef }"},
		{"existential two", "Pair[A, B] forSome { A; B >: Null <: AnyRef }", "Pair[A, B] forSome { A; B >: Null <: AnyRef }"},
		{"method", "(x: Int, y: Array[T])Unit", "(x: Int, y: Array[T])Unit"},
		{"nullary method", "()Int", "()Int"},
		{"curried method", "(x: Int)(y: Int)Long", "(x: Int)(y: Int)Long"},
		{"poly", "[T <: AnyRef, U](x: T)U", "[T <: AnyRef, U](x: T)U"},
		{"paren", "(A with B)", "(A with B)"},
		{"paren path", "(Pair[A, B] with C)", "(Pair[A, B] with C)"},
		{"comment", "Array[Int] // element type", "Array[Int]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := parseType(t, tt.src)
			if got := String(x); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			// The canonical form parses to the same canonical form.
			if again := String(parseType(t, String(x))); again != tt.want {
				t.Errorf("reparse = %q, want %q", again, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// Node shapes

func TestParseShapes(t *testing.T) {
	x := parseType(t, "Pair[Int, A with B]")
	app, ok := x.(*AppliedType)
	if !ok {
		t.Fatalf("got %T, want *AppliedType", x)
	}
	if n, ok := app.Type.(*Name); !ok || n.Value != "Pair" {
		t.Errorf("constructor = %s, want Pair", String(app.Type))
	}
	if len(app.Args) != 2 {
		t.Fatalf("got %d args, want 2", len(app.Args))
	}
	if c, ok := app.Args[1].(*CompoundType); !ok || len(c.Parents) != 2 || c.Refined {
		t.Errorf("second arg = %#v, want unrefined compound of two", app.Args[1])
	}

	x = parseType(t, "[T](x: T)T")
	poly, ok := x.(*PolyType)
	if !ok {
		t.Fatalf("got %T, want *PolyType", x)
	}
	m, ok := poly.Result.(*MethodType)
	if !ok {
		t.Fatalf("poly result %T, want *MethodType", poly.Result)
	}
	if len(m.Params) != 1 || m.Params[0].Name.Value != "x" {
		t.Errorf("params = %v", m.Params)
	}

	x = parseType(t, "a.b.c")
	sel, ok := x.(*SelectorExpr)
	if !ok || sel.Sel.Value != "c" {
		t.Fatalf("got %s (%T), want selector .c", String(x), x)
	}
	if inner, ok := sel.X.(*SelectorExpr); !ok || inner.Sel.Value != "b" {
		t.Errorf("qualifier = %s, want a.b", String(sel.X))
	}

	x = parseType(t, "-1L")
	lit, ok := x.(*BasicLit)
	if !ok || lit.Kind != LongLit || lit.Value != "-1" {
		t.Errorf("got %#v, want long literal -1", x)
	}
}

func TestParseTypeParamAndBounds(t *testing.T) {
	tp, err := ParseTypeParam(Pos{}, "B >: Null <: Comparable[B]", nil)
	if err != nil {
		t.Fatal(err)
	}
	if tp.Name.Value != "B" || String(tp.Lo) != "Null" || String(tp.Hi) != "Comparable[B]" {
		t.Errorf("got %s", String(tp))
	}

	tp, err = ParseTypeParam(Pos{}, "A", nil)
	if err != nil || tp.Lo != nil || tp.Hi != nil {
		t.Errorf("unbounded param: %v %v", String(tp), err)
	}

	b, err := ParseBounds(Pos{}, "<: AnyRef", nil)
	if err != nil || b.Lo != nil || String(b.Hi) != "AnyRef" {
		t.Errorf("bounds: %s %v", String(b), err)
	}
	if String(b) != "<: AnyRef" {
		t.Errorf("String(bounds) = %q", String(b))
	}

	b, err = ParseBounds(Pos{}, "", nil)
	if err != nil || b.Lo != nil || b.Hi != nil {
		t.Errorf("empty bounds: %s %v", String(b), err)
	}
}

// ----------------------------------------------------------------------------
// Errors

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string // first error
	}{
		{"empty", "", "1:1: expected type, found end of input"},
		{"unclosed args", "Array[Int", "1:10: expected ], found end of input"},
		{"trailing", "Int Long", "1:5: unexpected trailing input, found 'Long'"},
		{"missing param type", "(x: )Int", "1:5: expected type, found ')'"},
		{"bad minus", "-A", "1:2: expected numeric literal after '-', found 'A'"},
		{"missing binder", "A forSome { }", "1:13: expected identifier, found '}'"},
		{"dangling with", "A with", "1:7: expected type, found end of input"},
		{"this without path", "this()", "1:6: expected identifier, found ')'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := parseTypeWithErrors(tt.src)
			if len(errs) == 0 {
				t.Fatalf("no errors for %q", tt.src)
			}
			if errs[0] != tt.want {
				t.Errorf("first error = %q, want %q", errs[0], tt.want)
			}
		})
	}
}

func TestParseErrorPositionsAreRelative(t *testing.T) {
	base := NewPos("demo.yaml", 9, 13)
	_, err := ParseType(base, "Pair[Int,, Long]", nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	se, ok := err.(*SyntaxError)
	if !ok {
		t.Fatalf("error type %T, want *SyntaxError", err)
	}
	if se.Pos.String() != "demo.yaml:9:22" {
		t.Errorf("error at %s, want demo.yaml:9:22", se.Pos)
	}
	if !strings.HasPrefix(err.Error(), "demo.yaml:9:22: expected type") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestParseErrorLimit(t *testing.T) {
	src := "Pair[" + strings.Repeat(",", 40) + "]"
	_, errs := parseTypeWithErrors(src)
	if len(errs) > maxErrors+1 {
		t.Errorf("got %d errors, want at most %d", len(errs), maxErrors+1)
	}
	if last := errs[len(errs)-1]; !strings.Contains(last, "too many errors") {
		t.Errorf("last error = %q, want error limit notice", last)
	}
}

// ----------------------------------------------------------------------------
// Walk, Inspect and printers

func TestInspectNames(t *testing.T) {
	x := parseType(t, "@ann demo.Pair[A, B with C { x: D }] forSome { A <: E }")
	var got []string
	Inspect(x, func(n *Name) { got = append(got, n.Value) })
	want := "demo A B C D E"
	if strings.Join(got, " ") != want {
		t.Errorf("Inspect = %v, want %s", got, want)
	}
}

func TestWalkCountsNodes(t *testing.T) {
	x := parseType(t, "(x: Array[Int])Unit")
	count := 0
	Walk(x, func(Node) bool {
		count++
		return true
	})
	// MethodType, Field, Name x, AppliedType, Name Array, Name Int, Name Unit
	if count != 7 {
		t.Errorf("visited %d nodes, want 7", count)
	}

	count = 0
	Walk(x, func(n Node) bool {
		count++
		_, isMethod := n.(*MethodType)
		return !isMethod
	})
	if count != 1 {
		t.Errorf("pruned walk visited %d nodes, want 1", count)
	}
}

func TestFprint(t *testing.T) {
	var buf bytes.Buffer
	Fprint(&buf, parseType(t, "Array[Int]"))
	want := "AppliedType 1:1\n" +
		"  Type:\n" +
		"    Name Array 1:1\n" +
		"  Arg:\n" +
		"    Name Int 1:7\n"
	if buf.String() != want {
		t.Errorf("Fprint =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestFprintJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := FprintJSON(&buf, parseType(t, "A with B")); err != nil {
		t.Fatal(err)
	}
	var got map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if got["type"] != "CompoundType" {
		t.Errorf("type = %v, want CompoundType", got["type"])
	}
	parents, _ := got["parents"].([]interface{})
	if len(parents) != 2 {
		t.Errorf("parents = %v", got["parents"])
	}
	if _, ok := got["refinement"]; ok {
		t.Errorf("unrefined compound has refinement key")
	}
}

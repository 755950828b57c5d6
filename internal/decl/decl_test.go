package decl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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
    typeParams: ["T <: AnyRef"]
    parents: [AnyRef]
    members:
      - name: get
        kind: def
        type: "()T"
      - name: Elem
        kind: type
        bounds: "<: T"
      - name: Inner
        kind: class
        body:
          kind: trait
          members:
            - name: x
              kind: val
              type: Int
  - name: Ext
    kind: object
    foreign: true
`

func TestParse(t *testing.T) {
	f, err := Parse("demo.yaml", []byte(demo))
	require.NoError(t, err)

	assert.Equal(t, "demo", f.Package)
	assert.Equal(t, "demo.yaml", f.Path)
	require.Len(t, f.Classes, 3)

	meter := f.Classes[0]
	assert.Equal(t, KindClass, meter.Kind, "kind defaults to class")
	assert.True(t, meter.Value)
	assert.Equal(t, Loc{Line: 3, Col: 5}, meter.Loc)

	box := f.Classes[1]
	assert.Equal(t, []string{"T <: AnyRef"}, box.TypeParams)
	assert.Equal(t, []Loc{{Line: 10, Col: 19}}, box.TypeParamLocs)
	assert.Equal(t, []Loc{{Line: 11, Col: 15}}, box.ParentLocs)
	require.Len(t, box.Members, 3)

	get := box.Members[0]
	assert.Equal(t, MemberDef, get.Kind)
	assert.Equal(t, "()T", get.Type)
	assert.Equal(t, Loc{Line: 15, Col: 16}, get.TypeLoc, "quoted scalars start after the quote")

	elem := box.Members[1]
	assert.Equal(t, "<: T", elem.Bounds)
	assert.Equal(t, Loc{Line: 18, Col: 18}, elem.BoundsLoc)

	inner := box.Members[2].Body
	require.NotNil(t, inner)
	assert.Equal(t, "Inner", inner.Name, "nested class takes the member name")
	assert.Equal(t, KindTrait, inner.Kind)

	ext := f.Classes[2]
	assert.Equal(t, KindObject, ext.Kind)
	assert.True(t, f.IsForeign(ext))
	assert.False(t, f.IsForeign(box))

	assert.Equal(t, "package demo (4 classes) from demo.yaml", f.String())
}

func TestWalkOrder(t *testing.T) {
	f, err := Parse("demo.yaml", []byte(demo))
	require.NoError(t, err)

	var got []string
	f.Walk(func(c, outer *Class) {
		name := c.Name
		if outer != nil {
			name = outer.Name + "#" + name
		}
		got = append(got, name)
	})
	assert.Equal(t, []string{"Meter", "Box", "Box#Inner", "Ext"}, got)
}

func TestForeignDefault(t *testing.T) {
	src := `package: rt
foreign: true
classes:
  - name: A
  - name: B
    foreign: false
`
	f, err := Parse("rt.yaml", []byte(src))
	require.NoError(t, err)
	assert.True(t, f.IsForeign(f.Classes[0]))
	assert.False(t, f.IsForeign(f.Classes[1]))
}

func TestPos(t *testing.T) {
	f := &File{Path: "x.yaml"}
	assert.Equal(t, "x.yaml:3:7", f.Pos(Loc{Line: 3, Col: 7}).String())
	assert.False(t, f.Pos(Loc{}).IsValid())
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "empty",
			src:  "",
			want: "empty declaration file",
		},
		{
			name: "unknown file key",
			src:  "package: p\nclazzes: []\n",
			want: `line 2: unknown field "clazzes"`,
		},
		{
			name: "unknown class key",
			src:  "package: p\nclasses:\n  - name: A\n    parent: [B]\n",
			want: `line 4: unknown field "parent"`,
		},
		{
			name: "name inside body",
			src:  "package: p\nclasses:\n  - name: A\n    members:\n      - name: I\n        kind: class\n        body:\n          name: J\n",
			want: `line 8: unknown field "name"`,
		},
		{
			name: "class is not a mapping",
			src:  "package: p\nclasses:\n  - A\n",
			want: "line 3: expected a mapping",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("p.yaml", []byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "missing package",
			src:  "classes: []\n",
			want: []string{"p.yaml:1:1: file: package is required"},
		},
		{
			name: "bad identifiers",
			src:  "package: p\nclasses:\n  - name: 1A\n",
			want: []string{`p.yaml:3:5: class 1A: name "1A" is not an identifier`},
		},
		{
			name: "bad kind",
			src:  "package: p\nclasses:\n  - name: A\n    kind: struct\n",
			want: []string{"p.yaml:3:5: class A: kind must be one of: class trait object"},
		},
		{
			name: "redeclared class",
			src:  "package: p\nclasses:\n  - name: A\n  - name: A\n",
			want: []string{"p.yaml:4:5: class A redeclared"},
		},
		{
			name: "value class shape",
			src:  "package: p\nclasses:\n  - name: V\n    kind: trait\n    value: true\n",
			want: []string{
				"p.yaml:3:5: class V: only a class can be a value class",
				"p.yaml:3:5: class V: a value class must have exactly one val member, found 0",
			},
		},
		{
			name: "object type params",
			src:  "package: p\nclasses:\n  - name: O\n    kind: object\n    typeParams: [T]\n",
			want: []string{"p.yaml:3:5: class O: an object cannot have type parameters"},
		},
		{
			name: "member problems",
			src: `package: p
classes:
  - name: A
    members:
      - name: x
        kind: val
      - name: y
        kind: val
        type: Int
        bounds: "<: Int"
      - name: y
        kind: def
        type: "()Int"
      - name: y
        kind: val
        type: Int
      - name: C
        kind: class
      - name: <init>
        kind: val
        type: Unit
`,
			want: []string{
				"p.yaml:5:9: member A.x: type is required",
				"p.yaml:7:9: member A.y: bounds are only allowed on type members",
				"p.yaml:14:9: member A.y redeclared",
				"p.yaml:17:9: member A.C: missing body",
				"p.yaml:19:9: member A.<init>: a constructor must be a def",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("p.yaml", []byte(tt.src))
			require.Error(t, err)
			var list ErrorList
			require.ErrorAs(t, err, &list)
			got := make([]string, len(list))
			for i, e := range list {
				got[i] = e.Error()
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(demo), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, f.Path)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "read declaration file: "))
}

func TestErrorList(t *testing.T) {
	var l ErrorList
	assert.NoError(t, l.Err())
	assert.Equal(t, "no errors", l.Error())

	f := &File{Path: "a.yaml"}
	l = append(l, &Error{Pos: f.Pos(Loc{Line: 1, Col: 2}), Msg: "one"})
	assert.Equal(t, "a.yaml:1:2: one", l.Error())
	l = append(l, &Error{Pos: f.Pos(Loc{Line: 3, Col: 4}), Msg: "two"})
	assert.Equal(t, "a.yaml:1:2: one\na.yaml:3:4: two", l.Err().Error())
}

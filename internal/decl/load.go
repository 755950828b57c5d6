package decl

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Load reads, decodes and validates the declaration file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read declaration file")
	}
	return Parse(path, data)
}

// Parse decodes and validates a declaration file held in memory. path is
// used for positions only.
func Parse(path string, data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, errors.Errorf("%s: empty declaration file", path)
		}
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	f.Path = path

	applyDefaults(&f)

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	f.Walk(func(c, _ *Class) {
		if c.Kind == "" {
			c.Kind = KindClass
		}
	})
}

// Keys accepted in each mapping.
var (
	fileKeys   = []string{"package", "foreign", "classes"}
	classKeys  = []string{"name", "kind", "foreign", "value", "abstract", "typeParams", "parents", "members"}
	bodyKeys   = []string{"kind", "foreign", "value", "abstract", "typeParams", "parents", "members"}
	memberKeys = []string{"name", "kind", "type", "bounds", "body"}
)

type (
	rawFile  File
	rawClass Class
)

// UnmarshalYAML implements yaml.Unmarshaler, recording the document
// position and rejecting unknown keys.
func (f *File) UnmarshalYAML(node *yaml.Node) error {
	if err := checkKeys(node, fileKeys); err != nil {
		return err
	}
	if err := node.Decode((*rawFile)(f)); err != nil {
		return err
	}
	f.Loc = nodeLoc(node)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Class) UnmarshalYAML(node *yaml.Node) error {
	if err := checkKeys(node, classKeys); err != nil {
		return err
	}
	return c.decode(node)
}

func (c *Class) decode(node *yaml.Node) error {
	if err := node.Decode((*rawClass)(c)); err != nil {
		return err
	}
	c.Loc = nodeLoc(node)
	c.TypeParamLocs = itemLocs(lookup(node, "typeParams"))
	c.ParentLocs = itemLocs(lookup(node, "parents"))
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
// The body of a nested class takes its name from the member.
func (m *Member) UnmarshalYAML(node *yaml.Node) error {
	if err := checkKeys(node, memberKeys); err != nil {
		return err
	}
	body := lookup(node, "body")
	if body != nil {
		if err := checkKeys(body, bodyKeys); err != nil {
			return err
		}
	}

	// Decode the scalar fields; the body is decoded separately so that it
	// does not go through the class key check.
	var raw struct {
		Name   string `yaml:"name"`
		Kind   string `yaml:"kind"`
		Type   string `yaml:"type"`
		Bounds string `yaml:"bounds"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*m = Member{Name: raw.Name, Kind: raw.Kind, Type: raw.Type, Bounds: raw.Bounds}
	m.Loc = nodeLoc(node)
	m.TypeLoc = valueLoc(lookup(node, "type"))
	m.BoundsLoc = valueLoc(lookup(node, "bounds"))

	if body != nil {
		m.Body = &Class{}
		if err := m.Body.decode(body); err != nil {
			return err
		}
		m.Body.Name = m.Name
	}
	return nil
}

// checkKeys reports the first key of a mapping node not in allowed.
func checkKeys(node *yaml.Node, allowed []string) error {
	if node.Kind != yaml.MappingNode {
		return errors.Errorf("line %d: expected a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		if !contains(allowed, key.Value) {
			sorted := append([]string(nil), allowed...)
			sort.Strings(sorted)
			return errors.Errorf("line %d: unknown field %q (want one of %s)",
				key.Line, key.Value, strings.Join(sorted, ", "))
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// lookup returns the value node of key in a mapping node, or nil.
func lookup(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func nodeLoc(node *yaml.Node) Loc {
	return Loc{Line: node.Line, Col: node.Column}
}

// valueLoc returns the location of the first character of a scalar's
// value, skipping the opening quote of quoted scalars. Block scalars start
// on the following line.
func valueLoc(node *yaml.Node) Loc {
	if node == nil {
		return Loc{}
	}
	l := nodeLoc(node)
	switch {
	case node.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0:
		l.Col++
	case node.Style&(yaml.LiteralStyle|yaml.FoldedStyle) != 0:
		l = Loc{}
	}
	return l
}

func itemLocs(seq *yaml.Node) []Loc {
	if seq == nil || seq.Kind != yaml.SequenceNode {
		return nil
	}
	locs := make([]Loc, len(seq.Content))
	for i, item := range seq.Content {
		locs[i] = valueLoc(item)
	}
	return locs
}

// String renders a short summary of f, used in logs.
func (f *File) String() string {
	n := 0
	f.Walk(func(*Class, *Class) { n++ })
	return fmt.Sprintf("package %s (%d classes) from %s", f.Package, n, f.Path)
}

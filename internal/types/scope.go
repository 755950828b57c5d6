package types

import (
	"fmt"
	"sort"
	"strings"

	"github.com/you-not-fish/erasure/internal/syntax"
)

// Scope holds the declarations of a package or class.
// Scopes form a tree: a class scope's parent is its owner's scope and a
// package scope's parent is the predeclared lang scope.
type Scope struct {
	parent   *Scope
	children []*Scope
	elems    map[string]*Symbol
	order    []*Symbol // insertion order
	pos, end syntax.Pos
	comment  string // debugging comment (e.g., "class Pair", "package demo")
}

// NewScope creates a new scope with the given parent.
func NewScope(parent *Scope, pos, end syntax.Pos, comment string) *Scope {
	s := &Scope{
		parent:  parent,
		elems:   make(map[string]*Symbol),
		pos:     pos,
		end:     end,
		comment: comment,
	}
	if parent != nil {
		parent.children = append(parent.children, s)
	}
	return s
}

// Parent returns the parent scope, or nil for the root.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Children returns the list of child scopes.
func (s *Scope) Children() []*Scope {
	return s.children
}

// Comment returns the scope's comment (for debugging).
func (s *Scope) Comment() string {
	return s.comment
}

// Lookup returns the symbol with the given name in this scope only.
func (s *Scope) Lookup(name string) *Symbol {
	if s == nil {
		return nil
	}
	return s.elems[name]
}

// LookupParent searches from s up through all parent scopes.
// Returns (nil, nil) if not found.
func (s *Scope) LookupParent(name string) (*Symbol, *Scope) {
	for scope := s; scope != nil; scope = scope.parent {
		if sym := scope.elems[name]; sym != nil {
			return sym, scope
		}
	}
	return nil, nil
}

// Insert inserts sym into the scope.
// If a symbol with the same name already exists, returns the existing one.
// Otherwise, returns nil.
func (s *Scope) Insert(sym *Symbol) *Symbol {
	if existing := s.elems[sym.name]; existing != nil {
		return existing
	}
	s.elems[sym.name] = sym
	s.order = append(s.order, sym)
	return nil
}

// Enter adds sym to the scope even if its name is taken, as overloaded
// methods are. Lookup keeps returning the first symbol of a name.
func (s *Scope) Enter(sym *Symbol) {
	if s.elems[sym.name] == nil {
		s.elems[sym.name] = sym
	}
	s.order = append(s.order, sym)
}

// LookupAll returns every symbol named name in this scope, in insertion
// order.
func (s *Scope) LookupAll(name string) []*Symbol {
	if s == nil || s.elems[name] == nil {
		return nil
	}
	var syms []*Symbol
	for _, sym := range s.order {
		if sym.name == name {
			syms = append(syms, sym)
		}
	}
	return syms
}

// Symbols returns the scope's symbols in insertion order.
func (s *Scope) Symbols() []*Symbol {
	if s == nil {
		return nil
	}
	return s.order
}

// Names returns the names of all symbols in the scope, sorted alphabetically.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.elems))
	for name := range s.elems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of symbols in the scope.
func (s *Scope) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// String returns a string representation of the scope for debugging.
func (s *Scope) String() string {
	var buf strings.Builder
	s.writeTo(&buf, 0)
	return buf.String()
}

func (s *Scope) writeTo(buf *strings.Builder, indent int) {
	prefix := strings.Repeat("  ", indent)
	fmt.Fprintf(buf, "%sscope %s {\n", prefix, s.comment)
	for _, name := range s.Names() {
		sym := s.elems[name]
		fmt.Fprintf(buf, "%s  %s: %s\n", prefix, name, sym.info)
	}
	for _, child := range s.children {
		child.writeTo(buf, indent+1)
	}
	fmt.Fprintf(buf, "%s}\n", prefix)
}

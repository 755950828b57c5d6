package types2

import (
	"github.com/hashicorp/go-set/v3"

	"github.com/you-not-fish/erasure/internal/decl"
	"github.com/you-not-fish/erasure/internal/syntax"
	"github.com/you-not-fish/erasure/internal/types"
)

// checkTypeParams resolves the bounds of a class's type parameters.
func (c *Checker) checkTypeParams(cd *classDecl) {
	c.resolveBounds(cd.tparams, cd.sym.TypeParams(), classContext(cd.sym))
}

// checkParents resolves the parents of a class and normalizes the first
// one: value classes start with AnyVal, every other class or trait whose
// first parent is not a class starts with AnyRef.
func (c *Checker) checkParents(cd *classDecl) {
	cls, d := cd.sym, cd.decl
	ctx := classContext(cls)

	var parents []types.Type
	for i, text := range d.Parents {
		var loc decl.Loc
		if i < len(d.ParentLocs) {
			loc = d.ParentLocs[i]
		}
		x := c.parse(text, loc)
		if x == nil {
			continue
		}
		t := c.typExpr(x, ctx)
		if types.IsError(t) {
			continue
		}
		psym := c.classOf(t)
		if r, ok := t.(*types.TypeRef); ok && r.Symbol().IsAbstractType() {
			psym = nil
		}
		switch {
		case !psym.IsClass() || psym.IsPackageClass() || psym.IsRefinementClass():
			c.errorf(x.Pos(), "%s is not a class type", t)
			continue
		case psym == cls:
			c.errorf(x.Pos(), "illegal cyclic inheritance involving %s", cls.Name())
			continue
		case psym.HasFlag(types.Final):
			c.errorf(x.Pos(), "cannot extend final class %s", psym.Name())
			continue
		case len(parents) > 0 && !psym.IsTrait():
			c.errorf(x.Pos(), "%s needs to be a trait to be mixed in", t)
			continue
		}
		dup := false
		for _, p := range parents {
			if c.classOf(p) == psym {
				c.errorf(x.Pos(), "%s is inherited twice", psym.Name())
				dup = true
				break
			}
		}
		if !dup {
			parents = append(parents, t)
		}
	}

	first := types.AnyRefType
	if cls.IsDerivedValueClass() {
		first = types.AnyValType
	}
	switch {
	case len(parents) == 0 || c.classOf(parents[0]).IsTrait():
		parents = append([]types.Type{first}, parents...)
	case cls.IsDerivedValueClass() && c.classOf(parents[0]) != types.AnyValClass:
		c.errorf(cls.Pos(), "value class %s must extend AnyVal", cls.Name())
	}

	cls.SetInfo(types.NewClassInfoType(parents, cls.Decls(), cls))
}

// checkInheritanceCycles reports classes that derive from themselves and
// cuts the cycle at the reported class.
func (c *Checker) checkInheritanceCycles() {
	for _, cd := range c.order {
		cls := cd.sym
		seen := set.New[*types.Symbol](8)
		var reaches func(s *types.Symbol) bool
		reaches = func(s *types.Symbol) bool {
			if !seen.Insert(s) {
				return false
			}
			ci, ok := s.Info().(*types.ClassInfoType)
			if !ok {
				return false
			}
			for _, p := range ci.Parents() {
				ps := types.TypeSymbol(p)
				if ps == cls || reaches(ps) {
					return true
				}
			}
			return false
		}

		ci := cls.Info().(*types.ClassInfoType)
		for _, p := range ci.Parents() {
			if reaches(types.TypeSymbol(p)) {
				c.errorf(cls.Pos(), "illegal cyclic inheritance involving %s", cls.Name())
				cls.SetInfo(types.NewClassInfoType([]types.Type{types.AnyRefType}, cls.Decls(), cls))
				break
			}
		}
	}
}

// checkMember resolves the type of a non-class member. It runs as the
// member's completer.
func (c *Checker) checkMember(md *memberDecl) {
	sym, m := md.sym, md.decl
	ctx := &context{class: md.owner.sym, owner: sym}

	switch m.Kind {
	case decl.MemberType:
		var lo, hi types.Type
		if b := md.bounds; b != nil {
			if b.Lo != nil {
				lo = c.typExpr(b.Lo, ctx)
			}
			if b.Hi != nil {
				hi = c.typExpr(b.Hi, ctx)
			}
		}
		sym.SetInfo(types.NewTypeBounds(lo, hi))
		return
	}

	if md.typ == nil {
		sym.SetInfo(types.ErrorType)
		return
	}
	t := c.typExpr(md.typ, ctx)

	switch m.Kind {
	case decl.MemberVal:
		switch t.(type) {
		case *types.MethodType, *types.PolyType:
			c.errorf(md.typ.Pos(), "value %s cannot have method type %s", sym.Name(), t)
			t = types.ErrorType
		}

	case decl.MemberAlias:
		switch t.(type) {
		case *types.MethodType, *types.PolyType:
			c.errorf(md.typ.Pos(), "type alias %s cannot denote method type %s", sym.Name(), t)
			t = types.ErrorType
		}

	case decl.MemberDef:
		switch tt := t.(type) {
		case *types.MethodType:
		case *types.PolyType:
			sym.SetTypeParams(tt.TypeParams())
		default:
			if !types.IsError(t) {
				t = types.NewMethodType(nil, t)
			}
		}
		if sym.IsConstructor() {
			c.checkConstructor(md, t)
		}
		c.checkOverloads(md, t)
	}
	sym.SetInfo(t)
}

// checkConstructor verifies that a constructor returns its class.
func (c *Checker) checkConstructor(md *memberDecl, t types.Type) {
	cls := md.owner.sym
	if _, ok := t.(*types.PolyType); ok {
		c.errorf(md.typ.Pos(), "constructor of %s cannot have type parameters", cls.Name())
		return
	}
	if res := types.ResultType(t); !types.IsError(res) && c.classOf(res) != cls {
		c.errorf(md.typ.Pos(), "constructor of %s must return %s, not %s", cls.Name(), cls.Name(), res)
	}
}

// checkOverloads reports an earlier method of the same name with the same
// parameter types.
func (c *Checker) checkOverloads(md *memberDecl, t types.Type) {
	mt, ok := methodOf(t)
	if !ok {
		return
	}
	for _, other := range md.owner.sym.Decls().LookupAll(md.sym.Name()) {
		if other == md.sym {
			return
		}
		if c.resolving[other] || !other.IsMethod() {
			continue
		}
		omt, ok := methodOf(other.Info())
		if ok && sameParamTypes(mt, omt) {
			c.errorf(md.sym.Pos(), "method %s is already declared with parameter types %s", md.sym.Name(), mt)
			return
		}
	}
}

// methodOf returns the method type of a signature, looking through a
// polymorphic wrapper.
func methodOf(t types.Type) (*types.MethodType, bool) {
	if pt, ok := t.(*types.PolyType); ok {
		t = pt.Result()
	}
	mt, ok := t.(*types.MethodType)
	return mt, ok
}

func sameParamTypes(x, y *types.MethodType) bool {
	xs, ys := x.ParamTypes(), y.ParamTypes()
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		if !types.Identical(xs[i], ys[i]) {
			return false
		}
	}
	return true
}

// checkValueClass records the underlying field of a derived value class.
func (c *Checker) checkValueClass(cd *classDecl) {
	cls := cd.sym
	if owner := cls.Owner(); !owner.IsPackageClass() && !owner.HasFlag(types.Module) {
		c.errorf(cls.Pos(), "value class %s may not be a member of another class", cls.Name())
	}
	for _, sym := range cls.Decls().Symbols() {
		if sym.Kind() != types.ValueSym {
			continue
		}
		cls.SetValueClassUnbox(sym)
		if u := c.classOf(sym.Info()); u.IsDerivedValueClass() {
			c.errorf(sym.Pos(), "value class %s may not wrap another user-defined value class", cls.Name())
		}
		return
	}
}

// checkTypeCycles reports type aliases and abstract types whose
// definition refers back to themselves, and replaces the offending info so
// later expansion terminates. Aliases may not mention themselves anywhere;
// bounds only at the top level, so F-bounds stay legal.
func (c *Checker) checkTypeCycles() {
	deps := make(map[*types.Symbol][]*types.Symbol)
	var order []*types.Symbol
	add := func(from *types.Symbol, n *syntax.Name) {
		if to := c.uses[n]; to != nil && (to.IsAliasType() || to.IsAbstractType()) {
			deps[from] = append(deps[from], to)
		}
	}

	for _, md := range c.members {
		switch md.decl.Kind {
		case decl.MemberAlias:
			if md.typ != nil {
				order = append(order, md.sym)
				syntax.Inspect(md.typ, func(n *syntax.Name) { add(md.sym, n) })
			}
		case decl.MemberType:
			if md.bounds != nil && md.bounds.Hi != nil {
				order = append(order, md.sym)
				heads(md.bounds.Hi, func(n *syntax.Name) { add(md.sym, n) })
			}
		}
	}
	for _, b := range c.binders {
		if b.clause.Hi != nil {
			order = append(order, b.sym)
			heads(b.clause.Hi, func(n *syntax.Name) { add(b.sym, n) })
		}
	}

	const (
		unvisited = iota
		active
		done
	)
	state := make(map[*types.Symbol]int)
	cyclic := set.New[*types.Symbol](4)
	var closing []*types.Symbol
	var visit func(s *types.Symbol)
	visit = func(s *types.Symbol) {
		state[s] = active
		for _, d := range deps[s] {
			switch state[d] {
			case active:
				if cyclic.Insert(d) {
					closing = append(closing, d)
				}
			case unvisited:
				visit(d)
			}
		}
		state[s] = done
	}
	for _, s := range order {
		if state[s] == unvisited {
			visit(s)
		}
	}

	for _, s := range closing {
		c.errorf(s.Pos(), "illegal cyclic reference involving %s %s", s.Kind(), s.Name())
		if s.IsAliasType() {
			s.SetInfo(types.ErrorType)
		} else {
			s.SetInfo(types.EmptyBounds())
		}
	}
}

// heads calls f for the names a type expression expands to directly:
// the heads of applied types, compound parents and annotated types, but
// not type arguments.
func heads(x syntax.Expr, f func(*syntax.Name)) {
	switch x := x.(type) {
	case *syntax.Name:
		f(x)
	case *syntax.AppliedType:
		heads(x.Type, f)
	case *syntax.CompoundType:
		for _, p := range x.Parents {
			heads(p, f)
		}
	case *syntax.AnnotatedType:
		heads(x.Type, f)
	case *syntax.ExistentialType:
		heads(x.Type, f)
	case *syntax.ParenExpr:
		heads(x.X, f)
	}
}

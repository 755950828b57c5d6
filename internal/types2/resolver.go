package types2

import (
	"github.com/you-not-fish/erasure/internal/decl"
	"github.com/you-not-fish/erasure/internal/syntax"
	"github.com/you-not-fish/erasure/internal/types"
)

// collectClass creates the symbol of class d owned by owner, its type
// parameters and its members. Nested classes are collected recursively,
// after their enclosing class.
func (c *Checker) collectClass(d *decl.Class, owner *types.Symbol, pos syntax.Pos) *types.Symbol {
	var flags types.Flags
	switch d.Kind {
	case decl.KindTrait:
		flags |= types.Trait | types.Abstract
	case decl.KindObject:
		flags |= types.Module | types.Final
	}
	if d.Abstract {
		flags |= types.Abstract
	}
	if d.Value {
		flags |= types.DerivedValueClass | types.Final
	}
	foreign := c.file.IsForeign(d)
	if d.Foreign == nil && owner.IsForeignDefined() {
		foreign = true
	}
	if foreign {
		flags |= types.Foreign
	}

	sym := types.NewClass(owner, pos, d.Name, flags)
	if existing := owner.Decls().Insert(sym); existing != nil {
		c.errorf(pos, "%s redeclared in %s", d.Name, owner.Name())
	}
	cd := &classDecl{sym: sym, decl: d}
	c.classes[sym] = cd
	c.order = append(c.order, cd)
	if c.info != nil {
		c.info.Classes[d] = sym
	}

	// Type parameters
	var tparams []*types.Symbol
	seen := make(map[string]bool)
	for i, text := range d.TypeParams {
		var loc decl.Loc
		if i < len(d.TypeParamLocs) {
			loc = d.TypeParamLocs[i]
		}
		tp, err := syntax.ParseTypeParam(c.file.Pos(loc), text, c.syntaxError)
		if err != nil {
			tp = nil
		}
		name, tpos := text, c.file.Pos(loc)
		if tp != nil {
			name, tpos = tp.Name.Value, tp.Name.Pos()
		}
		if seen[name] {
			c.errorf(tpos, "type parameter %s redeclared", name)
		}
		seen[name] = true
		tparams = append(tparams, types.NewTypeParam(sym, tpos, name, nil))
		cd.tparams = append(cd.tparams, tp)
	}
	sym.SetTypeParams(tparams)

	// Members
	for _, m := range d.Members {
		mpos := c.file.Pos(m.Loc)
		if m.Kind == decl.MemberClass {
			if m.Body == nil {
				continue // reported by the loader
			}
			nested := c.collectClass(m.Body, sym, mpos)
			if c.info != nil {
				c.info.Members[m] = nested
			}
			continue
		}
		c.collectMember(cd, m, mpos)
	}
	return sym
}

// collectMember creates the symbol of a non-class member and installs a
// completer that resolves its type on first use.
func (c *Checker) collectMember(cd *classDecl, m *decl.Member, pos syntax.Pos) {
	cls := cd.sym
	var sym *types.Symbol
	switch m.Kind {
	case decl.MemberVal:
		sym = types.NewValue(cls, pos, m.Name, nil)
	case decl.MemberDef:
		var flags types.Flags
		if m.Name == "<init>" {
			flags |= types.Constructor
		}
		sym = types.NewMethod(cls, pos, m.Name, flags)
	case decl.MemberType:
		sym = types.NewSymbol(types.AbstractSym, cls, pos, m.Name, 0)
	case decl.MemberAlias:
		sym = types.NewSymbol(types.AliasSym, cls, pos, m.Name, 0)
	default:
		c.errorf(pos, "unknown member kind %q", m.Kind)
		return
	}
	if cls.IsForeignDefined() {
		sym.SetFlag(types.Foreign)
	}

	if m.Kind == decl.MemberDef {
		cls.Decls().Enter(sym)
	} else if existing := cls.Decls().Insert(sym); existing != nil {
		c.errorf(pos, "%s redeclared in %s", m.Name, cls.Name())
	}

	md := &memberDecl{sym: sym, decl: m, owner: cd}
	switch m.Kind {
	case decl.MemberType:
		if m.Bounds != "" {
			b, err := syntax.ParseBounds(c.file.Pos(m.BoundsLoc), m.Bounds, c.syntaxError)
			if err == nil {
				md.bounds = b
			}
		}
	default:
		if m.Type != "" {
			md.typ = c.parse(m.Type, m.TypeLoc)
		}
	}
	c.members = append(c.members, md)
	if c.info != nil {
		c.info.Members[m] = sym
	}

	sym.SetCompleter(func(*types.Symbol) {
		c.resolving[sym] = true
		defer delete(c.resolving, sym)
		c.checkMember(md)
	})
}

// lookup finds name as seen from ctx: local binders first, then the type
// parameters and members of each enclosing class, then the package and
// the predeclared scopes. It also returns the prefix of a reference to
// the symbol.
func (c *Checker) lookup(name string, ctx *context) (*types.Symbol, types.Type) {
	for i := len(ctx.locals) - 1; i >= 0; i-- {
		if sym := ctx.locals[i]; sym.Name() == name {
			return sym, types.NoPrefix
		}
	}
	for cls := ctx.class; cls != nil && !cls.IsPackageClass(); cls = cls.Owner() {
		for _, tp := range cls.TypeParams() {
			if tp.Name() == name {
				return tp, types.NoPrefix
			}
		}
		if sym := lookupMember(cls, name); sym != nil {
			return sym, types.NewThisType(cls)
		}
	}
	if sym, _ := c.pkg.Scope().LookupParent(name); sym != nil {
		return sym, types.PrefixOf(sym)
	}
	return nil, nil
}

// lookupMember finds a member of cls or of one of its base classes.
func lookupMember(cls *types.Symbol, name string) *types.Symbol {
	for _, b := range cls.BaseClasses() {
		if sym := b.Decls().Lookup(name); sym != nil {
			return sym
		}
	}
	return nil
}

// resolvePath resolves a name or a qualified path to a symbol and the
// prefix of references to it.
func (c *Checker) resolvePath(e syntax.Expr, ctx *context) (*types.Symbol, types.Type) {
	switch e := e.(type) {
	case *syntax.Name:
		sym, pre := c.lookup(e.Value, ctx)
		if sym == nil {
			c.errorf(e.Pos(), "undefined: %s", e.Value)
			return nil, nil
		}
		c.recordUse(e, sym)
		return sym, pre

	case *syntax.SelectorExpr:
		xsym, xpre := c.resolvePath(e.X, ctx)
		if xsym == nil {
			return nil, nil
		}

		var owner *types.Symbol
		var pre types.Type
		switch {
		case xsym.IsPackageClass():
			owner, pre = xsym, types.NewThisType(xsym)
		case xsym.IsClass() && xsym.HasFlag(types.Module):
			owner, pre = xsym, types.NewThisType(xsym)
		case xsym.IsClass():
			owner, pre = xsym, types.NewTypeRef(xpre, xsym, nil)
		case xsym.Kind() == types.ValueSym:
			if c.resolving[xsym] {
				c.errorf(e.X.Pos(), "illegal cyclic reference involving value %s", xsym.Name())
				return nil, nil
			}
			owner, pre = c.classOf(xsym.Info()), types.NewSingleType(xpre, xsym)
		default:
			c.errorf(e.X.Pos(), "%s is not a package, class or value", syntax.String(e.X))
			return nil, nil
		}

		var sym *types.Symbol
		switch {
		case owner == nil:
		case owner.IsPackageClass():
			sym = owner.Decls().Lookup(e.Sel.Value)
		default:
			sym = lookupMember(owner, e.Sel.Value)
		}
		if sym == nil {
			c.errorf(e.Sel.Pos(), "%s has no member %s", syntax.String(e.X), e.Sel.Value)
			return nil, nil
		}
		c.recordUse(e.Sel, sym)
		return sym, pre
	}

	c.errorf(e.Pos(), "%s is not a path", syntax.String(e))
	return nil, nil
}

// classOf returns the class whose members a value of type t has, without
// forcing symbols that are still being resolved.
func (c *Checker) classOf(t types.Type) *types.Symbol {
	for i := 0; i < 64; i++ {
		switch tt := t.(type) {
		case *types.TypeRef:
			sym := tt.Symbol()
			if !sym.IsAliasType() && !sym.IsAbstractType() {
				return sym
			}
			if c.resolving[sym] {
				return nil
			}
			t = tt.Underlying()
		case *types.SingleType:
			if c.resolving[tt.Symbol()] {
				return nil
			}
			t = tt.Supertype()
		case *types.ThisType:
			return tt.Symbol()
		case *types.RefinedType:
			return tt.Symbol()
		case *types.AnnotatedType:
			t = tt.Underlying()
		case *types.ExistentialType:
			t = tt.Underlying()
		default:
			return nil
		}
	}
	return nil
}

// declareTypeParams creates symbols for the type parameter clauses of a
// polymorphic or existential type. Bounds are resolved by resolveBounds,
// once every binder of the clause is in scope.
func (c *Checker) declareTypeParams(clauses []*syntax.TypeParam, owner *types.Symbol, flags types.Flags) []*types.Symbol {
	syms := make([]*types.Symbol, len(clauses))
	seen := make(map[string]bool)
	for i, tp := range clauses {
		if seen[tp.Name.Value] {
			c.errorf(tp.Name.Pos(), "type parameter %s redeclared", tp.Name.Value)
		}
		seen[tp.Name.Value] = true
		syms[i] = types.NewTypeParam(owner, tp.Name.Pos(), tp.Name.Value, nil)
		syms[i].SetFlag(flags)
	}
	return syms
}

// resolveBounds sets the bounds of syms from their clauses.
func (c *Checker) resolveBounds(clauses []*syntax.TypeParam, syms []*types.Symbol, ctx *context) {
	for i, tp := range clauses {
		if tp == nil {
			continue
		}
		sym := syms[i]
		var lo, hi types.Type
		if tp.Lo != nil {
			lo = c.typExpr(tp.Lo, ctx)
		}
		if tp.Hi != nil {
			hi = c.typExpr(tp.Hi, ctx)
		}
		b := types.NewTypeBounds(lo, hi)
		sym.SetInfo(b)
		c.binders = append(c.binders, &binderDecl{sym: sym, clause: tp})

		if tp.Lo != nil && tp.Hi != nil {
			pos := tp.Pos()
			c.later(func() {
				if !types.IsSubType(b.Lo(), b.Hi()) {
					c.errorf(pos, "lower bound %s does not conform to upper bound %s", b.Lo(), b.Hi())
				}
			})
		}
	}
}

package types2

import (
	"math"
	"strconv"
	"strings"

	"github.com/you-not-fish/erasure/internal/syntax"
	"github.com/you-not-fish/erasure/internal/types"
)

// typExpr resolves the type denoted by e and records it.
// It returns types.ErrorType after reporting an error.
func (c *Checker) typExpr(e syntax.Expr, ctx *context) types.Type {
	t := c.typInternal(e, ctx)
	c.recordType(e, t)
	return t
}

func (c *Checker) typInternal(e syntax.Expr, ctx *context) types.Type {
	switch e := e.(type) {
	case *syntax.Name, *syntax.SelectorExpr:
		if n, ok := e.(*syntax.Name); ok && n.Value == "_" {
			return types.ErrorType // placeholder for a syntax error
		}
		sym, pre := c.resolvePath(e, ctx)
		if sym == nil {
			return types.ErrorType
		}
		return c.typeRef(e, sym, pre, nil, ctx)

	case *syntax.AppliedType:
		sym, pre := c.resolvePath(e.Type, ctx)
		if sym == nil {
			return types.ErrorType
		}
		return c.typeRef(e.Type, sym, pre, e.Args, ctx)

	case *syntax.SingletonType:
		sym, pre := c.resolvePath(e.Path, ctx)
		switch {
		case sym == nil:
			return types.ErrorType
		case sym.IsPackageClass(), sym.IsClass() && sym.HasFlag(types.Module):
			return types.NewThisType(sym)
		case sym.Kind() == types.ValueSym:
			return types.NewSingleType(pre, sym)
		}
		c.errorf(e.Path.Pos(), "%s is not a stable path", syntax.String(e.Path))
		return types.ErrorType

	case *syntax.ThisType:
		sym, _ := c.resolvePath(e.Path, ctx)
		if sym == nil {
			return types.ErrorType
		}
		if !sym.IsClass() {
			c.errorf(e.Path.Pos(), "%s is not a class or package", syntax.String(e.Path))
			return types.ErrorType
		}
		return types.NewThisType(sym)

	case *syntax.ClassOfType:
		t := c.typExpr(e.Type, ctx)
		if types.IsError(t) {
			return t
		}
		return types.NewConstantType(types.ClassLiteral(t))

	case *syntax.BasicLit:
		return c.literal(e)

	case *syntax.MethodType:
		return c.methodType(e, ctx)

	case *syntax.PolyType:
		tparams := c.declareTypeParams(e.TParams, ctx.owner, types.Param)
		inner := ctx.with(tparams)
		c.resolveBounds(e.TParams, tparams, inner)
		return types.NewPolyType(tparams, c.typExpr(e.Result, inner))

	case *syntax.ExistentialType:
		quantified := c.declareTypeParams(e.Quantified, ctx.owner, types.Existential)
		inner := ctx.with(quantified)
		c.resolveBounds(e.Quantified, quantified, inner)
		return types.NewExistentialType(quantified, c.typExpr(e.Type, inner))

	case *syntax.CompoundType:
		return c.compoundType(e, ctx)

	case *syntax.AnnotatedType:
		annots := make([]string, len(e.Annots))
		for i, a := range e.Annots {
			annots[i] = a.Value
		}
		return types.NewAnnotatedType(annots, c.typExpr(e.Type, ctx))

	case *syntax.Wildcard:
		return types.WildcardType

	case *syntax.ParenExpr:
		return c.typExpr(e.X, ctx)

	case *syntax.Bounds:
		c.errorf(e.Pos(), "bounds are not a type")
		return types.ErrorType
	}

	c.errorf(e.Pos(), "%T is not a type", e)
	return types.ErrorType
}

// typeRef checks a reference to type symbol sym applied to args and
// returns the resulting type.
func (c *Checker) typeRef(x syntax.Expr, sym *types.Symbol, pre types.Type, args []syntax.Expr, ctx *context) types.Type {
	if !sym.IsType() || sym.IsPackageClass() {
		c.errorf(x.Pos(), "%s is not a type", syntax.String(x))
		return types.ErrorType
	}
	if sym.IsClass() && sym.HasFlag(types.Module) {
		if len(args) > 0 {
			c.errorf(x.Pos(), "%s does not take type parameters", sym.Name())
			return types.ErrorType
		}
		return types.NewThisType(sym)
	}

	targs := make([]types.Type, len(args))
	for i, a := range args {
		targs[i] = c.typExpr(a, ctx)
	}

	tparams := sym.TypeParams()
	if !sym.IsClass() || len(tparams) == 0 {
		if len(args) > 0 {
			c.errorf(x.Pos(), "%s does not take type parameters", sym.Name())
			return types.ErrorType
		}
		return types.NewTypeRef(pre, sym, nil)
	}

	switch {
	case len(args) == 0 && len(tparams) > 0:
		c.errorf(x.Pos(), "missing type arguments for %s", sym.Name())
		return types.ErrorType
	case len(args) != len(tparams):
		c.errorf(x.Pos(), "wrong number of type arguments for %s: have %d, want %d", sym.Name(), len(args), len(tparams))
		return types.ErrorType
	}

	for i, targ := range targs {
		if types.IsError(targ) || targ == types.WildcardType {
			continue
		}
		tp, pos := tparams[i], args[i].Pos()
		c.later(func() {
			b, ok := tp.Info().(*types.TypeBounds)
			if !ok {
				return
			}
			hi := types.Subst(b.Hi(), tparams, targs)
			if !types.IsSubType(targ, hi) {
				c.errorf(pos, "type argument %s does not conform to upper bound %s of %s", targ, hi, tp.Name())
			}
		})
	}
	return types.NewTypeRef(pre, sym, targs)
}

// literal returns the constant type of a literal.
func (c *Checker) literal(e *syntax.BasicLit) types.Type {
	var k types.Constant
	switch e.Kind {
	case syntax.IntLit, syntax.LongLit:
		v, ok := parseInt(e.Value)
		if !ok || e.Kind == syntax.IntLit && (v < math.MinInt32 || v > math.MaxInt32) {
			c.errorf(e.Pos(), "integer literal %s out of range", e.Value)
			return types.ErrorType
		}
		if e.Kind == syntax.LongLit {
			k = types.NewConstant(types.LongTag, v)
		} else {
			k = types.NewConstant(types.IntTag, v)
		}
	case syntax.FloatLit:
		v, err := strconv.ParseFloat(e.Value, 64)
		if err != nil {
			c.errorf(e.Pos(), "floating-point literal %s out of range", e.Value)
			return types.ErrorType
		}
		k = types.NewConstant(types.DoubleTag, v)
	case syntax.StringLit:
		k = types.NewConstant(types.StringTag, e.Value)
	case syntax.BoolLit:
		k = types.NewConstant(types.BooleanTag, e.Value == "true")
	case syntax.NullLit:
		k = types.NewConstant(types.NullTag, nil)
	case syntax.UnitLit:
		k = types.NewConstant(types.UnitTag, nil)
	default:
		c.errorf(e.Pos(), "unknown literal kind %s", e.Kind)
		return types.ErrorType
	}
	return types.NewConstantType(k)
}

// parseInt parses a signed decimal or hexadecimal integer.
func parseInt(s string) (int64, bool) {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s, base = s[2:], 16
	}
	u, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		if u > 1<<63 {
			return 0, false
		}
		return -int64(u), true
	}
	if u > math.MaxInt64 {
		return 0, false
	}
	return int64(u), true
}

// methodType resolves a method signature. Parameters are owned by the
// context owner and are visible in the result type.
func (c *Checker) methodType(e *syntax.MethodType, ctx *context) types.Type {
	params := make([]*types.Symbol, 0, len(e.Params))
	seen := make(map[string]bool)
	for _, f := range e.Params {
		if seen[f.Name.Value] {
			c.errorf(f.Name.Pos(), "duplicate parameter %s", f.Name.Value)
		}
		seen[f.Name.Value] = true
		params = append(params, types.NewParam(ctx.owner, f.Name.Pos(), f.Name.Value, c.typExpr(f.Type, ctx)))
	}
	return types.NewMethodType(params, c.typExpr(e.Result, ctx.with(params)))
}

// compoundType resolves an intersection with an optional refinement.
func (c *Checker) compoundType(e *syntax.CompoundType, ctx *context) types.Type {
	parents := make([]types.Type, 0, len(e.Parents))
	for _, p := range e.Parents {
		t := c.typExpr(p, ctx)
		if types.IsError(t) {
			return t
		}
		parents = append(parents, t)
	}
	if len(parents) == 1 && !e.Refined {
		return parents[0]
	}

	decls := types.NewScope(nil, e.Pos(), e.Pos(), "refinement")
	rt := types.NewRefinedType(ctx.owner, parents, decls)
	inner := &context{class: ctx.class, owner: rt.Symbol(), locals: ctx.locals}
	for _, f := range e.Refinement {
		t := c.typExpr(f.Type, inner)
		var sym *types.Symbol
		switch t.(type) {
		case *types.MethodType, *types.PolyType:
			sym = types.NewMethod(rt.Symbol(), f.Name.Pos(), f.Name.Value, 0)
			sym.SetInfo(t)
		default:
			sym = types.NewValue(rt.Symbol(), f.Name.Pos(), f.Name.Value, t)
		}
		if existing := decls.Insert(sym); existing != nil {
			c.errorf(f.Name.Pos(), "duplicate refinement member %s", f.Name.Value)
		}
	}
	return rt
}

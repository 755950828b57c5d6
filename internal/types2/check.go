package types2

import (
	"github.com/you-not-fish/erasure/internal/decl"
	"github.com/you-not-fish/erasure/internal/syntax"
	"github.com/you-not-fish/erasure/internal/types"
)

// Checker resolves the declarations of one file.
type Checker struct {
	conf *Config
	info *Info
	file *decl.File
	pkg  *types.Package

	// Declarations keyed by symbol, in declaration order.
	// Lifecycle: allocated per Check invocation and used only while checking one file.
	classes map[*types.Symbol]*classDecl
	order   []*classDecl
	members []*memberDecl
	binders []*binderDecl

	uses      map[*syntax.Name]*types.Symbol
	resolving map[*types.Symbol]bool // members whose completer is running
	delayed   []func()               // checks that need every info in place

	// Error tracking
	errors int        // error count
	first  *TypeError // first error
}

// classDecl is a class being checked.
type classDecl struct {
	sym     *types.Symbol
	decl    *decl.Class
	tparams []*syntax.TypeParam // parallel to sym.TypeParams(); nil entries failed to parse
}

// memberDecl is a non-class member being checked.
type memberDecl struct {
	sym    *types.Symbol
	decl   *decl.Member
	owner  *classDecl
	typ    syntax.Expr    // parsed type, nil if absent or unparsable
	bounds *syntax.Bounds // parsed bounds of a type member
}

// binderDecl is a type parameter or existential binder with the clause
// that declared it.
type binderDecl struct {
	sym    *types.Symbol
	clause *syntax.TypeParam
}

// context describes where a type expression appears.
type context struct {
	class  *types.Symbol   // innermost enclosing class, nil at package level
	owner  *types.Symbol   // owner of symbols created while resolving
	locals []*types.Symbol // binders in scope, innermost last
}

// with returns a copy of ctx with syms added to the local binders.
func (ctx *context) with(syms []*types.Symbol) *context {
	n := *ctx
	n.locals = make([]*types.Symbol, 0, len(ctx.locals)+len(syms))
	n.locals = append(append(n.locals, ctx.locals...), syms...)
	return &n
}

// checkFile resolves every declaration of file.
func (c *Checker) checkFile(file *decl.File) {
	c.file = file
	c.pkg = types.NewPackage(file.Package)
	c.pkg.SetPath(file.Path)

	// Phase 1: Create symbols for all classes and members
	for _, d := range file.Classes {
		c.collectClass(d, c.pkg.Symbol(), file.Pos(d.Loc))
	}

	// Phase 2: Resolve type parameter bounds
	for _, cd := range c.order {
		c.checkTypeParams(cd)
	}

	// Phase 3: Resolve parents
	for _, cd := range c.order {
		c.checkParents(cd)
	}
	c.checkInheritanceCycles()

	// Phase 4: Resolve members; completers may already have run some
	for _, md := range c.members {
		md.sym.Initialize()
	}

	// Phase 5: Value classes
	for _, cd := range c.order {
		if cd.sym.IsDerivedValueClass() {
			c.checkValueClass(cd)
		}
	}

	c.checkTypeCycles()
	c.processDelayed()

	c.conf.Logger.Debug("checked declarations",
		"package", file.Package,
		"classes", len(c.order),
		"members", len(c.members),
		"errors", c.errors)
}

// later schedules f to run once every declaration has been resolved.
func (c *Checker) later(f func()) {
	c.delayed = append(c.delayed, f)
}

func (c *Checker) processDelayed() {
	// Conformance checks may recurse through bounds; skip them when a
	// cycle could still be present.
	if c.errors > 0 {
		c.delayed = nil
		return
	}
	for i := 0; i < len(c.delayed); i++ {
		c.delayed[i]()
	}
	c.delayed = nil
}

// classContext returns the context of expressions declared by class cls.
func classContext(cls *types.Symbol) *context {
	return &context{class: cls, owner: cls}
}

// parse parses a type expression written at loc.
// It returns nil if the text does not parse.
func (c *Checker) parse(text string, loc decl.Loc) syntax.Expr {
	x, err := syntax.ParseType(c.file.Pos(loc), text, c.syntaxError)
	if err != nil {
		return nil
	}
	return x
}

func (c *Checker) syntaxError(pos syntax.Pos, msg string) {
	c.errorf(pos, "%s", msg)
}

// recordType records the type denoted by a type expression.
func (c *Checker) recordType(e syntax.Expr, t types.Type) {
	if c.info != nil {
		c.info.Types[e] = t
	}
}

// recordUse records a use of a symbol.
func (c *Checker) recordUse(name *syntax.Name, sym *types.Symbol) {
	c.uses[name] = sym
	if c.info != nil {
		c.info.Uses[name] = sym
	}
}

package types2

import (
	"log/slog"

	"github.com/you-not-fish/erasure/internal/decl"
	"github.com/you-not-fish/erasure/internal/syntax"
	"github.com/you-not-fish/erasure/internal/types"
)

// Config specifies the configuration for checking.
type Config struct {
	// Error is called for each error.
	// If nil, errors are silently ignored.
	Error ErrorHandler

	// Logger receives debug output about resolved declarations.
	// If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Info holds the results of checking.
type Info struct {
	// Types maps type expressions to the types they denote.
	Types map[syntax.Expr]types.Type

	// Uses maps names in type expressions to the symbols they refer to.
	Uses map[*syntax.Name]*types.Symbol

	// Classes maps class declarations to their symbols.
	Classes map[*decl.Class]*types.Symbol

	// Members maps member declarations to their symbols. Nested class
	// members map to the nested class symbol.
	Members map[*decl.Member]*types.Symbol
}

// Check resolves a declaration file.
// It returns the package for the file and the first error encountered, if any.
func Check(file *decl.File, conf *Config, info *Info) (*types.Package, error) {
	c := newChecker(conf, info)
	c.checkFile(file)

	if c.errors > 0 {
		return c.pkg, c.first
	}
	return c.pkg, nil
}

// Eval resolves the type expression text in the scope of pkg, as if it
// appeared at package level.
func Eval(pkg *types.Package, text string, conf *Config) (types.Type, error) {
	c := newChecker(conf, nil)
	c.pkg = pkg

	x, err := syntax.ParseType(syntax.Pos{}, text, func(pos syntax.Pos, msg string) {
		c.errorf(pos, "%s", msg)
	})
	if err != nil {
		return nil, c.first
	}
	t := c.typExpr(x, &context{owner: pkg.Symbol()})
	c.checkTypeCycles()
	c.processDelayed()
	if c.errors > 0 {
		return nil, c.first
	}
	return t, nil
}

func newChecker(conf *Config, info *Info) *Checker {
	if conf == nil {
		conf = &Config{}
	}
	if conf.Logger == nil {
		conf.Logger = slog.Default()
	}

	// Initialize info maps if not provided
	if info != nil {
		if info.Types == nil {
			info.Types = make(map[syntax.Expr]types.Type)
		}
		if info.Uses == nil {
			info.Uses = make(map[*syntax.Name]*types.Symbol)
		}
		if info.Classes == nil {
			info.Classes = make(map[*decl.Class]*types.Symbol)
		}
		if info.Members == nil {
			info.Members = make(map[*decl.Member]*types.Symbol)
		}
	}

	return &Checker{
		conf:      conf,
		info:      info,
		classes:   make(map[*types.Symbol]*classDecl),
		uses:      make(map[*syntax.Name]*types.Symbol),
		resolving: make(map[*types.Symbol]bool),
	}
}

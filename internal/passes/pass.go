// Package passes drives the erasure stage over a checked package: it
// advances the phase clock, runs the named passes in order and optionally
// verifies and dumps the unit around each of them.
package passes

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"

	"github.com/you-not-fish/erasure/internal/erasure"
)

// Pass describes a single pass over a unit.
type Pass struct {
	Name  string
	Phase erasure.Phase // clock value while the pass runs
	Fn    func(u *Unit) error
}

// Config controls pass execution behavior.
type Config struct {
	DumpBefore string // dump the unit before this pass ("*" for all)
	DumpAfter  string // dump the unit after this pass ("*" for all)
	Verify     bool   // verify the unit before/after each pass
	DumpSymbol string // restrict dumps to this symbol (full or simple name)
	Spew       bool   // dump infos structurally instead of printing them

	Workers   int // erasure workers; 0 means GOMAXPROCS
	CacheSize int // memoized TransformInfo results; 0 means 1024

	VerifyForeign bool         // compare foreign and source erasure of foreign methods
	Logger        *slog.Logger // nil means slog.Default()
	Out           io.Writer    // dump destination; nil means os.Stderr
}

// Run executes the given passes on u in order. The unit's clock is
// advanced to each pass's phase after the before-verification.
func Run(u *Unit, passes []Pass, cfg Config) error {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	for _, p := range passes {
		if shouldDump(cfg.DumpBefore, p.Name) {
			dump(out, "before", p.Name, u, cfg)
		}

		if cfg.Verify {
			if err := Verify(u); err != nil {
				return errors.Wrapf(err, "verify before %s", p.Name)
			}
		}

		u.Clock.Advance(p.Phase)
		if err := p.Fn(u); err != nil {
			return errors.Wrap(err, p.Name)
		}

		if cfg.Verify {
			if err := Verify(u); err != nil {
				return errors.Wrapf(err, "verify after %s", p.Name)
			}
		}

		if shouldDump(cfg.DumpAfter, p.Name) {
			dump(out, "after", p.Name, u, cfg)
		}
	}
	return nil
}

func shouldDump(pattern, name string) bool {
	return pattern == "*" || pattern == name
}

func matchSymbol(filter, fullName, name string) bool {
	return filter == "" || filter == fullName || filter == name
}

var spewConfig = spew.ConfigState{
	Indent:                  "  ",
	MaxDepth:                6,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          true,
}

func dump(w io.Writer, when, pass string, u *Unit, cfg Config) {
	fmt.Fprintf(w, "--- %s %s (%s) ---\n", when, pass, u.Pkg.Name())
	for _, sym := range u.Symbols {
		if !matchSymbol(cfg.DumpSymbol, sym.FullName(), sym.Name()) {
			continue
		}
		if cfg.Spew {
			fmt.Fprintf(w, "%s:\n", sym.FullName())
			spewConfig.Fdump(w, u.Info(sym))
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", sym.FullName(), u.Info(sym))
	}
	fmt.Fprintln(w)
}

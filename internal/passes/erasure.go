package passes

import (
	"log/slog"
	"runtime"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/you-not-fish/erasure/internal/erasure"
	"github.com/you-not-fish/erasure/internal/types"
)

// Pass names, in pipeline order.
const (
	ErasurePass     = "erasure"
	PostErasurePass = "posterasure"
	VerifyPass      = "verify"
)

const defaultCacheSize = 1024

// Driver runs the erasure pipeline. TransformInfo results are memoized
// per symbol across the units it processes.
type Driver struct {
	conf   Config
	logger *slog.Logger
	cache  *lru.Cache
}

// NewDriver returns a driver for conf.
func NewDriver(conf Config) (*Driver, error) {
	if conf.Workers <= 0 {
		conf.Workers = runtime.GOMAXPROCS(0)
	}
	if conf.CacheSize <= 0 {
		conf.CacheSize = defaultCacheSize
	}
	logger := conf.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cache, err := lru.New(conf.CacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "creating info cache")
	}
	return &Driver{conf: conf, logger: logger, cache: cache}, nil
}

// Erase runs the pipeline over pkg, stopping after the pass named
// stopAfter. An empty stopAfter runs every pass.
func (d *Driver) Erase(pkg *types.Package, stopAfter string) (*Unit, error) {
	u := NewUnit(pkg)
	e := erasure.New(erasure.Config{
		Phase:         u.Clock.Phase,
		VerifyForeign: d.conf.VerifyForeign,
		Logger:        d.logger,
	})

	passes := d.Passes(e)
	if stopAfter != "" {
		i := indexOf(passes, stopAfter)
		if i < 0 {
			return nil, errors.Errorf("unknown pass %q", stopAfter)
		}
		passes = passes[:i+1]
	}
	if err := Run(u, passes, d.conf); err != nil {
		return u, err
	}
	return u, nil
}

// Passes returns the pipeline for eraser e.
func (d *Driver) Passes(e *erasure.Eraser) []Pass {
	return []Pass{
		{Name: ErasurePass, Phase: erasure.PhaseErasure, Fn: func(u *Unit) error { return d.erase(e, u) }},
		{Name: PostErasurePass, Phase: erasure.PhasePostErasure, Fn: postErasure},
		{Name: VerifyPass, Phase: erasure.PhasePostErasure, Fn: Verify},
	}
}

func indexOf(passes []Pass, name string) int {
	for i, p := range passes {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// erase commits the erased info of every symbol of u. Symbols are
// transformed concurrently; results are committed after all workers
// finish.
func (d *Driver) erase(e *erasure.Eraser, u *Unit) error {
	infos := make([]types.Type, len(u.Symbols))

	var g errgroup.Group
	g.SetLimit(d.conf.Workers)
	for i, sym := range u.Symbols {
		g.Go(func() error {
			t, err := d.transform(e, sym)
			if err != nil {
				return errors.Wrapf(err, "erasing %s", sym.FullName())
			}
			infos[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, sym := range u.Symbols {
		u.Infos[sym] = infos[i]
	}
	d.logger.Debug("erased unit", "package", u.Pkg.Name(), "symbols", len(u.Symbols))
	return nil
}

// transform returns the erased info of sym, memoized. Internal errors of
// the eraser surface here as errors.
func (d *Driver) transform(e *erasure.Eraser, sym *types.Symbol) (t types.Type, err error) {
	if v, ok := d.cache.Get(sym); ok {
		return v.(types.Type), nil
	}
	defer erasure.Recover(&err)
	t = e.TransformInfo(sym, sym.Info())
	d.cache.Add(sym, t)
	return t, nil
}

// postErasure replaces every value-class placeholder by its erased
// underlying type.
func postErasure(u *Unit) error {
	for _, sym := range u.Symbols {
		if t, ok := u.Infos[sym]; ok {
			u.Infos[sym] = ElimErasedValueTypes(t)
		}
	}
	return nil
}

// ElimErasedValueTypes returns t with each ErasedValueType replaced by its
// underlying type.
func ElimErasedValueTypes(t types.Type) types.Type {
	if evt, ok := t.(*types.ErasedValueType); ok {
		return ElimErasedValueTypes(evt.Underlying())
	}
	return types.Map(t, ElimErasedValueTypes)
}

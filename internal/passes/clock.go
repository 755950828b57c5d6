package passes

import (
	"sync/atomic"

	"github.com/you-not-fish/erasure/internal/erasure"
)

// Clock holds the current compiler phase. It is read by the eraser from
// worker goroutines while the driver advances it between passes.
type Clock struct {
	p atomic.Int32
}

// Phase returns the current phase.
func (c *Clock) Phase() erasure.Phase {
	return erasure.Phase(c.p.Load())
}

// Advance moves the clock to p. The clock never moves backwards.
func (c *Clock) Advance(p erasure.Phase) {
	for {
		cur := c.p.Load()
		if int32(p) <= cur || c.p.CompareAndSwap(cur, int32(p)) {
			return
		}
	}
}

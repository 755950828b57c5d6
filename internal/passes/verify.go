package passes

import (
	"github.com/hashicorp/go-set/v3"
	"github.com/pkg/errors"

	"github.com/you-not-fish/erasure/internal/erasure"
	"github.com/you-not-fish/erasure/internal/types"
)

// Verify checks the invariants of u for the phase on its clock:
// symbols are listed once, every symbol has a committed info once the
// erasure pass ran, and no value-class placeholder survives posterasure.
func Verify(u *Unit) error {
	phase := u.Clock.Phase()
	listed := set.New[*types.Symbol](len(u.Symbols))
	for _, sym := range u.Symbols {
		if !listed.Insert(sym) {
			return errors.Errorf("%s listed twice", sym.FullName())
		}
	}

	for sym := range u.Infos {
		if !listed.Contains(sym) {
			return errors.Errorf("info committed for unlisted symbol %s", sym.FullName())
		}
	}

	if phase < erasure.PhaseErasure {
		return nil
	}
	for _, sym := range u.Symbols {
		t, ok := u.Infos[sym]
		if !ok {
			return errors.Errorf("%s has no erased info at phase %s", sym.FullName(), phase)
		}
		if phase.ErasedTypes() && types.Exists(t, isErasedValueType) {
			return errors.Errorf("%s: ErasedValueType survives %s: %s", sym.FullName(), phase, t)
		}
	}
	return nil
}

func isErasedValueType(t types.Type) bool {
	_, ok := t.(*types.ErasedValueType)
	return ok
}

package erasure

// Phase identifies where the compiler is relative to the erasure pass.
type Phase int

const (
	PhaseTyper       Phase = iota // types are not erased yet
	PhaseErasure                  // the erasure pass is committing signatures
	PhasePostErasure              // every committed signature is erased
)

var phaseNames = [...]string{
	PhaseTyper:       "typer",
	PhaseErasure:     "erasure",
	PhasePostErasure: "posterasure",
}

func (p Phase) String() string {
	if p >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "Phase(?)"
}

// ErasedTypes reports whether types seen at phase p are already erased.
func (p Phase) ErasedTypes() bool {
	return p >= PhasePostErasure
}

// ParsePhase returns the phase with the given name.
func ParsePhase(name string) (Phase, bool) {
	for p, n := range phaseNames {
		if n == name {
			return Phase(p), true
		}
	}
	return 0, false
}

package specedit

// AlignerState is the per-request FSM state from spec.md §4.B. It is
// tracked mostly for observability: the only states an Aligner's State
// field ever holds *after* NextChunk returns are Fresh, Streaming, and
// Exhausted (see SPEC_FULL.md §9 for why Diverged never persists).
type AlignerState int

const (
	// StateFresh is the initial state: no token has been generated yet.
	StateFresh AlignerState = iota
	// StateStreaming is the steady state: the cursor tracks a confirmed
	// (possibly re-anchored) alignment between draft and generated suffix.
	StateStreaming
	// StateDiverged is entered only transiently, within a single call,
	// when a mismatch is detected at the cursor; it never survives past
	// the call that discovered it.
	StateDiverged
	// StateExhausted is absorbing: the cursor has reached the end of the
	// draft and no further proposals are possible for this request.
	StateExhausted
)

func (s AlignerState) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateStreaming:
		return "streaming"
	case StateDiverged:
		return "diverged"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

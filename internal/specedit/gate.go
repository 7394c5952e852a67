package specedit

import "sync/atomic"

// FeatureGates holds the process-wide switches that decide whether a
// completion request is served by the speculative-edit path or delegated
// to the host engine's n-gram speculator. Delegation is decided solely by
// gate state, never by registry contents, per SPEC_FULL.md §9 — a request
// with no bound draft simply produces no proposals on the spec-edit path
// regardless of gate state.
type FeatureGates struct {
	specEditEnabled atomic.Bool
	ngramEnabled    atomic.Bool
}

// NewFeatureGates returns gates with the speculative-edit path enabled and
// the n-gram fallback disabled, matching spec.md's "replaces" framing.
func NewFeatureGates() *FeatureGates {
	g := &FeatureGates{}
	g.specEditEnabled.Store(true)
	g.ngramEnabled.Store(false)
	return g
}

func (g *FeatureGates) SpecEditEnabled() bool { return g.specEditEnabled.Load() }
func (g *FeatureGates) NgramEnabled() bool    { return g.ngramEnabled.Load() }

func (g *FeatureGates) SetSpecEdit(enabled bool) { g.specEditEnabled.Store(enabled) }
func (g *FeatureGates) SetNgram(enabled bool)    { g.ngramEnabled.Store(enabled) }

// ActivePath reports which speculator path is in effect for a new
// proposal. Both gates can be enabled or disabled independently; when
// spec-edit is disabled, the proposer delegates to the n-gram fallback if
// that gate is on (PathNgram) and proposes nothing if it is off (PathNone).
type ActivePath int

const (
	PathNone ActivePath = iota
	PathSpecEdit
	PathNgram
)

func (g *FeatureGates) ActivePath() ActivePath {
	if g.SpecEditEnabled() {
		return PathSpecEdit
	}
	if g.NgramEnabled() {
		return PathNgram
	}
	return PathNone
}

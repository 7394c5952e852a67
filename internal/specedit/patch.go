package specedit

import (
	"log"
	"sync/atomic"
)

// HostEngine is the capability surface a host inference engine exposes to
// the speculative-edit core, replacing the source's approach of
// monkey-patching the engine's speculator attribute in place (spec.md's
// Design Notes §9 calls this out explicitly as something to re-architect
// rather than port literally).
//
// An engine that wants speculative-edit proposals implements this
// interface and passes itself to EnginePatchSurface.Install; the core
// never reaches into engine internals.
type HostEngine interface {
	// OnPropose is invoked by the engine's decode loop in place of its
	// generic speculator call, once per step, for a request that may or
	// may not have a bound draft.
	OnPropose(req RequestID, generated GeneratedSuffix, k int) ChunkResult

	// OnAdmit is invoked once a proposed chunk's tokens have been verified
	// and accepted by the engine. The Aligner does not advance its cursor
	// when it proposes; it advances from the generated suffix passed to the
	// next OnPropose call.
	OnAdmit(req RequestID, accepted int)

	// OnFinish is invoked when a request completes or is cancelled, so the
	// core can forget its registry entry.
	OnFinish(req RequestID)
}

// EnginePatchSurface is the single, explicit integration point between a
// HostEngine and this package's Core. Exactly one engine may be installed
// at a time per process; installing a second without uninstalling the
// first returns ErrInstallConflict, the only error in this package's
// taxonomy that propagates to the caller (spec.md §7).
type EnginePatchSurface struct {
	installed atomic.Bool
	engine    atomic.Value // engineSlot
	version   atomic.Value // string

	maxSpecLen atomic.Int64
}

// engineSlot wraps the installed HostEngine so atomic.Value always stores
// one concrete type, whichever engine implementation is installed, and can
// hold "no engine" without storing nil.
type engineSlot struct {
	engine HostEngine
}

// NewEnginePatchSurface builds an uninstalled patch surface with the
// given default spec length ceiling.
func NewEnginePatchSurface(maxSpecLen int) *EnginePatchSurface {
	p := &EnginePatchSurface{}
	p.maxSpecLen.Store(int64(maxSpecLen))
	return p
}

// Install binds engine as the active host, logging the engine version
// detected as spec.md §4.D's version-aware `install(engine_version)`
// requires. It fails with ErrInstallConflict if any engine is already
// installed.
func (p *EnginePatchSurface) Install(version string, engine HostEngine) error {
	if !p.installed.CompareAndSwap(false, true) {
		return ErrInstallConflict
	}
	p.engine.Store(engineSlot{engine: engine})
	p.version.Store(version)
	log.Printf("specedit: installed host engine, version=%s", version)
	return nil
}

// Uninstall releases the currently installed engine, if any. It is
// idempotent: uninstalling when nothing is installed is a no-op.
func (p *EnginePatchSurface) Uninstall() {
	if p.installed.CompareAndSwap(true, false) {
		p.engine.Store(engineSlot{})
		p.version.Store("")
	}
}

// Installed reports whether an engine is currently installed.
func (p *EnginePatchSurface) Installed() bool { return p.installed.Load() }

// Engine returns the currently installed engine, or nil if none.
func (p *EnginePatchSurface) Engine() HostEngine {
	v := p.engine.Load()
	if v == nil {
		return nil
	}
	slot, _ := v.(engineSlot)
	return slot.engine
}

// Version returns the version string passed to the currently installed
// engine's Install call, or "" if none is installed.
func (p *EnginePatchSurface) Version() string {
	v := p.version.Load()
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// RaiseSpecLengthLimit raises (never lowers) the spec-length ceiling this
// patch surface records and reports through MaxSpecLen. Lowering is
// rejected silently. The recorded ceiling does not change proposal
// lengths: aligners built by SpeculativeProposer.Bind clamp each chunk to
// Config.MaxSpecLen, whatever value is recorded here.
func (p *EnginePatchSurface) RaiseSpecLengthLimit(n int) {
	for {
		cur := p.maxSpecLen.Load()
		if int64(n) <= cur {
			return
		}
		if p.maxSpecLen.CompareAndSwap(cur, int64(n)) {
			return
		}
	}
}

// MaxSpecLen returns the current per-proposal token ceiling.
func (p *EnginePatchSurface) MaxSpecLen() int {
	return int(p.maxSpecLen.Load())
}

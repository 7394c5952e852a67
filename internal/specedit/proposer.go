package specedit

import (
	"log"
	"sync/atomic"

	"golang.org/x/time/rate"
)

// SpeculativeProposer is the component the host engine's decode loop
// calls into once per step, per request (spec.md §4.C). It decides
// between the speculative-edit path and the n-gram fallback purely from
// FeatureGates state, binds/looks up Aligners through the Registry, and
// never lets a panic inside alignment reach the caller.
//
// Grounded on the teacher's SpeculativeDecodingEngine.GenerateTokens
// (core/inference/speculative_decoding.go), which plays the same
// decide-then-dispatch role for draft/verify speculation.
type SpeculativeProposer struct {
	registry *Registry
	gates    *FeatureGates
	fallback NgramSpeculator
	events   *EventBus
	limiter  *rate.Limiter

	cfg Config

	proposals       int64
	delegations     int64
	panicsRecovered int64
}

// NewSpeculativeProposer wires a proposer from its dependencies. fallback
// may be nil, in which case NoopSpeculator is used.
func NewSpeculativeProposer(registry *Registry, gates *FeatureGates, fallback NgramSpeculator, events *EventBus, cfg Config) *SpeculativeProposer {
	if fallback == nil {
		fallback = NoopSpeculator{}
	}
	return &SpeculativeProposer{
		registry: registry,
		gates:    gates,
		fallback: fallback,
		events:   events,
		limiter:  rate.NewLimiter(rate.Limit(cfg.ErrorLogRate), cfg.ErrorLogBurst),
		cfg:      cfg,
	}
}

// Bind registers draft as the expected completion for req, replacing any
// prior binding. Per spec.md §4.A, an empty draft creates no entry at
// all: Propose on req then misses the registry exactly as it would for
// an id that was never bound.
func (p *SpeculativeProposer) Bind(req RequestID, draft Draft) {
	if len(draft) == 0 {
		p.logRateLimited(classEmptyDraft, "specedit: empty draft for request %s, no entry created", req)
		return
	}
	aligner := NewAligner(draft, p.cfg.LookbackWindow, p.cfg.MaxSpecLen)
	p.registry.Bind(req, aligner)
}

// Propose produces the next speculative chunk for req. It never returns
// an error: every failure mode in spec.md §7 except ErrInstallConflict
// degrades to an empty ChunkResult, logged at a rate-limited level.
func (p *SpeculativeProposer) Propose(req RequestID, generated GeneratedSuffix, k int) (result ChunkResult) {
	atomic.AddInt64(&p.proposals, 1)

	defer func() {
		if r := recover(); r != nil {
			atomic.AddInt64(&p.panicsRecovered, 1)
			p.logRateLimited(classPanicRecovered, "specedit: recovered panic in Propose for %s: %v", req, r)
			result = ChunkResult{Kind: chunkKindNoProposal}
		}
	}()

	if k <= 0 {
		k = p.cfg.DefaultSpecLen
	}

	switch p.gates.ActivePath() {
	case PathNone:
		return ChunkResult{Kind: chunkKindNoProposal}
	case PathNgram:
		atomic.AddInt64(&p.delegations, 1)
		tokens := p.fallback.Propose(generated, k)
		if len(tokens) == 0 {
			return ChunkResult{Kind: chunkKindNoProposal}
		}
		return ChunkResult{Kind: chunkKindChunk, Tokens: tokens}
	}

	aligner, ok := p.registry.Lookup(req)
	if !ok {
		p.logRateLimited(classUnknownRequest, "specedit: no draft bound for request %s", req)
		return ChunkResult{Kind: chunkKindNoProposal}
	}

	before := aligner.Cursor()
	reanchorsBefore := aligner.Stats().ReanchorSuccesses
	result = aligner.NextChunk(generated, k)

	switch {
	case result.NoProposal():
		p.logRateLimited(classAlignmentFailure, "specedit: no re-anchor match for request %s at cursor %d", req, before)
	case result.Exhausted():
		p.logRateLimited(classDraftExhausted, "specedit: draft exhausted for request %s", req)
	}

	p.publish(req, aligner, before, reanchorsBefore, result)
	return result
}

// Finish releases req's registry entry. Idempotent.
func (p *SpeculativeProposer) Finish(req RequestID) {
	p.registry.Forget(req)
	if p.events != nil {
		p.events.Publish(AlignerEvent{Kind: EventRequestForgotten, Request: req})
	}
}

// Stats returns a snapshot of proposer-wide activity.
func (p *SpeculativeProposer) Stats() ProposerStats {
	return ProposerStats{
		Proposals:       atomic.LoadInt64(&p.proposals),
		Delegations:     atomic.LoadInt64(&p.delegations),
		PanicsRecovered: atomic.LoadInt64(&p.panicsRecovered),
		Registry:        p.registry.Stats(),
	}
}

func (p *SpeculativeProposer) publish(req RequestID, aligner *Aligner, cursorBefore int, reanchorsBefore int64, result ChunkResult) {
	if p.events == nil {
		return
	}
	switch result.Kind {
	case chunkKindExhausted:
		p.events.Publish(AlignerEvent{Kind: EventExhausted, Request: req, Cursor: aligner.Cursor()})
	case chunkKindNoProposal:
		p.events.Publish(AlignerEvent{Kind: EventDiverged, Request: req, Cursor: cursorBefore})
	case chunkKindChunk:
		stats := aligner.Stats()
		kind := EventChunkProposed
		if stats.ReanchorSuccesses > reanchorsBefore {
			kind = EventReanchored
		}
		p.events.Publish(AlignerEvent{Kind: kind, Request: req, Cursor: aligner.Cursor(), Tokens: len(result.Tokens)})
	}
}

func (p *SpeculativeProposer) logRateLimited(class errorClass, format string, args ...interface{}) {
	if !p.limiter.Allow() {
		return
	}
	log.Printf("[%s] "+format, append([]interface{}{class}, args...)...)
}

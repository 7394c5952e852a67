package specedit

// defaultEngineVersion is reported to EnginePatchSurface.Install when a
// Core installs its own proposer as the active host engine at
// construction time (Config.PatchOnImport).
const defaultEngineVersion = "specedit-core/1"

// proposerHostEngine adapts a *SpeculativeProposer to the HostEngine
// capability interface, so the in-process default case — no separate
// host engine, Core's own proposer serves every request — goes through
// the same EnginePatchSurface every external integration uses, rather
// than bypassing it.
type proposerHostEngine struct {
	proposer *SpeculativeProposer
}

func (e *proposerHostEngine) OnPropose(req RequestID, generated GeneratedSuffix, k int) ChunkResult {
	return e.proposer.Propose(req, generated, k)
}

func (e *proposerHostEngine) OnAdmit(req RequestID, accepted int) {
	// The Aligner already advances its cursor from the generated suffix
	// the caller supplies on the next Propose call; the default adapter
	// has nothing further to reconcile here.
}

func (e *proposerHostEngine) OnFinish(req RequestID) {
	e.proposer.Finish(req)
}

// Core owns every piece of mutable state this package needs: the
// registry, the feature gates, the patch surface, the event bus and the
// proposer built from them. Per SPEC_FULL.md §9's anti-global-mutable-
// instance guidance, nothing in this package keeps package-level mutable
// state — a process wires up exactly one Core (or more, for tests) and
// threads it explicitly, the same shape as the teacher's
// ProductionInferenceEngine owning its pool/batcher/cache rather than
// reaching for globals (core/inference/production_engine.go).
//
// Every request flows through Patch, the single integration point
// spec.md §4.D describes: by default (Config.PatchOnImport) Core installs
// its own proposer as the active HostEngine, so Bind/Propose/Finish never
// bypass EnginePatchSurface even when no external engine replaces it. A
// caller integrating a real host engine calls Patch.Uninstall then
// Patch.Install with its own HostEngine implementation first.
type Core struct {
	Config   Config
	Registry *Registry
	Gates    *FeatureGates
	Patch    *EnginePatchSurface
	Events   *EventBus
	Proposer *SpeculativeProposer
}

// NewCore wires a fully-functional Core from cfg. fallback may be nil.
func NewCore(cfg Config, fallback NgramSpeculator) *Core {
	registry := NewRegistry(cfg.RegistryCapacity)
	gates := NewFeatureGates()
	events := NewEventBus(cfg.EventBufferSize)
	proposer := NewSpeculativeProposer(registry, gates, fallback, events, cfg)
	patch := NewEnginePatchSurface(cfg.MaxSpecLen)

	core := &Core{
		Config:   cfg,
		Registry: registry,
		Gates:    gates,
		Patch:    patch,
		Events:   events,
		Proposer: proposer,
	}

	if cfg.PatchOnImport {
		_ = patch.Install(defaultEngineVersion, &proposerHostEngine{proposer: proposer})
	}

	return core
}

// Bind registers draft as the expected completion for req. If draft is
// longer than the patch surface's current spec-length ceiling, the
// ceiling is raised to fit it before binding, exercising
// EnginePatchSurface.RaiseSpecLengthLimit on the real request path.
func (c *Core) Bind(req RequestID, draft Draft) {
	if len(draft) > c.Patch.MaxSpecLen() {
		c.Patch.RaiseSpecLengthLimit(len(draft))
	}
	c.Proposer.Bind(req, draft)
}

// Propose routes to the installed HostEngine when one is present,
// falling back to the proposer directly otherwise (only possible after
// an explicit Patch.Uninstall with no replacement installed).
func (c *Core) Propose(req RequestID, generated GeneratedSuffix, k int) ChunkResult {
	if engine := c.Patch.Engine(); engine != nil {
		return engine.OnPropose(req, generated, k)
	}
	return c.Proposer.Propose(req, generated, k)
}

// Admit notifies the installed HostEngine that accepted tokens of a
// proposed chunk were verified by the decode loop.
func (c *Core) Admit(req RequestID, accepted int) {
	if engine := c.Patch.Engine(); engine != nil {
		engine.OnAdmit(req, accepted)
	}
}

// Finish routes to the installed HostEngine when one is present, falling
// back to the proposer directly otherwise.
func (c *Core) Finish(req RequestID) {
	if engine := c.Patch.Engine(); engine != nil {
		engine.OnFinish(req)
		return
	}
	c.Proposer.Finish(req)
}

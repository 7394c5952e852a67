package specedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCore_EndToEndBindProposeFinish(t *testing.T) {
	core := NewCore(DefaultConfig(), nil)

	core.Bind("req-1", tok(1, 2, 3, 4, 5, 6))
	first := core.Propose("req-1", nil, 3)
	assert.Equal(t, tok(1, 2, 3), first.Tokens)

	second := core.Propose("req-1", tok(1, 2, 3), 3)
	assert.Equal(t, tok(4, 5, 6), second.Tokens)

	third := core.Propose("req-1", tok(1, 2, 3, 4, 5, 6), 3)
	assert.Equal(t, chunkKindExhausted, third.Kind)

	core.Finish("req-1")
	_, ok := core.Registry.Lookup("req-1")
	assert.False(t, ok)
}

func TestCore_PatchOnImportInstallsDefaultHostEngine(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PatchOnImport = true
	core := NewCore(cfg, nil)

	assert.True(t, core.Patch.Installed())
	assert.Equal(t, defaultEngineVersion, core.Patch.Version())
	assert.NotNil(t, core.Patch.Engine())
}

func TestCore_ProposeRoutesThroughInstalledEngine(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PatchOnImport = false
	core := NewCore(cfg, nil)
	assert.False(t, core.Patch.Installed(), "PatchOnImport=false must not auto-install")

	core.Bind("req-1", tok(1, 2, 3, 4, 5, 6))

	// With no engine installed, Core falls back to its own proposer
	// directly, so the request is still served.
	res := core.Propose("req-1", nil, 3)
	assert.Equal(t, tok(1, 2, 3), res.Tokens)

	seen := &recordingEngine{}
	err := core.Patch.Install("custom/1", seen)
	assert.NoError(t, err)

	core.Propose("req-1", tok(1, 2, 3), 3)
	core.Admit("req-1", 3)
	core.Finish("req-1")

	assert.Equal(t, 1, seen.proposes)
	assert.Equal(t, 1, seen.admits)
	assert.Equal(t, 1, seen.finishes)
}

type recordingEngine struct {
	proposes, admits, finishes int
}

func (e *recordingEngine) OnPropose(RequestID, GeneratedSuffix, int) ChunkResult {
	e.proposes++
	return ChunkResult{Kind: chunkKindNoProposal}
}

func (e *recordingEngine) OnAdmit(RequestID, int) { e.admits++ }
func (e *recordingEngine) OnFinish(RequestID)     { e.finishes++ }

func TestCore_GatesControlDelegation(t *testing.T) {
	core := NewCore(DefaultConfig(), NewSimpleNgramSpeculator(1))
	core.Gates.SetSpecEdit(false)
	core.Gates.SetNgram(true)

	core.Bind("req-1", tok(1, 2, 3))
	res := core.Propose("req-1", tok(5, 6, 5), 2)
	assert.Equal(t, tok(6, 5), res.Tokens)
}

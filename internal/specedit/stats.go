package specedit

// ProposerStats tracks proposer-level activity across all requests,
// separate from any single Aligner's per-request AlignerStats.
type ProposerStats struct {
	Proposals       int64
	Delegations     int64
	PanicsRecovered int64
	Registry        RegistryStats
}

package orchestrator

import (
	"time"

	"codekg/internal/validation"
)

// Phase names one of the five fixed pipeline stages, in the order the
// orchestrator always runs them.
type Phase string

const (
	PhaseDiscovery  Phase = "DISCOVERY"
	PhaseIndexing   Phase = "INDEXING"
	PhaseAnalysis   Phase = "ANALYSIS"
	PhaseEnrichment Phase = "ENRICHMENT"
	PhaseValidation Phase = "VALIDATION"
)

// PhaseResult records what happened during one phase: how long it took,
// how many files it touched, and any plugin-local failures it absorbed
// rather than aborting the run for (only a fatal error — bad config,
// an unreachable store — aborts; a plugin failing on one file is recorded
// here and the phase continues).
type PhaseResult struct {
	Phase      Phase
	Duration   time.Duration
	FileCount  int
	PluginErrs []string
}

// Manifest is the unified, cross-phase state the orchestrator accumulates:
// the files DISCOVERY found, what each phase did with them, and the
// validation findings the final phase produced.
type Manifest struct {
	Roots       []string
	Files       int
	NodeCount   int
	EdgeCount   int
	Phases      []PhaseResult
	Findings    []validation.Error
	StrictAbort bool
}

// HasFatalFindings reports whether strict mode should fail the run: any
// validation.Error of error severity, once strict mode is enabled.
func (m *Manifest) HasFatalFindings(strict bool) bool {
	return strict && validation.HasError(m.Findings)
}

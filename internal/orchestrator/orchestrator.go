// Package orchestrator schedules the five fixed pipeline phases — DISCOVERY,
// INDEXING, ANALYSIS, ENRICHMENT, VALIDATION — across one or more workspace
// roots, and aggregates their results into a single Manifest. Within a
// phase it is cooperatively single-threaded (plugins run in dependency
// order, one at a time); across files within the ANALYSIS phase it
// parallelises file-level analysis. The parallel analyzers share one
// mutex-guarded storage.Facade: every file buffers into that one facade,
// and a Flush by any analyzer commits whatever all in-flight files have
// buffered so far.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"codekg/internal/config"
	"codekg/internal/enrichment"
	"codekg/internal/logging"
	"codekg/internal/storage"
	"codekg/internal/validation"
)

// maxParallelAnalysis bounds how many files are analyzed concurrently
// within the ANALYSIS phase, mirroring the teacher's bounded worker
// semaphore for filesystem scans.
const maxParallelAnalysis = 8

// Orchestrator runs the fixed five-phase pipeline against a configured set
// of workspace roots and a backing graph store.
type Orchestrator struct {
	cfg       *config.Config
	store     storage.GraphStore
	analyzers *analyzerRegistry
}

// New builds an Orchestrator. store is the already-open backend (e.g. from
// storage.OpenSQLiteStore) the facade will flush into.
func New(cfg *config.Config, store storage.GraphStore) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		store:     store,
		analyzers: newAnalyzerRegistry(selectAnalyzers(cfg.Plugins.Analysis)),
	}
}

// Run executes DISCOVERY through VALIDATION in order and returns the
// aggregated manifest. A fatal error (bad roots, a store failure) aborts
// the run and returns a non-nil error; plugin-local and validation
// failures are recorded in the manifest instead.
func (o *Orchestrator) Run(ctx context.Context) (*Manifest, error) {
	log := logging.Get(logging.CategoryOrchestrator)
	manifest := &Manifest{}

	roots, err := config.ResolveRoots(o.cfg)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: resolving roots: %w", err)
	}
	for _, r := range roots {
		manifest.Roots = append(manifest.Roots, r.AbsPath)
	}

	files, result, err := o.runDiscovery(ctx, roots)
	if err != nil {
		return nil, err
	}
	manifest.Phases = append(manifest.Phases, result)

	result = o.runIndexing(ctx, files)
	manifest.Phases = append(manifest.Phases, result)

	facade := storage.NewFacade(o.store, o.cfg.Strict)
	result, err = o.runAnalysis(ctx, files, facade)
	manifest.Phases = append(manifest.Phases, result)
	if err != nil {
		return manifest, err
	}

	if ctx.Err() != nil {
		return manifest, ctx.Err()
	}

	result, err = o.runEnrichment(ctx)
	manifest.Phases = append(manifest.Phases, result)
	if err != nil {
		return manifest, err
	}

	if ctx.Err() != nil {
		return manifest, ctx.Err()
	}

	findings, result, err := o.runValidation(ctx)
	manifest.Phases = append(manifest.Phases, result)
	if err != nil {
		return manifest, err
	}
	manifest.Findings = findings
	manifest.StrictAbort = manifest.HasFatalFindings(o.cfg.Strict)

	nodeCount, edgeCount, err := o.graphCounts(ctx)
	if err != nil {
		return manifest, err
	}
	manifest.NodeCount = nodeCount
	manifest.EdgeCount = edgeCount
	manifest.Files = len(files)

	log.Info("run complete: %d files, %d nodes, %d edges, %d findings", len(files), nodeCount, edgeCount, len(findings))
	return manifest, nil
}

func (o *Orchestrator) runDiscovery(ctx context.Context, roots []config.ResolvedRoot) ([]discoveredFile, PhaseResult, error) {
	start := time.Now()
	files, err := discover(ctx, o.cfg, roots, o.analyzers.extensions())
	result := PhaseResult{Phase: PhaseDiscovery, Duration: time.Since(start), FileCount: len(files)}
	if err != nil {
		return nil, result, fmt.Errorf("orchestrator: discovery: %w", err)
	}
	return files, result, nil
}

// runIndexing is the "filesystem-indexer" plugin's home: it stats every
// discovered file so a later phase can report a file it could not read as
// a plugin-local failure instead of analysis crashing on it.
func (o *Orchestrator) runIndexing(ctx context.Context, files []discoveredFile) PhaseResult {
	start := time.Now()
	result := PhaseResult{Phase: PhaseIndexing, FileCount: len(files)}
	for _, f := range files {
		if ctx.Err() != nil {
			break
		}
		if _, err := os.Stat(f.AbsPath); err != nil {
			result.PluginErrs = append(result.PluginErrs, fmt.Sprintf("filesystem-indexer: %s: %v", f.RelPath, err))
		}
	}
	result.Duration = time.Since(start)
	return result
}

func (o *Orchestrator) runAnalysis(ctx context.Context, files []discoveredFile, facade *storage.Facade) (PhaseResult, error) {
	start := time.Now()
	result := PhaseResult{Phase: PhaseAnalysis}
	log := logging.Get(logging.CategoryAnalysis)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelAnalysis)

	var errAcc fileErrorAccumulator
	for _, f := range files {
		f := f
		analyzer, ok := o.analyzers.forExt(extOf(f.RelPath))
		if !ok {
			continue
		}
		result.FileCount++
		g.Go(func() error {
			source, err := os.ReadFile(f.AbsPath)
			if err != nil {
				errAcc.append(fmt.Sprintf("%s: %v", f.RelPath, err))
				return nil
			}
			if err := analyzer.Analyze(gctx, f.fileID(), source, facade); err != nil {
				log.Warn("analysis failed for %s: %v", f.RelPath, err)
				errAcc.append(fmt.Sprintf("%s: %v", f.RelPath, err))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		result.Duration = time.Since(start)
		return result, fmt.Errorf("orchestrator: analysis: %w", err)
	}
	result.PluginErrs = errAcc.items
	result.Duration = time.Since(start)
	return result, nil
}

func (o *Orchestrator) runEnrichment(ctx context.Context) (PhaseResult, error) {
	start := time.Now()
	result := PhaseResult{Phase: PhaseEnrichment}
	plugins := selectEnrichmentPlugins(o.cfg.Plugins.Enrichment)
	if err := enrichment.Run(ctx, plugins, o.store); err != nil {
		result.Duration = time.Since(start)
		return result, fmt.Errorf("orchestrator: enrichment: %w", err)
	}
	result.Duration = time.Since(start)
	return result, nil
}

func (o *Orchestrator) runValidation(ctx context.Context) ([]validation.Error, PhaseResult, error) {
	start := time.Now()
	result := PhaseResult{Phase: PhaseValidation}
	validators := selectValidators(o.cfg.Plugins.Validation)
	findings, err := validation.Run(ctx, validators, o.store)
	result.Duration = time.Since(start)
	if err != nil {
		return nil, result, fmt.Errorf("orchestrator: validation: %w", err)
	}
	return findings, result, nil
}

func (o *Orchestrator) graphCounts(ctx context.Context) (int, int, error) {
	n, err := o.store.NodeCount(ctx)
	if err != nil {
		return 0, 0, err
	}
	e, err := o.store.EdgeCount(ctx)
	if err != nil {
		return 0, 0, err
	}
	return n, e, nil
}

// fileErrorAccumulator is a concurrency-safe string accumulator for
// plugin-local errors collected from analysis goroutines.
type fileErrorAccumulator struct {
	mu    sync.Mutex
	items []string
}

func (a *fileErrorAccumulator) append(s string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.items = append(a.items, s)
}

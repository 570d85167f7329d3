package orchestrator

import (
	"context"

	"codekg/internal/goanalyzer"
	"codekg/internal/jsts"
	"codekg/internal/storage"
)

// LanguageAnalyzer is the contract every per-language front end satisfies
// during the analysis phase. It matches internal/goanalyzer.Analyzer's
// signature directly; internal/jsts.Analyzer returns a *builder.Context
// besides the error, which jstsAdapter discards below since nothing
// downstream of the analysis phase consumes it — cross-file linking runs
// entirely off the committed graph in the enrichment phase.
type LanguageAnalyzer interface {
	SupportedExtensions() []string
	Language() string
	Analyze(ctx context.Context, file string, source []byte, facade *storage.Facade) error
}

// jstsAdapter wraps *jsts.Analyzer to satisfy LanguageAnalyzer.
type jstsAdapter struct {
	inner *jsts.Analyzer
}

func (a jstsAdapter) SupportedExtensions() []string { return a.inner.SupportedExtensions() }
func (a jstsAdapter) Language() string              { return a.inner.Language() }

func (a jstsAdapter) Analyze(ctx context.Context, file string, source []byte, facade *storage.Facade) error {
	_, err := a.inner.Analyze(ctx, file, source, facade)
	return err
}

// DefaultAnalyzers returns the built-in per-language front ends, keyed
// internally by the file extension each one claims.
func DefaultAnalyzers() []LanguageAnalyzer {
	return []LanguageAnalyzer{
		jstsAdapter{inner: jsts.NewAnalyzer()},
		goanalyzer.NewAnalyzer(),
	}
}

// selectAnalyzers filters DefaultAnalyzers by cfg.Plugins.Analysis's
// configured language names, falling back to every built-in analyzer when
// none are named. "typescript" is treated as an alias for the same JS/TS
// front end "javascript" selects, since one Analyzer instance handles both
// language's extensions.
func selectAnalyzers(names []string) []LanguageAnalyzer {
	if len(names) == 0 {
		return DefaultAnalyzers()
	}
	allowed := make(map[string]bool, len(names))
	for _, n := range names {
		allowed[n] = true
	}
	var out []LanguageAnalyzer
	for _, a := range DefaultAnalyzers() {
		lang := a.Language()
		if allowed[lang] || (lang == "javascript" && allowed["typescript"]) {
			out = append(out, a)
		}
	}
	return out
}

// analyzerRegistry resolves a file extension to the analyzer that claims
// it. Extensions are matched first-registered-wins, so callers that care
// about precedence should order DefaultAnalyzers accordingly.
type analyzerRegistry struct {
	byExt map[string]LanguageAnalyzer
}

func newAnalyzerRegistry(analyzers []LanguageAnalyzer) *analyzerRegistry {
	r := &analyzerRegistry{byExt: make(map[string]LanguageAnalyzer)}
	for _, a := range analyzers {
		for _, ext := range a.SupportedExtensions() {
			if _, exists := r.byExt[ext]; !exists {
				r.byExt[ext] = a
			}
		}
	}
	return r
}

func (r *analyzerRegistry) forExt(ext string) (LanguageAnalyzer, bool) {
	a, ok := r.byExt[ext]
	return a, ok
}

func (r *analyzerRegistry) extensions() map[string]bool {
	exts := make(map[string]bool, len(r.byExt))
	for ext := range r.byExt {
		exts[ext] = true
	}
	return exts
}

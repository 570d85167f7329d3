package jsts

import (
	"context"
	"fmt"

	"codekg/internal/builder"
	"codekg/internal/storage"
)

// Analyzer is the JS/TS language front-end: it parses one file with
// Parser and hands the resulting collections to a GraphBuilder, buffering
// everything through the caller's facade. It is the per-language analyzer
// the analysis phase drives for every file it owns.
type Analyzer struct {
	parser *Parser
	gb     *builder.GraphBuilder
}

// NewAnalyzer returns an Analyzer with both tree-sitter grammars loaded.
func NewAnalyzer() *Analyzer {
	return &Analyzer{parser: NewParser(), gb: builder.NewGraphBuilder()}
}

// SupportedExtensions lists the file extensions this analyzer claims.
func (a *Analyzer) SupportedExtensions() []string {
	return []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx"}
}

// Language returns the short identifier used in logs and plugin config.
func (a *Analyzer) Language() string { return "javascript" }

// Analyze parses file and buffers its graph into facade. It returns the
// builder.Context used for the build so a caller analyzing a whole root can
// keep per-file scope indexes around for later cross-file enrichment.
func (a *Analyzer) Analyze(ctx context.Context, file string, source []byte, facade *storage.Facade) (*builder.Context, error) {
	collections, err := a.parser.Parse(file, source)
	if err != nil {
		return nil, fmt.Errorf("jsts: analyzing %s: %w", file, err)
	}
	bctx, err := a.gb.Build(ctx, file, collections, facade)
	if err != nil {
		return nil, fmt.Errorf("jsts: building graph for %s: %w", file, err)
	}
	return bctx, nil
}

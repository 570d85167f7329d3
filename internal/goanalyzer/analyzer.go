package goanalyzer

import (
	"context"
	"fmt"

	"codekg/internal/graph"
	"codekg/internal/semid"
	"codekg/internal/storage"
)

// Analyzer is the Go language front-end. Unlike internal/jsts's Analyzer it
// does not share the astvisit/builder pipeline: Go's structural shape
// (typed declarations, no dynamic RHS classification) does not need a
// scope-stack visitor, so resolution here is a single flat by-name map
// rather than the JS/TS builder's scope-aware lookups.
type Analyzer struct {
	parser  *Parser
	factory *graph.Factory
}

// NewAnalyzer returns an Analyzer with a fresh Parser and Factory.
func NewAnalyzer() *Analyzer {
	return &Analyzer{parser: NewParser(), factory: graph.NewFactory()}
}

// SupportedExtensions reports the one extension this analyzer claims.
func (a *Analyzer) SupportedExtensions() []string { return []string{".go"} }

// Language returns the short identifier used in logs and plugin config.
func (a *Analyzer) Language() string { return "go" }

// Analyze parses file and buffers its structural graph into facade: a
// MODULE node; a CLASS node per struct and an INTERFACE node per interface
// type, CONTAINS-linked from the module; a FUNCTION node per func/method,
// CONTAINS-linked from its receiver's CLASS node when it has one and from
// the module otherwise; CALLS edges resolved by simple callee name within
// the file; and an IMPORT node per import spec, IMPORTS_FROM-linked from
// the module.
//
// Resolution is file-local and name-based only: a call to a function
// defined in another file, or to a same-named function in another
// package, is structurally invisible here. That is the explicit
// structural-only tradeoff for this analyzer — full call resolution needs
// package-level type information this parser does not build.
func (a *Analyzer) Analyze(ctx context.Context, file string, source []byte, facade *storage.Facade) error {
	info, err := a.parser.Parse(file, source)
	if err != nil {
		return fmt.Errorf("goanalyzer: analyzing %s: %w", file, err)
	}

	moduleCtx := semid.Context{File: file}
	moduleNode, err := a.factory.CreateModule(file)
	if err != nil {
		return err
	}
	if err := facade.BufferNode(moduleNode); err != nil {
		return err
	}

	typesByName := make(map[string]string)
	for _, ti := range info.Types {
		var n graph.Node
		var err error
		if ti.IsStruct {
			n, err = a.factory.CreateClass(ti.Name, moduleCtx, ti.Line, ti.Col, ti.Col)
			if n.Metadata == nil {
				n.Metadata = make(map[string]any)
			}
			n.Metadata["kind"] = "struct"
		} else {
			n, err = a.factory.CreateInterface(ti.Name, moduleCtx, ti.Line, ti.Col)
		}
		if err != nil {
			return err
		}
		if err := facade.BufferNode(n); err != nil {
			return err
		}
		facade.BufferEdge(graph.Edge{Type: graph.EdgeContains, Src: moduleNode.ID, Dst: n.ID})
		typesByName[ti.Name] = n.ID
	}

	funcsByName := make(map[string]string)
	for _, fi := range info.Funcs {
		fnCtx := moduleCtx
		if fi.Receiver != "" {
			fnCtx = moduleCtx.Push(fi.Receiver)
		}
		n, err := a.factory.CreateFunction(fi.Name, fnCtx, fi.Line, fi.Col, fi.Col)
		if err != nil {
			return err
		}
		if n.Metadata == nil {
			n.Metadata = make(map[string]any)
		}
		n.Metadata["is_method"] = fi.Receiver != ""
		if fi.Receiver != "" {
			n.Metadata["receiver"] = fi.Receiver
		}
		if err := facade.BufferNode(n); err != nil {
			return err
		}
		funcsByName[fi.Name] = n.ID

		containsSrc := moduleNode.ID
		if structID, ok := typesByName[fi.Receiver]; ok {
			containsSrc = structID
		}
		facade.BufferEdge(graph.Edge{Type: graph.EdgeContains, Src: containsSrc, Dst: n.ID})
	}

	for _, fi := range info.Funcs {
		callerID, ok := funcsByName[fi.Name]
		if !ok {
			continue
		}
		for _, callee := range fi.Calls {
			if calleeID, ok := funcsByName[callee]; ok {
				facade.BufferEdge(graph.Edge{Type: graph.EdgeCalls, Src: callerID, Dst: calleeID})
			}
		}
	}

	for _, imp := range info.Imports {
		specName := imp.Alias
		if specName == "" {
			specName = imp.Path
		}
		n, err := a.factory.CreateImport(specName, moduleCtx, imp.Path, imp.Line, imp.Col, imp.Col)
		if err != nil {
			return err
		}
		if err := facade.BufferNode(n); err != nil {
			return err
		}
		facade.BufferEdge(graph.Edge{Type: graph.EdgeImportsFrom, Src: moduleNode.ID, Dst: n.ID})
	}

	return facade.Flush(ctx)
}

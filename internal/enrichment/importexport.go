package enrichment

import (
	"context"
	"path"
	"strings"

	"codekg/internal/graph"
	"codekg/internal/semid"
	"codekg/internal/storage"
)

// resolvableExtensions are tried in order against an extensionless relative
// import specifier, matching Node's own module-resolution fallback order.
var resolvableExtensions = []string{"", ".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"}

// ImportExportLinker resolves every IMPORT node whose source is a relative
// path to the MODULE it names, and from there to the EXPORT carrying the
// same binding name, emitting an IMPORTS_FROM edge. Imports naming an
// external package (a bare specifier, no leading "." or "/") are left
// untouched: resolving those needs the cross-root package-provider table
// the indexing phase has not been built to populate yet.
type ImportExportLinker struct{}

func (ImportExportLinker) Name() string         { return "ImportExportLinker" }
func (ImportExportLinker) Dependencies() []string { return nil }

// Enrich implements Plugin.
func (ImportExportLinker) Enrich(ctx context.Context, store storage.GraphStore) error {
	imports, err := store.QueryNodes(ctx, graph.NodeImport)
	if err != nil {
		return err
	}
	exports, err := store.QueryNodes(ctx, graph.NodeExport)
	if err != nil {
		return err
	}

	// Index candidate export targets by (file, name) for O(1) lookup per
	// import instead of an O(imports*exports) scan.
	exportsByFileAndName := make(map[string]graph.Node, len(exports))
	for _, exp := range exports {
		exportsByFileAndName[exp.File+"|"+exp.Name] = exp
	}

	for _, imp := range imports {
		source, _ := imp.Metadata["source"].(string)
		if source == "" || !isRelativeSpecifier(source) {
			continue
		}

		targetFile, ok := resolveRelativeImport(store, ctx, imp.File, source)
		if !ok {
			continue
		}
		if exp, ok := exportsByFileAndName[targetFile+"|"+imp.Name]; ok {
			if err := store.AddEdge(ctx, graph.Edge{Type: graph.EdgeImportsFrom, Src: imp.ID, Dst: exp.ID}); err != nil {
				return err
			}
		}
	}
	return nil
}

func isRelativeSpecifier(source string) bool {
	return strings.HasPrefix(source, "./") || strings.HasPrefix(source, "../") || strings.HasPrefix(source, "/")
}

// resolveRelativeImport joins importerFile's directory with source and
// probes the resulting path (and its /index variants) against every
// extension Node's resolver would try, returning the first candidate that
// has a MODULE node in the graph.
func resolveRelativeImport(store storage.GraphStore, ctx context.Context, importerFile, source string) (string, bool) {
	base := path.Join(path.Dir(importerFile), source)
	candidates := make([]string, 0, len(resolvableExtensions)*2)
	for _, ext := range resolvableExtensions {
		candidates = append(candidates, base+ext)
		candidates = append(candidates, path.Join(base, "index"+ext))
	}

	for _, candidate := range candidates {
		moduleID, err := semid.Compute(graph.NodeModule, candidate, semid.Context{File: candidate})
		if err != nil {
			continue
		}
		if _, found, err := store.GetNode(ctx, moduleID); err == nil && found {
			return candidate, true
		}
	}
	return "", false
}

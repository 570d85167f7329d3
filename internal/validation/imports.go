package validation

import (
	"context"
	"fmt"
	"strings"

	"codekg/internal/graph"
	"codekg/internal/storage"
)

// BrokenImportValidator flags an IMPORT node that, after the enrichment
// phase has had its chance to resolve ImportExportLinker's IMPORTS_FROM
// edge, still has none — provided the import names a relative specifier
// rather than an external package. An external-package import is never
// resolvable against this graph (the indexing phase doesn't track
// installed dependencies' exports), so it is never broken by definition.
type BrokenImportValidator struct{}

func (BrokenImportValidator) Name() string { return "BrokenImportValidator" }

// Validate implements Validator.
func (BrokenImportValidator) Validate(ctx context.Context, store storage.GraphStore) ([]Error, error) {
	imports, err := store.QueryNodes(ctx, graph.NodeImport)
	if err != nil {
		return nil, err
	}

	var findings []Error
	for _, imp := range imports {
		source, _ := imp.Metadata["source"].(string)
		if source == "" || !isRelativeSpecifier(source) {
			continue
		}

		outgoing, err := store.GetOutgoingEdges(ctx, imp.ID)
		if err != nil {
			return nil, err
		}
		if hasImportsFrom(outgoing) {
			continue
		}
		findings = append(findings, Error{
			Code:     "WARN_BROKEN_IMPORT",
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("import %q from %q did not resolve to an export", imp.Name, source),
			NodeID:   imp.ID,
		})
	}
	return findings, nil
}

func hasImportsFrom(edges []graph.Edge) bool {
	for _, e := range edges {
		if e.Type == graph.EdgeImportsFrom {
			return true
		}
	}
	return false
}

// isRelativeSpecifier mirrors enrichment.ImportExportLinker's definition
// of a locally-resolvable import: a specifier that names a path rather
// than a package registered with the runtime.
func isRelativeSpecifier(source string) bool {
	return strings.HasPrefix(source, "./") || strings.HasPrefix(source, "../") || strings.HasPrefix(source, "/")
}

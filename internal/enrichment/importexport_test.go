package enrichment

import (
	"context"
	"testing"

	"codekg/internal/graph"
	"codekg/internal/semid"
)

func TestImportExportLinkerResolvesRelativeImport(t *testing.T) {
	store := newMemStore()

	bModuleID, _ := semid.Compute(graph.NodeModule, "b.js", semid.Context{File: "b.js"})
	store.addNode(graph.Node{ID: bModuleID, Type: graph.NodeModule, Name: "b.js", File: "b.js"})

	exportID, _ := semid.Compute(graph.NodeExport, "Foo", semid.Context{File: "b.js"})
	store.addNode(graph.Node{ID: exportID, Type: graph.NodeExport, Name: "Foo", File: "b.js"})

	importID, _ := semid.Compute(graph.NodeImport, "Foo", semid.Context{File: "a.js"})
	store.addNode(graph.Node{
		ID: importID, Type: graph.NodeImport, Name: "Foo", File: "a.js",
		Metadata: map[string]any{"source": "./b"},
	})

	if err := (ImportExportLinker{}).Enrich(context.Background(), store); err != nil {
		t.Fatal(err)
	}

	if !hasEdge(store.edges, graph.EdgeImportsFrom, importID, exportID) {
		t.Fatal("expected IMPORTS_FROM edge from the import to the matching export")
	}
}

func TestImportExportLinkerLeavesPackageImportUntouched(t *testing.T) {
	store := newMemStore()
	importID, _ := semid.Compute(graph.NodeImport, "express", semid.Context{File: "a.js"})
	store.addNode(graph.Node{
		ID: importID, Type: graph.NodeImport, Name: "express", File: "a.js",
		Metadata: map[string]any{"source": "express"},
	})

	if err := (ImportExportLinker{}).Enrich(context.Background(), store); err != nil {
		t.Fatal(err)
	}
	if len(store.edges) != 0 {
		t.Fatalf("expected no edges for a bare package specifier, got %d", len(store.edges))
	}
}

package enrichment

import (
	"context"
	"testing"

	"codekg/internal/graph"
	"codekg/internal/semid"
)

func TestInstanceOfResolverRePointsDanglingEdgeThroughImport(t *testing.T) {
	store := newMemStore()
	globalCtx := semid.Context{File: "a.js"}

	connID, _ := semid.Compute(graph.NodeVariable, "conn", globalCtx)
	store.addNode(graph.Node{ID: connID, Type: graph.NodeVariable, Name: "conn", File: "a.js"})

	danglingClassID, _ := semid.Compute(graph.NodeClass, "Database", globalCtx)
	store.edges = append(store.edges, graph.Edge{Type: graph.EdgeInstanceOf, Src: connID, Dst: danglingClassID})

	importID, _ := semid.Compute(graph.NodeImport, "Database", globalCtx)
	store.addNode(graph.Node{ID: importID, Type: graph.NodeImport, Name: "Database", File: "a.js"})

	exportID, _ := semid.Compute(graph.NodeExport, "Database", semid.Context{File: "db.js"})
	store.addNode(graph.Node{ID: exportID, Type: graph.NodeExport, Name: "Database", File: "db.js"})
	store.edges = append(store.edges, graph.Edge{Type: graph.EdgeImportsFrom, Src: importID, Dst: exportID})

	realClassID, _ := semid.Compute(graph.NodeClass, "Database", semid.Context{File: "db.js"})
	store.addNode(graph.Node{ID: realClassID, Type: graph.NodeClass, Name: "Database", File: "db.js"})
	store.edges = append(store.edges, graph.Edge{Type: graph.EdgeExportsFrom, Src: exportID, Dst: realClassID})

	if err := (InstanceOfResolver{}).Enrich(context.Background(), store); err != nil {
		t.Fatal(err)
	}

	if !hasEdge(store.edges, graph.EdgeInstanceOf, connID, realClassID) {
		t.Fatal("expected a re-pointed INSTANCE_OF edge to the real class")
	}
	if !hasEdge(store.edges, graph.EdgeInstanceOf, connID, danglingClassID) {
		t.Fatal("the original dangling edge should still be present, not removed")
	}
}

func TestInstanceOfResolverLeavesResolvedEdgeAlone(t *testing.T) {
	store := newMemStore()
	globalCtx := semid.Context{File: "a.js"}

	connID, _ := semid.Compute(graph.NodeVariable, "conn", globalCtx)
	store.addNode(graph.Node{ID: connID, Type: graph.NodeVariable, Name: "conn", File: "a.js"})
	classID, _ := semid.Compute(graph.NodeClass, "Database", globalCtx)
	store.addNode(graph.Node{ID: classID, Type: graph.NodeClass, Name: "Database", File: "a.js"})
	store.edges = append(store.edges, graph.Edge{Type: graph.EdgeInstanceOf, Src: connID, Dst: classID})

	if err := (InstanceOfResolver{}).Enrich(context.Background(), store); err != nil {
		t.Fatal(err)
	}
	if len(store.edges) != 1 {
		t.Fatalf("expected no new edges for an already-resolved INSTANCE_OF, got %d edges", len(store.edges))
	}
}

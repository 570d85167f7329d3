package enrichment

import (
	"context"
	"testing"

	"codekg/internal/graph"
	"codekg/internal/semid"
)

func TestClosureCaptureEnricherLinksNestedReferenceToOuterBinding(t *testing.T) {
	store := newMemStore()
	globalCtx := semid.Context{File: "a.js"}
	outerCtx := globalCtx.Push("outer")
	innerBodyCtx := outerCtx.Push("inner")

	outerFnID, _ := semid.Compute(graph.NodeFunction, "outer", globalCtx)
	store.addNode(graph.Node{ID: outerFnID, Type: graph.NodeFunction, Name: "outer", File: "a.js"})

	innerFnID, _ := semid.Compute(graph.NodeFunction, "inner", outerCtx)
	store.addNode(graph.Node{ID: innerFnID, Type: graph.NodeFunction, Name: "inner", File: "a.js"})

	xID, _ := semid.Compute(graph.NodeVariable, "x", outerCtx)
	store.addNode(graph.Node{ID: xID, Type: graph.NodeVariable, Name: "x", File: "a.js"})

	yID, _ := semid.Compute(graph.NodeVariable, "y", innerBodyCtx)
	store.addNode(graph.Node{ID: yID, Type: graph.NodeVariable, Name: "y", File: "a.js"})
	store.edges = append(store.edges, graph.Edge{Type: graph.EdgeAssignedFrom, Src: yID, Dst: xID})

	if err := (ClosureCaptureEnricher{}).Enrich(context.Background(), store); err != nil {
		t.Fatal(err)
	}

	if !hasEdge(store.edges, graph.EdgeUsesBinding, innerFnID, xID) {
		t.Fatal("expected a USES_BINDING edge from the nested function to the captured outer binding")
	}
}

func TestClosureCaptureEnricherIgnoresSameScopeReference(t *testing.T) {
	store := newMemStore()
	globalCtx := semid.Context{File: "a.js"}

	xID, _ := semid.Compute(graph.NodeVariable, "x", globalCtx)
	store.addNode(graph.Node{ID: xID, Type: graph.NodeVariable, Name: "x", File: "a.js"})
	yID, _ := semid.Compute(graph.NodeVariable, "y", globalCtx)
	store.addNode(graph.Node{ID: yID, Type: graph.NodeVariable, Name: "y", File: "a.js"})
	store.edges = append(store.edges, graph.Edge{Type: graph.EdgeAssignedFrom, Src: yID, Dst: xID})

	if err := (ClosureCaptureEnricher{}).Enrich(context.Background(), store); err != nil {
		t.Fatal(err)
	}
	for _, e := range store.edges {
		if e.Type == graph.EdgeUsesBinding {
			t.Fatal("same-scope reference must not be reported as a closure capture")
		}
	}
}

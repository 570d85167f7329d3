package enrichment

import (
	"context"
	"testing"

	"codekg/internal/graph"
	"codekg/internal/semid"
)

func TestExpressHandlerLinkerLinksRouteToHandlerFunction(t *testing.T) {
	store := newMemStore()
	globalCtx := semid.Context{File: "a.js"}

	routeID, _ := semid.Compute(graph.NodeMethodCall, "get", globalCtx)
	store.addNode(graph.Node{ID: routeID, Type: graph.NodeMethodCall, Name: "get", File: "a.js"})

	handlerID, _ := semid.Compute(graph.NodeFunction, "listUsers", globalCtx)
	store.addNode(graph.Node{ID: handlerID, Type: graph.NodeFunction, Name: "listUsers", File: "a.js"})
	store.edges = append(store.edges, graph.Edge{Type: graph.EdgePassesArgument, Src: routeID, Dst: handlerID})

	if err := (ExpressHandlerLinker{}).Enrich(context.Background(), store); err != nil {
		t.Fatal(err)
	}
	if !hasEdge(store.edges, graph.EdgeHandledBy, routeID, handlerID) {
		t.Fatal("expected a HANDLED_BY edge from the route registration to its handler function")
	}
}

func TestExpressHandlerLinkerIgnoresNonVerbMethodCall(t *testing.T) {
	store := newMemStore()
	globalCtx := semid.Context{File: "a.js"}

	callID, _ := semid.Compute(graph.NodeMethodCall, "toString", globalCtx)
	store.addNode(graph.Node{ID: callID, Type: graph.NodeMethodCall, Name: "toString", File: "a.js"})
	fnID, _ := semid.Compute(graph.NodeFunction, "fmt", globalCtx)
	store.addNode(graph.Node{ID: fnID, Type: graph.NodeFunction, Name: "fmt", File: "a.js"})
	store.edges = append(store.edges, graph.Edge{Type: graph.EdgePassesArgument, Src: callID, Dst: fnID})

	if err := (ExpressHandlerLinker{}).Enrich(context.Background(), store); err != nil {
		t.Fatal(err)
	}
	for _, e := range store.edges {
		if e.Type == graph.EdgeHandledBy {
			t.Fatal("a non-route method call must not get a HANDLED_BY edge")
		}
	}
}

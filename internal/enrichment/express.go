package enrichment

import (
	"context"

	"codekg/internal/graph"
	"codekg/internal/storage"
)

// routeVerbs are the Express/Router method names that register a route
// handler, including the catch-all "use" and "all".
var routeVerbs = map[string]bool{
	"get": true, "post": true, "put": true, "delete": true,
	"patch": true, "all": true, "use": true,
}

// ExpressHandlerLinker finds METHOD_CALL nodes that register an Express
// route (app.get(path, handler), router.use(middleware)...) and, among the
// PASSES_ARGUMENT edges CallFlowBuilder already resolved for that call,
// picks out the ones pointing at a FUNCTION and marks them HANDLED_BY the
// route registration — a query-friendly edge distinct from the generic
// argument-passing one, so "what handles this route" doesn't have to
// special-case argument position.
type ExpressHandlerLinker struct{}

func (ExpressHandlerLinker) Name() string           { return "ExpressHandlerLinker" }
func (ExpressHandlerLinker) Dependencies() []string { return nil }

// Enrich implements Plugin.
func (ExpressHandlerLinker) Enrich(ctx context.Context, store storage.GraphStore) error {
	methodCalls, err := store.QueryNodes(ctx, graph.NodeMethodCall)
	if err != nil {
		return err
	}

	for _, mc := range methodCalls {
		if !routeVerbs[mc.Name] {
			continue
		}
		edges, err := store.GetOutgoingEdges(ctx, mc.ID)
		if err != nil {
			return err
		}
		for _, e := range edges {
			if e.Type != graph.EdgePassesArgument {
				continue
			}
			handler, found, err := store.GetNode(ctx, e.Dst)
			if err != nil {
				return err
			}
			if !found || handler.Type != graph.NodeFunction {
				continue
			}
			if err := store.AddEdge(ctx, graph.Edge{Type: graph.EdgeHandledBy, Src: mc.ID, Dst: handler.ID}); err != nil {
				return err
			}
		}
	}
	return nil
}

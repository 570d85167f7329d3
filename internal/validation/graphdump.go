package validation

import (
	"context"

	"codekg/internal/graph"
	"codekg/internal/storage"
)

// allNodeTypes enumerates every tag in graph.NodeType's closed set, since
// GraphStore only exposes QueryNodes per type — a validator that needs the
// whole graph has to ask for each type in turn.
var allNodeTypes = []graph.NodeType{
	graph.NodeModule, graph.NodeFunction, graph.NodeClass, graph.NodeVariable,
	graph.NodeConstant, graph.NodeParameter, graph.NodeCall, graph.NodeMethodCall,
	graph.NodeLiteral, graph.NodeArrayLiteral, graph.NodeObjectLiteral,
	graph.NodeExpression, graph.NodeImport, graph.NodeExport, graph.NodeScope,
	graph.NodeLoop, graph.NodeBranch, graph.NodeCase, graph.NodeTry,
	graph.NodeCatch, graph.NodeFinally, graph.NodeInterface, graph.NodeType_,
	graph.NodeEnum, graph.NodeDecorator, graph.NodeTypeParameter,
	graph.NodeEventListener, graph.NodeHTTPRequest, graph.NodeNetRequest,
	graph.NodeNetStdio, graph.NodeFSOperation, graph.NodeDBQuery,
	graph.NodeUpdateExpr, graph.NodeReactComponent, graph.NodeReactEffect,
	graph.NodeReactState, graph.NodeBrowserTimer, graph.NodeIssueStaleClosure,
	graph.NodeIssueMissingCleanup,
}

// DumpGraph collects every node and every edge the store currently holds.
// Built for validators, which need the whole graph rather than a
// single-node neighborhood, and exported for the CLI's query verb, which
// loads the same data into a throwaway Mangle engine to answer ad-hoc
// Datalog queries.
func DumpGraph(ctx context.Context, store storage.GraphStore) ([]graph.Node, []graph.Edge, error) {
	var nodes []graph.Node
	for _, typ := range allNodeTypes {
		batch, err := store.QueryNodes(ctx, typ)
		if err != nil {
			return nil, nil, err
		}
		nodes = append(nodes, batch...)
	}

	var edges []graph.Edge
	seen := make(map[string]struct{})
	for _, n := range nodes {
		out, err := store.GetOutgoingEdges(ctx, n.ID)
		if err != nil {
			return nil, nil, err
		}
		for _, e := range out {
			key := string(e.Type) + "|" + e.Src + "|" + e.Dst
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			edges = append(edges, e)
		}
	}
	return nodes, edges, nil
}

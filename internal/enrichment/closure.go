package enrichment

import (
	"context"
	"strings"

	"codekg/internal/graph"
	"codekg/internal/semid"
	"codekg/internal/storage"
)

// capturingEdgeTypes are the edges a nested read of an outer binding can
// show up as: a direct reference (ASSIGNED_FROM), a reference buried inside
// a synthesized expression (DERIVES_FROM), or a bare function/variable name
// passed as a call argument (PASSES_ARGUMENT).
var capturingEdgeTypes = []graph.EdgeType{graph.EdgeAssignedFrom, graph.EdgeDerivesFrom, graph.EdgePassesArgument}

func isCapturingEdgeType(t graph.EdgeType) bool {
	for _, c := range capturingEdgeTypes {
		if c == t {
			return true
		}
	}
	return false
}

// ClosureCaptureEnricher finds every already-resolved reference edge whose
// source sits inside a function nested deeper than the scope owning the
// binding it points at, and records the capture as a USES_BINDING edge from
// the function nested directly inside the binding's scope (the outermost
// function between the two, not the innermost one) to the binding. Both ends of
// the reference are resolved by construction (the builder only ever emits
// these edges once it already found the binding), so there is nothing here
// that can dangle.
type ClosureCaptureEnricher struct{}

func (ClosureCaptureEnricher) Name() string           { return "ClosureCaptureEnricher" }
func (ClosureCaptureEnricher) Dependencies() []string { return nil }

// Enrich implements Plugin.
func (ClosureCaptureEnricher) Enrich(ctx context.Context, store storage.GraphStore) error {
	functions, err := store.QueryNodes(ctx, graph.NodeFunction)
	if err != nil {
		return err
	}
	functionByFrame := make(map[string]string, len(functions))
	for _, fn := range functions {
		parsed, ok := semid.Parse(fn.ID)
		if !ok {
			continue
		}
		functionByFrame[frameKey(parsed.File, parsed.ScopePath, parsed.Name)] = fn.ID
	}

	srcNodes, err := referenceSourceNodes(ctx, store)
	if err != nil {
		return err
	}

	seen := make(map[[2]string]struct{})
	for _, src := range srcNodes {
		edges, err := store.GetOutgoingEdges(ctx, src.ID)
		if err != nil {
			return err
		}
		for _, e := range edges {
			if !isCapturingEdgeType(e.Type) {
				continue
			}
			capturer, binding, ok := captureFor(functionByFrame, e.Src, e.Dst)
			if !ok {
				continue
			}
			key := [2]string{capturer, binding}
			if _, already := seen[key]; already {
				continue
			}
			seen[key] = struct{}{}
			if err := store.AddEdge(ctx, graph.Edge{Type: graph.EdgeUsesBinding, Src: capturer, Dst: binding}); err != nil {
				return err
			}
		}
	}
	return nil
}

// captureFor decides whether srcID's scope sits strictly inside dstID's
// owning scope, and if so returns the id of the function frame directly
// nested inside that scope — the closure that captures the binding.
func captureFor(functionByFrame map[string]string, srcID, dstID string) (capturer, binding string, ok bool) {
	src, ok1 := semid.Parse(srcID)
	dst, ok2 := semid.Parse(dstID)
	if !ok1 || !ok2 || src.File != dst.File {
		return "", "", false
	}
	if dst.Type != graph.NodeVariable && dst.Type != graph.NodeConstant && dst.Type != graph.NodeParameter {
		return "", "", false
	}
	if len(src.ScopePath) <= len(dst.ScopePath) {
		return "", "", false
	}
	for i, seg := range dst.ScopePath {
		if src.ScopePath[i] != seg {
			return "", "", false
		}
	}
	frame := src.ScopePath[len(dst.ScopePath)]
	fnID, ok := functionByFrame[frameKey(src.File, dst.ScopePath, frame)]
	if !ok {
		return "", "", false
	}
	return fnID, dstID, true
}

func frameKey(file string, scopePath []string, name string) string {
	return file + "|" + strings.Join(scopePath, "/") + "|" + name
}

// referenceSourceNodes returns every node kind that can legally be the src
// of a capturing edge: a binding referencing another binding directly, or
// a synthesized expression/call/method-call carrying the reference.
func referenceSourceNodes(ctx context.Context, store storage.GraphStore) ([]graph.Node, error) {
	var all []graph.Node
	for _, typ := range []graph.NodeType{
		graph.NodeVariable, graph.NodeConstant, graph.NodeParameter,
		graph.NodeExpression, graph.NodeCall, graph.NodeMethodCall,
	} {
		nodes, err := store.QueryNodes(ctx, typ)
		if err != nil {
			return nil, err
		}
		all = append(all, nodes...)
	}
	return all, nil
}

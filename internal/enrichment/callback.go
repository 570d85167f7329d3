package enrichment

import (
	"context"

	"codekg/internal/graph"
	"codekg/internal/semid"
	"codekg/internal/storage"
)

// CallbackCallResolver resolves a CALL node whose callee name is actually a
// parameter — `function run(cb) { cb(x) }` — rather than a locally
// declared function, which the builder's simple same-file name lookup
// cannot do: the real callee is whatever function value was passed in at
// whichever call site invoked run. This plugin walks that one hop: for
// each unresolved call, it finds the parameter it names, finds the calls
// to the owning function, and reads the matching positional argument off
// the metadata the builder stashed on each call node.
type CallbackCallResolver struct{}

func (CallbackCallResolver) Name() string           { return "CallbackCallResolver" }
func (CallbackCallResolver) Dependencies() []string { return nil }

// Enrich implements Plugin.
func (CallbackCallResolver) Enrich(ctx context.Context, store storage.GraphStore) error {
	calls, err := store.QueryNodes(ctx, graph.NodeCall)
	if err != nil {
		return err
	}
	functions, err := store.QueryNodes(ctx, graph.NodeFunction)
	if err != nil {
		return err
	}
	functionsByID := make(map[string]graph.Node, len(functions))
	for _, fn := range functions {
		functionsByID[fn.ID] = fn
	}
	parameters, err := store.QueryNodes(ctx, graph.NodeParameter)
	if err != nil {
		return err
	}

	for _, call := range calls {
		if alreadyResolved, err := hasOutgoingCalls(ctx, store, call.ID); err != nil {
			return err
		} else if alreadyResolved {
			continue
		}

		parsed, ok := semid.Parse(call.ID)
		if !ok || len(parsed.ScopePath) == 0 {
			continue
		}

		param, ok := findParameter(parameters, parsed.File, parsed.ScopePath, call.Name)
		if !ok {
			continue
		}
		owner, ok := findOwningFunction(functionsByID, parsed.File, parsed.ScopePath)
		if !ok {
			continue
		}
		position, _ := param.Metadata["position"].(int)
		if p, ok := param.Metadata["position"].(float64); ok {
			position = int(p) // metadata read back from JSON holds numbers as float64
		}

		callers, err := store.GetIncomingEdges(ctx, owner.ID)
		if err != nil {
			return err
		}
		for _, callerEdge := range callers {
			if callerEdge.Type != graph.EdgeCalls {
				continue
			}
			callerNode, found, err := store.GetNode(ctx, callerEdge.Src)
			if err != nil {
				return err
			}
			if !found {
				continue
			}
			args, _ := callerNode.Metadata["args"].([]string)
			if raw, ok := callerNode.Metadata["args"].([]any); ok {
				for _, v := range raw {
					s, _ := v.(string)
					args = append(args, s)
				}
			}
			if position < 0 || position >= len(args) {
				continue
			}
			argName := args[position]
			if fnID, ok := resolveFunctionByName(functions, parsed.File, argName); ok {
				if err := store.AddEdge(ctx, graph.Edge{Type: graph.EdgeCalls, Src: call.ID, Dst: fnID}); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func hasOutgoingCalls(ctx context.Context, store storage.GraphStore, id string) (bool, error) {
	edges, err := store.GetOutgoingEdges(ctx, id)
	if err != nil {
		return false, err
	}
	for _, e := range edges {
		if e.Type == graph.EdgeCalls {
			return true, nil
		}
	}
	return false, nil
}

// findParameter looks for a PARAMETER named name whose own scope path
// matches callScopePath — a call directly inside a function body sits at
// the same scope path as that function's own parameters.
func findParameter(parameters []graph.Node, file string, callScopePath []string, name string) (graph.Node, bool) {
	for _, p := range parameters {
		if p.File != file || p.Name != name {
			continue
		}
		parsed, ok := semid.Parse(p.ID)
		if !ok || !scopePathEqual(parsed.ScopePath, callScopePath) {
			continue
		}
		return p, true
	}
	return graph.Node{}, false
}

// findOwningFunction finds the FUNCTION node whose own id's name is the
// last segment of callScopePath and whose own scope path is its prefix —
// i.e. the function whose body directly contains callScopePath.
func findOwningFunction(functionsByID map[string]graph.Node, file string, callScopePath []string) (graph.Node, bool) {
	frame := callScopePath[len(callScopePath)-1]
	parentPath := callScopePath[:len(callScopePath)-1]
	for _, fn := range functionsByID {
		if fn.File != file || fn.Name != frame {
			continue
		}
		parsed, ok := semid.Parse(fn.ID)
		if !ok || !scopePathEqual(parsed.ScopePath, parentPath) {
			continue
		}
		return fn, true
	}
	return graph.Node{}, false
}

func resolveFunctionByName(functions []graph.Node, file, name string) (string, bool) {
	for _, fn := range functions {
		if fn.File == file && fn.Name == name {
			return fn.ID, true
		}
	}
	return "", false
}

func scopePathEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

package builder

import (
	"codekg/internal/astvisit"
	"codekg/internal/graph"
)

// mutatingMethods is the closed set of built-in array/object methods that
// mutate their receiver in place rather than returning a new value.
var mutatingMethods = map[string]bool{
	"push": true, "pop": true, "shift": true, "unshift": true,
	"splice": true, "sort": true, "reverse": true, "fill": true,
	"set": true, "delete": true, "add": true, "clear": true,
}

// MutationBuilder buffers MODIFIES and FLOWS_INTO edges for calls that
// mutate their receiver: `arr.push(x)` modifies arr, and each argument's
// value flows into it.
type MutationBuilder struct{}

// Buffer implements the domain-builder contract for the Mutation pass.
func (MutationBuilder) Buffer(module string, data *astvisit.ASTCollections, ctx *Context) error {
	for _, mc := range data.MethodCalls {
		if !mutatingMethods[mc.MethodName] {
			continue
		}
		receiverID, ok := ctx.ResolveVariableInScope(mc.ReceiverName, mc.Context)
		if !ok {
			receiverID, ok = ctx.ResolveParameterInScope(mc.ReceiverName, mc.Context)
		}
		if !ok {
			continue
		}

		callNode, err := ctx.Factory.CreateMethodCall(mc.MethodName, mc.Context, mc.Discriminator, mc.Line, mc.Col)
		if err != nil {
			return err
		}
		if !ctx.IsCreated(callNode.ID) {
			continue
		}
		ctx.Facade.BufferEdge(graph.Edge{Type: graph.EdgeModifies, Src: callNode.ID, Dst: receiverID})

		for _, arg := range mc.Args {
			argID, ok := ctx.ResolveVariableInScope(arg, mc.Context)
			if !ok {
				argID, ok = ctx.ResolveParameterInScope(arg, mc.Context)
			}
			if ok {
				ctx.Facade.BufferEdge(graph.Edge{Type: graph.EdgeFlowsInto, Src: argID, Dst: receiverID})
			}
		}
	}
	return nil
}

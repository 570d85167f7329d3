package builder

import (
	"codekg/internal/astvisit"
	"codekg/internal/graph"
	"codekg/internal/semid"
)

// CallFlowBuilder links call and method-call sites to the arguments they
// pass: a PASSES_ARGUMENT edge from the call to each argument that resolves
// to a known variable, parameter, or function in scope. It runs after Core has
// flushed, since it looks up call nodes Core already created by recomputing
// their deterministic id and checking the facade's created registry.
type CallFlowBuilder struct{}

// Buffer implements the domain-builder contract for the CallFlow pass.
func (CallFlowBuilder) Buffer(module string, data *astvisit.ASTCollections, ctx *Context) error {
	for _, call := range data.CallSites {
		callNode, err := ctx.Factory.CreateCall(call.CalleeName, call.Context, call.Discriminator, call.Line, call.Col)
		if err != nil {
			return err
		}
		if !ctx.IsCreated(callNode.ID) {
			continue
		}
		for _, arg := range call.Args {
			if argID, ok := resolveArgument(ctx, arg, call.Context); ok {
				ctx.Facade.BufferEdge(graph.Edge{Type: graph.EdgePassesArgument, Src: callNode.ID, Dst: argID})
			}
		}
	}

	for _, mc := range data.MethodCalls {
		callNode, err := ctx.Factory.CreateMethodCall(mc.MethodName, mc.Context, mc.Discriminator, mc.Line, mc.Col)
		if err != nil {
			return err
		}
		if !ctx.IsCreated(callNode.ID) {
			continue
		}
		for _, arg := range mc.Args {
			if argID, ok := resolveArgument(ctx, arg, mc.Context); ok {
				ctx.Facade.BufferEdge(graph.Edge{Type: graph.EdgePassesArgument, Src: callNode.ID, Dst: argID})
			}
		}
	}

	return nil
}

// resolveArgument resolves one argument identifier to the variable,
// parameter, or (for a bare function reference passed as a callback)
// function it names, visible from sctx.
func resolveArgument(ctx *Context, name string, sctx semid.Context) (string, bool) {
	if id, ok := ctx.ResolveVariableInScope(name, sctx); ok {
		return id, true
	}
	if id, ok := ctx.ResolveParameterInScope(name, sctx); ok {
		return id, true
	}
	return ctx.FindFunctionByName(name, sctx)
}

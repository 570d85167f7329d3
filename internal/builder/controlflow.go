package builder

import (
	"codekg/internal/astvisit"
	"codekg/internal/graph"
	"codekg/internal/semid"
)

// ControlFlowBuilder buffers loops, branches, and try/catch/finally
// constructs, plus the edges tying each to the variable its condition or
// iteration target reads from when that reference resolves in scope.
type ControlFlowBuilder struct{}

// Buffer implements the domain-builder contract for the ControlFlow pass.
func (ControlFlowBuilder) Buffer(module string, data *astvisit.ASTCollections, ctx *Context) error {
	moduleNode, err := ctx.Factory.CreateModule(module)
	if err != nil {
		return err
	}

	for _, loop := range data.Loops {
		n, err := ctx.Factory.CreateLoop(loop.Kind, loop.Context, loop.Discriminator, loop.Line, loop.Col)
		if err != nil {
			return err
		}
		if err := ctx.Facade.BufferNode(n); err != nil {
			return err
		}
		ctx.Facade.BufferEdge(containsEdgeFor(ctx, loop.Context, moduleNode.ID, n.ID))
		if loop.IteratesOver != "" {
			if srcID, ok := ctx.ResolveVariableInScope(loop.IteratesOver, loop.Context); ok {
				ctx.Facade.BufferEdge(graph.Edge{Type: graph.EdgeIteratesOver, Src: n.ID, Dst: srcID})
			}
		}
	}

	for _, branch := range data.Branches {
		n, err := ctx.Factory.CreateBranch(branch.Kind, branch.Context, branch.Discriminator, branch.Line, branch.Col)
		if err != nil {
			return err
		}
		if err := ctx.Facade.BufferNode(n); err != nil {
			return err
		}
		ctx.Facade.BufferEdge(containsEdgeFor(ctx, branch.Context, moduleNode.ID, n.ID))
		if refID, ok := conditionRefID(ctx, branch.ConditionRHS, branch.Context); ok {
			edgeType := graph.EdgeHasCondition
			if branch.Kind == "switch_statement" {
				edgeType = graph.EdgeHasDiscriminant
			}
			ctx.Facade.BufferEdge(graph.Edge{Type: edgeType, Src: n.ID, Dst: refID})
		}
	}

	for _, try := range data.TryBlocks {
		tryNode, err := ctx.Factory.CreateTry(try.Context, try.Discriminator, try.Line, try.Col)
		if err != nil {
			return err
		}
		if err := ctx.Facade.BufferNode(tryNode); err != nil {
			return err
		}
		ctx.Facade.BufferEdge(containsEdgeFor(ctx, try.Context, moduleNode.ID, tryNode.ID))

		if try.HasCatch {
			catchNode, err := ctx.Factory.CreateCatch(try.CatchParamName, try.Context, try.Discriminator, try.Line, try.Col)
			if err != nil {
				return err
			}
			if err := ctx.Facade.BufferNode(catchNode); err != nil {
				return err
			}
			ctx.Facade.BufferEdge(graph.Edge{Type: graph.EdgeHandledBy, Src: tryNode.ID, Dst: catchNode.ID})
		}
		if try.HasFinally {
			finallyNode, err := ctx.Factory.CreateFinally(try.Context, try.Discriminator, try.Line, try.Col)
			if err != nil {
				return err
			}
			if err := ctx.Facade.BufferNode(finallyNode); err != nil {
				return err
			}
			ctx.Facade.BufferEdge(graph.Edge{Type: graph.EdgeContains, Src: tryNode.ID, Dst: finallyNode.ID})
		}
	}

	return nil
}

// conditionRefID resolves a condition/discriminant RHS to the variable or
// parameter it reads from: a simple variable reference resolves by its own
// name, a complex shape resolves by the first name in Refs.
func conditionRefID(ctx *Context, rhs astvisit.RHS, sctx semid.Context) (string, bool) {
	name := rhs.Name
	if name == "" && len(rhs.Refs) > 0 {
		name = rhs.Refs[0]
	}
	if name == "" {
		return "", false
	}
	if id, ok := ctx.ResolveVariableInScope(name, sctx); ok {
		return id, true
	}
	return ctx.ResolveParameterInScope(name, sctx)
}

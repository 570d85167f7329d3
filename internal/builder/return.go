package builder

import (
	"codekg/internal/astvisit"
	"codekg/internal/graph"
)

// ReturnBuilder emits a RETURNS edge from a function to whatever its
// return statement's RHS resolves to — a variable, parameter, call result,
// or a synthesized EXPRESSION node for a complex shape.
type ReturnBuilder struct{}

// Buffer implements the domain-builder contract for the Return pass.
func (ReturnBuilder) Buffer(module string, data *astvisit.ASTCollections, ctx *Context) error {
	for _, ret := range data.Returns {
		if ret.EnclosingFunction == "" {
			continue
		}
		fnID, ok := ctx.FindFunctionByName(ret.EnclosingFunction, ret.Context)
		if !ok {
			continue
		}
		srcID, err := resolveOrSynthesizeRHS(ctx, ret.RHS, ret.Context)
		if err != nil {
			return err
		}
		if srcID != "" {
			ctx.Facade.BufferEdge(graph.Edge{Type: graph.EdgeReturns, Src: fnID, Dst: srcID})
		}
	}
	return nil
}

package builder

import (
	"codekg/internal/astvisit"
	"codekg/internal/graph"
)

// YieldBuilder emits a YIELDS edge from a generator function to whatever
// its yield expression's RHS resolves to, or a DELEGATES_TO edge instead
// when the yield is delegating (`yield*`).
type YieldBuilder struct{}

// Buffer implements the domain-builder contract for the Yield pass.
func (YieldBuilder) Buffer(module string, data *astvisit.ASTCollections, ctx *Context) error {
	for _, y := range data.YieldExpressions {
		if y.EnclosingFunction == "" {
			continue
		}
		fnID, ok := ctx.FindFunctionByName(y.EnclosingFunction, y.Context)
		if !ok {
			continue
		}
		srcID, err := resolveOrSynthesizeRHS(ctx, y.RHS, y.Context)
		if err != nil {
			return err
		}
		if srcID == "" {
			continue
		}
		edgeType := graph.EdgeYields
		if y.IsDelegating {
			edgeType = graph.EdgeDelegatesTo
		}
		ctx.Facade.BufferEdge(graph.Edge{Type: edgeType, Src: fnID, Dst: srcID})
	}
	return nil
}

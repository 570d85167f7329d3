package builder

import (
	"codekg/internal/astvisit"
	"codekg/internal/graph"
)

// UpdateExpressionBuilder buffers one UPDATE_EXPRESSION node per `x++`/`--x`
// and a MODIFIES edge to the variable or parameter it mutates.
type UpdateExpressionBuilder struct{}

// Buffer implements the domain-builder contract for the UpdateExpression pass.
func (UpdateExpressionBuilder) Buffer(module string, data *astvisit.ASTCollections, ctx *Context) error {
	for _, u := range data.UpdateExpressions {
		n, err := ctx.Factory.CreateUpdateExpression(u.OperandName, u.Context, u.Discriminator, u.Line, u.Col)
		if err != nil {
			return err
		}
		if n.Metadata == nil {
			n.Metadata = make(map[string]any)
		}
		n.Metadata["operator"] = u.Operator
		n.Metadata["is_prefix"] = u.IsPrefix
		if err := ctx.Facade.BufferNode(n); err != nil {
			return err
		}

		targetID, ok := ctx.ResolveVariableInScope(u.OperandName, u.Context)
		if !ok {
			targetID, ok = ctx.ResolveParameterInScope(u.OperandName, u.Context)
		}
		if ok {
			ctx.Facade.BufferEdge(graph.Edge{Type: graph.EdgeModifies, Src: n.ID, Dst: targetID})
		}
	}
	return nil
}

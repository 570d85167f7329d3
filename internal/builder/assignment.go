package builder

import (
	"codekg/internal/astvisit"
	"codekg/internal/graph"
	"codekg/internal/semid"
)

// AssignmentBuilder resolves every VariableAssignmentInfo's classified RHS
// into an ASSIGNED_FROM edge: a simple reference resolves directly against
// the variable/parameter/function it names, while a complex shape gets a
// synthetic EXPRESSION node carrying a DERIVES_FROM edge to each referenced
// name, with the assignment pointing at that EXPRESSION node instead.
type AssignmentBuilder struct{}

// Buffer implements the domain-builder contract for the Assignment pass.
func (AssignmentBuilder) Buffer(module string, data *astvisit.ASTCollections, ctx *Context) error {
	for _, a := range data.VariableAssignments {
		targetID, ok := ctx.ResolveVariableInScope(a.VariableName, a.Context)
		if !ok {
			targetID, ok = ctx.ResolveParameterInScope(a.VariableName, a.Context)
		}
		if !ok {
			continue
		}

		srcID, err := resolveOrSynthesizeRHS(ctx, a.RHS, a.Context)
		if err != nil {
			return err
		}
		if srcID == "" {
			continue
		}
		edgeType := graph.EdgeAssignedFrom
		if a.RHS.Kind == astvisit.RHSNewExpression {
			// `x = new C()` means x is an instance of C, a stronger claim
			// than a generic data-flow assignment.
			edgeType = graph.EdgeInstanceOf
		}
		ctx.Facade.BufferEdge(graph.Edge{Type: edgeType, Src: targetID, Dst: srcID})
	}
	return nil
}

// resolveOrSynthesizeRHS resolves a classified RHS to the node id it reads
// from, minting a synthetic EXPRESSION node (with DERIVES_FROM edges to
// every referenced name that resolves in scope) for any complex shape
// (binary/conditional/unary/template/logical/member, or an unclassified
// shape) that carries at least one reference.
func resolveOrSynthesizeRHS(ctx *Context, rhs astvisit.RHS, sctx semid.Context) (string, error) {
	switch rhs.Kind {
	case astvisit.RHSVariableRef:
		if id, ok := ctx.ResolveVariableInScope(rhs.Name, sctx); ok {
			return id, nil
		}
		if id, ok := ctx.ResolveParameterInScope(rhs.Name, sctx); ok {
			return id, nil
		}
		// A bare reference can also name a function used as a value
		// (`const handler = processRequest;`), not just a variable.
		if id, ok := ctx.FindFunctionByName(rhs.Name, sctx); ok {
			return id, nil
		}
		return "", nil
	case astvisit.RHSCall:
		id, _ := ctx.FindFunctionByName(rhs.Name, sctx)
		return id, nil
	case astvisit.RHSNewExpression:
		if id, ok := ctx.ResolveClassByName(rhs.Name, sctx); ok {
			return id, nil
		}
		if id, ok := ctx.ResolveClassByNameAnyScope(rhs.Name); ok {
			return id, nil
		}
		// Dangling: rhs.Name most likely names a class imported from
		// another module. Compute the id a same-named class declared at
		// this file's global scope would carry, so the ImportExportLinker/
		// InstanceOfResolver enrichment pass can re-point this edge once it
		// resolves the IMPORT binding to the real CLASS node elsewhere.
		// Per the failure policy, no node is created for this id here.
		// CLASS ids key off the declaring file's basename rather than its
		// root-prefixed path (graph.Factory.CreateClass mints ids the same
		// way), so the guess must use graph.ClassFileBasename too or it
		// would never match the real id the enrichment pass looks for.
		return semid.Compute(graph.NodeClass, rhs.Name, semid.Context{File: graph.ClassFileBasename(sctx.File)})
	case astvisit.RHSLiteral, astvisit.RHSMethodCall:
		return "", nil
	default:
		if len(rhs.Refs) == 0 {
			return "", nil
		}
		exprNode, err := ctx.Factory.CreateExpression(string(rhs.Kind), sctx, rhs.Discriminator, 0, 0)
		if err != nil {
			return "", err
		}
		if err := ctx.Facade.BufferNode(exprNode); err != nil {
			return "", err
		}
		for _, ref := range rhs.Refs {
			if refID, ok := ctx.ResolveVariableInScope(ref, sctx); ok {
				ctx.Facade.BufferEdge(graph.Edge{Type: graph.EdgeDerivesFrom, Src: exprNode.ID, Dst: refID})
				continue
			}
			if refID, ok := ctx.ResolveParameterInScope(ref, sctx); ok {
				ctx.Facade.BufferEdge(graph.Edge{Type: graph.EdgeDerivesFrom, Src: exprNode.ID, Dst: refID})
			}
		}
		return exprNode.ID, nil
	}
}

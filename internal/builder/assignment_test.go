package builder

import (
	"context"
	"testing"

	"codekg/internal/astvisit"
	"codekg/internal/graph"
	"codekg/internal/semid"
)

func TestAssignmentBuilderSimpleVariableRef(t *testing.T) {
	bctx, store := newTestContext("a.js")
	globalCtx := semid.Context{File: "a.js"}
	coreData := &astvisit.ASTCollections{
		VariableDeclarations: []astvisit.VariableDeclarationInfo{
			{Name: "a", Context: globalCtx, Line: 1},
			{Name: "b", Context: globalCtx, Line: 2},
		},
	}
	if err := (CoreBuilder{}).Buffer("a.js", coreData, bctx); err != nil {
		t.Fatal(err)
	}

	assignData := &astvisit.ASTCollections{
		VariableAssignments: []astvisit.VariableAssignmentInfo{
			{VariableName: "a", Context: globalCtx, RHS: astvisit.RHS{Kind: astvisit.RHSVariableRef, Name: "b"}, Line: 3},
		},
	}
	if err := (AssignmentBuilder{}).Buffer("a.js", assignData, bctx); err != nil {
		t.Fatal(err)
	}
	if err := bctx.Facade.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}

	aID, _ := bctx.ResolveVariableInScope("a", globalCtx)
	bID, _ := bctx.ResolveVariableInScope("b", globalCtx)
	if !hasEdge(store.edges, graph.EdgeAssignedFrom, aID, bID) {
		t.Fatal("expected ASSIGNED_FROM edge from a to b")
	}
}

func TestAssignmentBuilderComplexRHSSynthesizesExpression(t *testing.T) {
	bctx, store := newTestContext("a.js")
	globalCtx := semid.Context{File: "a.js"}
	coreData := &astvisit.ASTCollections{
		VariableDeclarations: []astvisit.VariableDeclarationInfo{
			{Name: "total", Context: globalCtx, Line: 1},
			{Name: "x", Context: globalCtx, Line: 1},
			{Name: "y", Context: globalCtx, Line: 1},
		},
	}
	if err := (CoreBuilder{}).Buffer("a.js", coreData, bctx); err != nil {
		t.Fatal(err)
	}

	assignData := &astvisit.ASTCollections{
		VariableAssignments: []astvisit.VariableAssignmentInfo{
			{
				VariableName: "total",
				Context:      globalCtx,
				RHS: astvisit.RHS{
					Kind:          astvisit.RHSBinary,
					Refs:          []string{"x", "y"},
					Discriminator: "1",
				},
				Line: 2,
			},
		},
	}
	if err := (AssignmentBuilder{}).Buffer("a.js", assignData, bctx); err != nil {
		t.Fatal(err)
	}
	if err := bctx.Facade.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}

	totalID, _ := bctx.ResolveVariableInScope("total", globalCtx)
	xID, _ := bctx.ResolveVariableInScope("x", globalCtx)
	yID, _ := bctx.ResolveVariableInScope("y", globalCtx)

	var exprID string
	for _, e := range store.edges {
		if e.Type == graph.EdgeAssignedFrom && e.Src == totalID {
			exprID = e.Dst
		}
	}
	if exprID == "" {
		t.Fatal("expected an ASSIGNED_FROM edge from total to a synthesized EXPRESSION node")
	}
	if !hasEdge(store.edges, graph.EdgeDerivesFrom, exprID, xID) {
		t.Fatal("expected DERIVES_FROM edge from expression to x")
	}
	if !hasEdge(store.edges, graph.EdgeDerivesFrom, exprID, yID) {
		t.Fatal("expected DERIVES_FROM edge from expression to y")
	}
}

func TestAssignmentBuilderNewExpressionUsesInstanceOf(t *testing.T) {
	bctx, store := newTestContext("a.js")
	globalCtx := semid.Context{File: "a.js"}
	coreData := &astvisit.ASTCollections{
		ClassDeclarations: []astvisit.ClassDeclarationInfo{
			{Name: "Widget", Context: globalCtx, Line: 1},
		},
		VariableDeclarations: []astvisit.VariableDeclarationInfo{
			{Name: "w", Context: globalCtx, Line: 2},
		},
	}
	if err := (CoreBuilder{}).Buffer("a.js", coreData, bctx); err != nil {
		t.Fatal(err)
	}

	assignData := &astvisit.ASTCollections{
		VariableAssignments: []astvisit.VariableAssignmentInfo{
			{VariableName: "w", Context: globalCtx, RHS: astvisit.RHS{Kind: astvisit.RHSNewExpression, Name: "Widget"}, Line: 3},
		},
	}
	if err := (AssignmentBuilder{}).Buffer("a.js", assignData, bctx); err != nil {
		t.Fatal(err)
	}
	if err := bctx.Facade.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}

	wID, _ := bctx.ResolveVariableInScope("w", globalCtx)
	widgetID, _ := bctx.ResolveClassByName("Widget", globalCtx)
	if !hasEdge(store.edges, graph.EdgeInstanceOf, wID, widgetID) {
		t.Fatal("expected INSTANCE_OF edge from w to Widget for a new-expression assignment")
	}
}

func TestAssignmentBuilderNewExpressionOfImportedClassDangles(t *testing.T) {
	bctx, store := newTestContext("a.js")
	globalCtx := semid.Context{File: "a.js"}
	coreData := &astvisit.ASTCollections{
		VariableDeclarations: []astvisit.VariableDeclarationInfo{
			{Name: "conn", Context: globalCtx, Line: 1},
		},
	}
	if err := (CoreBuilder{}).Buffer("a.js", coreData, bctx); err != nil {
		t.Fatal(err)
	}

	assignData := &astvisit.ASTCollections{
		VariableAssignments: []astvisit.VariableAssignmentInfo{
			{VariableName: "conn", Context: globalCtx, RHS: astvisit.RHS{Kind: astvisit.RHSNewExpression, Name: "Database"}, Line: 2},
		},
	}
	if err := (AssignmentBuilder{}).Buffer("a.js", assignData, bctx); err != nil {
		t.Fatal(err)
	}
	if err := bctx.Facade.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}

	connID, _ := bctx.ResolveVariableInScope("conn", globalCtx)
	wantDst, err := semid.Compute(graph.NodeClass, "Database", globalCtx)
	if err != nil {
		t.Fatal(err)
	}
	if !hasEdge(store.edges, graph.EdgeInstanceOf, connID, wantDst) {
		t.Fatal("expected a dangling INSTANCE_OF edge to the global-scope id of the imported class")
	}
}

func TestAssignmentBuilderSkipsUnresolvedTarget(t *testing.T) {
	bctx, _ := newTestContext("a.js")
	globalCtx := semid.Context{File: "a.js"}
	assignData := &astvisit.ASTCollections{
		VariableAssignments: []astvisit.VariableAssignmentInfo{
			{VariableName: "ghost", Context: globalCtx, RHS: astvisit.RHS{Kind: astvisit.RHSLiteral}, Line: 1},
		},
	}
	if err := (AssignmentBuilder{}).Buffer("a.js", assignData, bctx); err != nil {
		t.Fatal(err)
	}
	nodes, edges := bctx.Facade.PendingCounts()
	if nodes != 0 || edges != 0 {
		t.Fatalf("expected no buffered nodes/edges for an unresolved assignment target, got nodes=%d edges=%d", nodes, edges)
	}
}

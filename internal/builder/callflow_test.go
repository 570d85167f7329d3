package builder

import (
	"context"
	"testing"

	"codekg/internal/astvisit"
	"codekg/internal/graph"
	"codekg/internal/semid"
)

func TestCallFlowBuilderPassesArgumentToResolvedVariable(t *testing.T) {
	bctx, store := newTestContext("a.js")
	globalCtx := semid.Context{File: "a.js"}
	coreData := &astvisit.ASTCollections{
		Functions: []astvisit.FunctionInfo{
			{Name: "log", Context: globalCtx, Line: 1},
		},
		VariableDeclarations: []astvisit.VariableDeclarationInfo{
			{Name: "msg", Context: globalCtx, Line: 2},
		},
		CallSites: []astvisit.CallSiteInfo{
			{CalleeName: "log", Args: []string{"msg"}, Context: globalCtx, Line: 3},
		},
	}
	if err := (CoreBuilder{}).Buffer("a.js", coreData, bctx); err != nil {
		t.Fatal(err)
	}
	if err := bctx.Facade.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := (CallFlowBuilder{}).Buffer("a.js", coreData, bctx); err != nil {
		t.Fatal(err)
	}
	if err := bctx.Facade.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}

	callNode, err := bctx.Factory.CreateCall("log", globalCtx, "", 3, 0)
	if err != nil {
		t.Fatal(err)
	}
	msgID, _ := bctx.ResolveVariableInScope("msg", globalCtx)
	if !hasEdge(store.edges, graph.EdgePassesArgument, callNode.ID, msgID) {
		t.Fatal("expected PASSES_ARGUMENT edge from call to resolved argument")
	}
}

func TestCallFlowBuilderSkipsUnflushedCall(t *testing.T) {
	bctx, store := newTestContext("a.js")
	globalCtx := semid.Context{File: "a.js"}
	data := &astvisit.ASTCollections{
		CallSites: []astvisit.CallSiteInfo{
			{CalleeName: "notYetCreated", Args: []string{"x"}, Context: globalCtx, Line: 1},
		},
	}
	if err := (CallFlowBuilder{}).Buffer("a.js", data, bctx); err != nil {
		t.Fatal(err)
	}
	if err := bctx.Facade.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(store.edges) != 0 {
		t.Fatalf("expected no PASSES_ARGUMENT edges for a call Core never created, got %d edges", len(store.edges))
	}
}

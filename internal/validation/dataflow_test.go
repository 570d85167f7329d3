package validation

import (
	"context"
	"testing"

	"codekg/internal/graph"
	"codekg/internal/semid"
)

func TestDataFlowValidatorFlagsVariableWithNoLeaf(t *testing.T) {
	store := newMemStore()
	globalCtx := semid.Context{File: "a.js"}

	xID, _ := semid.Compute(graph.NodeVariable, "x", globalCtx)
	store.addNode(graph.Node{ID: xID, Type: graph.NodeVariable, Name: "x", File: "a.js"})
	yID, _ := semid.Compute(graph.NodeVariable, "y", globalCtx)
	store.addNode(graph.Node{ID: yID, Type: graph.NodeVariable, Name: "y", File: "a.js"})
	store.addEdge(graph.Edge{Type: graph.EdgeAssignedFrom, Src: xID, Dst: yID})
	// y is itself a VARIABLE, not a leaf type, and has no further outgoing
	// flow edge — so x's chain dead-ends one hop short of a leaf.

	findings, err := (DataFlowValidator{}).Validate(context.Background(), store)
	if err != nil {
		t.Fatal(err)
	}
	if !findCode(findings, "ERR_NO_LEAF_NODE", xID) {
		t.Fatal("expected ERR_NO_LEAF_NODE for a variable chain that never reaches a leaf type")
	}
}

func TestDataFlowValidatorAcceptsVariableReachingLiteral(t *testing.T) {
	store := newMemStore()
	globalCtx := semid.Context{File: "a.js"}

	xID, _ := semid.Compute(graph.NodeVariable, "x", globalCtx)
	store.addNode(graph.Node{ID: xID, Type: graph.NodeVariable, Name: "x", File: "a.js"})
	litID, _ := semid.Compute(graph.NodeLiteral, "42", globalCtx)
	store.addNode(graph.Node{ID: litID, Type: graph.NodeLiteral, Name: "42", File: "a.js"})
	store.addEdge(graph.Edge{Type: graph.EdgeAssignedFrom, Src: xID, Dst: litID})

	findings, err := (DataFlowValidator{}).Validate(context.Background(), store)
	if err != nil {
		t.Fatal(err)
	}
	if findCode(findings, "ERR_NO_LEAF_NODE", xID) {
		t.Fatal("a variable assigned directly from a literal must not be flagged")
	}
}

func TestDataFlowValidatorExemptsClassPropertyWithoutInitializer(t *testing.T) {
	store := newMemStore()
	classCtx := semid.Context{File: "a.js"}.Push("C")

	fieldID, _ := semid.Compute(graph.NodeVariable, "count", classCtx)
	store.addNode(graph.Node{
		ID: fieldID, Type: graph.NodeVariable, Name: "count", File: "a.js",
		Metadata: map[string]any{"is_class_property": true},
	})

	findings, err := (DataFlowValidator{}).Validate(context.Background(), store)
	if err != nil {
		t.Fatal(err)
	}
	if findCode(findings, "ERR_NO_LEAF_NODE", fieldID) {
		t.Fatal("an uninitialized class field must be exempt from the leaf-node check")
	}
}

func TestDataFlowValidatorFollowsDerivesFromChain(t *testing.T) {
	store := newMemStore()
	globalCtx := semid.Context{File: "a.js"}

	xID, _ := semid.Compute(graph.NodeVariable, "x", globalCtx)
	store.addNode(graph.Node{ID: xID, Type: graph.NodeVariable, Name: "x", File: "a.js"})
	exprID, _ := semid.ComputeWith(graph.NodeExpression, "binary", globalCtx, semid.Options{Discriminator: "1"})
	store.addNode(graph.Node{ID: exprID, Type: graph.NodeExpression, Name: "binary", File: "a.js"})
	litID, _ := semid.Compute(graph.NodeLiteral, "1", globalCtx)
	store.addNode(graph.Node{ID: litID, Type: graph.NodeLiteral, Name: "1", File: "a.js"})

	store.addEdge(graph.Edge{Type: graph.EdgeAssignedFrom, Src: xID, Dst: exprID})
	store.addEdge(graph.Edge{Type: graph.EdgeDerivesFrom, Src: exprID, Dst: litID})

	findings, err := (DataFlowValidator{}).Validate(context.Background(), store)
	if err != nil {
		t.Fatal(err)
	}
	if findCode(findings, "ERR_NO_LEAF_NODE", xID) {
		t.Fatal("a variable reaching a literal through an intermediate expression must not be flagged")
	}
}

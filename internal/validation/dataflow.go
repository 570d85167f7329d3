package validation

import (
	"context"
	"fmt"

	"codekg/internal/graph"
	"codekg/internal/mangle"
	"codekg/internal/storage"
)

// leafTypes terminate a data-flow chain: reaching one of these along
// ASSIGNED_FROM/DERIVES_FROM edges satisfies the terminal-leaf invariant.
var leafTypes = map[graph.NodeType]bool{
	graph.NodeLiteral:       true,
	graph.NodeArrayLiteral:  true,
	graph.NodeObjectLiteral: true,
	graph.NodeCall:          true,
	graph.NodeClass:         true,
	graph.NodeFunction:      true,
	graph.NodeHTTPRequest:   true,
	graph.NodeNetRequest:    true,
	graph.NodeNetStdio:      true,
	graph.NodeFSOperation:   true,
	graph.NodeDBQuery:       true,
}

// DataFlowValidator checks that every VARIABLE is reachable, along
// ASSIGNED_FROM/DERIVES_FROM edges, to a node whose type terminates a
// data-flow chain. A class field declared without an initializer is
// exempt: it carries is_class_property and never gets an outgoing
// ASSIGNED_FROM edge by construction, so it would otherwise always fail
// this check for a reason that isn't actually a missing assignment.
//
// A variable with no outgoing flow edge at all is, trivially, not
// reachable to anything, so it surfaces under the same ERR_NO_LEAF_NODE
// code as a variable whose chain dead-ends short of a leaf rather than as
// a separately tracked ERR_MISSING_ASSIGNMENT: only this validator, after
// enrichment has run, has enough information to tell "assigned further
// down a chain this pass hasn't reached yet" from "never assigned" —
// distinguishing the two at builder time would need a second channel
// threading half-resolved assignments out of AssignmentBuilder for no
// behavioral difference at the validator boundary.
//
// The reachability check itself runs as a Mangle query: the graph is
// loaded as node/edge facts once, and reaches(X, Y) — the transitive
// closure of the two flow edge kinds — is Mangle's recursive rule
// evaluation, not a hand-rolled graph walk.
type DataFlowValidator struct{}

func (DataFlowValidator) Name() string { return "DataFlowValidator" }

// Validate implements Validator.
func (DataFlowValidator) Validate(ctx context.Context, store storage.GraphStore) ([]Error, error) {
	nodes, edges, err := DumpGraph(ctx, store)
	if err != nil {
		return nil, err
	}

	nodeByID := make(map[string]graph.Node, len(nodes))
	for _, n := range nodes {
		nodeByID[n.ID] = n
	}

	engine := mangle.NewEngine(mangle.DefaultConfig())
	if err := mangle.LoadGraph(engine, nodes, edges); err != nil {
		return nil, fmt.Errorf("validation: loading graph into mangle: %w", err)
	}

	reached, err := engine.GetFacts("reaches")
	if err != nil {
		return nil, fmt.Errorf("validation: querying reaches: %w", err)
	}
	reachesLeaf := make(map[string]bool, len(reached))
	for _, fact := range reached {
		src, _ := fact.Args[0].(string)
		dst, _ := fact.Args[1].(string)
		if src == "" || dst == "" || reachesLeaf[src] {
			continue
		}
		if dstNode, ok := nodeByID[dst]; ok && leafTypes[dstNode.Type] {
			reachesLeaf[src] = true
		}
	}

	var findings []Error
	for _, n := range nodes {
		if n.Type != graph.NodeVariable {
			continue
		}
		if isClassPropertyWithoutInitializer(n) {
			continue
		}
		if reachesLeaf[n.ID] {
			continue
		}
		findings = append(findings, Error{
			Code:     "ERR_NO_LEAF_NODE",
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("variable %q is not reachable to a terminal leaf node", n.Name),
			NodeID:   n.ID,
		})
	}
	return findings, nil
}

func isClassPropertyWithoutInitializer(n graph.Node) bool {
	if n.Metadata == nil {
		return false
	}
	isProperty, _ := n.Metadata["is_class_property"].(bool)
	return isProperty
}

// Package storage defines the narrow GraphStore contract external backends
// implement, and the buffered write facade sitting in front of it that the
// graph builder and enrichment/validation plugins actually talk to.
package storage

import (
	"context"

	"codekg/internal/graph"
)

// GraphStore is the minimal persistence contract a backend must satisfy.
// Backends are free to add their own query affordances, but everything in
// the pipeline goes through this interface so storage is swappable without
// touching builder or plugin code.
type GraphStore interface {
	AddNode(ctx context.Context, n graph.Node) error
	AddEdge(ctx context.Context, e graph.Edge) error
	GetNode(ctx context.Context, id string) (graph.Node, bool, error)
	QueryNodes(ctx context.Context, typ graph.NodeType) ([]graph.Node, error)
	GetOutgoingEdges(ctx context.Context, nodeID string) ([]graph.Edge, error)
	GetIncomingEdges(ctx context.Context, nodeID string) ([]graph.Edge, error)
	NodeCount(ctx context.Context) (int, error)
	EdgeCount(ctx context.Context) (int, error)
	// CommitBatch persists a batch of nodes and edges atomically, nodes
	// before edges, so a reader never observes an edge whose endpoint is
	// missing because of write ordering rather than a genuine dangling
	// reference.
	CommitBatch(ctx context.Context, nodes []graph.Node, edges []graph.Edge) error
}

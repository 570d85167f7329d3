package storage

import (
	"context"
	"fmt"
	"sync"

	"codekg/internal/graph"
)

// Facade is the buffered write surface every builder, enrichment plugin,
// and validation plugin writes through. It is the only thing that ever
// calls into a GraphStore directly.
//
// Three responsibilities live here that a raw GraphStore does not provide:
// in-batch dedup (the same node id buffered twice within one flush cycle
// collapses to one write), a singleton registry (NET_REQUEST/NET_STDIO and
// any future singleton kind are created at most once per graph, regardless
// of how many builders independently decide they need one), and
// nodes-before-edges flush ordering (so CommitBatch never has to reconcile
// an edge arriving before the node it targets).
type Facade struct {
	mu    sync.Mutex
	store GraphStore
	// Strict, when true, runs graph.Validate on every buffered node and
	// rejects the write instead of queuing it.
	Strict bool

	pendingNodeIDs []string
	pendingNodes   map[string]graph.Node
	pendingEdges   []graph.Edge
	edgeSeen       map[string]struct{}

	created     map[string]struct{}
	singletons  map[string]struct{}
}

// NewFacade wraps store with a buffered write surface.
func NewFacade(store GraphStore, strict bool) *Facade {
	return &Facade{
		store:        store,
		Strict:       strict,
		pendingNodes: make(map[string]graph.Node),
		edgeSeen:     make(map[string]struct{}),
		created:      make(map[string]struct{}),
		singletons:   make(map[string]struct{}),
	}
}

// BufferNode queues n for the next flush. A second buffer of the same id
// before flush overwrites the first rather than producing a duplicate
// write. Buffering a singleton id a second time across the lifetime of the
// facade is rejected: singletons are created at most once per graph.
func (f *Facade) BufferNode(n graph.Node) error {
	if f.Strict {
		if errs := graph.Validate(n); len(errs) != 0 {
			return fmt.Errorf("storage: invalid node %q: %v", n.ID, errs)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if n.ID == graph.NetRequestSingletonID || n.ID == graph.StdioSingletonID {
		if _, already := f.singletons[n.ID]; already {
			return nil
		}
		f.singletons[n.ID] = struct{}{}
	}

	if _, exists := f.pendingNodes[n.ID]; !exists {
		f.pendingNodeIDs = append(f.pendingNodeIDs, n.ID)
	}
	f.pendingNodes[n.ID] = n
	return nil
}

// BufferEdge queues e for the next flush, deduped within the batch by the
// full (type, src, dst) triple.
func (f *Facade) BufferEdge(e graph.Edge) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := string(e.Type) + "|" + e.Src + "|" + e.Dst
	if _, seen := f.edgeSeen[key]; seen {
		return
	}
	f.edgeSeen[key] = struct{}{}
	f.pendingEdges = append(f.pendingEdges, e)
}

// IsCreated reports whether id has already been marked created, for
// builders that need to avoid re-emitting a node they already buffered in
// an earlier pass over the same module.
func (f *Facade) IsCreated(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.created[id]
	return ok
}

// MarkCreated records id as created without buffering a node for it — used
// when a builder defers the actual BufferNode call but still needs
// downstream lookups to see the id as claimed.
func (f *Facade) MarkCreated(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created[id] = struct{}{}
}

// Flush commits every buffered node, then every buffered edge, to the
// underlying store, and clears the per-cycle buffers. The singleton and
// created registries survive flush, since they track facade lifetime, not
// batch lifetime.
func (f *Facade) Flush(ctx context.Context) error {
	f.mu.Lock()
	nodes := make([]graph.Node, 0, len(f.pendingNodeIDs))
	for _, id := range f.pendingNodeIDs {
		nodes = append(nodes, f.pendingNodes[id])
	}
	edges := make([]graph.Edge, len(f.pendingEdges))
	copy(edges, f.pendingEdges)
	f.pendingNodeIDs = nil
	f.pendingNodes = make(map[string]graph.Node)
	f.pendingEdges = nil
	f.edgeSeen = make(map[string]struct{})
	f.mu.Unlock()

	if len(nodes) == 0 && len(edges) == 0 {
		return nil
	}
	for _, n := range nodes {
		f.mu.Lock()
		f.created[n.ID] = struct{}{}
		f.mu.Unlock()
	}
	return f.store.CommitBatch(ctx, nodes, edges)
}

// PendingCounts reports how many nodes/edges are queued but not yet
// flushed, mainly for tests and orchestrator progress reporting.
func (f *Facade) PendingCounts() (nodes, edges int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pendingNodeIDs), len(f.pendingEdges)
}

package validation

import (
	"context"

	"codekg/internal/graph"
)

// memStore mirrors internal/enrichment's test fake: a minimal in-memory
// storage.GraphStore for exercising a validator directly against a
// hand-built graph.
type memStore struct {
	nodes map[string]graph.Node
	edges []graph.Edge
}

func newMemStore() *memStore {
	return &memStore{nodes: make(map[string]graph.Node)}
}

func (m *memStore) addNode(n graph.Node) { m.nodes[n.ID] = n }
func (m *memStore) addEdge(e graph.Edge) { m.edges = append(m.edges, e) }

func (m *memStore) AddNode(ctx context.Context, n graph.Node) error { m.nodes[n.ID] = n; return nil }
func (m *memStore) AddEdge(ctx context.Context, e graph.Edge) error { m.edges = append(m.edges, e); return nil }
func (m *memStore) GetNode(ctx context.Context, id string) (graph.Node, bool, error) {
	n, ok := m.nodes[id]
	return n, ok, nil
}
func (m *memStore) QueryNodes(ctx context.Context, typ graph.NodeType) ([]graph.Node, error) {
	var out []graph.Node
	for _, n := range m.nodes {
		if n.Type == typ {
			out = append(out, n)
		}
	}
	return out, nil
}
func (m *memStore) GetOutgoingEdges(ctx context.Context, nodeID string) ([]graph.Edge, error) {
	var out []graph.Edge
	for _, e := range m.edges {
		if e.Src == nodeID {
			out = append(out, e)
		}
	}
	return out, nil
}
func (m *memStore) GetIncomingEdges(ctx context.Context, nodeID string) ([]graph.Edge, error) {
	var out []graph.Edge
	for _, e := range m.edges {
		if e.Dst == nodeID {
			out = append(out, e)
		}
	}
	return out, nil
}
func (m *memStore) NodeCount(ctx context.Context) (int, error) { return len(m.nodes), nil }
func (m *memStore) EdgeCount(ctx context.Context) (int, error) { return len(m.edges), nil }
func (m *memStore) CommitBatch(ctx context.Context, nodes []graph.Node, edges []graph.Edge) error {
	for _, n := range nodes {
		m.nodes[n.ID] = n
	}
	m.edges = append(m.edges, edges...)
	return nil
}

func findCode(errs []Error, code string, nodeID string) bool {
	for _, e := range errs {
		if e.Code == code && e.NodeID == nodeID {
			return true
		}
	}
	return false
}

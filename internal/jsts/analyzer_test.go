package jsts

import (
	"context"
	"testing"

	"codekg/internal/graph"
	"codekg/internal/storage"
)

type memStore struct {
	nodes map[string]graph.Node
	edges []graph.Edge
}

func newMemStore() *memStore { return &memStore{nodes: make(map[string]graph.Node)} }

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

func TestAnalyzerProducesFunctionAndCallGraph(t *testing.T) {
	src := []byte(`
function add(x, y) {
  return x + y;
}

const total = add(1, 2);
`)
	store := newMemStore()
	facade := storage.NewFacade(store, true)
	a := NewAnalyzer()

	bctx, err := a.Analyze(context.Background(), "math.js", src, facade)
	if err != nil {
		t.Fatal(err)
	}

	var foundFunction, foundCall bool
	for _, n := range store.nodes {
		if n.Type == graph.NodeFunction && n.Name == "add" {
			foundFunction = true
		}
		if n.Type == graph.NodeCall && n.Name == "add" {
			foundCall = true
		}
	}
	if !foundFunction {
		t.Fatal("expected a FUNCTION node named add")
	}
	if !foundCall {
		t.Fatal("expected a CALL node named add")
	}
	if bctx == nil {
		t.Fatal("expected a non-nil builder context")
	}
}

func TestAnalyzerSupportedExtensionsCoversBothLanguages(t *testing.T) {
	a := NewAnalyzer()
	exts := a.SupportedExtensions()
	want := map[string]bool{".js": true, ".ts": true, ".tsx": true}
	got := map[string]bool{}
	for _, e := range exts {
		got[e] = true
	}
	for e := range want {
		if !got[e] {
			t.Fatalf("expected SupportedExtensions to include %s, got %v", e, exts)
		}
	}
}

package storage

import (
	"context"
	"path/filepath"
	"testing"

	"codekg/internal/graph"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.db")
	s, err := OpenSQLiteStore(path)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStoreAddAndGetNode(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	n := graph.Node{
		ID: "a.js->global->FUNCTION->f", Type: graph.NodeFunction, Name: "f", File: "a.js",
		Line: 3, Column: 0, EndColumn: 10,
		Metadata: map[string]any{"is_async": true},
	}
	if err := s.AddNode(ctx, n); err != nil {
		t.Fatal(err)
	}

	got, ok, err := s.GetNode(ctx, n.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected node to be found")
	}
	if got.Name != "f" || got.Type != graph.NodeFunction || got.Line != 3 {
		t.Fatalf("unexpected node: %+v", got)
	}
	if got.Metadata["is_async"] != true {
		t.Fatalf("expected metadata to round-trip, got %+v", got.Metadata)
	}
}

func TestSQLiteStoreUpsertNodeOverwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id := "a.js->global->FUNCTION->f"
	if err := s.AddNode(ctx, graph.Node{ID: id, Type: graph.NodeFunction, Name: "f", File: "a.js", Line: 1}); err != nil {
		t.Fatal(err)
	}
	if err := s.AddNode(ctx, graph.Node{ID: id, Type: graph.NodeFunction, Name: "f", File: "a.js", Line: 99}); err != nil {
		t.Fatal(err)
	}
	got, _, err := s.GetNode(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Line != 99 {
		t.Fatalf("expected upsert to overwrite line, got %d", got.Line)
	}
	count, err := s.NodeCount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one node after upsert, got %d", count)
	}
}

func TestSQLiteStoreQueryNodesByType(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_ = s.AddNode(ctx, graph.Node{ID: "a.js->global->FUNCTION->f", Type: graph.NodeFunction, Name: "f", File: "a.js"})
	_ = s.AddNode(ctx, graph.Node{ID: "a.js->global->CLASS->C", Type: graph.NodeClass, Name: "C", File: "a.js"})
	_ = s.AddNode(ctx, graph.Node{ID: "a.js->global->FUNCTION->g", Type: graph.NodeFunction, Name: "g", File: "a.js"})

	fns, err := s.QueryNodes(ctx, graph.NodeFunction)
	if err != nil {
		t.Fatal(err)
	}
	if len(fns) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(fns))
	}
}

func TestSQLiteStoreOutgoingAndIncomingEdges(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	src := "a.js->global->FUNCTION->f"
	dst := "a.js->global->FUNCTION->g"
	if err := s.AddEdge(ctx, graph.Edge{Type: graph.EdgeCalls, Src: src, Dst: dst}); err != nil {
		t.Fatal(err)
	}

	out, err := s.GetOutgoingEdges(ctx, src)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].Dst != dst {
		t.Fatalf("unexpected outgoing edges: %+v", out)
	}

	in, err := s.GetIncomingEdges(ctx, dst)
	if err != nil {
		t.Fatal(err)
	}
	if len(in) != 1 || in[0].Src != src {
		t.Fatalf("unexpected incoming edges: %+v", in)
	}
}

func TestSQLiteStoreCommitBatchNodesBeforeEdges(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	src := graph.Node{ID: "a.js->global->FUNCTION->f", Type: graph.NodeFunction, Name: "f", File: "a.js"}
	dst := graph.Node{ID: "a.js->global->FUNCTION->g", Type: graph.NodeFunction, Name: "g", File: "a.js"}
	edge := graph.Edge{Type: graph.EdgeCalls, Src: src.ID, Dst: dst.ID}

	if err := s.CommitBatch(ctx, []graph.Node{src, dst}, []graph.Edge{edge}); err != nil {
		t.Fatal(err)
	}

	nc, err := s.NodeCount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if nc != 2 {
		t.Fatalf("expected 2 nodes, got %d", nc)
	}
	ec, err := s.EdgeCount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if ec != 1 {
		t.Fatalf("expected 1 edge, got %d", ec)
	}
}

func TestSQLiteStoreGetNodeMissing(t *testing.T) {
	s := openTestStore(t)
	_, ok, err := s.GetNode(context.Background(), "nonexistent")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected not found for missing id")
	}
}

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"codekg/internal/graph"
)

// SQLiteStore is the reference GraphStore backend: a two-table schema (one
// row per node, one row per edge) with secondary indexes matching the
// lookup patterns the pipeline actually performs. It favors simplicity
// over scale — no sharding, no replication, no network wire protocol; a
// workspace too large for one sqlite file on one machine needs a different
// GraphStore implementation behind the same interface, not a change to
// this one.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if absent) a sqlite database at path and
// ensures its schema exists.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: opening sqlite store: %w", err)
	}
	s := &SQLiteStore{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS nodes (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		name TEXT NOT NULL,
		file TEXT NOT NULL,
		line INTEGER,
		column INTEGER,
		end_column INTEGER,
		metadata_json TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_nodes_type_file ON nodes(type, file);

	CREATE TABLE IF NOT EXISTS edges (
		type TEXT NOT NULL,
		src TEXT NOT NULL,
		dst TEXT NOT NULL,
		metadata_json TEXT,
		UNIQUE(type, src, dst)
	);
	CREATE INDEX IF NOT EXISTS idx_edges_src_type ON edges(src, type);
	CREATE INDEX IF NOT EXISTS idx_edges_dst_type ON edges(dst, type);
	`
	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("storage: initializing schema: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func encodeMetadata(m map[string]any) (string, error) {
	if len(m) == 0 {
		return "", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeMetadata(s string) (map[string]any, error) {
	if s == "" {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, err
	}
	return m, nil
}

// AddNode upserts a single node.
func (s *SQLiteStore) AddNode(ctx context.Context, n graph.Node) error {
	return s.addNodeTx(ctx, s.db, n)
}

func (s *SQLiteStore) addNodeTx(ctx context.Context, execer interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
}, n graph.Node) error {
	meta, err := encodeMetadata(n.Metadata)
	if err != nil {
		return fmt.Errorf("storage: encoding metadata for node %q: %w", n.ID, err)
	}
	_, err = execer.ExecContext(ctx, `
		INSERT INTO nodes (id, type, name, file, line, column, end_column, metadata_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			name = excluded.name,
			file = excluded.file,
			line = excluded.line,
			column = excluded.column,
			end_column = excluded.end_column,
			metadata_json = excluded.metadata_json
	`, n.ID, string(n.Type), n.Name, n.File, n.Line, n.Column, n.EndColumn, meta)
	if err != nil {
		return fmt.Errorf("storage: upserting node %q: %w", n.ID, err)
	}
	return nil
}

// AddEdge upserts a single edge, keyed by (type, src, dst).
func (s *SQLiteStore) AddEdge(ctx context.Context, e graph.Edge) error {
	return s.addEdgeTx(ctx, s.db, e)
}

func (s *SQLiteStore) addEdgeTx(ctx context.Context, execer interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
}, e graph.Edge) error {
	meta, err := encodeMetadata(e.Metadata)
	if err != nil {
		return fmt.Errorf("storage: encoding metadata for edge %s %s->%s: %w", e.Type, e.Src, e.Dst, err)
	}
	_, err = execer.ExecContext(ctx, `
		INSERT INTO edges (type, src, dst, metadata_json)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(type, src, dst) DO UPDATE SET metadata_json = excluded.metadata_json
	`, string(e.Type), e.Src, e.Dst, meta)
	if err != nil {
		return fmt.Errorf("storage: upserting edge %s %s->%s: %w", e.Type, e.Src, e.Dst, err)
	}
	return nil
}

// GetNode fetches one node by id.
func (s *SQLiteStore) GetNode(ctx context.Context, id string) (graph.Node, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, type, name, file, line, column, end_column, metadata_json
		FROM nodes WHERE id = ?
	`, id)
	n, err := scanNode(row)
	if err == sql.ErrNoRows {
		return graph.Node{}, false, nil
	}
	if err != nil {
		return graph.Node{}, false, fmt.Errorf("storage: getting node %q: %w", id, err)
	}
	return n, true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNode(row rowScanner) (graph.Node, error) {
	var n graph.Node
	var typ, metaJSON string
	if err := row.Scan(&n.ID, &typ, &n.Name, &n.File, &n.Line, &n.Column, &n.EndColumn, &metaJSON); err != nil {
		return graph.Node{}, err
	}
	n.Type = graph.NodeType(typ)
	meta, err := decodeMetadata(metaJSON)
	if err != nil {
		return graph.Node{}, err
	}
	n.Metadata = meta
	return n, nil
}

// QueryNodes returns every node tagged with typ.
func (s *SQLiteStore) QueryNodes(ctx context.Context, typ graph.NodeType) ([]graph.Node, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, name, file, line, column, end_column, metadata_json
		FROM nodes WHERE type = ?
	`, string(typ))
	if err != nil {
		return nil, fmt.Errorf("storage: querying nodes of type %q: %w", typ, err)
	}
	defer rows.Close()

	var out []graph.Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) edgesWhere(ctx context.Context, column, nodeID string) ([]graph.Edge, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT type, src, dst, metadata_json FROM edges WHERE %s = ?
	`, column), nodeID)
	if err != nil {
		return nil, fmt.Errorf("storage: querying edges by %s: %w", column, err)
	}
	defer rows.Close()

	var out []graph.Edge
	for rows.Next() {
		var e graph.Edge
		var typ, metaJSON string
		if err := rows.Scan(&typ, &e.Src, &e.Dst, &metaJSON); err != nil {
			return nil, err
		}
		e.Type = graph.EdgeType(typ)
		meta, err := decodeMetadata(metaJSON)
		if err != nil {
			return nil, err
		}
		e.Metadata = meta
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetOutgoingEdges returns every edge whose src is nodeID.
func (s *SQLiteStore) GetOutgoingEdges(ctx context.Context, nodeID string) ([]graph.Edge, error) {
	return s.edgesWhere(ctx, "src", nodeID)
}

// GetIncomingEdges returns every edge whose dst is nodeID.
func (s *SQLiteStore) GetIncomingEdges(ctx context.Context, nodeID string) ([]graph.Edge, error) {
	return s.edgesWhere(ctx, "dst", nodeID)
}

// NodeCount returns the total number of nodes in the store.
func (s *SQLiteStore) NodeCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM nodes`).Scan(&n)
	return n, err
}

// EdgeCount returns the total number of edges in the store.
func (s *SQLiteStore) EdgeCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM edges`).Scan(&n)
	return n, err
}

// CommitBatch writes nodes then edges inside a single transaction.
func (s *SQLiteStore) CommitBatch(ctx context.Context, nodes []graph.Node, edges []graph.Edge) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: beginning batch transaction: %w", err)
	}
	defer tx.Rollback()

	for _, n := range nodes {
		if err := s.addNodeTx(ctx, tx, n); err != nil {
			return err
		}
	}
	for _, e := range edges {
		if err := s.addEdgeTx(ctx, tx, e); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: committing batch: %w", err)
	}
	return nil
}

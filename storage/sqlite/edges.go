package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/poiesic/archivist/core"
	"github.com/poiesic/archivist/storage"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS edges (
	source_id       TEXT    NOT NULL,
	ordinal         INTEGER NOT NULL,
	target_id       TEXT    NOT NULL,
	edge_type       TEXT    NOT NULL,
	target_resolved INTEGER NOT NULL,
	PRIMARY KEY (source_id, ordinal)
);
CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target_id);
CREATE INDEX IF NOT EXISTS idx_edges_type ON edges(edge_type);
`

// EdgeStore implements storage.EdgeRepository on SQLite.
type EdgeStore struct {
	db *sql.DB
}

var _ storage.EdgeRepository = (*EdgeStore)(nil)

// Open opens or creates the edge database at path. Pass MemoryPath for an
// in-memory database.
func Open(path string) (*EdgeStore, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == MemoryPath {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &EdgeStore{db: db}, nil
}

// EmitEdges inserts edges in one transaction. Edges already stored for the
// same (source_id, ordinal) are left untouched.
func (s *EdgeStore) EmitEdges(ctx context.Context, edges []core.GraphEdge) error {
	if len(edges) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO edges
		(source_id, ordinal, target_id, edge_type, target_resolved) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for i := range edges {
		e := &edges[i]
		if err := core.ValidateEdge(e); err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, e.SourceID, e.Ordinal, e.TargetID, string(e.EdgeType), e.TargetResolved); err != nil {
			return fmt.Errorf("insert edge %s#%d: %w", e.SourceID, e.Ordinal, err)
		}
	}
	return tx.Commit()
}

// EdgesFrom returns the outgoing edges of sourceID ordered by ordinal.
func (s *EdgeStore) EdgesFrom(ctx context.Context, sourceID string) ([]core.GraphEdge, error) {
	return s.query(ctx, `SELECT source_id, ordinal, target_id, edge_type, target_resolved
		FROM edges WHERE source_id = ? ORDER BY ordinal`, sourceID)
}

// EdgesTo returns the incoming edges of targetID ordered by source and ordinal.
func (s *EdgeStore) EdgesTo(ctx context.Context, targetID string) ([]core.GraphEdge, error) {
	return s.query(ctx, `SELECT source_id, ordinal, target_id, edge_type, target_resolved
		FROM edges WHERE target_id = ? ORDER BY source_id, ordinal`, targetID)
}

// CountByType returns the number of stored edges per edge type.
func (s *EdgeStore) CountByType(ctx context.Context) (map[core.EdgeType]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT edge_type, COUNT(*) FROM edges GROUP BY edge_type`)
	if err != nil {
		return nil, fmt.Errorf("count edges: %w", err)
	}
	defer rows.Close()

	out := make(map[core.EdgeType]int)
	for rows.Next() {
		var (
			t string
			n int
		)
		if err := rows.Scan(&t, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		out[core.EdgeType(t)] = n
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *EdgeStore) Close() error {
	return s.db.Close()
}

func (s *EdgeStore) query(ctx context.Context, q string, arg string) ([]core.GraphEdge, error) {
	rows, err := s.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, fmt.Errorf("query edges: %w", err)
	}
	defer rows.Close()

	var out []core.GraphEdge
	for rows.Next() {
		var (
			e        core.GraphEdge
			edgeType string
		)
		if err := rows.Scan(&e.SourceID, &e.Ordinal, &e.TargetID, &edgeType, &e.TargetResolved); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		e.EdgeType = core.EdgeType(edgeType)
		out = append(out, e)
	}
	return out, rows.Err()
}

package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/anhnh2002/Universal-Parser/internal/graph"
)

// Store wraps a SQLite connection holding a graph snapshot for downstream
// tooling. The JSON artifact stays the source of truth; the snapshot is
// replaced wholesale on every successful run.
type Store struct {
	db     *sql.DB
	dbPath string
}

const schema = `
CREATE TABLE IF NOT EXISTS repository (
    name TEXT NOT NULL,
    path TEXT NOT NULL,
    files_processed INTEGER NOT NULL,
    files_failed INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS nodes (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    kind TEXT NOT NULL,
    language TEXT NOT NULL,
    file_path TEXT NOT NULL,
    start_line INTEGER NOT NULL,
    end_line INTEGER NOT NULL,
    summary TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_nodes_file ON nodes(file_path);
CREATE INDEX IF NOT EXISTS idx_nodes_name ON nodes(name);
CREATE TABLE IF NOT EXISTS edges (
    subject_id TEXT NOT NULL,
    subject_file TEXT NOT NULL,
    object_id TEXT NOT NULL,
    object_file TEXT NOT NULL,
    kind TEXT NOT NULL,
    evidence TEXT NOT NULL DEFAULT '',
    unresolved INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_edges_subject ON edges(subject_id);
CREATE INDEX IF NOT EXISTS idx_edges_object ON edges(object_id);
CREATE TABLE IF NOT EXISTS stats (
    category TEXT NOT NULL,
    key TEXT NOT NULL,
    count INTEGER NOT NULL
);
`

// Open opens or creates a snapshot database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	s := &Store{db: db, dbPath: path}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error { return s.db.Close() }

// SaveGraph replaces the snapshot with g inside one transaction.
func (s *Store) SaveGraph(g *graph.Graph) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := saveGraphTx(tx, g); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func saveGraphTx(tx *sql.Tx, g *graph.Graph) error {
	for _, table := range []string{"repository", "nodes", "edges", "stats"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if _, err := tx.Exec(
		"INSERT INTO repository (name, path, files_processed, files_failed) VALUES (?, ?, ?, ?)",
		g.Repository.Name, g.Repository.Path, g.Repository.FilesProcessed, g.Repository.FilesFailed,
	); err != nil {
		return fmt.Errorf("insert repository: %w", err)
	}

	nodeStmt, err := tx.Prepare(
		"INSERT INTO nodes (id, name, kind, language, file_path, start_line, end_line, summary) VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare nodes: %w", err)
	}
	defer nodeStmt.Close()
	for _, n := range g.Nodes {
		if _, err := nodeStmt.Exec(n.ID, n.Name, string(n.Kind), n.Language, n.FilePath, n.StartLine, n.EndLine, n.Summary); err != nil {
			return fmt.Errorf("insert node %s: %w", n.ID, err)
		}
	}

	edgeStmt, err := tx.Prepare(
		"INSERT INTO edges (subject_id, subject_file, object_id, object_file, kind, evidence, unresolved) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare edges: %w", err)
	}
	defer edgeStmt.Close()
	for _, e := range g.Edges {
		if _, err := edgeStmt.Exec(e.SubjectID, e.SubjectFile, e.ObjectID, e.ObjectFile, string(e.Kind), e.Evidence, boolInt(e.Unresolved)); err != nil {
			return fmt.Errorf("insert edge %s->%s: %w", e.SubjectID, e.ObjectID, err)
		}
	}

	statStmt, err := tx.Prepare("INSERT INTO stats (category, key, count) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare stats: %w", err)
	}
	defer statStmt.Close()
	insertStats := func(category string, counts map[string]int) error {
		for key, count := range counts {
			if _, err := statStmt.Exec(category, key, count); err != nil {
				return fmt.Errorf("insert stat %s/%s: %w", category, key, err)
			}
		}
		return nil
	}
	if err := insertStats("nodes_by_kind", g.Statistics.NodesByKind); err != nil {
		return err
	}
	if err := insertStats("edges_by_kind", g.Statistics.EdgesByKind); err != nil {
		return err
	}
	return insertStats("files_by_language", g.Statistics.FilesByLanguage)
}

// LoadGraph reads the snapshot back into a graph.
func (s *Store) LoadGraph() (*graph.Graph, error) {
	g := &graph.Graph{Nodes: make(map[string]*graph.Node)}

	row := s.db.QueryRow("SELECT name, path, files_processed, files_failed FROM repository LIMIT 1")
	if err := row.Scan(&g.Repository.Name, &g.Repository.Path,
		&g.Repository.FilesProcessed, &g.Repository.FilesFailed); err != nil {
		return nil, fmt.Errorf("read repository: %w", err)
	}

	rows, err := s.db.Query("SELECT id, name, kind, language, file_path, start_line, end_line, summary FROM nodes")
	if err != nil {
		return nil, fmt.Errorf("read nodes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		n := &graph.Node{}
		var kind string
		if err := rows.Scan(&n.ID, &n.Name, &kind, &n.Language, &n.FilePath, &n.StartLine, &n.EndLine, &n.Summary); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		n.Kind, _ = graph.ParseNodeKind(kind)
		g.Nodes[n.ID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	edgeRows, err := s.db.Query("SELECT subject_id, subject_file, object_id, object_file, kind, evidence, unresolved FROM edges")
	if err != nil {
		return nil, fmt.Errorf("read edges: %w", err)
	}
	defer edgeRows.Close()
	for edgeRows.Next() {
		var e graph.Edge
		var kind string
		var unresolved int
		if err := edgeRows.Scan(&e.SubjectID, &e.SubjectFile, &e.ObjectID, &e.ObjectFile, &kind, &e.Evidence, &unresolved); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		e.Kind, _ = graph.ParseEdgeKind(kind)
		e.Unresolved = unresolved != 0
		g.Edges = append(g.Edges, e)
	}
	if err := edgeRows.Err(); err != nil {
		return nil, err
	}

	g.RecomputeStats()
	return g, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

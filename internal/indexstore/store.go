package indexstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/EricA1019/godot-mcp-index/pkg/types"
)

// DriverName reports the registered sql driver name for the active build
// (cgo or purego), for diagnostics and CLI version output.
func DriverName() string { return driverName }

// BuildMode reports which of build_cgo.go / build_purego.go was compiled.
func BuildMode() string { return buildMode }

// OpKind distinguishes the two operations a batch may carry.
type OpKind int

const (
	OpUpsert OpKind = iota
	OpDelete
)

// Op is a single operation within an apply_batch call. Upsert carries the
// full document payload; Delete carries only a path.
type Op struct {
	Kind    OpKind
	Path    string
	Content string
	DocKind types.Kind
	Hash    string
}

// Upsert builds an upsert operation for path.
func Upsert(path, content string, kind types.Kind, hash string) Op {
	return Op{Kind: OpUpsert, Path: path, Content: content, DocKind: kind, Hash: hash}
}

// Delete builds a delete operation for path.
func Delete(path string) Op {
	return Op{Kind: OpDelete, Path: path}
}

// Health reports coarse index statistics.
type Health struct {
	DocCount     int
	SegmentCount int
}

// Store is the persistent inverted index over Documents, backed by SQLite
// FTS5. A single *sql.DB connection is held open (WAL mode, one writer);
// every Search opens a fresh statement so reads always observe the most
// recently committed batch.
type Store struct {
	db *sql.DB

	// onWrite, if set, is invoked synchronously after every batch that
	// commits at least one operation. Callers use this to invalidate a
	// result cache built on top of the store without the store needing to
	// know anything about caching itself.
	onWrite func()
}

// OnWrite registers fn to run after every batch that commits successfully.
// Only one hook is supported; a later call replaces an earlier one.
func (s *Store) OnWrite(fn func()) {
	s.onWrite = fn
}

// Open opens or creates an index under dir, applying schema migrations.
func Open(dir string) (*Store, error) {
	dbPath, err := prepareDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrIndexUnavailable, err)
	}

	db, err := sql.Open(driverName, dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", types.ErrIndexUnavailable, dbPath, err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: enable WAL: %v", types.ErrIndexUnavailable, err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: enable foreign keys: %v", types.ErrIndexUnavailable, err)
	}

	// SQLite has a single writer; one connection avoids SQLITE_BUSY under
	// concurrent apply_batch/search from separate goroutines.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: migrate: %v", types.ErrIndexUnavailable, err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// ApplyBatch commits ops atomically: either every operation is visible to
// later readers, or none is. Each Upsert is applied as a delete-by-path
// followed by an insert, the discipline that keeps one-document-per-path
// even though FTS5 content tables do not enforce key uniqueness on their
// own. Returns the number of operations applied.
func (s *Store) ApplyBatch(ctx context.Context, ops []Op) (int, error) {
	if len(ops) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin batch: %v", types.ErrIndexUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()
	for _, op := range ops {
		path := types.NormalizePath(op.Path)

		if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE path = ?`, path); err != nil {
			return 0, fmt.Errorf("%w: delete %s: %v", types.ErrIndexUnavailable, path, err)
		}
		if op.Kind == OpDelete {
			continue
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO documents (path, content, kind, hash, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, path, op.Content, string(op.DocKind), op.Hash, now, now)
		if err != nil {
			return 0, fmt.Errorf("%w: insert %s: %v", types.ErrIndexUnavailable, path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit batch: %v", types.ErrIndexUnavailable, err)
	}

	if s.onWrite != nil {
		s.onWrite()
	}

	return len(ops), nil
}

// Search returns up to limit (score, path, kind) hits for query_text,
// ordered by descending relevance with ties broken by ascending path.
// limit <= 0 returns no hits. Each call runs against a freshly prepared
// statement, so it observes every apply_batch that committed before it
// started.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]types.SearchHit, error) {
	hits, err := s.SearchAdvanced(ctx, query, "", limit, false)
	if err != nil {
		return nil, err
	}
	out := make([]types.SearchHit, len(hits))
	for i, h := range hits {
		out[i] = types.SearchHit{Score: h.Score, Path: h.Path, Kind: h.Kind}
	}
	return out, nil
}

// SearchAdvanced is Search restricted to kindFilter (when non-empty) and
// optionally carrying a short excerpt snippet per hit.
func (s *Store) SearchAdvanced(ctx context.Context, query string, kindFilter types.Kind, limit int, wantSnippet bool) ([]types.AdvancedHit, error) {
	if limit <= 0 {
		return nil, nil
	}

	var (
		snippetExpr = "''"
		args        = []any{query}
	)
	if wantSnippet {
		// snippet() windows up to 32 tokens around the best match in the
		// content column; matched terms are left unmarked (empty open/close
		// markers) and elided text is shown as "...".
		snippetExpr = "snippet(documents_fts, 1, '', '', '...', 32)"
	}

	sqlQuery := fmt.Sprintf(`
		SELECT d.path, d.kind, rank, %s
		FROM documents d
		JOIN documents_fts fts ON d.id = fts.rowid
		WHERE documents_fts MATCH ?
	`, snippetExpr)

	if kindFilter != "" {
		sqlQuery += " AND d.kind = ?"
		args = append(args, string(kindFilter))
	}
	sqlQuery += " ORDER BY rank, d.path LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		if isQuerySyntaxError(err) {
			return nil, fmt.Errorf("%w: %v", types.ErrQueryInvalid, err)
		}
		return nil, fmt.Errorf("%w: search: %v", types.ErrIndexUnavailable, err)
	}
	defer func() { _ = rows.Close() }()

	var hits []types.AdvancedHit
	for rows.Next() {
		var (
			path, kind, snippet string
			rank                float64
		)
		if err := rows.Scan(&path, &kind, &rank, &snippet); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", types.ErrIndexUnavailable, err)
		}
		// FTS5 rank is ascending-better (more negative is more relevant);
		// invert so SearchHit.Score is descending-better like the contract.
		hits = append(hits, types.AdvancedHit{
			Score:   -rank,
			Path:    path,
			Kind:    types.Kind(kind),
			Snippet: snippet,
		})
	}
	return hits, rows.Err()
}

// GetHash returns the currently indexed hash for path, and whether a
// document exists at all. Used to detect no-op modify events before
// spending a write batch on them.
func (s *Store) GetHash(ctx context.Context, path string) (hash string, found bool, err error) {
	row := s.db.QueryRowContext(ctx, `SELECT hash FROM documents WHERE path = ?`, types.NormalizePath(path))
	switch err := row.Scan(&hash); err {
	case nil:
		return hash, true, nil
	case sql.ErrNoRows:
		return "", false, nil
	default:
		return "", false, fmt.Errorf("%w: get hash: %v", types.ErrIndexUnavailable, err)
	}
}

// ListPaths returns every path currently in the index, for use by full-sweep
// reconciliation against the live filesystem.
func (s *Store) ListPaths(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("%w: list paths: %v", types.ErrIndexUnavailable, err)
	}
	defer func() { _ = rows.Close() }()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("%w: scan path: %v", types.ErrIndexUnavailable, err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// HealthCheck reports document and FTS segment counts.
func (s *Store) HealthCheck(ctx context.Context) (Health, error) {
	var h Health
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&h.DocCount); err != nil {
		return Health{}, fmt.Errorf("%w: doc count: %v", types.ErrIndexUnavailable, err)
	}

	var segCount sql.NullInt64
	// documents_fts is an external-content table; its own stats live in
	// its shadow %_data table, whose row count approximates segment count.
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents_fts_data`)
	if err := row.Scan(&segCount); err != nil {
		return Health{}, fmt.Errorf("%w: segment count: %v", types.ErrIndexUnavailable, err)
	}
	h.SegmentCount = int(segCount.Int64)

	return h, nil
}

func isQuerySyntaxError(err error) bool {
	return strings.Contains(err.Error(), "fts5: syntax error") ||
		strings.Contains(err.Error(), "malformed MATCH")
}

var errIncompatibleIndex = errors.New("incompatible existing index")

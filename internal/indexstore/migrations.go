package indexstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// CurrentSchemaVersion tracks the on-disk schema version.
const CurrentSchemaVersion = "1.0.0"

// migration is a single versioned schema change.
type migration struct {
	Version string
	Up      string
	Down    string
}

// allMigrations contains all schema migrations in order.
var allMigrations = []migration{
	{
		Version: "1.0.0",
		Up:      migrationV1Up,
		Down:    migrationV1Down,
	},
}

const migrationV1Up = `
CREATE TABLE IF NOT EXISTS schema_version (
    version TEXT PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- documents holds one row per indexed path; path uniqueness is enforced
-- here, even though the upsert discipline in apply_batch never relies on
-- it (delete-by-path precedes every add regardless).
CREATE TABLE IF NOT EXISTS documents (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL UNIQUE,
    content TEXT NOT NULL,
    kind TEXT NOT NULL,
    hash TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_documents_kind ON documents(kind);
CREATE INDEX IF NOT EXISTS idx_documents_hash ON documents(hash);

-- Full-text search over path and content; kind is carried unindexed.
-- search_advanced applies its exact-match kind filter on documents.kind.
CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts5(
    path,
    content,
    kind UNINDEXED,
    content='documents',
    content_rowid='id'
);

CREATE TRIGGER IF NOT EXISTS documents_ai AFTER INSERT ON documents BEGIN
    INSERT INTO documents_fts(rowid, path, content, kind)
    VALUES (new.id, new.path, new.content, new.kind);
END;

CREATE TRIGGER IF NOT EXISTS documents_ad AFTER DELETE ON documents BEGIN
    DELETE FROM documents_fts WHERE rowid = old.id;
END;

CREATE TRIGGER IF NOT EXISTS documents_au AFTER UPDATE ON documents BEGIN
    UPDATE documents_fts SET
        path = new.path,
        content = new.content,
        kind = new.kind
    WHERE rowid = new.id;
END;
`

const migrationV1Down = `
DROP TRIGGER IF EXISTS documents_au;
DROP TRIGGER IF EXISTS documents_ad;
DROP TRIGGER IF EXISTS documents_ai;
DROP TABLE IF EXISTS documents_fts;
DROP TABLE IF EXISTS documents;
DROP TABLE IF EXISTS schema_version;
`

// applyMigrations runs all migrations newer than the schema's recorded
// version, in order, recording each as it applies.
func applyMigrations(ctx context.Context, db *sql.DB) error {
	var tableName string
	err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableName)

	var current *semver.Version
	switch {
	case err == sql.ErrNoRows:
		current = semver.MustParse("0.0.0")
	case err != nil:
		return fmt.Errorf("indexstore: check schema_version: %w", err)
	default:
		var versionStr string
		err = db.QueryRowContext(ctx, "SELECT version FROM schema_version ORDER BY applied_at DESC LIMIT 1").Scan(&versionStr)
		switch {
		case err == sql.ErrNoRows || versionStr == "":
			current = semver.MustParse("0.0.0")
		case err != nil:
			return fmt.Errorf("indexstore: read schema_version: %w", err)
		default:
			current, err = semver.NewVersion(versionStr)
			if err != nil {
				return fmt.Errorf("indexstore: invalid schema version %s: %w", versionStr, err)
			}
		}
	}

	for _, m := range allMigrations {
		v, err := semver.NewVersion(m.Version)
		if err != nil {
			return fmt.Errorf("indexstore: invalid migration version %s: %w", m.Version, err)
		}
		if !current.LessThan(v) {
			continue
		}
		if _, err := db.ExecContext(ctx, m.Up); err != nil {
			return fmt.Errorf("indexstore: apply migration %s: %w", m.Version, err)
		}
		if _, err := db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("indexstore: record migration %s: %w", m.Version, err)
		}
		current = v
	}

	return nil
}

// Package index catalogues a container in SQLite: its parts, relationships,
// references and diagnostics.
package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aidanlsb/resqpack/internal/check"
	"github.com/aidanlsb/resqpack/internal/epc"
)

// Database is the SQLite database handle.
type Database struct {
	db *sql.DB
}

var (
	// ErrPartNotFound indicates the requested part is not in the index.
	ErrPartNotFound = errors.New("part not found in index")
	// ErrIndexLocked indicates another process is rebuilding the index.
	ErrIndexLocked = errors.New("index is locked for rebuild")
)

// CurrentDBVersion is the current database schema version.
const CurrentDBVersion = 1

// DefaultPath returns the conventional index path of a container.
func DefaultPath(container string) string {
	return strings.TrimSuffix(filepath.Clean(container), string(filepath.Separator)) + ".index.db"
}

// DB returns the underlying sql.DB for advanced queries.
func (d *Database) DB() *sql.DB {
	return d.db
}

// Open opens or creates the database at path.
func Open(ctx context.Context, path string) (*Database, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	d := &Database{db: db}
	if err := d.initialize(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// OpenInMemory opens an in-memory database (for testing).
func OpenInMemory(ctx context.Context) (*Database, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	d := &Database{db: db}
	if err := d.initialize(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Rebuild replaces the index at path with a fresh catalogue of p. Concurrent
// rebuilds of the same index fail with ErrIndexLocked.
func Rebuild(ctx context.Context, path string, p *epc.Package, issues check.Issues) (*Database, *Stats, error) {
	lock, err := acquireIndexLock(path)
	if err != nil {
		return nil, nil, err
	}
	defer lock.Release()

	if err := removeDatabaseFiles(path); err != nil {
		return nil, nil, err
	}
	d, err := Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	if err := d.IndexPackage(ctx, p, issues); err != nil {
		d.Close()
		return nil, nil, err
	}
	stats, err := d.Stats(ctx)
	if err != nil {
		d.Close()
		return nil, nil, err
	}
	return d, stats, nil
}

type indexLock struct {
	file *os.File
}

func acquireIndexLock(path string) (*indexLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}
	lockFile, err := os.OpenFile(path+".lock", os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open index lock: %w", err)
	}
	if err := lockExclusive(lockFile); err != nil {
		lockFile.Close()
		if isWouldBlock(err) {
			return nil, ErrIndexLocked
		}
		return nil, fmt.Errorf("failed to acquire index lock: %w", err)
	}
	return &indexLock{file: lockFile}, nil
}

func (l *indexLock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	unlockErr := unlock(l.file)
	closeErr := l.file.Close()
	if unlockErr != nil {
		return unlockErr
	}
	return closeErr
}

func removeDatabaseFiles(dbPath string) error {
	for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}
	return nil
}

// Close closes the database.
func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) initialize(ctx context.Context) error {
	schema := `
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		-- One row per top-level object part
		CREATE TABLE IF NOT EXISTS parts (
			part TEXT PRIMARY KEY,
			uuid TEXT NOT NULL,
			type TEXT NOT NULL,
			title TEXT,
			content_type TEXT NOT NULL,
			indexed_at INTEGER
		);

		-- Relationship listings, one row per entry
		CREATE TABLE IF NOT EXISTS relationships (
			source_part TEXT NOT NULL,
			rel_id TEXT NOT NULL,
			target TEXT NOT NULL,
			target_mode TEXT,
			type TEXT NOT NULL,
			PRIMARY KEY (source_part, rel_id)
		);

		-- References held by objects or their nested objects
		CREATE TABLE IF NOT EXISTS refs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source_part TEXT NOT NULL,
			field_path TEXT NOT NULL,
			target_uuid TEXT NOT NULL,
			target_part TEXT,           -- NULL when the reference is dangling
			title TEXT
		);

		CREATE TABLE IF NOT EXISTS issues (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level TEXT NOT NULL,
			kind TEXT NOT NULL,
			part TEXT,
			path TEXT,
			message TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_parts_type ON parts(type);
		CREATE INDEX IF NOT EXISTS idx_parts_uuid ON parts(uuid);
		CREATE INDEX IF NOT EXISTS idx_refs_source ON refs(source_part);
		CREATE INDEX IF NOT EXISTS idx_refs_target ON refs(target_uuid);
		CREATE INDEX IF NOT EXISTS idx_issues_kind ON issues(kind);
	`
	if _, err := d.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}
	_, err := d.db.ExecContext(ctx, `INSERT OR REPLACE INTO meta (key, value) VALUES ('version', ?)`,
		fmt.Sprintf("%d", CurrentDBVersion))
	if err != nil {
		return fmt.Errorf("failed to set database version: %w", err)
	}
	return nil
}

// IndexPackage replaces the catalogue with the parts, relationships,
// references and issues of p.
func (d *Database) IndexPackage(ctx context.Context, p *epc.Package, issues check.Issues) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := clearTables(ctx, tx); err != nil {
		return err
	}
	now := time.Now().Unix()
	if err := indexParts(ctx, tx, p, now); err != nil {
		return err
	}
	if err := indexRelationships(ctx, tx, p); err != nil {
		return err
	}
	if err := indexRefs(ctx, tx, p); err != nil {
		return err
	}
	if err := indexIssues(ctx, tx, issues); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO meta (key, value) VALUES ('container', ?)`, p.Location()); err != nil {
		return err
	}
	return tx.Commit()
}

// Stats contains index statistics.
type Stats struct {
	Parts         int `json:"parts"`
	Relationships int `json:"relationships"`
	Refs          int `json:"refs"`
	Dangling      int `json:"dangling"`
	Issues        int `json:"issues"`
}

// Stats returns row counts.
func (d *Database) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	counts := []struct {
		query string
		dst   *int
	}{
		{"SELECT COUNT(*) FROM parts", &s.Parts},
		{"SELECT COUNT(*) FROM relationships", &s.Relationships},
		{"SELECT COUNT(*) FROM refs", &s.Refs},
		{"SELECT COUNT(*) FROM refs WHERE target_part IS NULL", &s.Dangling},
		{"SELECT COUNT(*) FROM issues", &s.Issues},
	}
	for _, c := range counts {
		if err := d.db.QueryRowContext(ctx, c.query).Scan(c.dst); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

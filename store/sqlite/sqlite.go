/*
Package sqlite provides a SQLite-backed implementation of the record store.

PURPOSE:
  Persists the positional row model durably: one logical collection per
  company, rows addressed by 1-based position, header row at position 1.
  Cells are stored as a JSON-encoded string array so a row round-trips
  exactly as the engine wrote it.

KEY TABLES:
  collections:     Known collection names
  collection_rows: (collection, position) -> cells

CONCURRENCY:
  Uses sync.RWMutex for in-process thread-safety. There is no
  optimistic-concurrency check on writes: positional updates are
  last-write-wins, the same contract a remote spreadsheet gives.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): multiple readers
  don't block, single writer at a time, better crash recovery.

USAGE:
  st, err := sqlite.New("./data/clients.db")
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

SEE ALSO:
  - ingest/store.go: Interface definition and contract
  - ingest/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/brokerkit/client-sync/ingest"
)

// Store implements ingest.Store on SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS collections (
		name TEXT PRIMARY KEY,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	);

	CREATE TABLE IF NOT EXISTS collection_rows (
		collection TEXT NOT NULL REFERENCES collections(name),
		position INTEGER NOT NULL,
		cells TEXT NOT NULL,
		PRIMARY KEY (collection, position)
	);

	-- Position-ordered reads are the hot path
	CREATE INDEX IF NOT EXISTS idx_rows_collection_position
		ON collection_rows(collection, position);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// INGEST.STORE IMPLEMENTATION
// =============================================================================

// EnsureCollection idempotently registers the collection and writes the
// canonical header row at position 1.
func (s *Store) EnsureCollection(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO collections (name) VALUES (?)`, name); err != nil {
		return fmt.Errorf("ensure collection %q: %w", name, err)
	}

	headerJSON, err := json.Marshal(ingest.Header())
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO collection_rows (collection, position, cells) VALUES (?, 1, ?)`,
		name, string(headerJSON)); err != nil {
		return fmt.Errorf("write header for %q: %w", name, err)
	}

	return tx.Commit()
}

// ReadAll returns every row of the collection in position order. An
// unknown collection yields an empty slice and nil error.
func (s *Store) ReadAll(ctx context.Context, name string) ([][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT cells FROM collection_rows WHERE collection = ? ORDER BY position`, name)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", name, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var cellsJSON string
		if err := rows.Scan(&cellsJSON); err != nil {
			return nil, fmt.Errorf("scan row of %q: %w", name, err)
		}
		var cells []string
		if err := json.Unmarshal([]byte(cellsJSON), &cells); err != nil {
			return nil, fmt.Errorf("decode row of %q: %w", name, err)
		}
		out = append(out, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %q: %w", name, err)
	}
	if out == nil {
		out = [][]string{}
	}
	return out, nil
}

// AppendRows adds rows after the last occupied position, atomically.
func (s *Store) AppendRows(ctx context.Context, name string, newRows [][]string) error {
	if len(newRows) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var next int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), 0) + 1 FROM collection_rows WHERE collection = ?`,
		name).Scan(&next); err != nil {
		return fmt.Errorf("next position for %q: %w", name, err)
	}

	for i, row := range newRows {
		cellsJSON, err := json.Marshal(row)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO collection_rows (collection, position, cells) VALUES (?, ?, ?)`,
			name, next+i, string(cellsJSON)); err != nil {
			return fmt.Errorf("append to %q: %w", name, err)
		}
	}

	return tx.Commit()
}

// UpdateRows overwrites rows at absolute positions, atomically. A
// position that does not exist yet is written anyway, matching the
// spreadsheet contract of writing to an arbitrary range.
func (s *Store) UpdateRows(ctx context.Context, name string, updates []ingest.RowUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, u := range updates {
		if u.Position < 1 {
			return fmt.Errorf("invalid row position %d in %q", u.Position, name)
		}
		cellsJSON, err := json.Marshal(u.Row)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO collection_rows (collection, position, cells) VALUES (?, ?, ?)`,
			name, u.Position, string(cellsJSON)); err != nil {
			return fmt.Errorf("update row %d of %q: %w", u.Position, name, err)
		}
	}

	return tx.Commit()
}

// ListCollections returns known collection names in name order.
func (s *Store) ListCollections(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT name FROM collections ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

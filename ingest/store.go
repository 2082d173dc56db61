/*
store.go - Record store interface

PURPOSE:
  Defines the interface between the ingest engine and the backing
  spreadsheet-style store: one named collection per company, positional
  rows under the fixed 11-column header.

CONTRACT:
  - Positions are 1-based; when a collection has the canonical header it
    occupies position 1 and data starts at 2.
  - ReadAll distinguishes transport failure (error) from an absent or
    empty collection (nil error, empty slice).
  - UpdateRows is a batched positional overwrite with no version check;
    last write wins. Concurrent imports against the same collection can
    race on row positions (accepted limitation, not guarded).
  - No delete operation exists anywhere in this engine.

IMPLEMENTATIONS:
  - ingest/store: in-memory, for tests and development
  - store/sqlite: durable positional rows on SQLite
*/
package ingest

import "context"

// RowUpdate addresses one absolute row position with its full
// replacement row.
type RowUpdate struct {
	Position int
	Row      []string
}

// Store is the spreadsheet-style record store, one collection per
// company.
type Store interface {
	// EnsureCollection idempotently creates the named collection with
	// the canonical header row.
	EnsureCollection(ctx context.Context, name string) error

	// ReadAll returns every row including the header, in position
	// order. An absent or empty collection yields an empty slice and
	// nil error; only transport failures return an error.
	ReadAll(ctx context.Context, name string) ([][]string, error)

	// AppendRows adds rows after the last occupied position.
	AppendRows(ctx context.Context, name string, rows [][]string) error

	// UpdateRows overwrites rows at absolute positions.
	UpdateRows(ctx context.Context, name string, updates []RowUpdate) error

	// ListCollections returns the known collection names.
	ListCollections(ctx context.Context) ([]string, error)
}

/*
errors.go - Centralized error types for the ingest engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers (importer, api) wrap these with additional context.

ERROR CATEGORIES:
  1. Schema errors  - Required input columns could not be resolved
  2. Row errors     - Per-row soft failures (recorded as diagnostics,
                      never escalated to batch failures)
  3. Store errors   - Backing-store transport failures

PROPAGATION POLICY:
  Row-level failures never abort a batch. Store-level failures are
  surfaced once per batch and are never retried here; a failed update
  batch is reported as zero rows updated with no rollback of writes
  already applied.
*/
package ingest

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrSchemaUnresolved is returned when the required name column cannot
	// be found in the input headers. No records are produced.
	ErrSchemaUnresolved = errors.New("required name column unresolved")

	// ErrStoreFailed is returned when a backing-store call fails.
	ErrStoreFailed = errors.New("record store call failed")

	// ErrRowSkipped marks per-row soft failures. Rows carrying it are
	// dropped from the batch; the batch itself continues.
	ErrRowSkipped = errors.New("row skipped")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// SchemaError reports that the input headers did not contain a usable
// name column. It carries the observed columns for the diagnostic.
type SchemaError struct {
	Company string
	Columns []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("no name column found for %q (columns: %s)",
		e.Company, strings.Join(e.Columns, ", "))
}

func (e *SchemaError) Unwrap() error { return ErrSchemaUnresolved }

// RowSkipError reports a single dropped row. Row is the spreadsheet-style
// row number (header row is 1, first data row is 2).
type RowSkipError struct {
	Row    int
	Reason string
}

func (e *RowSkipError) Error() string {
	return fmt.Sprintf("row %d skipped: %s", e.Row, e.Reason)
}

func (e *RowSkipError) Unwrap() error { return ErrRowSkipped }

// StoreError wraps a failed store call with the operation and collection.
type StoreError struct {
	Op         string
	Collection string
	Err        error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s on %q: %v", e.Op, e.Collection, e.Err)
}

func (e *StoreError) Unwrap() error { return ErrStoreFailed }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsSchemaError returns true if the error means the whole file was
// rejected for unresolvable headers.
func IsSchemaError(err error) bool {
	return errors.Is(err, ErrSchemaUnresolved)
}

// IsStoreError returns true if the error came from the backing store.
func IsStoreError(err error) bool {
	return errors.Is(err, ErrStoreFailed)
}

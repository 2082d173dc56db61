/*
reconcile.go - Insert-or-update classification against the stored set

PURPOSE:
  Given the full existing record set of a collection and a batch of
  freshly normalized records, routes each incoming record to exactly one
  of two outcomes keyed on its external id:

    NEW       -> append to the end of the collection
    EXISTING  -> positional update of the matched row

  Updates preserve the two sticky fields (unique id, notification flag)
  from the stored row; everything else is replaced by the import.

ORDERING:
  Updates are applied before appends. Updates address absolute row
  positions captured while indexing the existing set, and those
  positions must not be perturbed by intervening appends.

FAILURE SEMANTICS:
  A failed update batch reports zero rows updated. Writes already issued
  by the store are NOT rolled back; there is no transactional guarantee
  across the two batches. Appends are still attempted afterwards, as a
  failed update batch says nothing about the append ranges.
*/
package ingest

import (
	"context"
	"errors"
)

// indexedRow remembers where an external id lives in the stored set.
type indexedRow struct {
	row      []string
	position int
}

// Reconciler classifies normalized batches against a stored record set.
type Reconciler struct {
	// NewUniqueID, when set, assigns an internal id to appended records
	// that arrive without one. Updates never receive a generated id;
	// the stored one is sticky. Nil leaves new records blank, matching
	// stores where ids are assigned externally.
	NewUniqueID func() string
}

// Plan is the two-batch outcome of one reconciliation pass. Positions in
// ToUpdate are 1-based absolute rows in the stored set.
type Plan struct {
	ToAppend    [][]string
	ToUpdate    []RowUpdate
	Diagnostics Diagnostics
}

// Result reports how many rows each batch actually wrote.
type Result struct {
	Appended int
	Updated  int
}

// MergeSticky builds the row an update writes: the incoming row with the
// unique id and notification flag copied forward from the stored row. An
// update never resets a previously sent flag, and never promotes one.
func MergeSticky(existing, incoming []string) []string {
	merged := PadRow(incoming)
	stored := PadRow(existing)
	merged[colUniqueID] = stored[colUniqueID]
	merged[colNotificationSent] = stored[colNotificationSent]
	if merged[colNotificationSent] == "" {
		merged[colNotificationSent] = FlagPending
	}
	return merged
}

// indexExisting maps external id -> stored row and position over the
// existing set. The canonical header row is skipped when present, as are
// rows too short to carry an external id and rows whose id cell is
// empty.
func indexExisting(existing [][]string) map[string]indexedRow {
	index := make(map[string]indexedRow)

	start := 0
	if len(existing) > 0 && IsHeaderRow(existing[0]) {
		start = 1
	}
	for i := start; i < len(existing); i++ {
		row := existing[i]
		if len(row) <= colExternalID {
			continue
		}
		id := row[colExternalID]
		if id == "" {
			continue
		}
		if _, seen := index[id]; seen {
			// uniqueness of external ids is assumed; keep the first
			continue
		}
		index[id] = indexedRow{row: row, position: i + 1}
	}
	return index
}

// BuildPlan classifies each incoming record as an append or a positional
// update. Records without an external id cannot reconcile and are
// dropped with a diagnostic.
func (r *Reconciler) BuildPlan(existing [][]string, incoming []ClientRecord) Plan {
	var plan Plan
	index := indexExisting(existing)

	for _, rec := range incoming {
		if rec.ExternalID == "" {
			plan.Diagnostics.Warnf("record %q dropped: no external id to reconcile on", rec.FullName)
			continue
		}

		if match, ok := index[rec.ExternalID]; ok {
			plan.ToUpdate = append(plan.ToUpdate, RowUpdate{
				Position: match.position,
				Row:      MergeSticky(match.row, rec.Row()),
			})
			continue
		}

		row := rec.Row()
		if row[colUniqueID] == "" && r.NewUniqueID != nil {
			row[colUniqueID] = r.NewUniqueID()
		}
		plan.ToAppend = append(plan.ToAppend, row)
	}

	plan.Diagnostics.Infof("classified %d to append, %d to update",
		len(plan.ToAppend), len(plan.ToUpdate))
	return plan
}

// Apply writes the plan to the store: updates first, then appends. The
// returned error joins whatever failed; counts in Result only reflect
// batches that succeeded in full.
func (r *Reconciler) Apply(ctx context.Context, store Store, collection string, plan Plan) (Result, error) {
	var res Result
	var updateErr, appendErr error

	if len(plan.ToUpdate) > 0 {
		if err := store.UpdateRows(ctx, collection, plan.ToUpdate); err != nil {
			// zero-count report; partial writes stay as written
			updateErr = &StoreError{Op: "update", Collection: collection, Err: err}
		} else {
			res.Updated = len(plan.ToUpdate)
		}
	}

	if len(plan.ToAppend) > 0 {
		if err := store.AppendRows(ctx, collection, plan.ToAppend); err != nil {
			appendErr = &StoreError{Op: "append", Collection: collection, Err: err}
		} else {
			res.Appended = len(plan.ToAppend)
		}
	}

	return res, errors.Join(updateErr, appendErr)
}

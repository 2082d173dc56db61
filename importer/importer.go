/*
Package importer runs the end-to-end import pipeline for one upload.

PIPELINE:
  workbook blob -> tabular.ReadWorkbook
                -> ingest.MatchHeaders
                -> ingest.Normalizer.Batch
                -> store.EnsureCollection + ReadAll
                -> ingest.Reconciler.BuildPlan + Apply

  One call processes one uploaded file against one company's collection
  to completion before returning. The existing record set is re-read in
  full on every call; nothing is cached between imports.

SEE ALSO:
  - ingest: the engine this package orchestrates
  - api/handlers.go: HTTP surface calling into this package
*/
package importer

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/brokerkit/client-sync/ingest"
	"github.com/brokerkit/client-sync/tabular"
)

// Importer wires the pipeline dependencies for repeated imports.
type Importer struct {
	Store ingest.Store

	// NewUniqueID optionally assigns internal ids to appended records.
	NewUniqueID func() string

	// Now is injected into the normalizer. Nil means time.Now.
	Now func() time.Time
}

// Summary reports one import run. Diagnostics carry every per-row skip
// in emission order.
type Summary struct {
	Company     string             `json:"company"`
	RowsRead    int                `json:"rows_read"`
	Prepared    int                `json:"prepared"`
	Appended    int                `json:"appended"`
	Updated     int                `json:"updated"`
	Diagnostics ingest.Diagnostics `json:"diagnostics,omitempty"`
}

// ImportWorkbook parses and imports one uploaded .xlsx blob into the
// company's collection.
func (imp *Importer) ImportWorkbook(ctx context.Context, company string, r io.Reader) (*Summary, error) {
	table, err := tabular.ReadWorkbook(r)
	if err != nil {
		return nil, fmt.Errorf("import for %q: %w", company, err)
	}
	return imp.ImportTable(ctx, company, table)
}

// ImportTable imports an already-parsed table. A SchemaError from header
// matching rejects the whole file with no records produced; store
// failures surface after the summary's counts reflect what was written.
func (imp *Importer) ImportTable(ctx context.Context, company string, table *tabular.Table) (*Summary, error) {
	summary := &Summary{Company: company, RowsRead: len(table.Rows)}

	mapping, err := ingest.MatchHeaders(company, table.Columns)
	if err != nil {
		return nil, err
	}

	normalizer := &ingest.Normalizer{Company: company, Mapping: mapping, Now: imp.Now}
	records, diags := normalizer.Batch(table.Rows)
	summary.Prepared = len(records)
	summary.Diagnostics = append(summary.Diagnostics, diags...)

	if len(records) == 0 {
		summary.Diagnostics.Warnf("no valid records prepared from upload for %q", company)
		return summary, nil
	}

	if err := imp.Store.EnsureCollection(ctx, company); err != nil {
		return summary, &ingest.StoreError{Op: "ensure", Collection: company, Err: err}
	}

	existing, err := imp.Store.ReadAll(ctx, company)
	if err != nil {
		return summary, &ingest.StoreError{Op: "read", Collection: company, Err: err}
	}

	reconciler := &ingest.Reconciler{NewUniqueID: imp.NewUniqueID}
	plan := reconciler.BuildPlan(existing, records)
	summary.Diagnostics = append(summary.Diagnostics, plan.Diagnostics...)

	result, err := reconciler.Apply(ctx, imp.Store, company, plan)
	summary.Appended = result.Appended
	summary.Updated = result.Updated
	return summary, err
}

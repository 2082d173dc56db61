/*
normalize.go - One input row to one standardized ClientRecord

PURPOSE:
  Applies the field mapping to raw uploaded rows and produces the fixed
  11-field ClientRecord: cleaned external id (synthesized when the file
  carries none), digits-only phone, "DNI" document-type default, fresh
  timestamp, notification flag initialized to pending.

FAILURE SEMANTICS:
  Per-row problems (missing name, wrong cell count) drop the row with a
  RowSkipError and never abort the batch. Row numbers in diagnostics are
  spreadsheet-style: the header row is 1, so data row index i reports as
  row i+2.
*/
package ingest

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// timestampLayout is the stored form of Fecha_Ultima_Actualizacion.
const timestampLayout = "2006-01-02 15:04:05"

// Normalizer converts mapped input rows into ClientRecords for one
// company's upload.
type Normalizer struct {
	Company string
	Mapping Mapping

	// Now stamps LastUpdatedAt. Nil means time.Now; tests inject a
	// fixed clock.
	Now func() time.Time
}

func (n *Normalizer) now() time.Time {
	if n.Now != nil {
		return n.Now()
	}
	return time.Now()
}

// cell resolves one semantic field against the row. Unmapped fields and
// missing cells resolve to the empty string.
func (n *Normalizer) cell(row map[string]string, f Field) string {
	col := n.Mapping.Column(f)
	if col == "" {
		return ""
	}
	return row[col]
}

// Record normalizes a single data row. index is the zero-based position
// of the row within the uploaded file's data section. A RowSkipError
// return means the row is dropped, not that the batch failed.
func (n *Normalizer) Record(row map[string]string, index int) (ClientRecord, error) {
	sheetRow := index + 2

	name := n.cell(row, FieldName)
	if strings.TrimSpace(name) == "" {
		return ClientRecord{}, &RowSkipError{Row: sheetRow, Reason: "missing name"}
	}

	externalID := cleanIdentifier(n.cell(row, FieldExternalID))
	if externalID == "" {
		externalID = n.syntheticID(index)
	}

	idType := n.cell(row, FieldIDType)
	if idType == "" {
		idType = DefaultIDType
	}

	rec := ClientRecord{
		FullName:         name,
		ExternalID:       externalID,
		IDType:           idType,
		Phone1:           digitsOnly(n.cell(row, FieldPhone)),
		Email:            n.cell(row, FieldEmail),
		CompanyClientID:  n.cell(row, FieldExternalID),
		LastUpdatedAt:    n.now().Format(timestampLayout),
		NotificationSent: FlagPending,
	}

	// The store only takes rows of exactly FieldCount cells.
	// Construction above is fixed, so this should never trigger.
	if len(rec.Row()) != FieldCount {
		return ClientRecord{}, &RowSkipError{Row: sheetRow, Reason: "wrong field count"}
	}
	return rec, nil
}

// Batch normalizes all rows, collecting skips as diagnostics. The
// produced records are in input order; dropped rows simply shrink the
// batch.
func (n *Normalizer) Batch(rows []map[string]string) ([]ClientRecord, Diagnostics) {
	var (
		records []ClientRecord
		diags   Diagnostics
	)
	for i, row := range rows {
		rec, err := n.Record(row, i)
		if err != nil {
			var skip *RowSkipError
			if errors.As(err, &skip) {
				diags.RowWarnf(skip.Row, "%s", skip.Reason)
			} else {
				diags.RowWarnf(i+2, "unexpected: %v", err)
			}
			continue
		}
		records = append(records, rec)
	}
	diags.Infof("prepared %d of %d rows for %s", len(records), len(rows), n.Company)
	return records, diags
}

// syntheticID builds the fallback reconciliation key for rows whose file
// carries no usable identifier: "ID_" + first three runes of the company
// label + "_" + row index.
func (n *Normalizer) syntheticID(index int) string {
	prefix := []rune(n.Company)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	return fmt.Sprintf("ID_%s_%d", string(prefix), index)
}

// cleanIdentifier strips dots, dashes and surrounding whitespace from an
// external id so "12.345-6 " and "123456" reconcile to the same key.
func cleanIdentifier(id string) string {
	id = strings.ReplaceAll(id, ".", "")
	id = strings.ReplaceAll(id, "-", "")
	return strings.TrimSpace(id)
}

// digitsOnly strips every non-digit rune from a phone number.
func digitsOnly(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

package ingest

import "fmt"

// Severity grades a diagnostic. Diagnostics are collected values, not log
// lines; the caller decides how to surface them.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic is one observation about an import batch. Row is the
// spreadsheet-style row number when the diagnostic is about a specific
// row, or 0 for batch-level diagnostics.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Row      int      `json:"row,omitempty"`
	Message  string   `json:"message"`
}

// Diagnostics accumulates observations in emission order.
type Diagnostics []Diagnostic

func (d *Diagnostics) Infof(format string, args ...any) {
	*d = append(*d, Diagnostic{Severity: SeverityInfo, Message: fmt.Sprintf(format, args...)})
}

func (d *Diagnostics) Warnf(format string, args ...any) {
	*d = append(*d, Diagnostic{Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)})
}

func (d *Diagnostics) Errorf(format string, args ...any) {
	*d = append(*d, Diagnostic{Severity: SeverityError, Message: fmt.Sprintf(format, args...)})
}

// RowWarnf records a warning about a specific spreadsheet row.
func (d *Diagnostics) RowWarnf(row int, format string, args ...any) {
	*d = append(*d, Diagnostic{Severity: SeverityWarning, Row: row, Message: fmt.Sprintf(format, args...)})
}

// Warnings returns the number of warning-severity diagnostics.
func (d Diagnostics) Warnings() int {
	n := 0
	for _, diag := range d {
		if diag.Severity == SeverityWarning {
			n++
		}
	}
	return n
}

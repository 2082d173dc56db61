/*
Package tabular reads uploaded client workbooks into a generic table.

PURPOSE:
  Companies hand brokers .xlsx exports with arbitrary layouts. This
  package parses the uploaded blob into column names plus row maps,
  without interpreting any of it; semantic meaning is the ingest
  package's job.

CONVENTIONS:
  - Only the active sheet of the workbook is read.
  - The first row is the header; every following row becomes a map from
    the original column name to the cell text.
  - Ragged rows (trailing cells omitted by the writer) read as empty
    strings for the missing columns.
*/
package tabular

import (
	"errors"
	"fmt"
	"io"

	"github.com/360EntSecGroup-Skylar/excelize/v2"
)

// ErrEmptyWorkbook is returned when the active sheet has no header row.
var ErrEmptyWorkbook = errors.New("workbook has no header row")

// Table is a parsed worksheet: ordered column names and the data rows
// keyed by those names.
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// ReadWorkbook parses an .xlsx blob. Unreadable input returns an error;
// nothing here is recoverable row by row.
func ReadWorkbook(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyWorkbook
	}

	columns := rows[0]
	table := &Table{Columns: columns}
	for _, raw := range rows[1:] {
		row := make(map[string]string, len(columns))
		for i, col := range columns {
			if i < len(raw) {
				row[col] = raw[i]
			} else {
				row[col] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

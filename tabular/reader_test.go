package tabular

import (
	"bytes"
	"errors"
	"testing"

	"github.com/360EntSecGroup-Skylar/excelize/v2"
)

func workbookBytes(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf
}

func TestReadWorkbook_HeadersAndRows(t *testing.T) {
	buf := workbookBytes(t, [][]interface{}{
		{"Nombre", "Telefono", "Poliza"},
		{"Ana Gomez", "5551234", "P1"},
		{"Luis Perez", "5555678", "P2"},
	})

	table, err := ReadWorkbook(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if len(table.Columns) != 3 || table.Columns[0] != "Nombre" {
		t.Fatalf("unexpected columns: %v", table.Columns)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 data rows, got %d", len(table.Rows))
	}
	if table.Rows[0]["Nombre"] != "Ana Gomez" || table.Rows[1]["Poliza"] != "P2" {
		t.Errorf("rows not keyed by column name: %v", table.Rows)
	}
}

func TestReadWorkbook_RaggedRowsPadToEmpty(t *testing.T) {
	// GIVEN: a data row shorter than the header
	// THEN: missing cells read as empty strings, not as absent keys
	buf := workbookBytes(t, [][]interface{}{
		{"Nombre", "Telefono", "Poliza"},
		{"Ana Gomez"},
	})

	table, err := ReadWorkbook(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got, ok := table.Rows[0]["Poliza"]; !ok || got != "" {
		t.Errorf("expected empty string for missing cell, got %q (present=%v)", got, ok)
	}
}

func TestReadWorkbook_GarbageFails(t *testing.T) {
	_, err := ReadWorkbook(bytes.NewBufferString("definitely not a zip archive"))
	if err == nil {
		t.Fatal("expected an error for unreadable input")
	}
}

func TestReadWorkbook_EmptySheet(t *testing.T) {
	f := excelize.NewFile()
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	_, err = ReadWorkbook(buf)
	if !errors.Is(err, ErrEmptyWorkbook) {
		t.Fatalf("expected ErrEmptyWorkbook, got %v", err)
	}
}

/*
Package ingest provides the core client-import engine.

PURPOSE:
  This package contains the domain types and algorithms for turning an
  arbitrary uploaded client table into standardized records and merging
  them into a company's stored record set: header matching, row
  normalization, and insert-or-update reconciliation.

KEY CONCEPTS IN THIS FILE (types.go):
  - ClientRecord: The standardized 11-field client row
  - Mapping: Resolved source columns for each semantic field
  - Header: The canonical sheet header row (the on-the-wire contract)

DESIGN PRINCIPLES:
  1. Fixed schema: A stored row is always exactly 11 cells, in order
  2. String-typed: The backing store is a spreadsheet; everything is text
  3. Sticky fields: unique id and the notification flag are never taken
     from freshly imported data on update

SEE ALSO:
  - headers.go: Semantic column matching
  - normalize.go: Row to ClientRecord conversion
  - reconcile.go: Insert-or-update classification and merge
  - store.go: Record store interface
*/
package ingest

// =============================================================================
// SCHEMA - Canonical 11-column layout
// =============================================================================

// FieldCount is the fixed number of cells in a stored client row.
// A row that does not have exactly this many cells is never stored.
const FieldCount = 11

// Cell positions within a stored row. Order is part of the store contract.
const (
	colUniqueID = iota
	colFullName
	colExternalID
	colIDType
	colPhone1
	colPhone2
	colEmail
	colCompanyClientID
	colLastUpdatedAt
	colNotificationSent
	colNotes
)

// Notification flag values. The store keeps string-typed booleans.
const (
	FlagSent    = "TRUE"
	FlagPending = "FALSE"
)

// DefaultIDType is used when no document-type column resolves.
const DefaultIDType = "DNI"

// header is the canonical header row written to every collection.
// Existing spreadsheets were created with these labels, so they are
// load-bearing: reconciliation uses them to detect a header row, and
// notification templates reference them as placeholder names.
var header = []string{
	"ID_Cliente_Unico",
	"Nombre_Apellido",
	"Numero_Identificacion",
	"Tipo_Identificacion",
	"Numero_Telefono_1",
	"Numero_Telefono_2",
	"Email_Principal",
	"ID_Cliente_Compania",
	"Fecha_Ultima_Actualizacion",
	"Mensaje_WSP_Enviado",
	"Notas",
}

// Header returns a copy of the canonical header row.
func Header() []string {
	h := make([]string, len(header))
	copy(h, header)
	return h
}

// IsHeaderRow reports whether row is the canonical header row.
func IsHeaderRow(row []string) bool {
	if len(row) != len(header) {
		return false
	}
	for i := range header {
		if row[i] != header[i] {
			return false
		}
	}
	return true
}

// =============================================================================
// CLIENT RECORD
// =============================================================================

// ClientRecord is the standardized client row. Field order mirrors the
// stored column order.
type ClientRecord struct {
	UniqueID         string // internal id; blank until assigned, sticky on update
	FullName         string // required
	ExternalID       string // reconciliation key, cleaned or synthesized
	IDType           string
	Phone1           string // digits only
	Phone2           string
	Email            string
	CompanyClientID  string
	LastUpdatedAt    string // "2006-01-02 15:04:05"
	NotificationSent string // FlagSent or FlagPending, sticky on update
	Notes            string
}

// Row converts the record to its stored 11-cell form.
func (r ClientRecord) Row() []string {
	return []string{
		r.UniqueID,
		r.FullName,
		r.ExternalID,
		r.IDType,
		r.Phone1,
		r.Phone2,
		r.Email,
		r.CompanyClientID,
		r.LastUpdatedAt,
		r.NotificationSent,
		r.Notes,
	}
}

// RecordFromRow converts a stored row back to a ClientRecord. Rows read
// from a spreadsheet can be ragged (trailing empty cells omitted), so
// short rows are padded with empty strings.
func RecordFromRow(row []string) ClientRecord {
	padded := PadRow(row)
	return ClientRecord{
		UniqueID:         padded[colUniqueID],
		FullName:         padded[colFullName],
		ExternalID:       padded[colExternalID],
		IDType:           padded[colIDType],
		Phone1:           padded[colPhone1],
		Phone2:           padded[colPhone2],
		Email:            padded[colEmail],
		CompanyClientID:  padded[colCompanyClientID],
		LastUpdatedAt:    padded[colLastUpdatedAt],
		NotificationSent: padded[colNotificationSent],
		Notes:            padded[colNotes],
	}
}

// PadRow returns row extended with empty cells to FieldCount.
// Rows already at least that long are returned as a copy, untruncated.
func PadRow(row []string) []string {
	n := len(row)
	if n < FieldCount {
		n = FieldCount
	}
	padded := make([]string, n)
	copy(padded, row)
	return padded
}

// =============================================================================
// SEMANTIC FIELDS AND MAPPING
// =============================================================================

// Field identifies one semantic input column the matcher looks for.
type Field string

const (
	FieldName       Field = "name"
	FieldPhone      Field = "phone"
	FieldExternalID Field = "external_id"
	FieldEmail      Field = "email"
	FieldIDType     Field = "id_type"
)

// Mapping records which source column feeds each semantic field.
// An empty string means the field did not resolve. Only Name is
// required; everything else degrades to empty-string defaults.
type Mapping struct {
	Name       string
	Phone      string
	ExternalID string
	Email      string
	IDType     string
}

// Column returns the source column mapped to f, or "" if unresolved.
func (m Mapping) Column(f Field) string {
	switch f {
	case FieldName:
		return m.Name
	case FieldPhone:
		return m.Phone
	case FieldExternalID:
		return m.ExternalID
	case FieldEmail:
		return m.Email
	case FieldIDType:
		return m.IDType
	}
	return ""
}

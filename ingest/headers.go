/*
headers.go - Semantic column matching for uploaded tables

PURPOSE:
  Every company exports client lists with its own column names
  ("Tomador", "Nombre y Apellido", "Tel. Celular", "Nro Poliza"...).
  MatchHeaders guesses which input column feeds each semantic field by
  substring keywords over a lightly normalized form of the header.

MATCHING RULES:
  - Comparison form: lower-cased, spaces and dots removed. Nothing else;
    diacritics are NOT folded ("teléfono" only matches via "tel").
  - For each semantic field, columns are scanned in original order and
    the FIRST column containing any of the field's keywords wins. Later
    columns matching the same keyword are ignored.
  - Only the name field is required. An input without a name-like column
    rejects the whole file via SchemaError.

KNOWN WEAK POINT:
  First-substring-match with no scoring is inherently ambiguous: a
  column named "documento del tomador" resolves as a name column before
  a later "tomador" column is considered. This matches the behavior the
  existing spreadsheets were built with, so it is kept rather than
  silently improved.
*/
package ingest

import "strings"

// fieldKeywords drive the substring match, per semantic field. The
// external-id keywords double as the company client id source: the one
// id-ish column a company export carries feeds both.
var fieldKeywords = map[Field][]string{
	FieldName:       {"nombre", "apellido", "tomador"},
	FieldPhone:      {"telefono", "tel", "celular", "movil"},
	FieldExternalID: {"idcliente", "nrocliente", "poliza", "contrato"},
	FieldEmail:      {"email", "correo", "mail"},
	FieldIDType:     {"tipodoc", "tipodocumento", "documento"},
}

// comparisonForm lowers the header and strips spaces and dots. This is
// the full extent of normalization applied before keyword matching.
func comparisonForm(column string) string {
	s := strings.ToLower(column)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ".", "")
	return s
}

// matchField returns the first column whose comparison form contains any
// of the field's keywords, or "" when none does.
func matchField(columns, normalized []string, f Field) string {
	for i, norm := range normalized {
		for _, kw := range fieldKeywords[f] {
			if strings.Contains(norm, kw) {
				return columns[i]
			}
		}
	}
	return ""
}

// MatchHeaders resolves the semantic field mapping for an uploaded
// table's column names. company is only used for the error message.
func MatchHeaders(company string, columns []string) (Mapping, error) {
	normalized := make([]string, len(columns))
	for i, col := range columns {
		normalized[i] = comparisonForm(col)
	}

	m := Mapping{
		Name:       matchField(columns, normalized, FieldName),
		Phone:      matchField(columns, normalized, FieldPhone),
		ExternalID: matchField(columns, normalized, FieldExternalID),
		Email:      matchField(columns, normalized, FieldEmail),
		IDType:     matchField(columns, normalized, FieldIDType),
	}

	if m.Name == "" {
		return Mapping{}, &SchemaError{Company: company, Columns: columns}
	}
	return m, nil
}

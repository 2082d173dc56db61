/*
Package notify delivers templated notifications to stored clients and
tracks the per-client sent flag.

PURPOSE:
  Campaigns select a collection's pending clients, render a message
  template per client, hand it to a Sender, and flip the stored flag to
  sent only after a successful delivery. Per-recipient failures are
  recorded and the campaign continues; nothing is retried.

TEMPLATES:
  Placeholders are the canonical column names in braces, e.g.

    "Hola {Nombre_Apellido}, su póliza {ID_Cliente_Compania} vence pronto."

  Unknown placeholders render as empty strings rather than failing.
*/
package notify

import (
	"regexp"

	"github.com/brokerkit/client-sync/ingest"
)

var placeholderPattern = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// FormatTemplate substitutes {Column_Name} placeholders with the
// record's values. Placeholders that match no schema column become
// empty strings.
func FormatTemplate(template string, rec ingest.ClientRecord) string {
	values := make(map[string]string, ingest.FieldCount)
	row := rec.Row()
	for i, name := range ingest.Header() {
		values[name] = row[i]
	}

	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := match[1 : len(match)-1]
		return values[name]
	})
}

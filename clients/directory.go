/*
Package clients exposes the stored record sets for browsing and flag
management.

PURPOSE:
  The read side of the system: list companies, read a company's client
  records with their sheet positions, filter by name or notification
  status, and flip the notification flag for a single client.

  Flag changes are read-modify-write of the full row at its position;
  nothing else in the row is touched. The record set is re-read on every
  call, same as the import side.
*/
package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/brokerkit/client-sync/ingest"
)

// ErrClientNotFound is returned when no stored row carries the requested
// external id.
var ErrClientNotFound = errors.New("client not found")

// Notification filter values for List.
const (
	NotificationAny     = ""
	NotificationPending = "pending"
	NotificationSent    = "sent"
)

// Entry is one stored client with its absolute sheet position, needed
// for positional updates.
type Entry struct {
	ingest.ClientRecord
	Position int
}

// Filter narrows a List call. Zero value matches everything.
type Filter struct {
	// Name keeps records whose full name contains this, case-insensitive.
	Name string
	// Notification is NotificationAny, NotificationPending or
	// NotificationSent. Pending includes records with an empty flag.
	Notification string
}

// Directory reads and edits stored client records.
type Directory struct {
	Store ingest.Store
}

// Collections lists the known company collections.
func (d *Directory) Collections(ctx context.Context) ([]string, error) {
	names, err := d.Store.ListCollections(ctx)
	if err != nil {
		return nil, &ingest.StoreError{Op: "list", Collection: "", Err: err}
	}
	return names, nil
}

// List returns the collection's records matching the filter, in stored
// order. The header row is skipped when present.
func (d *Directory) List(ctx context.Context, collection string, f Filter) ([]Entry, error) {
	rows, err := d.Store.ReadAll(ctx, collection)
	if err != nil {
		return nil, &ingest.StoreError{Op: "read", Collection: collection, Err: err}
	}

	var entries []Entry
	for i, row := range rows {
		if i == 0 && ingest.IsHeaderRow(row) {
			continue
		}
		entry := Entry{ClientRecord: ingest.RecordFromRow(row), Position: i + 1}
		if matches(entry.ClientRecord, f) {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// SetNotificationFlag marks the client with the given external id as
// sent or pending, preserving every other field of the stored row.
func (d *Directory) SetNotificationFlag(ctx context.Context, collection, externalID string, sent bool) error {
	entries, err := d.List(ctx, collection, Filter{})
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.ExternalID != externalID {
			continue
		}
		rec := entry.ClientRecord
		if sent {
			rec.NotificationSent = ingest.FlagSent
		} else {
			rec.NotificationSent = ingest.FlagPending
		}
		update := []ingest.RowUpdate{{Position: entry.Position, Row: rec.Row()}}
		if err := d.Store.UpdateRows(ctx, collection, update); err != nil {
			return &ingest.StoreError{Op: "update", Collection: collection, Err: err}
		}
		return nil
	}
	return fmt.Errorf("%q in %q: %w", externalID, collection, ErrClientNotFound)
}

func matches(rec ingest.ClientRecord, f Filter) bool {
	if f.Name != "" &&
		!strings.Contains(strings.ToLower(rec.FullName), strings.ToLower(f.Name)) {
		return false
	}
	switch f.Notification {
	case NotificationPending:
		flag := strings.ToUpper(rec.NotificationSent)
		return flag == ingest.FlagPending || flag == ""
	case NotificationSent:
		return strings.ToUpper(rec.NotificationSent) == ingest.FlagSent
	}
	return true
}

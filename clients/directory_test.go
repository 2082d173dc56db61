package clients_test

import (
	"context"
	"errors"
	"testing"

	"github.com/brokerkit/client-sync/clients"
	"github.com/brokerkit/client-sync/ingest"
	"github.com/brokerkit/client-sync/ingest/store"
)

func seededDirectory(t *testing.T) (*clients.Directory, *store.Memory) {
	t.Helper()
	ctx := context.Background()
	mem := store.NewMemory()
	if err := mem.EnsureCollection(ctx, "Acme"); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	rows := [][]string{
		{"U1", "Ana Gomez", "123", "DNI", "5551234", "", "ana@x.com", "P1", "2024-01-01 00:00:00", "FALSE", ""},
		{"U2", "Luis Perez", "456", "DNI", "5555678", "", "", "P2", "2024-01-01 00:00:00", "TRUE", ""},
		{"U3", "Rosa Gomez", "789", "DNI", "", "", "", "P3", "2024-01-01 00:00:00", "", ""},
	}
	if err := mem.AppendRows(ctx, "Acme", rows); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return &clients.Directory{Store: mem}, mem
}

func TestList_SkipsHeaderAndKeepsPositions(t *testing.T) {
	d, _ := seededDirectory(t)

	entries, err := d.List(context.Background(), "Acme", clients.Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Position != 2 || entries[2].Position != 4 {
		t.Errorf("positions should be absolute sheet rows, got %d and %d",
			entries[0].Position, entries[2].Position)
	}
	if entries[0].FullName != "Ana Gomez" {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
}

func TestList_NameFilterIsCaseInsensitiveSubstring(t *testing.T) {
	d, _ := seededDirectory(t)

	entries, err := d.List(context.Background(), "Acme", clients.Filter{Name: "gomez"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected Ana and Rosa, got %d entries", len(entries))
	}
}

func TestList_NotificationFilters(t *testing.T) {
	// Pending must include the empty flag; sent must be TRUE only.
	d, _ := seededDirectory(t)
	ctx := context.Background()

	pending, err := d.List(ctx, "Acme", clients.Filter{Notification: clients.NotificationPending})
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected FALSE and empty-flag entries as pending, got %d", len(pending))
	}

	sent, err := d.List(ctx, "Acme", clients.Filter{Notification: clients.NotificationSent})
	if err != nil {
		t.Fatalf("list sent: %v", err)
	}
	if len(sent) != 1 || sent[0].ExternalID != "456" {
		t.Fatalf("expected only Luis as sent, got %+v", sent)
	}
}

func TestSetNotificationFlag_UpdatesOnlyTheFlag(t *testing.T) {
	d, mem := seededDirectory(t)
	ctx := context.Background()

	if err := d.SetNotificationFlag(ctx, "Acme", "123", true); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	rows, _ := mem.ReadAll(ctx, "Acme")
	ana := rows[1]
	if ana[9] != ingest.FlagSent {
		t.Errorf("flag should be TRUE, got %q", ana[9])
	}
	if ana[0] != "U1" || ana[1] != "Ana Gomez" || ana[4] != "5551234" {
		t.Errorf("other fields must be preserved, got %v", ana)
	}
}

func TestSetNotificationFlag_UnknownClient(t *testing.T) {
	d, _ := seededDirectory(t)

	err := d.SetNotificationFlag(context.Background(), "Acme", "does-not-exist", true)
	if !errors.Is(err, clients.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}

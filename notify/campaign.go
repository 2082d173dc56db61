package notify

import (
	"context"
	"fmt"

	"github.com/brokerkit/client-sync/clients"
	"github.com/brokerkit/client-sync/ingest"
)

// Campaign sends one templated message to every pending client of a
// collection.
type Campaign struct {
	Directory *clients.Directory
	Sender    Sender

	// Recipient resolves the destination for a record. Nil means the
	// primary phone number (the WhatsApp path); email campaigns supply
	// func(r ingest.ClientRecord) string { return r.Email }.
	Recipient func(ingest.ClientRecord) string
}

// Failure records one client that did not get the message.
type Failure struct {
	ExternalID string `json:"external_id"`
	FullName   string `json:"full_name"`
	Reason     string `json:"reason"`
}

// Result summarizes one campaign run.
type Result struct {
	Collection string    `json:"collection"`
	Pending    int       `json:"pending"`
	Sent       int       `json:"sent"`
	Failed     int       `json:"failed"`
	Failures   []Failure `json:"failures,omitempty"`
}

func (c *Campaign) recipient(rec ingest.ClientRecord) string {
	if c.Recipient != nil {
		return c.Recipient(rec)
	}
	return rec.Phone1
}

// Run delivers the template to every pending client. Each client is
// flagged as sent only after its own delivery succeeds, so a rerun of
// the same campaign picks up exactly the clients that are still
// pending. Per-client failures never abort the run.
func (c *Campaign) Run(ctx context.Context, collection, template string) (*Result, error) {
	pending, err := c.Directory.List(ctx, collection, clients.Filter{
		Notification: clients.NotificationPending,
	})
	if err != nil {
		return nil, fmt.Errorf("campaign for %q: %w", collection, err)
	}

	result := &Result{Collection: collection, Pending: len(pending)}
	for _, entry := range pending {
		rec := entry.ClientRecord

		recipient := c.recipient(rec)
		if recipient == "" {
			result.Failed++
			result.Failures = append(result.Failures, Failure{
				ExternalID: rec.ExternalID, FullName: rec.FullName, Reason: "no recipient",
			})
			continue
		}

		body := FormatTemplate(template, rec)
		if err := c.Sender.Send(ctx, recipient, body); err != nil {
			result.Failed++
			result.Failures = append(result.Failures, Failure{
				ExternalID: rec.ExternalID, FullName: rec.FullName, Reason: err.Error(),
			})
			continue
		}

		if err := c.Directory.SetNotificationFlag(ctx, collection, rec.ExternalID, true); err != nil {
			// delivered but not recorded; surface it, the rerun would
			// send a duplicate otherwise
			result.Failed++
			result.Failures = append(result.Failures, Failure{
				ExternalID: rec.ExternalID, FullName: rec.FullName,
				Reason: fmt.Sprintf("sent but flag not stored: %v", err),
			})
			continue
		}
		result.Sent++
	}
	return result, nil
}

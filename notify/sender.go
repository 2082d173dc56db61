package notify

import (
	"context"
	"errors"
	"log"
	"strings"
	"unicode"
)

// ErrInvalidRecipient is returned when a recipient resolves to nothing
// usable (e.g. a phone number with no digits).
var ErrInvalidRecipient = errors.New("invalid recipient")

// Sender delivers one rendered message to one recipient.
type Sender interface {
	Send(ctx context.Context, recipient, body string) error
}

// =============================================================================
// SIMULATED WHATSAPP SENDER
// =============================================================================

// SimulatedWhatsApp stands in for a real WhatsApp provider client
// (Twilio, Meta Cloud API). It validates the recipient the way the real
// integration will and logs instead of sending.
type SimulatedWhatsApp struct {
	Logger *log.Logger
}

// Send validates the phone number and pretends to deliver. The
// recipient is reduced to digits; an empty result is refused.
func (s *SimulatedWhatsApp) Send(_ context.Context, recipient, body string) error {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, recipient)
	if digits == "" {
		return ErrInvalidRecipient
	}

	if s.Logger != nil {
		s.Logger.Printf("simulated whatsapp to +%s (%d chars)", digits, len(body))
	}
	return nil
}

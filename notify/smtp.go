package notify

import (
	"context"
	"crypto/tls"
	"fmt"

	"gopkg.in/gomail.v2"
)

// EmailSender delivers campaign messages over SMTP. Used when a company
// prefers email over WhatsApp; the campaign then resolves recipients to
// the email column instead of the phone column.
type EmailSender struct {
	From    string
	Subject string
	dialer  *gomail.Dialer
}

// NewEmailSender configures an SMTP sender. TLS is always negotiated
// against the given host.
func NewEmailSender(host string, port int, login, password, from, subject string) *EmailSender {
	dialer := gomail.NewDialer(host, port, login, password)
	dialer.TLSConfig = &tls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
	}
	return &EmailSender{From: from, Subject: subject, dialer: dialer}
}

// Send delivers one message. An empty recipient is refused before
// dialing.
func (e *EmailSender) Send(_ context.Context, recipient, body string) error {
	if recipient == "" {
		return ErrInvalidRecipient
	}

	msg := gomail.NewMessage(gomail.SetCharset("UTF-8"))
	msg.SetHeader("From", e.From)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", e.Subject)
	msg.SetBody("text/plain", body)

	if err := e.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", recipient, err)
	}
	return nil
}

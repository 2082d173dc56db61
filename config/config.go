// Package config loads service configuration from the environment, with
// optional .env overrides for local development.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v7"
	"github.com/joho/godotenv"
)

// Sender selection values for NotifySender.
const (
	SenderSimulated = "simulated"
	SenderSMTP      = "smtp"
)

type Config struct {
	HTTPPort int    `env:"HTTP_PORT" envDefault:"8080"`
	DBPath   string `env:"DB_PATH" envDefault:"clientsync.db"`

	// AssignUniqueIDs makes the reconciler stamp an internal id on
	// newly appended records. Off by default: existing deployments
	// assign ids outside this service.
	AssignUniqueIDs bool `env:"ASSIGN_UNIQUE_IDS" envDefault:"false"`

	// NotifySender picks the campaign channel: "simulated" or "smtp".
	NotifySender string `env:"NOTIFY_SENDER" envDefault:"simulated"`

	// SMTP (only required when NotifySender is "smtp")
	MailerFrom     string `env:"MAILER_FROM" envDefault:""`
	MailerSubject  string `env:"MAILER_SUBJECT" envDefault:"Aviso de su broker"`
	MailerHost     string `env:"MAILER_HOST" envDefault:""`
	MailerPort     int    `env:"MAILER_PORT" envDefault:"587"`
	MailerLogin    string `env:"MAILER_LOGIN" envDefault:""`
	MailerPassword string `env:"MAILER_PASSWORD" envDefault:""`
}

// New loads configuration. envPath points at a .env file; a missing file
// is not an error.
func New(envPath string) (Config, error) {
	var c Config

	err := godotenv.Load(envPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	if err := env.Parse(&c); err != nil {
		return Config{}, err
	}

	switch c.NotifySender {
	case SenderSimulated:
	case SenderSMTP:
		if c.MailerHost == "" || c.MailerFrom == "" {
			return Config{}, fmt.Errorf("NOTIFY_SENDER=smtp requires MAILER_HOST and MAILER_FROM")
		}
	default:
		return Config{}, fmt.Errorf("unknown NOTIFY_SENDER %q", c.NotifySender)
	}

	return c, nil
}

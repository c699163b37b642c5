package mailer

import (
	"context"
	"fmt"

	"github.com/footballinvestment/lion-football-academy/pkg/config"
	"github.com/footballinvestment/lion-football-academy/pkg/models"
)

// Mailer delivers a rendered document to a set of recipients. Implementations
// are synchronous; retry policy lives with the delivery queue, not here.
type Mailer interface {
	Send(ctx context.Context, doc models.Document, recipients []models.Recipient) error
}

// New selects the mailer implementation from configuration.
func New(cfg config.NotifierConfig) (Mailer, error) {
	switch cfg.Driver {
	case "sendgrid":
		return NewSendgridMailer(cfg.SendgridKey, cfg.FromName, cfg.FromEmail), nil
	case "console":
		return NewConsoleMailer(), nil
	default:
		return nil, fmt.Errorf("unknown notifier driver: %s", cfg.Driver)
	}
}

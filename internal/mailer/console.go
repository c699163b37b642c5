package mailer

import (
	"context"

	"github.com/footballinvestment/lion-football-academy/internal/logger"
	"github.com/footballinvestment/lion-football-academy/pkg/models"
)

// ConsoleMailer logs documents instead of sending them. Used in development
// and as the default driver.
type ConsoleMailer struct{}

func NewConsoleMailer() *ConsoleMailer {
	return &ConsoleMailer{}
}

func (m *ConsoleMailer) Send(_ context.Context, doc models.Document, recipients []models.Recipient) error {
	emails := make([]string, 0, len(recipients))
	for _, r := range recipients {
		emails = append(emails, r.Email)
	}
	logger.WithFields(map[string]interface{}{
		"to":      emails,
		"subject": doc.Subject,
	}).Info("email (console driver)\n" + doc.Body)
	return nil
}

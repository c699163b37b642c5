package mailer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/footballinvestment/lion-football-academy/internal/logger"
	"github.com/footballinvestment/lion-football-academy/pkg/models"
	"github.com/footballinvestment/lion-football-academy/pkg/validation"
)

var (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

type SendgridMailer struct {
	key  string
	from *sgmail.Email
}

func NewSendgridMailer(key, fromName, fromEmail string) *SendgridMailer {
	return &SendgridMailer{
		key:  key,
		from: sgmail.NewEmail(fromName, fromEmail),
	}
}

func (m *SendgridMailer) Send(ctx context.Context, doc models.Document, recipients []models.Recipient) error {
	if len(recipients) == 0 {
		return nil
	}

	req := sendgrid.GetRequest(m.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m.prepare(doc, recipients))

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

func (m *SendgridMailer) prepare(doc models.Document, recipients []models.Recipient) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = doc.Subject
	for _, r := range recipients {
		if err := validation.ValidateEmail(r.Email); err != nil {
			logger.Warnf("Skipping recipient %s: %v", r.ID, err)
			continue
		}
		p.AddTos(sgmail.NewEmail(r.Name, r.Email))
	}

	msg := sgmail.NewV3Mail()
	msg.SetFrom(m.from)
	msg.AddPersonalizations(p)
	msg.AddContent(sgmail.NewContent("text/plain", doc.Body))
	if doc.HTMLBody != "" {
		msg.AddContent(sgmail.NewContent("text/html", doc.HTMLBody))
	}
	return msg
}

package queue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/footballinvestment/lion-football-academy/pkg/models"
)

type capturingMailer struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	doc        models.Document
	recipients []models.Recipient
}

func (m *capturingMailer) Send(_ context.Context, doc models.Document, recipients []models.Recipient) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{doc: doc, recipients: recipients})
	return nil
}

func newHandlerTestClient(t *testing.T, mail *capturingMailer) *ImmediateClient {
	t.Helper()
	registry := NewRegistry()
	assert.NoError(t, RegisterHandlers(registry, mail))
	return NewImmediateClient(registry, testQueueConfig(), nil)
}

func TestRegisterHandlers_CoversEveryKind(t *testing.T) {
	registry := NewRegistry()
	assert.NoError(t, RegisterHandlers(registry, &capturingMailer{}))

	kinds := []models.JobKind{
		models.JobTrainingReminder,
		models.JobWeeklyReport,
		models.JobWelcome,
		models.JobLowAttendanceAlert,
		models.JobAdminReport,
		models.JobCustom,
	}
	for _, kind := range kinds {
		_, ok := registry.handlers[kind]
		assert.True(t, ok, "missing handler for %s", kind)
	}

	// Registering twice must fail on the duplicate.
	assert.Error(t, RegisterHandlers(registry, &capturingMailer{}))
}

func TestTrainingReminderHandler_OneMailPerRecipient(t *testing.T) {
	mail := &capturingMailer{}
	client := newHandlerTestClient(t, mail)

	_, err := client.Enqueue(context.Background(), models.JobTrainingReminder, TrainingReminderPayload{
		Session: models.Session{TeamID: "t1", Type: "technical", Time: "17:00", Duration: 90},
		Recipients: []models.Recipient{
			{ID: "r1", Name: "Kovacs family", Email: "kovacs@family.hu"},
			{ID: "r2", Name: "Nagy family", Email: "nagy@family.hu"},
		},
	}, models.JobOptions{})

	assert.NoError(t, err)
	assert.Len(t, mail.sent, 2)
	assert.Contains(t, mail.sent[0].doc.Body, "Kovacs family")
	assert.Contains(t, mail.sent[1].doc.Body, "Nagy family")
	assert.Equal(t, "kovacs@family.hu", mail.sent[0].recipients[0].Email)
}

func TestLowAttendanceAlertHandler(t *testing.T) {
	mail := &capturingMailer{}
	client := newHandlerTestClient(t, mail)

	_, err := client.Enqueue(context.Background(), models.JobLowAttendanceAlert, LowAttendanceAlertPayload{
		TeamID:     "t1",
		TeamName:   "U12 Lions",
		Rate:       55,
		Threshold:  60,
		Recipients: []models.Recipient{{ID: "coach-1", Email: "coach@academy.hu"}},
	}, models.JobOptions{})

	assert.NoError(t, err)
	assert.Len(t, mail.sent, 1)
	assert.Equal(t, "Low attendance: U12 Lions", mail.sent[0].doc.Subject)
	assert.Contains(t, mail.sent[0].doc.Body, "55.0%")
}

func TestWelcomeHandler(t *testing.T) {
	mail := &capturingMailer{}
	client := newHandlerTestClient(t, mail)

	_, err := client.Enqueue(context.Background(), models.JobWelcome, WelcomePayload{
		Recipient: models.Recipient{ID: "r1", Name: "Adam", Email: "adam@family.hu"},
		TeamName:  "U12 Lions",
	}, models.JobOptions{})

	assert.NoError(t, err)
	assert.Len(t, mail.sent, 1)
	assert.Equal(t, "Welcome to Lion Football Academy", mail.sent[0].doc.Subject)
	assert.Contains(t, mail.sent[0].doc.Body, "Hi Adam")
	assert.Contains(t, mail.sent[0].doc.Body, "U12 Lions")
}

func TestCustomHandler_SendsDocumentVerbatim(t *testing.T) {
	mail := &capturingMailer{}
	client := newHandlerTestClient(t, mail)

	doc := models.Document{Subject: "Pitch closed Saturday", Body: "Maintenance work."}
	_, err := client.Enqueue(context.Background(), models.JobCustom, CustomPayload{
		Document:   doc,
		Recipients: []models.Recipient{{ID: "r1", Email: "a@b.hu"}},
	}, models.JobOptions{})

	assert.NoError(t, err)
	assert.Len(t, mail.sent, 1)
	assert.Equal(t, doc, mail.sent[0].doc)
}

func TestHandlers_MalformedPayload(t *testing.T) {
	mail := &capturingMailer{}
	registry := NewRegistry()
	assert.NoError(t, RegisterHandlers(registry, mail))

	job := &models.DeliveryJob{Kind: models.JobWeeklyReport, Payload: []byte(`{bad json`)}

	err := registry.Dispatch(context.Background(), job)

	assert.Error(t, err)
	assert.Empty(t, mail.sent)
}

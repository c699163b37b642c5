package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/footballinvestment/lion-football-academy/internal/composer"
	"github.com/footballinvestment/lion-football-academy/internal/mailer"
	"github.com/footballinvestment/lion-football-academy/pkg/models"
)

// Job payloads. Schedulers and API handlers fill these; queue handlers
// decode them and hand rendered documents to the mailer.

type TrainingReminderPayload struct {
	Session    models.Session     `json:"session"`
	Recipients []models.Recipient `json:"recipients"`
}

type WeeklyReportPayload struct {
	Report     models.ProgressReport `json:"report"`
	Recipients []models.Recipient    `json:"recipients"`
}

type WelcomePayload struct {
	Recipient models.Recipient `json:"recipient"`
	TeamName  string           `json:"team_name"`
}

type LowAttendanceAlertPayload struct {
	TeamID     string             `json:"team_id"`
	TeamName   string             `json:"team_name"`
	Rate       float64            `json:"rate"`      // percent
	Threshold  float64            `json:"threshold"` // percent
	Recipients []models.Recipient `json:"recipients"`
}

type AdminReportPayload struct {
	Reports    []models.ProgressReport `json:"reports"`
	Recipients []models.Recipient      `json:"recipients"`
}

type CustomPayload struct {
	Document   models.Document    `json:"document"`
	Recipients []models.Recipient `json:"recipients"`
}

// RegisterHandlers installs the closed handler set onto the registry.
func RegisterHandlers(registry *Registry, mail mailer.Mailer) error {
	handlers := map[models.JobKind]Handler{
		models.JobTrainingReminder:   trainingReminderHandler(mail),
		models.JobWeeklyReport:       weeklyReportHandler(mail),
		models.JobWelcome:            welcomeHandler(mail),
		models.JobLowAttendanceAlert: lowAttendanceAlertHandler(mail),
		models.JobAdminReport:        adminReportHandler(mail),
		models.JobCustom:             customHandler(mail),
	}

	for kind, h := range handlers {
		if err := registry.Register(kind, h); err != nil {
			return err
		}
	}
	return nil
}

func decodePayload(job *models.DeliveryJob, dst interface{}) error {
	if err := json.Unmarshal(job.Payload, dst); err != nil {
		return fmt.Errorf("decode %s payload: %w", job.Kind, err)
	}
	return nil
}

func trainingReminderHandler(mail mailer.Mailer) Handler {
	return func(ctx context.Context, job *models.DeliveryJob) error {
		var p TrainingReminderPayload
		if err := decodePayload(job, &p); err != nil {
			return err
		}
		for _, recipient := range p.Recipients {
			notification := composer.TrainingReminder(p.Session, recipient.Name)
			doc := composer.RenderDocument(notification)
			if err := mail.Send(ctx, doc, []models.Recipient{recipient}); err != nil {
				return fmt.Errorf("send reminder to %s: %w", recipient.Email, err)
			}
		}
		return nil
	}
}

func weeklyReportHandler(mail mailer.Mailer) Handler {
	return func(ctx context.Context, job *models.DeliveryJob) error {
		var p WeeklyReportPayload
		if err := decodePayload(job, &p); err != nil {
			return err
		}
		doc := composer.RenderProgressReport(p.Report)
		return mail.Send(ctx, doc, p.Recipients)
	}
}

func welcomeHandler(mail mailer.Mailer) Handler {
	return func(ctx context.Context, job *models.DeliveryJob) error {
		var p WelcomePayload
		if err := decodePayload(job, &p); err != nil {
			return err
		}
		doc := models.Document{
			Subject: "Welcome to Lion Football Academy",
			Body: composer.RenderTemplate(
				"Hi {{name}},\n\nWelcome to the {{team}} group. Training schedules and progress reports will arrive at this address.",
				map[string]interface{}{
					"name": p.Recipient.Name,
					"team": p.TeamName,
				}),
		}
		return mail.Send(ctx, doc, []models.Recipient{p.Recipient})
	}
}

func lowAttendanceAlertHandler(mail mailer.Mailer) Handler {
	return func(ctx context.Context, job *models.DeliveryJob) error {
		var p LowAttendanceAlertPayload
		if err := decodePayload(job, &p); err != nil {
			return err
		}
		notification := composer.LowAttendanceAlert(p.TeamID, p.TeamName, p.Rate, p.Threshold)
		doc := composer.RenderDocument(notification)
		return mail.Send(ctx, doc, p.Recipients)
	}
}

func adminReportHandler(mail mailer.Mailer) Handler {
	return func(ctx context.Context, job *models.DeliveryJob) error {
		var p AdminReportPayload
		if err := decodePayload(job, &p); err != nil {
			return err
		}
		doc := composer.BuildAdminReport(p.Reports)
		return mail.Send(ctx, doc, p.Recipients)
	}
}

func customHandler(mail mailer.Mailer) Handler {
	return func(ctx context.Context, job *models.DeliveryJob) error {
		var p CustomPayload
		if err := decodePayload(job, &p); err != nil {
			return err
		}
		return mail.Send(ctx, p.Document, p.Recipients)
	}
}

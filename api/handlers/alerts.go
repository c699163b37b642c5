package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/footballinvestment/lion-football-academy/api/middleware"
	"github.com/footballinvestment/lion-football-academy/internal/analytics"
	"github.com/footballinvestment/lion-football-academy/internal/events"
	"github.com/footballinvestment/lion-football-academy/internal/queue"
	"github.com/footballinvestment/lion-football-academy/pkg/database/queries"
	"github.com/footballinvestment/lion-football-academy/pkg/models"
)

// TeamDirectory resolves the recipients an on-demand alert goes to.
type TeamDirectory interface {
	ResponsibleForTeam(ctx context.Context, teamID string) (models.Recipient, error)
}

// AlertHandler runs an on-demand low-attendance check for one team and
// enqueues the alert when the prior week is below threshold.
type AlertHandler struct {
	service    *analytics.Service
	recipients TeamDirectory
	queue      queue.Client
	publisher  *events.Publisher
	threshold  float64
}

func NewAlertHandler(service *analytics.Service, recipients TeamDirectory, q queue.Client, publisher *events.Publisher, threshold float64) *AlertHandler {
	return &AlertHandler{
		service:    service,
		recipients: recipients,
		queue:      q,
		publisher:  publisher,
		threshold:  threshold,
	}
}

func (h *AlertHandler) TriggerAlert(c *gin.Context) {
	teamID, ok := subjectID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	now := time.Now()
	rate, samples, err := h.service.GroupAttendancePercent(ctx, teamID, now.AddDate(0, 0, -7), now)
	if err != nil {
		respondError(c, "team_alert", err)
		return
	}

	if samples == 0 || rate >= h.threshold {
		respondOK(c, "team_alert", gin.H{
			"alerted":   false,
			"rate":      rate,
			"samples":   samples,
			"threshold": h.threshold,
		})
		return
	}

	responsible, err := h.recipients.ResponsibleForTeam(ctx, teamID)
	if err != nil {
		if errors.Is(err, queries.ErrRecipientNotFound) {
			respondBadRequest(c, "no responsible recipient configured for team")
			return
		}
		respondError(c, "team_alert", err)
		return
	}

	job, err := h.queue.Enqueue(ctx, models.JobLowAttendanceAlert, queue.LowAttendanceAlertPayload{
		TeamID:     teamID,
		Rate:       rate,
		Threshold:  h.threshold,
		Recipients: []models.Recipient{responsible},
	}, models.JobOptions{})
	if err != nil {
		respondError(c, "team_alert", err)
		return
	}

	h.publisher.WithTraceID(middleware.GetTraceID(c)).Alert(teamID, "Low attendance alert triggered manually", models.SeverityWarning, gin.H{
		"rate":      rate,
		"threshold": h.threshold,
	})

	respondOK(c, "team_alert", gin.H{
		"alerted": true,
		"rate":    rate,
		"job_id":  job.ID,
	})
}

package composer

import (
	"fmt"
	"time"

	"github.com/footballinvestment/lion-football-academy/pkg/models"
)

// PerformanceAlert builds an alert when the analysis carries a high-severity
// risk or a declining rating trend; returns nil when nothing warrants one.
func PerformanceAlert(analysis *models.SubjectAnalysis, subjectName string) *models.Notification {
	if analysis == nil {
		return nil
	}
	if subjectName == "" {
		subjectName = analysis.SubjectID
	}

	var highest *models.RiskFactor
	for i := range analysis.RiskAssessment {
		r := &analysis.RiskAssessment[i]
		if highest == nil || severityRank(r.Severity) > severityRank(highest.Severity) {
			highest = r
		}
	}

	declining := analysis.RatingTrend.Direction == models.TrendDeclining

	if highest == nil && !declining {
		return nil
	}

	priority := models.PriorityMedium
	body := ""
	switch {
	case highest != nil && highest.Severity == models.RiskHigh:
		priority = models.PriorityHigh
		body = highest.Description
	case highest != nil:
		body = highest.Description
	default:
		body = "Session ratings have been declining over the analysis window."
	}

	return &models.Notification{
		Category: models.CategoryPerformanceAlert,
		Priority: priority,
		Title:    fmt.Sprintf("Performance alert: %s", subjectName),
		Body:     body,
		ActionItems: []string{
			"Review the player's recent sessions with the coach",
		},
		SubjectID: analysis.SubjectID,
	}
}

// LowAttendanceAlert is sent to the responsible coach when a team's weekly
// attendance falls below the configured threshold.
func LowAttendanceAlert(teamID, teamName string, rate, threshold float64) models.Notification {
	return models.Notification{
		Category: models.CategoryLowAttendance,
		Priority: models.PriorityHigh,
		Title:    fmt.Sprintf("Low attendance: %s", teamName),
		Body: RenderTemplate(
			"Team {{team}} attendance last week was {{rate}}%, below the {{threshold}}% threshold.",
			map[string]interface{}{
				"team":      teamName,
				"rate":      rate,
				"threshold": threshold,
			}),
		ActionItems: []string{
			"Contact families of frequently absent players",
			"Check whether session times still work for the group",
		},
		TeamID: teamID,
	}
}

// TrainingReminder announces an upcoming session to a recipient.
func TrainingReminder(session models.Session, recipientName string) models.Notification {
	return models.Notification{
		Category: models.CategoryTrainingReminder,
		Priority: models.PriorityMedium,
		Title:    fmt.Sprintf("Training reminder: %s", session.Type),
		Body: RenderTemplate(
			"Hi {{name}}, a {{type}} session is scheduled for {{date}} at {{time}} ({{duration}} min).",
			map[string]interface{}{
				"name":     recipientName,
				"type":     session.Type,
				"date":     session.Date.Format("2006-01-02"),
				"time":     session.Time,
				"duration": session.Duration,
			}),
		TeamID: session.TeamID,
	}
}

// RenderDocument turns a notification into an email-ready document.
func RenderDocument(n models.Notification) models.Document {
	body := n.Body
	if len(n.ActionItems) > 0 {
		body += "\n\nSuggested actions:"
		for _, item := range n.ActionItems {
			body += "\n- " + item
		}
	}
	body += fmt.Sprintf("\n\nSent %s by Lion Football Academy.", time.Now().Format("2006-01-02"))
	return models.Document{
		Subject: n.Title,
		Body:    body,
	}
}

func severityRank(s models.RiskSeverity) int {
	switch s {
	case models.RiskHigh:
		return 3
	case models.RiskMedium:
		return 2
	case models.RiskLow:
		return 1
	}
	return 0
}

package composer

import (
	"fmt"
	"time"

	"github.com/footballinvestment/lion-football-academy/pkg/models"
)

// BuildProgressReport distills a subject analysis into the weekly summary
// sent to families.
func BuildProgressReport(analysis *models.SubjectAnalysis, subjectName string) models.ProgressReport {
	report := models.ProgressReport{
		SubjectID:   analysis.SubjectID,
		SubjectName: subjectName,
		WindowWeeks: analysis.WindowWeeks,
		Metrics:     analysis.Metrics,
		Trend:       analysis.RatingTrend,
		GeneratedAt: time.Now(),
	}

	m := analysis.Metrics
	if m.AttendanceRate >= 0.9 && m.SessionCount > 0 {
		report.Highlights = append(report.Highlights,
			fmt.Sprintf("Excellent attendance: %.0f%%", m.AttendanceRate*100))
	}
	if analysis.RatingTrend.Direction == models.TrendImproving {
		report.Highlights = append(report.Highlights, "Session ratings are improving")
	}
	if m.AvgRating >= 4 && m.RatedCount > 0 {
		report.Highlights = append(report.Highlights,
			fmt.Sprintf("Strong average rating: %.1f", m.AvgRating))
	}

	if m.AttendanceRate < 0.75 && m.SessionCount > 0 {
		report.Concerns = append(report.Concerns,
			fmt.Sprintf("Attendance at %.0f%% over the window", m.AttendanceRate*100))
	}
	if analysis.RatingTrend.Direction == models.TrendDeclining {
		report.Concerns = append(report.Concerns, "Session ratings are trending down")
	}
	for _, risk := range analysis.RiskAssessment {
		if risk.Severity == models.RiskHigh {
			report.Concerns = append(report.Concerns, risk.Description)
		}
	}

	return report
}

// RenderProgressReport formats a progress report as an email-ready document.
func RenderProgressReport(report models.ProgressReport) models.Document {
	name := report.SubjectName
	if name == "" {
		name = report.SubjectID
	}

	body := RenderTemplate(
		"Weekly progress report for {{name}}\n\n"+
			"Window: last {{weeks}} weeks\n"+
			"Sessions: {{attended}} of {{total}} attended ({{rate}}%)\n",
		map[string]interface{}{
			"name":     name,
			"weeks":    report.WindowWeeks,
			"attended": report.Metrics.AttendedCount,
			"total":    report.Metrics.SessionCount,
			"rate":     report.Metrics.AttendanceRate * 100,
		})

	if report.Metrics.RatedCount > 0 {
		body += fmt.Sprintf("Average session rating: %.1f\n", report.Metrics.AvgRating)
	}
	body += fmt.Sprintf("Trend: %s\n", report.Trend.Direction)

	if len(report.Highlights) > 0 {
		body += "\nHighlights:"
		for _, h := range report.Highlights {
			body += "\n- " + h
		}
		body += "\n"
	}
	if len(report.Concerns) > 0 {
		body += "\nAreas to watch:"
		for _, c := range report.Concerns {
			body += "\n- " + c
		}
		body += "\n"
	}

	return models.Document{
		Subject: fmt.Sprintf("Weekly progress report: %s", name),
		Body:    body,
	}
}

// BuildAdminReport aggregates per-subject reports into the administrator
// summary enqueued alongside the family reports.
func BuildAdminReport(reports []models.ProgressReport) models.Document {
	body := fmt.Sprintf("Academy weekly summary (%d players)\n\n", len(reports))

	var rateSum float64
	counted := 0
	concerns := 0
	for _, r := range reports {
		if r.Metrics.SessionCount > 0 {
			rateSum += r.Metrics.AttendanceRate
			counted++
		}
		concerns += len(r.Concerns)
	}
	if counted > 0 {
		body += fmt.Sprintf("Average attendance: %.0f%%\n", rateSum/float64(counted)*100)
	}
	body += fmt.Sprintf("Players with flagged concerns: %d\n", concernsCount(reports))
	body += fmt.Sprintf("Total concerns raised: %d\n", concerns)

	return models.Document{
		Subject: "Academy weekly summary",
		Body:    body,
	}
}

func concernsCount(reports []models.ProgressReport) int {
	n := 0
	for _, r := range reports {
		if len(r.Concerns) > 0 {
			n++
		}
	}
	return n
}

package composer

import (
	"github.com/footballinvestment/lion-football-academy/pkg/models"
)

const (
	tipAttendanceThreshold  = 0.75
	tipPunctualityThreshold = 0.2
)

// CoachingTips maps a subject analysis onto zero or more actionable tips.
// Each tip rule is independent; a subject can trigger several at once.
func CoachingTips(analysis *models.SubjectAnalysis) []models.Notification {
	tips := []models.Notification{}
	if analysis == nil || analysis.Metrics.SessionCount == 0 {
		return tips
	}

	m := analysis.Metrics

	if m.AttendanceRate < tipAttendanceThreshold {
		tips = append(tips, models.Notification{
			Category:  models.CategoryCoachingTip,
			Priority:  models.PriorityHigh,
			Title:     "Attendance needs attention",
			Body: RenderTemplate(
				"Attendance over the last {{weeks}} weeks is {{rate}}%. Regular training is the foundation of progress.",
				map[string]interface{}{
					"weeks": analysis.WindowWeeks,
					"rate":  m.AttendanceRate * 100,
				}),
			ActionItems: []string{
				"Talk with the family about scheduling conflicts",
				"Agree on a realistic weekly attendance target",
			},
			SubjectID: analysis.SubjectID,
		})
	}

	if analysis.RatingTrend.Direction == models.TrendDeclining {
		tips = append(tips, models.Notification{
			Category:  models.CategoryCoachingTip,
			Priority:  models.PriorityHigh,
			Title:     "Performance trending down",
			Body: RenderTemplate(
				"Session ratings are declining (trend strength {{strength}}). A focused check-in can catch the cause early.",
				map[string]interface{}{"strength": analysis.RatingTrend.Strength}),
			ActionItems: []string{
				"Schedule a one-on-one conversation after training",
				"Review recent session notes for recurring issues",
			},
			SubjectID: analysis.SubjectID,
		})
	}

	if m.LateRate > tipPunctualityThreshold {
		tips = append(tips, models.Notification{
			Category:  models.CategoryCoachingTip,
			Priority:  models.PriorityMedium,
			Title:     "Frequent late arrivals",
			Body: RenderTemplate(
				"Late to {{late}} of {{total}} sessions. Warm-up time matters, especially at this age.",
				map[string]interface{}{"late": m.LateCount, "total": m.SessionCount}),
			ActionItems: []string{
				"Remind the family about arrival time expectations",
			},
			SubjectID: analysis.SubjectID,
		})
	}

	if analysis.RatingTrend.Direction == models.TrendImproving {
		tips = append(tips, models.Notification{
			Category:  models.CategoryCoachingTip,
			Priority:  models.PriorityLow,
			Title:     "Strong upward trend",
			Body:      "Ratings are improving steadily. Acknowledge the progress and consider a stretch goal.",
			ActionItems: []string{
				"Give positive feedback in front of the group",
			},
			SubjectID: analysis.SubjectID,
		})
	}

	return tips
}

package analytics

import (
	"sort"

	"github.com/footballinvestment/lion-football-academy/pkg/models"
)

const (
	lowAttendanceRate = 0.75
	lowAvgRating      = 3.0
	highLateRate      = 0.2
)

// buildRecommendations maps window metrics and trends onto the fixed
// recommendation templates. Rules fire independently; the result is sorted
// by priority, highest first, with input order preserved among equals.
func buildRecommendations(m models.SubjectMetrics, attTrend, ratingTrend models.TrendResult) []models.Recommendation {
	var recs []models.Recommendation

	if m.SessionCount > 0 && m.AttendanceRate < lowAttendanceRate {
		recs = append(recs, models.Recommendation{
			Category:    "attendance",
			Priority:    models.PriorityHigh,
			Title:       "Improve training attendance",
			Description: "Attendance has dropped below the level needed for steady development.",
			ActionItems: []string{
				"Talk to the family about scheduling conflicts",
				"Agree on a minimum weekly session commitment",
				"Review whether session times fit school hours",
			},
		})
	}

	if ratingTrend.Direction == models.TrendDeclining {
		recs = append(recs, models.Recommendation{
			Category:    "performance",
			Priority:    models.PriorityHigh,
			Title:       "Address declining performance",
			Description: "Session ratings are trending downward over the analysis window.",
			ActionItems: []string{
				"Schedule an individual skills assessment",
				"Set two short-term technical goals",
				"Check for fatigue or motivation issues",
			},
		})
	}

	if m.RatedCount > 0 && m.AvgRating < lowAvgRating {
		recs = append(recs, models.Recommendation{
			Category:    "fundamentals",
			Priority:    models.PriorityMedium,
			Title:       "Reinforce fundamentals",
			Description: "Average rating is below the squad baseline.",
			ActionItems: []string{
				"Add focused drill blocks to the next sessions",
				"Pair with a stronger training partner",
			},
		})
	}

	if m.LateRate > highLateRate {
		recs = append(recs, models.Recommendation{
			Category:    "punctuality",
			Priority:    models.PriorityMedium,
			Title:       "Improve punctuality",
			Description: "Late arrivals are cutting into effective training time.",
			ActionItems: []string{
				"Remind the family of warm-up start times",
				"Move pre-session briefing later if the pattern is systemic",
			},
		})
	}

	if attTrend.Direction == models.TrendImproving || ratingTrend.Direction == models.TrendImproving {
		recs = append(recs, models.Recommendation{
			Category:    "motivation",
			Priority:    models.PriorityLow,
			Title:       "Keep the momentum",
			Description: "Recent sessions show positive movement worth reinforcing.",
			ActionItems: []string{
				"Acknowledge the progress at the next session",
				"Raise drill difficulty one notch",
			},
		})
	}

	SortByPriority(recs)
	return recs
}

// SortByPriority stable-sorts recommendations by priority rank descending.
func SortByPriority(recs []models.Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority.Rank() > recs[j].Priority.Rank()
	})
}

package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/footballinvestment/lion-football-academy/internal/logger"
	"github.com/footballinvestment/lion-football-academy/internal/trend"
	"github.com/footballinvestment/lion-football-academy/pkg/models"
)

// AnalyzeGroupPatterns groups a team's records along the fixed axes, clusters
// player behavior and produces the naive forward projection. A team with no
// history yields empty pattern arrays and a low-confidence prediction, not an
// error.
func (s *Service) AnalyzeGroupPatterns(ctx context.Context, teamID string, windowWeeks int) (*models.GroupPatterns, error) {
	from, to := s.window(windowWeeks)

	records, err := s.attendance.TeamAttendance(ctx, teamID, from, to)
	if err != nil {
		return nil, wrapRead("fetch team attendance", err)
	}

	patterns := models.PatternSet{
		ByDayOfWeek: trend.RatesByBucket(records, trend.DayOfWeekKey),
		ByTimeBand:  trend.RatesByBucket(records, trend.TimeBandKey),
		ByWeek:      trend.RatesByBucket(records, trend.ISOWeekKey),
	}
	clusters := trend.ClusterBehavior(records)

	result := &models.GroupPatterns{
		TeamID:      teamID,
		WindowWeeks: windowWeeks,
		Patterns:    patterns,
		Clusters:    clusters,
		Predictions: projectGroup(records),
		Insights:    groupInsights(patterns, clusters),
		GeneratedAt: time.Now(),
	}

	logger.WithTeam(teamID).Debugf(
		"Patterns: records=%d, clusters=%d, confidence=%s",
		len(records), len(clusters), result.Predictions.Confidence,
	)
	s.publisher.AnalysisCompleted(teamID, "group_patterns", result)

	return result, nil
}

// projectGroup carries the historical present-rate forward as the expected
// rate; confidence is purely a function of sample size.
func projectGroup(records []models.AttendanceRecord) models.GroupPrediction {
	pred := models.GroupPrediction{
		SampleSize: len(records),
		Confidence: models.ConfidenceForSamples(len(records)),
	}
	if len(records) == 0 {
		return pred
	}

	present := 0
	for _, rec := range records {
		if rec.Status.Attended() {
			present++
		}
	}
	pred.ExpectedRate = float64(present) / float64(len(records))

	return pred
}

func groupInsights(patterns models.PatternSet, clusters []models.BehaviorCluster) []string {
	var insights []string

	if len(patterns.ByDayOfWeek) > 0 {
		best := patterns.ByDayOfWeek[0]
		worst := patterns.ByDayOfWeek[len(patterns.ByDayOfWeek)-1]
		insights = append(insights, fmt.Sprintf(
			"Best attendance on %s (%.0f%%)", best.Key, best.Rate*100))
		if worst.Key != best.Key {
			insights = append(insights, fmt.Sprintf(
				"Weakest attendance on %s (%.0f%%)", worst.Key, worst.Rate*100))
		}
	}

	if len(patterns.ByTimeBand) > 0 {
		insights = append(insights, fmt.Sprintf(
			"%s sessions draw the strongest turnout", patterns.ByTimeBand[0].Key))
	}

	counts := make(map[models.BehaviorLabel]int)
	for _, c := range clusters {
		counts[c.Label]++
	}
	if n := counts[models.BehaviorExemplary]; n > 0 {
		insights = append(insights, fmt.Sprintf("%d exemplary attender(s) in the squad", n))
	}
	if n := counts[models.BehaviorInconsistent]; n > 0 {
		insights = append(insights, fmt.Sprintf("%d player(s) attend inconsistently", n))
	}

	return insights
}

package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/footballinvestment/lion-football-academy/internal/logger"
	"github.com/footballinvestment/lion-football-academy/internal/trend"
	"github.com/footballinvestment/lion-football-academy/pkg/models"
)

const (
	// Per trend-strength point the projection nudges attendance by 1.5
	// percentage points and rating by 0.05; both clamp to valid ranges.
	rateNudgePerStrength   = 1.5
	ratingNudgePerStrength = 0.05
	trajectoryWindowWeeks  = 8
)

// PredictGroupTrajectory aggregates per-session attendance and ratings,
// computes their trends and projects the group forward by nudging the current
// averages in the trend direction, scaled by trend strength.
func (s *Service) PredictGroupTrajectory(ctx context.Context, teamID string, weeksAhead int) (*models.TrajectoryPrediction, error) {
	if weeksAhead <= 0 {
		weeksAhead = 4
	}
	from, to := s.window(trajectoryWindowWeeks)

	records, err := s.attendance.TeamAttendance(ctx, teamID, from, to)
	if err != nil {
		return nil, wrapRead("fetch team attendance", err)
	}

	sessionRates, sessionRatings := perSessionSeries(records)
	current := currentGroupMetrics(sessionRates, sessionRatings)

	attTrend := trend.Calculate(sessionRates)
	ratingTrend := trend.Calculate(sessionRatings)

	prediction := models.TrajectoryProjection{
		AttendanceRate: clamp(current.AttendanceRate+direction(attTrend)*attTrend.Strength*rateNudgePerStrength, 0, 100),
		AvgRating:      current.AvgRating,
	}
	if current.AvgRating > 0 {
		prediction.AvgRating = clamp(current.AvgRating+direction(ratingTrend)*ratingTrend.Strength*ratingNudgePerStrength, 1, 5)
	}

	result := &models.TrajectoryPrediction{
		TeamID:             teamID,
		WeeksAhead:         weeksAhead,
		CurrentMetrics:     current,
		AttendanceTrend:    attTrend,
		RatingTrend:        ratingTrend,
		Prediction:         prediction,
		ConfidenceLevel:    models.ConfidenceForSamples(len(sessionRates)),
		RecommendedActions: trajectoryActions(attTrend, ratingTrend, current),
		GeneratedAt:        time.Now(),
	}

	logger.WithTeam(teamID).Debugf(
		"Trajectory: rate=%.0f%%->%.0f%%, rating=%.1f->%.1f",
		current.AttendanceRate, prediction.AttendanceRate,
		current.AvgRating, prediction.AvgRating,
	)
	s.publisher.AnalysisCompleted(teamID, "group_trajectory", result)

	return result, nil
}

// perSessionSeries collapses records into chronological per-session
// attendance percentages and average ratings.
func perSessionSeries(records []models.AttendanceRecord) (rates, ratings []float64) {
	type agg struct {
		ts             time.Time
		total, present int
		ratingSum      float64
		ratedCount     int
	}
	perSession := make(map[string]*agg)

	for _, rec := range records {
		a, ok := perSession[rec.SessionID]
		if !ok {
			a = &agg{ts: rec.Timestamp}
			perSession[rec.SessionID] = a
		}
		a.total++
		if rec.Status.Attended() {
			a.present++
		}
		if rec.Rated() {
			a.ratingSum += rec.PerformanceRating
			a.ratedCount++
		}
	}

	sessions := make([]*agg, 0, len(perSession))
	for _, a := range perSession {
		sessions = append(sessions, a)
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].ts.Before(sessions[j].ts) })

	for _, a := range sessions {
		rates = append(rates, float64(a.present)/float64(a.total)*100)
		if a.ratedCount > 0 {
			ratings = append(ratings, a.ratingSum/float64(a.ratedCount))
		}
	}

	return rates, ratings
}

func currentGroupMetrics(rates, ratings []float64) models.GroupMetrics {
	m := models.GroupMetrics{SessionCount: len(rates)}
	m.AttendanceRate = mean(rates)
	m.AvgRating = mean(ratings)
	return m
}

func trajectoryActions(attTrend, ratingTrend models.TrendResult, current models.GroupMetrics) []string {
	var actions []string

	if attTrend.Direction == models.TrendDeclining || current.AttendanceRate < 70 {
		actions = append(actions, "Contact families of frequent absentees before next week")
	}
	if ratingTrend.Direction == models.TrendDeclining {
		actions = append(actions, "Review session intensity and drill progression")
	}
	if attTrend.Direction == models.TrendImproving && ratingTrend.Direction != models.TrendDeclining {
		actions = append(actions, "Current plan is working, keep the schedule unchanged")
	}
	if len(actions) == 0 {
		actions = append(actions, "Monitor over the next two weeks, no intervention needed")
	}

	return actions
}

func direction(t models.TrendResult) float64 {
	switch t.Direction {
	case models.TrendImproving:
		return 1
	case models.TrendDeclining:
		return -1
	default:
		return 0
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

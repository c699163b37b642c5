// Package analytics composes repository reads and the trend engine into
// player and team analyses, predictions and recommendations. Every operation
// is read-only against the store and pure given the fetched records.
package analytics

import (
	"context"
	"time"

	"github.com/footballinvestment/lion-football-academy/internal/events"
	"github.com/footballinvestment/lion-football-academy/internal/logger"
	"github.com/footballinvestment/lion-football-academy/internal/trend"
	"github.com/footballinvestment/lion-football-academy/pkg/models"
)

// AttendanceReader is the narrow read surface over attendance records.
type AttendanceReader interface {
	PlayerAttendance(ctx context.Context, playerID string, from, to time.Time) ([]models.AttendanceRecord, error)
	TeamAttendance(ctx context.Context, teamID string, from, to time.Time) ([]models.AttendanceRecord, error)
}

// SessionReader resolves sessions and squad membership.
type SessionReader interface {
	TeamSessions(ctx context.Context, teamID string, from, to time.Time) ([]models.Session, error)
	TeamRoster(ctx context.Context, teamID string) ([]models.Player, error)
}

type Config struct {
	DefaultWindowWeeks int
}

type Service struct {
	attendance AttendanceReader
	sessions   SessionReader
	publisher  *events.Publisher
	config     Config
}

func New(attendance AttendanceReader, sessions SessionReader, publisher *events.Publisher, cfg Config) *Service {
	if cfg.DefaultWindowWeeks <= 0 {
		cfg.DefaultWindowWeeks = 4
	}
	return &Service{
		attendance: attendance,
		sessions:   sessions,
		publisher:  publisher,
		config:     cfg,
	}
}

// window converts a trailing week count into a concrete date range.
func (s *Service) window(weeks int) (time.Time, time.Time) {
	if weeks <= 0 {
		weeks = s.config.DefaultWindowWeeks
	}
	to := time.Now()
	return to.AddDate(0, 0, -7*weeks), to
}

// AnalyzeSubjectPerformance computes a player's window-bounded metrics,
// trends, risk assessment and recommendations.
func (s *Service) AnalyzeSubjectPerformance(ctx context.Context, playerID string, windowWeeks int) (*models.SubjectAnalysis, error) {
	from, to := s.window(windowWeeks)

	records, err := s.attendance.PlayerAttendance(ctx, playerID, from, to)
	if err != nil {
		return nil, wrapRead("fetch player attendance", err)
	}

	metrics := summarize(records)
	attTrend := trend.Attendance(records)
	ratingTrend := trend.Ratings(records)

	analysis := &models.SubjectAnalysis{
		SubjectID:       playerID,
		SubjectType:     models.SubjectPlayer,
		WindowWeeks:     windowWeeks,
		Metrics:         metrics,
		AttendanceTrend: attTrend,
		RatingTrend:     ratingTrend,
		RiskAssessment:  trend.AssessRisks(records),
		Recommendations: buildRecommendations(metrics, attTrend, ratingTrend),
		GeneratedAt:     time.Now(),
	}

	logger.WithPlayer(playerID).Debugf(
		"Analyzed: attendance=%.0f%%, rating=%.1f, trend=%s",
		metrics.AttendanceRate*100, metrics.AvgRating, ratingTrend.Direction,
	)
	s.publisher.AnalysisCompleted("", "subject_performance", analysis)

	return analysis, nil
}

// GroupAttendancePercent returns a team's attendance percentage (0-100) over
// an explicit range, plus the number of records behind it. Used by the
// low-attendance alert pass.
func (s *Service) GroupAttendancePercent(ctx context.Context, teamID string, from, to time.Time) (float64, int, error) {
	records, err := s.attendance.TeamAttendance(ctx, teamID, from, to)
	if err != nil {
		return 0, 0, wrapRead("fetch team attendance", err)
	}
	if len(records) == 0 {
		return 0, 0, nil
	}

	present := 0
	for _, rec := range records {
		if rec.Status.Attended() {
			present++
		}
	}

	return float64(present) / float64(len(records)) * 100, len(records), nil
}

// summarize reduces a record set to the window metrics every analysis needs.
func summarize(records []models.AttendanceRecord) models.SubjectMetrics {
	m := models.SubjectMetrics{SessionCount: len(records)}
	if len(records) == 0 {
		return m
	}

	var ratingSum float64
	for _, rec := range records {
		if rec.Status.Attended() {
			m.AttendedCount++
		}
		if rec.Status == models.StatusLate {
			m.LateCount++
		}
		m.TotalLateMinutes += rec.LateMinutes
		if rec.Rated() {
			m.RatedCount++
			ratingSum += rec.PerformanceRating
		}
	}

	m.AttendanceRate = float64(m.AttendedCount) / float64(m.SessionCount)
	m.LateRate = float64(m.LateCount) / float64(m.SessionCount)
	if m.RatedCount > 0 {
		m.AvgRating = ratingSum / float64(m.RatedCount)
	}

	return m
}

package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/footballinvestment/lion-football-academy/pkg/models"
)

type stubAttendance struct {
	player []models.AttendanceRecord
	team   []models.AttendanceRecord
	err    error
}

func (s *stubAttendance) PlayerAttendance(_ context.Context, _ string, _, _ time.Time) ([]models.AttendanceRecord, error) {
	return s.player, s.err
}

func (s *stubAttendance) TeamAttendance(_ context.Context, _ string, _, _ time.Time) ([]models.AttendanceRecord, error) {
	return s.team, s.err
}

type stubSessions struct {
	sessions []models.Session
	roster   []models.Player
	err      error
}

func (s *stubSessions) TeamSessions(_ context.Context, _ string, _, _ time.Time) ([]models.Session, error) {
	return s.sessions, s.err
}

func (s *stubSessions) TeamRoster(_ context.Context, _ string) ([]models.Player, error) {
	return s.roster, s.err
}

func newTestService(att *stubAttendance, sess *stubSessions) *Service {
	if att == nil {
		att = &stubAttendance{}
	}
	if sess == nil {
		sess = &stubSessions{}
	}
	return New(att, sess, nil, Config{DefaultWindowWeeks: 4})
}

func rated(rating float64) models.AttendanceRecord {
	return models.AttendanceRecord{Status: models.StatusPresent, PerformanceRating: rating}
}

func TestAnalyzeSubjectPerformance(t *testing.T) {
	att := &stubAttendance{
		player: []models.AttendanceRecord{rated(2), rated(2), rated(3), rated(3), rated(4)},
	}
	svc := newTestService(att, nil)

	analysis, err := svc.AnalyzeSubjectPerformance(context.Background(), "p1", 4)

	assert.NoError(t, err)
	assert.Equal(t, "p1", analysis.SubjectID)
	assert.Equal(t, models.SubjectPlayer, analysis.SubjectType)
	assert.Equal(t, 5, analysis.Metrics.SessionCount)
	assert.Equal(t, 5, analysis.Metrics.AttendedCount)
	assert.InDelta(t, 1.0, analysis.Metrics.AttendanceRate, 1e-9)
	assert.InDelta(t, 2.8, analysis.Metrics.AvgRating, 1e-9)
	assert.Equal(t, models.TrendImproving, analysis.RatingTrend.Direction)
	assert.InDelta(t, 0.5, analysis.RatingTrend.Slope, 1e-9)
	assert.Empty(t, analysis.RiskAssessment)
}

func TestAnalyzeSubjectPerformance_ReadError(t *testing.T) {
	cause := errors.New("connection refused")
	svc := newTestService(&stubAttendance{err: cause}, nil)

	analysis, err := svc.AnalyzeSubjectPerformance(context.Background(), "p1", 4)

	assert.Nil(t, analysis)
	var analysisErr *AnalysisError
	assert.ErrorAs(t, err, &analysisErr)
	assert.Equal(t, "fetch player attendance", analysisErr.Op)
	assert.ErrorIs(t, err, cause)
}

func TestGroupAttendancePercent(t *testing.T) {
	tests := []struct {
		name            string
		records         []models.AttendanceRecord
		expectedPercent float64
		expectedSamples int
	}{
		{
			name: "three of four attended",
			records: []models.AttendanceRecord{
				{Status: models.StatusPresent},
				{Status: models.StatusPresent},
				{Status: models.StatusLate},
				{Status: models.StatusAbsent},
			},
			expectedPercent: 75,
			expectedSamples: 4,
		},
		{
			name:            "no history",
			records:         nil,
			expectedPercent: 0,
			expectedSamples: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&stubAttendance{team: tt.records}, nil)

			percent, samples, err := svc.GroupAttendancePercent(
				context.Background(), "t1", time.Now().AddDate(0, 0, -7), time.Now())

			assert.NoError(t, err)
			assert.InDelta(t, tt.expectedPercent, percent, 1e-9)
			assert.Equal(t, tt.expectedSamples, samples)
		})
	}
}

func TestAnalyzeGroupPatterns_EmptyHistory(t *testing.T) {
	svc := newTestService(&stubAttendance{}, nil)

	result, err := svc.AnalyzeGroupPatterns(context.Background(), "t1", 4)

	assert.NoError(t, err)
	assert.Empty(t, result.Patterns.ByDayOfWeek)
	assert.Empty(t, result.Patterns.ByTimeBand)
	assert.Empty(t, result.Patterns.ByWeek)
	assert.Empty(t, result.Clusters)
	assert.Equal(t, 0, result.Predictions.SampleSize)
	assert.Equal(t, models.ConfidenceLow, result.Predictions.Confidence)
}

func TestBuildRecommendations(t *testing.T) {
	declining := models.TrendResult{Direction: models.TrendDeclining}
	stable := models.TrendResult{Direction: models.TrendStable}

	metrics := models.SubjectMetrics{
		SessionCount:   10,
		AttendanceRate: 0.6,
		RatedCount:     5,
		AvgRating:      3.5,
	}

	recs := buildRecommendations(metrics, stable, declining)

	assert.Len(t, recs, 2)
	assert.Equal(t, "attendance", recs[0].Category)
	assert.Equal(t, models.PriorityHigh, recs[0].Priority)
	assert.Equal(t, "performance", recs[1].Category)
	assert.Equal(t, models.PriorityHigh, recs[1].Priority)
}

func TestSortByPriority(t *testing.T) {
	recs := []models.Recommendation{
		{Category: "a", Priority: models.PriorityLow},
		{Category: "b", Priority: models.PriorityHigh},
		{Category: "c", Priority: models.PriorityMedium},
		{Category: "d", Priority: models.PriorityHigh},
	}

	SortByPriority(recs)

	assert.Equal(t, "b", recs[0].Category)
	assert.Equal(t, "d", recs[1].Category) // stable among equals
	assert.Equal(t, "c", recs[2].Category)
	assert.Equal(t, "a", recs[3].Category)
}

func TestScoreFitness(t *testing.T) {
	tests := []struct {
		name     string
		metrics  models.SubjectMetrics
		expected float64
	}{
		{
			name:     "perfect player",
			metrics:  models.SubjectMetrics{RatedCount: 5, AvgRating: 5, AttendanceRate: 1},
			expected: 1.0,
		},
		{
			name:     "unrated with full attendance",
			metrics:  models.SubjectMetrics{AttendanceRate: 1},
			expected: 0.7,
		},
		{
			name:     "no history at all",
			metrics:  models.SubjectMetrics{},
			expected: 0.5,
		},
		{
			name:     "average rating with half attendance",
			metrics:  models.SubjectMetrics{RatedCount: 3, AvgRating: 3, AttendanceRate: 0.5},
			expected: 0.5 + 0.5*0.3 + 0.5*0.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, scoreFitness(tt.metrics), 1e-9)
		})
	}
}

func TestSelectFormation(t *testing.T) {
	squad := func(scores ...float64) []models.PlayerFitness {
		out := make([]models.PlayerFitness, len(scores))
		for i, s := range scores {
			out[i].Score = s
		}
		return out
	}

	tests := []struct {
		name     string
		analysis []models.PlayerFitness
		expected string
	}{
		{"strong squad attacks", squad(0.9, 0.85, 0.8), "4-3-3"},
		{"average squad stays balanced", squad(0.7, 0.65, 0.7), "4-4-2"},
		{"weak squad defends", squad(0.5, 0.55), "5-3-2"},
		{"empty roster defaults", nil, "4-4-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, selectFormation(tt.analysis))
		})
	}
}

func TestOptimizeAssignment_Deterministic(t *testing.T) {
	att := &stubAttendance{
		team: []models.AttendanceRecord{
			{PlayerID: "p1", Status: models.StatusPresent, PerformanceRating: 5},
			{PlayerID: "p2", Status: models.StatusPresent, PerformanceRating: 5},
		},
	}
	sess := &stubSessions{roster: []models.Player{
		{ID: "p2", Name: "Bence"},
		{ID: "p1", Name: "Adam"},
	}}
	svc := newTestService(att, sess)

	first, err := svc.OptimizeAssignment(context.Background(), "t1")
	assert.NoError(t, err)
	assert.Equal(t, "4-3-3", first.OptimizedFormation)

	// Equal scores fall back to player ID order.
	assert.Equal(t, "p1", first.PositionAnalysis[0].PlayerID)
	assert.Equal(t, "p2", first.PositionAnalysis[1].PlayerID)

	second, err := svc.OptimizeAssignment(context.Background(), "t1")
	assert.NoError(t, err)
	assert.Equal(t, first.OptimizedFormation, second.OptimizedFormation)
	assert.Equal(t, first.PositionAnalysis, second.PositionAnalysis)
}

func TestDetectMilestones(t *testing.T) {
	day := func(n int) time.Time {
		return time.Date(2026, 8, n, 17, 0, 0, 0, time.UTC)
	}
	records := []models.AttendanceRecord{
		{Status: models.StatusPresent, Timestamp: day(1)},
		{Status: models.StatusPresent, Timestamp: day(3)},
		{Status: models.StatusPresent, Timestamp: day(5), PerformanceRating: 4.5},
		{Status: models.StatusPresent, Timestamp: day(8)},
		{Status: models.StatusPresent, Timestamp: day(10)},
	}
	svc := newTestService(&stubAttendance{player: records}, nil)

	milestones, err := svc.DetectMilestones(context.Background(), "p1", 8)

	assert.NoError(t, err)
	assert.Len(t, milestones, 2)
	assert.Equal(t, models.MilestoneAttendanceStreak, milestones[0].Kind)
	assert.Equal(t, 5, milestones[0].Value)
	assert.Equal(t, day(10), milestones[0].AchievedAt)
	assert.Equal(t, models.MilestoneRatingHigh, milestones[1].Kind)
	assert.Equal(t, day(5), milestones[1].AchievedAt)
}

func TestLongestStreak_ResetOnAbsence(t *testing.T) {
	records := []models.AttendanceRecord{
		{Status: models.StatusPresent},
		{Status: models.StatusPresent},
		{Status: models.StatusAbsent},
		{Status: models.StatusPresent},
		{Status: models.StatusPresent},
		{Status: models.StatusPresent},
	}

	streak, _ := longestStreak(records)

	assert.Equal(t, 3, streak)
}

func TestPredictGroupTrajectory_ClampsProjection(t *testing.T) {
	// Three fully attended sessions: flat 100% series, stable trend, so the
	// projection must not exceed the 0-100 range.
	var records []models.AttendanceRecord
	for i := 1; i <= 3; i++ {
		records = append(records, models.AttendanceRecord{
			SessionID: "s" + string(rune('0'+i)),
			Status:    models.StatusPresent,
			Timestamp: time.Date(2026, 8, i, 17, 0, 0, 0, time.UTC),
		})
	}
	svc := newTestService(&stubAttendance{team: records}, nil)

	result, err := svc.PredictGroupTrajectory(context.Background(), "t1", 4)

	assert.NoError(t, err)
	assert.InDelta(t, 100, result.CurrentMetrics.AttendanceRate, 1e-9)
	assert.LessOrEqual(t, result.Prediction.AttendanceRate, 100.0)
	assert.Equal(t, models.ConfidenceLow, result.ConfidenceLevel)
}

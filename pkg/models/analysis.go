package models

import "time"

type TrendDirection string

const (
	TrendImproving        TrendDirection = "improving"
	TrendDeclining        TrendDirection = "declining"
	TrendStable           TrendDirection = "stable"
	TrendInsufficientData TrendDirection = "insufficient_data"
)

// TrendResult is a derived value, recomputed on every analysis call.
// Direction is a pure function of Slope: >0.1 improving, <-0.1 declining,
// otherwise stable; fewer than two points yields insufficient_data.
type TrendResult struct {
	Direction TrendDirection `json:"direction"`
	Strength  float64        `json:"strength"` // 0-10
	Slope     float64        `json:"slope"`
}

type RiskSeverity string

const (
	RiskLow    RiskSeverity = "low"
	RiskMedium RiskSeverity = "medium"
	RiskHigh   RiskSeverity = "high"
)

type RiskFactor struct {
	Type        string       `json:"type"`
	Severity    RiskSeverity `json:"severity"`
	Description string       `json:"description"`
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank maps priorities onto a sortable scale: high=3, medium=2, low=1.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

type Recommendation struct {
	Category    string   `json:"category"`
	Priority    Priority `json:"priority"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ActionItems []string `json:"action_items"`
}

// SubjectMetrics summarizes a subject's raw records within the window.
type SubjectMetrics struct {
	SessionCount     int     `json:"session_count"`
	AttendedCount    int     `json:"attended_count"`
	AttendanceRate   float64 `json:"attendance_rate"` // 0-1
	LateCount        int     `json:"late_count"`
	LateRate         float64 `json:"late_rate"` // 0-1
	TotalLateMinutes int     `json:"total_late_minutes"`
	RatedCount       int     `json:"rated_count"`
	AvgRating        float64 `json:"avg_rating"` // 1-5, 0 when unrated
}

// SubjectAnalysis is the full output of a per-subject performance pass.
type SubjectAnalysis struct {
	SubjectID       string           `json:"subject_id"`
	SubjectType     SubjectType      `json:"subject_type"`
	WindowWeeks     int              `json:"window_weeks"`
	Metrics         SubjectMetrics   `json:"metrics"`
	AttendanceTrend TrendResult      `json:"attendance_trend"`
	RatingTrend     TrendResult      `json:"rating_trend"`
	RiskAssessment  []RiskFactor     `json:"risk_assessment"`
	Recommendations []Recommendation `json:"recommendations"`
	GeneratedAt     time.Time        `json:"generated_at"`
}

type BehaviorLabel string

const (
	BehaviorInconsistent       BehaviorLabel = "inconsistent"
	BehaviorPunctualityConcern BehaviorLabel = "punctuality_concern"
	BehaviorExemplary          BehaviorLabel = "exemplary"
	BehaviorReliable           BehaviorLabel = "reliable"
)

type BehaviorCluster struct {
	SubjectID      string        `json:"subject_id"`
	AttendanceRate float64       `json:"attendance_rate"`
	LateRate       float64       `json:"late_rate"`
	Label          BehaviorLabel `json:"label"`
}

// AttendanceBucket is one row of a grouped attendance aggregation, e.g. per
// day-of-week or per time band.
type AttendanceBucket struct {
	Key     string  `json:"key"`
	Present int     `json:"present"`
	Total   int     `json:"total"`
	Rate    float64 `json:"rate"` // 0-1
}

type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// ConfidenceForSamples buckets prediction confidence by sample size.
func ConfidenceForSamples(n int) ConfidenceLevel {
	switch {
	case n > 20:
		return ConfidenceHigh
	case n > 10:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

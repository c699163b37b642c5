package models

import "time"

// PatternSet groups a team's attendance records along the three fixed axes.
type PatternSet struct {
	ByDayOfWeek []AttendanceBucket `json:"by_day_of_week"`
	ByTimeBand  []AttendanceBucket `json:"by_time_band"`
	ByWeek      []AttendanceBucket `json:"by_week"`
}

// GroupPrediction is a naive forward projection: the expected rate equals the
// historical present-rate, with confidence bucketed by sample size.
type GroupPrediction struct {
	ExpectedRate float64         `json:"expected_rate"` // 0-1
	Confidence   ConfidenceLevel `json:"confidence"`
	SampleSize   int             `json:"sample_size"`
}

type GroupPatterns struct {
	TeamID      string            `json:"team_id"`
	WindowWeeks int               `json:"window_weeks"`
	Patterns    PatternSet        `json:"patterns"`
	Clusters    []BehaviorCluster `json:"clusters"`
	Predictions GroupPrediction   `json:"predictions"`
	Insights    []string          `json:"insights"`
	GeneratedAt time.Time         `json:"generated_at"`
}

type GroupMetrics struct {
	SessionCount   int     `json:"session_count"`
	AttendanceRate float64 `json:"attendance_rate"` // 0-100
	AvgRating      float64 `json:"avg_rating"`      // 1-5
}

type TrajectoryProjection struct {
	AttendanceRate float64 `json:"attendance_rate"` // 0-100
	AvgRating      float64 `json:"avg_rating"`      // 1-5
}

type TrajectoryPrediction struct {
	TeamID             string               `json:"team_id"`
	WeeksAhead         int                  `json:"weeks_ahead"`
	CurrentMetrics     GroupMetrics         `json:"current_metrics"`
	AttendanceTrend    TrendResult          `json:"attendance_trend"`
	RatingTrend        TrendResult          `json:"rating_trend"`
	Prediction         TrajectoryProjection `json:"prediction"`
	ConfidenceLevel    ConfidenceLevel      `json:"confidence_level"`
	RecommendedActions []string             `json:"recommended_actions"`
	GeneratedAt        time.Time            `json:"generated_at"`
}

// PlayerFitness scores one squad member for assignment optimization.
// Score = 0.5 base + performance bonus (max 0.3) + attendance bonus (max 0.2),
// capped at 1.0. Optimal at >= 0.8.
type PlayerFitness struct {
	PlayerID       string  `json:"player_id"`
	Name           string  `json:"name"`
	Position       string  `json:"position"`
	Score          float64 `json:"score"`
	Optimal        bool    `json:"optimal"`
	SuggestedRole  string  `json:"suggested_role,omitempty"`
	AttendanceRate float64 `json:"attendance_rate"`
	AvgRating      float64 `json:"avg_rating"`
}

type FormationPlan struct {
	TeamID             string           `json:"team_id"`
	PositionAnalysis   []PlayerFitness  `json:"position_analysis"`
	OptimizedFormation string           `json:"optimized_formation"`
	Recommendations    []Recommendation `json:"recommendations"`
	GeneratedAt        time.Time        `json:"generated_at"`
}

type SessionSlot struct {
	Day      string `json:"day"`       // Monday..Sunday
	TimeBand string `json:"time_band"` // morning, afternoon, evening
	Type     string `json:"type"`
}

type ScheduleRecommendation struct {
	TeamID       string          `json:"team_id"`
	WeeksAhead   int             `json:"weeks_ahead"`
	Slots        []SessionSlot   `json:"slots"`
	BestDay      string          `json:"best_day"`
	BestTimeBand string          `json:"best_time_band"`
	Confidence   ConfidenceLevel `json:"confidence"`
	Rationale    []string        `json:"rationale"`
	GeneratedAt  time.Time       `json:"generated_at"`
}

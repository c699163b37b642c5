package models

import "time"

type NotificationCategory string

const (
	CategoryTrainingReminder NotificationCategory = "training_reminder"
	CategoryCoachingTip      NotificationCategory = "coaching_tip"
	CategoryPerformanceAlert NotificationCategory = "performance_alert"
	CategoryMilestone        NotificationCategory = "milestone"
	CategoryProgressReport   NotificationCategory = "progress_report"
	CategoryLowAttendance    NotificationCategory = "low_attendance"
)

// Notification is a composed, transport-agnostic payload. Composers return
// these; the delivery queue decides how and when they leave the process.
type Notification struct {
	Category    NotificationCategory `json:"category"`
	Priority    Priority             `json:"priority"`
	Title       string               `json:"title"`
	Body        string               `json:"body"`
	ActionItems []string             `json:"action_items,omitempty"`
	SubjectID   string               `json:"subject_id,omitempty"`
	TeamID      string               `json:"team_id,omitempty"`
}

// Document is a rendered email-ready notification.
type Document struct {
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	HTMLBody string `json:"html_body,omitempty"`
}

type MilestoneKind string

const (
	MilestoneAttendanceStreak MilestoneKind = "attendance_streak"
	MilestoneSessionsPlayed   MilestoneKind = "sessions_played"
	MilestoneRatingHigh       MilestoneKind = "rating_high"
)

type Milestone struct {
	Kind       MilestoneKind `json:"kind"`
	Label      string        `json:"label"`
	Value      int           `json:"value"`
	AchievedAt time.Time     `json:"achieved_at"`
}

// ProgressReport is the weekly per-subject summary sent to parents and the
// aggregated variant sent to administrators.
type ProgressReport struct {
	SubjectID   string          `json:"subject_id"`
	SubjectName string          `json:"subject_name,omitempty"`
	WindowWeeks int             `json:"window_weeks"`
	Metrics     SubjectMetrics  `json:"metrics"`
	Trend       TrendResult     `json:"trend"`
	Highlights  []string        `json:"highlights,omitempty"`
	Concerns    []string        `json:"concerns,omitempty"`
	GeneratedAt time.Time       `json:"generated_at"`
}

package models

import (
	"encoding/json"
	"time"
)

type JobKind string

// The handler set is closed: each kind maps to exactly one registered handler.
const (
	JobTrainingReminder   JobKind = "training_reminder"
	JobWeeklyReport       JobKind = "weekly_report"
	JobWelcome            JobKind = "welcome"
	JobLowAttendanceAlert JobKind = "low_attendance_alert"
	JobAdminReport        JobKind = "admin_report"
	JobCustom             JobKind = "custom"
)

func ValidJobKind(k JobKind) bool {
	switch k {
	case JobTrainingReminder, JobWeeklyReport, JobWelcome,
		JobLowAttendanceAlert, JobAdminReport, JobCustom:
		return true
	}
	return false
}

type JobState string

const (
	JobQueued    JobState = "queued"
	JobActive    JobState = "active"
	JobCompleted JobState = "completed"
	JobFailed    JobState = "failed"
	JobStalled   JobState = "stalled"
)

type JobOptions struct {
	Delay    time.Duration `json:"delay"`
	Attempts int           `json:"attempts"` // retry budget, including the first run
	Backoff  time.Duration `json:"backoff"`  // base delay, doubled per attempt
}

// DeliveryJob is owned by the queue from enqueue until a terminal state.
// Payloads are never mutated in flight.
type DeliveryJob struct {
	ID          string          `json:"id"`
	Kind        JobKind         `json:"kind"`
	Payload     json.RawMessage `json:"payload"`
	Options     JobOptions      `json:"options"`
	State       JobState        `json:"state"`
	Attempts    int             `json:"attempts"`
	LastError   string          `json:"last_error,omitempty"`
	EnqueuedAt  time.Time       `json:"enqueued_at"`
	ReadyAt     time.Time       `json:"ready_at"`
	FinishedAt  *time.Time      `json:"finished_at,omitempty"`
	Fallback    bool            `json:"fallback,omitempty"` // executed synchronously, never hit the backend
}

// NextBackoff returns the delay before retry n (0-based): base * 2^n.
func (o JobOptions) NextBackoff(n int) time.Duration {
	d := o.Backoff
	if d <= 0 {
		d = time.Second
	}
	for i := 0; i < n; i++ {
		d *= 2
	}
	return d
}

// JobResult reports one item's outcome from a bulk enqueue in fallback mode.
type JobResult struct {
	JobID string  `json:"job_id"`
	Kind  JobKind `json:"kind"`
	OK    bool    `json:"ok"`
	Error string  `json:"error,omitempty"`
}

// QueueStats degrades gracefully: when the backend is unreachable all counts
// are zero and Available is false.
type QueueStats struct {
	Available bool  `json:"available"`
	Paused    bool  `json:"paused"`
	Queued    int64 `json:"queued"`
	Active    int64 `json:"active"`
	Delayed   int64 `json:"delayed"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}

package models

import "time"

type SubjectType string

const (
	SubjectPlayer SubjectType = "player"
	SubjectTeam   SubjectType = "team"
)

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusLate    AttendanceStatus = "late"
)

// Attended reports whether the player was on the pitch (late still counts).
func (s AttendanceStatus) Attended() bool {
	return s == StatusPresent || s == StatusLate
}

// AttendanceRecord is one raw observation read from the metrics store.
// Records are immutable once fetched; everything derived from them must be
// reproducible from the same record set.
type AttendanceRecord struct {
	SessionID         string           `json:"session_id"`
	PlayerID          string           `json:"player_id"`
	TeamID            string           `json:"team_id"`
	Status            AttendanceStatus `json:"status"`
	LateMinutes       int              `json:"late_minutes"`
	PerformanceRating float64          `json:"performance_rating"` // 1-5, 0 means unrated
	Timestamp         time.Time        `json:"timestamp"`
	SessionType       string           `json:"session_type"`
	SessionDuration   int              `json:"session_duration"` // minutes
}

func (r AttendanceRecord) Rated() bool {
	return r.PerformanceRating > 0
}

type Session struct {
	ID       string    `json:"id"`
	TeamID   string    `json:"team_id"`
	Date     time.Time `json:"date"`
	Time     string    `json:"time"` // HH:MM local
	Type     string    `json:"type"`
	Duration int       `json:"duration"` // minutes
}

type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Player struct {
	ID       string `json:"id"`
	TeamID   string `json:"team_id"`
	Name     string `json:"name"`
	Position string `json:"position"`
}

type Recipient struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"` // admin, coach, parent
}

// RecipientPreferences gates which notification categories reach a recipient.
type RecipientPreferences struct {
	RecipientID  string          `json:"recipient_id"`
	EmailEnabled bool            `json:"email_enabled"`
	Categories   map[string]bool `json:"categories"`
}

// Wants reports whether the recipient accepts the given category. The channel
// must be enabled and the category must not be explicitly switched off.
func (p RecipientPreferences) Wants(category string) bool {
	if !p.EmailEnabled {
		return false
	}
	enabled, ok := p.Categories[category]
	if !ok {
		return true
	}
	return enabled
}

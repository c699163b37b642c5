package models

import "time"

type EventType string

const (
	EventTypeAnalysisCompleted    EventType = "analysis_completed"
	EventTypeNotificationEnqueued EventType = "notification_enqueued"
	EventTypeDeliveryCompleted    EventType = "delivery_completed"
	EventTypeDeliveryFailed       EventType = "delivery_failed"
	EventTypeDeliveryStalled      EventType = "delivery_stalled"
	EventTypeTriggerFired         EventType = "trigger_fired"
	EventTypeTriggerFailed        EventType = "trigger_failed"
	EventTypeAlert                EventType = "alert"
	EventTypeError                EventType = "error"
)

type EventSeverity string

const (
	SeverityInfo     EventSeverity = "info"
	SeverityWarning  EventSeverity = "warning"
	SeverityCritical EventSeverity = "critical"
)

// Event represents an internal system event
type Event struct {
	ID        string        `json:"id"`
	Type      EventType     `json:"type"`
	Severity  EventSeverity `json:"severity"`
	TeamID    string        `json:"team_id,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Message   string        `json:"message"`
	Data      interface{}   `json:"data,omitempty"`
	TraceID   string        `json:"trace_id,omitempty"`
}

func NewEvent(eventType EventType, teamID, message string) *Event {
	return &Event{
		ID:        NewUUID(),
		Type:      eventType,
		Severity:  SeverityInfo,
		TeamID:    teamID,
		Timestamp: time.Now(),
		Message:   message,
	}
}

func (e *Event) WithSeverity(severity EventSeverity) *Event {
	e.Severity = severity
	return e
}

func (e *Event) WithData(data interface{}) *Event {
	e.Data = data
	return e
}

func (e *Event) WithTraceID(traceID string) *Event {
	e.TraceID = traceID
	return e
}

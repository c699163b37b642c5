package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/footballinvestment/lion-football-academy/internal/logger"
	"github.com/footballinvestment/lion-football-academy/pkg/models"
)

// EventBridge forwards pipeline events to connected dashboard clients.
type EventBridge struct {
	hub        *Hub
	eventsChan <-chan *models.Event
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewEventBridge(hub *Hub, eventsChan <-chan *models.Event) *EventBridge {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventBridge{
		hub:        hub,
		eventsChan: eventsChan,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (b *EventBridge) Start() {
	go b.run()
	logger.Info("WebSocket event bridge started")
}

func (b *EventBridge) Stop() {
	b.cancel()
	logger.Info("WebSocket event bridge stopped")
}

func (b *EventBridge) run() {
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.eventsChan:
			if !ok {
				logger.Info("Event channel closed, stopping bridge")
				return
			}
			b.forwardEvent(event)
		}
	}
}

func (b *EventBridge) forwardEvent(event *models.Event) {
	wsMessage := b.convertToWSMessage(event)
	if wsMessage == nil {
		return
	}

	data, err := json.Marshal(wsMessage)
	if err != nil {
		logger.Errorf("Failed to marshal WebSocket message: %v", err)
		return
	}

	// Team-scoped events go to subscribers only; everything else is global.
	if event.TeamID != "" {
		b.hub.BroadcastToTeam(event.TeamID, data)
	} else {
		b.hub.Broadcast(data)
	}
}

// WebSocketEvent is the message format sent to clients.
type WebSocketEvent struct {
	Type      MessageType `json:"type"`
	TeamID    string      `json:"team_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Severity  string      `json:"severity,omitempty"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

func (b *EventBridge) convertToWSMessage(event *models.Event) *WebSocketEvent {
	wsType := mapEventType(event.Type)
	if wsType == "" {
		return nil
	}

	return &WebSocketEvent{
		Type:      wsType,
		TeamID:    event.TeamID,
		Timestamp: event.Timestamp,
		Severity:  string(event.Severity),
		Message:   event.Message,
		Data:      event.Data,
	}
}

func mapEventType(eventType models.EventType) MessageType {
	switch eventType {
	case models.EventTypeAnalysisCompleted:
		return MessageTypeAnalysis
	case models.EventTypeNotificationEnqueued:
		return MessageTypeEnqueued
	case models.EventTypeDeliveryCompleted, models.EventTypeDeliveryFailed, models.EventTypeDeliveryStalled:
		return MessageTypeDeliveryUpdate
	case models.EventTypeTriggerFired, models.EventTypeTriggerFailed:
		return MessageTypeTriggerUpdate
	case models.EventTypeAlert:
		return MessageTypeAlert
	case models.EventTypeError:
		return MessageTypeError
	default:
		return ""
	}
}

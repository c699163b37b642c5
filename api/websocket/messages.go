package websocket

import (
	"encoding/json"
	"time"

	"github.com/footballinvestment/lion-football-academy/pkg/models"
)

type MessageType string

const (
	MessageTypeAnalysis       MessageType = "analysis"
	MessageTypeEnqueued       MessageType = "notification_enqueued"
	MessageTypeDeliveryUpdate MessageType = "delivery_update"
	MessageTypeTriggerUpdate  MessageType = "trigger_update"
	MessageTypeQueueStats     MessageType = "queue_stats"
	MessageTypeAlert          MessageType = "alert"
	MessageTypeError          MessageType = "error"
)

type OutgoingMessage struct {
	Type      MessageType `json:"type"`
	TeamID    string      `json:"team_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

func NewMessage(msgType MessageType, teamID string, data interface{}) *OutgoingMessage {
	return &OutgoingMessage{
		Type:      msgType,
		TeamID:    teamID,
		Timestamp: time.Now(),
		Data:      data,
	}
}

func (m *OutgoingMessage) JSON() []byte {
	data, _ := json.Marshal(m)
	return data
}

// BroadcastQueueStats pushes a queue snapshot to every connected client.
func BroadcastQueueStats(hub *Hub, stats models.QueueStats) {
	msg := NewMessage(MessageTypeQueueStats, "", stats)
	hub.Broadcast(msg.JSON())
}

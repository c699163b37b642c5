package websocket

import (
	"sync"
	"time"

	"github.com/footballinvestment/lion-football-academy/internal/logger"
	"github.com/footballinvestment/lion-football-academy/pkg/config"
)

const (
	defaultBroadcastBuffer = 256
	defaultClientBuffer    = 256
	defaultWriteTimeout    = 10 * time.Second
	defaultPongTimeout     = 60 * time.Second
	defaultMaxMessageSize  = 512
)

// Settings are the per-connection tunables resolved from configuration.
type Settings struct {
	WriteTimeout   time.Duration
	PongTimeout    time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64
	ClientBuffer   int
}

func NewSettings(cfg config.WebSocketConfig) *Settings {
	s := &Settings{
		WriteTimeout:   cfg.WriteTimeout,
		PongTimeout:    cfg.PongTimeout,
		MaxMessageSize: cfg.MaxMessageSize,
		ClientBuffer:   cfg.ClientBuffer,
	}
	if s.WriteTimeout <= 0 {
		s.WriteTimeout = defaultWriteTimeout
	}
	if s.PongTimeout <= 0 {
		s.PongTimeout = defaultPongTimeout
	}
	if s.MaxMessageSize <= 0 {
		s.MaxMessageSize = defaultMaxMessageSize
	}
	if s.ClientBuffer <= 0 {
		s.ClientBuffer = defaultClientBuffer
	}
	s.PingInterval = cfg.PingInterval
	if s.PingInterval <= 0 {
		s.PingInterval = (s.PongTimeout * 9) / 10
	}
	return s
}

// Hub fans pipeline events out to connected dashboard clients. Clients may
// subscribe to a single team; unscoped broadcasts reach everyone.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	settings   *Settings
}

func NewHub(cfg config.WebSocketConfig) *Hub {
	broadcastBuffer := cfg.BroadcastBuffer
	if broadcastBuffer <= 0 {
		broadcastBuffer = defaultBroadcastBuffer
	}

	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		settings:   NewSettings(cfg),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logger.Infof("WebSocket client connected (total: %d)", h.ClientCount())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			logger.Infof("WebSocket client disconnected (total: %d)", h.ClientCount())

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		logger.Warn("Broadcast channel full, dropping message")
	}
}

// BroadcastToTeam delivers only to clients subscribed to the team.
func (h *Hub) BroadcastToTeam(teamID string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if client.teamID == teamID {
			select {
			case client.send <- message:
			default:
			}
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

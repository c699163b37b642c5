package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/footballinvestment/lion-football-academy/internal/queue"
)

// QueueHandler exposes the queue's administrative surface.
type QueueHandler struct {
	client queue.Client
}

func NewQueueHandler(client queue.Client) *QueueHandler {
	return &QueueHandler{client: client}
}

func (h *QueueHandler) Stats(c *gin.Context) {
	stats := h.client.Stats(c.Request.Context())
	respondOK(c, "queue_stats", stats)
}

func (h *QueueHandler) RetryFailed(c *gin.Context) {
	retried, err := h.client.RetryFailed(c.Request.Context())
	if err != nil {
		respondError(c, "queue_retry_failed", err)
		return
	}
	respondOK(c, "queue_retry_failed", gin.H{"retried": retried})
}

type cleanRequest struct {
	MaxAgeCompleted string `json:"max_age_completed"`
	MaxAgeFailed    string `json:"max_age_failed"`
}

func (h *QueueHandler) Clean(c *gin.Context) {
	// Body is optional; defaults apply when absent or malformed.
	var req cleanRequest
	_ = c.ShouldBindJSON(&req)

	maxCompleted := parseAge(req.MaxAgeCompleted, 24*time.Hour)
	maxFailed := parseAge(req.MaxAgeFailed, 7*24*time.Hour)

	removed, err := h.client.Clean(c.Request.Context(), maxCompleted, maxFailed)
	if err != nil {
		respondError(c, "queue_clean", err)
		return
	}
	respondOK(c, "queue_clean", gin.H{"removed": removed})
}

func parseAge(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func (h *QueueHandler) Pause(c *gin.Context) {
	if err := h.client.Pause(c.Request.Context()); err != nil {
		respondError(c, "queue_pause", err)
		return
	}
	respondOK(c, "queue_pause", gin.H{"paused": true})
}

func (h *QueueHandler) Resume(c *gin.Context) {
	if err := h.client.Resume(c.Request.Context()); err != nil {
		respondError(c, "queue_resume", err)
		return
	}
	respondOK(c, "queue_resume", gin.H{"paused": false})
}

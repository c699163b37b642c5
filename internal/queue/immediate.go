package queue

import (
	"context"
	"time"

	"github.com/footballinvestment/lion-football-academy/internal/events"
	"github.com/footballinvestment/lion-football-academy/internal/logger"
	"github.com/footballinvestment/lion-football-academy/pkg/config"
	"github.com/footballinvestment/lion-football-academy/pkg/models"
)

// ImmediateClient runs handlers synchronously at enqueue time. There is no
// persistence and no retry: the caller gets the handler's result directly.
// This is the degraded-mode contract when the durable backend is unreachable,
// not silent data loss.
type ImmediateClient struct {
	registry  *Registry
	config    config.QueueConfig
	publisher *events.Publisher
}

func NewImmediateClient(registry *Registry, cfg config.QueueConfig, publisher *events.Publisher) *ImmediateClient {
	return &ImmediateClient{
		registry:  registry,
		config:    cfg,
		publisher: publisher,
	}
}

func (c *ImmediateClient) Enqueue(ctx context.Context, kind models.JobKind, payload interface{}, opts models.JobOptions) (*models.DeliveryJob, error) {
	job, err := newJob(kind, payload, opts, c.config)
	if err != nil {
		return nil, err
	}
	job.Fallback = true

	if err := c.run(ctx, job); err != nil {
		return job, err
	}
	return job, nil
}

func (c *ImmediateClient) EnqueueBulk(ctx context.Context, requests []JobRequest) []models.JobResult {
	results := make([]models.JobResult, 0, len(requests))
	for _, req := range requests {
		job, err := c.Enqueue(ctx, req.Kind, req.Payload, req.Options)
		result := models.JobResult{Kind: req.Kind, OK: err == nil}
		if job != nil {
			result.JobID = job.ID
		}
		if err != nil {
			result.Error = err.Error()
		}
		results = append(results, result)
	}
	return results
}

func (c *ImmediateClient) run(ctx context.Context, job *models.DeliveryJob) error {
	handlerCtx := ctx
	if c.config.HandlerTimeout > 0 {
		var cancel context.CancelFunc
		handlerCtx, cancel = context.WithTimeout(ctx, c.config.HandlerTimeout)
		defer cancel()
	}

	job.State = models.JobActive
	job.Attempts = 1

	err := c.registry.Dispatch(handlerCtx, job)
	now := time.Now()
	job.FinishedAt = &now

	if err != nil {
		job.State = models.JobFailed
		job.LastError = err.Error()
		logger.WithJob(job.ID).Errorf("Immediate job %s failed: %v", job.Kind, err)
		c.publisher.DeliveryFailed(job, err)
		return err
	}

	job.State = models.JobCompleted
	logger.WithJob(job.ID).Debugf("Immediate job %s completed", job.Kind)
	c.publisher.DeliveryCompleted(job)
	return nil
}

// Stats reports the backend as unavailable; nothing is queued in this mode.
func (c *ImmediateClient) Stats(ctx context.Context) models.QueueStats {
	return models.QueueStats{Available: false}
}

func (c *ImmediateClient) RetryFailed(ctx context.Context) (int, error) {
	return 0, nil
}

func (c *ImmediateClient) Clean(ctx context.Context, maxAgeCompleted, maxAgeFailed time.Duration) (int, error) {
	return 0, nil
}

func (c *ImmediateClient) Pause(ctx context.Context) error {
	return nil
}

func (c *ImmediateClient) Resume(ctx context.Context) error {
	return nil
}

func (c *ImmediateClient) Close() error {
	return nil
}

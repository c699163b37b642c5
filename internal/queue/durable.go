package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/footballinvestment/lion-football-academy/internal/events"
	"github.com/footballinvestment/lion-football-academy/internal/logger"
	"github.com/footballinvestment/lion-football-academy/internal/resilience"
	"github.com/footballinvestment/lion-football-academy/pkg/config"
	"github.com/footballinvestment/lion-football-academy/pkg/models"
)

// DurableClient persists jobs in Redis. Key layout under the configured
// prefix:
//
//	<prefix>:pending    list of job IDs ready to run
//	<prefix>:delayed    zset, score = ready-at unix seconds
//	<prefix>:active     zset, score = heartbeat deadline unix seconds
//	<prefix>:completed  zset, score = finished-at unix seconds
//	<prefix>:failed     zset, score = finished-at unix seconds
//	<prefix>:job:<id>   job JSON
//	<prefix>:paused     flag key
//
// A circuit breaker guards the enqueue path. When Redis rejects an enqueue
// (or the breaker is open), the job runs synchronously through the same
// handler logic, so the caller still gets a result.
type DurableClient struct {
	rdb       *redis.Client
	registry  *Registry
	config    config.QueueConfig
	publisher *events.Publisher
	breaker   *resilience.CircuitBreaker
	fallback  *ImmediateClient
}

func NewDurableClient(rdb *redis.Client, registry *Registry, cfg config.QueueConfig, publisher *events.Publisher) *DurableClient {
	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:        "queue-backend",
		MaxFailures: cfg.CircuitBreaker.MaxFailures,
		Timeout:     cfg.CircuitBreaker.Timeout,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warnf("Circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	return &DurableClient{
		rdb:       rdb,
		registry:  registry,
		config:    cfg,
		publisher: publisher,
		breaker:   breaker,
		fallback:  NewImmediateClient(registry, cfg, publisher),
	}
}

func (c *DurableClient) key(parts ...string) string {
	k := c.config.KeyPrefix
	for _, p := range parts {
		k += ":" + p
	}
	return k
}

func (c *DurableClient) jobKey(id string) string {
	return c.key("job", id)
}

func (c *DurableClient) Enqueue(ctx context.Context, kind models.JobKind, payload interface{}, opts models.JobOptions) (*models.DeliveryJob, error) {
	job, err := newJob(kind, payload, opts, c.config)
	if err != nil {
		return nil, err
	}

	pushErr := c.breaker.Execute(func() error {
		return c.push(ctx, job)
	})
	if pushErr != nil {
		logger.WithJob(job.ID).Warnf("Enqueue failed (%v), running job synchronously", pushErr)
		job.Fallback = true
		if runErr := c.fallback.run(ctx, job); runErr != nil {
			return job, runErr
		}
		return job, nil
	}

	c.publisher.NotificationEnqueued("", job)
	return job, nil
}

func (c *DurableClient) push(ctx context.Context, job *models.DeliveryJob) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	pipe := c.rdb.TxPipeline()
	pipe.Set(ctx, c.jobKey(job.ID), raw, 0)
	if job.Options.Delay > 0 {
		pipe.ZAdd(ctx, c.key("delayed"), redis.Z{
			Score:  float64(job.ReadyAt.Unix()),
			Member: job.ID,
		})
	} else {
		pipe.LPush(ctx, c.key("pending"), job.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push job: %w", err)
	}
	return nil
}

func (c *DurableClient) EnqueueBulk(ctx context.Context, requests []JobRequest) []models.JobResult {
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

func (c *DurableClient) Stats(ctx context.Context) models.QueueStats {
	pipe := c.rdb.Pipeline()
	pending := pipe.LLen(ctx, c.key("pending"))
	active := pipe.ZCard(ctx, c.key("active"))
	delayed := pipe.ZCard(ctx, c.key("delayed"))
	completed := pipe.ZCard(ctx, c.key("completed"))
	failed := pipe.ZCard(ctx, c.key("failed"))
	paused := pipe.Exists(ctx, c.key("paused"))

	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warnf("Queue stats unavailable: %v", err)
		return models.QueueStats{Available: false}
	}

	return models.QueueStats{
		Available: true,
		Paused:    paused.Val() > 0,
		Queued:    pending.Val(),
		Active:    active.Val(),
		Delayed:   delayed.Val(),
		Completed: completed.Val(),
		Failed:    failed.Val(),
	}
}

func (c *DurableClient) RetryFailed(ctx context.Context) (int, error) {
	ids, err := c.rdb.ZRange(ctx, c.key("failed"), 0, -1).Result()
	if err != nil {
		return 0, fmt.Errorf("list failed jobs: %w", err)
	}

	retried := 0
	for _, id := range ids {
		job, err := c.loadJob(ctx, id)
		if err != nil {
			if errors.Is(err, ErrJobNotFound) {
				c.rdb.ZRem(ctx, c.key("failed"), id)
				continue
			}
			return retried, err
		}

		job.State = models.JobQueued
		job.Attempts = 0
		job.LastError = ""
		job.FinishedAt = nil

		if err := c.storeJob(ctx, job); err != nil {
			return retried, err
		}
		pipe := c.rdb.TxPipeline()
		pipe.ZRem(ctx, c.key("failed"), id)
		pipe.LPush(ctx, c.key("pending"), id)
		if _, err := pipe.Exec(ctx); err != nil {
			return retried, fmt.Errorf("requeue job %s: %w", id, err)
		}
		retried++
	}

	logger.Infof("Retried %d failed jobs", retried)
	return retried, nil
}

func (c *DurableClient) Clean(ctx context.Context, maxAgeCompleted, maxAgeFailed time.Duration) (int, error) {
	removed, err := c.cleanSet(ctx, c.key("completed"), maxAgeCompleted)
	if err != nil {
		return removed, err
	}
	n, err := c.cleanSet(ctx, c.key("failed"), maxAgeFailed)
	removed += n
	return removed, err
}

func (c *DurableClient) cleanSet(ctx context.Context, setKey string, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		return 0, nil
	}
	cutoff := strconv.FormatInt(time.Now().Add(-maxAge).Unix(), 10)

	ids, err := c.rdb.ZRangeByScore(ctx, setKey, &redis.ZRangeBy{Min: "-inf", Max: cutoff}).Result()
	if err != nil {
		return 0, fmt.Errorf("list expired jobs: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	pipe := c.rdb.TxPipeline()
	for _, id := range ids {
		pipe.Del(ctx, c.jobKey(id))
		pipe.ZRem(ctx, setKey, id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("clean jobs: %w", err)
	}
	return len(ids), nil
}

func (c *DurableClient) Pause(ctx context.Context) error {
	if err := c.rdb.Set(ctx, c.key("paused"), "1", 0).Err(); err != nil {
		return fmt.Errorf("pause queue: %w", err)
	}
	logger.Info("Queue paused")
	return nil
}

func (c *DurableClient) Resume(ctx context.Context) error {
	if err := c.rdb.Del(ctx, c.key("paused")).Err(); err != nil {
		return fmt.Errorf("resume queue: %w", err)
	}
	logger.Info("Queue resumed")
	return nil
}

func (c *DurableClient) Close() error {
	return c.rdb.Close()
}

func (c *DurableClient) loadJob(ctx context.Context, id string) (*models.DeliveryJob, error) {
	raw, err := c.rdb.Get(ctx, c.jobKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
		}
		return nil, fmt.Errorf("load job %s: %w", id, err)
	}

	var job models.DeliveryJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return &job, nil
}

func (c *DurableClient) storeJob(ctx context.Context, job *models.DeliveryJob) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := c.rdb.Set(ctx, c.jobKey(job.ID), raw, 0).Err(); err != nil {
		return fmt.Errorf("store job %s: %w", job.ID, err)
	}
	return nil
}

package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/footballinvestment/lion-football-academy/internal/events"
	"github.com/footballinvestment/lion-football-academy/internal/logger"
	"github.com/footballinvestment/lion-football-academy/pkg/config"
	"github.com/footballinvestment/lion-football-academy/pkg/models"
)

var (
	ErrUnknownJobKind = errors.New("unknown job kind")
	ErrJobNotFound    = errors.New("job not found")
)

// Handler processes one delivery job. Returning an error marks the attempt
// failed; the durable client retries with backoff until the budget runs out.
type Handler func(ctx context.Context, job *models.DeliveryJob) error

// Client is the delivery queue surface. Two implementations exist: a durable
// Redis-backed one and a synchronous immediate one used when the backend is
// unreachable at startup.
type Client interface {
	Enqueue(ctx context.Context, kind models.JobKind, payload interface{}, opts models.JobOptions) (*models.DeliveryJob, error)
	EnqueueBulk(ctx context.Context, jobs []JobRequest) []models.JobResult
	Stats(ctx context.Context) models.QueueStats
	RetryFailed(ctx context.Context) (int, error)
	Clean(ctx context.Context, maxAgeCompleted, maxAgeFailed time.Duration) (int, error)
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Close() error
}

// JobRequest is one item of a bulk enqueue.
type JobRequest struct {
	Kind    models.JobKind
	Payload interface{}
	Options models.JobOptions
}

// Registry holds the closed handler set. Registration is only valid for the
// fixed job kinds; there is no open-ended plugin dispatch.
type Registry struct {
	handlers map[models.JobKind]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[models.JobKind]Handler)}
}

func (r *Registry) Register(kind models.JobKind, h Handler) error {
	if !models.ValidJobKind(kind) {
		return fmt.Errorf("%w: %s", ErrUnknownJobKind, kind)
	}
	if _, exists := r.handlers[kind]; exists {
		return fmt.Errorf("handler already registered for kind %s", kind)
	}
	r.handlers[kind] = h
	return nil
}

func (r *Registry) Dispatch(ctx context.Context, job *models.DeliveryJob) error {
	h, ok := r.handlers[job.Kind]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJobKind, job.Kind)
	}
	return h(ctx, job)
}

// Connect probes the Redis backend and selects the client implementation.
// An unreachable backend is not an error: the service runs in degraded mode
// with synchronous immediate processing.
func Connect(ctx context.Context, queueCfg config.QueueConfig, redisCfg config.RedisConfig, registry *Registry, publisher *events.Publisher) (Client, *redis.Client) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         redisCfg.Addr,
		Password:     redisCfg.Password,
		DB:           redisCfg.DB,
		DialTimeout:  redisCfg.DialTimeout,
		ReadTimeout:  redisCfg.ReadTimeout,
		WriteTimeout: redisCfg.WriteTimeout,
		PoolSize:     redisCfg.PoolSize,
	})

	probeCtx, cancel := context.WithTimeout(ctx, queueCfg.ProbeTimeout)
	defer cancel()

	if err := rdb.Ping(probeCtx).Err(); err != nil {
		logger.Warnf("Queue backend unreachable, falling back to immediate processing: %v", err)
		_ = rdb.Close()
		return NewImmediateClient(registry, queueCfg, publisher), nil
	}

	logger.Infof("Queue backend connected at %s", redisCfg.Addr)
	return NewDurableClient(rdb, registry, queueCfg, publisher), rdb
}

func newJob(kind models.JobKind, payload interface{}, opts models.JobOptions, defaults config.QueueConfig) (*models.DeliveryJob, error) {
	if !models.ValidJobKind(kind) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownJobKind, kind)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	if opts.Attempts <= 0 {
		opts.Attempts = defaults.Attempts
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaults.Backoff
	}

	now := time.Now()
	return &models.DeliveryJob{
		ID:         models.NewUUID(),
		Kind:       kind,
		Payload:    raw,
		Options:    opts,
		State:      models.JobQueued,
		EnqueuedAt: now,
		ReadyAt:    now.Add(opts.Delay),
	}, nil
}

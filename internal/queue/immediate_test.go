package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/footballinvestment/lion-football-academy/pkg/config"
	"github.com/footballinvestment/lion-football-academy/pkg/models"
)

func testQueueConfig() config.QueueConfig {
	return config.QueueConfig{
		KeyPrefix: "academy:test",
		Attempts:  3,
		Backoff:   0, // defaults applied per-job
	}
}

func TestRegistry(t *testing.T) {
	t.Run("register and dispatch", func(t *testing.T) {
		r := NewRegistry()
		called := false
		err := r.Register(models.JobWelcome, func(_ context.Context, _ *models.DeliveryJob) error {
			called = true
			return nil
		})
		assert.NoError(t, err)

		err = r.Dispatch(context.Background(), &models.DeliveryJob{Kind: models.JobWelcome})
		assert.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		r := NewRegistry()
		err := r.Register(models.JobKind("not-a-kind"), nil)
		assert.ErrorIs(t, err, ErrUnknownJobKind)
	})

	t.Run("rejects duplicate registration", func(t *testing.T) {
		r := NewRegistry()
		noop := func(_ context.Context, _ *models.DeliveryJob) error { return nil }
		assert.NoError(t, r.Register(models.JobWelcome, noop))
		assert.Error(t, r.Register(models.JobWelcome, noop))
	})

	t.Run("dispatch without handler fails", func(t *testing.T) {
		r := NewRegistry()
		err := r.Dispatch(context.Background(), &models.DeliveryJob{Kind: models.JobCustom})
		assert.ErrorIs(t, err, ErrUnknownJobKind)
	})
}

func TestImmediateClient_Enqueue(t *testing.T) {
	t.Run("runs the handler synchronously", func(t *testing.T) {
		r := NewRegistry()
		var got json.RawMessage
		_ = r.Register(models.JobWelcome, func(_ context.Context, job *models.DeliveryJob) error {
			got = job.Payload
			return nil
		})
		client := NewImmediateClient(r, testQueueConfig(), nil)

		job, err := client.Enqueue(context.Background(), models.JobWelcome,
			map[string]string{"team": "U12"}, models.JobOptions{})

		assert.NoError(t, err)
		assert.True(t, job.Fallback)
		assert.Equal(t, models.JobCompleted, job.State)
		assert.Equal(t, 1, job.Attempts)
		assert.NotNil(t, job.FinishedAt)
		assert.JSONEq(t, `{"team":"U12"}`, string(got))
	})

	t.Run("handler failure surfaces to the caller", func(t *testing.T) {
		r := NewRegistry()
		handlerErr := errors.New("smtp timeout")
		_ = r.Register(models.JobWelcome, func(_ context.Context, _ *models.DeliveryJob) error {
			return handlerErr
		})
		client := NewImmediateClient(r, testQueueConfig(), nil)

		job, err := client.Enqueue(context.Background(), models.JobWelcome, nil, models.JobOptions{})

		assert.ErrorIs(t, err, handlerErr)
		assert.Equal(t, models.JobFailed, job.State)
		assert.Equal(t, "smtp timeout", job.LastError)
	})

	t.Run("unknown kind never reaches a handler", func(t *testing.T) {
		client := NewImmediateClient(NewRegistry(), testQueueConfig(), nil)

		job, err := client.Enqueue(context.Background(), models.JobKind("bogus"), nil, models.JobOptions{})

		assert.Nil(t, job)
		assert.ErrorIs(t, err, ErrUnknownJobKind)
	})

	t.Run("applies default retry options", func(t *testing.T) {
		r := NewRegistry()
		_ = r.Register(models.JobWelcome, func(_ context.Context, _ *models.DeliveryJob) error { return nil })
		client := NewImmediateClient(r, config.QueueConfig{Attempts: 5, Backoff: 2 * time.Second}, nil)

		job, err := client.Enqueue(context.Background(), models.JobWelcome, nil, models.JobOptions{})

		assert.NoError(t, err)
		assert.Equal(t, 5, job.Options.Attempts)
		assert.Equal(t, 2*time.Second, job.Options.Backoff)
	})
}

func TestImmediateClient_EnqueueBulk(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(models.JobWelcome, func(_ context.Context, _ *models.DeliveryJob) error { return nil })
	_ = r.Register(models.JobCustom, func(_ context.Context, _ *models.DeliveryJob) error {
		return errors.New("boom")
	})
	client := NewImmediateClient(r, testQueueConfig(), nil)

	results := client.EnqueueBulk(context.Background(), []JobRequest{
		{Kind: models.JobWelcome},
		{Kind: models.JobCustom},
		{Kind: models.JobWelcome},
	})

	// One failure must not abort the rest of the batch.
	assert.Len(t, results, 3)
	assert.True(t, results[0].OK)
	assert.False(t, results[1].OK)
	assert.Equal(t, "boom", results[1].Error)
	assert.True(t, results[2].OK)
	assert.NotEmpty(t, results[0].JobID)
}

func TestImmediateClient_DegradedStats(t *testing.T) {
	client := NewImmediateClient(NewRegistry(), testQueueConfig(), nil)

	stats := client.Stats(context.Background())
	assert.False(t, stats.Available)
	assert.Zero(t, stats.Queued)

	retried, err := client.RetryFailed(context.Background())
	assert.NoError(t, err)
	assert.Zero(t, retried)

	cleaned, err := client.Clean(context.Background(), 0, 0)
	assert.NoError(t, err)
	assert.Zero(t, cleaned)

	assert.NoError(t, client.Pause(context.Background()))
	assert.NoError(t, client.Resume(context.Background()))
	assert.NoError(t, client.Close())
}

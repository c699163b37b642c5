package queue

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/footballinvestment/lion-football-academy/internal/logger"
	"github.com/footballinvestment/lion-football-academy/pkg/models"
)

// Worker drains the pending list of a durable queue. It refreshes a
// heartbeat while a job runs; a separate sweep loop promotes due delayed
// jobs and re-queues jobs whose heartbeat expired (the worker died mid-job).
type Worker struct {
	client *DurableClient
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewWorker(client *DurableClient) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		client: client,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (w *Worker) Start() {
	w.wg.Add(2)
	go w.runLoop()
	go w.sweepLoop()
	logger.Info("Queue worker started")
}

func (w *Worker) Stop() {
	w.cancel()
	w.wg.Wait()
	logger.Info("Queue worker stopped")
}

func (w *Worker) runLoop() {
	defer w.wg.Done()

	for {
		if w.ctx.Err() != nil {
			return
		}

		if w.paused() {
			select {
			case <-w.ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		id, err := w.client.rdb.BRPop(w.ctx, time.Second, w.client.key("pending")).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			logger.Errorf("Queue pop failed: %v", err)
			select {
			case <-w.ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		// BRPop returns [key, value]
		if len(id) < 2 {
			continue
		}
		w.process(id[1])
	}
}

func (w *Worker) paused() bool {
	n, err := w.client.rdb.Exists(w.ctx, w.client.key("paused")).Result()
	return err == nil && n > 0
}

func (w *Worker) process(jobID string) {
	job, err := w.client.loadJob(w.ctx, jobID)
	if err != nil {
		logger.WithJob(jobID).Errorf("Load job failed: %v", err)
		return
	}

	job.State = models.JobActive
	job.Attempts++
	if err := w.client.storeJob(w.ctx, job); err != nil {
		logger.WithJob(jobID).Errorf("Store job failed: %v", err)
	}
	w.setHeartbeat(jobID)

	stopHeartbeat := w.keepAlive(jobID)
	defer stopHeartbeat()

	handlerCtx := w.ctx
	if timeout := w.client.config.HandlerTimeout; timeout > 0 {
		var cancel context.CancelFunc
		handlerCtx, cancel = context.WithTimeout(w.ctx, timeout)
		defer cancel()
	}

	handlerErr := w.client.registry.Dispatch(handlerCtx, job)
	w.client.rdb.ZRem(w.ctx, w.client.key("active"), jobID)

	if handlerErr != nil {
		w.handleFailure(job, handlerErr)
		return
	}

	now := time.Now()
	job.State = models.JobCompleted
	job.FinishedAt = &now
	if err := w.client.storeJob(w.ctx, job); err != nil {
		logger.WithJob(jobID).Errorf("Store job failed: %v", err)
	}
	w.client.rdb.ZAdd(w.ctx, w.client.key("completed"), redis.Z{
		Score:  float64(now.Unix()),
		Member: jobID,
	})
	w.client.publisher.DeliveryCompleted(job)
	logger.WithJob(jobID).Debugf("Job %s completed", job.Kind)
}

func (w *Worker) handleFailure(job *models.DeliveryJob, handlerErr error) {
	job.LastError = handlerErr.Error()

	if job.Attempts < job.Options.Attempts {
		delay := job.Options.NextBackoff(job.Attempts - 1)
		job.State = models.JobQueued
		job.ReadyAt = time.Now().Add(delay)
		if err := w.client.storeJob(w.ctx, job); err != nil {
			logger.WithJob(job.ID).Errorf("Store job failed: %v", err)
		}
		w.client.rdb.ZAdd(w.ctx, w.client.key("delayed"), redis.Z{
			Score:  float64(job.ReadyAt.Unix()),
			Member: job.ID,
		})
		logger.WithJob(job.ID).Warnf("Job %s failed (attempt %d/%d), retrying in %s: %v",
			job.Kind, job.Attempts, job.Options.Attempts, delay, handlerErr)
		return
	}

	now := time.Now()
	job.State = models.JobFailed
	job.FinishedAt = &now
	if err := w.client.storeJob(w.ctx, job); err != nil {
		logger.WithJob(job.ID).Errorf("Store job failed: %v", err)
	}
	w.client.rdb.ZAdd(w.ctx, w.client.key("failed"), redis.Z{
		Score:  float64(now.Unix()),
		Member: job.ID,
	})
	w.client.publisher.DeliveryFailed(job, handlerErr)
	logger.WithJob(job.ID).Errorf("Job %s failed permanently after %d attempts: %v",
		job.Kind, job.Attempts, handlerErr)
}

func (w *Worker) setHeartbeat(jobID string) {
	deadline := time.Now().Add(w.client.config.StallTimeout)
	w.client.rdb.ZAdd(w.ctx, w.client.key("active"), redis.Z{
		Score:  float64(deadline.Unix()),
		Member: jobID,
	})
}

// keepAlive refreshes the heartbeat deadline while the handler runs.
func (w *Worker) keepAlive(jobID string) func() {
	done := make(chan struct{})
	interval := w.client.config.StallTimeout / 3
	if interval <= 0 {
		interval = 10 * time.Second
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.setHeartbeat(jobID)
			}
		}
	}()

	return func() { close(done) }
}

func (w *Worker) sweepLoop() {
	defer w.wg.Done()

	interval := w.client.config.SweepInterval
	if interval <= 0 {
		interval = 15 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.promoteDelayed()
			w.requeueStalled()
		}
	}
}

// promoteDelayed moves due delayed jobs onto the pending list.
func (w *Worker) promoteDelayed() {
	now := strconv.FormatInt(time.Now().Unix(), 10)
	ids, err := w.client.rdb.ZRangeByScore(w.ctx, w.client.key("delayed"),
		&redis.ZRangeBy{Min: "-inf", Max: now}).Result()
	if err != nil {
		logger.Errorf("Delayed sweep failed: %v", err)
		return
	}

	for _, id := range ids {
		pipe := w.client.rdb.TxPipeline()
		pipe.ZRem(w.ctx, w.client.key("delayed"), id)
		pipe.LPush(w.ctx, w.client.key("pending"), id)
		if _, err := pipe.Exec(w.ctx); err != nil {
			logger.WithJob(id).Errorf("Promote delayed job failed: %v", err)
		}
	}
}

// requeueStalled re-queues active jobs whose heartbeat deadline passed.
func (w *Worker) requeueStalled() {
	now := strconv.FormatInt(time.Now().Unix(), 10)
	ids, err := w.client.rdb.ZRangeByScore(w.ctx, w.client.key("active"),
		&redis.ZRangeBy{Min: "-inf", Max: now}).Result()
	if err != nil {
		logger.Errorf("Stall sweep failed: %v", err)
		return
	}

	for _, id := range ids {
		job, err := w.client.loadJob(w.ctx, id)
		if err != nil {
			w.client.rdb.ZRem(w.ctx, w.client.key("active"), id)
			continue
		}

		job.State = models.JobStalled
		if err := w.client.storeJob(w.ctx, job); err != nil {
			logger.WithJob(id).Errorf("Store job failed: %v", err)
		}

		pipe := w.client.rdb.TxPipeline()
		pipe.ZRem(w.ctx, w.client.key("active"), id)
		pipe.LPush(w.ctx, w.client.key("pending"), id)
		if _, err := pipe.Exec(w.ctx); err != nil {
			logger.WithJob(id).Errorf("Requeue stalled job failed: %v", err)
			continue
		}

		w.client.publisher.DeliveryStalled(id)
		logger.WithJob(id).Warnf("Job %s stalled, re-queued", job.Kind)
	}
}

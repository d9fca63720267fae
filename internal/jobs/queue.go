// Package jobs runs fire-and-forget background work such as anomaly detection and
// budget alerts after an import. Failures are logged, never returned to the caller
// that enqueued the job.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"fintrack/bank-import/internal/logging"
)

var (
	// ErrQueueClosed is returned by Enqueue after Shutdown.
	ErrQueueClosed = errors.New("job queue is closed")
	// ErrQueueFull is returned by Enqueue when the buffer is full.
	ErrQueueFull = errors.New("job queue is full")
)

// Job is a named unit of background work.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Queue is a bounded worker pool.
type Queue struct {
	jobs    chan Job
	timeout time.Duration
	logger  logging.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewQueue starts workers goroutines consuming a buffer of capacity jobs. Each job
// runs with the given timeout (no timeout when zero).
func NewQueue(workers, capacity int, timeout time.Duration, logger logging.Logger) *Queue {
	if workers <= 0 {
		workers = 1
	}
	if capacity < 0 {
		capacity = 0
	}
	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		jobs:    make(chan Job, capacity),
		timeout: timeout,
		logger:  logging.OrDefault(logger),
		ctx:     ctx,
		cancel:  cancel,
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	return q
}

// Enqueue schedules job without blocking.
func (q *Queue) Enqueue(job Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.jobs <- job:
		return nil
	default:
		q.logger.WithField(logging.FieldJob, job.Name).Warn("Job queue full, dropping job")
		return ErrQueueFull
	}
}

// Shutdown stops accepting jobs and waits for queued jobs to finish. When ctx ends
// first, running jobs are cancelled and ctx's error is returned.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		q.cancel()
		return nil
	case <-ctx.Done():
		q.cancel()
		<-done
		return ctx.Err()
	}
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for job := range q.jobs {
		q.run(job)
	}
}

func (q *Queue) run(job Job) {
	ctx := q.ctx
	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}

	logger := q.logger.WithField(logging.FieldJob, job.Name)
	start := time.Now()
	if err := safeRun(ctx, job); err != nil {
		logger.WithError(err).Error("Job failed")
		return
	}
	logger.Debug("Job completed", logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})
}

func safeRun(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	if job.Run == nil {
		return errors.New("job has no run function")
	}
	return job.Run(ctx)
}

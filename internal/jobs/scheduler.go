package jobs

import (
	"context"
	"fmt"

	"fintrack/bank-import/internal/logging"

	"github.com/robfig/cron/v3"
)

// Scheduler enqueues jobs on cron schedules.
type Scheduler struct {
	cron   *cron.Cron
	queue  *Queue
	logger logging.Logger
}

// NewScheduler creates a scheduler feeding queue. Schedules use the standard five-field
// cron syntax plus descriptors such as "@daily" or "@every 1h".
func NewScheduler(queue *Queue, logger logging.Logger) *Scheduler {
	return &Scheduler{cron: cron.New(), queue: queue, logger: logging.OrDefault(logger)}
}

// Add registers job under schedule.
func (s *Scheduler) Add(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		if err := s.queue.Enqueue(job); err != nil {
			s.logger.WithError(err).WithField(logging.FieldJob, job.Name).Warn("Failed to enqueue scheduled job")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", schedule, job.Name, err)
	}
	s.logger.Info("Job registered",
		logging.Field{Key: logging.FieldJob, Value: job.Name},
		logging.Field{Key: "schedule", Value: schedule})
	return nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started")
}

// Stop stops scheduling and waits for running enqueue calls, or for ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
	s.logger.Info("Scheduler stopped")
}

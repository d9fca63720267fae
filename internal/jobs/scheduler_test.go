package jobs

import (
	"context"
	"testing"
	"time"

	"fintrack/bank-import/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_EnqueuesOnSchedule(t *testing.T) {
	logger := logging.NewMockLogger()
	q := NewQueue(1, 4, time.Second, logger)
	s := NewScheduler(q, logger)

	fired := make(chan struct{}, 1)
	require.NoError(t, s.Add("@every 1s", Job{Name: "tick", Run: func(context.Context) error {
		select {
		case fired <- struct{}{}:
		default:
		}
		return nil
	}}))
	assert.True(t, logger.HasEntry("INFO", "Job registered"))

	s.Start()
	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled job never ran")
	}
	s.Stop(context.Background())
	require.NoError(t, q.Shutdown(context.Background()))
	assert.True(t, logger.HasEntry("INFO", "Scheduler stopped"))
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	s := NewScheduler(NewQueue(1, 1, 0, logging.NewMockLogger()), logging.NewMockLogger())

	err := s.Add("every now and then", Job{Name: "bad"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
}

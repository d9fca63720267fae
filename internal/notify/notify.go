// Package notify delivers user notifications (anomalies, budget alerts).
package notify

import (
	"context"
	"errors"
	"fmt"

	"fintrack/bank-import/internal/logging"
	"fintrack/bank-import/internal/models"
)

// ErrDuplicate reports a notification that was already delivered for its dedupe key.
var ErrDuplicate = errors.New("duplicate notification")

// Notifier delivers a notification.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification) error
}

// NotificationStore is the persistence needed by StoreNotifier.
type NotificationStore interface {
	AddNotification(ctx context.Context, n models.Notification) (bool, error)
}

// StoreNotifier records notifications in the user's inbox.
type StoreNotifier struct {
	store NotificationStore
}

// NewStoreNotifier creates a notifier writing to store.
func NewStoreNotifier(store NotificationStore) *StoreNotifier {
	return &StoreNotifier{store: store}
}

// Notify stores n, returning ErrDuplicate when its dedupe key was already used.
func (s *StoreNotifier) Notify(ctx context.Context, n models.Notification) error {
	created, err := s.store.AddNotification(ctx, n)
	if err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}
	if !created {
		return ErrDuplicate
	}
	return nil
}

// Multi delivers to each notifier in order. A duplicate reported by any notifier
// stops delivery to the following ones, so the inbox notifier goes first.
type Multi []Notifier

// Notify implements Notifier.
func (m Multi) Notify(ctx context.Context, n models.Notification) error {
	var errs []error
	for _, notifier := range m {
		err := notifier.Notify(ctx, n)
		if errors.Is(err, ErrDuplicate) {
			return err
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogNotifier writes notifications to the log. Used when no mail provider is configured.
type LogNotifier struct {
	logger logging.Logger
}

// NewLogNotifier creates a notifier logging at info level.
func NewLogNotifier(logger logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logging.OrDefault(logger)}
}

// Notify implements Notifier.
func (l *LogNotifier) Notify(_ context.Context, n models.Notification) error {
	l.logger.Info(n.Title,
		logging.Field{Key: logging.FieldUser, Value: n.UserID},
		logging.Field{Key: "kind", Value: n.Kind},
		logging.Field{Key: "body", Value: n.Body})
	return nil
}

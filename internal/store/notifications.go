package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fintrack/bank-import/internal/models"
)

// AddNotification stores n. It returns false without error when a notification with
// the same dedupe key already exists for the user.
func (s *SQLiteStore) AddNotification(ctx context.Context, n models.Notification) (bool, error) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}
	var dedupe sql.NullString
	if n.DedupeKey != "" {
		dedupe = sql.NullString{String: n.DedupeKey, Valid: true}
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO notifications (user_id, kind, title, body, dedupe_key, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		n.UserID, n.Kind, n.Title, n.Body, dedupe, n.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return false, fmt.Errorf("failed to insert notification: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result: %w", err)
	}
	return affected > 0, nil
}

// HasNotification reports whether the user already has a notification with dedupeKey.
func (s *SQLiteStore) HasNotification(ctx context.Context, userID, dedupeKey string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM notifications WHERE user_id = ? AND dedupe_key = ?`, userID, dedupeKey).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to query notification: %w", err)
	}
	return n > 0, nil
}

// Notifications returns the user's notifications, newest first.
func (s *SQLiteStore) Notifications(ctx context.Context, userID string) ([]models.Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, kind, title, body, COALESCE(dedupe_key, ''), read, created_at
		FROM notifications WHERE user_id = ?
		ORDER BY id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	out := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		var read int
		var created string
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Title, &n.Body, &n.DedupeKey, &read, &created); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		n.Read = read != 0
		n.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, n)
	}
	return out, rows.Err()
}

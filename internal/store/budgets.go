package store

import (
	"context"
	"errors"
	"fmt"

	"fintrack/bank-import/internal/models"
)

// SetBudget creates or replaces the user's budget for a category.
func (s *SQLiteStore) SetBudget(ctx context.Context, userID string, b models.Budget) error {
	if b.Category == "" || b.AmountLimit <= 0 {
		return errors.New("budget needs a category and a positive limit")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (user_id, category, amount_limit) VALUES (?, ?, ?)
		ON CONFLICT(user_id, category) DO UPDATE SET amount_limit = excluded.amount_limit`,
		userID, b.Category, b.AmountLimit)
	if err != nil {
		return fmt.Errorf("failed to save budget %s: %w", b.Category, err)
	}
	return nil
}

// Budgets returns the user's budgets ordered by category.
func (s *SQLiteStore) Budgets(ctx context.Context, userID string) ([]models.Budget, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, amount_limit FROM budgets WHERE user_id = ? ORDER BY category`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer rows.Close()

	out := []models.Budget{}
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.Category, &b.AmountLimit); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fintrack/bank-import/internal/models"
)

// SaveAccount creates the account or updates its name, bank and currency.
// The balance is only changed by imports.
func (s *SQLiteStore) SaveAccount(ctx context.Context, a models.Account) error {
	if a.ID == "" || a.UserID == "" {
		return errors.New("account id and user id are required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, user_id, name, bank_name, currency)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			bank_name = excluded.bank_name,
			currency = excluded.currency`,
		a.ID, a.UserID, a.Name, a.BankName, a.Currency)
	if err != nil {
		return fmt.Errorf("failed to save account %s: %w", a.ID, err)
	}
	return nil
}

// Account returns the account with id, or ErrNotFound.
func (s *SQLiteStore) Account(ctx context.Context, id string) (models.Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, bank_name, currency, balance_cents, balance_date
		FROM accounts WHERE id = ?`, id)

	var a models.Account
	var balance sql.NullInt64
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.BankName, &a.Currency, &balance, &a.BalanceDate)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, fmt.Errorf("account %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("failed to load account %s: %w", id, err)
	}
	if balance.Valid {
		b := fromCents(balance.Int64)
		a.Balance = &b
	}
	return a, nil
}

// UserIDs returns every user owning at least one account.
func (s *SQLiteStore) UserIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT user_id FROM accounts ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

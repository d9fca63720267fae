package store

import (
	"context"
	"fmt"
	"time"

	"fintrack/bank-import/internal/models"

	"github.com/shopspring/decimal"
)

// BalanceUpdate is the account balance to record with an import.
type BalanceUpdate struct {
	Amount decimal.Decimal
	Date   string
}

// SaveImport stores the batch record, its transactions and the optional balance
// update in a single database transaction.
func (s *SQLiteStore) SaveImport(ctx context.Context, batch models.ImportBatch, txs []models.CategorizedTransaction, balance *BalanceUpdate) (err error) {
	dbtx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin import: %w", err)
	}
	defer func() {
		if err != nil {
			_ = dbtx.Rollback()
		}
	}()

	if batch.CreatedAt.IsZero() {
		batch.CreatedAt = s.now()
	}
	_, err = dbtx.ExecContext(ctx, `
		INSERT INTO import_batches (id, account_id, filename, bank_name, currency, imported, skipped, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		batch.ID, batch.AccountID, batch.Filename, batch.BankName, batch.Currency,
		batch.Imported, batch.Skipped, batch.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert batch %s: %w", batch.ID, err)
	}

	stmt, err := dbtx.PrepareContext(ctx, `
		INSERT INTO transactions (account_id, batch_id, date, description, amount_cents, type, category, subcategory, currency)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, tx := range txs {
		_, err = stmt.ExecContext(ctx, batch.AccountID, batch.ID, tx.Date, tx.Description,
			toCents(tx.SignedAmount()), string(tx.Type), tx.Category, tx.Subcategory, tx.Currency)
		if err != nil {
			return fmt.Errorf("failed to insert transaction dated %s: %w", tx.Date, err)
		}
	}

	if balance != nil {
		_, err = dbtx.ExecContext(ctx, `
			UPDATE accounts SET balance_cents = ?, balance_date = ?, bank_name = ?,
				currency = CASE WHEN currency = '' THEN ? ELSE currency END
			WHERE id = ?`,
			toCents(balance.Amount), balance.Date, batch.BankName, batch.Currency, batch.AccountID)
		if err != nil {
			return fmt.Errorf("failed to update balance: %w", err)
		}
	}

	if err = dbtx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}

// Transactions returns the account's transactions ordered by date then insertion.
func (s *SQLiteStore) Transactions(ctx context.Context, accountID string) ([]models.StoredTransaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.account_id, a.name, t.batch_id, t.date, t.description, t.amount_cents,
			t.type, t.category, t.subcategory, t.currency
		FROM transactions t JOIN accounts a ON a.id = t.account_id
		WHERE t.account_id = ?
		ORDER BY t.date, t.id`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	out := []models.StoredTransaction{}
	for rows.Next() {
		var st models.StoredTransaction
		var cents int64
		var typ string
		if err := rows.Scan(&st.ID, &st.AccountID, &st.AccountName, &st.BatchID, &st.Date, &st.Description,
			&cents, &typ, &st.Category, &st.Subcategory, &st.Currency); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		st.Type = models.TransactionType(typ)
		st.Amount = fromCents(cents).Abs()
		out = append(out, st)
	}
	return out, rows.Err()
}

// ImportBatches returns the account's import history, newest first.
func (s *SQLiteStore) ImportBatches(ctx context.Context, accountID string) ([]models.ImportBatch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_id, filename, bank_name, currency, imported, skipped, created_at
		FROM import_batches WHERE account_id = ?
		ORDER BY created_at DESC, rowid DESC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query import batches: %w", err)
	}
	defer rows.Close()

	var out []models.ImportBatch
	for rows.Next() {
		var b models.ImportBatch
		var created string
		if err := rows.Scan(&b.ID, &b.AccountID, &b.Filename, &b.BankName, &b.Currency, &b.Imported, &b.Skipped, &created); err != nil {
			return nil, fmt.Errorf("failed to scan import batch: %w", err)
		}
		b.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, b)
	}
	return out, rows.Err()
}

// CategoryAverages returns the average expense amount per category over the user's
// transactions dated strictly before before (YYYY-MM-DD).
func (s *SQLiteStore) CategoryAverages(ctx context.Context, userID, before string) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.category, AVG(-t.amount_cents)
		FROM transactions t JOIN accounts a ON a.id = t.account_id
		WHERE a.user_id = ? AND t.type = 'expense' AND t.date < ?
		GROUP BY t.category`, userID, before)
	if err != nil {
		return nil, fmt.Errorf("failed to query category averages: %w", err)
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var category string
		var avg float64
		if err := rows.Scan(&category, &avg); err != nil {
			return nil, fmt.Errorf("failed to scan category average: %w", err)
		}
		out[category] = centsToFloat(avg)
	}
	return out, rows.Err()
}

// MonthlyTrend returns expense totals per (month, category) for months in
// [fromMonth, toMonth], both "YYYY-MM", ordered by month then category.
func (s *SQLiteStore) MonthlyTrend(ctx context.Context, userID, fromMonth, toMonth string) ([]models.TrendEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT substr(t.date, 1, 7) AS month, t.category, SUM(-t.amount_cents)
		FROM transactions t JOIN accounts a ON a.id = t.account_id
		WHERE a.user_id = ? AND t.type = 'expense'
			AND substr(t.date, 1, 7) >= ? AND substr(t.date, 1, 7) <= ?
		GROUP BY month, t.category
		ORDER BY month, t.category`, userID, fromMonth, toMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly trend: %w", err)
	}
	defer rows.Close()

	out := []models.TrendEntry{}
	for rows.Next() {
		var e models.TrendEntry
		var cents int64
		if err := rows.Scan(&e.Month, &e.Category, &cents); err != nil {
			return nil, fmt.Errorf("failed to scan trend entry: %w", err)
		}
		e.Amount = centsToFloat(float64(cents))
		out = append(out, e)
	}
	return out, rows.Err()
}

// MonthSpend returns the user's expense total per category for month ("YYYY-MM").
func (s *SQLiteStore) MonthSpend(ctx context.Context, userID, month string) (map[string]float64, error) {
	trend, err := s.MonthlyTrend(ctx, userID, month, month)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(trend))
	for _, e := range trend {
		out[e.Category] = e.Amount
	}
	return out, nil
}

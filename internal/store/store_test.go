package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"fintrack/bank-import/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "db", "bank.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func categorized(date, description, category string, amount string, typ models.TransactionType) models.CategorizedTransaction {
	return models.CategorizedTransaction{
		NormalizedTransaction: models.NormalizedTransaction{
			Date:        date,
			Description: description,
			Amount:      decimal.RequireFromString(amount),
			Type:        typ,
		},
		Category: category,
		Currency: "EUR",
	}
}

func seedImport(t *testing.T, s *SQLiteStore, accountID, batchID string, txs ...models.CategorizedTransaction) {
	t.Helper()
	err := s.SaveImport(context.Background(), models.ImportBatch{
		ID: batchID, AccountID: accountID, Filename: "releve.csv", BankName: "BNP Paribas",
		Currency: "EUR", Imported: len(txs),
	}, txs, nil)
	require.NoError(t, err)
}

func TestAccounts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Account(ctx, "acc-1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SaveAccount(ctx, models.Account{ID: "acc-1", UserID: "u1", Name: "Courant"}))
	require.NoError(t, s.SaveAccount(ctx, models.Account{ID: "acc-2", UserID: "u2"}))
	assert.Error(t, s.SaveAccount(ctx, models.Account{ID: "acc-3"}))

	a, err := s.Account(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, "Courant", a.Name)
	assert.Nil(t, a.Balance)

	users, err := s.UserIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, users)
}

func TestSaveImport(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveAccount(ctx, models.Account{ID: "acc-1", UserID: "u1", Name: "Courant"}))

	txs := []models.CategorizedTransaction{
		categorized("2026-01-05", "SALAIRE", models.CategoryIncome, "2500.00", models.TransactionTypeIncome),
		categorized("2026-01-03", "CARREFOUR", "Alimentation", "85.30", models.TransactionTypeExpense),
	}
	err := s.SaveImport(ctx, models.ImportBatch{
		ID: "batch-1", AccountID: "acc-1", Filename: "releve.csv", BankName: "BNP Paribas", Currency: "EUR", Imported: 2, Skipped: 1,
	}, txs, &BalanceUpdate{Amount: decimal.RequireFromString("2414.70"), Date: "2026-01-05"})
	require.NoError(t, err)

	stored, err := s.Transactions(ctx, "acc-1")
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "CARREFOUR", stored[0].Description, "ordered by date")
	assert.True(t, decimal.RequireFromString("85.3").Equal(stored[0].Amount))
	assert.Equal(t, models.TransactionTypeExpense, stored[0].Type)
	assert.Equal(t, "Courant", stored[0].AccountName)
	assert.Equal(t, "batch-1", stored[1].BatchID)

	a, err := s.Account(ctx, "acc-1")
	require.NoError(t, err)
	require.NotNil(t, a.Balance)
	assert.Equal(t, "2414.7", a.Balance.String())
	assert.Equal(t, "2026-01-05", a.BalanceDate)
	assert.Equal(t, "EUR", a.Currency)
	assert.Equal(t, "BNP Paribas", a.BankName)

	batches, err := s.ImportBatches(ctx, "acc-1")
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, 1, batches[0].Skipped)
}

func TestSaveImport_RollsBackOnError(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveAccount(ctx, models.Account{ID: "acc-1", UserID: "u1"}))

	bad := categorized("2026-01-03", "X", "Autres", "1.00", models.TransactionType("refund"))
	err := s.SaveImport(ctx, models.ImportBatch{ID: "batch-1", AccountID: "acc-1"},
		[]models.CategorizedTransaction{categorized("2026-01-02", "OK", "Autres", "1.00", models.TransactionTypeExpense), bad}, nil)
	require.Error(t, err)

	stored, err := s.Transactions(ctx, "acc-1")
	require.NoError(t, err)
	assert.Empty(t, stored)
	batches, err := s.ImportBatches(ctx, "acc-1")
	require.NoError(t, err)
	assert.Empty(t, batches)
}

func TestAnalyticsQueries(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveAccount(ctx, models.Account{ID: "acc-1", UserID: "u1"}))
	require.NoError(t, s.SaveAccount(ctx, models.Account{ID: "acc-2", UserID: "u1"}))
	require.NoError(t, s.SaveAccount(ctx, models.Account{ID: "other", UserID: "u2"}))

	seedImport(t, s, "acc-1", "b1",
		categorized("2026-01-10", "CINEMA", "Loisirs", "60.00", models.TransactionTypeExpense),
		categorized("2026-01-20", "CONCERT", "Loisirs", "100.00", models.TransactionTypeExpense),
		categorized("2026-01-25", "SALAIRE", "Revenus", "2500.00", models.TransactionTypeIncome),
		categorized("2026-02-02", "LIDL", "Alimentation", "40.10", models.TransactionTypeExpense),
	)
	seedImport(t, s, "acc-2", "b2",
		categorized("2026-02-15", "CARREFOUR", "Alimentation", "59.90", models.TransactionTypeExpense),
	)
	seedImport(t, s, "other", "b3",
		categorized("2026-01-15", "OPERA", "Loisirs", "900.00", models.TransactionTypeExpense),
	)

	avg, err := s.CategoryAverages(ctx, "u1", "2026-02-01")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Loisirs": 80}, avg)

	trend, err := s.MonthlyTrend(ctx, "u1", "2026-01", "2026-02")
	require.NoError(t, err)
	assert.Equal(t, []models.TrendEntry{
		{Month: "2026-01", Category: "Loisirs", Amount: 160},
		{Month: "2026-02", Category: "Alimentation", Amount: 100},
	}, trend)

	spend, err := s.MonthSpend(ctx, "u1", "2026-02")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Alimentation": 100}, spend)
}

func TestBudgets(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetBudget(ctx, "u1", models.Budget{Category: "Loisirs", AmountLimit: 100}))
	require.NoError(t, s.SetBudget(ctx, "u1", models.Budget{Category: "Alimentation", AmountLimit: 400}))
	require.NoError(t, s.SetBudget(ctx, "u1", models.Budget{Category: "Loisirs", AmountLimit: 150}))
	assert.Error(t, s.SetBudget(ctx, "u1", models.Budget{Category: "Zero"}))

	budgets, err := s.Budgets(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []models.Budget{{Category: "Alimentation", AmountLimit: 400}, {Category: "Loisirs", AmountLimit: 150}}, budgets)

	none, err := s.Budgets(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestNotifications(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	s.now = func() time.Time { return time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC) }

	created, err := s.AddNotification(ctx, models.Notification{UserID: "u1", Kind: models.NotificationBudgetAlert, Title: "a", DedupeKey: "budget:Loisirs:2026-02:100"})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.AddNotification(ctx, models.Notification{UserID: "u1", Kind: models.NotificationBudgetAlert, Title: "b", DedupeKey: "budget:Loisirs:2026-02:100"})
	require.NoError(t, err)
	assert.False(t, created, "same dedupe key is ignored")

	for i := 0; i < 2; i++ {
		created, err = s.AddNotification(ctx, models.Notification{UserID: "u1", Kind: models.NotificationAnomaly, Title: "anomaly"})
		require.NoError(t, err)
		assert.True(t, created, "notifications without key are never deduplicated")
	}

	has, err := s.HasNotification(ctx, "u1", "budget:Loisirs:2026-02:100")
	require.NoError(t, err)
	assert.True(t, has)

	list, err := s.Notifications(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, models.NotificationAnomaly, list[0].Kind)
	assert.Equal(t, "a", list[2].Title)
	assert.Equal(t, 2026, list[2].CreatedAt.Year())
}

func TestOpen_InMemory(t *testing.T) {
	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveAccount(context.Background(), models.Account{ID: "a", UserID: "u"}))
	_, err = s.Account(context.Background(), "a")
	assert.NoError(t, err)
}

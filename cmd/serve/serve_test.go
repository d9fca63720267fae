package serve

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"fintrack/bank-import/internal/importer"
	"fintrack/bank-import/internal/logging"
	"fintrack/bank-import/internal/models"
	"fintrack/bank-import/internal/notify"
	"fintrack/bank-import/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertJob(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(ctx, filepath.Join(t.TempDir(), "bank.db"))
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.SaveAccount(ctx, models.Account{ID: "acc-1", UserID: "u1"}))
	require.NoError(t, st.SetBudget(ctx, "u1", models.Budget{Category: "Loisirs", AmountLimit: 100}))
	txs := []models.CategorizedTransaction{{
		NormalizedTransaction: models.NormalizedTransaction{
			Date: "2026-03-04", Description: "CONCERT", Amount: decimal.NewFromInt(120), Type: models.TransactionTypeExpense,
		},
		Category: "Loisirs", Currency: "EUR",
	}}
	require.NoError(t, st.SaveImport(ctx, models.ImportBatch{ID: "b1", AccountID: "acc-1", Imported: 1}, txs, nil))

	logger := logging.NewMockLogger()
	alerter := importer.NewBudgetAlerter(st, notify.NewStoreNotifier(st), logger)
	now := func() time.Time { return time.Date(2026, 3, 20, 7, 0, 0, 0, time.UTC) }
	job := AlertJob(st, alerter, now, logger)
	assert.Equal(t, AlertJobName, job.Name)

	require.NoError(t, job.Run(ctx))
	require.NoError(t, job.Run(ctx))

	notes, err := st.Notifications(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, notes, 1, "the second run is deduplicated")
	assert.Equal(t, models.NotificationBudgetAlert, notes[0].Kind)
	assert.True(t, logger.HasEntry("INFO", "Scheduled budget check finished"))
}

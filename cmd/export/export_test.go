package export

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fintrack/bank-import/internal/logging"
	"fintrack/bank-import/internal/models"
	"fintrack/bank-import/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(ctx, filepath.Join(t.TempDir(), "bank.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.SaveAccount(ctx, models.Account{ID: "acc-1", UserID: "u1", Name: "Courant"}))
	txs := []models.CategorizedTransaction{{
		NormalizedTransaction: models.NormalizedTransaction{
			Date: "2026-01-12", Description: "CB CARREFOUR", Amount: decimal.RequireFromString("85.30"), Type: models.TransactionTypeExpense,
		},
		Category: "Alimentation", Currency: "EUR",
	}}
	batch := models.ImportBatch{ID: "b1", AccountID: "acc-1", Filename: "bnp.csv", Imported: 1}
	require.NoError(t, st.SaveImport(ctx, batch, txs, nil))
	return st
}

func TestRun_Stdout(t *testing.T) {
	st := seededStore(t)
	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), st, "acc-1", "", &out, logging.NewMockLogger()))

	lines := strings.Split(strings.TrimPrefix(out.String(), "\ufeff"), "\r\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.True(t, strings.HasPrefix(lines[0], "Date,Description"))
	assert.Contains(t, lines[1], "CB CARREFOUR")
	assert.Contains(t, lines[1], "85.30")
}

func TestRun_File(t *testing.T) {
	st := seededStore(t)
	path := filepath.Join(t.TempDir(), "out", "acc-1.csv")
	logger := logging.NewMockLogger()
	require.NoError(t, Run(context.Background(), st, "acc-1", path, &bytes.Buffer{}, logger))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Alimentation")
	assert.True(t, logger.HasEntry("INFO", "Exported transactions"))
}

func TestRun_UnknownAccount(t *testing.T) {
	st := seededStore(t)
	err := Run(context.Background(), st, "nope", "", &bytes.Buffer{}, logging.NewMockLogger())
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

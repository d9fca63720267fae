package importer

import (
	"context"
	"errors"
	"fmt"
	"math"

	"fintrack/bank-import/internal/logging"
	"fintrack/bank-import/internal/models"
	"fintrack/bank-import/internal/notify"
)

// Budget alert levels, highest first.
var alertLevels = []float64{1.0, 0.8}

// AlertStore is the data needed to check budgets.
type AlertStore interface {
	Budgets(ctx context.Context, userID string) ([]models.Budget, error)
	MonthSpend(ctx context.Context, userID, month string) (map[string]float64, error)
}

// BudgetAlerter notifies users whose monthly spend reached 80 % or 100 % of a budget.
// Each level fires at most once per category and month.
type BudgetAlerter struct {
	store    AlertStore
	notifier notify.Notifier
	logger   logging.Logger
}

// NewBudgetAlerter creates an alerter.
func NewBudgetAlerter(store AlertStore, notifier notify.Notifier, logger logging.Logger) *BudgetAlerter {
	return &BudgetAlerter{store: store, notifier: notifier, logger: logging.OrDefault(logger)}
}

// Check compares the user's spend for month ("YYYY-MM") with their budgets and
// returns the number of alerts sent.
func (a *BudgetAlerter) Check(ctx context.Context, userID, month string) (int, error) {
	budgets, err := a.store.Budgets(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(budgets) == 0 {
		return 0, nil
	}
	spend, err := a.store.MonthSpend(ctx, userID, month)
	if err != nil {
		return 0, err
	}

	sent := 0
	var errs []error
	for _, b := range budgets {
		if b.AmountLimit <= 0 {
			continue
		}
		spent := spend[b.Category]
		level, ok := reachedLevel(spent, b.AmountLimit)
		if !ok {
			continue
		}
		err := a.notifier.Notify(ctx, budgetNotification(userID, month, b, spent, level))
		switch {
		case errors.Is(err, notify.ErrDuplicate):
		case err != nil:
			errs = append(errs, err)
		default:
			sent++
			a.logger.Info("Budget alert sent",
				logging.Field{Key: logging.FieldUser, Value: userID},
				logging.Field{Key: logging.FieldCategory, Value: b.Category},
				logging.Field{Key: "level", Value: level})
		}
	}
	return sent, errors.Join(errs...)
}

// CheckUsers runs Check for every user. A failing user does not stop the others.
func (a *BudgetAlerter) CheckUsers(ctx context.Context, userIDs []string, month string) (int, error) {
	total := 0
	var errs []error
	for _, id := range userIDs {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		sent, err := a.Check(ctx, id, month)
		total += sent
		if err != nil {
			errs = append(errs, fmt.Errorf("user %s: %w", id, err))
		}
	}
	return total, errors.Join(errs...)
}

func reachedLevel(spent, limit float64) (float64, bool) {
	for _, level := range alertLevels {
		if spent >= limit*level {
			return level, true
		}
	}
	return 0, false
}

func budgetNotification(userID, month string, b models.Budget, spent, level float64) models.Notification {
	pct := int(math.Round(level * 100))
	title := fmt.Sprintf("Budget %s : %d %% atteint", b.Category, pct)
	if level >= 1 {
		title = fmt.Sprintf("Budget %s dépassé", b.Category)
	}
	return models.Notification{
		UserID:    userID,
		Kind:      models.NotificationBudgetAlert,
		Title:     title,
		Body:      fmt.Sprintf("%.2f dépensés sur %.2f en %s pour %s.", spent, b.AmountLimit, month, b.Category),
		DedupeKey: fmt.Sprintf("budget:%s:%s:%d", b.Category, month, pct),
	}
}

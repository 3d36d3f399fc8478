package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/baharkarakas/finance-tracker/internal/models"
	repo "github.com/baharkarakas/finance-tracker/internal/repository"
	"github.com/baharkarakas/finance-tracker/internal/repository/memory"
	"github.com/baharkarakas/finance-tracker/internal/worker"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("store down")

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decp(v int64) *decimal.Decimal { d := decimal.NewFromInt(v); return &d }

func decs(s string) *decimal.Decimal { d := decimal.RequireFromString(s); return &d }

func strp(s string) *string { return &s }

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

// flakyBudgets fails AddExpenditure while failAdd is set.
type flakyBudgets struct {
	repo.Budgets
	failAdd bool
}

func (f *flakyBudgets) AddExpenditure(ctx context.Context, id string, delta decimal.Decimal) (models.Budget, error) {
	if f.failAdd {
		return models.Budget{}, errStoreDown
	}
	return f.Budgets.AddExpenditure(ctx, id, delta)
}

type fixture struct {
	ledger  repo.Ledger
	budgets *flakyBudgets
	svc     *Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	l := memory.New()
	fb := &flakyBudgets{Budgets: l.Budgets}
	l.Budgets = fb
	pool := worker.NewPool(2)
	t.Cleanup(pool.Stop)
	return &fixture{ledger: l, budgets: fb, svc: New(l, pool, quietLogger())}
}

func (f *fixture) budget(t *testing.T, userID, name string, amount int64) models.Budget {
	t.Helper()
	b, err := f.svc.Budgets.Create(context.Background(), NewBudget{Name: name, Amount: decp(amount), Month: "March", Year: 2025}, userID)
	require.NoError(t, err)
	return b
}

func (f *fixture) alert(t *testing.T, userID, budgetID, desc string, target int64) models.Alert {
	t.Helper()
	a, err := f.svc.Alerts.Create(context.Background(), NewAlert{Description: desc, TargetAmount: decp(target), BudgetID: budgetID}, userID)
	require.NoError(t, err)
	return a
}

func (f *fixture) expense(t *testing.T, userID, budgetID string, amount int64) models.Expense {
	t.Helper()
	e, err := f.svc.Expenses.Create(context.Background(), NewExpense{Description: "spend", Amount: decp(amount), BudgetID: budgetID}, userID)
	require.NoError(t, err)
	return e
}

func (f *fixture) storedBudget(t *testing.T, id string) models.Budget {
	t.Helper()
	b, err := f.ledger.Budgets.GetByID(context.Background(), id)
	require.NoError(t, err)
	return b
}

func (f *fixture) storedAlert(t *testing.T, id string) models.Alert {
	t.Helper()
	a, err := f.ledger.Alerts.GetByID(context.Background(), id)
	require.NoError(t, err)
	return a
}

func (f *fixture) feed(t *testing.T, userID string) []models.Notification {
	t.Helper()
	n, err := f.ledger.Notifications.ListByUser(context.Background(), userID, 100, 0)
	require.NoError(t, err)
	return n
}

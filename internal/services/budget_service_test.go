package services

import (
	"context"
	"testing"

	"github.com/baharkarakas/finance-tracker/internal/apperr"
	"github.com/baharkarakas/finance-tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgetCreateStartsAtZero(t *testing.T) {
	f := newFixture(t)
	b := f.budget(t, "u1", "Food", 100)
	assert.Equal(t, "u1", b.UserID)
	assert.True(t, b.Expenditure.IsZero())

	_, err := f.svc.Budgets.Create(context.Background(), NewBudget{Name: "x", Amount: decp(-1), Month: "May"}, "u1")
	require.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Contains(t, err.(*apperr.Error).Details.(error).Error(), "amount: must be >= 0; year: must be >= 1")

	_, err = f.svc.Budgets.Create(context.Background(), NewBudget{Name: "x", Amount: decs("10.999"), Month: "May", Year: 2025}, "u1")
	require.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Contains(t, err.(*apperr.Error).Details.(error).Error(), "amount: at most 2 decimal places")

	_, err = f.svc.Budgets.Update(context.Background(), b.ID, models.BudgetPatch{Amount: decs("1000000000000.00")}, "u1")
	require.True(t, apperr.Is(err, apperr.KindValidation))
	assert.True(t, f.storedBudget(t, b.ID).Amount.Equal(dec(100)))
}

func TestBudgetUpdateNeverTouchesExpenditure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.budget(t, "u1", "Food", 100)
	f.expense(t, "u1", b.ID, 40)

	got, err := f.svc.Budgets.Update(ctx, b.ID, models.BudgetPatch{Name: strp("Groceries"), Amount: decp(200)}, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got.Name)
	assert.True(t, got.Amount.Equal(dec(200)))
	assert.True(t, got.Expenditure.Equal(dec(40)))

	_, err = f.svc.Budgets.Update(ctx, b.ID, models.BudgetPatch{Name: strp("mine")}, "u2")
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestBudgetListAndGetScopedToOwner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	mine := f.budget(t, "u1", "A", 1)
	f.budget(t, "u1", "B", 1)
	f.budget(t, "u2", "C", 1)

	list, err := f.svc.Budgets.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = f.svc.Budgets.Get(ctx, mine.ID, "u2")
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	_, err = f.svc.Budgets.Get(ctx, "missing", "u1")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestBudgetDeleteLeavesDependents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.budget(t, "u1", "Food", 100)
	e := f.expense(t, "u1", b.ID, 10)
	f.alert(t, "u1", b.ID, "a", 50)

	assert.True(t, apperr.Is(f.svc.Budgets.Delete(ctx, b.ID, "u2"), apperr.KindForbidden))
	require.NoError(t, f.svc.Budgets.Delete(ctx, b.ID, "u1"))

	_, err := f.ledger.Budgets.GetByID(ctx, b.ID)
	assert.Error(t, err)
	_, err = f.ledger.Expenses.GetByID(ctx, e.ID)
	assert.NoError(t, err, "expenses are not cascaded")

	_, err = f.svc.Expenses.Get(ctx, e.ID, "u1")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

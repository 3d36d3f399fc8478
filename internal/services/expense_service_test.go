package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/baharkarakas/finance-tracker/internal/apperr"
	"github.com/baharkarakas/finance-tracker/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenseLifecycleDrivesAlertsAndFeed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.budget(t, "u1", "Food", 100)
	a := f.alert(t, "u1", b.ID, "Food alert", 80)
	require.Equal(t, models.AlertActive, a.Status)

	big := f.expense(t, "u1", b.ID, 90)
	assert.True(t, f.storedBudget(t, b.ID).Expenditure.Equal(dec(90)))
	assert.Equal(t, models.AlertTriggered, f.storedAlert(t, a.ID).Status)
	feed := f.feed(t, "u1")
	require.Len(t, feed, 1)
	assert.Equal(t, `Alert: Food alert - Budget "Food" has reached 90 of 100 (90%)`, feed[0].Message)
	assert.False(t, feed[0].IsRead)

	f.expense(t, "u1", b.ID, 20)
	assert.True(t, f.storedBudget(t, b.ID).Expenditure.Equal(dec(110)))
	feed = f.feed(t, "u1")
	require.Len(t, feed, 2, "already triggered alert must not notify again, overrun must")
	var overrun int
	for _, n := range feed {
		if n.Message == `Budget "Food" has exceeded the budget amount of 100 with an expenditure of 110` {
			overrun++
		}
	}
	assert.Equal(t, 1, overrun)

	require.NoError(t, f.svc.Expenses.Delete(ctx, big.ID, "u1"))
	assert.True(t, f.storedBudget(t, b.ID).Expenditure.Equal(dec(20)))
	assert.Equal(t, models.AlertActive, f.storedAlert(t, a.ID).Status)
	assert.Len(t, f.feed(t, "u1"), 2, "reset must be silent")

	_, err := f.ledger.Expenses.GetByID(ctx, big.ID)
	assert.Error(t, err)
}

func TestExpenditureEqualsSumAfterMixedMutations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.budget(t, "u1", "Trip", 1000)

	e1 := f.expense(t, "u1", b.ID, 120)
	e2 := f.expense(t, "u1", b.ID, 45)
	f.expense(t, "u1", b.ID, 300)

	_, err := f.svc.Expenses.Update(ctx, e1.ID, models.ExpensePatch{Amount: decp(20)}, "u1")
	require.NoError(t, err)
	_, err = f.svc.Expenses.Update(ctx, e2.ID, models.ExpensePatch{Description: strp("dinner")}, "u1")
	require.NoError(t, err)
	require.NoError(t, f.svc.Expenses.Delete(ctx, e2.ID, "u1"))

	sum, err := f.ledger.Expenses.SumByBudget(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(dec(320)), "sum %s", sum)
	assert.True(t, f.storedBudget(t, b.ID).Expenditure.Equal(sum))
}

func TestConcurrentCreatesKeepSum(t *testing.T) {
	f := newFixture(t)
	b := f.budget(t, "u1", "Shared", 10000)

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Expenses.Create(context.Background(), NewExpense{Description: "x", Amount: decp(4), BudgetID: b.ID}, "u1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.True(t, f.storedBudget(t, b.ID).Expenditure.Equal(dec(100)))
}

func TestUpdateWithoutChangesWritesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.budget(t, "u1", "Food", 100)
	low := f.alert(t, "u1", b.ID, "low", 20)
	high := f.alert(t, "u1", b.ID, "high", 80)
	e := f.expense(t, "u1", b.ID, 30)
	require.Equal(t, models.AlertTriggered, f.storedAlert(t, low.ID).Status)
	require.Equal(t, models.AlertActive, f.storedAlert(t, high.ID).Status)
	require.Len(t, f.feed(t, "u1"), 1)
	before := f.storedBudget(t, b.ID)

	cases := []struct {
		name  string
		patch models.ExpensePatch
	}{
		{"empty patch", models.ExpensePatch{}},
		{"same amount", models.ExpensePatch{Amount: decp(30)}},
		{"same budget only", models.ExpensePatch{BudgetID: &b.ID}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := f.svc.Expenses.Update(ctx, e.ID, tc.patch, "u1")
			require.NoError(t, err)
			assert.Equal(t, e.ID, got.ID)
			assert.Equal(t, e.UpdatedAt, got.UpdatedAt)

			after := f.storedBudget(t, b.ID)
			assert.True(t, after.Expenditure.Equal(dec(30)))
			assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
			assert.Equal(t, models.AlertTriggered, f.storedAlert(t, low.ID).Status)
			assert.Equal(t, models.AlertActive, f.storedAlert(t, high.ID).Status)
			assert.Len(t, f.feed(t, "u1"), 1)
		})
	}
}

func TestEmptyPatchStillChecksOwnership(t *testing.T) {
	f := newFixture(t)
	b := f.budget(t, "u1", "Food", 100)
	e := f.expense(t, "u1", b.ID, 30)

	_, err := f.svc.Expenses.Update(context.Background(), e.ID, models.ExpensePatch{}, "u2")
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	_, err = f.svc.Expenses.Update(context.Background(), "missing", models.ExpensePatch{}, "u1")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUpdateAmountAppliesDelta(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.budget(t, "u1", "Food", 100)
	a := f.alert(t, "u1", b.ID, "half", 50)
	e := f.expense(t, "u1", b.ID, 30)

	got, err := f.svc.Expenses.Update(ctx, e.ID, models.ExpensePatch{Amount: decp(60), Description: strp("  lunch ")}, "u1")
	require.NoError(t, err)
	assert.Equal(t, "lunch", got.Description)
	assert.True(t, f.storedBudget(t, b.ID).Expenditure.Equal(dec(60)))
	assert.Equal(t, models.AlertTriggered, f.storedAlert(t, a.ID).Status)

	_, err = f.svc.Expenses.Update(ctx, e.ID, models.ExpensePatch{Amount: decp(10)}, "u1")
	require.NoError(t, err)
	assert.True(t, f.storedBudget(t, b.ID).Expenditure.Equal(dec(10)))
	assert.Equal(t, models.AlertActive, f.storedAlert(t, a.ID).Status)
	assert.Len(t, f.feed(t, "u1"), 1)
}

func TestUpdateRejectsBudgetReassignment(t *testing.T) {
	f := newFixture(t)
	b1 := f.budget(t, "u1", "A", 100)
	b2 := f.budget(t, "u1", "B", 100)
	e := f.expense(t, "u1", b1.ID, 10)

	_, err := f.svc.Expenses.Update(context.Background(), e.ID, models.ExpensePatch{BudgetID: &b2.ID}, "u1")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.EqualError(t, err, "budget reassignment is not supported")

	_, err = f.svc.Expenses.Update(context.Background(), e.ID, models.ExpensePatch{BudgetID: &b1.ID, Amount: decp(15)}, "u1")
	assert.NoError(t, err)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	b := f.budget(t, "u1", "Food", 100)

	cases := []struct {
		name string
		in   NewExpense
		want string
	}{
		{"missing amount", NewExpense{Description: "x", BudgetID: b.ID}, "amount: required"},
		{"zero amount", NewExpense{Description: "x", Amount: decp(0), BudgetID: b.ID}, "amount: must be > 0"},
		{"negative amount", NewExpense{Description: "x", Amount: decp(-5), BudgetID: b.ID}, "amount: must be > 0"},
		{"blank description", NewExpense{Description: "  ", Amount: decp(5), BudgetID: b.ID}, "description: required"},
		{"missing budget", NewExpense{Description: "x", Amount: decp(5)}, "budget_id: required"},
		{"sub-cent amount", NewExpense{Description: "x", Amount: decs("0.001"), BudgetID: b.ID}, "amount: at most 2 decimal places"},
		{"over-precise amount", NewExpense{Description: "x", Amount: decs("1.234567890123456789012345678901234567"), BudgetID: b.ID}, "amount: at most 2 decimal places"},
		{"too large", NewExpense{Description: "x", Amount: decs("1000000000000"), BudgetID: b.ID}, "amount: must be < 1000000000000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Expenses.Create(context.Background(), tc.in, "u1")
			require.True(t, apperr.Is(err, apperr.KindValidation), "err %v", err)
			var ae *apperr.Error
			require.ErrorAs(t, err, &ae)
			assert.Contains(t, fmt.Sprint(ae.Details), tc.want)
		})
	}
	assert.True(t, f.storedBudget(t, b.ID).Expenditure.IsZero())
	stored, err := f.svc.Expenses.List(context.Background(), "u1", b.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestUpdateRejectsSubCentAmount(t *testing.T) {
	f := newFixture(t)
	b := f.budget(t, "u1", "Food", 100)
	e := f.expense(t, "u1", b.ID, 30)

	_, err := f.svc.Expenses.Update(context.Background(), e.ID, models.ExpensePatch{Amount: decs("30.005")}, "u1")
	require.True(t, apperr.Is(err, apperr.KindValidation))
	assert.True(t, f.storedBudget(t, b.ID).Expenditure.Equal(dec(30)))
}

func TestOwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.budget(t, "owner", "Food", 100)
	e := f.expense(t, "owner", b.ID, 40)

	_, err := f.svc.Expenses.Create(ctx, NewExpense{Description: "x", Amount: decp(500), BudgetID: b.ID}, "intruder")
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	assert.EqualError(t, err, "Unauthorized: Budget does not belong to this user")

	_, err = f.svc.Expenses.Update(ctx, e.ID, models.ExpensePatch{Amount: decp(1)}, "intruder")
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	err = f.svc.Expenses.Delete(ctx, e.ID, "intruder")
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = f.svc.Expenses.Get(ctx, e.ID, "intruder")
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	list, err := f.svc.Expenses.List(ctx, "intruder", "")
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.True(t, f.storedBudget(t, b.ID).Expenditure.Equal(dec(40)))
	stored, err := f.ledger.Expenses.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, stored.Amount.Equal(dec(40)))
	n, err := f.ledger.Expenses.CountByBudget(ctx, b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestNotFoundBeforeForbidden(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Expenses.Create(ctx, NewExpense{Description: "x", Amount: decp(5), BudgetID: "nope"}, "u1")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.EqualError(t, err, "Budget not found")

	_, err = f.svc.Expenses.Update(ctx, "nope", models.ExpensePatch{Amount: decp(1)}, "u1")
	assert.EqualError(t, err, "Expense not found")

	err = f.svc.Expenses.Delete(ctx, "nope", "u1")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUnauthenticatedCallerIsRejected(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Expenses.Create(context.Background(), NewExpense{Description: "x", Amount: decp(5), BudgetID: "b"}, "")
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))
}

func TestPartialWriteLeavesDivergenceForRepair(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.budget(t, "u1", "Food", 100)
	f.expense(t, "u1", b.ID, 10)

	f.budgets.failAdd = true
	_, err := f.svc.Expenses.Create(ctx, NewExpense{Description: "lost", Amount: decp(25), BudgetID: b.ID}, "u1")
	require.ErrorIs(t, err, errStoreDown)
	f.budgets.failAdd = false

	assert.True(t, f.storedBudget(t, b.ID).Expenditure.Equal(dec(10)))
	sum, err := f.ledger.Expenses.SumByBudget(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(dec(35)))

	res, err := f.svc.Repair.RepairBudget(ctx, b.ID, "u1")
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.True(t, res.Previous.Equal(dec(10)))
	assert.True(t, res.Recomputed.Equal(dec(35)))
	assert.True(t, f.storedBudget(t, b.ID).Expenditure.Equal(dec(35)))
}

func TestDeleteKeepsExpenseWhenBudgetWriteFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.budget(t, "u1", "Food", 100)
	e := f.expense(t, "u1", b.ID, 10)

	f.budgets.failAdd = true
	err := f.svc.Expenses.Delete(ctx, e.ID, "u1")
	require.Error(t, err)

	_, err = f.ledger.Expenses.GetByID(ctx, e.ID)
	assert.NoError(t, err)
	assert.True(t, f.storedBudget(t, b.ID).Expenditure.Equal(dec(10)))
}

func TestListFiltersByBudget(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b1 := f.budget(t, "u1", "A", 100)
	b2 := f.budget(t, "u1", "B", 100)
	f.expense(t, "u1", b1.ID, 1)
	f.expense(t, "u1", b2.ID, 2)
	f.expense(t, "u1", b2.ID, 3)

	all, err := f.svc.Expenses.List(ctx, "u1", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	some, err := f.svc.Expenses.List(ctx, "u1", b2.ID)
	require.NoError(t, err)
	assert.Len(t, some, 2)

	_, err = f.svc.Expenses.List(ctx, "u2", b2.ID)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestDecimalAmountsKeepCents(t *testing.T) {
	f := newFixture(t)
	b := f.budget(t, "u1", "Coffee", 10)
	for _, s := range []string{"0.10", "0.20", "3.35"} {
		amt := decimal.RequireFromString(s)
		_, err := f.svc.Expenses.Create(context.Background(), NewExpense{Description: "cup", Amount: &amt, BudgetID: b.ID}, "u1")
		require.NoError(t, err)
	}
	got := f.storedBudget(t, b.ID).Expenditure
	assert.True(t, got.Equal(decimal.RequireFromString("3.65")), "got %s", got)
	assert.False(t, strings.Contains(got.String(), "0000"))
}

package mongostore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/baharkarakas/finance-tracker/internal/models"
	repo "github.com/baharkarakas/finance-tracker/internal/repository"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func dec128(t *testing.T, s string) primitive.Decimal128 {
	t.Helper()
	v, err := primitive.ParseDecimal128(s)
	if err != nil {
		t.Fatalf("parse decimal128 %q: %v", s, err)
	}
	return v
}

func TestDecimalRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "90", "110.25", "-20.5"} {
		d := decimal.RequireFromString(s)
		v, err := toDec128(d)
		if err != nil {
			t.Fatalf("toDec128(%s): %v", s, err)
		}
		if got := fromDec128(v); !got.Equal(d) {
			t.Fatalf("round trip %s: got %s", s, got)
		}
	}
}

func TestDecimalOverPrecisionIsAnError(t *testing.T) {
	d := decimal.RequireFromString("0.1234567890123456789012345678901234567")
	if _, err := toDec128(d); err == nil {
		t.Fatal("expected an error for 37 significant digits")
	}
}

func TestExpensesCreateRejectsOverPrecisionBeforeWrite(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("no insert issued", func(mt *mtest.T) {
		r := &expensesRepo{coll: mt.Coll}
		_, err := r.Create(context.Background(), models.Expense{
			BudgetID:    primitive.NewObjectID().Hex(),
			Description: "x",
			Amount:      decimal.RequireFromString("0.1234567890123456789012345678901234567"),
		})
		if err == nil {
			t.Fatal("expected an error")
		}
		if started := mt.GetAllStartedEvents(); len(started) != 0 {
			t.Fatalf("expected no commands, got %d", len(started))
		}
	})
}

func TestBudgetsAddExpenditure(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success returns updated budget", func(mt *mtest.T) {
		r := &budgetsRepo{coll: mt.Coll}
		oid := primitive.NewObjectID()
		now := time.Now().UTC().Truncate(time.Millisecond)

		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{
				Key: "value",
				Value: bson.D{
					{Key: "_id", Value: oid},
					{Key: "user_id", Value: "u1"},
					{Key: "name", Value: "Groceries"},
					{Key: "amount", Value: dec128(t, "100")},
					{Key: "expenditure", Value: dec128(t, "110")},
					{Key: "month", Value: "March"},
					{Key: "year", Value: 2025},
					{Key: "created_at", Value: now},
					{Key: "updated_at", Value: now},
				},
			},
		))

		b, err := r.AddExpenditure(context.Background(), oid.Hex(), decimal.NewFromInt(20))
		if err != nil {
			t.Fatalf("AddExpenditure failed: %v", err)
		}
		if b.ID != oid.Hex() {
			t.Fatalf("unexpected id: got %s, want %s", b.ID, oid.Hex())
		}
		if !b.Expenditure.Equal(decimal.NewFromInt(110)) {
			t.Fatalf("unexpected expenditure: got %s", b.Expenditure)
		}
		if b.UserID != "u1" || b.Year != 2025 {
			t.Fatalf("unexpected budget: %+v", b)
		}
	})

	mt.Run("malformed id is not found", func(mt *mtest.T) {
		r := &budgetsRepo{coll: mt.Coll}
		_, err := r.AddExpenditure(context.Background(), "not-an-object-id", decimal.NewFromInt(1))
		if !errors.Is(err, repo.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	mt.Run("command error", func(mt *mtest.T) {
		r := &budgetsRepo{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Name:    "Unauthorized",
			Message: "mock findAndModify error",
		}))

		_, err := r.AddExpenditure(context.Background(), primitive.NewObjectID().Hex(), decimal.NewFromInt(1))
		if err == nil {
			t.Fatalf("expected error but got nil")
		}
		if errors.Is(err, repo.ErrNotFound) {
			t.Fatalf("command error must not map to ErrNotFound")
		}
	})
}

func TestBudgetsListByUser(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		r := &budgetsRepo{coll: mt.Coll}
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(
			0,
			ns,
			mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "user_id", Value: "u1"},
				{Key: "name", Value: "Rent"},
				{Key: "amount", Value: dec128(t, "1200")},
				{Key: "expenditure", Value: dec128(t, "0")},
				{Key: "month", Value: "April"},
				{Key: "year", Value: 2025},
			},
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "user_id", Value: "u1"},
				{Key: "name", Value: "Food"},
				{Key: "amount", Value: dec128(t, "300.50")},
				{Key: "expenditure", Value: dec128(t, "12.25")},
				{Key: "month", Value: "April"},
				{Key: "year", Value: 2025},
			},
		))

		budgets, err := r.ListByUser(context.Background(), "u1")
		if err != nil {
			t.Fatalf("ListByUser failed: %v", err)
		}
		if len(budgets) != 2 {
			t.Fatalf("unexpected budget count: got %d, want 2", len(budgets))
		}
		if !budgets[1].Expenditure.Equal(decimal.RequireFromString("12.25")) {
			t.Fatalf("unexpected expenditure: %s", budgets[1].Expenditure)
		}
	})
}

func TestAlertsUpdateStatus(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		r := &alertsRepo{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))
		if err := r.UpdateStatus(context.Background(), primitive.NewObjectID().Hex(), models.AlertTriggered); err != nil {
			t.Fatalf("UpdateStatus failed: %v", err)
		}
	})

	mt.Run("no match", func(mt *mtest.T) {
		r := &alertsRepo{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))
		err := r.UpdateStatus(context.Background(), primitive.NewObjectID().Hex(), models.AlertActive)
		if !errors.Is(err, repo.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestNotificationsMarkAllRead(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns modified count", func(mt *mtest.T) {
		r := &notificationsRepo{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 3},
			bson.E{Key: "nModified", Value: 3},
		))
		n, err := r.MarkAllRead(context.Background(), "u1")
		if err != nil {
			t.Fatalf("MarkAllRead failed: %v", err)
		}
		if n != 3 {
			t.Fatalf("unexpected modified count: got %d, want 3", n)
		}
	})

	mt.Run("mark read skips malformed ids", func(mt *mtest.T) {
		r := &notificationsRepo{coll: mt.Coll}
		n, err := r.MarkRead(context.Background(), "u1", []string{"bogus"})
		if err != nil {
			t.Fatalf("MarkRead failed: %v", err)
		}
		if n != 0 {
			t.Fatalf("unexpected modified count: got %d, want 0", n)
		}
	})
}

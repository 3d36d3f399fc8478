package repository

import (
	"context"
	"errors"

	"github.com/baharkarakas/finance-tracker/internal/models"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type Users interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
}

type Budgets interface {
	Create(ctx context.Context, b models.Budget) (models.Budget, error)
	GetByID(ctx context.Context, id string) (models.Budget, error)
	ListByUser(ctx context.Context, userID string) ([]models.Budget, error)
	// Update persists name, amount, month and year. Expenditure is untouched.
	Update(ctx context.Context, b models.Budget) (models.Budget, error)
	// AddExpenditure applies delta atomically and returns the stored budget.
	AddExpenditure(ctx context.Context, id string, delta decimal.Decimal) (models.Budget, error)
	SetExpenditure(ctx context.Context, id string, v decimal.Decimal) (models.Budget, error)
	Delete(ctx context.Context, id string) error
}

type Expenses interface {
	Create(ctx context.Context, e models.Expense) (models.Expense, error)
	GetByID(ctx context.Context, id string) (models.Expense, error)
	ListByBudgets(ctx context.Context, budgetIDs []string) ([]models.Expense, error)
	Update(ctx context.Context, e models.Expense) (models.Expense, error)
	Delete(ctx context.Context, id string) error
	SumByBudget(ctx context.Context, budgetID string) (decimal.Decimal, error)
	CountByBudget(ctx context.Context, budgetID string) (int64, error)
}

type Alerts interface {
	Create(ctx context.Context, a models.Alert) (models.Alert, error)
	GetByID(ctx context.Context, id string) (models.Alert, error)
	ListByBudgets(ctx context.Context, budgetIDs []string) ([]models.Alert, error)
	Update(ctx context.Context, a models.Alert) (models.Alert, error)
	UpdateStatus(ctx context.Context, id string, status models.AlertStatus) error
	Delete(ctx context.Context, id string) error
	CountByBudget(ctx context.Context, budgetID string) (int64, error)
}

type Notifications interface {
	Create(ctx context.Context, n models.Notification) (models.Notification, error)
	// ListByUser returns newest first.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID string, ids []string) (int64, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
}

// Ledger bundles the stores one backend provides.
type Ledger struct {
	Users         Users
	Budgets       Budgets
	Expenses      Expenses
	Alerts        Alerts
	Notifications Notifications
}

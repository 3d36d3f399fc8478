package services

import (
	"log/slog"

	repo "github.com/baharkarakas/finance-tracker/internal/repository"
	"github.com/baharkarakas/finance-tracker/internal/worker"
)

// Services wires every service over one ledger. All of them share the same
// BudgetLocks so expense, alert and repair work on a budget never interleave.
type Services struct {
	Users         *UserService
	Budgets       *BudgetService
	Expenses      *ExpenseService
	Alerts        *AlertService
	Notifications *NotificationFeed
	Repair        *RepairService
}

func New(l repo.Ledger, pool *worker.Pool, log *slog.Logger) *Services {
	if log == nil {
		log = slog.Default()
	}
	locks := NewBudgetLocks()
	feed := NewNotificationFeed(l.Notifications)
	eval := NewAlertEvaluator(l.Alerts, feed, log)
	return &Services{
		Users:         NewUserService(l.Users),
		Budgets:       NewBudgetService(l.Budgets, l.Expenses, l.Alerts, locks, log),
		Expenses:      NewExpenseService(l.Expenses, l.Budgets, eval, locks, log),
		Alerts:        NewAlertService(l.Alerts, l.Budgets, locks, log),
		Notifications: feed,
		Repair:        NewRepairService(l.Budgets, l.Expenses, eval, locks, pool, log),
	}
}

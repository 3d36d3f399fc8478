package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/baharkarakas/finance-tracker/internal/apperr"
	"github.com/baharkarakas/finance-tracker/internal/metrics"
	"github.com/baharkarakas/finance-tracker/internal/models"
	repo "github.com/baharkarakas/finance-tracker/internal/repository"
	"github.com/baharkarakas/finance-tracker/internal/validate"
	"github.com/shopspring/decimal"
)

// NewExpense is the input of ExpenseService.Create.
type NewExpense struct {
	Description string           `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	BudgetID    string           `json:"budget_id"`
}

func (in NewExpense) validate() error {
	return validate.Check(
		validate.Required("description", in.Description),
		validate.RequiredAmount("amount", in.Amount),
		validate.Positive("amount", in.Amount),
		validate.Money("amount", in.Amount),
		validate.Required("budget_id", in.BudgetID),
	).Err()
}

func validateExpensePatch(p models.ExpensePatch) error {
	var desc *validate.ErrField
	if p.Description != nil {
		desc = validate.Required("description", *p.Description)
	}
	return validate.Check(desc, validate.Positive("amount", p.Amount), validate.Money("amount", p.Amount)).Err()
}

// ExpenseService is the only write path for expenses. Every mutation is paired
// with the matching change to the owning budget's expenditure, followed by an
// alert evaluation when the expenditure moved.
type ExpenseService struct {
	expenses  repo.Expenses
	budgets   repo.Budgets
	evaluator *AlertEvaluator
	locks     *BudgetLocks
	guard     guard
	log       *slog.Logger
}

func NewExpenseService(e repo.Expenses, b repo.Budgets, ev *AlertEvaluator, locks *BudgetLocks, log *slog.Logger) *ExpenseService {
	if log == nil {
		log = slog.Default()
	}
	return &ExpenseService{expenses: e, budgets: b, evaluator: ev, locks: locks, guard: guard{b}, log: log}
}

// ----------------- Helpers -----------------

// divergence records a write sequence that stopped half way, leaving the
// budget's expenditure out of step with its expenses.
func (s *ExpenseService) divergence(op, budgetID, expenseID string, delta decimal.Decimal, err error) {
	metrics.ExpenditureDivergence.WithLabelValues("partial_write").Inc()
	s.log.Error("budget expenditure diverged from expenses",
		"op", op, "budget_id", budgetID, "expense_id", expenseID, "delta", delta.String(), "err", err)
}

func (s *ExpenseService) loadExpense(ctx context.Context, id string) (models.Expense, error) {
	e, err := s.expenses.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Expense{}, apperr.NotFound(msgExpenseNotFound)
	}
	if err != nil {
		return models.Expense{}, fmt.Errorf("load expense %s: %w", id, err)
	}
	return e, nil
}

// ownedExpense loads the expense and authorizes the caller against its budget.
func (s *ExpenseService) ownedExpense(ctx context.Context, id, userID string) (models.Expense, models.Budget, error) {
	e, err := s.loadExpense(ctx, id)
	if err != nil {
		return models.Expense{}, models.Budget{}, err
	}
	b, err := s.guard.ownedBudget(ctx, e.BudgetID, userID)
	if err != nil {
		return models.Expense{}, models.Budget{}, err
	}
	return e, b, nil
}

func (s *ExpenseService) reconcile(ctx context.Context, b models.Budget, userID string) error {
	if err := s.evaluator.Reconcile(ctx, b, b.Expenditure, userID); err != nil {
		return fmt.Errorf("evaluate alerts for budget %s: %w", b.ID, err)
	}
	return nil
}

// ----------------- Commands -----------------

func (s *ExpenseService) Create(ctx context.Context, in NewExpense, userID string) (models.Expense, error) {
	if err := requireUser(userID); err != nil {
		return models.Expense{}, err
	}
	in.Description = strings.TrimSpace(in.Description)
	if err := in.validate(); err != nil {
		return models.Expense{}, apperr.Validation(err)
	}

	b, err := s.guard.ownedBudget(ctx, in.BudgetID, userID)
	if err != nil {
		return models.Expense{}, err
	}

	unlock := s.locks.Lock(b.ID)
	defer unlock()

	e, err := s.expenses.Create(ctx, models.Expense{
		BudgetID:    b.ID,
		Description: in.Description,
		Amount:      *in.Amount,
	})
	if err != nil {
		return models.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	updated, err := s.budgets.AddExpenditure(ctx, b.ID, e.Amount)
	if err != nil {
		s.divergence("create", b.ID, e.ID, e.Amount, err)
		return models.Expense{}, fmt.Errorf("apply expense %s to budget: %w", e.ID, err)
	}
	metrics.ExpenseMutations.WithLabelValues("create").Inc()

	if err := s.reconcile(ctx, updated, userID); err != nil {
		return models.Expense{}, err
	}
	return e, nil
}

// Update applies a partial patch. Only an amount change touches the budget and
// re-runs alert evaluation.
func (s *ExpenseService) Update(ctx context.Context, id string, patch models.ExpensePatch, userID string) (models.Expense, error) {
	if err := requireUser(userID); err != nil {
		return models.Expense{}, err
	}
	if patch.Description != nil {
		trimmed := strings.TrimSpace(*patch.Description)
		patch.Description = &trimmed
	}
	if err := validateExpensePatch(patch); err != nil {
		return models.Expense{}, apperr.Validation(err)
	}

	e, b, err := s.ownedExpense(ctx, id, userID)
	if err != nil {
		return models.Expense{}, err
	}
	if patch.BudgetID != nil && *patch.BudgetID != e.BudgetID {
		return models.Expense{}, apperr.Invalid("budget reassignment is not supported")
	}
	if patch.IsEmpty() {
		return e, nil
	}

	unlock := s.locks.Lock(b.ID)
	defer unlock()

	// re-read under the lock so the delta is taken against the stored amount
	if e, err = s.loadExpense(ctx, id); err != nil {
		return models.Expense{}, err
	}
	delta := patch.Delta(e)
	if patch.Description == nil && delta.IsZero() {
		return e, nil
	}

	patch.Apply(&e)
	e, err = s.expenses.Update(ctx, e)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Expense{}, apperr.NotFound(msgExpenseNotFound)
	}
	if err != nil {
		return models.Expense{}, fmt.Errorf("update expense %s: %w", id, err)
	}
	metrics.ExpenseMutations.WithLabelValues("update").Inc()

	if delta.IsZero() {
		return e, nil
	}
	updated, err := s.budgets.AddExpenditure(ctx, b.ID, delta)
	if err != nil {
		s.divergence("update", b.ID, e.ID, delta, err)
		return models.Expense{}, fmt.Errorf("apply expense %s change to budget: %w", e.ID, err)
	}
	if err := s.reconcile(ctx, updated, userID); err != nil {
		return models.Expense{}, err
	}
	return e, nil
}

// Delete subtracts the expense from its budget first, then removes it.
func (s *ExpenseService) Delete(ctx context.Context, id, userID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	_, b, err := s.ownedExpense(ctx, id, userID)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(b.ID)
	defer unlock()

	e, err := s.loadExpense(ctx, id)
	if err != nil {
		return err
	}

	updated, err := s.budgets.AddExpenditure(ctx, b.ID, e.Amount.Neg())
	if err != nil {
		return fmt.Errorf("remove expense %s from budget: %w", e.ID, err)
	}
	if err := s.expenses.Delete(ctx, e.ID); err != nil {
		s.divergence("delete", b.ID, e.ID, e.Amount.Neg(), err)
		return fmt.Errorf("delete expense %s: %w", e.ID, err)
	}
	metrics.ExpenseMutations.WithLabelValues("delete").Inc()

	return s.reconcile(ctx, updated, userID)
}

// ----------------- Queries -----------------

func (s *ExpenseService) Get(ctx context.Context, id, userID string) (models.Expense, error) {
	if err := requireUser(userID); err != nil {
		return models.Expense{}, err
	}
	e, _, err := s.ownedExpense(ctx, id, userID)
	return e, err
}

// List returns the caller's expenses, optionally restricted to one budget.
func (s *ExpenseService) List(ctx context.Context, userID, budgetID string) ([]models.Expense, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var ids []string
	if budgetID != "" {
		b, err := s.guard.ownedBudget(ctx, budgetID, userID)
		if err != nil {
			return nil, err
		}
		ids = []string{b.ID}
	} else {
		var err error
		if ids, err = s.guard.ownedBudgetIDs(ctx, userID); err != nil {
			return nil, err
		}
	}
	if len(ids) == 0 {
		return []models.Expense{}, nil
	}
	return s.expenses.ListByBudgets(ctx, ids)
}

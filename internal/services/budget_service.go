package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/baharkarakas/finance-tracker/internal/apperr"
	"github.com/baharkarakas/finance-tracker/internal/models"
	repo "github.com/baharkarakas/finance-tracker/internal/repository"
	"github.com/baharkarakas/finance-tracker/internal/validate"
	"github.com/shopspring/decimal"
)

type NewBudget struct {
	Name   string           `json:"name"`
	Amount *decimal.Decimal `json:"amount"`
	Month  string           `json:"month"`
	Year   int              `json:"year"`
}

func (in NewBudget) validate() error {
	return validate.Check(
		validate.Required("name", in.Name),
		validate.RequiredAmount("amount", in.Amount),
		validate.NonNegative("amount", in.Amount),
		validate.Money("amount", in.Amount),
		validate.Required("month", in.Month),
		validate.MinInt("year", int64(in.Year), 1),
	).Err()
}

func validateBudgetPatch(p models.BudgetPatch) error {
	var name, month, year *validate.ErrField
	if p.Name != nil {
		name = validate.Required("name", *p.Name)
	}
	if p.Month != nil {
		month = validate.Required("month", *p.Month)
	}
	if p.Year != nil {
		year = validate.MinInt("year", int64(*p.Year), 1)
	}
	return validate.Check(name, validate.NonNegative("amount", p.Amount), validate.Money("amount", p.Amount), month, year).Err()
}

type BudgetService struct {
	budgets  repo.Budgets
	expenses repo.Expenses
	alerts   repo.Alerts
	locks    *BudgetLocks
	guard    guard
	log      *slog.Logger
}

func NewBudgetService(b repo.Budgets, e repo.Expenses, a repo.Alerts, locks *BudgetLocks, log *slog.Logger) *BudgetService {
	if log == nil {
		log = slog.Default()
	}
	return &BudgetService{budgets: b, expenses: e, alerts: a, locks: locks, guard: guard{b}, log: log}
}

func (s *BudgetService) Create(ctx context.Context, in NewBudget, userID string) (models.Budget, error) {
	if err := requireUser(userID); err != nil {
		return models.Budget{}, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Month = strings.TrimSpace(in.Month)
	if err := in.validate(); err != nil {
		return models.Budget{}, apperr.Validation(err)
	}
	b, err := s.budgets.Create(ctx, models.Budget{
		UserID:      userID,
		Name:        in.Name,
		Amount:      *in.Amount,
		Expenditure: decimal.Zero,
		Month:       in.Month,
		Year:        in.Year,
	})
	if err != nil {
		return models.Budget{}, fmt.Errorf("create budget: %w", err)
	}
	return b, nil
}

func (s *BudgetService) Get(ctx context.Context, id, userID string) (models.Budget, error) {
	if err := requireUser(userID); err != nil {
		return models.Budget{}, err
	}
	return s.guard.ownedBudget(ctx, id, userID)
}

func (s *BudgetService) List(ctx context.Context, userID string) ([]models.Budget, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.budgets.ListByUser(ctx, userID)
}

// Update changes the descriptive fields and the allocation. Expenditure is
// owned by the expense path and cannot be patched here.
func (s *BudgetService) Update(ctx context.Context, id string, patch models.BudgetPatch, userID string) (models.Budget, error) {
	if err := requireUser(userID); err != nil {
		return models.Budget{}, err
	}
	if err := validateBudgetPatch(patch); err != nil {
		return models.Budget{}, apperr.Validation(err)
	}
	if _, err := s.guard.ownedBudget(ctx, id, userID); err != nil {
		return models.Budget{}, err
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	b, err := s.guard.ownedBudget(ctx, id, userID)
	if err != nil {
		return models.Budget{}, err
	}
	patch.Apply(&b)
	b, err = s.budgets.Update(ctx, b)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Budget{}, apperr.NotFound(msgBudgetNotFound)
	}
	if err != nil {
		return models.Budget{}, fmt.Errorf("update budget %s: %w", id, err)
	}
	return b, nil
}

// Delete removes the budget only. Its expenses and alerts are left in place
// and reported in the log.
func (s *BudgetService) Delete(ctx context.Context, id, userID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if _, err := s.guard.ownedBudget(ctx, id, userID); err != nil {
		return err
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	if err := s.budgets.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.NotFound(msgBudgetNotFound)
		}
		return fmt.Errorf("delete budget %s: %w", id, err)
	}

	expenses, eerr := s.expenses.CountByBudget(ctx, id)
	alerts, aerr := s.alerts.CountByBudget(ctx, id)
	if err := errors.Join(eerr, aerr); err != nil {
		s.log.Warn("count orphans after budget delete", "budget_id", id, "err", err)
		return nil
	}
	if expenses > 0 || alerts > 0 {
		s.log.Warn("budget deleted with dependents left behind",
			"budget_id", id, "user_id", userID, "orphan_expenses", expenses, "orphan_alerts", alerts)
	}
	return nil
}

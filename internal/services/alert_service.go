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

type NewAlert struct {
	Description  string           `json:"description"`
	TargetAmount *decimal.Decimal `json:"target_amount"`
	BudgetID     string           `json:"budget_id"`
}

func (in NewAlert) validate() error {
	return validate.Check(
		validate.Required("description", in.Description),
		validate.RequiredAmount("target_amount", in.TargetAmount),
		validate.NonNegative("target_amount", in.TargetAmount),
		validate.Money("target_amount", in.TargetAmount),
		validate.Required("budget_id", in.BudgetID),
	).Err()
}

// AlertService manages alert definitions. The cached status is derived from
// the budget's expenditure whenever the target is set; those derivations never
// notify, only the expense path does.
type AlertService struct {
	alerts repo.Alerts
	locks  *BudgetLocks
	guard  guard
	log    *slog.Logger
}

func NewAlertService(a repo.Alerts, b repo.Budgets, locks *BudgetLocks, log *slog.Logger) *AlertService {
	if log == nil {
		log = slog.Default()
	}
	return &AlertService{alerts: a, locks: locks, guard: guard{b}, log: log}
}

func (s *AlertService) ownedAlert(ctx context.Context, id, userID string) (models.Alert, models.Budget, error) {
	a, err := s.alerts.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Alert{}, models.Budget{}, apperr.NotFound(msgAlertNotFound)
	}
	if err != nil {
		return models.Alert{}, models.Budget{}, fmt.Errorf("load alert %s: %w", id, err)
	}
	b, err := s.guard.ownedBudget(ctx, a.BudgetID, userID)
	if err != nil {
		return models.Alert{}, models.Budget{}, err
	}
	return a, b, nil
}

func (s *AlertService) Create(ctx context.Context, in NewAlert, userID string) (models.Alert, error) {
	if err := requireUser(userID); err != nil {
		return models.Alert{}, err
	}
	in.Description = strings.TrimSpace(in.Description)
	if err := in.validate(); err != nil {
		return models.Alert{}, apperr.Validation(err)
	}
	if _, err := s.guard.ownedBudget(ctx, in.BudgetID, userID); err != nil {
		return models.Alert{}, err
	}

	unlock := s.locks.Lock(in.BudgetID)
	defer unlock()

	b, err := s.guard.ownedBudget(ctx, in.BudgetID, userID)
	if err != nil {
		return models.Alert{}, err
	}
	a := models.Alert{
		BudgetID:     b.ID,
		Description:  in.Description,
		TargetAmount: *in.TargetAmount,
	}
	a.Status = a.StatusFor(b.Expenditure)

	a, err = s.alerts.Create(ctx, a)
	if err != nil {
		return models.Alert{}, fmt.Errorf("create alert: %w", err)
	}
	return a, nil
}

func (s *AlertService) Get(ctx context.Context, id, userID string) (models.Alert, error) {
	if err := requireUser(userID); err != nil {
		return models.Alert{}, err
	}
	a, _, err := s.ownedAlert(ctx, id, userID)
	return a, err
}

func (s *AlertService) List(ctx context.Context, userID string) ([]models.Alert, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	ids, err := s.guard.ownedBudgetIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.Alert{}, nil
	}
	return s.alerts.ListByBudgets(ctx, ids)
}

func (s *AlertService) Update(ctx context.Context, id string, patch models.AlertPatch, userID string) (models.Alert, error) {
	if err := requireUser(userID); err != nil {
		return models.Alert{}, err
	}
	var desc *validate.ErrField
	if patch.Description != nil {
		trimmed := strings.TrimSpace(*patch.Description)
		patch.Description = &trimmed
		desc = validate.Required("description", trimmed)
	}
	if err := validate.Check(desc,
		validate.NonNegative("target_amount", patch.TargetAmount),
		validate.Money("target_amount", patch.TargetAmount),
	).Err(); err != nil {
		return models.Alert{}, apperr.Validation(err)
	}

	a, _, err := s.ownedAlert(ctx, id, userID)
	if err != nil {
		return models.Alert{}, err
	}

	unlock := s.locks.Lock(a.BudgetID)
	defer unlock()

	a, b, err := s.ownedAlert(ctx, id, userID)
	if err != nil {
		return models.Alert{}, err
	}
	patch.Apply(&a)
	if next := a.StatusFor(b.Expenditure); next != a.Status {
		s.log.Info("alert status re-derived", "alert_id", a.ID, "from", a.Status, "to", next)
		a.Status = next
	}

	a, err = s.alerts.Update(ctx, a)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Alert{}, apperr.NotFound(msgAlertNotFound)
	}
	if err != nil {
		return models.Alert{}, fmt.Errorf("update alert %s: %w", id, err)
	}
	return a, nil
}

func (s *AlertService) Delete(ctx context.Context, id, userID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if _, _, err := s.ownedAlert(ctx, id, userID); err != nil {
		return err
	}
	if err := s.alerts.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.NotFound(msgAlertNotFound)
		}
		return fmt.Errorf("delete alert %s: %w", id, err)
	}
	return nil
}

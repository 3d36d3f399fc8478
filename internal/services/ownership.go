package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/baharkarakas/finance-tracker/internal/apperr"
	"github.com/baharkarakas/finance-tracker/internal/models"
	repo "github.com/baharkarakas/finance-tracker/internal/repository"
)

const (
	msgBudgetNotFound  = "Budget not found"
	msgExpenseNotFound = "Expense not found"
	msgAlertNotFound   = "Alert not found"
	msgBudgetForbidden = "Unauthorized: Budget does not belong to this user"
	msgAuthRequired    = "Authentication required"
)

// AuthorizeBudget decides whether userID may act on b. A nil budget means the
// lookup found nothing and is reported as NotFound, never Forbidden.
func AuthorizeBudget(userID string, b *models.Budget) error {
	if b == nil {
		return apperr.NotFound(msgBudgetNotFound)
	}
	if !b.OwnedBy(userID) {
		return apperr.Forbidden(msgBudgetForbidden)
	}
	return nil
}

func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return apperr.Unauthenticated(msgAuthRequired)
	}
	return nil
}

// guard resolves a parent budget and runs it through AuthorizeBudget.
type guard struct{ budgets repo.Budgets }

func (g guard) ownedBudget(ctx context.Context, budgetID, userID string) (models.Budget, error) {
	b, err := g.budgets.GetByID(ctx, budgetID)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Budget{}, AuthorizeBudget(userID, nil)
	}
	if err != nil {
		return models.Budget{}, fmt.Errorf("load budget %s: %w", budgetID, err)
	}
	if err := AuthorizeBudget(userID, &b); err != nil {
		return models.Budget{}, err
	}
	return b, nil
}

func (g guard) ownedBudgetIDs(ctx context.Context, userID string) ([]string, error) {
	budgets, err := g.budgets.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	ids := make([]string, 0, len(budgets))
	for _, b := range budgets {
		ids = append(ids, b.ID)
	}
	return ids, nil
}

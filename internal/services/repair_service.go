package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/baharkarakas/finance-tracker/internal/metrics"
	repo "github.com/baharkarakas/finance-tracker/internal/repository"
	"github.com/baharkarakas/finance-tracker/internal/worker"
	"github.com/shopspring/decimal"
)

type RepairResult struct {
	BudgetID   string          `json:"budget_id"`
	Previous   decimal.Decimal `json:"previous"`
	Recomputed decimal.Decimal `json:"recomputed"`
	Changed    bool            `json:"changed"`
}

// RepairService recomputes expenditure from the live expenses. Running it on a
// consistent budget writes nothing.
type RepairService struct {
	budgets   repo.Budgets
	expenses  repo.Expenses
	evaluator *AlertEvaluator
	locks     *BudgetLocks
	pool      *worker.Pool
	guard     guard
	log       *slog.Logger
}

func NewRepairService(b repo.Budgets, e repo.Expenses, ev *AlertEvaluator, locks *BudgetLocks, pool *worker.Pool, log *slog.Logger) *RepairService {
	if log == nil {
		log = slog.Default()
	}
	return &RepairService{budgets: b, expenses: e, evaluator: ev, locks: locks, pool: pool, guard: guard{b}, log: log}
}

func (s *RepairService) RepairBudget(ctx context.Context, budgetID, userID string) (RepairResult, error) {
	if err := requireUser(userID); err != nil {
		return RepairResult{}, err
	}
	if _, err := s.guard.ownedBudget(ctx, budgetID, userID); err != nil {
		return RepairResult{}, err
	}

	unlock := s.locks.Lock(budgetID)
	defer unlock()

	b, err := s.guard.ownedBudget(ctx, budgetID, userID)
	if err != nil {
		return RepairResult{}, err
	}
	sum, err := s.expenses.SumByBudget(ctx, b.ID)
	if err != nil {
		return RepairResult{}, fmt.Errorf("sum expenses of budget %s: %w", b.ID, err)
	}
	res := RepairResult{BudgetID: b.ID, Previous: b.Expenditure, Recomputed: sum}
	if sum.Equal(b.Expenditure) {
		return res, nil
	}

	metrics.ExpenditureDivergence.WithLabelValues("repair").Inc()
	s.log.Warn("repairing budget expenditure",
		"budget_id", b.ID, "stored", b.Expenditure.String(), "recomputed", sum.String())

	b, err = s.budgets.SetExpenditure(ctx, b.ID, sum)
	if err != nil {
		return res, fmt.Errorf("store repaired expenditure for %s: %w", res.BudgetID, err)
	}
	res.Changed = true
	if err := s.evaluator.Reconcile(ctx, b, b.Expenditure, userID); err != nil {
		return res, fmt.Errorf("evaluate alerts for budget %s: %w", b.ID, err)
	}
	return res, nil
}

// RepairAll repairs every budget of userID on the worker pool and waits for
// all of them. Results keep the order of the budget listing.
func (s *RepairService) RepairAll(ctx context.Context, userID string) ([]RepairResult, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	ids, err := s.guard.ownedBudgetIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	results := make([]RepairResult, len(ids))
	errs := make([]error, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		i, id := i, id
		wg.Add(1)
		s.pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				errs[i] = ctx.Err()
				return
			}
			results[i], errs[i] = s.RepairBudget(ctx, id, userID)
		})
	}
	wg.Wait()
	return results, errors.Join(errs...)
}

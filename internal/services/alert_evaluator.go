package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/baharkarakas/finance-tracker/internal/metrics"
	"github.com/baharkarakas/finance-tracker/internal/models"
	repo "github.com/baharkarakas/finance-tracker/internal/repository"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// AlertEvaluator refreshes the cached status of a budget's alerts after its
// expenditure changed and writes the resulting notifications.
type AlertEvaluator struct {
	alerts repo.Alerts
	feed   *NotificationFeed
	log    *slog.Logger
	now    func() time.Time
}

func NewAlertEvaluator(alerts repo.Alerts, feed *NotificationFeed, log *slog.Logger) *AlertEvaluator {
	if log == nil {
		log = slog.Default()
	}
	return &AlertEvaluator{alerts: alerts, feed: feed, log: log, now: time.Now}
}

// Reconcile evaluates every alert of budget against expenditure.
//
// An alert crossing upward is set TRIGGERED and notifies userID; one falling
// back below its target is set ACTIVE silently. Independently, while
// expenditure is above the budget amount every call appends an overrun
// notification. Alerts are handled one by one; a failure on one does not stop
// the others and all failures are returned joined.
func (e *AlertEvaluator) Reconcile(ctx context.Context, budget models.Budget, expenditure decimal.Decimal, userID string) error {
	alerts, err := e.alerts.ListByBudgets(ctx, []string{budget.ID})
	if err != nil {
		return fmt.Errorf("list alerts for budget %s: %w", budget.ID, err)
	}

	var errs []error
	for _, a := range alerts {
		if err := e.evaluate(ctx, budget, a, expenditure, userID); err != nil {
			errs = append(errs, err)
		}
	}

	if budget.Exceeded(expenditure) {
		if err := e.feed.Append(ctx, userID, overrunMessage(budget, expenditure), e.now()); err != nil {
			errs = append(errs, fmt.Errorf("overrun notification for budget %s: %w", budget.ID, err))
		} else {
			metrics.NotificationsAppended.WithLabelValues("overrun").Inc()
		}
	}
	return errors.Join(errs...)
}

func (e *AlertEvaluator) evaluate(ctx context.Context, budget models.Budget, a models.Alert, expenditure decimal.Decimal, userID string) error {
	next := a.StatusFor(expenditure)
	if next == a.Status {
		return nil
	}
	// a stored status outside ACTIVE/TRIGGERED is treated as ACTIVE
	if next == models.AlertActive && a.Status != models.AlertTriggered {
		return nil
	}

	if err := e.alerts.UpdateStatus(ctx, a.ID, next); err != nil {
		return fmt.Errorf("set alert %s %s: %w", a.ID, next, err)
	}
	metrics.AlertTransitions.WithLabelValues(string(next)).Inc()
	e.log.Info("alert status changed",
		"alert_id", a.ID, "budget_id", budget.ID, "from", a.Status, "to", next,
		"expenditure", expenditure.String(), "target", a.TargetAmount.String())

	if next != models.AlertTriggered {
		return nil
	}
	if err := e.feed.Append(ctx, userID, alertMessage(a, budget, expenditure), e.now()); err != nil {
		return fmt.Errorf("alert notification for %s: %w", a.ID, err)
	}
	metrics.NotificationsAppended.WithLabelValues("alert").Inc()
	return nil
}

func alertMessage(a models.Alert, b models.Budget, expenditure decimal.Decimal) string {
	return fmt.Sprintf(`Alert: %s - Budget "%s" has reached %s of %s (%d%%)`,
		a.Description, b.Name, expenditure.String(), b.Amount.String(), percentOf(expenditure, b.Amount))
}

func overrunMessage(b models.Budget, expenditure decimal.Decimal) string {
	return fmt.Sprintf(`Budget "%s" has exceeded the budget amount of %s with an expenditure of %s`,
		b.Name, b.Amount.String(), expenditure.String())
}

// percentOf rounds expenditure/amount*100 to the nearest integer. A zero
// amount yields 0.
func percentOf(expenditure, amount decimal.Decimal) int64 {
	if amount.IsZero() {
		return 0
	}
	return expenditure.Div(amount).Mul(hundred).Round(0).IntPart()
}

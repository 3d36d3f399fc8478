package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AlertStatus string

const (
	AlertActive    AlertStatus = "ACTIVE"
	AlertTriggered AlertStatus = "TRIGGERED"
)

// Alert watches a budget's expenditure. Status is cached and refreshed on
// every expenditure change, never computed on read.
type Alert struct {
	ID           string          `json:"id"`
	BudgetID     string          `json:"budget_id"`
	Description  string          `json:"description"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	Status       AlertStatus     `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// StatusFor returns the status the alert should have at the given expenditure.
func (a *Alert) StatusFor(expenditure decimal.Decimal) AlertStatus {
	if expenditure.GreaterThanOrEqual(a.TargetAmount) {
		return AlertTriggered
	}
	return AlertActive
}

type AlertPatch struct {
	Description  *string          `json:"description,omitempty"`
	TargetAmount *decimal.Decimal `json:"target_amount,omitempty"`
}

func (p AlertPatch) Apply(a *Alert) {
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.TargetAmount != nil {
		a.TargetAmount = *p.TargetAmount
	}
}

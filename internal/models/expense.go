package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a single spend entry. BudgetID never changes after creation.
type Expense struct {
	ID          string          `json:"id"`
	BudgetID    string          `json:"budget_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ExpensePatch is a partial update. BudgetID is accepted only so that an
// attempted reassignment can be rejected.
type ExpensePatch struct {
	Description *string          `json:"description,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	BudgetID    *string          `json:"budget_id,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p ExpensePatch) IsEmpty() bool {
	return p.Description == nil && p.Amount == nil && p.BudgetID == nil
}

// Delta returns the expenditure change the patch implies for e.
// It is zero when the amount is absent or unchanged.
func (p ExpensePatch) Delta(e Expense) decimal.Decimal {
	if p.Amount == nil {
		return decimal.Zero
	}
	return p.Amount.Sub(e.Amount)
}

func (p ExpensePatch) Apply(e *Expense) {
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a named spending allocation for one month of one year.
// Expenditure is the running total of the amounts of its live expenses.
type Budget struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	Expenditure decimal.Decimal `json:"expenditure"`
	Month       string          `json:"month"`
	Year        int             `json:"year"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// OwnedBy reports whether userID owns the budget.
func (b *Budget) OwnedBy(userID string) bool { return b.UserID == userID }

// Exceeded reports whether spending is strictly above the allocation.
func (b *Budget) Exceeded(expenditure decimal.Decimal) bool {
	return expenditure.GreaterThan(b.Amount)
}

// BudgetPatch carries the user-editable fields of a budget. Nil fields are left as is.
type BudgetPatch struct {
	Name   *string          `json:"name,omitempty"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
	Month  *string          `json:"month,omitempty"`
	Year   *int             `json:"year,omitempty"`
}

func (p BudgetPatch) Apply(b *Budget) {
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.Amount != nil {
		b.Amount = *p.Amount
	}
	if p.Month != nil {
		b.Month = *p.Month
	}
	if p.Year != nil {
		b.Year = *p.Year
	}
}

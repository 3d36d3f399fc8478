// Package memory is a process-local Ledger Store. It backs tests and the
// "memory" store driver.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/baharkarakas/finance-tracker/internal/models"
	repo "github.com/baharkarakas/finance-tracker/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type store struct {
	mu            sync.Mutex
	users         map[string]models.User
	budgets       map[string]models.Budget
	expenses      map[string]models.Expense
	alerts        map[string]models.Alert
	notifications map[string]models.Notification
	now           func() time.Time
}

// New returns a Ledger whose stores share one lock.
func New() repo.Ledger { return newWithClock(time.Now) }

func newWithClock(now func() time.Time) repo.Ledger {
	s := &store{
		users:         map[string]models.User{},
		budgets:       map[string]models.Budget{},
		expenses:      map[string]models.Expense{},
		alerts:        map[string]models.Alert{},
		notifications: map[string]models.Notification{},
		now:           now,
	}
	return repo.Ledger{
		Users:         &usersRepo{s},
		Budgets:       &budgetsRepo{s},
		Expenses:      &expensesRepo{s},
		Alerts:        &alertsRepo{s},
		Notifications: &notificationsRepo{s},
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// ---------------- users ----------------

type usersRepo struct{ s *store }

func (r *usersRepo) Create(_ context.Context, u models.User) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return models.User{}, repo.ErrDuplicate
		}
	}
	now := r.s.now()
	u.ID = uuid.NewString()
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.users[u.ID] = u
	return u, nil
}

func (r *usersRepo) GetByID(_ context.Context, id string) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return models.User{}, repo.ErrNotFound
	}
	return u, nil
}

func (r *usersRepo) GetByEmail(_ context.Context, email string) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return models.User{}, repo.ErrNotFound
}

// ---------------- budgets ----------------

type budgetsRepo struct{ s *store }

func (r *budgetsRepo) Create(_ context.Context, b models.Budget) (models.Budget, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.CreatedAt, b.UpdatedAt = now, now
	r.s.budgets[b.ID] = b
	return b, nil
}

func (r *budgetsRepo) GetByID(_ context.Context, id string) (models.Budget, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.budgets[id]
	if !ok {
		return models.Budget{}, repo.ErrNotFound
	}
	return b, nil
}

func (r *budgetsRepo) ListByUser(_ context.Context, userID string) ([]models.Budget, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Budget
	for _, b := range r.s.budgets {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return newerFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out, nil
}

func (r *budgetsRepo) Update(_ context.Context, b models.Budget) (models.Budget, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.budgets[b.ID]
	if !ok {
		return models.Budget{}, repo.ErrNotFound
	}
	cur.Name, cur.Amount, cur.Month, cur.Year = b.Name, b.Amount, b.Month, b.Year
	cur.UpdatedAt = r.s.now()
	r.s.budgets[b.ID] = cur
	return cur, nil
}

func (r *budgetsRepo) AddExpenditure(_ context.Context, id string, delta decimal.Decimal) (models.Budget, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.budgets[id]
	if !ok {
		return models.Budget{}, repo.ErrNotFound
	}
	b.Expenditure = b.Expenditure.Add(delta)
	b.UpdatedAt = r.s.now()
	r.s.budgets[id] = b
	return b, nil
}

func (r *budgetsRepo) SetExpenditure(_ context.Context, id string, v decimal.Decimal) (models.Budget, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.budgets[id]
	if !ok {
		return models.Budget{}, repo.ErrNotFound
	}
	b.Expenditure = v
	b.UpdatedAt = r.s.now()
	r.s.budgets[id] = b
	return b, nil
}

func (r *budgetsRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.budgets[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.budgets, id)
	return nil
}

// ---------------- expenses ----------------

type expensesRepo struct{ s *store }

func (r *expensesRepo) Create(_ context.Context, e models.Expense) (models.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt, e.UpdatedAt = now, now
	r.s.expenses[e.ID] = e
	return e, nil
}

func (r *expensesRepo) GetByID(_ context.Context, id string) (models.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.expenses[id]
	if !ok {
		return models.Expense{}, repo.ErrNotFound
	}
	return e, nil
}

func (r *expensesRepo) ListByBudgets(_ context.Context, budgetIDs []string) ([]models.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Expense
	for _, e := range r.s.expenses {
		if contains(budgetIDs, e.BudgetID) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return newerFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out, nil
}

func (r *expensesRepo) Update(_ context.Context, e models.Expense) (models.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.expenses[e.ID]
	if !ok {
		return models.Expense{}, repo.ErrNotFound
	}
	cur.Description, cur.Amount = e.Description, e.Amount
	cur.UpdatedAt = r.s.now()
	r.s.expenses[e.ID] = cur
	return cur, nil
}

func (r *expensesRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.expenses[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.expenses, id)
	return nil
}

func (r *expensesRepo) SumByBudget(_ context.Context, budgetID string) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sum := decimal.Zero
	for _, e := range r.s.expenses {
		if e.BudgetID == budgetID {
			sum = sum.Add(e.Amount)
		}
	}
	return sum, nil
}

func (r *expensesRepo) CountByBudget(_ context.Context, budgetID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, e := range r.s.expenses {
		if e.BudgetID == budgetID {
			n++
		}
	}
	return n, nil
}

// ---------------- alerts ----------------

type alertsRepo struct{ s *store }

func (r *alertsRepo) Create(_ context.Context, a models.Alert) (models.Alert, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt, a.UpdatedAt = now, now
	r.s.alerts[a.ID] = a
	return a, nil
}

func (r *alertsRepo) GetByID(_ context.Context, id string) (models.Alert, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.alerts[id]
	if !ok {
		return models.Alert{}, repo.ErrNotFound
	}
	return a, nil
}

func (r *alertsRepo) ListByBudgets(_ context.Context, budgetIDs []string) ([]models.Alert, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Alert
	for _, a := range r.s.alerts {
		if contains(budgetIDs, a.BudgetID) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *alertsRepo) Update(_ context.Context, a models.Alert) (models.Alert, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.alerts[a.ID]
	if !ok {
		return models.Alert{}, repo.ErrNotFound
	}
	cur.Description, cur.TargetAmount, cur.Status = a.Description, a.TargetAmount, a.Status
	cur.UpdatedAt = r.s.now()
	r.s.alerts[a.ID] = cur
	return cur, nil
}

func (r *alertsRepo) UpdateStatus(_ context.Context, id string, status models.AlertStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.alerts[id]
	if !ok {
		return repo.ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = r.s.now()
	r.s.alerts[id] = a
	return nil
}

func (r *alertsRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.alerts[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.alerts, id)
	return nil
}

func (r *alertsRepo) CountByBudget(_ context.Context, budgetID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, a := range r.s.alerts {
		if a.BudgetID == budgetID {
			n++
		}
	}
	return n, nil
}

// ---------------- notifications ----------------

type notificationsRepo struct{ s *store }

func (r *notificationsRepo) Create(_ context.Context, n models.Notification) (models.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.CreatedAt = r.s.now()
	if n.Date.IsZero() {
		n.Date = n.CreatedAt
	}
	r.s.notifications[n.ID] = n
	return n, nil
}

func (r *notificationsRepo) ListByUser(_ context.Context, userID string, limit, offset int) ([]models.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Notification
	for _, n := range r.s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return newerFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
		}
		return out[i].Date.After(out[j].Date)
	})
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *notificationsRepo) MarkRead(_ context.Context, userID string, ids []string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, id := range ids {
		cur, ok := r.s.notifications[id]
		if !ok || cur.UserID != userID || cur.IsRead {
			continue
		}
		cur.IsRead = true
		r.s.notifications[id] = cur
		n++
	}
	return n, nil
}

func (r *notificationsRepo) MarkAllRead(_ context.Context, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, cur := range r.s.notifications {
		if cur.UserID != userID || cur.IsRead {
			continue
		}
		cur.IsRead = true
		r.s.notifications[id] = cur
		n++
	}
	return n, nil
}

func (r *notificationsRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, cur := range r.s.notifications {
		if cur.UserID == userID && !cur.IsRead {
			n++
		}
	}
	return n, nil
}

// newerFirst orders by time descending, then by id so equal timestamps list
// the same way on every call.
func newerFirst(a, b time.Time, idA, idB string) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return idA < idB
}

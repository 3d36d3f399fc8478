package postgres

import (
	"context"

	"github.com/baharkarakas/finance-tracker/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type expensesRepo struct{ pool *pgxpool.Pool }

const expenseCols = `id, budget_id, description, amount, created_at, updated_at`

func scanExpense(row pgx.Row) (models.Expense, error) {
	var e models.Expense
	err := row.Scan(&e.ID, &e.BudgetID, &e.Description, &e.Amount, &e.CreatedAt, &e.UpdatedAt)
	return e, mapErr(err)
}

func (r *expensesRepo) Create(ctx context.Context, e models.Expense) (models.Expense, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return scanExpense(r.pool.QueryRow(ctx,
		`INSERT INTO expenses(id, budget_id, description, amount) VALUES($1,$2,$3,$4)
		 RETURNING `+expenseCols,
		e.ID, e.BudgetID, e.Description, e.Amount,
	))
}

func (r *expensesRepo) GetByID(ctx context.Context, id string) (models.Expense, error) {
	return scanExpense(r.pool.QueryRow(ctx, `SELECT `+expenseCols+` FROM expenses WHERE id=$1`, id))
}

func (r *expensesRepo) ListByBudgets(ctx context.Context, budgetIDs []string) ([]models.Expense, error) {
	if len(budgetIDs) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+expenseCols+` FROM expenses WHERE budget_id = ANY($1) ORDER BY created_at DESC`, budgetIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *expensesRepo) Update(ctx context.Context, e models.Expense) (models.Expense, error) {
	return scanExpense(r.pool.QueryRow(ctx,
		`UPDATE expenses SET description=$2, amount=$3, updated_at=now() WHERE id=$1 RETURNING `+expenseCols,
		e.ID, e.Description, e.Amount,
	))
}

func (r *expensesRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id=$1`, id)
	if err != nil {
		return mapErr(err)
	}
	return affected(tag)
}

func (r *expensesRepo) SumByBudget(ctx context.Context, budgetID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE budget_id=$1`, budgetID,
	).Scan(&sum)
	return sum, err
}

func (r *expensesRepo) CountByBudget(ctx context.Context, budgetID string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM expenses WHERE budget_id=$1`, budgetID).Scan(&n)
	return n, err
}

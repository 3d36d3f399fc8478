package postgres

import (
	"context"

	"github.com/baharkarakas/finance-tracker/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type budgetsRepo struct{ pool *pgxpool.Pool }

const budgetCols = `id, user_id, name, amount, expenditure, month, year, created_at, updated_at`

func scanBudget(row pgx.Row) (models.Budget, error) {
	var b models.Budget
	err := row.Scan(&b.ID, &b.UserID, &b.Name, &b.Amount, &b.Expenditure, &b.Month, &b.Year, &b.CreatedAt, &b.UpdatedAt)
	return b, mapErr(err)
}

func (r *budgetsRepo) Create(ctx context.Context, b models.Budget) (models.Budget, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return scanBudget(r.pool.QueryRow(ctx,
		`INSERT INTO budgets(id, user_id, name, amount, expenditure, month, year)
		 VALUES($1,$2,$3,$4,$5,$6,$7)
		 RETURNING `+budgetCols,
		b.ID, b.UserID, b.Name, b.Amount, b.Expenditure, b.Month, b.Year,
	))
}

func (r *budgetsRepo) GetByID(ctx context.Context, id string) (models.Budget, error) {
	return scanBudget(r.pool.QueryRow(ctx, `SELECT `+budgetCols+` FROM budgets WHERE id=$1`, id))
}

func (r *budgetsRepo) ListByUser(ctx context.Context, userID string) ([]models.Budget, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+budgetCols+` FROM budgets WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *budgetsRepo) Update(ctx context.Context, b models.Budget) (models.Budget, error) {
	return scanBudget(r.pool.QueryRow(ctx,
		`UPDATE budgets
		    SET name=$2, amount=$3, month=$4, year=$5, updated_at=now()
		  WHERE id=$1
		  RETURNING `+budgetCols,
		b.ID, b.Name, b.Amount, b.Month, b.Year,
	))
}

// AddExpenditure increments in a single statement so concurrent deltas never overwrite each other.
func (r *budgetsRepo) AddExpenditure(ctx context.Context, id string, delta decimal.Decimal) (models.Budget, error) {
	return scanBudget(r.pool.QueryRow(ctx,
		`UPDATE budgets
		    SET expenditure = expenditure + $2,
		        updated_at = now()
		  WHERE id = $1
		  RETURNING `+budgetCols,
		id, delta,
	))
}

func (r *budgetsRepo) SetExpenditure(ctx context.Context, id string, v decimal.Decimal) (models.Budget, error) {
	return scanBudget(r.pool.QueryRow(ctx,
		`UPDATE budgets SET expenditure=$2, updated_at=now() WHERE id=$1 RETURNING `+budgetCols,
		id, v,
	))
}

func (r *budgetsRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM budgets WHERE id=$1`, id)
	if err != nil {
		return mapErr(err)
	}
	return affected(tag)
}

package postgres

import (
	"context"

	"github.com/baharkarakas/finance-tracker/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type alertsRepo struct{ pool *pgxpool.Pool }

const alertCols = `id, budget_id, description, target_amount, status, created_at, updated_at`

func scanAlert(row pgx.Row) (models.Alert, error) {
	var a models.Alert
	err := row.Scan(&a.ID, &a.BudgetID, &a.Description, &a.TargetAmount, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	return a, mapErr(err)
}

func (r *alertsRepo) Create(ctx context.Context, a models.Alert) (models.Alert, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return scanAlert(r.pool.QueryRow(ctx,
		`INSERT INTO alerts(id, budget_id, description, target_amount, status) VALUES($1,$2,$3,$4,$5)
		 RETURNING `+alertCols,
		a.ID, a.BudgetID, a.Description, a.TargetAmount, a.Status,
	))
}

func (r *alertsRepo) GetByID(ctx context.Context, id string) (models.Alert, error) {
	return scanAlert(r.pool.QueryRow(ctx, `SELECT `+alertCols+` FROM alerts WHERE id=$1`, id))
}

func (r *alertsRepo) ListByBudgets(ctx context.Context, budgetIDs []string) ([]models.Alert, error) {
	if len(budgetIDs) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+alertCols+` FROM alerts WHERE budget_id = ANY($1) ORDER BY created_at`, budgetIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *alertsRepo) Update(ctx context.Context, a models.Alert) (models.Alert, error) {
	return scanAlert(r.pool.QueryRow(ctx,
		`UPDATE alerts SET description=$2, target_amount=$3, status=$4, updated_at=now()
		  WHERE id=$1 RETURNING `+alertCols,
		a.ID, a.Description, a.TargetAmount, a.Status,
	))
}

func (r *alertsRepo) UpdateStatus(ctx context.Context, id string, status models.AlertStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE alerts SET status=$2, updated_at=now() WHERE id=$1`, id, status)
	if err != nil {
		return mapErr(err)
	}
	return affected(tag)
}

func (r *alertsRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM alerts WHERE id=$1`, id)
	if err != nil {
		return mapErr(err)
	}
	return affected(tag)
}

func (r *alertsRepo) CountByBudget(ctx context.Context, budgetID string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM alerts WHERE budget_id=$1`, budgetID).Scan(&n)
	return n, err
}

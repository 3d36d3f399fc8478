package postgres

import (
	"errors"

	repo "github.com/baharkarakas/finance-tracker/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewLedger(pool *pgxpool.Pool) repo.Ledger {
	return repo.Ledger{
		Users:         &usersRepo{pool},
		Budgets:       &budgetsRepo{pool},
		Expenses:      &expensesRepo{pool},
		Alerts:        &alertsRepo{pool},
		Notifications: &notificationsRepo{pool},
	}
}

// mapErr turns driver errors into repository sentinels.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repo.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return repo.ErrDuplicate
		case "22P02": // malformed uuid
			return repo.ErrNotFound
		}
	}
	return err
}

func affected(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

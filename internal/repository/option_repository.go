package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsdesk/ticket-admin/internal/domain"
)

// OptionRepository reads dropdown lookup tables.
type OptionRepository interface {
	ListOptions(ctx context.Context, table string) ([]domain.SelectOption, error)
	ListNames(ctx context.Context, table string) ([]string, error)
}

type optionRepository struct {
	pool *pgxpool.Pool
}

// NewOptionRepository returns a Postgres-backed implementation.
func NewOptionRepository(pool *pgxpool.Pool) OptionRepository {
	return &optionRepository{pool: pool}
}

func (r *optionRepository) ListOptions(ctx context.Context, table string) ([]domain.SelectOption, error) {
	if r.pool == nil {
		return nil, ErrUnavailable
	}
	query := `SELECT value, label FROM ` + pgx.Identifier{table}.Sanitize() + ` ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.SelectOption
	for rows.Next() {
		var opt domain.SelectOption
		if err := rows.Scan(&opt.Value, &opt.Label); err != nil {
			return nil, err
		}
		out = append(out, opt)
	}
	return out, rows.Err()
}

func (r *optionRepository) ListNames(ctx context.Context, table string) ([]string, error) {
	if r.pool == nil {
		return nil, ErrUnavailable
	}
	query := `SELECT name FROM ` + pgx.Identifier{table}.Sanitize() + ` ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

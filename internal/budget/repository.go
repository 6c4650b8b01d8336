package budget

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads budget lines.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListLines returns budget lines, optionally scoped to one period.
func (r *Repository) ListLines(ctx context.Context, period string) ([]Line, error) {
	query := `SELECT id, account_id, category, period, budgeted_amount, COALESCE(actual_amount, 0), created_at, updated_at FROM budget_lines`
	args := []any{}
	if period != "" {
		query += ` WHERE period = $1`
		args = append(args, period)
	}
	query += ` ORDER BY category, id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []Line
	for rows.Next() {
		var line Line
		if err := rows.Scan(&line.ID, &line.AccountID, &line.Category, &line.Period, &line.Budgeted, &line.Actual, &line.CreatedAt, &line.UpdatedAt); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

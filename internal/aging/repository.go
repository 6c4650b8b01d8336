package aging

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads aging subjects from the collections views.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListSubjects returns every entity carrying an outstanding balance:
// beneficiary debts, tenant receivables and loans.
func (r *Repository) ListSubjects(ctx context.Context) ([]Subject, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, 'beneficiary_debt', name, outstanding_balance FROM beneficiary_debts WHERE outstanding_balance > 0
UNION ALL
SELECT id, 'tenant_receivable', tenant_name, outstanding_balance FROM tenant_receivables WHERE outstanding_balance > 0
UNION ALL
SELECT id, 'loan', borrower_name, outstanding_balance FROM loans WHERE outstanding_balance > 0
ORDER BY 4 DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var subjects []Subject
	for rows.Next() {
		var s Subject
		if err := rows.Scan(&s.ID, &s.Kind, &s.Name, &s.OutstandingBalance); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrAccountNotFound occurs when an account id has no row.
var ErrAccountNotFound = errors.New("ledger: account not found")

// BalanceResult carries one account's signed balance. Defaulted marks a
// balance that could not be read and was substituted with zero, so the
// anomaly stays observable downstream.
type BalanceResult struct {
	Amount    float64
	Defaulted bool
}

// Repository persists and aggregates ledger entities.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListAccounts returns the full chart of accounts ordered by code.
func (r *Repository) ListAccounts(ctx context.Context) ([]Account, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, code, name, nature, is_active, created_at, updated_at FROM accounts ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var accounts []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Code, &a.Name, &a.Nature, &a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// GetAccount fetches one account by id.
func (r *Repository) GetAccount(ctx context.Context, id int64) (Account, error) {
	var a Account
	err := r.pool.QueryRow(ctx, `SELECT id, code, name, nature, is_active, created_at, updated_at FROM accounts WHERE id=$1`, id).
		Scan(&a.ID, &a.Code, &a.Name, &a.Nature, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, err
	}
	return a, nil
}

// PostedLines fetches all posted journal lines joined to their account,
// optionally scoped to one fiscal year. Errors surface unmodified; no
// partial result is ever returned.
func (r *Repository) PostedLines(ctx context.Context, fiscalYear string) ([]PostedLine, error) {
	query := `SELECT jl.account_id, a.code, a.name, jl.debit, jl.credit
FROM journal_lines jl
JOIN journal_entries je ON je.id = jl.entry_id
JOIN accounts a ON a.id = jl.account_id
WHERE je.status = 'POSTED'`
	args := []any{}
	if fiscalYear != "" {
		query += ` AND je.fiscal_year = $1`
		args = append(args, fiscalYear)
	}
	query += ` ORDER BY a.code, jl.id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []PostedLine
	for rows.Next() {
		var line PostedLine
		if err := rows.Scan(&line.AccountID, &line.Code, &line.Name, &line.Debit, &line.Credit); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// AccountLines fetches the posted lines of one account ordered by entry
// date, then insertion order for equal dates. The optional bounds are
// inclusive.
func (r *Repository) AccountLines(ctx context.Context, accountID int64, from, to *time.Time) ([]LedgerLine, error) {
	query := `SELECT je.id, je.date, je.description, jl.debit, jl.credit
FROM journal_lines jl
JOIN journal_entries je ON je.id = jl.entry_id
WHERE je.status = 'POSTED' AND jl.account_id = $1`
	args := []any{accountID}
	if from != nil {
		args = append(args, *from)
		query += ` AND je.date >= $2`
	}
	if to != nil {
		args = append(args, *to)
		if from != nil {
			query += ` AND je.date <= $3`
		} else {
			query += ` AND je.date <= $2`
		}
	}
	query += ` ORDER BY je.date ASC, jl.id ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []LedgerLine
	for rows.Next() {
		var line LedgerLine
		if err := rows.Scan(&line.EntryID, &line.Date, &line.Description, &line.Debit, &line.Credit); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// AccountBalances computes signed balances for a set of accounts in a
// single batched query. Accounts with no postings are absent from the
// result and read as zero. Data-access failures surface unmodified; no
// partial batch is returned.
func (r *Repository) AccountBalances(ctx context.Context, ids []int64) (map[int64]BalanceResult, error) {
	rows, err := r.pool.Query(ctx, `SELECT jl.account_id, COALESCE(SUM(jl.debit),0) - COALESCE(SUM(jl.credit),0)
FROM journal_lines jl
JOIN journal_entries je ON je.id = jl.entry_id
WHERE je.status = 'POSTED' AND jl.account_id = ANY($1)
GROUP BY jl.account_id`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	balances := make(map[int64]BalanceResult, len(ids))
	for rows.Next() {
		var id int64
		var amount float64
		if err := rows.Scan(&id, &amount); err != nil {
			return nil, err
		}
		balances[id] = BalanceResult{Amount: amount}
	}
	return balances, rows.Err()
}

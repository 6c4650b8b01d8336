package reporting

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amanah-erp/amanah-erp/internal/reports"
)

// RunRepository persists saved-report runs.
type RunRepository struct {
	pool *pgxpool.Pool
}

// NewRunRepository constructs a repo.
func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{pool: pool}
}

// InsertRun enqueues a pending run record.
func (r *RunRepository) InsertRun(ctx context.Context, req RunRequest) (Run, error) {
	run := Run{TemplateID: req.TemplateID, Status: RunPending, RequestedBy: req.RequestedBy}
	err := r.pool.QueryRow(ctx, `INSERT INTO report_runs (template_id, status, requested_by)
VALUES ($1,'PENDING',$2) RETURNING id, created_at, updated_at`, req.TemplateID, req.RequestedBy).
		Scan(&run.ID, &run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

// GetRun loads one run with its payload.
func (r *RunRepository) GetRun(ctx context.Context, id int64) (Run, error) {
	var run Run
	var payload []byte
	var errMsg pgtype.Text
	var generatedAt pgtype.Timestamptz
	err := r.pool.QueryRow(ctx, `SELECT id, template_id, status, error_message, payload, requested_by, generated_at, created_at, updated_at
FROM report_runs WHERE id=$1`, id).
		Scan(&run.ID, &run.TemplateID, &run.Status, &errMsg, &payload, &run.RequestedBy, &generatedAt, &run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Run{}, ErrRunNotFound
		}
		return Run{}, err
	}
	run.Error = errMsg.String
	if generatedAt.Valid {
		t := generatedAt.Time
		run.GeneratedAt = &t
	}
	if len(payload) > 0 {
		var result reports.Result
		if err := json.Unmarshal(payload, &result); err != nil {
			return Run{}, err
		}
		run.Payload = &result
	}
	return run, nil
}

// ListRuns fetches recent runs without payloads, newest first.
func (r *RunRepository) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `SELECT id, template_id, status, error_message, requested_by, generated_at, created_at, updated_at
FROM report_runs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var runs []Run
	for rows.Next() {
		var run Run
		var errMsg pgtype.Text
		var generatedAt pgtype.Timestamptz
		if err := rows.Scan(&run.ID, &run.TemplateID, &run.Status, &errMsg, &run.RequestedBy, &generatedAt, &run.CreatedAt, &run.UpdatedAt); err != nil {
			return nil, err
		}
		run.Error = errMsg.String
		if generatedAt.Valid {
			t := generatedAt.Time
			run.GeneratedAt = &t
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// UpdateRunStatus transitions run state.
func (r *RunRepository) UpdateRunStatus(ctx context.Context, id int64, status RunStatus) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE report_runs SET status=$2, updated_at=NOW() WHERE id=$1`, id, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrRunNotFound
	}
	return nil
}

// SaveRunPayload stores output or error for a run.
func (r *RunRepository) SaveRunPayload(ctx context.Context, id int64, result *reports.Result, errMsg string) error {
	var payload []byte
	if result != nil {
		var err error
		payload, err = json.Marshal(result)
		if err != nil {
			return err
		}
	}
	_, err := r.pool.Exec(ctx, `UPDATE report_runs SET payload=$2, error_message=$3, generated_at=NOW(), updated_at=NOW() WHERE id=$1`,
		id, payload, pgtype.Text{String: errMsg, Valid: errMsg != ""})
	return err
}

package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists report templates and loads entity snapshots for
// the engine.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// snapshotQueries selects every catalog column of each registered type.
// Column order must match the catalog field order.
var snapshotQueries = map[ReportType]string{
	TypeBeneficiaries: `SELECT name, category, status, family_size, monthly_allowance, registered_at, active FROM beneficiaries`,
	TypeProperties:    `SELECT name, property_type, location, status, monthly_rent, acquired_at FROM properties`,
	TypeContracts:     `SELECT tenant_name, property_name, status, rent_amount, start_date, end_date FROM contracts`,
	TypePayments:      `SELECT payer_name, method, status, amount, paid_at FROM payments`,
	TypeDistributions: `SELECT beneficiary_name, program, status, amount, distributed_at FROM distributions`,
	TypeLoans:         `SELECT borrower_name, status, principal_amount, outstanding_balance, issued_at FROM loans`,
}

// Snapshot loads all rows of one entity type keyed by catalog field.
// Data-access failures surface unmodified; no partial snapshot is
// returned.
func (r *Repository) Snapshot(ctx context.Context, t ReportType) ([]Row, error) {
	query, ok := snapshotQueries[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownReportType, t)
	}
	fields, err := FieldsFor(t)
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var snapshot []Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(Row, len(fields))
		for i, field := range fields {
			if i < len(values) {
				row[field.Key] = values[i]
			}
		}
		snapshot = append(snapshot, row)
	}
	return snapshot, rows.Err()
}

// InsertTemplate stores a new template.
func (r *Repository) InsertTemplate(ctx context.Context, in TemplateInput) (Template, error) {
	config, err := json.Marshal(in.Config)
	if err != nil {
		return Template{}, err
	}
	tpl := Template{
		ID:          uuid.New(),
		Name:        in.Name,
		Description: in.Description,
		Type:        in.Config.Type,
		Config:      in.Config,
		IsPublic:    in.IsPublic,
	}
	err = r.pool.QueryRow(ctx, `INSERT INTO report_templates (id, template_name, description, report_type, template_config, is_public)
VALUES ($1,$2,$3,$4,$5,$6) RETURNING created_at, updated_at`,
		tpl.ID, tpl.Name, tpl.Description, tpl.Type, config, tpl.IsPublic).
		Scan(&tpl.CreatedAt, &tpl.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Template{}, ErrDuplicateTemplate
		}
		return Template{}, err
	}
	return tpl, nil
}

// ReplaceTemplate overwrites the whole template blob.
func (r *Repository) ReplaceTemplate(ctx context.Context, id uuid.UUID, in TemplateInput) (Template, error) {
	config, err := json.Marshal(in.Config)
	if err != nil {
		return Template{}, err
	}
	cmd, err := r.pool.Exec(ctx, `UPDATE report_templates
SET template_name=$2, description=$3, report_type=$4, template_config=$5, is_public=$6, updated_at=NOW()
WHERE id=$1`, id, in.Name, in.Description, in.Config.Type, config, in.IsPublic)
	if err != nil {
		if isUniqueViolation(err) {
			return Template{}, ErrDuplicateTemplate
		}
		return Template{}, err
	}
	if cmd.RowsAffected() == 0 {
		return Template{}, ErrTemplateNotFound
	}
	return r.GetTemplate(ctx, id)
}

// GetTemplate fetches one template by id.
func (r *Repository) GetTemplate(ctx context.Context, id uuid.UUID) (Template, error) {
	var tpl Template
	var config []byte
	err := r.pool.QueryRow(ctx, `SELECT id, template_name, description, report_type, template_config, is_public, created_at, updated_at
FROM report_templates WHERE id=$1`, id).
		Scan(&tpl.ID, &tpl.Name, &tpl.Description, &tpl.Type, &config, &tpl.IsPublic, &tpl.CreatedAt, &tpl.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Template{}, ErrTemplateNotFound
		}
		return Template{}, err
	}
	if err := json.Unmarshal(config, &tpl.Config); err != nil {
		return Template{}, err
	}
	return tpl, nil
}

// ListTemplates enumerates stored templates, newest first.
func (r *Repository) ListTemplates(ctx context.Context) ([]Template, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, template_name, description, report_type, template_config, is_public, created_at, updated_at
FROM report_templates ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var templates []Template
	for rows.Next() {
		var tpl Template
		var config []byte
		if err := rows.Scan(&tpl.ID, &tpl.Name, &tpl.Description, &tpl.Type, &config, &tpl.IsPublic, &tpl.CreatedAt, &tpl.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(config, &tpl.Config); err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}
	return templates, rows.Err()
}

// DeleteTemplate removes a template.
func (r *Repository) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM report_templates WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

// isUniqueViolation matches SQLSTATE 23505 on errors returned by the
// pgx/v5 driver, wrapped or not.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

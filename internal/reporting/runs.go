package reporting

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/amanah-erp/amanah-erp/internal/reports"
)

// RunStatus enumerates the saved-report run lifecycle.
type RunStatus string

const (
	RunPending    RunStatus = "PENDING"
	RunInProgress RunStatus = "IN_PROGRESS"
	RunReady      RunStatus = "READY"
	RunFailed     RunStatus = "FAILED"
)

// Run records one queued execution of a saved template. The payload is
// stored when the run reaches READY.
type Run struct {
	ID          int64           `json:"id"`
	TemplateID  uuid.UUID       `json:"template_id"`
	Status      RunStatus       `json:"status"`
	Error       string          `json:"error,omitempty"`
	Payload     *reports.Result `json:"payload,omitempty"`
	RequestedBy string          `json:"requested_by,omitempty"`
	GeneratedAt *time.Time      `json:"generated_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ErrRunNotFound occurs when a run id has no row.
var ErrRunNotFound = errors.New("reporting: run not found")

// RunRequest queues a template execution.
type RunRequest struct {
	TemplateID  uuid.UUID `json:"template_id"`
	RequestedBy string    `json:"requested_by"`
}

// Validate ensures the request references a template.
func (r RunRequest) Validate() error {
	if r.TemplateID == uuid.Nil {
		return errors.New("reporting: template id required")
	}
	return nil
}

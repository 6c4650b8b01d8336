package reports

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Template is a persisted report configuration. The config blob is
// stored opaquely and replayed verbatim; mutation replaces the whole
// blob and there is no versioning.
type Template struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"template_name"`
	Description string     `json:"description"`
	Type        ReportType `json:"report_type"`
	Config      Config     `json:"template_config"`
	IsPublic    bool       `json:"is_public"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Sentinel errors for template persistence.
var (
	ErrTemplateNotFound  = errors.New("reports: template not found")
	ErrDuplicateTemplate = errors.New("reports: template name already exists")
)

// TemplateInput captures template create/replace input.
type TemplateInput struct {
	Name        string `json:"template_name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=500"`
	Config      Config `json:"template_config" validate:"required"`
	IsPublic    bool   `json:"is_public"`
}

var validate = validator.New()

// Validate checks structural input constraints and the config against
// the field catalog.
func (in TemplateInput) Validate(engine *Engine) error {
	if err := validate.Struct(in); err != nil {
		return err
	}
	return engine.Validate(in.Config)
}

package reports

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolationMatchesDriverError(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "report_templates_template_name_key"}
	if !isUniqueViolation(dup) {
		t.Fatalf("unique violation not recognized: %+v", dup)
	}
	if !isUniqueViolation(fmt.Errorf("insert template: %w", dup)) {
		t.Fatalf("wrapped unique violation not recognized")
	}
}

func TestIsUniqueViolationIgnoresOtherErrors(t *testing.T) {
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatalf("foreign key violation misread as unique violation")
	}
	if isUniqueViolation(errors.New("connection reset")) {
		t.Fatalf("plain error misread as unique violation")
	}
	if isUniqueViolation(nil) {
		t.Fatalf("nil error misread as unique violation")
	}
}

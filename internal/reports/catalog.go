// Package reports implements the ad-hoc report engine: a typed field
// catalog per entity type and a pure filter/sort/group executor over a
// row snapshot.
package reports

import (
	"errors"
	"fmt"
)

// ReportType names one of the registered entity types.
type ReportType string

const (
	TypeBeneficiaries ReportType = "beneficiaries"
	TypeProperties    ReportType = "properties"
	TypeContracts     ReportType = "contracts"
	TypePayments      ReportType = "payments"
	TypeDistributions ReportType = "distributions"
	TypeLoans         ReportType = "loans"
)

// FieldType declares how a field's values compare and render. It is
// resolved once at report-definition time, never inferred from key names.
type FieldType string

const (
	FieldString   FieldType = "string"
	FieldNumber   FieldType = "number"
	FieldCurrency FieldType = "currency"
	FieldDate     FieldType = "date"
	FieldBool     FieldType = "bool"
)

// Ordinal reports whether the type supports greater_than / less_than.
func (t FieldType) Ordinal() bool {
	return t == FieldNumber || t == FieldCurrency || t == FieldDate
}

// Field describes one selectable column of a report type.
type Field struct {
	Key   string    `json:"key"`
	Label string    `json:"label"`
	Type  FieldType `json:"type"`
}

// ErrUnknownReportType occurs when a type is not in the registry.
var ErrUnknownReportType = errors.New("reports: unknown report type")

// ErrUnknownField occurs when a field key is not in the catalog.
var ErrUnknownField = errors.New("reports: unknown field")

var catalog = map[ReportType][]Field{
	TypeBeneficiaries: {
		{Key: "name", Label: "Name", Type: FieldString},
		{Key: "category", Label: "Category", Type: FieldString},
		{Key: "status", Label: "Status", Type: FieldString},
		{Key: "family_size", Label: "Family Size", Type: FieldNumber},
		{Key: "monthly_allowance", Label: "Monthly Allowance", Type: FieldCurrency},
		{Key: "registered_at", Label: "Registered", Type: FieldDate},
		{Key: "active", Label: "Active", Type: FieldBool},
	},
	TypeProperties: {
		{Key: "name", Label: "Property", Type: FieldString},
		{Key: "property_type", Label: "Type", Type: FieldString},
		{Key: "location", Label: "Location", Type: FieldString},
		{Key: "status", Label: "Status", Type: FieldString},
		{Key: "monthly_rent", Label: "Monthly Rent", Type: FieldCurrency},
		{Key: "acquired_at", Label: "Acquired", Type: FieldDate},
	},
	TypeContracts: {
		{Key: "tenant_name", Label: "Tenant", Type: FieldString},
		{Key: "property_name", Label: "Property", Type: FieldString},
		{Key: "status", Label: "Status", Type: FieldString},
		{Key: "rent_amount", Label: "Rent", Type: FieldCurrency},
		{Key: "start_date", Label: "Start", Type: FieldDate},
		{Key: "end_date", Label: "End", Type: FieldDate},
	},
	TypePayments: {
		{Key: "payer_name", Label: "Payer", Type: FieldString},
		{Key: "method", Label: "Method", Type: FieldString},
		{Key: "status", Label: "Status", Type: FieldString},
		{Key: "amount", Label: "Amount", Type: FieldCurrency},
		{Key: "paid_at", Label: "Paid", Type: FieldDate},
	},
	TypeDistributions: {
		{Key: "beneficiary_name", Label: "Beneficiary", Type: FieldString},
		{Key: "program", Label: "Program", Type: FieldString},
		{Key: "status", Label: "Status", Type: FieldString},
		{Key: "amount", Label: "Amount", Type: FieldCurrency},
		{Key: "distributed_at", Label: "Distributed", Type: FieldDate},
	},
	TypeLoans: {
		{Key: "borrower_name", Label: "Borrower", Type: FieldString},
		{Key: "status", Label: "Status", Type: FieldString},
		{Key: "principal_amount", Label: "Principal", Type: FieldCurrency},
		{Key: "outstanding_balance", Label: "Outstanding", Type: FieldCurrency},
		{Key: "issued_at", Label: "Issued", Type: FieldDate},
	},
}

// FieldsFor returns the selectable fields of a report type.
func FieldsFor(t ReportType) ([]Field, error) {
	fields, ok := catalog[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownReportType, t)
	}
	return fields, nil
}

// FieldByKey resolves one field of a report type.
func FieldByKey(t ReportType, key string) (Field, error) {
	fields, err := FieldsFor(t)
	if err != nil {
		return Field{}, err
	}
	for _, field := range fields {
		if field.Key == key {
			return field, nil
		}
	}
	return Field{}, fmt.Errorf("%w: %s.%s", ErrUnknownField, t, key)
}

// ReportTypes lists the registry in a fixed order.
func ReportTypes() []ReportType {
	return []ReportType{TypeBeneficiaries, TypeProperties, TypeContracts, TypePayments, TypeDistributions, TypeLoans}
}

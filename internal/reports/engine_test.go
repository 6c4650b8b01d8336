package reports

import (
	"errors"
	"reflect"
	"testing"
)

func beneficiarySnapshot() []Row {
	return []Row{
		{"name": "Abdullah", "category": "orphan", "status": "active", "family_size": float64(4), "monthly_allowance": float64(1200), "registered_at": "2024-01-10", "active": true},
		{"name": "Fatimah", "category": "widow", "status": "active", "family_size": float64(2), "monthly_allowance": float64(800), "registered_at": "2023-06-01", "active": true},
		{"name": "Hassan", "category": "orphan", "status": "suspended", "family_size": float64(6), "monthly_allowance": float64(1500), "registered_at": "2025-02-20", "active": false},
		{"name": "Maryam", "category": "elderly", "status": "active", "family_size": float64(1), "monthly_allowance": nil, "registered_at": "2022-11-05", "active": true},
	}
}

func TestExecuteProjectsSelectedColumns(t *testing.T) {
	engine := NewEngine()
	result, err := engine.Execute(Config{
		Type:   TypeBeneficiaries,
		Fields: []string{"name", "monthly_allowance"},
	}, beneficiarySnapshot())
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(result.Columns) != 2 || result.Columns[0].Key != "name" || result.Columns[1].Key != "monthly_allowance" {
		t.Fatalf("columns: %+v", result.Columns)
	}
	if result.TotalCount != 4 || len(result.Rows) != 4 {
		t.Fatalf("count %d rows %d", result.TotalCount, len(result.Rows))
	}
	for _, row := range result.Rows {
		if _, ok := row["category"]; ok {
			t.Fatalf("unselected field leaked into row: %v", row)
		}
	}
	if result.GeneratedAt.IsZero() {
		t.Fatalf("generated_at not set")
	}
}

func TestExecuteFiltersCombineWithAnd(t *testing.T) {
	engine := NewEngine()
	result, err := engine.Execute(Config{
		Type:   TypeBeneficiaries,
		Fields: []string{"name"},
		Filters: []FilterConfig{
			{Field: "category", Operator: OpEquals, Value: "orphan"},
			{Field: "status", Operator: OpEquals, Value: "active"},
		},
	}, beneficiarySnapshot())
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if result.TotalCount != 1 || result.Rows[0]["name"] != "Abdullah" {
		t.Fatalf("AND semantics broken: %+v", result.Rows)
	}
}

func TestExecuteFilterOperators(t *testing.T) {
	engine := NewEngine()
	cases := []struct {
		name    string
		filter  FilterConfig
		matches []string
	}{
		{"contains", FilterConfig{Field: "name", Operator: OpContains, Value: "MAH"}, []string{"Fatimah"}},
		{"greater_than", FilterConfig{Field: "family_size", Operator: OpGreaterThan, Value: float64(3)}, []string{"Abdullah", "Hassan"}},
		{"less_than string coerced", FilterConfig{Field: "monthly_allowance", Operator: OpLessThan, Value: "1000"}, []string{"Fatimah"}},
		{"date greater_than", FilterConfig{Field: "registered_at", Operator: OpGreaterThan, Value: "2024-06-01"}, []string{"Hassan"}},
		{"bool equals", FilterConfig{Field: "active", Operator: OpEquals, Value: false}, []string{"Hassan"}},
		{"not_equals matches nulls", FilterConfig{Field: "monthly_allowance", Operator: OpNotEquals, Value: float64(800)}, []string{"Abdullah", "Hassan", "Maryam"}},
	}
	for _, tc := range cases {
		result, err := engine.Execute(Config{
			Type:    TypeBeneficiaries,
			Fields:  []string{"name"},
			Filters: []FilterConfig{tc.filter},
		}, beneficiarySnapshot())
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		var got []string
		for _, row := range result.Rows {
			got = append(got, row["name"].(string))
		}
		if !reflect.DeepEqual(got, tc.matches) {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.matches)
		}
	}
}

func TestExecuteSortAndLimit(t *testing.T) {
	engine := NewEngine()
	result, err := engine.Execute(Config{
		Type:   TypeBeneficiaries,
		Fields: []string{"name"},
		SortBy: "family_size",
		Limit:  2,
	}, beneficiarySnapshot())
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if result.TotalCount != 4 {
		t.Fatalf("total count must ignore limit, got %d", result.TotalCount)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("limit not applied: %d rows", len(result.Rows))
	}
	if result.Rows[0]["name"] != "Maryam" || result.Rows[1]["name"] != "Fatimah" {
		t.Fatalf("numeric sort order: %+v", result.Rows)
	}
}

func TestExecuteGroupByOrdersGroupsTogether(t *testing.T) {
	engine := NewEngine()
	result, err := engine.Execute(Config{
		Type:    TypeBeneficiaries,
		Fields:  []string{"name", "category"},
		GroupBy: "category",
		SortBy:  "name",
	}, beneficiarySnapshot())
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	var categories []string
	for _, row := range result.Rows {
		categories = append(categories, row["category"].(string))
	}
	want := []string{"elderly", "orphan", "orphan", "widow"}
	if !reflect.DeepEqual(categories, want) {
		t.Fatalf("group order: %v", categories)
	}
	// Within the orphan group the name sort must survive.
	if result.Rows[1]["name"] != "Abdullah" || result.Rows[2]["name"] != "Hassan" {
		t.Fatalf("in-group order: %+v", result.Rows)
	}
}

func TestExecuteDeterministic(t *testing.T) {
	engine := NewEngine()
	cfg := Config{
		Type:    TypeBeneficiaries,
		Fields:  []string{"name", "family_size"},
		Filters: []FilterConfig{{Field: "status", Operator: OpEquals, Value: "active"}},
		SortBy:  "family_size",
	}
	first, err := engine.Execute(cfg, beneficiarySnapshot())
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	second, err := engine.Execute(cfg, beneficiarySnapshot())
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !reflect.DeepEqual(first.Rows, second.Rows) || first.TotalCount != second.TotalCount {
		t.Fatalf("same config and snapshot produced different results")
	}
}

func TestExecuteDoesNotMutateSnapshot(t *testing.T) {
	engine := NewEngine()
	snapshot := beneficiarySnapshot()
	names := make([]string, len(snapshot))
	for i, row := range snapshot {
		names[i] = row["name"].(string)
	}
	if _, err := engine.Execute(Config{Type: TypeBeneficiaries, Fields: []string{"name"}, SortBy: "name"}, snapshot); err != nil {
		t.Fatalf("execute: %v", err)
	}
	for i, row := range snapshot {
		if row["name"] != names[i] {
			t.Fatalf("snapshot reordered at %d", i)
		}
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	engine := NewEngine()
	cases := []struct {
		name string
		cfg  Config
		want error
	}{
		{"unknown type", Config{Type: "vehicles", Fields: []string{"name"}}, ErrUnknownReportType},
		{"no fields", Config{Type: TypeLoans}, ErrUnknownField},
		{"unknown field", Config{Type: TypeLoans, Fields: []string{"vin"}}, ErrUnknownField},
		{"unknown sort field", Config{Type: TypeLoans, Fields: []string{"status"}, SortBy: "vin"}, ErrUnknownField},
		{"unknown group field", Config{Type: TypeLoans, Fields: []string{"status"}, GroupBy: "vin"}, ErrUnknownField},
		{"unknown operator", Config{Type: TypeLoans, Fields: []string{"status"}, Filters: []FilterConfig{{Field: "status", Operator: "between", Value: "x"}}}, ErrUnsupportedOperator},
		{"contains on number", Config{Type: TypeLoans, Fields: []string{"status"}, Filters: []FilterConfig{{Field: "principal_amount", Operator: OpContains, Value: "1"}}}, ErrUnsupportedOperator},
		{"greater_than on bool", Config{Type: TypeBeneficiaries, Fields: []string{"name"}, Filters: []FilterConfig{{Field: "active", Operator: OpGreaterThan, Value: true}}}, ErrUnsupportedOperator},
		{"bad value", Config{Type: TypeLoans, Fields: []string{"status"}, Filters: []FilterConfig{{Field: "principal_amount", Operator: OpEquals, Value: "a lot"}}}, ErrBadFilterValue},
	}
	for _, tc := range cases {
		err := engine.Validate(tc.cfg)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestFieldCatalogCoversEveryType(t *testing.T) {
	for _, reportType := range ReportTypes() {
		fields, err := FieldsFor(reportType)
		if err != nil {
			t.Fatalf("%s: %v", reportType, err)
		}
		if len(fields) == 0 {
			t.Fatalf("%s: empty catalog", reportType)
		}
		for _, field := range fields {
			if field.Key == "" || field.Label == "" || field.Type == "" {
				t.Fatalf("%s: incomplete field %+v", reportType, field)
			}
		}
	}
}

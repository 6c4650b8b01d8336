package reports

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Operator enumerates supported filter operators. Filters combine with
// logical AND only; there is no OR or clause grouping.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpContains    Operator = "contains"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
)

// ErrUnsupportedOperator occurs when a filter names an unknown operator
// or applies an ordinal operator to a non-ordinal field.
var ErrUnsupportedOperator = errors.New("reports: unsupported operator")

// ErrBadFilterValue occurs when a filter value cannot be resolved to the
// field's declared type.
var ErrBadFilterValue = errors.New("reports: bad filter value")

// FilterConfig is one stored filter clause. Value is carried as loose
// JSON and resolved against the field catalog's declared type before
// execution.
type FilterConfig struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value"`
}

// Value is a filter value tagged with the field type it resolved to.
type Value struct {
	Type FieldType
	Str  string
	Num  float64
	Date time.Time
	Bool bool
}

// filter is a validated clause ready for execution.
type filter struct {
	field    Field
	operator Operator
	value    Value
}

func compileFilter(t ReportType, cfg FilterConfig) (filter, error) {
	field, err := FieldByKey(t, cfg.Field)
	if err != nil {
		return filter{}, err
	}
	switch cfg.Operator {
	case OpEquals, OpNotEquals:
	case OpContains:
		if field.Type != FieldString {
			return filter{}, fmt.Errorf("%w: contains on %s field %s", ErrUnsupportedOperator, field.Type, field.Key)
		}
	case OpGreaterThan, OpLessThan:
		if !field.Type.Ordinal() {
			return filter{}, fmt.Errorf("%w: %s on %s field %s", ErrUnsupportedOperator, cfg.Operator, field.Type, field.Key)
		}
	default:
		return filter{}, fmt.Errorf("%w: %s", ErrUnsupportedOperator, cfg.Operator)
	}
	value, err := resolveValue(field, cfg.Value)
	if err != nil {
		return filter{}, err
	}
	return filter{field: field, operator: cfg.Operator, value: value}, nil
}

// resolveValue coerces a loose JSON scalar into the field's declared
// type. Strings are accepted for every type to tolerate form input.
func resolveValue(field Field, raw any) (Value, error) {
	switch field.Type {
	case FieldString:
		s, ok := raw.(string)
		if !ok {
			return Value{}, fmt.Errorf("%w: %s wants string", ErrBadFilterValue, field.Key)
		}
		return Value{Type: field.Type, Str: s}, nil
	case FieldNumber, FieldCurrency:
		switch v := raw.(type) {
		case float64:
			return Value{Type: field.Type, Num: v}, nil
		case int:
			return Value{Type: field.Type, Num: float64(v)}, nil
		case int64:
			return Value{Type: field.Type, Num: float64(v)}, nil
		case string:
			n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return Value{}, fmt.Errorf("%w: %s wants number, got %q", ErrBadFilterValue, field.Key, v)
			}
			return Value{Type: field.Type, Num: n}, nil
		}
		return Value{}, fmt.Errorf("%w: %s wants number", ErrBadFilterValue, field.Key)
	case FieldDate:
		switch v := raw.(type) {
		case time.Time:
			return Value{Type: field.Type, Date: v}, nil
		case string:
			t, err := parseDate(v)
			if err != nil {
				return Value{}, fmt.Errorf("%w: %s wants date, got %q", ErrBadFilterValue, field.Key, v)
			}
			return Value{Type: field.Type, Date: t}, nil
		}
		return Value{}, fmt.Errorf("%w: %s wants date", ErrBadFilterValue, field.Key)
	case FieldBool:
		switch v := raw.(type) {
		case bool:
			return Value{Type: field.Type, Bool: v}, nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return Value{}, fmt.Errorf("%w: %s wants bool, got %q", ErrBadFilterValue, field.Key, v)
			}
			return Value{Type: field.Type, Bool: b}, nil
		}
		return Value{}, fmt.Errorf("%w: %s wants bool", ErrBadFilterValue, field.Key)
	}
	return Value{}, fmt.Errorf("%w: %s", ErrBadFilterValue, field.Key)
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// matches applies the filter predicate to one row cell. Filters are pure
// predicates over the snapshot; applying the same filter twice is
// idempotent.
func (f filter) matches(row Row) bool {
	cell, ok := row[f.field.Key]
	if !ok || cell == nil {
		// Null cells only satisfy not_equals.
		return f.operator == OpNotEquals
	}
	switch f.field.Type {
	case FieldString:
		s := toString(cell)
		switch f.operator {
		case OpEquals:
			return s == f.value.Str
		case OpNotEquals:
			return s != f.value.Str
		case OpContains:
			return strings.Contains(strings.ToLower(s), strings.ToLower(f.value.Str))
		}
	case FieldNumber, FieldCurrency:
		n, ok := toNumber(cell)
		if !ok {
			return false
		}
		switch f.operator {
		case OpEquals:
			return n == f.value.Num
		case OpNotEquals:
			return n != f.value.Num
		case OpGreaterThan:
			return n > f.value.Num
		case OpLessThan:
			return n < f.value.Num
		}
	case FieldDate:
		t, ok := toDate(cell)
		if !ok {
			return false
		}
		switch f.operator {
		case OpEquals:
			return t.Equal(f.value.Date)
		case OpNotEquals:
			return !t.Equal(f.value.Date)
		case OpGreaterThan:
			return t.After(f.value.Date)
		case OpLessThan:
			return t.Before(f.value.Date)
		}
	case FieldBool:
		b, ok := cell.(bool)
		if !ok {
			return false
		}
		switch f.operator {
		case OpEquals:
			return b == f.value.Bool
		case OpNotEquals:
			return b != f.value.Bool
		}
	}
	return false
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

func toDate(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		parsed, err := parseDate(t)
		return parsed, err == nil
	}
	return time.Time{}, false
}

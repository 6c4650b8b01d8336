package reports

import (
	"fmt"
	"sort"
	"time"
)

// Row is one snapshot row keyed by catalog field key.
type Row map[string]any

// Column labels one output column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Config is the replayable definition of a custom report.
type Config struct {
	Type    ReportType     `json:"type"`
	Fields  []string       `json:"fields"`
	Filters []FilterConfig `json:"filters,omitempty"`
	GroupBy string         `json:"group_by,omitempty"`
	SortBy  string         `json:"sort_by,omitempty"`
	Limit   int            `json:"limit,omitempty"`
}

// Result is the ephemeral tabular output of one report run. TotalCount
// is the number of matching rows regardless of any display limit.
type Result struct {
	Columns     []Column  `json:"columns"`
	Rows        []Row     `json:"rows"`
	TotalCount  int       `json:"total_count"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Engine executes report configurations against row snapshots. It holds
// no state between runs beyond the clock.
type Engine struct {
	now func() time.Time
}

// NewEngine builds the engine.
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

type compiled struct {
	columns []Column
	filters []filter
	groupBy *Field
	sortBy  *Field
	limit   int
}

// Validate checks a configuration against the field catalog without
// executing it. Unknown fields and unsupported operators fail fast.
func (e *Engine) Validate(cfg Config) error {
	_, err := e.compile(cfg)
	return err
}

func (e *Engine) compile(cfg Config) (compiled, error) {
	if _, err := FieldsFor(cfg.Type); err != nil {
		return compiled{}, err
	}
	if len(cfg.Fields) == 0 {
		return compiled{}, fmt.Errorf("%w: no fields selected", ErrUnknownField)
	}
	var c compiled
	for _, key := range cfg.Fields {
		field, err := FieldByKey(cfg.Type, key)
		if err != nil {
			return compiled{}, err
		}
		c.columns = append(c.columns, Column{Key: field.Key, Label: field.Label})
	}
	for _, fc := range cfg.Filters {
		compiledFilter, err := compileFilter(cfg.Type, fc)
		if err != nil {
			return compiled{}, err
		}
		c.filters = append(c.filters, compiledFilter)
	}
	if cfg.GroupBy != "" {
		field, err := FieldByKey(cfg.Type, cfg.GroupBy)
		if err != nil {
			return compiled{}, err
		}
		c.groupBy = &field
	}
	if cfg.SortBy != "" {
		field, err := FieldByKey(cfg.Type, cfg.SortBy)
		if err != nil {
			return compiled{}, err
		}
		c.sortBy = &field
	}
	c.limit = cfg.Limit
	return c, nil
}

// Execute runs a configuration against a snapshot. It is a pure function
// of (config, snapshot) apart from the generated-at timestamp: the same
// inputs always yield the same columns, rows and total count.
func (e *Engine) Execute(cfg Config, snapshot []Row) (Result, error) {
	c, err := e.compile(cfg)
	if err != nil {
		return Result{}, err
	}

	matched := make([]Row, 0, len(snapshot))
	for _, row := range snapshot {
		if matchesAll(c.filters, row) {
			matched = append(matched, row)
		}
	}

	// Sort before grouping so rows inside each group keep the sort
	// order; both sorts are stable for run-to-run determinism.
	if c.sortBy != nil {
		sortRows(matched, *c.sortBy)
	}
	if c.groupBy != nil {
		sortRows(matched, *c.groupBy)
	}

	total := len(matched)
	if c.limit > 0 && len(matched) > c.limit {
		matched = matched[:c.limit]
	}

	rows := make([]Row, len(matched))
	for i, row := range matched {
		out := make(Row, len(c.columns))
		for _, col := range c.columns {
			out[col.Key] = row[col.Key]
		}
		rows[i] = out
	}

	return Result{
		Columns:     c.columns,
		Rows:        rows,
		TotalCount:  total,
		GeneratedAt: e.now().UTC(),
	}, nil
}

func matchesAll(filters []filter, row Row) bool {
	for _, f := range filters {
		if !f.matches(row) {
			return false
		}
	}
	return true
}

// sortRows orders rows ascending by the field using a type-appropriate
// comparator: numeric for amounts, chronological for dates, lexical
// otherwise. Null cells sort first.
func sortRows(rows []Row, field Field) {
	sort.SliceStable(rows, func(i, j int) bool {
		return lessCell(rows[i][field.Key], rows[j][field.Key], field.Type)
	})
}

func lessCell(a, b any, t FieldType) bool {
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}
	switch t {
	case FieldNumber, FieldCurrency:
		an, aok := toNumber(a)
		bn, bok := toNumber(b)
		if aok && bok {
			return an < bn
		}
	case FieldDate:
		at, aok := toDate(a)
		bt, bok := toDate(b)
		if aok && bok {
			return at.Before(bt)
		}
	case FieldBool:
		ab, aok := a.(bool)
		bb, bok := b.(bool)
		if aok && bok {
			return !ab && bb
		}
	}
	return toString(a) < toString(b)
}

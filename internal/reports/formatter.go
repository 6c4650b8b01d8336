package reports

import (
	"math"
	"strconv"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NullPlaceholder renders in place of absent or null cells.
const NullPlaceholder = "—"

const displayDateLayout = "02 Jan 2006"

// Formatter turns raw cell values into display strings. Rendering is
// decided by the field catalog's declared type, resolved once per
// column, never by substring matching on key names.
type Formatter struct {
	printer *message.Printer
	unit    currency.Unit
}

// NewFormatter builds a formatter for the given ISO currency code.
// Unknown codes fall back to USD.
func NewFormatter(currencyCode string) *Formatter {
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		unit = currency.USD
	}
	return &Formatter{
		printer: message.NewPrinter(language.English),
		unit:    unit,
	}
}

// Formatted is the display-ready pair handed to export and print
// collaborators.
type Formatted struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// FormatResult renders every cell of a result using the report type's
// field catalog.
func (f *Formatter) FormatResult(t ReportType, result Result) (Formatted, error) {
	types := make(map[string]FieldType, len(result.Columns))
	headers := make([]string, len(result.Columns))
	for i, col := range result.Columns {
		field, err := FieldByKey(t, col.Key)
		if err != nil {
			return Formatted{}, err
		}
		types[col.Key] = field.Type
		headers[i] = col.Label
	}

	rows := make([][]string, len(result.Rows))
	for i, row := range result.Rows {
		cells := make([]string, len(result.Columns))
		for j, col := range result.Columns {
			cells[j] = f.FormatCell(types[col.Key], row[col.Key])
		}
		rows[i] = cells
	}
	return Formatted{Headers: headers, Rows: rows}, nil
}

// FormatCell renders one value according to its declared field type.
func (f *Formatter) FormatCell(t FieldType, v any) string {
	if v == nil {
		return NullPlaceholder
	}
	switch t {
	case FieldCurrency:
		n, ok := toNumber(v)
		if !ok {
			return toString(v)
		}
		return f.printer.Sprint(currency.Symbol(f.unit.Amount(n)))
	case FieldNumber:
		n, ok := toNumber(v)
		if !ok {
			return toString(v)
		}
		if n == math.Trunc(n) {
			return f.printer.Sprintf("%d", int64(n))
		}
		return f.printer.Sprintf("%.2f", n)
	case FieldDate:
		d, ok := toDate(v)
		if !ok {
			return toString(v)
		}
		return d.Format(displayDateLayout)
	case FieldBool:
		b, ok := v.(bool)
		if !ok {
			return toString(v)
		}
		return strconv.FormatBool(b)
	default:
		return toString(v)
	}
}

// FormatCurrency renders a bare amount with the configured currency,
// for report surfaces outside the catalog (statements, aging).
func (f *Formatter) FormatCurrency(v float64) string {
	return f.printer.Sprint(currency.Symbol(f.unit.Amount(v)))
}

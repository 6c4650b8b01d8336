// Package export serialises report structures for download. It receives
// display-ready values; layout and PDF concerns live with external
// collaborators.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/amanah-erp/amanah-erp/internal/budget"
	"github.com/amanah-erp/amanah-erp/internal/ledger"
	"github.com/amanah-erp/amanah-erp/internal/reporting"
	"github.com/amanah-erp/amanah-erp/internal/reports"
)

// WriteTrialBalanceCSV emits trial balance rows plus totals.
func WriteTrialBalanceCSV(w io.Writer, tb ledger.TrialBalance) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Code", "Account", "Debit", "Credit", "Balance"}); err != nil {
		return err
	}
	for _, row := range tb.Rows {
		if err := writer.Write([]string{
			row.Code,
			row.Name,
			formatFloat(row.Debit),
			formatFloat(row.Credit),
			formatFloat(row.Balance),
		}); err != nil {
			return err
		}
	}
	if err := writer.Write([]string{"", "Total", formatFloat(tb.TotalDebit), formatFloat(tb.TotalCredit), ""}); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// WriteAgingCSV prints bucket totals and the grand total.
func WriteAgingCSV(w io.Writer, report reporting.AgingReport) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Bucket", "Count", "Total"}); err != nil {
		return err
	}
	for _, bucket := range report.Summary.Buckets {
		if err := writer.Write([]string{
			string(bucket.Bucket),
			strconv.Itoa(bucket.Count),
			formatFloat(bucket.Total),
		}); err != nil {
			return err
		}
	}
	if err := writer.Write([]string{"Grand Total", "", formatFloat(report.Summary.GrandTotal)}); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// WriteVarianceCSV emits budget variance analyses.
func WriteVarianceCSV(w io.Writer, analyses []budget.Analysis) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Category", "Period", "Budgeted", "Actual", "Variance", "Utilization %", "Variance %", "Status"}); err != nil {
		return err
	}
	for _, a := range analyses {
		if err := writer.Write([]string{
			a.Line.Category,
			a.Line.Period,
			formatFloat(a.Line.Budgeted),
			formatFloat(a.Line.Actual),
			formatFloat(a.Variance),
			formatFloat(a.UtilizationPercent),
			formatFloat(a.VariancePercent),
			string(a.Status),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteFormattedCSV emits an already-formatted headers/rows pair, the
// hand-off shape produced by the report formatter.
func WriteFormattedCSV(w io.Writer, formatted reports.Formatted) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write(formatted.Headers); err != nil {
		return err
	}
	for _, row := range formatted.Rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

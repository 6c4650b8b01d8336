// Package budget analyses budgeted versus actual spend per line item.
package budget

import "math"

// Status tiers a budget line by how far actuals drift from budget.
type Status string

const (
	StatusGood     Status = "good"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// Analysis carries the derived figures for one budget line.
type Analysis struct {
	Line               Line    `json:"line"`
	Variance           float64 `json:"variance"`
	UtilizationPercent float64 `json:"utilization_percent"`
	VariancePercent    float64 `json:"variance_percent"`
	Status             Status  `json:"status"`
}

// Analyze computes variance, utilization and the status tier for a line.
// A zero budgeted amount yields zero percentages, never an error.
// Boundary values belong to the better tier: exactly 5 is good and
// exactly 15 is warning.
func Analyze(line Line) Analysis {
	variance := line.Actual - line.Budgeted
	utilization := 0.0
	variancePct := 0.0
	if line.Budgeted > 0 {
		utilization = round2(line.Actual / line.Budgeted * 100)
		variancePct = round2(math.Abs(variance) / line.Budgeted * 100)
	}
	status := StatusCritical
	switch {
	case variancePct <= 5:
		status = StatusGood
	case variancePct <= 15:
		status = StatusWarning
	}
	return Analysis{
		Line:               line,
		Variance:           round2(variance),
		UtilizationPercent: utilization,
		VariancePercent:    variancePct,
		Status:             status,
	}
}

// AnalyzeAll maps Analyze over a set of lines.
func AnalyzeAll(lines []Line) []Analysis {
	analyses := make([]Analysis, 0, len(lines))
	for _, line := range lines {
		analyses = append(analyses, Analyze(line))
	}
	return analyses
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

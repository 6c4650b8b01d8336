package budget

import "time"

// Line is one budget line for an account or spending category within a
// period. Actual defaults to zero when no spend has been recorded.
type Line struct {
	ID        int64
	AccountID *int64
	Category  string
	Period    string
	Budgeted  float64
	Actual    float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

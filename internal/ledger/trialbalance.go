package ledger

import (
	"sort"
	"strconv"
	"strings"
)

// PostedLine is one posted journal line joined to its account, the raw
// input of the trial balance aggregation.
type PostedLine struct {
	AccountID int64
	Code      string
	Name      string
	Debit     float64
	Credit    float64
}

// TrialBalanceRow summarises total debits and credits for one account.
type TrialBalanceRow struct {
	AccountID int64   `json:"account_id"`
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Debit     float64 `json:"debit"`
	Credit    float64 `json:"credit"`
	Balance   float64 `json:"balance"`
}

// TrialBalance is the final structure rendered in UI and exports.
type TrialBalance struct {
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  float64           `json:"total_debit"`
	TotalCredit float64           `json:"total_credit"`
}

// BuildTrialBalance sums posted line debits and credits per account and
// sorts rows ascending by account code. One row is emitted per account
// touched by at least one line.
func BuildTrialBalance(lines []PostedLine) TrialBalance {
	byAccount := make(map[int64]*TrialBalanceRow)
	order := make([]int64, 0)
	for _, line := range lines {
		row, ok := byAccount[line.AccountID]
		if !ok {
			row = &TrialBalanceRow{AccountID: line.AccountID, Code: line.Code, Name: line.Name}
			byAccount[line.AccountID] = row
			order = append(order, line.AccountID)
		}
		row.Debit += line.Debit
		row.Credit += line.Credit
	}

	result := TrialBalance{Rows: make([]TrialBalanceRow, 0, len(order))}
	for _, id := range order {
		row := byAccount[id]
		row.Balance = row.Debit - row.Credit
		result.Rows = append(result.Rows, *row)
		result.TotalDebit += row.Debit
		result.TotalCredit += row.Credit
	}
	sort.SliceStable(result.Rows, func(i, j int) bool {
		return CompareCodes(result.Rows[i].Code, result.Rows[j].Code) < 0
	})
	return result
}

// CompareCodes orders dot-delimited account codes numerically per
// segment, so "2" sorts before "10". Non-numeric segments fall back to
// lexical comparison.
func CompareCodes(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		if as[i] == bs[i] {
			continue
		}
		an, aerr := strconv.Atoi(as[i])
		bn, berr := strconv.Atoi(bs[i])
		if aerr == nil && berr == nil {
			if an < bn {
				return -1
			}
			return 1
		}
		if as[i] < bs[i] {
			return -1
		}
		return 1
	}
	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	default:
		return 0
	}
}

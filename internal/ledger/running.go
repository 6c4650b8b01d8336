package ledger

import (
	"sort"
	"time"
)

// LedgerLine is one journal line of a single account's history, annotated
// with the running balance after the line itself.
type LedgerLine struct {
	EntryID     int64     `json:"entry_id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Debit       float64   `json:"debit"`
	Credit      float64   `json:"credit"`
	Balance     float64   `json:"balance"`
}

// AccountLedger is the ordered ledger of one account with trailing totals.
type AccountLedger struct {
	AccountID    int64        `json:"account_id"`
	Lines        []LedgerLine `json:"lines"`
	TotalDebit   float64      `json:"total_debit"`
	TotalCredit  float64      `json:"total_credit"`
	FinalBalance float64      `json:"final_balance"`
}

// BuildAccountLedger orders lines by ascending entry date and computes the
// cumulative balance of (debit - credit) including each line. The sort is
// stable: lines sharing a date keep their retrieval order and are never
// re-sorted by a secondary key.
func BuildAccountLedger(accountID int64, lines []LedgerLine) AccountLedger {
	ordered := make([]LedgerLine, len(lines))
	copy(ordered, lines)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	ledger := AccountLedger{AccountID: accountID, Lines: ordered}
	running := 0.0
	for i := range ledger.Lines {
		line := &ledger.Lines[i]
		running += line.Debit - line.Credit
		line.Balance = running
		ledger.TotalDebit += line.Debit
		ledger.TotalCredit += line.Credit
	}
	ledger.FinalBalance = running
	return ledger
}

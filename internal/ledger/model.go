package ledger

import "time"

// AccountNature enumerates the normal balance side of an account.
type AccountNature string

const (
	NatureDebit  AccountNature = "DEBIT"
	NatureCredit AccountNature = "CREDIT"
)

// Account models a chart of accounts node. Codes are dot-delimited
// hierarchical strings, e.g. "1.1.3".
type Account struct {
	ID        int64
	Code      string
	Name      string
	Nature    AccountNature
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EntryStatus enumerates journal entry lifecycle values.
type EntryStatus string

const (
	EntryStatusDraft  EntryStatus = "DRAFT"
	EntryStatusPosted EntryStatus = "POSTED"
)

// JournalEntry captures posting metadata. Only posted entries
// participate in reporting.
type JournalEntry struct {
	ID          int64
	Date        time.Time
	Status      EntryStatus
	Description string
	FiscalYear  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Lines       []JournalLine
}

// JournalLine stores debit or credit amount for an account. Both columns
// are summed independently; the engine does not assume exactly one side
// is nonzero per line.
type JournalLine struct {
	ID        int64
	EntryID   int64
	AccountID int64
	Debit     float64
	Credit    float64
	CreatedAt time.Time
}

// Package statements assembles balance sheet and income statement
// structures from classified account balances.
package statements

import (
	"math"

	"github.com/amanah-erp/amanah-erp/internal/ledger"
)

// BalanceSheet groups classified account balances into the three
// top-level sections. Each section total is the sum of its sub-buckets.
type BalanceSheet struct {
	Assets struct {
		Current float64 `json:"current"`
		Fixed   float64 `json:"fixed"`
		Total   float64 `json:"total"`
	} `json:"assets"`
	Liabilities struct {
		Current  float64 `json:"current"`
		LongTerm float64 `json:"long_term"`
		Total    float64 `json:"total"`
	} `json:"liabilities"`
	Equity struct {
		Capital float64 `json:"capital"`
		Reserve float64 `json:"reserve"`
		Total   float64 `json:"total"`
	} `json:"equity"`
	// DefaultedAccounts lists account codes whose balance lookup failed
	// and was substituted with zero.
	DefaultedAccounts []string `json:"defaulted_accounts,omitempty"`
}

// IncomeStatement groups revenue and expense balances with the net result.
type IncomeStatement struct {
	Revenue struct {
		Property   float64 `json:"property"`
		Investment float64 `json:"investment"`
		Other      float64 `json:"other"`
		Total      float64 `json:"total"`
	} `json:"revenue"`
	Expenses struct {
		Administrative float64 `json:"administrative"`
		Operational    float64 `json:"operational"`
		Beneficiary    float64 `json:"beneficiary"`
		Total          float64 `json:"total"`
	} `json:"expenses"`
	NetIncome         float64  `json:"net_income"`
	DefaultedAccounts []string `json:"defaulted_accounts,omitempty"`
}

// ComposeBalanceSheet buckets each account's signed balance through the
// classifier. An account missing from balances, or marked defaulted,
// contributes zero and is recorded; a single bad account never aborts
// the statement.
func ComposeBalanceSheet(accounts []ledger.Account, balances map[int64]ledger.BalanceResult) BalanceSheet {
	var bs BalanceSheet
	for _, acc := range accounts {
		balance, defaulted := lookup(balances, acc.ID)
		if defaulted {
			bs.DefaultedAccounts = append(bs.DefaultedAccounts, acc.Code)
		}
		switch ledger.Classify(acc.Code) {
		case ledger.BucketAssetCurrent:
			bs.Assets.Current += balance
		case ledger.BucketAssetFixed:
			bs.Assets.Fixed += balance
		case ledger.BucketLiabilityCurrent:
			bs.Liabilities.Current += balance
		case ledger.BucketLiabilityLongTerm:
			bs.Liabilities.LongTerm += balance
		case ledger.BucketEquityCapital:
			bs.Equity.Capital += balance
		case ledger.BucketEquityReserve:
			bs.Equity.Reserve += balance
		}
	}
	bs.Assets.Total = bs.Assets.Current + bs.Assets.Fixed
	bs.Liabilities.Total = bs.Liabilities.Current + bs.Liabilities.LongTerm
	bs.Equity.Total = bs.Equity.Capital + bs.Equity.Reserve
	return bs
}

// ComposeIncomeStatement buckets revenue and expense balances by absolute
// value. Revenue accounts are credit-normal and expense accounts
// debit-normal, so raw signed balances would otherwise appear negative.
func ComposeIncomeStatement(accounts []ledger.Account, balances map[int64]ledger.BalanceResult) IncomeStatement {
	var is IncomeStatement
	for _, acc := range accounts {
		balance, defaulted := lookup(balances, acc.ID)
		bucket := ledger.Classify(acc.Code)
		if !bucket.IsRevenue() && !bucket.IsExpense() {
			continue
		}
		if defaulted {
			is.DefaultedAccounts = append(is.DefaultedAccounts, acc.Code)
		}
		amount := math.Abs(balance)
		switch bucket {
		case ledger.BucketRevenueProperty:
			is.Revenue.Property += amount
		case ledger.BucketRevenueInvestment:
			is.Revenue.Investment += amount
		case ledger.BucketRevenueOther:
			is.Revenue.Other += amount
		case ledger.BucketExpenseAdministrative:
			is.Expenses.Administrative += amount
		case ledger.BucketExpenseOperational:
			is.Expenses.Operational += amount
		case ledger.BucketExpenseBeneficiary:
			is.Expenses.Beneficiary += amount
		}
	}
	is.Revenue.Total = is.Revenue.Property + is.Revenue.Investment + is.Revenue.Other
	is.Expenses.Total = is.Expenses.Administrative + is.Expenses.Operational + is.Expenses.Beneficiary
	is.NetIncome = is.Revenue.Total - is.Expenses.Total
	return is
}

func lookup(balances map[int64]ledger.BalanceResult, id int64) (float64, bool) {
	result, ok := balances[id]
	if !ok {
		// No postings for this account; zero is the correct balance.
		return 0, false
	}
	if result.Defaulted {
		return 0, true
	}
	return result.Amount, false
}

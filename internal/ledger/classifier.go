package ledger

import "strings"

// Bucket tags an account with its financial statement classification.
type Bucket string

const (
	BucketAssetCurrent          Bucket = "asset.current"
	BucketAssetFixed            Bucket = "asset.fixed"
	BucketLiabilityCurrent      Bucket = "liability.current"
	BucketLiabilityLongTerm     Bucket = "liability.longTerm"
	BucketEquityCapital         Bucket = "equity.capital"
	BucketEquityReserve         Bucket = "equity.reserve"
	BucketRevenueProperty       Bucket = "revenue.property"
	BucketRevenueInvestment     Bucket = "revenue.investment"
	BucketRevenueOther          Bucket = "revenue.other"
	BucketExpenseAdministrative Bucket = "expense.administrative"
	BucketExpenseOperational    Bucket = "expense.operational"
	BucketExpenseBeneficiary    Bucket = "expense.beneficiary"
	BucketUnclassified          Bucket = "unclassified"
)

// IsRevenue reports whether the bucket belongs to the revenue side of the
// income statement.
func (b Bucket) IsRevenue() bool {
	return strings.HasPrefix(string(b), "revenue.")
}

// IsExpense reports whether the bucket belongs to the expense side of the
// income statement.
func (b Bucket) IsExpense() bool {
	return strings.HasPrefix(string(b), "expense.")
}

type prefixRule struct {
	prefix string
	bucket Bucket
}

// classificationRules is an ordered prefix table: the most specific
// prefixes come first and the first match wins. Precedence is explicit
// in the ordering, so "1.1" is tested before "1".
var classificationRules = []prefixRule{
	{"1.1", BucketAssetCurrent},
	{"1.2", BucketAssetFixed},
	{"2.1", BucketLiabilityCurrent},
	{"2.2", BucketLiabilityLongTerm},
	{"3.1", BucketEquityCapital},
	{"3.2", BucketEquityReserve},
	{"4.1", BucketRevenueProperty},
	{"4.2", BucketRevenueInvestment},
	{"4.3", BucketRevenueOther},
	{"5.1", BucketExpenseAdministrative},
	{"5.2", BucketExpenseOperational},
	{"5.3", BucketExpenseBeneficiary},
	{"1", BucketAssetCurrent},
	{"2", BucketLiabilityCurrent},
	{"3", BucketEquityCapital},
	{"4", BucketRevenueOther},
	{"5", BucketExpenseOperational},
}

// Classify maps an account code to its statement bucket. It is a pure,
// total function: every code yields exactly one bucket and unknown codes
// map to BucketUnclassified.
func Classify(code string) Bucket {
	for _, rule := range classificationRules {
		if matchesPrefix(code, rule.prefix) {
			return rule.bucket
		}
	}
	return BucketUnclassified
}

// matchesPrefix tests a dot-delimited code against a prefix on segment
// boundaries, so "1" matches "1.2.3" but never "12.1".
func matchesPrefix(code, prefix string) bool {
	if code == prefix {
		return true
	}
	return strings.HasPrefix(code, prefix+".")
}

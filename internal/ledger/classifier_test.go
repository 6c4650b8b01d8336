package ledger

import "testing"

func TestClassifyPrefixes(t *testing.T) {
	cases := map[string]Bucket{
		"1.1":     BucketAssetCurrent,
		"1.1.3":   BucketAssetCurrent,
		"1.2.1":   BucketAssetFixed,
		"1.9":     BucketAssetCurrent,
		"2.1.4":   BucketLiabilityCurrent,
		"2.2":     BucketLiabilityLongTerm,
		"2.7":     BucketLiabilityCurrent,
		"3.1":     BucketEquityCapital,
		"3.2.2":   BucketEquityReserve,
		"4.1.1":   BucketRevenueProperty,
		"4.2":     BucketRevenueInvestment,
		"4.3.9":   BucketRevenueOther,
		"4.9":     BucketRevenueOther,
		"5.1":     BucketExpenseAdministrative,
		"5.2.3":   BucketExpenseOperational,
		"5.3.1":   BucketExpenseBeneficiary,
		"5.9":     BucketExpenseOperational,
		"9.1":     BucketUnclassified,
		"":        BucketUnclassified,
		"unknown": BucketUnclassified,
	}
	for code, want := range cases {
		if got := Classify(code); got != want {
			t.Fatalf("Classify(%q) = %s, want %s", code, got, want)
		}
	}
}

func TestClassifyMatchesSegmentBoundaries(t *testing.T) {
	// Prefixes match whole segments: "1" covers "1.10" but never "12.1",
	// and "1.1" does not cover "1.10" since its second segment is 10.
	if got := Classify("12.1"); got != BucketUnclassified {
		t.Fatalf("Classify(12.1) = %s, want unclassified", got)
	}
	if got := Classify("1.10"); got != BucketAssetCurrent {
		t.Fatalf("Classify(1.10) = %s, want asset.current", got)
	}
	if got := Classify("1.12"); got != BucketAssetCurrent {
		t.Fatalf("Classify(1.12) = %s, want asset.current", got)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		if got := Classify("4.1.7"); got != BucketRevenueProperty {
			t.Fatalf("run %d: Classify(4.1.7) = %s", i, got)
		}
	}
}

func TestBucketSides(t *testing.T) {
	if !BucketRevenueProperty.IsRevenue() || BucketRevenueProperty.IsExpense() {
		t.Fatalf("revenue.property classified on wrong side")
	}
	if !BucketExpenseBeneficiary.IsExpense() || BucketExpenseBeneficiary.IsRevenue() {
		t.Fatalf("expense.beneficiary classified on wrong side")
	}
	if BucketAssetCurrent.IsRevenue() || BucketAssetCurrent.IsExpense() {
		t.Fatalf("asset.current should be on neither income statement side")
	}
}

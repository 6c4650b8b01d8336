// Package aging buckets outstanding balances for collections reporting.
package aging

// Bucket tags an outstanding balance with its age range.
type Bucket string

const (
	BucketCurrent Bucket = "current"
	Bucket1To30   Bucket = "1-30"
	Bucket30To60  Bucket = "30-60"
	Bucket60To90  Bucket = "60-90"
	BucketOver90  Bucket = "90+"
)

// Buckets lists all buckets in display order.
var Buckets = []Bucket{BucketCurrent, Bucket1To30, Bucket30To60, Bucket60To90, BucketOver90}

// Classify buckets an outstanding balance. The thresholds are driven by
// balance magnitude and are strict: a balance of exactly 50000 falls
// into 60-90, not 90+.
func Classify(balance float64) Bucket {
	switch {
	case balance > 50000:
		return BucketOver90
	case balance > 30000:
		return Bucket60To90
	case balance > 15000:
		return Bucket30To60
	case balance > 5000:
		return Bucket1To30
	default:
		return BucketCurrent
	}
}

// DaysOverdue returns the nominal days-overdue figure displayed next to
// a bucket. It is a display placeholder, not an elapsed-time measure.
func DaysOverdue(bucket Bucket) int {
	switch bucket {
	case Bucket1To30:
		return 15
	case Bucket30To60:
		return 45
	case Bucket60To90:
		return 75
	case BucketOver90:
		return 90
	default:
		return 0
	}
}

// BucketSummary totals the balances classified into one bucket.
type BucketSummary struct {
	Bucket Bucket  `json:"bucket"`
	Count  int     `json:"count"`
	Total  float64 `json:"total"`
}

// Summary aggregates all classified subjects plus a grand total.
type Summary struct {
	Buckets    []BucketSummary `json:"buckets"`
	GrandTotal float64         `json:"grand_total"`
}

// ClassifiedSubject annotates a subject with its bucket for display.
type ClassifiedSubject struct {
	Subject     Subject `json:"subject"`
	Bucket      Bucket  `json:"bucket"`
	DaysOverdue int     `json:"days_overdue"`
}

// ClassifyAll buckets every subject.
func ClassifyAll(subjects []Subject) []ClassifiedSubject {
	classified := make([]ClassifiedSubject, 0, len(subjects))
	for _, subject := range subjects {
		bucket := Classify(subject.OutstandingBalance)
		classified = append(classified, ClassifiedSubject{
			Subject:     subject,
			Bucket:      bucket,
			DaysOverdue: DaysOverdue(bucket),
		})
	}
	return classified
}

// Summarize sums balances per bucket in a single pass over the subjects.
func Summarize(subjects []Subject) Summary {
	totals := make(map[Bucket]*BucketSummary, len(Buckets))
	summary := Summary{Buckets: make([]BucketSummary, len(Buckets))}
	for i, bucket := range Buckets {
		summary.Buckets[i] = BucketSummary{Bucket: bucket}
		totals[bucket] = &summary.Buckets[i]
	}
	for _, subject := range subjects {
		entry := totals[Classify(subject.OutstandingBalance)]
		entry.Count++
		entry.Total += subject.OutstandingBalance
		summary.GrandTotal += subject.OutstandingBalance
	}
	return summary
}

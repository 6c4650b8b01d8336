package aging

// SubjectKind enumerates the entities that carry an outstanding balance.
type SubjectKind string

const (
	KindBeneficiaryDebt  SubjectKind = "beneficiary_debt"
	KindTenantReceivable SubjectKind = "tenant_receivable"
	KindLoan             SubjectKind = "loan"
)

// Subject is any entity with an outstanding balance. It is produced
// elsewhere and read-only here.
type Subject struct {
	ID                 int64       `json:"id"`
	Kind               SubjectKind `json:"kind"`
	Name               string      `json:"name"`
	OutstandingBalance float64     `json:"outstanding_balance"`
}

package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/amanah-erp/amanah-erp/internal/aging"
	"github.com/amanah-erp/amanah-erp/internal/budget"
	"github.com/amanah-erp/amanah-erp/internal/ledger"
	"github.com/amanah-erp/amanah-erp/internal/reports"
)

type fakeLedgerStore struct {
	accounts    []ledger.Account
	posted      []ledger.PostedLine
	postedErr   error
	lines       []ledger.LedgerLine
	balances    map[int64]ledger.BalanceResult
	balancesErr error
	postedCalls int
}

func (f *fakeLedgerStore) ListAccounts(ctx context.Context) ([]ledger.Account, error) {
	return f.accounts, nil
}

func (f *fakeLedgerStore) GetAccount(ctx context.Context, id int64) (ledger.Account, error) {
	for _, acc := range f.accounts {
		if acc.ID == id {
			return acc, nil
		}
	}
	return ledger.Account{}, ledger.ErrAccountNotFound
}

func (f *fakeLedgerStore) PostedLines(ctx context.Context, fiscalYear string) ([]ledger.PostedLine, error) {
	f.postedCalls++
	return f.posted, f.postedErr
}

func (f *fakeLedgerStore) AccountLines(ctx context.Context, accountID int64, from, to *time.Time) ([]ledger.LedgerLine, error) {
	return f.lines, nil
}

func (f *fakeLedgerStore) AccountBalances(ctx context.Context, ids []int64) (map[int64]ledger.BalanceResult, error) {
	return f.balances, f.balancesErr
}

type fakeBudgetStore struct {
	lines []budget.Line
	err   error
}

func (f *fakeBudgetStore) ListLines(ctx context.Context, period string) ([]budget.Line, error) {
	return f.lines, f.err
}

type fakeAgingStore struct {
	subjects []aging.Subject
	err      error
}

func (f *fakeAgingStore) ListSubjects(ctx context.Context) ([]aging.Subject, error) {
	return f.subjects, f.err
}

type fakeReportStore struct {
	templates     map[uuid.UUID]reports.Template
	snapshot      []reports.Row
	snapshotErr   error
	snapshotCalls int
}

func newFakeReportStore() *fakeReportStore {
	return &fakeReportStore{templates: make(map[uuid.UUID]reports.Template)}
}

func (f *fakeReportStore) Snapshot(ctx context.Context, t reports.ReportType) ([]reports.Row, error) {
	f.snapshotCalls++
	return f.snapshot, f.snapshotErr
}

func (f *fakeReportStore) InsertTemplate(ctx context.Context, in reports.TemplateInput) (reports.Template, error) {
	for _, tpl := range f.templates {
		if tpl.Name == in.Name {
			return reports.Template{}, reports.ErrDuplicateTemplate
		}
	}
	tpl := reports.Template{
		ID:          uuid.New(),
		Name:        in.Name,
		Description: in.Description,
		Type:        in.Config.Type,
		Config:      in.Config,
		IsPublic:    in.IsPublic,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	f.templates[tpl.ID] = tpl
	return tpl, nil
}

func (f *fakeReportStore) ReplaceTemplate(ctx context.Context, id uuid.UUID, in reports.TemplateInput) (reports.Template, error) {
	tpl, ok := f.templates[id]
	if !ok {
		return reports.Template{}, reports.ErrTemplateNotFound
	}
	tpl.Name = in.Name
	tpl.Description = in.Description
	tpl.Type = in.Config.Type
	tpl.Config = in.Config
	tpl.IsPublic = in.IsPublic
	tpl.UpdatedAt = time.Now()
	f.templates[id] = tpl
	return tpl, nil
}

func (f *fakeReportStore) GetTemplate(ctx context.Context, id uuid.UUID) (reports.Template, error) {
	tpl, ok := f.templates[id]
	if !ok {
		return reports.Template{}, reports.ErrTemplateNotFound
	}
	return tpl, nil
}

func (f *fakeReportStore) ListTemplates(ctx context.Context) ([]reports.Template, error) {
	out := make([]reports.Template, 0, len(f.templates))
	for _, tpl := range f.templates {
		out = append(out, tpl)
	}
	return out, nil
}

func (f *fakeReportStore) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.templates[id]; !ok {
		return reports.ErrTemplateNotFound
	}
	delete(f.templates, id)
	return nil
}

type fakeRunStore struct {
	runs     map[int64]*Run
	statuses map[int64][]RunStatus
	nextID   int64
}

func newFakeRunStore() *fakeRunStore {
	return &fakeRunStore{runs: make(map[int64]*Run), statuses: make(map[int64][]RunStatus)}
}

func (f *fakeRunStore) InsertRun(ctx context.Context, req RunRequest) (Run, error) {
	f.nextID++
	run := &Run{ID: f.nextID, TemplateID: req.TemplateID, Status: RunPending, RequestedBy: req.RequestedBy, CreatedAt: time.Now()}
	f.runs[run.ID] = run
	return *run, nil
}

func (f *fakeRunStore) GetRun(ctx context.Context, id int64) (Run, error) {
	run, ok := f.runs[id]
	if !ok {
		return Run{}, ErrRunNotFound
	}
	return *run, nil
}

func (f *fakeRunStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	out := make([]Run, 0, len(f.runs))
	for _, run := range f.runs {
		out = append(out, *run)
	}
	return out, nil
}

func (f *fakeRunStore) UpdateRunStatus(ctx context.Context, id int64, status RunStatus) error {
	run, ok := f.runs[id]
	if !ok {
		return ErrRunNotFound
	}
	run.Status = status
	f.statuses[id] = append(f.statuses[id], status)
	return nil
}

func (f *fakeRunStore) SaveRunPayload(ctx context.Context, id int64, result *reports.Result, errMsg string) error {
	run, ok := f.runs[id]
	if !ok {
		return ErrRunNotFound
	}
	run.Payload = result
	run.Error = errMsg
	now := time.Now()
	run.GeneratedAt = &now
	return nil
}

type fixture struct {
	ledger  *fakeLedgerStore
	budgets *fakeBudgetStore
	agings  *fakeAgingStore
	reports *fakeReportStore
	runs    *fakeRunStore
	service *Service
}

func newFixture() *fixture {
	f := &fixture{
		ledger:  &fakeLedgerStore{},
		budgets: &fakeBudgetStore{},
		agings:  &fakeAgingStore{},
		reports: newFakeReportStore(),
		runs:    newFakeRunStore(),
	}
	f.service = NewService(f.ledger, f.budgets, f.agings, f.reports, f.runs, nil)
	return f
}

func TestTrialBalanceAggregatesPostedLines(t *testing.T) {
	f := newFixture()
	f.ledger.posted = []ledger.PostedLine{
		{AccountID: 1, Code: "1.1", Name: "Cash", Debit: 100},
		{AccountID: 1, Code: "1.1", Name: "Cash", Credit: 40},
	}
	tb, err := f.service.TrialBalance(context.Background(), "2025")
	require.NoError(t, err)
	require.Len(t, tb.Rows, 1)
	require.Equal(t, 60.0, tb.Rows[0].Balance)
}

func TestTrialBalanceAllOrNothing(t *testing.T) {
	f := newFixture()
	f.ledger.postedErr = errors.New("connection reset")
	_, err := f.service.TrialBalance(context.Background(), "")
	require.ErrorContains(t, err, "connection reset")
}

func TestBalanceSheetMarksDefaultedAccounts(t *testing.T) {
	f := newFixture()
	f.ledger.accounts = []ledger.Account{
		{ID: 1, Code: "1.1.1"},
		{ID: 2, Code: "1.1.2"},
	}
	f.ledger.balances = map[int64]ledger.BalanceResult{
		1: {Amount: 900},
		2: {Defaulted: true},
	}
	bs, err := f.service.BalanceSheet(context.Background())
	require.NoError(t, err)
	require.Equal(t, 900.0, bs.Assets.Current)
	require.Equal(t, []string{"1.1.2"}, bs.DefaultedAccounts)
}

func TestIncomeStatementBatchedFailurePropagates(t *testing.T) {
	f := newFixture()
	f.ledger.accounts = []ledger.Account{{ID: 1, Code: "4.1.1"}}
	f.ledger.balancesErr = errors.New("timeout")
	_, err := f.service.IncomeStatement(context.Background())
	require.ErrorContains(t, err, "timeout")
}

func TestAccountLedgerUnknownAccount(t *testing.T) {
	f := newFixture()
	_, err := f.service.AccountLedger(context.Background(), 99, nil, nil)
	require.ErrorIs(t, err, ledger.ErrAccountNotFound)
}

func TestAccountLedgerRunningBalances(t *testing.T) {
	f := newFixture()
	f.ledger.accounts = []ledger.Account{{ID: 7, Code: "1.1.1"}}
	f.ledger.lines = []ledger.LedgerLine{
		{EntryID: 1, Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Debit: 100},
		{EntryID: 2, Date: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), Credit: 30},
	}
	result, err := f.service.AccountLedger(context.Background(), 7, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 70.0, result.FinalBalance)
}

func TestBudgetVariance(t *testing.T) {
	f := newFixture()
	f.budgets.lines = []budget.Line{{Category: "maintenance", Budgeted: 1000, Actual: 1200}}
	analyses, err := f.service.BudgetVariance(context.Background(), "2025-03")
	require.NoError(t, err)
	require.Len(t, analyses, 1)
	require.Equal(t, budget.StatusCritical, analyses[0].Status)
}

func TestAgingReport(t *testing.T) {
	f := newFixture()
	f.agings.subjects = []aging.Subject{
		{ID: 1, Kind: aging.KindLoan, OutstandingBalance: 60000},
		{ID: 2, Kind: aging.KindBeneficiaryDebt, OutstandingBalance: 100},
	}
	report, err := f.service.Aging(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Subjects, 2)
	require.Equal(t, aging.BucketOver90, report.Subjects[0].Bucket)
	require.Equal(t, 60100.0, report.Summary.GrandTotal)
}

func TestRunCustomValidatesBeforeSnapshot(t *testing.T) {
	f := newFixture()
	_, err := f.service.RunCustom(context.Background(), reports.Config{
		Type:   reports.TypeLoans,
		Fields: []string{"vin"},
	})
	require.ErrorIs(t, err, reports.ErrUnknownField)
	require.Zero(t, f.reports.snapshotCalls, "invalid config must not touch the snapshot")
}

func TestRunCustomExecutes(t *testing.T) {
	f := newFixture()
	f.reports.snapshot = []reports.Row{
		{"borrower_name": "Khalid", "status": "active"},
		{"borrower_name": "Said", "status": "closed"},
	}
	result, err := f.service.RunCustom(context.Background(), reports.Config{
		Type:    reports.TypeLoans,
		Fields:  []string{"borrower_name"},
		Filters: []reports.FilterConfig{{Field: "status", Operator: reports.OpEquals, Value: "active"}},
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.TotalCount)
	require.Equal(t, "Khalid", result.Rows[0]["borrower_name"])
}

func validTemplateInput(name string) reports.TemplateInput {
	return reports.TemplateInput{
		Name: name,
		Config: reports.Config{
			Type:   reports.TypeLoans,
			Fields: []string{"borrower_name", "outstanding_balance"},
		},
	}
}

func TestTemplateLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tpl, err := f.service.CreateTemplate(ctx, validTemplateInput("overdue loans"))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, tpl.ID)

	_, err = f.service.CreateTemplate(ctx, validTemplateInput("overdue loans"))
	require.ErrorIs(t, err, reports.ErrDuplicateTemplate)

	fetched, err := f.service.GetTemplate(ctx, tpl.ID)
	require.NoError(t, err)
	require.Equal(t, tpl.Config, fetched.Config)

	require.NoError(t, f.service.DeleteTemplate(ctx, tpl.ID))
	_, err = f.service.GetTemplate(ctx, tpl.ID)
	require.ErrorIs(t, err, reports.ErrTemplateNotFound)
}

func TestCreateTemplateRejectsInvalidConfig(t *testing.T) {
	f := newFixture()
	in := validTemplateInput("bad")
	in.Config.Fields = []string{"vin"}
	_, err := f.service.CreateTemplate(context.Background(), in)
	require.ErrorIs(t, err, reports.ErrUnknownField)
}

func TestQueueRunRequiresTemplate(t *testing.T) {
	f := newFixture()
	_, err := f.service.QueueRun(context.Background(), RunRequest{TemplateID: uuid.New()})
	require.ErrorIs(t, err, reports.ErrTemplateNotFound)
}

func TestProcessRunLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.reports.snapshot = []reports.Row{{"borrower_name": "Khalid"}}

	tpl, err := f.service.CreateTemplate(ctx, validTemplateInput("weekly"))
	require.NoError(t, err)

	run, err := f.service.QueueRun(ctx, RunRequest{TemplateID: tpl.ID, RequestedBy: "nazir"})
	require.NoError(t, err)
	require.Equal(t, RunPending, run.Status)

	require.NoError(t, f.service.ProcessRun(ctx, run.ID))

	require.Equal(t, []RunStatus{RunInProgress, RunReady}, f.runs.statuses[run.ID])
	stored, err := f.service.GetRun(ctx, run.ID)
	require.NoError(t, err)
	require.Equal(t, RunReady, stored.Status)
	require.NotNil(t, stored.Payload)
	require.Equal(t, 1, stored.Payload.TotalCount)
}

func TestProcessRunFailureRecordsError(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.reports.snapshotErr = errors.New("snapshot query failed")

	tpl, err := f.service.CreateTemplate(ctx, validTemplateInput("weekly"))
	require.NoError(t, err)
	run, err := f.service.QueueRun(ctx, RunRequest{TemplateID: tpl.ID})
	require.NoError(t, err)

	require.Error(t, f.service.ProcessRun(ctx, run.ID))

	require.Equal(t, []RunStatus{RunInProgress, RunFailed}, f.runs.statuses[run.ID])
	stored, err := f.service.GetRun(ctx, run.ID)
	require.NoError(t, err)
	require.Equal(t, RunFailed, stored.Status)
	require.Contains(t, stored.Error, "snapshot query failed")
	require.Nil(t, stored.Payload)
}

func TestInvalidateWithoutCache(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.service.Invalidate(context.Background()))
}

// Package reporting orchestrates the financial report engines: it pulls
// snapshots from the stores, runs the pure computations, and owns all
// caching and invalidation concerns so the engines stay stateless.
package reporting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/amanah-erp/amanah-erp/internal/aging"
	"github.com/amanah-erp/amanah-erp/internal/budget"
	"github.com/amanah-erp/amanah-erp/internal/ledger"
	"github.com/amanah-erp/amanah-erp/internal/reports"
	"github.com/amanah-erp/amanah-erp/internal/statements"
)

// LedgerStore exposes the ledger reads the reports need.
type LedgerStore interface {
	ListAccounts(ctx context.Context) ([]ledger.Account, error)
	GetAccount(ctx context.Context, id int64) (ledger.Account, error)
	PostedLines(ctx context.Context, fiscalYear string) ([]ledger.PostedLine, error)
	AccountLines(ctx context.Context, accountID int64, from, to *time.Time) ([]ledger.LedgerLine, error)
	AccountBalances(ctx context.Context, ids []int64) (map[int64]ledger.BalanceResult, error)
}

// BudgetStore reads budget lines.
type BudgetStore interface {
	ListLines(ctx context.Context, period string) ([]budget.Line, error)
}

// AgingStore reads outstanding-balance subjects.
type AgingStore interface {
	ListSubjects(ctx context.Context) ([]aging.Subject, error)
}

// ReportStore persists templates and loads entity snapshots.
type ReportStore interface {
	Snapshot(ctx context.Context, t reports.ReportType) ([]reports.Row, error)
	InsertTemplate(ctx context.Context, in reports.TemplateInput) (reports.Template, error)
	ReplaceTemplate(ctx context.Context, id uuid.UUID, in reports.TemplateInput) (reports.Template, error)
	GetTemplate(ctx context.Context, id uuid.UUID) (reports.Template, error)
	ListTemplates(ctx context.Context) ([]reports.Template, error)
	DeleteTemplate(ctx context.Context, id uuid.UUID) error
}

// RunStore persists saved-report runs.
type RunStore interface {
	InsertRun(ctx context.Context, req RunRequest) (Run, error)
	GetRun(ctx context.Context, id int64) (Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	UpdateRunStatus(ctx context.Context, id int64, status RunStatus) error
	SaveRunPayload(ctx context.Context, id int64, result *reports.Result, errMsg string) error
}

// Service coordinates report computation, caching and run processing.
// Each report invocation is independent; there is no shared mutable
// state beyond the cache.
type Service struct {
	ledger  LedgerStore
	budgets BudgetStore
	agings  AgingStore
	reports ReportStore
	runs    RunStore
	engine  *reports.Engine
	cache   *Cache
	group   singleflight.Group
}

// NewService builds the service. Cache may be nil, in which case every
// call recomputes.
func NewService(ledgerStore LedgerStore, budgetStore BudgetStore, agingStore AgingStore, reportStore ReportStore, runStore RunStore, cache *Cache) *Service {
	return &Service{
		ledger:  ledgerStore,
		budgets: budgetStore,
		agings:  agingStore,
		reports: reportStore,
		runs:    runStore,
		engine:  reports.NewEngine(),
		cache:   cache,
	}
}

// AgingReport pairs classified subjects with their bucket summary.
type AgingReport struct {
	Subjects []aging.ClassifiedSubject `json:"subjects"`
	Summary  aging.Summary             `json:"summary"`
}

// TrialBalance aggregates posted lines per account for the optional
// fiscal year. The operation is all-or-nothing: a data-access failure
// surfaces unmodified and no partial aggregation is returned.
func (s *Service) TrialBalance(ctx context.Context, fiscalYear string) (ledger.TrialBalance, error) {
	var tb ledger.TrialBalance
	err := s.cached(ctx, keyTrialBalance(fiscalYear), &tb, func(ctx context.Context) (interface{}, error) {
		lines, err := s.ledger.PostedLines(ctx, fiscalYear)
		if err != nil {
			return nil, err
		}
		return ledger.BuildTrialBalance(lines), nil
	})
	return tb, err
}

// BalanceSheet composes the balance sheet from one batched balance
// query. Individual account failures are substituted with zero and
// reported via DefaultedAccounts.
func (s *Service) BalanceSheet(ctx context.Context) (statements.BalanceSheet, error) {
	var bs statements.BalanceSheet
	err := s.cached(ctx, keyBalanceSheet(), &bs, func(ctx context.Context) (interface{}, error) {
		accounts, balances, err := s.accountBalances(ctx)
		if err != nil {
			return nil, err
		}
		return statements.ComposeBalanceSheet(accounts, balances), nil
	})
	return bs, err
}

// IncomeStatement composes the income statement with the same balance
// source and failure policy as the balance sheet.
func (s *Service) IncomeStatement(ctx context.Context) (statements.IncomeStatement, error) {
	var is statements.IncomeStatement
	err := s.cached(ctx, keyIncomeStatement(), &is, func(ctx context.Context) (interface{}, error) {
		accounts, balances, err := s.accountBalances(ctx)
		if err != nil {
			return nil, err
		}
		return statements.ComposeIncomeStatement(accounts, balances), nil
	})
	return is, err
}

func (s *Service) accountBalances(ctx context.Context) ([]ledger.Account, map[int64]ledger.BalanceResult, error) {
	accounts, err := s.ledger.ListAccounts(ctx)
	if err != nil {
		return nil, nil, err
	}
	ids := make([]int64, len(accounts))
	for i, acc := range accounts {
		ids[i] = acc.ID
	}
	balances, err := s.ledger.AccountBalances(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	return accounts, balances, nil
}

// AccountLedger returns one account's chronological ledger with running
// balances. Never cached: it is cheap and usually inspected right after
// a posting.
func (s *Service) AccountLedger(ctx context.Context, accountID int64, from, to *time.Time) (ledger.AccountLedger, error) {
	if _, err := s.ledger.GetAccount(ctx, accountID); err != nil {
		return ledger.AccountLedger{}, err
	}
	lines, err := s.ledger.AccountLines(ctx, accountID, from, to)
	if err != nil {
		return ledger.AccountLedger{}, err
	}
	return ledger.BuildAccountLedger(accountID, lines), nil
}

// BudgetVariance analyses every budget line of the optional period.
func (s *Service) BudgetVariance(ctx context.Context, period string) ([]budget.Analysis, error) {
	var analyses []budget.Analysis
	err := s.cached(ctx, keyVariance(period), &analyses, func(ctx context.Context) (interface{}, error) {
		lines, err := s.budgets.ListLines(ctx, period)
		if err != nil {
			return nil, err
		}
		return budget.AnalyzeAll(lines), nil
	})
	return analyses, err
}

// Aging classifies every outstanding balance and totals the buckets.
func (s *Service) Aging(ctx context.Context) (AgingReport, error) {
	var report AgingReport
	err := s.cached(ctx, keyAging(), &report, func(ctx context.Context) (interface{}, error) {
		subjects, err := s.agings.ListSubjects(ctx)
		if err != nil {
			return nil, err
		}
		return AgingReport{
			Subjects: aging.ClassifyAll(subjects),
			Summary:  aging.Summarize(subjects),
		}, nil
	})
	return report, err
}

// RunCustom validates and executes an ad-hoc report configuration
// against a fresh snapshot.
func (s *Service) RunCustom(ctx context.Context, cfg reports.Config) (reports.Result, error) {
	if err := s.engine.Validate(cfg); err != nil {
		return reports.Result{}, err
	}
	snapshot, err := s.reports.Snapshot(ctx, cfg.Type)
	if err != nil {
		return reports.Result{}, err
	}
	return s.engine.Execute(cfg, snapshot)
}

// RunTemplate replays a stored template config verbatim.
func (s *Service) RunTemplate(ctx context.Context, id uuid.UUID) (reports.Result, error) {
	tpl, err := s.reports.GetTemplate(ctx, id)
	if err != nil {
		return reports.Result{}, err
	}
	return s.RunCustom(ctx, tpl.Config)
}

// CreateTemplate validates and stores a template.
func (s *Service) CreateTemplate(ctx context.Context, in reports.TemplateInput) (reports.Template, error) {
	if err := in.Validate(s.engine); err != nil {
		return reports.Template{}, err
	}
	return s.reports.InsertTemplate(ctx, in)
}

// ReplaceTemplate overwrites the whole template blob.
func (s *Service) ReplaceTemplate(ctx context.Context, id uuid.UUID, in reports.TemplateInput) (reports.Template, error) {
	if err := in.Validate(s.engine); err != nil {
		return reports.Template{}, err
	}
	return s.reports.ReplaceTemplate(ctx, id, in)
}

// GetTemplate fetches a template.
func (s *Service) GetTemplate(ctx context.Context, id uuid.UUID) (reports.Template, error) {
	return s.reports.GetTemplate(ctx, id)
}

// ListTemplates enumerates templates.
func (s *Service) ListTemplates(ctx context.Context) ([]reports.Template, error) {
	return s.reports.ListTemplates(ctx)
}

// DeleteTemplate removes a template.
func (s *Service) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	return s.reports.DeleteTemplate(ctx, id)
}

// QueueRun inserts a pending run for asynchronous processing.
func (s *Service) QueueRun(ctx context.Context, req RunRequest) (Run, error) {
	if err := req.Validate(); err != nil {
		return Run{}, err
	}
	if _, err := s.reports.GetTemplate(ctx, req.TemplateID); err != nil {
		return Run{}, err
	}
	return s.runs.InsertRun(ctx, req)
}

// GetRun loads a run with its payload.
func (s *Service) GetRun(ctx context.Context, id int64) (Run, error) {
	return s.runs.GetRun(ctx, id)
}

// ListRuns lists recent runs.
func (s *Service) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	return s.runs.ListRuns(ctx, limit)
}

// ProcessRun executes a queued run and persists its payload.
func (s *Service) ProcessRun(ctx context.Context, runID int64) error {
	run, err := s.runs.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	if err := s.runs.UpdateRunStatus(ctx, run.ID, RunInProgress); err != nil {
		return err
	}
	result, err := s.RunTemplate(ctx, run.TemplateID)
	if err != nil {
		_ = s.runs.SaveRunPayload(ctx, run.ID, nil, err.Error())
		_ = s.runs.UpdateRunStatus(ctx, run.ID, RunFailed)
		return err
	}
	if err := s.runs.SaveRunPayload(ctx, run.ID, &result, ""); err != nil {
		_ = s.runs.UpdateRunStatus(ctx, run.ID, RunFailed)
		return err
	}
	return s.runs.UpdateRunStatus(ctx, run.ID, RunReady)
}

// Invalidate bumps the cache version after a ledger mutation so every
// cached report is recomputed on next access.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

// cached wraps a loader with the versioned cache and collapses
// concurrent identical builds through singleflight. Cache methods are
// nil-safe, so a nil cache simply recomputes every call.
func (s *Service) cached(ctx context.Context, keyBase string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	key, err := s.cache.BuildKey(ctx, keyBase)
	if err != nil {
		return err
	}
	result := s.group.DoChan(key, func() (interface{}, error) {
		return nil, s.cache.FetchJSON(ctx, key, dest, loader)
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-result:
		if res.Err != nil {
			return res.Err
		}
		if res.Shared {
			// A concurrent caller populated the cache; read it back.
			return s.cache.FetchJSON(ctx, key, dest, loader)
		}
		return nil
	}
}

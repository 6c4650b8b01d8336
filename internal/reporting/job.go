package reporting

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/amanah-erp/amanah-erp/jobs"
)

// RunJob processes queued saved-report runs.
type RunJob struct {
	service *Service
	logger  *slog.Logger
}

// NewRunJob constructs a job handler.
func NewRunJob(service *Service, logger *slog.Logger) *RunJob {
	return &RunJob{service: service, logger: logger}
}

// Handle fulfils the asynq.HandlerFunc contract.
func (j *RunJob) Handle(ctx context.Context, task *asynq.Task) error {
	var payload jobs.ReportRunPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.RunID == 0 {
		return asynq.SkipRetry
	}
	if err := j.service.ProcessRun(ctx, payload.RunID); err != nil {
		if j.logger != nil {
			j.logger.Error("report run", slog.Int64("run_id", payload.RunID), slog.Any("error", err))
		}
		return err
	}
	return nil
}

// WarmupJob precomputes the heavyweight reports so the first morning
// request hits a warm cache.
type WarmupJob struct {
	service *Service
	logger  *slog.Logger
}

// NewWarmupJob constructs the warmup handler.
func NewWarmupJob(service *Service, logger *slog.Logger) *WarmupJob {
	return &WarmupJob{service: service, logger: logger}
}

// Handle recomputes trial balance, both statements and the aging report.
func (j *WarmupJob) Handle(ctx context.Context, task *asynq.Task) error {
	var payload jobs.ReportWarmupPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if _, err := j.service.TrialBalance(ctx, payload.FiscalYear); err != nil {
		return err
	}
	if _, err := j.service.BalanceSheet(ctx); err != nil {
		return err
	}
	if _, err := j.service.IncomeStatement(ctx); err != nil {
		return err
	}
	if _, err := j.service.Aging(ctx); err != nil {
		return err
	}
	if j.logger != nil {
		j.logger.Info("report cache warmed", slog.String("fiscal_year", payload.FiscalYear))
	}
	return nil
}

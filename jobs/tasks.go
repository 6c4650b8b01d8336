package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportRun is the task type for processing a queued saved-report run.
	TaskReportRun = "report:run"
	// TaskReportWarmup is the task type for precomputing cached reports.
	TaskReportWarmup = "report:warmup"
)

// ReportRunPayload identifies the run to process.
type ReportRunPayload struct {
	RunID int64 `json:"run_id"`
}

// ReportWarmupPayload scopes the warmup computation.
type ReportWarmupPayload struct {
	FiscalYear string `json:"fiscal_year"`
}

// NewReportRunTask constructs an Asynq task for one run.
func NewReportRunTask(runID int64) (*asynq.Task, error) {
	data, err := json.Marshal(ReportRunPayload{RunID: runID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportRun, data), nil
}

// NewReportWarmupTask constructs the nightly warmup task.
func NewReportWarmupTask(fiscalYear string) (*asynq.Task, error) {
	data, err := json.Marshal(ReportWarmupPayload{FiscalYear: fiscalYear})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportWarmup, data), nil
}

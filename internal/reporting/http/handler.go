// Package reportinghttp exposes the report engine over JSON endpoints.
package reportinghttp

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/amanah-erp/amanah-erp/internal/ledger"
	"github.com/amanah-erp/amanah-erp/internal/platform/httpx"
	"github.com/amanah-erp/amanah-erp/internal/reporting"
	"github.com/amanah-erp/amanah-erp/internal/reporting/export"
	"github.com/amanah-erp/amanah-erp/internal/reports"
	"github.com/amanah-erp/amanah-erp/jobs"
)

// Handler wires reporting endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *reporting.Service
	formatter *reports.Formatter
	jobs      *jobs.Client
}

// NewHandler constructs handler. The jobs client may be nil; queued runs
// then stay pending until a worker picks them up through other means.
func NewHandler(logger *slog.Logger, service *reporting.Service, formatter *reports.Formatter, jobsClient *jobs.Client) *Handler {
	return &Handler{logger: logger, service: service, formatter: formatter, jobs: jobsClient}
}

func (h *Handler) trialBalance(w http.ResponseWriter, r *http.Request) {
	tb, err := h.service.TrialBalance(r.Context(), r.URL.Query().Get("fiscal_year"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tb)
}

func (h *Handler) trialBalanceCSV(w http.ResponseWriter, r *http.Request) {
	tb, err := h.service.TrialBalance(r.Context(), r.URL.Query().Get("fiscal_year"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	csvHeaders(w, "trial-balance.csv")
	if err := export.WriteTrialBalanceCSV(w, tb); err != nil {
		h.logger.Warn("trial balance csv", slog.Any("error", err))
	}
}

func (h *Handler) balanceSheet(w http.ResponseWriter, r *http.Request) {
	bs, err := h.service.BalanceSheet(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, bs)
}

func (h *Handler) incomeStatement(w http.ResponseWriter, r *http.Request) {
	is, err := h.service.IncomeStatement(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, is)
}

func (h *Handler) accountLedger(w http.ResponseWriter, r *http.Request) {
	accountID, err := strconv.ParseInt(chi.URLParam(r, "accountID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid account id")
		return
	}
	from, err := parseDateParam(r.URL.Query().Get("from"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid from date")
		return
	}
	to, err := parseDateParam(r.URL.Query().Get("to"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid to date")
		return
	}
	result, err := h.service.AccountLedger(r.Context(), accountID, from, to)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) budgetVariance(w http.ResponseWriter, r *http.Request) {
	analyses, err := h.service.BudgetVariance(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, analyses)
}

func (h *Handler) budgetVarianceCSV(w http.ResponseWriter, r *http.Request) {
	analyses, err := h.service.BudgetVariance(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	csvHeaders(w, "budget-variance.csv")
	if err := export.WriteVarianceCSV(w, analyses); err != nil {
		h.logger.Warn("budget variance csv", slog.Any("error", err))
	}
}

func (h *Handler) aging(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Aging(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) agingCSV(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Aging(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	csvHeaders(w, "aging.csv")
	if err := export.WriteAgingCSV(w, report); err != nil {
		h.logger.Warn("aging csv", slog.Any("error", err))
	}
}

func (h *Handler) catalog(w http.ResponseWriter, r *http.Request) {
	out := make(map[reports.ReportType][]reports.Field, len(reports.ReportTypes()))
	for _, t := range reports.ReportTypes() {
		fields, err := reports.FieldsFor(t)
		if err != nil {
			h.respondError(w, err)
			return
		}
		out[t] = fields
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) runCustom(w http.ResponseWriter, r *http.Request) {
	var cfg reports.Config
	if err := httpx.DecodeJSON(r, &cfg); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed report config")
		return
	}
	result, err := h.service.RunCustom(r.Context(), cfg)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) runCustomCSV(w http.ResponseWriter, r *http.Request) {
	var cfg reports.Config
	if err := httpx.DecodeJSON(r, &cfg); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed report config")
		return
	}
	result, err := h.service.RunCustom(r.Context(), cfg)
	if err != nil {
		h.respondError(w, err)
		return
	}
	formatted, err := h.formatter.FormatResult(cfg.Type, result)
	if err != nil {
		h.respondError(w, err)
		return
	}
	csvHeaders(w, "report.csv")
	if err := export.WriteFormattedCSV(w, formatted); err != nil {
		h.logger.Warn("custom report csv", slog.Any("error", err))
	}
}

func (h *Handler) listTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.service.ListTemplates(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, templates)
}

func (h *Handler) createTemplate(w http.ResponseWriter, r *http.Request) {
	var in reports.TemplateInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed template")
		return
	}
	tpl, err := h.service.CreateTemplate(r.Context(), in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, tpl)
}

func (h *Handler) getTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.templateID(w, r)
	if !ok {
		return
	}
	tpl, err := h.service.GetTemplate(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tpl)
}

func (h *Handler) replaceTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.templateID(w, r)
	if !ok {
		return
	}
	var in reports.TemplateInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed template")
		return
	}
	tpl, err := h.service.ReplaceTemplate(r.Context(), id, in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tpl)
}

func (h *Handler) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.templateID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteTemplate(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) runTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.templateID(w, r)
	if !ok {
		return
	}
	result, err := h.service.RunTemplate(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) queueRun(w http.ResponseWriter, r *http.Request) {
	id, ok := h.templateID(w, r)
	if !ok {
		return
	}
	run, err := h.service.QueueRun(r.Context(), reporting.RunRequest{
		TemplateID:  id,
		RequestedBy: r.Header.Get("X-Requested-By"),
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	if h.jobs != nil {
		if _, err := h.jobs.EnqueueReportRun(r.Context(), run.ID); err != nil && h.logger != nil {
			h.logger.Warn("enqueue report run", slog.Any("error", err))
		}
	}
	httpx.JSON(w, http.StatusAccepted, run)
}

func (h *Handler) listRuns(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := h.service.ListRuns(r.Context(), limit)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, runs)
}

func (h *Handler) getRun(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid run id")
		return
	}
	run, err := h.service.GetRun(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, run)
}

func (h *Handler) invalidate(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Invalidate(r.Context()); err != nil {
		h.respondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) templateID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid template id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	httpx.RespondError(w, h.classify(err))
}

// classify translates reporting domain errors into the transport
// sentinels understood by httpx.RespondError. Unrecognized errors are
// logged and passed through, which renders as an internal error.
func (h *Handler) classify(err error) error {
	var invalid validator.ValidationErrors
	switch {
	case errors.Is(err, reports.ErrUnknownReportType),
		errors.Is(err, reports.ErrUnknownField),
		errors.Is(err, reports.ErrUnsupportedOperator),
		errors.Is(err, reports.ErrBadFilterValue),
		errors.As(err, &invalid):
		return fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	case errors.Is(err, reports.ErrTemplateNotFound),
		errors.Is(err, reporting.ErrRunNotFound),
		errors.Is(err, ledger.ErrAccountNotFound):
		return fmt.Errorf("%w: %s", httpx.ErrNotFound, err)
	case errors.Is(err, reports.ErrDuplicateTemplate):
		return fmt.Errorf("%w: %s", httpx.ErrDuplicate, err)
	default:
		if h.logger != nil {
			h.logger.Error("reporting request", slog.Any("error", err))
		}
		return err
	}
}

func csvHeaders(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
}

func parseDateParam(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

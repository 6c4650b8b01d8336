package reportinghttp

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// MountRoutes attaches all reporting endpoints under the given router.
// CSV exports share a tighter rate limit since they bypass the cache
// formatting path and stream full result sets.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/trial-balance", h.trialBalance)
	r.Get("/balance-sheet", h.balanceSheet)
	r.Get("/income-statement", h.incomeStatement)
	r.Get("/ledger/{accountID}", h.accountLedger)
	r.Get("/budget-variance", h.budgetVariance)
	r.Get("/aging", h.aging)
	r.Get("/catalog", h.catalog)

	r.Post("/custom", h.runCustom)

	r.Route("/templates", func(r chi.Router) {
		r.Get("/", h.listTemplates)
		r.Post("/", h.createTemplate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getTemplate)
			r.Put("/", h.replaceTemplate)
			r.Delete("/", h.deleteTemplate)
			r.Post("/run", h.runTemplate)
			r.Post("/runs", h.queueRun)
		})
	})

	r.Get("/runs", h.listRuns)
	r.Get("/runs/{id}", h.getRun)

	r.Post("/invalidate", h.invalidate)

	r.Group(func(r chi.Router) {
		r.Use(httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		r.Get("/trial-balance/export.csv", h.trialBalanceCSV)
		r.Get("/budget-variance/export.csv", h.budgetVarianceCSV)
		r.Get("/aging/export.csv", h.agingCSV)
		r.Post("/custom/export.csv", h.runCustomCSV)
	})
}

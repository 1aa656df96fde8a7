package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/aurumworks/aurum/internal/auth"
	"github.com/aurumworks/aurum/internal/catalog"
	"github.com/aurumworks/aurum/internal/customers"
	"github.com/aurumworks/aurum/internal/observability"
	"github.com/aurumworks/aurum/internal/pricefeed"
	"github.com/aurumworks/aurum/internal/quotes"
	"github.com/aurumworks/aurum/internal/settings"
	"github.com/aurumworks/aurum/jobs"
	"github.com/aurumworks/aurum/report"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	TokenGate        *auth.TokenGate
	QuotesHandler    *quotes.Handler
	CustomersHandler *customers.Handler
	CatalogHandler   *catalog.Handler
	SettingsHandler  *settings.Handler
	PriceHandler     *pricefeed.Handler
	ReportHandler    *report.Handler
	JobHandler       *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with Aurum defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		if params.TokenGate != nil {
			r.Use(params.TokenGate.Middleware)
		}

		params.QuotesHandler.MountRoutes(r)
		params.CustomersHandler.MountRoutes(r)
		params.CatalogHandler.MountRoutes(r)
		params.SettingsHandler.MountRoutes(r)
		if params.PriceHandler != nil {
			params.PriceHandler.MountRoutes(r)
		}
		if params.ReportHandler != nil {
			params.ReportHandler.MountRoutes(r)
		}
		if params.JobHandler != nil {
			r.Route("/jobs", func(r chi.Router) {
				params.JobHandler.MountRoutes(r)
			})
		}
	})

	return r
}

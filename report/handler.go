package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aurumworks/aurum/internal/customers"
	"github.com/aurumworks/aurum/internal/platform/httpx"
	"github.com/aurumworks/aurum/internal/quotes"
	"github.com/aurumworks/aurum/internal/settings"
)

// QuoteReader loads the quote to print.
type QuoteReader interface {
	Get(ctx context.Context, id int64) (*quotes.Quote, error)
}

// CustomerReader loads the addressee.
type CustomerReader interface {
	Get(ctx context.Context, id int64) (*customers.Customer, error)
}

// SettingsReader resolves letterhead values.
type SettingsReader interface {
	String(ctx context.Context, key, fallback string) string
}

// Renderer converts HTML to PDF bytes.
type Renderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

type Handler struct {
	logger    *slog.Logger
	quotes    QuoteReader
	customers CustomerReader
	settings  SettingsReader
	renderer  Renderer
	currency  string
}

func NewHandler(logger *slog.Logger, q QuoteReader, c CustomerReader, s SettingsReader, r Renderer, currency string) *Handler {
	return &Handler{
		logger:    logger,
		quotes:    q,
		customers: c,
		settings:  s,
		renderer:  r,
		currency:  currency,
	}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/quotes/{id}/pdf", h.QuotePDF)
}

func (h *Handler) QuotePDF(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}

	ctx := r.Context()
	quote, err := h.quotes.Get(ctx, id)
	if err != nil {
		if errors.Is(err, quotes.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		h.logger.Error("load quote for pdf failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	customer, err := h.customers.Get(ctx, quote.CustomerID)
	if err != nil && !errors.Is(err, customers.ErrNotFound) {
		h.logger.Error("load customer for pdf failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	studio := StudioInfo{
		Name:    h.settings.String(ctx, settings.KeyStudioName, "Aurum Works"),
		Address: h.settings.String(ctx, settings.KeyStudioAddress, ""),
		Phone:   h.settings.String(ctx, settings.KeyStudioPhone, ""),
		Email:   h.settings.String(ctx, settings.KeyStudioEmail, ""),
		Footer:  h.settings.String(ctx, settings.KeyQuoteFooter, ""),
	}

	html, err := RenderQuoteHTML(BuildQuoteDocument(quote, customer, studio, h.currency))
	if err != nil {
		h.logger.Error("render quote html failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	pdf, err := h.renderer.RenderHTML(ctx, html)
	if err != nil {
		h.logger.Error("gotenberg render failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Upstream Error", "pdf renderer unavailable")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", quote.Number+".pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

package pricefeed

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aurumworks/aurum/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/metal-prices", func(r chi.Router) {
		r.Get("/latest", h.LatestAll)
		r.Get("/latest/{metal}", h.Latest)
		r.Post("/refresh", h.Refresh)
	})
}

func (h *Handler) LatestAll(w http.ResponseWriter, r *http.Request) {
	prices, err := h.service.LatestAll(r.Context())
	if err != nil {
		h.logger.Error("list latest prices failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if prices == nil {
		prices = []MetalPrice{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"prices": prices})
}

func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	price, err := h.service.Latest(r.Context(), chi.URLParam(r, "metal"))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			h.logger.Error("get latest price failed", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, price)
}

// Refresh triggers an immediate fetch, bypassing the cron schedule.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Refresh(r.Context()); err != nil {
		h.logger.Error("price refresh failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Upstream Error", "price feed unavailable")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

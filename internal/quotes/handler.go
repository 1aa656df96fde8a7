package quotes

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/aurumworks/aurum/internal/platform/httpx"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	req := ListQuotesRequest{Limit: 50}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			req.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			req.Offset = n
		}
	}
	if v := r.URL.Query().Get("status"); v != "" {
		status := QuoteStatus(v)
		if !ValidStatus(status) {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown status "+v)
			return
		}
		req.Status = &status
	}
	if v := r.URL.Query().Get("customer_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid customer_id")
			return
		}
		req.CustomerID = &id
	}

	result, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.respondError(w, "list quotes", err)
		return
	}
	if result == nil {
		result = []Quote{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"quotes": result,
		"total":  total,
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	quote, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, "get quote", err)
		return
	}
	httpx.JSON(w, http.StatusOK, quote)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateQuoteRequest
	if !h.decode(w, r, &req) {
		return
	}
	quote, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, "create quote", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, quote)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateQuoteRequest
	if !h.decode(w, r, &req) {
		return
	}
	quote, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.respondError(w, "update quote", err)
		return
	}
	httpx.JSON(w, http.StatusOK, quote)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if !h.decode(w, r, &req) {
		return
	}
	quote, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.respondError(w, "update quote status", err)
		return
	}
	httpx.JSON(w, http.StatusOK, quote)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, "delete quote", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Duplicate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	quote, err := h.service.Duplicate(r.Context(), id)
	if err != nil {
		h.respondError(w, "duplicate quote", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, quote)
}

func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	versionNum, err := strconv.Atoi(chi.URLParam(r, "version"))
	if err != nil || versionNum < 1 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid version number")
		return
	}
	quote, err := h.service.Restore(r.Context(), id, versionNum)
	if err != nil {
		h.respondError(w, "restore quote version", err)
		return
	}
	httpx.JSON(w, http.StatusOK, quote)
}

func (h *Handler) ListVersions(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}
	versions, err := h.service.ListVersions(r.Context(), id, limit)
	if err != nil {
		h.respondError(w, "list quote versions", err)
		return
	}
	if versions == nil {
		versions = []QuoteVersion{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"versions": versions})
}

func (h *Handler) ShowVersion(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	versionNum, err := strconv.Atoi(chi.URLParam(r, "version"))
	if err != nil || versionNum < 1 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid version number")
		return
	}
	version, err := h.service.GetVersion(r.Context(), id, versionNum)
	if err != nil {
		h.respondError(w, "get quote version", err)
		return
	}
	httpx.JSON(w, http.StatusOK, version)
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req AddItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	quote, err := h.service.AddItem(r.Context(), id, req)
	if err != nil {
		h.respondError(w, "add quote item", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, quote)
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := h.pathID(w, r, "itemID")
	if !ok {
		return
	}
	var req UpdateItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	quote, err := h.service.UpdateItem(r.Context(), id, itemID, req)
	if err != nil {
		h.respondError(w, "update quote item", err)
		return
	}
	httpx.JSON(w, http.StatusOK, quote)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := h.pathID(w, r, "itemID")
	if !ok {
		return
	}
	quote, err := h.service.RemoveItem(r.Context(), id, itemID)
	if err != nil {
		h.respondError(w, "remove quote item", err)
		return
	}
	httpx.JSON(w, http.StatusOK, quote)
}

// PricePreview runs the pure calculator over a cost breakdown so the form
// can show derived totals before anything is saved.
func (h *Handler) PricePreview(w http.ResponseWriter, r *http.Request) {
	var breakdown CostBreakdown
	if err := httpx.DecodeJSON(r, &breakdown); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, Price(breakdown))
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id < 1 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid "+param)
		return 0, false
	}
	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := httpx.DecodeJSON(r, target); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return false
	}
	if err := h.validate.Struct(target); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return false
	}
	return true
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrValidation) {
		h.logger.Error(op+" failed", slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

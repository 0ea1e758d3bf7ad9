// Package ledger — handlers.go отдаёт историю очков по HTTP.
package ledger

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/BloomIdeas/BloomIdeas/internal/httpapi"
)

// Handler обрабатывает запросы к журналу.
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик журнала.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Mount регистрирует маршруты.
func (h *Handler) Mount(r chi.Router) {
	r.With(httpapi.RequireIdentity).Get("/api/me/history", h.HandleHistory)
}

type historyResponse struct {
	Identity string  `json:"identity"`
	Balance  int64   `json:"balance"`
	Events   []Event `json:"events"`
}

// HandleHistory — GET /api/me/history?limit=N.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	identity := httpapi.MustIdentity(r)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			httpapi.WriteJSON(w, http.StatusBadRequest, httpapi.ErrorBody{Error: "limit must be a positive integer"})
			return
		}
		limit = min(n, h.service.HistoryLimit())
	}

	events, err := h.service.CollectHistory(r.Context(), identity, limit)
	if err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	balance, err := h.service.Balance(r.Context(), identity)
	if err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	if events == nil {
		events = []Event{}
	}
	httpapi.WriteJSON(w, http.StatusOK, historyResponse{Identity: identity, Balance: balance, Events: events})
}

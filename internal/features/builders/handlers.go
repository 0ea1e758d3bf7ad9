package builders

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
	"github.com/BloomIdeas/BloomIdeas/internal/httpapi"
)

// Subjects проверяет, что идея существует.
type Subjects interface {
	Ensure(ctx context.Context, id string) error
}

// Handler — HTTP-обработчики заявок строителей.
type Handler struct {
	service  *Service
	subjects Subjects
}

func NewHandler(service *Service, subjects Subjects) *Handler {
	return &Handler{service: service, subjects: subjects}
}

func (h *Handler) Mount(r chi.Router) {
	r.Get("/api/ideas/{id}/builders", h.HandleGet)
	r.With(httpapi.RequireIdentity).Post("/api/ideas/{id}/builders", h.HandleToggle)
}

type stateResponse struct {
	Subject string `json:"subject"`
	Count   int    `json:"count"`
	Mine    bool   `json:"mine"`
}

type toggleResponse struct {
	Result
	Message string `json:"message,omitempty"`
}

// HandleGet — GET /api/ideas/{id}/builders.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	subject := chi.URLParam(r, "id")
	count, err := h.service.Count(r.Context(), subject)
	if err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	resp := stateResponse{Subject: subject, Count: count}
	if id, ok := httpapi.IdentityFrom(r.Context()); ok {
		if resp.Mine, err = h.service.Interested(r.Context(), id, subject); err != nil {
			httpapi.WriteError(w, r, err)
			return
		}
	}
	httpapi.WriteJSON(w, http.StatusOK, resp)
}

// HandleToggle — POST /api/ideas/{id}/builders.
func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	subject := chi.URLParam(r, "id")
	if h.subjects != nil {
		if err := h.subjects.Ensure(r.Context(), subject); err != nil {
			httpapi.WriteError(w, r, err)
			return
		}
	}
	res, err := h.service.Toggle(r.Context(), httpapi.MustIdentity(r), subject)
	if err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	resp := toggleResponse{Result: res}
	if res.Rewarded > 0 {
		resp.Message = common.EarnedMessage(res.Rewarded)
	}
	httpapi.WriteJSON(w, http.StatusOK, resp)
}

package care

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
	"github.com/BloomIdeas/BloomIdeas/internal/httpapi"
)

// Subjects проверяет, что предмет реакции существует.
type Subjects interface {
	Ensure(ctx context.Context, id string) error
}

// Handler — HTTP-обработчики реакций.
type Handler struct {
	service  *Service
	subjects Subjects
}

func NewHandler(service *Service, subjects Subjects) *Handler {
	return &Handler{service: service, subjects: subjects}
}

func (h *Handler) Mount(r chi.Router) {
	r.Get("/api/ideas/{id}/care", h.HandleCounts)
	r.With(httpapi.RequireIdentity).Post("/api/ideas/{id}/care", h.HandleApply)
}

type countsResponse struct {
	Subject string `json:"subject"`
	Counts  Counts `json:"counts"`
	Mine    Kind   `json:"mine,omitempty"`
}

type applyRequest struct {
	Kind Kind `json:"kind"`
}

type applyResponse struct {
	Result
	Counts  Counts `json:"counts"`
	Message string `json:"message,omitempty"`
}

// HandleCounts — GET /api/ideas/{id}/care.
func (h *Handler) HandleCounts(w http.ResponseWriter, r *http.Request) {
	subject := chi.URLParam(r, "id")
	counts, err := h.service.CountsFor(r.Context(), subject)
	if err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	resp := countsResponse{Subject: subject, Counts: counts}
	if id, ok := httpapi.IdentityFrom(r.Context()); ok {
		if resp.Mine, err = h.service.KindOf(r.Context(), id, subject); err != nil {
			httpapi.WriteError(w, r, err)
			return
		}
	}
	httpapi.WriteJSON(w, http.StatusOK, resp)
}

// HandleApply — POST /api/ideas/{id}/care {"kind": "nurture"}.
func (h *Handler) HandleApply(w http.ResponseWriter, r *http.Request) {
	subject := chi.URLParam(r, "id")
	var req applyRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	if h.subjects != nil {
		if err := h.subjects.Ensure(r.Context(), subject); err != nil {
			httpapi.WriteError(w, r, err)
			return
		}
	}

	res, err := h.service.Apply(r.Context(), httpapi.MustIdentity(r), subject, req.Kind)
	if err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	counts, err := h.service.CountsFor(r.Context(), subject)
	if err != nil {
		httpapi.WriteError(w, r, err)
		return
	}

	resp := applyResponse{Result: res, Counts: counts}
	if res.Rewarded > 0 {
		resp.Message = common.EarnedMessage(res.Rewarded)
	}
	httpapi.WriteJSON(w, http.StatusOK, resp)
}

package comments

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
	"github.com/BloomIdeas/BloomIdeas/internal/features/gate"
	"github.com/BloomIdeas/BloomIdeas/internal/httpapi"
)

// Handler — HTTP-обработчики комментариев.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Mount(r chi.Router) {
	r.Get("/api/ideas/{id}/comments", h.HandleList)
	r.With(httpapi.RequireIdentity).Post("/api/ideas/{id}/comments", h.HandlePost)
}

type postRequest struct {
	Body string `json:"body"`
}

type postResponse struct {
	Comment  Comment       `json:"comment"`
	Decision gate.Decision `json:"decision"`
	Message  string        `json:"message"`
	Warning  string        `json:"warning,omitempty"`
}

type deniedResponse struct {
	httpapi.ErrorBody
	Decision gate.Decision `json:"decision"`
}

// HandleList — GET /api/ideas/{id}/comments.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	if list == nil {
		list = []Comment{}
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"comments": list})
}

// HandlePost — POST /api/ideas/{id}/comments {"body": "..."}.
//
//	201 — опубликован (и, возможно, с предупреждением о списании)
//	402 — не хватает очков
func (h *Handler) HandlePost(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteError(w, r, err)
		return
	}

	res, err := h.service.Post(r.Context(), httpapi.MustIdentity(r), chi.URLParam(r, "id"), req.Body)
	switch {
	case errors.Is(err, common.ErrInconsistentDebit):
		// Комментарий сохранён: повтор запроса дал бы второй комментарий.
		httpapi.WriteJSON(w, http.StatusCreated, postResponse{
			Comment:  res.Comment,
			Decision: res.Decision,
			Message:  "Comment posted",
			Warning:  "points will be deducted shortly",
		})
		return
	case err != nil:
		httpapi.WriteError(w, r, err)
		return
	}

	if !res.Decision.Allowed {
		httpapi.WriteJSON(w, http.StatusPaymentRequired, deniedResponse{
			ErrorBody: httpapi.ErrorBody{Error: res.Decision.Message()},
			Decision:  res.Decision,
		})
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, postResponse{
		Comment:  res.Comment,
		Decision: res.Decision,
		Message:  res.Decision.Message(),
	})
}

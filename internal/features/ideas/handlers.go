package ideas

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
	"github.com/BloomIdeas/BloomIdeas/internal/httpapi"
)

// BuilderCounter — число заявок строителей на идею.
type BuilderCounter interface {
	Count(ctx context.Context, subject string) (int, error)
}

// Handler — HTTP-обработчики идей.
type Handler struct {
	service  *Service
	builders BuilderCounter
}

// NewHandler создаёт обработчик. builders может быть nil.
func NewHandler(service *Service, builders BuilderCounter) *Handler {
	return &Handler{service: service, builders: builders}
}

func (h *Handler) Mount(r chi.Router) {
	r.Get("/api/ideas", h.HandleList)
	r.Get("/api/ideas/{id}", h.HandleGet)
	r.With(httpapi.RequireIdentity).Post("/api/ideas", h.HandlePlant)
	r.With(httpapi.RequireIdentity).Post("/api/ideas/{id}/status", h.HandleStatus)
}

type plantResponse struct {
	Idea    Idea   `json:"idea"`
	Message string `json:"message,omitempty"`
}

// HandleList — GET /api/ideas?status=&tag=&q=&author=.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := Filter{
		Status: Status(q.Get("status")),
		Tag:    q.Get("tag"),
		Query:  q.Get("q"),
	}
	if raw := q.Get("author"); raw != "" {
		author, err := common.NormalizeIdentity(raw)
		if err != nil {
			httpapi.WriteError(w, r, err)
			return
		}
		f.Author = author
	}

	list, err := h.service.List(r.Context(), f)
	if err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"ideas": list})
}

// HandleGet — GET /api/ideas/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	idea, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	if h.builders != nil && idea.Source == SourceLive {
		if idea.Interested, err = h.builders.Count(r.Context(), idea.ID); err != nil {
			httpapi.WriteError(w, r, err)
			return
		}
	}
	httpapi.WriteJSON(w, http.StatusOK, idea)
}

// HandlePlant — POST /api/ideas.
func (h *Handler) HandlePlant(w http.ResponseWriter, r *http.Request) {
	var in PlantInput
	if err := httpapi.DecodeJSON(r, &in); err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	idea, rewarded, err := h.service.Plant(r.Context(), httpapi.MustIdentity(r), in)
	if err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	resp := plantResponse{Idea: idea}
	if rewarded > 0 {
		resp.Message = common.EarnedMessage(rewarded)
	}
	httpapi.WriteJSON(w, http.StatusCreated, resp)
}

// HandleStatus — POST /api/ideas/{id}/status {"status": "growing"}.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status Status `json:"status"`
	}
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	idea, err := h.service.SetStatus(r.Context(), httpapi.MustIdentity(r), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, idea)
}

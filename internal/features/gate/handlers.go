package gate

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BloomIdeas/BloomIdeas/internal/httpapi"
)

// Handler отдаёт цены и предварительную проверку гейта.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Mount(r chi.Router) {
	r.Get("/api/gate/schedule", h.HandleSchedule)
	r.With(httpapi.RequireIdentity).Get("/api/me/comment-quote", h.HandleQuote)
}

type quoteResponse struct {
	Decision
	Message string `json:"message"`
}

// HandleSchedule — GET /api/gate/schedule.
func (h *Handler) HandleSchedule(w http.ResponseWriter, _ *http.Request) {
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"costs": h.service.Schedule().Costs(),
		"floor": h.service.Schedule().Floor(),
	})
}

// HandleQuote — GET /api/me/comment-quote: цена следующего комментария
// и хватает ли на него очков.
func (h *Handler) HandleQuote(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Quote(r.Context(), httpapi.MustIdentity(r))
	if err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	resp := quoteResponse{Decision: d, Message: d.Message()}
	if d.Allowed {
		resp.Message = ""
	}
	httpapi.WriteJSON(w, http.StatusOK, resp)
}

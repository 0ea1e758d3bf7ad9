package reputation

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
	"github.com/BloomIdeas/BloomIdeas/internal/httpapi"
)

// Handler отдаёт репутацию по HTTP.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Mount(r chi.Router) {
	r.Get("/api/reputation/tiers", h.HandleTiers)
	r.Get("/api/identities/{identity}/reputation", h.HandleIdentity)
	r.With(httpapi.RequireIdentity).Get("/api/me/reputation", h.HandleMe)
}

// HandleTiers — GET /api/reputation/tiers.
func (h *Handler) HandleTiers(w http.ResponseWriter, _ *http.Request) {
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"tiers": h.service.Table().Tiers()})
}

// HandleIdentity — GET /api/identities/{identity}/reputation.
func (h *Handler) HandleIdentity(w http.ResponseWriter, r *http.Request) {
	identity, err := common.NormalizeIdentity(chi.URLParam(r, "identity"))
	if err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	h.write(w, r, identity)
}

// HandleMe — GET /api/me/reputation.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, httpapi.MustIdentity(r))
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, identity string) {
	report, err := h.service.Report(r.Context(), identity)
	if err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, report)
}

package admin

import (
	"context"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
	"github.com/BloomIdeas/BloomIdeas/internal/features/builders"
	"github.com/BloomIdeas/BloomIdeas/internal/httpapi"
)

// Builders — заявки строителей для вкладки «Builder Requests».
type Builders interface {
	Requests(ctx context.Context, f builders.Filter) ([]builders.Interest, error)
	Approve(ctx context.Context, identity, subject string) (builders.Interest, error)
}

// Handler — HTTP-обработчики админки.
type Handler struct {
	service  *Service
	builders Builders
}

// NewHandler создаёт обработчик. Без builders маршруты заявок не регистрируются.
func NewHandler(service *Service, builders Builders) *Handler {
	return &Handler{service: service, builders: builders}
}

func (h *Handler) Mount(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.requirePassword)
		r.Post("/api/admin/grants", h.HandleGrant)
		if h.builders != nil {
			r.Get("/api/admin/builder-requests", h.HandleBuilderRequests)
			r.Post("/api/admin/builder-requests/approve", h.HandleApproveBuilder)
		}
	})
}

// requirePassword проверяет пароль из Basic Auth (имя пользователя не важно).
func (h *Handler) requirePassword(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="bloom-admin"`)
			httpapi.WriteJSON(w, http.StatusUnauthorized, httpapi.ErrorBody{Error: "admin password required"})
			return
		}
		if err := h.service.VerifyPassword(client(r), password); err != nil {
			httpapi.WriteError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// HandleGrant — POST /api/admin/grants.
func (h *Handler) HandleGrant(w http.ResponseWriter, r *http.Request) {
	var req GrantRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	ev, err := h.service.Grant(r.Context(), req)
	if err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, ev)
}

// HandleBuilderRequests — GET /api/admin/builder-requests?status=&idea=&limit=.
func (h *Handler) HandleBuilderRequests(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := builders.Filter{Subject: q.Get("idea"), Status: builders.Status(q.Get("status"))}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httpapi.WriteError(w, r, httpapi.ErrBadRequest)
			return
		}
		f.Limit = n
	}
	list, err := h.builders.Requests(r.Context(), f)
	if err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"requests": list})
}

// HandleApproveBuilder — POST /api/admin/builder-requests/approve {"identity": "...", "idea": "..."}.
func (h *Handler) HandleApproveBuilder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identity string `json:"identity"`
		Idea     string `json:"idea"`
	}
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	identity, err := common.NormalizeIdentity(req.Identity)
	if err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	in, err := h.builders.Approve(r.Context(), identity, req.Idea)
	if err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, in)
}

func client(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

package wallets

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
	"github.com/BloomIdeas/BloomIdeas/internal/httpapi"
)

// Balances — баланс очков для профиля.
type Balances interface {
	Balance(ctx context.Context, identity string) (int64, error)
}

// Handler — HTTP-обработчики входа и профиля.
type Handler struct {
	service  *Service
	balances Balances
}

func NewHandler(service *Service, balances Balances) *Handler {
	return &Handler{service: service, balances: balances}
}

func (h *Handler) Mount(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(httpapi.RequireIdentity)
		r.Post("/api/session", h.HandleSignIn)
		r.Get("/api/me", h.HandleMe)
	})
}

type signInResponse struct {
	SignInResult
	Balance int64  `json:"balance"`
	Message string `json:"message,omitempty"`
}

type meResponse struct {
	Wallet  Wallet `json:"wallet"`
	Balance int64  `json:"balance"`
}

// HandleSignIn — POST /api/session. Вызывается фронтендом после подписи.
func (h *Handler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.SignIn(r.Context(), httpapi.MustIdentity(r))
	if err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	balance, err := h.balances.Balance(r.Context(), res.Wallet.Identity)
	if err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	resp := signInResponse{SignInResult: res, Balance: balance}
	if res.Rewarded > 0 {
		resp.Message = common.EarnedMessage(res.Rewarded)
	}
	httpapi.WriteJSON(w, http.StatusOK, resp)
}

// HandleMe — GET /api/me.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	identity := httpapi.MustIdentity(r)
	wallet, err := h.service.Get(r.Context(), identity)
	if err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	balance, err := h.balances.Balance(r.Context(), identity)
	if err != nil {
		httpapi.WriteError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, meResponse{Wallet: wallet, Balance: balance})
}

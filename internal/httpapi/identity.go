package httpapi

import (
	"context"
	"net/http"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
)

// IdentityHeader — заголовок, в котором фронтенд передаёт адрес кошелька,
// уже подтверждённый подписью на стороне кошелька.
const IdentityHeader = "X-Wallet-Address"

type identityKey struct{}

// WithIdentity кладёт идентичность в контекст.
func WithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFrom достаёт идентичность из контекста.
func IdentityFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(identityKey{}).(string)
	return id, ok && id != ""
}

// Identity разбирает заголовок X-Wallet-Address. Запросы без заголовка
// проходят анонимно, битый адрес — 400.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(IdentityHeader)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		id, err := common.NormalizeIdentity(raw)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// RequireIdentity пропускает только запросы с идентичностью.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFrom(r.Context()); !ok {
			WriteError(w, r, ErrUnauthenticated)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// MustIdentity — идентичность запроса, прошедшего RequireIdentity.
func MustIdentity(r *http.Request) string {
	id, _ := IdentityFrom(r.Context())
	return id
}

package httpapi

import (
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
)

// Logger логирует каждый запрос: метод, путь, кошелёк, статус, время.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		fields := log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.Status(),
			"duration": time.Since(start).String(),
		}
		if id, ok := IdentityFrom(r.Context()); ok {
			fields["identity"] = common.ShortIdentity(id)
		}
		log.WithFields(fields).Debug("HTTP-запрос")
	})
}

// Recoverer перехватывает панику в обработчике, пишет стек в лог и отдаёт 500.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.WithFields(log.Fields{
					"component": "panic_recovery",
					"panic":     fmt.Sprintf("%v", rec),
					"path":      r.URL.Path,
					"stack":     string(debug.Stack()),
				}).Error("ПАНИКА в обработчике — восстановлено")
				WriteJSON(w, http.StatusInternalServerError, ErrorBody{Error: "internal error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// RateLimit режет запросы сверх лимита. Каждый запрос считается в корзине
// IP, запрос с кошельком — ещё и в корзине кошелька: заголовок кошелька
// не проверяется, и ротация адресов с одного IP упирается в лимит IP.
// Должен стоять после Identity.
func RateLimit(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			allowed := rl.AllowIP(ip)
			key := ip
			if id, ok := IdentityFrom(r.Context()); ok && allowed {
				key = common.ShortIdentity(id)
				allowed = rl.Allow(id)
			}
			if !allowed {
				log.WithField("key", key).Warn("Превышен лимит запросов")
				WriteJSON(w, http.StatusTooManyRequests, ErrorBody{Error: "too many requests", Retryable: true})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

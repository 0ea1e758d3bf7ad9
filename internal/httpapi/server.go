// Package httpapi собирает HTTP-сервер: роутер chi, CORS для браузерного
// фронтенда, логирование, восстановление после паники, лимит запросов.
// Маршруты фич подключаются через интерфейс Mounter.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"

	"github.com/BloomIdeas/BloomIdeas/internal/config"
)

// Mounter — обработчики фичи, которые умеют подключиться к роутеру.
type Mounter interface {
	Mount(r chi.Router)
}

// NewRouter создаёт роутер со всеми middleware и маршрутами фич.
func NewRouter(cfg *config.Config, rl *RateLimiter, mounts ...Mounter) http.Handler {
	r := chi.NewRouter()
	r.Use(Recoverer)
	r.Use(Identity)
	r.Use(Logger)
	if rl != nil {
		r.Use(RateLimit(rl))
	}

	r.Get("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	for _, m := range mounts {
		m.Mount(r)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", IdentityHeader},
		AllowCredentials: false,
		MaxAge:           600,
	})
	return c.Handler(r)
}

// Server — HTTP-сервер с корректной остановкой.
type Server struct {
	srv             *http.Server
	shutdownTimeout time.Duration
}

// NewServer создаёт сервер на cfg.HTTPAddr.
func NewServer(cfg *config.Config, handler http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           handler,
			ReadHeaderTimeout: cfg.HTTPReadTimeout,
			ReadTimeout:       cfg.HTTPReadTimeout,
		},
		shutdownTimeout: cfg.HTTPShutdownTimeout,
	}
}

// Run слушает порт до отмены ctx, затем дожидается активных запросов.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", s.srv.Addr).Info("HTTP-сервер запущен")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("HTTP-сервер остановлен")
	return nil
}

// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: выбирает хранилище по DB_DRIVER, создаёт сервисы,
// обработчики, HTTP-сервер и планировщик сверки.
package app

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/BloomIdeas/BloomIdeas/internal/config"
	"github.com/BloomIdeas/BloomIdeas/internal/db/postgres"
	"github.com/BloomIdeas/BloomIdeas/internal/db/sqlite"
	"github.com/BloomIdeas/BloomIdeas/internal/features/admin"
	"github.com/BloomIdeas/BloomIdeas/internal/features/builders"
	"github.com/BloomIdeas/BloomIdeas/internal/features/care"
	"github.com/BloomIdeas/BloomIdeas/internal/features/comments"
	"github.com/BloomIdeas/BloomIdeas/internal/features/gate"
	"github.com/BloomIdeas/BloomIdeas/internal/features/ideas"
	"github.com/BloomIdeas/BloomIdeas/internal/features/ledger"
	"github.com/BloomIdeas/BloomIdeas/internal/features/reputation"
	"github.com/BloomIdeas/BloomIdeas/internal/features/wallets"
	"github.com/BloomIdeas/BloomIdeas/internal/httpapi"
	"github.com/BloomIdeas/BloomIdeas/internal/jobs"
	"github.com/BloomIdeas/BloomIdeas/internal/notify"
	"github.com/BloomIdeas/BloomIdeas/internal/store"
	"github.com/BloomIdeas/BloomIdeas/internal/store/gormstore"
	"github.com/BloomIdeas/BloomIdeas/internal/store/memory"
	"github.com/BloomIdeas/BloomIdeas/internal/store/pgstore"
)

// Backend — хранилище, которое обслуживает все фичи сразу.
type Backend interface {
	store.UnitOfWork
	ledger.Repository
	care.Repository
	ideas.Repository
	comments.Repository
	wallets.Repository
	builders.Repository
}

// Services — собранные сервисы. Тесты ходят в них напрямую.
type Services struct {
	Ledger     *ledger.Service
	Reputation *reputation.Service
	Gate       *gate.Service
	Care       *care.Service
	Ideas      *ideas.Service
	Comments   *comments.Service
	Wallets    *wallets.Service
	Builders   *builders.Service
	Admin      *admin.Service
}

// App содержит все компоненты приложения.
type App struct {
	Services  *Services
	Server    *httpapi.Server
	Scheduler *jobs.Scheduler

	limiter *httpapi.RateLimiter
	closers []func()
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен: компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	// === 1. Хранилище ===
	backend, err := a.openBackend(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	// === 2. Уведомления ===
	notifier := notify.Multi{notify.LogNotifier{}}
	if cfg.AlertsEnabled() {
		tg, err := notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramAlertChatID)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("ошибка создания Telegram-алертов: %w", err)
		}
		notifier = append(notifier, tg)
	}

	// === 3. Сервисы ===
	services, err := NewServices(cfg, backend, notifier)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Services = services

	// === 4. HTTP ===
	a.limiter = httpapi.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitIPRequests, cfg.RateLimitWindow)
	router := httpapi.NewRouter(cfg, a.limiter, Handlers(services)...)
	a.Server = httpapi.NewServer(cfg, router)

	// === 5. Планировщик сверки ===
	scheduler, err := jobs.NewScheduler(services.Comments, cfg.ReconcileSchedule)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Scheduler = scheduler

	return a, nil
}

// NewServices собирает сервисы поверх одного хранилища.
func NewServices(cfg *config.Config, backend Backend, notifier notify.Notifier) (*Services, error) {
	table, err := reputation.ParseTiers(cfg.ReputationTiers)
	if err != nil {
		return nil, fmt.Errorf("REPUTATION_TIERS: %w", err)
	}
	schedule, err := gate.NewSchedule(cfg.GateCostSchedule)
	if err != nil {
		return nil, fmt.Errorf("GATE_COST_SCHEDULE: %w", err)
	}
	if cfg.AdminPasswordHash != "" {
		if err := admin.CheckHash(cfg.AdminPasswordHash); err != nil {
			return nil, fmt.Errorf("ADMIN_PASSWORD_HASH: %w", err)
		}
	}

	// Без GATE_ATOMIC гейт работает в режиме «действие, потом списание»
	var gateUOW store.UnitOfWork
	if cfg.GateAtomic {
		gateUOW = backend
	}

	ledgerService := ledger.NewService(backend, cfg.LedgerHistoryLimit)
	gateService := gate.NewService(ledgerService, backend, schedule, gateUOW, notifier)
	ideasService := ideas.NewService(backend, ledgerService, backend, cfg.RewardPlanted, cfg.IdeasPlaceholders)

	return &Services{
		Ledger:     ledgerService,
		Reputation: reputation.NewService(ledgerService, table),
		Gate:       gateService,
		Care:       care.NewService(backend, ledgerService, backend, cfg.RewardNurtured),
		Ideas:      ideasService,
		Comments: comments.NewService(backend, gateService, ledgerService, ideasService, notifier, comments.Options{
			MaxLength:     cfg.CommentMaxLength,
			AuthorReward:  cfg.RewardCommentReceived,
			ReconcileWait: cfg.ReconcileGrace,
		}),
		Wallets:  wallets.NewService(backend, ledgerService, backend, cfg.RewardWelcome),
		Builders: builders.NewService(backend, ledgerService, backend, cfg.RewardJoined),
		Admin:    admin.NewService(ledgerService, notifier, cfg.AdminPasswordHash, cfg.AdminMaxAttempts),
	}, nil
}

// Handlers — все обработчики HTTP API.
func Handlers(s *Services) []httpapi.Mounter {
	return []httpapi.Mounter{
		ledger.NewHandler(s.Ledger),
		reputation.NewHandler(s.Reputation),
		gate.NewHandler(s.Gate),
		care.NewHandler(s.Care, s.Ideas),
		ideas.NewHandler(s.Ideas, s.Builders),
		builders.NewHandler(s.Builders, s.Ideas),
		comments.NewHandler(s.Comments),
		wallets.NewHandler(s.Wallets, s.Ledger),
		admin.NewHandler(s.Admin, s.Builders),
	}
}

// Run запускает планировщик и HTTP-сервер. Возвращается после отмены ctx.
func (a *App) Run(ctx context.Context) error {
	if err := a.Scheduler.Start(ctx); err != nil {
		return err
	}
	defer a.Scheduler.Stop()

	return a.Server.Run(ctx)
}

// Close освобождает ресурсы в обратном порядке.
func (a *App) Close() {
	if a.limiter != nil {
		a.limiter.Close()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) openBackend(ctx context.Context, cfg *config.Config) (Backend, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
		}
		a.closers = append(a.closers, pool.Close)

		if err := postgres.RunMigrations(ctx, pool, postgres.Migrations); err != nil {
			return nil, fmt.Errorf("ошибка миграций: %w", err)
		}
		return pgstore.New(pool), nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if sqlDB, err := db.DB(); err == nil {
			a.closers = append(a.closers, func() {
				if err := sqlDB.Close(); err != nil {
					log.WithError(err).Warn("Ошибка закрытия SQLite")
				}
			})
		}

		s := gormstore.New(db)
		if err := s.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("ошибка миграций: %w", err)
		}
		return s, nil

	case config.DriverMemory:
		log.Warn("DB_DRIVER=memory: данные живут до перезапуска")
		return memory.New(), nil
	}
	return nil, errors.New("неизвестный DB_DRIVER " + cfg.DBDriver)
}

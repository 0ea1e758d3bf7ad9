// Package config загружает конфигурацию сервиса из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры,
// а godotenv подхватывает локальный .env, если он есть.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Драйверы хранилища
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- HTTP ---
	HTTPAddr            string        `envconfig:"HTTP_ADDR" default:":8080"`
	HTTPReadTimeout     time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"10s"`
	HTTPShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"15s"`
	// Откуда фронтенд ходит в API (CORS)
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	// --- Database ---
	// postgres — основной режим, sqlite — локальная разработка, memory — демо и тесты.
	DBDriver   string `envconfig:"DB_DRIVER" default:"postgres"`
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"bloom"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"bloom_ideas"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`
	SQLitePath string `envconfig:"SQLITE_PATH" default:"data/bloom.sqlite"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`

	// --- Gate ---
	// Стоимость N-го комментария; последний элемент — пол.
	GateCostScheduleRaw string  `envconfig:"GATE_COST_SCHEDULE" default:"5,4,3"`
	GateCostSchedule    []int64 `envconfig:"-"` // заполним вручную
	// false — хранилище без транзакций: действие, потом списание (best-effort)
	GateAtomic bool `envconfig:"GATE_ATOMIC" default:"true"`

	// --- Reputation ---
	ReputationTiers string `envconfig:"REPUTATION_TIERS" default:"Seed:0,Sprout:50,Bloom:150,Grove-Keeper:300,Garden Master:500"`

	// --- Rewards ---
	RewardPlanted         int64 `envconfig:"REWARD_PLANTED" default:"5"`
	RewardNurtured        int64 `envconfig:"REWARD_NURTURED" default:"1"`
	RewardCommentReceived int64 `envconfig:"REWARD_COMMENT_RECEIVED" default:"2"`
	RewardJoined          int64 `envconfig:"REWARD_JOINED" default:"3"`   // Заявка строителя на идею, раз на идею
	RewardWelcome         int64 `envconfig:"REWARD_WELCOME" default:"10"` // Первый вход кошельком

	// --- Ledger / comments ---
	LedgerHistoryLimit int `envconfig:"LEDGER_HISTORY_LIMIT" default:"50"`
	CommentMaxLength   int `envconfig:"COMMENT_MAX_LENGTH" default:"2000"`

	// --- Rate Limiting ---
	RateLimitRequests   int           `envconfig:"RATE_LIMIT_REQUESTS" default:"30"`
	RateLimitIPRequests int           `envconfig:"RATE_LIMIT_IP_REQUESTS" default:"120"` // На IP, по всем кошелькам
	RateLimitWindow     time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// --- Admin ---
	// Пустой хеш отключает админку.
	AdminPasswordHash string `envconfig:"ADMIN_PASSWORD_HASH"`
	AdminMaxAttempts  int    `envconfig:"ADMIN_MAX_ATTEMPTS" default:"3"`

	// --- Alerts ---
	TelegramBotToken    string `envconfig:"TELEGRAM_BOT_TOKEN"`
	TelegramAlertChatID int64  `envconfig:"TELEGRAM_ALERT_CHAT_ID"`

	// --- Jobs ---
	ReconcileSchedule string        `envconfig:"RECONCILE_SCHEDULE" default:"*/15 * * * *"`
	ReconcileGrace    time.Duration `envconfig:"RECONCILE_GRACE" default:"5m"`

	// --- Ideas ---
	IdeasPlaceholders bool `envconfig:"IDEAS_PLACEHOLDERS" default:"false"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// AlertsEnabled — заданы ли токен и чат для Telegram-алертов.
func (c *Config) AlertsEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramAlertChatID != 0
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres:
		if c.DBPassword == "" {
			return errors.New("DB_PASSWORD обязателен для DB_DRIVER=postgres")
		}
		if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
			return errors.New("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
		}
	case DriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return errors.New("SQLITE_PATH не задан")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("неизвестный DB_DRIVER %q", c.DBDriver)
	}
	if len(c.GateCostSchedule) == 0 {
		return errors.New("GATE_COST_SCHEDULE пустой")
	}
	if c.LedgerHistoryLimit <= 0 {
		return errors.New("LEDGER_HISTORY_LIMIT должен быть > 0")
	}
	if c.CommentMaxLength <= 0 {
		return errors.New("COMMENT_MAX_LENGTH должен быть > 0")
	}
	if c.RateLimitRequests <= 0 || c.RateLimitWindow <= 0 {
		return errors.New("RATE_LIMIT_REQUESTS/RATE_LIMIT_WINDOW должны быть > 0")
	}
	if c.RateLimitIPRequests < c.RateLimitRequests {
		return errors.New("RATE_LIMIT_IP_REQUESTS не может быть меньше RATE_LIMIT_REQUESTS")
	}
	if c.RewardPlanted < 0 || c.RewardNurtured < 0 || c.RewardCommentReceived < 0 ||
		c.RewardJoined < 0 || c.RewardWelcome < 0 {
		return errors.New("награды REWARD_* не могут быть отрицательными")
	}
	if c.AdminMaxAttempts <= 0 {
		return errors.New("ADMIN_MAX_ATTEMPTS должен быть > 0")
	}
	return nil
}

// Load читает переменные окружения и заполняет структуру Config.
// Если рядом лежит .env — сначала подгружает его (уже заданные переменные не перетираются).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("не удалось прочитать .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}

	schedule, err := ParseInt64CSV(cfg.GateCostScheduleRaw)
	if err != nil {
		return nil, fmt.Errorf("GATE_COST_SCHEDULE parse: %w", err)
	}
	cfg.GateCostSchedule = schedule

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseInt64CSV разбирает строку вида "5,4,3".
func ParseInt64CSV(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad int64 %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

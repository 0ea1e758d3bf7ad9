// Package admin — ручные начисления и списания очков администратором.
// Доступ по паролю (Argon2id-хеш в ADMIN_PASSWORD_HASH) с защитой от перебора.
package admin

import "github.com/BloomIdeas/BloomIdeas/internal/features/ledger"

// GrantRequest — ручное событие журнала.
type GrantRequest struct {
	Identity string          `json:"identity"`
	Category ledger.Category `json:"category"` // Обычно built или refund; spend — штраф
	Amount   int64           `json:"amount"`
	Subject  string          `json:"subject,omitempty"`
}

// Параметры Argon2id для новых хешей
const (
	argonMemory      uint32 = 64 * 1024 // 64 MB
	argonIterations  uint32 = 3
	argonParallelism uint8  = 2
	argonKeyLength   uint32 = 32
	argonSaltLength         = 16
)

// Package wallets ведёт учёт входов кошельком: первый вход, число подписей,
// последний визит. Криптографию подписи проверяет кошелёк на стороне клиента.
package wallets

import "time"

// Wallet — запись о кошельке.
type Wallet struct {
	Identity       string    `json:"identity"`        // Нормализованный адрес
	SignatureCount int64     `json:"signature_count"` // Сколько раз подписывал вход
	FirstSeenAt    time.Time `json:"first_seen_at"`
	LastSeenAt     time.Time `json:"last_seen_at"`
}

// SignInResult — итог входа.
type SignInResult struct {
	Wallet    Wallet `json:"wallet"`
	FirstTime bool   `json:"first_time"`
	Rewarded  int64  `json:"rewarded,omitempty"`
}

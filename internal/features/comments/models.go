// Package comments — платные комментарии к идеям.
// Каждый комментарий проходит через гейт и хранит ссылку на своё списание,
// чтобы сверка могла найти комментарии без оплаты.
package comments

import (
	"time"

	"github.com/BloomIdeas/BloomIdeas/internal/features/gate"
)

// Comment — комментарий к идее.
type Comment struct {
	ID           string    `json:"id"`
	Identity     string    `json:"identity"`
	Subject      string    `json:"subject"` // ID идеи
	Body         string    `json:"body"`
	Cost         int64     `json:"cost"`           // Сколько очков списано
	DebitEventID string    `json:"debit_event_id"` // ID события списания в журнале
	CreatedAt    time.Time `json:"created_at"`
}

// PostResult — итог Post. Comment пустой, если гейт отказал.
type PostResult struct {
	Comment  Comment       `json:"comment"`
	Decision gate.Decision `json:"decision"`
	Rewarded int64         `json:"author_rewarded,omitempty"` // Сколько получил автор идеи
}

// ReconcileReport — итог одной сверки.
type ReconcileReport struct {
	Checked  int
	Repaired int
	Rewarded int // Дописанные награды авторам
	Failed   int
}

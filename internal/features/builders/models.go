// Package builders — заявки строителей («I Want to Build This»).
// У пары (идентичность, идея) не больше одной заявки: повторный вызов
// снимает её. Первая заявка на идею приносит очки "joined" один раз.
package builders

import "time"

// Status — состояние заявки.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved" // Одобрена администратором
)

// Valid сообщает, известно ли состояние.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved
}

// Interest — заявка идентичности построить идею.
type Interest struct {
	Identity  string    `json:"identity"`
	Subject   string    `json:"subject"` // ID идеи
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Result — итог Toggle.
type Result struct {
	Interested bool      `json:"interested"`
	Interest   *Interest `json:"interest,omitempty"` // nil, если заявка снята
	Count      int       `json:"count"`              // Строителей у идеи после переключения
	Rewarded   int64     `json:"rewarded,omitempty"`
}

// Filter — выборка заявок для админки. Пустые поля не фильтруют.
type Filter struct {
	Subject string
	Status  Status
	Limit   int // 0 — без ограничения
}

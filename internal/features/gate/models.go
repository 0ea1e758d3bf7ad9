package gate

import (
	"github.com/BloomIdeas/BloomIdeas/internal/common"
	"github.com/BloomIdeas/BloomIdeas/internal/features/ledger"
)

// Decision — результат проверки гейта. Отказ — это не ошибка,
// а Allowed == false с ценой и балансом для сообщения пользователю.
type Decision struct {
	Allowed        bool  `json:"allowed"`
	RequiredCost   int64 `json:"required_cost"`
	CurrentBalance int64 `json:"current_balance"`
	PriorCount     int   `json:"prior_count"`
}

// Decide — чистая проверка: allowed == balance >= costForNth(priorCount).
func Decide(s Schedule, balance int64, priorCount int) Decision {
	cost := s.CostForNth(priorCount)
	return Decision{
		Allowed:        balance >= cost,
		RequiredCost:   cost,
		CurrentBalance: balance,
		PriorCount:     priorCount,
	}
}

// Message — текст для пользователя.
//
// Примеры:
//
//	"5 points spent"
//	"Not enough points — need 5, have 3"
func (d Decision) Message() string {
	if !d.Allowed {
		return common.NotEnoughPointsMessage(d.RequiredCost, d.CurrentBalance)
	}
	return common.SpentMessage(d.RequiredCost)
}

// Outcome — итог Perform.
type Outcome struct {
	Decision Decision
	Debit    ledger.Event // Пустое, если действие не разрешено
}

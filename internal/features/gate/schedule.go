// Package gate решает, можно ли выполнить платное действие (комментарий),
// и сколько оно стоит.
// schedule.go содержит таблицу стоимости.
package gate

import (
	"fmt"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
	"github.com/BloomIdeas/BloomIdeas/internal/config"
)

// Schedule — ступенчатая таблица стоимости.
//
// Стоимость по умолчанию:
//
//	1-е действие: 5 очков
//	2-е действие: 4 очка
//	3-е и дальше: 3 очка (пол навсегда)
type Schedule struct {
	costs []int64
}

// DefaultCosts — таблица стоимости по умолчанию.
var DefaultCosts = []int64{5, 4, 3}

// NewSchedule проверяет таблицу: не пустая, все цены > 0, не растут.
func NewSchedule(costs []int64) (Schedule, error) {
	if len(costs) == 0 {
		return Schedule{}, fmt.Errorf("%w: empty", common.ErrInvalidSchedule)
	}
	for i, c := range costs {
		if c <= 0 {
			return Schedule{}, fmt.Errorf("%w: cost %d is not positive", common.ErrInvalidSchedule, c)
		}
		if i > 0 && c > costs[i-1] {
			return Schedule{}, fmt.Errorf("%w: cost increases at step %d", common.ErrInvalidSchedule, i+1)
		}
	}
	return Schedule{costs: append([]int64(nil), costs...)}, nil
}

// ParseSchedule разбирает строку вида "5,4,3".
func ParseSchedule(s string) (Schedule, error) {
	costs, err := config.ParseInt64CSV(s)
	if err != nil {
		return Schedule{}, fmt.Errorf("%w: %v", common.ErrInvalidSchedule, err)
	}
	return NewSchedule(costs)
}

// DefaultSchedule — таблица DefaultCosts.
func DefaultSchedule() Schedule {
	s, _ := NewSchedule(DefaultCosts)
	return s
}

// CostForNth — цена следующего действия, если до него было priorCount действий.
// Дальше конца таблицы цена равна последнему элементу.
func (s Schedule) CostForNth(priorCount int) int64 {
	if len(s.costs) == 0 {
		return DefaultCosts[len(DefaultCosts)-1]
	}
	if priorCount < 0 {
		priorCount = 0
	}
	if priorCount >= len(s.costs) {
		return s.costs[len(s.costs)-1]
	}
	return s.costs[priorCount]
}

// Floor — минимальная цена.
func (s Schedule) Floor() int64 {
	return s.CostForNth(len(s.costs))
}

// Costs — копия таблицы.
func (s Schedule) Costs() []int64 {
	return append([]int64(nil), s.costs...)
}

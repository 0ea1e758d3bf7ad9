// Package reputation — service.go собирает отчёт о репутации из журнала очков.
package reputation

import (
	"context"

	"github.com/BloomIdeas/BloomIdeas/internal/features/ledger"
)

// Summarizer — то, что сервису нужно от журнала.
type Summarizer interface {
	Summary(ctx context.Context, identity string) (ledger.Summary, error)
}

// Service считает репутацию идентичности.
type Service struct {
	ledger Summarizer
	table  *Table
}

// NewService создаёт сервис репутации.
func NewService(l Summarizer, table *Table) *Service {
	return &Service{ledger: l, table: table}
}

// Table — таблица уровней сервиса.
func (s *Service) Table() *Table { return s.table }

// Report возвращает уровень, прогресс, разбивку по категориям и достижения.
func (s *Service) Report(ctx context.Context, identity string) (Report, error) {
	sum, err := s.ledger.Summary(ctx, identity)
	if err != nil {
		return Report{}, err
	}
	totals := make(map[string]int64, len(sum.Totals))
	for c, v := range sum.Totals {
		totals[string(c)] = v
	}
	return Report{
		Identity:     identity,
		Snapshot:     s.table.Snapshot(sum.Balance),
		Totals:       totals,
		Achievements: s.table.Achievements(sum.Totals, sum.Balance),
	}, nil
}

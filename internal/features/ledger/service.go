// Package ledger — service.go содержит бизнес-логику журнала очков:
// запись событий, баланс, разбивку по категориям и историю.
package ledger

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
)

// DefaultHistoryLimit — сколько событий отдаёт история без явного лимита.
const DefaultHistoryLimit = 50

// historyPageSize — размер страницы при ленивом чтении истории.
const historyPageSize = 20

// Service управляет журналом очков.
type Service struct {
	repo         Repository
	historyLimit int
	now          func() time.Time
}

// NewService создаёт сервис журнала. historyLimit <= 0 означает DefaultHistoryLimit.
func NewService(repo Repository, historyLimit int) *Service {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &Service{repo: repo, historyLimit: historyLimit, now: time.Now}
}

// HistoryLimit — лимит истории по умолчанию.
func (s *Service) HistoryLimit() int { return s.historyLimit }

// NewEvent собирает и проверяет событие, но не записывает его.
// Удобно, когда ID события нужен до записи (например, для ссылки из комментария).
//
// Правила:
//   - amount == 0 → ErrInvalidAmount
//   - категория spend только с amount < 0, остальные только с amount > 0
func (s *Service) NewEvent(identity string, category Category, amount int64, subject string) (Event, error) {
	ev := Event{
		ID:        uuid.NewString(),
		Identity:  identity,
		Category:  category,
		Amount:    amount,
		Subject:   subject,
		CreatedAt: s.now().UTC(),
	}
	if err := Validate(ev); err != nil {
		return Event{}, err
	}
	return ev, nil
}

// Validate проверяет событие перед записью.
func Validate(ev Event) error {
	if ev.Identity == "" {
		return common.ErrInvalidIdentity
	}
	if !ev.Category.Valid() {
		return fmt.Errorf("%w: %q", common.ErrInvalidCategory, ev.Category)
	}
	if ev.Amount == 0 {
		return common.ErrInvalidAmount
	}
	if ev.Category.IsSpend() != (ev.Amount < 0) {
		return fmt.Errorf("%w: %s with amount %d", common.ErrInvalidAmount, ev.Category, ev.Amount)
	}
	return nil
}

// Record добавляет событие в журнал.
//
// Пример:
//
//	ev, err := ledgerSvc.Record(ctx, "0xabc...", ledger.CategoryPlanted, 5, ideaID)
func (s *Service) Record(ctx context.Context, identity string, category Category, amount int64, subject string) (Event, error) {
	ev, err := s.NewEvent(identity, category, amount, subject)
	if err != nil {
		return Event{}, err
	}
	return s.Append(ctx, ev)
}

// Append записывает заранее собранное событие. Повтор с тем же ID безопасен.
func (s *Service) Append(ctx context.Context, ev Event) (Event, error) {
	if err := Validate(ev); err != nil {
		return Event{}, err
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = s.now().UTC()
	}

	saved, err := s.repo.AppendEvent(ctx, ev)
	if err != nil {
		return Event{}, err
	}

	log.WithFields(log.Fields{
		"identity": common.ShortIdentity(saved.Identity),
		"category": saved.Category,
		"amount":   saved.Amount,
		"subject":  saved.Subject,
	}).Debug("Событие журнала записано")
	return saved, nil
}

// Balance возвращает сумму всех событий идентичности. Нет событий — 0.
func (s *Service) Balance(ctx context.Context, identity string) (int64, error) {
	totals, err := s.repo.CategoryTotals(ctx, identity)
	if err != nil {
		return 0, err
	}
	var balance int64
	for _, t := range totals {
		balance += t.Sum
	}
	return balance, nil
}

// TotalsByCategory возвращает сумму по каждой категории.
// Категорий без событий в ответе нет.
func (s *Service) TotalsByCategory(ctx context.Context, identity string) (map[Category]int64, error) {
	totals, err := s.repo.CategoryTotals(ctx, identity)
	if err != nil {
		return nil, err
	}
	out := make(map[Category]int64, len(totals))
	for _, t := range totals {
		out[t.Category] = t.Sum
	}
	return out, nil
}

// Summary — баланс и разбивка по категориям одним вызовом хранилища.
func (s *Service) Summary(ctx context.Context, identity string) (Summary, error) {
	totals, err := s.TotalsByCategory(ctx, identity)
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{Identity: identity, Totals: totals}
	for _, v := range totals {
		sum.Balance += v
	}
	return sum, nil
}

// History отдаёт события идентичности, новые первыми, не больше limit штук.
// limit <= 0 означает лимит сервиса по умолчанию.
//
// Последовательность ленивая: хранилище читается страницами по мере обхода,
// и её можно обойти повторно. Ошибка хранилища отдаётся вторым значением
// и завершает обход.
//
// Пример:
//
//	for ev, err := range ledgerSvc.History(ctx, id, 0) {
//	    if err != nil { return err }
//	    ...
//	}
func (s *Service) History(ctx context.Context, identity string, limit int) iter.Seq2[Event, error] {
	if limit <= 0 {
		limit = s.historyLimit
	}
	return func(yield func(Event, error) bool) {
		var before int64
		left := limit
		for left > 0 {
			page := min(left, historyPageSize)
			events, err := s.repo.ListEvents(ctx, Filter{Identity: identity, BeforeSeq: before, Limit: page})
			if err != nil {
				yield(Event{}, err)
				return
			}
			for _, ev := range events {
				if !yield(ev, nil) {
					return
				}
			}
			if len(events) < page {
				return
			}
			left -= len(events)
			before = events[len(events)-1].Seq
		}
	}
}

// CollectHistory читает History в срез.
func (s *Service) CollectHistory(ctx context.Context, identity string, limit int) ([]Event, error) {
	var out []Event
	for ev, err := range s.History(ctx, identity, limit) {
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}

// HasEvent проверяет, было ли уже событие категории по предмету.
// Используется для разовых наград.
func (s *Service) HasEvent(ctx context.Context, identity string, category Category, subject string) (bool, error) {
	events, err := s.repo.ListEvents(ctx, Filter{Identity: identity, Category: category, Subject: subject, Limit: 1})
	if err != nil {
		return false, err
	}
	return len(events) > 0, nil
}

// Package gate — service.go связывает таблицу стоимости с журналом очков
// и выполняет платное действие вместе со списанием.
package gate

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
	"github.com/BloomIdeas/BloomIdeas/internal/features/ledger"
	"github.com/BloomIdeas/BloomIdeas/internal/notify"
	"github.com/BloomIdeas/BloomIdeas/internal/store"
)

// Ledger — то, что гейту нужно от журнала.
type Ledger interface {
	Balance(ctx context.Context, identity string) (int64, error)
	NewEvent(identity string, category ledger.Category, amount int64, subject string) (ledger.Event, error)
	Append(ctx context.Context, ev ledger.Event) (ledger.Event, error)
}

// Counter считает, сколько платных действий идентичность уже выполнила.
// Счёт глобальный: по всем предметам сразу.
type Counter interface {
	CountByIdentity(ctx context.Context, identity string) (int, error)
}

// Action — основное действие под гейтом. Получает событие списания
// (уже с ID), чтобы сослаться на него.
type Action func(ctx context.Context, debit ledger.Event) error

// Service — гейт платных действий.
type Service struct {
	ledger   Ledger
	counter  Counter
	schedule Schedule
	uow      store.UnitOfWork // nil — хранилище без транзакций, режим best-effort
	notifier notify.Notifier
}

// NewService создаёт гейт. uow == nil включает режим best-effort:
// сначала действие, потом списание, сбой списания — ErrInconsistentDebit.
func NewService(l Ledger, counter Counter, schedule Schedule, uow store.UnitOfWork, notifier notify.Notifier) *Service {
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	return &Service{ledger: l, counter: counter, schedule: schedule, uow: uow, notifier: notifier}
}

// Schedule — таблица стоимости гейта.
func (s *Service) Schedule() Schedule { return s.schedule }

// Atomic сообщает, выполняется ли списание в одной транзакции с действием.
func (s *Service) Atomic() bool { return s.uow != nil }

// Authorize сравнивает баланс с ценой действия номер priorCount+1.
// Ничего не меняет. Ошибка возможна только от хранилища.
func (s *Service) Authorize(ctx context.Context, identity string, priorCount int) (Decision, error) {
	balance, err := s.ledger.Balance(ctx, identity)
	if err != nil {
		return Decision{}, err
	}
	return Decide(s.schedule, balance, priorCount), nil
}

// Quote — то же, что Authorize, но число прошлых действий берётся из хранилища.
func (s *Service) Quote(ctx context.Context, identity string) (Decision, error) {
	prior, err := s.counter.CountByIdentity(ctx, identity)
	if err != nil {
		return Decision{}, err
	}
	return s.Authorize(ctx, identity, prior)
}

// Perform проверяет гейт, выполняет action, списывает цену и затем
// выполняет шаги then (например, награду автору).
//
// Атомарный режим: блокировка идентичности, проверка, действие, списание
// и шаги then идут в одной транзакции. Любая ошибка откатывает всё.
//
// Режим best-effort: проверка, действие, списание, шаги then. Ошибка самого
// action возвращается как есть: ничего не записано. Любой сбой после
// успешного action (списание или шаг then) возвращается с ErrInconsistentDebit
// и уходит алерт. Повторять такой вызов нельзя.
//
// Отказ гейта — не ошибка: Outcome.Decision.Allowed == false, action не вызывается.
func (s *Service) Perform(ctx context.Context, identity, subject string, action Action, then ...Action) (Outcome, error) {
	if s.uow == nil {
		return s.performBestEffort(ctx, identity, subject, action, then)
	}

	var out Outcome
	err := s.uow.WithTx(ctx, func(ctx context.Context) error {
		if err := s.uow.Lock(ctx, identity); err != nil {
			return err
		}
		d, err := s.Quote(ctx, identity)
		if err != nil {
			return err
		}
		out = Outcome{Decision: d}
		if !d.Allowed {
			return nil
		}

		debit, err := s.ledger.NewEvent(identity, ledger.CategorySpend, -d.RequiredCost, subject)
		if err != nil {
			return err
		}
		if err := action(ctx, debit); err != nil {
			return err
		}
		saved, err := s.ledger.Append(ctx, debit)
		if err != nil {
			return err
		}
		out.Debit = saved
		for _, step := range then {
			if err := step(ctx, saved); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	s.logDecision(identity, subject, out.Decision)
	return out, nil
}

func (s *Service) performBestEffort(ctx context.Context, identity, subject string, action Action, then []Action) (Outcome, error) {
	d, err := s.Quote(ctx, identity)
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{Decision: d}
	if !d.Allowed {
		s.logDecision(identity, subject, d)
		return out, nil
	}

	debit, err := s.ledger.NewEvent(identity, ledger.CategorySpend, -d.RequiredCost, subject)
	if err != nil {
		return Outcome{}, err
	}
	if err := action(ctx, debit); err != nil {
		return Outcome{}, err
	}

	// Действие уже записано: дальше ничего не откатить.
	// Шаги then выполняются даже без списания, сверка его допишет.
	var failed []error
	out.Debit = debit
	if saved, err := s.ledger.Append(ctx, debit); err != nil {
		failed = append(failed, err)
	} else {
		out.Debit = saved
	}
	for _, step := range then {
		if err := step(ctx, out.Debit); err != nil {
			failed = append(failed, err)
		}
	}
	if len(failed) > 0 {
		cause := errors.Join(failed...)
		s.alertInconsistent(ctx, debit, cause)
		return out, fmt.Errorf("%w: %w", common.ErrInconsistentDebit, cause)
	}
	s.logDecision(identity, subject, d)
	return out, nil
}

// alertInconsistent пишет в лог и шлёт алерт. Ошибка доставки алерта
// только логируется.
func (s *Service) alertInconsistent(ctx context.Context, debit ledger.Event, cause error) {
	fields := map[string]any{
		"identity": debit.Identity,
		"subject":  debit.Subject,
		"debit_id": debit.ID,
		"amount":   debit.Amount,
	}
	log.WithFields(log.Fields(fields)).WithError(cause).Error("Действие выполнено, списание не записано")

	n := notify.Notice{
		Level:  notify.LevelAlert,
		Title:  "Inconsistent debit",
		Text:   fmt.Sprintf("Gated action committed without its debit: %v", cause),
		Fields: fields,
	}
	if err := s.notifier.Notify(context.WithoutCancel(ctx), n); err != nil {
		log.WithError(err).Warn("Не удалось отправить алерт о списании")
	}
}

func (s *Service) logDecision(identity, subject string, d Decision) {
	log.WithFields(log.Fields{
		"identity": common.ShortIdentity(identity),
		"subject":  subject,
		"allowed":  d.Allowed,
		"cost":     d.RequiredCost,
		"balance":  d.CurrentBalance,
		"prior":    d.PriorCount,
	}).Debug("Гейт: решение")
}

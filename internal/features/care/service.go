// Package care — service.go содержит логику переключения реакций
// и разовую награду за первую поддержку идеи.
package care

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
	"github.com/BloomIdeas/BloomIdeas/internal/features/ledger"
	"github.com/BloomIdeas/BloomIdeas/internal/store"
)

// Rewarder — то, что сервису нужно от журнала очков.
type Rewarder interface {
	HasEvent(ctx context.Context, identity string, category ledger.Category, subject string) (bool, error)
	Record(ctx context.Context, identity string, category ledger.Category, amount int64, subject string) (ledger.Event, error)
}

// Service управляет реакциями.
type Service struct {
	repo     Repository
	rewarder Rewarder
	uow      store.UnitOfWork
	reward   int64 // Очки за первую поддержку предмета; 0 — без награды
	now      func() time.Time
}

// NewService создаёт сервис реакций. rewarder может быть nil.
func NewService(repo Repository, rewarder Rewarder, uow store.UnitOfWork, reward int64) *Service {
	return &Service{repo: repo, rewarder: rewarder, uow: uow, reward: reward, now: time.Now}
}

// Apply переключает реакцию идентичности на предмет.
//
//   - реакции нет           → создаём, "created"
//   - та же реакция         → снимаем, "removed"
//   - другая реакция        → меняем, "changed"
//
// Первая в истории поддержка (nurture) предмета приносит награду один раз:
// снятие и повторная поддержка новых очков не дают.
func (s *Service) Apply(ctx context.Context, identity, subject string, kind Kind) (Result, error) {
	if !kind.Valid() {
		return Result{}, fmt.Errorf("%w: %q", common.ErrInvalidKind, kind)
	}
	if identity == "" {
		return Result{}, common.ErrInvalidIdentity
	}

	var res Result
	err := store.Run(ctx, s.uow, identity, func(ctx context.Context) error {
		var err error
		res, err = s.toggle(ctx, identity, subject, kind)
		if err != nil {
			return err
		}
		if res.ResultingKind == KindNurture {
			res.Rewarded, err = s.rewardOnce(ctx, identity, subject)
		}
		return err
	})
	if err != nil {
		return Result{}, err
	}

	log.WithFields(log.Fields{
		"identity": common.ShortIdentity(identity),
		"subject":  subject,
		"kind":     kind,
		"outcome":  res.Outcome,
	}).Debug("Реакция применена")
	return res, nil
}

func (s *Service) toggle(ctx context.Context, identity, subject string, kind Kind) (Result, error) {
	now := s.now().UTC()
	existing, err := s.repo.GetAction(ctx, identity, subject)
	switch {
	case errors.Is(err, common.ErrNotFound):
		a := Action{Identity: identity, Subject: subject, Kind: kind, CreatedAt: now, UpdatedAt: now}
		if err := s.repo.UpsertAction(ctx, a); err != nil {
			return Result{}, err
		}
		return Result{Outcome: OutcomeCreated, ResultingKind: kind}, nil
	case err != nil:
		return Result{}, err
	}

	if existing.Kind == kind {
		if err := s.repo.DeleteAction(ctx, identity, subject); err != nil {
			return Result{}, err
		}
		return Result{Outcome: OutcomeRemoved}, nil
	}

	existing.Kind = kind
	existing.UpdatedAt = now
	if err := s.repo.UpsertAction(ctx, existing); err != nil {
		return Result{}, err
	}
	return Result{Outcome: OutcomeChanged, ResultingKind: kind}, nil
}

func (s *Service) rewardOnce(ctx context.Context, identity, subject string) (int64, error) {
	if s.rewarder == nil || s.reward <= 0 {
		return 0, nil
	}
	done, err := s.rewarder.HasEvent(ctx, identity, ledger.CategoryNurtured, subject)
	if err != nil || done {
		return 0, err
	}
	if _, err := s.rewarder.Record(ctx, identity, ledger.CategoryNurtured, s.reward, subject); err != nil {
		return 0, err
	}
	return s.reward, nil
}

// CountsFor — число активных реакций каждого вида на предмет.
// В ответе есть все виды, нулевые тоже.
func (s *Service) CountsFor(ctx context.Context, subject string) (Counts, error) {
	got, err := s.repo.CountByKind(ctx, subject)
	if err != nil {
		return nil, err
	}
	out := make(Counts, len(Kinds))
	for _, k := range Kinds {
		out[k] = got[k]
	}
	return out, nil
}

// KindOf — текущая реакция идентичности на предмет; "" если её нет.
func (s *Service) KindOf(ctx context.Context, identity, subject string) (Kind, error) {
	a, err := s.repo.GetAction(ctx, identity, subject)
	if errors.Is(err, common.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return a.Kind, nil
}

// Package builders — service.go: переключение заявок, разовая награда
// и одобрение заявок администратором.
package builders

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

// Service управляет заявками строителей.
type Service struct {
	repo     Repository
	rewarder Rewarder
	uow      store.UnitOfWork
	reward   int64
	now      func() time.Time
}

// NewService создаёт сервис заявок. rewarder может быть nil.
func NewService(repo Repository, rewarder Rewarder, uow store.UnitOfWork, reward int64) *Service {
	return &Service{repo: repo, rewarder: rewarder, uow: uow, reward: reward, now: time.Now}
}

// Toggle подаёт заявку, если её нет, и снимает, если есть.
// Награда "joined" начисляется за идею один раз: снятие и повторная
// заявка новых очков не дают.
func (s *Service) Toggle(ctx context.Context, identity, subject string) (Result, error) {
	if identity == "" {
		return Result{}, common.ErrInvalidIdentity
	}

	var res Result
	err := store.Run(ctx, s.uow, identity, func(ctx context.Context) error {
		_, err := s.repo.GetInterest(ctx, identity, subject)
		switch {
		case err == nil:
			if err := s.repo.DeleteInterest(ctx, identity, subject); err != nil {
				return err
			}
		case errors.Is(err, common.ErrNotFound):
			now := s.now().UTC()
			in := Interest{Identity: identity, Subject: subject, Status: StatusPending, CreatedAt: now, UpdatedAt: now}
			if err := s.repo.SaveInterest(ctx, in); err != nil {
				return err
			}
			res.Interested = true
			res.Interest = &in
			if res.Rewarded, err = s.rewardOnce(ctx, identity, subject); err != nil {
				return err
			}
		default:
			return err
		}

		res.Count, err = s.repo.CountInterest(ctx, subject)
		return err
	})
	if err != nil {
		return Result{}, err
	}

	log.WithFields(log.Fields{
		"identity":   common.ShortIdentity(identity),
		"subject":    subject,
		"interested": res.Interested,
		"count":      res.Count,
	}).Debug("Заявка строителя переключена")
	return res, nil
}

func (s *Service) rewardOnce(ctx context.Context, identity, subject string) (int64, error) {
	if s.rewarder == nil || s.reward <= 0 {
		return 0, nil
	}
	done, err := s.rewarder.HasEvent(ctx, identity, ledger.CategoryJoined, subject)
	if err != nil || done {
		return 0, err
	}
	if _, err := s.rewarder.Record(ctx, identity, ledger.CategoryJoined, s.reward, subject); err != nil {
		return 0, err
	}
	return s.reward, nil
}

// Count — число заявок на идею.
func (s *Service) Count(ctx context.Context, subject string) (int, error) {
	return s.repo.CountInterest(ctx, subject)
}

// Interested сообщает, подана ли заявка идентичности на идею.
func (s *Service) Interested(ctx context.Context, identity, subject string) (bool, error) {
	_, err := s.repo.GetInterest(ctx, identity, subject)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, common.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Requests — заявки для админки, новые первыми.
func (s *Service) Requests(ctx context.Context, f Filter) ([]Interest, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", common.ErrInvalidStatus, f.Status)
	}
	return s.repo.ListInterest(ctx, f)
}

// Approve одобряет заявку. Уже одобренная заявка возвращается как есть.
func (s *Service) Approve(ctx context.Context, identity, subject string) (Interest, error) {
	var out Interest
	err := store.Run(ctx, s.uow, identity, func(ctx context.Context) error {
		in, err := s.repo.GetInterest(ctx, identity, subject)
		if err != nil {
			return err
		}
		if in.Status != StatusApproved {
			in.Status = StatusApproved
			in.UpdatedAt = s.now().UTC()
			if err := s.repo.SaveInterest(ctx, in); err != nil {
				return err
			}
		}
		out = in
		return nil
	})
	if err != nil {
		return Interest{}, err
	}

	log.WithFields(log.Fields{
		"identity": common.ShortIdentity(identity),
		"subject":  subject,
	}).Info("Заявка строителя одобрена")
	return out, nil
}

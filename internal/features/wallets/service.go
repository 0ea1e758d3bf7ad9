// Package wallets — service.go: вход кошельком и награда за первый вход.
package wallets

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
	"github.com/BloomIdeas/BloomIdeas/internal/features/ledger"
	"github.com/BloomIdeas/BloomIdeas/internal/store"
)

// Rewarder — запись награды в журнал очков.
type Rewarder interface {
	Record(ctx context.Context, identity string, category ledger.Category, amount int64, subject string) (ledger.Event, error)
}

// Service управляет кошельками.
type Service struct {
	repo     Repository
	rewarder Rewarder
	uow      store.UnitOfWork
	reward   int64
	now      func() time.Time
}

// NewService создаёт сервис кошельков.
func NewService(repo Repository, rewarder Rewarder, uow store.UnitOfWork, reward int64) *Service {
	return &Service{repo: repo, rewarder: rewarder, uow: uow, reward: reward, now: time.Now}
}

// SignIn отмечает подписанный вход. Первый вход приносит очки "welcome".
// Адрес нормализуется (0x-адреса в нижний регистр).
func (s *Service) SignIn(ctx context.Context, rawIdentity string) (SignInResult, error) {
	identity, err := common.NormalizeIdentity(rawIdentity)
	if err != nil {
		return SignInResult{}, err
	}

	var res SignInResult
	err = store.Run(ctx, s.uow, identity, func(ctx context.Context) error {
		w, created, err := s.repo.TouchWallet(ctx, identity, s.now().UTC())
		if err != nil {
			return err
		}
		res = SignInResult{Wallet: w, FirstTime: created}
		if !created || s.rewarder == nil || s.reward <= 0 {
			return nil
		}
		if _, err := s.rewarder.Record(ctx, identity, ledger.CategoryWelcome, s.reward, ""); err != nil {
			return err
		}
		res.Rewarded = s.reward
		return nil
	})
	if err != nil {
		return SignInResult{}, err
	}

	log.WithFields(log.Fields{
		"identity":   common.ShortIdentity(identity),
		"signatures": res.Wallet.SignatureCount,
		"first_time": res.FirstTime,
	}).Info("Вход кошельком")
	return res, nil
}

// Get возвращает запись кошелька.
func (s *Service) Get(ctx context.Context, identity string) (Wallet, error) {
	return s.repo.GetWallet(ctx, identity)
}

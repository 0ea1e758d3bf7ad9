package gormstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/BloomIdeas/BloomIdeas/internal/features/wallets"
	"github.com/BloomIdeas/BloomIdeas/internal/store"
)

// TouchWallet создаёт кошелёк или увеличивает счётчик подписей.
// Чтение и запись идут в одной транзакции.
func (s *Store) TouchWallet(ctx context.Context, identity string, at time.Time) (wallets.Wallet, bool, error) {
	var (
		row     walletRow
		created bool
	)
	err := s.WithTx(ctx, func(ctx context.Context) error {
		db := s.conn(ctx)
		err := db.Where("identity = ?", identity).Take(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row = walletRow{Identity: identity, SignatureCount: 1, FirstSeenAt: at, LastSeenAt: at}
			created = true
			return db.Create(&row).Error
		}
		if err != nil {
			return err
		}
		err = db.Model(&walletRow{}).Where("identity = ?", identity).Updates(map[string]any{
			"signature_count": gorm.Expr("signature_count + 1"),
			"last_seen_at":    at,
		}).Error
		if err != nil {
			return err
		}
		row.SignatureCount++
		row.LastSeenAt = at
		return nil
	})
	if err != nil {
		return wallets.Wallet{}, false, store.Unavailable("touch wallet", err)
	}
	return toWallet(row), created, nil
}

func (s *Store) GetWallet(ctx context.Context, identity string) (wallets.Wallet, error) {
	var row walletRow
	if err := s.conn(ctx).Where("identity = ?", identity).Take(&row).Error; err != nil {
		return wallets.Wallet{}, notFound("get wallet", err)
	}
	return toWallet(row), nil
}

func toWallet(r walletRow) wallets.Wallet {
	return wallets.Wallet{
		Identity:       r.Identity,
		SignatureCount: r.SignatureCount,
		FirstSeenAt:    r.FirstSeenAt,
		LastSeenAt:     r.LastSeenAt,
	}
}

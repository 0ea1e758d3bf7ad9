package pgstore

import (
	"context"
	"time"

	"github.com/BloomIdeas/BloomIdeas/internal/features/wallets"
	"github.com/BloomIdeas/BloomIdeas/internal/store"
)

// TouchWallet — upsert со счётчиком подписей. xmax = 0 только у только что
// вставленной строки, так отличаем первый вход.
func (s *Store) TouchWallet(ctx context.Context, identity string, at time.Time) (wallets.Wallet, bool, error) {
	var (
		w       wallets.Wallet
		created bool
	)
	err := s.conn(ctx).QueryRow(ctx, `
		INSERT INTO wallets (identity, signature_count, first_seen_at, last_seen_at)
		VALUES ($1, 1, $2, $2)
		ON CONFLICT (identity) DO UPDATE
		SET signature_count = wallets.signature_count + 1,
		    last_seen_at = EXCLUDED.last_seen_at
		RETURNING identity, signature_count, first_seen_at, last_seen_at, (xmax = 0)
	`, identity, at).Scan(&w.Identity, &w.SignatureCount, &w.FirstSeenAt, &w.LastSeenAt, &created)
	if err != nil {
		return wallets.Wallet{}, false, store.Unavailable("touch wallet", err)
	}
	return w, created, nil
}

func (s *Store) GetWallet(ctx context.Context, identity string) (wallets.Wallet, error) {
	var w wallets.Wallet
	err := s.conn(ctx).QueryRow(ctx, `
		SELECT identity, signature_count, first_seen_at, last_seen_at
		FROM wallets WHERE identity = $1
	`, identity).Scan(&w.Identity, &w.SignatureCount, &w.FirstSeenAt, &w.LastSeenAt)
	if err != nil {
		return wallets.Wallet{}, notFound("get wallet", err)
	}
	return w, nil
}

package memory

import (
	"context"
	"time"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
	"github.com/BloomIdeas/BloomIdeas/internal/features/wallets"
)

func (s *Store) TouchWallet(ctx context.Context, identity string, at time.Time) (wallets.Wallet, bool, error) {
	release, err := s.begin(ctx, "TouchWallet")
	if err != nil {
		return wallets.Wallet{}, false, err
	}
	defer release()

	prev, existed := s.wallets[identity]
	w := prev
	if existed {
		w.SignatureCount++
		w.LastSeenAt = at
	} else {
		w = wallets.Wallet{Identity: identity, SignatureCount: 1, FirstSeenAt: at, LastSeenAt: at}
	}
	s.wallets[identity] = w

	onRollback(ctx, func() {
		if existed {
			s.wallets[identity] = prev
		} else {
			delete(s.wallets, identity)
		}
	})
	return w, !existed, nil
}

func (s *Store) GetWallet(ctx context.Context, identity string) (wallets.Wallet, error) {
	release, err := s.begin(ctx, "GetWallet")
	if err != nil {
		return wallets.Wallet{}, err
	}
	defer release()

	w, ok := s.wallets[identity]
	if !ok {
		return wallets.Wallet{}, common.ErrNotFound
	}
	return w, nil
}

package wallets

import (
	"context"
	"time"
)

// Repository — хранилище кошельков.
//
// TouchWallet создаёт запись (SignatureCount = 1) или увеличивает счётчик
// и LastSeenAt. created == true, если запись создана этим вызовом.
// GetWallet возвращает common.ErrNotFound, если кошелёк не входил.
type Repository interface {
	TouchWallet(ctx context.Context, identity string, at time.Time) (w Wallet, created bool, err error)
	GetWallet(ctx context.Context, identity string) (Wallet, error)
}

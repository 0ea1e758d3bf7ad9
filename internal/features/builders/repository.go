package builders

import "context"

// Repository — хранилище заявок.
//
// GetInterest возвращает common.ErrNotFound, если заявки нет.
// SaveInterest вставляет заявку или меняет Status и UpdatedAt по ключу (identity, subject).
// ListInterest отдаёт заявки новыми первыми.
type Repository interface {
	GetInterest(ctx context.Context, identity, subject string) (Interest, error)
	SaveInterest(ctx context.Context, in Interest) error
	DeleteInterest(ctx context.Context, identity, subject string) error
	CountInterest(ctx context.Context, subject string) (int, error)
	ListInterest(ctx context.Context, f Filter) ([]Interest, error)
}

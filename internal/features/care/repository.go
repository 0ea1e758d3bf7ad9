package care

import "context"

// Repository — хранилище реакций.
//
// GetAction возвращает common.ErrNotFound, если реакции нет.
// UpsertAction вставляет или меняет Kind по ключу (identity, subject).
// CountByKind отдаёт только виды, у которых есть реакции.
type Repository interface {
	GetAction(ctx context.Context, identity, subject string) (Action, error)
	UpsertAction(ctx context.Context, a Action) error
	DeleteAction(ctx context.Context, identity, subject string) error
	CountByKind(ctx context.Context, subject string) (map[Kind]int, error)
}

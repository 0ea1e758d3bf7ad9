// Package store описывает общий контракт хранилищ: единицу работы
// (транзакцию) и блокировку по идентичности. Конкретные адаптеры лежат
// в подпакетах memory, pgstore и gormstore.
package store

import (
	"context"
	"fmt"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
)

// UnitOfWork объединяет несколько записей в одну атомарную операцию.
//
// WithTx выполняет fn в транзакции, транзакция едет внутри ctx:
// репозитории, получившие этот ctx, пишут в неё же. Ошибка из fn
// откатывает всё, что fn успела записать.
//
// Lock сериализует операции одной идентичности до конца текущей транзакции.
// Вне WithTx поведение зависит от адаптера.
type UnitOfWork interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	Lock(ctx context.Context, key string) error
}

// Unavailable оборачивает ошибку драйвера в common.ErrStoreUnavailable.
// common.ErrNotFound и ошибки отмены контекста пробрасываются как есть.
//
// Пример:
//
//	return store.Unavailable("append event", err)
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	if isPassthrough(err) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", common.ErrStoreUnavailable, op, err)
}

// Run выполняет fn в транзакции uow, предварительно заблокировав key.
// Пустой key — без блокировки. uow == nil — fn вызывается как есть.
func Run(ctx context.Context, uow UnitOfWork, key string, fn func(ctx context.Context) error) error {
	if uow == nil {
		return fn(ctx)
	}
	return uow.WithTx(ctx, func(ctx context.Context) error {
		if key != "" {
			if err := uow.Lock(ctx, key); err != nil {
				return err
			}
		}
		return fn(ctx)
	})
}

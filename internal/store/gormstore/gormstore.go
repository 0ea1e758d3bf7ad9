// Package gormstore — хранилище на gorm (SQLite для локальной разработки).
// Реализует все репозитории фич и store.UnitOfWork. Схема создаётся
// через AutoMigrate.
package gormstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
	"github.com/BloomIdeas/BloomIdeas/internal/features/builders"
	"github.com/BloomIdeas/BloomIdeas/internal/features/care"
	"github.com/BloomIdeas/BloomIdeas/internal/features/comments"
	"github.com/BloomIdeas/BloomIdeas/internal/features/ideas"
	"github.com/BloomIdeas/BloomIdeas/internal/features/ledger"
	"github.com/BloomIdeas/BloomIdeas/internal/features/wallets"
	"github.com/BloomIdeas/BloomIdeas/internal/store"
)

// Store — хранилище gorm.
type Store struct {
	db *gorm.DB
}

// New создаёт хранилище.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

var (
	_ store.UnitOfWork    = (*Store)(nil)
	_ ledger.Repository   = (*Store)(nil)
	_ care.Repository     = (*Store)(nil)
	_ ideas.Repository    = (*Store)(nil)
	_ comments.Repository = (*Store)(nil)
	_ wallets.Repository  = (*Store)(nil)
	_ builders.Repository = (*Store)(nil)
)

// Migrate создаёт или обновляет таблицы.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(allModels...); err != nil {
		return store.Unavailable("auto migrate", err)
	}
	return nil
}

type txKey struct{}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return s.db.WithContext(ctx)
}

// WithTx выполняет fn в транзакции gorm. Вложенный вызов использует внешнюю.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	var fnErr error
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(context.WithValue(ctx, txKey{}, tx))
		return fnErr
	})
	if err != nil && fnErr == nil {
		return store.Unavailable("transaction", err)
	}
	return err
}

// Lock ничего не делает: SQLite и так выполняет записи по одной.
func (s *Store) Lock(ctx context.Context, _ string) error {
	return ctx.Err()
}

func notFound(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.ErrNotFound
	}
	return store.Unavailable(op, err)
}

// Package pgstore — хранилище на PostgreSQL (pgx). Реализует все репозитории
// фич и store.UnitOfWork: транзакция едет в контексте, блокировка
// идентичности — pg_advisory_xact_lock до конца транзакции.
package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
	"github.com/BloomIdeas/BloomIdeas/internal/features/builders"
	"github.com/BloomIdeas/BloomIdeas/internal/features/care"
	"github.com/BloomIdeas/BloomIdeas/internal/features/comments"
	"github.com/BloomIdeas/BloomIdeas/internal/features/ideas"
	"github.com/BloomIdeas/BloomIdeas/internal/features/ledger"
	"github.com/BloomIdeas/BloomIdeas/internal/features/wallets"
	"github.com/BloomIdeas/BloomIdeas/internal/store"
)

// DB — общее у *pgxpool.Pool и pgx.Tx (и у pgxmock в тестах).
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store — хранилище PostgreSQL.
type Store struct {
	db DB
}

// New создаёт хранилище поверх пула.
func New(db DB) *Store {
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

type txKey struct{}

// conn — транзакция из контекста или пул.
func (s *Store) conn(ctx context.Context) DB {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return s.db
}

// WithTx выполняет fn в транзакции. Вложенный вызов использует внешнюю.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return store.Unavailable("begin", err)
	}
	done := false
	defer func() {
		if done {
			return
		}
		// Паника или ошибка fn — откатываем
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log.WithError(rbErr).Warn("Ошибка отката транзакции")
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	done = true
	if err := tx.Commit(ctx); err != nil {
		return store.Unavailable("commit", err)
	}
	return nil
}

// Lock берёт транзакционную advisory-блокировку по ключу.
// Вне транзакции блокировка отпускается сразу же.
func (s *Store) Lock(ctx context.Context, key string) error {
	if _, err := s.conn(ctx).Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return store.Unavailable("advisory lock", err)
	}
	return nil
}

// notFound превращает pgx.ErrNoRows в common.ErrNotFound.
func notFound(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return common.ErrNotFound
	}
	return store.Unavailable(op, err)
}

// placeholder добавляет аргумент и возвращает его номер ($N).
func placeholder(args *[]any, v any) string {
	*args = append(*args, v)
	return fmt.Sprintf("$%d", len(*args))
}

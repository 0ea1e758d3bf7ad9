// Package memory — хранилище в памяти процесса. Реализует все репозитории
// фич и store.UnitOfWork. Подходит для демо и тестов; данные теряются
// при перезапуске.
//
// Транзакция держит общий мьютекс хранилища и копит журнал отмены:
// ошибка внутри WithTx откатывает все записи транзакции.
package memory

import (
	"context"
	"sync"

	"github.com/BloomIdeas/BloomIdeas/internal/features/builders"
	"github.com/BloomIdeas/BloomIdeas/internal/features/care"
	"github.com/BloomIdeas/BloomIdeas/internal/features/comments"
	"github.com/BloomIdeas/BloomIdeas/internal/features/ideas"
	"github.com/BloomIdeas/BloomIdeas/internal/features/ledger"
	"github.com/BloomIdeas/BloomIdeas/internal/features/wallets"
	"github.com/BloomIdeas/BloomIdeas/internal/store"
)

// pairKey — ключ (идентичность, предмет) для реакций и заявок.
type pairKey struct{ identity, subject string }

// Store — хранилище в памяти.
type Store struct {
	mu sync.Mutex

	seq      int64
	events   []ledger.Event
	eventIdx map[string]int // ID события → индекс в events

	care     map[pairKey]care.Action
	builders map[pairKey]builders.Interest
	ideas    map[string]ideas.Idea
	ideaIDs  []string // В порядке создания
	comments []comments.Comment
	wallets  map[string]wallets.Wallet

	faults map[string]error
}

// New создаёт пустое хранилище.
func New() *Store {
	return &Store{
		eventIdx: make(map[string]int),
		care:     make(map[pairKey]care.Action),
		builders: make(map[pairKey]builders.Interest),
		ideas:    make(map[string]ideas.Idea),
		wallets:  make(map[string]wallets.Wallet),
		faults:   make(map[string]error),
	}
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

type tx struct {
	undo []func()
}

func txFrom(ctx context.Context) *tx {
	t, _ := ctx.Value(txKey{}).(*tx)
	return t
}

// WithTx выполняет fn под мьютексом хранилища. Вложенный вызов
// присоединяется к внешней транзакции.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFrom(ctx) != nil {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := &tx{}
	if err := fn(context.WithValue(ctx, txKey{}, t)); err != nil {
		for i := len(t.undo) - 1; i >= 0; i-- {
			t.undo[i]()
		}
		return err
	}
	return nil
}

// Lock ничего не делает: транзакция и так держит мьютекс всего хранилища.
func (s *Store) Lock(ctx context.Context, _ string) error {
	return ctx.Err()
}

// InjectFault заставляет следующий вызов операции op (имя метода,
// например "AppendEvent") вернуть err, обёрнутую как недоступность хранилища.
func (s *Store) InjectFault(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = err
}

// begin берёт мьютекс, если вызов не внутри транзакции, и проверяет
// внедрённые сбои. Возвращает функцию освобождения.
func (s *Store) begin(ctx context.Context, op string) (func(), error) {
	release := func() {}
	if txFrom(ctx) == nil {
		s.mu.Lock()
		release = s.mu.Unlock
	}
	if err := ctx.Err(); err != nil {
		release()
		return nil, store.Unavailable(op, err)
	}
	if err, ok := s.faults[op]; ok {
		delete(s.faults, op)
		release()
		return nil, store.Unavailable(op, err)
	}
	return release, nil
}

// onRollback регистрирует отмену записи, если вызов внутри транзакции.
func onRollback(ctx context.Context, fn func()) {
	if t := txFrom(ctx); t != nil {
		t.undo = append(t.undo, fn)
	}
}

// Package ledger — repository.go описывает, что журнал требует от хранилища.
// Реализации: store/memory, store/pgstore, store/gormstore.
package ledger

import "context"

// Repository — хранилище событий журнала.
//
// AppendEvent вставляет событие и возвращает его с заполненным Seq.
// Вставка события с уже существующим ID ничего не меняет и возвращает
// сохранённую версию.
//
// ListEvents отдаёт события по фильтру, новые первыми (Seq по убыванию).
//
// CategoryTotals отдаёт только категории, по которым есть события.
type Repository interface {
	AppendEvent(ctx context.Context, ev Event) (Event, error)
	ListEvents(ctx context.Context, f Filter) ([]Event, error)
	CategoryTotals(ctx context.Context, identity string) ([]CategoryTotal, error)
}

package gormstore

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/BloomIdeas/BloomIdeas/internal/features/ledger"
	"github.com/BloomIdeas/BloomIdeas/internal/store"
)

func (s *Store) AppendEvent(ctx context.Context, ev ledger.Event) (ledger.Event, error) {
	row := eventRow{
		EventID:   ev.ID,
		Identity:  ev.Identity,
		Category:  string(ev.Category),
		Amount:    ev.Amount,
		Subject:   ev.Subject,
		CreatedAt: ev.CreatedAt,
	}
	db := s.conn(ctx)
	res := db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).Create(&row)
	if res.Error != nil {
		return ledger.Event{}, store.Unavailable("append event", res.Error)
	}
	if res.RowsAffected == 1 {
		return toEvent(row), nil
	}

	// Событие с таким ID уже есть
	var saved eventRow
	if err := db.Where("id = ?", ev.ID).Take(&saved).Error; err != nil {
		return ledger.Event{}, store.Unavailable("load event", err)
	}
	return toEvent(saved), nil
}

func (s *Store) ListEvents(ctx context.Context, f ledger.Filter) ([]ledger.Event, error) {
	q := s.conn(ctx).Model(&eventRow{})
	if f.Identity != "" {
		q = q.Where("identity = ?", f.Identity)
	}
	if f.Category != "" {
		q = q.Where("category = ?", string(f.Category))
	}
	if f.Subject != "" {
		q = q.Where("subject = ?", f.Subject)
	}
	if f.BeforeSeq > 0 {
		q = q.Where("seq < ?", f.BeforeSeq)
	}
	q = q.Order("seq DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var rows []eventRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, store.Unavailable("list events", err)
	}
	out := make([]ledger.Event, 0, len(rows))
	for _, r := range rows {
		out = append(out, toEvent(r))
	}
	return out, nil
}

func (s *Store) CategoryTotals(ctx context.Context, identity string) ([]ledger.CategoryTotal, error) {
	var rows []struct {
		Category string
		Total    int64
		Events   int64
	}
	err := s.conn(ctx).Model(&eventRow{}).
		Select("category, SUM(amount) AS total, COUNT(*) AS events").
		Where("identity = ?", identity).
		Group("category").
		Order("category").
		Scan(&rows).Error
	if err != nil {
		return nil, store.Unavailable("category totals", err)
	}

	out := make([]ledger.CategoryTotal, 0, len(rows))
	for _, r := range rows {
		out = append(out, ledger.CategoryTotal{Category: ledger.Category(r.Category), Sum: r.Total, Count: int(r.Events)})
	}
	return out, nil
}

func toEvent(r eventRow) ledger.Event {
	return ledger.Event{
		Seq:       r.Seq,
		ID:        r.EventID,
		Identity:  r.Identity,
		Category:  ledger.Category(r.Category),
		Amount:    r.Amount,
		Subject:   r.Subject,
		CreatedAt: r.CreatedAt,
	}
}

package pgstore

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/BloomIdeas/BloomIdeas/internal/features/ledger"
	"github.com/BloomIdeas/BloomIdeas/internal/store"
)

const eventColumns = `seq, id, identity, category, amount, subject, created_at`

func (s *Store) AppendEvent(ctx context.Context, ev ledger.Event) (ledger.Event, error) {
	db := s.conn(ctx)
	err := db.QueryRow(ctx, `
		INSERT INTO point_events (id, identity, category, amount, subject, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
		RETURNING seq
	`, ev.ID, ev.Identity, string(ev.Category), ev.Amount, ev.Subject, ev.CreatedAt).Scan(&ev.Seq)
	if err == nil {
		return ev, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return ledger.Event{}, store.Unavailable("append event", err)
	}

	// Событие с таким ID уже есть — отдаём сохранённое
	row := db.QueryRow(ctx, `SELECT `+eventColumns+` FROM point_events WHERE id = $1`, ev.ID)
	saved, err := scanEvent(row)
	if err != nil {
		return ledger.Event{}, store.Unavailable("load event", err)
	}
	return saved, nil
}

func (s *Store) ListEvents(ctx context.Context, f ledger.Filter) ([]ledger.Event, error) {
	var args []any
	var conds []string
	if f.Identity != "" {
		conds = append(conds, "identity = "+placeholder(&args, f.Identity))
	}
	if f.Category != "" {
		conds = append(conds, "category = "+placeholder(&args, string(f.Category)))
	}
	if f.Subject != "" {
		conds = append(conds, "subject = "+placeholder(&args, f.Subject))
	}
	if f.BeforeSeq > 0 {
		conds = append(conds, "seq < "+placeholder(&args, f.BeforeSeq))
	}

	q := `SELECT ` + eventColumns + ` FROM point_events`
	if len(conds) > 0 {
		q += ` WHERE ` + strings.Join(conds, " AND ")
	}
	q += ` ORDER BY seq DESC`
	if f.Limit > 0 {
		q += ` LIMIT ` + placeholder(&args, f.Limit)
	}

	rows, err := s.conn(ctx).Query(ctx, q, args...)
	if err != nil {
		return nil, store.Unavailable("list events", err)
	}
	defer rows.Close()

	var out []ledger.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, store.Unavailable("scan event", err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Unavailable("list events", err)
	}
	return out, nil
}

func (s *Store) CategoryTotals(ctx context.Context, identity string) ([]ledger.CategoryTotal, error) {
	rows, err := s.conn(ctx).Query(ctx, `
		SELECT category, SUM(amount)::BIGINT, COUNT(*)
		FROM point_events
		WHERE identity = $1
		GROUP BY category
		ORDER BY category
	`, identity)
	if err != nil {
		return nil, store.Unavailable("category totals", err)
	}
	defer rows.Close()

	var out []ledger.CategoryTotal
	for rows.Next() {
		var (
			category string
			sum      int64
			count    int64
		)
		if err := rows.Scan(&category, &sum, &count); err != nil {
			return nil, store.Unavailable("scan totals", err)
		}
		out = append(out, ledger.CategoryTotal{Category: ledger.Category(category), Sum: sum, Count: int(count)})
	}
	if err := rows.Err(); err != nil {
		return nil, store.Unavailable("category totals", err)
	}
	return out, nil
}

func scanEvent(row pgx.Row) (ledger.Event, error) {
	var (
		ev       ledger.Event
		category string
	)
	if err := row.Scan(&ev.Seq, &ev.ID, &ev.Identity, &category, &ev.Amount, &ev.Subject, &ev.CreatedAt); err != nil {
		return ledger.Event{}, err
	}
	ev.Category = ledger.Category(category)
	return ev, nil
}

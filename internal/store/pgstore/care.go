package pgstore

import (
	"context"

	"github.com/BloomIdeas/BloomIdeas/internal/features/care"
	"github.com/BloomIdeas/BloomIdeas/internal/store"
)

func (s *Store) GetAction(ctx context.Context, identity, subject string) (care.Action, error) {
	var (
		a    care.Action
		kind string
	)
	err := s.conn(ctx).QueryRow(ctx, `
		SELECT identity, subject, kind, created_at, updated_at
		FROM care_actions
		WHERE identity = $1 AND subject = $2
	`, identity, subject).Scan(&a.Identity, &a.Subject, &kind, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return care.Action{}, notFound("get care action", err)
	}
	a.Kind = care.Kind(kind)
	return a, nil
}

// UpsertAction — одна строка на пару (identity, subject) обеспечивается
// первичным ключом, повторная вставка меняет только вид реакции.
func (s *Store) UpsertAction(ctx context.Context, a care.Action) error {
	_, err := s.conn(ctx).Exec(ctx, `
		INSERT INTO care_actions (identity, subject, kind, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (identity, subject)
		DO UPDATE SET kind = EXCLUDED.kind, updated_at = EXCLUDED.updated_at
	`, a.Identity, a.Subject, string(a.Kind), a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return store.Unavailable("upsert care action", err)
	}
	return nil
}

func (s *Store) DeleteAction(ctx context.Context, identity, subject string) error {
	_, err := s.conn(ctx).Exec(ctx,
		`DELETE FROM care_actions WHERE identity = $1 AND subject = $2`, identity, subject)
	if err != nil {
		return store.Unavailable("delete care action", err)
	}
	return nil
}

func (s *Store) CountByKind(ctx context.Context, subject string) (map[care.Kind]int, error) {
	rows, err := s.conn(ctx).Query(ctx, `
		SELECT kind, COUNT(*) FROM care_actions WHERE subject = $1 GROUP BY kind
	`, subject)
	if err != nil {
		return nil, store.Unavailable("count care actions", err)
	}
	defer rows.Close()

	out := make(map[care.Kind]int)
	for rows.Next() {
		var (
			kind  string
			count int64
		)
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, store.Unavailable("scan care counts", err)
		}
		out[care.Kind(kind)] = int(count)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Unavailable("count care actions", err)
	}
	return out, nil
}

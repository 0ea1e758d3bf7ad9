package pgstore

import (
	"context"
	"strings"

	"github.com/BloomIdeas/BloomIdeas/internal/features/builders"
	"github.com/BloomIdeas/BloomIdeas/internal/store"
)

const interestColumns = `identity, subject, status, created_at, updated_at`

func (s *Store) GetInterest(ctx context.Context, identity, subject string) (builders.Interest, error) {
	var (
		in     builders.Interest
		status string
	)
	err := s.conn(ctx).QueryRow(ctx, `
		SELECT `+interestColumns+`
		FROM builder_interest
		WHERE identity = $1 AND subject = $2
	`, identity, subject).Scan(&in.Identity, &in.Subject, &status, &in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		return builders.Interest{}, notFound("get builder interest", err)
	}
	in.Status = builders.Status(status)
	return in, nil
}

// SaveInterest — одна заявка на пару (identity, subject), повторная вставка
// меняет только состояние.
func (s *Store) SaveInterest(ctx context.Context, in builders.Interest) error {
	_, err := s.conn(ctx).Exec(ctx, `
		INSERT INTO builder_interest (identity, subject, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (identity, subject)
		DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
	`, in.Identity, in.Subject, string(in.Status), in.CreatedAt, in.UpdatedAt)
	if err != nil {
		return store.Unavailable("save builder interest", err)
	}
	return nil
}

func (s *Store) DeleteInterest(ctx context.Context, identity, subject string) error {
	_, err := s.conn(ctx).Exec(ctx,
		`DELETE FROM builder_interest WHERE identity = $1 AND subject = $2`, identity, subject)
	if err != nil {
		return store.Unavailable("delete builder interest", err)
	}
	return nil
}

func (s *Store) CountInterest(ctx context.Context, subject string) (int, error) {
	var n int64
	err := s.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM builder_interest WHERE subject = $1`, subject).Scan(&n)
	if err != nil {
		return 0, store.Unavailable("count builder interest", err)
	}
	return int(n), nil
}

func (s *Store) ListInterest(ctx context.Context, f builders.Filter) ([]builders.Interest, error) {
	var (
		conds []string
		args  []any
	)
	if f.Subject != "" {
		conds = append(conds, "subject = "+placeholder(&args, f.Subject))
	}
	if f.Status != "" {
		conds = append(conds, "status = "+placeholder(&args, string(f.Status)))
	}

	q := `SELECT ` + interestColumns + ` FROM builder_interest`
	if len(conds) > 0 {
		q += ` WHERE ` + strings.Join(conds, " AND ")
	}
	q += ` ORDER BY created_at DESC, subject, identity`
	if f.Limit > 0 {
		q += ` LIMIT ` + placeholder(&args, f.Limit)
	}

	rows, err := s.conn(ctx).Query(ctx, q, args...)
	if err != nil {
		return nil, store.Unavailable("list builder interest", err)
	}
	defer rows.Close()

	var out []builders.Interest
	for rows.Next() {
		var (
			in     builders.Interest
			status string
		)
		if err := rows.Scan(&in.Identity, &in.Subject, &status, &in.CreatedAt, &in.UpdatedAt); err != nil {
			return nil, store.Unavailable("scan builder interest", err)
		}
		in.Status = builders.Status(status)
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Unavailable("list builder interest", err)
	}
	return out, nil
}

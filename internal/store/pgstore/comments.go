package pgstore

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/BloomIdeas/BloomIdeas/internal/features/comments"
	"github.com/BloomIdeas/BloomIdeas/internal/store"
)

func (s *Store) CreateComment(ctx context.Context, c comments.Comment) error {
	_, err := s.conn(ctx).Exec(ctx, `
		INSERT INTO comments (id, identity, subject, body, cost, debit_event_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, c.ID, c.Identity, c.Subject, c.Body, c.Cost, c.DebitEventID, c.CreatedAt)
	if err != nil {
		return store.Unavailable("create comment", err)
	}
	return nil
}

func (s *Store) ListComments(ctx context.Context, subject string) ([]comments.Comment, error) {
	rows, err := s.conn(ctx).Query(ctx, `
		SELECT id, identity, subject, body, cost, debit_event_id, created_at
		FROM comments
		WHERE subject = $1
		ORDER BY created_at, id
	`, subject)
	if err != nil {
		return nil, store.Unavailable("list comments", err)
	}
	return collectComments(rows)
}

func (s *Store) CountByIdentity(ctx context.Context, identity string) (int, error) {
	var n int64
	err := s.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE identity = $1`, identity).Scan(&n)
	if err != nil {
		return 0, store.Unavailable("count comments", err)
	}
	return int(n), nil
}

// ListUnpaid — комментарии, у которых событие списания так и не появилось в журнале.
func (s *Store) ListUnpaid(ctx context.Context, olderThan time.Time, limit int) ([]comments.Comment, error) {
	rows, err := s.conn(ctx).Query(ctx, `
		SELECT c.id, c.identity, c.subject, c.body, c.cost, c.debit_event_id, c.created_at
		FROM comments c
		LEFT JOIN point_events e ON e.id = c.debit_event_id
		WHERE e.id IS NULL AND c.created_at < $1
		ORDER BY c.created_at
		LIMIT $2
	`, olderThan, limit)
	if err != nil {
		return nil, store.Unavailable("list unpaid comments", err)
	}
	return collectComments(rows)
}

func collectComments(rows pgx.Rows) ([]comments.Comment, error) {
	defer rows.Close()

	var out []comments.Comment
	for rows.Next() {
		var c comments.Comment
		if err := rows.Scan(&c.ID, &c.Identity, &c.Subject, &c.Body, &c.Cost, &c.DebitEventID, &c.CreatedAt); err != nil {
			return nil, store.Unavailable("scan comment", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Unavailable("list comments", err)
	}
	return out, nil
}

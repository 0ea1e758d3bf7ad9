package gormstore

import (
	"context"
	"time"

	"github.com/BloomIdeas/BloomIdeas/internal/features/comments"
	"github.com/BloomIdeas/BloomIdeas/internal/store"
)

func (s *Store) CreateComment(ctx context.Context, c comments.Comment) error {
	row := commentRow{
		CommentID:    c.ID,
		Identity:     c.Identity,
		Subject:      c.Subject,
		Body:         c.Body,
		Cost:         c.Cost,
		DebitEventID: c.DebitEventID,
		CreatedAt:    c.CreatedAt,
	}
	if err := s.conn(ctx).Create(&row).Error; err != nil {
		return store.Unavailable("create comment", err)
	}
	return nil
}

func (s *Store) ListComments(ctx context.Context, subject string) ([]comments.Comment, error) {
	var rows []commentRow
	err := s.conn(ctx).Where("subject = ?", subject).Order("created_at").Order("id").Find(&rows).Error
	if err != nil {
		return nil, store.Unavailable("list comments", err)
	}
	return toComments(rows), nil
}

func (s *Store) CountByIdentity(ctx context.Context, identity string) (int, error) {
	var n int64
	if err := s.conn(ctx).Model(&commentRow{}).Where("identity = ?", identity).Count(&n).Error; err != nil {
		return 0, store.Unavailable("count comments", err)
	}
	return int(n), nil
}

// ListUnpaid — комментарии без события списания. Возраст сверяется в Go:
// SQLite хранит время строкой.
func (s *Store) ListUnpaid(ctx context.Context, olderThan time.Time, limit int) ([]comments.Comment, error) {
	var rows []commentRow
	err := s.conn(ctx).
		Table("comments AS c").
		Select("c.*").
		Joins("LEFT JOIN point_events e ON e.id = c.debit_event_id").
		Where("e.id IS NULL").
		Order("c.created_at").
		Find(&rows).Error
	if err != nil {
		return nil, store.Unavailable("list unpaid comments", err)
	}

	var out []comments.Comment
	for _, c := range toComments(rows) {
		if !c.CreatedAt.Before(olderThan) {
			continue
		}
		out = append(out, c)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func toComments(rows []commentRow) []comments.Comment {
	out := make([]comments.Comment, 0, len(rows))
	for _, r := range rows {
		out = append(out, comments.Comment{
			ID:           r.CommentID,
			Identity:     r.Identity,
			Subject:      r.Subject,
			Body:         r.Body,
			Cost:         r.Cost,
			DebitEventID: r.DebitEventID,
			CreatedAt:    r.CreatedAt,
		})
	}
	return out
}

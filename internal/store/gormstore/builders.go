package gormstore

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/BloomIdeas/BloomIdeas/internal/features/builders"
	"github.com/BloomIdeas/BloomIdeas/internal/store"
)

func (s *Store) GetInterest(ctx context.Context, identity, subject string) (builders.Interest, error) {
	var row interestRow
	err := s.conn(ctx).Where("identity = ? AND subject = ?", identity, subject).Take(&row).Error
	if err != nil {
		return builders.Interest{}, notFound("get builder interest", err)
	}
	return toInterest(row), nil
}

// SaveInterest — upsert по составному ключу, меняется только состояние.
func (s *Store) SaveInterest(ctx context.Context, in builders.Interest) error {
	row := interestRow{
		Identity:  in.Identity,
		Subject:   in.Subject,
		Status:    string(in.Status),
		CreatedAt: in.CreatedAt,
		UpdatedAt: in.UpdatedAt,
	}
	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "identity"}, {Name: "subject"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return store.Unavailable("save builder interest", err)
	}
	return nil
}

func (s *Store) DeleteInterest(ctx context.Context, identity, subject string) error {
	err := s.conn(ctx).Where("identity = ? AND subject = ?", identity, subject).Delete(&interestRow{}).Error
	if err != nil {
		return store.Unavailable("delete builder interest", err)
	}
	return nil
}

func (s *Store) CountInterest(ctx context.Context, subject string) (int, error) {
	var n int64
	if err := s.conn(ctx).Model(&interestRow{}).Where("subject = ?", subject).Count(&n).Error; err != nil {
		return 0, store.Unavailable("count builder interest", err)
	}
	return int(n), nil
}

func (s *Store) ListInterest(ctx context.Context, f builders.Filter) ([]builders.Interest, error) {
	q := s.conn(ctx).Model(&interestRow{})
	if f.Subject != "" {
		q = q.Where("subject = ?", f.Subject)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var rows []interestRow
	if err := q.Order("created_at DESC").Order("subject").Order("identity").Find(&rows).Error; err != nil {
		return nil, store.Unavailable("list builder interest", err)
	}
	out := make([]builders.Interest, 0, len(rows))
	for _, r := range rows {
		out = append(out, toInterest(r))
	}
	return out, nil
}

func toInterest(r interestRow) builders.Interest {
	return builders.Interest{
		Identity:  r.Identity,
		Subject:   r.Subject,
		Status:    builders.Status(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

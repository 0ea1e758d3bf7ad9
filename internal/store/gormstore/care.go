package gormstore

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/BloomIdeas/BloomIdeas/internal/features/care"
	"github.com/BloomIdeas/BloomIdeas/internal/store"
)

func (s *Store) GetAction(ctx context.Context, identity, subject string) (care.Action, error) {
	var row careRow
	err := s.conn(ctx).Where("identity = ? AND subject = ?", identity, subject).Take(&row).Error
	if err != nil {
		return care.Action{}, notFound("get care action", err)
	}
	return care.Action{
		Identity:  row.Identity,
		Subject:   row.Subject,
		Kind:      care.Kind(row.Kind),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

// UpsertAction — upsert по составному ключу (identity, subject).
func (s *Store) UpsertAction(ctx context.Context, a care.Action) error {
	row := careRow{
		Identity:  a.Identity,
		Subject:   a.Subject,
		Kind:      string(a.Kind),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "identity"}, {Name: "subject"}},
		DoUpdates: clause.AssignmentColumns([]string{"kind", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return store.Unavailable("upsert care action", err)
	}
	return nil
}

func (s *Store) DeleteAction(ctx context.Context, identity, subject string) error {
	err := s.conn(ctx).Where("identity = ? AND subject = ?", identity, subject).Delete(&careRow{}).Error
	if err != nil {
		return store.Unavailable("delete care action", err)
	}
	return nil
}

func (s *Store) CountByKind(ctx context.Context, subject string) (map[care.Kind]int, error) {
	var rows []struct {
		Kind    string
		Actions int64
	}
	err := s.conn(ctx).Model(&careRow{}).
		Select("kind, COUNT(*) AS actions").
		Where("subject = ?", subject).
		Group("kind").
		Scan(&rows).Error
	if err != nil {
		return nil, store.Unavailable("count care actions", err)
	}

	out := make(map[care.Kind]int, len(rows))
	for _, r := range rows {
		out[care.Kind(r.Kind)] = int(r.Actions)
	}
	return out, nil
}

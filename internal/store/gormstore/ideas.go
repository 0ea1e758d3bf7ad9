package gormstore

import (
	"context"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
	"github.com/BloomIdeas/BloomIdeas/internal/features/ideas"
	"github.com/BloomIdeas/BloomIdeas/internal/store"
)

func (s *Store) CreateIdea(ctx context.Context, idea ideas.Idea) error {
	row := ideaRow{
		IdeaID:      idea.ID,
		Author:      idea.Author,
		Title:       idea.Title,
		Description: idea.Description,
		Tags:        idea.Tags,
		Status:      string(idea.Status),
		CreatedAt:   idea.CreatedAt,
	}
	if row.Tags == nil {
		row.Tags = []string{}
	}
	if err := s.conn(ctx).Create(&row).Error; err != nil {
		return store.Unavailable("create idea", err)
	}
	return nil
}

func (s *Store) GetIdea(ctx context.Context, id string) (ideas.Idea, error) {
	var row ideaRow
	if err := s.conn(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		return ideas.Idea{}, notFound("get idea", err)
	}
	return toIdea(row), nil
}

func (s *Store) ListIdeas(ctx context.Context) ([]ideas.Idea, error) {
	var rows []ideaRow
	if err := s.conn(ctx).Order("created_at DESC").Order("id").Find(&rows).Error; err != nil {
		return nil, store.Unavailable("list ideas", err)
	}
	out := make([]ideas.Idea, 0, len(rows))
	for _, r := range rows {
		out = append(out, toIdea(r))
	}
	return out, nil
}

func (s *Store) SetIdeaStatus(ctx context.Context, id string, status ideas.Status) error {
	res := s.conn(ctx).Model(&ideaRow{}).Where("id = ?", id).Update("status", string(status))
	if res.Error != nil {
		return store.Unavailable("set idea status", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func toIdea(r ideaRow) ideas.Idea {
	return ideas.Idea{
		ID:          r.IdeaID,
		Author:      r.Author,
		Title:       r.Title,
		Description: r.Description,
		Tags:        r.Tags,
		Status:      ideas.Status(r.Status),
		Source:      ideas.SourceLive,
		CreatedAt:   r.CreatedAt,
	}
}

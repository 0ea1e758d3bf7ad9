package pgstore

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
	"github.com/BloomIdeas/BloomIdeas/internal/features/ideas"
	"github.com/BloomIdeas/BloomIdeas/internal/store"
)

const ideaColumns = `id, author, title, description, tags, status, created_at`

func (s *Store) CreateIdea(ctx context.Context, idea ideas.Idea) error {
	tags := idea.Tags
	if tags == nil {
		tags = []string{}
	}
	_, err := s.conn(ctx).Exec(ctx, `
		INSERT INTO ideas (id, author, title, description, tags, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, idea.ID, idea.Author, idea.Title, idea.Description, tags, string(idea.Status), idea.CreatedAt)
	if err != nil {
		return store.Unavailable("create idea", err)
	}
	return nil
}

func (s *Store) GetIdea(ctx context.Context, id string) (ideas.Idea, error) {
	row := s.conn(ctx).QueryRow(ctx, `SELECT `+ideaColumns+` FROM ideas WHERE id = $1`, id)
	idea, err := scanIdea(row)
	if err != nil {
		return ideas.Idea{}, notFound("get idea", err)
	}
	return idea, nil
}

func (s *Store) ListIdeas(ctx context.Context) ([]ideas.Idea, error) {
	rows, err := s.conn(ctx).Query(ctx, `SELECT `+ideaColumns+` FROM ideas ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, store.Unavailable("list ideas", err)
	}
	defer rows.Close()

	var out []ideas.Idea
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, store.Unavailable("scan idea", err)
		}
		out = append(out, idea)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Unavailable("list ideas", err)
	}
	return out, nil
}

func (s *Store) SetIdeaStatus(ctx context.Context, id string, status ideas.Status) error {
	tag, err := s.conn(ctx).Exec(ctx, `UPDATE ideas SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return store.Unavailable("set idea status", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func scanIdea(row pgx.Row) (ideas.Idea, error) {
	var (
		idea   ideas.Idea
		status string
	)
	if err := row.Scan(&idea.ID, &idea.Author, &idea.Title, &idea.Description, &idea.Tags, &status, &idea.CreatedAt); err != nil {
		return ideas.Idea{}, err
	}
	idea.Status = ideas.Status(status)
	idea.Source = ideas.SourceLive
	return idea, nil
}

package memory

import (
	"context"
	"fmt"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
	"github.com/BloomIdeas/BloomIdeas/internal/features/ideas"
)

func (s *Store) CreateIdea(ctx context.Context, idea ideas.Idea) error {
	release, err := s.begin(ctx, "CreateIdea")
	if err != nil {
		return err
	}
	defer release()

	if _, ok := s.ideas[idea.ID]; ok {
		return fmt.Errorf("идея %s уже существует", idea.ID)
	}
	idea.Tags = append([]string(nil), idea.Tags...)
	s.ideas[idea.ID] = idea
	s.ideaIDs = append(s.ideaIDs, idea.ID)

	onRollback(ctx, func() {
		delete(s.ideas, idea.ID)
		s.ideaIDs = s.ideaIDs[:len(s.ideaIDs)-1]
	})
	return nil
}

func (s *Store) GetIdea(ctx context.Context, id string) (ideas.Idea, error) {
	release, err := s.begin(ctx, "GetIdea")
	if err != nil {
		return ideas.Idea{}, err
	}
	defer release()

	idea, ok := s.ideas[id]
	if !ok {
		return ideas.Idea{}, common.ErrNotFound
	}
	idea.Tags = append([]string(nil), idea.Tags...)
	return idea, nil
}

func (s *Store) ListIdeas(ctx context.Context) ([]ideas.Idea, error) {
	release, err := s.begin(ctx, "ListIdeas")
	if err != nil {
		return nil, err
	}
	defer release()

	out := make([]ideas.Idea, 0, len(s.ideaIDs))
	for i := len(s.ideaIDs) - 1; i >= 0; i-- {
		idea := s.ideas[s.ideaIDs[i]]
		idea.Tags = append([]string(nil), idea.Tags...)
		out = append(out, idea)
	}
	return out, nil
}

func (s *Store) SetIdeaStatus(ctx context.Context, id string, status ideas.Status) error {
	release, err := s.begin(ctx, "SetIdeaStatus")
	if err != nil {
		return err
	}
	defer release()

	idea, ok := s.ideas[id]
	if !ok {
		return common.ErrNotFound
	}
	prev := idea.Status
	idea.Status = status
	s.ideas[id] = idea

	onRollback(ctx, func() {
		idea.Status = prev
		s.ideas[id] = idea
	})
	return nil
}

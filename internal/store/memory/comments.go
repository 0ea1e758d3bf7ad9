package memory

import (
	"context"
	"time"

	"github.com/BloomIdeas/BloomIdeas/internal/features/comments"
)

func (s *Store) CreateComment(ctx context.Context, c comments.Comment) error {
	release, err := s.begin(ctx, "CreateComment")
	if err != nil {
		return err
	}
	defer release()

	s.comments = append(s.comments, c)
	onRollback(ctx, func() {
		s.comments = s.comments[:len(s.comments)-1]
	})
	return nil
}

func (s *Store) ListComments(ctx context.Context, subject string) ([]comments.Comment, error) {
	release, err := s.begin(ctx, "ListComments")
	if err != nil {
		return nil, err
	}
	defer release()

	var out []comments.Comment
	for _, c := range s.comments {
		if c.Subject == subject {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) CountByIdentity(ctx context.Context, identity string) (int, error) {
	release, err := s.begin(ctx, "CountByIdentity")
	if err != nil {
		return 0, err
	}
	defer release()

	n := 0
	for _, c := range s.comments {
		if c.Identity == identity {
			n++
		}
	}
	return n, nil
}

func (s *Store) ListUnpaid(ctx context.Context, olderThan time.Time, limit int) ([]comments.Comment, error) {
	release, err := s.begin(ctx, "ListUnpaid")
	if err != nil {
		return nil, err
	}
	defer release()

	var out []comments.Comment
	for _, c := range s.comments {
		if !c.CreatedAt.Before(olderThan) {
			continue
		}
		if _, paid := s.eventIdx[c.DebitEventID]; paid {
			continue
		}
		out = append(out, c)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

package memory

import (
	"context"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
	"github.com/BloomIdeas/BloomIdeas/internal/features/care"
)

func (s *Store) GetAction(ctx context.Context, identity, subject string) (care.Action, error) {
	release, err := s.begin(ctx, "GetAction")
	if err != nil {
		return care.Action{}, err
	}
	defer release()

	a, ok := s.care[pairKey{identity, subject}]
	if !ok {
		return care.Action{}, common.ErrNotFound
	}
	return a, nil
}

func (s *Store) UpsertAction(ctx context.Context, a care.Action) error {
	release, err := s.begin(ctx, "UpsertAction")
	if err != nil {
		return err
	}
	defer release()

	key := pairKey{a.Identity, a.Subject}
	prev, existed := s.care[key]
	if existed {
		upd := prev
		upd.Kind = a.Kind
		upd.UpdatedAt = a.UpdatedAt
		s.care[key] = upd
	} else {
		s.care[key] = a
	}

	onRollback(ctx, func() {
		if existed {
			s.care[key] = prev
		} else {
			delete(s.care, key)
		}
	})
	return nil
}

func (s *Store) DeleteAction(ctx context.Context, identity, subject string) error {
	release, err := s.begin(ctx, "DeleteAction")
	if err != nil {
		return err
	}
	defer release()

	key := pairKey{identity, subject}
	prev, existed := s.care[key]
	delete(s.care, key)
	onRollback(ctx, func() {
		if existed {
			s.care[key] = prev
		}
	})
	return nil
}

func (s *Store) CountByKind(ctx context.Context, subject string) (map[care.Kind]int, error) {
	release, err := s.begin(ctx, "CountByKind")
	if err != nil {
		return nil, err
	}
	defer release()

	out := make(map[care.Kind]int)
	for key, a := range s.care {
		if key.subject == subject {
			out[a.Kind]++
		}
	}
	return out, nil
}

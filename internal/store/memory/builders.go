package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
	"github.com/BloomIdeas/BloomIdeas/internal/features/builders"
)

func (s *Store) GetInterest(ctx context.Context, identity, subject string) (builders.Interest, error) {
	release, err := s.begin(ctx, "GetInterest")
	if err != nil {
		return builders.Interest{}, err
	}
	defer release()

	in, ok := s.builders[pairKey{identity, subject}]
	if !ok {
		return builders.Interest{}, common.ErrNotFound
	}
	return in, nil
}

func (s *Store) SaveInterest(ctx context.Context, in builders.Interest) error {
	release, err := s.begin(ctx, "SaveInterest")
	if err != nil {
		return err
	}
	defer release()

	key := pairKey{in.Identity, in.Subject}
	prev, existed := s.builders[key]
	if existed {
		upd := prev
		upd.Status = in.Status
		upd.UpdatedAt = in.UpdatedAt
		s.builders[key] = upd
	} else {
		s.builders[key] = in
	}

	onRollback(ctx, func() {
		if existed {
			s.builders[key] = prev
		} else {
			delete(s.builders, key)
		}
	})
	return nil
}

func (s *Store) DeleteInterest(ctx context.Context, identity, subject string) error {
	release, err := s.begin(ctx, "DeleteInterest")
	if err != nil {
		return err
	}
	defer release()

	key := pairKey{identity, subject}
	prev, existed := s.builders[key]
	delete(s.builders, key)
	onRollback(ctx, func() {
		if existed {
			s.builders[key] = prev
		}
	})
	return nil
}

func (s *Store) CountInterest(ctx context.Context, subject string) (int, error) {
	release, err := s.begin(ctx, "CountInterest")
	if err != nil {
		return 0, err
	}
	defer release()

	n := 0
	for key := range s.builders {
		if key.subject == subject {
			n++
		}
	}
	return n, nil
}

func (s *Store) ListInterest(ctx context.Context, f builders.Filter) ([]builders.Interest, error) {
	release, err := s.begin(ctx, "ListInterest")
	if err != nil {
		return nil, err
	}
	defer release()

	var out []builders.Interest
	for _, in := range s.builders {
		if f.Subject != "" && in.Subject != f.Subject {
			continue
		}
		if f.Status != "" && in.Status != f.Status {
			continue
		}
		out = append(out, in)
	}
	// Новые первыми; при равном времени порядок по ключу, чтобы не зависеть от map
	slices.SortFunc(out, func(a, b builders.Interest) int {
		return cmp.Or(
			b.CreatedAt.Compare(a.CreatedAt),
			cmp.Compare(a.Subject, b.Subject),
			cmp.Compare(a.Identity, b.Identity),
		)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

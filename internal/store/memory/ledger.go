package memory

import (
	"context"
	"slices"

	"github.com/BloomIdeas/BloomIdeas/internal/features/ledger"
)

func (s *Store) AppendEvent(ctx context.Context, ev ledger.Event) (ledger.Event, error) {
	release, err := s.begin(ctx, "AppendEvent")
	if err != nil {
		return ledger.Event{}, err
	}
	defer release()

	if i, ok := s.eventIdx[ev.ID]; ok {
		return s.events[i], nil
	}
	s.seq++
	ev.Seq = s.seq
	s.events = append(s.events, ev)
	s.eventIdx[ev.ID] = len(s.events) - 1

	onRollback(ctx, func() {
		s.events = s.events[:len(s.events)-1]
		delete(s.eventIdx, ev.ID)
	})
	return ev, nil
}

func (s *Store) ListEvents(ctx context.Context, f ledger.Filter) ([]ledger.Event, error) {
	release, err := s.begin(ctx, "ListEvents")
	if err != nil {
		return nil, err
	}
	defer release()

	var out []ledger.Event
	for i := len(s.events) - 1; i >= 0; i-- {
		ev := s.events[i]
		if f.BeforeSeq > 0 && ev.Seq >= f.BeforeSeq {
			continue
		}
		if (f.Identity != "" && ev.Identity != f.Identity) ||
			(f.Category != "" && ev.Category != f.Category) ||
			(f.Subject != "" && ev.Subject != f.Subject) {
			continue
		}
		out = append(out, ev)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

func (s *Store) CategoryTotals(ctx context.Context, identity string) ([]ledger.CategoryTotal, error) {
	release, err := s.begin(ctx, "CategoryTotals")
	if err != nil {
		return nil, err
	}
	defer release()

	byCat := make(map[ledger.Category]*ledger.CategoryTotal)
	for _, ev := range s.events {
		if ev.Identity != identity {
			continue
		}
		t, ok := byCat[ev.Category]
		if !ok {
			t = &ledger.CategoryTotal{Category: ev.Category}
			byCat[ev.Category] = t
		}
		t.Sum += ev.Amount
		t.Count++
	}

	out := make([]ledger.CategoryTotal, 0, len(byCat))
	for _, t := range byCat {
		out = append(out, *t)
	}
	slices.SortFunc(out, func(a, b ledger.CategoryTotal) int {
		return slices.Index(ledger.Categories, a.Category) - slices.Index(ledger.Categories, b.Category)
	})
	return out, nil
}

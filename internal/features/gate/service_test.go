package gate_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
	"github.com/BloomIdeas/BloomIdeas/internal/features/gate"
	"github.com/BloomIdeas/BloomIdeas/internal/features/ledger"
	"github.com/BloomIdeas/BloomIdeas/internal/notify"
	"github.com/BloomIdeas/BloomIdeas/internal/store/memory"
)

const alice = "0x00000000000000000000000000000000000a11ce"

// actions — счётчик выполненных действий, как таблица комментариев.
type actions struct {
	mu sync.Mutex
	n  map[string]int
}

func (a *actions) CountByIdentity(_ context.Context, identity string) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.n[identity], nil
}

func (a *actions) do(identity string) gate.Action {
	return func(context.Context, ledger.Event) error {
		a.mu.Lock()
		defer a.mu.Unlock()
		a.n[identity]++
		return nil
	}
}

type recorder struct {
	mu      sync.Mutex
	notices []notify.Notice
}

func (r *recorder) Notify(_ context.Context, n notify.Notice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
	return nil
}

type fixture struct {
	store   *memory.Store
	ledger  *ledger.Service
	actions *actions
	alerts  *recorder
	gate    *gate.Service
}

func newFixture(t *testing.T, atomic bool) *fixture {
	t.Helper()
	f := &fixture{
		store:   memory.New(),
		actions: &actions{n: make(map[string]int)},
		alerts:  &recorder{},
	}
	f.ledger = ledger.NewService(f.store, 0)
	if atomic {
		f.gate = gate.NewService(f.ledger, f.actions, gate.DefaultSchedule(), f.store, f.alerts)
	} else {
		f.gate = gate.NewService(f.ledger, f.actions, gate.DefaultSchedule(), nil, f.alerts)
	}
	return f
}

func (f *fixture) grant(t *testing.T, amount int64) {
	t.Helper()
	_, err := f.ledger.Record(context.Background(), alice, ledger.CategoryJoined, amount, "")
	require.NoError(t, err)
}

func (f *fixture) balance(t *testing.T) int64 {
	t.Helper()
	b, err := f.ledger.Balance(context.Background(), alice)
	require.NoError(t, err)
	return b
}

func TestAuthorize_DeniedAfterFirstSpend(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	f.grant(t, 5)

	d, err := f.gate.Authorize(ctx, alice, 0)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, int64(5), d.RequiredCost)

	out, err := f.gate.Perform(ctx, alice, "idea-1", f.actions.do(alice))
	require.NoError(t, err)
	assert.True(t, out.Decision.Allowed)
	assert.Equal(t, int64(-5), out.Debit.Amount)
	assert.Equal(t, int64(0), f.balance(t))

	d, err = f.gate.Authorize(ctx, alice, 1)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, int64(4), d.RequiredCost)
	assert.Equal(t, int64(0), d.CurrentBalance)
}

func TestPerform_Denied(t *testing.T) {
	for _, atomic := range []bool{true, false} {
		f := newFixture(t, atomic)
		f.grant(t, 3)

		called := false
		out, err := f.gate.Perform(context.Background(), alice, "idea-1", func(context.Context, ledger.Event) error {
			called = true
			return nil
		})
		require.NoError(t, err)
		assert.False(t, out.Decision.Allowed)
		assert.False(t, called)
		assert.Empty(t, out.Debit.ID)
		assert.Equal(t, int64(3), f.balance(t))
	}
}

func TestPerform_ScheduleSteps(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	f.grant(t, 20)

	var costs []int64
	for range 4 {
		out, err := f.gate.Perform(ctx, alice, "idea-1", f.actions.do(alice))
		require.NoError(t, err)
		require.True(t, out.Decision.Allowed)
		costs = append(costs, out.Decision.RequiredCost)
	}
	assert.Equal(t, []int64{5, 4, 3, 3}, costs)
	assert.Equal(t, int64(5), f.balance(t))
}

func TestPerform_AtomicRollback(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	f.grant(t, 10)

	f.store.InjectFault("AppendEvent", errors.New("disk full"))
	_, err := f.gate.Perform(ctx, alice, "idea-1", f.actions.do(alice))
	require.ErrorIs(t, err, common.ErrStoreUnavailable)
	assert.NotErrorIs(t, err, common.ErrInconsistentDebit)
	assert.Equal(t, int64(10), f.balance(t))
	assert.Empty(t, f.alerts.notices)
}

func TestPerform_ActionFailureSpendsNothing(t *testing.T) {
	for _, atomic := range []bool{true, false} {
		f := newFixture(t, atomic)
		f.grant(t, 10)

		boom := errors.New("boom")
		_, err := f.gate.Perform(context.Background(), alice, "idea-1", func(context.Context, ledger.Event) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, int64(10), f.balance(t))
	}
}

func TestPerform_BestEffortInconsistentDebit(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	f.grant(t, 10)

	f.store.InjectFault("AppendEvent", errors.New("connection reset"))
	out, err := f.gate.Perform(ctx, alice, "idea-1", f.actions.do(alice))
	require.ErrorIs(t, err, common.ErrInconsistentDebit)
	assert.True(t, out.Decision.Allowed)
	assert.NotEmpty(t, out.Debit.ID)

	// Действие выполнено, баланс не тронут
	assert.Equal(t, 1, f.actions.n[alice])
	assert.Equal(t, int64(10), f.balance(t))

	require.Len(t, f.alerts.notices, 1)
	assert.Equal(t, notify.LevelAlert, f.alerts.notices[0].Level)
	assert.Equal(t, out.Debit.ID, f.alerts.notices[0].Fields["debit_id"])
}

func TestPerform_AtomicConcurrentSpends(t *testing.T) {
	f := newFixture(t, true)
	f.grant(t, 12)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.gate.Perform(context.Background(), alice, "idea-1", f.actions.do(alice))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// 5 + 4 + 3 = 12, дальше баланс 0
	assert.Equal(t, 3, f.actions.n[alice])
	assert.Equal(t, int64(0), f.balance(t))
}

func TestQuote(t *testing.T) {
	f := newFixture(t, true)
	f.grant(t, 4)
	f.actions.n[alice] = 1

	d, err := f.gate.Quote(context.Background(), alice)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.PriorCount)
	assert.Equal(t, int64(4), d.RequiredCost)
}

func TestPerform_ThenRunsAfterDebit(t *testing.T) {
	for _, atomic := range []bool{true, false} {
		f := newFixture(t, atomic)
		f.grant(t, 10)

		var seen ledger.Event
		out, err := f.gate.Perform(context.Background(), alice, "idea-1", f.actions.do(alice),
			func(_ context.Context, debit ledger.Event) error {
				seen = debit
				return nil
			})
		require.NoError(t, err)
		assert.Equal(t, out.Debit.ID, seen.ID)
		assert.NotZero(t, seen.Seq, "шаг видит уже записанное списание")
		assert.Equal(t, int64(5), f.balance(t))
	}
}

func TestPerform_AtomicThenFailureRollsBack(t *testing.T) {
	f := newFixture(t, true)
	f.grant(t, 10)

	boom := errors.New("boom")
	_, err := f.gate.Perform(context.Background(), alice, "idea-1", func(context.Context, ledger.Event) error {
		return nil
	}, func(context.Context, ledger.Event) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, common.ErrInconsistentDebit)
	assert.Equal(t, int64(10), f.balance(t))
	assert.Empty(t, f.alerts.notices)
}

func TestPerform_BestEffortThenFailureIsInconsistent(t *testing.T) {
	f := newFixture(t, false)
	f.grant(t, 10)

	boom := errors.New("boom")
	out, err := f.gate.Perform(context.Background(), alice, "idea-1", f.actions.do(alice),
		func(context.Context, ledger.Event) error { return boom })
	require.ErrorIs(t, err, common.ErrInconsistentDebit)
	assert.ErrorIs(t, err, boom)
	assert.True(t, out.Decision.Allowed)

	// Действие и списание остались, о сбое шага ушёл алерт
	assert.Equal(t, 1, f.actions.n[alice])
	assert.Equal(t, int64(5), f.balance(t))
	require.Len(t, f.alerts.notices, 1)
}

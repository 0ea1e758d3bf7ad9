package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
	"github.com/BloomIdeas/BloomIdeas/internal/features/ledger"
	"github.com/BloomIdeas/BloomIdeas/internal/store/memory"
)

const alice = "0x00000000000000000000000000000000000a11ce"

func newLedger(t *testing.T) (*ledger.Service, *memory.Store) {
	t.Helper()
	st := memory.New()
	return ledger.NewService(st, 0), st
}

func TestRecord_SignRules(t *testing.T) {
	svc, _ := newLedger(t)
	ctx := context.Background()

	_, err := svc.Record(ctx, alice, ledger.CategoryPlanted, 0, "")
	assert.ErrorIs(t, err, common.ErrInvalidAmount)

	_, err = svc.Record(ctx, alice, ledger.CategorySpend, 5, "")
	assert.ErrorIs(t, err, common.ErrInvalidAmount)

	_, err = svc.Record(ctx, alice, ledger.CategoryPlanted, -5, "")
	assert.ErrorIs(t, err, common.ErrInvalidAmount)

	_, err = svc.Record(ctx, alice, ledger.Category("gambling"), 5, "")
	assert.ErrorIs(t, err, common.ErrInvalidCategory)

	_, err = svc.Record(ctx, "", ledger.CategoryPlanted, 5, "")
	assert.ErrorIs(t, err, common.ErrInvalidIdentity)

	balance, err := svc.Balance(ctx, alice)
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestBalanceAndTotals(t *testing.T) {
	svc, _ := newLedger(t)
	ctx := context.Background()

	_, err := svc.Record(ctx, alice, ledger.CategoryPlanted, 5, "idea-1")
	require.NoError(t, err)
	_, err = svc.Record(ctx, alice, ledger.CategoryNurtured, 1, "idea-2")
	require.NoError(t, err)
	_, err = svc.Record(ctx, alice, ledger.CategorySpend, -4, "idea-2")
	require.NoError(t, err)
	_, err = svc.Record(ctx, "0xbob", ledger.CategoryJoined, 10, "")
	require.NoError(t, err)

	balance, err := svc.Balance(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(2), balance)

	totals, err := svc.TotalsByCategory(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, map[ledger.Category]int64{
		ledger.CategoryPlanted:  5,
		ledger.CategoryNurtured: 1,
		ledger.CategorySpend:    -4,
	}, totals)

	sum, err := svc.Summary(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(2), sum.Balance)

	unknown, err := svc.Balance(ctx, "0xnobody")
	require.NoError(t, err)
	assert.Zero(t, unknown)
}

func TestAppend_IdempotentByID(t *testing.T) {
	svc, _ := newLedger(t)
	ctx := context.Background()

	ev, err := svc.NewEvent(alice, ledger.CategorySpend, -5, "idea-1")
	require.NoError(t, err)

	first, err := svc.Append(ctx, ev)
	require.NoError(t, err)
	second, err := svc.Append(ctx, ev)
	require.NoError(t, err)
	assert.Equal(t, first.Seq, second.Seq)

	balance, err := svc.Balance(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(-5), balance)
}

func TestHistory_NewestFirstAndLimited(t *testing.T) {
	svc, _ := newLedger(t)
	ctx := context.Background()

	for range 45 {
		_, err := svc.Record(ctx, alice, ledger.CategoryNurtured, 1, "")
		require.NoError(t, err)
	}

	events, err := svc.CollectHistory(ctx, alice, 30)
	require.NoError(t, err)
	require.Len(t, events, 30)
	for i := 1; i < len(events); i++ {
		assert.Greater(t, events[i-1].Seq, events[i].Seq)
	}
	assert.Equal(t, int64(45), events[0].Seq)

	all, err := svc.CollectHistory(ctx, alice, 0)
	require.NoError(t, err)
	assert.Len(t, all, 45)

	// Ранний выход из обхода
	n := 0
	for _, err := range svc.History(ctx, alice, 0) {
		require.NoError(t, err)
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestHistory_StoreFailure(t *testing.T) {
	svc, st := newLedger(t)
	ctx := context.Background()

	st.InjectFault("ListEvents", errors.New("connection reset"))
	_, err := svc.CollectHistory(ctx, alice, 10)
	assert.ErrorIs(t, err, common.ErrStoreUnavailable)
}

func TestHasEvent(t *testing.T) {
	svc, _ := newLedger(t)
	ctx := context.Background()

	ok, err := svc.HasEvent(ctx, alice, ledger.CategoryNurtured, "idea-1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.Record(ctx, alice, ledger.CategoryNurtured, 1, "idea-1")
	require.NoError(t, err)

	ok, err = svc.HasEvent(ctx, alice, ledger.CategoryNurtured, "idea-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.HasEvent(ctx, alice, ledger.CategoryNurtured, "idea-2")
	require.NoError(t, err)
	assert.False(t, ok)
}

package builders_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
	"github.com/BloomIdeas/BloomIdeas/internal/features/builders"
	"github.com/BloomIdeas/BloomIdeas/internal/features/ledger"
	"github.com/BloomIdeas/BloomIdeas/internal/store/memory"
)

const (
	alice = "0x00000000000000000000000000000000000a11ce"
	bob   = "0x0000000000000000000000000000000000000b0b"
)

func newBuilders(t *testing.T) (*builders.Service, *ledger.Service, *memory.Store) {
	t.Helper()
	st := memory.New()
	l := ledger.NewService(st, 0)
	return builders.NewService(st, l, st, 3), l, st
}

func TestToggle_JoinAndLeave(t *testing.T) {
	svc, l, _ := newBuilders(t)
	ctx := context.Background()

	res, err := svc.Toggle(ctx, alice, "idea-1")
	require.NoError(t, err)
	assert.True(t, res.Interested)
	require.NotNil(t, res.Interest)
	assert.Equal(t, builders.StatusPending, res.Interest.Status)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, int64(3), res.Rewarded)

	res, err = svc.Toggle(ctx, bob, "idea-1")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)

	res, err = svc.Toggle(ctx, alice, "idea-1")
	require.NoError(t, err)
	assert.False(t, res.Interested)
	assert.Nil(t, res.Interest)
	assert.Equal(t, 1, res.Count)

	mine, err := svc.Interested(ctx, alice, "idea-1")
	require.NoError(t, err)
	assert.False(t, mine)
	mine, err = svc.Interested(ctx, bob, "idea-1")
	require.NoError(t, err)
	assert.True(t, mine)

	// Повторная заявка на ту же идею очков не даёт
	res, err = svc.Toggle(ctx, alice, "idea-1")
	require.NoError(t, err)
	assert.True(t, res.Interested)
	assert.Zero(t, res.Rewarded)

	totals, err := l.TotalsByCategory(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, map[ledger.Category]int64{ledger.CategoryJoined: 3}, totals)

	// Заявка на другую идею — новая награда
	res, err = svc.Toggle(ctx, alice, "idea-2")
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Rewarded)
}

func TestToggle_InvalidIdentity(t *testing.T) {
	svc, _, _ := newBuilders(t)
	_, err := svc.Toggle(context.Background(), "", "idea-1")
	assert.ErrorIs(t, err, common.ErrInvalidIdentity)
}

func TestToggle_RewardFailureRollsBack(t *testing.T) {
	svc, l, st := newBuilders(t)
	ctx := context.Background()

	st.InjectFault("AppendEvent", errors.New("timeout"))
	_, err := svc.Toggle(ctx, alice, "idea-1")
	require.ErrorIs(t, err, common.ErrStoreUnavailable)

	n, err := svc.Count(ctx, "idea-1")
	require.NoError(t, err)
	assert.Zero(t, n)
	balance, err := l.Balance(ctx, alice)
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestRequestsAndApprove(t *testing.T) {
	svc, _, _ := newBuilders(t)
	ctx := context.Background()

	_, err := svc.Toggle(ctx, alice, "idea-1")
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, bob, "idea-2")
	require.NoError(t, err)

	all, err := svc.Requests(ctx, builders.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	in, err := svc.Approve(ctx, bob, "idea-2")
	require.NoError(t, err)
	assert.Equal(t, builders.StatusApproved, in.Status)

	// Повторное одобрение ничего не меняет
	again, err := svc.Approve(ctx, bob, "idea-2")
	require.NoError(t, err)
	assert.Equal(t, in.UpdatedAt, again.UpdatedAt)

	pending, err := svc.Requests(ctx, builders.Filter{Status: builders.StatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, alice, pending[0].Identity)

	_, err = svc.Approve(ctx, bob, "idea-1")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = svc.Requests(ctx, builders.Filter{Status: "rejected"})
	assert.ErrorIs(t, err, common.ErrInvalidStatus)
}

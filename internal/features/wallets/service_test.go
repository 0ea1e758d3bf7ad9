package wallets_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
	"github.com/BloomIdeas/BloomIdeas/internal/features/ledger"
	"github.com/BloomIdeas/BloomIdeas/internal/features/wallets"
	"github.com/BloomIdeas/BloomIdeas/internal/store/memory"
)

func TestSignIn_FirstTimeRewarded(t *testing.T) {
	st := memory.New()
	l := ledger.NewService(st, 0)
	svc := wallets.NewService(st, l, st, 10)
	ctx := context.Background()

	res, err := svc.SignIn(ctx, " 0xABCDEF0123456789ABCDEF0123456789ABCDEF01 ")
	require.NoError(t, err)
	assert.True(t, res.FirstTime)
	assert.Equal(t, int64(10), res.Rewarded)
	assert.Equal(t, "0xabcdef0123456789abcdef0123456789abcdef01", res.Wallet.Identity)
	assert.Equal(t, int64(1), res.Wallet.SignatureCount)

	res, err = svc.SignIn(ctx, "0xabcdef0123456789abcdef0123456789abcdef01")
	require.NoError(t, err)
	assert.False(t, res.FirstTime)
	assert.Zero(t, res.Rewarded)
	assert.Equal(t, int64(2), res.Wallet.SignatureCount)

	balance, err := l.Balance(ctx, res.Wallet.Identity)
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance)

	totals, err := l.TotalsByCategory(ctx, res.Wallet.Identity)
	require.NoError(t, err)
	assert.Equal(t, map[ledger.Category]int64{ledger.CategoryWelcome: 10}, totals)

	w, err := svc.Get(ctx, res.Wallet.Identity)
	require.NoError(t, err)
	assert.Equal(t, int64(2), w.SignatureCount)
}

func TestSignIn_Invalid(t *testing.T) {
	st := memory.New()
	svc := wallets.NewService(st, nil, st, 10)

	_, err := svc.SignIn(context.Background(), "   ")
	assert.ErrorIs(t, err, common.ErrInvalidIdentity)

	_, err = svc.Get(context.Background(), "0xnobody")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSignIn_RewardFailureRollsBack(t *testing.T) {
	st := memory.New()
	l := ledger.NewService(st, 0)
	svc := wallets.NewService(st, l, st, 10)
	ctx := context.Background()

	st.InjectFault("AppendEvent", errors.New("timeout"))
	_, err := svc.SignIn(ctx, "alice.eth")
	require.ErrorIs(t, err, common.ErrStoreUnavailable)

	// Повторный вход снова считается первым
	res, err := svc.SignIn(ctx, "alice.eth")
	require.NoError(t, err)
	assert.True(t, res.FirstTime)
	assert.Equal(t, int64(10), res.Rewarded)
}

package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BloomIdeas/BloomIdeas/internal/features/comments"
)

type countingReconciler struct {
	calls atomic.Int32
	err   error
}

func (c *countingReconciler) Reconcile(context.Context) (comments.ReconcileReport, error) {
	c.calls.Add(1)
	return comments.ReconcileReport{Checked: 1, Repaired: 1}, c.err
}

func TestNewScheduler_BadSpec(t *testing.T) {
	_, err := NewScheduler(&countingReconciler{}, "every minute")
	assert.Error(t, err)
}

func TestRunOnce(t *testing.T) {
	rec := &countingReconciler{}
	s, err := NewScheduler(rec, "*/15 * * * *")
	require.NoError(t, err)

	s.RunOnce(context.Background())
	s.RunOnce(context.Background())
	assert.Equal(t, int32(2), rec.calls.Load())

	rec.err = errors.New("boom")
	s.RunOnce(context.Background())
	assert.Equal(t, int32(3), rec.calls.Load())
	assert.False(t, s.running)
}

func TestStartStop(t *testing.T) {
	s, err := NewScheduler(&countingReconciler{}, "@every 1h")
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	s.Stop()
}

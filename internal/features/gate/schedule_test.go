package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
)

func TestCostForNth(t *testing.T) {
	s := DefaultSchedule()
	assert.Equal(t, int64(5), s.CostForNth(0))
	assert.Equal(t, int64(4), s.CostForNth(1))
	assert.Equal(t, int64(3), s.CostForNth(2))
	assert.Equal(t, int64(3), s.CostForNth(3))
	assert.Equal(t, int64(3), s.CostForNth(1000))
	assert.Equal(t, int64(5), s.CostForNth(-1))
	assert.Equal(t, int64(3), s.Floor())
}

func TestCostForNth_NonIncreasing(t *testing.T) {
	s, err := ParseSchedule("10, 7, 7, 2")
	require.NoError(t, err)
	prev := s.CostForNth(0)
	for n := 1; n < 20; n++ {
		cur := s.CostForNth(n)
		assert.LessOrEqual(t, cur, prev)
		assert.GreaterOrEqual(t, cur, s.Floor())
		prev = cur
	}
}

func TestNewSchedule_Invalid(t *testing.T) {
	for _, costs := range [][]int64{nil, {}, {5, 0}, {3, 4}, {-1}} {
		_, err := NewSchedule(costs)
		assert.ErrorIs(t, err, common.ErrInvalidSchedule, "costs %v", costs)
	}
	_, err := ParseSchedule("5,x")
	assert.ErrorIs(t, err, common.ErrInvalidSchedule)
}

func TestDecide(t *testing.T) {
	s := DefaultSchedule()

	d := Decide(s, 5, 0)
	assert.True(t, d.Allowed)
	assert.Equal(t, int64(5), d.RequiredCost)
	assert.Equal(t, "5 points spent", d.Message())

	d = Decide(s, 3, 1)
	assert.False(t, d.Allowed)
	assert.Equal(t, int64(4), d.RequiredCost)
	assert.Equal(t, "Not enough points — need 4, have 3", d.Message())

	assert.False(t, Decide(s, -2, 5).Allowed)
	assert.True(t, Decide(s, 3, 5).Allowed)
}

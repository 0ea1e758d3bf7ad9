package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "999", FormatNumber(999))
	assert.Equal(t, "2,350", FormatNumber(2350))
	assert.Equal(t, "1,000,000", FormatNumber(1000000))
	assert.Equal(t, "-12,005", FormatNumber(-12005))
}

func TestFormatPointsAmount(t *testing.T) {
	assert.Equal(t, "+2 points", FormatPointsAmount(2))
	assert.Equal(t, "+1 point", FormatPointsAmount(1))
	assert.Equal(t, "-5 points", FormatPointsAmount(-5))
	assert.Equal(t, "-1 point", FormatPointsAmount(-1))
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "+2 points earned", EarnedMessage(2))
	assert.Equal(t, "5 points spent", SpentMessage(-5))
	assert.Equal(t, "Not enough points — need 5, have 3", NotEnoughPointsMessage(5, 3))
}

func TestNormalizeIdentity(t *testing.T) {
	id, err := NormalizeIdentity("  0xAbCdEf0123456789abcdef0123456789ABCDEF01 ")
	require.NoError(t, err)
	assert.Equal(t, "0xabcdef0123456789abcdef0123456789abcdef01", id)

	id, err = NormalizeIdentity("alice.eth")
	require.NoError(t, err)
	assert.Equal(t, "alice.eth", id)

	_, err = NormalizeIdentity("   ")
	assert.ErrorIs(t, err, ErrInvalidIdentity)
}

func TestShortIdentity(t *testing.T) {
	assert.Equal(t, "0x1234...5678", ShortIdentity("0x1234000000000000000000000000000000005678"))
	assert.Equal(t, "alice", ShortIdentity("alice"))
}

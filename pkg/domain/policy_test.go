package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRolloutPolicy_Eligible(t *testing.T) {
	assert.False(t, RolloutPolicy{Mode: RolloutOff}.Eligible(1))
	assert.False(t, RolloutPolicy{Mode: RolloutEmergencyOff}.Eligible(1))
	assert.True(t, RolloutPolicy{Mode: RolloutOn}.Eligible(1))
	assert.False(t, RolloutPolicy{Mode: RolloutCanary, Percentage: 0}.Eligible(1))
	assert.True(t, RolloutPolicy{Mode: RolloutCanary, Percentage: 100}.Eligible(1))
}

func TestRolloutPolicy_CanaryFraction(t *testing.T) {
	p := RolloutPolicy{Mode: RolloutCanary, Percentage: 10}
	admitted := 0
	for id := int64(1); id <= 10000; id++ {
		first := p.Eligible(id)
		assert.Equal(t, first, p.Eligible(id), "eligibility flapped for feed %d", id)
		if first {
			admitted++
		}
	}
	frac := float64(admitted) / 10000
	assert.InDelta(t, 0.10, frac, 0.015, "admitted fraction %.4f", frac)
}

func TestRolloutBucket_Stable(t *testing.T) {
	// fnv1a32("42") = 0x87E38583 = 2279835011, % 100 = 11
	assert.Equal(t, uint32(11), RolloutBucket(42))
	assert.Equal(t, RolloutBucket(123456), RolloutBucket(123456))
}

func TestRolloutPolicy_Validate(t *testing.T) {
	require.NoError(t, RolloutPolicy{Mode: RolloutOn}.Validate())
	require.NoError(t, RolloutPolicy{Mode: RolloutCanary, Percentage: 25}.Validate())

	err := RolloutPolicy{Mode: RolloutCanary, Percentage: 101}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	err = RolloutPolicy{Mode: "sometimes"}.Validate()
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

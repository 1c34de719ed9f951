package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollRange(t *testing.T) {
	r := NewRandomRoller(7)
	for i := 0; i < 500; i++ {
		result := r.Roll(2, 6)
		require.Len(t, result, 2)
		for _, die := range result {
			assert.GreaterOrEqual(t, die, 1)
			assert.LessOrEqual(t, die, 6)
		}
	}
}

func TestRollInvalidInput(t *testing.T) {
	r := NewRandomRoller(7)
	assert.Empty(t, r.Roll(0, 6))
	assert.Empty(t, r.Roll(2, 0))
}

func TestZeroSeedStillRolls(t *testing.T) {
	result := NewRandomRoller(0).Roll(2, 6)
	require.Len(t, result, 2)
	assert.NotNil(t, NewRandomRoller(0).Rand())
}

func TestRandomRollerSeeded(t *testing.T) {
	a := NewRandomRoller(42)
	b := NewRandomRoller(42)

	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Roll(2, 6), b.Roll(2, 6), "same seed should produce same rolls")
	}
}

func TestSum(t *testing.T) {
	assert.Equal(t, 0, Sum(nil))
	assert.Equal(t, 7, Sum([]int{3, 4}))
}

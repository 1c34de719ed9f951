package dice

import (
	"math/rand/v2"
	"time"
)

// Roller produces dice results. The engine depends on this instead of a global
// source so games can be replayed from a seed and tests can fix the rolls.
type Roller interface {
	Roll(n, faces int) []int
}

// RandomRoller rolls with its own seeded source.
type RandomRoller struct {
	rng *rand.Rand
}

// NewRandomRoller creates a roller. A zero seed picks a time-based one.
func NewRandomRoller(seed int64) *RandomRoller {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomRoller{rng: rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1))}
}

// Roll returns n uniform integers in [1, faces].
func (r *RandomRoller) Roll(n, faces int) []int {
	if n <= 0 || faces <= 0 {
		return []int{}
	}
	result := make([]int, n)
	for i := range result {
		result[i] = r.rng.IntN(faces) + 1
	}
	return result
}

// Rand exposes the underlying source for other seeded consumers such as deck shuffles.
func (r *RandomRoller) Rand() *rand.Rand {
	return r.rng
}

// Sum totals a roll.
func Sum(roll []int) int {
	total := 0
	for _, die := range roll {
		total += die
	}
	return total
}

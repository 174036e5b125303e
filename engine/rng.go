package engine

import (
	"fmt"
	"math/rand"

	"github.com/KirkDiggler/rpg-toolkit/dice"
)

// counter is a rand.Source that counts the values it hands out. It hides
// the wrapped source's Uint64 so every draw goes through Int63.
type counter struct {
	src rand.Source
	n   int64
}

func (c *counter) Int63() int64 {
	c.n++
	return c.src.Int63()
}

func (c *counter) Seed(seed int64) { c.src.Seed(seed) }

// RNG wraps math/rand.Rand with deterministic position tracking.
// Position counts raw source draws, enabling save/restore. It satisfies
// dice.Roller so decks and the dice pool shuffle through it.
type RNG struct {
	cnt *counter
	src *rand.Rand
}

var _ dice.Roller = (*RNG)(nil)

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	cnt := &counter{src: rand.NewSource(seed)}
	return &RNG{
		cnt: cnt,
		src: rand.New(cnt),
	}
}

// Roll returns a random integer in [1, size].
func (r *RNG) Roll(size int) (int, error) {
	if size <= 0 {
		return 0, fmt.Errorf("roll: invalid die size %d", size)
	}
	return r.src.Intn(size) + 1, nil
}

// RollN rolls count dice of the given size.
func (r *RNG) RollN(count, size int) ([]int, error) {
	if count < 0 {
		return nil, fmt.Errorf("roll: invalid dice count %d", count)
	}
	out := make([]int, count)
	for i := range out {
		v, err := r.Roll(size)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Pick returns an index in [0, n). n must be positive.
func (r *RNG) Pick(n int) int {
	return r.src.Intn(n)
}

// Position returns the number of source draws made since creation.
func (r *RNG) Position() int64 {
	return r.cnt.n
}

// RestoreRNG creates an RNG and advances it to the given position.
// This reproduces the exact RNG state for save/load.
func RestoreRNG(seed int64, position int64) *RNG {
	rng := NewRNG(seed)
	for i := int64(0); i < position; i++ {
		rng.cnt.Int63()
	}
	return rng
}

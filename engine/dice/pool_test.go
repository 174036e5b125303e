package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seqRoller returns 1 every time, a deterministic stand-in for the engine
// RNG.
type seqRoller struct{ calls int }

func (s *seqRoller) Roll(size int) (int, error) {
	s.calls++
	return 1, nil
}

func (s *seqRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		out[i], _ = s.Roll(size)
	}
	return out, nil
}

func TestNewPool_EvenSpread(t *testing.T) {
	r := &seqRoller{}
	p, err := NewPool(60, r)
	require.NoError(t, err)
	assert.Len(t, p.Faces, 60)
	assert.Equal(t, 59, r.calls)

	counts := map[int]int{}
	for _, f := range p.Faces {
		counts[f]++
	}
	for face := 1; face <= Sides; face++ {
		assert.Equal(t, 10, counts[face], "face %d", face)
	}
}

func TestPool_RecyclesFrontToBack(t *testing.T) {
	p := NewFixedPool(4, 5, 2)
	assert.Equal(t, []int{4, 5}, p.Roll(2))
	assert.Equal(t, []int{2, 4, 5, 2}, p.Roll(4))
}

func TestPool_RollZero(t *testing.T) {
	p := NewFixedPool(6, 6, 6)
	assert.Empty(t, p.Roll(0))
	assert.Equal(t, 0, Hits(p.Roll(0), 1))
	assert.Equal(t, 0, p.Next)
}

func TestHits_MonotonicInDice(t *testing.T) {
	p := NewFixedPool(1, 3, 5, 2, 6, 4, 4, 1)
	for threshold := 1; threshold <= Sides; threshold++ {
		prev := 0
		for n := 0; n <= 8; n++ {
			q := *p
			h := Hits(q.Roll(n), threshold)
			if h < prev {
				t.Fatalf("threshold %d: %d dice gave %d hits, fewer than %d", threshold, n, h, prev)
			}
			prev = h
		}
	}
}

func TestHits_Scenario(t *testing.T) {
	p := NewFixedPool(4, 5, 2)
	assert.Equal(t, 2, Hits(p.Roll(3), 4))
}

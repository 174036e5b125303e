// Package dice implements the shared six-sided dice pool. The pool is a
// finite multiset of faces shuffled once per game and then handed out
// front to back, wrapping around at the end, so the same pool and the same
// sequence of actions always produce the same rolls.
package dice

import (
	"fmt"

	"github.com/KirkDiggler/rpg-toolkit/dice"
)

// Sides is the number of faces of every die.
const Sides = 6

// DefaultSize is the pool length used when none is configured.
const DefaultSize = 120

// Pool is a recycled sequence of die faces.
type Pool struct {
	Faces []int `json:"faces"`
	Next  int   `json:"next"`
}

// NewPool builds a pool of size faces, an even spread of 1..6, shuffled
// once with roller.
func NewPool(size int, roller dice.Roller) (*Pool, error) {
	if size < Sides {
		size = Sides
	}
	faces := make([]int, size)
	for i := range faces {
		faces[i] = i%Sides + 1
	}
	// Fisher-Yates driven by the roller so shuffles are reproducible.
	for i := len(faces) - 1; i > 0; i-- {
		j, err := roller.Roll(i + 1)
		if err != nil {
			return nil, fmt.Errorf("shuffle dice pool: %w", err)
		}
		faces[i], faces[j-1] = faces[j-1], faces[i]
	}
	return &Pool{Faces: faces}, nil
}

// NewFixedPool returns a pool that replays faces in order.
func NewFixedPool(faces ...int) *Pool {
	return &Pool{Faces: append([]int(nil), faces...)}
}

// Roll draws n dice. Drawing zero dice returns an empty roll.
func (p *Pool) Roll(n int) []int {
	if n <= 0 || len(p.Faces) == 0 {
		return []int{}
	}
	out := make([]int, n)
	for i := range out {
		out[i] = p.Faces[p.Next]
		p.Next = (p.Next + 1) % len(p.Faces)
	}
	return out
}

// Hits counts the dice at or above threshold.
func Hits(rolls []int, threshold int) int {
	n := 0
	for _, r := range rolls {
		if r >= threshold {
			n++
		}
	}
	return n
}

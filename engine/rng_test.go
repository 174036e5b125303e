package engine

import "testing"

func mustRoll(t *testing.T, r *RNG, size int) int {
	t.Helper()
	v, err := r.Roll(size)
	if err != nil {
		t.Fatalf("Roll(%d): %v", size, err)
	}
	return v
}

func TestRNG_Deterministic(t *testing.T) {
	rng1 := NewRNG(42)
	rng2 := NewRNG(42)

	for i := 0; i < 20; i++ {
		a := mustRoll(t, rng1, 6)
		b := mustRoll(t, rng2, 6)
		if a != b {
			t.Fatalf("roll %d: got %d and %d from same seed", i, a, b)
		}
	}
}

func TestRNG_Roll_Range(t *testing.T) {
	rng := NewRNG(99)

	for i := 0; i < 1000; i++ {
		r := mustRoll(t, rng, 6)
		if r < 1 || r > 6 {
			t.Fatalf("roll out of range [1,6]: got %d", r)
		}
	}
}

func TestRNG_Roll_InvalidSize(t *testing.T) {
	rng := NewRNG(1)
	if _, err := rng.Roll(0); err == nil {
		t.Error("expected error for zero-sided die")
	}
	if rng.Position() != 0 {
		t.Errorf("failed roll advanced position to %d", rng.Position())
	}
}

func TestRNG_RollN(t *testing.T) {
	rng := NewRNG(7)
	rolls, err := rng.RollN(5, 6)
	if err != nil {
		t.Fatal(err)
	}
	if len(rolls) != 5 {
		t.Fatalf("RollN returned %d dice, want 5", len(rolls))
	}
	for _, r := range rolls {
		if r < 1 || r > 6 {
			t.Errorf("roll out of range: %d", r)
		}
	}
	if _, err := rng.RollN(-1, 6); err == nil {
		t.Error("expected error for negative count")
	}
}

func TestRNG_Pick_Range(t *testing.T) {
	a, b := NewRNG(7), NewRNG(7)
	for i := 0; i < 200; i++ {
		x := a.Pick(3)
		if x < 0 || x > 2 {
			t.Fatalf("pick out of range: %d", x)
		}
		if y := b.Pick(3); x != y {
			t.Fatalf("pick %d: got %d and %d from same seed", i, x, y)
		}
	}
	if a.Position() < 200 || a.Position() != b.Position() {
		t.Errorf("expected matching positions of at least 200, got %d and %d", a.Position(), b.Position())
	}
}

func TestRNG_Position_Advances(t *testing.T) {
	rng := NewRNG(42)
	if rng.Position() != 0 {
		t.Fatalf("expected position 0, got %d", rng.Position())
	}
	mustRoll(t, rng, 6)
	if rng.Position() == 0 {
		t.Fatal("position did not advance")
	}
	before := rng.Position()
	rng.Pick(3)
	if rng.Position() <= before {
		t.Fatal("Pick did not advance position")
	}
}

func TestRNG_Restore_MatchesPosition(t *testing.T) {
	rng := NewRNG(42)
	for i := 0; i < 10; i++ {
		mustRoll(t, rng, 6)
	}
	rng.Pick(7)
	pos := rng.Position()

	var expected [5]int
	for i := range expected {
		expected[i] = mustRoll(t, rng, 6)
	}

	restored := RestoreRNG(42, pos)
	if restored.Position() != pos {
		t.Fatalf("expected position %d, got %d", pos, restored.Position())
	}
	for i, want := range expected {
		if got := mustRoll(t, restored, 6); got != want {
			t.Fatalf("roll %d: expected %d, got %d", i, want, got)
		}
	}
}

func TestRNG_DifferentSeeds_DifferentResults(t *testing.T) {
	rng1 := NewRNG(1)
	rng2 := NewRNG(2)

	differs := false
	for i := 0; i < 20; i++ {
		if mustRoll(t, rng1, 100) != mustRoll(t, rng2, 100) {
			differs = true
			break
		}
	}
	if !differs {
		t.Error("expected different seeds to produce different results")
	}
}

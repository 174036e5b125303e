// Package types defines the shared data structures for the deadzone engine.
// This package contains only type definitions: no logic, no methods.
package types

// Event is emitted whenever the engine resolves something observable.
type Event struct {
	Type string
	Data map[string]any
}

// Event types.
const (
	EventPhase        = "phase"
	EventRound        = "round"
	EventMoved        = "moved"
	EventAttack       = "attack"
	EventKilled       = "killed"
	EventWounded      = "wounded"
	EventDied         = "died"
	EventSpawned      = "spawned"
	EventDoor         = "door"
	EventNoise        = "noise"
	EventFound        = "found"
	EventSkill        = "skill"
	EventObjective    = "objective"
	EventDragonFire   = "dragon_fire"
	EventZombieEscape = "zombie_escape"
	EventGameOver     = "game_over"
)

// Result is the output of a single engine step.
type Result struct {
	// Changed reports whether the step mutated game state.
	Changed bool
	Events  []Event
	Output  []string
}

// Outcome is the terminal status of a quest.
type Outcome struct {
	Over   bool
	Won    bool
	Reason string
}

// Package phase holds the turn-phase stack. Every pending decision is a
// record on the stack rather than a frame on the call stack, so the engine
// can stop between any two steps and resume from a saved game.
package phase

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind tags a phase record.
type Kind string

const (
	Init                  Kind = "INIT"
	BeginRound            Kind = "BEGIN_ROUND"
	Spawn                 Kind = "SPAWN"
	ChooseCharacter       Kind = "CHOOSE_CHARACTER"
	ChooseCharacterAction Kind = "CHOOSE_CHARACTER_ACTION"
	ChooseNewSkill        Kind = "CHOOSE_NEW_SKILL"
	ChooseKeepEquipment   Kind = "CHOOSE_KEEP_EQUIPMENT"
	ChooseSpawnAreaRemove Kind = "CHOOSE_SPAWN_AREA_TO_REMOVE"
	ChooseVaultItem       Kind = "CHOOSE_VAULT_ITEM"
	ZombieStage           Kind = "ZOMBIE_STAGE"
	GameOver              Kind = "GAME_OVER"
)

// Record is one entry of the stack: a phase tag, the character it concerns
// and an optional payload.
type Record struct {
	Kind      Kind   `json:"kind"`
	Character string `json:"character,omitempty"`
	Item      string `json:"item,omitempty"`
	Level     int    `json:"level,omitempty"`
	Zone      int    `json:"zone,omitempty"`
	Vault     int    `json:"vault,omitempty"`
	// User is the index of the user whose turn a CHOOSE_CHARACTER record
	// represents.
	User int `json:"user,omitempty"`
}

func (r Record) String() string {
	var b strings.Builder
	b.WriteString(string(r.Kind))
	if r.Character != "" {
		fmt.Fprintf(&b, " char=%s", r.Character)
	}
	if r.Item != "" {
		fmt.Fprintf(&b, " item=%s", r.Item)
	}
	return b.String()
}

// Stack is a LIFO of phase records.
type Stack struct {
	records []Record
}

// Push adds r on top.
func (s *Stack) Push(r Record) {
	s.records = append(s.records, r)
}

// Pop removes and returns the top record.
func (s *Stack) Pop() (Record, bool) {
	if len(s.records) == 0 {
		return Record{}, false
	}
	r := s.records[len(s.records)-1]
	s.records = s.records[:len(s.records)-1]
	return r, true
}

// Peek returns the top record without removing it.
func (s *Stack) Peek() (Record, bool) {
	if len(s.records) == 0 {
		return Record{}, false
	}
	return s.records[len(s.records)-1], true
}

// Top returns a pointer to the top record for in-place payload updates.
func (s *Stack) Top() *Record {
	if len(s.records) == 0 {
		return nil
	}
	return &s.records[len(s.records)-1]
}

// Len returns the number of records.
func (s *Stack) Len() int {
	return len(s.records)
}

// Clear empties the stack.
func (s *Stack) Clear() {
	s.records = nil
}

// Records returns a copy of the stack, bottom first.
func (s *Stack) Records() []Record {
	return append([]Record(nil), s.records...)
}

func (s Stack) MarshalJSON() ([]byte, error) {
	if s.records == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.records)
}

func (s *Stack) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &s.records)
}

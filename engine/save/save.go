// Package save implements JSON serialization of a whole game state and the
// stores that keep saved games.
package save

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/nathoo/deadzone/engine/actor"
	"github.com/nathoo/deadzone/engine/state"
)

// Version is the snapshot format version.
const Version = "1"

// ErrVersion is returned when loading a snapshot of another format version.
var ErrVersion = errors.New("unsupported save version")

// Snapshot is the JSON-serializable save format.
type Snapshot struct {
	Version string       `json:"version"`
	ID      string       `json:"id"`
	Quest   string       `json:"quest"`
	Round   int          `json:"round"`
	SavedAt time.Time    `json:"saved_at"`
	State   *state.State `json:"state"`
}

// Save serializes s under the game id.
func Save(id string, s *state.State) ([]byte, error) {
	if s == nil || s.Board == nil || s.Quest == nil {
		return nil, errors.New("save: incomplete state")
	}
	snap := Snapshot{
		Version: Version,
		ID:      id,
		Quest:   s.Quest.Name,
		Round:   s.Round,
		SavedAt: time.Now().UTC(),
		State:   s,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("save %s: %w", id, err)
	}
	return data, nil
}

// Load deserializes a snapshot and reconnects the board to the actors. The
// returned state resumes at the saved phase and RNG position once handed
// to engine.New.
func Load(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	if snap.Version != Version {
		return nil, fmt.Errorf("load %q: %w", snap.Version, ErrVersion)
	}
	s := snap.State
	if s == nil || s.Board == nil || s.Quest == nil || s.Pool == nil {
		return nil, errors.New("load: snapshot has no state")
	}
	normalize(s)
	if err := checkNames(s); err != nil {
		return nil, fmt.Errorf("load %s: %w", snap.ID, err)
	}
	s.Rebind()
	return &snap, nil
}

// checkNames rejects skills and zombie kinds this build does not know.
func checkNames(s *state.State) error {
	for _, c := range s.Characters {
		skills := append(slices.Clone(c.Skills), c.Available...)
		for _, row := range c.Tree {
			skills = append(skills, row...)
		}
		for _, sk := range skills {
			if _, ok := actor.ParseSkill(string(sk)); !ok {
				return fmt.Errorf("character %s has unknown skill %q", c.ID, sk)
			}
		}
	}
	for _, z := range s.Zombies {
		if _, ok := actor.ZombieTypes[z.Type]; !ok {
			return fmt.Errorf("zombie %s has unknown type %q", z.ID, z.Type)
		}
	}
	return nil
}

// normalize makes sure no map or slice is nil after a load.
func normalize(s *state.State) {
	if s.Characters == nil {
		s.Characters = []*actor.Character{}
	}
	if s.Zombies == nil {
		s.Zombies = []*actor.Zombie{}
	}
	if s.Floor == nil {
		s.Floor = map[int][]*actor.Item{}
	}
	if s.MoveLog == nil {
		s.MoveLog = []string{}
	}
	if s.Quest.Caps == nil {
		s.Quest.Caps = map[string]int{}
	}
	for _, c := range s.Characters {
		if c.Kills == nil {
			c.Kills = map[string]int{}
		}
		if c.Free == nil {
			c.Free = map[actor.FreeKind]int{}
		}
		if c.Vaults == nil {
			c.Vaults = map[int]bool{}
		}
		if c.Backpack == nil {
			c.Backpack = []*actor.Item{}
		}
	}
}

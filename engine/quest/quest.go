// Package quest holds the map-specific ruleset layered over the board:
// objectives, vaults, population caps, spawn and loot decks, and the
// win/loss evaluation.
package quest

import (
	"fmt"

	"github.com/nathoo/deadzone/engine/actor"
	"github.com/nathoo/deadzone/types"
)

// ObjectiveXP is the experience granted for taking an objective.
const ObjectiveXP = 5

// Objective is a token to take in a goal zone.
type Objective struct {
	Zone  int    `json:"zone"`
	Color string `json:"color,omitempty"`
	Taken bool   `json:"taken"`
}

// Vault is a sealed room with a pool of items. The first character to enter
// it picks one.
type Vault struct {
	ID     int      `json:"id"`
	Zone   int      `json:"zone"`
	Items  []string `json:"items"`
	Opened bool     `json:"opened"`
}

// SpawnEntry is one row of a spawn card.
type SpawnEntry struct {
	Zombie string `json:"zombie,omitempty"`
	Count  int    `json:"count,omitempty"`
	// ExtraActivation makes every zombie of type Zombie act again instead
	// of spawning.
	ExtraActivation bool `json:"extra_activation,omitempty"`
	// Necromancer adds one necromancer to the spawn.
	Necromancer bool `json:"necromancer,omitempty"`
}

// SpawnCard has one entry per danger level.
type SpawnCard struct {
	Name   string                      `json:"name"`
	Levels [actor.NumLevels]SpawnEntry `json:"levels"`
}

// InitialSpawn is a map-defined zombie group placed once at setup.
type InitialSpawn struct {
	Zone   int    `json:"zone"`
	Zombie string `json:"zombie"`
	Count  int    `json:"count"`
}

// Quest is the mutable quest state.
type Quest struct {
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	Characters  []string             `json:"characters"`
	Objectives  []*Objective         `json:"objectives"`
	Vaults      []*Vault             `json:"vaults"`
	Caps        map[string]int       `json:"caps"`
	SpawnCards  map[string]SpawnCard `json:"spawn_cards"`
	SpawnDeck   *Deck                `json:"spawn_deck"`
	LootDeck    *Deck                `json:"loot_deck"`
	Initial     []InitialSpawn       `json:"initial"`
	ExitZone    int                  `json:"exit_zone"`
	StartZone   int                  `json:"start_zone"`
	Escaped     bool                 `json:"escaped"`
}

// New returns an empty quest with default decks.
func New(name string) *Quest {
	q := &Quest{
		Name:       name,
		Caps:       map[string]int{},
		SpawnCards: map[string]SpawnCard{},
		ExitZone:   -1,
		StartZone:  -1,
	}
	var names []string
	for _, c := range DefaultSpawnCards {
		q.SpawnCards[c.Name] = c
		names = append(names, c.Name)
	}
	q.SpawnDeck = NewDeck(names)
	q.LootDeck = NewDeck(DefaultLoot)
	return q
}

// AddSpawnCard registers a card and puts it in the draw pile.
func (q *Quest) AddSpawnCard(c SpawnCard) error {
	if _, dup := q.SpawnCards[c.Name]; dup {
		return fmt.Errorf("duplicate spawn card %q", c.Name)
	}
	q.SpawnCards[c.Name] = c
	q.SpawnDeck.Draw = append(q.SpawnDeck.Draw, c.Name)
	return nil
}

// Remaining returns the objectives not taken yet.
func (q *Quest) Remaining() []*Objective {
	var out []*Objective
	for _, o := range q.Objectives {
		if !o.Taken {
			out = append(out, o)
		}
	}
	return out
}

// Found returns the objectives already taken.
func (q *Quest) Found() []*Objective {
	var out []*Objective
	for _, o := range q.Objectives {
		if o.Taken {
			out = append(out, o)
		}
	}
	return out
}

// ObjectiveIn returns the untaken objective in zone.
func (q *Quest) ObjectiveIn(zone int) *Objective {
	for _, o := range q.Objectives {
		if !o.Taken && o.Zone == zone {
			return o
		}
	}
	return nil
}

// Take marks the objective in zone as taken.
func (q *Quest) Take(zone int) (*Objective, error) {
	o := q.ObjectiveIn(zone)
	if o == nil {
		return nil, fmt.Errorf("no objective in zone %d", zone)
	}
	o.Taken = true
	return o, nil
}

// Vault returns the vault with id.
func (q *Quest) Vault(id int) *Vault {
	for _, v := range q.Vaults {
		if v.ID == id {
			return v
		}
	}
	return nil
}

// VaultIn returns the unopened vault whose room is zone.
func (q *Quest) VaultIn(zone int) *Vault {
	for _, v := range q.Vaults {
		if v.Zone == zone && !v.Opened {
			return v
		}
	}
	return nil
}

// Cap returns the population cap of a zombie type.
func (q *Quest) Cap(zombieType string) int {
	if c, ok := q.Caps[zombieType]; ok {
		return c
	}
	if t, ok := actor.ZombieTypes[zombieType]; ok {
		return t.Cap
	}
	return 0
}

// Allowance returns how many of want zombies of a type may spawn with
// present already on the board, and whether the cap was hit. At the cap
// nothing spawns; below it the spawn is clipped to the room left.
func (q *Quest) Allowance(zombieType string, present, want int) (int, bool) {
	room := q.Cap(zombieType) - present
	if room <= 0 {
		return 0, true
	}
	if want > room {
		return room, true
	}
	return want, false
}

// Evaluate decides whether the quest is over. Loss takes precedence: no
// living character, or an escaped necromancer.
func (q *Quest) Evaluate(chars []*actor.Character) types.Outcome {
	var living []*actor.Character
	for _, c := range chars {
		if c.Alive {
			living = append(living, c)
		}
	}
	if len(living) == 0 {
		return types.Outcome{Over: true, Reason: "all characters are dead"}
	}
	if q.Escaped {
		return types.Outcome{Over: true, Reason: "a necromancer escaped"}
	}
	if len(q.Objectives) == 0 && q.ExitZone < 0 {
		return types.Outcome{}
	}
	if len(q.Remaining()) > 0 {
		return types.Outcome{}
	}
	if q.ExitZone >= 0 {
		for _, c := range living {
			if !c.Exited && (!c.OnBoard() || c.Zone() != q.ExitZone) {
				return types.Outcome{}
			}
		}
	}
	return types.Outcome{Over: true, Won: true, Reason: "quest complete"}
}

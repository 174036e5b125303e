// Package state holds the complete mutable game state and the lookups over
// it. Everything the engine needs to resume lives here, so a State can be
// written out between any two steps and read back.
package state

import (
	"fmt"
	"sort"

	"github.com/nathoo/deadzone/engine/actor"
	"github.com/nathoo/deadzone/engine/board"
	"github.com/nathoo/deadzone/engine/dice"
	"github.com/nathoo/deadzone/engine/phase"
	"github.com/nathoo/deadzone/engine/quest"
	"github.com/nathoo/deadzone/types"
)

// State is the engine-owned game state.
type State struct {
	Board       *board.Board          `json:"board"`
	Quest       *quest.Quest          `json:"quest"`
	Characters  []*actor.Character    `json:"characters"`
	Zombies     []*actor.Zombie       `json:"zombies"`
	Stack       phase.Stack           `json:"stack"`
	Pool        *dice.Pool            `json:"pool"`
	Floor       map[int][]*actor.Item `json:"floor"`
	Round       int                   `json:"round"`
	Users       int                   `json:"users"`
	NextID      int                   `json:"next_id"`
	Outcome     types.Outcome         `json:"outcome"`
	RNGSeed     int64                 `json:"rng_seed"`
	RNGPosition int64                 `json:"rng_position"`
	MoveLog     []string              `json:"move_log"`
}

// NewState creates a fresh state over a compiled board and quest.
func NewState(b *board.Board, q *quest.Quest, pool *dice.Pool) *State {
	return &State{
		Board:      b,
		Quest:      q,
		Characters: []*actor.Character{},
		Zombies:    []*actor.Zombie{},
		Pool:       pool,
		Floor:      map[int][]*actor.Item{},
		Users:      1,
		MoveLog:    []string{},
	}
}

// NewID returns a fresh identifier with the given prefix.
func (s *State) NewID(prefix string) string {
	s.NextID++
	return fmt.Sprintf("%s%d", prefix, s.NextID)
}

// NewItem creates a uniquely identified item of a catalogue type.
func (s *State) NewItem(typ string) (*actor.Item, error) {
	if _, err := actor.Lookup(typ); err != nil {
		return nil, err
	}
	return &actor.Item{ID: s.NewID("i"), Type: typ}, nil
}

// Character returns the character with id.
func (s *State) Character(id string) *actor.Character {
	for _, c := range s.Characters {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Zombie returns the zombie with id.
func (s *State) Zombie(id string) *actor.Zombie {
	for _, z := range s.Zombies {
		if z.ID == id {
			return z
		}
	}
	return nil
}

// Actors lists every actor, characters first.
func (s *State) Actors() []actor.Actor {
	out := make([]actor.Actor, 0, len(s.Characters)+len(s.Zombies))
	for _, c := range s.Characters {
		out = append(out, c)
	}
	for _, z := range s.Zombies {
		out = append(out, z)
	}
	return out
}

// Rebind reconnects the board's occupant registry to the actors after a
// load.
func (s *State) Rebind() {
	actors := s.Actors()
	occ := make([]board.Occupant, len(actors))
	for i, a := range actors {
		occ[i] = a
	}
	s.Board.Rebind(occ)
}

// Living returns the characters still alive.
func (s *State) Living() []*actor.Character {
	var out []*actor.Character
	for _, c := range s.Characters {
		if c.Alive {
			out = append(out, c)
		}
	}
	return out
}

// CharactersOf returns the living characters controlled by user that are
// still on the board.
func (s *State) CharactersOf(user int) []*actor.Character {
	var out []*actor.Character
	for _, c := range s.Living() {
		if c.User == user && !c.Exited {
			out = append(out, c)
		}
	}
	return out
}

// CharactersIn returns the living characters in zone, in id order.
func (s *State) CharactersIn(zone int) []*actor.Character {
	var out []*actor.Character
	for _, c := range s.Living() {
		if c.OnBoard() && c.Zone() == zone {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ZombiesIn returns the zombies in zone, in spawn order.
func (s *State) ZombiesIn(zone int) []*actor.Zombie {
	var out []*actor.Zombie
	for _, z := range s.Zombies {
		if z.Alive && z.OnBoard() && z.Zone() == zone {
			out = append(out, z)
		}
	}
	return out
}

// CountZombies counts zombies of a type on the board.
func (s *State) CountZombies(typ string) int {
	n := 0
	for _, z := range s.Zombies {
		if z.Alive && z.Type == typ {
			n++
		}
	}
	return n
}

// AddZombie creates a zombie of typ in zone. It reports ErrOccupancy from
// the board when the zone is full.
func (s *State) AddZombie(typ string, zone int) (*actor.Zombie, error) {
	z, err := actor.NewZombie(s.NewID("z"), typ)
	if err != nil {
		return nil, err
	}
	if err := s.Board.AddActorToZone(z, zone); err != nil {
		return nil, err
	}
	s.Zombies = append(s.Zombies, z)
	return z, nil
}

// RemoveZombie takes a dead zombie off the board and out of the roster.
func (s *State) RemoveZombie(z *actor.Zombie) {
	s.Board.RemoveActor(z)
	for i, o := range s.Zombies {
		if o == z {
			s.Zombies = append(s.Zombies[:i], s.Zombies[i+1:]...)
			return
		}
	}
}

// DangerLevel is the highest level among living characters.
func (s *State) DangerLevel() actor.Level {
	lvl := actor.Blue
	for _, c := range s.Living() {
		if l := c.Level(); l > lvl {
			lvl = l
		}
	}
	return lvl
}

// FloorItems returns the items lying in zone.
func (s *State) FloorItems(zone int) []*actor.Item {
	return s.Floor[zone]
}

// DropItem leaves it on the floor of zone.
func (s *State) DropItem(zone int, it *actor.Item) {
	s.Floor[zone] = append(s.Floor[zone], it)
}

// PickItem removes the item with id from the floor of zone.
func (s *State) PickItem(zone int, id string) *actor.Item {
	items := s.Floor[zone]
	for i, it := range items {
		if it.ID == id {
			s.Floor[zone] = append(items[:i:i], items[i+1:]...)
			return it
		}
	}
	return nil
}

// Over reports whether the quest has ended.
func (s *State) Over() bool {
	return s.Outcome.Over
}

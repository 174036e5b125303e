// Package actor defines the board-occupying entities: characters and
// zombies. Both satisfy Actor, a closed interface over the two variants.
package actor

import (
	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/nathoo/deadzone/engine/board"
)

// Entity types reported by GetType.
const (
	TypeCharacter = "character"
	TypeZombie    = "zombie"
)

// CharacterPriority outranks every zombie for slot contention.
const CharacterPriority = 100

// Actor is implemented by *Character and *Zombie only.
type Actor interface {
	core.Entity
	board.Occupant
	Common() *Base
	sealed()
}

// Base holds the state every actor shares.
type Base struct {
	ID        string          `json:"id"`
	Placement board.Placement `json:"placement"`
	Actions   int             `json:"actions"`
	Alive     bool            `json:"alive"`
	Noisy     bool            `json:"noisy"`
	Invisible bool            `json:"invisible,omitempty"`
}

func (b *Base) GetID() string { return b.ID }
func (b *Base) IsNoisy() bool { return b.Alive && b.Noisy }
func (b *Base) Place() *board.Placement { return &b.Placement }
func (b *Base) Common() *Base { return b }
func (b *Base) Zone() int { return b.Placement.Zone }
func (b *Base) Cell() board.Pos { return b.Placement.Cell }
func (b *Base) OnBoard() bool { return b.Placement.OnBoard }

// Spend deducts cost action points. It refuses to go below zero.
func (b *Base) Spend(cost int) error {
	if cost > b.Actions {
		return ErrNoActions
	}
	b.Actions -= cost
	return nil
}

var (
	_ Actor = (*Character)(nil)
	_ Actor = (*Zombie)(nil)
)

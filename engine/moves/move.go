// Package moves builds the exact set of legal actions for a character.
// Moves are plain comparable values so the set can be checked for
// structural duplicates.
package moves

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nathoo/deadzone/engine/actor"
	"github.com/nathoo/deadzone/engine/board"
)

// ErrDuplicateMove reports two structurally equal moves in one catalog.
var ErrDuplicateMove = errors.New("duplicate move")

// Type is the kind of action a move performs.
type Type string

const (
	EndTurn         Type = "end_turn"
	SwitchCharacter Type = "switch"
	Equip           Type = "equip"
	Unequip         Type = "unequip"
	Dispose         Type = "dispose"
	Give            Type = "give"
	Search          Type = "search"
	MakeNoise       Type = "make_noise"
	Walk            Type = "walk"
	Sprint          Type = "sprint"
	Charge          Type = "charge"
	Shove           Type = "shove"
	Melee           Type = "melee"
	Ranged          Type = "ranged"
	Magic           Type = "magic"
	Throw           Type = "throw"
	Enchant         Type = "enchant"
	PickUp          Type = "pick_up"
	Drop            Type = "drop"
	OpenDoor        Type = "open_door"
	CloseDoor       Type = "close_door"
	Barricade       Type = "barricade"
	Consume         Type = "consume"
	TakeObjective   Type = "take_objective"
	ReachExit       Type = "reach_exit"
)

// Slot is an equipment destination.
type Slot int

const (
	NoSlot Slot = iota
	LeftHand
	RightHand
	Body
	Backpack
)

func (s Slot) String() string {
	switch s {
	case LeftHand:
		return "left hand"
	case RightHand:
		return "right hand"
	case Body:
		return "body"
	case Backpack:
		return "backpack"
	}
	return ""
}

// Move is one legal action. Fields unused by a type keep their zero value,
// except Zone which is -1.
type Move struct {
	Type      Type
	Character string
	Item      string
	ItemType  string
	Slot      Slot
	Target    string
	Zone      int
	Door      board.Door
	HasDoor   bool
	Cost      int
	Free      actor.FreeKind
}

func (m Move) String() string {
	var b strings.Builder
	b.WriteString(strings.ReplaceAll(string(m.Type), "_", " "))
	if m.ItemType != "" {
		fmt.Fprintf(&b, " %s", m.ItemType)
	}
	if m.Slot != NoSlot {
		fmt.Fprintf(&b, " to %s", m.Slot)
	}
	if m.Target != "" {
		fmt.Fprintf(&b, " -> %s", m.Target)
	}
	if m.Zone >= 0 {
		fmt.Fprintf(&b, " zone %d", m.Zone)
	}
	if m.HasDoor {
		fmt.Fprintf(&b, " door %s", m.Door)
	}
	switch {
	case m.Free != "":
		fmt.Fprintf(&b, " (free %s)", m.Free)
	case m.Cost != 1:
		fmt.Fprintf(&b, " (%d AP)", m.Cost)
	}
	return b.String()
}

// Verify checks that no two moves are structurally equal.
func Verify(ms []Move) error {
	seen := make(map[Move]int, len(ms))
	for i, m := range ms {
		if j, dup := seen[m]; dup {
			return fmt.Errorf("moves %d and %d are both %q: %w", j, i, m, ErrDuplicateMove)
		}
		seen[m] = i
	}
	return nil
}

// Contains reports whether m is one of ms.
func Contains(ms []Move, m Move) bool {
	for _, o := range ms {
		if o == m {
			return true
		}
	}
	return false
}

package loader

import (
	"fmt"
	"strings"

	"github.com/nathoo/deadzone/engine/actor"
	"github.com/nathoo/deadzone/engine/board"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) errorf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// validate checks the compiled scenario for references to unknown
// characters, zombies and items, and for quests that cannot be won.
func validate(sc *Scenario) error {
	ve := &ValidationError{}
	q := sc.Quest
	b := sc.Board

	if q.Name == "" {
		ve.errorf("Quest.name is required")
	}

	// Characters.
	if len(sc.Characters) == 0 {
		ve.errorf("Quest.characters is empty")
	}
	seen := map[string]bool{}
	for _, c := range sc.Characters {
		if _, ok := actor.Roster[c]; !ok {
			ve.errorf("unknown character %q", c)
		}
		if seen[c] {
			ve.errorf("character %q listed twice", c)
		}
		seen[c] = true
	}
	if sc.Users > len(sc.Characters) && len(sc.Characters) > 0 {
		ve.errorf("%d users but only %d characters", sc.Users, len(sc.Characters))
	}

	// Markers.
	if b.StartZone() < 0 {
		ve.errorf("map has no start cell (st)")
	}
	if len(q.Objectives) == 0 && b.ExitZone() < 0 {
		ve.warnf("quest has neither objectives nor an exit; it can only be lost")
	}
	if len(b.SpawnAreas()) == 0 {
		ve.warnf("map has no spawn points (sp)")
	}

	// Zombies.
	known := strings.Join(actor.ZombieTypeNames(), ", ")
	for typ := range q.Caps {
		if _, ok := actor.ZombieTypes[typ]; !ok {
			ve.errorf("cap for unknown zombie type %q (known: %s)", typ, known)
		}
	}
	for _, sp := range q.Initial {
		if _, ok := actor.ZombieTypes[sp.Zombie]; !ok {
			ve.errorf("zone %d places unknown zombie type %q (known: %s)", sp.Zone, sp.Zombie, known)
		}
	}
	for name, card := range q.SpawnCards {
		for lvl, e := range card.Levels {
			if e.Zombie == "" && (e.Count > 0 || e.ExtraActivation) {
				ve.errorf("spawn card %q %s row has no zombie type", name, actor.Level(lvl))
			} else if _, ok := actor.ZombieTypes[e.Zombie]; e.Zombie != "" && !ok {
				ve.errorf("spawn card %q uses unknown zombie type %q (known: %s)", name, e.Zombie, known)
			}
		}
	}

	// Items.
	for _, it := range q.LootDeck.Draw {
		if _, err := actor.Lookup(it); err != nil {
			ve.errorf("loot: %v", err)
		}
	}
	for _, v := range q.Vaults {
		if len(v.Items) == 0 {
			ve.warnf("vault %d is empty", v.ID)
		}
		for _, it := range v.Items {
			if _, err := actor.Lookup(it); err != nil {
				ve.errorf("vault %d: %v", v.ID, err)
			}
		}
		if z := b.Zone(v.Zone); z != nil && z.Type != board.Vault {
			ve.warnf("vault %d does not open into a vault zone (%s)", v.ID, z.Type)
		}
	}

	// Locks need a matching objective colour to ever open.
	colours := map[string]bool{}
	for _, o := range q.Objectives {
		if o.Color != "" {
			colours[o.Color] = true
		}
	}
	for _, d := range b.Doors() {
		if b.State(d) != board.WallLocked {
			continue
		}
		if c := b.Side(d).Color; !colours[c] {
			ve.warnf("door %s is locked %s and no objective unlocks it", d, c)
		}
	}

	// Warnings are non-fatal; the caller decides whether to show them.
	sc.Warnings = ve.Warnings
	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

package actor

import (
	"errors"
	"slices"
)

// ErrNoActions is returned when an action costs more than remains.
var ErrNoActions = errors.New("not enough action points")

const (
	// MaxWounds is the default number of wounds that kill a character.
	MaxWounds = 3
	// BackpackSize bounds the backpack.
	BackpackSize = 5
	// BaseActions is the per-round action budget before skills.
	BaseActions = 3
)

// FreeKind is a kind of free action granted by skills.
type FreeKind string

const (
	FreeMoveAction   FreeKind = "move"
	FreeMeleeAction  FreeKind = "melee"
	FreeRangedAction FreeKind = "ranged"
	FreeMagicAction  FreeKind = "magic"
	FreeSearchAction FreeKind = "search"
)

// freeSkills maps the free-action skills to the counter they fill.
var freeSkills = map[Skill]FreeKind{
	FreeMove:   FreeMoveAction,
	FreeMelee:  FreeMeleeAction,
	FreeRanged: FreeRangedAction,
	FreeMagic:  FreeMagicAction,
	FreeSearch: FreeSearchAction,
}

// Character is a player-controlled survivor.
type Character struct {
	Base
	Name      string             `json:"name"`
	User      int                `json:"user"`
	Wounds    int                `json:"wounds"`
	MaxWounds int                `json:"max_wounds"`
	XP        int                `json:"xp"`
	Hands     [2]*Item           `json:"hands"`
	Body      *Item              `json:"body,omitempty"`
	Backpack  []*Item            `json:"backpack"`
	Tree      [NumLevels][]Skill `json:"tree"`
	Skills    []Skill            `json:"skills"`
	Available []Skill            `json:"available"`
	Kills     map[string]int     `json:"kills"`
	Free      map[FreeKind]int   `json:"free"`
	Searched  bool               `json:"searched,omitempty"`
	Exited    bool               `json:"exited,omitempty"`
	Vaults    map[int]bool       `json:"vaults,omitempty"`
}

// NewCharacter creates a living character with its blue skills learned.
func NewCharacter(id, name string, tree [NumLevels][]Skill) *Character {
	c := &Character{
		Base:      Base{ID: id, Alive: true, Noisy: true},
		Name:      name,
		MaxWounds: MaxWounds,
		Tree:      tree,
		Backpack:  []*Item{},
		Kills:     map[string]int{},
		Free:      map[FreeKind]int{},
		Vaults:    map[int]bool{},
	}
	for _, s := range tree[Blue] {
		c.Learn(s)
	}
	return c
}

func (c *Character) GetType() string { return TypeCharacter }
func (c *Character) IsZombie() bool { return false }
func (c *Character) Priority() int { return CharacterPriority }
func (c *Character) sealed() {}

// Level returns the danger level reached.
func (c *Character) Level() Level {
	return LevelFor(c.XP)
}

// GainXP adds experience and returns the levels newly reached.
func (c *Character) GainXP(n int) []Level {
	before := c.Level()
	c.XP += n
	var reached []Level
	for l := before + 1; l <= c.Level(); l++ {
		reached = append(reached, l)
	}
	return reached
}

// SkillOptions returns the skills of level l not yet learned.
func (c *Character) SkillOptions(l Level) []Skill {
	var out []Skill
	for _, s := range c.Tree[l] {
		if !slices.Contains(c.Skills, s) {
			out = append(out, s)
		}
	}
	return out
}

// Learn adds s to the learned skills, usable immediately.
func (c *Character) Learn(s Skill) {
	if slices.Contains(c.Skills, s) {
		return
	}
	c.Skills = append(c.Skills, s)
	c.Available = append(c.Available, s)
	if s == PlusOneAction {
		c.Actions++
	}
	if k, ok := freeSkills[s]; ok {
		c.Free[k]++
	}
}

// MaxActions is the per-round action budget.
func (c *Character) MaxActions() int {
	if slices.Contains(c.Skills, PlusOneAction) {
		return BaseActions + 1
	}
	return BaseActions
}

// ResetRound restores the per-round budget, free actions and skills.
func (c *Character) ResetRound() {
	if !c.Alive {
		c.Actions = 0
		return
	}
	c.Actions = c.MaxActions()
	c.Searched = false
	c.Invisible = false
	c.Available = slices.Clone(c.Skills)
	c.Free = map[FreeKind]int{}
	for _, s := range c.Skills {
		if k, ok := freeSkills[s]; ok {
			c.Free[k]++
		}
	}
	if slices.Contains(c.Skills, Regeneration) {
		c.Wounds = 0
	}
}

// Has reports whether s is usable now, learned or granted by equipment.
func (c *Character) Has(s Skill) bool {
	return slices.Contains(c.ActiveSkills(), s)
}

// ActiveSkills lists usable skills: available learned skills in acquisition
// order, then skills granted by carried equipment.
func (c *Character) ActiveSkills() []Skill {
	out := slices.Clone(c.Available)
	for _, it := range c.Equipped() {
		for _, s := range it.Def().Skills {
			if !slices.Contains(out, s) {
				out = append(out, s)
			}
		}
	}
	for _, it := range c.Backpack {
		if it.Def().Slot != SlotBackpackOnly {
			continue
		}
		for _, s := range it.Def().Skills {
			if !slices.Contains(out, s) {
				out = append(out, s)
			}
		}
	}
	return out
}

// Use consumes a once-per-turn skill until the next round.
func (c *Character) Use(s Skill) {
	if i := slices.Index(c.Available, s); i >= 0 {
		c.Available = slices.Delete(c.Available, i, i+1)
	}
}

// TakeFree consumes one free action of kind k if any is left.
func (c *Character) TakeFree(k FreeKind) bool {
	if c.Free[k] > 0 {
		c.Free[k]--
		return true
	}
	return false
}

// Wound inflicts n wounds and reports whether the character died.
func (c *Character) Wound(n int) bool {
	if !c.Alive {
		return false
	}
	c.Wounds += n
	if c.Wounds >= c.MaxWounds {
		c.Wounds = c.MaxWounds
		c.Alive = false
		c.Noisy = false
		c.Actions = 0
		return true
	}
	return false
}

// Heal removes up to n wounds.
func (c *Character) Heal(n int) {
	c.Wounds = max(0, c.Wounds-n)
}

// Equipped lists hand and body items.
func (c *Character) Equipped() []*Item {
	var out []*Item
	for _, it := range c.Hands {
		if it != nil {
			out = append(out, it)
		}
	}
	if c.Body != nil {
		out = append(out, c.Body)
	}
	return out
}

// Items lists everything carried: hands, body, then backpack.
func (c *Character) Items() []*Item {
	return append(c.Equipped(), c.Backpack...)
}

// Find returns the carried item with id.
func (c *Character) Find(id string) *Item {
	for _, it := range c.Items() {
		if it.ID == id {
			return it
		}
	}
	return nil
}

// Remove takes the item with id out of whatever slot holds it.
func (c *Character) Remove(id string) *Item {
	for i, it := range c.Hands {
		if it != nil && it.ID == id {
			c.Hands[i] = nil
			return it
		}
	}
	if c.Body != nil && c.Body.ID == id {
		it := c.Body
		c.Body = nil
		return it
	}
	for i, it := range c.Backpack {
		if it.ID == id {
			c.Backpack = slices.Delete(c.Backpack, i, i+1)
			return it
		}
	}
	return nil
}

// BackpackFull reports whether the backpack has no room.
func (c *Character) BackpackFull() bool {
	return len(c.Backpack) >= BackpackSize
}

// Stow puts it into the backpack.
func (c *Character) Stow(it *Item) bool {
	if c.BackpackFull() {
		return false
	}
	c.Backpack = append(c.Backpack, it)
	return true
}

// Armour returns the best armour save threshold worn, 0 for none.
func (c *Character) Armour() int {
	best := 0
	for _, it := range c.Equipped() {
		if a := it.Def().Armour; a > 0 && (best == 0 || a < best) {
			best = a
		}
	}
	return best
}

// Weapons lists the equipped items with a profile for kind.
func (c *Character) Weapons(kind AttackKind) []*Item {
	var out []*Item
	for _, it := range c.Hands {
		if it != nil && it.Def().Weapon(kind) != nil {
			out = append(out, it)
		}
	}
	return out
}

// DualWielding reports whether both hands hold the same dual-wield type.
func (c *Character) DualWielding(it *Item) bool {
	a, b := c.Hands[0], c.Hands[1]
	return a != nil && b != nil && a.Type == b.Type && a.Type == it.Type && it.Def().DualWield
}

// CanOpenDoors returns the best door opener in hand, preferring quiet ones.
func (c *Character) CanOpenDoors() (*Item, bool) {
	var found *Item
	for _, it := range c.Hands {
		if it == nil || !it.Def().OpensDoors {
			continue
		}
		if found == nil || (found.Def().DoorNoisy && !it.Def().DoorNoisy) {
			found = it
		}
	}
	return found, found != nil
}

// RecordKill increments the kill counter for a zombie type.
func (c *Character) RecordKill(zombieType string) {
	if c.Kills == nil {
		c.Kills = map[string]int{}
	}
	c.Kills[zombieType]++
}

package actor

import (
	"fmt"
	"sort"

	"github.com/nathoo/deadzone/engine/board"
)

// Category groups zombie types by behaviour.
type Category string

const (
	CategoryStandard    Category = "standard"
	CategoryAbomination Category = "abomination"
	CategoryNecromancer Category = "necromancer"
)

// ZombieType is the immutable descriptor shared by every zombie of a kind.
type ZombieType struct {
	Name           string   `json:"name"`
	Category       Category `json:"category"`
	Threshold      int      `json:"threshold"`
	XP             int      `json:"xp"`
	Actions        int      `json:"actions"`
	IgnoresArmour  bool     `json:"ignores_armour"`
	TargetPriority int      `json:"target_priority"`
	Cap            int      `json:"cap"`
}

// ZombieTypes is the table of known zombie kinds.
var ZombieTypes = map[string]*ZombieType{
	"walker":      {Name: "walker", Category: CategoryStandard, Threshold: 1, XP: 1, Actions: 1, TargetPriority: 1, Cap: 35},
	"fatty":       {Name: "fatty", Category: CategoryStandard, Threshold: 2, XP: 1, Actions: 1, TargetPriority: 2, Cap: 16},
	"abomination": {Name: "abomination", Category: CategoryAbomination, Threshold: 3, XP: 5, Actions: 1, IgnoresArmour: true, TargetPriority: 2, Cap: 1},
	"runner":      {Name: "runner", Category: CategoryStandard, Threshold: 1, XP: 1, Actions: 2, TargetPriority: 3, Cap: 16},
	"necromancer": {Name: "necromancer", Category: CategoryNecromancer, Threshold: 1, XP: 1, Actions: 1, TargetPriority: 4, Cap: 2},
}

// ZombieTypeNames returns the known kinds sorted by target priority then
// name.
func ZombieTypeNames() []string {
	names := make([]string, 0, len(ZombieTypes))
	for n := range ZombieTypes {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := ZombieTypes[names[i]], ZombieTypes[names[j]]
		if a.TargetPriority != b.TargetPriority {
			return a.TargetPriority < b.TargetPriority
		}
		return a.Name < b.Name
	})
	return names
}

// Zombie is an enemy actor.
type Zombie struct {
	Base
	Type        string      `json:"type"`
	Activations int         `json:"activations"`
	Path        []board.Dir `json:"path,omitempty"`
	PathTarget  int         `json:"path_target"`
	// PathFrom is the cell Path starts from.
	PathFrom board.Pos `json:"path_from"`
	// Escape is the zone a necromancer flees to, -1 for none.
	Escape int `json:"escape"`
}

// NewZombie creates a zombie of a known type.
func NewZombie(id, typ string) (*Zombie, error) {
	if _, ok := ZombieTypes[typ]; !ok {
		return nil, fmt.Errorf("unknown zombie type %q", typ)
	}
	return &Zombie{Base: Base{ID: id, Alive: true}, Type: typ, PathTarget: -1, Escape: -1}, nil
}

func (z *Zombie) GetType() string { return TypeZombie }
func (z *Zombie) IsZombie() bool { return true }
func (z *Zombie) sealed() {}

// Priority ranks zombies for slot contention: tougher kinds hold their
// quadrant against weaker ones.
func (z *Zombie) Priority() int {
	return z.Def().Threshold
}

// Def returns the zombie's type descriptor.
func (z *Zombie) Def() *ZombieType {
	return ZombieTypes[z.Type]
}

// ResetRound restores the zombie's per-round actions.
func (z *Zombie) ResetRound() {
	z.Actions = z.Def().Actions
	z.Activations = 0
}

// ClearPath forgets the cached path.
func (z *Zombie) ClearPath() {
	z.Path = nil
	z.PathTarget = -1
}

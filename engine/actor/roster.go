package actor

import "fmt"

// Hero is a playable character template.
type Hero struct {
	Name    string
	Tree    [NumLevels][]Skill
	Starter string
}

// Roster lists the playable characters.
var Roster = map[string]Hero{
	"ann": {
		Name:    "Ann",
		Tree:    [NumLevels][]Skill{{FreeMelee}, {PlusOneAction}, {PlusDieMelee, Slippery}, {Lucky, Charge, Tough}},
		Starter: "short_sword",
	},
	"baldric": {
		Name:    "Baldric",
		Tree:    [NumLevels][]Skill{{FreeMagic}, {PlusOneAction}, {PlusDieMagic, SteadyHand}, {Lucky, Sprint, Regeneration}},
		Starter: "mana_blast",
	},
	"clovis": {
		Name:    "Clovis",
		Tree:    [NumLevels][]Skill{{PlusDamageMelee}, {PlusOneAction}, {Shove, Tough}, {SuperStrength, Bloodlust, FreeMelee}},
		Starter: "axe",
	},
	"nelly": {
		Name:    "Nelly",
		Tree:    [NumLevels][]Skill{{Marksman}, {PlusOneAction}, {PlusDieRanged, PlusRange}, {FreeRanged, HitAndRun, Lucky}},
		Starter: "short_bow",
	},
	"samson": {
		Name:    "Samson",
		Tree:    [NumLevels][]Skill{{Tough}, {PlusOneAction}, {PlusRollMelee, FreeMove}, {Charge, Shove, PlusDamageMelee}},
		Starter: "hammer",
	},
	"silas": {
		Name:    "Silas",
		Tree:    [NumLevels][]Skill{{FreeSearch}, {PlusOneAction}, {PlusRollRanged, Slippery}, {PlusDamageRanged, Sprint, SteadyHand}},
		Starter: "crossbow",
	},
}

// NewHero creates the character for a roster key.
func NewHero(key string) (*Character, error) {
	h, ok := Roster[key]
	if !ok {
		return nil, fmt.Errorf("unknown character %q", key)
	}
	return NewCharacter(key, h.Name, h.Tree), nil
}

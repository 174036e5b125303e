package actor

// Skill names a character ability. The effect of each skill lives in the
// skills package; here it is only an identifier.
type Skill string

const (
	PlusOneAction    Skill = "+1_action"
	PlusDieMelee     Skill = "+1_die_melee"
	PlusDieRanged    Skill = "+1_die_ranged"
	PlusDieMagic     Skill = "+1_die_magic"
	PlusDamageMelee  Skill = "+1_damage_melee"
	PlusDamageRanged Skill = "+1_damage_ranged"
	PlusRollMelee    Skill = "+1_to_roll_melee"
	PlusRollRanged   Skill = "+1_to_roll_ranged"
	PlusRange        Skill = "+1_max_range"
	FreeMove         Skill = "+1_free_move"
	FreeMelee        Skill = "+1_free_melee"
	FreeRanged       Skill = "+1_free_ranged"
	FreeMagic        Skill = "+1_free_magic"
	FreeSearch       Skill = "+1_free_search"
	Marksman         Skill = "marksman"
	SteadyHand       Skill = "steady_hand"
	Slippery         Skill = "slippery"
	Lucky            Skill = "lucky"
	Sprint           Skill = "sprint"
	Charge           Skill = "charge"
	Shove            Skill = "shove"
	Tough            Skill = "tough"
	HitAndRun        Skill = "hit_and_run"
	Regeneration     Skill = "regeneration"
	SuperStrength    Skill = "super_strength"
	Bloodlust        Skill = "bloodlust"
)

// AllSkills lists every known skill.
var AllSkills = []Skill{
	PlusOneAction, PlusDieMelee, PlusDieRanged, PlusDieMagic,
	PlusDamageMelee, PlusDamageRanged, PlusRollMelee, PlusRollRanged,
	PlusRange, FreeMove, FreeMelee, FreeRanged, FreeMagic, FreeSearch,
	Marksman, SteadyHand, Slippery, Lucky, Sprint, Charge, Shove, Tough,
	HitAndRun, Regeneration, SuperStrength, Bloodlust,
}

// ParseSkill looks up a skill by name.
func ParseSkill(name string) (Skill, bool) {
	for _, s := range AllSkills {
		if string(s) == name {
			return s, true
		}
	}
	return "", false
}

// Level is a danger level reached through experience.
type Level int

const (
	Blue Level = iota
	Yellow
	Orange
	Red
)

// NumLevels is the number of danger levels.
const NumLevels = 4

var levelNames = [NumLevels]string{"blue", "yellow", "orange", "red"}

func (l Level) String() string {
	if l < 0 || int(l) >= NumLevels {
		return "invalid"
	}
	return levelNames[l]
}

// LevelThresholds is the experience needed to reach each level.
var LevelThresholds = [NumLevels]int{0, 7, 19, 43}

// LevelFor returns the level reached with xp experience.
func LevelFor(xp int) Level {
	lvl := Blue
	for i, min := range LevelThresholds {
		if xp >= min {
			lvl = Level(i)
		}
	}
	return lvl
}

// ParseLevel converts a level name.
func ParseLevel(name string) (Level, bool) {
	for i, n := range levelNames {
		if n == name {
			return Level(i), true
		}
	}
	return 0, false
}

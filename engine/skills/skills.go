// Package skills implements the skill intercept pipeline. Each skill is a
// pure intercept over an attack context; the pipeline applies them in the
// character's acquisition order.
//
// Pre-roll intercepts are modifiers and always accumulate. Post-roll and
// defend intercepts stop at the first terminal effect (reroll or veto);
// earlier non-terminal effects such as granted free actions still count.
package skills

import (
	"github.com/nathoo/deadzone/engine/actor"
)

// Stage is the point of the attack an intercept hooks.
type Stage int

const (
	PreRoll Stage = iota
	PostRoll
	Defend
)

// Attack is the context intercepts read and modify.
type Attack struct {
	Kind      actor.AttackKind
	Dice      int
	Threshold int
	Damage    int
	MinRange  int
	MaxRange  int
	Rolls     []int
	Hits      int
	Rerolled  bool
	// Wounds is the damage about to be dealt to a defending character.
	Wounds int
}

// Score recounts hits from the current rolls.
func (a *Attack) Score() {
	a.Hits = 0
	for _, r := range a.Rolls {
		if r >= a.Threshold {
			a.Hits++
		}
	}
}

// EffectType tags what an intercept did.
type EffectType string

const (
	Modify    EffectType = "modify"
	Reroll    EffectType = "reroll"
	Veto      EffectType = "veto"
	GrantFree EffectType = "grant_free"
)

// Effect records one applied intercept.
type Effect struct {
	Type  EffectType
	Skill actor.Skill
	Free  actor.FreeKind
}

// Terminal reports whether the effect ends the post-roll chain.
func (e Effect) Terminal() bool {
	return e.Type == Reroll || e.Type == Veto
}

// Intercept is a skill's hook into the pipeline.
type Intercept struct {
	Skill actor.Skill
	Stage Stage
	// Kinds restricts the attack kinds the intercept applies to; empty
	// means every kind.
	Kinds []actor.AttackKind
	When  func(a *Attack) bool
	Do    func(a *Attack) Effect
}

func (ic Intercept) matches(stage Stage, a *Attack) bool {
	if ic.Stage != stage {
		return false
	}
	if len(ic.Kinds) > 0 {
		ok := false
		for _, k := range ic.Kinds {
			if k == a.Kind {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return ic.When == nil || ic.When(a)
}

var (
	melee  = []actor.AttackKind{actor.AttackMelee}
	ranged = []actor.AttackKind{actor.AttackRanged}
	magic  = []actor.AttackKind{actor.AttackMagic}
)

func modify(f func(a *Attack)) func(a *Attack) Effect {
	return func(a *Attack) Effect {
		f(a)
		return Effect{Type: Modify}
	}
}

func grant(k actor.FreeKind) func(a *Attack) Effect {
	return func(*Attack) Effect { return Effect{Type: GrantFree, Free: k} }
}

// Table maps skills to their intercepts. A skill may hook several stages.
var Table = map[actor.Skill][]Intercept{
	actor.PlusDieMelee:     {{Stage: PreRoll, Kinds: melee, Do: modify(func(a *Attack) { a.Dice++ })}},
	actor.PlusDieRanged:    {{Stage: PreRoll, Kinds: ranged, Do: modify(func(a *Attack) { a.Dice++ })}},
	actor.PlusDieMagic:     {{Stage: PreRoll, Kinds: magic, Do: modify(func(a *Attack) { a.Dice++ })}},
	actor.PlusDamageMelee:  {{Stage: PreRoll, Kinds: melee, Do: modify(func(a *Attack) { a.Damage++ })}},
	actor.PlusDamageRanged: {{Stage: PreRoll, Kinds: ranged, Do: modify(func(a *Attack) { a.Damage++ })}},
	actor.PlusRollMelee:    {{Stage: PreRoll, Kinds: melee, Do: modify(lowerThreshold)}},
	actor.PlusRollRanged:   {{Stage: PreRoll, Kinds: ranged, Do: modify(lowerThreshold)}},
	actor.PlusRange:        {{Stage: PreRoll, Kinds: ranged, When: func(a *Attack) bool { return a.MaxRange > 0 }, Do: modify(func(a *Attack) { a.MaxRange++ })}},
	actor.SuperStrength:    {{Stage: PreRoll, Kinds: melee, Do: modify(func(a *Attack) { a.Damage = max(a.Damage, 3) })}},
	actor.Lucky: {{
		Stage: PostRoll,
		When:  func(a *Attack) bool { return !a.Rerolled && a.Hits < len(a.Rolls) },
		Do:    func(*Attack) Effect { return Effect{Type: Reroll} },
	}},
	actor.HitAndRun: {{Stage: PostRoll, When: scored, Do: grant(actor.FreeMoveAction)}},
	actor.Bloodlust: {{Stage: PostRoll, Kinds: melee, When: scored, Do: grant(actor.FreeMeleeAction)}},
	actor.Tough: {{
		Stage: Defend,
		When:  func(a *Attack) bool { return a.Wounds > 0 },
		Do:    func(*Attack) Effect { return Effect{Type: Veto} },
	}},
}

func lowerThreshold(a *Attack) {
	if a.Threshold > 2 {
		a.Threshold--
	}
}

func scored(a *Attack) bool { return a.Hits > 0 }

func collect(stage Stage, owned []actor.Skill, a *Attack) []Intercept {
	var out []Intercept
	for _, s := range owned {
		for _, ic := range Table[s] {
			if ic.matches(stage, a) {
				ic.Skill = s
				out = append(out, ic)
			}
		}
	}
	return out
}

// ApplyPreRoll applies every matching modifier in order.
func ApplyPreRoll(owned []actor.Skill, a *Attack) []Effect {
	var effects []Effect
	for _, ic := range collect(PreRoll, owned, a) {
		e := ic.Do(a)
		e.Skill = ic.Skill
		effects = append(effects, e)
	}
	return effects
}

// ApplyPostRoll runs post-roll intercepts until the first terminal effect.
// A reroll draws fresh dice through reroll and rescoring happens here.
func ApplyPostRoll(owned []actor.Skill, a *Attack, reroll func(n int) []int) []Effect {
	var effects []Effect
	for _, s := range owned {
		for _, ic := range Table[s] {
			if !ic.matches(PostRoll, a) {
				continue
			}
			e := ic.Do(a)
			e.Skill = s
			effects = append(effects, e)
			if e.Type == Reroll {
				a.Rolls = reroll(len(a.Rolls))
				a.Rerolled = true
				a.Score()
			}
			if e.Terminal() {
				return effects
			}
		}
	}
	return effects
}

// ApplyDefend runs defend intercepts for a character about to be wounded
// and reports whether the wound was vetoed.
func ApplyDefend(owned []actor.Skill, a *Attack) (Effect, bool) {
	for _, s := range owned {
		for _, ic := range Table[s] {
			if !ic.matches(Defend, a) {
				continue
			}
			e := ic.Do(a)
			e.Skill = s
			if e.Type == Veto {
				a.Wounds = 0
				return e, true
			}
		}
	}
	return Effect{}, false
}

package engine

import (
	"fmt"

	"github.com/nathoo/deadzone/engine/actor"
	"github.com/nathoo/deadzone/engine/phase"
	"github.com/nathoo/deadzone/engine/skills"
	"github.com/nathoo/deadzone/types"
)

// attack resolves one melee, ranged or magic action by c with it against
// the zombies of zone.
func (e *Engine) attack(result *types.Result, c *actor.Character, it *actor.Item, kind actor.AttackKind, zone int) error {
	s := e.State
	if it == nil {
		return fmt.Errorf("%s attack: weapon not carried", kind)
	}
	w := it.Def().Weapon(kind)
	if w == nil {
		return fmt.Errorf("%s attack: %s has no %s profile", kind, it, kind)
	}

	// 1. Pre-roll modifiers.
	a := &skills.Attack{Kind: kind, Dice: w.Dice, Threshold: w.Threshold, Damage: w.Damage, MinRange: w.MinRange, MaxRange: w.MaxRange}
	if c.DualWielding(it) {
		a.Dice *= 2
	}
	owned := c.ActiveSkills()
	skills.ApplyPreRoll(owned, a)

	// 2. Roll and post-roll intercepts.
	a.Rolls = s.Pool.Roll(a.Dice)
	a.Score()
	for _, eff := range skills.ApplyPostRoll(owned, a, s.Pool.Roll) {
		if eff.Type == skills.GrantFree {
			c.Free[eff.Free]++
		}
		e.emit(result, types.EventSkill, map[string]any{"character": c.ID, "skill": string(eff.Skill), "effect": string(eff.Type)})
	}

	// 3. Assign hits in target order.
	zs := s.ZombiesIn(zone)
	present := len(zs)
	if kind == actor.AttackMelee {
		actor.SortForMelee(zs, a.Damage)
	} else {
		actor.SortForRanged(zs, c.Has(actor.Marksman))
	}
	e.emit(result, types.EventAttack, map[string]any{
		"character": c.ID, "weapon": it.Type, "kind": kind.String(), "zone": zone,
		"rolls": a.Rolls, "hits": a.Hits,
	})
	e.say(result, "%s attacks zone %d with the %s: %v, %d hits.", c.Name, zone, it, a.Rolls, a.Hits)
	for hits := a.Hits; hits > 0 && len(zs) > 0; hits-- {
		t := zs[0]
		if a.Damage < t.Def().Threshold {
			continue
		}
		e.kill(result, c, t)
		zs = zs[1:]
	}

	if w.Noisy {
		s.Board.AddNoise(c.Zone(), 1)
	}

	// 4. Friendly fire for shots that missed every zombie.
	if kind != actor.AttackMelee && !c.Has(actor.SteadyHand) {
		if excess := len(a.Rolls) - a.Hits - present; excess > 0 {
			e.friendlyFire(result, c, zone, excess)
		}
	}
	return nil
}

// kill removes z and credits c.
func (e *Engine) kill(result *types.Result, c *actor.Character, z *actor.Zombie) {
	s := e.State
	z.Alive = false
	s.RemoveZombie(z)
	c.RecordKill(z.Type)
	e.emit(result, types.EventKilled, map[string]any{"character": c.ID, "zombie": z.ID, "type": z.Type})
	e.say(result, "%s kills a %s.", c.Name, z.Type)
	if z.Def().Category == actor.CategoryNecromancer {
		s.Stack.Push(phase.Record{Kind: phase.ChooseSpawnAreaRemove, Character: c.ID})
	}
	e.gainXP(c, z.Def().XP)
}

// friendlyFire wounds the most vulnerable ally in zone once per excess
// miss.
func (e *Engine) friendlyFire(result *types.Result, c *actor.Character, zone, excess int) {
	for i := 0; i < excess; i++ {
		var allies []*actor.Character
		for _, o := range e.State.CharactersIn(zone) {
			if o.ID != c.ID {
				allies = append(allies, o)
			}
		}
		if len(allies) == 0 {
			return
		}
		actor.SortByVulnerability(allies)
		e.woundCharacter(result, allies[0], false, c.ID)
	}
}

// woundCharacter deals one wound to c after an armour save unless
// ignoreArmour. source names the attacker in events.
func (e *Engine) woundCharacter(result *types.Result, c *actor.Character, ignoreArmour bool, source string) {
	s := e.State
	if arm := c.Armour(); arm > 0 && !ignoreArmour {
		if rolls := s.Pool.Roll(1); len(rolls) == 1 && rolls[0] >= arm {
			e.say(result, "%s's armour holds (%d).", c.Name, rolls[0])
			return
		}
	}
	a := &skills.Attack{Kind: actor.AttackMelee, Wounds: 1}
	if eff, vetoed := skills.ApplyDefend(c.ActiveSkills(), a); vetoed {
		c.Use(eff.Skill)
		e.emit(result, types.EventSkill, map[string]any{"character": c.ID, "skill": string(eff.Skill), "effect": string(eff.Type)})
		e.say(result, "%s shrugs off the blow.", c.Name)
		return
	}
	died := c.Wound(a.Wounds)
	e.emit(result, types.EventWounded, map[string]any{"character": c.ID, "source": source, "wounds": c.Wounds})
	e.say(result, "%s is wounded (%d/%d).", c.Name, c.Wounds, c.MaxWounds)
	if died {
		e.characterDied(result, c)
	}
}

// characterDied reports a death. The body stays on the board; it no longer
// counts toward noise.
func (e *Engine) characterDied(result *types.Result, c *actor.Character) {
	e.State.Board.Recount(c.Zone())
	e.emit(result, types.EventDied, map[string]any{"character": c.ID})
	e.say(result, "%s is dead.", c.Name)
	e.Log.Info().Str("character", c.ID).Int("round", e.State.Round).Msg("character died")
}

// throw resolves a thrown torch or dragon bile. A torch into a bile zone
// sets off dragon fire.
func (e *Engine) throw(result *types.Result, c *actor.Character, it *actor.Item, zone int) error {
	s := e.State
	if it == nil || !it.Def().Throwable {
		return fmt.Errorf("throw: %w", ErrUnofferedChoice)
	}
	z := s.Board.Zone(zone)
	if z == nil {
		return fmt.Errorf("throw: unknown zone %d", zone)
	}
	c.Remove(it.ID)
	s.Quest.LootDeck.Put(it.Type)
	e.say(result, "%s throws the %s into zone %d.", c.Name, it, zone)
	switch {
	case it.Def().Bile:
		z.Bile = true
	case it.Def().Torch && z.Bile:
		e.dragonFire(result, c, zone)
	}
	return nil
}

// dragonFire kills every actor in zone. Zombies burnt count as c's kills.
func (e *Engine) dragonFire(result *types.Result, c *actor.Character, zone int) {
	s := e.State
	s.Board.Zone(zone).Bile = false
	e.emit(result, types.EventDragonFire, map[string]any{"character": c.ID, "zone": zone})
	e.say(result, "Dragon fire engulfs zone %d!", zone)
	for _, z := range s.ZombiesIn(zone) {
		e.kill(result, c, z)
	}
	for _, o := range s.CharactersIn(zone) {
		if o.Wound(o.MaxWounds) {
			e.characterDied(result, o)
		}
	}
}

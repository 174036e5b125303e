package engine

import (
	"fmt"

	"github.com/nathoo/deadzone/engine/actor"
	"github.com/nathoo/deadzone/engine/quest"
	"github.com/nathoo/deadzone/types"
)

// spawn draws one card per spawn area and applies the danger-level row.
func (e *Engine) spawn(result *types.Result) error {
	s := e.State
	s.Stack.Pop()
	lvl := s.DangerLevel()
	for _, area := range s.Board.SpawnAreas() {
		name, ok, err := s.Quest.SpawnDeck.Next(e.RNG)
		if err != nil {
			return fmt.Errorf("spawn: %w", err)
		}
		if !ok {
			e.Log.Warn().Msg("spawn deck is empty")
			return nil
		}
		s.Quest.SpawnDeck.Put(name)
		card, ok := s.Quest.SpawnCards[name]
		if !ok {
			return fmt.Errorf("spawn: unknown card %q", name)
		}
		e.Log.Debug().Str("card", name).Str("level", lvl.String()).Int("zone", area.Zone).Msg("spawn card")
		if err := e.applySpawn(result, card.Levels[lvl], area.Zone); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) applySpawn(result *types.Result, entry quest.SpawnEntry, zone int) error {
	if entry.ExtraActivation {
		e.extraActivation(result, entry.Zombie)
		return nil
	}
	if entry.Zombie != "" && entry.Count > 0 {
		if err := e.spawnGroup(result, entry.Zombie, entry.Count, zone); err != nil {
			return err
		}
	}
	if entry.Necromancer {
		return e.spawnGroup(result, "necromancer", 1, zone)
	}
	return nil
}

// spawnGroup places up to want zombies of typ in zone within the
// population cap. Hitting the cap activates every zombie of the type once
// more.
func (e *Engine) spawnGroup(result *types.Result, typ string, want, zone int) error {
	s := e.State
	n, capped := s.Quest.Allowance(typ, s.CountZombies(typ), want)
	placed := 0
	for ; placed < n; placed++ {
		if _, err := e.spawnZombie(result, typ, zone); err != nil {
			e.Log.Warn().Err(err).Str("type", typ).Int("zone", zone).Msg("spawn overflow")
			break
		}
	}
	if placed > 0 {
		e.say(result, "%d %s spawn in zone %d.", placed, typ, zone)
	}
	if capped {
		e.extraActivation(result, typ)
	}
	return nil
}

// spawnZombie creates one zombie ready to act this round. Necromancers
// are given their escape route.
func (e *Engine) spawnZombie(result *types.Result, typ string, zone int) (*actor.Zombie, error) {
	s := e.State
	z, err := s.AddZombie(typ, zone)
	if err != nil {
		return nil, fmt.Errorf("spawn %s in zone %d: %w", typ, zone, err)
	}
	z.ResetRound()
	if z.Def().Category == actor.CategoryNecromancer {
		z.Escape = e.escapeRoute(z)
	}
	e.emit(result, types.EventSpawned, map[string]any{"zombie": z.ID, "type": typ, "zone": zone})
	return z, nil
}

// escapeRoute is the nearest spawn zone other than the one z stands in,
// or -1 when there is none.
func (e *Engine) escapeRoute(z *actor.Zombie) int {
	b := e.State.Board
	best, bestLen := -1, 0
	for _, area := range b.SpawnAreas() {
		if area.Zone == z.Zone() {
			continue
		}
		opts := b.ShortestPathOptions(z.Cell(), area.Zone)
		if len(opts) == 0 {
			continue
		}
		if best < 0 || len(opts[0]) < bestLen {
			best, bestLen = area.Zone, len(opts[0])
		}
	}
	return best
}

// extraActivation gives every zombie of typ another activation.
func (e *Engine) extraActivation(result *types.Result, typ string) {
	n := 0
	for _, z := range e.State.Zombies {
		if z.Alive && z.Type == typ {
			z.Actions += z.Def().Actions
			n++
		}
	}
	if n > 0 {
		e.emit(result, types.EventSpawned, map[string]any{"type": typ, "extra_activation": true, "count": n})
		e.say(result, "Every %s gets an extra activation.", typ)
	}
}

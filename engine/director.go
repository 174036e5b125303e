package engine

import (
	"errors"

	"github.com/nathoo/deadzone/engine/actor"
	"github.com/nathoo/deadzone/engine/board"
	"github.com/nathoo/deadzone/engine/phase"
	"github.com/nathoo/deadzone/types"
)

// zombieStage activates the zone holding the most zombies with actions
// left. Each of them takes one action; the stage ends when no zombie has
// actions left.
func (e *Engine) zombieStage(result *types.Result) error {
	s := e.State
	zone, ready := e.nextZombieZone()
	if zone < 0 {
		s.Stack.Pop()
		s.Stack.Push(phase.Record{Kind: phase.BeginRound})
		return nil
	}
	for _, z := range ready {
		if z.Alive && z.OnBoard() && z.Actions > 0 {
			e.activate(result, z)
		}
		e.evaluate(result)
		if s.Outcome.Over {
			break
		}
	}
	return nil
}

// nextZombieZone returns the zone with the most zombies ready to act,
// lowest index on ties, with those zombies in spawn order.
func (e *Engine) nextZombieZone() (int, []*actor.Zombie) {
	byZone := map[int][]*actor.Zombie{}
	for _, z := range e.State.Zombies {
		if z.Alive && z.OnBoard() && z.Actions > 0 {
			byZone[z.Zone()] = append(byZone[z.Zone()], z)
		}
	}
	best := -1
	for zone, zs := range byZone {
		if best < 0 || len(zs) > len(byZone[best]) || (len(zs) == len(byZone[best]) && zone < best) {
			best = zone
		}
	}
	return best, byZone[best]
}

// activate spends one action of z: attack a character in its zone, escape,
// or step toward its target.
func (e *Engine) activate(result *types.Result, z *actor.Zombie) {
	s := e.State
	z.Actions--
	z.Activations++

	if victim := e.victim(z); victim != nil {
		e.emit(result, types.EventAttack, map[string]any{"zombie": z.ID, "type": z.Type, "character": victim.ID})
		e.say(result, "A %s attacks %s.", z.Type, victim.Name)
		e.woundCharacter(result, victim, z.Def().IgnoresArmour, z.ID)
		return
	}

	if z.Escape >= 0 && z.Zone() == z.Escape {
		s.Quest.Escaped = true
		s.RemoveZombie(z)
		e.emit(result, types.EventZombieEscape, map[string]any{"zombie": z.ID, "zone": z.Escape})
		e.say(result, "A %s escapes through zone %d!", z.Type, z.Escape)
		return
	}

	target := e.zombieTarget(z)
	if target < 0 || target == z.Zone() {
		return
	}
	from := z.Zone()
	if e.stepToward(z, target) {
		e.emit(result, types.EventMoved, map[string]any{"zombie": z.ID, "from": from, "to": z.Zone()})
	}
}

// victim returns the most vulnerable visible character sharing z's zone.
func (e *Engine) victim(z *actor.Zombie) *actor.Character {
	var cs []*actor.Character
	for _, c := range e.State.CharactersIn(z.Zone()) {
		if !c.Invisible && !c.Exited {
			cs = append(cs, c)
		}
	}
	if len(cs) == 0 {
		return nil
	}
	actor.SortByVulnerability(cs)
	return cs[0]
}

// zombieTarget picks where z heads: its escape route, the nearest visible
// noisy character, the loudest zone, or a random neighbour.
func (e *Engine) zombieTarget(z *actor.Zombie) int {
	s := e.State
	b := s.Board
	here := z.Zone()
	if z.Escape >= 0 {
		return z.Escape
	}

	best, bestDist := -1, 0
	for _, c := range s.Living() {
		if !c.OnBoard() || c.Invisible || !c.IsNoisy() {
			continue
		}
		d := b.ZoneDistance(here, c.Zone())
		if d < 0 {
			continue
		}
		if best < 0 || d < bestDist || (d == bestDist && b.Zone(c.Zone()).Noise > b.Zone(best).Noise) {
			best, bestDist = c.Zone(), d
		}
	}
	if best >= 0 {
		return best
	}

	best, bestLen := -1, 0
	for _, zone := range b.LoudestZones() {
		opts := b.ShortestPathOptions(z.Cell(), zone)
		if len(opts) == 0 {
			continue
		}
		if best < 0 || len(opts[0]) < bestLen {
			best, bestLen = zone, len(opts[0])
		}
	}
	if best >= 0 {
		return best
	}

	near := b.AccessibleZones(here, 1, 1, board.Movement)
	if len(near) == 0 {
		return -1
	}
	return near[e.RNG.Pick(len(near))]
}

// stepToward moves z one zone along its cached path to target, planning a
// new path when the target changed, the old one is blocked, or z no longer
// stands where the path starts. Ties between shortest paths are broken
// with the RNG.
func (e *Engine) stepToward(z *actor.Zombie, target int) bool {
	b := e.State.Board
	for attempt := 0; attempt < 2; attempt++ {
		if z.PathTarget != target || len(z.Path) == 0 || z.PathFrom != z.Cell() {
			opts := b.ShortestPathOptions(z.Cell(), target)
			if len(opts) == 0 {
				z.ClearPath()
				return false
			}
			pick := 0
			if len(opts) > 1 {
				pick = e.RNG.Pick(len(opts))
			}
			z.Path, z.PathTarget, z.PathFrom = opts[pick], target, z.Cell()
		}
		nz, at, rest, ok := b.NextZone(z.Cell(), z.Path)
		if !ok {
			z.ClearPath()
			continue
		}
		err := b.MoveActor(z, at)
		if errors.Is(err, board.ErrOccupancy) {
			err = b.MoveActorToZone(z, nz)
			rest = nil
		}
		if err != nil {
			e.Log.Debug().Err(err).Str("zombie", z.ID).Int("zone", nz).Msg("zombie blocked")
			return false
		}
		z.Path, z.PathFrom = rest, z.Cell()
		if len(rest) == 0 {
			z.PathTarget = -1
		}
		return true
	}
	return false
}

package engine

import (
	"context"
	"fmt"
	"maps"

	"github.com/nathoo/deadzone/engine/actor"
	"github.com/nathoo/deadzone/engine/moves"
	"github.com/nathoo/deadzone/engine/phase"
	"github.com/nathoo/deadzone/engine/quest"
	"github.com/nathoo/deadzone/types"
)

// chooseAction offers the move catalog to the acting character and applies
// the chosen move.
func (e *Engine) chooseAction(ctx context.Context, result *types.Result) error {
	s := e.State
	rec, _ := s.Stack.Peek()
	c := s.Character(rec.Character)
	if c == nil || !c.Alive || c.Exited || (c.Actions == 0 && !hasFree(c)) {
		s.Stack.Pop()
		return nil
	}
	ms, err := moves.Generate(s, c)
	if err != nil {
		return err
	}
	m, err := e.Decider.ChooseMove(ctx, c, ms)
	if err != nil {
		return err
	}
	if !moves.Contains(ms, m) {
		return fmt.Errorf("move %q: %w", m, ErrUnofferedChoice)
	}
	return e.apply(result, c, m)
}

// apply pays for m and performs it. A move that fails is refunded.
func (e *Engine) apply(result *types.Result, c *actor.Character, m moves.Move) error {
	s := e.State
	actions, free, logged := c.Actions, maps.Clone(c.Free), len(s.MoveLog)
	if err := c.Spend(m.Cost); err != nil {
		return fmt.Errorf("%s: %w", m, err)
	}
	if m.Free != "" {
		c.TakeFree(m.Free)
	}
	s.MoveLog = append(s.MoveLog, fmt.Sprintf("%d %s: %s", s.Round, c.Name, m))
	e.Log.Debug().Str("character", c.ID).Str("move", m.String()).Int("actions", c.Actions).Msg("move")

	if err := e.perform(result, c, m); err != nil {
		c.Actions, c.Free, s.MoveLog = actions, free, s.MoveLog[:logged]
		return err
	}
	return nil
}

// perform carries out a paid move.
func (e *Engine) perform(result *types.Result, c *actor.Character, m moves.Move) error {
	s := e.State
	switch m.Type {
	case moves.EndTurn:
		c.Actions = 0
		c.Free = map[actor.FreeKind]int{}
		s.Stack.Pop()
		e.say(result, "%s ends the turn.", c.Name)
	case moves.SwitchCharacter:
		s.Stack.Pop()
		if top := s.Stack.Top(); top != nil && top.Kind == phase.ChooseCharacter {
			top.User = c.User
		}
	case moves.Equip:
		return e.equip(result, c, m)
	case moves.Unequip:
		it := c.Remove(m.Item)
		c.Stow(it)
		e.say(result, "%s stows the %s.", c.Name, it)
	case moves.Dispose:
		it := c.Remove(m.Item)
		s.Quest.LootDeck.Put(it.Type)
		e.say(result, "%s throws away the %s.", c.Name, it)
	case moves.Give:
		return e.give(result, c, m)
	case moves.Search:
		return e.search(result, c)
	case moves.MakeNoise:
		s.Board.AddNoise(c.Zone(), 1)
		e.emit(result, types.EventNoise, map[string]any{"zone": c.Zone(), "character": c.ID})
		e.say(result, "%s makes noise.", c.Name)
	case moves.Walk, moves.Sprint, moves.Charge:
		return e.move(result, c, m)
	case moves.Shove:
		return e.shove(result, c, m)
	case moves.Melee:
		return e.attack(result, c, c.Find(m.Item), actor.AttackMelee, m.Zone)
	case moves.Ranged:
		return e.attack(result, c, c.Find(m.Item), actor.AttackRanged, m.Zone)
	case moves.Magic:
		return e.attack(result, c, c.Find(m.Item), actor.AttackMagic, m.Zone)
	case moves.Throw:
		return e.throw(result, c, c.Find(m.Item), m.Zone)
	case moves.Enchant:
		return e.enchant(result, c, m)
	case moves.PickUp:
		it := s.PickItem(c.Zone(), m.Item)
		if it == nil {
			return fmt.Errorf("pick up %s: not on the floor", m.Item)
		}
		s.Stack.Push(phase.Record{Kind: phase.ChooseKeepEquipment, Character: c.ID, Item: it.Type})
	case moves.Drop:
		it := c.Remove(m.Item)
		s.DropItem(c.Zone(), it)
		e.say(result, "%s drops the %s.", c.Name, it)
	case moves.OpenDoor, moves.CloseDoor:
		return e.door(result, c, m)
	case moves.Barricade:
		if err := s.Board.Barricade(m.Door); err != nil {
			return err
		}
		e.emit(result, types.EventDoor, map[string]any{"door": m.Door.String(), "state": "barricaded"})
		e.say(result, "%s barricades the door.", c.Name)
	case moves.Consume:
		it := c.Remove(m.Item)
		c.Heal(it.Def().Heal)
		s.Quest.LootDeck.Put(it.Type)
		e.say(result, "%s eats the %s.", c.Name, it)
	case moves.TakeObjective:
		return e.takeObjective(result, c)
	case moves.ReachExit:
		c.Exited = true
		s.Board.RemoveActor(c)
		e.emit(result, types.EventMoved, map[string]any{"character": c.ID, "exit": true})
		e.say(result, "%s escapes.", c.Name)
	default:
		return fmt.Errorf("apply: unknown move type %q", m.Type)
	}
	return nil
}

func (e *Engine) equip(result *types.Result, c *actor.Character, m moves.Move) error {
	it := c.Remove(m.Item)
	if it == nil {
		return fmt.Errorf("equip %s: not carried", m.Item)
	}
	var old *actor.Item
	switch m.Slot {
	case moves.LeftHand:
		old, c.Hands[0] = c.Hands[0], it
	case moves.RightHand:
		old, c.Hands[1] = c.Hands[1], it
	case moves.Body:
		old, c.Body = c.Body, it
	default:
		return fmt.Errorf("equip %s: bad slot %d", it, m.Slot)
	}
	if old != nil {
		c.Stow(old)
	}
	e.say(result, "%s equips the %s in %s.", c.Name, it, m.Slot)
	return nil
}

func (e *Engine) give(result *types.Result, c *actor.Character, m moves.Move) error {
	to := e.State.Character(m.Target)
	if to == nil {
		return fmt.Errorf("give: unknown character %q", m.Target)
	}
	it := c.Remove(m.Item)
	if it == nil || !to.Stow(it) {
		return fmt.Errorf("give %s to %s: %w", m.ItemType, to.ID, ErrUnofferedChoice)
	}
	e.say(result, "%s gives the %s to %s.", c.Name, it, to.Name)
	return nil
}

func (e *Engine) search(result *types.Result, c *actor.Character) error {
	s := e.State
	c.Searched = true
	card, ok, err := s.Quest.LootDeck.Next(e.RNG)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if !ok {
		e.say(result, "%s finds nothing.", c.Name)
		return nil
	}
	s.Stack.Push(phase.Record{Kind: phase.ChooseKeepEquipment, Character: c.ID, Item: card})
	e.emit(result, types.EventFound, map[string]any{"character": c.ID, "item": card})
	e.say(result, "%s finds a %s.", c.Name, card)
	return nil
}

func (e *Engine) move(result *types.Result, c *actor.Character, m moves.Move) error {
	s := e.State
	from := c.Zone()
	if err := s.Board.MoveActorToZone(c, m.Zone); err != nil {
		return fmt.Errorf("%s: %w", m, err)
	}
	switch m.Type {
	case moves.Sprint:
		c.Use(actor.Sprint)
	case moves.Charge:
		c.Use(actor.Charge)
	}
	e.emit(result, types.EventMoved, map[string]any{"character": c.ID, "from": from, "to": m.Zone})
	e.say(result, "%s moves to zone %d.", c.Name, m.Zone)
	e.enter(c, m.Zone)
	return nil
}

// enter pushes the vault choice when c is the first into an unopened
// vault with items left.
func (e *Engine) enter(c *actor.Character, zone int) {
	v := e.State.Quest.VaultIn(zone)
	if v == nil || len(v.Items) == 0 || c.Vaults[v.ID] {
		return
	}
	e.State.Stack.Push(phase.Record{Kind: phase.ChooseVaultItem, Character: c.ID, Vault: v.ID})
}

func (e *Engine) shove(result *types.Result, c *actor.Character, m moves.Move) error {
	s := e.State
	c.Use(actor.Shove)
	n := 0
	for _, z := range s.ZombiesIn(c.Zone()) {
		if err := s.Board.MoveActorToZone(z, m.Zone); err != nil {
			e.Log.Debug().Err(err).Str("zombie", z.ID).Msg("shove blocked")
			continue
		}
		z.ClearPath()
		n++
	}
	e.say(result, "%s shoves %d zombies into zone %d.", c.Name, n, m.Zone)
	return nil
}

func (e *Engine) door(result *types.Result, c *actor.Character, m moves.Move) error {
	s := e.State
	noisy := false
	if m.Type == moves.OpenDoor {
		if s.Board.IsJammed(m.Door) {
			noisy = true
		} else if it, ok := c.CanOpenDoors(); ok && it.Def().DoorNoisy {
			noisy = true
		}
	}
	if err := s.Board.Toggle(m.Door); err != nil {
		return err
	}
	if noisy {
		s.Board.AddNoise(c.Zone(), 1)
	}
	st := s.Board.State(m.Door).String()
	e.emit(result, types.EventDoor, map[string]any{"door": m.Door.String(), "state": st, "character": c.ID})
	e.say(result, "%s: door %s is now %s.", c.Name, m.Door, st)
	return nil
}

func (e *Engine) enchant(result *types.Result, c *actor.Character, m moves.Move) error {
	it := c.Find(m.Item)
	to := e.State.Character(m.Target)
	if it == nil || to == nil {
		return fmt.Errorf("enchant: %w", ErrUnofferedChoice)
	}
	switch it.Def().Enchantment {
	case actor.EnchantHealing:
		to.Heal(1)
	case actor.EnchantSpeed:
		to.Free[actor.FreeMoveAction]++
	case actor.EnchantInvisibility:
		to.Invisible = true
	default:
		return fmt.Errorf("enchant: %s is not an enchantment", it)
	}
	e.emit(result, types.EventSkill, map[string]any{"character": c.ID, "enchantment": string(it.Def().Enchantment), "target": to.ID})
	e.say(result, "%s casts %s on %s.", c.Name, it, to.Name)
	return nil
}

func (e *Engine) takeObjective(result *types.Result, c *actor.Character) error {
	s := e.State
	o, err := s.Quest.Take(c.Zone())
	if err != nil {
		return err
	}
	if z := s.Board.Zone(c.Zone()); z != nil {
		z.Objective = false
	}
	e.gainXP(c, quest.ObjectiveXP)
	data := map[string]any{"character": c.ID, "zone": o.Zone}
	if o.Color != "" {
		data["color"] = o.Color
		data["unlocked"] = s.Board.Unlock(o.Color)
	}
	e.emit(result, types.EventObjective, data)
	e.say(result, "%s takes the objective.", c.Name)
	return nil
}

// gainXP adds experience and queues a skill choice per level reached,
// lowest level on top.
func (e *Engine) gainXP(c *actor.Character, n int) {
	reached := c.GainXP(n)
	for i := len(reached) - 1; i >= 0; i-- {
		e.State.Stack.Push(phase.Record{Kind: phase.ChooseNewSkill, Character: c.ID, Level: int(reached[i])})
	}
}

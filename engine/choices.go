package engine

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/nathoo/deadzone/engine/actor"
	"github.com/nathoo/deadzone/engine/board"
	"github.com/nathoo/deadzone/engine/phase"
	"github.com/nathoo/deadzone/types"
)

// Option labels for CHOOSE_KEEP_EQUIPMENT.
const (
	KeepLeftHand  = "left hand"
	KeepRightHand = "right hand"
	KeepBody      = "body"
	KeepBackpack  = "backpack"
	KeepDiscard   = "discard"
	keepSwap      = "swap:"
)

// ask forwards a sub-choice to the decider and checks the answer.
func (e *Engine) ask(ctx context.Context, kind phase.Kind, c *actor.Character, options []string) (string, error) {
	choice, err := e.Decider.ChooseOption(ctx, kind, c, options)
	if err != nil {
		return "", err
	}
	if !slices.Contains(options, choice) {
		return "", fmt.Errorf("%s %q: %w", kind, choice, ErrUnofferedChoice)
	}
	return choice, nil
}

// chooseSkill learns one skill of the level reached. A single option is
// taken without asking.
func (e *Engine) chooseSkill(ctx context.Context, result *types.Result) error {
	s := e.State
	rec, _ := s.Stack.Peek()
	c := s.Character(rec.Character)
	if c == nil || !c.Alive {
		s.Stack.Pop()
		return nil
	}
	var options []string
	for _, sk := range c.SkillOptions(actor.Level(rec.Level)) {
		options = append(options, string(sk))
	}
	var choice string
	switch len(options) {
	case 0:
		s.Stack.Pop()
		return nil
	case 1:
		choice = options[0]
	default:
		var err error
		if choice, err = e.ask(ctx, phase.ChooseNewSkill, c, options); err != nil {
			return err
		}
	}
	s.Stack.Pop()
	c.Learn(actor.Skill(choice))
	e.emit(result, types.EventSkill, map[string]any{"character": c.ID, "skill": choice, "level": actor.Level(rec.Level).String()})
	e.say(result, "%s reaches %s and learns %s.", c.Name, actor.Level(rec.Level), choice)
	return nil
}

// KeepOptions lists where an item of typ can go for c.
func KeepOptions(c *actor.Character, typ string) []string {
	def := actor.Catalogue[typ]
	var out []string
	if def != nil {
		switch def.Slot {
		case actor.SlotHand:
			out = append(out, KeepLeftHand, KeepRightHand)
		case actor.SlotBody:
			out = append(out, KeepBody)
		case actor.SlotHandOrBody:
			out = append(out, KeepLeftHand, KeepRightHand, KeepBody)
		}
	}
	if !c.BackpackFull() {
		out = append(out, KeepBackpack)
	} else {
		for _, it := range c.Backpack {
			out = append(out, keepSwap+it.ID)
		}
	}
	return append(out, KeepDiscard)
}

// chooseKeep places a found item or throws it away.
func (e *Engine) chooseKeep(ctx context.Context, result *types.Result) error {
	s := e.State
	rec, _ := s.Stack.Peek()
	c := s.Character(rec.Character)
	if c == nil || !c.Alive {
		s.Stack.Pop()
		s.Quest.LootDeck.Put(rec.Item)
		return nil
	}
	choice, err := e.ask(ctx, phase.ChooseKeepEquipment, c, KeepOptions(c, rec.Item))
	if err != nil {
		return err
	}
	s.Stack.Pop()
	if choice == KeepDiscard {
		s.Quest.LootDeck.Put(rec.Item)
		e.say(result, "%s leaves the %s.", c.Name, rec.Item)
		return nil
	}
	it, err := s.NewItem(rec.Item)
	if err != nil {
		return err
	}
	var old *actor.Item
	switch {
	case choice == KeepLeftHand:
		old, c.Hands[0] = c.Hands[0], it
	case choice == KeepRightHand:
		old, c.Hands[1] = c.Hands[1], it
	case choice == KeepBody:
		old, c.Body = c.Body, it
	case choice == KeepBackpack:
		c.Stow(it)
	case strings.HasPrefix(choice, keepSwap):
		old = c.Remove(strings.TrimPrefix(choice, keepSwap))
		c.Stow(it)
	}
	if old != nil && !c.Stow(old) {
		s.DropItem(c.Zone(), old)
	}
	e.say(result, "%s keeps the %s (%s).", c.Name, it, choice)
	return nil
}

// chooseVault lets the first character into a vault take one of its items.
func (e *Engine) chooseVault(ctx context.Context, result *types.Result) error {
	s := e.State
	rec, _ := s.Stack.Peek()
	c := s.Character(rec.Character)
	v := s.Quest.Vault(rec.Vault)
	if c == nil || !c.Alive || v == nil || len(v.Items) == 0 {
		s.Stack.Pop()
		return nil
	}
	var options []string
	for _, it := range v.Items {
		if !slices.Contains(options, it) {
			options = append(options, it)
		}
	}
	choice, err := e.ask(ctx, phase.ChooseVaultItem, c, options)
	if err != nil {
		return err
	}
	s.Stack.Pop()
	i := slices.Index(v.Items, choice)
	v.Items = slices.Delete(v.Items, i, i+1)
	v.Opened = true
	c.Vaults[v.ID] = true
	s.Stack.Push(phase.Record{Kind: phase.ChooseKeepEquipment, Character: c.ID, Item: choice})
	e.emit(result, types.EventFound, map[string]any{"character": c.ID, "item": choice, "vault": v.ID})
	e.say(result, "%s takes the %s from the vault.", c.Name, choice)
	return nil
}

// SpawnAreaLabel names a spawn area for the decider.
func SpawnAreaLabel(a board.SpawnArea) string {
	return fmt.Sprintf("zone %d at %s #%d", a.Zone, a.Cell, a.Index)
}

// chooseSpawnArea removes one spawn area after a necromancer kill.
func (e *Engine) chooseSpawnArea(ctx context.Context, result *types.Result) error {
	s := e.State
	rec, _ := s.Stack.Peek()
	c := s.Character(rec.Character)
	areas := s.Board.SpawnAreas()
	if len(areas) == 0 {
		s.Stack.Pop()
		return nil
	}
	byLabel := map[string]board.SpawnArea{}
	options := make([]string, len(areas))
	for i, a := range areas {
		options[i] = SpawnAreaLabel(a)
		byLabel[options[i]] = a
	}
	choice, err := e.ask(ctx, phase.ChooseSpawnAreaRemove, c, options)
	if err != nil {
		return err
	}
	s.Stack.Pop()
	s.Board.RemoveSpawnArea(byLabel[choice])
	e.say(result, "The spawn area in %s is sealed.", choice)
	return nil
}

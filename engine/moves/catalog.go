package moves

import (
	"fmt"

	"github.com/nathoo/deadzone/engine/actor"
	"github.com/nathoo/deadzone/engine/board"
	"github.com/nathoo/deadzone/engine/skills"
	"github.com/nathoo/deadzone/engine/state"
)

// catalog accumulates moves for one character, applying the cost and
// free-action rules once.
type catalog struct {
	s     *state.State
	c     *actor.Character
	zone  int
	quiet bool // no zombies in the character's zone
	moves []Move
}

func (g *catalog) base(t Type) Move {
	return Move{Type: t, Character: g.c.ID, Zone: -1, Cost: 1}
}

// add offers m if the character can pay for it. When a free action of kind
// free is left, it pays the first action point of the cost.
func (g *catalog) add(m Move, free actor.FreeKind) {
	if free != "" && m.Cost > 0 && g.c.Free[free] > 0 {
		m.Free = free
		m.Cost--
	}
	if m.Cost > g.c.Actions {
		return
	}
	g.moves = append(g.moves, m)
}

// Generate returns every legal move for c, end turn first. It fails with
// ErrDuplicateMove when two offered moves are structurally equal.
func Generate(s *state.State, c *actor.Character) ([]Move, error) {
	if c == nil {
		return nil, fmt.Errorf("generate moves: no character")
	}
	g := &catalog{s: s, c: c, zone: c.Zone()}
	g.moves = append(g.moves, Move{Type: EndTurn, Character: c.ID, Zone: -1})
	g.switches()
	if c.Alive && c.OnBoard() && !c.Exited {
		g.quiet = !s.Board.HasZombie(g.zone)
		g.organize()
		g.trade()
		g.search()
		g.noise()
		g.movement()
		g.attacks()
		g.throws()
		g.enchantments()
		g.floor()
		g.doors()
		g.consume()
		g.quest()
	}
	if err := Verify(g.moves); err != nil {
		return nil, fmt.Errorf("character %s: %w", c.ID, err)
	}
	return g.moves, nil
}

func (g *catalog) switches() {
	for _, o := range g.s.CharactersOf(g.c.User) {
		if o.ID != g.c.ID && o.Actions > 0 {
			g.moves = append(g.moves, Move{Type: SwitchCharacter, Character: g.c.ID, Target: o.ID, Zone: -1})
			return
		}
	}
}

// distinct returns the first item of each type, keeping order.
func distinct(items []*actor.Item) []*actor.Item {
	seen := map[string]bool{}
	var out []*actor.Item
	for _, it := range items {
		if it == nil || seen[it.Type] {
			continue
		}
		seen[it.Type] = true
		out = append(out, it)
	}
	return out
}

func (g *catalog) organize() {
	for _, it := range distinct(g.c.Backpack) {
		var slots []Slot
		switch it.Def().Slot {
		case actor.SlotHand:
			slots = []Slot{LeftHand, RightHand}
		case actor.SlotBody:
			slots = []Slot{Body}
		case actor.SlotHandOrBody:
			slots = []Slot{LeftHand, RightHand, Body}
		}
		for _, sl := range slots {
			m := g.base(Equip)
			m.Item, m.ItemType, m.Slot = it.ID, it.Type, sl
			g.add(m, "")
		}
	}
	if !g.c.BackpackFull() {
		held := []struct {
			slot Slot
			it   *actor.Item
		}{{LeftHand, g.c.Hands[0]}, {RightHand, g.c.Hands[1]}, {Body, g.c.Body}}
		for _, h := range held {
			if h.it == nil {
				continue
			}
			m := g.base(Unequip)
			m.Item, m.ItemType, m.Slot = h.it.ID, h.it.Type, h.slot
			g.add(m, "")
		}
	}
	for _, it := range distinct(g.c.Items()) {
		m := g.base(Dispose)
		m.Item, m.ItemType, m.Cost = it.ID, it.Type, 0
		g.add(m, "")
	}
}

func (g *catalog) trade() {
	if !g.quiet {
		return
	}
	items := distinct(g.c.Items())
	for _, o := range g.s.CharactersIn(g.zone) {
		if o.ID == g.c.ID || o.Exited || o.BackpackFull() {
			continue
		}
		for _, it := range items {
			m := g.base(Give)
			m.Item, m.ItemType, m.Target = it.ID, it.Type, o.ID
			g.add(m, "")
		}
	}
}

func (g *catalog) search() {
	z := g.s.Board.Zone(g.zone)
	if !g.quiet || g.c.Searched || !z.Type.Searchable() {
		return
	}
	d := g.s.Quest.LootDeck
	if d == nil || d.Len()+len(d.Discard) == 0 {
		return
	}
	g.add(g.base(Search), actor.FreeSearchAction)
}

func (g *catalog) noise() {
	g.add(g.base(MakeNoise), "")
}

func (g *catalog) movement() {
	b := g.s.Board
	penalty := 0
	if !g.c.Has(actor.Slippery) {
		penalty = b.CountZombies(g.zone)
	}
	for _, z := range b.AccessibleZones(g.zone, 1, 1, board.Movement) {
		if !b.HasRoom(z) {
			continue
		}
		m := g.base(Walk)
		m.Zone, m.Cost = z, 1+penalty
		g.add(m, actor.FreeMoveAction)
	}
	if g.c.Has(actor.Sprint) {
		for _, z := range b.AccessibleZones(g.zone, 2, 3, board.Movement) {
			if !b.HasRoom(z) {
				continue
			}
			m := g.base(Sprint)
			m.Zone, m.Cost = z, 1+penalty
			g.add(m, actor.FreeMoveAction)
		}
	}
	if g.c.Has(actor.Charge) && g.quiet {
		for _, z := range b.AccessibleZones(g.zone, 1, 2, board.Movement) {
			if !b.HasZombie(z) || !b.HasRoom(z) {
				continue
			}
			m := g.base(Charge)
			m.Zone, m.Cost = z, 0
			g.add(m, "")
		}
	}
	if g.c.Has(actor.Shove) && !g.quiet {
		for _, z := range b.AccessibleZones(g.zone, 1, 1, board.Movement) {
			if !b.HasRoom(z) {
				continue
			}
			m := g.base(Shove)
			m.Zone, m.Cost = z, 0
			g.add(m, "")
		}
	}
}

// Reach returns the range band of an attack with it after c's skills.
func Reach(c *actor.Character, it *actor.Item, kind actor.AttackKind) (int, int) {
	w := it.Def().Weapon(kind)
	if w == nil {
		return 0, -1
	}
	a := &skills.Attack{Kind: kind, Dice: w.Dice, Threshold: w.Threshold, Damage: w.Damage, MinRange: w.MinRange, MaxRange: w.MaxRange}
	skills.ApplyPreRoll(c.ActiveSkills(), a)
	return a.MinRange, a.MaxRange
}

func (g *catalog) attacks() {
	if !g.quiet {
		for _, it := range distinct(g.c.Weapons(actor.AttackMelee)) {
			m := g.base(Melee)
			m.Item, m.ItemType, m.Zone = it.ID, it.Type, g.zone
			g.add(m, actor.FreeMeleeAction)
		}
	}
	g.shots(Ranged, actor.AttackRanged, board.Ranged, actor.FreeRangedAction)
	g.shots(Magic, actor.AttackMagic, board.Magic, actor.FreeMagicAction)
}

func (g *catalog) shots(t Type, kind actor.AttackKind, bk board.Kind, free actor.FreeKind) {
	for _, it := range distinct(g.c.Weapons(kind)) {
		lo, hi := Reach(g.c, it, kind)
		for _, z := range g.s.Board.AccessibleZones(g.zone, lo, hi, bk) {
			if !g.s.Board.HasZombie(z) {
				continue
			}
			m := g.base(t)
			m.Item, m.ItemType, m.Zone = it.ID, it.Type, z
			g.add(m, free)
		}
	}
}

func (g *catalog) throws() {
	var throwable []*actor.Item
	for _, it := range g.c.Hands {
		if it != nil && it.Def().Throwable {
			throwable = append(throwable, it)
		}
	}
	for _, it := range distinct(throwable) {
		for _, z := range g.s.Board.AccessibleZones(g.zone, 0, 1, board.Throw) {
			m := g.base(Throw)
			m.Item, m.ItemType, m.Zone = it.ID, it.Type, z
			g.add(m, "")
		}
	}
}

func (g *catalog) enchantments() {
	var spells []*actor.Item
	for _, it := range g.c.Hands {
		if it != nil && it.Def().Enchantment != "" {
			spells = append(spells, it)
		}
	}
	spells = distinct(spells)
	if len(spells) == 0 {
		return
	}
	var targets []*actor.Character
	for _, z := range g.s.Board.AccessibleZones(g.zone, 0, 1, board.Magic) {
		for _, o := range g.s.CharactersIn(z) {
			if !o.Exited {
				targets = append(targets, o)
			}
		}
	}
	for _, it := range spells {
		for _, o := range targets {
			if it.Def().Enchantment == actor.EnchantHealing && o.Wounds == 0 {
				continue
			}
			m := g.base(Enchant)
			m.Item, m.ItemType, m.Target = it.ID, it.Type, o.ID
			g.add(m, actor.FreeMagicAction)
		}
	}
}

func (g *catalog) floor() {
	for _, it := range distinct(g.s.FloorItems(g.zone)) {
		m := g.base(PickUp)
		m.Item, m.ItemType = it.ID, it.Type
		g.add(m, "")
	}
	for _, it := range distinct(g.c.Items()) {
		m := g.base(Drop)
		m.Item, m.ItemType, m.Cost = it.ID, it.Type, 0
		g.add(m, "")
	}
}

// CanOpen reports whether c can open door: it needs a door opener in hand,
// and a jammed side only gives way to a noisy one.
func CanOpen(b *board.Board, c *actor.Character, door board.Door) bool {
	if b.State(door) != board.WallClosed {
		return false
	}
	if !b.IsJammed(door) {
		_, ok := c.CanOpenDoors()
		return ok
	}
	for _, it := range c.Hands {
		if it != nil && it.Def().OpensDoors && it.Def().DoorNoisy {
			return true
		}
	}
	return false
}

func (g *catalog) doors() {
	b := g.s.Board
	for _, door := range b.DoorsOf(g.zone) {
		switch b.State(door) {
		case board.WallClosed:
			if CanOpen(b, g.c, door) {
				m := g.base(OpenDoor)
				m.Door, m.HasDoor = door, true
				g.add(m, "")
			}
		case board.WallOpen:
			m := g.base(CloseDoor)
			m.Door, m.HasDoor = door, true
			g.add(m, "")
		}
		if g.quiet && !door.Dir.Elevation() && (b.State(door) == board.WallOpen || b.State(door) == board.WallClosed) {
			m := g.base(Barricade)
			m.Door, m.HasDoor = door, true
			g.add(m, "")
		}
	}
}

func (g *catalog) consume() {
	if g.c.Wounds == 0 {
		return
	}
	var food []*actor.Item
	for _, it := range g.c.Hands {
		if it != nil && it.Def().Heal > 0 {
			food = append(food, it)
		}
	}
	for _, it := range distinct(food) {
		m := g.base(Consume)
		m.Item, m.ItemType = it.ID, it.Type
		g.add(m, "")
	}
}

func (g *catalog) quest() {
	q := g.s.Quest
	if q.ObjectiveIn(g.zone) != nil {
		m := g.base(TakeObjective)
		m.Zone = g.zone
		g.add(m, "")
	}
	if q.ExitZone == g.zone && len(q.Remaining()) == 0 {
		m := g.base(ReachExit)
		m.Zone = g.zone
		g.add(m, "")
	}
}

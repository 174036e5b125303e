package board

import "fmt"

// Placement is where an actor stands. Actors carry their own placement so a
// saved game restores positions without a separate index.
type Placement struct {
	Cell     Pos      `json:"cell"`
	Zone     int      `json:"zone"`
	Quadrant Quadrant `json:"quadrant"`
	OnBoard  bool     `json:"on_board"`
}

// Occupant is what the board needs to know about an actor.
type Occupant interface {
	GetID() string
	IsZombie() bool
	IsNoisy() bool
	Priority() int
	Place() *Placement
}

// Rebind rebuilds the live occupant registry from actor placements. Call it
// after loading a saved board.
func (b *Board) Rebind(occupants []Occupant) {
	b.live = make(map[string]Occupant, len(occupants))
	for _, o := range occupants {
		if o.Place().OnBoard {
			b.live[o.GetID()] = o
		}
	}
	for _, z := range b.Zones {
		b.recount(z.Index)
	}
}

// Occupant returns the live occupant with id.
func (b *Board) Occupant(id string) (Occupant, bool) {
	o, ok := b.live[id]
	return o, ok
}

// AddActor places o into cell p. When p is full, a higher-priority actor
// pushes the lowest-priority occupant into another cell of the same zone;
// otherwise o itself takes a free slot elsewhere in the zone.
func (b *Board) AddActor(o Occupant, p Pos) error {
	c := b.Cell(p)
	if c == nil || !c.Defined {
		return fmt.Errorf("add %s at %s: cell out of bounds", o.GetID(), p)
	}
	if _, dup := b.live[o.GetID()]; dup {
		return fmt.Errorf("add %s: already on board", o.GetID())
	}
	if c.Free() > 0 {
		b.place(o, c)
		return nil
	}
	if victim := b.weakest(c); victim != nil && victim.Priority() < o.Priority() {
		if dest := b.freeCell(c.Zone, p); dest != nil {
			b.vacate(victim)
			b.place(victim, dest)
			b.place(o, c)
			return nil
		}
	}
	if dest := b.freeCell(c.Zone, p); dest != nil {
		b.place(o, dest)
		return nil
	}
	return fmt.Errorf("add %s to zone %d: %w", o.GetID(), c.Zone, ErrOccupancy)
}

// AddActorToZone places o in the first cell of zone with a free slot.
func (b *Board) AddActorToZone(o Occupant, zone int) error {
	z := b.Zone(zone)
	if z == nil {
		return fmt.Errorf("add %s: unknown zone %d", o.GetID(), zone)
	}
	for _, p := range z.Cells {
		if b.Cell(p).Free() > 0 {
			return b.AddActor(o, p)
		}
	}
	return b.AddActor(o, z.Cells[0])
}

// MoveActor moves o to cell p. On failure o stays where it was.
func (b *Board) MoveActor(o Occupant, p Pos) error {
	old := *o.Place()
	b.RemoveActor(o)
	if err := b.AddActor(o, p); err != nil {
		if old.OnBoard {
			c := b.Cell(old.Cell)
			c.Slots[old.Quadrant] = o.GetID()
			*o.Place() = old
			b.live[o.GetID()] = o
			b.recount(old.Zone)
		}
		return err
	}
	return nil
}

// MoveActorToZone moves o to the first cell of zone with room, falling back
// to displacement.
func (b *Board) MoveActorToZone(o Occupant, zone int) error {
	z := b.Zone(zone)
	if z == nil {
		return fmt.Errorf("move %s: unknown zone %d", o.GetID(), zone)
	}
	for _, p := range z.Cells {
		if b.Cell(p).Free() > 0 {
			return b.MoveActor(o, p)
		}
	}
	return b.MoveActor(o, z.Cells[0])
}

// RemoveActor takes o off the board. Removing an actor that is not on the
// board is a no-op.
func (b *Board) RemoveActor(o Occupant) {
	if !o.Place().OnBoard {
		return
	}
	b.vacate(o)
}

func (b *Board) place(o Occupant, c *Cell) {
	if b.live == nil {
		b.live = map[string]Occupant{}
	}
	for _, q := range fillOrder {
		if c.Slots[q] == "" {
			c.Slots[q] = o.GetID()
			*o.Place() = Placement{Cell: c.Pos, Zone: c.Zone, Quadrant: q, OnBoard: true}
			b.live[o.GetID()] = o
			b.recount(c.Zone)
			return
		}
	}
}

func (b *Board) vacate(o Occupant) {
	pl := o.Place()
	if c := b.Cell(pl.Cell); c != nil && c.Slots[pl.Quadrant] == o.GetID() {
		c.Slots[pl.Quadrant] = ""
	}
	delete(b.live, o.GetID())
	pl.OnBoard = false
	b.recount(pl.Zone)
}

// weakest returns the lowest-priority occupant of c; ties keep fill order.
func (b *Board) weakest(c *Cell) Occupant {
	var min Occupant
	for _, q := range fillOrder {
		o, ok := b.live[c.Slots[q]]
		if !ok {
			continue
		}
		if min == nil || o.Priority() < min.Priority() {
			min = o
		}
	}
	return min
}

// freeCell returns a cell of zone other than skip with a free slot.
func (b *Board) freeCell(zone int, skip Pos) *Cell {
	for _, p := range b.Zones[zone].Cells {
		if c := b.Cell(p); p != skip && c.Free() > 0 {
			return c
		}
	}
	return nil
}

// OccupantsAt lists the occupants of cell p in fill order.
func (b *Board) OccupantsAt(p Pos) []Occupant {
	c := b.Cell(p)
	if c == nil {
		return nil
	}
	var out []Occupant
	for _, q := range fillOrder {
		if o, ok := b.live[c.Slots[q]]; ok {
			out = append(out, o)
		}
	}
	return out
}

// OccupantsOf lists the occupants of zone in cell then fill order.
func (b *Board) OccupantsOf(zone int) []Occupant {
	z := b.Zone(zone)
	if z == nil {
		return nil
	}
	var out []Occupant
	for _, p := range z.Cells {
		out = append(out, b.OccupantsAt(p)...)
	}
	return out
}

// CountZombies returns the number of zombies in zone.
func (b *Board) CountZombies(zone int) int {
	n := 0
	for _, o := range b.OccupantsOf(zone) {
		if o.IsZombie() {
			n++
		}
	}
	return n
}

// HasZombie reports whether zone holds at least one zombie.
func (b *Board) HasZombie(zone int) bool {
	return b.CountZombies(zone) > 0
}

// HasRoom reports whether some cell of zone has a free slot.
func (b *Board) HasRoom(zone int) bool {
	z := b.Zone(zone)
	if z == nil {
		return false
	}
	for _, p := range z.Cells {
		if b.Cell(p).Free() > 0 {
			return true
		}
	}
	return false
}

// zombieAt reports whether cell p holds a zombie.
func (b *Board) zombieAt(p Pos) bool {
	for _, o := range b.OccupantsAt(p) {
		if o.IsZombie() {
			return true
		}
	}
	return false
}

// AddNoise adds noise tokens to zone.
func (b *Board) AddNoise(zone, n int) {
	if z := b.Zone(zone); z != nil {
		z.Tokens += n
		b.recount(zone)
	}
}

// ResetNoise clears every noise token, leaving occupant noise.
func (b *Board) ResetNoise() {
	for _, z := range b.Zones {
		z.Tokens = 0
		b.recount(z.Index)
	}
}

// Recount refreshes the noise of zone after an occupant changed noisiness.
func (b *Board) Recount(zone int) {
	b.recount(zone)
}

func (b *Board) recount(zone int) {
	z := b.Zone(zone)
	if z == nil {
		return
	}
	n := z.Tokens
	for _, o := range b.OccupantsOf(zone) {
		if o.IsNoisy() {
			n++
		}
	}
	z.Noise = n
}

// LoudestZones returns the zones tied for the highest noise above zero.
func (b *Board) LoudestZones() []int {
	best := 0
	var out []int
	for _, z := range b.Zones {
		switch {
		case z.Noise > best:
			best = z.Noise
			out = []int{z.Index}
		case z.Noise == best && best > 0:
			out = append(out, z.Index)
		}
	}
	return out
}

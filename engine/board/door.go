package board

import "fmt"

// Door identifies one side of a door. Every door has exactly one twin: the
// same wall seen from the neighbouring cell.
type Door struct {
	Cell Pos `json:"cell"`
	Dir  Dir `json:"dir"`
}

func (d Door) String() string {
	return fmt.Sprintf("%s/%s", d.Cell, d.Dir)
}

// DoorAt returns the door on side d of p, or an error when the side holds
// no door.
func (b *Board) DoorAt(p Pos, d Dir) (Door, error) {
	c := b.Cell(p)
	if c == nil || !c.Walls[d].IsDoor() {
		return Door{}, fmt.Errorf("%s/%s: %w", p, d, ErrNoDoor)
	}
	return Door{Cell: p, Dir: d}, nil
}

// Twin returns the other side of door.
func (b *Board) Twin(door Door) (Door, bool) {
	n, ok := b.neighbor(door.Cell, door.Dir)
	if !ok {
		return Door{}, false
	}
	return Door{Cell: n, Dir: door.Dir.Opposite()}, true
}

// State returns the wall flag of door.
func (b *Board) State(door Door) WallFlag {
	c := b.Cell(door.Cell)
	if c == nil {
		return WallNone
	}
	return c.Walls[door.Dir]
}

// Side returns the per-side door data.
func (b *Board) Side(door Door) DoorSide {
	c := b.Cell(door.Cell)
	if c == nil {
		return DoorSide{}
	}
	return c.Sides[door.Dir]
}

// Target returns the zone on the far side of door, or -1.
func (b *Board) Target(door Door) int {
	n, ok := b.neighbor(door.Cell, door.Dir)
	if !ok {
		return -1
	}
	return b.ZoneOf(n)
}

// setBoth writes flag on both sides of door.
func (b *Board) setBoth(door Door, flag WallFlag) {
	b.Cell(door.Cell).Walls[door.Dir] = flag
	if twin, ok := b.Twin(door); ok {
		b.Cell(twin.Cell).Walls[twin.Dir] = flag
	}
}

// Toggle opens a closed door or closes an open one. Jam flags are left as
// they are.
func (b *Board) Toggle(door Door) error {
	switch b.State(door) {
	case WallClosed:
		b.setBoth(door, WallOpen)
	case WallOpen:
		b.setBoth(door, WallClosed)
	case WallLocked:
		return fmt.Errorf("toggle %s: door is locked", door)
	default:
		return fmt.Errorf("toggle %s: %w", door, ErrNoDoor)
	}
	return nil
}

// Lock locks a closed door with a colour on both sides.
func (b *Board) Lock(door Door, color string) error {
	if b.State(door) != WallClosed {
		return fmt.Errorf("lock %s: door is %s", door, b.State(door))
	}
	b.setBoth(door, WallLocked)
	b.Cell(door.Cell).Sides[door.Dir].Color = color
	if twin, ok := b.Twin(door); ok {
		b.Cell(twin.Cell).Sides[twin.Dir].Color = color
	}
	return nil
}

// Unlock closes every locked door of the given colour and returns how many
// doors (counted once per twin pair) changed.
func (b *Board) Unlock(color string) int {
	n := 0
	for _, door := range b.Doors() {
		if b.State(door) == WallLocked && b.Side(door).Color == color {
			b.setBoth(door, WallClosed)
			n++
		}
	}
	return n
}

// Barricade closes a door for good: it becomes a solid wall.
func (b *Board) Barricade(door Door) error {
	switch b.State(door) {
	case WallClosed, WallOpen:
		b.setBoth(door, WallSolid)
		return nil
	}
	return fmt.Errorf("barricade %s: door is %s", door, b.State(door))
}

// IsJammed reports whether the door is jammed from this side. Elevation
// doors are never jammed.
func (b *Board) IsJammed(door Door) bool {
	if door.Dir.Elevation() {
		return false
	}
	return b.Side(door).Jammed
}

// SetJammed marks one side of a planar door as jammed.
func (b *Board) SetJammed(door Door, jammed bool) {
	if door.Dir.Elevation() {
		return
	}
	if c := b.Cell(door.Cell); c != nil {
		c.Sides[door.Dir].Jammed = jammed
	}
}

// Doors lists every door once per twin pair, in cell scan order.
func (b *Board) Doors() []Door {
	var doors []Door
	seen := map[Door]bool{}
	for r := 0; r < b.Rows; r++ {
		for c := 0; c < b.Cols; c++ {
			p := Pos{r, c}
			for _, d := range AllDirs {
				door := Door{Cell: p, Dir: d}
				if !b.Cell(p).Walls[d].IsDoor() || seen[door] {
					continue
				}
				seen[door] = true
				if twin, ok := b.Twin(door); ok {
					seen[twin] = true
				}
				doors = append(doors, door)
			}
		}
	}
	return doors
}

// DoorsOf lists the doors leading out of zone, seen from inside it.
func (b *Board) DoorsOf(zone int) []Door {
	z := b.Zone(zone)
	if z == nil {
		return nil
	}
	var doors []Door
	for _, p := range z.Cells {
		for _, d := range AllDirs {
			if !b.Cell(p).Walls[d].IsDoor() {
				continue
			}
			if t := b.Target(Door{Cell: p, Dir: d}); t >= 0 && t != zone {
				doors = append(doors, Door{Cell: p, Dir: d})
			}
		}
	}
	return doors
}

// VaultDoors lists the doors carrying the given vault id.
func (b *Board) VaultDoors(vault int) []Door {
	var doors []Door
	for _, door := range b.Doors() {
		if b.Side(door).Vault == vault {
			doors = append(doors, door)
			continue
		}
		if twin, ok := b.Twin(door); ok && b.Side(twin).Vault == vault {
			doors = append(doors, twin)
		}
	}
	return doors
}

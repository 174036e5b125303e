// Package board models the grid of cells grouped into zones, door and wall
// state, occupancy and noise, and answers reachability, visibility and path
// queries.
package board

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrOccupancy is returned when an actor cannot be placed because every
	// slot is taken.
	ErrOccupancy = errors.New("occupancy overflow")
	// ErrZoneAdjacency is returned when a zone's cells are not connected.
	ErrZoneAdjacency = errors.New("zone cells are not mutually adjacent")
	// ErrNoDoor is returned by door operations on a side without a door.
	ErrNoDoor = errors.New("no door")
)

// MaxSpawnsPerCell bounds the spawn points a single cell can hold.
const MaxSpawnsPerCell = 2

// DoorSide is the per-side door data of a cell wall.
type DoorSide struct {
	Jammed bool   `json:"jammed,omitempty"`
	Color  string `json:"color,omitempty"`
	Vault  int    `json:"vault,omitempty"`
	// Link is the target cell of an elevation door.
	Link   Pos  `json:"link"`
	Linked bool `json:"linked,omitempty"`
}

// Cell is a single grid position.
type Cell struct {
	Pos     Pos                  `json:"pos"`
	Zone    int                  `json:"zone"`
	Defined bool                 `json:"defined"`
	Walls   [NumDirs]WallFlag    `json:"walls"`
	Sides   [NumDirs]DoorSide    `json:"sides"`
	Spawns  int                  `json:"spawns,omitempty"`
	Start   bool                 `json:"start,omitempty"`
	Exit    bool                 `json:"exit,omitempty"`
	Slots   [SlotsPerCell]string `json:"slots"`
}

// Free returns the number of empty quadrants.
func (c *Cell) Free() int {
	n := 0
	for _, id := range c.Slots {
		if id == "" {
			n++
		}
	}
	return n
}

// Zone is a connected group of cells forming one traversal and visibility
// unit.
type Zone struct {
	Index          int      `json:"index"`
	Type           ZoneType `json:"type"`
	Cells          []Pos    `json:"cells"`
	Tokens         int      `json:"tokens"`
	Noise          int      `json:"noise"`
	Objective      bool     `json:"objective,omitempty"`
	ObjectiveColor string   `json:"objective_color,omitempty"`
	Bile           bool     `json:"bile,omitempty"`
	Vault          int      `json:"vault,omitempty"`
}

// Board is the spatial model of a quest map.
type Board struct {
	Rows  int       `json:"rows"`
	Cols  int       `json:"cols"`
	Cells [][]*Cell `json:"cells"`
	Zones []*Zone   `json:"zones"`

	live map[string]Occupant
}

// New creates an empty board with undefined cells.
func New(rows, cols int) *Board {
	b := &Board{Rows: rows, Cols: cols, live: map[string]Occupant{}}
	b.Cells = make([][]*Cell, rows)
	for r := 0; r < rows; r++ {
		b.Cells[r] = make([]*Cell, cols)
		for c := 0; c < cols; c++ {
			b.Cells[r][c] = &Cell{Pos: Pos{r, c}, Zone: -1}
		}
	}
	return b
}

// AddZone appends a zone of the given type and returns its index.
func (b *Board) AddZone(t ZoneType) int {
	idx := len(b.Zones)
	b.Zones = append(b.Zones, &Zone{Index: idx, Type: t})
	return idx
}

// Assign puts the cell at p into zone.
func (b *Board) Assign(p Pos, zone int) error {
	c := b.Cell(p)
	if c == nil {
		return fmt.Errorf("cell %s out of bounds", p)
	}
	if zone < 0 || zone >= len(b.Zones) {
		return fmt.Errorf("cell %s: unknown zone %d", p, zone)
	}
	if c.Defined {
		return fmt.Errorf("cell %s already belongs to zone %d", p, c.Zone)
	}
	c.Zone = zone
	c.Defined = true
	b.Zones[zone].Cells = append(b.Zones[zone].Cells, p)
	return nil
}

// InBounds reports whether p lies on the grid.
func (b *Board) InBounds(p Pos) bool {
	return p.Row >= 0 && p.Row < b.Rows && p.Col >= 0 && p.Col < b.Cols
}

// Cell returns the cell at p, or nil when out of bounds.
func (b *Board) Cell(p Pos) *Cell {
	if !b.InBounds(p) {
		return nil
	}
	return b.Cells[p.Row][p.Col]
}

// Zone returns the zone at index, or nil.
func (b *Board) Zone(index int) *Zone {
	if index < 0 || index >= len(b.Zones) {
		return nil
	}
	return b.Zones[index]
}

// ZoneOf returns the zone index of the cell at p, or -1.
func (b *Board) ZoneOf(p Pos) int {
	c := b.Cell(p)
	if c == nil || !c.Defined {
		return -1
	}
	return c.Zone
}

// SetWall sets the flag on p's side d and mirrors it onto the neighbour.
func (b *Board) SetWall(p Pos, d Dir, flag WallFlag) error {
	c := b.Cell(p)
	if c == nil {
		return fmt.Errorf("cell %s out of bounds", p)
	}
	c.Walls[d] = flag
	if n, ok := b.neighbor(p, d); ok {
		b.Cell(n).Walls[d.Opposite()] = flag
	}
	return nil
}

// Link connects p and q with an elevation door, p ascending to q.
func (b *Board) Link(p, q Pos, flag WallFlag) error {
	cp, cq := b.Cell(p), b.Cell(q)
	if cp == nil || cq == nil {
		return fmt.Errorf("elevation link %s -> %s out of bounds", p, q)
	}
	cp.Walls[Ascend] = flag
	cp.Sides[Ascend] = DoorSide{Link: q, Linked: true}
	cq.Walls[Descend] = flag
	cq.Sides[Descend] = DoorSide{Link: p, Linked: true}
	return nil
}

// neighbor returns the cell across side d of p regardless of walls.
func (b *Board) neighbor(p Pos, d Dir) (Pos, bool) {
	if d.Elevation() {
		c := b.Cell(p)
		if c == nil || !c.Sides[d].Linked {
			return Pos{}, false
		}
		return c.Sides[d].Link, true
	}
	n := p.step(d)
	if !b.InBounds(n) || !b.Cell(n).Defined {
		return Pos{}, false
	}
	return n, true
}

// pass returns the cell reached by leaving p through side d under the
// traversal rules of k.
func (b *Board) pass(p Pos, d Dir, k Kind) (Pos, bool) {
	c := b.Cell(p)
	if c == nil {
		return Pos{}, false
	}
	flag := c.Walls[d]
	if k.visual() {
		if !flag.SeeThrough() {
			return Pos{}, false
		}
	} else if !flag.Passable() {
		return Pos{}, false
	}
	return b.neighbor(p, d)
}

// Finalize validates the compiled board: every cell is defined, every zone
// is non-empty and connected, and every wall agrees with its twin.
func (b *Board) Finalize() error {
	for r := 0; r < b.Rows; r++ {
		for c := 0; c < b.Cols; c++ {
			if !b.Cells[r][c].Defined {
				return fmt.Errorf("cell %d,%d has no zone", r, c)
			}
		}
	}
	for _, z := range b.Zones {
		if len(z.Cells) == 0 {
			return fmt.Errorf("zone %d has no cells", z.Index)
		}
		if !b.connected(z) {
			return fmt.Errorf("zone %d: %w", z.Index, ErrZoneAdjacency)
		}
		sort.Slice(z.Cells, func(i, j int) bool {
			if z.Cells[i].Row != z.Cells[j].Row {
				return z.Cells[i].Row < z.Cells[j].Row
			}
			return z.Cells[i].Col < z.Cells[j].Col
		})
	}
	for r := 0; r < b.Rows; r++ {
		for c := 0; c < b.Cols; c++ {
			p := Pos{r, c}
			cell := b.Cells[r][c]
			for _, d := range AllDirs {
				n, ok := b.neighbor(p, d)
				if !ok {
					continue
				}
				if twin := b.Cell(n).Walls[d.Opposite()]; twin != cell.Walls[d] {
					return fmt.Errorf("cell %s side %s is %s but its twin is %s", p, d, cell.Walls[d], twin)
				}
			}
		}
	}
	return nil
}

// connected reports whether the zone's cells form one planar component.
func (b *Board) connected(z *Zone) bool {
	seen := map[Pos]bool{z.Cells[0]: true}
	queue := []Pos{z.Cells[0]}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, d := range Compass {
			n := p.step(d)
			if !b.InBounds(n) || seen[n] || b.Cell(n).Zone != z.Index {
				continue
			}
			seen[n] = true
			queue = append(queue, n)
		}
	}
	return len(seen) == len(z.Cells)
}

// SpawnArea identifies one spawn point on the board.
type SpawnArea struct {
	Cell  Pos `json:"cell"`
	Zone  int `json:"zone"`
	Index int `json:"index"`
}

// SpawnAreas lists spawn points in zone then cell order.
func (b *Board) SpawnAreas() []SpawnArea {
	var areas []SpawnArea
	for _, z := range b.Zones {
		for _, p := range z.Cells {
			for i := 0; i < b.Cell(p).Spawns; i++ {
				areas = append(areas, SpawnArea{Cell: p, Zone: z.Index, Index: i})
			}
		}
	}
	return areas
}

// RemoveSpawnArea deletes one spawn point from the area's cell.
func (b *Board) RemoveSpawnArea(a SpawnArea) bool {
	c := b.Cell(a.Cell)
	if c == nil || c.Spawns == 0 {
		return false
	}
	c.Spawns--
	return true
}

// StartZone returns the first zone holding a start marker, or -1.
func (b *Board) StartZone() int {
	return b.markedZone(func(c *Cell) bool { return c.Start })
}

// ExitZone returns the first zone holding an exit marker, or -1.
func (b *Board) ExitZone() int {
	return b.markedZone(func(c *Cell) bool { return c.Exit })
}

func (b *Board) markedZone(match func(*Cell) bool) int {
	for _, z := range b.Zones {
		for _, p := range z.Cells {
			if match(b.Cell(p)) {
				return z.Index
			}
		}
	}
	return -1
}

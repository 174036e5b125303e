package board

import "fmt"

// Pos is a cell position on the grid.
type Pos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Pos) String() string {
	return fmt.Sprintf("%d,%d", p.Row, p.Col)
}

// Dir is a direction out of a cell. Ascend and Descend cross elevation
// doors (tower stairs) and link arbitrary cells.
type Dir int

const (
	North Dir = iota
	South
	East
	West
	Ascend
	Descend
)

// NumDirs is the number of directions a cell carries wall state for.
const NumDirs = 6

// Compass lists the four planar directions in scan order.
var Compass = []Dir{North, South, East, West}

// AllDirs lists every direction in scan order.
var AllDirs = []Dir{North, South, East, West, Ascend, Descend}

var dirNames = [NumDirs]string{"north", "south", "east", "west", "ascend", "descend"}

func (d Dir) String() string {
	if d < 0 || int(d) >= NumDirs {
		return "invalid"
	}
	return dirNames[d]
}

// Opposite returns the direction pointing back through the same wall.
func (d Dir) Opposite() Dir {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	case Ascend:
		return Descend
	default:
		return Ascend
	}
}

// Elevation reports whether d crosses between levels.
func (d Dir) Elevation() bool {
	return d == Ascend || d == Descend
}

// ParseDir converts a one-letter direction token.
func ParseDir(s string) (Dir, bool) {
	switch s {
	case "n":
		return North, true
	case "s":
		return South, true
	case "e":
		return East, true
	case "w":
		return West, true
	}
	return 0, false
}

// step returns the planar neighbour of p. Elevation directions are not
// planar and return p unchanged.
func (p Pos) step(d Dir) Pos {
	switch d {
	case North:
		return Pos{p.Row - 1, p.Col}
	case South:
		return Pos{p.Row + 1, p.Col}
	case East:
		return Pos{p.Row, p.Col + 1}
	case West:
		return Pos{p.Row, p.Col - 1}
	}
	return p
}

// WallFlag is the state of one side of a cell.
type WallFlag int

const (
	WallNone WallFlag = iota
	WallSolid
	WallClosed
	WallOpen
	WallLocked
	WallRampart
)

var wallNames = []string{"none", "wall", "closed", "open", "locked", "rampart"}

func (w WallFlag) String() string {
	if w < 0 || int(w) >= len(wallNames) {
		return "invalid"
	}
	return wallNames[w]
}

// Passable reports whether actors can walk through.
func (w WallFlag) Passable() bool {
	return w == WallNone || w == WallOpen
}

// SeeThrough reports whether lines of sight cross.
func (w WallFlag) SeeThrough() bool {
	return w == WallNone || w == WallOpen || w == WallRampart
}

// IsDoor reports whether the flag describes a door in any state.
func (w WallFlag) IsDoor() bool {
	return w == WallClosed || w == WallOpen || w == WallLocked
}

// ZoneType is the environment of a zone.
type ZoneType int

const (
	Outdoor ZoneType = iota
	Building
	Vault
	Tower
)

var zoneTypeNames = []string{"outdoor", "building", "vault", "tower"}

func (t ZoneType) String() string {
	if t < 0 || int(t) >= len(zoneTypeNames) {
		return "invalid"
	}
	return zoneTypeNames[t]
}

// Indoor reports whether sight lines crossing into or out of the zone
// count as an indoor boundary.
func (t ZoneType) Indoor() bool {
	return t != Outdoor
}

// Searchable reports whether characters may search the zone.
func (t ZoneType) Searchable() bool {
	return t == Building || t == Tower
}

// Quadrant is one occupancy slot of a cell.
type Quadrant int

const (
	UpperLeft Quadrant = iota
	UpperRight
	LowerLeft
	LowerRight
	Center
	Top
	Bottom
	Left
	Right
)

// SlotsPerCell is the number of quadrants in a cell.
const SlotsPerCell = 9

// fillOrder is the fixed order free quadrants are handed out in.
var fillOrder = [SlotsPerCell]Quadrant{UpperLeft, LowerRight, UpperRight, LowerLeft, Center, Top, Bottom, Left, Right}

// Kind selects the traversal rules of a reachability query.
type Kind int

const (
	Movement Kind = iota
	Melee
	Ranged
	Magic
	Throw
)

// visual reports whether the query follows lines of sight rather than
// walking paths.
func (k Kind) visual() bool {
	return k == Ranged || k == Magic || k == Throw
}

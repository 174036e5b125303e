package board

import (
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// indoorLimit is how many indoor zone boundaries a line of sight may cross.
// Only ranged and magic attacks from a tower reach one zone further.
func (b *Board) indoorLimit(origin int, wide bool) int {
	if wide && b.Zones[origin].Type == Tower {
		return 2
	}
	return 1
}

// AccessibleZones returns the zones between minDist and maxDist zone
// transitions away from origin, sorted by index.
//
// Every kind follows straight lines from every cell of origin. Visual kinds
// (ranged, magic, throw) cross see-through walls; movement and melee cross
// passable walls and elevation doors, and a line stops in the first cell
// holding a zombie.
func (b *Board) AccessibleZones(origin, minDist, maxDist int, kind Kind) []int {
	if b.Zone(origin) == nil || maxDist < minDist {
		return nil
	}
	found := mapset.New[int]()
	if minDist == 0 {
		found.Put(origin)
	}
	if maxDist > 0 {
		if kind.visual() {
			b.sightLines(origin, maxDist, kind == Ranged || kind == Magic, func(zone, dist int) bool {
				if dist >= minDist {
					found.Put(zone)
				}
				return true
			})
		} else {
			b.walk(origin, minDist, maxDist, found)
		}
	}
	out := make([]int, 0, found.Size())
	found.Each(func(z int) { out = append(out, z) })
	sort.Ints(out)
	return out
}

// walk scans straight lines of passable walls from every cell of origin,
// one per direction, elevation links included.
func (b *Board) walk(origin, minDist, maxDist int, found mapset.Set[int]) {
	for _, start := range b.Zones[origin].Cells {
		for _, d := range AllDirs {
			cur, zone, dist := start, origin, 0
			// A line visits each cell at most once.
			for steps := 0; dist < maxDist && steps < b.Rows*b.Cols; steps++ {
				next, ok := b.pass(cur, d, Movement)
				if !ok {
					break
				}
				nz := b.ZoneOf(next)
				if nz != zone {
					dist++
					if dist >= minDist && nz != origin {
						found.Put(nz)
					}
				}
				if b.zombieAt(next) {
					break
				}
				cur, zone = next, nz
			}
		}
	}
}

// sightLines walks straight lines in each compass direction from every
// cell of origin. visit is called for every zone entered with its distance
// in zone transitions; returning false stops the whole scan. wide grants
// the tower bonus of ranged and magic attacks.
func (b *Board) sightLines(origin, maxDist int, wide bool, visit func(zone, dist int) bool) {
	limit := b.indoorLimit(origin, wide)
	for _, start := range b.Zones[origin].Cells {
		for _, d := range Compass {
			cur, zone, dist, indoor := start, origin, 0, 0
			for {
				next, ok := b.pass(cur, d, Ranged)
				if !ok {
					break
				}
				nz := b.ZoneOf(next)
				if nz != zone {
					if b.Zones[zone].Type.Indoor() || b.Zones[nz].Type.Indoor() {
						indoor++
						if indoor > limit {
							break
						}
					}
					dist++
					if maxDist >= 0 && dist > maxDist {
						break
					}
					if !visit(nz, dist) {
						return
					}
				}
				cur, zone = next, nz
			}
		}
	}
}

// CanSee reports whether any cell of zone a has an unobstructed straight
// line into zone b. A zone always sees itself.
func (b *Board) CanSee(a, c int) bool {
	if b.Zone(a) == nil || b.Zone(c) == nil {
		return false
	}
	if a == c {
		return true
	}
	seen := false
	b.sightLines(a, -1, false, func(zone, _ int) bool {
		if zone == c {
			seen = true
			return false
		}
		return true
	})
	return seen
}

// ZoneDistance returns the number of zone transitions of the shortest
// straight line from a to c, or -1 when c is not in sight.
func (b *Board) ZoneDistance(a, c int) int {
	if a == c {
		return 0
	}
	best := -1
	b.sightLines(a, -1, false, func(zone, dist int) bool {
		if zone == c && (best < 0 || dist < best) {
			best = dist
		}
		return true
	})
	return best
}

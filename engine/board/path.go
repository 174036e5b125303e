package board

// ShortestPathOptions returns every direction sequence of minimal length
// that walks from cell `from` into zone toZone through passable walls. A
// start already inside toZone yields a single empty path; an unreachable
// zone yields nil.
func (b *Board) ShortestPathOptions(from Pos, toZone int) [][]Dir {
	if b.Cell(from) == nil || b.Zone(toZone) == nil {
		return nil
	}
	if b.ZoneOf(from) == toZone {
		return [][]Dir{{}}
	}

	// Layer cells by walking distance; the first layer touching toZone is
	// the bound every enumerated path must meet exactly.
	depth := map[Pos]int{from: 0}
	frontier := []Pos{from}
	best := -1
	for d := 1; len(frontier) > 0 && best < 0; d++ {
		var next []Pos
		for _, p := range frontier {
			for _, dir := range AllDirs {
				n, ok := b.pass(p, dir, Movement)
				if !ok {
					continue
				}
				if _, seen := depth[n]; seen {
					continue
				}
				depth[n] = d
				if b.ZoneOf(n) == toZone {
					best = d
				}
				next = append(next, n)
			}
		}
		frontier = next
	}
	if best < 0 {
		return nil
	}

	var paths [][]Dir
	trail := make([]Dir, 0, best)
	var dfs func(p Pos)
	dfs = func(p Pos) {
		step := len(trail)
		if step == best {
			if b.ZoneOf(p) == toZone {
				paths = append(paths, append([]Dir(nil), trail...))
			}
			return
		}
		for _, dir := range AllDirs {
			n, ok := b.pass(p, dir, Movement)
			if !ok || depth[n] != step+1 {
				continue
			}
			if b.ZoneOf(n) == toZone && step+1 < best {
				continue
			}
			trail = append(trail, dir)
			dfs(n)
			trail = trail[:step]
		}
	}
	dfs(from)
	return paths
}

// Replay follows dirs from p and returns the cell reached. ok is false when
// a step is blocked.
func (b *Board) Replay(p Pos, dirs []Dir) (Pos, bool) {
	for _, d := range dirs {
		n, ok := b.pass(p, d, Movement)
		if !ok {
			return p, false
		}
		p = n
	}
	return p, true
}

// NextZone returns the first zone other than the start's entered by
// following dirs from p, the cell where it is entered and the directions
// left after it.
func (b *Board) NextZone(p Pos, dirs []Dir) (int, Pos, []Dir, bool) {
	start := b.ZoneOf(p)
	for i, d := range dirs {
		n, ok := b.pass(p, d, Movement)
		if !ok {
			return -1, p, nil, false
		}
		p = n
		if z := b.ZoneOf(p); z != start {
			return z, p, dirs[i+1:], true
		}
	}
	return -1, p, nil, false
}

package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/deadzone/engine/actor"
	"github.com/nathoo/deadzone/engine/board"
	"github.com/nathoo/deadzone/engine/state"
)

const cellWidth = 6

// Horizontal and vertical glyphs per wall flag.
var (
	hGlyph = map[board.WallFlag]byte{
		board.WallNone: ' ', board.WallSolid: '-', board.WallClosed: '=',
		board.WallOpen: '.', board.WallLocked: '#', board.WallRampart: '~',
	}
	vGlyph = map[board.WallFlag]byte{
		board.WallNone: ' ', board.WallSolid: '|', board.WallClosed: ']',
		board.WallOpen: ':', board.WallLocked: '#', board.WallRampart: '!',
	}
)

// Legend explains the glyphs Render uses.
const Legend = `walls: | - wall   ] = door   : . open door   # locked   ! ~ rampart
cells: zone, type (i building, v vault, t tower), S start, X exit, * spawn, o objective
       nC nZ characters and zombies in the cell`

// Render draws the board as text followed by the actors. The map edge is
// always drawn as a wall.
func Render(s *state.State) string {
	b := s.Board
	var out strings.Builder
	fmt.Fprintf(&out, "Round %d, danger %s\n", s.Round, s.DangerLevel())

	chars, zombies := occupants(s)
	for r := 0; r < b.Rows; r++ {
		// North walls of the row.
		out.WriteByte('+')
		for c := 0; c < b.Cols; c++ {
			g := byte('-')
			if r > 0 {
				g = hGlyph[b.Cells[r][c].Walls[board.North]]
			}
			out.WriteString(strings.Repeat(string(g), cellWidth))
			out.WriteByte('+')
		}
		out.WriteByte('\n')

		for line := 0; line < 2; line++ {
			out.WriteByte('|')
			for c := 0; c < b.Cols; c++ {
				p := board.Pos{Row: r, Col: c}
				if line == 0 {
					out.WriteString(cellHeader(b, p))
				} else {
					out.WriteString(cellCount(chars[p], zombies[p]))
				}
				g := byte('|')
				if c < b.Cols-1 {
					g = vGlyph[b.Cells[r][c].Walls[board.East]]
				}
				out.WriteByte(g)
			}
			out.WriteByte('\n')
		}
	}
	out.WriteString("+" + strings.Repeat(strings.Repeat("-", cellWidth)+"+", b.Cols) + "\n")

	for _, c := range s.Characters {
		out.WriteString(describeCharacter(c))
		out.WriteByte('\n')
	}
	for _, line := range zombieSummary(s) {
		out.WriteString(line)
		out.WriteByte('\n')
	}
	if s.Outcome.Over {
		verdict := "lost"
		if s.Outcome.Won {
			verdict = "won"
		}
		fmt.Fprintf(&out, "Quest %s: %s\n", verdict, s.Outcome.Reason)
	}
	return out.String()
}

func occupants(s *state.State) (chars, zombies map[board.Pos]int) {
	chars, zombies = map[board.Pos]int{}, map[board.Pos]int{}
	for _, c := range s.Characters {
		if c.Alive && c.OnBoard() {
			chars[c.Cell()]++
		}
	}
	for _, z := range s.Zombies {
		if z.Alive && z.OnBoard() {
			zombies[z.Cell()]++
		}
	}
	return chars, zombies
}

func cellHeader(b *board.Board, p board.Pos) string {
	cell := b.Cell(p)
	z := b.Zone(cell.Zone)
	typ := " "
	switch z.Type {
	case board.Building:
		typ = "i"
	case board.Vault:
		typ = "v"
	case board.Tower:
		typ = "t"
	}
	var marks strings.Builder
	if cell.Start {
		marks.WriteByte('S')
	}
	if cell.Exit {
		marks.WriteByte('X')
	}
	marks.WriteString(strings.Repeat("*", cell.Spawns))
	// The zone's objective is shown on its first cell.
	if z.Objective && len(z.Cells) > 0 && z.Cells[0] == p {
		marks.WriteByte('o')
	}
	return fit(fmt.Sprintf("%2d%s%s", cell.Zone, typ, marks.String()))
}

func cellCount(chars, zombies int) string {
	var parts []string
	if chars > 0 {
		parts = append(parts, fmt.Sprintf("%dC", chars))
	}
	if zombies > 0 {
		parts = append(parts, fmt.Sprintf("%dZ", zombies))
	}
	return fit(strings.Join(parts, " "))
}

// fit pads or truncates s to the cell width.
func fit(s string) string {
	if len(s) > cellWidth {
		return s[:cellWidth]
	}
	return s + strings.Repeat(" ", cellWidth-len(s))
}

func describeCharacter(c *actor.Character) string {
	var where string
	switch {
	case !c.Alive:
		where = "dead"
	case c.Exited:
		where = "escaped"
	case c.OnBoard():
		where = fmt.Sprintf("zone %d cell %s", c.Zone(), c.Cell())
	default:
		where = "off board"
	}
	hands := make([]string, len(c.Hands))
	for i, it := range c.Hands {
		hands[i] = "-"
		if it != nil {
			hands[i] = it.Type
		}
	}
	return fmt.Sprintf("%-8s %-18s wounds %d/%d  xp %d (%s)  actions %d  hands %s",
		c.Name, where, c.Wounds, c.MaxWounds, c.XP, c.Level(), c.Actions, strings.Join(hands, ", "))
}

// zombieSummary lists zombie counts per zone, by zone then type.
func zombieSummary(s *state.State) []string {
	perZone := map[int]map[string]int{}
	for _, z := range s.Zombies {
		if !z.Alive || !z.OnBoard() {
			continue
		}
		if perZone[z.Zone()] == nil {
			perZone[z.Zone()] = map[string]int{}
		}
		perZone[z.Zone()][z.Type]++
	}
	zones := make([]int, 0, len(perZone))
	for zone := range perZone {
		zones = append(zones, zone)
	}
	sort.Ints(zones)

	var lines []string
	for _, zone := range zones {
		types := make([]string, 0, len(perZone[zone]))
		for t := range perZone[zone] {
			types = append(types, t)
		}
		sort.Strings(types)
		parts := make([]string, len(types))
		for i, t := range types {
			parts[i] = fmt.Sprintf("%s x%d", t, perZone[zone][t])
		}
		lines = append(lines, fmt.Sprintf("zone %d: %s", zone, strings.Join(parts, ", ")))
	}
	return lines
}

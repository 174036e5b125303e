// Package loader compiles Lua quest scripts into a board and a quest.
// The Lua VM is discarded after loading; nothing runs Lua during play.
package loader

import (
	"fmt"
	"strconv"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/deadzone/engine/actor"
	"github.com/nathoo/deadzone/engine/board"
	"github.com/nathoo/deadzone/engine/quest"
)

// Scenario is a compiled quest ready to be turned into a game state.
type Scenario struct {
	Board      *board.Board
	Quest      *quest.Quest
	Characters []string
	Users      int
	// DiceSize is the dice pool length, 0 for the default.
	DiceSize int
	// VaultIDs maps the script's vault ids to the numeric ids on the board.
	VaultIDs map[string]int
	Warnings []string
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or false if missing.
func getBool(tbl *lua.LTable, key string) bool {
	b, ok := tbl.RawGetString(key).(lua.LBool)
	return ok && bool(b)
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return int(n)
	}
	return 0
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	if t, ok := tbl.RawGetString(key).(*lua.LTable); ok {
		return t
	}
	return nil
}

// stringList returns the array part of tbl as strings, skipping others.
func stringList(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// compile converts the collected Lua data into a Scenario.
func compile(coll *collector) (*Scenario, error) {
	if coll.quest == nil {
		return nil, fmt.Errorf("no Quest{} definition found")
	}
	if coll.maps == 0 {
		return nil, fmt.Errorf("no Map{} definition found")
	}
	if coll.maps > 1 {
		return nil, fmt.Errorf("Map{} defined %d times", coll.maps)
	}

	q := quest.New(getString(coll.quest, "name"))
	q.Description = getString(coll.quest, "description")
	sc := &Scenario{
		Quest:      q,
		Characters: stringList(getTable(coll.quest, "characters")),
		Users:      max(1, getInt(coll.quest, "users")),
		DiceSize:   getInt(coll.quest, "dice"),
		VaultIDs:   map[string]int{},
	}
	q.Characters = sc.Characters
	if caps := getTable(coll.quest, "caps"); caps != nil {
		var err error
		caps.ForEach(func(k, v lua.LValue) {
			n, ok := v.(lua.LNumber)
			if !ok && err == nil {
				err = fmt.Errorf("cap for %s is not a number", k)
			}
			q.Caps[k.String()] = int(n)
		})
		if err != nil {
			return nil, err
		}
	}

	// Vault ids are numbered in declaration order.
	for i, raw := range coll.vaults {
		if _, dup := sc.VaultIDs[raw.id]; dup {
			return nil, fmt.Errorf("vault %q defined twice", raw.id)
		}
		sc.VaultIDs[raw.id] = i + 1
	}

	m := &mapCompiler{sc: sc, walls: map[board.Door]board.WallFlag{}, vaultDoors: map[int][]board.Door{}}
	if err := m.compile(coll.rows); err != nil {
		return nil, err
	}
	sc.Board = m.b

	for _, raw := range coll.vaults {
		id := sc.VaultIDs[raw.id]
		doors := m.vaultDoors[id]
		if len(doors) == 0 {
			return nil, fmt.Errorf("vault %q has no vault door on the map", raw.id)
		}
		zone := m.b.Target(doors[0])
		for _, d := range doors[1:] {
			if m.b.Target(d) != zone {
				return nil, fmt.Errorf("vault %q doors lead into different zones", raw.id)
			}
		}
		m.b.Zone(zone).Vault = id
		q.Vaults = append(q.Vaults, &quest.Vault{ID: id, Zone: zone, Items: stringList(raw.table)})
	}

	if len(coll.cards) > 0 {
		q.SpawnCards = map[string]quest.SpawnCard{}
		q.SpawnDeck = quest.NewDeck(nil)
		for _, raw := range coll.cards {
			card, err := compileCard(raw)
			if err != nil {
				return nil, err
			}
			if err := q.AddSpawnCard(card); err != nil {
				return nil, err
			}
		}
	}
	if len(coll.loot) > 0 {
		q.LootDeck = quest.NewDeck(coll.loot)
	}
	q.StartZone = m.b.StartZone()
	q.ExitZone = m.b.ExitZone()
	return sc, nil
}

// compileCard reads one row per danger level: {zombie, count} or
// {zombie, extra = true}, optionally with necromancer = true. Rows are
// either positional, blue first, or keyed by level name; missing keyed
// levels spawn nothing.
func compileCard(raw rawCard) (quest.SpawnCard, error) {
	card := quest.SpawnCard{Name: raw.name}
	n := raw.table.MaxN()
	if n == 0 {
		return compileKeyedCard(raw)
	}
	if n != actor.NumLevels {
		return card, fmt.Errorf("spawn card %q has %d rows, want %d", raw.name, n, actor.NumLevels)
	}
	for i := 0; i < actor.NumLevels; i++ {
		row, ok := raw.table.RawGetInt(i + 1).(*lua.LTable)
		if !ok {
			return card, fmt.Errorf("spawn card %q row %d is not a table", raw.name, i+1)
		}
		card.Levels[i] = spawnEntry(row)
	}
	return card, nil
}

func compileKeyedCard(raw rawCard) (quest.SpawnCard, error) {
	card := quest.SpawnCard{Name: raw.name}
	var err error
	raw.table.ForEach(func(k, v lua.LValue) {
		if err != nil {
			return
		}
		lvl, ok := actor.ParseLevel(k.String())
		if !ok {
			err = fmt.Errorf("spawn card %q has unknown level %q", raw.name, k.String())
			return
		}
		row, ok := v.(*lua.LTable)
		if !ok {
			err = fmt.Errorf("spawn card %q %s row is not a table", raw.name, lvl)
			return
		}
		card.Levels[lvl] = spawnEntry(row)
	})
	return card, err
}

func spawnEntry(row *lua.LTable) quest.SpawnEntry {
	return quest.SpawnEntry{
		Zombie:          getString(row, "zombie"),
		Count:           getInt(row, "count"),
		ExtraActivation: getBool(row, "extra"),
		Necromancer:     getBool(row, "necromancer"),
	}
}

// mapCompiler turns the Map{} rows into a board. Each row holds
// whitespace-separated cells; each cell is a colon-separated token list
// starting with its zone id:
//
//	z<id>          zone the cell belongs to (required, first)
//	i v t          building, vault or tower zone (outdoor otherwise)
//	w<d> r<d>      wall or rampart on side d (n s e w)
//	d<d> od<d>     closed or open door
//	jd<d>          closed door jammed on this side
//	l<d>=<colour>  door locked with a colour
//	vd<d>=<id>     closed door into vault <id>
//	sp st ex       spawn point, start, exit
//	obj[=<colour>] objective, optionally unlocking <colour> doors
//	up=<r>,<c>     stairs up to cell r,c (down=<r>,<c> for the reverse)
//	zombie=<t>,<n> n zombies of type t placed at setup
type mapCompiler struct {
	sc         *Scenario
	b          *board.Board
	zones      map[string]int
	typed      map[int]bool
	walls      map[board.Door]board.WallFlag
	vaultDoors map[int][]board.Door
}

var dirLetters = map[string]board.Dir{"n": board.North, "s": board.South, "e": board.East, "w": board.West}

func (m *mapCompiler) compile(rows []string) error {
	if len(rows) == 0 {
		return fmt.Errorf("Map{} has no rows")
	}
	grid := make([][]string, len(rows))
	for r, row := range rows {
		grid[r] = strings.Fields(row)
		if len(grid[r]) != len(grid[0]) {
			return fmt.Errorf("map row %d has %d cells, row 0 has %d", r, len(grid[r]), len(grid[0]))
		}
	}
	if len(grid[0]) == 0 {
		return fmt.Errorf("Map{} has empty rows")
	}
	m.b = board.New(len(grid), len(grid[0]))
	m.zones = map[string]int{}
	m.typed = map[int]bool{}

	// 1. Zones first, so commands may refer to neighbours on later rows.
	for r, row := range grid {
		for c, cell := range row {
			id, _, _ := strings.Cut(cell, ":")
			if !strings.HasPrefix(id, "z") || len(id) < 2 {
				return fmt.Errorf("cell %d,%d: %q before a zone id", r, c, id)
			}
			zone, ok := m.zones[id]
			if !ok {
				zone = m.b.AddZone(board.Outdoor)
				m.zones[id] = zone
			}
			if err := m.b.Assign(board.Pos{Row: r, Col: c}, zone); err != nil {
				return err
			}
		}
	}

	// 2. Cell commands.
	for r, row := range grid {
		for c, cell := range row {
			p := board.Pos{Row: r, Col: c}
			for _, tok := range strings.Split(cell, ":")[1:] {
				if err := m.command(p, tok); err != nil {
					return fmt.Errorf("cell %s %q: %w", p, tok, err)
				}
			}
		}
	}

	// 3. Structural checks.
	return m.b.Finalize()
}

func (m *mapCompiler) command(p board.Pos, tok string) error {
	b := m.b
	zone := b.ZoneOf(p)
	key, val, hasVal := strings.Cut(tok, "=")
	switch key {
	case "i":
		return m.setType(zone, board.Building)
	case "v":
		return m.setType(zone, board.Vault)
	case "t":
		return m.setType(zone, board.Tower)
	case "sp":
		cell := b.Cell(p)
		if cell.Spawns >= board.MaxSpawnsPerCell {
			return fmt.Errorf("more than %d spawn points", board.MaxSpawnsPerCell)
		}
		cell.Spawns++
		return nil
	case "st":
		b.Cell(p).Start = true
		return nil
	case "ex":
		b.Cell(p).Exit = true
		return nil
	case "obj":
		z := b.Zone(zone)
		if z.Objective {
			return fmt.Errorf("zone already holds an objective")
		}
		z.Objective, z.ObjectiveColor = true, val
		m.sc.Quest.Objectives = append(m.sc.Quest.Objectives, &quest.Objective{Zone: zone, Color: val})
		return nil
	case "up", "down":
		q, err := parsePos(val)
		if err != nil {
			return err
		}
		if !b.InBounds(q) {
			return fmt.Errorf("stairs lead off the map to %s", q)
		}
		if key == "up" {
			return b.Link(p, q, board.WallOpen)
		}
		return b.Link(q, p, board.WallOpen)
	case "zombie":
		typ, count, ok := strings.Cut(val, ",")
		n, err := strconv.Atoi(count)
		if !ok || err != nil || n <= 0 {
			return fmt.Errorf("want zombie=<type>,<count>")
		}
		m.sc.Quest.Initial = append(m.sc.Quest.Initial, quest.InitialSpawn{Zone: zone, Zombie: typ, Count: n})
		return nil
	}

	// Wall and door commands end with a direction letter.
	if len(key) < 2 {
		return fmt.Errorf("unknown command")
	}
	d, ok := dirLetters[key[len(key)-1:]]
	if !ok {
		return fmt.Errorf("unknown command")
	}
	door := board.Door{Cell: p, Dir: d}
	switch key[:len(key)-1] {
	case "w":
		return m.wall(door, board.WallSolid)
	case "r":
		return m.wall(door, board.WallRampart)
	case "d":
		return m.wall(door, board.WallClosed)
	case "od":
		return m.wall(door, board.WallOpen)
	case "jd":
		if err := m.wall(door, board.WallClosed); err != nil {
			return err
		}
		b.SetJammed(door, true)
		return nil
	case "l":
		if !hasVal || val == "" {
			return fmt.Errorf("locked door needs a colour")
		}
		if err := m.wall(door, board.WallClosed); err != nil {
			return err
		}
		if b.State(door) == board.WallLocked {
			if c := b.Side(door).Color; c != val {
				return fmt.Errorf("conflicting lock colours %s and %s", c, val)
			}
			return nil
		}
		return b.Lock(door, val)
	case "vd":
		id, ok := m.sc.VaultIDs[val]
		if !ok {
			return fmt.Errorf("no Vault %q defined", val)
		}
		if err := m.wall(door, board.WallClosed); err != nil {
			return err
		}
		b.Cell(p).Sides[d].Vault = id
		m.vaultDoors[id] = append(m.vaultDoors[id], door)
		return nil
	}
	return fmt.Errorf("unknown command")
}

// wall sets one side and its twin, refusing a side already declared
// differently from either cell. A locked door stays locked when its other
// side is declared as a plain door.
func (m *mapCompiler) wall(door board.Door, flag board.WallFlag) error {
	if twin, ok := m.b.Twin(door); ok {
		if prev, seen := m.walls[twin]; seen && prev != flag {
			return fmt.Errorf("conflicting walls: %s is %s but %s is %s", twin, prev, door, flag)
		}
	}
	if prev, seen := m.walls[door]; seen && prev != flag {
		return fmt.Errorf("conflicting walls: %s is already %s", door, prev)
	}
	m.walls[door] = flag
	if flag == board.WallClosed && m.b.State(door) == board.WallLocked {
		return nil
	}
	return m.b.SetWall(door.Cell, door.Dir, flag)
}

func (m *mapCompiler) setType(zone int, t board.ZoneType) error {
	z := m.b.Zone(zone)
	if m.typed[zone] && z.Type != t {
		return fmt.Errorf("zone is already a %s", z.Type)
	}
	z.Type = t
	m.typed[zone] = true
	return nil
}

func parsePos(s string) (board.Pos, error) {
	rs, cs, ok := strings.Cut(s, ",")
	r, err1 := strconv.Atoi(rs)
	c, err2 := strconv.Atoi(cs)
	if !ok || err1 != nil || err2 != nil {
		return board.Pos{}, fmt.Errorf("want <row>,<col>, got %q", s)
	}
	return board.Pos{Row: r, Col: c}, nil
}

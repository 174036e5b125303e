package loader

import (
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/deadzone/engine/actor"
	"github.com/nathoo/deadzone/engine/board"
)

// newTestVM creates a sandboxed Lua VM with the API registered and a fresh collector.
func newTestVM() (*lua.LState, *collector) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibs(L)
	sandbox(L)
	coll := &collector{}
	registerAPI(L, coll)
	return L, coll
}

// withMap wraps map rows in a one-character quest.
func withMap(rows ...string) string {
	var b strings.Builder
	b.WriteString("\n" + `Quest { name = "T", characters = { "ann" } }` + "\n")
	b.WriteString("Map {\n")
	for _, r := range rows {
		b.WriteString("  \"" + r + "\",\n")
	}
	b.WriteString("}\n")
	return b.String()
}

func TestCompile_QuestFields(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		Quest {
			name = "Fields",
			description = "desc",
			characters = { "ann", "silas" },
			users = 2,
			dice = 60,
			caps = { walker = 5 },
		}
		Map { "z1:st" }
	`); err != nil {
		t.Fatal(err)
	}

	sc, err := compile(coll)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if sc.Quest.Description != "desc" {
		t.Errorf("Description = %q", sc.Quest.Description)
	}
	if sc.Users != 2 || sc.DiceSize != 60 {
		t.Errorf("users %d dice %d", sc.Users, sc.DiceSize)
	}
	if sc.Quest.Cap("walker") != 5 {
		t.Errorf("walker cap = %d, want 5", sc.Quest.Cap("walker"))
	}
	if strings.Join(sc.Quest.Characters, ",") != "ann,silas" {
		t.Errorf("Characters = %v", sc.Quest.Characters)
	}
}

func TestCompile_MissingDefinitions(t *testing.T) {
	tests := []struct {
		name, src, want string
	}{
		{"no quest", `Map { "z1:st" }`, "no Quest{}"},
		{"no map", `Quest { name = "x", characters = { "ann" } }`, "no Map{}"},
		{"two maps", withMap("z1:st") + `Map { "z1" }`, "defined 2 times"},
		{"two quests", withMap("z1:st") + `Quest { name = "y" }`, "defined twice"},
		{"non-numeric cap", `Quest { name = "x", characters = { "ann" }, caps = { walker = "many" } }
Map { "z1:st" }`, "not a number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadString(tt.src)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestCompileMap_Errors(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		want string
	}{
		{"ragged rows", []string{"z1:st z1", "z2"}, "row 1 has 1 cells"},
		{"command before zone", []string{"st:z1"}, "before a zone id"},
		{"unknown command", []string{"z1:st:fly"}, "unknown command"},
		{"unknown direction", []string{"z1:st:wq"}, "unknown command"},
		{"disconnected zone", []string{"z1:st z2 z1"}, "zone 0"},
		{"type conflict", []string{"z1:st:i z1:t"}, "already a building"},
		{"three spawns", []string{"z1:st:sp:sp:sp"}, "spawn points"},
		{"two objectives", []string{"z1:st:obj z1:obj"}, "already holds"},
		{"bad zombie", []string{"z1:st:zombie=walker"}, "zombie=<type>,<count>"},
		{"bad stairs", []string{"z1:st:up=x"}, "<row>,<col>"},
		{"stairs off map", []string{"z1:st:up=4,4"}, "off the map"},
		{"lock without colour", []string{"z1:st:le z2"}, "needs a colour"},
		{"conflicting walls", []string{"z1:st:we z2:dw"}, "conflicting walls"},
		{"conflicting locks", []string{"z1:st:le=red z2:lw=blue"}, "conflicting lock colours"},
		{"unknown vault", []string{"z1:st:vde=nope z2:v"}, "no Vault"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadString(withMap(tt.rows...))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestCompileMap_Walls(t *testing.T) {
	sc, err := LoadString(withMap(
		"z1:st:we  z2:re       z3:i",
		"z4:de     z5:jdw:odn  z6:i:lw=red",
	))
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	b := sc.Board
	at := func(r, c int, d board.Dir) board.WallFlag {
		return b.Cell(board.Pos{Row: r, Col: c}).Walls[d]
	}

	if at(0, 0, board.East) != board.WallSolid || at(0, 1, board.West) != board.WallSolid {
		t.Error("wall not mirrored")
	}
	if at(0, 1, board.East) != board.WallRampart || at(0, 2, board.West) != board.WallRampart {
		t.Errorf("rampart = %s / %s", at(0, 1, board.East), at(0, 2, board.West))
	}
	if at(1, 1, board.North) != board.WallOpen || at(0, 1, board.South) != board.WallOpen {
		t.Errorf("open door = %s", at(1, 1, board.North))
	}

	// Jammed on z5's side only.
	door := board.Door{Cell: board.Pos{Row: 1, Col: 1}, Dir: board.West}
	if b.State(door) != board.WallClosed || !b.IsJammed(door) {
		t.Error("door not jammed on its declaring side")
	}
	twin, _ := b.Twin(door)
	if b.IsJammed(twin) {
		t.Error("jam leaked to the other side")
	}

	locked := board.Door{Cell: board.Pos{Row: 1, Col: 2}, Dir: board.West}
	if b.State(locked) != board.WallLocked || b.Side(locked).Color != "red" {
		t.Errorf("lock = %s %q", b.State(locked), b.Side(locked).Color)
	}
	if b.Zone(b.ZoneOf(board.Pos{Row: 0, Col: 2})).Type != board.Building {
		t.Error("z3 should be a building")
	}
}

func TestCompileMap_LockedAndPlainSidesAgree(t *testing.T) {
	sc, err := LoadString(withMap("z1:st:le=red z2:dw"))
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	door := board.Door{Cell: board.Pos{Row: 0, Col: 1}, Dir: board.West}
	if sc.Board.State(door) != board.WallLocked {
		t.Errorf("plain side overwrote the lock: %s", sc.Board.State(door))
	}
}

func TestCompileMap_StairsAndInitialZombies(t *testing.T) {
	sc, err := LoadString(withMap(
		"z1:st:up=1,1:zombie=runner,2  z2:t",
		"z3                            z2:t:zombie=walker,1",
	))
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	b := sc.Board
	lowPos, highPos := board.Pos{Row: 0, Col: 0}, board.Pos{Row: 1, Col: 1}
	low, high := b.Cell(lowPos), b.Cell(highPos)
	if low.Walls[board.Ascend] != board.WallOpen || low.Sides[board.Ascend].Link != highPos {
		t.Errorf("ascend = %s to %s", low.Walls[board.Ascend], low.Sides[board.Ascend].Link)
	}
	if high.Walls[board.Descend] != board.WallOpen || high.Sides[board.Descend].Link != lowPos {
		t.Errorf("descend = %s to %s", high.Walls[board.Descend], high.Sides[board.Descend].Link)
	}

	initial := sc.Quest.Initial
	if len(initial) != 2 {
		t.Fatalf("initial = %+v", initial)
	}
	if initial[0].Zombie != "runner" || initial[0].Count != 2 || initial[0].Zone != 0 {
		t.Errorf("initial[0] = %+v", initial[0])
	}
	if initial[1].Zone != b.ZoneOf(highPos) {
		t.Errorf("initial[1] zone = %d", initial[1].Zone)
	}
}

func TestCompile_Vaults(t *testing.T) {
	t.Run("numbered in declaration order", func(t *testing.T) {
		sc, err := LoadString(`
Vault "a" { "sword" }
Vault "b" { "axe" }
` + withMap("z1:st:vde=b z2:v:vde=a z3:v"))
		if err != nil {
			t.Fatalf("LoadString: %v", err)
		}
		if sc.VaultIDs["a"] != 1 || sc.VaultIDs["b"] != 2 {
			t.Errorf("VaultIDs = %v", sc.VaultIDs)
		}
		b := sc.Quest.Vault(2)
		if b == nil || b.Zone != 1 || b.Items[0] != "axe" {
			t.Errorf("vault b = %+v", b)
		}
		if a := sc.Quest.Vault(1); a == nil || a.Zone != 2 {
			t.Errorf("vault a = %+v", a)
		}
	})
	t.Run("without a door", func(t *testing.T) {
		_, err := LoadString(`Vault "a" { "sword" }` + withMap("z1:st z2:v"))
		if err == nil || !strings.Contains(err.Error(), "no vault door") {
			t.Errorf("err = %v", err)
		}
	})
	t.Run("doors into different zones", func(t *testing.T) {
		_, err := LoadString(`Vault "a" { "sword" }` + withMap("z1:v:vde=a z2:st:vde=a z3:v"))
		if err == nil || !strings.Contains(err.Error(), "different zones") {
			t.Errorf("err = %v", err)
		}
	})
	t.Run("defined twice", func(t *testing.T) {
		_, err := LoadString(`Vault "a" { "sword" }
Vault "a" { "axe" }` + withMap("z1:st"))
		if err == nil || !strings.Contains(err.Error(), "defined twice") {
			t.Errorf("err = %v", err)
		}
	})
}

func TestCompileCard(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		SpawnCard "mixed" {
			{ zombie = "walker", count = 1 },
			{ zombie = "runner", extra = true },
			{ },
			{ zombie = "fatty", count = 2, necromancer = true },
		}
		SpawnCard "short" { { zombie = "walker", count = 1 } }
	`); err != nil {
		t.Fatal(err)
	}
	if len(coll.cards) != 2 {
		t.Fatalf("cards = %d", len(coll.cards))
	}

	card, err := compileCard(coll.cards[0])
	if err != nil {
		t.Fatalf("compileCard: %v", err)
	}
	if card.Levels[0].Zombie != "walker" || card.Levels[0].Count != 1 {
		t.Errorf("blue = %+v", card.Levels[0])
	}
	if !card.Levels[1].ExtraActivation || card.Levels[1].Count != 0 {
		t.Errorf("yellow = %+v", card.Levels[1])
	}
	if card.Levels[2].Zombie != "" {
		t.Errorf("orange = %+v", card.Levels[2])
	}
	if !card.Levels[3].Necromancer || card.Levels[3].Count != 2 {
		t.Errorf("red = %+v", card.Levels[3])
	}

	if _, err := compileCard(coll.cards[1]); err == nil {
		t.Error("expected error for a card with one row")
	}
}

func TestCompileCard_KeyedByLevel(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		SpawnCard "late" {
			orange = { zombie = "runner", count = 1 },
			red = { zombie = "abomination", count = 1 },
		}
		SpawnCard "bad" { purple = { zombie = "walker", count = 1 } }
		SpawnCard "flat" { red = "walker" }
	`); err != nil {
		t.Fatal(err)
	}

	card, err := compileCard(coll.cards[0])
	if err != nil {
		t.Fatalf("compileCard: %v", err)
	}
	if card.Levels[actor.Blue].Zombie != "" || card.Levels[actor.Yellow].Zombie != "" {
		t.Errorf("missing levels should spawn nothing: %+v", card.Levels)
	}
	if card.Levels[actor.Orange].Zombie != "runner" || card.Levels[actor.Red].Zombie != "abomination" {
		t.Errorf("levels = %+v", card.Levels)
	}

	if _, err := compileCard(coll.cards[1]); err == nil || !strings.Contains(err.Error(), `unknown level "purple"`) {
		t.Errorf("err = %v", err)
	}
	if _, err := compileCard(coll.cards[2]); err == nil || !strings.Contains(err.Error(), "red row is not a table") {
		t.Errorf("err = %v", err)
	}
}

func TestCompile_CustomDecksReplaceDefaults(t *testing.T) {
	sc, err := LoadString(`
SpawnCard "only" {
  { zombie = "walker", count = 1 },
  { zombie = "walker", count = 1 },
  { zombie = "walker", count = 1 },
  { zombie = "walker", count = 1 },
}
Loot { "sword" }
Loot { "axe", "torch" }
` + withMap("z1:st z2:sp"))
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	q := sc.Quest
	if len(q.SpawnCards) != 1 || q.SpawnDeck.Len() != 1 {
		t.Errorf("spawn cards = %v", q.SpawnDeck.Draw)
	}
	if strings.Join(q.LootDeck.Draw, ",") != "sword,axe,torch" {
		t.Errorf("loot = %v", q.LootDeck.Draw)
	}
}

func TestCompile_DuplicateSpawnCard(t *testing.T) {
	card := `SpawnCard "x" { {}, {}, {}, {} }
`
	_, err := LoadString(card + card + withMap("z1:st"))
	if err == nil || !strings.Contains(err.Error(), "duplicate spawn card") {
		t.Errorf("err = %v", err)
	}
}

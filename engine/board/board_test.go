package board

import (
	"errors"
	"reflect"
	"testing"
)

type token struct {
	id     string
	zombie bool
	noisy  bool
	prio   int
	pl     Placement
}

func (t *token) GetID() string { return t.id }
func (t *token) IsZombie() bool { return t.zombie }
func (t *token) IsNoisy() bool { return t.noisy }
func (t *token) Priority() int { return t.prio }
func (t *token) Place() *Placement { return &t.pl }

// testBoard builds:
//
//	z0 z0 | z1      z1 is a building, "|" a closed door
//	z2 z2 # z1      "#" a wall
//	z3 z3 # z3
func testBoard(t *testing.T) *Board {
	t.Helper()
	b := New(3, 3)
	z0 := b.AddZone(Outdoor)
	z1 := b.AddZone(Building)
	z2 := b.AddZone(Outdoor)
	z3 := b.AddZone(Outdoor)
	assign := map[Pos]int{
		{0, 0}: z0, {0, 1}: z0, {0, 2}: z1,
		{1, 0}: z2, {1, 1}: z2, {1, 2}: z1,
		{2, 0}: z3, {2, 1}: z3, {2, 2}: z3,
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			if err := b.Assign(Pos{r, c}, assign[Pos{r, c}]); err != nil {
				t.Fatalf("assign: %v", err)
			}
		}
	}
	mustWall(t, b, Pos{0, 1}, East, WallClosed)
	mustWall(t, b, Pos{1, 1}, East, WallSolid)
	mustWall(t, b, Pos{1, 2}, South, WallSolid)
	mustWall(t, b, Pos{2, 1}, East, WallSolid)
	if err := b.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return b
}

func mustWall(t *testing.T, b *Board, p Pos, d Dir, f WallFlag) {
	t.Helper()
	if err := b.SetWall(p, d, f); err != nil {
		t.Fatalf("SetWall: %v", err)
	}
}

func TestAccessibleZones_ZeroDistance(t *testing.T) {
	b := testBoard(t)
	for _, z := range b.Zones {
		for _, k := range []Kind{Movement, Melee, Ranged, Magic, Throw} {
			got := b.AccessibleZones(z.Index, 0, 0, k)
			if !reflect.DeepEqual(got, []int{z.Index}) {
				t.Errorf("AccessibleZones(%d,0,0,%d) = %v, want [%d]", z.Index, k, got, z.Index)
			}
		}
	}
}

func TestAccessibleZones_ClosedDoorBlocks(t *testing.T) {
	b := testBoard(t)
	got := b.AccessibleZones(0, 1, 1, Movement)
	if !reflect.DeepEqual(got, []int{2}) {
		t.Fatalf("closed door: got %v, want [2]", got)
	}

	door, err := b.DoorAt(Pos{0, 1}, East)
	if err != nil {
		t.Fatalf("DoorAt: %v", err)
	}
	if err := b.Toggle(door); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	got = b.AccessibleZones(0, 1, 1, Movement)
	if !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("open door: got %v, want [1 2]", got)
	}
}

func TestAccessibleZones_MinDistance(t *testing.T) {
	b := testBoard(t)
	got := b.AccessibleZones(0, 2, 2, Movement)
	if !reflect.DeepEqual(got, []int{3}) {
		t.Errorf("got %v, want [3]", got)
	}
}

func TestAccessibleZones_MovementStopsAtZombie(t *testing.T) {
	b := testBoard(t)
	// One zombie blocks only the line through its own cell.
	if err := b.AddActor(&token{id: "w1", zombie: true}, Pos{1, 0}); err != nil {
		t.Fatalf("AddActor: %v", err)
	}
	got := b.AccessibleZones(0, 1, 3, Movement)
	if !reflect.DeepEqual(got, []int{2, 3}) {
		t.Errorf("one zombie: got %v, want [2 3]", got)
	}

	if err := b.AddActor(&token{id: "w2", zombie: true}, Pos{1, 1}); err != nil {
		t.Fatalf("AddActor: %v", err)
	}
	got = b.AccessibleZones(0, 1, 3, Movement)
	if !reflect.DeepEqual(got, []int{2}) {
		t.Errorf("both cells: got %v, want [2]", got)
	}
}

func TestAccessibleZones_MovementDoesNotTurnCorners(t *testing.T) {
	//	z0 z1
	//	z3#z2
	b := New(2, 2)
	z0 := b.AddZone(Outdoor)
	z1 := b.AddZone(Outdoor)
	z2 := b.AddZone(Outdoor)
	z3 := b.AddZone(Outdoor)
	for p, z := range map[Pos]int{{0, 0}: z0, {0, 1}: z1, {1, 1}: z2, {1, 0}: z3} {
		if err := b.Assign(p, z); err != nil {
			t.Fatal(err)
		}
	}
	mustWall(t, b, Pos{1, 0}, East, WallSolid)
	if err := b.Finalize(); err != nil {
		t.Fatal(err)
	}

	for _, k := range []Kind{Movement, Melee, Ranged} {
		if got := b.AccessibleZones(z0, 2, 2, k); len(got) != 0 {
			t.Errorf("kind %d: got %v, want none", k, got)
		}
	}
	got := b.AccessibleZones(z0, 1, 2, Movement)
	if !reflect.DeepEqual(got, []int{z1, z3}) {
		t.Errorf("got %v, want [%d %d]", got, z1, z3)
	}
}

func TestAccessibleZones_RangedIndoorLimit(t *testing.T) {
	b := New(1, 4)
	street := b.AddZone(Outdoor)
	room1 := b.AddZone(Building)
	room2 := b.AddZone(Building)
	tower := b.AddZone(Tower)
	for c, z := range []int{street, room1, room2, tower} {
		if err := b.Assign(Pos{0, c}, z); err != nil {
			t.Fatal(err)
		}
	}
	mustWall(t, b, Pos{0, 0}, East, WallOpen)
	mustWall(t, b, Pos{0, 1}, East, WallOpen)
	mustWall(t, b, Pos{0, 2}, East, WallOpen)
	if err := b.Finalize(); err != nil {
		t.Fatal(err)
	}

	got := b.AccessibleZones(street, 1, 3, Ranged)
	if !reflect.DeepEqual(got, []int{room1}) {
		t.Errorf("from street: got %v, want [%d]", got, room1)
	}
	got = b.AccessibleZones(tower, 1, 3, Ranged)
	if !reflect.DeepEqual(got, []int{room1, room2}) {
		t.Errorf("from tower: got %v, want [%d %d]", got, room1, room2)
	}
	got = b.AccessibleZones(tower, 1, 3, Magic)
	if !reflect.DeepEqual(got, []int{room1, room2}) {
		t.Errorf("magic from tower: got %v, want [%d %d]", got, room1, room2)
	}

	// The tower bonus is for ranged and magic attacks only.
	got = b.AccessibleZones(tower, 1, 3, Throw)
	if !reflect.DeepEqual(got, []int{room2}) {
		t.Errorf("throw from tower: got %v, want [%d]", got, room2)
	}
	if b.CanSee(tower, room1) {
		t.Error("plain sight from the tower should stop after one indoor boundary")
	}
	if d := b.ZoneDistance(tower, room1); d != -1 {
		t.Errorf("ZoneDistance(tower, room1) = %d, want -1", d)
	}
	if d := b.ZoneDistance(tower, room2); d != 1 {
		t.Errorf("ZoneDistance(tower, room2) = %d, want 1", d)
	}
}

func TestAccessibleZones_RampartSeeThrough(t *testing.T) {
	b := New(1, 2)
	a := b.AddZone(Outdoor)
	c := b.AddZone(Outdoor)
	_ = b.Assign(Pos{0, 0}, a)
	_ = b.Assign(Pos{0, 1}, c)
	mustWall(t, b, Pos{0, 0}, East, WallRampart)

	if got := b.AccessibleZones(a, 1, 1, Movement); len(got) != 0 {
		t.Errorf("movement through rampart: got %v", got)
	}
	if got := b.AccessibleZones(a, 1, 1, Ranged); !reflect.DeepEqual(got, []int{c}) {
		t.Errorf("sight through rampart: got %v", got)
	}
}

func TestCanSee(t *testing.T) {
	b := testBoard(t)
	if !b.CanSee(0, 3) {
		t.Error("zone 0 should see zone 3 down the street")
	}
	if b.CanSee(2, 1) {
		t.Error("zone 2 should not see zone 1 through a wall")
	}
	if b.CanSee(0, 1) {
		t.Error("closed door should block sight")
	}
	door, _ := b.DoorAt(Pos{0, 1}, East)
	_ = b.Toggle(door)
	if !b.CanSee(0, 1) {
		t.Error("open door should allow sight")
	}
}

func TestDoor_ToggleTwiceRestores(t *testing.T) {
	b := testBoard(t)
	door, _ := b.DoorAt(Pos{0, 1}, East)
	twin, ok := b.Twin(door)
	if !ok {
		t.Fatal("door has no twin")
	}
	b.SetJammed(twin, true)

	if err := b.Toggle(door); err != nil {
		t.Fatal(err)
	}
	if b.State(door) != WallOpen || b.State(twin) != WallOpen {
		t.Fatalf("after toggle: %s/%s, want open/open", b.State(door), b.State(twin))
	}
	if !b.IsJammed(twin) {
		t.Error("toggle cleared the opposite jam flag")
	}
	if err := b.Toggle(door); err != nil {
		t.Fatal(err)
	}
	if b.State(door) != WallClosed || b.State(twin) != WallClosed {
		t.Errorf("after second toggle: %s/%s, want closed/closed", b.State(door), b.State(twin))
	}
	if b.IsJammed(door) || !b.IsJammed(twin) {
		t.Errorf("jam flags changed: door=%v twin=%v", b.IsJammed(door), b.IsJammed(twin))
	}
}

func TestDoor_TwinIsUnique(t *testing.T) {
	b := testBoard(t)
	for _, door := range b.Doors() {
		twin, ok := b.Twin(door)
		if !ok {
			t.Fatalf("%s has no twin", door)
		}
		back, _ := b.Twin(twin)
		if back != door {
			t.Errorf("twin of twin of %s = %s", door, back)
		}
	}
	if n := len(b.Doors()); n != 1 {
		t.Errorf("Doors() = %d, want 1", n)
	}
}

func TestDoor_ElevationNeverJammed(t *testing.T) {
	b := New(1, 2)
	a := b.AddZone(Tower)
	c := b.AddZone(Tower)
	_ = b.Assign(Pos{0, 0}, a)
	_ = b.Assign(Pos{0, 1}, c)
	mustWall(t, b, Pos{0, 0}, East, WallSolid)
	if err := b.Link(Pos{0, 0}, Pos{0, 1}, WallClosed); err != nil {
		t.Fatal(err)
	}
	up := Door{Cell: Pos{0, 0}, Dir: Ascend}
	b.SetJammed(up, true)
	if b.IsJammed(up) {
		t.Error("elevation door reported jammed")
	}
	_ = b.Toggle(up)
	if got := b.AccessibleZones(a, 1, 1, Movement); !reflect.DeepEqual(got, []int{c}) {
		t.Errorf("stairs: got %v, want [%d]", got, c)
	}
}

func TestDoor_LockUnlockBarricade(t *testing.T) {
	b := testBoard(t)
	door, _ := b.DoorAt(Pos{0, 1}, East)
	if err := b.Lock(door, "red"); err != nil {
		t.Fatal(err)
	}
	if err := b.Toggle(door); err == nil {
		t.Error("toggling a locked door should fail")
	}
	if n := b.Unlock("blue"); n != 0 {
		t.Errorf("Unlock(blue) = %d, want 0", n)
	}
	if n := b.Unlock("red"); n != 1 {
		t.Errorf("Unlock(red) = %d, want 1", n)
	}
	if err := b.Barricade(door); err != nil {
		t.Fatal(err)
	}
	twin, _ := b.Twin(door)
	if b.State(twin) != WallSolid {
		t.Errorf("barricaded twin = %s, want wall", b.State(twin))
	}
}

func TestShortestPathOptions_AllMinimal(t *testing.T) {
	b := New(2, 2)
	for i := 0; i < 4; i++ {
		b.AddZone(Outdoor)
	}
	_ = b.Assign(Pos{0, 0}, 0)
	_ = b.Assign(Pos{0, 1}, 1)
	_ = b.Assign(Pos{1, 0}, 2)
	_ = b.Assign(Pos{1, 1}, 3)
	if err := b.Finalize(); err != nil {
		t.Fatal(err)
	}

	paths := b.ShortestPathOptions(Pos{0, 0}, 3)
	want := [][]Dir{{South, East}, {East, South}}
	if !reflect.DeepEqual(paths, want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for _, p := range paths {
		end, ok := b.Replay(Pos{0, 0}, p)
		if !ok || b.ZoneOf(end) != 3 {
			t.Errorf("replay of %v ended at %s", p, end)
		}
	}
}

func TestShortestPathOptions_Edges(t *testing.T) {
	b := testBoard(t)
	if got := b.ShortestPathOptions(Pos{0, 0}, 0); !reflect.DeepEqual(got, [][]Dir{{}}) {
		t.Errorf("same zone: got %v", got)
	}
	if got := b.ShortestPathOptions(Pos{0, 0}, 1); got != nil {
		t.Errorf("behind closed door: got %v, want nil", got)
	}
	paths := b.ShortestPathOptions(Pos{0, 0}, 3)
	if len(paths) == 0 {
		t.Fatal("no path to zone 3")
	}
	for _, p := range paths {
		if len(p) != len(paths[0]) {
			t.Errorf("path lengths differ: %v", paths)
		}
		end, ok := b.Replay(Pos{0, 0}, p)
		if !ok || b.ZoneOf(end) != 3 {
			t.Errorf("replay of %v ended at %s", p, end)
		}
	}
}

func TestOccupancy_NoiseAndRemoval(t *testing.T) {
	b := testBoard(t)
	hero := &token{id: "ann", noisy: true, prio: 10}
	if err := b.AddActorToZone(hero, 0); err != nil {
		t.Fatal(err)
	}
	if hero.pl.Quadrant != UpperLeft || hero.pl.Zone != 0 {
		t.Errorf("placement = %+v", hero.pl)
	}
	b.AddNoise(0, 2)
	if got := b.Zones[0].Noise; got != 3 {
		t.Errorf("noise = %d, want 3", got)
	}
	b.ResetNoise()
	if got := b.Zones[0].Noise; got != 1 {
		t.Errorf("noise after reset = %d, want 1", got)
	}
	if err := b.MoveActorToZone(hero, 2); err != nil {
		t.Fatal(err)
	}
	if b.Zones[0].Noise != 0 || b.Zones[2].Noise != 1 {
		t.Errorf("noise after move: z0=%d z2=%d", b.Zones[0].Noise, b.Zones[2].Noise)
	}
	b.RemoveActor(hero)
	if hero.pl.OnBoard || b.Zones[2].Noise != 0 {
		t.Errorf("remove left %+v noise=%d", hero.pl, b.Zones[2].Noise)
	}
}

func TestOccupancy_DisplacementAndOverflow(t *testing.T) {
	b := New(1, 2)
	z := b.AddZone(Outdoor)
	_ = b.Assign(Pos{0, 0}, z)
	_ = b.Assign(Pos{0, 1}, z)

	for i := 0; i < SlotsPerCell; i++ {
		if err := b.AddActor(&token{id: string(rune('a' + i)), zombie: true, prio: 1}, Pos{0, 0}); err != nil {
			t.Fatalf("fill %d: %v", i, err)
		}
	}
	hero := &token{id: "hero", prio: 10}
	if err := b.AddActor(hero, Pos{0, 0}); err != nil {
		t.Fatal(err)
	}
	if hero.pl.Cell != (Pos{0, 0}) {
		t.Errorf("hero placed at %s, want 0,0", hero.pl.Cell)
	}
	if n := len(b.OccupantsAt(Pos{0, 1})); n != 1 {
		t.Errorf("displaced occupants = %d, want 1", n)
	}

	for i := 0; i < SlotsPerCell-1; i++ {
		if err := b.AddActor(&token{id: string(rune('A' + i)), prio: 1}, Pos{0, 1}); err != nil {
			t.Fatalf("fill second cell %d: %v", i, err)
		}
	}
	err := b.AddActor(&token{id: "late", prio: 0}, Pos{0, 1})
	if !errors.Is(err, ErrOccupancy) {
		t.Errorf("overflow error = %v, want ErrOccupancy", err)
	}
}

func TestFinalize_Errors(t *testing.T) {
	b := New(1, 3)
	z0 := b.AddZone(Outdoor)
	z1 := b.AddZone(Outdoor)
	_ = b.Assign(Pos{0, 0}, z0)
	_ = b.Assign(Pos{0, 1}, z1)
	_ = b.Assign(Pos{0, 2}, z0)
	if err := b.Finalize(); !errors.Is(err, ErrZoneAdjacency) {
		t.Errorf("disconnected zone: err = %v", err)
	}

	b = New(1, 2)
	z := b.AddZone(Outdoor)
	_ = b.Assign(Pos{0, 0}, z)
	_ = b.Assign(Pos{0, 1}, z)
	b.Cells[0][0].Walls[East] = WallSolid
	if err := b.Finalize(); err == nil {
		t.Error("conflicting walls should fail")
	}
}

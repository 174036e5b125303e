package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/deadzone/engine/actor"
	"github.com/nathoo/deadzone/engine/board"
	"github.com/nathoo/deadzone/engine/dice"
	"github.com/nathoo/deadzone/engine/moves"
	"github.com/nathoo/deadzone/engine/phase"
	"github.com/nathoo/deadzone/engine/quest"
	"github.com/nathoo/deadzone/engine/state"
	"github.com/nathoo/deadzone/types"
)

// scripted is a Decider whose answers default to the first option, or to
// ending the turn for moves.
type scripted struct {
	character func(user int, options []*actor.Character) (string, error)
	move      func(c *actor.Character, options []moves.Move) (moves.Move, error)
	option    func(kind phase.Kind, c *actor.Character, options []string) (string, error)
	users     []int
	asked     []phase.Kind
}

func (d *scripted) ChooseCharacter(_ context.Context, user int, options []*actor.Character) (string, error) {
	d.users = append(d.users, user)
	if d.character != nil {
		return d.character(user, options)
	}
	return options[0].ID, nil
}

func (d *scripted) ChooseMove(_ context.Context, c *actor.Character, options []moves.Move) (moves.Move, error) {
	if d.move != nil {
		return d.move(c, options)
	}
	return options[0], nil
}

func (d *scripted) ChooseOption(_ context.Context, kind phase.Kind, c *actor.Character, options []string) (string, error) {
	d.asked = append(d.asked, kind)
	if d.option != nil {
		return d.option(kind, c, options)
	}
	return options[0], nil
}

// pick returns a move func choosing the first offered move matching want.
func pick(want func(moves.Move) bool) func(*actor.Character, []moves.Move) (moves.Move, error) {
	return func(_ *actor.Character, options []moves.Move) (moves.Move, error) {
		for _, m := range options {
			if want(m) {
				return m, nil
			}
		}
		return moves.Move{}, errors.New("wanted move not offered")
	}
}

// testEngine builds a single row:
//
//	z0  z1  z2     z0 is the start, z2 a building
//
// with Ann on no cell yet; INIT places her.
func testEngine(t *testing.T, faces ...int) (*Engine, *scripted) {
	t.Helper()
	b := board.New(1, 3)
	for i, zt := range []board.ZoneType{board.Outdoor, board.Outdoor, board.Building} {
		z := b.AddZone(zt)
		require.NoError(t, b.Assign(board.Pos{Row: 0, Col: i}, z))
	}
	b.Cell(board.Pos{Row: 0, Col: 0}).Start = true
	require.NoError(t, b.Finalize())

	if len(faces) == 0 {
		faces = []int{6}
	}
	s := state.NewState(b, quest.New("test"), dice.NewFixedPool(faces...))
	s.RNGSeed = 42
	s.Characters = append(s.Characters, actor.NewCharacter("ann", "Ann", [actor.NumLevels][]actor.Skill{}))
	d := &scripted{}
	return New(s, d, zerolog.Nop()), d
}

func step(t *testing.T, e *Engine) types.Result {
	t.Helper()
	res, err := e.Step(context.Background())
	require.NoError(t, err)
	return res
}

// start runs INIT and BEGIN_ROUND.
func start(t *testing.T, e *Engine) {
	t.Helper()
	step(t, e)
	step(t, e)
}

func kinds(s *state.State) []phase.Kind {
	var out []phase.Kind
	for _, r := range s.Stack.Records() {
		out = append(out, r.Kind)
	}
	return out
}

func addZombie(t *testing.T, s *state.State, typ string, zone int) *actor.Zombie {
	t.Helper()
	z, err := s.AddZombie(typ, zone)
	require.NoError(t, err)
	z.ResetRound()
	return z
}

func TestNew_PushesInit(t *testing.T) {
	e, _ := testEngine(t)
	assert.Equal(t, []phase.Kind{phase.Init}, kinds(e.State))
}

func TestStep_InitAndFirstRound(t *testing.T) {
	e, _ := testEngine(t)
	s := e.State

	step(t, e)
	ann := s.Character("ann")
	assert.True(t, ann.OnBoard())
	assert.Equal(t, 0, ann.Zone())
	assert.Equal(t, []phase.Kind{phase.BeginRound}, kinds(s))

	res := step(t, e)
	assert.Equal(t, 1, s.Round)
	assert.Equal(t, actor.BaseActions, ann.Actions)
	// No spawn in the first round; the character choice sits on top.
	assert.Equal(t, []phase.Kind{phase.ZombieStage, phase.ChooseCharacter}, kinds(s))
	assert.Equal(t, types.EventRound, res.Events[0].Type)
}

func TestStep_SecondRoundSpawnsFirst(t *testing.T) {
	e, _ := testEngine(t)
	s := e.State
	start(t, e)
	s.Round = 1
	s.Stack.Clear()
	s.Stack.Push(phase.Record{Kind: phase.BeginRound})

	step(t, e)
	assert.Equal(t, []phase.Kind{phase.ZombieStage, phase.ChooseCharacter, phase.Spawn}, kinds(s))
}

func TestStep_InitNeedsCharacters(t *testing.T) {
	e, _ := testEngine(t)
	e.State.Characters = nil
	_, err := e.Step(context.Background())
	assert.Error(t, err)
}

func TestStep_WalkSpendsActionAndMovesNoise(t *testing.T) {
	e, d := testEngine(t)
	s := e.State
	start(t, e)
	d.move = pick(func(m moves.Move) bool { return m.Type == moves.Walk && m.Zone == 1 })

	step(t, e) // choose Ann
	assert.Equal(t, phase.ChooseCharacterAction, s.Stack.Top().Kind)
	res := step(t, e)

	ann := s.Character("ann")
	assert.Equal(t, 1, ann.Zone())
	assert.Equal(t, board.Pos{Row: 0, Col: 1}, ann.Cell())
	assert.Equal(t, actor.BaseActions-1, ann.Actions)
	assert.Equal(t, 0, s.Board.Zone(0).Noise)
	assert.Equal(t, 1, s.Board.Zone(1).Noise)
	assert.True(t, res.Changed)
	assert.Len(t, s.MoveLog, 1)
}

func TestStep_FullZoneIsNotOffered(t *testing.T) {
	e, _ := testEngine(t)
	s := e.State
	start(t, e)
	step(t, e) // choose Ann
	for s.Board.HasRoom(1) {
		addZombie(t, s, "walker", 1)
	}

	ann := s.Character("ann")
	ms, err := moves.Generate(s, ann)
	require.NoError(t, err)
	for _, m := range ms {
		assert.False(t, m.Type == moves.Walk && m.Zone == 1, "offered %s", m)
	}

	// A move that fails anyway is refunded.
	walk := moves.Move{Type: moves.Walk, Character: ann.ID, Zone: 1, Cost: 1, Free: actor.FreeMoveAction}
	err = e.apply(&types.Result{}, ann, walk)
	require.ErrorIs(t, err, board.ErrOccupancy)
	assert.Equal(t, 0, ann.Zone())
	assert.Equal(t, actor.BaseActions, ann.Actions)
	assert.Empty(t, s.MoveLog)
}

func TestStep_UnofferedMoveLeavesState(t *testing.T) {
	e, d := testEngine(t)
	s := e.State
	start(t, e)
	step(t, e)
	d.move = func(c *actor.Character, _ []moves.Move) (moves.Move, error) {
		return moves.Move{Type: moves.Walk, Character: c.ID, Zone: 2, Cost: 1}, nil
	}
	before := kinds(s)

	_, err := e.Step(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnofferedChoice))
	ann := s.Character("ann")
	assert.Equal(t, 0, ann.Zone())
	assert.Equal(t, actor.BaseActions, ann.Actions)
	assert.Equal(t, before, kinds(s))
}

func TestStep_CancelledChoiceLeavesState(t *testing.T) {
	e, d := testEngine(t)
	s := e.State
	start(t, e)
	d.character = func(int, []*actor.Character) (string, error) { return "", ErrCancelled }
	before := s.Stack.Records()

	_, err := e.Step(context.Background())
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, before, s.Stack.Records())
}

func TestStep_ContextCancelled(t *testing.T) {
	e, _ := testEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Step(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []phase.Kind{phase.Init}, kinds(e.State))
}

func TestStep_EndTurnHandsOverToZombies(t *testing.T) {
	e, _ := testEngine(t)
	s := e.State
	start(t, e)

	step(t, e) // choose Ann
	step(t, e) // end turn
	ann := s.Character("ann")
	assert.Equal(t, 0, ann.Actions)
	step(t, e) // nobody left
	assert.Equal(t, []phase.Kind{phase.ZombieStage}, kinds(s))
	step(t, e) // no zombies
	assert.Equal(t, []phase.Kind{phase.BeginRound}, kinds(s))
}

func TestStep_UsersTakeTurns(t *testing.T) {
	e, d := testEngine(t)
	s := e.State
	s.Users = 2
	bob := actor.NewCharacter("bob", "Bob", [actor.NumLevels][]actor.Skill{})
	bob.User = 1
	s.Characters = append(s.Characters, bob)
	start(t, e)

	step(t, e) // user 0 picks Ann
	step(t, e) // Ann ends her turn
	step(t, e) // user 1 picks Bob
	assert.Equal(t, "bob", s.Stack.Top().Character)
	step(t, e)
	step(t, e)
	assert.Equal(t, []int{0, 1}, d.users)
	assert.Equal(t, []phase.Kind{phase.ZombieStage}, kinds(s))
}

func TestStep_SwitchReturnsToCharacterChoice(t *testing.T) {
	e, d := testEngine(t)
	s := e.State
	bob := actor.NewCharacter("bob", "Bob", [actor.NumLevels][]actor.Skill{})
	s.Characters = append(s.Characters, bob)
	start(t, e)
	d.move = pick(func(m moves.Move) bool { return m.Type == moves.SwitchCharacter })

	step(t, e) // Ann
	step(t, e) // switch
	assert.Equal(t, phase.ChooseCharacter, s.Stack.Top().Kind)
	assert.Equal(t, actor.BaseActions, s.Character("ann").Actions)
}

func TestStep_GameOverIsTerminal(t *testing.T) {
	e, _ := testEngine(t)
	s := e.State
	start(t, e)
	ann := s.Character("ann")
	ann.Wounds = ann.MaxWounds - 1
	addZombie(t, s, "walker", 0)
	s.Stack.Clear()
	s.Stack.Push(phase.Record{Kind: phase.ZombieStage})

	res := step(t, e)
	assert.False(t, ann.Alive)
	// The body stays where it fell.
	assert.True(t, ann.OnBoard())
	assert.True(t, s.Outcome.Over)
	assert.False(t, s.Outcome.Won)
	assert.Equal(t, []phase.Kind{phase.GameOver}, kinds(s))
	assert.Equal(t, types.EventGameOver, res.Events[len(res.Events)-1].Type)

	res = step(t, e)
	assert.False(t, res.Changed)
	out, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, out.Won)
}

func TestStep_ObjectiveUnlocksDoorsAndWins(t *testing.T) {
	e, d := testEngine(t)
	s := e.State
	b := s.Board
	require.NoError(t, b.SetWall(board.Pos{Row: 0, Col: 1}, board.East, board.WallClosed))
	door, err := b.DoorAt(board.Pos{Row: 0, Col: 1}, board.East)
	require.NoError(t, err)
	require.NoError(t, b.Lock(door, "red"))
	s.Quest.Objectives = []*quest.Objective{{Zone: 0, Color: "red"}}
	b.Zone(0).Objective = true
	start(t, e)
	d.move = pick(func(m moves.Move) bool { return m.Type == moves.TakeObjective })

	step(t, e)
	step(t, e)
	assert.Equal(t, quest.ObjectiveXP, s.Character("ann").XP)
	assert.Equal(t, board.WallClosed, b.State(door))
	assert.False(t, b.Zone(0).Objective)
	assert.True(t, s.Outcome.Won)
}

func TestStep_VaultOffersKeepChoice(t *testing.T) {
	e, d := testEngine(t)
	s := e.State
	s.Quest.Vaults = []*quest.Vault{{ID: 1, Zone: 1, Items: []string{"sword", "axe"}}}
	start(t, e)
	d.move = pick(func(m moves.Move) bool { return m.Type == moves.Walk && m.Zone == 1 })

	step(t, e)
	step(t, e)
	assert.Equal(t, phase.ChooseVaultItem, s.Stack.Top().Kind)
	step(t, e)
	top := s.Stack.Top()
	assert.Equal(t, phase.ChooseKeepEquipment, top.Kind)
	assert.Equal(t, "sword", top.Item)
	step(t, e)

	ann := s.Character("ann")
	require.NotNil(t, ann.Hands[0])
	assert.Equal(t, "sword", ann.Hands[0].Type)
	v := s.Quest.Vault(1)
	assert.True(t, v.Opened)
	assert.Equal(t, []string{"axe"}, v.Items)
	assert.Equal(t, []phase.Kind{phase.ChooseVaultItem, phase.ChooseKeepEquipment}, d.asked)
}

func TestKeepOptions_FullBackpackOffersSwaps(t *testing.T) {
	c := actor.NewCharacter("ann", "Ann", [actor.NumLevels][]actor.Skill{})
	for i := 0; !c.BackpackFull(); i++ {
		c.Stow(&actor.Item{ID: "i" + string(rune('a'+i)), Type: "dagger"})
	}
	opts := KeepOptions(c, "leather_armour")
	assert.Equal(t, KeepBody, opts[0])
	assert.NotContains(t, opts, KeepBackpack)
	assert.Contains(t, opts, "swap:ia")
	assert.Equal(t, KeepDiscard, opts[len(opts)-1])
}

func TestSubscribe_ReceivesStepEvents(t *testing.T) {
	e, _ := testEngine(t)
	var got []string
	unsub := e.Subscribe(types.EventRound, func(ev types.Event) { got = append(got, ev.Type) })
	start(t, e)
	unsub()
	assert.Equal(t, []string{types.EventRound}, got)
}

func TestRestoreRNG_TracksPosition(t *testing.T) {
	e, _ := testEngine(t)
	start(t, e)
	pos := e.State.RNGPosition
	assert.Equal(t, e.RNG.Position(), pos)

	r := RestoreRNG(e.State.RNGSeed, pos)
	want, _ := e.RNG.Roll(6)
	got, _ := r.Roll(6)
	assert.Equal(t, want, got)
}

// Package engine provides the turn controller. Step() resolves exactly one
// transition of the phase stack: it either advances an automatic phase or
// asks the Decider for the pending choice and applies it.
package engine

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nathoo/deadzone/engine/actor"
	"github.com/nathoo/deadzone/engine/events"
	"github.com/nathoo/deadzone/engine/phase"
	"github.com/nathoo/deadzone/engine/state"
	"github.com/nathoo/deadzone/types"
)

// Engine holds the game state and the collaborators a step needs.
type Engine struct {
	State   *state.State
	RNG     *RNG
	Decider Decider
	Log     zerolog.Logger
	Bus     *events.Bus
}

// New creates an engine over s. A state with an empty stack that is not
// over starts at INIT; a loaded state resumes where it stopped.
func New(s *state.State, d Decider, log zerolog.Logger) *Engine {
	e := &Engine{
		State:   s,
		RNG:     RestoreRNG(s.RNGSeed, s.RNGPosition),
		Decider: d,
		Log:     log,
		Bus:     &events.Bus{},
	}
	if s.Stack.Len() == 0 && !s.Over() {
		s.Stack.Push(phase.Record{Kind: phase.Init})
	}
	return e
}

// Subscribe registers a handler for events of eventType ("" for all).
func (e *Engine) Subscribe(eventType string, fn events.Handler) func() {
	return e.Bus.Subscribe(eventType, fn)
}

// Step performs one transition. Changed is false once the game is over.
// Errors from the decider, including ErrCancelled, leave the state as it
// was before the step.
func (e *Engine) Step(ctx context.Context) (types.Result, error) {
	var result types.Result
	s := e.State

	// 0. Honour cancellation before touching anything.
	if err := ctx.Err(); err != nil {
		return result, err
	}

	// 1. Inspect the pending phase.
	top, ok := s.Stack.Peek()
	if !ok {
		return result, fmt.Errorf("step: empty phase stack")
	}
	if top.Kind == phase.GameOver {
		return result, nil
	}
	e.Log.Debug().Str("phase", string(top.Kind)).Int("round", s.Round).Str("character", top.Character).Msg("step")

	// 2. Resolve it.
	var err error
	switch top.Kind {
	case phase.Init:
		err = e.init(&result)
	case phase.BeginRound:
		e.beginRound(&result)
	case phase.Spawn:
		err = e.spawn(&result)
	case phase.ChooseCharacter:
		err = e.chooseCharacter(ctx, &result)
	case phase.ChooseCharacterAction:
		err = e.chooseAction(ctx, &result)
	case phase.ChooseNewSkill:
		err = e.chooseSkill(ctx, &result)
	case phase.ChooseKeepEquipment:
		err = e.chooseKeep(ctx, &result)
	case phase.ChooseSpawnAreaRemove:
		err = e.chooseSpawnArea(ctx, &result)
	case phase.ChooseVaultItem:
		err = e.chooseVault(ctx, &result)
	case phase.ZombieStage:
		err = e.zombieStage(&result)
	default:
		err = fmt.Errorf("step: unknown phase %q", top.Kind)
	}
	if err != nil {
		e.Log.Debug().Err(err).Str("phase", string(top.Kind)).Msg("step failed")
		return result, err
	}
	result.Changed = true

	// 3. Quest evaluation after every resolved step.
	e.evaluate(&result)

	// 4. Track RNG position for save/load.
	s.RNGPosition = e.RNG.Position()

	// 5. Fan events out.
	e.Bus.Dispatch(result.Events)
	return result, nil
}

// Run steps until the game is over, ctx is done or a step fails.
func (e *Engine) Run(ctx context.Context) (types.Outcome, error) {
	for !e.State.Over() {
		if _, err := e.Step(ctx); err != nil {
			return e.State.Outcome, err
		}
	}
	return e.State.Outcome, nil
}

func (e *Engine) emit(result *types.Result, typ string, data map[string]any) {
	result.Events = append(result.Events, types.Event{Type: typ, Data: data})
}

func (e *Engine) say(result *types.Result, format string, args ...any) {
	result.Output = append(result.Output, fmt.Sprintf(format, args...))
}

func (e *Engine) evaluate(result *types.Result) {
	s := e.State
	if s.Outcome.Over {
		return
	}
	o := s.Quest.Evaluate(s.Characters)
	if !o.Over {
		return
	}
	s.Outcome = o
	s.Stack.Clear()
	s.Stack.Push(phase.Record{Kind: phase.GameOver})
	e.emit(result, types.EventGameOver, map[string]any{"won": o.Won, "reason": o.Reason})
	if o.Won {
		e.say(result, "Victory: %s.", o.Reason)
	} else {
		e.say(result, "Defeat: %s.", o.Reason)
	}
	e.Log.Info().Bool("won", o.Won).Str("reason", o.Reason).Int("round", s.Round).Msg("game over")
}

// init places the characters and the map-defined zombies once.
func (e *Engine) init(result *types.Result) error {
	s := e.State
	q := s.Quest
	if q.StartZone < 0 {
		q.StartZone = s.Board.StartZone()
	}
	if q.ExitZone < 0 {
		q.ExitZone = s.Board.ExitZone()
	}
	if q.StartZone < 0 {
		return fmt.Errorf("init: quest %q has no start zone", q.Name)
	}
	if len(s.Characters) == 0 {
		return fmt.Errorf("init: quest %q has no characters", q.Name)
	}
	s.Stack.Pop()
	for _, c := range s.Characters {
		if c.OnBoard() {
			continue
		}
		if err := s.Board.AddActorToZone(c, q.StartZone); err != nil {
			return fmt.Errorf("init: place %s: %w", c.ID, err)
		}
	}
	for _, sp := range q.Initial {
		for i := 0; i < sp.Count; i++ {
			if _, err := e.spawnZombie(result, sp.Zombie, sp.Zone); err != nil {
				return fmt.Errorf("init: %w", err)
			}
		}
	}
	if err := q.SpawnDeck.Shuffle(e.RNG); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	if err := q.LootDeck.Shuffle(e.RNG); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	s.Stack.Push(phase.Record{Kind: phase.BeginRound})
	e.say(result, "The quest %q begins.", q.Name)
	return nil
}

// beginRound resets budgets and noise and lays out the round's phases.
func (e *Engine) beginRound(result *types.Result) {
	s := e.State
	s.Stack.Pop()
	s.Round++
	for _, c := range s.Characters {
		c.ResetRound()
	}
	for _, z := range s.Zombies {
		z.ResetRound()
	}
	s.Board.ResetNoise()

	users := max(1, s.Users)
	s.Stack.Push(phase.Record{Kind: phase.ZombieStage})
	s.Stack.Push(phase.Record{Kind: phase.ChooseCharacter, User: (s.Round - 1) % users})
	if s.Round > 1 {
		s.Stack.Push(phase.Record{Kind: phase.Spawn})
	}
	e.emit(result, types.EventRound, map[string]any{"round": s.Round})
	e.say(result, "Round %d.", s.Round)
}

func hasFree(c *actor.Character) bool {
	for _, n := range c.Free {
		if n > 0 {
			return true
		}
	}
	return false
}

// pending lists user's characters that can still act this round.
func (e *Engine) pending(user int) []*actor.Character {
	var out []*actor.Character
	for _, c := range e.State.CharactersOf(user) {
		if c.Actions > 0 || hasFree(c) {
			out = append(out, c)
		}
	}
	return out
}

// chooseCharacter hands the turn to the next user with a character left to
// act. The players' phase ends when no user has one.
func (e *Engine) chooseCharacter(ctx context.Context, result *types.Result) error {
	s := e.State
	rec := s.Stack.Top()
	users := max(1, s.Users)
	user := -1
	var options []*actor.Character
	for i := 0; i < users; i++ {
		u := (rec.User + i) % users
		if options = e.pending(u); len(options) > 0 {
			user = u
			break
		}
	}
	if user < 0 {
		s.Stack.Pop()
		e.say(result, "The survivors are done for this round.")
		return nil
	}

	id, err := e.Decider.ChooseCharacter(ctx, user, options)
	if err != nil {
		return err
	}
	var chosen *actor.Character
	for _, c := range options {
		if c.ID == id {
			chosen = c
		}
	}
	if chosen == nil {
		return fmt.Errorf("character %q: %w", id, ErrUnofferedChoice)
	}
	rec.User = (user + 1) % users
	s.Stack.Push(phase.Record{Kind: phase.ChooseCharacterAction, Character: chosen.ID, User: user})
	e.emit(result, types.EventPhase, map[string]any{"phase": string(phase.ChooseCharacterAction), "character": chosen.ID})
	return nil
}

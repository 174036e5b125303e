package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/deadzone/engine"
	"github.com/nathoo/deadzone/engine/actor"
	"github.com/nathoo/deadzone/engine/moves"
	"github.com/nathoo/deadzone/engine/phase"
	"github.com/nathoo/deadzone/engine/state"
	"github.com/nathoo/deadzone/types"
)

// errQuit is the answer to a pending prompt when the player leaves.
var errQuit = fmt.Errorf("quit: %w", engine.ErrCancelled)

// answer is the reply to a prompt: an option index or an error.
type answer struct {
	index int
	err   error
}

// promptMsg asks the model for one decision. The engine goroutine blocks
// until reply receives an answer.
type promptMsg struct {
	header string
	labels []string
	status Status
	reply  chan answer
}

// stepMsg carries the output of one resolved step.
type stepMsg struct {
	lines  []string
	events []types.Event
	status Status
}

// doneMsg reports that the engine stopped: the game is over or a step
// failed.
type doneMsg struct {
	status Status
	err    error
}

// Bridge is the engine.Decider of the TUI. It runs on the engine goroutine
// and forwards every question to the Bubble Tea program.
type Bridge struct {
	send  func(tea.Msg)
	state *state.State
}

var _ engine.Decider = (*Bridge)(nil)

// NewBridge returns a decider posting prompts through send, typically
// (*tea.Program).Send.
func NewBridge(send func(tea.Msg), s *state.State) *Bridge {
	return &Bridge{send: send, state: s}
}

// ChooseCharacter implements engine.Decider.
func (b *Bridge) ChooseCharacter(ctx context.Context, user int, options []*actor.Character) (string, error) {
	labels := make([]string, len(options))
	for i, c := range options {
		labels[i] = fmt.Sprintf("%s (%d actions, %d wounds)", c.Name, c.Actions, c.Wounds)
	}
	i, err := b.ask(ctx, fmt.Sprintf("Player %d, who acts?", user+1), labels)
	if err != nil {
		return "", err
	}
	return options[i].ID, nil
}

// ChooseMove implements engine.Decider.
func (b *Bridge) ChooseMove(ctx context.Context, c *actor.Character, options []moves.Move) (moves.Move, error) {
	labels := make([]string, len(options))
	for i, m := range options {
		labels[i] = m.String()
	}
	i, err := b.ask(ctx, fmt.Sprintf("%s in zone %d, %d action(s) left:", c.Name, c.Zone(), c.Actions), labels)
	if err != nil {
		return moves.Move{}, err
	}
	return options[i], nil
}

// ChooseOption implements engine.Decider.
func (b *Bridge) ChooseOption(ctx context.Context, kind phase.Kind, c *actor.Character, options []string) (string, error) {
	header := string(kind)
	switch kind {
	case phase.ChooseNewSkill:
		header = "Learn which skill?"
	case phase.ChooseKeepEquipment:
		header = "Where does the new item go?"
	case phase.ChooseVaultItem:
		header = "Take which vault item?"
	case phase.ChooseSpawnAreaRemove:
		header = "Remove which spawn area?"
	}
	if c != nil {
		header = c.Name + ": " + header
	}
	i, err := b.ask(ctx, header, options)
	if err != nil {
		return "", err
	}
	return options[i], nil
}

func (b *Bridge) ask(ctx context.Context, header string, labels []string) (int, error) {
	if len(labels) == 0 {
		return 0, fmt.Errorf("ask %q: no options", header)
	}
	reply := make(chan answer, 1)
	b.send(promptMsg{header: header, labels: labels, status: Snapshot(b.state), reply: reply})
	select {
	case a := <-reply:
		if a.err == nil && (a.index < 0 || a.index >= len(labels)) {
			return 0, fmt.Errorf("option %d: %w", a.index, engine.ErrUnofferedChoice)
		}
		return a.index, a.err
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// RunEngine steps eng until the game ends, ctx is done or the player
// quits, posting every result through send. It is meant to run on its own
// goroutine while the program owns the terminal.
func RunEngine(ctx context.Context, eng *engine.Engine, send func(tea.Msg)) {
	for !eng.State.Over() {
		result, err := eng.Step(ctx)
		if errors.Is(err, engine.ErrCancelled) || ctx.Err() != nil {
			return
		}
		if err != nil {
			send(doneMsg{status: Snapshot(eng.State), err: err})
			return
		}
		send(stepMsg{lines: result.Output, events: result.Events, status: Snapshot(eng.State)})
	}
	send(doneMsg{status: Snapshot(eng.State)})
}

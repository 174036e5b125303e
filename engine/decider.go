package engine

import (
	"context"
	"errors"

	"github.com/nathoo/deadzone/engine/actor"
	"github.com/nathoo/deadzone/engine/moves"
	"github.com/nathoo/deadzone/engine/phase"
)

var (
	// ErrUnofferedChoice is returned when a decider answers with something
	// that was not among the options.
	ErrUnofferedChoice = errors.New("choice was not offered")
	// ErrCancelled is returned by a decider that gives up. The step that
	// asked leaves the state untouched.
	ErrCancelled = errors.New("decision cancelled")
)

// Decider is the source of every player decision. It is the engine's only
// suspension point; implementations may block until ctx is done.
type Decider interface {
	// ChooseCharacter picks which of user's characters acts next.
	ChooseCharacter(ctx context.Context, user int, options []*actor.Character) (string, error)
	// ChooseMove picks one of the legal moves for c.
	ChooseMove(ctx context.Context, c *actor.Character, options []moves.Move) (moves.Move, error)
	// ChooseOption answers a sub-choice such as a new skill, an item to
	// keep, a vault item or a spawn area to remove.
	ChooseOption(ctx context.Context, kind phase.Kind, c *actor.Character, options []string) (string, error)
}

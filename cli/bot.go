package cli

import (
	"context"

	"golang.org/x/exp/rand"

	"github.com/nathoo/deadzone/engine"
	"github.com/nathoo/deadzone/engine/actor"
	"github.com/nathoo/deadzone/engine/moves"
	"github.com/nathoo/deadzone/engine/phase"
)

// Bot answers every decision at random. Attacks, objectives and the exit
// are preferred when offered; otherwise a move is picked uniformly, so the
// bot ends its turn now and then.
type Bot struct {
	rng *rand.Rand
}

var _ engine.Decider = (*Bot)(nil)

// NewBot returns a bot whose choices depend only on seed.
func NewBot(seed uint64) *Bot {
	return &Bot{rng: rand.New(rand.NewSource(seed))}
}

// ChooseCharacter implements engine.Decider.
func (b *Bot) ChooseCharacter(ctx context.Context, _ int, options []*actor.Character) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return options[b.rng.Intn(len(options))].ID, nil
}

// ChooseMove implements engine.Decider.
func (b *Bot) ChooseMove(ctx context.Context, _ *actor.Character, options []moves.Move) (moves.Move, error) {
	if err := ctx.Err(); err != nil {
		return moves.Move{}, err
	}
	var preferred []moves.Move
	for _, m := range options {
		switch m.Type {
		case moves.TakeObjective, moves.ReachExit, moves.Melee, moves.Ranged, moves.Magic:
			preferred = append(preferred, m)
		}
	}
	if len(preferred) > 0 && b.rng.Intn(4) > 0 {
		return preferred[b.rng.Intn(len(preferred))], nil
	}
	return options[b.rng.Intn(len(options))], nil
}

// ChooseOption implements engine.Decider.
func (b *Bot) ChooseOption(ctx context.Context, _ phase.Kind, _ *actor.Character, options []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return options[b.rng.Intn(len(options))], nil
}

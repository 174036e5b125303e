package quest

import (
	"fmt"

	"github.com/KirkDiggler/rpg-toolkit/dice"
)

// Deck is a draw pile with a discard pile. Cards are opaque strings: item
// type names for loot, card names for spawns.
type Deck struct {
	Draw    []string `json:"draw"`
	Discard []string `json:"discard"`
}

// NewDeck returns a deck holding cards in the given order.
func NewDeck(cards []string) *Deck {
	return &Deck{Draw: append([]string(nil), cards...), Discard: []string{}}
}

// Shuffle reorders the draw pile with roller.
func (d *Deck) Shuffle(roller dice.Roller) error {
	return shuffle(d.Draw, roller)
}

// Next draws the top card. When the draw pile is empty the discard pile is
// shuffled back in first. An empty deck yields ok == false.
func (d *Deck) Next(roller dice.Roller) (string, bool, error) {
	if len(d.Draw) == 0 {
		if len(d.Discard) == 0 {
			return "", false, nil
		}
		d.Draw, d.Discard = d.Discard, []string{}
		if err := d.Shuffle(roller); err != nil {
			return "", false, err
		}
	}
	card := d.Draw[0]
	d.Draw = d.Draw[1:]
	return card, true, nil
}

// Put discards card.
func (d *Deck) Put(card string) {
	d.Discard = append(d.Discard, card)
}

// Len returns the number of cards left to draw.
func (d *Deck) Len() int {
	return len(d.Draw)
}

func shuffle(cards []string, roller dice.Roller) error {
	for i := len(cards) - 1; i > 0; i-- {
		j, err := roller.Roll(i + 1)
		if err != nil {
			return fmt.Errorf("shuffle deck: %w", err)
		}
		cards[i], cards[j-1] = cards[j-1], cards[i]
	}
	return nil
}

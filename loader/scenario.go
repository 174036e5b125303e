package loader

import (
	"fmt"

	"github.com/nathoo/deadzone/engine/actor"
	"github.com/nathoo/deadzone/engine/dice"
	"github.com/nathoo/deadzone/engine/state"
)

// NewState builds the starting game state: the quest's characters, dealt
// round-robin to the users, each holding their starting weapon. A scenario
// backs exactly one game; load the quest again for another.
func (sc *Scenario) NewState(pool *dice.Pool, maxWounds int) (*state.State, error) {
	s := state.NewState(sc.Board, sc.Quest, pool)
	s.Users = sc.Users
	for i, key := range sc.Characters {
		c, err := actor.NewHero(key)
		if err != nil {
			return nil, err
		}
		c.User = i % sc.Users
		if maxWounds > 0 {
			c.MaxWounds = maxWounds
		}
		if starter := actor.Roster[key].Starter; starter != "" {
			it, err := s.NewItem(starter)
			if err != nil {
				return nil, fmt.Errorf("%s starter: %w", key, err)
			}
			c.Hands[0] = it
		}
		s.Characters = append(s.Characters, c)
	}
	return s, nil
}

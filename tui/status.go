package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/deadzone/cli"
	"github.com/nathoo/deadzone/engine/state"
)

// CharacterStatus is the status-bar view of one character.
type CharacterStatus struct {
	Name      string
	Actions   int
	Wounds    int
	MaxWounds int
	Alive     bool
	Exited    bool
}

// Status is a copy of what the UI shows about the game, taken on the engine
// goroutine so the view never reads live state.
type Status struct {
	Quest      string
	Round      int
	Danger     string
	Zombies    int
	Characters []CharacterStatus
	Board      string
	Over       bool
	Won        bool
	Reason     string
}

// Snapshot copies the displayed parts of s.
func Snapshot(s *state.State) Status {
	st := Status{
		Quest:  s.Quest.Name,
		Round:  s.Round,
		Danger: s.DangerLevel().String(),
		Board:  cli.Render(s),
		Over:   s.Outcome.Over,
		Won:    s.Outcome.Won,
		Reason: s.Outcome.Reason,
	}
	for _, z := range s.Zombies {
		if z.Alive && z.OnBoard() {
			st.Zombies++
		}
	}
	for _, c := range s.Characters {
		st.Characters = append(st.Characters, CharacterStatus{
			Name:      c.Name,
			Actions:   c.Actions,
			Wounds:    c.Wounds,
			MaxWounds: c.MaxWounds,
			Alive:     c.Alive,
			Exited:    c.Exited,
		})
	}
	return st
}

func (c CharacterStatus) short() string {
	switch {
	case !c.Alive:
		return c.Name + " dead"
	case c.Exited:
		return c.Name + " out"
	}
	return fmt.Sprintf("%s %dAP %d/%dW", c.Name, c.Actions, c.Wounds, c.MaxWounds)
}

// renderStatusBar produces a full-width inverted status line showing the
// quest, round, danger level and the characters.
func (m Model) renderStatusBar() string {
	s := m.status
	left := fmt.Sprintf(" %s | R:%d | %s | Z:%d", s.Quest, s.Round, s.Danger, s.Zombies)

	// Show every character if they fit, otherwise just the living count.
	parts := make([]string, 0, len(s.Characters))
	alive := 0
	for _, c := range s.Characters {
		parts = append(parts, c.short())
		if c.Alive {
			alive++
		}
	}
	right := strings.Join(parts, " | ") + " "
	if lipgloss.Width(left)+lipgloss.Width(right)+2 >= m.width {
		right = fmt.Sprintf("Alive: %d/%d ", alive, len(s.Characters))
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}

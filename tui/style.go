package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	stylePrompt = lipgloss.NewStyle().
			Bold(true)

	styleOption = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	styleCombat = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleDefeat = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	styleVictory = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true)

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindPrompt
	kindOption
	kindCombat
	kindSystem
	kindDefeat
	kindVictory
	kindTrace
)

// combatWords mark lines about attacks, wounds and deaths.
var combatWords = []string{" attacks ", " kills ", " is wounded", " is dead", "armour holds", "shrugs off", "Dragon fire"}

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "Victory:"):
		return kindVictory
	case strings.HasPrefix(line, "Defeat:"):
		return kindDefeat
	case isOption(line):
		return kindOption
	case strings.HasSuffix(line, "?") || strings.HasSuffix(line, ":"):
		return kindPrompt
	}
	for _, w := range combatWords {
		if strings.Contains(line, w) {
			return kindCombat
		}
	}
	return kindNarrative
}

// isOption matches the numbered option lines "  12) label".
func isOption(line string) bool {
	t := strings.TrimLeft(line, " ")
	if len(t) == len(line) {
		return false
	}
	n, rest, ok := strings.Cut(t, ")")
	if !ok || n == "" || !strings.HasPrefix(rest, " ") {
		return false
	}
	for _, r := range n {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindPrompt:
		return stylePrompt.Render(line)
	case kindOption:
		return styleOption.Render(line)
	case kindCombat:
		return styleCombat.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindDefeat:
		return styleDefeat.Render(line)
	case kindVictory:
		return styleVictory.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleNarrative.Render(line)
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}

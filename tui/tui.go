// Package tui provides a Bubble Tea terminal UI for the deadzone engine.
// The engine runs on its own goroutine; every decision it needs arrives as
// a prompt message and is answered through a reply channel.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/deadzone/engine"
	"github.com/nathoo/deadzone/engine/save"
)

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed player input
	isSystem bool // true for system messages
}

// Options configures the model.
type Options struct {
	// Store and GameID enable /save; a nil Store disables it.
	Store  save.Store
	GameID string
	Trace  bool
}

// Model is the Bubble Tea model for the deadzone TUI.
type Model struct {
	engine *engine.Engine
	opts   Options

	viewport viewport.Model
	input    textinput.Model

	rawLines []rawLine // accumulated narrative lines (unstyled, for re-wrapping)

	// pending is the open question; cursor selects among its labels.
	pending *promptMsg
	cursor  int
	status  Status

	width    int
	height   int
	ready    bool
	trace    bool
	quitting bool
	done     bool
	err      error
}

// New creates a TUI model over eng. The engine must not be stepped from
// anywhere but RunEngine while the model is live.
func New(eng *engine.Engine, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 64
	ti.PromptStyle = styleInputPrompt

	return Model{
		engine: eng,
		opts:   opts,
		input:  ti,
		trace:  opts.Trace,
		status: Snapshot(eng.State),
	}
}

// Run starts the Bubble Tea program and the engine goroutine, and returns
// once the player quits. The engine's decider is replaced by a Bridge.
func Run(ctx context.Context, eng *engine.Engine, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(New(eng, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	eng.Decider = NewBridge(p.Send, eng.State)
	go RunEngine(ctx, eng, p.Send)

	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.err != nil {
		return m.err
	}
	return nil
}

// Init starts the cursor blink; the engine goroutine produces the rest.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages (key presses, window resize, engine output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // 1 status bar + 1 input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m.quit()

		case "enter":
			return m.handleEnter()

		case "up":
			if m.pending != nil && m.cursor > 0 {
				m.cursor--
				m.updatePlaceholder()
			}
			return m, nil

		case "down":
			if m.pending != nil && m.cursor < len(m.pending.labels)-1 {
				m.cursor++
				m.updatePlaceholder()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case stepMsg:
		m.status = msg.status
		lines := msg.lines
		if m.trace {
			lines = append(lines, formatTrace(msg)...)
		}
		m = m.appendOutput("", lines, false)

	case promptMsg:
		m.status = msg.status
		m.pending = &msg
		m.cursor = 0
		lines := []string{msg.header}
		for i, l := range msg.labels {
			lines = append(lines, fmt.Sprintf("  %2d) %s", i+1, l))
		}
		m = m.appendOutput("", lines, false)
		m.updatePlaceholder()

	case doneMsg:
		m.status = msg.status
		m.done = true
		m.pending = nil
		if msg.err != nil {
			m.err = msg.err
			m = m.appendOutput("", []string{fmt.Sprintf("Engine stopped: %v", msg.err)}, true)
		} else {
			m = m.appendOutput("", strings.Split(strings.TrimRight(msg.status.Board, "\n"), "\n"), false)
		}
		m.input.Placeholder = "/quit to leave"
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line. An empty line picks the
// option under the cursor.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(input, output, true)
		if quit {
			return m.quit()
		}
		return m, nil
	}

	if m.pending == nil {
		if input != "" {
			m = m.appendOutput(input, []string{"Nothing to answer yet."}, true)
		}
		return m, nil
	}

	index := -1
	switch {
	case input == "":
		index = m.cursor
		input = m.pending.labels[index]
	default:
		if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(m.pending.labels) {
			index = n - 1
			break
		}
		for i, l := range m.pending.labels {
			if strings.EqualFold(l, input) {
				index = i
			}
		}
	}
	if index < 0 {
		m = m.appendOutput(input, []string{fmt.Sprintf("Pick 1-%d, or /help.", len(m.pending.labels))}, true)
		return m, nil
	}

	m.pending.reply <- answer{index: index}
	m.pending = nil
	m.input.Placeholder = ""
	m = m.appendOutput(input, nil, false)
	return m, nil
}

// quit releases a waiting engine and stops the program.
func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.pending != nil {
		m.pending.reply <- answer{err: errQuit}
		m.pending = nil
	}
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) updatePlaceholder() {
	if m.pending == nil {
		m.input.Placeholder = ""
		return
	}
	m.input.Placeholder = fmt.Sprintf("%d) %s", m.cursor+1, m.pending.labels[m.cursor])
}

// appendOutput adds lines to the narrative and refreshes the viewport.
func (m Model) appendOutput(input string, lines []string, isSystem bool) Model {
	if input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: "> " + input, isInput: true,
		})
	}

	for _, line := range lines {
		rl := rawLine{text: line, isSystem: isSystem}
		if !isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}

	m.refreshViewport()

	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		// The board keeps its layout; everything else wraps.
		text := rl.text
		if rl.kind != kindOption && !strings.HasPrefix(text, "+") && !strings.HasPrefix(text, "|") {
			text = wordWrap(text, width)
		}

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(text))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(text))
		default:
			styled = append(styled, renderLineKind(text, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wLen := len(word)

		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}

		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}

// View renders the full TUI layout: viewport + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/save":
		return m.cmdSave(), false

	case "/board":
		return strings.Split(strings.TrimRight(m.status.Board, "\n"), "\n"), false

	case "/help":
		return m.cmdHelp(), false

	case "/state":
		return m.cmdState(), false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

// cmdSave is only safe while the engine waits on a prompt or has stopped:
// then the state is not being written.
func (m *Model) cmdSave() []string {
	if m.opts.Store == nil {
		return []string{"Saving is disabled."}
	}
	if m.pending == nil && !m.done {
		return []string{"Save when a question is pending."}
	}
	data, err := save.Save(m.opts.GameID, m.engine.State)
	if err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	if err := m.opts.Store.Put(context.Background(), m.opts.GameID, data); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	return []string{fmt.Sprintf("Game saved as %s.", m.opts.GameID)}
}

func (m *Model) cmdHelp() []string {
	return []string{
		"Answer with an option number or its text, or press Enter for the highlighted one.",
		"System:",
		"  /save   Save the game",
		"  /board  Show the board",
		"  /state  Show round and characters",
		"  /trace  Toggle event trace output",
		"  /quit   Exit the game",
		"  /help   Show this help",
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down to move between options",
	}
}

func (m *Model) cmdState() []string {
	s := m.status
	output := []string{
		fmt.Sprintf("Quest: %s", s.Quest),
		fmt.Sprintf("Round: %d, danger %s, %d zombies", s.Round, s.Danger, s.Zombies),
	}
	for _, c := range s.Characters {
		output = append(output, "  "+c.short())
	}
	if s.Over {
		output = append(output, fmt.Sprintf("Over: won=%t %s", s.Won, s.Reason))
	}
	return output
}

func formatTrace(msg stepMsg) []string {
	var lines []string
	for _, e := range msg.events {
		lines = append(lines, fmt.Sprintf("[trace] %s %v", e.Type, e.Data))
	}
	return lines
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for option selection).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}

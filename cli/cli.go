// Package cli provides terminal I/O, the plain-text decision source and
// meta-command dispatch for the deadzone engine.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nathoo/deadzone/engine"
	"github.com/nathoo/deadzone/engine/actor"
	"github.com/nathoo/deadzone/engine/moves"
	"github.com/nathoo/deadzone/engine/phase"
	"github.com/nathoo/deadzone/engine/save"
	"github.com/nathoo/deadzone/types"
)

// errQuit ends Run without an error.
var errQuit = fmt.Errorf("quit: %w", engine.ErrCancelled)

// CLI asks the players for every decision on a line-based terminal.
type CLI struct {
	Engine *engine.Engine
	Out    io.Writer
	// Store and GameID enable /save; a nil Store disables it.
	Store     save.Store
	GameID    string
	Trace     bool
	EchoInput bool // echo each input line after the prompt (for script playback)

	in *bufio.Scanner
}

var _ engine.Decider = (*CLI)(nil)

// New creates a CLI reading from stdin. Attach it with eng.Decider = c.
func New(eng *engine.Engine) *CLI {
	return &CLI{
		Engine: eng,
		Out:    os.Stdout,
		in:     bufio.NewScanner(os.Stdin),
	}
}

// SetInput replaces the input source.
func (c *CLI) SetInput(r io.Reader) {
	c.in = bufio.NewScanner(r)
}

// Run steps the engine until the game ends, the input runs out or the
// player quits. Step output is printed as it happens.
func (c *CLI) Run(ctx context.Context) error {
	unsubscribe := c.Engine.Subscribe("", func(e types.Event) {
		if c.Trace {
			c.printSystem(fmt.Sprintf("[trace] %s %v", e.Type, e.Data))
		}
	})
	defer unsubscribe()

	for !c.Engine.State.Over() {
		result, err := c.Engine.Step(ctx)
		c.printResult(result)
		if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
			c.printSystem("Goodbye.")
			return nil
		}
		if errors.Is(err, engine.ErrCancelled) {
			continue
		}
		if err != nil {
			return err
		}
	}
	c.printLine(Render(c.Engine.State))
	return nil
}

// ChooseCharacter implements engine.Decider.
func (c *CLI) ChooseCharacter(ctx context.Context, user int, options []*actor.Character) (string, error) {
	labels := make([]string, len(options))
	for i, ch := range options {
		labels[i] = fmt.Sprintf("%s (%d actions, %d wounds)", ch.Name, ch.Actions, ch.Wounds)
	}
	i, err := c.ask(ctx, fmt.Sprintf("Player %d, who acts?", user+1), labels)
	if err != nil {
		return "", err
	}
	return options[i].ID, nil
}

// ChooseMove implements engine.Decider.
func (c *CLI) ChooseMove(ctx context.Context, ch *actor.Character, options []moves.Move) (moves.Move, error) {
	labels := make([]string, len(options))
	for i, m := range options {
		labels[i] = m.String()
	}
	header := fmt.Sprintf("%s in zone %d, %d action(s) left:", ch.Name, ch.Zone(), ch.Actions)
	i, err := c.ask(ctx, header, labels)
	if err != nil {
		return moves.Move{}, err
	}
	return options[i], nil
}

// ChooseOption implements engine.Decider.
func (c *CLI) ChooseOption(ctx context.Context, kind phase.Kind, ch *actor.Character, options []string) (string, error) {
	header := promptFor(kind)
	if ch != nil {
		header = ch.Name + ": " + header
	}
	i, err := c.ask(ctx, header, options)
	if err != nil {
		return "", err
	}
	return options[i], nil
}

func promptFor(kind phase.Kind) string {
	switch kind {
	case phase.ChooseNewSkill:
		return "Learn which skill?"
	case phase.ChooseKeepEquipment:
		return "Where does the new item go?"
	case phase.ChooseVaultItem:
		return "Take which vault item?"
	case phase.ChooseSpawnAreaRemove:
		return "Remove which spawn area?"
	}
	return "Choose:"
}

// ask lists labels and reads until the player picks one by number or by
// exact text. Meta-commands are handled in between.
func (c *CLI) ask(ctx context.Context, header string, labels []string) (int, error) {
	if len(labels) == 0 {
		return 0, fmt.Errorf("ask %q: no options", header)
	}
	c.printLine(header)
	for i, l := range labels {
		c.printLine(fmt.Sprintf("  %2d) %s", i+1, l))
	}
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		c.print("> ")
		if !c.in.Scan() {
			if err := c.in.Err(); err != nil {
				return 0, err
			}
			return 0, io.EOF
		}
		input := strings.TrimSpace(c.in.Text())
		// Skip blanks and comment lines (for script files).
		if input == "" || strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}
		if strings.HasPrefix(input, "/") {
			if err := c.handleMeta(ctx, input); err != nil {
				return 0, err
			}
			continue
		}
		if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(labels) {
			return n - 1, nil
		}
		for i, l := range labels {
			if strings.EqualFold(l, input) {
				return i, nil
			}
		}
		c.printSystem(fmt.Sprintf("Pick 1-%d, or /help.", len(labels)))
	}
}

// handleMeta dispatches meta-commands. A non-nil error ends the question.
func (c *CLI) handleMeta(ctx context.Context, input string) error {
	parts := strings.Fields(input)
	switch parts[0] {
	case "/quit", "/exit":
		return errQuit
	case "/save":
		c.cmdSave(ctx)
	case "/board":
		c.printLine(Render(c.Engine.State))
	case "/state":
		c.cmdState()
	case "/help":
		c.cmdHelp()
	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}
	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", parts[0]))
	}
	return nil
}

// cmdSave writes the state as it was before the pending step, so a resumed
// game asks the same question again.
func (c *CLI) cmdSave(ctx context.Context) {
	if c.Store == nil {
		c.printSystem("Saving is disabled.")
		return
	}
	data, err := save.Save(c.GameID, c.Engine.State)
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	if err := c.Store.Put(ctx, c.GameID, data); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	c.printSystem(fmt.Sprintf("Game saved as %s.", c.GameID))
}

func (c *CLI) cmdHelp() {
	help := []string{
		"Answer with the number of an option or its exact text.",
		"System:",
		"  /save   Save the game",
		"  /board  Show the board",
		"  /state  Show round, phase and dice",
		"  /trace  Toggle event trace output",
		"  /quit   Exit the game",
		"  /help   Show this help",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	s := c.Engine.State
	c.printSystem(fmt.Sprintf("Round: %d", s.Round))
	c.printSystem(fmt.Sprintf("Danger: %s", s.DangerLevel()))
	var phases []string
	for _, r := range s.Stack.Records() {
		phases = append(phases, r.String())
	}
	c.printSystem("Phases: " + strings.Join(phases, " > "))
	c.printSystem(fmt.Sprintf("Dice: %d/%d", s.Pool.Next, len(s.Pool.Faces)))
	c.printSystem(fmt.Sprintf("RNG: seed %d position %d", s.RNGSeed, s.RNGPosition))
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}

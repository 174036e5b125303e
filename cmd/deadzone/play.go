package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nathoo/deadzone/cli"
	"github.com/nathoo/deadzone/config"
	"github.com/nathoo/deadzone/engine"
	"github.com/nathoo/deadzone/engine/dice"
	"github.com/nathoo/deadzone/engine/save"
	"github.com/nathoo/deadzone/engine/state"
	"github.com/nathoo/deadzone/loader"
	"github.com/nathoo/deadzone/logging"
	"github.com/nathoo/deadzone/tui"
)

// playFlags override the environment configuration.
type playFlags struct {
	seed     int64
	users    int
	bot      bool
	plain    bool
	trace    bool
	script   string
	resume   string
	logLevel string
	logFile  string
}

var play playFlags

var playCmd = &cobra.Command{
	Use:   "play <quest>",
	Short: "Play a quest file or directory",
	Args:  cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && play.resume == "" {
			return errors.New("play needs a quest path or --resume <id>")
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("seed") {
			cfg.Seed = play.seed
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = play.logLevel
		}
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		return runPlay(cmd.Context(), cmd.OutOrStdout(), cfg, path)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check <quest>",
	Short: "Load and validate a quest without playing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := loader.Load(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, w := range sc.Warnings {
			fmt.Fprintf(out, "warning: %s\n", w)
		}
		fmt.Fprintf(out, "%s: %d zones, %d characters, %d users\n",
			sc.Quest.Name, len(sc.Board.Zones), len(sc.Characters), sc.Users)
		return nil
	},
}

func init() {
	f := playCmd.Flags()
	f.Int64Var(&play.seed, "seed", 0, "seed for dice and shuffles (0 picks one)")
	f.IntVar(&play.users, "users", 0, "number of players sharing the characters")
	f.BoolVar(&play.bot, "bot", false, "let a random bot make every decision")
	f.BoolVar(&play.plain, "plain", false, "use the line-based interface")
	f.BoolVar(&play.trace, "trace", false, "print engine events")
	f.StringVar(&play.script, "script", "", "read answers from a file")
	f.StringVar(&play.resume, "resume", "", "resume a saved game by id")
	f.StringVar(&play.logLevel, "log-level", "info", "log level (debug, info, warn, error, disabled)")
	f.StringVar(&play.logFile, "log-file", "", "write logs to a file instead of stderr")
}

func runPlay(ctx context.Context, out io.Writer, cfg config.Config, path string) error {
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	useTUI := !play.plain && !play.bot && play.script == "" && isTerminal()
	log, closeLog, err := newLogger(cfg, useTUI)
	if err != nil {
		return err
	}
	defer closeLog()

	var s *state.State
	id := play.resume
	if id != "" {
		s, err = resume(ctx, store, id)
	} else {
		id = save.NewID()
		s, err = newGame(cfg, path)
	}
	if err != nil {
		return err
	}
	log = logging.Game(log, id)
	log.Info().Str("quest", s.Quest.Name).Int64("seed", s.RNGSeed).Int("round", s.Round).Msg("game ready")

	eng := engine.New(s, nil, log)

	if useTUI {
		return tui.Run(ctx, eng, tui.Options{Store: store, GameID: id, Trace: play.trace})
	}

	c := cli.New(eng)
	c.Out = out
	c.Store, c.GameID = store, id
	c.Trace = play.trace
	eng.Decider = c
	if play.bot {
		eng.Decider = cli.NewBot(uint64(s.RNGSeed))
	}
	if play.script != "" {
		f, err := os.Open(play.script)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		c.SetInput(f)
		c.EchoInput = true
	}
	fmt.Fprintf(out, "%s (game %s, seed %d)\n\n", s.Quest.Name, id, s.RNGSeed)
	if err := c.Run(ctx); err != nil {
		return err
	}
	log.Info().Bool("over", s.Over()).Bool("won", s.Outcome.Won).Str("reason", s.Outcome.Reason).Msg("game finished")
	return nil
}

// newGame loads the quest and deals a fresh state. The pool is shuffled
// from the same RNG the engine continues with.
func newGame(cfg config.Config, path string) (*state.State, error) {
	sc, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	if play.users > 0 {
		sc.Users = play.users
	}
	size := dice.DefaultSize
	switch {
	case cfg.DicePool > 0:
		size = cfg.DicePool
	case sc.DiceSize > 0:
		size = sc.DiceSize
	}
	seed := cfg.ResolveSeed()
	rng := engine.NewRNG(seed)
	pool, err := dice.NewPool(size, rng)
	if err != nil {
		return nil, err
	}
	s, err := sc.NewState(pool, cfg.MaxWounds)
	if err != nil {
		return nil, err
	}
	s.RNGSeed, s.RNGPosition = seed, rng.Position()
	return s, nil
}

func resume(ctx context.Context, store save.Store, id string) (*state.State, error) {
	data, err := store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	snap, err := save.Load(data)
	if err != nil {
		return nil, err
	}
	return snap.State, nil
}

// newLogger writes to stderr, or to --log-file. The TUI owns the terminal,
// so without a file it logs nothing.
func newLogger(cfg config.Config, useTUI bool) (zerolog.Logger, func(), error) {
	var w io.Writer = os.Stderr
	closeFn := func() {}
	switch {
	case play.logFile != "":
		f, err := os.OpenFile(play.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("opening log file: %w", err)
		}
		w, closeFn = f, func() { _ = f.Close() }
	case useTUI:
		return zerolog.Nop(), closeFn, nil
	}
	log, err := logging.Setup(w, logging.Options{Level: cfg.LogLevel, Console: true})
	if err != nil {
		closeFn()
		return zerolog.Nop(), nil, err
	}
	return log, closeFn, nil
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

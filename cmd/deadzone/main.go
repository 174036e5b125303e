// Deadzone plays cooperative zombie quests on the terminal.
// Usage: deadzone play [--seed N] [--bot] [--plain] [--script <file>] <quest>
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/nathoo/deadzone/config"
	"github.com/nathoo/deadzone/engine/save"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:           "deadzone",
	Short:         "Cooperative zombie tactics on the terminal",
	Long:          `Deadzone loads a Lua quest and plays it turn by turn, asking the players for every decision.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "deadzone %s (commit %s, built %s)\n", version, commit, date)
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(savesCmd)
	rootCmd.AddCommand(versionCmd)
}

// openStore picks redis when an address is configured, files otherwise.
// The returned func releases the store.
func openStore(ctx context.Context, cfg config.Config) (save.Store, func(), error) {
	if cfg.RedisAddr != "" {
		client, err := save.DialRedis(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		store, err := save.NewRedisStore(client, cfg.SaveTTL)
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return store, func() { _ = client.Close() }, nil
	}
	store, err := save.NewFileStore(cfg.SaveDir)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {}, nil
}

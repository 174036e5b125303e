package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nathoo/deadzone/config"
	"github.com/nathoo/deadzone/engine/save"
)

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "List or delete saved games",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		store, closeStore, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		ids, err := store.List(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(ids) == 0 {
			fmt.Fprintln(out, "No saved games.")
			return nil
		}
		for _, id := range ids {
			data, err := store.Get(ctx, id)
			if err != nil {
				// Expired between List and Get.
				continue
			}
			snap, err := save.Load(data)
			if err != nil {
				fmt.Fprintf(out, "%s  (unreadable: %v)\n", id, err)
				continue
			}
			fmt.Fprintf(out, "%s  %-20s round %-3d %s\n", id, snap.Quest, snap.Round, snap.SavedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		store, closeStore, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		if err := store.Delete(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", args[0])
		return nil
	},
}

func init() {
	savesCmd.AddCommand(deleteCmd)
}

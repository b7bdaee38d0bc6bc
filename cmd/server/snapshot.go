package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/JonMunkholm/recipegrid/internal/admin"
	"github.com/JonMunkholm/recipegrid/internal/store"
	"github.com/spf13/cobra"
)

// withSnapshot opens the configured store for the duration of fn.
func withSnapshot(cmd *cobra.Command, fn func(*admin.Snapshot) error) error {
	st, err := store.Open(cmd.Context(), cfg.Store, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Warn("closing store", "error", err)
		}
	}()
	return fn(&admin.Snapshot{Store: st, Key: cfg.Store.Key})
}

func runSnapshotShow(cmd *cobra.Command, args []string) error {
	return withSnapshot(cmd, func(snap *admin.Snapshot) error {
		records, found, err := snap.Read(cmd.Context())
		if err != nil {
			return err
		}
		if !found {
			fmt.Fprintf(cmd.ErrOrStderr(), "no submitted records under %q\n", cfg.Store.Key)
			return nil
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	})
}

func runSnapshotClear(cmd *cobra.Command, args []string) error {
	return withSnapshot(cmd, func(snap *admin.Snapshot) error {
		if err := snap.Clear(cmd.Context()); err != nil {
			return err
		}
		slog.Info("snapshot cleared", "backend", cfg.Store.Backend, "key", cfg.Store.Key)
		return nil
	})
}

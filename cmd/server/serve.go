package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/recipegrid/internal/core"
	"github.com/JonMunkholm/recipegrid/internal/source"
	"github.com/JonMunkholm/recipegrid/internal/store"
	"github.com/JonMunkholm/recipegrid/internal/web"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func runServe(cmd *cobra.Command, args []string) error {
	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"source", cfg.Source.URL,
		"store_backend", cfg.Store.Backend,
		"store_key", cfg.Store.Key,
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open the edit store
	st, err := store.Open(ctx, cfg.Store, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Warn("closing store", "error", err)
		}
	}()
	slog.Info("store opened", "backend", cfg.Store.Backend)

	src := source.NewClient(cfg.Source.URL, cfg.Source.Timeout)
	service := core.NewService(src, st, cfg.Store.Key)
	server := web.NewServer(service, cfg.Server)

	g, gctx := errgroup.WithContext(ctx)

	// Fetch the records once. On failure the page keeps showing the
	// loading state until the process is restarted.
	g.Go(func() error {
		if err := service.Load(gctx); err != nil {
			logLoadFailure(slog.Default(), err)
		}
		return nil
	})

	g.Go(func() error {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// logLoadFailure reports why the table is stuck on the loading page. Errors
// with a mapped message carry its action, which names the recovery command
// for a corrupt snapshot.
func logLoadFailure(logger *slog.Logger, err error) {
	args := []any{"error", err, "code", core.MapError(err).Code}
	if core.IsUserFacing(err) {
		args = append(args, "user_message", core.FormatUserError(err))
	}
	logger.Error("loading records failed", args...)
}

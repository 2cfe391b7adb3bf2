package commands

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kvanzyl/shedwatch/internal/config"
	"github.com/kvanzyl/shedwatch/internal/engine"
	"github.com/kvanzyl/shedwatch/internal/provider/postgres"
	"github.com/kvanzyl/shedwatch/internal/server"
	"github.com/kvanzyl/shedwatch/internal/stagefeed"
	"github.com/kvanzyl/shedwatch/pkg/types"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	var dev bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the shedwatch HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(dev)
		},
	}
	cmd.Flags().BoolVar(&dev, "dev", false, "seed the memory provider with the demo dataset")
	return cmd
}

func runServe(dev bool) error {
	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.Default()
	ctx := context.Background()

	prov, err := newProvider(cfg, dev)
	if err != nil {
		return err
	}
	if err := prov.Start(ctx); err != nil {
		return fmt.Errorf("connecting to provider: %w", err)
	}
	if pg, ok := prov.(*postgres.Store); ok {
		if err := pg.Migrate(ctx); err != nil {
			return fmt.Errorf("migrating postgres: %w", err)
		}
	}

	interval, err := config.FeedInterval(cfg)
	if err != nil {
		return err
	}
	timeout, err := config.FeedTimeout(cfg)
	if err != nil {
		return err
	}

	current := stagefeed.NewCurrentStage(0)
	feed := stagefeed.NewClient(cfg.Feed.URL, timeout)
	updater := stagefeed.NewUpdater(prov, feed, current, newLocker(cfg), logger, interval)

	eng := engine.New(prov, logger)

	var serverCfg types.ServerConfig
	if cfg.Server != nil {
		serverCfg = *cfg.Server
	}
	srv := server.New(serverCfg, eng, prov, current)

	updater.Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case sig := <-sigCh:
		color.Yellow("\nReceived %s, shutting down...", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		updater.Stop(shutdownCtx)
		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		_ = prov.Stop(shutdownCtx)
		color.Green("Server stopped gracefully")
		return nil
	}
}

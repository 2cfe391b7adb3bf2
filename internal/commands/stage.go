package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kvanzyl/shedwatch/internal/config"
	"github.com/kvanzyl/shedwatch/internal/provider"
	"github.com/kvanzyl/shedwatch/internal/stagefeed"
)

// NewStageCmd creates the stage command.
func NewStageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stage",
		Short: "Show the stage currently in force",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage()
		},
	}
}

func runStage() error {
	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	prov, err := newProvider(cfg, false)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := prov.Start(ctx); err != nil {
		return fmt.Errorf("connecting to provider: %w", err)
	}
	defer func() { _ = prov.Stop(ctx) }()

	now := time.Now().Unix()
	entry, err := prov.FindStageLogAtOrBefore(ctx, now)
	if errors.Is(err, provider.ErrNotFound) {
		color.Green("Stage 0 (no stage history)")
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading stage log: %w", err)
	}

	if !entry.Contains(now) {
		color.Green("Stage 0 (last recorded interval ended %s)", time.Unix(entry.End, 0).Format(time.RFC3339))
		return nil
	}
	if entry.Stage == 0 {
		color.Green("Stage 0")
	} else {
		color.Red("Stage %d (until %s)", entry.Stage, time.Unix(entry.End, 0).Format(time.RFC3339))
	}
	return nil
}

// NewReconcileCmd creates the reconcile command, a one-shot feed ingest.
func NewReconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Fetch the stage feed and merge it into the stage log once",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile()
		},
	}
}

func runReconcile() error {
	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	prov, err := newProvider(cfg, false)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := prov.Start(ctx); err != nil {
		return fmt.Errorf("connecting to provider: %w", err)
	}
	defer func() { _ = prov.Stop(ctx) }()

	timeout, err := config.FeedTimeout(cfg)
	if err != nil {
		return err
	}

	current := stagefeed.NewCurrentStage(0)
	feed := stagefeed.NewClient(cfg.Feed.URL, timeout)
	updater := stagefeed.NewUpdater(prov, feed, current, stagefeed.NoopLocker{}, nil, time.Hour)

	if err := updater.ReconcileOnce(ctx); err != nil {
		return fmt.Errorf("reconciling stage log: %w", err)
	}
	color.Green("Reconciled; current stage %d", current.Get())
	return nil
}

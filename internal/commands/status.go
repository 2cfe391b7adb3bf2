package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kvanzyl/shedwatch/internal/config"
	"github.com/kvanzyl/shedwatch/internal/engine"
	"github.com/kvanzyl/shedwatch/internal/provider"
)

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	var stage int

	cmd := &cobra.Command{
		Use:   "status <municipality-id>",
		Short: "Show which suburbs of a municipality are currently off",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(args[0], stage)
		},
	}
	cmd.Flags().IntVar(&stage, "stage", -1, "stage to evaluate (default: stage currently in force)")
	return cmd
}

func runStatus(municipalityID string, stage int) error {
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

	now := time.Now()
	if stage < 0 {
		stage = currentStageFromLog(ctx, prov, now.Unix())
	}

	eng := engine.New(prov, nil)
	status, err := eng.ResolveRegionStatus(ctx, municipalityID, stage, now)
	if err != nil {
		return fmt.Errorf("resolving region status: %w", err)
	}

	fmt.Printf("Municipality %s at stage %d\n\n", municipalityID, stage)
	if len(status.Off) == 0 {
		color.Green("All %d suburbs have power", len(status.On))
		return nil
	}

	color.Red("Off (%d):", len(status.Off))
	for _, sub := range status.Off {
		fmt.Printf("  %s\n", sub.Name)
	}
	color.Green("On (%d):", len(status.On))
	for _, sub := range status.On {
		fmt.Printf("  %s\n", sub.Name)
	}
	return nil
}

func currentStageFromLog(ctx context.Context, prov provider.Provider, now int64) int {
	entry, err := prov.FindStageLogAtOrBefore(ctx, now)
	if err != nil || !entry.Contains(now) {
		if err != nil && !errors.Is(err, provider.ErrNotFound) {
			fmt.Printf("warning: reading stage log: %v\n", err)
		}
		return 0
	}
	return entry.Stage
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kvanzyl/shedwatch/internal/commands"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "shedwatch",
		Short: "Load-shedding tracking engine for South African municipalities",
		Long: `Shedwatch tracks rotating utility power cuts. It combines each
municipality's rotation schedule with an externally published stage
timeline to answer which suburbs are off right now, when a suburb will
next lose power, and how much downtime a suburb accumulated this week.`,
		Version: version,
	}

	root.AddCommand(
		commands.NewInitCmd(),
		commands.NewServeCmd(),
		commands.NewStageCmd(),
		commands.NewStatusCmd(),
		commands.NewReconcileCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

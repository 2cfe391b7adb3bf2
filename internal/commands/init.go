package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [project-name]",
		Short: "Initialize a new shedwatch project",
		Long:  "Creates a project directory with a starter shedwatch.yaml.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(args[0])
		},
	}
}

func runInit(projectName string) error {
	bold := color.New(color.Bold)
	_, _ = bold.Printf("Initializing shedwatch project: %s\n", projectName)

	if err := os.MkdirAll(projectName, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", projectName, err)
	}

	configPath := filepath.Join(projectName, "shedwatch.yaml")
	configContent := `provider: postgres
postgres:
  dsn: postgres://shedwatch@localhost:5432/shedwatch

# Optional: share the reconcile tick between replicas.
# redis:
#   addr: localhost:6379
#   keyPrefix: "shedwatch:"

feed:
  url: https://example.net/stage-ranges
  interval: 1h
  timeout: 30s

server:
  addr: ":3000"
`
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}

	color.Green("Created %s", configPath)
	fmt.Println("\nNext steps:")
	fmt.Printf("  cd %s\n", projectName)
	fmt.Println("  edit shedwatch.yaml, then: shedwatch serve")
	return nil
}

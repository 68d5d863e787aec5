package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pluqqy/coursekit/internal/cli"
	"github.com/pluqqy/coursekit/internal/config"
	"github.com/pluqqy/coursekit/pkg/files"
)

// NewInitCommand creates the init command
func NewInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new coursekit project",
		Long: `Creates the data directory structure and a default coursekit.yaml in the
current directory. An existing config file is left untouched.`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	if err := files.InitProjectStructure(cfg.DataDir); err != nil {
		return fmt.Errorf("failed to initialize project structure: %w", err)
	}
	cli.PrintSuccess("Created %s folder structure", cfg.DataDir)

	path := cfgFile
	if path == "" {
		path = files.ConfigFile
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := config.WriteDefault(path, cfg.DataDir); err != nil {
			return err
		}
		cli.PrintSuccess("Wrote %s", path)
	}

	cli.PrintInfo("Run 'coursekit create <course-id>' to add a course.")
	return nil
}

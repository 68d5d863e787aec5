package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pluqqy/coursekit/internal/cli"
)

// Global flags
var (
	quiet       bool
	noColor     bool
	skipConfirm bool
	cfgFile     string
)

// NewRootCommand builds the coursekit command tree
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "coursekit",
		Short: "Terminal editor for course settings",
		Long: `Coursekit edits course settings from the terminal. Courses are stored as
YAML files in the data directory, and the interactive editor keeps every
field, preview and the course overview in sync while you type.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cli.SetGlobalFlags(quiet, noColor, skipConfirm)
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&quiet, "quiet", "q", false, "Suppress informational output")
	flags.BoolVar(&noColor, "no-color", false, "Disable colored output")
	flags.BoolVarP(&skipConfirm, "yes", "y", false, "Skip confirmation prompts")
	flags.StringVar(&cfgFile, "config", "", "Config file (default: ./coursekit.yaml)")
	flags.String("data-dir", "", "Data directory (default: .coursekit)")
	flags.String("directory-url", "", "People directory endpoint used by the overview")
	flags.StringP("output", "o", "text", "Output format: text, json or yaml")

	root.AddCommand(
		NewInitCommand(),
		NewCreateCommand(),
		NewListCommand(),
		NewShowCommand(),
		NewSetCommand(),
		NewValidateCommand(),
		NewOverviewCommand(),
		NewRestoreCommand(),
		NewEditCommand(),
		newVersionCommand(version),
	)
	return root
}

func newVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of coursekit",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "coursekit version %s\n", version)
		},
	}
}

// projectContext loads configuration for cmd and checks the data directory
func projectContext(cmd *cobra.Command) (*cli.CommandContext, error) {
	ctx, err := cli.NewCommandContext(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := ctx.ValidateProject(); err != nil {
		return nil, err
	}
	return ctx, nil
}

// outputFormat returns the validated --output flag
func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("output")
	if format == "" {
		format = string(cli.FormatText)
	}
	if err := cli.ValidateOutputFormat(format); err != nil {
		return "", err
	}
	return format, nil
}

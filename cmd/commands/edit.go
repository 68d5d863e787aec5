package commands

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pluqqy/coursekit/internal/cli"
	"github.com/pluqqy/coursekit/pkg/tui"
)

// NewEditCommand creates the edit command
func NewEditCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <course>",
		Short: "Edit course settings in the terminal UI",
		Long: `Open the settings page of a course in the interactive terminal UI.

Edits are checked as you type. Nothing is stored until you save, and
unsaved changes can be reverted to the stored settings.

Examples:
  # Edit a course by key
  coursekit edit course-v1:Org+GO101+2030

  # Edit by a unique part of the key
  coursekit edit go101`,
		Args: cobra.ExactArgs(1),
		RunE: runEdit,
	}
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx, err := projectContext(cmd)
	if err != nil {
		return err
	}
	defer ctx.Close()

	course, err := ctx.LoadCourse(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	app, err := tui.NewApp(course, ctx.ViewOptions())
	if err != nil {
		return err
	}
	defer app.SettingsView().Close()

	ctx.Log().Info("opening course editor", "course", course.ID)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to start the terminal user interface: %w", err)
	}

	if course.Dirty() {
		cli.PrintWarning("Closed with unsaved changes to %s", course.ID)
	}
	return nil
}

package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pluqqy/coursekit/internal/cli"
	"github.com/pluqqy/coursekit/pkg/files"
	"github.com/pluqqy/coursekit/pkg/models"
)

// NewRestoreCommand creates the restore command
func NewRestoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <course>",
		Short: "Restore the previously saved version of a course",
		Long: `Every save keeps the version it replaces in the archive directory.
Restore brings that version back; the current settings become the new
archived version, so running restore twice undoes it.

Examples:
  # Restore a course
  coursekit restore go101

  # Restore without confirmation
  coursekit restore go101 -y`,
		Args: cobra.ExactArgs(1),
		RunE: runRestore,
	}
}

func runRestore(cmd *cobra.Command, args []string) error {
	ctx, err := projectContext(cmd)
	if err != nil {
		return err
	}
	defer ctx.Close()

	id, err := ctx.ResolveCourse(args[0])
	if err != nil {
		return err
	}

	values, err := ctx.Store.FetchArchived(cmd.Context(), id)
	if errors.Is(err, files.ErrCourseNotFound) {
		return fmt.Errorf("no archived version of '%s'. A version is archived each time the course is saved", id)
	}
	if err != nil {
		return err
	}

	archived := models.NewCourse(id, values)
	confirmed, err := cli.Confirm(fmt.Sprintf("Restore '%s' (%s)?", id, archived.String(models.AttrTitle)), false)
	if err != nil {
		return err
	}
	if !confirmed {
		cli.PrintInfo("Restore cancelled")
		return nil
	}

	if err := ctx.Store.Save(cmd.Context(), id, archived.Snapshot()); err != nil {
		return fmt.Errorf("failed to restore course: %w", err)
	}
	ctx.Log().Info("course restored", "course", id)
	cli.PrintSuccess("Restored %s", id)
	return nil
}

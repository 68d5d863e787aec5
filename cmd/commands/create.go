package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pluqqy/coursekit/internal/cli"
	"github.com/pluqqy/coursekit/pkg/models"
)

var (
	createTitle string
	createStart string
	createOrg   string
	createNum   string
	createRun   string
)

// NewCreateCommand creates the create command
func NewCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <course-id>",
		Short: "Create a new course",
		Long: `Create a new course with default settings.

Organization, number and run are read from ids of the form
course-v1:<org>+<number>+<run> unless given as flags.

Examples:
  # Create a course from its key
  coursekit create course-v1:Org+GO101+2030 --title "Intro to Go"

  # Create with an explicit start date
  coursekit create go101 --org Org --number GO101 --run 2030 --start 2030-01-01`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.ValidateCourseID(args[0])
		},
		RunE: runCreate,
	}

	cmd.Flags().StringVar(&createTitle, "title", "", "Course title")
	cmd.Flags().StringVar(&createStart, "start", "", "Start date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&createOrg, "org", "", "Organization")
	cmd.Flags().StringVar(&createNum, "number", "", "Course number")
	cmd.Flags().StringVar(&createRun, "run", "", "Course run")

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	id := args[0]

	ctx, err := projectContext(cmd)
	if err != nil {
		return err
	}
	defer ctx.Close()

	org, number, run := parseCourseKey(id)
	values := map[string]interface{}{
		models.AttrOrg:      firstNonEmpty(createOrg, org),
		models.AttrCourseID: firstNonEmpty(createNum, number),
		models.AttrRun:      firstNonEmpty(createRun, run),
		models.AttrTitle:    createTitle,
	}
	if createStart != "" {
		if _, err := models.ParseDate(createStart); err != nil {
			return fmt.Errorf("invalid start date %q: %w", createStart, err)
		}
		values[models.AttrStartDate] = createStart
	}

	if err := ctx.Store.Create(cmd.Context(), id, values); err != nil {
		return err
	}
	ctx.Log().Info("course created", "course", id)

	cli.PrintSuccess("Created course: %s", id)
	cli.PrintInfo("Run 'coursekit edit %s' to edit its settings.", id)
	return nil
}

// parseCourseKey splits "course-v1:Org+Number+Run". Other ids yield empty parts.
func parseCourseKey(id string) (org, number, run string) {
	_, key, found := strings.Cut(id, ":")
	if !found {
		return "", "", ""
	}
	parts := strings.Split(key, "+")
	if len(parts) != 3 {
		return "", "", ""
	}
	return parts[0], parts[1], parts[2]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pluqqy/coursekit/internal/cli"
	"github.com/pluqqy/coursekit/pkg/models"
)

var (
	showField string
	showAll   bool
)

// ShowResult is the structured output of the show command
type ShowResult struct {
	ID       string                 `json:"id" yaml:"id"`
	Settings map[string]interface{} `json:"settings" yaml:"settings"`
}

// NewShowCommand creates the show command
func NewShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <course>",
		Short: "Display course settings",
		Long: `Display the settings of a course.

The course can be given by id, unique id prefix or slug. Empty fields are
hidden unless --all is set.

Examples:
  # Show a course
  coursekit show course-v1:Org+GO101+2030

  # Print one field
  coursekit show go101 --field overview

  # Output as YAML
  coursekit show go101 -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}

	cmd.Flags().StringVarP(&showField, "field", "f", "", "Print the raw value of one field")
	cmd.Flags().BoolVarP(&showAll, "all", "a", false, "Include empty fields")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	ctx, err := projectContext(cmd)
	if err != nil {
		return err
	}
	defer ctx.Close()

	course, err := ctx.LoadCourse(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if showField != "" {
		attr, ok := models.LookupAttribute(showField)
		if !ok {
			return fmt.Errorf("unknown field: %s", showField)
		}
		fmt.Fprintln(out, formatValue(course, attr))
		return nil
	}

	if format != string(cli.FormatText) {
		return cli.OutputResults(out, format, ShowResult{ID: course.ID, Settings: course.Snapshot()})
	}

	fmt.Fprintf(out, "Course: %s\n\n", course.ID)
	tbl := cli.NewTable(out, "Field", "Value")
	tbl.WrapColumn(2, 70)
	for _, attr := range models.Schema {
		if !showAll && !course.Has(attr.Name) {
			continue
		}
		tbl.Row(attr.Name, formatValue(course, attr))
	}
	tbl.Render()
	return nil
}

// formatValue renders an attribute for terminal output
func formatValue(course *models.Course, attr models.Attribute) string {
	switch attr.Kind {
	case models.KindBool:
		return strconv.FormatBool(course.Bool(attr.Name))
	case models.KindStringList:
		return strings.Join(course.StringList(attr.Name), "\n")
	case models.KindInstructors:
		var lines []string
		for _, in := range course.Instructors() {
			line := in.Name
			if in.Title != "" {
				line += ", " + in.Title
			}
			if in.Organization != "" {
				line += " (" + in.Organization + ")"
			}
			lines = append(lines, line)
		}
		return strings.Join(lines, "\n")
	}
	return course.String(attr.Name)
}

package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pluqqy/coursekit/internal/cli"
	"github.com/pluqqy/coursekit/pkg/fieldsync"
	"github.com/pluqqy/coursekit/pkg/models"
	"github.com/pluqqy/coursekit/pkg/validation"
)

var setEdit bool

// catalogueLists hold JSON encoded lists read by the overview composer
var catalogueLists = map[string]bool{
	models.AttrObjectives:          true,
	models.AttrCoursePrerequisites: true,
	models.AttrInstructors:         true,
	models.AttrInstructorDesigners: true,
}

// NewSetCommand creates the set command
func NewSetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <course> <field> [value]",
		Short: "Set one course setting",
		Long: `Set one field of a course and save it when the course is still valid.

List fields (learning_info, pre_requisite_courses) take one entry per line
or a JSON array. The catalogue lists (objectives, course_prerequisites,
instructors, instructor_designers) must be JSON arrays of strings.

Examples:
  # Set the title
  coursekit set go101 title "Intro to Go"

  # Edit the overview in $EDITOR
  coursekit set go101 overview --edit

  # Set the instructors used by the overview
  coursekit set go101 instructors '["Ada Lovelace", "Alan Turing"]'`,
		Args: cobra.RangeArgs(2, 3),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 2 && !setEdit {
				return fmt.Errorf("a value is required unless --edit is set")
			}
			_, err := cli.ValidateField(args[1])
			return err
		},
		RunE: runSet,
	}

	cmd.Flags().BoolVarP(&setEdit, "edit", "e", false, "Edit the current value in $EDITOR")

	return cmd
}

func runSet(cmd *cobra.Command, args []string) error {
	ctx, err := projectContext(cmd)
	if err != nil {
		return err
	}
	defer ctx.Close()

	course, err := ctx.LoadCourse(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	attr, err := cli.ValidateField(args[1])
	if err != nil {
		return err
	}

	var raw string
	if len(args) == 3 {
		raw = args[2]
	} else {
		raw, err = cli.NewEditorLauncher().EditString(attr.Name+"-*.txt", formatValue(course, attr))
		if err != nil {
			return err
		}
	}

	if attr.Name == models.AttrSelfPaced && !course.CanTogglePace(time.Now()) {
		return errors.New(fieldsync.PaceLockedTip)
	}
	value, err := parseFieldValue(attr, raw)
	if err != nil {
		return err
	}

	gate := validation.NewGate(course, ctx.Log())
	gate.Commit(attr.Name, value)
	if !gate.Validate() {
		for _, fe := range gate.Errors() {
			cli.PrintError("%s: %s", fe.Field, fe.Message)
		}
		return fmt.Errorf("%s not saved: %w", course.ID, gate.Err())
	}
	if !course.Dirty() {
		cli.PrintInfo("%s is unchanged", attr.Name)
		return nil
	}

	if err := ctx.Store.Save(cmd.Context(), course.ID, course.Snapshot()); err != nil {
		return err
	}
	ctx.Log().Info("course field set", "course", course.ID, "field", attr.Name)
	cli.PrintSuccess("Set %s on %s", attr.Name, course.ID)
	return nil
}

// parseFieldValue converts command line text to the attribute's kind
func parseFieldValue(attr models.Attribute, raw string) (interface{}, error) {
	switch attr.Kind {
	case models.KindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%s expects true or false, got %q", attr.Name, raw)
		}
		return b, nil

	case models.KindStringList:
		if strings.HasPrefix(strings.TrimSpace(raw), "[") {
			items, err := models.ParseList(raw)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", attr.Name, err)
			}
			return items, nil
		}
		items := []string{}
		for _, line := range strings.Split(raw, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				items = append(items, line)
			}
		}
		return items, nil
	}

	if catalogueLists[attr.Name] {
		items, err := models.ParseList(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", attr.Name, err)
		}
		return models.EncodeList(items), nil
	}
	return raw, nil
}

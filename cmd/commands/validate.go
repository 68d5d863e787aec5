package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pluqqy/coursekit/internal/cli"
	"github.com/pluqqy/coursekit/pkg/validation"
)

// ValidateResult is the structured output of the validate command
type ValidateResult struct {
	ID     string                  `json:"id" yaml:"id"`
	Valid  bool                    `json:"valid" yaml:"valid"`
	Errors []validation.FieldError `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <course>",
		Short: "Check course settings",
		Long: `Check the schedule and the other validated fields of a course. The
command exits with an error when the course would be refused on save.`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
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

	gate := validation.NewGate(course, ctx.Log())
	result := ValidateResult{ID: course.ID, Valid: gate.Validate(), Errors: gate.Errors()}

	if format != string(cli.FormatText) {
		if err := cli.OutputResults(cmd.OutOrStdout(), format, result); err != nil {
			return err
		}
	} else if result.Valid {
		cli.PrintSuccess("%s is valid", course.ID)
	} else {
		tbl := cli.NewTable(cmd.OutOrStdout(), "Field", "Problem")
		tbl.WrapColumn(2, 70)
		for _, fe := range result.Errors {
			tbl.Row(fe.Field, fe.Message)
		}
		tbl.Render()
	}

	if !result.Valid {
		return fmt.Errorf("%s has %d invalid field(s)", course.ID, len(result.Errors))
	}
	return nil
}

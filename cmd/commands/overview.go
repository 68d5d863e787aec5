package commands

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/pluqqy/coursekit/internal/cli"
	"github.com/pluqqy/coursekit/pkg/composer"
	"github.com/pluqqy/coursekit/pkg/models"
	"github.com/pluqqy/coursekit/pkg/settings"
)

var (
	overviewWrite    bool
	overviewCopy     bool
	overviewMarkdown bool
	overviewFile     string
)

// NewOverviewCommand creates the overview command
func NewOverviewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overview <course>",
		Short: "Compose the course overview",
		Long: `Compose the course overview from the title, description, objectives,
prerequisites and staff of a course. Staff profiles are looked up in the
people directory when one is configured; people without a profile are
left out.

Examples:
  # Print the composed overview
  coursekit overview go101

  # Compose and store it in the course
  coursekit overview go101 --write

  # Copy a Markdown rendering to the clipboard
  coursekit overview go101 --markdown --copy`,
		Args: cobra.ExactArgs(1),
		RunE: runOverview,
	}

	cmd.Flags().BoolVarP(&overviewWrite, "write", "w", false, "Save the overview into the course")
	cmd.Flags().BoolVarP(&overviewCopy, "copy", "c", false, "Copy the result to the clipboard")
	cmd.Flags().BoolVarP(&overviewMarkdown, "markdown", "m", false, "Render the overview as Markdown")
	cmd.Flags().StringVar(&overviewFile, "output-file", "", "Also write the result to a file")

	return cmd
}

func runOverview(cmd *cobra.Command, args []string) error {
	ctx, err := projectContext(cmd)
	if err != nil {
		return err
	}
	defer ctx.Close()

	course, err := ctx.LoadCourse(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	view, err := settings.New(course, ctx.ViewOptions())
	if err != nil {
		return err
	}
	defer view.Close()

	html, err := composeOverview(cmd, view)
	if err != nil {
		return err
	}

	if overviewWrite {
		if err := settings.Drain(cmd.Context(), view, view.Click(settings.ButtonSave)); err != nil {
			return err
		}
		if status, failed := view.Status(); failed {
			return fmt.Errorf("overview not saved: %s", status)
		}
		cli.PrintSuccess("Saved overview of %s", course.ID)
	}

	out := html
	if overviewMarkdown {
		if out, err = composer.ToMarkdown(html); err != nil {
			return err
		}
	}

	if overviewFile != "" {
		if err := composer.WriteOverviewFile(out, overviewFile); err != nil {
			return err
		}
		cli.PrintSuccess("Wrote %s", overviewFile)
	}
	if overviewCopy {
		if err := clipboard.WriteAll(out); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		cli.PrintSuccess("Copied overview to clipboard")
	}
	if overviewFile == "" && !overviewCopy {
		fmt.Fprint(cmd.OutOrStdout(), out)
	}
	return nil
}

// composeOverview runs a composition to completion and returns the
// document. People without a directory profile are reported and left out.
// When every lookup failed the editor was never written, so the draft is
// rendered and stored here.
func composeOverview(cmd *cobra.Command, view *settings.View) (string, error) {
	start := view.ComposeOverview()
	if status, failed := view.Status(); failed {
		return "", fmt.Errorf("cannot compose overview: %s", status)
	}
	if err := settings.Drain(cmd.Context(), view, start); err != nil {
		return "", err
	}

	course := view.Course()
	d := view.Composer().Draft()
	if d == nil {
		return course.String(models.AttrOverview), nil
	}
	for _, name := range d.Missing() {
		cli.PrintWarning("no directory profile for %s", name)
	}
	if d.Pushed() || d.Outstanding() > 0 {
		return course.String(models.AttrOverview), nil
	}

	html, err := d.Render()
	if err != nil {
		return "", err
	}
	course.Set(models.AttrOverview, html)
	return html, nil
}

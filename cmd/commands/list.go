package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pluqqy/coursekit/internal/cli"
	"github.com/pluqqy/coursekit/pkg/models"
)

// ListResult represents the output structure for list command
type ListResult struct {
	Items []ListItem `json:"items" yaml:"items"`
	Count int        `json:"count" yaml:"count"`
}

// ListItem represents a single course in the list
type ListItem struct {
	ID         string `json:"id" yaml:"id"`
	Title      string `json:"title" yaml:"title"`
	StartDate  string `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	SelfPaced  bool   `json:"self_paced" yaml:"self_paced"`
	HasArchive bool   `json:"has_archive" yaml:"has_archive"`
}

// NewListCommand creates the list command
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List courses",
		Long: `List all courses in the data directory.

Examples:
  # List courses as a table
  coursekit list

  # List courses as JSON
  coursekit list -o json`,
		Args: cobra.NoArgs,
		RunE: runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	ctx, err := projectContext(cmd)
	if err != nil {
		return err
	}
	defer ctx.Close()

	ids, err := ctx.Store.List()
	if err != nil {
		return fmt.Errorf("failed to list courses: %w", err)
	}

	var result ListResult
	for _, id := range ids {
		course, err := ctx.Store.Load(cmd.Context(), id)
		if err != nil {
			cli.PrintWarning("skipping %s: %v", id, err)
			continue
		}
		_, archiveErr := ctx.Store.FetchArchived(cmd.Context(), id)
		result.Items = append(result.Items, ListItem{
			ID:         id,
			Title:      course.String(models.AttrTitle),
			StartDate:  course.String(models.AttrStartDate),
			SelfPaced:  course.Bool(models.AttrSelfPaced),
			HasArchive: archiveErr == nil,
		})
	}
	result.Count = len(result.Items)

	if format != string(cli.FormatText) {
		return cli.OutputResults(cmd.OutOrStdout(), format, result)
	}
	return outputListText(cmd, result)
}

func outputListText(cmd *cobra.Command, result ListResult) error {
	if result.Count == 0 {
		cli.PrintInfo("No courses found. Run 'coursekit create <course-id>' to add one.")
		return nil
	}

	tbl := cli.NewTable(cmd.OutOrStdout(), "ID", "Title", "Start", "Pacing", "Archive")
	for _, item := range result.Items {
		pacing := "instructor-led"
		if item.SelfPaced {
			pacing = "self-paced"
		}
		archive := ""
		if item.HasArchive {
			archive = "yes"
		}
		tbl.Row(item.ID, cli.TruncateString(item.Title, 40), item.StartDate, pacing, archive)
	}
	tbl.Render()

	if !cli.Quiet() {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d course(s)\n", result.Count)
	}
	return nil
}

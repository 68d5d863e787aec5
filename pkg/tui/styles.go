package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color constants
const (
	ColorActive   = "170" // Purple/magenta for active elements
	ColorInactive = "240" // Gray for inactive elements
	ColorSelected = "236" // Dark gray for background selection
	ColorNormal   = "245" // Light gray for normal text
	ColorDim      = "241" // Dimmer gray
	ColorVeryDim  = "242" // Even dimmer gray
	ColorWarning  = "214" // Orange/yellow for warnings
	ColorDanger   = "196" // Red for dangerous actions
	ColorSuccess  = "28"  // Green for success
	ColorWhite    = "255" // White
	ColorDark     = "235" // Dark for contrast
	ColorPrimary  = "33"  // Blue for buttons
	ColorError    = "196" // Red for errors (same as danger)
)

// Common styles
var (
	ActiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(ColorActive))

	InactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(ColorInactive))

	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorActive)).
			Background(lipgloss.Color(ColorSelected)).
			Bold(true)

	NormalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorNormal))

	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorWarning))

	LabelStyle = lipgloss.NewStyle().
			Width(28).
			Foreground(lipgloss.Color(ColorNormal))

	ContentPaddingStyle = lipgloss.NewStyle().
				PaddingLeft(1).
				PaddingRight(1)

	DescriptionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorDim))

	CommentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorVeryDim)).
			Italic(true)

	ButtonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorPrimary)).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError))

	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorDim)).
				Italic(true)

	// Banner shown while the course has unsaved changes
	BannerStyle = lipgloss.NewStyle().
			Background(lipgloss.Color(ColorWarning)).
			Foreground(lipgloss.Color(ColorDark)).
			Padding(0, 1)

	HelpBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorInactive))
)

// GetActiveHeaderStyle returns the pane heading style
func GetActiveHeaderStyle(isActive bool) lipgloss.Style {
	color := ColorInactive
	if isActive {
		color = ColorActive
	}
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(color))
}

func GetActiveColonStyle(isActive bool) lipgloss.Style {
	color := ColorInactive
	if isActive {
		color = ColorActive
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(color))
}

// renderPaneHeading draws "HEADING :::::" across width
func renderPaneHeading(heading string, width int, active bool) string {
	remaining := width - lipgloss.Width(heading) - 1
	if remaining < 0 {
		remaining = 0
	}
	return GetActiveHeaderStyle(active).Render(heading) + " " +
		GetActiveColonStyle(active).Render(strings.Repeat(":", remaining))
}

// formatHelpText joins help items with a separator
func formatHelpText(items []string) string {
	return DescriptionStyle.Render(strings.Join(items, " • "))
}

// formatConfirmOptions renders the y/n choice, red for destructive prompts
func formatConfirmOptions(destructive bool) string {
	yes := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).Bold(true)
	no := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDanger)).Bold(true)
	if destructive {
		yes, no = no, yes
	}
	return yes.Render("[Y]es") + "  " + no.Render("[N]o")
}

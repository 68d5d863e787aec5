package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Version is drawn under the logo
var Version = "dev"

func renderHeader(width int, courseID string) string {
	logo := strings.Join([]string{
		"┏━╸┏━┓╻ ╻┏━┓┏━┓┏━╸╻┏ ╻╺┳╸",
		"┃  ┃ ┃┃ ┃┣┳┛┗━┓┣╸ ┣┻┓┃ ┃ ",
		"┗━╸┗━┛┗━┛╹┗╸┗━┛┗━╸╹ ╹╹ ╹ ",
		Version,
	}, "\n")

	logoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true)

	headerPadding := lipgloss.NewStyle().
		PaddingLeft(1).
		PaddingRight(1).
		Width(width)

	logoRendered := logoStyle.Render(logo)
	if courseID == "" {
		rightAlign := lipgloss.NewStyle().
			Width(width - 2).
			Align(lipgloss.Right)
		return headerPadding.Render(rightAlign.Render(logoRendered))
	}

	// Course key sits on the version row
	id := logoStyle.Render(strings.Repeat("\n", 3) + courseID)
	gap := width - 2 - lipgloss.Width(id) - lipgloss.Width(logoRendered)
	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		id,
		lipgloss.NewStyle().Width(max(gap, 1)).Render(""),
		logoRendered,
	)
	return headerPadding.Render(content)
}

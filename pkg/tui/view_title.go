package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// ViewTitle draws the course display title above the form
type ViewTitle struct {
	text string
}

func NewViewTitle(text string) *ViewTitle {
	return &ViewTitle{text: text}
}

// View renders the title on a dark background
func (v *ViewTitle) View() string {
	text := v.text
	if text == "" {
		text = "Untitled course"
	}
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorWhite)).
		Background(lipgloss.Color("0")).
		Bold(true).
		Padding(0, 1)
	return titleStyle.Render("\n" + text + "\n")
}

// ViewWithAlignment renders the title left aligned in width
func (v *ViewTitle) ViewWithAlignment(width int) string {
	return lipgloss.NewStyle().
		Width(width).
		PaddingLeft(2).
		PaddingRight(2).
		Render(v.View())
}

// ViewTitleHeight is the height of a rendered title
func ViewTitleHeight() int {
	return 3
}

package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// DialogKind defines what a dialog asks for
type DialogKind int

const (
	DialogConfirm DialogKind = iota // yes/no question
	DialogNotice                    // message acknowledged with enter
)

// DialogConfig holds the configuration for a dialog
type DialogConfig struct {
	Kind        DialogKind
	Title       string
	Message     string
	Warning     string // shown in orange under the message
	Destructive bool   // Yes is red, No is green
	Width       int
}

// ConfirmationModel handles confirmation prompts and one-off notices
type ConfirmationModel struct {
	active    bool
	config    DialogConfig
	onConfirm func() tea.Cmd
	onCancel  func() tea.Cmd
}

// NewConfirmation creates a new confirmation model
func NewConfirmation() *ConfirmationModel {
	return &ConfirmationModel{}
}

// Show activates a yes/no dialog
func (m *ConfirmationModel) Show(config DialogConfig, onConfirm, onCancel func() tea.Cmd) {
	m.active = true
	m.config = config
	m.onConfirm = onConfirm
	m.onCancel = onCancel
}

// ShowNotice activates a dialog that only needs acknowledging
func (m *ConfirmationModel) ShowNotice(title, message string, width int) {
	m.Show(DialogConfig{Kind: DialogNotice, Title: title, Message: message, Width: width}, nil, nil)
}

// Active returns whether the dialog is currently shown
func (m *ConfirmationModel) Active() bool {
	return m.active
}

// Update handles key events for the dialog
func (m *ConfirmationModel) Update(msg tea.KeyMsg) tea.Cmd {
	if !m.active {
		return nil
	}

	if m.config.Kind == DialogNotice {
		switch msg.String() {
		case "enter", "esc", " ":
			m.active = false
		}
		return nil
	}

	switch msg.String() {
	case "y", "Y":
		m.active = false
		if m.onConfirm != nil {
			return m.onConfirm()
		}
	case "n", "N", "esc":
		m.active = false
		if m.onCancel != nil {
			return m.onCancel()
		}
	}
	return nil
}

// View renders the dialog with a border
func (m *ConfirmationModel) View() string {
	if !m.active {
		return ""
	}

	width := m.config.Width
	if width <= 0 {
		width = 60
	}
	contentWidth := width - 4
	center := lipgloss.NewStyle().Width(contentWidth).Align(lipgloss.Center)

	var b strings.Builder
	if m.config.Title != "" {
		b.WriteString(center.Render(SectionStyle.Render(m.config.Title)))
		b.WriteString("\n\n")
	}
	if m.config.Message != "" {
		b.WriteString(center.Render(wordwrap.String(m.config.Message, contentWidth)))
		b.WriteString("\n")
	}
	if m.config.Warning != "" {
		warning := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning))
		b.WriteString("\n")
		b.WriteString(center.Render(warning.Render(wordwrap.String(m.config.Warning, contentWidth))))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.config.Kind == DialogNotice {
		b.WriteString(center.Render(DescriptionStyle.Render("press enter to continue")))
	} else {
		b.WriteString(center.Render(formatConfirmOptions(m.config.Destructive)))
	}

	return ActiveBorderStyle.
		Width(width).
		Padding(1, 1).
		Render(b.String())
}

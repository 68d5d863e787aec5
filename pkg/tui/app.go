package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/pluqqy/coursekit/pkg/composer"
	"github.com/pluqqy/coursekit/pkg/editor"
	"github.com/pluqqy/coursekit/pkg/models"
	"github.com/pluqqy/coursekit/pkg/notify"
	"github.com/pluqqy/coursekit/pkg/settings"
)

type mode int

const (
	modeBrowse mode = iota
	modeInput       // single line edit
	modePane        // multi-line editor
	modeUpload
)

// App is the course settings editor
type App struct {
	view  *settings.View
	title string

	rows  []formRow
	focus int
	mode  mode

	input   textinput.Model
	paste   *PasteHelper
	panes   map[string]*EditorPane
	pane    *EditorPane
	plain   bool // pane edits a plain text area
	upload  *uploadDialog
	dialog  *ConfirmationModel
	notices []settings.Notice
	status  *StatusManager

	form        viewport.Model
	preview     viewport.Model
	showPreview bool

	lastStatus string
	width      int
	height     int
}

// NewApp opens course in the editor. opts.EditorFactory is replaced by the
// terminal editor pane.
func NewApp(course *models.Course, opts settings.Options) (*App, error) {
	a := &App{
		title:   course.ID,
		panes:   make(map[string]*EditorPane),
		dialog:  NewConfirmation(),
		status:  NewStatusManager(),
		input:   textinput.New(),
		paste:   NewPasteHelper(),
		form:    viewport.New(80, 20),
		preview: viewport.New(40, 20),
	}
	a.input.CharLimit = 0
	a.input.Width = 50

	opts.EditorFactory = a.newPane
	view, err := settings.New(course, opts)
	if err != nil {
		return nil, err
	}
	a.view = view
	a.notices = view.Notices()
	a.refresh()
	a.focus = a.nextFocusable(-1, 1)
	return a, nil
}

func (a *App) newPane(control string) editor.Editor {
	p := NewEditorPane(control)
	a.panes[control] = p
	return p
}

// SettingsView returns the settings view driven by the app
func (a *App) SettingsView() *settings.View {
	return a.view
}

func (a *App) Init() tea.Cmd {
	return nil
}

func (a *App) showNextNotice() {
	if len(a.notices) == 0 || a.dialog.Active() {
		return
	}
	n := a.notices[0]
	a.notices = a.notices[1:]
	a.dialog.ShowNotice(n.Title, n.Message, min(a.width-4, 60))
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetSize(msg.Width, msg.Height)
		return a, nil

	case ClearStatusMsg:
		a.status.Clear(msg)
		return a, nil

	case settings.UploadRequestMsg:
		a.upload = newUploadDialog(msg)
		a.mode = modeUpload
		return a, a.upload.Init()

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		if a.dialog.Active() {
			cmd := a.dialog.Update(msg)
			a.showNextNotice()
			return a, cmd
		}
		return a, a.handleKey(msg)
	}

	cmd, handled := a.view.Update(msg)
	if handled {
		return a, tea.Batch(cmd, a.afterAction())
	}
	if a.mode == modeUpload && a.upload != nil {
		return a, a.updateUpload(msg)
	}
	return a, cmd
}

// afterAction rebuilds the form and reports a new status line
func (a *App) afterAction() tea.Cmd {
	a.refresh()
	status, failed := a.view.Status()
	if status == "" || status == a.lastStatus {
		return nil
	}
	a.lastStatus = status
	if failed {
		return a.status.ShowError(status)
	}
	return a.status.ShowSuccess(status)
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch a.mode {
	case modeInput:
		return a.updateInput(msg)
	case modePane:
		return a.updatePane(msg)
	case modeUpload:
		return a.updateUpload(msg)
	}

	switch msg.String() {
	case "up", "k", "shift+tab":
		a.focus = a.nextFocusable(a.focus, -1)
	case "down", "j", "tab":
		a.focus = a.nextFocusable(a.focus, 1)
	case "pgup", "pgdown":
		var cmd tea.Cmd
		a.form, cmd = a.form.Update(msg)
		return cmd
	case "enter":
		return a.activate()
	case " ":
		return a.toggle()
	case "ctrl+s", Shortcuts.Save.Get():
		return tea.Batch(a.view.Click(settings.ButtonSave), a.afterAction())
	case Shortcuts.Revert.Get():
		a.confirmRevert()
	case Shortcuts.Compose.Get():
		return tea.Batch(a.view.Click(settings.ButtonComposeOverview), a.afterAction())
	case Shortcuts.Preview.Get():
		a.showPreview = !a.showPreview
		a.SetSize(a.width, a.height)
	case Shortcuts.Copy.Get():
		return a.copyOverview()
	case "esc", "q":
		return a.quit()
	}
	a.refresh()
	return nil
}

func (a *App) current() (formRow, bool) {
	if a.focus < 0 || a.focus >= len(a.rows) {
		return formRow{}, false
	}
	return a.rows[a.focus], true
}

// activate starts editing the focused row or presses its button
func (a *App) activate() tea.Cmd {
	row, ok := a.current()
	if !ok {
		return nil
	}
	doc := a.view.Document()

	switch row.Input {
	case settings.InputButton:
		return tea.Batch(a.view.Click(row.Control), a.afterAction())

	case settings.InputCheckbox, settings.InputRadio:
		return a.toggle()

	case settings.InputRichText:
		ed, err := a.view.Focus(row.Control)
		if err != nil {
			return a.status.ShowError(err.Error())
		}
		pane, ok := ed.(*EditorPane)
		if !ok {
			return nil
		}
		return a.openPane(pane, false)

	case settings.InputTextArea:
		pane, ok := a.panes[row.Control]
		if !ok {
			pane = NewEditorPane(row.Control)
			a.panes[row.Control] = pane
		}
		pane.area.SetValue(doc.Value(row.Control))
		return a.openPane(pane, true)
	}

	if el, ok := doc.Element(row.Control); ok && el.Disabled {
		return nil
	}
	a.input.SetValue(doc.Value(row.Control))
	a.input.CursorEnd()
	a.mode = modeInput
	return a.input.Focus()
}

func (a *App) openPane(p *EditorPane, plain bool) tea.Cmd {
	a.pane = p
	a.plain = plain
	a.mode = modePane
	p.SetSize(max(a.form.Width-4, 20), max(a.height-12, 5))
	return p.Focus()
}

func (a *App) toggle() tea.Cmd {
	row, ok := a.current()
	if !ok || (row.Input != settings.InputCheckbox && row.Input != settings.InputRadio) {
		return nil
	}
	checked := a.view.Document().Checked(row.Control)
	next := !checked
	if row.Input == settings.InputRadio {
		next = true
	}
	return tea.Batch(a.view.Input(row.Control, strconv.FormatBool(next)), a.afterAction())
}

// updateInput syncs the field on every keystroke
func (a *App) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter", "esc", "tab":
		a.input.Blur()
		a.mode = modeBrowse
		a.refresh()
		return nil
	}

	row, _ := a.current()
	before := a.input.Value()
	var cmd tea.Cmd
	if msg.Paste {
		a.input.SetValue(before + a.paste.CleanSingleLine(string(msg.Runes)))
		a.input.CursorEnd()
	} else {
		a.input, cmd = a.input.Update(msg)
	}
	if a.input.Value() == before {
		return cmd
	}
	return tea.Batch(cmd, a.view.Input(row.Control, a.input.Value()), a.afterAction())
}

func (a *App) updatePane(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "esc" {
		a.pane.Blur()
		a.pane = nil
		a.mode = modeBrowse
		a.refresh()
		return nil
	}

	cmd, changed := a.pane.Update(msg)
	if !changed {
		return cmd
	}
	// Rich text panes commit through the editor manager
	if a.plain {
		cmd = tea.Batch(cmd, a.view.Input(a.pane.Control, a.pane.Content()))
	}
	return tea.Batch(cmd, a.afterAction())
}

func (a *App) updateUpload(msg tea.Msg) tea.Cmd {
	cmd, path, done := a.upload.Update(msg)
	if !done {
		return cmd
	}
	target := a.upload.request.Target
	a.upload = nil
	a.mode = modeBrowse
	if path == "" {
		return cmd
	}
	return tea.Batch(cmd, a.view.Upload(target, path))
}

func (a *App) confirmRevert() {
	if !a.view.Course().Dirty() {
		return
	}
	a.dialog.Show(DialogConfig{
		Title:       "REVERT CHANGES",
		Message:     "Discard your changes and reload the saved settings?",
		Destructive: true,
		Width:       min(a.width-4, 60),
	}, func() tea.Cmd {
		return tea.Batch(a.view.Click(settings.ButtonRevert), a.afterAction())
	}, nil)
}

func (a *App) quit() tea.Cmd {
	if !a.view.Course().Dirty() {
		return tea.Quit
	}
	a.dialog.Show(DialogConfig{
		Title:       "EXIT CONFIRMATION",
		Message:     "You have unsaved changes in this course.",
		Warning:     "Are you sure you want to exit?",
		Destructive: true,
		Width:       min(a.width-4, 60),
	}, func() tea.Cmd { return tea.Quit }, nil)
	return nil
}

func (a *App) copyOverview() tea.Cmd {
	overview := a.view.Course().String(models.AttrOverview)
	if overview == "" {
		return a.status.ShowWarning("The course overview is empty")
	}
	if err := clipboard.WriteAll(overview); err != nil {
		return a.status.ShowError(fmt.Sprintf("Failed to copy: %v", err))
	}
	return a.status.ShowSuccess("Copied course overview to clipboard")
}

// nextFocusable returns the next focusable row from i in direction dir,
// wrapping around
func (a *App) nextFocusable(i, dir int) int {
	n := len(a.rows)
	if n == 0 {
		return 0
	}
	for step := 1; step <= n; step++ {
		j := ((i+dir*step)%n + n) % n
		if a.rows[j].focusable() {
			return j
		}
	}
	return i
}

// refresh rebuilds the rows from the document, keeping focus on the same control
func (a *App) refresh() {
	var focused string
	if row, ok := a.current(); ok {
		focused = row.Control
	}
	a.rows = buildRows(a.view.Document(), a.view.Layout())

	a.focus = a.nextFocusable(-1, 1)
	for i, row := range a.rows {
		if focused != "" && row.Control == focused {
			a.focus = i
			break
		}
	}
	a.updateFormContent()
	a.updatePreviewContent()
}

// SetSize resizes the panes
func (a *App) SetSize(width, height int) {
	a.width = width
	a.height = height
	formWidth := width - 6
	if a.showPreview {
		formWidth = width/2 - 4
		a.preview.Width = width - formWidth - 10
		a.preview.Height = max(height-10, 3)
	}
	a.form.Width = max(formWidth, 20)
	a.form.Height = max(height-10-ViewTitleHeight(), 3)
	a.refresh()
	a.showNextNotice()
}

func (a *App) updateFormContent() {
	doc := a.view.Document()
	gate := a.view.Gate()
	fields := a.view.Fields()
	valueWidth := a.form.Width - lipgloss.Width(LabelStyle.Render("")) - 4

	var b strings.Builder
	focusLine := 0
	line := 0
	for i, row := range a.rows {
		if row.Heading != "" {
			if i > 0 {
				b.WriteString("\n")
				line++
			}
			b.WriteString(SectionStyle.Render(strings.ToUpper(row.Heading)))
			b.WriteString("\n")
			line++
			continue
		}

		value := renderValue(doc, row, valueWidth)
		if i == a.focus && a.mode == modeInput {
			value = a.input.View()
		}
		text := LabelStyle.Render(row.Label) + " " + value
		if i == a.focus {
			focusLine = line
			b.WriteString(SelectedStyle.Render("▸ ") + text)
		} else {
			b.WriteString("  " + text)
		}
		b.WriteString("\n")
		line++

		if field, ok := fields.Field(row.Control); ok {
			if msg, failed := gate.ErrorFor(field); failed {
				b.WriteString("    " + ErrorStyle.Render(msg) + "\n")
				line++
			}
		}
		if i == a.focus && row.Help != "" {
			b.WriteString("    " + CommentStyle.Render(row.Help) + "\n")
			line++
		}
	}

	a.form.SetContent(b.String())
	if focusLine < a.form.YOffset {
		a.form.SetYOffset(focusLine)
	} else if focusLine >= a.form.YOffset+a.form.Height {
		a.form.SetYOffset(focusLine - a.form.Height + 1)
	}
}

func (a *App) updatePreviewContent() {
	if !a.showPreview {
		return
	}
	overview := a.view.Course().String(models.AttrOverview)
	if overview == "" {
		a.preview.SetContent(PlaceholderStyle.Render("No overview yet. Press o to compose one."))
		return
	}
	md, err := composer.ToMarkdown(overview)
	if err != nil {
		a.preview.SetContent(ErrorStyle.Render(err.Error()))
		return
	}
	a.preview.SetContent(wordwrap.String(md, a.preview.Width))
}

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	if a.dialog.Active() {
		return ContentPaddingStyle.Render(a.dialog.View())
	}

	var s strings.Builder
	s.WriteString(renderHeader(a.width, a.title))
	s.WriteString("\n")
	title := NewViewTitle(a.view.Course().String(models.AttrTitle))
	s.WriteString(title.ViewWithAlignment(a.width))
	s.WriteString("\n")
	if banner := a.bannerLine(); banner != "" {
		s.WriteString(ContentPaddingStyle.Render(banner))
		s.WriteString("\n")
	}

	var body string
	switch {
	case a.mode == modeUpload && a.upload != nil:
		body = a.upload.View(a.width)
	case a.mode == modePane && a.pane != nil:
		label := a.pane.Control
		if row, ok := a.current(); ok {
			label = row.Label
		}
		content := renderPaneHeading(strings.ToUpper(label), a.form.Width, true) + "\n\n" + a.pane.View()
		body = ActiveBorderStyle.Width(a.width - 4).Render(content)
	default:
		form := ActiveBorderStyle.Render(
			renderPaneHeading("COURSE SETTINGS", a.form.Width, true) + "\n\n" + a.form.View())
		if a.showPreview {
			preview := InactiveBorderStyle.Render(
				renderPaneHeading("OVERVIEW PREVIEW", a.preview.Width, false) + "\n\n" + a.preview.View())
			form = lipgloss.JoinHorizontal(lipgloss.Top, form, " ", preview)
		}
		body = form
	}
	s.WriteString(ContentPaddingStyle.Render(body))
	s.WriteString("\n")

	if status, kind, ok := a.status.GetStatus(); ok {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess))
		if kind == StatusTypeError {
			style = ErrorStyle
		} else if kind == StatusTypeWarning {
			style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning))
		}
		s.WriteString(ContentPaddingStyle.Render(style.Render(wordwrap.String(status, a.width-4))))
		s.WriteString("\n")
	}

	s.WriteString(ContentPaddingStyle.Render(HelpBorderStyle.Width(a.width - 4).Padding(0, 1).Render(a.helpText())))
	return s.String()
}

// bannerLine renders the unsaved changes banner
func (a *App) bannerLine() string {
	banner := a.view.Banner()
	if !banner.Visible() {
		return ""
	}
	text := notify.Title + ". " + notify.SaveMessage
	if banner.Busy() {
		text = "Saving your changes…"
	}
	return BannerStyle.Width(a.width - 4).Render(wordwrap.String(text, a.width-6))
}

func (a *App) helpText() string {
	var help []string
	switch a.mode {
	case modeInput:
		help = []string{"type to edit", "enter/esc done"}
	case modePane:
		help = []string{"type to edit", "esc done"}
	case modeUpload:
		return ""
	default:
		help = []string{
			"↑↓ navigate", "enter edit", "space toggle",
			Shortcuts.Compose.Get() + " overview",
			Shortcuts.Preview.Get() + " preview",
			Shortcuts.Copy.Get() + " copy",
			GetShortcutHelp("save", Shortcuts.Save),
			FormatShortcutForHelp(Shortcuts.Revert) + " revert",
			"esc quit",
		}
	}
	return formatHelpText(help)
}

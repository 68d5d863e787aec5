package tui

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// EditorPane is a multi-line editor for one control. It satisfies
// editor.Editor so rich text controls can be driven by the editor manager.
type EditorPane struct {
	Control string

	area     textarea.Model
	paste    *PasteHelper
	onSet    []func()
	onChange []func()
}

// NewEditorPane creates a pane for control
func NewEditorPane(control string) *EditorPane {
	ta := textarea.New()
	ta.ShowLineNumbers = true
	ta.Prompt = "  "
	ta.CharLimit = 0
	ta.SetWidth(80)
	ta.SetHeight(12)
	return &EditorPane{Control: control, area: ta, paste: NewPasteHelper()}
}

// SetContent replaces the whole content
func (p *EditorPane) SetContent(content string) {
	p.area.SetValue(content)
	for _, fn := range p.onSet {
		fn()
	}
}

func (p *EditorPane) Content() string {
	return p.area.Value()
}

func (p *EditorPane) OnSetContent(fn func()) {
	p.onSet = append(p.onSet, fn)
}

func (p *EditorPane) OnChange(fn func()) {
	p.onChange = append(p.onChange, fn)
}

// Focus starts editing
func (p *EditorPane) Focus() tea.Cmd {
	return p.area.Focus()
}

func (p *EditorPane) Blur() {
	p.area.Blur()
}

func (p *EditorPane) Focused() bool {
	return p.area.Focused()
}

func (p *EditorPane) SetSize(width, height int) {
	p.area.SetWidth(width)
	p.area.SetHeight(height)
}

// Update forwards msg to the textarea and reports whether the content
// changed. Pasted text is cleaned first.
func (p *EditorPane) Update(msg tea.Msg) (tea.Cmd, bool) {
	before := p.area.Value()
	var cmd tea.Cmd
	if key, ok := msg.(tea.KeyMsg); ok && key.Paste {
		p.area.InsertString(p.paste.CleanPastedContent(string(key.Runes)))
	} else {
		p.area, cmd = p.area.Update(msg)
	}
	if p.area.Value() == before {
		return cmd, false
	}
	for _, fn := range p.onChange {
		fn()
	}
	return cmd, true
}

func (p *EditorPane) View() string {
	return p.area.View()
}

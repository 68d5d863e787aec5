package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pluqqy/coursekit/pkg/settings"
)

// uploadDialog asks for the file of an upload request. The path can be
// typed or picked from the file browser.
type uploadDialog struct {
	request  settings.UploadRequestMsg
	input    textinput.Model
	picker   filepicker.Model
	browsing bool
}

var mimeExtensions = map[string][]string{
	"image/jpeg": {".jpg", ".jpeg"},
	"image/png":  {".png"},
}

func newUploadDialog(req settings.UploadRequestMsg) *uploadDialog {
	ti := textinput.New()
	ti.Placeholder = "path/to/image.png"
	ti.CharLimit = 1024
	ti.Width = 50

	fp := filepicker.New()
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.AutoHeight = false
	fp.Height = 12
	if dir, err := os.Getwd(); err == nil {
		fp.CurrentDirectory = dir
	}
	for _, mt := range req.MimeTypes {
		fp.AllowedTypes = append(fp.AllowedTypes, mimeExtensions[mt]...)
	}

	return &uploadDialog{request: req, input: ti, picker: fp}
}

func (d *uploadDialog) Init() tea.Cmd {
	return d.input.Focus()
}

// Update returns the chosen path once the user confirms a file, and
// whether the dialog should close
func (d *uploadDialog) Update(msg tea.Msg) (cmd tea.Cmd, path string, done bool) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			if d.browsing {
				d.browsing = false
				return d.input.Focus(), "", false
			}
			return nil, "", true
		case "tab":
			d.browsing = !d.browsing
			if d.browsing {
				d.input.Blur()
				return d.picker.Init(), "", false
			}
			return d.input.Focus(), "", false
		case "enter":
			if !d.browsing {
				p := strings.TrimSpace(d.input.Value())
				return nil, p, p != ""
			}
		}
	}

	if d.browsing {
		d.picker, cmd = d.picker.Update(msg)
		if selected, p := d.picker.DidSelectFile(msg); selected {
			return cmd, p, true
		}
		return cmd, "", false
	}
	d.input, cmd = d.input.Update(msg)
	return cmd, "", false
}

func (d *uploadDialog) View(width int) string {
	var b strings.Builder
	b.WriteString(SectionStyle.Render(d.request.Title))
	b.WriteString("\n\n")
	b.WriteString(DescriptionStyle.Render(d.request.Message))
	b.WriteString("\n\n")
	if d.browsing {
		b.WriteString(DescriptionStyle.Render(d.picker.CurrentDirectory))
		b.WriteString("\n")
		b.WriteString(d.picker.View())
		b.WriteString("\n")
		b.WriteString(formatHelpText([]string{"enter select", "esc back to path", "tab type path"}))
	} else {
		b.WriteString("File: " + d.input.View())
		b.WriteString("\n\n")
		b.WriteString(formatHelpText([]string{"enter upload", "tab browse", "esc cancel"}))
	}
	return ActiveBorderStyle.
		Width(max(width-4, 20)).
		Padding(1, 1).
		Render(b.String())
}

package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/truncate"

	"github.com/pluqqy/coursekit/pkg/fieldsync"
	"github.com/pluqqy/coursekit/pkg/settings"
	"github.com/pluqqy/coursekit/pkg/surface"
)

// formRow is one drawn line of the settings form
type formRow struct {
	Heading string // set for section headings
	Label   string
	Control string
	Input   settings.InputType
	Help    string
}

func (r formRow) focusable() bool {
	if r.Heading != "" {
		return false
	}
	switch r.Input {
	case settings.InputNote, settings.InputReadOnly:
		return false
	}
	return true
}

// buildRows flattens the layout against the current document. Hidden
// controls are skipped and list rows expand to one row per entry, with the
// sub-fields of one entry kept together.
func buildRows(doc *surface.Document, layout []settings.Section) []formRow {
	var rows []formRow
	for _, section := range layout {
		rows = append(rows, formRow{Heading: section.Title})

		for i := 0; i < len(section.Rows); i++ {
			row := section.Rows[i]
			if row.Input != settings.InputList {
				if visibleRow(doc, row) {
					rows = append(rows, formRow{Label: row.Label, Control: row.Control, Input: row.Input, Help: row.Help})
				}
				continue
			}

			group := []settings.Row{row}
			for i+1 < len(section.Rows) && section.Rows[i+1].Input == settings.InputList {
				i++
				group = append(group, section.Rows[i])
			}
			rows = append(rows, expandList(doc, group)...)
		}
	}
	return rows
}

func visibleRow(doc *surface.Document, row settings.Row) bool {
	if row.Panel != "" {
		if el, ok := doc.Element(row.Panel); ok && el.Hidden {
			return false
		}
	}
	if row.Input == settings.InputNote {
		return doc.Text(row.Control) != ""
	}
	el, ok := doc.Element(row.Control)
	return !ok || !el.Hidden
}

func expandList(doc *surface.Document, group []settings.Row) []formRow {
	entries := len(settings.ListEntries(doc, group[0].Control))
	var rows []formRow
	for n := 0; n < entries; n++ {
		for _, row := range group {
			label := row.Label
			if len(group) == 1 {
				label = fmt.Sprintf("%s %d", row.Label, n+1)
			} else if row == group[0] {
				label = fmt.Sprintf("%s (#%d)", row.Label, n+1)
			}
			rows = append(rows, formRow{
				Label:   label,
				Control: fmt.Sprintf("%s%d", row.Control, n),
				Input:   settings.InputText,
			})
		}
	}
	return rows
}

// renderValue draws the current value of a row in at most width cells
func renderValue(doc *surface.Document, row formRow, width int) string {
	el, _ := doc.Element(row.Control)
	if el == nil {
		el = &surface.Element{}
	}

	switch row.Input {
	case settings.InputCheckbox, settings.InputRadio:
		box := "[ ]"
		if row.Input == settings.InputRadio {
			box = "( )"
		}
		if el.Checked {
			box = strings.Replace(box, " ", "✓", 1)
		}
		if el.Disabled {
			return DescriptionStyle.Render(box + " locked")
		}
		return box

	case settings.InputButton:
		return ButtonStyle.Render("[ " + row.Label + " ]")

	case settings.InputNote:
		return CommentStyle.Render(el.Text)

	case settings.InputReadOnly:
		return DescriptionStyle.Render(el.Value)

	case settings.InputTextArea, settings.InputRichText:
		if el.Value == "" {
			return PlaceholderStyle.Render("empty, press enter to edit")
		}
		first, _, more := strings.Cut(el.Value, "\n")
		if more {
			first += " …"
		}
		return truncate.StringWithTail(first, uint(max(width, 4)), "…")

	case settings.InputImage, settings.InputVideo:
		value := el.Value
		if value == "" {
			return PlaceholderStyle.Render("none")
		}
		value = truncate.StringWithTail(value, uint(max(width, 4)), "…")
		if src := previewSource(doc, row.Control); src != "" && src != el.Value {
			value += DescriptionStyle.Render("  preview: " + src)
		}
		return value
	}

	if el.Value == "" {
		if name := el.Attr("data-display-name"); name != "" {
			return PlaceholderStyle.Render(name)
		}
		return PlaceholderStyle.Render("—")
	}
	return truncate.StringWithTail(el.Value, uint(max(width, 4)), "…")
}

// previewSource returns the src shown by the preview bound to control
func previewSource(doc *surface.Document, control string) string {
	switch control {
	case fieldsync.ControlIntroVideo:
		return doc.Attr(fieldsync.ElementVideoPreview, "src")
	case fieldsync.ControlCourseImage:
		return doc.Attr(fieldsync.ElementCourseImage, "src")
	case fieldsync.ControlBannerImage:
		return doc.Attr(fieldsync.ElementBannerImage, "src")
	case fieldsync.ControlThumbnailImage:
		return doc.Attr(fieldsync.ElementThumbnailImage, "src")
	}
	return ""
}

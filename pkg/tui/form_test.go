package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pluqqy/coursekit/pkg/fieldsync"
	"github.com/pluqqy/coursekit/pkg/settings"
)

func rowLabels(rows []formRow) []string {
	var labels []string
	for _, row := range rows {
		if row.Heading == "" {
			labels = append(labels, row.Label)
		}
	}
	return labels
}

func TestBuildRowsExpandsLists(t *testing.T) {
	a, _ := newTestApp(t, settings.Options{})

	for _, label := range rowLabels(a.rows) {
		if strings.HasPrefix(label, "Name (#") || strings.HasPrefix(label, "Learning Outcome ") {
			t.Fatalf("unexpected list row %q before any entry exists", label)
		}
	}

	a.SettingsView().Click(settings.ButtonAddLearningInfo)
	a.SettingsView().Click(settings.ButtonAddInstructor)
	a.refresh()

	labels := strings.Join(rowLabels(a.rows), "|")
	for _, want := range []string{"Learning Outcome 1", "Name (#1)|Title|Organization|Biography|Photo"} {
		if !strings.Contains(labels, want) {
			t.Errorf("rows %q missing %q", labels, want)
		}
	}

	for _, row := range a.rows {
		if row.Label == "Learning Outcome 1" && row.Control != fieldsync.PrefixLearningInfo+"0" {
			t.Errorf("learning outcome control = %q", row.Control)
		}
	}
}

func TestFormRowFocusable(t *testing.T) {
	tests := []struct {
		row  formRow
		want bool
	}{
		{formRow{Heading: "Course Schedule"}, false},
		{formRow{Label: "Organization", Input: settings.InputReadOnly}, false},
		{formRow{Input: settings.InputNote}, false},
		{formRow{Label: "Course Title", Input: settings.InputText}, true},
		{formRow{Label: "Generate Overview", Input: settings.InputButton}, true},
	}
	for _, tt := range tests {
		if got := tt.row.focusable(); got != tt.want {
			t.Errorf("%+v focusable = %v, want %v", tt.row, got, tt.want)
		}
	}
}

func TestRenderValue(t *testing.T) {
	a, _ := newTestApp(t, settings.Options{})
	doc := a.SettingsView().Document()

	if got := renderValue(doc, formRow{Control: fieldsync.ControlTitle, Input: settings.InputText}, 40); got != "Intro to Go" {
		t.Errorf("text value = %q", got)
	}
	if got := renderValue(doc, formRow{Control: fieldsync.ControlTitle, Input: settings.InputText}, 8); !strings.HasSuffix(got, "…") {
		t.Errorf("long value should be truncated, got %q", got)
	}

	box := renderValue(doc, formRow{Control: fieldsync.ControlEntranceExam, Input: settings.InputCheckbox}, 40)
	if !strings.Contains(box, "[ ]") {
		t.Errorf("unchecked box = %q", box)
	}
	a.SettingsView().Input(fieldsync.ControlEntranceExam, "true")
	box = renderValue(doc, formRow{Control: fieldsync.ControlEntranceExam, Input: settings.InputCheckbox}, 40)
	if !strings.Contains(box, "[✓]") {
		t.Errorf("checked box = %q", box)
	}
}

func TestConfirmationDialog(t *testing.T) {
	var confirmed, cancelled int
	m := NewConfirmation()
	show := func() {
		m.Show(DialogConfig{Title: "REVERT CHANGES", Message: "Discard?", Destructive: true},
			func() tea.Cmd { confirmed++; return nil },
			func() tea.Cmd { cancelled++; return nil })
	}

	show()
	if !strings.Contains(m.View(), "REVERT CHANGES") {
		t.Errorf("view missing title")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if !m.Active() {
		t.Fatalf("unrelated keys should keep the dialog open")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	if m.Active() || confirmed != 1 {
		t.Errorf("y should confirm: active=%v confirmed=%d", m.Active(), confirmed)
	}

	show()
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.Active() || cancelled != 1 {
		t.Errorf("esc should cancel: active=%v cancelled=%d", m.Active(), cancelled)
	}
	if m.View() != "" {
		t.Errorf("closed dialog should render nothing")
	}
}

func TestStatusManager(t *testing.T) {
	sm := NewStatusManager()
	sm.DefaultDuration = time.Millisecond

	if _, _, ok := sm.GetStatus(); ok {
		t.Fatalf("new manager should have no status")
	}

	cmd := sm.ShowSuccess("Saved")
	if cmd == nil {
		t.Fatalf("success should schedule a clear")
	}
	text, kind, ok := sm.GetStatus()
	if !ok || kind != StatusTypeSuccess || !strings.Contains(text, "Saved") {
		t.Errorf("status = %q %v %v", text, kind, ok)
	}

	// A stale clear must not remove a newer message
	stale := cmd().(ClearStatusMsg)
	if sm.ShowError("Save failed") != nil {
		t.Errorf("errors should stay until replaced")
	}
	sm.Clear(stale)
	if text, _, _ := sm.GetStatus(); !strings.Contains(text, "Save failed") {
		t.Errorf("stale clear removed the error: %q", text)
	}

	clear := sm.ShowInfo("Composing")().(ClearStatusMsg)
	sm.Clear(clear)
	if _, _, ok := sm.GetStatus(); ok {
		t.Errorf("matching clear should remove the status")
	}
}

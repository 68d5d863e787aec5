// Package editor attaches rich editors to settings controls on first focus
// and feeds their content back into the course through a validating commit.
package editor

import (
	"errors"
	"fmt"

	"github.com/pluqqy/coursekit/internal/logger"
	"github.com/pluqqy/coursekit/pkg/models"
	"github.com/pluqqy/coursekit/pkg/surface"
)

var ErrUnmappedControl = errors.New("control is not bound to a field")

// Editor is a rich text editor instance bound to one control
type Editor interface {
	SetContent(content string)
	Content() string
	// OnSetContent subscribes to whole-content replacement
	OnSetContent(fn func())
	// OnChange subscribes to edits made inside the editor
	OnChange(fn func())
}

// Factory builds an editor for controlID
type Factory func(controlID string) Editor

// FieldResolver maps a control to its field
type FieldResolver interface {
	Field(control string) (string, bool)
}

// Committer writes a value and validates it
type Committer interface {
	Commit(attr string, value interface{}) bool
}

type attachment struct {
	field  string
	editor Editor
}

// Manager owns the editor registry of one settings view.
// Editors are created lazily and live as long as the manager.
type Manager struct {
	doc     *surface.Document
	course  *models.Course
	fields  FieldResolver
	commit  Committer
	factory Factory
	log     *logger.Logger

	editors map[string]*attachment
}

// NewManager creates a manager. A nil factory builds headless buffers.
func NewManager(doc *surface.Document, course *models.Course, fields FieldResolver, commit Committer, factory Factory, log *logger.Logger) *Manager {
	if factory == nil {
		factory = func(string) Editor { return NewBuffer() }
	}
	return &Manager{
		doc:     doc,
		course:  course,
		fields:  fields,
		commit:  commit,
		factory: factory,
		log:     logger.OrNop(log),
		editors: make(map[string]*attachment),
	}
}

// Attach returns the editor for controlID, creating it on first use.
// A new editor is seeded from the control and wired to push its content
// into the course whenever it differs from the stored value.
func (m *Manager) Attach(controlID string) (Editor, error) {
	if a, ok := m.editors[controlID]; ok {
		return a.editor, nil
	}
	field, ok := m.fields.Field(controlID)
	if !ok {
		return nil, fmt.Errorf("attach %s: %w", controlID, ErrUnmappedControl)
	}

	ed := m.factory(controlID)
	a := &attachment{field: field, editor: ed}
	m.editors[controlID] = a

	ed.SetContent(m.doc.Value(controlID))
	push := func() { m.push(controlID, a) }
	ed.OnSetContent(push)
	ed.OnChange(push)

	m.log.Debug("editor attached", "control", controlID, "field", field)
	return ed, nil
}

func (m *Manager) push(controlID string, a *attachment) {
	content := a.editor.Content()
	if content == m.course.String(a.field) {
		return
	}
	m.doc.SetValue(controlID, content)
	if !m.commit.Commit(a.field, content) {
		m.log.Debug("editor content failed validation", "field", a.field)
	}
}

// Editor returns the attached editor for controlID
func (m *Manager) Editor(controlID string) (Editor, bool) {
	a, ok := m.editors[controlID]
	if !ok {
		return nil, false
	}
	return a.editor, true
}

// Attached reports whether controlID has an editor
func (m *Manager) Attached(controlID string) bool {
	_, ok := m.editors[controlID]
	return ok
}

// Reseed replaces the content of every attached editor with the stored value
func (m *Manager) Reseed() {
	for _, a := range m.editors {
		a.editor.SetContent(m.course.String(a.field))
	}
}

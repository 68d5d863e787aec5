// Package composer builds the course overview from the catalogue fields and
// the directory profiles of the referenced staff. Every composition gets an
// invocation id; lookup results from older invocations are discarded.
package composer

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pluqqy/coursekit/internal/logger"
	"github.com/pluqqy/coursekit/pkg/directory"
	"github.com/pluqqy/coursekit/pkg/editor"
	"github.com/pluqqy/coursekit/pkg/models"
)

const DefaultLookupTimeout = 10 * time.Second

// EditorSource hands out the editor the overview is written into
type EditorSource interface {
	Attach(controlID string) (editor.Editor, error)
}

// LookupMsg is the outcome of one directory lookup
type LookupMsg struct {
	Invocation uint64
	Slot       int
	Role       Role
	Name       string
	Profile    directory.Profile
	Err        error
}

// Options configures a Composer
type Options struct {
	Control string
	Timeout time.Duration
	Logger  *logger.Logger
}

// Composer runs overview compositions. It must only be used from the UI loop.
type Composer struct {
	course  *models.Course
	lookup  directory.Lookup
	editors EditorSource
	control string
	timeout time.Duration
	log     *logger.Logger

	invocation uint64
	draft      *Draft
}

func New(course *models.Course, lookup directory.Lookup, editors EditorSource, opts Options) *Composer {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultLookupTimeout
	}
	return &Composer{
		course:  course,
		lookup:  lookup,
		editors: editors,
		control: opts.Control,
		timeout: opts.Timeout,
		log:     logger.OrNop(opts.Logger),
	}
}

// Compose starts a new composition. Malformed lists abort before the editor
// is touched. Without instructors the static document is written right away;
// the returned command performs one lookup per referenced person.
func (c *Composer) Compose() (tea.Cmd, error) {
	sources, err := ParseSources(c.course)
	if err != nil {
		c.log.Warn("overview aborted", "error", err)
		return nil, err
	}

	c.invocation++
	d := newDraft(c.invocation, sources)
	c.draft = d
	c.log.Info("composing overview", "invocation", d.Invocation,
		"instructors", len(sources.Instructors), "designers", len(sources.Designers))

	if len(sources.Instructors) == 0 {
		if err := c.push(d); err != nil {
			return nil, err
		}
	}
	if !sources.HasStaff() {
		return nil, nil
	}

	cmds := make([]tea.Cmd, 0, len(d.slots))
	for i, s := range d.slots {
		cmds = append(cmds, c.lookupCmd(d.Invocation, i, s.Role, s.Name))
	}
	return tea.Batch(cmds...), nil
}

func (c *Composer) lookupCmd(invocation uint64, slot int, role Role, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		p, err := c.lookup.Lookup(ctx, name)
		return LookupMsg{Invocation: invocation, Slot: slot, Role: role, Name: name, Profile: p, Err: err}
	}
}

// Update applies a lookup result. It reports whether msg belonged to the
// composer and returns an error only when the editor could not be written.
func (c *Composer) Update(msg tea.Msg) (bool, error) {
	m, ok := msg.(LookupMsg)
	if !ok {
		return false, nil
	}
	d := c.draft
	if d == nil || m.Invocation != d.Invocation {
		c.log.Debug("dropping stale lookup", "name", m.Name, "invocation", m.Invocation, "current", c.invocation)
		return true, nil
	}
	if m.Slot < 0 || m.Slot >= len(d.slots) {
		return true, nil
	}
	if m.Err != nil {
		c.log.Warn("directory lookup failed", "name", m.Name, "role", m.Role.String(), "error", m.Err)
		d.slots[m.Slot].Failed = true
		return true, nil
	}
	p := m.Profile
	d.slots[m.Slot].Profile = &p
	return true, c.push(d)
}

func (c *Composer) push(d *Draft) error {
	html, err := d.Render()
	if err != nil {
		return err
	}
	ed, err := c.editors.Attach(c.control)
	if err != nil {
		return fmt.Errorf("open overview editor: %w", err)
	}
	ed.SetContent(html)
	d.pushed = true
	return nil
}

// Draft returns the current composition, if any
func (c *Composer) Draft() *Draft {
	return c.draft
}

// Invocation returns the id of the current composition
func (c *Composer) Invocation() uint64 {
	return c.invocation
}

// IsMalformed reports whether err came from an unparseable list
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedList)
}

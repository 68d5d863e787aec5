// Package notify implements the save/revert banner shown while a course has
// unsaved or invalid changes.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pluqqy/coursekit/internal/logger"
	"github.com/pluqqy/coursekit/pkg/models"
)

const (
	Title       = "You've made some changes"
	SaveMessage = "Your changes will not take effect until you save your progress."

	DefaultTimeout = 30 * time.Second
)

var ErrInvalid = errors.New("course settings are invalid")

// Persistence fetches and stores course settings
type Persistence interface {
	Fetch(ctx context.Context, id string) (map[string]interface{}, error)
	Save(ctx context.Context, id string, values map[string]interface{}) error
}

// Validator is the part of the validation gate the banner needs
type Validator interface {
	Validate() bool
	Invalid() bool
	Reset()
	Err() error
}

// SavedMsg reports the end of a save
type SavedMsg struct {
	Revision uint64
	Err      error
}

// RevertedMsg carries the values fetched by a revert
type RevertedMsg struct {
	Values map[string]interface{}
	Err    error
}

// Banner is the single save/revert notification of a settings view
type Banner struct {
	course  *models.Course
	store   Persistence
	gate    Validator
	timeout time.Duration
	log     *logger.Logger

	visible bool
	busy    bool
	err     error
	shown   int

	onReverted func()
}

// Options configures a Banner
type Options struct {
	Timeout time.Duration
	Logger  *logger.Logger
	// OnReverted re-renders the view after a successful revert
	OnReverted func()
}

func NewBanner(course *models.Course, store Persistence, gate Validator, opts Options) *Banner {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Banner{
		course:     course,
		store:      store,
		gate:       gate,
		timeout:    opts.Timeout,
		log:        logger.OrNop(opts.Logger),
		onReverted: opts.OnReverted,
	}
}

// Sync shows the banner when the course is dirty or invalid and hides it otherwise
func (b *Banner) Sync() {
	if b.course.Dirty() || b.gate.Invalid() || b.err != nil {
		b.Show()
		return
	}
	b.visible = false
}

// Show makes the banner visible. Showing a visible banner does nothing.
func (b *Banner) Show() {
	if b.visible {
		return
	}
	b.visible = true
	b.shown++
}

func (b *Banner) Visible() bool { return b.visible }

// Busy reports whether a save or revert is in flight
func (b *Banner) Busy() bool { return b.busy }

// Err returns the last save, revert or validation failure
func (b *Banner) Err() error { return b.err }

// Shown counts how many times the banner went from hidden to visible
func (b *Banner) Shown() int { return b.shown }

// Save validates the course and, when valid, returns a command that stores
// a snapshot of it
func (b *Banner) Save() tea.Cmd {
	if !b.gate.Validate() {
		b.err = fmt.Errorf("%w: %v", ErrInvalid, b.gate.Err())
		b.Show()
		return nil
	}
	rev := b.course.Revision()
	values := b.course.Snapshot()
	id := b.course.ID
	b.busy = true
	b.log.Info("saving course", "course", id, "revision", rev)

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		defer cancel()
		err := b.store.Save(ctx, id, values)
		return SavedMsg{Revision: rev, Err: err}
	}
}

// Revert returns a command that fetches the stored course
func (b *Banner) Revert() tea.Cmd {
	id := b.course.ID
	b.busy = true
	b.log.Info("reverting course", "course", id)

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		defer cancel()
		values, err := b.store.Fetch(ctx, id)
		return RevertedMsg{Values: values, Err: err}
	}
}

// Update applies save and revert results. It reports whether msg was one of them.
func (b *Banner) Update(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case SavedMsg:
		b.busy = false
		if msg.Err != nil {
			b.log.Error("save failed", "course", b.course.ID, "error", msg.Err)
			b.err = fmt.Errorf("save failed: %w", msg.Err)
			b.Show()
			return true
		}
		b.err = nil
		if !b.course.MarkClean(msg.Revision) {
			b.log.Debug("course changed during save", "saved", msg.Revision, "current", b.course.Revision())
		}
		b.Sync()
		return true

	case RevertedMsg:
		b.busy = false
		if msg.Err != nil {
			b.log.Error("revert failed", "course", b.course.ID, "error", msg.Err)
			b.err = fmt.Errorf("revert failed: %w", msg.Err)
			b.Show()
			return true
		}
		b.err = nil
		b.course.Reset(msg.Values)
		b.gate.Reset()
		if b.onReverted != nil {
			b.onReverted()
		}
		b.Sync()
		return true
	}
	return false
}

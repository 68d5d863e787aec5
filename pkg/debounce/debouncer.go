// Package debounce collapses bursts of edits on a named channel into a
// single delayed effect. The newest schedule on a channel always wins.
package debounce

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FiredMsg is delivered when a scheduled delay elapses
type FiredMsg struct {
	Channel string
	seq     uint64
}

type pending struct {
	seq    uint64
	effect func()
}

// Debouncer tracks at most one pending effect per channel.
// It must only be used from the Bubble Tea update loop.
type Debouncer struct {
	seq     uint64
	pending map[string]pending
}

// New creates a debouncer
func New() *Debouncer {
	return &Debouncer{pending: make(map[string]pending)}
}

// Schedule replaces any pending effect on channel and returns the tick that
// will fire it after delay
func (d *Debouncer) Schedule(channel string, delay time.Duration, effect func()) tea.Cmd {
	d.seq++
	seq := d.seq
	d.pending[channel] = pending{seq: seq, effect: effect}
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return FiredMsg{Channel: channel, seq: seq}
	})
}

// Handle runs the effect for msg if it is still the newest one on its
// channel. Superseded and cancelled ticks return false.
func (d *Debouncer) Handle(msg FiredMsg) bool {
	p, ok := d.pending[msg.Channel]
	if !ok || p.seq != msg.seq {
		return false
	}
	delete(d.pending, msg.Channel)
	p.effect()
	return true
}

// Pending reports whether channel has an effect waiting
func (d *Debouncer) Pending(channel string) bool {
	_, ok := d.pending[channel]
	return ok
}

// Cancel drops the pending effect on channel
func (d *Debouncer) Cancel(channel string) {
	delete(d.pending, channel)
}

// CancelPrefix drops every pending effect whose channel starts with prefix
func (d *Debouncer) CancelPrefix(prefix string) {
	for channel := range d.pending {
		if strings.HasPrefix(channel, prefix) {
			delete(d.pending, channel)
		}
	}
}

// CancelAll drops every pending effect
func (d *Debouncer) CancelAll() {
	d.pending = make(map[string]pending)
}

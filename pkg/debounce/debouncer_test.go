package debounce

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func fire(t *testing.T, cmd tea.Cmd) FiredMsg {
	t.Helper()
	msg, ok := cmd().(FiredMsg)
	if !ok {
		t.Fatalf("command did not produce a FiredMsg")
	}
	return msg
}

func TestLastEditWins(t *testing.T) {
	d := New()
	var got []string
	var cmds []tea.Cmd

	for _, v := range []string{"a", "ab", "abc"} {
		value := v
		cmds = append(cmds, d.Schedule("image", time.Millisecond, func() {
			got = append(got, value)
		}))
	}

	ran := 0
	for _, cmd := range cmds {
		if d.Handle(fire(t, cmd)) {
			ran++
		}
	}

	if ran != 1 {
		t.Fatalf("effect ran %d times, want 1", ran)
	}
	if len(got) != 1 || got[0] != "abc" {
		t.Errorf("effect saw %v, want [abc]", got)
	}
}

func TestChannelsAreIndependent(t *testing.T) {
	d := New()
	var got []string

	course := d.Schedule("image:course-image", time.Millisecond, func() { got = append(got, "course") })
	banner := d.Schedule("image:banner-image", time.Millisecond, func() { got = append(got, "banner") })

	d.Handle(fire(t, banner))
	d.Handle(fire(t, course))

	if len(got) != 2 {
		t.Fatalf("both channels should fire, got %v", got)
	}
}

func TestCancelAllDropsLateTicks(t *testing.T) {
	d := New()
	ran := false
	cmd := d.Schedule("video", time.Millisecond, func() { ran = true })

	if !d.Pending("video") {
		t.Fatalf("video channel should be pending")
	}
	d.CancelAll()

	if d.Handle(fire(t, cmd)) || ran {
		t.Errorf("cancelled effect must not run")
	}
}

func TestCancelSingleChannel(t *testing.T) {
	d := New()
	keep := false
	drop := false
	keepCmd := d.Schedule("keep", time.Millisecond, func() { keep = true })
	dropCmd := d.Schedule("drop", time.Millisecond, func() { drop = true })

	d.Cancel("drop")
	d.Handle(fire(t, keepCmd))
	d.Handle(fire(t, dropCmd))

	if !keep || drop {
		t.Errorf("keep=%v drop=%v, want true/false", keep, drop)
	}
}

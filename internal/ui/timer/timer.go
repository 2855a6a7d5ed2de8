// Package timer provides cancel-and-reschedule one-shot timers for the
// Bubble Tea update loop. Each timer is identified by an ID; scheduling it
// again bumps its tag so ticks from earlier schedules are ignored.
package timer

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FiredMsg is delivered when a scheduled timer elapses.
type FiredMsg struct {
	ID  string
	Tag int
}

// Timer is a restartable one-shot. The zero value is usable.
type Timer struct {
	ID    string
	Delay time.Duration

	tag int
}

// New returns a Timer with the given ID and delay.
func New(id string, delay time.Duration) Timer {
	return Timer{ID: id, Delay: delay}
}

// Schedule cancels any pending fire and starts a new one.
func (t Timer) Schedule() (Timer, tea.Cmd) {
	t.tag++
	id, tag := t.ID, t.tag
	if t.Delay <= 0 {
		return t, func() tea.Msg { return FiredMsg{ID: id, Tag: tag} }
	}
	return t, tea.Tick(t.Delay, func(time.Time) tea.Msg {
		return FiredMsg{ID: id, Tag: tag}
	})
}

// Cancel drops any pending fire.
func (t Timer) Cancel() Timer {
	t.tag++
	return t
}

// Fired reports whether msg is the current fire of this timer. Stale
// fires from superseded schedules return false.
func (t Timer) Fired(msg tea.Msg) bool {
	f, ok := msg.(FiredMsg)
	return ok && f.ID == t.ID && f.Tag == t.tag
}

// Tag returns the sequence number of the current schedule.
func (t Timer) Tag() int {
	return t.tag
}

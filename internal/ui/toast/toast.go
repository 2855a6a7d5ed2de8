// Package toast renders transient notifications that dismiss themselves.
package toast

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/healthmon/internal/model"
	"github.com/nhle/healthmon/internal/theme"
	"github.com/nhle/healthmon/internal/ui/timer"
)

// DefaultDuration is how long a toast stays visible.
const DefaultDuration = 3000 * time.Millisecond

// Model holds at most one visible notification. Showing a new one replaces
// the current one and restarts the dismiss timer.
type Model struct {
	current *model.Notification
	timer   timer.Timer
	width   int
}

// New creates a toast model that dismisses after d.
func New(d time.Duration) Model {
	if d <= 0 {
		d = DefaultDuration
	}
	return Model{timer: timer.New("toast", d)}
}

// Show displays n and schedules its dismissal.
func (m Model) Show(n model.Notification) (Model, tea.Cmd) {
	m.current = &n
	var cmd tea.Cmd
	m.timer, cmd = m.timer.Schedule()
	return m, cmd
}

// Success is a shorthand for a success notification.
func (m Model) Success(msg string) (Model, tea.Cmd) {
	return m.Show(model.Notification{Message: msg, Severity: model.SeveritySuccess})
}

// Error is a shorthand for an error notification.
func (m Model) Error(msg string) (Model, tea.Cmd) {
	return m.Show(model.Notification{Message: msg, Severity: model.SeverityError})
}

// Dismiss hides the current notification.
func (m Model) Dismiss() Model {
	m.current = nil
	m.timer = m.timer.Cancel()
	return m
}

// Current returns the visible notification, if any.
func (m Model) Current() (model.Notification, bool) {
	if m.current == nil {
		return model.Notification{}, false
	}
	return *m.current, true
}

// SetSize sets the available width.
func (m *Model) SetSize(width int) {
	m.width = width
}

// Update dismisses the toast when its timer fires.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.timer.Fired(msg) {
		m.current = nil
	}
	return m, nil
}

// View renders the notification, or "" when none is showing.
func (m Model) View() string {
	if m.current == nil {
		return ""
	}

	style := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Foreground(theme.ColorWhite)
	icon := "✓ "
	if m.current.Severity == model.SeverityError {
		style = style.Background(theme.ColorError)
		icon = "✗ "
	} else {
		style = style.Background(theme.ColorSuccess)
	}

	if m.width > 4 {
		style = style.MaxWidth(m.width)
	}
	return style.Render(icon + m.current.Message)
}

// Package inspect shows the raw JSON of a single account fetched by ID.
package inspect

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/healthmon/internal/account"
	"github.com/nhle/healthmon/internal/keys"
	"github.com/nhle/healthmon/internal/source"
	"github.com/nhle/healthmon/internal/theme"
)

// FetchFunc loads one account by ID.
type FetchFunc func(ctx context.Context, id string) (*source.AccountDetail, error)

// BackMsg signals the parent to navigate back to the accounts view.
type BackMsg struct{}

// LoadedMsg carries the result of a lookup.
type LoadedMsg struct {
	ID     string
	Detail *source.AccountDetail
	Err    error
}

type mode int

const (
	modePrompt mode = iota
	modeLoading
	modeResult
)

// Model is the inspector view: an ID prompt, then a scrollable JSON view.
type Model struct {
	mode     mode
	form     *huh.Form
	formID   *string
	id       string
	detail   *source.AccountDetail
	err      error
	spinner  spinner.Model
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a new inspector model.
func New(k *keys.KeyMap, width, height int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	vp := viewport.New(width, max(height-4, 1))
	vp.Style = lipgloss.NewStyle()

	return Model{
		spinner:  sp,
		viewport: vp,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// Prompt resets the view to ask for an account ID.
func (m Model) Prompt() (Model, tea.Cmd) {
	m.mode = modePrompt
	m.detail = nil
	m.err = nil
	m.formID = new(string)
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Account ID").
				Description("Fetch a single email account and show its raw record").
				Placeholder("12345").
				Value(m.formID).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("account ID is required")
					}
					return nil
				}),
		),
	).WithWidth(min(max(m.width-4, 40), 100))
	return m, m.form.Init()
}

// Lookup starts fetching id with fetch.
func (m Model) Lookup(id string, fetch FetchFunc) (Model, tea.Cmd) {
	m.mode = modeLoading
	m.id = strings.TrimSpace(id)
	m.form = nil
	m.detail = nil
	m.err = nil

	target := m.id
	load := func() tea.Msg {
		detail, err := fetch(context.Background(), target)
		return LoadedMsg{ID: target, Detail: detail, Err: err}
	}
	return m, tea.Batch(m.spinner.Tick, load)
}

// PendingID returns the ID submitted in the prompt, if the prompt just
// completed.
func (m Model) PendingID() (string, bool) {
	if m.mode != modePrompt || m.form == nil || m.form.State != huh.StateCompleted {
		return "", false
	}
	return strings.TrimSpace(*m.formID), true
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the inspector.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.ID != m.id {
			return m, nil
		}
		m.mode = modeResult
		m.detail = msg.Detail
		m.err = msg.Err
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoTop()
		return m, nil

	case spinner.TickMsg:
		if m.mode != modeLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.mode == modePrompt && m.form != nil {
		mdl, cmd := m.form.Update(msg)
		if f, ok := mdl.(*huh.Form); ok {
			m.form = f
		}
		if m.form.State == huh.StateAborted {
			m.form = nil
			return m, func() tea.Msg { return BackMsg{} }
		}
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Back) {
		return m, func() tea.Msg { return BackMsg{} }
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the inspector.
func (m Model) View() string {
	style := lipgloss.NewStyle().Padding(1, 2).Width(m.width)

	switch m.mode {
	case modePrompt:
		if m.form == nil {
			return ""
		}
		return style.Render(m.form.View())
	case modeLoading:
		return style.Render(fmt.Sprintf("%s Fetching account %s...", m.spinner.View(), m.id))
	}

	return m.viewport.View()
}

// renderContent builds the viewport content for a finished lookup.
func (m Model) renderContent() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)

	var b strings.Builder
	b.WriteString(title.Render("Account " + m.id))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(theme.ErrorTextStyle.Render("Lookup failed: " + m.err.Error()))
		b.WriteString("\n\n")
		b.WriteString(theme.HelpStyle.Render("esc back"))
		return b.String()
	}

	if m.detail != nil {
		if msg := account.ExtractError(m.detail.Record); msg != "" {
			b.WriteString(theme.ErrorTextStyle.Render(msg))
		} else {
			b.WriteString(theme.HealthyTextStyle.Render("No issues detected"))
		}
		b.WriteString("\n\n")
		b.WriteString(m.detail.JSON)
		b.WriteString("\n\n")
	}
	b.WriteString(theme.HelpStyle.Render("j/k scroll | esc back"))
	return b.String()
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(height-4, 1)
}

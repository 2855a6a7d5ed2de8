package settings

import (
	"fmt"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/healthmon/internal/theme"
)

// SavedMsg is sent when the user submits the settings form.
type SavedMsg struct {
	APIKey  string
	BaseURL string
}

// ClosedMsg is sent when the user dismisses the form without saving.
type ClosedMsg struct{}

// values holds the form fields huh binds to. It lives on the heap so the
// bindings survive Model being copied by value.
type values struct {
	apiKey  string
	baseURL string
}

// Model is the API key settings form.
type Model struct {
	form          *huh.Form
	values        *values
	notice        string
	width, height int
}

// New creates a settings view model.
func New(width, height int) Model {
	return Model{
		values: &values{},
		width:  width,
		height: height,
	}
}

// Open resets the form to the current settings. A non-empty notice is
// shown above the form, e.g. to explain why it opened.
func (m Model) Open(apiKey, baseURL, notice string) (Model, tea.Cmd) {
	m.values = &values{apiKey: apiKey, baseURL: baseURL}
	m.notice = notice
	m.form = m.buildForm()
	return m, m.form.Init()
}

func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Smartlead API Key").
				Description("Stored in your system keyring").
				EchoMode(huh.EchoModePassword).
				Value(&m.values.apiKey).
				Validate(validateRequired("API key")),
			huh.NewInput().
				Title("API Base URL").
				Description("Leave the default unless you use a proxy").
				Placeholder("https://server.smartlead.ai/api/v1").
				Value(&m.values.baseURL).
				Validate(validateURL),
		),
	).WithWidth(m.formWidth()).WithShowHelp(true)
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update forwards messages to the form and reports completion.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		saved := SavedMsg{
			APIKey:  strings.TrimSpace(m.values.apiKey),
			BaseURL: strings.TrimRight(strings.TrimSpace(m.values.baseURL), "/"),
		}
		m.form = nil
		return m, func() tea.Msg { return saved }
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return ClosedMsg{} }
	}

	return m, cmd
}

// View renders the form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		Render("Settings")

	parts := []string{title}
	if m.notice != "" {
		parts = append(parts, theme.ErrorTextStyle.Render(m.notice))
	}
	parts = append(parts, "", m.form.View())

	return lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(m.formWidth())
	}
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

// --- Validators ---

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateURL(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("URL is required")
	}
	parsed, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("URL must include scheme and host (e.g., https://example.com)")
	}
	return nil
}

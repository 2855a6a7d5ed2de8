// Package history lists past scans recorded in the history store.
package history

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/healthmon/internal/keys"
	"github.com/nhle/healthmon/internal/model"
	"github.com/nhle/healthmon/internal/store"
	"github.com/nhle/healthmon/internal/theme"
)

// listLimit caps how many scans are loaded.
const listLimit = 50

// BackMsg signals the parent to navigate back to the accounts view.
type BackMsg struct{}

// LoadedMsg carries the scans read from the store.
type LoadedMsg struct {
	Scans []model.ScanSummary
	Err   error
}

// IssuesLoadedMsg carries the erroring accounts of one scan.
type IssuesLoadedMsg struct {
	ScanID string
	Issues []model.Account
	Err    error
}

// Model is the scan history view. It shows a table of scans; enter opens
// the issues recorded for the selected scan.
type Model struct {
	store      store.Store
	keys       *keys.KeyMap
	scans      []model.ScanSummary
	scanTable  table.Model
	issueTable table.Model
	showing    string
	err        error
	width      int
	height     int
}

// New creates a history view backed by s. s may be nil when history is
// disabled.
func New(s store.Store, k *keys.KeyMap, width, height int) Model {
	return Model{
		store:      s,
		keys:       k,
		scanTable:  newTable(scanColumns(width), height),
		issueTable: newTable(issueColumns(width), height),
		width:      width,
		height:     height,
	}
}

func newTable(cols []table.Column, height int) table.Model {
	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(max(height-3, 3)),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.ColorBorder).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(theme.ColorBlue).
		Bold(true)
	t.SetStyles(styles)
	return t
}

func scanColumns(width int) []table.Column {
	msg := max(width-20-9-8-8-10, 20)
	return []table.Column{
		{Title: "STARTED", Width: 20},
		{Title: "STATUS", Width: 9},
		{Title: "TOTAL", Width: 8},
		{Title: "ERRORS", Width: 8},
		{Title: "MESSAGE", Width: msg},
	}
}

func issueColumns(width int) []table.Column {
	errW := max(width-20-30-9-10, 20)
	return []table.Column{
		{Title: "CLIENT", Width: 20},
		{Title: "EMAIL", Width: 30},
		{Title: "PROTOCOL", Width: 9},
		{Title: "ERROR", Width: errW},
	}
}

// Init returns a command that loads the history.
func (m Model) Init() tea.Cmd {
	return m.Load()
}

// Load returns a tea.Cmd that reads recent scans from the store.
func (m Model) Load() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		if s == nil {
			return LoadedMsg{}
		}
		scans, err := s.ListScans(context.Background(), listLimit)
		return LoadedMsg{Scans: scans, Err: err}
	}
}

func (m Model) loadIssues(scanID string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		issues, err := s.GetScanIssues(context.Background(), scanID)
		return IssuesLoadedMsg{ScanID: scanID, Issues: issues, Err: err}
	}
}

// Update handles messages for the history view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.err = msg.Err
		m.scans = msg.Scans
		m.showing = ""
		m.scanTable.SetRows(scanRows(msg.Scans))
		m.scanTable.GotoTop()
		return m, nil

	case IssuesLoadedMsg:
		m.err = msg.Err
		m.showing = msg.ScanID
		m.issueTable.SetRows(issueRows(msg.Issues))
		m.issueTable.GotoTop()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			if m.showing != "" {
				m.showing = ""
				return m, nil
			}
			return m, func() tea.Msg { return BackMsg{} }

		case key.Matches(msg, m.keys.Select):
			if m.showing != "" || m.store == nil {
				return m, nil
			}
			idx := m.scanTable.Cursor()
			if idx < 0 || idx >= len(m.scans) {
				return m, nil
			}
			return m, m.loadIssues(m.scans[idx].ID)
		}
	}

	var cmd tea.Cmd
	if m.showing != "" {
		m.issueTable, cmd = m.issueTable.Update(msg)
	} else {
		m.scanTable, cmd = m.scanTable.Update(msg)
	}
	return m, cmd
}

func scanRows(scans []model.ScanSummary) []table.Row {
	rows := make([]table.Row, len(scans))
	for i, s := range scans {
		rows[i] = table.Row{
			s.StartedAt.Local().Format("2006-01-02 15:04:05"),
			s.Status,
			strconv.Itoa(s.Total),
			strconv.Itoa(s.Errors),
			s.Message,
		}
	}
	return rows
}

func issueRows(issues []model.Account) []table.Row {
	rows := make([]table.Row, len(issues))
	for i, a := range issues {
		rows[i] = table.Row{a.Client, a.Email, a.Protocol, a.Error}
	}
	return rows
}

// View renders the history table or the issues of the opened scan.
func (m Model) View() string {
	title := lipgloss.NewStyle().Bold(true).PaddingLeft(1)

	if m.err != nil {
		return title.Render(theme.ErrorTextStyle.Render("Could not load history: " + m.err.Error()))
	}
	if m.store == nil {
		return title.Render(theme.DimmedStyle.Render("Scan history is disabled."))
	}

	if m.showing != "" {
		heading := fmt.Sprintf("Issues recorded in scan %s", m.showing)
		if len(m.issueTable.Rows()) == 0 {
			return lipgloss.JoinVertical(lipgloss.Left,
				title.Render(heading),
				theme.DimmedStyle.PaddingLeft(1).Render("No errors found."),
			)
		}
		return lipgloss.JoinVertical(lipgloss.Left, title.Render(heading), m.issueTable.View())
	}

	if len(m.scans) == 0 {
		return title.Render(theme.DimmedStyle.Render("No scans recorded yet."))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		title.Render(fmt.Sprintf("Recent scans (%d)", len(m.scans))),
		m.scanTable.View(),
	)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.scanTable.SetColumns(scanColumns(width))
	m.scanTable.SetHeight(max(height-3, 3))
	m.issueTable.SetColumns(issueColumns(width))
	m.issueTable.SetHeight(max(height-3, 3))
}

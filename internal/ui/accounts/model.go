package accounts

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/healthmon/internal/account"
	"github.com/nhle/healthmon/internal/keys"
	"github.com/nhle/healthmon/internal/model"
	"github.com/nhle/healthmon/internal/theme"
	"github.com/nhle/healthmon/internal/ui/timer"
	"github.com/nhle/healthmon/internal/ui/window"
)

// DefaultSearchDebounce is how long the search term must stay unchanged
// before the filter is applied.
const DefaultSearchDebounce = 300 * time.Millisecond

// Empty-state texts.
const (
	EmptyFilterText = "No accounts match the current filter."
	EmptyFilterHint = "Try adjusting your search or filter settings."
)

// chromeHeight is the number of lines above the rows: the results line,
// the toolbar and the bordered column header.
const chromeHeight = 4

// SelectedAccountMsg is sent when the user opens the account under the cursor.
type SelectedAccountMsg struct {
	ID string
}

// Model is the virtualized accounts table. It owns the base list from the
// last scan and derives the visible subset from the current query.
type Model struct {
	keys        *keys.KeyMap
	all         []model.Account
	visible     []model.Account
	errorCount  int
	query       account.Query
	searchMode  bool
	searchInput textinput.Model
	debounce    timer.Timer
	overscan    int
	cursor      int
	offset      int
	width       int
	height      int
}

// Options tunes the view. Zero values fall back to the defaults.
type Options struct {
	SearchDebounce time.Duration
	Overscan       int
}

// New creates an empty accounts view.
func New(k *keys.KeyMap, width, height int, opts Options) Model {
	debounce := opts.SearchDebounce
	if debounce <= 0 {
		debounce = DefaultSearchDebounce
	}
	overscan := opts.Overscan
	if overscan <= 0 {
		overscan = window.DefaultOverscan
	}

	si := textinput.New()
	si.Placeholder = "Filter by client name or email..."
	si.Prompt = "/ "
	si.Width = max(width/2, 10)

	return Model{
		keys:        k,
		all:         []model.Account{},
		visible:     []model.Account{},
		searchInput: si,
		debounce:    timer.New("search", debounce),
		overscan:    overscan,
		width:       width,
		height:      height,
	}
}

// SetAccounts replaces the base list. The errors-only toggle is reset and
// the search term is kept.
func (m *Model) SetAccounts(accounts []model.Account) {
	m.all = accounts
	m.errorCount = account.CountErrors(accounts)
	m.query.ErrorsOnly = false
	m.refilter()
}

// Reset clears the base list, the errors-only toggle and the scroll
// position. It is used when a new scan starts.
func (m *Model) Reset() {
	m.SetAccounts([]model.Account{})
}

// All returns the base list.
func (m Model) All() []model.Account { return m.all }

// Visible returns the filtered list in display order.
func (m Model) Visible() []model.Account { return m.visible }

// ErrorCount returns the number of erroring accounts in the base list.
func (m Model) ErrorCount() int { return m.errorCount }

// Query returns the applied filter.
func (m Model) Query() account.Query { return m.query }

// Searching reports whether the search input has focus.
func (m Model) Searching() bool { return m.searchMode }

// Selected returns the account under the cursor.
func (m Model) Selected() (model.Account, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return model.Account{}, false
	}
	return m.visible[m.cursor], true
}

// Window returns the row range currently rendered.
func (m Model) Window() window.Range {
	return window.Compute(window.Params{
		ScrollOffset:   m.offset,
		ViewportHeight: m.viewportHeight(),
		RowCount:       len(m.visible),
		RowHeight:      window.DefaultRowHeight,
		Overscan:       m.overscan,
	})
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the accounts view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.debounce.Fired(msg) {
		m.applySearch()
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	return m, nil
}

// handleSearchKeys processes key input while the search box has focus.
// Every edit reschedules the debounce timer.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.searchInput.Blur()
		m.debounce = m.debounce.Cancel()
		m.applySearch()
		return m, nil

	case "esc":
		m.searchMode = false
		m.searchInput.Blur()
		m.searchInput.Reset()
		m.debounce = m.debounce.Cancel()
		m.applySearch()
		return m, nil
	}

	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() == before {
		return m, cmd
	}

	var tick tea.Cmd
	m.debounce, tick = m.debounce.Schedule()
	return m, tea.Batch(cmd, tick)
}

// handleNormalKeys processes navigation and filter keys.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	page := max(m.viewportHeight(), 1)

	switch {
	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		cmd := m.searchInput.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.ErrorsOnly):
		m.query.ErrorsOnly = !m.query.ErrorsOnly
		m.refilter()
		return m, nil

	case key.Matches(msg, m.keys.Select):
		a, ok := m.Selected()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedAccountMsg{ID: a.ID}
		}

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(page)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-page)
	case key.Matches(msg, m.keys.Top):
		m.moveCursor(-len(m.visible))
	case key.Matches(msg, m.keys.Bottom):
		m.moveCursor(len(m.visible))
	}

	return m, nil
}

// applySearch commits the current search input as the filter term.
func (m *Model) applySearch() {
	term := m.searchInput.Value()
	if strings.TrimSpace(term) == "" {
		term = ""
	}
	if term == m.query.Search {
		return
	}
	m.query.Search = term
	m.refilter()
}

// refilter recomputes the visible list and resets the scroll position.
func (m *Model) refilter() {
	m.visible = account.Filter(m.all, m.query)
	m.cursor = 0
	m.offset = 0
}

// moveCursor moves the cursor by delta rows and scrolls so it stays in view.
func (m *Model) moveCursor(delta int) {
	if len(m.visible) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.visible)-1)

	vp := m.viewportHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	} else if vp > 0 && m.cursor >= m.offset+vp {
		m.offset = m.cursor - vp + 1
	}
	m.offset = window.ClampOffset(m.offset, vp, len(m.visible), window.DefaultRowHeight)
}

func (m Model) viewportHeight() int {
	return max(m.height-chromeHeight, 0)
}

// SetSize updates the view dimensions and keeps the scroll offset valid.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.searchInput.Width = max(width/2, 10)
	m.offset = window.ClampOffset(m.offset, m.viewportHeight(), len(m.visible), window.DefaultRowHeight)
}

// View renders the results line, toolbar and the visible rows.
func (m Model) View() string {
	summary := fmt.Sprintf("Found %d accounts. Displaying %d.", len(m.all), len(m.visible))

	var search string
	if m.searchMode || m.searchInput.Value() != "" {
		search = m.searchInput.View()
	} else {
		search = theme.DimmedStyle.Render("/ " + m.searchInput.Placeholder)
	}
	label := "Errors Only"
	if m.query.ErrorsOnly {
		label = "Show All"
	}
	toolbar := lipgloss.JoinHorizontal(
		lipgloss.Top,
		search,
		"  ",
		theme.BadgeStyle(m.query.ErrorsOnly).Render("e: "+label),
	)

	head := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).PaddingLeft(1).Render(summary),
		lipgloss.NewStyle().PaddingLeft(1).Render(toolbar),
	)

	if len(m.visible) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, head, m.renderEmptyState())
	}

	cols := newColumns(m.width)
	return lipgloss.JoinVertical(lipgloss.Left,
		head,
		cols.header(),
		m.renderRows(cols),
	)
}

// renderRows renders only the rows in the computed window, then clips them
// to the viewport.
func (m Model) renderRows(cols columns) string {
	r := m.Window()
	if r.Empty {
		return ""
	}

	lines := make([]string, 0, r.Len())
	for i := r.Start; i <= r.End; i++ {
		lines = append(lines, cols.row(m.visible[i], i == m.cursor))
	}

	from := min(max(m.offset-r.Offset(window.DefaultRowHeight), 0), len(lines))
	to := min(from+m.viewportHeight(), len(lines))
	return strings.Join(lines[from:to], "\n")
}

// renderEmptyState shows guidance text when the filter matches nothing.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(max(m.height-2, 1)).
		Align(lipgloss.Center, lipgloss.Center)

	return style.Render(lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.NewStyle().Bold(true).Render(EmptyFilterText),
		theme.DimmedStyle.Render(EmptyFilterHint),
	))
}

package app

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/healthmon/internal/model"
	"github.com/nhle/healthmon/internal/theme"
)

const appTitle = "Smartlead Health Monitor"

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(appTitle, m.scanStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, m.toast.View(), statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewAccounts:
		if !m.completed {
			return m.renderControlCenter()
		}
		return m.accounts.View()
	case ViewSettings:
		return m.settings.View()
	case ViewInspect:
		return m.inspector.View()
	case ViewHistory:
		return m.historyView.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

// renderControlCenter is shown until a scan completes.
func (m Model) renderControlCenter() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render("Control Center")

	var action string
	if m.scanner.Active() {
		action = m.spinner.View() + " " + m.scanButtonText()
	} else {
		action = theme.HelpStyle.Render("Press s to start a health scan across all your accounts.")
	}

	width := max(m.layout.ContentWidth(), 20)
	return lipgloss.NewStyle().
		Width(width).
		Height(max(m.layout.ContentHeight()-1, 3)).
		Align(lipgloss.Center, lipgloss.Center).
		Render(lipgloss.JoinVertical(lipgloss.Center,
			title,
			"",
			action,
			"",
			m.renderMetrics(),
		))
}

// renderMetrics renders the total and error counters as two cards.
func (m Model) renderMetrics() string {
	card := theme.BorderStyle.Padding(0, 2)
	total := card.Render(fmt.Sprintf("Total Accounts\n%d", len(m.accounts.All())))
	errs := card.Render(fmt.Sprintf("Errors Found\n%d", m.accounts.ErrorCount()))
	return lipgloss.JoinHorizontal(lipgloss.Top, total, " ", errs)
}

// scanButtonText mirrors the scan action's label for the current state.
func (m Model) scanButtonText() string {
	switch m.scanState {
	case model.ScanFetching:
		return fmt.Sprintf("Scanning... (%d found)", m.progress.Fetched)
	case model.ScanProcessing:
		return fmt.Sprintf("Processing %d...", m.progress.TotalToProcess)
	}
	if m.completed {
		return "Scan Again"
	}
	return "Scan All Accounts"
}

// scanStatus returns the header status: progress while scanning, the
// counters after a completed scan.
func (m Model) scanStatus() string {
	if m.scanner.Active() {
		return m.spinner.View() + " " + m.scanButtonText()
	}
	if !m.completed {
		return "idle"
	}
	total := len(m.accounts.All())
	if total == 0 {
		return "No accounts found | 0 errors"
	}
	return fmt.Sprintf("%d accounts | %d errors", total, m.accounts.ErrorCount())
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewSettings:
		return "enter submit | tab next field | esc cancel"
	case ViewInspect:
		return "enter fetch | j/k scroll | esc back"
	case ViewHistory:
		return "enter open scan | esc back"
	}

	if m.accounts.Searching() {
		return "enter apply | esc clear"
	}
	if !m.completed {
		return fmt.Sprintf("s %s | , settings | i inspect | H history | ? help | q quit", m.scanButtonText())
	}
	return "s scan again | e errors only | / search | c copy emails | y copy report | ? help | q quit"
}

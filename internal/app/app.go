package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/nhle/healthmon/internal/credential"
	"github.com/nhle/healthmon/internal/export"
	"github.com/nhle/healthmon/internal/keys"
	"github.com/nhle/healthmon/internal/model"
	"github.com/nhle/healthmon/internal/scan"
	"github.com/nhle/healthmon/internal/source"
	"github.com/nhle/healthmon/internal/source/smartlead"
	"github.com/nhle/healthmon/internal/store"
	"github.com/nhle/healthmon/internal/theme"
	"github.com/nhle/healthmon/internal/ui"
	"github.com/nhle/healthmon/internal/ui/accounts"
	helpview "github.com/nhle/healthmon/internal/ui/help"
	"github.com/nhle/healthmon/internal/ui/history"
	"github.com/nhle/healthmon/internal/ui/inspect"
	"github.com/nhle/healthmon/internal/ui/settings"
	"github.com/nhle/healthmon/internal/ui/timer"
	"github.com/nhle/healthmon/internal/ui/toast"
)

// User-facing notification texts.
const (
	msgMissingKey     = "Please set your API key in settings before scanning."
	msgKeySaved       = "API Key saved successfully!"
	msgKeySaveFailed  = "Could not save API key. Your system keyring might be unavailable."
	msgReportCopied   = "Report copied to clipboard!"
	msgReportFailed   = "Failed to copy report."
	msgEmailsFailed   = "Failed to copy emails."
	msgUnknownFailure = "An unknown error occurred."
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewAccounts ViewState = iota
	ViewSettings
	ViewInspect
	ViewHistory
	ViewHelp
)

// Credentials is the write side of the API key store.
type Credentials interface {
	Set(key, value string) error
}

// Deps are the collaborators the root model needs.
type Deps struct {
	Config      *model.AppConfig
	ConfigPath  string // empty disables persisting settings changes
	APIKey      string
	Credentials Credentials
	History     store.Store // nil when history is disabled
	Clipboard   export.Clipboard
	Logger      *zap.Logger

	// NewSource overrides the Smartlead client, mainly for tests.
	NewSource scan.SourceFactory
	Now       func() time.Time
}

// copiedMsg reports the outcome of a clipboard write.
type copiedMsg struct {
	report bool
	count  int
	err    error
}

// Model is the root Bubble Tea model that manages view routing,
// layout, scanning and notifications.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap
	deps         Deps
	cfg          *model.AppConfig
	logger       *zap.Logger
	now          func() time.Time
	scanner      *scan.Scanner
	newSource    scan.SourceFactory

	accounts    accounts.Model
	settings    settings.Model
	inspector   inspect.Model
	historyView history.Model
	helpView    helpview.Model
	toast       toast.Model
	spinner     spinner.Model

	apiKey    string
	scanState model.ScanState
	progress  model.ScanProgress
	completed bool
	ready     bool
}

// New creates the root application model.
func New(deps Deps) Model {
	cfg := deps.Config
	if cfg == nil {
		cfg = model.DefaultAppConfig()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	m := Model{
		currentView: ViewAccounts,
		keys:        keys.DefaultKeyMap(),
		deps:        deps,
		cfg:         cfg,
		logger:      logger,
		now:         now,
		apiKey:      deps.APIKey,
	}

	m.newSource = deps.NewSource
	if m.newSource == nil {
		m.newSource = m.smartleadSource
	}
	m.scanner = scan.New(scan.Options{
		NewSource: m.newSource,
		History:   deps.History,
		Logger:    logger,
		Now:       now,
	})

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorBlue)
	m.spinner = sp

	m.accounts = accounts.New(m.keys, 80, 24, accounts.Options{
		SearchDebounce: cfg.Display.SearchDebounce(),
		Overscan:       cfg.Display.Overscan,
	})
	m.settings = settings.New(80, 24)
	m.inspector = inspect.New(m.keys, 80, 24)
	m.historyView = history.New(deps.History, m.keys, 80, 24)
	m.helpView = helpview.New(m.keys, 80, 24)
	m.toast = toast.New(cfg.Display.ToastDuration())
	return m
}

// smartleadSource builds the API client for apiKey from the current config.
func (m Model) smartleadSource(apiKey string) source.AccountSource {
	return smartlead.NewClient(smartlead.Options{
		BaseURL:           m.cfg.API.BaseURL,
		APIKey:            apiKey,
		PageSize:          m.cfg.API.PageSize,
		Timeout:           m.cfg.API.Timeout,
		RequestsPerSecond: m.cfg.API.RequestsPerSecond,
	})
}

// Init opens the settings form when no API key is configured.
func (m Model) Init() tea.Cmd {
	if m.apiKey != "" {
		return nil
	}
	return func() tea.Msg { return openSettingsMsg{} }
}

// openSettingsMsg asks the root model to show the settings form.
type openSettingsMsg struct {
	notice string
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.accounts.SetSize(contentWidth, contentHeight-1)
		m.settings.SetSize(contentWidth, contentHeight)
		m.inspector.SetSize(contentWidth, contentHeight)
		m.historyView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.toast.SetSize(contentWidth)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case openSettingsMsg:
		return m.openSettings(msg.notice)

	case scan.StateMsg:
		m.scanState = msg.State
		return m, m.scanner.WaitForEvent()

	case scan.ProgressMsg:
		m.progress = msg.Progress
		return m, m.scanner.WaitForEvent()

	case scan.DoneMsg:
		m.scanState = model.ScanIdle
		if msg.Err != nil {
			m.logger.Error("scan failed", zap.Error(msg.Err))
			return m.notify(model.SeverityError, failureMessage(msg.Err))
		}
		m.accounts.SetAccounts(msg.Result.Accounts)
		m.completed = true
		return m.notify(model.SeveritySuccess, msg.Result.Message)

	case settings.SavedMsg:
		return m.saveSettings(msg)

	case settings.ClosedMsg:
		m.currentView = ViewAccounts
		return m, nil

	case accounts.SelectedAccountMsg:
		m.previousView = m.currentView
		m.currentView = ViewInspect
		var cmd tea.Cmd
		m.inspector, cmd = m.inspector.Lookup(msg.ID, m.fetchAccount)
		return m, cmd

	case inspect.LoadedMsg:
		if msg.Err != nil {
			m.logger.Warn("account lookup failed", zap.String("account_id", msg.ID), zap.Error(msg.Err))
		}
		var cmd tea.Cmd
		m.inspector, cmd = m.inspector.Update(msg)
		return m, cmd

	case inspect.BackMsg, history.BackMsg, helpview.CloseMsg:
		m.currentView = ViewAccounts
		return m, nil

	case history.LoadedMsg, history.IssuesLoadedMsg:
		var cmd tea.Cmd
		m.historyView, cmd = m.historyView.Update(msg)
		return m, cmd

	case copiedMsg:
		return m.handleCopied(msg)

	case timer.FiredMsg:
		var cmd tea.Cmd
		m.toast, _ = m.toast.Update(msg)
		m.accounts, cmd = m.accounts.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		var cmds []tea.Cmd
		if m.scanner.Active() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		var cmd tea.Cmd
		m.inspector, cmd = m.inspector.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.currentView == ViewAccounts && !m.accounts.Searching() {
			if next, cmd, handled := m.handleGlobalKeys(msg); handled {
				return next, cmd
			}
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleGlobalKeys processes the accounts-view shortcuts that act on the
// whole application.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.Scan):
		next, cmd := m.startScan()
		return next, cmd, true

	case key.Matches(msg, m.keys.CopyEmails):
		return m, m.copyEmails(), true

	case key.Matches(msg, m.keys.CopyReport):
		return m, m.copyReport(), true

	case key.Matches(msg, m.keys.Settings):
		next, cmd := m.openSettings("")
		return next, cmd, true

	case key.Matches(msg, m.keys.Inspect):
		m.previousView = m.currentView
		m.currentView = ViewInspect
		var cmd tea.Cmd
		m.inspector, cmd = m.inspector.Prompt()
		return m, cmd, true

	case key.Matches(msg, m.keys.History):
		m.previousView = m.currentView
		m.currentView = ViewHistory
		return m, m.historyView.Load(), true

	case key.Matches(msg, m.keys.Help):
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true
	}
	return m, nil, false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewAccounts:
		// The table stays hidden behind the control center until a scan completes.
		if _, isKey := msg.(tea.KeyMsg); isKey && !m.completed {
			return m, nil
		}
		m.accounts, cmd = m.accounts.Update(msg)
	case ViewSettings:
		m.settings, cmd = m.settings.Update(msg)
	case ViewInspect:
		m.inspector, cmd = m.inspector.Update(msg)
		if id, ok := m.inspector.PendingID(); ok {
			var lookup tea.Cmd
			m.inspector, lookup = m.inspector.Lookup(id, m.fetchAccount)
			cmd = tea.Batch(cmd, lookup)
		}
	case ViewHistory:
		m.historyView, cmd = m.historyView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// startScan kicks off a scan unless one is running or no key is set.
func (m Model) startScan() (Model, tea.Cmd) {
	if m.scanner.Active() {
		return m, nil
	}
	if m.apiKey == "" {
		next, toastCmd := m.notify(model.SeverityError, msgMissingKey)
		next, formCmd := next.openSettings("")
		return next, tea.Batch(toastCmd, formCmd)
	}

	cmd, err := m.scanner.Start(context.Background(), m.apiKey)
	if err != nil {
		if errors.Is(err, scan.ErrScanInProgress) {
			return m, nil
		}
		return m.notify(model.SeverityError, failureMessage(err))
	}

	m.accounts.Reset()
	m.completed = false
	m.progress = model.ScanProgress{}
	m.scanState = model.ScanFetching
	return m, tea.Batch(cmd, m.spinner.Tick)
}

// fetchAccount looks up a single account with the current key.
func (m Model) fetchAccount(ctx context.Context, id string) (*source.AccountDetail, error) {
	if m.apiKey == "" {
		return nil, scan.ErrNoCredential
	}
	return m.newSource(m.apiKey).FetchAccount(ctx, id)
}

func (m Model) openSettings(notice string) (Model, tea.Cmd) {
	if m.currentView != ViewSettings {
		m.previousView = m.currentView
	}
	m.currentView = ViewSettings
	var cmd tea.Cmd
	m.settings, cmd = m.settings.Open(m.apiKey, m.cfg.API.BaseURL, notice)
	return m, cmd
}

// saveSettings applies the submitted form. The key is used in memory even
// when the keyring rejects it.
func (m Model) saveSettings(msg settings.SavedMsg) (Model, tea.Cmd) {
	m.apiKey = msg.APIKey
	m.currentView = ViewAccounts

	if msg.BaseURL != "" && msg.BaseURL != m.cfg.API.BaseURL {
		m.cfg.API.BaseURL = msg.BaseURL
		if m.deps.ConfigPath != "" {
			if err := model.SaveConfig(m.deps.ConfigPath, m.cfg); err != nil {
				m.logger.Warn("saving config", zap.Error(err))
			}
		}
	}

	if m.deps.Credentials == nil {
		return m.notify(model.SeverityError, msgKeySaveFailed)
	}
	if err := m.deps.Credentials.Set(credential.APIKeyName, msg.APIKey); err != nil {
		m.logger.Error("saving api key", zap.Error(err))
		return m.notify(model.SeverityError, msgKeySaveFailed)
	}
	return m.notify(model.SeveritySuccess, msgKeySaved)
}

// copyEmails copies the visible emails. It does nothing when the visible
// list is empty.
func (m Model) copyEmails() tea.Cmd {
	visible := m.accounts.Visible()
	if len(visible) == 0 || m.deps.Clipboard == nil {
		return nil
	}
	text := export.Emails(visible)
	cb := m.deps.Clipboard
	return func() tea.Msg {
		return copiedMsg{count: len(visible), err: cb.WriteAll(text)}
	}
}

// copyReport copies the health report. It does nothing until a scan has
// completed.
func (m Model) copyReport() tea.Cmd {
	if !m.completed || m.deps.Clipboard == nil {
		return nil
	}
	text := export.Report(m.accounts.All(), m.now())
	cb := m.deps.Clipboard
	return func() tea.Msg {
		return copiedMsg{report: true, err: cb.WriteAll(text)}
	}
}

func (m Model) handleCopied(msg copiedMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Warn("clipboard write failed", zap.Error(msg.err))
		if msg.report {
			return m.notify(model.SeverityError, msgReportFailed)
		}
		return m.notify(model.SeverityError, msgEmailsFailed)
	}
	if msg.report {
		return m.notify(model.SeveritySuccess, msgReportCopied)
	}
	return m.notify(model.SeveritySuccess, fmt.Sprintf("%d emails copied to clipboard!", msg.count))
}

func (m Model) notify(sev model.Severity, text string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.toast, cmd = m.toast.Show(model.Notification{Message: text, Severity: sev})
	return m, cmd
}

// failureMessage returns the text shown for a failed scan or lookup.
func failureMessage(err error) string {
	var apiErr *smartlead.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err == nil || err.Error() == "" {
		return msgUnknownFailure
	}
	return err.Error()
}

package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/99designs/keyring"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/healthmon/internal/credential"
	"github.com/nhle/healthmon/internal/model"
	"github.com/nhle/healthmon/internal/record"
	"github.com/nhle/healthmon/internal/scan"
	"github.com/nhle/healthmon/internal/source"
	"github.com/nhle/healthmon/internal/source/smartlead"
	"github.com/nhle/healthmon/internal/ui/settings"
)

type stubSource struct {
	records []record.Record
	err     error
	release chan struct{}
}

func (s *stubSource) FetchAll(_ context.Context, progress source.ProgressFunc) ([]record.Record, error) {
	if s.release != nil {
		<-s.release
	}
	if s.err != nil {
		return nil, s.err
	}
	if progress != nil && len(s.records) > 0 {
		progress(len(s.records))
	}
	return s.records, nil
}

func (s *stubSource) FetchAccount(_ context.Context, id string) (*source.AccountDetail, error) {
	return &source.AccountDetail{Record: record.Record{"id": id}, JSON: `{"id": "` + id + `"}`}, nil
}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

type failingCredentials struct{}

func (failingCredentials) Set(string, string) error { return errors.New("keyring locked") }

func newTestModel(t *testing.T, apiKey string, src *stubSource, cb *fakeClipboard) Model {
	t.Helper()
	m := New(Deps{
		APIKey:      apiKey,
		Credentials: credential.New(keyring.NewArrayKeyring(nil)),
		Clipboard:   cb,
		NewSource:   func(string) source.AccountSource { return src },
		Now:         func() time.Time { return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC) },
	})
	return update(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func updateCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// collect runs cmd and flattens batches into their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// runScan feeds scanner events back into the model until the scan is done.
func runScan(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for i := 0; i < 50; i++ {
		var next tea.Cmd
		for _, msg := range collect(cmd) {
			switch msg.(type) {
			case scan.StateMsg, scan.ProgressMsg:
				m, next = updateCmd(t, m, msg)
			case scan.DoneMsg:
				return update(t, m, msg)
			}
		}
		cmd = next
	}
	t.Fatal("scan did not finish")
	return m
}

func press(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInitOpensSettingsWithoutKey(t *testing.T) {
	m := newTestModel(t, "", &stubSource{}, &fakeClipboard{})

	msgs := collect(m.Init())
	require.Len(t, msgs, 1)
	m = update(t, m, msgs[0])
	assert.Equal(t, ViewSettings, m.currentView)
}

func TestInitWithKeyStaysOnAccounts(t *testing.T) {
	m := newTestModel(t, "key", &stubSource{}, &fakeClipboard{})
	assert.Nil(t, m.Init())
	assert.Contains(t, m.View(), "Control Center")
}

func TestScanWithoutKeyPromptsForSettings(t *testing.T) {
	m := newTestModel(t, "", &stubSource{}, &fakeClipboard{})

	m = update(t, m, press("s"))
	n, ok := m.toast.Current()
	require.True(t, ok)
	assert.Equal(t, msgMissingKey, n.Message)
	assert.Equal(t, model.SeverityError, n.Severity)
	assert.Equal(t, ViewSettings, m.currentView)
}

func TestScanSuccessPopulatesAccounts(t *testing.T) {
	src := &stubSource{records: []record.Record{
		{"id": 1.0, "client_name": "Acme", "email": "ops@acme.com", "smtp_failure_error": "Auth failed", "is_imap_success": false},
		{"id": 2.0, "client_name": "Globex", "email": "g@globex.com"},
	}}
	m := newTestModel(t, "key", src, &fakeClipboard{})

	m, cmd := updateCmd(t, m, press("s"))
	require.NotNil(t, cmd)
	assert.Equal(t, model.ScanFetching, m.scanState)

	m = runScan(t, m, cmd)

	assert.True(t, m.completed)
	assert.Equal(t, model.ScanIdle, m.scanState)
	require.Len(t, m.accounts.All(), 2)
	assert.Equal(t, "SMTP Error: Auth failed", m.accounts.All()[0].Error)
	assert.Equal(t, 1, m.accounts.ErrorCount())

	n, ok := m.toast.Current()
	require.True(t, ok)
	assert.Equal(t, "Scan complete. Found 2 accounts with 1 issue(s).", n.Message)
	assert.Contains(t, m.View(), "2 accounts | 1 errors")
}

func TestEmptyScanReportsNoAccounts(t *testing.T) {
	m := newTestModel(t, "key", &stubSource{}, &fakeClipboard{})

	m, cmd := updateCmd(t, m, press("s"))
	m = runScan(t, m, cmd)

	assert.True(t, m.completed)
	assert.Equal(t, 0, m.accounts.ErrorCount())
	assert.Contains(t, m.View(), "No accounts found")
	n, _ := m.toast.Current()
	assert.Equal(t, "Scan complete. No accounts found.", n.Message)
}

func TestScanFailureShowsAPIMessage(t *testing.T) {
	src := &stubSource{err: &smartlead.APIError{StatusCode: 401, Message: "Invalid API key"}}
	m := newTestModel(t, "key", src, &fakeClipboard{})

	m, cmd := updateCmd(t, m, press("s"))
	m = runScan(t, m, cmd)

	assert.False(t, m.completed)
	assert.Empty(t, m.accounts.All())
	n, ok := m.toast.Current()
	require.True(t, ok)
	assert.Equal(t, "Invalid API key", n.Message)
	assert.Equal(t, model.SeverityError, n.Severity)
}

func TestScanKeyIgnoredWhileScanning(t *testing.T) {
	src := &stubSource{release: make(chan struct{})}
	m := newTestModel(t, "key", src, &fakeClipboard{})

	m, cmd := updateCmd(t, m, press("s"))
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "Scanning... (0 found)")

	_, again := updateCmd(t, m, press("s"))
	assert.Nil(t, again)

	close(src.release)
	m = runScan(t, m, cmd)
	assert.True(t, m.completed)
}

func TestTableKeysIgnoredBeforeFirstScan(t *testing.T) {
	m := newTestModel(t, "key", &stubSource{}, &fakeClipboard{})

	m = update(t, m, press("/"))
	m = update(t, m, press("e"))
	assert.False(t, m.accounts.Searching())
	assert.False(t, m.accounts.Query().ErrorsOnly)

	m, cmd := updateCmd(t, m, press("s"))
	require.NotNil(t, cmd)
	assert.True(t, m.scanner.Active())
	assert.Equal(t, model.ScanFetching, m.scanState)

	m = runScan(t, m, cmd)
	assert.True(t, m.completed)

	m = update(t, m, press("/"))
	assert.True(t, m.accounts.Searching(), "table keys apply once results are shown")
}

func TestCopyEmailsAndReport(t *testing.T) {
	src := &stubSource{records: []record.Record{
		{"email": "a@x.com", "mailbox_issue": true},
		{"email": "b@x.com"},
	}}
	cb := &fakeClipboard{}
	m := newTestModel(t, "key", src, cb)

	assert.Nil(t, collect(m.copyReport()), "report needs a completed scan")

	m, cmd := updateCmd(t, m, press("s"))
	m = runScan(t, m, cmd)

	m, cmd = updateCmd(t, m, press("c"))
	msgs := collect(cmd)
	require.Len(t, msgs, 1)
	m = update(t, m, msgs[0])
	assert.Equal(t, "a@x.com\nb@x.com", cb.text)
	n, _ := m.toast.Current()
	assert.Equal(t, "2 emails copied to clipboard!", n.Message)

	m, cmd = updateCmd(t, m, press("y"))
	msgs = collect(cmd)
	require.Len(t, msgs, 1)
	m = update(t, m, msgs[0])
	assert.Contains(t, cb.text, "Smartlead Health Report")
	assert.Contains(t, cb.text, "Error: Generic mailbox issue detected")
	n, _ = m.toast.Current()
	assert.Equal(t, msgReportCopied, n.Message)
}

func TestCopyFailureToast(t *testing.T) {
	src := &stubSource{records: []record.Record{{"email": "a@x.com"}}}
	m := newTestModel(t, "key", src, &fakeClipboard{err: errors.New("no display")})

	m, cmd := updateCmd(t, m, press("s"))
	m = runScan(t, m, cmd)

	_, cmd = updateCmd(t, m, press("c"))
	m = update(t, m, collect(cmd)[0])
	n, _ := m.toast.Current()
	assert.Equal(t, msgEmailsFailed, n.Message)
}

func TestSaveSettingsStoresKey(t *testing.T) {
	ring := keyring.NewArrayKeyring(nil)
	creds := credential.New(ring)
	m := New(Deps{Credentials: creds})
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	m = update(t, m, settings.SavedMsg{APIKey: "new-key", BaseURL: smartlead.DefaultBaseURL})

	assert.Equal(t, "new-key", m.apiKey)
	got, err := creds.Get(credential.APIKeyName)
	require.NoError(t, err)
	assert.Equal(t, "new-key", got)
	n, _ := m.toast.Current()
	assert.Equal(t, msgKeySaved, n.Message)
}

func TestSaveSettingsKeyringFailureKeepsKeyInMemory(t *testing.T) {
	m := New(Deps{Credentials: failingCredentials{}})
	m = update(t, m, settings.SavedMsg{APIKey: "mem-key"})

	assert.Equal(t, "mem-key", m.apiKey)
	n, ok := m.toast.Current()
	require.True(t, ok)
	assert.Equal(t, msgKeySaveFailed, n.Message)
	assert.Equal(t, model.SeverityError, n.Severity)
}

func TestFailureMessage(t *testing.T) {
	wrapped := errors.Join(errors.New("ctx"), &smartlead.APIError{StatusCode: 500, Message: "boom"})
	assert.Equal(t, "boom", failureMessage(wrapped))
	assert.Equal(t, "dial failed", failureMessage(errors.New("dial failed")))
}

package history

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/healthmon/internal/keys"
	"github.com/nhle/healthmon/internal/model"
	"github.com/nhle/healthmon/tests/testutil"
)

func TestLoadAndOpenIssues(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	started := time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC)
	require.NoError(t, s.RecordScan(ctx, model.ScanSummary{
		ID:         "scan-a",
		StartedAt:  started,
		FinishedAt: started.Add(time.Second),
		Total:      4,
		Errors:     1,
		Status:     model.ScanStatusCompleted,
		Message:    "Scan complete. Found 4 accounts with 1 issue(s).",
	}, []model.Account{{ID: "3", Client: "Acme", Email: "ops@acme.com", Protocol: "SMTP", Error: "SMTP Error: 550"}}))

	m := New(s, keys.DefaultKeyMap(), 140, 30)
	msg := m.Init()()
	m, _ = m.Update(msg)

	view := m.View()
	assert.Contains(t, view, "Recent scans (1)")
	assert.Contains(t, view, "completed")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())

	view = m.View()
	assert.Contains(t, view, "Issues recorded in scan scan-a")
	assert.Contains(t, view, "ops@acme.com")

	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Recent scans")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, BackMsg{}, cmd())
}

func TestEmptyHistory(t *testing.T) {
	m := New(testutil.NewTestStore(t), keys.DefaultKeyMap(), 100, 20)
	m, _ = m.Update(m.Load()())
	assert.Contains(t, m.View(), "No scans recorded yet.")
}

func TestDisabledHistory(t *testing.T) {
	m := New(nil, keys.DefaultKeyMap(), 100, 20)
	m, _ = m.Update(m.Load()())
	assert.Contains(t, m.View(), "Scan history is disabled.")
}

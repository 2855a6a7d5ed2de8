package scan

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/nhle/healthmon/internal/model"
	"github.com/nhle/healthmon/internal/record"
	"github.com/nhle/healthmon/internal/source"
	"github.com/nhle/healthmon/tests/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSource struct {
	pages   [][]record.Record
	err     error
	release chan struct{}
}

func (f *fakeSource) FetchAll(ctx context.Context, progress source.ProgressFunc) ([]record.Record, error) {
	if f.release != nil {
		<-f.release
	}
	var all []record.Record
	for _, page := range f.pages {
		all = append(all, page...)
		if progress != nil {
			progress(len(all))
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return all, nil
}

func (f *fakeSource) FetchAccount(ctx context.Context, id string) (*source.AccountDetail, error) {
	return nil, errors.New("not implemented")
}

func newScanner(t *testing.T, src *fakeSource) *Scanner {
	t.Helper()
	return New(Options{
		NewSource: func(string) source.AccountSource { return src },
		History:   testutil.NewTestStore(t),
	})
}

// drain runs cmd and every follow-up WaitForEvent until a DoneMsg arrives.
func drain(t *testing.T, s *Scanner, cmd tea.Cmd) ([]tea.Msg, DoneMsg) {
	t.Helper()
	var msgs []tea.Msg
	for i := 0; i < 100; i++ {
		msg := cmd()
		msgs = append(msgs, msg)
		if done, ok := msg.(DoneMsg); ok {
			return msgs, done
		}
		cmd = s.WaitForEvent()
	}
	t.Fatal("scan never finished")
	return nil, DoneMsg{}
}

func TestStartSuccess(t *testing.T) {
	src := &fakeSource{pages: [][]record.Record{
		{{"id": 1, "email": "a@x.com", "smtp_failure_error": "Auth failed"}},
		{{"id": 2, "email": "b@x.com"}},
	}}
	s := newScanner(t, src)

	cmd, err := s.Start(context.Background(), "key")
	require.NoError(t, err)

	msgs, done := drain(t, s, cmd)
	require.NoError(t, done.Err)

	assert.Len(t, done.Result.Accounts, 2)
	assert.Equal(t, "Scan complete. Found 2 accounts with 1 issue(s).", done.Result.Message)
	assert.Equal(t, 1, done.Result.Summary.Errors)
	assert.NotEmpty(t, done.Result.Summary.ID)

	var states []model.ScanState
	for _, m := range msgs {
		if st, ok := m.(StateMsg); ok {
			states = append(states, st.State)
		}
	}
	assert.Equal(t, []model.ScanState{model.ScanFetching, model.ScanProcessing, model.ScanIdle}, states)

	assert.Equal(t, model.ScanIdle, s.State())
	assert.True(t, s.Completed())
	assert.Equal(t, model.ScanProgress{Fetched: 2, TotalToProcess: 2}, s.Progress())
}

func TestStartRecordsHistory(t *testing.T) {
	history := testutil.NewTestStore(t)
	src := &fakeSource{pages: [][]record.Record{{{"id": 7, "is_imap_success": false}}}}
	s := New(Options{
		NewSource: func(string) source.AccountSource { return src },
		History:   history,
	})

	cmd, err := s.Start(context.Background(), "key")
	require.NoError(t, err)
	_, done := drain(t, s, cmd)
	require.NoError(t, done.Err)

	scans, err := history.ListScans(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, scans, 1)
	assert.Equal(t, model.ScanStatusCompleted, scans[0].Status)

	issues, err := history.GetScanIssues(context.Background(), scans[0].ID)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "IMAP Connection Failed", issues[0].Error)
}

func TestStartEmptyScan(t *testing.T) {
	s := newScanner(t, &fakeSource{})

	cmd, err := s.Start(context.Background(), "key")
	require.NoError(t, err)
	_, done := drain(t, s, cmd)

	require.NoError(t, done.Err)
	assert.Empty(t, done.Result.Accounts)
	assert.Equal(t, "Scan complete. No accounts found.", done.Result.Message)
	assert.True(t, s.Completed())
}

func TestStartFailureKeepsNoResults(t *testing.T) {
	boom := errors.New("Invalid API key")
	src := &fakeSource{
		pages: [][]record.Record{{{"id": 1}}},
		err:   boom,
	}
	s := newScanner(t, src)

	cmd, err := s.Start(context.Background(), "key")
	require.NoError(t, err)
	_, done := drain(t, s, cmd)

	require.ErrorIs(t, done.Err, boom)
	assert.Empty(t, done.Result.Accounts)
	assert.Equal(t, model.ScanIdle, s.State())
	assert.False(t, s.Completed())
}

func TestStartRejectsMissingCredential(t *testing.T) {
	s := newScanner(t, &fakeSource{})

	cmd, err := s.Start(context.Background(), "")
	require.ErrorIs(t, err, ErrNoCredential)
	assert.Nil(t, cmd)
	assert.Equal(t, model.ScanIdle, s.State())
}

func TestStartRejectsConcurrentScan(t *testing.T) {
	src := &fakeSource{release: make(chan struct{})}
	s := newScanner(t, src)

	cmd, err := s.Start(context.Background(), "key")
	require.NoError(t, err)
	assert.True(t, s.Active())

	_, err = s.Start(context.Background(), "key")
	require.ErrorIs(t, err, ErrScanInProgress)

	close(src.release)
	_, done := drain(t, s, cmd)
	require.NoError(t, done.Err)
	assert.False(t, s.Active())
}

func TestCompletedClearedOnNextScan(t *testing.T) {
	src := &fakeSource{}
	s := newScanner(t, src)

	_, err := s.Run(context.Background(), "key", nil)
	require.NoError(t, err)
	require.True(t, s.Completed())

	src.release = make(chan struct{})
	cmd, err := s.Start(context.Background(), "key")
	require.NoError(t, err)
	assert.False(t, s.Completed())

	close(src.release)
	drain(t, s, cmd)
}

func TestRunReportsProgress(t *testing.T) {
	src := &fakeSource{pages: [][]record.Record{
		make([]record.Record, 100),
		make([]record.Record, 40),
	}}
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := New(Options{
		NewSource: func(string) source.AccountSource { return src },
		Now:       func() time.Time { return fixed },
	})

	var seen []int
	res, err := s.Run(context.Background(), "key", func(n int) { seen = append(seen, n) })
	require.NoError(t, err)

	assert.Len(t, res.Accounts, 140)
	assert.Equal(t, []int{100, 140, 140}, seen)
	assert.Equal(t, fixed, res.Summary.StartedAt)
	assert.Empty(t, res.Summary.ID)
}

func TestCompletionMessage(t *testing.T) {
	assert.Equal(t, "Scan complete. No accounts found.", CompletionMessage(0, 0))
	assert.Equal(t, "Scan complete. Found 3 accounts with 0 issue(s).", CompletionMessage(3, 0))
}

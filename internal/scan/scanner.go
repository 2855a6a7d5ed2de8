// Package scan runs account scans in the background and reports their
// progress to the Bubble Tea runtime over a channel.
package scan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nhle/healthmon/internal/account"
	"github.com/nhle/healthmon/internal/model"
	"github.com/nhle/healthmon/internal/source"
	"github.com/nhle/healthmon/internal/store"
)

var (
	// ErrScanInProgress is returned when a scan is requested while another
	// one is still fetching or processing.
	ErrScanInProgress = errors.New("a scan is already in progress")

	// ErrNoCredential is returned when a scan is requested without an API key.
	ErrNoCredential = errors.New("no API key configured")
)

// ProgressMsg is a tea.Msg sent after every fetched page.
type ProgressMsg struct {
	Progress model.ScanProgress
}

// StateMsg is a tea.Msg sent on every state transition.
type StateMsg struct {
	State model.ScanState
}

// DoneMsg is a tea.Msg sent once when a scan finishes, successfully or not.
type DoneMsg struct {
	Result Result
	Err    error
}

// Result is the outcome of a successful scan.
type Result struct {
	Accounts []model.Account
	Summary  model.ScanSummary
	Message  string
}

// SourceFactory builds the account source for an API key.
type SourceFactory func(apiKey string) source.AccountSource

// Options configures a Scanner.
type Options struct {
	NewSource SourceFactory
	History   store.Store // optional
	Logger    *zap.Logger
	Now       func() time.Time
}

// Scanner owns the scan state machine. Only one scan runs at a time.
type Scanner struct {
	newSource SourceFactory
	history   store.Store
	logger    *zap.Logger
	now       func() time.Time
	events    chan tea.Msg

	mu        sync.Mutex
	state     model.ScanState
	progress  model.ScanProgress
	completed bool
}

// New creates a Scanner from opts.
func New(opts Options) *Scanner {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Scanner{
		newSource: opts.NewSource,
		history:   opts.History,
		logger:    logger,
		now:       now,
		events:    make(chan tea.Msg, 64),
	}
}

// State returns the current scan state.
func (s *Scanner) State() model.ScanState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Progress returns the counters of the current or last scan.
func (s *Scanner) Progress() model.ScanProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// Completed reports whether the last scan finished successfully. It is
// cleared when the next scan starts.
func (s *Scanner) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

// Active reports whether a scan is fetching or processing.
func (s *Scanner) Active() bool {
	st := s.State()
	return st == model.ScanFetching || st == model.ScanProcessing
}

// Start begins a scan in a background goroutine and returns the command
// that delivers its first event. Callers keep listening with WaitForEvent
// until a DoneMsg arrives.
func (s *Scanner) Start(ctx context.Context, apiKey string) (tea.Cmd, error) {
	src, err := s.begin(apiKey)
	if err != nil {
		return nil, err
	}
	s.send(StateMsg{State: model.ScanFetching})

	go func() {
		res, err := s.execute(ctx, src, s.send)
		s.send(DoneMsg{Result: res, Err: err})
	}()

	return s.WaitForEvent(), nil
}

// Run performs a scan synchronously. progress may be nil.
func (s *Scanner) Run(ctx context.Context, apiKey string, progress source.ProgressFunc) (Result, error) {
	src, err := s.begin(apiKey)
	if err != nil {
		return Result{}, err
	}
	return s.execute(ctx, src, func(msg tea.Msg) {
		if p, ok := msg.(ProgressMsg); ok && progress != nil {
			progress(p.Progress.Fetched)
		}
	})
}

// WaitForEvent returns a tea.Cmd that waits for the next scan event.
func (s *Scanner) WaitForEvent() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-s.events
		if !ok {
			return nil
		}
		return msg
	}
}

// begin moves the machine from idle to fetching.
func (s *Scanner) begin(apiKey string) (source.AccountSource, error) {
	if apiKey == "" {
		return nil, ErrNoCredential
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == model.ScanFetching || s.state == model.ScanProcessing {
		return nil, ErrScanInProgress
	}
	s.state = model.ScanFetching
	s.progress = model.ScanProgress{}
	s.completed = false
	return s.newSource(apiKey), nil
}

// execute fetches every page, normalizes the records and records the
// outcome. The state is back to idle when it returns.
func (s *Scanner) execute(
	ctx context.Context,
	src source.AccountSource,
	notify func(tea.Msg),
) (Result, error) {
	started := s.now()
	s.logger.Info("scan started")

	records, err := src.FetchAll(ctx, func(fetched int) {
		s.mu.Lock()
		s.progress.Fetched = fetched
		p := s.progress
		s.mu.Unlock()
		notify(ProgressMsg{Progress: p})
	})
	if err != nil {
		s.finish(false, notify)
		s.logger.Error("scan failed", zap.Error(err))
		s.record(ctx, model.ScanSummary{
			StartedAt:  started,
			FinishedAt: s.now(),
			Status:     model.ScanStatusFailed,
			Message:    err.Error(),
		}, nil)
		return Result{}, fmt.Errorf("fetching accounts: %w", err)
	}

	s.mu.Lock()
	s.state = model.ScanProcessing
	s.progress.TotalToProcess = len(records)
	p := s.progress
	s.mu.Unlock()
	notify(StateMsg{State: model.ScanProcessing})
	notify(ProgressMsg{Progress: p})

	accounts := account.Normalize(records)
	issues := account.WithErrors(accounts)

	summary := model.ScanSummary{
		StartedAt:  started,
		FinishedAt: s.now(),
		Total:      len(accounts),
		Errors:     len(issues),
		Status:     model.ScanStatusCompleted,
		Message:    CompletionMessage(len(accounts), len(issues)),
	}
	summary.ID = s.record(ctx, summary, issues)

	s.finish(true, notify)
	s.logger.Info("scan completed",
		zap.Int("accounts", summary.Total),
		zap.Int("errors", summary.Errors),
	)

	return Result{
		Accounts: accounts,
		Summary:  summary,
		Message:  summary.Message,
	}, nil
}

func (s *Scanner) finish(ok bool, notify func(tea.Msg)) {
	s.mu.Lock()
	s.state = model.ScanIdle
	s.completed = ok
	s.mu.Unlock()
	notify(StateMsg{State: model.ScanIdle})
}

// record writes summary to the history store and returns its ID. Failures
// are logged only.
func (s *Scanner) record(ctx context.Context, summary model.ScanSummary, issues []model.Account) string {
	if s.history == nil {
		return ""
	}
	if summary.ID == "" {
		summary.ID = uuid.NewString()
	}
	if err := s.history.RecordScan(context.WithoutCancel(ctx), summary, issues); err != nil {
		s.logger.Warn("recording scan history", zap.String("scan_id", summary.ID), zap.Error(err))
		return ""
	}
	return summary.ID
}

// send delivers an event to WaitForEvent. Progress events are dropped
// when the channel is full; state and completion events never are.
func (s *Scanner) send(msg tea.Msg) {
	if _, ok := msg.(ProgressMsg); ok {
		select {
		case s.events <- msg:
		default:
		}
		return
	}
	s.events <- msg
}

// CompletionMessage is the notification shown when a scan succeeds.
func CompletionMessage(total, errs int) string {
	if total == 0 {
		return "Scan complete. No accounts found."
	}
	return fmt.Sprintf("Scan complete. Found %d accounts with %d issue(s).", total, errs)
}

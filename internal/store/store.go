package store

import (
	"context"

	"github.com/nhle/healthmon/internal/model"
)

// Store defines the persistence interface for the scan history. History
// is an audit trail only: the account list shown after a scan is always
// rebuilt from a fresh fetch.
type Store interface {
	// RecordScan stores a finished scan and the accounts that had errors.
	RecordScan(ctx context.Context, summary model.ScanSummary, issues []model.Account) error

	// ListScans returns the most recent scans, newest first. A limit of
	// zero or less returns every scan.
	ListScans(ctx context.Context, limit int) ([]model.ScanSummary, error)

	// GetScanIssues returns the erroring accounts recorded for a scan in
	// their original order.
	GetScanIssues(ctx context.Context, scanID string) ([]model.Account, error)
}

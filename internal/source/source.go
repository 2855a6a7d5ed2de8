// Package source defines the contract between the scan pipeline and the
// sending platform that owns the email accounts.
package source

import (
	"context"

	"github.com/nhle/healthmon/internal/record"
)

// ProgressFunc is called after every non-empty page with the number of
// records fetched so far in the current scan.
type ProgressFunc func(fetched int)

// AccountDetail is a single account as returned by the lookup endpoint.
type AccountDetail struct {
	// Record is the decoded object; empty when the body was not an object.
	Record record.Record

	// JSON is the body re-encoded with two-space indentation.
	JSON string
}

// AccountSource is implemented by platform clients.
type AccountSource interface {
	// FetchAll retrieves every account record, page by page, in the
	// order the platform returns them. Any failed page fails the call.
	FetchAll(ctx context.Context, progress ProgressFunc) ([]record.Record, error)

	// FetchAccount retrieves one raw account for inspection.
	FetchAccount(ctx context.Context, id string) (*AccountDetail, error)
}

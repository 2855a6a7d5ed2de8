package model

import "time"

// ScanState is the lifecycle phase of a single scan.
type ScanState int

const (
	ScanIdle ScanState = iota
	ScanFetching
	ScanProcessing
	ScanCompleted
)

// String returns the lower-case state name.
func (s ScanState) String() string {
	switch s {
	case ScanFetching:
		return "fetching"
	case ScanProcessing:
		return "processing"
	case ScanCompleted:
		return "completed"
	default:
		return "idle"
	}
}

// ScanProgress counts records during a scan. Both fields only grow while
// a scan is running.
type ScanProgress struct {
	Fetched        int `json:"fetched"`
	TotalToProcess int `json:"total_to_process"`
}

// Scan outcome values stored in the history.
const (
	ScanStatusCompleted = "completed"
	ScanStatusFailed    = "failed"
)

// ScanSummary is the history entry written after each scan finishes.
type ScanSummary struct {
	ID         string    `json:"id" db:"id"`
	StartedAt  time.Time `json:"started_at" db:"started_at"`
	FinishedAt time.Time `json:"finished_at" db:"finished_at"`
	Total      int       `json:"total" db:"total"`
	Errors     int       `json:"errors" db:"errors"`
	Status     string    `json:"status" db:"status"`
	Message    string    `json:"message" db:"message"`
}

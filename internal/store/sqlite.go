package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/healthmon/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// A single connection keeps ":memory:" databases shared and
	// serializes writers.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// RecordScan inserts a scan summary and its erroring accounts in one
// transaction. An empty summary ID is replaced with a new UUID.
func (s *SQLiteStore) RecordScan(
	ctx context.Context,
	summary model.ScanSummary,
	issues []model.Account,
) error {
	if summary.ID == "" {
		summary.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO scans (
			id, started_at, finished_at, total, errors, status, message
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		summary.ID, summary.StartedAt.UTC(), summary.FinishedAt.UTC(),
		summary.Total, summary.Errors, summary.Status, summary.Message,
	)
	if err != nil {
		return fmt.Errorf("inserting scan %s: %w", summary.ID, err)
	}

	if len(issues) > 0 {
		stmt, err := tx.PreparexContext(ctx, `
			INSERT INTO scan_issues (
				scan_id, position, account_id, client, protocol, email, error
			) VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("preparing issue insert: %w", err)
		}
		defer stmt.Close()

		for i, a := range issues {
			_, err := stmt.ExecContext(ctx,
				summary.ID, i, a.ID, a.Client, a.Protocol, a.Email, a.Error,
			)
			if err != nil {
				return fmt.Errorf("inserting issue %s for scan %s: %w", a.ID, summary.ID, err)
			}
		}
	}

	return tx.Commit()
}

// ListScans returns recorded scans, newest first.
func (s *SQLiteStore) ListScans(
	ctx context.Context,
	limit int,
) ([]model.ScanSummary, error) {
	query := `
		SELECT id, started_at, finished_at, total, errors, status, message
		FROM scans
		ORDER BY started_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	var scans []model.ScanSummary
	if err := s.db.SelectContext(ctx, &scans, query); err != nil {
		return nil, fmt.Errorf("querying scans: %w", err)
	}
	return scans, nil
}

// GetScanIssues returns the erroring accounts recorded for scanID.
func (s *SQLiteStore) GetScanIssues(
	ctx context.Context,
	scanID string,
) ([]model.Account, error) {
	var issues []model.Account
	err := s.db.SelectContext(ctx, &issues, `
		SELECT account_id, client, protocol, email, error
		FROM scan_issues
		WHERE scan_id = ?
		ORDER BY position`, scanID)
	if err != nil {
		return nil, fmt.Errorf("querying issues for scan %s: %w", scanID, err)
	}
	return issues, nil
}

package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS scans (
	id          TEXT PRIMARY KEY,
	started_at  DATETIME NOT NULL,
	finished_at DATETIME NOT NULL,
	total       INTEGER NOT NULL DEFAULT 0,
	errors      INTEGER NOT NULL DEFAULT 0,
	status      TEXT NOT NULL CHECK(status IN ('completed', 'failed')),
	message     TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS scan_issues (
	scan_id    TEXT NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
	position   INTEGER NOT NULL,
	account_id TEXT NOT NULL,
	client     TEXT NOT NULL,
	protocol   TEXT NOT NULL,
	email      TEXT NOT NULL,
	error      TEXT NOT NULL,
	PRIMARY KEY (scan_id, position)
);

CREATE INDEX IF NOT EXISTS idx_scans_started_at ON scans(started_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_scan_issues_email ON scan_issues(email);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}

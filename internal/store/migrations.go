package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create interviews and interview messages",
		SQL: `
			CREATE TABLE interviews (
				id           TEXT PRIMARY KEY,
				role_id      TEXT NOT NULL,
				domain       TEXT NOT NULL,
				mode         TEXT NOT NULL,
				final_score  REAL NOT NULL,
				turns        INTEGER NOT NULL,
				completed_at TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_interviews_role ON interviews (role_id);
			CREATE INDEX idx_interviews_completed ON interviews (completed_at);

			CREATE TABLE interview_messages (
				id           INTEGER PRIMARY KEY AUTOINCREMENT,
				interview_id TEXT NOT NULL REFERENCES interviews(id) ON DELETE CASCADE,
				message_id   TEXT NOT NULL,
				kind         TEXT NOT NULL,
				content      TEXT NOT NULL,
				score        REAL,
				timestamp    TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_interview_messages ON interview_messages (interview_id, id);
		`,
	},
}

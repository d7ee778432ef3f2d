package db

import "fmt"

// migrate runs database migrations. The derived columns are nullable so rows
// imported from older exports are repaired on read.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS tasks (
			id               TEXT PRIMARY KEY,
			name             TEXT,
			start_time       INTEGER,
			end_time         INTEGER,
			priority         TEXT NOT NULL DEFAULT 'flexible',
			completed        INTEGER NOT NULL DEFAULT 0,
			date             TEXT NOT NULL,
			crosses_midnight INTEGER,
			duration         INTEGER,
			created_at       TEXT,
			version          INTEGER NOT NULL DEFAULT 1
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_date ON tasks(date, start_time);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tasks table: %w", err)
	}

	return nil
}

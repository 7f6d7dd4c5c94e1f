package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Runs table - one row per start/stop period of gesture control
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			surface_width REAL NOT NULL,
			surface_height REAL NOT NULL,
			started_at DATETIME NOT NULL,
			stopped_at DATETIME
		)`,

		// Events table - every click and right-click fired during a run
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			run_id TEXT REFERENCES runs(id) ON DELETE CASCADE,
			action TEXT NOT NULL CHECK(action IN ('click', 'right-click')),
			x REAL NOT NULL,
			y REAL NOT NULL,
			created_at DATETIME NOT NULL
		)`,

		// Bindings table - plugin action executed when a pointer action fires
		`CREATE TABLE IF NOT EXISTS bindings (
			id TEXT PRIMARY KEY,
			action TEXT NOT NULL UNIQUE CHECK(action IN ('click', 'right-click')),
			plugin_name TEXT NOT NULL,
			plugin_action TEXT NOT NULL,
			config TEXT NOT NULL DEFAULT '{}',
			enabled INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_events_run_id ON events(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_created_at ON events(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}

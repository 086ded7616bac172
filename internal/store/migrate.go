package store

import "fmt"

// SchemaVersion is the latest schema version known to this build.
const SchemaVersion = 1

var migrations = []struct {
	version int
	sql     string
}{
	{1, `
		-- Provider responses keyed by request URL.
		CREATE TABLE IF NOT EXISTS cached_responses (
			url TEXT PRIMARY KEY,
			body BLOB,
			etag TEXT,
			created_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS repositories (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			owner TEXT NOT NULL,
			provider TEXT NOT NULL,
			last_commit_at TEXT,
			last_release_at TEXT,
			created_at TEXT NOT NULL,
			UNIQUE(name, owner, provider)
		);

		CREATE TABLE IF NOT EXISTS collections (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			protected BOOLEAN NOT NULL DEFAULT FALSE,
			password_hash BLOB,
			created_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS tracked_repositories (
			collection_id TEXT NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
			repository_id TEXT NOT NULL REFERENCES repositories(id) ON DELETE CASCADE,
			PRIMARY KEY (collection_id, repository_id)
		);

		CREATE INDEX IF NOT EXISTS idx_tracked_repositories_repository ON tracked_repositories(repository_id);
	`},
}

// migrate runs database migrations.
func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var currentVersion int
	err = s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", m.version, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}
		s.logger.Info("Applied database migration", "version", m.version)
	}

	return nil
}

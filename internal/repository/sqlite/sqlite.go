// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY modernc.org/sqlite?
// It's a pure Go translation of SQLite — no CGo, no C compiler, works
// everywhere Go works. The driver registers itself with database/sql under
// the name "sqlite" via the blank import below.
package sqlite

import (
	"database/sql"
	"fmt"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and owns the per-table stores that
// implement the repository interfaces.
type DB struct {
	conn *sql.DB

	// Identities and Snips share the pool; each implements one
	// repository interface.
	Identities *IdentityStore
	Snips      *SnipStore
}

// New creates a SQLite database connection and runs migrations.
//
// dbPath examples:
//   - "data/snipshare.db" → file-based database (persistent)
//   - ":memory:"          → in-memory database (tests, lost on close)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// SQLite allows one writer at a time. Capping the pool at a single
	// connection serialises writers in the pool instead of surfacing
	// SQLITE_BUSY, and keeps ":memory:" databases coherent (each new
	// connection to ":memory:" would otherwise be a separate database).
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in progress.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	// Wait up to 5s for a lock instead of failing immediately.
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting busy timeout: %w", err)
	}

	db := &DB{
		conn:       conn,
		Identities: &IdentityStore{conn: conn},
		Snips:      &SnipStore{conn: conn},
	}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the three collections: identities, snips, user_roles.
//
// CREATE TABLE IF NOT EXISTS is idempotent, so migrate is safe to run on
// every startup.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS identities (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL DEFAULT '',
			github_id     INTEGER NOT NULL DEFAULT 0,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_identities_github_id
			ON identities(github_id) WHERE github_id != 0;
	`)
	if err != nil {
		return fmt.Errorf("creating identities table: %w", err)
	}

	// UNIQUE(owner_id, name) backs the per-owner name rule — the service
	// checks first for a clean error, the constraint closes the race.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS snips (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			content    TEXT NOT NULL DEFAULT '',
			owner_id   TEXT NOT NULL REFERENCES identities(id),
			public     INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(owner_id, name)
		);
		CREATE INDEX IF NOT EXISTS idx_snips_owner_id ON snips(owner_id);
	`)
	if err != nil {
		return fmt.Errorf("creating snips table: %w", err)
	}

	// UNIQUE(snip_id, user_id) is what makes the grant an upsert: at most
	// one assignment per (snip, user) can ever exist.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS user_roles (
			id      TEXT PRIMARY KEY,
			snip_id TEXT NOT NULL REFERENCES snips(id),
			user_id TEXT NOT NULL REFERENCES identities(id),
			role    TEXT NOT NULL,
			UNIQUE(snip_id, user_id)
		);
		CREATE INDEX IF NOT EXISTS idx_user_roles_snip_id ON user_roles(snip_id);
	`)
	if err != nil {
		return fmt.Errorf("creating user_roles table: %w", err)
	}

	return nil
}

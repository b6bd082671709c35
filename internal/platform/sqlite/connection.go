package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	book_id TEXT NOT NULL,
	record_id TEXT NOT NULL UNIQUE,
	code INTEGER NOT NULL,
	label TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_accounts_book ON accounts(book_id, id);

CREATE TABLE IF NOT EXISTS journal_entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	book_id TEXT NOT NULL,
	journal_entry_id TEXT NOT NULL,
	date TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	tags TEXT NOT NULL DEFAULT '[]',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	UNIQUE(book_id, journal_entry_id)
);

CREATE TABLE IF NOT EXISTS journal_lines (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	journal_entry_row INTEGER NOT NULL REFERENCES journal_entries(id) ON DELETE CASCADE,
	entry_id TEXT NOT NULL,
	account INTEGER NOT NULL,
	debit TEXT NOT NULL DEFAULT '',
	credit TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_journal_lines_entry ON journal_lines(journal_entry_row, id);
`

// DB is an open ledger database.
type DB struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open opens (creating if needed) the SQLite ledger database at path and applies the
// schema. ":memory:" opens a private in-memory database.
func Open(ctx context.Context, path string, logger *slog.Logger) (*DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps in-memory databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	for _, stmt := range []string{"PRAGMA foreign_keys = ON", schema} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	logger.Info("sqlite database opened", "path", path)
	return &DB{db: db, path: path, logger: logger}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

// AccountRepository returns the account.Repository backed by this database.
func (d *DB) AccountRepository() *AccountRepository {
	return &AccountRepository{db: d.db, logger: d.logger}
}

// JournalRepository returns the journal.Repository backed by this database.
func (d *DB) JournalRepository() *JournalRepository {
	return &JournalRepository{db: d.db, logger: d.logger}
}

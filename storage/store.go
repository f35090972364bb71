// Package storage is deskmate's conversation store: the durable log of chat
// turns, tasks, reminders, and the activity audit trail, backed by a single
// sqlite database.
//
// The store is the only mutable state shared between concurrent requests.
// database/sql serializes access through its connection pool and sqlite's
// own transaction guarantees; callers never need additional locking.
package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Store provides CRUD access to deskmate's persistent records.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// Open opens (creating if needed) the assistant database under dataDir.
func Open(dataDir string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	dbPath := filepath.Join(dataDir, "memory.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db, log: logger}

	if err := s.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS chat_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		language TEXT NOT NULL DEFAULT 'en',
		timestamp DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		task_text TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		due_date DATETIME,
		created_at DATETIME NOT NULL,
		completed_at DATETIME
	);
	CREATE TABLE IF NOT EXISTS reminders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		reminder_text TEXT NOT NULL,
		reminder_time DATETIME,
		triggered INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS activity_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action_type TEXT NOT NULL,
		details TEXT,
		timestamp DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_chat_history_timestamp ON chat_history(timestamp);
	CREATE INDEX IF NOT EXISTS idx_reminders_triggered ON reminders(triggered);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ABOUTME: SQLite implementation of the SlotStore interface using modernc.org/sqlite
// ABOUTME: Persists the conversation snapshot as a single JSON value in a kv slot table

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultSlotKey is the slot the snapshot is stored under when the config
// does not name one. Matches the key the original web client used.
const DefaultSlotKey = "chat-conversations"

// SQLiteStore implements SlotStore on a single-file SQLite database.
type SQLiteStore struct {
	db      *sql.DB
	slotKey string
	logger  *slog.Logger
}

// NewSQLiteStore opens (or creates) the database at path and prepares the
// slot schema. Parent directories are created if needed.
func NewSQLiteStore(path, slotKey string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	if slotKey == "" {
		slotKey = DefaultSlotKey
	}

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		slotKey: slotKey,
		logger:  logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path, "slot", slotKey)
	return s, nil
}

// createSchema creates the slot table if it doesn't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS slots (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load reads the persisted snapshot. Absent or unparsable data yields an
// empty snapshot; corruption is logged, never surfaced.
func (s *SQLiteStore) Load(ctx context.Context) *Snapshot {
	var raw string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM slots WHERE key = ?", s.slotKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return NewSnapshot()
	}
	if err != nil {
		s.logger.Warn("failed to read slot, starting empty", "error", err, "slot", s.slotKey)
		return NewSnapshot()
	}

	snap := NewSnapshot()
	if err := json.Unmarshal([]byte(raw), snap); err != nil {
		s.logger.Warn("corrupt slot data, starting empty", "error", err, "slot", s.slotKey)
		return NewSnapshot()
	}
	return snap
}

// Save writes the entire snapshot as one JSON value. An empty snapshot
// removes the slot row so storage stays proportional to actual content.
func (s *SQLiteStore) Save(ctx context.Context, snap *Snapshot) error {
	if snap == nil || snap.Len() == 0 {
		if _, err := s.db.ExecContext(ctx,
			"DELETE FROM slots WHERE key = ?", s.slotKey); err != nil {
			return fmt.Errorf("clearing slot: %w", err)
		}
		return nil
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.slotKey, string(raw), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("writing slot: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

package session

import (
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// tokenKey is the fixed name the bearer token is stored under.
const tokenKey = "spotify_token"

// Store persists a single opaque bearer token.
//
// Read never fails: an absent or unreadable token is reported as ok=false.
// A token is trusted until the backend rejects it; there is no expiry
// tracking or refresh logic.
type Store interface {
	Read() (string, bool)
	Write(token string) error
	Clear() error
}

// SQLiteStore is the durable [Store] implementation backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a SQLiteStore, ensuring the sessions table exists.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	query := `
		CREATE TABLE IF NOT EXISTS sessions (
			key TEXT PRIMARY KEY,
			token TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`
	if _, err := db.Exec(query); err != nil {
		return nil, fmt.Errorf("failed to create sessions table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Read returns the persisted token, if any.
func (s *SQLiteStore) Read() (string, bool) {
	var token string
	err := s.db.QueryRow("SELECT token FROM sessions WHERE key = ?", tokenKey).Scan(&token)
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

// Write persists a token, overwriting any previous value.
func (s *SQLiteStore) Write(token string) error {
	query := `
		INSERT INTO sessions (key, token, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at
	`
	if _, err := s.db.Exec(query, tokenKey, token, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	return nil
}

// Clear removes the persisted token.
func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec("DELETE FROM sessions WHERE key = ?", tokenKey); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}

// MemoryStore is an in-memory [Store] for tests and ephemeral sessions.
type MemoryStore struct {
	mu    sync.Mutex
	token string
	set   bool
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Read() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set || s.token == "" {
		return "", false
	}
	return s.token, true
}

func (s *MemoryStore) Write(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.set = true
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.set = false
	return nil
}

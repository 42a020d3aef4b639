package prefs

import (
	"database/sql"
	"errors"
	"sync"
)

// ErrNotFound is returned when a scope/key pair has no stored value.
var ErrNotFound = errors.New("preference not found")

// KeySignatureName remembers the name a crew member signs with, per user
// scope. Read once at session start, written only on explicit opt-in.
const KeySignatureName = "signature_name"

// Store is a scoped key-value store for small per-user preferences. It is a
// collaborator of the form engine, never core state.
type Store interface {
	Get(scope, key string) (string, error)
	Put(scope, key, value string) error
}

type sqliteStore struct {
	db *sql.DB
}

// NewSQLite returns a Store backed by the preference table.
func NewSQLite(db *sql.DB) Store {
	return &sqliteStore{db}
}

func (s *sqliteStore) Get(scope, key string) (string, error) {
	var value string
	err := s.db.
		QueryRow("SELECT value FROM preference WHERE scope = ? AND key = ?", scope, key).
		Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return value, err
}

func (s *sqliteStore) Put(scope, key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO preference (scope, key, value) VALUES (?, ?, ?)
		ON CONFLICT (scope, key) DO UPDATE SET value = excluded.value`,
		scope, key, value,
	)
	return err
}

type memoryStore struct {
	mu     sync.Mutex
	values map[[2]string]string
}

// Memory returns an in-process Store, used in tests and whenever no database
// is wired in.
func Memory() Store {
	return &memoryStore{values: make(map[[2]string]string)}
}

func (s *memoryStore) Get(scope, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[[2]string{scope, key}]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *memoryStore) Put(scope, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[[2]string{scope, key}] = value
	return nil
}

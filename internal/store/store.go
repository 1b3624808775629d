// Package store provides local key-value persistence backed by SQLite.
// It replaces per-browser storage with a durable on-disk database so
// shortlists and settings survive across sessions and machines sharing
// the same home directory.
package store

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"

	"smarthire/internal/errors"
	"smarthire/internal/types"
)

// Well-known storage keys
const (
	KeyShortlist          = "smarthire_shortlist"
	KeyLastJobDescription = "lastJobDescription"
	KeyLastResults        = "lastResults"
	KeyLastRunID          = "lastRunID"
	KeyTheme              = "theme"
	KeyScoreThreshold     = "scoreThreshold"
	KeyGenAIEnabled       = "genAIEnabled"
)

// Store is a SQLite-backed key-value store
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the store at the given path
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.NewStorageError(errors.ErrCodeStorageFailed, "failed to create storage directory", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed, "failed to open database", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed, "failed to initialize schema", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the value for key. Missing keys return ("", false, nil).
func (s *Store) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.NewStorageError(errors.ErrCodeStorageFailed, "failed to read key "+key, err)
	}
	return value, true, nil
}

// Put stores value under key, replacing any existing value
func (s *Store) Put(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return errors.NewStorageError(errors.ErrCodeStorageFailed, "failed to write key "+key, err)
	}
	return nil
}

// Delete removes key if present
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return errors.NewStorageError(errors.ErrCodeStorageFailed, "failed to delete key "+key, err)
	}
	return nil
}

// GetJSON unmarshals the stored value for key into dst.
// Returns false if the key is absent.
func (s *Store) GetJSON(key string, dst interface{}) (bool, error) {
	raw, ok, err := s.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, errors.NewStorageError(errors.ErrCodeStorageFailed, "failed to decode stored value for "+key, err)
	}
	return true, nil
}

// PutJSON marshals v and stores it under key
func (s *Store) PutJSON(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.NewStorageError(errors.ErrCodeStorageFailed, "failed to encode value for "+key, err)
	}
	return s.Put(key, string(raw))
}

// LoadSettings reads persisted settings on top of the given defaults,
// keeping the default for any missing or malformed key. BlindMode
// always starts off.
func (s *Store) LoadSettings(defaults types.Settings) (types.Settings, error) {
	settings := defaults
	settings.BlindMode = false

	if theme, ok, err := s.Get(KeyTheme); err != nil {
		return settings, err
	} else if ok && (theme == types.ThemeDark || theme == types.ThemeLight) {
		settings.Theme = theme
	}

	if raw, ok, err := s.Get(KeyScoreThreshold); err != nil {
		return settings, err
	} else if ok {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 && n <= 100 {
			settings.ScoreThreshold = n
		}
	}

	if raw, ok, err := s.Get(KeyGenAIEnabled); err != nil {
		return settings, err
	} else if ok {
		settings.GenAIEnabled = raw == "true"
	}

	return settings, nil
}

// SaveSettings persists the durable settings. BlindMode is session-only
// and intentionally not written.
func (s *Store) SaveSettings(settings types.Settings) error {
	if err := s.Put(KeyTheme, settings.Theme); err != nil {
		return err
	}
	if err := s.Put(KeyScoreThreshold, strconv.Itoa(settings.ScoreThreshold)); err != nil {
		return err
	}
	return s.Put(KeyGenAIEnabled, strconv.FormatBool(settings.GenAIEnabled))
}

package localcache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Slot names used by the preference store. They mirror the browser-local
// storage keys of the original deployment so an export/import stays stable.
const (
	SlotSaved     = "vok_saved_articles"
	SlotReadLater = "vok_read_later_articles"
	SlotReactions = "vok_reactions"
	SlotAnonID    = "vok_anon_id"
)

// Cache is a named-slot key/value store backed by a local SQLite file.
// Each slot holds one JSON-serialized snapshot.
type Cache struct {
	db *sql.DB
}

// Open creates the cache file (and parent directory) if needed.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}
	db.SetMaxOpenConns(1)
	c := &Cache{db: db}
	if err := c.init(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) init() error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS slots (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing cache schema: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the raw snapshot stored under key, or "" when absent.
func (c *Cache) Get(key string) (string, error) {
	var value string
	err := c.db.QueryRow("SELECT value FROM slots WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading slot %s: %w", key, err)
	}
	return value, nil
}

// Set overwrites the snapshot stored under key.
func (c *Cache) Set(key, value string) error {
	_, err := c.db.Exec(`
		INSERT INTO slots (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("writing slot %s: %w", key, err)
	}
	return nil
}

// Delete removes a slot. Missing slots are not an error.
func (c *Cache) Delete(key string) error {
	_, err := c.db.Exec("DELETE FROM slots WHERE key = ?", key)
	return err
}

package prefs

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"
)

// darkModeKey is the fixed key the dark-mode flag is stored under.
const darkModeKey = "darkMode"

// Store persists local UI preferences in a BoltDB file. Preferences stay on
// this host; they are deliberately not part of the shared task collection.
type Store struct {
	db     *bolt.DB
	bucket []byte
}

// Open initializes the BoltDB file and ensures the bucket exists.
func Open(path string, bucket string) (*Store, error) {
	if bucket == "" {
		bucket = "preferences"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:     db,
		bucket: []byte(bucket),
	}, nil
}

// DarkMode returns the persisted flag. found is false when the flag was
// never written, in which case the caller falls back to its default.
func (s *Store) DarkMode() (enabled bool, found bool, err error) {
	if s == nil || s.db == nil {
		return false, false, bolt.ErrDatabaseNotOpen
	}
	err = s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(s.bucket).Get([]byte(darkModeKey))
		if raw == nil {
			return nil
		}
		parsed, parseErr := strconv.ParseBool(string(raw))
		if parseErr != nil {
			return parseErr
		}
		enabled = parsed
		found = true
		return nil
	})
	return enabled, found, err
}

// SetDarkMode persists the flag. Written on every toggle.
func (s *Store) SetDarkMode(enabled bool) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(darkModeKey), []byte(strconv.FormatBool(enabled)))
	})
}

// Healthy reports whether the underlying database answers a read.
func (s *Store) Healthy() bool {
	if s == nil || s.db == nil {
		return false
	}
	return s.db.View(func(tx *bolt.Tx) error { return nil }) == nil
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

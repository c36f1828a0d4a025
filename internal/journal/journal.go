// Package journal records the outcome of every run in a BoltDB file next to
// the cache. It is write-mostly: the history command is the only reader.
//
// Keys are UUIDv7 strings, so byte order is time order and listing newest
// first is a reverse cursor walk.
package journal

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"
)

const (
	// FileName is the journal database inside the config directory
	FileName = "history.db"

	// bucketName is the BoltDB bucket name for run entries
	bucketName = "runs"
)

// Journal stores run entries using BoltDB
type Journal struct {
	db *bbolt.DB
}

// Open opens or creates dir/history.db
func Open(dir string) (*Journal, error) {
	dbPath := filepath.Join(dir, FileName)
	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	// Create bucket if it doesn't exist
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create journal bucket: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close closes the journal database
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}

	return nil
}

// Record appends an entry, assigning its ID and time when unset
func (j *Journal) Record(entry Entry) (Entry, error) {
	if entry.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return entry, fmt.Errorf("failed to generate entry id: %w", err)
		}

		entry.ID = id.String()
	}

	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}

	err := j.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))

		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}

		return b.Put([]byte(entry.ID), data)
	})
	if err != nil {
		return entry, fmt.Errorf("failed to store journal entry: %w", err)
	}

	return entry, nil
}

// List returns up to limit entries, newest first. A limit <= 0 returns all.
func (j *Journal) List(limit int) ([]Entry, error) {
	var entries []Entry

	err := j.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(bucketName)).Cursor()

		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(entries) >= limit {
				break
			}

			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("failed to decode entry %s: %w", k, err)
			}

			entries = append(entries, entry)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// Count returns the number of stored entries
func (j *Journal) Count() (int, error) {
	var count int

	err := j.db.View(func(tx *bbolt.Tx) error {
		count = tx.Bucket([]byte(bucketName)).Stats().KeyN
		return nil
	})

	return count, err
}

// Clear removes all entries
func (j *Journal) Clear() error {
	return j.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketName)); err != nil {
			return err
		}

		_, err := tx.CreateBucket([]byte(bucketName))
		return err
	})
}

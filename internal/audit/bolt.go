package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

var bucketInvocations = []byte("invocations")

// BoltStore implements Store on a local bbolt file. It is the default
// backend: no external services, one 0600 file under the user's home.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) a bbolt database at the given path and
// ensures the invocations bucket exists.
func NewBoltStore(path string) (*BoltStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create audit directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}

	if err = db.Update(func(tx *bolt.Tx) error {
		_, bErr := tx.CreateBucketIfNotExists(bucketInvocations)
		return bErr
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Append writes one entry. Entries are keyed by timestamp + UUID for
// ordering and uniqueness.
func (s *BoltStore) Append(ctx context.Context, entry *Entry) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		key := fmt.Sprintf("%s_%s", entry.Timestamp.UTC().Format(time.RFC3339Nano), uuid.New().String())
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal audit entry: %w", err)
		}
		return tx.Bucket(bucketInvocations).Put([]byte(key), data)
	})
}

// List returns the most recent entries, up to the given limit, newest first.
func (s *BoltStore) List(ctx context.Context, limit int) ([]*Entry, error) {
	var entries []*Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketInvocations).Cursor()

		// Keys are time-sorted lexicographically, so walk backwards.
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(entries) >= limit {
				break
			}
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				return err
			}
			entries = append(entries, &entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Sort newest first (should already be via cursor, but be explicit).
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	return entries, nil
}

// Cleanup removes entries older than the given age.
func (s *BoltStore) Cleanup(ctx context.Context, olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketInvocations)
		c := b.Cursor()

		var stale [][]byte
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				stale = append(stale, append([]byte(nil), k...))
				continue
			}
			if entry.Timestamp.Before(cutoff) {
				stale = append(stale, append([]byte(nil), k...))
			}
		}

		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// Ping verifies the database file is still usable.
func (s *BoltStore) Ping(ctx context.Context) error {
	return s.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketInvocations) == nil {
			return fmt.Errorf("invocations bucket missing")
		}
		return nil
	})
}

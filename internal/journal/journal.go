// Package journal keeps a local history of sync runs so operators can
// inspect past outcomes without digging through log files.
package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"docsync/internal/domain"
)

var bucketRuns = []byte("runs")

// Journal persists run summaries in a BoltDB file.
type Journal struct {
	db *bolt.DB
}

// Open opens (or creates) the journal at path, creating parent directories
// as needed.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open journal db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRuns)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// Append records one run summary. Keys are the run start time in
// RFC3339Nano, so bucket order is chronological.
func (j *Journal) Append(s *domain.Summary) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode run summary: %w", err)
	}
	key := []byte(s.StartedAt.UTC().Format(time.RFC3339Nano))
	return j.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRuns).Put(key, data)
	})
}

// Recent returns up to n run summaries, newest first.
func (j *Journal) Recent(n int) ([]domain.Summary, error) {
	var runs []domain.Summary
	err := j.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketRuns).Cursor()
		for k, v := c.Last(); k != nil && len(runs) < n; k, v = c.Prev() {
			var s domain.Summary
			if err := json.Unmarshal(v, &s); err != nil {
				return fmt.Errorf("corrupt journal entry %q: %w", k, err)
			}
			runs = append(runs, s)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return runs, nil
}

// Package cache keeps the last downloaded catalog in a local bbolt database
// so a process can start without the network and refresh on a TTL.
package cache

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/crimson-sun/industry-codes/internal/model"
)

// Bucket keys
var (
	bucketCatalog = []byte("catalog")
	keyDocument   = []byte("document")
	keyFetchedAt  = []byte("fetched_at")
)

// Entry is a cached document and the time it was fetched.
type Entry struct {
	Document  *model.Document
	FetchedAt time.Time
}

// Store persists catalog documents keyed by source. Each key gets its own
// sub-bucket under "catalog".
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) a bbolt database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put replaces the entry for key.
func (s *Store) Put(key string, doc *model.Document, fetchedAt time.Time) error {
	if doc == nil {
		return fmt.Errorf("nil document")
	}
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	ts, err := fetchedAt.UTC().MarshalText()
	if err != nil {
		return fmt.Errorf("marshal fetched_at: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		root, err := tx.CreateBucketIfNotExists(bucketCatalog)
		if err != nil {
			return err
		}
		b, err := root.CreateBucketIfNotExists([]byte(key))
		if err != nil {
			return err
		}
		if err := b.Put(keyDocument, docJSON); err != nil {
			return err
		}
		return b.Put(keyFetchedAt, ts)
	})
}

// Get returns the entry for key, or nil, nil when nothing is cached.
func (s *Store) Get(key string) (*Entry, error) {
	var docJSON, ts []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket(bucketCatalog)
		if root == nil {
			return nil
		}
		b := root.Bucket([]byte(key))
		if b == nil {
			return nil
		}
		// bbolt slices are only valid inside the transaction
		if v := b.Get(keyDocument); v != nil {
			docJSON = append([]byte(nil), v...)
		}
		if v := b.Get(keyFetchedAt); v != nil {
			ts = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if docJSON == nil {
		return nil, nil
	}

	var e Entry
	if err := json.Unmarshal(docJSON, &e.Document); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	if ts != nil {
		if err := e.FetchedAt.UnmarshalText(ts); err != nil {
			return nil, fmt.Errorf("parse fetched_at: %w", err)
		}
	}
	return &e, nil
}

// Delete removes the entry for key. Missing keys are not an error.
func (s *Store) Delete(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket(bucketCatalog)
		if root == nil || root.Bucket([]byte(key)) == nil {
			return nil
		}
		return root.DeleteBucket([]byte(key))
	})
}

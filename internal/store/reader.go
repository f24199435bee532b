package store

import (
	"bytes"
	"fmt"
	"os"
	"time"

	bolt "go.etcd.io/bbolt"
)

// ReaderConfig configures a Reader
type ReaderConfig struct {
	Path        string
	LockTimeout time.Duration // wait for a writer to release the file, default 1s
}

// Reader is a shared read-only handle on a store file. Values returned by
// a Reader are copies and remain valid after the call.
type Reader struct {
	path   string
	db     *bolt.DB
	closed bool
}

// OpenReader opens an existing store for reading.
func OpenReader(path string) (*Reader, error) {
	return NewReader(ReaderConfig{Path: path})
}

// NewReader opens an existing store for reading.
func NewReader(cfg ReaderConfig) (*Reader, error) {
	path := NormalizePath(cfg.Path)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("open %s: %w", path, ErrStoreNotFound)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	db, err := openBolt(path, true, cfg.LockTimeout, false)
	if err != nil {
		return nil, err
	}
	return &Reader{path: path, db: db}, nil
}

// Path returns the normalized store path
func (r *Reader) Path() string {
	return r.path
}

// DB returns the underlying bbolt handle for callers that need raw
// transactions. It must not be used after Close.
func (r *Reader) DB() *bolt.DB {
	return r.db
}

// view runs fn against the records bucket, which may be nil for a store
// that was never initialized.
func (r *Reader) view(fn func(b *bolt.Bucket) error) error {
	if r.closed {
		return ErrClosed
	}
	return r.db.View(func(tx *bolt.Tx) error {
		return fn(tx.Bucket(recordsBucket))
	})
}

// Get returns the value stored under key.
func (r *Reader) Get(key []byte) ([]byte, error) {
	var (
		value []byte
		found bool
	)
	err := r.view(func(b *bolt.Bucket) error {
		value, found = lookup(b, key)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%q: %w", key, ErrKeyNotFound)
	}
	return value, nil
}

// Has reports whether key is stored.
func (r *Reader) Has(key []byte) (bool, error) {
	var found bool
	err := r.view(func(b *bolt.Bucket) error {
		_, found = lookup(b, key)
		return nil
	})
	return found, err
}

// Len returns the number of stored records.
func (r *Reader) Len() (int, error) {
	var n int
	err := r.view(func(b *bolt.Bucket) error {
		if b != nil {
			n = b.Stats().KeyN
		}
		return nil
	})
	return n, err
}

// ForEach calls fn for every record in key order. Iteration stops at the
// first error fn returns, which ForEach then returns.
func (r *Reader) ForEach(fn func(key, value []byte) error) error {
	return r.ForEachPrefix(nil, fn)
}

// ForEachPrefix calls fn, in key order, for every record whose key starts with prefix.
func (r *Reader) ForEachPrefix(prefix []byte, fn func(key, value []byte) error) error {
	return r.view(func(b *bolt.Bucket) error {
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			if err := fn(append([]byte{}, k...), append([]byte{}, v...)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Keys returns every stored key in order.
func (r *Reader) Keys() ([][]byte, error) {
	var keys [][]byte
	err := r.view(func(b *bolt.Bucket) error {
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			keys = append(keys, append([]byte{}, k...))
		}
		return nil
	})
	return keys, err
}

// Metadata returns what the last Writer saved on Close.
func (r *Reader) Metadata() (Metadata, error) {
	if r.closed {
		return Metadata{}, ErrClosed
	}
	var meta Metadata
	err := r.db.View(func(tx *bolt.Tx) error {
		var err error
		meta, err = loadMetadata(tx)
		return err
	})
	return meta, err
}

// Close releases the file lock. Calling Close more than once is a no-op.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.db.Close()
}

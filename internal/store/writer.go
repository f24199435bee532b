package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// DefaultChunkSize is the number of staged keys that triggers an implicit flush.
const DefaultChunkSize = 10000

// CreateMode selects what NewWriter does with an existing store file.
type CreateMode int

const (
	// ModeTruncate discards any records already in the store.
	ModeTruncate CreateMode = iota
	// ModeCreate refuses to open an existing store.
	ModeCreate
)

// WriterConfig configures a Writer
type WriterConfig struct {
	Path        string
	ChunkSize   int           // flush after this many staged keys, default 10000
	Mode        CreateMode    // default ModeTruncate
	LockTimeout time.Duration // wait for the file lock, default 1s
	NoSync      bool          // skip fsync on commit (bulk loads only)
}

// Writer is the exclusive owner of a store file. Writes are staged in a
// WriteBuffer and committed in batches; reads see staged values first.
//
// A Writer is not safe for concurrent use. Close must be called, typically
// with defer, to commit staged writes and release the file lock.
type Writer struct {
	path      string
	db        *bolt.DB
	buf       *WriteBuffer
	chunkSize int
	createdAt time.Time
	closed    bool

	stats StatsCollector

	logFunc func(format string, args ...any)
}

// Create opens a new store at path for writing, truncating any existing one.
func Create(path string, chunkSize int) (*Writer, error) {
	return NewWriter(WriterConfig{Path: path, ChunkSize: chunkSize})
}

// NewWriter opens a store for exclusive writing.
func NewWriter(cfg WriterConfig) (*Writer, error) {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	path := NormalizePath(cfg.Path)

	if cfg.Mode == ModeCreate {
		if _, err := os.Stat(path); err == nil {
			return nil, fmt.Errorf("create %s: %w", path, ErrAlreadyExists)
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	db, err := openBolt(path, false, cfg.LockTimeout, cfg.NoSync)
	if err != nil {
		return nil, err
	}

	// The lock is held from here on, so truncation cannot race another writer.
	err = db.Update(func(tx *bolt.Tx) error {
		if cfg.Mode == ModeTruncate {
			for _, name := range [][]byte{recordsBucket, metaBucket} {
				if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
					return fmt.Errorf("truncate %s: %w", name, err)
				}
			}
		}
		_, err := tx.CreateBucketIfNotExists(recordsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize %s: %w", path, err)
	}

	return &Writer{
		path:      path,
		db:        db,
		buf:       NewWriteBuffer(),
		chunkSize: cfg.ChunkSize,
		createdAt: time.Now().UTC(),
		logFunc:   func(format string, args ...any) {},
	}, nil
}

// SetLogger sets a logging function
func (w *Writer) SetLogger(f func(format string, args ...any)) {
	w.logFunc = f
}

func (w *Writer) log(format string, args ...any) {
	if w.logFunc != nil {
		w.logFunc(format, args...)
	}
}

// Path returns the normalized store path
func (w *Writer) Path() string {
	return w.path
}

// Has reports whether key is staged or stored.
func (w *Writer) Has(key []byte) (bool, error) {
	if w.closed {
		return false, ErrClosed
	}
	if _, ok := w.buf.Get(key); ok {
		return true, nil
	}
	var found bool
	err := w.db.View(func(tx *bolt.Tx) error {
		_, found = lookup(tx.Bucket(recordsBucket), key)
		return nil
	})
	return found, err
}

// Get returns the staged value for key, else the stored one.
func (w *Writer) Get(key []byte) ([]byte, error) {
	if w.closed {
		return nil, ErrClosed
	}
	w.stats.IncrementReads()
	if v, ok := w.buf.Get(key); ok {
		return append([]byte{}, v...), nil
	}
	var (
		value []byte
		found bool
	)
	err := w.db.View(func(tx *bolt.Tx) error {
		value, found = lookup(tx.Bucket(recordsBucket), key)
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

// Put stages value under key, flushing once ChunkSize keys are staged.
func (w *Writer) Put(key, value []byte) error {
	if w.closed {
		return ErrClosed
	}
	if len(key) == 0 {
		return ErrEmptyKey
	}
	w.buf.Put(key, value)
	w.stats.IncrementWrites()
	if w.buf.Count() >= w.chunkSize {
		return w.Flush()
	}
	return nil
}

// Append concatenates value onto the existing value of key.
// The key must already be staged or stored.
func (w *Writer) Append(key, value []byte) error {
	existing, err := w.Get(key)
	if err != nil {
		return err
	}
	w.stats.IncrementAppends()
	return w.Put(key, append(existing, value...))
}

// Flush commits all staged records in a single transaction and clears the
// buffer. If the commit fails the buffer is left intact.
func (w *Writer) Flush() error {
	if w.closed {
		return ErrClosed
	}
	records := w.buf.Records()
	if len(records) == 0 {
		return nil
	}

	start := time.Now()
	err := w.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(recordsBucket)
		for _, rec := range records {
			if err := b.Put(rec.Key, rec.Value); err != nil {
				return fmt.Errorf("put %q: %w", rec.Key, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("flush %s: %w", w.path, err)
	}

	w.buf.Clear()
	w.stats.RecordFlush(len(records))
	w.log("flushed %d records to %s in %v", len(records), w.path, time.Since(start).Round(time.Millisecond))
	return nil
}

// Stats returns the writer's counters
func (w *Writer) Stats() Stats {
	st := w.stats.Stats()
	st.BufferedRecords = w.buf.Count()
	st.BufferedBytes = w.buf.Size()
	return st
}

// Close flushes staged records, saves metadata, and releases the file lock.
// Calling Close more than once is a no-op. The lock is released even if the
// final flush fails.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}

	flushErr := w.Flush()
	var metaErr error
	if flushErr == nil {
		metaErr = w.saveMetadata()
		if metaErr != nil {
			w.log("warning: failed to save metadata on close: %v", metaErr)
		}
	}

	w.closed = true
	closeErr := w.db.Close()
	return errors.Join(flushErr, metaErr, closeErr)
}

func (w *Writer) saveMetadata() error {
	st := w.stats.Stats()
	return w.db.Update(func(tx *bolt.Tx) error {
		return saveMetadata(tx, Metadata{
			Records:   uint64(tx.Bucket(recordsBucket).Stats().KeyN),
			Writes:    st.Writes,
			Appends:   st.Appends,
			Flushes:   st.Flushes,
			CreatedAt: w.createdAt,
			UpdatedAt: time.Now().UTC(),
		})
	})
}

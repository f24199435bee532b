package store

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	recordsBucket = []byte("records")
	metaBucket    = []byte("meta")
	statsKey      = []byte("stats")
)

// DefaultLockTimeout bounds how long Open waits for the bbolt file lock.
const DefaultLockTimeout = time.Second

// openBolt opens path, taking a shared lock when readOnly and an exclusive one otherwise.
func openBolt(path string, readOnly bool, timeout time.Duration, noSync bool) (*bolt.DB, error) {
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{
		Timeout:  timeout,
		ReadOnly: readOnly,
		NoSync:   noSync,
	})
	if errors.Is(err, bolt.ErrTimeout) {
		return nil, fmt.Errorf("open %s: %w", path, ErrLockHeld)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return db, nil
}

// lookup returns a copy of the value stored under key.
// A cursor seek is used instead of Bucket.Get so that empty values are
// distinguishable from missing keys.
func lookup(b *bolt.Bucket, key []byte) ([]byte, bool) {
	if b == nil {
		return nil, false
	}
	k, v := b.Cursor().Seek(key)
	if k == nil || !bytes.Equal(k, key) {
		return nil, false
	}
	return append([]byte{}, v...), true
}

package store

import "errors"

var (
	// ErrKeyNotFound is returned when a key is in neither the write buffer nor the store.
	ErrKeyNotFound = errors.New("key not found")

	// ErrStoreNotFound is returned when opening a reader on a missing store file.
	ErrStoreNotFound = errors.New("store not found")

	// ErrAlreadyExists is returned by a ModeCreate writer when the store file exists.
	ErrAlreadyExists = errors.New("store already exists")

	// ErrLockHeld is returned when the store's file lock could not be
	// acquired within the lock timeout.
	ErrLockHeld = errors.New("store lock held by another handle")

	// ErrClosed is returned by any operation on a closed Writer or Reader.
	ErrClosed = errors.New("store closed")

	// ErrEmptyKey is returned when writing a zero-length key.
	ErrEmptyKey = errors.New("empty key")
)

package store

import (
	"bytes"
	"sort"
	"sync"
)

// Record is a key-value pair staged for or read from the store.
type Record struct {
	Key   []byte
	Value []byte
}

// WriteBuffer is an in-memory staging map for writes not yet committed.
// A later Put of the same key replaces the earlier value.
type WriteBuffer struct {
	mu      sync.RWMutex
	records map[string][]byte
	bytes   int64
}

// NewWriteBuffer creates an empty write buffer
func NewWriteBuffer() *WriteBuffer {
	return &WriteBuffer{
		records: make(map[string][]byte),
	}
}

// Put stages value under key. Both slices are copied.
func (b *WriteBuffer) Put(key, value []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	k := string(key)
	if old, ok := b.records[k]; ok {
		b.bytes -= int64(len(k) + len(old))
	}
	b.records[k] = append([]byte(nil), value...)
	b.bytes += int64(len(k) + len(value))
}

// Get returns the staged value for key. The returned slice must not be modified.
func (b *WriteBuffer) Get(key []byte) ([]byte, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.records[string(key)]
	return v, ok
}

// Count returns the number of staged keys
func (b *WriteBuffer) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.records)
}

// Size returns the staged key and value bytes
func (b *WriteBuffer) Size() int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.bytes
}

// Records returns all staged records sorted by key without clearing the buffer.
func (b *WriteBuffer) Records() []Record {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(b.records) == 0 {
		return nil
	}

	result := make([]Record, 0, len(b.records))
	for k, v := range b.records {
		result = append(result, Record{Key: []byte(k), Value: v})
	}

	// bbolt inserts fastest in key order
	sort.Slice(result, func(i, j int) bool {
		return bytes.Compare(result[i].Key, result[j].Key) < 0
	})

	return result
}

// Clear empties the buffer
func (b *WriteBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = make(map[string][]byte)
	b.bytes = 0
}

package store

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Metadata is persisted in the meta bucket when a Writer closes.
type Metadata struct {
	Records   uint64    `json:"records"`
	Writes    uint64    `json:"writes"`
	Appends   uint64    `json:"appends"`
	Flushes   uint64    `json:"flushes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Stats is a snapshot of a Writer's counters.
type Stats struct {
	Writes         uint64
	Appends        uint64
	Reads          uint64
	Flushes        uint64
	FlushedRecords uint64

	// Write buffer
	BufferedRecords int
	BufferedBytes   int64
}

// StatsCollector collects and tracks statistics for a Writer
type StatsCollector struct {
	writes         uint64
	appends        uint64
	reads          uint64
	flushes        uint64
	flushedRecords uint64
}

// IncrementWrites atomically increments the write counter
func (s *StatsCollector) IncrementWrites() {
	atomic.AddUint64(&s.writes, 1)
}

// IncrementAppends atomically increments the append counter
func (s *StatsCollector) IncrementAppends() {
	atomic.AddUint64(&s.appends, 1)
}

// IncrementReads atomically increments the read counter
func (s *StatsCollector) IncrementReads() {
	atomic.AddUint64(&s.reads, 1)
}

// RecordFlush counts one committed flush of n records
func (s *StatsCollector) RecordFlush(n int) {
	atomic.AddUint64(&s.flushes, 1)
	atomic.AddUint64(&s.flushedRecords, uint64(n))
}

// Stats returns the current counters
func (s *StatsCollector) Stats() Stats {
	return Stats{
		Writes:         atomic.LoadUint64(&s.writes),
		Appends:        atomic.LoadUint64(&s.appends),
		Reads:          atomic.LoadUint64(&s.reads),
		Flushes:        atomic.LoadUint64(&s.flushes),
		FlushedRecords: atomic.LoadUint64(&s.flushedRecords),
	}
}

// saveMetadata writes meta into the meta bucket of tx.
func saveMetadata(tx *bolt.Tx, meta Metadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	b, err := tx.CreateBucketIfNotExists(metaBucket)
	if err != nil {
		return fmt.Errorf("create meta bucket: %w", err)
	}
	if err := b.Put(statsKey, data); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

// loadMetadata reads Metadata from tx, or ErrKeyNotFound if none was saved.
func loadMetadata(tx *bolt.Tx) (Metadata, error) {
	var meta Metadata
	data, ok := lookup(tx.Bucket(metaBucket), statsKey)
	if !ok {
		return meta, fmt.Errorf("metadata: %w", ErrKeyNotFound)
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("parse metadata: %w", err)
	}
	return meta, nil
}

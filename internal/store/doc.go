// Package store persists FASTA-derived records in an embedded bbolt file.
//
// A Writer owns the file exclusively and stages writes in a WriteBuffer,
// committing them in one bbolt transaction whenever the buffer reaches its
// chunk size, on Flush, and on Close. A Reader opens the same file
// read-only; any number of readers may share it, but not while a writer
// holds it. Both lock through bbolt's own file lock.
//
// Layout:
//   - records bucket: record key -> raw value bytes
//   - meta bucket:    "stats" -> JSON Metadata written by Writer.Close
//
// Paths are normalized to end in ".db".
package store

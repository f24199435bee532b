package store

// ReadStore is the point-lookup interface shared by Writer and Reader.
type ReadStore interface {
	Has(key []byte) (bool, error)
	Get(key []byte) ([]byte, error)
	Close() error
}

// WriteStore extends ReadStore with buffered writes.
type WriteStore interface {
	ReadStore
	Put(key, value []byte) error
	Append(key, value []byte) error
	Flush() error
}

var (
	_ WriteStore = (*Writer)(nil)
	_ ReadStore  = (*Reader)(nil)
)

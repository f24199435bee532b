package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// writeStore creates a closed store at dir/records.db holding records.
func writeStore(t *testing.T, records map[string]string, chunkSize int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records")
	w, err := Create(path, chunkSize)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for k, v := range records {
		if err := w.Put([]byte(k), []byte(v)); err != nil {
			t.Fatalf("Put(%s): %v", k, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return w.Path()
}

func TestReaderSeesFlushedRecords(t *testing.T) {
	records := make(map[string]string)
	for i := 0; i < 25; i++ {
		records[fmt.Sprintf("seq%02d", i)] = fmt.Sprintf("ACGT%d", i)
	}
	// Chunk size 7 forces several implicit flushes plus the final one on Close.
	path := writeStore(t, records, 7)

	r, err := OpenReader(path)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer r.Close()

	for k, want := range records {
		got, err := r.Get([]byte(k))
		if err != nil {
			t.Errorf("Get(%s): %v", k, err)
			continue
		}
		if string(got) != want {
			t.Errorf("Get(%s) = %q, want %q", k, got, want)
		}
	}

	n, err := r.Len()
	if err != nil {
		t.Fatalf("Len: %v", err)
	}
	if n != len(records) {
		t.Errorf("Len = %d, want %d", n, len(records))
	}

	if _, err := r.Get([]byte("nope")); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Get(nope) err = %v, want ErrKeyNotFound", err)
	}
	if ok, err := r.Has([]byte("seq00")); err != nil || !ok {
		t.Errorf("Has(seq00) = %v, %v, want true", ok, err)
	}
}

func TestReaderIteration(t *testing.T) {
	path := writeStore(t, map[string]string{
		"chr2":     "G",
		"chr1":     "A",
		"plasmid1": "T",
		"chr10":    "C",
	}, 100)

	r, err := OpenReader(path)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer r.Close()

	var keys []string
	err = r.ForEach(func(k, v []byte) error {
		keys = append(keys, string(k))
		return nil
	})
	if err != nil {
		t.Fatalf("ForEach: %v", err)
	}
	if diff := cmp.Diff([]string{"chr1", "chr10", "chr2", "plasmid1"}, keys); diff != "" {
		t.Errorf("ForEach order mismatch (-want +got):\n%s", diff)
	}

	var values []string
	err = r.ForEachPrefix([]byte("chr"), func(k, v []byte) error {
		values = append(values, string(v))
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachPrefix: %v", err)
	}
	if diff := cmp.Diff([]string{"A", "C", "G"}, values); diff != "" {
		t.Errorf("ForEachPrefix mismatch (-want +got):\n%s", diff)
	}

	all, err := r.Keys()
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(all) != 4 || string(all[3]) != "plasmid1" {
		t.Errorf("Keys = %q", all)
	}

	stop := errors.New("stop")
	calls := 0
	err = r.ForEach(func(k, v []byte) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) || calls != 1 {
		t.Errorf("ForEach early stop: err = %v, calls = %d", err, calls)
	}
}

func TestReaderMetadata(t *testing.T) {
	path := writeStore(t, map[string]string{"a": "1", "b": "2", "c": "3"}, 2)

	r, err := OpenReader(path)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer r.Close()

	meta, err := r.Metadata()
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if meta.Records != 3 || meta.Writes != 3 {
		t.Errorf("Metadata records = %d, writes = %d, want 3, 3", meta.Records, meta.Writes)
	}
	if meta.Flushes != 2 {
		t.Errorf("Metadata flushes = %d, want 2", meta.Flushes)
	}
	if meta.UpdatedAt.Before(meta.CreatedAt) {
		t.Errorf("UpdatedAt %v before CreatedAt %v", meta.UpdatedAt, meta.CreatedAt)
	}
}

func TestReaderNotFound(t *testing.T) {
	_, err := OpenReader(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, ErrStoreNotFound) {
		t.Errorf("OpenReader(missing) err = %v, want ErrStoreNotFound", err)
	}
}

func TestReadersShareStore(t *testing.T) {
	path := writeStore(t, map[string]string{"k": "v"}, 100)

	r1, err := OpenReader(path)
	if err != nil {
		t.Fatalf("first OpenReader: %v", err)
	}
	defer r1.Close()
	r2, err := OpenReader(path)
	if err != nil {
		t.Fatalf("second OpenReader: %v", err)
	}
	defer r2.Close()

	for _, r := range []*Reader{r1, r2} {
		if v, err := r.Get([]byte("k")); err != nil || string(v) != "v" {
			t.Errorf("Get(k) = %q, %v", v, err)
		}
	}
}

func TestReaderCloseIdempotent(t *testing.T) {
	path := writeStore(t, map[string]string{"k": "v"}, 100)

	r, err := OpenReader(path)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if _, err := r.Get([]byte("k")); !errors.Is(err, ErrClosed) {
		t.Errorf("Get after Close err = %v, want ErrClosed", err)
	}
}

// Package fasta reads and writes FASTA files, optionally zstd-compressed.
package fasta

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// ErrMissingHeader is returned when sequence data appears before the first '>' header.
var ErrMissingHeader = errors.New("sequence data before first header")

// Record is a single FASTA entry.
type Record struct {
	ID          string // header text up to the first whitespace
	Description string // rest of the header
	Sequence    string
}

// Reader streams records from FASTA input.
type Reader struct {
	br   *bufio.Reader
	line int

	header     string
	haveHeader bool

	closers []func() error
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, 1<<20)}
}

// Open opens a FASTA file. Paths ending in .zst are decompressed on the fly.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	if !strings.HasSuffix(path, ".zst") {
		r := NewReader(f)
		r.closers = []func() error{f.Close}
		return r, nil
	}

	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	r := NewReader(dec)
	r.closers = []func() error{
		func() error { dec.Close(); return nil },
		f.Close,
	}
	return r, nil
}

// Close releases the file opened by Open. It is a no-op for readers from NewReader.
func (r *Reader) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c())
	}
	r.closers = nil
	return errors.Join(errs...)
}

// readLine returns the next line with surrounding whitespace removed.
// The final line is returned without error even if it lacks a newline.
func (r *Reader) readLine() (string, error) {
	s, err := r.br.ReadString('\n')
	if err != nil && (err != io.EOF || s == "") {
		return "", err
	}
	r.line++
	return strings.TrimSpace(s), nil
}

// Next returns the next record, or io.EOF when the input is exhausted.
func (r *Reader) Next() (*Record, error) {
	for !r.haveHeader {
		line, err := r.readLine()
		if err != nil {
			return nil, err
		}
		if line == "" || line[0] == ';' {
			continue
		}
		if line[0] != '>' {
			return nil, fmt.Errorf("line %d: %w", r.line, ErrMissingHeader)
		}
		r.header = line[1:]
		r.haveHeader = true
	}

	rec := parseHeader(r.header)
	r.haveHeader = false

	var sb strings.Builder
	for {
		line, err := r.readLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", r.line, err)
		}
		if line == "" || line[0] == ';' {
			continue
		}
		if line[0] == '>' {
			r.header = line[1:]
			r.haveHeader = true
			break
		}
		sb.WriteString(line)
	}
	rec.Sequence = sb.String()
	return rec, nil
}

func parseHeader(h string) *Record {
	h = strings.TrimSpace(h)
	if i := strings.IndexAny(h, " \t"); i >= 0 {
		return &Record{ID: h[:i], Description: strings.TrimSpace(h[i+1:])}
	}
	return &Record{ID: h}
}

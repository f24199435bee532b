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

// DefaultLineWidth is the sequence line length used when none is given.
const DefaultLineWidth = 60

// Writer writes FASTA records with sequence lines wrapped at a fixed width.
type Writer struct {
	bw    *bufio.Writer
	width int

	closers []func() error
}

// NewWriter returns a Writer over w. A width <= 0 selects DefaultLineWidth.
func NewWriter(w io.Writer, width int) *Writer {
	if width <= 0 {
		width = DefaultLineWidth
	}
	return &Writer{bw: bufio.NewWriterSize(w, 1<<20), width: width}
}

// Create creates a FASTA file at path, zstd-compressing it when path ends in .zst.
func Create(path string, width int) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	if !strings.HasSuffix(path, ".zst") {
		w := NewWriter(f, width)
		w.closers = []func() error{f.Close}
		return w, nil
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	w := NewWriter(enc, width)
	w.closers = []func() error{enc.Close, f.Close}
	return w, nil
}

// Write writes one record.
func (w *Writer) Write(rec *Record) error {
	w.bw.WriteByte('>')
	w.bw.WriteString(rec.ID)
	if rec.Description != "" {
		w.bw.WriteByte(' ')
		w.bw.WriteString(rec.Description)
	}
	w.bw.WriteByte('\n')

	seq := rec.Sequence
	for len(seq) > 0 {
		n := min(w.width, len(seq))
		w.bw.WriteString(seq[:n])
		if err := w.bw.WriteByte('\n'); err != nil {
			return err
		}
		seq = seq[n:]
	}
	return nil
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.bw.Flush()
}

// Close flushes and closes the file opened by Create. For writers from
// NewWriter it only flushes.
func (w *Writer) Close() error {
	errs := []error{w.Flush()}
	for _, c := range w.closers {
		errs = append(errs, c())
	}
	w.closers = nil
	return errors.Join(errs...)
}

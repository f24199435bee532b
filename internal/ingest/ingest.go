// Package ingest loads FASTA records into a store as encoded sequences.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/freeeve/dnadb/internal/dna"
	"github.com/freeeve/dnadb/internal/fasta"
	"github.com/freeeve/dnadb/internal/store"
)

// Source yields FASTA records until io.EOF.
type Source interface {
	Next() (*fasta.Record, error)
}

// Config configures a Run.
type Config struct {
	Uppercase bool           // uppercase sequences before encoding (soft-masked input)
	LogEvery  int            // log progress every N records, default 10000
	Logger    zerolog.Logger // Logger
}

// Result summarizes a Run.
type Result struct {
	Records  int   // records read
	Appended int   // records whose id was already present and got concatenated
	Bases    int64 // encoded symbols written
}

// Run reads every record from src, encodes its sequence with dna.Encode and
// stores it under the record id. A record whose id is already present is
// appended to the existing value, so entries split across several FASTA
// records end up contiguous.
func Run(ctx context.Context, src Source, w store.WriteStore, cfg Config) (Result, error) {
	if cfg.LogEvery <= 0 {
		cfg.LogEvery = 10000
	}

	var res Result
	start := time.Now()
	for {
		// Check for interruption (non-blocking)
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		rec, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return res, fmt.Errorf("read fasta: %w", err)
		}

		seq := rec.Sequence
		if cfg.Uppercase {
			seq = strings.ToUpper(seq)
		}
		codes, err := dna.Encode(seq)
		if err != nil {
			return res, fmt.Errorf("record %s: %w", rec.ID, err)
		}

		key := []byte(rec.ID)
		exists, err := w.Has(key)
		if err != nil {
			return res, fmt.Errorf("record %s: %w", rec.ID, err)
		}
		if exists {
			err = w.Append(key, codes)
			res.Appended++
		} else {
			err = w.Put(key, codes)
		}
		if err != nil {
			return res, fmt.Errorf("record %s: %w", rec.ID, err)
		}

		res.Records++
		res.Bases += int64(len(codes))

		if res.Records%cfg.LogEvery == 0 {
			elapsed := time.Since(start)
			cfg.Logger.Info().
				Int("records", res.Records).
				Int64("bases", res.Bases).
				Float64("records_per_sec", float64(res.Records)/elapsed.Seconds()).
				Msg("progress")
		}
	}
	return res, nil
}

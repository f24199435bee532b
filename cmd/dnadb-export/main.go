package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/freeeve/dnadb/internal/dna"
	"github.com/freeeve/dnadb/internal/fasta"
	"github.com/freeeve/dnadb/internal/logx"
	"github.com/freeeve/dnadb/internal/store"
)

type options struct {
	dbPath   string
	output   string
	prefix   string
	width    int
	rna      bool
	keysOnly bool
}

func main() {
	var opts options
	flag.StringVar(&opts.dbPath, "db", "./data/sequences.db", "Store path (.db is appended if missing)")
	flag.StringVar(&opts.output, "output", "-", "Output FASTA file, - for stdout (supports .zst)")
	flag.StringVar(&opts.prefix, "prefix", "", "Only export records whose id starts with this prefix")
	flag.IntVar(&opts.width, "width", fasta.DefaultLineWidth, "Sequence line width")
	flag.BoolVar(&opts.rna, "rna", false, "Write sequences as RNA (T -> U)")
	flag.BoolVar(&opts.keysOnly, "keys-only", false, "List record ids instead of writing FASTA")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	logger := logx.NewLogger(*verbose)
	if err := run(logger, opts); err != nil {
		logger.Error().Err(err).Msg("export failed")
		os.Exit(1)
	}
}

func run(logger zerolog.Logger, opts options) (err error) {
	r, err := store.OpenReader(opts.dbPath)
	if err != nil {
		return err
	}
	defer r.Close()

	if meta, err := r.Metadata(); err == nil {
		logger.Info().
			Str("db", r.Path()).
			Uint64("records", meta.Records).
			Time("updated_at", meta.UpdatedAt).
			Msg("opened store")
	} else {
		logger.Warn().Err(err).Str("db", r.Path()).Msg("store has no metadata (writer not closed cleanly?)")
	}

	if opts.keysOnly {
		return r.ForEachPrefix([]byte(opts.prefix), func(key, _ []byte) error {
			_, err := fmt.Println(string(key))
			return err
		})
	}

	var out *fasta.Writer
	if opts.output == "-" {
		out = fasta.NewWriter(os.Stdout, opts.width)
	} else {
		out, err = fasta.Create(opts.output, opts.width)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close output: %w", cerr))
		}
	}()

	var records, bases uint64
	err = r.ForEachPrefix([]byte(opts.prefix), func(key, value []byte) error {
		seq, err := dna.Decode(value)
		if err != nil {
			return fmt.Errorf("record %s: %w", key, err)
		}
		if opts.rna {
			seq = dna.ToRNA(seq)
		}
		records++
		bases += uint64(len(seq))
		return out.Write(&fasta.Record{ID: string(key), Sequence: seq})
	})
	if err != nil {
		return err
	}

	logger.Info().
		Uint64("records", records).
		Str("bases", humanize.Comma(int64(bases))).
		Msg("export complete")
	return nil
}

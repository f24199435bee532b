package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/freeeve/dnadb/internal/fasta"
	"github.com/freeeve/dnadb/internal/ingest"
	"github.com/freeeve/dnadb/internal/logx"
	"github.com/freeeve/dnadb/internal/store"
)

func main() {
	defaultChunkSize := store.DefaultChunkSize
	if env := os.Getenv("DNADB_CHUNK_SIZE"); env != "" {
		if n, err := strconv.Atoi(env); err == nil && n > 0 {
			defaultChunkSize = n
		}
	}

	var (
		inputPath = flag.String("fasta", "", "Path to FASTA file (supports .zst)")
		dbPath    = flag.String("db", "./data/sequences.db", "Store path (.db is appended if missing)")
		chunkSize = flag.Int("chunk-size", defaultChunkSize, "Flush the write buffer every N distinct records")
		uppercase = flag.Bool("uppercase", false, "Uppercase sequences before encoding")
		create    = flag.Bool("create", false, "Fail if the store already exists instead of truncating it")
		noSync    = flag.Bool("no-sync", false, "Skip fsync on each flush (faster, unsafe on crash)")
		verbose   = flag.Bool("v", false, "Log every flush")
	)
	flag.Parse()

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: dnadb-ingest -fasta <file.fa[.zst]> [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	logger := logx.NewLogger(*verbose)

	mode := store.ModeTruncate
	if *create {
		mode = store.ModeCreate
	}
	cfg := store.WriterConfig{
		Path:      *dbPath,
		ChunkSize: *chunkSize,
		Mode:      mode,
		NoSync:    *noSync,
	}
	if err := run(logger, *inputPath, cfg, *uppercase); err != nil {
		logger.Error().Err(err).Msg("ingest failed")
		os.Exit(1)
	}
}

// run keeps the store and input handles scoped so they are closed on every path.
func run(logger zerolog.Logger, inputPath string, cfg store.WriterConfig, uppercase bool) (err error) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	src, err := fasta.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open fasta: %w", err)
	}
	defer src.Close()

	w, err := store.NewWriter(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	w.SetLogger(logx.Printf(logger))
	defer func() {
		if cerr := w.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close store: %w", cerr))
		}
	}()

	logger.Info().
		Str("fasta", inputPath).
		Str("db", w.Path()).
		Int("chunk_size", cfg.ChunkSize).
		Msg("starting ingest")

	start := time.Now()
	res, err := ingest.Run(ctx, src, w, ingest.Config{
		Uppercase: uppercase,
		Logger:    logger,
	})
	if errors.Is(err, context.Canceled) {
		logger.Info().Int("records", res.Records).Msg("interrupted, flushing what was read")
		err = nil
	}
	if err != nil {
		return err
	}

	stats := w.Stats()
	elapsed := time.Since(start)
	logger.Info().
		Int("records", res.Records).
		Int("appended", res.Appended).
		Str("bases", humanize.Comma(res.Bases)).
		Str("pending", humanize.Bytes(uint64(stats.BufferedBytes))).
		Uint64("flushes", stats.Flushes).
		Dur("elapsed", elapsed).
		Msg("ingest complete")
	return nil
}

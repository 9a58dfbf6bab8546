// Package pipeline drives the full ingestion run: chunked source reading,
// normalization, feature derivation, validation, batched loading, and the
// exclusion audit trail.
//
// Processing is strictly sequential: a chunk is fully normalized, validated,
// loaded, and logged before the next chunk is read, so memory residency stays
// bounded to one chunk. A sink failure aborts the run; sub-batches already
// committed stay committed (at-least-once semantics, see the storage package
// doc).
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/dustin/go-humanize"

	"tripetl/internal/clean"
	"tripetl/internal/config"
	"tripetl/internal/metrics"
	csvparser "tripetl/internal/parser/csv"
	"tripetl/internal/skiplog"
	"tripetl/internal/storage"
	"tripetl/internal/trip"
	"tripetl/pkg/records"
)

// Summary holds the run-wide totals reported at the end of a run. It lives
// only for the duration of the run; durable accounting is the exclusion log.
type Summary struct {
	Chunks      int
	RowsRead    int64
	RowsLoaded  int64
	RowsDropped int64 // excluded by validation
	RowsDeduped int64
	ParseErrors int64
}

// Run executes the pipeline over src and returns the run summary. The
// repository must already be open (destination reachability is a startup
// concern); the exclusion logger receives exactly one row per processed
// chunk.
func Run(ctx context.Context, cfg config.Run, src io.Reader, repo storage.Repository, xlog *skiplog.Logger) (Summary, error) {
	var sum Summary

	norm := clean.Normalizer{Units: clean.Units(cfg.Runtime.Units)}
	columns := trip.Columns()

	var dedup *clean.Dedup
	if cfg.Runtime.Dedup {
		dedup = clean.NewDedup()
	}

	reader := csvparser.NewReader(src, csvparser.Options{
		Comma:      cfg.Input.CommaRune(),
		TrimSpace:  true,
		LazyQuotes: true,
		OnErr: func(line int, err error) {
			sum.ParseErrors++
			log.Printf("row %d: %v", line, err)
		},
	})

	chunkIndex := 0
	err := reader.ReadChunks(ctx, cfg.Runtime.ChunkSize, func(chunk []records.Record) error {
		chunkIndex++
		sum.RowsRead += int64(len(chunk))
		log.Printf("[chunk %d] read %s rows", chunkIndex, humanize.Comma(int64(len(chunk))))

		inserted, excluded, deduped, err := processChunk(ctx, cfg, norm, dedup, columns, chunkIndex, chunk, repo, xlog)
		sum.RowsLoaded += inserted
		sum.RowsDropped += int64(excluded)
		sum.RowsDeduped += int64(deduped)
		if err != nil {
			return err
		}
		sum.Chunks++

		metrics.RecordChunk(cfg.Job)
		metrics.RecordRows(cfg.Job, "read", int64(len(chunk)))
		metrics.RecordRows(cfg.Job, "inserted", inserted)
		metrics.RecordRows(cfg.Job, "excluded", int64(excluded))
		metrics.RecordRows(cfg.Job, "deduped", int64(deduped))

		log.Printf("[chunk %d] cleaned=%d inserted=%d excluded=%d",
			chunkIndex, len(chunk)-excluded, inserted, excluded)
		return nil
	})
	if err != nil {
		return sum, err
	}

	metrics.RecordRows(cfg.Job, "parse_errors", sum.ParseErrors)

	log.Printf("ingest complete: read=%s inserted=%s excluded=%s chunks=%d",
		humanize.Comma(sum.RowsRead), humanize.Comma(sum.RowsLoaded),
		humanize.Comma(sum.RowsDropped), sum.Chunks)
	log.Printf("exclusion log: %s", cfg.ExclusionLog)
	return sum, nil
}

// processChunk runs one chunk through normalize → derive → validate →
// optional dedup → sink, then appends the chunk's audit row.
func processChunk(
	ctx context.Context,
	cfg config.Run,
	norm clean.Normalizer,
	dedup *clean.Dedup,
	columns []string,
	chunkIndex int,
	chunk []records.Record,
	repo storage.Repository,
	xlog *skiplog.Logger,
) (inserted int64, excluded, deduped int, err error) {
	cleanStart := time.Now()

	trips := norm.Chunk(chunk)
	for _, t := range trips {
		clean.Derive(t)
	}
	accepted, rejected := clean.Split(trips)
	metrics.RecordStep(cfg.Job, "clean", nil, time.Since(cleanStart))

	if dedup != nil {
		before := len(accepted)
		accepted = dedup.Filter(accepted)
		deduped = before - len(accepted)
	}

	rows := make([][]any, len(accepted))
	for i, t := range accepted {
		rows[i] = t.Row()
	}

	loadStart := time.Now()
	inserted, err = storage.InsertBatch(ctx, repo, columns, rows, cfg.Runtime.BatchSize)
	metrics.RecordStep(cfg.Job, "load", err, time.Since(loadStart))
	if err != nil {
		return inserted, len(rejected), deduped, fmt.Errorf("chunk %d: %w", chunkIndex, err)
	}

	sample := ""
	if len(rejected) > 0 {
		sample = rejected[0].ReasonString()
	}
	if err := xlog.Append(chunkIndex, len(rejected), sample); err != nil {
		return inserted, len(rejected), deduped, fmt.Errorf("chunk %d: %w", chunkIndex, err)
	}
	return inserted, len(rejected), deduped, nil
}

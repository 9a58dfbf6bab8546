package storage

import (
	"context"
	"fmt"
	"log"
	"time"
)

// InsertBatch writes one chunk's accepted rows through repo in sub-batches of
// batchSize. Each CopyFrom call is atomic; on failure the already-committed
// sub-batches stay committed and the error aborts the run. Returns the count
// of rows actually inserted for accounting.
//
// A concise progress line with instantaneous rows/sec is logged per flushed
// sub-batch.
func InsertBatch(ctx context.Context, repo Repository, columns []string, rows [][]any, batchSize int) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("storage: batchSize must be > 0")
	}

	var (
		total   int64
		batches int
		start   = time.Now()
	)

	for off := 0; off < len(rows); off += batchSize {
		select {
		case <-ctx.Done():
			return total, ctx.Err()
		default:
		}

		end := off + batchSize
		if end > len(rows) {
			end = len(rows)
		}

		flushStart := time.Now()
		n, err := repo.CopyFrom(ctx, columns, rows[off:end])
		total += n
		if err != nil {
			log.Printf("loader: insert failed batch=%d inserted=%d total=%d err=%v", batches+1, n, total, err)
			return total, fmt.Errorf("insert batch %d: %w", batches+1, err)
		}

		batches++
		dur := time.Since(flushStart)
		rps := 0.0
		if dur > 0 {
			rps = float64(n) / dur.Seconds()
		}
		log.Printf("batch #%d: inserted=%d total_inserted=%d rps=%.0f elapsed=%s",
			batches, n, total, rps, time.Since(start).Truncate(time.Millisecond))
	}

	return total, nil
}

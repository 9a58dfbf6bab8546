// Package parser defines the contract between raw input formats and the
// chunked ingestion pipeline.
package parser

import (
	"context"

	"tripetl/pkg/records"
)

// ChunkFunc receives one bounded chunk of raw records. Returning an error
// stops the read; the error is propagated to the caller unchanged.
type ChunkFunc func(chunk []records.Record) error

// ChunkReader streams a source into bounded chunks of raw records. The full
// dataset is never materialized; memory residency is one chunk.
type ChunkReader interface {
	ReadChunks(ctx context.Context, chunkSize int, fn ChunkFunc) error
}

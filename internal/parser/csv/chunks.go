// Package csv implements a streaming, chunked CSV reader for raw trip rows.
// It never buffers the whole file: rows are accumulated into bounded chunks
// and handed to the caller one chunk at a time.
//
// Header names are normalized (trimmed, lower-cased, BOM-stripped) at read
// time so that downstream alias matching is case- and whitespace-insensitive.
// Malformed rows are soft-dropped: they are reported through the optional
// onErr callback and counted, never fatal.
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"tripetl/internal/parser"
	"tripetl/pkg/records"
)

var _ parser.ChunkReader = (*Reader)(nil)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// Options configures the reader. Zero values select the defaults noted on
// each field.
type Options struct {
	// Comma is the field delimiter; ',' when zero.
	Comma rune

	// TrimSpace trims leading/trailing spaces from each cell value.
	TrimSpace bool

	// LazyQuotes tolerates unescaped quotes inside fields.
	LazyQuotes bool

	// OnErr receives recoverable row errors with the 1-based source line.
	// Nil disables reporting; errors are still soft-dropped.
	OnErr func(line int, err error)
}

// Reader streams CSV from an io.Reader into chunks of records.Record.
// A Reader is single-use: ReadChunks consumes the underlying stream.
type Reader struct {
	src io.Reader
	opt Options

	// RowsDropped counts malformed rows skipped during the last ReadChunks.
	RowsDropped int
}

// NewReader constructs a Reader over src.
func NewReader(src io.Reader, opt Options) *Reader {
	return &Reader{src: src, opt: opt}
}

// ReadChunks reads the header row, then streams data rows into chunks of at
// most chunkSize records, invoking fn per chunk. Rows shorter than the header
// are padded with nil; extra cells beyond the header are ignored.
//
// Returns the first error from fn, a header read failure, or ctx.Err() on
// cancellation. EOF is a clean stop.
func (r *Reader) ReadChunks(ctx context.Context, chunkSize int, fn parser.ChunkFunc) error {
	if chunkSize <= 0 {
		return fmt.Errorf("csv: chunkSize must be > 0")
	}

	cr := csv.NewReader(r.src)
	if r.opt.Comma != 0 {
		cr.Comma = r.opt.Comma
	}
	cr.ReuseRecord = true
	cr.LazyQuotes = r.opt.LazyQuotes
	cr.FieldsPerRecord = -1 // tolerant by default
	cr.TrimLeadingSpace = true

	line := 0
	read := func() ([]string, error) { line++; return cr.Read() }

	hdr, err := read()
	if err != nil {
		return fmt.Errorf("csv: read header: %w", err)
	}
	keys := make([]string, len(hdr))
	for i, h := range hdr {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		keys[i] = records.Key(h)
	}

	r.RowsDropped = 0
	chunk := make([]records.Record, 0, chunkSize)

	flush := func() error {
		if len(chunk) == 0 {
			return nil
		}
		if err := fn(chunk); err != nil {
			return err
		}
		chunk = chunk[:0]
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rec, err := read()
		if err == io.EOF {
			return flush()
		}
		if err != nil {
			r.RowsDropped++
			if r.opt.OnErr != nil {
				r.opt.OnErr(line, fmt.Errorf("csv read: %w", err))
			}
			continue
		}

		row := make(records.Record, len(keys))
		for i, k := range keys {
			if k == "" {
				continue
			}
			if i >= len(rec) {
				row[k] = nil
				continue
			}
			v := rec[i]
			if r.opt.TrimSpace {
				v = strings.TrimSpace(v)
			}
			row[k] = v
		}
		chunk = append(chunk, row)

		if len(chunk) >= chunkSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
}

// Command tripprobe inspects the headers of one or more candidate source
// files and reports, per column, the canonical field it would resolve to
// under the ingestion alias table. Columns that resolve to nothing are the
// ones that need a new alias (or are simply ignored by the pipeline).
//
// Files are probed concurrently; a failure on one input does not stop the
// others, but the process exits non-zero if any probe failed.
//
// Example:
//
//	tripprobe -delimiter="," data/2015.csv data/2016.csv
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"tripetl/internal/probe"
)

func main() {
	delim := flag.String("delimiter", ",", "field delimiter (first character used)")
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: tripprobe [-delimiter=,] FILE...")
		os.Exit(2)
	}

	comma := ','
	if *delim != "" {
		comma = []rune(*delim)[0]
	}

	type result struct {
		path     string
		mappings []probe.Mapping
	}

	var (
		mu      sync.Mutex
		results []result
	)

	var g errgroup.Group
	for _, path := range paths {
		g.Go(func() error {
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			defer f.Close()

			hdr, err := probe.Headers(f, comma)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			mu.Lock()
			results = append(results, result{path: path, mappings: probe.MapHeaders(hdr)})
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].path < results[j].path })
	for _, r := range results {
		fmt.Printf("%s:\n", r.path)
		for _, m := range r.mappings {
			target := m.Canonical
			if target == "" {
				target = "(unmapped)"
			}
			fmt.Printf("  %-32s -> %s\n", m.Source, target)
		}
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

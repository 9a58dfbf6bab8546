// Command tripetl ingests a raw trip-record CSV of unknown vintage into a
// relational store: it normalizes heterogeneous columns, derives analytic
// features, validates each row against domain rules, loads accepted rows in
// chunks, and appends a per-chunk exclusion audit row.
//
// Run parameters come from an optional JSON config file plus flag overrides;
// flags win. A destination-connection failure, or a schema-creation failure
// when -create-table was requested, terminates the run before any chunk is
// read.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"tripetl/internal/config"
	"tripetl/internal/metrics"
	"tripetl/internal/metrics/datadog"
	"tripetl/internal/metrics/prompush"
	"tripetl/internal/pipeline"
	"tripetl/internal/skiplog"
	"tripetl/internal/storage"

	// register all storage backends with the factory.
	_ "tripetl/internal/storage/all"
)

func main() {
	var (
		cfgPath     string
		input       string
		kind        string
		dsn         string
		table       string
		createTable bool
		chunkSize   int
		batchSize   int
		units       string
		dedup       bool
		logPath     string
		job         string

		metricsBackend string
		pushURL        string
		statsdAddr     string

		validateOnly bool
	)

	flag.StringVar(&cfgPath, "config", "", "optional run config JSON path")
	flag.StringVar(&input, "input", "", "path to the raw trip CSV")
	flag.StringVar(&kind, "storage", "", "storage backend: mysql, postgres, sqlite, mssql")
	flag.StringVar(&dsn, "dsn", "", "destination connection string")
	flag.StringVar(&table, "table", "", "destination table name (default trips)")
	flag.BoolVar(&createTable, "create-table", false, "create the destination schema if absent")
	flag.IntVar(&chunkSize, "chunk-size", 0, "source rows per chunk (default 200000)")
	flag.IntVar(&batchSize, "batch-size", 0, "rows per insert sub-batch (default 1000)")
	flag.StringVar(&units, "units", "", "distance units: auto, km, or miles (default auto)")
	flag.BoolVar(&dedup, "dedup", false, "drop exact repeats of accepted rows across the run")
	flag.StringVar(&logPath, "exclusion-log", "", "exclusion log CSV path (default data/logs/cleaning_log.csv)")
	flag.StringVar(&job, "job", "", "job name for logs and metrics")

	flag.StringVar(&metricsBackend, "metrics-backend", "none", "metrics backend: pushgateway, datadog, none")
	flag.StringVar(&pushURL, "pushgateway-url", "http://localhost:9091", "Pushgateway base URL (env PUSHGATEWAY_URL overrides default)")
	flag.StringVar(&statsdAddr, "statsd-addr", "127.0.0.1:8125", "DogStatsD address for the datadog backend")

	flag.BoolVar(&validateOnly, "validate", false, "validate the configuration and exit")

	flag.Parse()

	var run config.Run
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			fatalf("%v", err)
		}
		run = loaded
	}

	// Flags override file values.
	if input != "" {
		run.Input.Path = input
	}
	if kind != "" {
		run.Storage.Kind = kind
	}
	if dsn != "" {
		run.Storage.DSN = dsn
	}
	if table != "" {
		run.Storage.Table = table
	}
	if createTable {
		run.Storage.CreateTable = true
	}
	if chunkSize != 0 {
		run.Runtime.ChunkSize = chunkSize
	}
	if batchSize != 0 {
		run.Runtime.BatchSize = batchSize
	}
	if units != "" {
		run.Runtime.Units = units
	}
	if dedup {
		run.Runtime.Dedup = true
	}
	if logPath != "" {
		run.ExclusionLog = logPath
	}
	if job != "" {
		run.Job = job
	}
	run.Normalize()

	issues := config.ValidateRun(run)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasError(issues) {
		fatalf("configuration is invalid")
	}
	if validateOnly {
		log.Printf("configuration is valid")
		return
	}

	setupMetrics(metricsBackend, pushURL, statsdAddr, run.Job)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}()

	ctx := context.Background()
	start := time.Now()

	repo, err := storage.New(ctx, storage.Config{
		Kind:  run.Storage.Kind,
		DSN:   run.Storage.DSN,
		Table: run.Storage.Table,
	})
	if err != nil {
		fatalf("connect %s: %v", run.Storage.Kind, err)
	}
	defer repo.Close()

	if run.Storage.CreateTable {
		log.Printf("ensuring %s table exists", run.Storage.Table)
		if err := storage.EnsureSchema(ctx, run.Storage.Kind, run.Storage.Table, repo); err != nil {
			fatalf("apply DDL: %v", err)
		}
	}

	src, err := os.Open(run.Input.Path)
	if err != nil {
		fatalf("open input: %v", err)
	}
	defer src.Close()

	xlog, err := skiplog.Open(run.ExclusionLog)
	if err != nil {
		fatalf("%v", err)
	}
	defer xlog.Close()

	if _, err := pipeline.Run(ctx, run, src, repo, xlog); err != nil {
		fatalf("run failed: %v", err)
	}

	log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
}

// setupMetrics installs the selected metrics backend; unknown backends leave
// metrics disabled.
func setupMetrics(backend, pushURL, statsdAddr, job string) {
	switch backend {
	case "pushgateway":
		if env := os.Getenv("PUSHGATEWAY_URL"); env != "" {
			pushURL = env
		}
		b, err := prompush.NewBackend(job, pushURL)
		if err != nil {
			log.Printf("metrics: init pushgateway backend: %v; metrics disabled", err)
			return
		}
		log.Printf("metrics: backend=pushgateway url=%s job=%s", pushURL, job)
		metrics.SetBackend(b)

	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{Addr: statsdAddr, Namespace: "tripetl."})
		if err != nil {
			log.Printf("metrics: init datadog backend: %v; metrics disabled", err)
			return
		}
		log.Printf("metrics: backend=datadog addr=%s", statsdAddr)
		metrics.SetBackend(b)

	case "", "none":
		// metrics disabled; nop backend remains

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backend)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}

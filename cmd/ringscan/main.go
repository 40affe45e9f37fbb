package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"

	"github.com/cognicore/ringscan/pkg/ringscan"
	"github.com/cognicore/ringscan/pkg/ringscan/config"
	"github.com/cognicore/ringscan/pkg/ringscan/progress"
	"github.com/cognicore/ringscan/pkg/ringscan/store/sqlite"
)

func main() {
	var (
		dumpPath   = flag.String("dump", "", "Galaxy dump JSON file (required)")
		dbPath     = flag.String("db", "", "Output database path (required)")
		configPath = flag.String("config", "", "YAML config file (optional)")
		verbose    = flag.Bool("v", false, "Debug logging")
	)
	flag.Parse()

	logger := newLogger(*verbose)
	slog.SetDefault(logger)

	if *dumpPath == "" {
		fatal(logger, "-dump required", nil)
	}
	if *dbPath == "" {
		fatal(logger, "-db required", nil)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fatal(logger, "load config", err)
		}
		cfg = loaded
	}

	ctx := context.Background()

	dump, err := os.Open(*dumpPath)
	if err != nil {
		fatal(logger, "open dump", err)
	}
	defer dump.Close()

	st, err := sqlite.OpenSQLite(ctx, *dbPath, cfg.BatchSize)
	if err != nil {
		fatal(logger, "open database", err)
	}
	defer st.Close()

	scanner := ringscan.New(ringscan.Options{
		Store:    st,
		Progress: progress.NewReporter(logger, cfg.ReportEvery),
		Config:   cfg,
	})

	logger.Info("scanning dump", "dump", *dumpPath, "db", *dbPath, "batch_size", cfg.BatchSize)

	stats, err := scanner.Run(ctx, dump)
	if err != nil {
		fatal(logger, "scan failed", err)
	}

	logger.Info("scan complete",
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"match_rate_pct", fmt.Sprintf("%.3f", stats.MatchRate()),
		"elapsed", stats.Elapsed.Round(10*time.Millisecond),
		"systems_per_sec", fmt.Sprintf("%.0f", stats.PerSecond()),
	)
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))
}

func fatal(logger *slog.Logger, msg string, err error) {
	if err != nil {
		logger.Error(msg, "err", err)
	} else {
		logger.Error(msg)
	}
	os.Exit(1)
}

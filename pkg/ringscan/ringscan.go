// Package ringscan drives one pass over a galaxy dump: lines are reassembled
// into records, records are matched, and matches are written to the store in
// batched transactions.
package ringscan

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/ringscan/pkg/ringscan/config"
	"github.com/cognicore/ringscan/pkg/ringscan/galaxy"
	"github.com/cognicore/ringscan/pkg/ringscan/progress"
	"github.com/cognicore/ringscan/pkg/ringscan/scan"
	"github.com/cognicore/ringscan/pkg/ringscan/store"
)

// Scanner is the pipeline driver.
type Scanner struct {
	store    store.Store
	progress *progress.Reporter
	cfg      config.Config
	entropy  *ulid.MonotonicEntropy
}

// Options configures a Scanner instance
type Options struct {
	// Store receives matched rows. Required.
	Store store.Store
	// Progress reports periodic counters. Optional.
	Progress *progress.Reporter
	// Config tunes buffers and batching. Zero value selects config.Default().
	Config config.Config
}

// New creates a Scanner with the given dependencies
func New(opts Options) *Scanner {
	cfg := opts.Config
	if cfg == (config.Config{}) {
		cfg = config.Default()
	}
	return &Scanner{
		store:    opts.Store,
		progress: opts.Progress,
		cfg:      cfg,
		entropy:  ulid.Monotonic(rand.Reader, 0),
	}
}

// Stats summarizes one completed run. Scanned counts every record decoded
// from the dump, Matched the subset that qualified.
type Stats struct {
	Scanned int64
	Matched int64
	Elapsed time.Duration
}

// MatchRate returns Matched/Scanned as a percentage.
func (s Stats) MatchRate() float64 {
	return progress.Rate(s.Scanned, s.Matched)
}

// PerSecond returns the scan throughput in records per second.
func (s Stats) PerSecond() float64 {
	secs := s.Elapsed.Seconds()
	if secs == 0 {
		return 0
	}
	return float64(s.Scanned) / secs
}

// Run processes the whole dump in one pass. Each record is reassembled,
// decoded, matched, and (when it qualifies) handed to the store before the
// next line is read. On return the final batch has been flushed, planner
// statistics refreshed, and the run recorded. Any error is fatal to the run;
// batches committed before it stay durable.
func (s *Scanner) Run(ctx context.Context, dump io.Reader) (Stats, error) {
	started := time.Now()
	var stats Stats

	src := scan.NewLineSource(dump, s.cfg.MaxLineBytes)
	rs := scan.NewReassembler(s.cfg.MaxFragmentBytes)

	for src.Scan() {
		frag, err := rs.Push(src.Text())
		if err != nil {
			return stats, err
		}
		if rs.Done() {
			break
		}
		if frag == nil {
			continue
		}

		stats.Scanned++

		var sys galaxy.System
		if err := json.Unmarshal(frag, &sys); err != nil {
			return stats, fmt.Errorf("decode record %d: %w", stats.Scanned, err)
		}

		body, ok := galaxy.Match(&sys)
		if !ok {
			continue
		}
		stats.Matched++

		if err := s.store.InsertMatch(ctx, buildMatch(&sys, body, frag)); err != nil {
			return stats, fmt.Errorf("insert match %q: %w", sys.Name, err)
		}
		if s.progress != nil {
			s.progress.Match(stats.Scanned, stats.Matched)
		}
	}
	if err := src.Err(); err != nil {
		return stats, fmt.Errorf("read dump: %w", err)
	}
	if !rs.Done() {
		if err := rs.Finish(); err != nil {
			return stats, err
		}
	}

	if err := s.store.Flush(ctx); err != nil {
		return stats, fmt.Errorf("flush final batch: %w", err)
	}
	if err := s.store.Optimize(ctx); err != nil {
		return stats, fmt.Errorf("optimize store: %w", err)
	}

	stats.Elapsed = time.Since(started)
	run := store.Run{
		ID:         ulid.MustNew(ulid.Timestamp(started), s.entropy).String(),
		StartedAt:  started,
		FinishedAt: started.Add(stats.Elapsed),
		Scanned:    stats.Scanned,
		Matched:    stats.Matched,
	}
	if err := s.store.RecordRun(ctx, run); err != nil {
		return stats, fmt.Errorf("record run: %w", err)
	}
	return stats, nil
}

func buildMatch(sys *galaxy.System, body *galaxy.Body, raw []byte) store.Match {
	c := sys.Coords
	return store.Match{
		SystemName:      sys.Name,
		X:               c.X,
		Y:               c.Y,
		Z:               c.Z,
		DistanceFromSol: math.Sqrt(c.X*c.X + c.Y*c.Y + c.Z*c.Z),
		BodyCount:       sys.BodyCount,
		BodyName:        body.Name,
		BodyJSON:        string(body.Raw),
		SystemJSON:      string(raw),
	}
}

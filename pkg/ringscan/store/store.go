package store

import (
	"context"
	"time"
)

// Store persists matched systems and run statistics.
//
// Write semantics: between Open and Close the store keeps one transaction
// open at all times. InsertMatch writes into it; every BatchSize-th row the
// implementation commits and immediately opens the next transaction. Flush
// commits whatever partial batch remains. Rows in an uncommitted batch are
// not durable if the process dies.
type Store interface {
	Close() error

	// Matches
	InsertMatch(ctx context.Context, m Match) error
	Flush(ctx context.Context) error
	MatchCount(ctx context.Context) (int64, error)
	NearestMatches(ctx context.Context, limit int) ([]Match, error)
	TopByBodyCount(ctx context.Context, limit int) ([]Match, error)

	// Runs
	RecordRun(ctx context.Context, r Run) error
	Runs(ctx context.Context) ([]Run, error)

	// Optimize performs end-of-run maintenance for the engine's query
	// planner. Safe to skip; a no-op for stores that need none.
	Optimize(ctx context.Context) error
}

// Match is one persisted row: a system together with its first qualifying
// body. The two JSON columns hold the body's and the system's full original
// text.
type Match struct {
	ID              int64
	SystemName      string
	X, Y, Z         float64
	DistanceFromSol float64
	BodyCount       int
	BodyName        string
	BodyJSON        string
	SystemJSON      string
}

// Run records one ingestion pass.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Scanned    int64
	Matched    int64
}

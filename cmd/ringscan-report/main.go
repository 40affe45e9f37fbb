// ringscan-report runs read-only aggregations over a database populated by
// ringscan and prints them as indented JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"

	"github.com/cognicore/ringscan/pkg/ringscan/store"
	"github.com/cognicore/ringscan/pkg/ringscan/store/sqlite"
)

type report struct {
	TotalMatches int64         `json:"total_matches"`
	Nearest      []systemEntry `json:"nearest_systems"`
	TopBodyCount []systemEntry `json:"top_body_count"`
	Runs         []runEntry    `json:"runs"`
}

type systemEntry struct {
	SystemName      string  `json:"system_name"`
	DistanceFromSol float64 `json:"distance_from_sol"`
	BodyCount       int     `json:"body_count"`
	MatchedBody     string  `json:"matched_body"`
}

type runEntry struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Scanned    int64     `json:"systems_scanned"`
	Matched    int64     `json:"systems_matched"`
}

func main() {
	var (
		dbPath    = flag.String("db", "", "Database path (required)")
		nearest   = flag.Int("nearest", 20, "How many nearest systems to list")
		topBodies = flag.Int("top-bodies", 20, "How many systems to list by body count")
	)
	flag.Parse()

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		TimeFormat: "15:04:05",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))

	if *dbPath == "" {
		logger.Error("-db required")
		os.Exit(1)
	}

	ctx := context.Background()

	st, err := sqlite.OpenSQLite(ctx, *dbPath, 0)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer st.Close()

	rep, err := buildReport(ctx, st, *nearest, *topBodies)
	if err != nil {
		logger.Error("build report", "err", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		logger.Error("marshal report", "err", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func buildReport(ctx context.Context, st store.Store, nearest, topBodies int) (report, error) {
	var rep report

	total, err := st.MatchCount(ctx)
	if err != nil {
		return rep, err
	}
	rep.TotalMatches = total

	near, err := st.NearestMatches(ctx, nearest)
	if err != nil {
		return rep, err
	}
	rep.Nearest = toEntries(near)

	top, err := st.TopByBodyCount(ctx, topBodies)
	if err != nil {
		return rep, err
	}
	rep.TopBodyCount = toEntries(top)

	runs, err := st.Runs(ctx)
	if err != nil {
		return rep, err
	}
	for _, r := range runs {
		rep.Runs = append(rep.Runs, runEntry{
			ID:         r.ID,
			StartedAt:  r.StartedAt,
			FinishedAt: r.FinishedAt,
			Scanned:    r.Scanned,
			Matched:    r.Matched,
		})
	}

	return rep, nil
}

func toEntries(matches []store.Match) []systemEntry {
	out := make([]systemEntry, 0, len(matches))
	for _, m := range matches {
		out = append(out, systemEntry{
			SystemName:      m.SystemName,
			DistanceFromSol: m.DistanceFromSol,
			BodyCount:       m.BodyCount,
			MatchedBody:     m.BodyName,
		})
	}
	return out
}

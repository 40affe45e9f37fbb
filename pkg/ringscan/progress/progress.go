// Package progress emits periodic counters during an ingestion run. It sits
// outside the data path: dropping it changes nothing about what gets
// persisted.
package progress

import "log/slog"

// DefaultEvery reports on every 500th match.
const DefaultEvery = 500

// Reporter logs a summary line on every Nth match.
type Reporter struct {
	every  int64
	logger *slog.Logger
}

// NewReporter creates a reporter logging through logger every nth match.
// every <= 0 selects DefaultEvery; a nil logger selects slog.Default().
func NewReporter(logger *slog.Logger, every int64) *Reporter {
	if every <= 0 {
		every = DefaultEvery
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{every: every, logger: logger}
}

// Match observes one match. Counters are owned by the caller; the reporter
// only decides whether this one is worth a log line.
func (r *Reporter) Match(scanned, matched int64) {
	if matched%r.every != 0 {
		return
	}
	r.logger.Info("scan progress",
		"scanned", scanned,
		"matched", matched,
		"match_rate_pct", Rate(scanned, matched),
	)
}

// Rate returns matched/scanned as a percentage, 0 when nothing was scanned.
func Rate(scanned, matched int64) float64 {
	if scanned == 0 {
		return 0
	}
	return float64(matched) / float64(scanned) * 100
}

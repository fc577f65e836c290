package report

import (
	"github.com/banshee-data/annie.dataset/internal/dataset"
	"github.com/banshee-data/annie.dataset/internal/monitoring"
)

// LogObserver reports pipeline progress through monitoring.Logf.
type LogObserver struct{}

// RowsRead logs the number of input rows.
func (LogObserver) RowsRead(path string, n int) {
	monitoring.Logf("[pipeline] read %d rows from %s", n, path)
}

// ClassCounts logs the per-class counts before and after balancing.
func (LogObserver) ClassCounts(before, after dataset.ClassCounts) {
	monitoring.Logf("[pipeline] class counts before: %s (total %d)", before, before.Total())
	monitoring.Logf("[pipeline] class counts after:  %s (total %d)", after, after.Total())
}

// Written logs a finished output table.
func (LogObserver) Written(path string, rows int) {
	monitoring.Logf("[pipeline] wrote %d rows to %s", rows, path)
}

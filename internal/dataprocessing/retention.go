package dataprocessing

import (
	"time"
)

// CutoffDate computes the earliest trading date still kept for the given
// retention window. The cutoff is derived once per run and threaded
// explicitly into every retention call; components never read the clock.
func CutoffDate(now time.Time, retentionDays int) time.Time {
	return now.AddDate(0, 0, -retentionDays).Truncate(24 * time.Hour)
}

// ApplyRetention returns the rows whose date is on or after cutoff, plus the
// count removed. Rows with a zero date are passed through unchanged: a table
// without a date column is not subject to retention.
func ApplyRetention[T any](rows []T, dateOf func(T) time.Time, cutoff time.Time) ([]T, int) {
	kept := make([]T, 0, len(rows))
	removed := 0
	for _, row := range rows {
		d := dateOf(row)
		if !d.IsZero() && d.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	return kept, removed
}

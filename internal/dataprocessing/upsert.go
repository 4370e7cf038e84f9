package dataprocessing

import (
	"sort"
	"time"

	"nepsecli/internal/domain"
)

// UpsertByDate replaces, for every date present in fresh, all existing rows
// for that exact date with the freshly computed ones. Dates not recomputed in
// this run are left untouched. Recomputing a date therefore always supersedes
// whatever was stored for it, so the merge is idempotent and self-correcting
// when a date's raw data was fixed and reprocessed. The returned replaced
// count is the number of dates that already had rows in the existing table.
func UpsertByDate(existing []domain.BrokerStockSummary, fresh map[time.Time][]domain.BrokerStockSummary) ([]domain.BrokerStockSummary, int) {
	freshDates := make(map[string]struct{}, len(fresh))
	for day := range fresh {
		freshDates[day.Format(domain.DateFormat)] = struct{}{}
	}

	replaced := make(map[string]struct{})
	merged := make([]domain.BrokerStockSummary, 0, len(existing))
	for _, row := range existing {
		key := row.Date.Format(domain.DateFormat)
		if _, ok := freshDates[key]; ok {
			replaced[key] = struct{}{}
			continue
		}
		merged = append(merged, row)
	}

	for _, rows := range fresh {
		merged = append(merged, rows...)
	}

	sort.Slice(merged, func(i, j int) bool {
		if !merged[i].Date.Equal(merged[j].Date) {
			return merged[i].Date.Before(merged[j].Date)
		}
		if merged[i].BrokerID != merged[j].BrokerID {
			return merged[i].BrokerID < merged[j].BrokerID
		}
		return merged[i].Symbol < merged[j].Symbol
	})

	return merged, len(replaced)
}

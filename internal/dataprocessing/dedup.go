package dataprocessing

import (
	"sort"

	"nepsecli/internal/domain"
)

// MergeTransactions merges a newly fetched batch into the previously stored
// raw table. The natural key is (date, transaction_no): stored rows whose key
// reappears in the batch are replaced by the batch's version, stored rows not
// in the batch are retained, and the batch is kept in full. Re-running the
// merge with the same batch is a no-op, which makes re-fetching a date safe.
// The returned duplicate count is the number of batch rows that replaced an
// existing row.
func MergeTransactions(existing, batch []domain.TransactionRecord) ([]domain.TransactionRecord, int) {
	batchKeys := make(map[domain.TransactionKey]struct{}, len(batch))
	for _, r := range batch {
		batchKeys[r.Key()] = struct{}{}
	}

	merged := make([]domain.TransactionRecord, 0, len(existing)+len(batch))
	duplicates := 0
	for _, r := range existing {
		if _, ok := batchKeys[r.Key()]; ok {
			duplicates++
			continue
		}
		merged = append(merged, r)
	}
	merged = append(merged, batch...)

	sort.Slice(merged, func(i, j int) bool {
		if !merged[i].Date.Equal(merged[j].Date) {
			return merged[i].Date.Before(merged[j].Date)
		}
		return merged[i].TransactionNo < merged[j].TransactionNo
	})

	return merged, duplicates
}

package dataprocessing

import (
	"sort"

	"nepsecli/internal/domain"
)

// FoldGlobal folds every per-date summary row into one all-time row per
// (broker, symbol) pair. Buy and sell accumulators are summed across dates
// and LastUpdated tracks the most recent date folded into each entry. The
// broker name recorded for an entry is the first one seen, so a broker whose
// name changed between dates does not fragment its totals. Derived metrics
// are recomputed on the folded accumulators, and the result is sorted by
// (broker_id, symbol).
func FoldGlobal(rows []domain.BrokerStockSummary) []domain.BrokerStockSummary {
	aggs := make(map[domain.BrokerStockKey]*domain.BrokerStockSummary)

	for _, row := range rows {
		key := row.Key()
		s, ok := aggs[key]
		if !ok {
			s = &domain.BrokerStockSummary{
				BrokerID:    row.BrokerID,
				BrokerName:  row.BrokerName,
				Symbol:      row.Symbol,
				LastUpdated: row.Date,
			}
			aggs[key] = s
		}

		s.BuyQuantity += row.BuyQuantity
		s.BuyAmount += row.BuyAmount
		s.SellQuantity += row.SellQuantity
		s.SellAmount += row.SellAmount

		if row.Date.After(s.LastUpdated) {
			s.LastUpdated = row.Date
		}
	}

	folded := make([]domain.BrokerStockSummary, 0, len(aggs))
	for _, s := range aggs {
		folded = append(folded, ComputeDerivedMetrics(*s))
	}

	sort.Slice(folded, func(i, j int) bool {
		if folded[i].BrokerID != folded[j].BrokerID {
			return folded[i].BrokerID < folded[j].BrokerID
		}
		return folded[i].Symbol < folded[j].Symbol
	})

	return folded
}

package dataprocessing

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"nepsecli/internal/domain"
)

// FoldByBrokerStock folds the transactions of a single trading date into one
// summary per (broker, symbol) pair. Every record contributes its quantity
// and amount to the buy side of the buyer's entry and to the sell side of
// the seller's entry; a party trading with itself in the same stock
// accumulates into the same entry. Accumulation is commutative, so input
// order does not affect the result. The returned rows are sorted by
// (broker_id, symbol) and carry fully computed derived metrics.
func FoldByBrokerStock(date time.Time, records []domain.TransactionRecord) []domain.BrokerStockSummary {
	aggs := make(map[domain.BrokerStockKey]*domain.BrokerStockSummary)

	entry := func(brokerID, brokerName, symbol string) *domain.BrokerStockSummary {
		key := domain.BrokerStockKey{BrokerID: brokerID, Symbol: symbol}
		s, ok := aggs[key]
		if !ok {
			s = &domain.BrokerStockSummary{
				BrokerID:   brokerID,
				BrokerName: brokerName,
				Symbol:     symbol,
				Date:       date,
			}
			aggs[key] = s
		}
		return s
	}

	for _, r := range records {
		buyer := entry(r.BuyerID, r.BuyerName, r.Symbol)
		buyer.BuyQuantity += r.Quantity
		buyer.BuyAmount += r.Amount

		seller := entry(r.SellerID, r.SellerName, r.Symbol)
		seller.SellQuantity += r.Quantity
		seller.SellAmount += r.Amount
	}

	summaries := make([]domain.BrokerStockSummary, 0, len(aggs))
	for _, s := range aggs {
		summaries = append(summaries, ComputeDerivedMetrics(*s))
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].BrokerID != summaries[j].BrokerID {
			return summaries[i].BrokerID < summaries[j].BrokerID
		}
		return summaries[i].Symbol < summaries[j].Symbol
	})

	return summaries
}

// SummarizeByDate partitions raw transactions by trading date and folds each
// date independently. Dates with no usable records contribute nothing; the
// other dates are unaffected.
func SummarizeByDate(ctx context.Context, logger *slog.Logger, records []domain.TransactionRecord) map[time.Time][]domain.BrokerStockSummary {
	if logger == nil {
		logger = slog.Default()
	}

	byDate := make(map[time.Time][]domain.TransactionRecord)
	for _, r := range records {
		day := r.Date.Truncate(24 * time.Hour)
		byDate[day] = append(byDate[day], r)
	}

	logger.InfoContext(ctx, "summarizing raw transactions by date",
		slog.Int("record_count", len(records)),
		slog.Int("date_count", len(byDate)))

	summaries := make(map[time.Time][]domain.BrokerStockSummary, len(byDate))
	for day, dayRecords := range byDate {
		folded := FoldByBrokerStock(day, dayRecords)
		if len(folded) == 0 {
			logger.WarnContext(ctx, "no broker-stock entries for date",
				slog.String("date", day.Format(domain.DateFormat)))
			continue
		}
		summaries[day] = folded
		logger.InfoContext(ctx, "created date summary",
			slog.String("date", day.Format(domain.DateFormat)),
			slog.Int("broker_stock_count", len(folded)))
	}

	return summaries
}

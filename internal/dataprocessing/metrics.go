package dataprocessing

import (
	"nepsecli/internal/domain"
)

// ComputeDerivedMetrics populates the derived fields of a summary from its
// accumulators. Every division is guarded: an average price is zero exactly
// when the corresponding quantity is zero, and the average holding price is
// zero for a flat or net short position.
func ComputeDerivedMetrics(s domain.BrokerStockSummary) domain.BrokerStockSummary {
	if s.BuyQuantity > 0 {
		s.AvgBuyPrice = s.BuyAmount / float64(s.BuyQuantity)
	} else {
		s.AvgBuyPrice = 0
	}

	if s.SellQuantity > 0 {
		s.AvgSellPrice = s.SellAmount / float64(s.SellQuantity)
	} else {
		s.AvgSellPrice = 0
	}

	s.NetQuantity = s.BuyQuantity - s.SellQuantity

	if s.NetQuantity > 0 {
		s.AvgHoldingPrice = (s.BuyAmount - s.SellAmount) / float64(s.NetQuantity)
	} else {
		s.AvgHoldingPrice = 0
	}

	return s
}

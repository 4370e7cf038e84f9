package domain

import (
	"time"
)

// BrokerStockSummary represents the aggregated position of one broker in one
// stock. The same shape is used per trading date (Date set) and globally
// across all dates (LastUpdated set to the most recent date folded in).
//
// The accumulator fields (buy/sell quantity and amount) are always
// non-negative; NetQuantity may be negative for a net short position. The
// derived fields are populated by dataprocessing.ComputeDerivedMetrics and
// are zero whenever their denominator is zero.
type BrokerStockSummary struct {
	BrokerID   string `json:"broker_id" csv:"broker_id"`
	BrokerName string `json:"broker_name" csv:"broker_name"`
	Symbol     string `json:"symbol" csv:"symbol"`

	BuyQuantity  int64   `json:"buy_quantity" csv:"buy_quantity"`
	BuyAmount    float64 `json:"buy_amount" csv:"buy_amount"`
	SellQuantity int64   `json:"sell_quantity" csv:"sell_quantity"`
	SellAmount   float64 `json:"sell_amount" csv:"sell_amount"`

	AvgBuyPrice     float64 `json:"avg_buy_price" csv:"avg_buy_price"`
	AvgSellPrice    float64 `json:"avg_sell_price" csv:"avg_sell_price"`
	NetQuantity     int64   `json:"net_quantity" csv:"net_quantity"`
	AvgHoldingPrice float64 `json:"avg_holding_price" csv:"avg_holding_price"`

	// Date is set on per-date summary rows, zero on global rows.
	Date time.Time `json:"date,omitempty" csv:"date"`
	// LastUpdated is set on global summary rows, zero on per-date rows.
	LastUpdated time.Time `json:"last_updated,omitempty" csv:"last_updated"`
}

// BrokerStockKey identifies a broker's position in one stock. BrokerName is
// deliberately not part of the key: the first name seen for a broker wins
// within a merge, so a renamed broker does not fragment its totals.
type BrokerStockKey struct {
	BrokerID string
	Symbol   string
}

// Key returns the (broker, symbol) key for this summary row.
func (s BrokerStockSummary) Key() BrokerStockKey {
	return BrokerStockKey{BrokerID: s.BrokerID, Symbol: s.Symbol}
}

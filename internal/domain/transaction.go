package domain

import (
	"time"
)

// DateFormat is the canonical serialization format for trading dates.
const DateFormat = "2006-01-02"

// TransactionRecord represents one matched trade from the exchange floorsheet.
// The natural key is (Date, TransactionNo); TransactionNo is unique within a
// trading date. Records are immutable once produced by the floorsheet source.
type TransactionRecord struct {
	Date          time.Time `json:"date" csv:"date"`
	TransactionNo string    `json:"transaction_no" csv:"transaction_no"`
	Symbol        string    `json:"symbol" csv:"symbol"`
	SymbolFull    string    `json:"symbol_full" csv:"symbol_full"`
	BuyerID       string    `json:"buyer_id" csv:"buyer_id"`
	BuyerName     string    `json:"buyer_name" csv:"buyer_name"`
	SellerID      string    `json:"seller_id" csv:"seller_id"`
	SellerName    string    `json:"seller_name" csv:"seller_name"`
	Quantity      int64     `json:"quantity" csv:"quantity" validate:"min=0"`
	Rate          float64   `json:"rate" csv:"rate" validate:"min=0"`
	Amount        float64   `json:"amount" csv:"amount" validate:"min=0"`
}

// Key returns the natural key used for deduplication across re-fetches.
func (r TransactionRecord) Key() TransactionKey {
	return TransactionKey{
		Date:          r.Date.Format(DateFormat),
		TransactionNo: r.TransactionNo,
	}
}

// TransactionKey identifies a transaction within the raw store.
type TransactionKey struct {
	Date          string
	TransactionNo string
}

package dataprocessing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nepsecli/internal/domain"
)

func tx(no, symbol, buyerID, buyerName, sellerID, sellerName string, qty int64, amount float64) domain.TransactionRecord {
	return domain.TransactionRecord{
		TransactionNo: no,
		Symbol:        symbol,
		BuyerID:       buyerID,
		BuyerName:     buyerName,
		SellerID:      sellerID,
		SellerName:    sellerName,
		Quantity:      qty,
		Rate:          amount / float64(qty),
		Amount:        amount,
	}
}

func TestFoldByBrokerStock(t *testing.T) {
	day := date("2024-01-02")
	records := []domain.TransactionRecord{
		tx("1", "X", "B1", "Broker One", "B2", "Broker Two", 100, 10000),
		tx("2", "X", "B2", "Broker Two", "B1", "Broker One", 40, 4200),
	}

	summaries := FoldByBrokerStock(day, records)
	require.Len(t, summaries, 2)

	b1 := summaries[0]
	assert.Equal(t, "B1", b1.BrokerID)
	assert.Equal(t, "Broker One", b1.BrokerName)
	assert.Equal(t, "X", b1.Symbol)
	assert.Equal(t, day, b1.Date)
	assert.Equal(t, int64(100), b1.BuyQuantity)
	assert.Equal(t, float64(10000), b1.BuyAmount)
	assert.Equal(t, int64(40), b1.SellQuantity)
	assert.Equal(t, float64(4200), b1.SellAmount)
	assert.Equal(t, int64(60), b1.NetQuantity)
	assert.InDelta(t, 96.67, b1.AvgHoldingPrice, 0.01)

	b2 := summaries[1]
	assert.Equal(t, "B2", b2.BrokerID)
	assert.Equal(t, int64(40), b2.BuyQuantity)
	assert.Equal(t, float64(4200), b2.BuyAmount)
	assert.Equal(t, int64(100), b2.SellQuantity)
	assert.Equal(t, float64(10000), b2.SellAmount)
	assert.Equal(t, int64(-60), b2.NetQuantity)
	assert.Zero(t, b2.AvgHoldingPrice)
}

func TestFoldByBrokerStockSelfTrade(t *testing.T) {
	// A broker on both sides of a trade accumulates into a single entry.
	day := date("2024-01-02")
	records := []domain.TransactionRecord{
		tx("1", "X", "B1", "Broker One", "B1", "Broker One", 10, 1000),
	}

	summaries := FoldByBrokerStock(day, records)
	require.Len(t, summaries, 1)

	s := summaries[0]
	assert.Equal(t, int64(10), s.BuyQuantity)
	assert.Equal(t, int64(10), s.SellQuantity)
	assert.Equal(t, int64(0), s.NetQuantity)
}

func TestFoldByBrokerStockOrderIndependent(t *testing.T) {
	day := date("2024-01-02")
	records := []domain.TransactionRecord{
		tx("1", "X", "B1", "Broker One", "B2", "Broker Two", 100, 10000),
		tx("2", "Y", "B1", "Broker One", "B3", "Broker Three", 25, 500),
		tx("3", "X", "B3", "Broker Three", "B1", "Broker One", 40, 4200),
	}
	reversed := []domain.TransactionRecord{records[2], records[1], records[0]}

	assert.Equal(t, FoldByBrokerStock(day, records), FoldByBrokerStock(day, reversed))
}

func TestFoldByBrokerStockFirstSeenNameWins(t *testing.T) {
	day := date("2024-01-02")
	records := []domain.TransactionRecord{
		tx("1", "X", "B1", "Old Name", "B2", "Broker Two", 10, 1000),
		tx("2", "X", "B1", "New Name", "B3", "Broker Three", 10, 1000),
	}

	summaries := FoldByBrokerStock(day, records)

	var b1 *domain.BrokerStockSummary
	for i := range summaries {
		if summaries[i].BrokerID == "B1" {
			b1 = &summaries[i]
		}
	}
	require.NotNil(t, b1)
	assert.Equal(t, "Old Name", b1.BrokerName)
	assert.Equal(t, int64(20), b1.BuyQuantity)
}

func TestSummarizeByDate(t *testing.T) {
	day1 := date("2024-01-02")
	day2 := date("2024-01-03")

	r1 := tx("1", "X", "B1", "Broker One", "B2", "Broker Two", 100, 10000)
	r1.Date = day1
	r2 := tx("1", "Y", "B3", "Broker Three", "B4", "Broker Four", 20, 400)
	r2.Date = day2

	summaries := SummarizeByDate(context.Background(), nil, []domain.TransactionRecord{r1, r2})

	require.Len(t, summaries, 2)
	assert.Len(t, summaries[day1], 2)
	assert.Len(t, summaries[day2], 2)
	for _, s := range summaries[day1] {
		assert.Equal(t, day1, s.Date)
		assert.Equal(t, "X", s.Symbol)
	}
}

func TestSummarizeByDateEmptyInput(t *testing.T) {
	summaries := SummarizeByDate(context.Background(), nil, nil)
	assert.Empty(t, summaries)
}

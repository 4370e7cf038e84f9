package fetch

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const headerRow = `<tr><th>SN</th><th>Transaction No.</th><th>Symbol</th><th>Buyer</th><th>Seller</th><th>Quantity</th><th>Rate</th><th>Amount</th></tr>`

func dataRow(txno, symbol, symbolFull, buyer, buyerName, seller, sellerName, qty, rate, amount string) string {
	return fmt.Sprintf(`<tr>
		<td>1</td>
		<td>%s</td>
		<td><a href="#" title="%s">%s</a></td>
		<td><a href="#" title="%s">%s</a></td>
		<td><a href="#" title="%s">%s</a></td>
		<td>%s</td>
		<td>%s</td>
		<td>%s</td>
	</tr>`, txno, symbolFull, symbol, buyerName, buyer, sellerName, seller, qty, rate, amount)
}

func floorsheetPage(asOf string, totalPages int, rows ...string) string {
	return fmt.Sprintf(`<html><body>
		<div class="panel-heading">Floor Sheet <span>As of %s</span></div>
		<table class="table table-bordered">
			%s
			%s
		</table>
		<div class="pagination">Total pages: %d [1]</div>
	</body></html>`, asOf, headerRow, strings.Join(rows, "\n"), totalPages)
}

func TestParsePage(t *testing.T) {
	page := floorsheetPage("2024/01/02", 3,
		dataRow("2024010200001", "NABIL", "Nabil Bank Limited", "34", "Vision Securities", "58", "Naasa Securities", "1,000", "512.50", "512,500.00"),
		dataRow("2024010200002", "NICA", "NIC Asia Bank", "58", "Naasa Securities", "34", "Vision Securities", "40", "880", "35,200"),
	)

	got, err := ParsePage(strings.NewReader(page))

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), got.TradingDate)
	assert.Equal(t, 3, got.TotalPages)
	assert.Empty(t, got.Skipped)
	require.Len(t, got.Records, 2)

	first := got.Records[0]
	assert.Equal(t, "2024010200001", first.TransactionNo)
	assert.Equal(t, "NABIL", first.Symbol)
	assert.Equal(t, "Nabil Bank Limited", first.SymbolFull)
	assert.Equal(t, "34", first.BuyerID)
	assert.Equal(t, "Vision Securities", first.BuyerName)
	assert.Equal(t, "58", first.SellerID)
	assert.Equal(t, "Naasa Securities", first.SellerName)
	assert.Equal(t, int64(1000), first.Quantity)
	assert.Equal(t, 512.5, first.Rate)
	assert.Equal(t, 512500.0, first.Amount)
	assert.Equal(t, got.TradingDate, first.Date)
}

func TestParsePageSkipsMalformedRows(t *testing.T) {
	page := floorsheetPage("2024/01/02", 1,
		dataRow("t1", "NABIL", "Nabil Bank", "34", "B", "58", "S", "100", "512.5", "51250"),
		dataRow("t2", "NABIL", "Nabil Bank", "34", "B", "58", "S", "abc", "512.5", "51250"),
		dataRow("", "NABIL", "Nabil Bank", "34", "B", "58", "S", "100", "512.5", "51250"),
		`<tr><td>4</td><td>t4</td></tr>`,
		dataRow("t5", "NABIL", "Nabil Bank", "34", "B", "58", "S", "50", "100", "5000"),
	)

	got, err := ParsePage(strings.NewReader(page))

	require.NoError(t, err)
	require.Len(t, got.Records, 2)
	assert.Equal(t, "t1", got.Records[0].TransactionNo)
	assert.Equal(t, "t5", got.Records[1].TransactionNo)

	require.Len(t, got.Skipped, 3)
	assert.Contains(t, got.Skipped[0].Reason, "bad quantity")
	assert.Contains(t, got.Skipped[1].Reason, "missing transaction number")
	assert.Contains(t, got.Skipped[2].Reason, "expected 8 columns")
}

func TestParsePageWithoutTable(t *testing.T) {
	page := `<html><body><p>As of 2024/01/02</p><p>No records found.</p></body></html>`

	got, err := ParsePage(strings.NewReader(page))

	require.NoError(t, err)
	assert.Empty(t, got.Records)
	assert.Equal(t, 1, got.TotalPages)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), got.TradingDate)
}

func TestParsePageWithoutDateMarker(t *testing.T) {
	page := floorsheetPage("not-a-date", 1,
		dataRow("t1", "NABIL", "Nabil Bank", "34", "B", "58", "S", "100", "512.5", "51250"),
	)

	got, err := ParsePage(strings.NewReader(page))

	require.NoError(t, err)
	assert.True(t, got.TradingDate.IsZero())
	require.Len(t, got.Records, 1)
	assert.True(t, got.Records[0].Date.IsZero())
}

func TestParsePageDefaultsTotalPagesToOne(t *testing.T) {
	page := `<html><body>
		As of 2024/01/02
		<table class="table">` + headerRow +
		dataRow("t1", "NABIL", "Nabil Bank", "34", "B", "58", "S", "100", "512.5", "51250") +
		`</table></body></html>`

	got, err := ParsePage(strings.NewReader(page))

	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalPages)
	assert.Len(t, got.Records, 1)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{name: "plain integer", input: "100", want: 100},
		{name: "thousands commas", input: "1,234,567", want: 1234567},
		{name: "decimal with commas", input: "512,500.25", want: 512500.25},
		{name: "surrounding whitespace", input: "  42  ", want: 42},
		{name: "empty cell", input: "   ", wantErr: true},
		{name: "not a number", input: "n/a", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseNumber(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

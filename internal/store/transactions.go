package store

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"nepsecli/internal/domain"
)

// transactionHeader lists the raw floorsheet columns in persisted order.
var transactionHeader = []string{
	"date", "transaction_no", "symbol", "symbol_full",
	"buyer_id", "buyer_name", "seller_id", "seller_name",
	"quantity", "rate", "amount",
}

// Store reads and writes the pipeline's persisted tables.
type Store struct {
	logger *slog.Logger
}

// New creates a store instance. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{logger: logger}
}

// LoadTransactions reads the raw floorsheet table. Malformed rows are skipped
// with a diagnostic and never abort the load; an absent file surfaces as a
// NOT_FOUND error the caller can treat as an empty table.
func (s *Store) LoadTransactions(ctx context.Context, path string) ([]domain.TransactionRecord, error) {
	header, rows, err := readTable(path)
	if err != nil {
		return nil, err
	}

	idx := indexColumns(header)
	records := make([]domain.TransactionRecord, 0, len(rows))
	skipped := 0

	for _, row := range rows {
		record, ok := parseTransactionRow(idx, row)
		if !ok {
			skipped++
			continue
		}
		records = append(records, record)
	}

	if skipped > 0 {
		s.logger.WarnContext(ctx, "skipped malformed transaction rows",
			slog.String("path", path),
			slog.Int("skipped", skipped))
	}
	s.logger.InfoContext(ctx, "loaded raw transactions",
		slog.String("path", path),
		slog.Int("record_count", len(records)))

	return records, nil
}

// SaveTransactions atomically replaces the raw floorsheet table.
func (s *Store) SaveTransactions(ctx context.Context, path string, records []domain.TransactionRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Date.Format(domain.DateFormat),
			r.TransactionNo,
			r.Symbol,
			r.SymbolFull,
			r.BuyerID,
			r.BuyerName,
			r.SellerID,
			r.SellerName,
			formatInt(r.Quantity),
			formatFloat(r.Rate),
			formatFloat(r.Amount),
		})
	}

	if err := writeTable(path, transactionHeader, rows); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "saved raw transactions",
		slog.String("path", path),
		slog.Int("record_count", len(records)))
	return nil
}

// parseTransactionRow converts one CSV row, reporting false for rows with
// unparseable numeric fields. A missing date column yields a zero date so
// that retention treats the table as undated rather than failing.
func parseTransactionRow(idx columnIndex, row []string) (domain.TransactionRecord, bool) {
	var record domain.TransactionRecord

	if raw, ok := idx.get(row, "date"); ok {
		date, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return record, false
		}
		record.Date = date
	}

	record.TransactionNo, _ = idx.get(row, "transaction_no")
	record.Symbol, _ = idx.get(row, "symbol")
	record.SymbolFull, _ = idx.get(row, "symbol_full")
	record.BuyerID, _ = idx.get(row, "buyer_id")
	record.BuyerName, _ = idx.get(row, "buyer_name")
	record.SellerID, _ = idx.get(row, "seller_id")
	record.SellerName, _ = idx.get(row, "seller_name")

	if raw, ok := idx.get(row, "quantity"); ok {
		quantity, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return record, false
		}
		record.Quantity = quantity
	}
	if raw, ok := idx.get(row, "rate"); ok {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return record, false
		}
		record.Rate = rate
	}
	if raw, ok := idx.get(row, "amount"); ok {
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return record, false
		}
		record.Amount = amount
	}

	return record, true
}

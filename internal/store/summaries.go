package store

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"nepsecli/internal/domain"
)

var dateSummaryHeader = []string{
	"date", "broker_id", "broker_name", "symbol",
	"buy_quantity", "buy_amount", "sell_quantity", "sell_amount",
	"avg_buy_price", "avg_sell_price", "net_quantity", "avg_holding_price",
}

var globalSummaryHeader = []string{
	"broker_id", "broker_name", "symbol",
	"buy_quantity", "buy_amount", "sell_quantity", "sell_amount",
	"avg_buy_price", "avg_sell_price", "net_quantity", "avg_holding_price",
	"last_updated",
}

// LoadDateSummaries reads the per-date summary table.
func (s *Store) LoadDateSummaries(ctx context.Context, path string) ([]domain.BrokerStockSummary, error) {
	summaries, err := s.loadSummaries(ctx, path, "date")
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "loaded date summaries",
		slog.String("path", path),
		slog.Int("row_count", len(summaries)))
	return summaries, nil
}

// SaveDateSummaries atomically replaces the per-date summary table.
func (s *Store) SaveDateSummaries(ctx context.Context, path string, summaries []domain.BrokerStockSummary) error {
	rows := make([][]string, 0, len(summaries))
	for _, row := range summaries {
		rows = append(rows, append([]string{row.Date.Format(domain.DateFormat)}, summaryFields(row)...))
	}

	if err := writeTable(path, dateSummaryHeader, rows); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "saved date summaries",
		slog.String("path", path),
		slog.Int("row_count", len(summaries)))
	return nil
}

// LoadGlobalSummaries reads the all-time summary table.
func (s *Store) LoadGlobalSummaries(ctx context.Context, path string) ([]domain.BrokerStockSummary, error) {
	summaries, err := s.loadSummaries(ctx, path, "last_updated")
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "loaded global summaries",
		slog.String("path", path),
		slog.Int("row_count", len(summaries)))
	return summaries, nil
}

// SaveGlobalSummaries atomically replaces the all-time summary table.
func (s *Store) SaveGlobalSummaries(ctx context.Context, path string, summaries []domain.BrokerStockSummary) error {
	rows := make([][]string, 0, len(summaries))
	for _, row := range summaries {
		rows = append(rows, append(summaryFields(row), row.LastUpdated.Format(domain.DateFormat)))
	}

	if err := writeTable(path, globalSummaryHeader, rows); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "saved global summaries",
		slog.String("path", path),
		slog.Int("row_count", len(summaries)))
	return nil
}

// loadSummaries reads a summary table whose date lives in dateColumn.
func (s *Store) loadSummaries(ctx context.Context, path, dateColumn string) ([]domain.BrokerStockSummary, error) {
	header, rows, err := readTable(path)
	if err != nil {
		return nil, err
	}

	idx := indexColumns(header)
	summaries := make([]domain.BrokerStockSummary, 0, len(rows))
	skipped := 0

	for _, row := range rows {
		summary, ok := parseSummaryRow(idx, row, dateColumn)
		if !ok {
			skipped++
			continue
		}
		summaries = append(summaries, summary)
	}

	if skipped > 0 {
		s.logger.WarnContext(ctx, "skipped malformed summary rows",
			slog.String("path", path),
			slog.Int("skipped", skipped))
	}
	return summaries, nil
}

// summaryFields renders the common columns shared by both summary tables.
func summaryFields(row domain.BrokerStockSummary) []string {
	return []string{
		row.BrokerID,
		row.BrokerName,
		row.Symbol,
		formatInt(row.BuyQuantity),
		formatFloat(row.BuyAmount),
		formatInt(row.SellQuantity),
		formatFloat(row.SellAmount),
		formatFloat(row.AvgBuyPrice),
		formatFloat(row.AvgSellPrice),
		formatInt(row.NetQuantity),
		formatFloat(row.AvgHoldingPrice),
	}
}

func parseSummaryRow(idx columnIndex, row []string, dateColumn string) (domain.BrokerStockSummary, bool) {
	var summary domain.BrokerStockSummary

	if raw, ok := idx.get(row, dateColumn); ok {
		date, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return summary, false
		}
		if dateColumn == "last_updated" {
			summary.LastUpdated = date
		} else {
			summary.Date = date
		}
	}

	summary.BrokerID, _ = idx.get(row, "broker_id")
	summary.BrokerName, _ = idx.get(row, "broker_name")
	summary.Symbol, _ = idx.get(row, "symbol")

	intFields := []struct {
		name string
		dst  *int64
	}{
		{"buy_quantity", &summary.BuyQuantity},
		{"sell_quantity", &summary.SellQuantity},
		{"net_quantity", &summary.NetQuantity},
	}
	for _, f := range intFields {
		raw, ok := idx.get(row, f.name)
		if !ok {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return summary, false
		}
		*f.dst = v
	}

	floatFields := []struct {
		name string
		dst  *float64
	}{
		{"buy_amount", &summary.BuyAmount},
		{"sell_amount", &summary.SellAmount},
		{"avg_buy_price", &summary.AvgBuyPrice},
		{"avg_sell_price", &summary.AvgSellPrice},
		{"avg_holding_price", &summary.AvgHoldingPrice},
	}
	for _, f := range floatFields {
		raw, ok := idx.get(row, f.name)
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return summary, false
		}
		*f.dst = v
	}

	return summary, true
}

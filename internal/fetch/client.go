// Package fetch implements the floorsheet transaction source: an HTTP client
// that walks the paginated floorsheet listing for a trading date and parses
// each page's transaction table.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"nepsecli/internal/config"
	"nepsecli/internal/domain"
	"nepsecli/internal/errors"
)

// Client fetches floorsheet pages from the exchange listing site.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a floorsheet client from source configuration.
// Page requests are throttled by the configured request rate so pagination
// does not hammer the site.
func NewClient(cfg config.SourceConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 0.5
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
	}
}

// Result is the outcome of one floorsheet fetch.
type Result struct {
	TradingDate  time.Time
	Records      []domain.TransactionRecord
	PagesFetched int
	TotalPages   int
	SkippedRows  int
	// Incomplete is set when a later page failed after earlier pages
	// succeeded; the records already obtained are retained.
	Incomplete bool
}

// Fetch downloads the floorsheet for targetDate, or the most recent trading
// date when targetDate is zero. maxPages limits pagination (0 means all
// pages). A failure on the first page is a source error; a failure on a
// later page stops fetching but keeps everything already obtained.
func (c *Client) Fetch(ctx context.Context, targetDate time.Time, maxPages int) (*Result, error) {
	first, err := c.fetchPage(ctx, targetDate, 1)
	if err != nil {
		return nil, errors.NewSourceError("failed to fetch first floorsheet page", err)
	}

	tradingDate := first.TradingDate
	if tradingDate.IsZero() {
		if targetDate.IsZero() {
			return nil, errors.NewSourceError("could not determine trading date from floorsheet page", nil)
		}
		tradingDate = targetDate
	}

	totalPages := first.TotalPages
	if maxPages > 0 && totalPages > maxPages {
		totalPages = maxPages
	}

	result := &Result{
		TradingDate:  tradingDate,
		TotalPages:   first.TotalPages,
		PagesFetched: 1,
		SkippedRows:  len(first.Skipped),
	}
	result.Records = append(result.Records, stampDate(first.Records, tradingDate)...)

	c.logger.InfoContext(ctx, "fetched first floorsheet page",
		slog.String("trading_date", tradingDate.Format(domain.DateFormat)),
		slog.Int("total_pages", first.TotalPages),
		slog.Int("record_count", len(first.Records)))

	for pageNum := 2; pageNum <= totalPages; pageNum++ {
		page, err := c.fetchPage(ctx, targetDate, pageNum)
		if err != nil {
			// Keep what was already obtained; the operator can re-run,
			// dedup makes the re-fetch safe.
			c.logger.WarnContext(ctx, "failed to fetch floorsheet page, keeping earlier pages",
				slog.Int("page", pageNum),
				slog.Int("records_so_far", len(result.Records)),
				slog.String("error", err.Error()))
			result.Incomplete = true
			break
		}

		result.Records = append(result.Records, stampDate(page.Records, tradingDate)...)
		result.SkippedRows += len(page.Skipped)
		result.PagesFetched++

		c.logger.InfoContext(ctx, "fetched floorsheet page",
			slog.Int("page", pageNum),
			slog.Int("total_pages", totalPages),
			slog.Int("record_count", len(page.Records)))
	}

	if result.SkippedRows > 0 {
		c.logger.WarnContext(ctx, "skipped malformed floorsheet rows",
			slog.Int("skipped", result.SkippedRows))
	}

	return result, nil
}

// fetchPage GETs and parses a single floorsheet page.
func (c *Client) fetchPage(ctx context.Context, targetDate time.Time, pageNum int) (*PageData, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL(targetDate, pageNum), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s for page %d", resp.Status, pageNum)
	}

	return ParsePage(resp.Body)
}

// pageURL builds the listing URL: ?pg=N beyond page one, plus the target
// date as YYYY/MM/DD when one was requested.
func (c *Client) pageURL(targetDate time.Time, pageNum int) string {
	params := url.Values{}
	if pageNum > 1 {
		params.Set("pg", fmt.Sprintf("%d", pageNum))
	}
	if !targetDate.IsZero() {
		params.Set("date", targetDate.Format("2006/01/02"))
	}
	if len(params) == 0 {
		return c.baseURL
	}
	return c.baseURL + "?" + params.Encode()
}

// stampDate sets the trading date on every record of a page.
func stampDate(records []domain.TransactionRecord, date time.Time) []domain.TransactionRecord {
	for i := range records {
		records[i].Date = date
	}
	return records
}

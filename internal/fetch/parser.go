package fetch

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"nepsecli/internal/domain"
)

// SkippedRow records why one floorsheet table row could not be turned into a
// transaction record. Malformed rows never abort a page; they are collected
// here and reported at batch level.
type SkippedRow struct {
	Row    int
	Reason string
}

// PageData holds everything extracted from a single floorsheet page.
type PageData struct {
	TradingDate time.Time
	TotalPages  int
	Records     []domain.TransactionRecord
	Skipped     []SkippedRow
}

// ParsePage parses one floorsheet HTML page. The trading date is taken from
// the "As of YYYY/MM/DD" text and stamped onto every record; the pagination
// total comes from the "Total pages: N" text and defaults to 1 when absent.
func ParsePage(r io.Reader) (*PageData, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse floorsheet html: %w", err)
	}

	page := &PageData{TotalPages: 1}
	page.TradingDate = extractTradingDate(doc)
	if n, ok := extractTotalPages(doc); ok {
		page.TotalPages = n
	}

	table := findTable(doc)
	if table == nil {
		return page, nil
	}

	rows := tableRows(table)
	for i, row := range rows {
		if i == 0 {
			continue // header row
		}
		record, err := parseRow(row)
		if err != nil {
			page.Skipped = append(page.Skipped, SkippedRow{Row: i, Reason: err.Error()})
			continue
		}
		record.Date = page.TradingDate
		page.Records = append(page.Records, record)
	}

	return page, nil
}

// parseRow extracts one transaction from a floorsheet table row. Columns:
// SN, transaction no, symbol, buyer, seller, quantity, rate, amount.
func parseRow(tr *html.Node) (domain.TransactionRecord, error) {
	var record domain.TransactionRecord

	cells := childElements(tr, "td")
	if len(cells) < 8 {
		return record, fmt.Errorf("expected 8 columns, got %d", len(cells))
	}

	record.TransactionNo = strings.TrimSpace(textContent(cells[1]))
	if record.TransactionNo == "" {
		return record, fmt.Errorf("missing transaction number")
	}

	if a := firstElement(cells[2], "a"); a != nil {
		record.Symbol = strings.TrimSpace(textContent(a))
		record.SymbolFull = attrValue(a, "title")
	}
	if a := firstElement(cells[3], "a"); a != nil {
		record.BuyerID = strings.TrimSpace(textContent(a))
		record.BuyerName = attrValue(a, "title")
	}
	if a := firstElement(cells[4], "a"); a != nil {
		record.SellerID = strings.TrimSpace(textContent(a))
		record.SellerName = attrValue(a, "title")
	}

	quantity, err := parseNumber(textContent(cells[5]))
	if err != nil {
		return record, fmt.Errorf("bad quantity: %w", err)
	}
	record.Quantity = int64(quantity)

	record.Rate, err = parseNumber(textContent(cells[6]))
	if err != nil {
		return record, fmt.Errorf("bad rate: %w", err)
	}

	record.Amount, err = parseNumber(textContent(cells[7]))
	if err != nil {
		return record, fmt.Errorf("bad amount: %w", err)
	}

	return record, nil
}

// parseNumber parses a floorsheet numeric cell, tolerating thousands commas.
func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, fmt.Errorf("empty numeric cell")
	}
	return strconv.ParseFloat(s, 64)
}

// extractTradingDate finds the "As of YYYY/MM/DD" marker in the page text.
func extractTradingDate(doc *html.Node) time.Time {
	var date time.Time
	walkText(doc, func(text string) bool {
		idx := strings.Index(text, "As of ")
		if idx < 0 {
			return false
		}
		fields := strings.Fields(text[idx+len("As of "):])
		if len(fields) == 0 {
			return false
		}
		parsed, err := time.Parse("2006/01/02", fields[0])
		if err != nil {
			return false
		}
		date = parsed
		return true
	})
	return date
}

// extractTotalPages finds the "Total pages: N" marker in the page text.
func extractTotalPages(doc *html.Node) (int, bool) {
	total := 0
	found := walkText(doc, func(text string) bool {
		idx := strings.Index(text, "Total pages:")
		if idx < 0 {
			return false
		}
		rest := strings.TrimSpace(text[idx+len("Total pages:"):])
		rest = strings.TrimSpace(strings.Trim(rest, "]"))
		if fields := strings.Fields(rest); len(fields) > 0 {
			rest = fields[0]
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 {
			return false
		}
		total = n
		return true
	})
	return total, found
}

// findTable locates the floorsheet data table (class "table").
func findTable(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "table" {
		for _, class := range strings.Fields(attrValue(n, "class")) {
			if class == "table" {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if table := findTable(c); table != nil {
			return table
		}
	}
	return nil
}

// tableRows collects all tr elements under the table, in document order.
func tableRows(table *html.Node) []*html.Node {
	var rows []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			rows = append(rows, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(table)
	return rows
}

func childElements(n *html.Node, name string) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == name {
			out = append(out, c)
		}
	}
	return out
}

func firstElement(n *html.Node, name string) *html.Node {
	if n.Type == html.ElementNode && n.Data == name {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := firstElement(c, name); found != nil {
			return found
		}
	}
	return nil
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// walkText visits every text node until fn reports a match.
func walkText(n *html.Node, fn func(string) bool) bool {
	if n.Type == html.TextNode && fn(n.Data) {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if walkText(c, fn) {
			return true
		}
	}
	return false
}

// Package mandiboard scrapes published mandi price tables from state
// agricultural board pages. Secondary source: slower and less
// authoritative than Agmarknet, but covers commodities the government
// API misses.
package mandiboard

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/agrisage/mandiwatch/internal/infra"
	"github.com/agrisage/mandiwatch/internal/source"
	"github.com/agrisage/mandiwatch/pkg/models"
)

// DefaultBaseURL is the public commodity price listing page.
const DefaultBaseURL = "https://www.krishijagran.com/commodity-prices"

// Source scrapes mandi board HTML price tables.
type Source struct {
	baseURL string
	cache   *infra.Cache
	limiter *infra.RateLimiter
}

// New creates a mandi board source. An empty baseURL uses the default.
func New(baseURL string) *Source {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Source{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		cache:   infra.NewCache(15 * time.Minute),
		limiter: infra.NewRateLimiter(2, time.Second), // conservative: scraping
	}
}

// Name returns the source name.
func (s *Source) Name() string { return "mandiboard" }

// rupeeAmount matches the first numeric amount in a price cell,
// tolerating currency symbols, commas, and unit suffixes.
var rupeeAmount = regexp.MustCompile(`[0-9][0-9,]*(?:\.[0-9]+)?`)

// Fetch scrapes the price table and returns the row matching the
// commodity, if any.
func (s *Source) Fetch(ctx context.Context, commodity string, loc models.Location) (*models.CommodityPrice, error) {
	rows, err := s.loadTable(ctx)
	if err != nil {
		return nil, err
	}

	want := strings.ToLower(commodity)
	for _, row := range rows {
		if strings.ToLower(row.commodity) != want {
			continue
		}
		marketLoc := row.market
		if marketLoc == "" {
			marketLoc = loc.State
		}
		return &models.CommodityPrice{
			Commodity:      commodity,
			CurrentPrice:   row.price,
			Trend:          parseTrend(row.trend),
			MarketLocation: marketLoc,
			Source:         s.Name(),
			Date:           time.Now(),
		}, nil
	}

	return nil, fmt.Errorf("mandiboard: %s: %w", commodity, source.ErrNoData)
}

// tableRow is one parsed row of the published price table.
type tableRow struct {
	commodity string
	price     float64
	market    string
	trend     string
}

// loadTable fetches and parses the full price table, cached per page.
func (s *Source) loadTable(ctx context.Context) ([]tableRow, error) {
	if cached, ok := s.cache.Get(s.baseURL); ok {
		return cached.([]tableRow), nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, _, err := infra.DoGet(ctx, s.baseURL, map[string]string{"Accept": "text/html"})
	if err != nil {
		return nil, fmt.Errorf("mandiboard: %w", err)
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("mandiboard: parse HTML: %w", err)
	}

	var rows []tableRow
	doc.Find("table tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		name := strings.TrimSpace(cells.Eq(0).Text())
		price, ok := parsePrice(cells.Eq(1).Text())
		if name == "" || !ok {
			return
		}
		r := tableRow{commodity: name, price: price}
		if cells.Length() > 2 {
			r.market = strings.TrimSpace(cells.Eq(2).Text())
		}
		if cells.Length() > 3 {
			r.trend = strings.TrimSpace(cells.Eq(3).Text())
		}
		rows = append(rows, r)
	})

	if len(rows) == 0 {
		return nil, fmt.Errorf("mandiboard: no price rows found")
	}

	s.cache.Set(s.baseURL, rows)
	return rows, nil
}

// parsePrice extracts a positive rupee amount from a table cell like
// "₹ 2,150.00 / quintal".
func parsePrice(cell string) (float64, bool) {
	m := rupeeAmount.FindString(cell)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// parseTrend maps a table trend cell to a Trend, defaulting to stable.
func parseTrend(cell string) models.Trend {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "up", "rising", "increasing":
		return models.TrendIncreasing
	case "down", "falling", "decreasing":
		return models.TrendDecreasing
	default:
		return models.TrendStable
	}
}

// Ping verifies the price page is reachable.
func (s *Source) Ping(ctx context.Context) error {
	body, _, err := infra.DoGet(ctx, s.baseURL, nil)
	if err != nil {
		return fmt.Errorf("mandiboard ping: %w", err)
	}
	body.Close()
	return nil
}

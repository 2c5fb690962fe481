// Package agmarknet implements the Agmarknet (Government of India)
// commodity price API source. It is the highest-priority source in the
// chain. Docs: https://agmarknet.gov.in
package agmarknet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/agrisage/mandiwatch/internal/infra"
	"github.com/agrisage/mandiwatch/internal/source"
	"github.com/agrisage/mandiwatch/pkg/models"
)

// DefaultBaseURL is the Agmarknet commodity price endpoint.
const DefaultBaseURL = "https://agmarknet.gov.in/api/price/commodity"

// commodityCodes maps commodity names to Agmarknet commodity codes.
// Commodities outside this table are not served by Agmarknet.
var commodityCodes = map[string]string{
	"Rice":      "1101",
	"Wheat":     "1102",
	"Maize":     "1103",
	"Sugarcane": "1104",
	"Cotton":    "1105",
	"Soybean":   "1106",
	"Groundnut": "1107",
	"Potato":    "1108",
	"Onion":     "1109",
	"Tomato":    "1110",
}

// Source fetches prices from the Agmarknet API.
type Source struct {
	baseURL string
	cache   *infra.Cache
	limiter *infra.RateLimiter
}

// New creates an Agmarknet source. An empty baseURL uses the default.
func New(baseURL string) *Source {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Source{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		cache:   infra.NewCache(5 * time.Minute),
		limiter: infra.NewRateLimiter(5, time.Second),
	}
}

// Name returns the source name.
func (s *Source) Name() string { return "agmarknet" }

// priceResponse mirrors the Agmarknet payload. Prices arrive newest
// first; the price field is sometimes a quoted number.
type priceResponse struct {
	Price []struct {
		Price  json.Number `json:"price"`
		Market string      `json:"market"`
	} `json:"price"`
}

// Fetch retrieves the latest mandi price for a commodity. Commodities
// without an Agmarknet code miss with ErrNoData.
func (s *Source) Fetch(ctx context.Context, commodity string, loc models.Location) (*models.CommodityPrice, error) {
	code, ok := commodityCodes[commodity]
	if !ok {
		return nil, fmt.Errorf("agmarknet: %s: %w", commodity, source.ErrNoData)
	}

	cacheKey := code + ":" + loc.State
	if cached, ok := s.cache.Get(cacheKey); ok {
		p := cached.(models.CommodityPrice)
		return &p, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, _, err := infra.DoGet(ctx, s.baseURL+"/"+code, nil)
	if err != nil {
		return nil, fmt.Errorf("agmarknet %s: %w", commodity, err)
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("agmarknet %s: read: %w", commodity, err)
	}

	var resp priceResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("agmarknet %s: parse: %w", commodity, err)
	}
	if len(resp.Price) == 0 {
		return nil, fmt.Errorf("agmarknet: %s: %w", commodity, source.ErrNoData)
	}

	latest := resp.Price[0]
	value, err := latest.Price.Float64()
	if err != nil {
		return nil, fmt.Errorf("agmarknet %s: malformed price %q", commodity, latest.Price)
	}

	marketLoc := latest.Market
	if marketLoc == "" {
		marketLoc = loc.State
	}

	price := models.CommodityPrice{
		Commodity:      commodity,
		CurrentPrice:   value,
		Trend:          models.TrendStable, // a single quote carries no direction
		MarketLocation: marketLoc,
		Source:         s.Name(),
		Date:           time.Now(),
	}

	s.cache.Set(cacheKey, price)
	return &price, nil
}

// Ping verifies connectivity to the Agmarknet API.
func (s *Source) Ping(ctx context.Context) error {
	body, _, err := infra.DoGet(ctx, s.baseURL+"/"+commodityCodes["Rice"], nil)
	if err != nil {
		return fmt.Errorf("agmarknet ping: %w", err)
	}
	body.Close()
	return nil
}

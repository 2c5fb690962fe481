// Package synthetic generates plausible commodity prices and trend
// histories from catalog baselines. It is the terminal fallback of the
// price source chain: deterministic shape, bounded randomness, and a
// hard price floor.
package synthetic

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/agrisage/mandiwatch/internal/catalog"
	"github.com/agrisage/mandiwatch/internal/market"
	"github.com/agrisage/mandiwatch/pkg/models"
)

// ErrCommodityNotFound is returned by TrendHistory for commodities
// absent from the catalog.
var ErrCommodityNotFound = fmt.Errorf("commodity not found in catalog")

const (
	// SourceName labels prices produced by this package.
	SourceName = "synthetic"

	// DefaultTrendDays is the history length when the caller passes 0.
	DefaultTrendDays = 30

	maxVariation   = 0.10 // current price varies within ±10% of baseline
	priceFloorFrac = 0.5  // no generated price goes below half the baseline
)

// Generator produces synthetic prices. Safe for concurrent use.
type Generator struct {
	catalog *catalog.Catalog
	now     func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a generator seeded from the clock.
func New(cat *catalog.Catalog) *Generator {
	return NewSeeded(cat, time.Now().UnixNano())
}

// NewSeeded creates a generator with a fixed seed so tests can assert
// exact bounds without flakiness.
func NewSeeded(cat *catalog.Catalog, seed int64) *Generator {
	return &Generator{
		catalog: cat,
		now:     time.Now,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// CurrentPrice generates a plausible spot price for a commodity at the
// given location. Unknown commodities fall back to the default catalog
// entry, so this never fails.
func (g *Generator) CurrentPrice(commodity string, loc models.Location) models.CommodityPrice {
	e := g.catalog.EntryOrDefault(commodity, loc.State)

	variation := e.Baseline * maxVariation
	price := e.Baseline + g.uniform(-variation, variation)

	return models.CommodityPrice{
		Commodity:      commodity,
		CurrentPrice:   round2(price),
		Trend:          e.Trend,
		MarketLocation: market.Resolve(loc, e.Markets),
		Unit:           e.Unit,
		Source:         SourceName,
		Date:           g.now(),
	}
}

// TrendHistory generates a price history of the given length, shaped by
// the commodity's catalog trend. Day index i represents days-i days
// before now. Every price is floored at half the baseline.
func (g *Generator) TrendHistory(commodity string, days int) (*models.TrendReport, error) {
	e, ok := g.catalog.Entry(commodity)
	if !ok {
		return nil, fmt.Errorf("%q: %w", commodity, ErrCommodityNotFound)
	}
	if days <= 0 {
		days = DefaultTrendDays
	}

	now := g.now()
	floor := e.Baseline * priceFloorFrac
	points := make([]models.PricePoint, 0, days)

	for i := 0; i < days; i++ {
		fi := float64(i)
		var price float64
		switch e.Trend {
		case models.TrendIncreasing:
			price = e.Baseline + 15*fi + 0.5*fi*fi
		case models.TrendDecreasing:
			price = e.Baseline - 8*fi + 0.2*fi*fi
		default: // stable: gentle zig-zag around the baseline
			if i%2 == 0 {
				price = e.Baseline + 5*fi
			} else {
				price = e.Baseline - 3*fi
			}
		}
		if price < floor {
			price = floor
		}
		points = append(points, models.PricePoint{
			Date:  now.AddDate(0, 0, -(days - i)).Format("2006-01-02"),
			Price: price,
		})
	}

	return &models.TrendReport{
		Commodity:    commodity,
		Trend:        e.Trend,
		PriceHistory: points,
		CurrentPrice: e.Baseline,
		PriceChange:  points[len(points)-1].Price - points[0].Price,
		Source:       SourceName,
	}, nil
}

// uniform returns a random float in [min, max).
func (g *Generator) uniform(min, max float64) float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return min + g.rng.Float64()*(max-min)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

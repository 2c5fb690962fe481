package source

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agrisage/mandiwatch/internal/catalog"
	"github.com/agrisage/mandiwatch/internal/synthetic"
	"github.com/agrisage/mandiwatch/pkg/models"
)

// Chain resolves commodity prices by trying an ordered list of external
// sources and falling back to synthetic generation. It holds no mutable
// state after construction and is safe for concurrent use.
type Chain struct {
	sources []Source
	synth   *synthetic.Generator
	catalog *catalog.Catalog
	timeout time.Duration // per source attempt
	limit   int           // max concurrent commodity resolutions
}

// Option configures a Chain.
type Option func(*Chain)

// WithTimeout sets the per-attempt source timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Chain) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithConcurrency caps how many commodities are resolved in parallel.
func WithConcurrency(n int) Option {
	return func(c *Chain) {
		if n > 0 {
			c.limit = n
		}
	}
}

// NewChain creates a price chain over the given sources, in priority
// order (government source first).
func NewChain(cat *catalog.Catalog, synth *synthetic.Generator, sources []Source, opts ...Option) *Chain {
	c := &Chain{
		sources: sources,
		synth:   synth,
		catalog: cat,
		timeout: 10 * time.Second,
		limit:   5,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sources returns the configured sources in priority order.
func (c *Chain) Sources() []Source {
	out := make([]Source, len(c.sources))
	copy(out, c.sources)
	return out
}

// GetPrices resolves exactly one CommodityPrice per requested
// commodity. A nil or empty commodity list means every commodity in the
// catalog, in canonical order. Commodities resolve concurrently; the
// returned slice matches the input order. The batch never fails: worst
// case every entry is synthetic.
func (c *Chain) GetPrices(ctx context.Context, loc models.Location, commodities []string) []models.CommodityPrice {
	if len(commodities) == 0 {
		commodities = c.catalog.Commodities()
	}

	results := make([]models.CommodityPrice, len(commodities))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.limit)
	for i, commodity := range commodities {
		g.Go(func() error {
			results[i] = c.resolveOne(gctx, commodity, loc)
			return nil
		})
	}
	_ = g.Wait() // resolveOne never returns an error

	return results
}

// resolveOne runs the per-commodity pipeline: each source in order,
// then synthetic. Panics are converted to the synthetic fallback so a
// misbehaving source cannot fail the batch.
func (c *Chain) resolveOne(ctx context.Context, commodity string, loc models.Location) (price models.CommodityPrice) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("source chain: panic resolving %s: %v (using synthetic)", commodity, r)
			price = c.synth.CurrentPrice(commodity, loc)
		}
	}()

	for _, src := range c.sources {
		p, err := c.attempt(ctx, src, commodity, loc)
		if err != nil {
			if !errors.Is(err, ErrNoData) {
				log.Printf("source chain: %s failed for %s: %v", src.Name(), commodity, err)
			}
			continue
		}
		if p == nil || p.CurrentPrice < 0 || !p.Trend.Valid() {
			log.Printf("source chain: %s returned malformed price for %s", src.Name(), commodity)
			continue
		}

		out := *p
		if out.Source == "" {
			out.Source = src.Name()
		}
		if out.Date.IsZero() {
			out.Date = time.Now()
		}
		return out
	}

	return c.synth.CurrentPrice(commodity, loc)
}

// attempt runs a single source fetch under its own timeout. A timed-out
// attempt is abandoned, never retried within the same request.
func (c *Chain) attempt(ctx context.Context, src Source, commodity string, loc models.Location) (*models.CommodityPrice, error) {
	sctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return src.Fetch(sctx, commodity, loc)
}

// Package agrifeeds extracts commodity prices from agricultural
// department RSS bulletins. Lowest-priority external source: feeds lag
// the mandis by hours, but they survive API outages.
package agrifeeds

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/agrisage/mandiwatch/internal/infra"
	"github.com/agrisage/mandiwatch/internal/source"
	"github.com/agrisage/mandiwatch/pkg/models"
)

// maxBulletinAge bounds how stale a feed item may be and still count
// as a current price.
const maxBulletinAge = 7 * 24 * time.Hour

// Source parses price bulletins from RSS feeds.
type Source struct {
	feedURLs []string
	parser   *gofeed.Parser
	cache    *infra.Cache
	limiter  *infra.RateLimiter
}

// New creates an RSS bulletin source over the given feed URLs.
func New(feedURLs []string) *Source {
	p := gofeed.NewParser()
	p.UserAgent = infra.DefaultUserAgent
	return &Source{
		feedURLs: feedURLs,
		parser:   p,
		cache:    infra.NewCache(10 * time.Minute),
		limiter:  infra.NewRateLimiter(2, time.Second),
	}
}

// Name returns the source name.
func (s *Source) Name() string { return "agrifeeds" }

// priceMention matches "Rs 2,150", "Rs. 2150.50", or "₹2150" following
// a commodity mention, with an optional "at <market> mandi" tail.
var (
	amountPattern = `(?:Rs\.?|₹|INR)\s*([0-9][0-9,]*(?:\.[0-9]+)?)`
	marketPattern = regexp.MustCompile(`(?i)\bat\s+([A-Za-z ]+?)\s+mandi\b`)
)

// Fetch scans the configured feeds for a recent bulletin quoting the
// commodity's price.
func (s *Source) Fetch(ctx context.Context, commodity string, loc models.Location) (*models.CommodityPrice, error) {
	re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(commodity) + `\b[^.]*?` + amountPattern)
	if err != nil {
		return nil, fmt.Errorf("agrifeeds: bad commodity pattern: %w", err)
	}

	for _, url := range s.feedURLs {
		feed, err := s.loadFeed(ctx, url)
		if err != nil {
			// One dead feed must not hide prices in the next.
			continue
		}

		for _, item := range feed.Items {
			if item.PublishedParsed != nil && time.Since(*item.PublishedParsed) > maxBulletinAge {
				continue
			}
			text := item.Title
			if item.Description != "" {
				text += " " + item.Description
			}

			m := re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
			if err != nil || value < 0 {
				continue
			}

			marketLoc := loc.State
			if mm := marketPattern.FindStringSubmatch(text); mm != nil {
				marketLoc = strings.TrimSpace(mm[1])
			}

			date := time.Now()
			if item.PublishedParsed != nil {
				date = *item.PublishedParsed
			}

			return &models.CommodityPrice{
				Commodity:      commodity,
				CurrentPrice:   value,
				Trend:          models.TrendStable,
				MarketLocation: marketLoc,
				Source:         s.Name(),
				Date:           date,
			}, nil
		}
	}

	return nil, fmt.Errorf("agrifeeds: %s: %w", commodity, source.ErrNoData)
}

// loadFeed fetches and parses one feed, cached per URL.
func (s *Source) loadFeed(ctx context.Context, url string) (*gofeed.Feed, error) {
	if cached, ok := s.cache.Get(url); ok {
		return cached.(*gofeed.Feed), nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	feed, err := s.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("agrifeeds: %s: %w", url, err)
	}

	s.cache.Set(url, feed)
	return feed, nil
}

// Ping verifies the first configured feed parses.
func (s *Source) Ping(ctx context.Context) error {
	if len(s.feedURLs) == 0 {
		return fmt.Errorf("agrifeeds ping: no feeds configured")
	}
	_, err := s.loadFeed(ctx, s.feedURLs[0])
	return err
}

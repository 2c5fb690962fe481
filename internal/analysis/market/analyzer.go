// Package market derives aggregate market conditions from a batch of
// resolved commodity prices: sentiment, trend distribution, best and
// worst performers, and a planting recommendation.
package market

import (
	"fmt"
	"math"

	"github.com/agrisage/mandiwatch/pkg/models"
)

// ErrNoPrices is returned when analysis is requested over an empty
// batch. Callers surface it as an explicit "no data" result.
var ErrNoPrices = fmt.Errorf("no price data available")

// Sentiment flips away from Neutral when one trend exceeds this share
// of the batch.
const sentimentThresholdPct = 60.0

// The three fixed recommendation messages.
const (
	recUpward    = "Market is showing strong upward trends - good time for planting high-value crops"
	recDeclining = "Market is declining - consider diversifying or focusing on staple crops"
	recStable    = "Market is stable - focus on crops with consistent demand"
)

// Analyze computes a MarketSummary over a non-empty price batch.
// Deterministic: performer ties break on first occurrence in input
// order, and the trend distribution always sums to len(prices).
func Analyze(prices []models.CommodityPrice) (*models.MarketSummary, error) {
	if len(prices) == 0 {
		return nil, ErrNoPrices
	}

	dist := map[models.Trend]int{
		models.TrendIncreasing: 0,
		models.TrendDecreasing: 0,
		models.TrendStable:     0,
	}

	total := 0.0
	best, worst := prices[0], prices[0]
	for _, p := range prices {
		t := p.Trend
		if !t.Valid() {
			t = models.TrendStable
		}
		dist[t]++
		total += p.CurrentPrice

		if p.CurrentPrice > best.CurrentPrice {
			best = p
		}
		if p.CurrentPrice < worst.CurrentPrice {
			worst = p
		}
	}

	n := len(prices)
	inc, dec := dist[models.TrendIncreasing], dist[models.TrendDecreasing]

	return &models.MarketSummary{
		Sentiment:         sentiment(inc, dec, n),
		AveragePrice:      math.Round(total/float64(n)*100) / 100,
		TrendDistribution: dist,
		BestPerforming:    models.Performer{Commodity: best.Commodity, Price: best.CurrentPrice, Trend: best.Trend},
		WorstPerforming:   models.Performer{Commodity: worst.Commodity, Price: worst.CurrentPrice, Trend: worst.Trend},
		Recommendation:    recommendation(inc, dec, n),
	}, nil
}

// sentiment labels the batch Bullish or Bearish when more than 60% of
// entries trend one way.
func sentiment(inc, dec, total int) models.Sentiment {
	incPct := float64(inc) / float64(total) * 100
	decPct := float64(dec) / float64(total) * 100
	switch {
	case incPct > sentimentThresholdPct:
		return models.SentimentBullish
	case decPct > sentimentThresholdPct:
		return models.SentimentBearish
	default:
		return models.SentimentNeutral
	}
}

// recommendation picks one of the three fixed messages by thresholding
// trend counts against 0.6 of the batch size.
func recommendation(inc, dec, total int) string {
	switch {
	case float64(inc) > float64(total)*0.6:
		return recUpward
	case float64(dec) > float64(total)*0.6:
		return recDeclining
	default:
		return recStable
	}
}

package models

import "time"

// Trend classifies the qualitative direction of a commodity price.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// Valid reports whether t is one of the three known trend values.
func (t Trend) Valid() bool {
	switch t {
	case TrendIncreasing, TrendDecreasing, TrendStable:
		return true
	}
	return false
}

// CommodityPrice is a single resolved market price for a commodity.
// Instances are immutable once constructed and live only for the
// duration of a request.
type CommodityPrice struct {
	Commodity      string    `json:"commodity"`
	CurrentPrice   float64   `json:"current_price"`
	Trend          Trend     `json:"price_trend"`
	MarketLocation string    `json:"market_location"`
	Unit           string    `json:"unit,omitempty"` // e.g., "quintal", "kg"
	Source         string    `json:"source,omitempty"`
	Date           time.Time `json:"date"`
}

// PricePoint is one day in a generated or observed price history.
type PricePoint struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Price float64 `json:"price"`
}

// TrendReport is the synthetic price history for a single commodity.
type TrendReport struct {
	Commodity    string       `json:"commodity"`
	Trend        Trend        `json:"trend"`
	PriceHistory []PricePoint `json:"price_history"`
	CurrentPrice float64      `json:"current_price"` // catalog baseline
	PriceChange  float64      `json:"price_change"`  // last minus first point
	Source       string       `json:"source,omitempty"`
}

// Sentiment is the aggregate qualitative market mood for a price batch.
type Sentiment string

const (
	SentimentBullish Sentiment = "Bullish"
	SentimentBearish Sentiment = "Bearish"
	SentimentNeutral Sentiment = "Neutral"
)

// Performer identifies the best or worst priced commodity in a batch.
type Performer struct {
	Commodity string  `json:"commodity"`
	Price     float64 `json:"price"`
	Trend     Trend   `json:"trend"`
}

// MarketSummary is the derived aggregate over a batch of prices.
// Recomputed fresh per analysis call; never persisted.
type MarketSummary struct {
	Sentiment         Sentiment     `json:"market_sentiment"`
	AveragePrice      float64       `json:"average_price"`
	TrendDistribution map[Trend]int `json:"trend_distribution"`
	BestPerforming    Performer     `json:"best_performing"`
	WorstPerforming   Performer     `json:"worst_performing"`
	Recommendation    string        `json:"market_recommendation"`
}

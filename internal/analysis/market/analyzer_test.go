package market

import (
	"errors"
	"testing"

	"github.com/agrisage/mandiwatch/pkg/models"
)

func price(commodity string, p float64, trend models.Trend) models.CommodityPrice {
	return models.CommodityPrice{Commodity: commodity, CurrentPrice: p, Trend: trend}
}

func TestAnalyzeEmptyBatch(t *testing.T) {
	_, err := Analyze(nil)
	if !errors.Is(err, ErrNoPrices) {
		t.Errorf("err = %v, want ErrNoPrices", err)
	}
}

func TestAnalyzeBullish(t *testing.T) {
	// 4 of 5 increasing: 80% > 60% threshold.
	prices := []models.CommodityPrice{
		price("Wheat", 2000, models.TrendIncreasing),
		price("Rice", 2100, models.TrendIncreasing),
		price("Cotton", 6500, models.TrendIncreasing),
		price("Onion", 2500, models.TrendIncreasing),
		price("Potato", 1200, models.TrendDecreasing),
	}

	summary, err := Analyze(prices)
	if err != nil {
		t.Fatal(err)
	}

	if summary.Sentiment != models.SentimentBullish {
		t.Errorf("Sentiment = %q, want Bullish", summary.Sentiment)
	}
	if summary.Recommendation != recUpward {
		t.Errorf("Recommendation = %q, want the upward message", summary.Recommendation)
	}
	if summary.AveragePrice != 2860 {
		t.Errorf("AveragePrice = %.2f, want 2860", summary.AveragePrice)
	}
	if summary.BestPerforming.Commodity != "Cotton" {
		t.Errorf("BestPerforming = %q, want Cotton", summary.BestPerforming.Commodity)
	}
	if summary.WorstPerforming.Commodity != "Potato" {
		t.Errorf("WorstPerforming = %q, want Potato", summary.WorstPerforming.Commodity)
	}
}

func TestAnalyzeBearish(t *testing.T) {
	prices := []models.CommodityPrice{
		price("Soybean", 4600, models.TrendDecreasing),
		price("Potato", 1200, models.TrendDecreasing),
		price("Tomato", 1600, models.TrendDecreasing),
		price("Wheat", 2000, models.TrendIncreasing),
	}

	summary, err := Analyze(prices)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Sentiment != models.SentimentBearish {
		t.Errorf("Sentiment = %q, want Bearish (75%% decreasing)", summary.Sentiment)
	}
	if summary.Recommendation != recDeclining {
		t.Errorf("Recommendation = %q, want the declining message", summary.Recommendation)
	}
}

func TestAnalyzeNeutralAtExactThreshold(t *testing.T) {
	// Exactly 60% increasing: threshold is strict, so still Neutral.
	prices := []models.CommodityPrice{
		price("Wheat", 2000, models.TrendIncreasing),
		price("Rice", 2100, models.TrendIncreasing),
		price("Cotton", 6500, models.TrendIncreasing),
		price("Potato", 1200, models.TrendDecreasing),
		price("Maize", 1800, models.TrendStable),
	}

	summary, err := Analyze(prices)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Sentiment != models.SentimentNeutral {
		t.Errorf("Sentiment = %q, want Neutral at exactly 60%%", summary.Sentiment)
	}
	if summary.Recommendation != recStable {
		t.Errorf("Recommendation = %q, want the stable message", summary.Recommendation)
	}
}

func TestAnalyzeDistributionSumsToLen(t *testing.T) {
	prices := []models.CommodityPrice{
		price("Wheat", 2000, models.TrendIncreasing),
		price("Rice", 2100, "garbled"),
		price("Maize", 1800, models.TrendStable),
	}

	summary, err := Analyze(prices)
	if err != nil {
		t.Fatal(err)
	}

	sum := 0
	for _, n := range summary.TrendDistribution {
		sum += n
	}
	if sum != len(prices) {
		t.Errorf("distribution sums to %d, want %d", sum, len(prices))
	}
	if summary.TrendDistribution[models.TrendStable] != 2 {
		t.Errorf("invalid trend should count as stable, got %d stable", summary.TrendDistribution[models.TrendStable])
	}
	if len(summary.TrendDistribution) != 3 {
		t.Errorf("distribution has %d keys, want all 3 trends present", len(summary.TrendDistribution))
	}
}

func TestAnalyzeSingleEntry(t *testing.T) {
	summary, err := Analyze([]models.CommodityPrice{price("Wheat", 2000, models.TrendStable)})
	if err != nil {
		t.Fatal(err)
	}
	if summary.BestPerforming.Commodity != "Wheat" || summary.WorstPerforming.Commodity != "Wheat" {
		t.Error("single entry should be both best and worst performer")
	}
	if summary.AveragePrice != 2000 {
		t.Errorf("AveragePrice = %.2f, want 2000", summary.AveragePrice)
	}
}

func TestAnalyzePerformerTiesBreakOnFirstOccurrence(t *testing.T) {
	prices := []models.CommodityPrice{
		price("Wheat", 2000, models.TrendStable),
		price("Rice", 2000, models.TrendStable),
	}

	summary, err := Analyze(prices)
	if err != nil {
		t.Fatal(err)
	}
	if summary.BestPerforming.Commodity != "Wheat" {
		t.Errorf("BestPerforming = %q, want Wheat (first occurrence)", summary.BestPerforming.Commodity)
	}
	if summary.WorstPerforming.Commodity != "Wheat" {
		t.Errorf("WorstPerforming = %q, want Wheat (first occurrence)", summary.WorstPerforming.Commodity)
	}
}

func TestAnalyzeAverageRounded(t *testing.T) {
	prices := []models.CommodityPrice{
		price("Wheat", 1000, models.TrendStable),
		price("Rice", 1000.01, models.TrendStable),
		price("Maize", 1000.01, models.TrendStable),
	}

	summary, err := Analyze(prices)
	if err != nil {
		t.Fatal(err)
	}
	if summary.AveragePrice != 1000.01 {
		t.Errorf("AveragePrice = %v, want 1000.01 (rounded to 2 decimals)", summary.AveragePrice)
	}
}

package models

import (
	"encoding/json"
	"testing"
)

func TestTrendValid(t *testing.T) {
	for _, trend := range []Trend{TrendIncreasing, TrendDecreasing, TrendStable} {
		if !trend.Valid() {
			t.Errorf("%q should be valid", trend)
		}
	}
	for _, trend := range []Trend{"", "sideways", "INCREASING"} {
		if trend.Valid() {
			t.Errorf("%q should be invalid", trend)
		}
	}
}

func TestCommodityPriceJSONShape(t *testing.T) {
	data, err := json.Marshal(CommodityPrice{
		Commodity:      "Wheat",
		CurrentPrice:   2000,
		Trend:          TrendIncreasing,
		MarketLocation: "Delhi",
	})
	if err != nil {
		t.Fatal(err)
	}

	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if m["price_trend"] != "increasing" {
		t.Errorf("price_trend = %v, want increasing", m["price_trend"])
	}
	if m["market_location"] != "Delhi" {
		t.Errorf("market_location = %v, want Delhi", m["market_location"])
	}
	if _, ok := m["unit"]; ok {
		t.Error("empty unit should be omitted")
	}
}

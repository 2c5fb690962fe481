package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agrisage/mandiwatch/internal/agridata"
	"github.com/agrisage/mandiwatch/internal/catalog"
	"github.com/agrisage/mandiwatch/internal/config"
	"github.com/agrisage/mandiwatch/internal/source"
	"github.com/agrisage/mandiwatch/internal/synthetic"
	"github.com/agrisage/mandiwatch/pkg/models"
)

func testServer() *Server {
	cat := catalog.New(map[string]catalog.Entry{
		"Wheat": {Baseline: 2000, Trend: models.TrendIncreasing, Markets: []string{"Delhi"}, Unit: "quintal"},
		"Rice":  {Baseline: 2100, Trend: models.TrendIncreasing, Markets: []string{"Delhi"}, Unit: "quintal"},
		"Onion": {Baseline: 2500, Trend: models.TrendIncreasing, Markets: []string{"Mumbai"}, Unit: "quintal"},
	})
	crops := agridata.New(map[string]models.CropInfo{
		"Wheat": {
			TemperatureRange:    [2]float64{10, 25},
			RainfallRequirement: [2]float64{300, 900},
			HumidityRequirement: [2]float64{50, 70},
			Seasons:             []models.Season{models.SeasonRabi},
		},
	})
	synth := synthetic.NewSeeded(cat, 1)
	chain := source.NewChain(cat, synth, nil)

	cfg := &config.Config{}
	cfg.API.CORSOrigins = []string{"*"}
	return NewServer(cfg, cat, crops, chain, synth)
}

func doRequest(t *testing.T, method, path string, body []byte) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()

	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	rec := httptest.NewRecorder()
	testServer().Router().ServeHTTP(rec, req)

	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return rec, resp
}

func TestHealth(t *testing.T) {
	rec, resp := doRequest(t, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !resp.Success {
		t.Error("Success should be true")
	}
}

func TestCommodities(t *testing.T) {
	rec, resp := doRequest(t, http.MethodGet, "/api/v1/commodities", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	names, ok := resp.Data.([]interface{})
	if !ok {
		t.Fatalf("Data = %T, want a list", resp.Data)
	}
	want := []string{"Onion", "Rice", "Wheat"}
	if len(names) != len(want) {
		t.Fatalf("got %d commodities, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("commodities[%d] = %v, want %q", i, names[i], want[i])
		}
	}
}

func TestPrices(t *testing.T) {
	rec, resp := doRequest(t, http.MethodGet, "/api/v1/prices?state=Maharashtra&commodities=Wheat,Rice", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	prices, ok := resp.Data.([]interface{})
	if !ok || len(prices) != 2 {
		t.Fatalf("Data = %v, want 2 prices", resp.Data)
	}
	first := prices[0].(map[string]interface{})
	if first["commodity"] != "Wheat" {
		t.Errorf("first commodity = %v, want Wheat (input order)", first["commodity"])
	}
	if first["market_location"] != "Mumbai" {
		t.Errorf("market_location = %v, want Mumbai for Maharashtra", first["market_location"])
	}
	if first["source"] != "synthetic" {
		t.Errorf("source = %v, want synthetic (no external sources wired)", first["source"])
	}
}

func TestPricesWholeCatalog(t *testing.T) {
	_, resp := doRequest(t, http.MethodGet, "/api/v1/prices", nil)
	prices, ok := resp.Data.([]interface{})
	if !ok || len(prices) != 3 {
		t.Fatalf("got %v, want all 3 catalog commodities", resp.Data)
	}
}

func TestTrend(t *testing.T) {
	rec, resp := doRequest(t, http.MethodGet, "/api/v1/trend/Wheat?days=7", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	report := resp.Data.(map[string]interface{})
	history := report["price_history"].([]interface{})
	if len(history) != 7 {
		t.Errorf("history length = %d, want 7", len(history))
	}
	if report["trend"] != "increasing" {
		t.Errorf("trend = %v, want increasing", report["trend"])
	}
}

func TestTrendUnknownCommodity(t *testing.T) {
	rec, resp := doRequest(t, http.MethodGet, "/api/v1/trend/Dragonfruit", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if resp.Success {
		t.Error("Success should be false")
	}
}

func TestTrendBadDays(t *testing.T) {
	for _, days := range []string{"zero", "0", "-7", "366", "2000000000"} {
		rec, _ := doRequest(t, http.MethodGet, "/api/v1/trend/Wheat?days="+days, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("days=%s: status = %d, want 400", days, rec.Code)
		}
	}
}

func TestTrendMaxDays(t *testing.T) {
	rec, resp := doRequest(t, http.MethodGet, "/api/v1/trend/Wheat?days=365", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	report := resp.Data.(map[string]interface{})
	if history := report["price_history"].([]interface{}); len(history) != 365 {
		t.Errorf("history length = %d, want 365", len(history))
	}
}

func TestAnalysis(t *testing.T) {
	body := []byte(`{"state": "Delhi", "commodities": ["Wheat", "Rice", "Onion"]}`)
	rec, resp := doRequest(t, http.MethodPost, "/api/v1/analysis", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	data := resp.Data.(map[string]interface{})
	summary := data["summary"].(map[string]interface{})
	// All three catalog entries trend increasing: 100% > 60%.
	if summary["market_sentiment"] != "Bullish" {
		t.Errorf("market_sentiment = %v, want Bullish", summary["market_sentiment"])
	}
	if !strings.Contains(summary["market_recommendation"].(string), "upward") {
		t.Errorf("market_recommendation = %v, want the upward message", summary["market_recommendation"])
	}
	if prices := data["prices"].([]interface{}); len(prices) != 3 {
		t.Errorf("got %d prices, want 3", len(prices))
	}
}

func TestAnalysisBadBody(t *testing.T) {
	rec, _ := doRequest(t, http.MethodPost, "/api/v1/analysis", []byte("{not json"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSuitability(t *testing.T) {
	body := []byte(`{
		"crop": "Wheat", "state": "Punjab",
		"weather": {"temperature": 20, "rainfall": 500, "humidity": 60}
	}`)
	rec, resp := doRequest(t, http.MethodPost, "/api/v1/suitability", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	data := resp.Data.(map[string]interface{})
	if data["score"].(float64) != 1.0 {
		t.Errorf("score = %v, want 1.0", data["score"])
	}
}

func TestSuitabilityOmittedWeatherUsesDefaults(t *testing.T) {
	// The default weather (25°C, 500mm, 60%) sits inside Wheat's ranges,
	// and Wheat is a major crop of Punjab.
	body := []byte(`{"crop": "Wheat", "state": "Punjab"}`)
	rec, resp := doRequest(t, http.MethodPost, "/api/v1/suitability", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	data := resp.Data.(map[string]interface{})
	if data["score"].(float64) != 1.0 {
		t.Errorf("score = %v, want 1.0 with defaulted weather", data["score"])
	}
}

func TestSuitabilityExplicitZeroIsHonored(t *testing.T) {
	// Humidity 0 is 50 below Wheat's range: that factor decays to 0,
	// so the score drops to 3/4. A zero must not be mistaken for an
	// omitted field.
	body := []byte(`{
		"crop": "Wheat", "state": "Punjab",
		"weather": {"temperature": 20, "rainfall": 500, "humidity": 0}
	}`)
	rec, resp := doRequest(t, http.MethodPost, "/api/v1/suitability", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	data := resp.Data.(map[string]interface{})
	if data["score"].(float64) != 0.75 {
		t.Errorf("score = %v, want 0.75 with zero humidity", data["score"])
	}
}

func TestSuitabilityMissingFields(t *testing.T) {
	rec, _ := doRequest(t, http.MethodPost, "/api/v1/suitability", []byte(`{"crop": "Wheat"}`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRegion(t *testing.T) {
	rec, resp := doRequest(t, http.MethodGet, "/api/v1/regions/Punjab", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	region := resp.Data.(map[string]interface{})
	if region["soil_type"] != "alluvial" {
		t.Errorf("soil_type = %v, want alluvial", region["soil_type"])
	}
}

func TestRegionUnknown(t *testing.T) {
	rec, _ := doRequest(t, http.MethodGet, "/api/v1/regions/Atlantis", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestSeasonalCrops(t *testing.T) {
	rec, resp := doRequest(t, http.MethodGet, "/api/v1/crops/seasonal?season=rabi", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	data := resp.Data.(map[string]interface{})
	crops := data["crops"].([]interface{})
	if len(crops) != 1 || crops[0] != "Wheat" {
		t.Errorf("crops = %v, want [Wheat]", crops)
	}
}

func TestSeasonalCropsBadSeason(t *testing.T) {
	rec, _ := doRequest(t, http.MethodGet, "/api/v1/crops/seasonal?season=monsoon", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

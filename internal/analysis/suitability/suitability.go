// Package suitability scores how well a crop fits a location and
// weather context. Pure computation over the agridata reference tables.
package suitability

import (
	"github.com/agrisage/mandiwatch/internal/agridata"
	"github.com/agrisage/mandiwatch/pkg/models"
)

// Linear decay divisors: how quickly each factor falls off per unit of
// distance outside the crop's preferred range.
const (
	temperatureDecay = 10  // °C
	rainfallDecay    = 500 // mm
	humidityDecay    = 20  // percent
)

// Default weather used when a caller omits a reading.
const (
	DefaultTemperature = 25.0  // °C
	DefaultRainfall    = 500.0 // mm
	DefaultHumidity    = 60.0  // percent
)

// Scorer computes crop suitability over a crop database.
type Scorer struct {
	db *agridata.DB
}

// New creates a scorer over the given crop database.
func New(db *agridata.DB) *Scorer {
	return &Scorer{db: db}
}

// Score returns a suitability score in [0, 1] for growing a crop in a
// state under the given weather. Four equally weighted factors:
// temperature, rainfall, and humidity closeness-to-range, plus a
// regional term (1.0 if the crop is a major crop of the state, 0.5
// otherwise, 0 for unknown states). Unknown crops score 0.
func (s *Scorer) Score(crop, state string, w models.WeatherConditions) float64 {
	info, ok := s.db.Crop(crop)
	if !ok {
		return 0
	}

	score := rangeScore(w.Temperature, info.TemperatureRange, temperatureDecay)
	score += rangeScore(w.Rainfall, info.RainfallRequirement, rainfallDecay)
	score += rangeScore(w.Humidity, info.HumidityRequirement, humidityDecay)

	if region, ok := agridata.Region(state); ok {
		if isMajorCrop(crop, region.MajorCrops) {
			score += 1.0
		} else {
			score += 0.5
		}
	}

	return score / 4
}

// rangeScore is 1.0 inside [lo, hi] and decays linearly outside it:
// max(0, 1 - distance/decay).
func rangeScore(v float64, bounds [2]float64, decay float64) float64 {
	lo, hi := bounds[0], bounds[1]
	if lo <= v && v <= hi {
		return 1.0
	}
	diff := v - hi
	if v < lo {
		diff = lo - v
	}
	if score := 1.0 - diff/decay; score > 0 {
		return score
	}
	return 0
}

func isMajorCrop(crop string, major []string) bool {
	for _, m := range major {
		if m == crop {
			return true
		}
	}
	return false
}

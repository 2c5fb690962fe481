// Package agridata holds the static agricultural reference tables:
// per-crop agronomy loaded from JSON, plus fixed regional and seasonal
// tables. All tables are built once at startup and read-only after.
package agridata

import (
	"encoding/json"
	"log"
	"os"
	"sort"

	"github.com/agrisage/mandiwatch/pkg/models"
)

// DB is the immutable crop reference database.
type DB struct {
	crops map[string]models.CropInfo
	names []string
}

// New builds a DB from a crop map.
func New(crops map[string]models.CropInfo) *DB {
	db := &DB{crops: make(map[string]models.CropInfo, len(crops))}
	for name, info := range crops {
		if name == "" {
			continue
		}
		db.crops[name] = info
		db.names = append(db.names, name)
	}
	sort.Strings(db.names)
	return db
}

// Load reads crop data from a JSON file. A missing or malformed file is
// logged and yields an empty DB; suitability queries then score 0.
func Load(path string) *DB {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("agridata: cannot read %s: %v (using empty crop database)", path, err)
		return New(nil)
	}

	var crops map[string]models.CropInfo
	if err := json.Unmarshal(data, &crops); err != nil {
		log.Printf("agridata: cannot parse %s: %v (using empty crop database)", path, err)
		return New(nil)
	}

	return New(crops)
}

// Crop returns the reference data for one crop.
func (db *DB) Crop(name string) (models.CropInfo, bool) {
	info, ok := db.crops[name]
	return info, ok
}

// Crops returns all crop names in sorted order.
func (db *DB) Crops() []string {
	out := make([]string, len(db.names))
	copy(out, db.names)
	return out
}

// SeasonalCrops returns the crops sown in the given season, sorted.
func (db *DB) SeasonalCrops(season models.Season) []string {
	var out []string
	for _, name := range db.names {
		for _, s := range db.crops[name].Seasons {
			if s == season {
				out = append(out, name)
				break
			}
		}
	}
	return out
}

// regions is the fixed per-state agricultural profile table.
var regions = map[string]models.RegionalProfile{
	"Punjab": {
		State: "Punjab", SoilType: models.SoilAlluvial, Climate: "Semi-arid",
		MajorCrops:         []string{"Wheat", "Rice", "Cotton", "Sugarcane"},
		IrrigationCoverage: 95, AverageRainfall: 500,
	},
	"Haryana": {
		State: "Haryana", SoilType: models.SoilAlluvial, Climate: "Semi-arid",
		MajorCrops:         []string{"Wheat", "Rice", "Cotton", "Sugarcane"},
		IrrigationCoverage: 90, AverageRainfall: 600,
	},
	"Uttar Pradesh": {
		State: "Uttar Pradesh", SoilType: models.SoilAlluvial, Climate: "Tropical",
		MajorCrops:         []string{"Wheat", "Rice", "Sugarcane", "Potato"},
		IrrigationCoverage: 70, AverageRainfall: 1000,
	},
	"Maharashtra": {
		State: "Maharashtra", SoilType: models.SoilBlack, Climate: "Tropical",
		MajorCrops:         []string{"Sugarcane", "Cotton", "Soybean", "Onion"},
		IrrigationCoverage: 60, AverageRainfall: 800,
	},
	"Gujarat": {
		State: "Gujarat", SoilType: models.SoilBlack, Climate: "Arid",
		MajorCrops:         []string{"Cotton", "Groundnut", "Wheat", "Onion"},
		IrrigationCoverage: 50, AverageRainfall: 400,
	},
	"Karnataka": {
		State: "Karnataka", SoilType: models.SoilRed, Climate: "Tropical",
		MajorCrops:         []string{"Maize", "Sugarcane", "Tomato", "Onion"},
		IrrigationCoverage: 40, AverageRainfall: 1200,
	},
	"Tamil Nadu": {
		State: "Tamil Nadu", SoilType: models.SoilRed, Climate: "Tropical",
		MajorCrops:         []string{"Rice", "Sugarcane", "Groundnut", "Cotton"},
		IrrigationCoverage: 80, AverageRainfall: 1000,
	},
	"West Bengal": {
		State: "West Bengal", SoilType: models.SoilAlluvial, Climate: "Tropical",
		MajorCrops:         []string{"Rice", "Potato", "Jute", "Tea"},
		IrrigationCoverage: 85, AverageRainfall: 1500,
	},
}

// seasons is the fixed cropping season table.
var seasons = map[models.Season]models.SeasonProfile{
	models.SeasonKharif: {
		Season:          models.SeasonKharif,
		Months:          []string{"June", "July", "August", "September", "October"},
		Description:     "Monsoon season - suitable for crops requiring high rainfall",
		TypicalRainfall: 800, TemperatureRange: [2]float64{25, 35},
	},
	models.SeasonRabi: {
		Season:          models.SeasonRabi,
		Months:          []string{"October", "November", "December", "January", "February", "March"},
		Description:     "Winter season - suitable for crops requiring moderate temperature",
		TypicalRainfall: 200, TemperatureRange: [2]float64{10, 25},
	},
	models.SeasonZaid: {
		Season:          models.SeasonZaid,
		Months:          []string{"March", "April", "May"},
		Description:     "Summer season - suitable for short duration crops",
		TypicalRainfall: 100, TemperatureRange: [2]float64{25, 40},
	},
}

// Region returns the agricultural profile for a state.
func Region(state string) (models.RegionalProfile, bool) {
	r, ok := regions[state]
	return r, ok
}

// SeasonInfo returns the profile for a cropping season.
func SeasonInfo(s models.Season) (models.SeasonProfile, bool) {
	p, ok := seasons[s]
	return p, ok
}

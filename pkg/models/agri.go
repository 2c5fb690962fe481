package models

// Season is an Indian cropping season.
type Season string

const (
	SeasonKharif Season = "kharif" // monsoon sowing, June–October
	SeasonRabi   Season = "rabi"   // winter sowing, October–March
	SeasonZaid   Season = "zaid"   // summer sowing, March–May
)

// SoilType classifies the dominant soil of a region or a crop's preference.
type SoilType string

const (
	SoilAlluvial SoilType = "alluvial"
	SoilBlack    SoilType = "black"
	SoilRed      SoilType = "red"
	SoilLaterite SoilType = "laterite"
	SoilSandy    SoilType = "sandy"
)

// CropInfo holds the agronomic reference data for one crop.
// Ranges are [min, max] pairs.
type CropInfo struct {
	TemperatureRange    [2]float64 `json:"temperature_range"`    // °C
	RainfallRequirement [2]float64 `json:"rainfall_requirement"` // mm
	HumidityRequirement [2]float64 `json:"humidity_requirement"` // percent
	Seasons             []Season   `json:"seasons"`
	SoilTypes           []SoilType `json:"soil_types"`
	GrowingPeriodDays   int        `json:"growing_period_days,omitempty"`
}

// RegionalProfile describes the agricultural character of a state.
type RegionalProfile struct {
	State              string   `json:"state"`
	SoilType           SoilType `json:"soil_type"`
	Climate            string   `json:"climate"`
	MajorCrops         []string `json:"major_crops"`
	IrrigationCoverage float64  `json:"irrigation_coverage"` // percent
	AverageRainfall    float64  `json:"average_rainfall"`    // mm/year
}

// SeasonProfile describes one cropping season.
type SeasonProfile struct {
	Season           Season     `json:"season"`
	Months           []string   `json:"months"`
	Description      string     `json:"description"`
	TypicalRainfall  float64    `json:"typical_rainfall"` // mm
	TemperatureRange [2]float64 `json:"temperature_range"`
}

package models

// Location identifies where a price or suitability request originates.
// Supplied by the caller; read-only input.
type Location struct {
	State    string `json:"state"`
	District string `json:"district,omitempty"`
}

// WeatherConditions are the observed or forecast conditions used by the
// crop suitability scorer.
type WeatherConditions struct {
	Temperature float64 `json:"temperature"` // °C
	Rainfall    float64 `json:"rainfall"`    // mm (seasonal total)
	Humidity    float64 `json:"humidity"`    // percent
}

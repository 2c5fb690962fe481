// Package market maps requesting locations to physical trading markets.
package market

import "github.com/agrisage/mandiwatch/pkg/models"

// stateMarkets is the fixed state → nearest-market table. Neighbouring
// states without a large mandi of their own map to the nearest metro
// market (Haryana → Delhi, Maharashtra → Mumbai).
var stateMarkets = map[string]string{
	"Delhi":          "Delhi",
	"Haryana":        "Delhi",
	"Punjab":         "Punjab",
	"UP":             "UP",
	"Uttar Pradesh":  "UP",
	"Maharashtra":    "Mumbai",
	"Gujarat":        "Gujarat",
	"Karnataka":      "Karnataka",
	"Tamil Nadu":     "Chennai",
	"West Bengal":    "Kolkata",
	"Bihar":          "Bihar",
	"Rajasthan":      "Rajasthan",
	"Madhya Pradesh": "Madhya Pradesh",
	"Andhra Pradesh": "Andhra Pradesh",
	"Telangana":      "Telangana",
	"Kerala":         "Kerala",
	"Odisha":         "Odisha",
	"Assam":          "Assam",
}

// Resolve returns the market closest to the given location. The fixed
// state table wins regardless of knownMarkets; otherwise the first known
// market for the commodity is used, and failing that the state itself.
// Total: always returns a non-empty string for a non-empty state.
func Resolve(loc models.Location, knownMarkets []string) string {
	if m, ok := stateMarkets[loc.State]; ok {
		return m
	}
	if len(knownMarkets) > 0 {
		return knownMarkets[0]
	}
	return loc.State
}

// Package source defines the external commodity price source
// abstraction and the fallback chain that orchestrates them. Sources
// are tried in priority order; every failure is soft, and the chain
// terminates in the synthetic generator so a batch request never fails.
package source

import (
	"context"
	"fmt"

	"github.com/agrisage/mandiwatch/pkg/models"
)

// Source is a single external provider of commodity prices.
//
// Fetch returns the current price for a commodity near the given
// location, or ErrNoData when the source tracks no price for it. The
// chain treats any error — network, timeout, malformed payload — as a
// soft miss and moves on to the next source.
type Source interface {
	// Name returns the human-readable name of this source.
	Name() string

	// Fetch attempts to retrieve a current price.
	Fetch(ctx context.Context, commodity string, loc models.Location) (*models.CommodityPrice, error)
}

// Pinger is implemented by sources that can verify upstream
// connectivity. Used by health checks; optional.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ErrNoData is returned when a source has no price for a commodity.
// This is the expected miss case, not a failure worth logging loudly.
var ErrNoData = fmt.Errorf("no data from source")
